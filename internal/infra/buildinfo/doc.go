// Package buildinfo exposes the version stamped into the countmesh binary.
//
//	go build -ldflags "-X github.com/yndnr/countmesh/internal/infra/buildinfo.Version=v0.3.0 \
//	    -X github.com/yndnr/countmesh/internal/infra/buildinfo.Commit=abc123"
//
// Values left unset fall back to the module's embedded build information.
package buildinfo

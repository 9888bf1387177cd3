// Package output renders countmesh command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text tables, with wide-only columns
//   - json.go: indented JSON
//   - yaml.go: YAML
//   - progress.go: byte progress while reading input files
//
// Table is the default. JSON and YAML are meant for scripts.
package output

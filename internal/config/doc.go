// Package config provides the countmesh configuration.
//
//   - spec.go: Config struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of sizes and enumerations
//   - load.go: Loading through internal/infra/confloader and adapters for
//     the shard set and the batch service
//
// Keys are addressed as section.key (for example table.log_size) in YAML
// files, COUNTMESH_ environment variables and flag overrides.
package config

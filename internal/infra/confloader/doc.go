// Package confloader provides configuration loading mechanism.
//
// Features:
//
//   - Multiple Sources: YAML file, COUNTMESH_ environment variables, flag maps
//   - Watch Support: callbacks when the configuration file changes
//   - Type Safety: Unmarshaling into typed structs with koanf tags
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Default values
package confloader

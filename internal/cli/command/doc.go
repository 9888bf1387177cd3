// Package command defines the countmesh command line.
//
//   - root.go: the app, global flags and their mapping onto config keys
//   - count.go: count keys read from files or stdin
//   - report.go: shaping and printing count results
//   - serve.go: the optional metrics server and config watcher
//   - config.go: show or validate the effective configuration
//   - version.go: build information
//
// Commands load configuration, call into the batch service and hand the
// result to an output.Formatter.
package command

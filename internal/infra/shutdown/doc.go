// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// The count command registers the metrics server and the config watcher as
// hooks, then blocks in Wait until SIGINT or SIGTERM arrives.
package shutdown

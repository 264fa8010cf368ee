// Package watcher polls a running scheduler and prints alarms as they land
// in consumer groups.
package watcher

// Package server runs the alarm scheduler process.
//
// Run loads the configuration, builds the scheduler with its sinks and
// serves three things side by side: the expiry worker, the gRPC API and,
// unless headless, the interactive console. Closing the console input or
// receiving a signal stops all of them.
package server

// Package client implements alarm-ctl, the remote client of the scheduler.
//
// It sends one command line or fetches the consumer groups over gRPC, and
// prints the fired-alarm journal written by the scheduler.
package client

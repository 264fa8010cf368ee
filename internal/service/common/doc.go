// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper for the alarm scheduler with
// call timeouts, and detects the current system actor (hostname/username)
// that is sent along with every call for the server's audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

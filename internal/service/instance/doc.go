// Package instance guards against two schedulers running on one machine.
package instance

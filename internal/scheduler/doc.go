// Package scheduler implements the concurrent scheduling engine.
//
// A Scheduler owns one mutex shared by the Registry (the ordered set of
// pending alarms) and the Dispatcher (the consumer groups). The Worker is
// the single background loop that sleeps until the next due alarm, drains
// every due alarm and routes it to a group in the same critical section, so
// an observer holding the lock sees each alarm in exactly one of the two
// places. Notifications are published to
// a Sink only after the lock has been released.
//
// Commands and the worker race through the lock's total order: a cancel
// that loses against a drain finds nothing and reports ErrNotFound.
package scheduler

// Package alarm contains the core domain type of the scheduler.
//
// An Alarm is a timed notification request identified by a caller-supplied
// id. The package enforces the category and text bounds and offers Clone
// so the engine never leaks its internal pointers.
package alarm

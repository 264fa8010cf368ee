package scheduler

import (
	"context"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// EventKind tells what happened to an alarm.
type EventKind int

const (
	// EventExpired is published when the worker drains a due alarm.
	EventExpired EventKind = iota
	// EventAssigned is published when a newly created alarm is routed
	// to a group (dispatch-on-create mode).
	EventAssigned
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	if k == EventAssigned {
		return "assigned"
	}

	return "expired"
}

// Event is a notification about an alarm leaving the scheduler's hands.
type Event struct {
	// Kind is what happened.
	Kind EventKind
	// Alarm is a copy of the alarm at the time of the event.
	Alarm alarm.Alarm
	// Assignment is set when the alarm was routed to a group as part of the event.
	Assignment *Assignment
	// At is when the event happened.
	At time.Time
}

// Sink receives events. Notify is never called while the scheduler lock is held.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// Sinks fans an event out to every member in order.
type Sinks []Sink

// Notify implements Sink.
func (s Sinks) Notify(ctx context.Context, event Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Notify(ctx, event)
		}
	}
}

// LogSink writes every event as a structured log entry.
type LogSink struct{}

// Notify implements Sink.
func (LogSink) Notify(ctx context.Context, event Event) {
	kvs := []any{
		"alarm_id", event.Alarm.ID,
		"category", event.Alarm.Category,
		"seconds", event.Alarm.Seconds(),
		"text", event.Alarm.Text,
		"due_at", event.Alarm.DueAt.Unix(),
		"at", event.At.Unix(),
	}

	if a := event.Assignment; a != nil {
		kvs = append(kvs, "group_id", a.GroupID, "group_created", a.Created, "slot", a.Slot)
	}

	switch event.Kind {
	case EventAssigned:
		logger.InfoKV(ctx, "Alarm assigned to group", kvs...)
	default:
		logger.InfoKV(ctx, "Alarm expired", kvs...)
	}
}

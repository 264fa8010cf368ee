package scheduler

import (
	"context"
	"runtime"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// Worker is the single background loop that fires due alarms.
type Worker struct {
	// registry is where pending alarms live.
	registry *Registry
	// dispatcher receives drained alarms in dispatch-on-expiry mode.
	dispatcher *Dispatcher
	// sink receives one event per drained alarm.
	sink Sink
	// idle is how long to wait before re-checking an empty registry.
	idle time.Duration
	// route tells whether drained alarms are routed to groups.
	route bool
	// now is the clock used for drain decisions.
	now func() time.Time
}

// Wait blocks until the next alarm may be due.
//
// With an empty registry it waits the idle interval. With an overdue alarm it
// only yields. Otherwise it sleeps until the earliest due time, returning early
// when the registry signals an insert or update. The wait is recomputed on every
// call, so new near-term alarms are never missed.
func (w *Worker) Wait(ctx context.Context) error {
	wait := w.idle

	if next, ok := w.registry.PeekNextDue(); ok {
		wait = next.Sub(w.now())
		if wait <= 0 {
			runtime.Gosched()

			return ctx.Err()
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	case <-w.registry.Wake():
	}

	return nil
}

// Drain removes every due alarm, routes it when dispatching on expiry and
// publishes one event per alarm after the lock is released. Removal and
// routing happen in one critical section, so a drained alarm is always
// visible either in the registry or in a group.
func (w *Worker) Drain(ctx context.Context) []Event {
	now := w.now()

	due, assignments := w.drainAndRoute(now)
	if len(due) == 0 {
		return nil
	}

	events := make([]Event, 0, len(due))

	for i, a := range due {
		event := Event{
			Kind:  EventExpired,
			Alarm: *a,
			At:    now,
		}

		if assignments != nil {
			event.Assignment = &assignments[i]
		}

		events = append(events, event)
	}

	for _, event := range events {
		w.sink.Notify(ctx, event)
	}

	return events
}

// drainAndRoute takes the lock shared by the registry and the dispatcher once
// for both steps. assignments is nil when drained alarms are not routed.
func (w *Worker) drainAndRoute(now time.Time) (due []*alarm.Alarm, assignments []Assignment) {
	w.registry.mu.Lock()
	defer w.registry.mu.Unlock()

	due = w.registry.drainDueLocked(now)
	if len(due) == 0 || !w.route {
		return due, nil
	}

	assignments = make([]Assignment, 0, len(due))
	for _, a := range due {
		assignments = append(assignments, w.dispatcher.routeLocked(a))
	}

	return due, assignments
}

// Run loops Wait and Drain until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "expiry-worker")

	logger.DebugKV(ctx, "Expiry worker started", "idle_interval", w.idle.String(), "route_on_expiry", w.route)

	for {
		if err := w.Wait(ctx); err != nil {
			logger.Debug(ctx, "Expiry worker stopped")

			return err
		}

		w.Drain(ctx)
	}
}

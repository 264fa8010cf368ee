package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// Scheduler is the explicitly constructed engine context: one lock,
// the registry and dispatcher it protects, and the worker draining them.
type Scheduler struct {
	// mu is shared by the registry and the dispatcher.
	mu sync.Mutex
	// registry holds the pending alarms.
	registry *Registry
	// dispatcher holds the consumer groups.
	dispatcher *Dispatcher
	// worker fires due alarms.
	worker *Worker
	// sink receives every event.
	sink Sink
	// dispatchOnCreate routes alarms when they are created instead of when they expire.
	dispatchOnCreate bool
	// now is the engine clock.
	now func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSink sets the sink that receives events.
func WithSink(sink Sink) Option {
	return func(s *Scheduler) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a scheduler from the scheduler section of the configuration.
func New(cfg config.Scheduler, opts ...Option) (*Scheduler, error) {
	ordering, err := ParseOrdering(cfg.Ordering)
	if err != nil {
		return nil, err
	}

	var dispatchOnCreate bool

	switch cfg.DispatchOn {
	case "", config.DispatchOnExpiry:
	case config.DispatchOnCreate:
		dispatchOnCreate = true
	default:
		return nil, fmt.Errorf("unknown dispatch moment %q", cfg.DispatchOn)
	}

	idle := cfg.IdleInterval
	if idle <= 0 {
		idle = config.DefaultIdleInterval
	}

	capacity := cfg.GroupCapacity
	if capacity <= 0 {
		capacity = config.DefaultGroupCapacity
	}

	s := &Scheduler{
		sink:             LogSink{},
		dispatchOnCreate: dispatchOnCreate,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registry = NewRegistry(&s.mu, ordering, s.now)
	s.dispatcher = NewDispatcher(&s.mu, capacity, s.now)
	s.worker = &Worker{
		registry:   s.registry,
		dispatcher: s.dispatcher,
		sink:       s.sink,
		idle:       idle,
		route:      !dispatchOnCreate,
		now:        s.now,
	}

	return s, nil
}

// Create inserts a new alarm. In dispatch-on-create mode it is also routed
// to a consumer group right away and the assignment is returned.
func (s *Scheduler) Create(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, *Assignment) {
	// The worker may drain a zero-duration alarm as soon as the lock is released,
	// so a is not touched after insertion.
	created := s.registry.Insert(a)

	if !s.dispatchOnCreate {
		return created, nil
	}

	assignment := s.dispatcher.Route(created)

	s.sink.Notify(ctx, Event{
		Kind:       EventAssigned,
		Alarm:      *created,
		Assignment: &assignment,
		At:         s.now(),
	})

	return created, &assignment
}

// Change updates the first active alarm with the given id.
func (s *Scheduler) Change(id int, category string, seconds int, text string) (*alarm.Alarm, error) {
	if err := alarm.ValidateSeconds(seconds); err != nil {
		return nil, err
	}

	return s.registry.Update(id, category, time.Duration(seconds)*time.Second, text)
}

// Cancel removes the first active alarm with the given id.
func (s *Scheduler) Cancel(id int) (*alarm.Alarm, error) {
	return s.registry.Cancel(id)
}

// Groups returns the consumer groups in creation order.
func (s *Scheduler) Groups() []GroupSnapshot {
	return s.dispatcher.Groups()
}

// Alarms returns the pending alarms in registry order.
func (s *Scheduler) Alarms() []alarm.Alarm {
	return s.registry.Snapshot()
}

// Now returns the engine clock reading.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Run drives the worker until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	return s.worker.Run(ctx)
}

// Registry exposes the alarm registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Dispatcher exposes the consumer-group manager.
func (s *Scheduler) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Worker exposes the expiry worker so callers can step it directly.
func (s *Scheduler) Worker() *Worker {
	return s.worker
}

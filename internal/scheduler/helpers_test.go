package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	// mu protects now.
	mu sync.Mutex
	// now is the current reading.
	now time.Time
}

// newFakeClock starts a clock at a fixed whole-second instant.
func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

// Now returns the current reading.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingSink stores every event it receives.
type recordingSink struct {
	// mu protects events.
	mu sync.Mutex
	// events are the received events in order.
	events []Event
}

// Notify implements Sink.
func (r *recordingSink) Notify(_ context.Context, event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Events returns a copy of the received events.
func (r *recordingSink) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// newTestScheduler builds a scheduler with a fake clock and a recording sink.
func newTestScheduler(t *testing.T, cfg config.Scheduler) (*Scheduler, *fakeClock, *recordingSink) {
	t.Helper()

	clock := newFakeClock()
	sink := new(recordingSink)

	s, err := New(cfg, WithClock(clock.Now), WithSink(sink))
	require.NoError(t, err)

	return s, clock, sink
}

// mustAlarm builds a valid alarm or fails the test.
func mustAlarm(t *testing.T, id int, category string, seconds int, text string) *alarm.Alarm {
	t.Helper()

	a, err := alarm.New(id, category, seconds, text)
	require.NoError(t, err)

	return a
}

// ids extracts alarm ids in order.
func ids(alarms []alarm.Alarm) []int {
	result := make([]int, 0, len(alarms))
	for _, a := range alarms {
		result = append(result, a.ID)
	}

	return result
}

package scheduler

import (
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// ErrNotFound is returned when no active alarm matches the requested id.
var ErrNotFound = errors.New("alarm not found")

// Registry is the ordered collection of pending alarms.
// Every method acquires the mutex it shares with the Dispatcher.
type Registry struct {
	// mu is the scheduler-wide lock.
	mu *sync.Mutex
	// ordering is the sort policy applied on insert.
	ordering Ordering
	// alarms holds the active alarms, always sorted by ordering.
	alarms []*alarm.Alarm
	// now is the clock used to compute due times.
	now func() time.Time
	// wake receives a token whenever the earliest due time may have moved.
	wake chan struct{}
}

// NewRegistry creates an empty registry guarded by mu.
func NewRegistry(mu *sync.Mutex, ordering Ordering, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}

	return &Registry{
		mu:       mu,
		ordering: ordering,
		now:      now,
		wake:     make(chan struct{}, 1),
	}
}

// Insert stamps the alarm's due time and places it at its sorted position.
// The registry takes ownership of a; the returned copy is safe to read.
func (r *Registry) Insert(a *alarm.Alarm) *alarm.Alarm {
	r.mu.Lock()
	a.DueAt = r.now().Add(a.Duration)
	a.State = alarm.Active
	r.insertLocked(a)
	inserted := a.Clone()
	r.mu.Unlock()

	r.signal()

	return inserted
}

// Update replaces the mutable fields of the first active alarm with the given id
// and recomputes its due time. It returns a copy of the updated alarm.
func (r *Registry) Update(id int, category string, duration time.Duration, text string) (*alarm.Alarm, error) {
	r.mu.Lock()

	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()

		return nil, ErrNotFound
	}

	a := r.alarms[idx]
	a.Category = category
	a.Duration = duration
	a.Text = text
	a.DueAt = r.now().Add(duration)

	// Re-seat the entry. Under OrderByID the id is unchanged, so the position
	// only moves when other entries share the id. Under OrderByDueTime the new
	// due time decides the slot.
	r.alarms = slices.Delete(r.alarms, idx, idx+1)
	r.insertLocked(a)

	updated := a.Clone()
	r.mu.Unlock()

	r.signal()

	return updated, nil
}

// Cancel unlinks the first active alarm with the given id and returns it as Cancelled.
func (r *Registry) Cancel(id int) (*alarm.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	a := r.alarms[idx]
	r.alarms = slices.Delete(r.alarms, idx, idx+1)
	a.State = alarm.Cancelled

	return a, nil
}

// DrainDue removes and returns, in sort order, every alarm due at or before now.
// The whole sequence is scanned: under OrderByID due entries need not be a prefix.
// Ownership of the returned alarms passes to the caller.
func (r *Registry) DrainDue(now time.Time) []*alarm.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.drainDueLocked(now)
}

// drainDueLocked is DrainDue for callers already holding mu.
func (r *Registry) drainDueLocked(now time.Time) []*alarm.Alarm {
	var due []*alarm.Alarm

	kept := r.alarms[:0]

	for _, a := range r.alarms {
		if a.Due(now) {
			a.State = alarm.Expired
			due = append(due, a)

			continue
		}

		kept = append(kept, a)
	}

	clear(r.alarms[len(kept):])
	r.alarms = kept

	return due
}

// PeekNextDue returns the earliest due time among active alarms.
// ok is false when the registry is empty.
func (r *Registry) PeekNextDue() (next time.Time, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.alarms {
		if i == 0 || a.DueAt.Before(next) {
			next = a.DueAt
		}
	}

	return next, len(r.alarms) > 0
}

// Snapshot returns copies of the active alarms in sort order.
func (r *Registry) Snapshot() []alarm.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]alarm.Alarm, 0, len(r.alarms))
	for _, a := range r.alarms {
		result = append(result, *a)
	}

	return result
}

// Len returns the number of active alarms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.alarms)
}

// Ordering returns the registry sort policy.
func (r *Registry) Ordering() Ordering {
	return r.ordering
}

// Wake returns the channel signalled after inserts and updates.
func (r *Registry) Wake() <-chan struct{} {
	return r.wake
}

// insertLocked places a before the first entry whose key is not less than a's key.
func (r *Registry) insertLocked(a *alarm.Alarm) {
	pos := sort.Search(len(r.alarms), func(i int) bool {
		return r.ordering.compare(r.alarms[i], a) >= 0
	})

	r.alarms = slices.Insert(r.alarms, pos, a)
}

// indexLocked returns the position of the first alarm with the given id, or -1.
func (r *Registry) indexLocked(id int) int {
	return slices.IndexFunc(r.alarms, func(a *alarm.Alarm) bool {
		return a.ID == id
	})
}

// signal wakes the worker without blocking; one pending token is enough.
func (r *Registry) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

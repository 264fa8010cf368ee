package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// group is a bounded consumer group for one category.
type group struct {
	// id identifies the group in views and notifications.
	id string
	// category is the label every member shares.
	category string
	// createdAt is when the group was opened.
	createdAt time.Time
	// members holds the assigned alarms in assignment order.
	members []*alarm.Alarm
}

// Assignment tells where an alarm was routed.
type Assignment struct {
	// GroupID identifies the receiving group.
	GroupID string
	// Category is the group's category.
	Category string
	// Created is true when the alarm opened a new group.
	Created bool
	// Slot is the zero-based position of the alarm inside the group.
	Slot int
}

// GroupSnapshot is a read-only copy of a consumer group.
type GroupSnapshot struct {
	// ID identifies the group.
	ID string
	// Category is the label every member shares.
	Category string
	// CreatedAt is when the group was opened.
	CreatedAt time.Time
	// Alarms are the members in assignment order.
	Alarms []alarm.Alarm
}

// Dispatcher routes alarms into consumer groups keyed by category.
// Groups are created lazily and never merged or removed.
type Dispatcher struct {
	// mu is the scheduler-wide lock shared with the Registry.
	mu *sync.Mutex
	// capacity is the maximum number of members per group.
	capacity int
	// groups are kept in creation order.
	groups []*group
	// now is the clock used to stamp new groups.
	now func() time.Time
	// newID generates group identifiers.
	newID func() string
}

// NewDispatcher creates a dispatcher guarded by mu.
// A non-positive capacity is treated as 1.
func NewDispatcher(mu *sync.Mutex, capacity int, now func() time.Time) *Dispatcher {
	if capacity < 1 {
		capacity = 1
	}

	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		mu:       mu,
		capacity: capacity,
		now:      now,
		newID:    uuid.NewString,
	}
}

// Route stores a copy of a in the first group of its category with free space,
// opening a new group when none has room.
func (d *Dispatcher) Route(a *alarm.Alarm) Assignment {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.routeLocked(a)
}

// routeLocked is Route for callers already holding mu.
func (d *Dispatcher) routeLocked(a *alarm.Alarm) Assignment {
	member := a.Clone()

	for _, g := range d.groups {
		if g.category != a.Category || len(g.members) >= d.capacity {
			continue
		}

		g.members = append(g.members, member)

		return Assignment{
			GroupID:  g.id,
			Category: g.category,
			Slot:     len(g.members) - 1,
		}
	}

	g := &group{
		id:        d.newID(),
		category:  a.Category,
		createdAt: d.now(),
		members:   make([]*alarm.Alarm, 0, d.capacity),
	}
	g.members = append(g.members, member)
	d.groups = append(d.groups, g)

	return Assignment{
		GroupID:  g.id,
		Category: g.category,
		Created:  true,
	}
}

// Groups returns snapshots of every group in creation order.
func (d *Dispatcher) Groups() []GroupSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]GroupSnapshot, 0, len(d.groups))

	for _, g := range d.groups {
		snapshot := GroupSnapshot{
			ID:        g.id,
			Category:  g.category,
			CreatedAt: g.createdAt,
			Alarms:    make([]alarm.Alarm, 0, len(g.members)),
		}

		for _, m := range g.members {
			snapshot.Alarms = append(snapshot.Alarms, *m)
		}

		result = append(result, snapshot)
	}

	return result
}

// Capacity returns the maximum number of members per group.
func (d *Dispatcher) Capacity() int {
	return d.capacity
}

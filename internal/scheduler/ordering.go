package scheduler

import (
	"fmt"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// Ordering is the registry sort policy.
type Ordering int

const (
	// OrderByID sorts by (id, due_at). Entries with a smaller id come first
	// no matter when they fire.
	OrderByID Ordering = iota
	// OrderByDueTime sorts by (due_at, id), the classic timer-queue order.
	OrderByDueTime
)

// ParseOrdering maps a configuration value to an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", config.OrderingID:
		return OrderByID, nil
	case config.OrderingDueTime:
		return OrderByDueTime, nil
	default:
		return OrderByID, fmt.Errorf("unknown ordering %q", s)
	}
}

// String implements fmt.Stringer.
func (o Ordering) String() string {
	if o == OrderByDueTime {
		return config.OrderingDueTime
	}

	return config.OrderingID
}

// compare returns -1, 0 or +1 comparing the sort keys of a and b.
func (o Ordering) compare(a, b *alarm.Alarm) int {
	if o == OrderByDueTime {
		if c := a.DueAt.Compare(b.DueAt); c != 0 {
			return c
		}

		return cmpInt(a.ID, b.ID)
	}

	if c := cmpInt(a.ID, b.ID); c != 0 {
		return c
	}

	return a.DueAt.Compare(b.DueAt)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

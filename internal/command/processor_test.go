package command

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// stepClock is a manually advanced clock.
type stepClock struct {
	// mu protects now.
	mu sync.Mutex
	// now is the current reading.
	now time.Time
}

// Now returns the current reading.
func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// newTestProcessor wires a processor to a real scheduler on a fixed clock.
func newTestProcessor(t *testing.T, cfg config.Scheduler) (*Processor, *scheduler.Scheduler) {
	t.Helper()

	clock := &stepClock{now: time.Unix(1_700_000_000, 0)}

	s, err := scheduler.New(cfg, scheduler.WithClock(clock.Now), scheduler.WithSink(scheduler.Sinks{}))
	require.NoError(t, err)

	return NewProcessor(s), s
}

// TestProcessor_WeatherScenario runs Create followed by one worker iteration and views the group.
func TestProcessor_WeatherScenario(t *testing.T) {
	t.Parallel()

	p, s := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	res, err := p.ExecuteLine(ctx, "Create(1): Weather 0 Rain expected")
	require.NoError(t, err)
	require.Equal(t, "Alarm(1) Inserted Into Alarm List at 1700000000: Weather 0 Rain expected", res.Message)

	require.NoError(t, s.Worker().Wait(ctx))
	events := s.Worker().Drain(ctx)
	require.Len(t, events, 1)
	require.Equal(t, alarm.Expired, events[0].Alarm.State)

	view, err := p.ExecuteLine(ctx, "View")
	require.NoError(t, err)
	require.Len(t, view.Groups, 1)
	require.Equal(t, "Weather", view.Groups[0].Category)
	require.Len(t, view.Groups[0].Alarms, 1)
	require.Equal(t, 1, view.Groups[0].Alarms[0].ID)

	groupID := view.Groups[0].ID
	require.Equal(t, "View Alarms at 1700000000:\n1. Group("+groupID+") Weather Assigned:\n 1a. Alarm(1): Weather 0 Rain expected", view.Message)
}

// TestProcessor_ViewEmptyAndIdempotent returns zero groups initially and stable snapshots.
func TestProcessor_ViewEmptyAndIdempotent(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	first, err := p.Execute(ctx, &Command{Kind: KindView})
	require.NoError(t, err)
	require.Empty(t, first.Groups)
	require.Contains(t, first.Message, "No consumer groups available")

	second, err := p.Execute(ctx, &Command{Kind: KindView})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// TestProcessor_ChangeNotFoundLeavesRegistry reports NotFound and keeps contents identical.
func TestProcessor_ChangeNotFoundLeavesRegistry(t *testing.T) {
	t.Parallel()

	p, s := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	_, err := p.ExecuteLine(ctx, "Create(1): Weather 10 Rain")
	require.NoError(t, err)

	before := s.Alarms()

	_, err = p.ExecuteLine(ctx, "Change(2): News 5 Headline")
	require.ErrorIs(t, err, scheduler.ErrNotFound)
	require.EqualError(t, err, "Alarm(2) not found. Cannot change.")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, 2, notFound.ID)

	require.Equal(t, before, s.Alarms())
}

// TestProcessor_ChangeAndCancel applies both mutations and renders acknowledgements.
func TestProcessor_ChangeAndCancel(t *testing.T) {
	t.Parallel()

	p, s := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	_, err := p.ExecuteLine(ctx, "Create(1): Weather 10 Rain")
	require.NoError(t, err)

	res, err := p.ExecuteLine(ctx, "Change(1): News 20 "+strings.Repeat("y", 200))
	require.NoError(t, err)
	require.Equal(t, "News", res.Alarm.Category)
	require.Len(t, res.Alarm.Text, alarm.MaxTextLength)
	require.True(t, strings.HasPrefix(res.Message, "Alarm(1) Changed at 1700000000: News 20 yyy"))

	res, err = p.ExecuteLine(ctx, "Cancel(1)")
	require.NoError(t, err)
	require.Equal(t, alarm.Cancelled, res.Alarm.State)
	require.True(t, strings.HasPrefix(res.Message, "Alarm(1) Cancelled at 1700000000: News 20"))
	require.Empty(t, s.Alarms())

	_, err = p.ExecuteLine(ctx, "Cancel(1)")
	require.ErrorIs(t, err, scheduler.ErrNotFound)
	require.EqualError(t, err, "Alarm(1) not found. Cannot cancel.")
}

// TestProcessor_BadCommandNoStateChange rejects invalid commands before touching the registry.
func TestProcessor_BadCommandNoStateChange(t *testing.T) {
	t.Parallel()

	p, s := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	_, err := p.ExecuteLine(ctx, "Create(1): Weather")
	require.ErrorIs(t, err, ErrBadCommand)

	_, err = p.Execute(ctx, &Command{Kind: KindCreate, ID: 1, Category: "Weather", Seconds: -1, Text: "x"})
	require.ErrorIs(t, err, ErrBadCommand)

	_, err = p.Execute(ctx, nil)
	require.ErrorIs(t, err, ErrBadCommand)

	require.Empty(t, s.Alarms())
}

// TestProcessor_ListSortedByID lists pending alarms in (id, due_at) order.
func TestProcessor_ListSortedByID(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	empty, err := p.ExecuteLine(ctx, "List")
	require.NoError(t, err)
	require.Equal(t, "No alarms in the list", empty.Message)

	for _, line := range []string{
		"Create(3): News 5 c",
		"Create(1): News 50 a",
		"Create(2): News 1 b",
	} {
		_, err = p.ExecuteLine(ctx, line)
		require.NoError(t, err)
	}

	res, err := p.ExecuteLine(ctx, "List")
	require.NoError(t, err)
	require.Len(t, res.Alarms, 3)
	require.Equal(t, 1, res.Alarms[0].ID)
	require.Equal(t, 2, res.Alarms[1].ID)
	require.Equal(t, 3, res.Alarms[2].ID)
	require.Contains(t, res.Message, "Alarm_ID: 2, Type: News, Seconds: 1, Message: b, Time: 1700000001")
}

// TestProcessor_DispatchOnCreateCapacity splits same-category alarms into groups of two and one at creation.
func TestProcessor_DispatchOnCreateCapacity(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t, config.Scheduler{GroupCapacity: 2, DispatchOn: config.DispatchOnCreate})
	ctx := context.Background()

	first, err := p.ExecuteLine(ctx, "Create(1): Weather 60 a")
	require.NoError(t, err)
	require.Contains(t, first.Message, "New Group(")

	second, err := p.ExecuteLine(ctx, "Create(2): Weather 60 b")
	require.NoError(t, err)
	require.Contains(t, second.Message, "Alarm(2) Assigned to Group("+first.Assignment.GroupID+")")

	_, err = p.ExecuteLine(ctx, "Create(3): Weather 60 c")
	require.NoError(t, err)

	view, err := p.ExecuteLine(ctx, "View")
	require.NoError(t, err)
	require.Len(t, view.Groups, 2)
	require.Len(t, view.Groups[0].Alarms, 2)
	require.Len(t, view.Groups[1].Alarms, 1)
	require.Contains(t, view.Message, " 1b. Alarm(2): Weather 60 b")
	require.Contains(t, view.Message, " 2a. Alarm(3): Weather 60 c")
}

// TestProcessor_DurationBound keeps the longest alarm pending and rejects anything longer.
func TestProcessor_DurationBound(t *testing.T) {
	t.Parallel()

	p, s := newTestProcessor(t, config.Scheduler{})
	ctx := context.Background()

	_, err := p.ExecuteLine(ctx, "Create(1): Weather 9223372037 Wraps")
	require.ErrorIs(t, err, ErrBadCommand)
	require.Empty(t, s.Alarms())

	res, err := p.ExecuteLine(ctx, "Create(1): Weather 9223372036 Far future")
	require.NoError(t, err)
	require.True(t, res.Alarm.DueAt.After(res.At))
	require.EqualValues(t, alarm.MaxSeconds, res.Alarm.Seconds())

	require.Empty(t, s.Worker().Drain(ctx))
	require.Len(t, s.Alarms(), 1)

	_, err = p.ExecuteLine(ctx, "Change(1): Weather 9223372037 Wraps")
	require.ErrorIs(t, err, ErrBadCommand)
	require.EqualValues(t, alarm.MaxSeconds, s.Alarms()[0].Seconds())

	limit := alarm.MaxSeconds

	_, err = s.Change(1, "Weather", int(limit+1), "Wraps")
	require.ErrorIs(t, err, alarm.ErrDurationTooLong)
}

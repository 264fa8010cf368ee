package alarm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNew validates field checks and defaults of New.
func TestNew(t *testing.T) {
	t.Parallel()

	a, err := New(1, "Weather", 5, "Rain expected")
	require.NoError(t, err)
	require.Equal(t, 1, a.ID)
	require.Equal(t, 5*time.Second, a.Duration)
	require.Equal(t, 5, a.Seconds())
	require.Equal(t, Active, a.State)
	require.True(t, a.DueAt.IsZero())
	require.Equal(t, "Weather 5 Rain expected", a.String())

	_, err = New(1, "", 5, "x")
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = New(1, "Overlong10", 5, "x")
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = New(1, "Weather", -1, "x")
	require.ErrorIs(t, err, ErrNegativeDuration)
}

// TestNew_DurationBound checks the largest accepted duration and the first rejected one.
func TestNew_DurationBound(t *testing.T) {
	t.Parallel()

	limit := MaxSeconds

	a, err := New(1, "Weather", int(limit), "far future")
	require.NoError(t, err)
	require.Positive(t, a.Duration)
	require.Equal(t, int(limit), a.Seconds())

	_, err = New(1, "Weather", int(limit+1), "wraps around")
	require.ErrorIs(t, err, ErrDurationTooLong)

	require.NoError(t, ValidateSeconds(0))
	require.ErrorIs(t, ValidateSeconds(-1), ErrNegativeDuration)
}

// TestTruncateText checks the byte bound and UTF-8 safety of truncation.
func TestTruncateText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", TruncateText("short"))

	long := strings.Repeat("a", MaxTextLength+10)
	require.Len(t, TruncateText(long), MaxTextLength)

	// A two-byte rune straddling the bound is dropped entirely.
	straddle := strings.Repeat("a", MaxTextLength-1) + "é"
	got := TruncateText(straddle)
	require.Len(t, got, MaxTextLength-1)
	require.True(t, strings.HasSuffix(got, "a"))
}

// TestAlarmClone verifies that Clone returns an independent copy and handles nil safely.
func TestAlarmClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Alarm)(nil).Clone())

	a := &Alarm{ID: 3, Category: "News", Duration: time.Second, Text: "Headline"}
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)

	b.Text = "Changed"
	require.Equal(t, "Headline", a.Text)
}

// TestAlarmDue checks the inclusive due boundary.
func TestAlarmDue(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_000, 0)
	a := &Alarm{DueAt: now}

	require.True(t, a.Due(now))
	require.True(t, a.Due(now.Add(time.Second)))
	require.False(t, a.Due(now.Add(-time.Second)))
}

// TestStateString covers the textual form of every state.
func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "active", Active.String())
	require.Equal(t, "cancelled", Cancelled.String())
	require.Equal(t, "expired", Expired.String())
	require.Equal(t, "state(9)", State(9).String())
}

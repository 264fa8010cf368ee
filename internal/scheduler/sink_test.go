package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// TestLogSink writes structured entries for both event kinds.
func TestLogSink(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	a := alarm.Alarm{ID: 1, Category: "Weather", Duration: time.Second, Text: "Rain"}

	LogSink{}.Notify(ctx, Event{Kind: EventExpired, Alarm: a, At: time.Unix(10, 0)})
	LogSink{}.Notify(ctx, Event{
		Kind:       EventAssigned,
		Alarm:      a,
		Assignment: &Assignment{GroupID: "g1", Category: "Weather", Created: true},
		At:         time.Unix(11, 0),
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "Alarm expired", entries[0].Message)
	require.EqualValues(t, 1, entries[0].ContextMap()["alarm_id"])
	require.Equal(t, "Alarm assigned to group", entries[1].Message)
	require.Equal(t, "g1", entries[1].ContextMap()["group_id"])
}

// TestSinks fans out to every non-nil member.
func TestSinks(t *testing.T) {
	t.Parallel()

	first, second := new(recordingSink), new(recordingSink)

	Sinks{first, nil, second}.Notify(context.Background(), Event{Alarm: alarm.Alarm{ID: 3}})

	require.Len(t, first.Events(), 1)
	require.Len(t, second.Events(), 1)
	require.Equal(t, "expired", EventExpired.String())
	require.Equal(t, "assigned", EventAssigned.String())
}

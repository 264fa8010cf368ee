package client

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/alarm-scheduler/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/repository/journal"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// echoServer acknowledges every line and rejects "Cancel(404)".
type echoServer struct{}

func (echoServer) Execute(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if in.GetValue() == "Cancel(404)" {
		return nil, status.Error(codes.NotFound, "Alarm(404) not found. Cannot cancel.")
	}

	return wrapperspb.String("ack " + in.GetValue()), nil
}

func (echoServer) View(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"at": 1, "groups": []any{}})
}

// startEcho serves echoServer on a loopback port and returns a config path pointing at it.
func startEcho(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := grpc.NewServer()
	api.RegisterAlarmSchedulerServer(server, echoServer{})

	go func() {
		_ = server.Serve(lis)
	}()

	t.Cleanup(server.Stop)

	cfg := config.Default()
	cfg.ServerAddress = lis.Addr().String()
	cfg.Timeout = 3 * time.Second

	path := filepath.Join(t.TempDir(), "alarm-scheduler.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

func TestRun_SendsLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := Run(t.Context(), &Options{
		ConfigPath: startEcho(t),
		Line:       "Create(1): Weather 5 Rain",
		Output:     &out,
	})
	require.NoError(t, err)
	require.Equal(t, "ack Create(1): Weather 5 Rain\n", out.String())
}

func TestRun_View(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := Run(t.Context(), &Options{
		ConfigPath: startEcho(t),
		View:       true,
		Output:     &out,
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), `"groups"`)
}

func TestRun_Rejected(t *testing.T) {
	t.Parallel()

	err := Run(t.Context(), &Options{
		ConfigPath: startEcho(t),
		Line:       "Cancel(404)",
	})
	require.ErrorIs(t, err, ErrRejected)
	require.EqualError(t, err, "command rejected: Alarm(404) not found. Cannot cancel.")
}

func TestRun_RequiresLine(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Run(t.Context(), &Options{}), errNothingToSend)
}

func TestPrintJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.jsonl")

	a, err := alarm.New(3, "News", 0, "Headlines")
	require.NoError(t, err)

	at := time.Unix(1_700_000_000, 0)
	a.DueAt = at

	require.NoError(t, journal.NewFileJournal(path).Append(scheduler.Event{
		Kind:       scheduler.EventExpired,
		Alarm:      *a,
		Assignment: &scheduler.Assignment{GroupID: "g-1", Category: "News", Created: true},
		At:         at,
	}))

	var out bytes.Buffer

	require.NoError(t, PrintJournal(path, &out))
	require.Equal(t, "2023-11-14T22:13:20Z expired Alarm(3): News 0 Headlines -> Group(g-1)\n", out.String())
}

func TestPrintJournal_Missing(t *testing.T) {
	t.Parallel()

	err := PrintJournal(filepath.Join(t.TempDir(), "missing.jsonl"), nil)
	require.ErrorIs(t, err, journal.ErrNotFound)
}

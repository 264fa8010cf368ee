//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	alarmapi "github.com/oshokin/alarm-scheduler/internal/api/grpc/alarm"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_CloseWithoutOwnership verifies Close is a no-op for borrowed connections.
func TestClient_CloseWithoutOwnership(t *testing.T) {
	t.Parallel()

	var c *Client

	require.NoError(t, c.Close())
	require.NoError(t, new(Client).Close())
}

// stubServer records the actor and echoes the command line back.
type stubServer struct {
	// host and user are the last seen caller identity.
	host, user string
}

func (s *stubServer) Execute(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	s.host, s.user = alarmapi.ActorFromContext(ctx)

	if in.GetValue() == "Cancel(404)" {
		return nil, status.Error(codes.NotFound, "Alarm(404) not found. Cannot cancel.")
	}

	return wrapperspb.String("ack: " + in.GetValue()), nil
}

func (s *stubServer) View(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"groups": []any{}})
}

func newStubClient(t *testing.T, opts ...Option) (*Client, *stubServer) {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	stub := new(stubServer)
	server := grpc.NewServer()
	alarmapi.RegisterAlarmSchedulerServer(server, stub)

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		server.Stop()
	})

	return NewClient(conn, opts...), stub
}

// TestClient_ExecuteSendsActor checks the round trip and the actor metadata.
func TestClient_ExecuteSendsActor(t *testing.T) {
	t.Parallel()

	client, stub := newStubClient(t, WithActor(&Actor{Hostname: "desk-7", Username: "operator"}))

	ack, err := client.Execute(t.Context(), "View")
	require.NoError(t, err)
	require.Equal(t, "ack: View", ack)
	require.Equal(t, "desk-7", stub.host)
	require.Equal(t, "operator", stub.user)
}

// TestClient_ExecuteKeepsStatus checks that gRPC status codes survive wrapping.
func TestClient_ExecuteKeepsStatus(t *testing.T) {
	t.Parallel()

	client, _ := newStubClient(t)

	_, err := client.Execute(t.Context(), "Cancel(404)")
	require.Error(t, err)
	require.Equal(t, codes.NotFound, status.Code(err))
}

// TestClient_View checks that the struct is returned as sent.
func TestClient_View(t *testing.T) {
	t.Parallel()

	client, _ := newStubClient(t, WithCallTimeout(time.Second))

	view, err := client.View(t.Context())
	require.NoError(t, err)
	require.Contains(t, view.GetFields(), "groups")
}

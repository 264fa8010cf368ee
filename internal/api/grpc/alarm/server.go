package alarm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/alarm-scheduler/internal/command"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// Service abstracts the command operations the transport layer depends on.
type Service interface {
	ExecuteLine(ctx context.Context, line string) (*command.Result, error)
	Execute(ctx context.Context, cmd *command.Command) (*command.Result, error)
}

// Server implements the AlarmScheduler gRPC API.
type Server struct {
	// service runs the commands.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Execute parses and runs one command line.
func (s *Server) Execute(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil || req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "command line is required")
	}

	result, err := s.service.ExecuteLine(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(result.Message), nil
}

// View returns the consumer groups as a Struct.
func (s *Server) View(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.service.Execute(ctx, &command.Command{Kind: command.KindView})
	if err != nil {
		return nil, toStatus(err)
	}

	view, err := GroupsToStruct(result.At, result.Groups)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode view")
	}

	return view, nil
}

// toStatus maps command errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, command.ErrBadCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, scheduler.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "unable to execute command")
	}
}

// GroupsToStruct encodes a consumer-group snapshot taken at the given moment.
func GroupsToStruct(at time.Time, groups []scheduler.GroupSnapshot) (*structpb.Struct, error) {
	encoded := make([]any, 0, len(groups))

	for _, g := range groups {
		alarms := make([]any, 0, len(g.Alarms))

		for i := range g.Alarms {
			a := &g.Alarms[i]
			alarms = append(alarms, map[string]any{
				"id":       a.ID,
				"category": a.Category,
				"seconds":  a.Seconds(),
				"text":     a.Text,
				"due_at":   a.DueAt.Unix(),
				"state":    a.State.String(),
			})
		}

		encoded = append(encoded, map[string]any{
			"id":         g.ID,
			"category":   g.Category,
			"created_at": g.CreatedAt.Unix(),
			"alarms":     alarms,
		})
	}

	return structpb.NewStruct(map[string]any{
		"at":     at.Unix(),
		"groups": encoded,
	})
}

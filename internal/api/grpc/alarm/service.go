package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "alarmscheduler.v1.AlarmScheduler"

	// ExecuteMethod is the full method name of Execute.
	ExecuteMethod = "/" + ServiceName + "/Execute"
	// ViewMethod is the full method name of View.
	ViewMethod = "/" + ServiceName + "/View"
)

// AlarmSchedulerServer is the server API of the AlarmScheduler service.
type AlarmSchedulerServer interface {
	// Execute parses and runs one command line and returns the acknowledgement.
	Execute(ctx context.Context, line *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// View returns the consumer groups.
	View(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the AlarmScheduler service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmSchedulerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
		{
			MethodName: "View",
			Handler:    viewHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmscheduler/v1/alarm_scheduler.proto",
}

// RegisterAlarmSchedulerServer registers srv on the provided registrar.
func RegisterAlarmSchedulerServer(registrar grpc.ServiceRegistrar, srv AlarmSchedulerServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func executeHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(AlarmSchedulerServer).Execute(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecuteMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmSchedulerServer).Execute(ctx, req.(*wrapperspb.StringValue)) //nolint:forcetypeassert // Decoded above.
	}

	return interceptor(ctx, in, info, handler)
}

func viewHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(AlarmSchedulerServer).View(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ViewMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlarmSchedulerServer).View(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Decoded above.
	}

	return interceptor(ctx, in, info, handler)
}

// AlarmSchedulerClient is the client API of the AlarmScheduler service.
type AlarmSchedulerClient struct {
	// cc is the underlying connection.
	cc grpc.ClientConnInterface
}

// NewAlarmSchedulerClient creates a client on top of cc.
func NewAlarmSchedulerClient(cc grpc.ClientConnInterface) *AlarmSchedulerClient {
	return &AlarmSchedulerClient{
		cc: cc,
	}
}

// Execute sends one command line.
func (c *AlarmSchedulerClient) Execute(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ExecuteMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// View fetches the consumer groups.
func (c *AlarmSchedulerClient) View(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ViewMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

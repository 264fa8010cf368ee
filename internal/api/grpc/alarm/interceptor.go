package alarm

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// LoggingInterceptor logs every unary call with the caller identity, status
// code and latency, and hands the handler a context carrying the base logger.
func LoggingInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	l := logger.FromContext(base)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		host, user := ActorFromContext(ctx)
		ctx = logger.WithKV(logger.ToContext(ctx, l), "method", info.FullMethod, "host", host, "user", user)
		start := time.Now()

		resp, err := handler(ctx, req)

		logger.DebugKV(ctx, "RPC handled", "code", status.Code(err).String(), "elapsed", time.Since(start))

		return resp, err
	}
}

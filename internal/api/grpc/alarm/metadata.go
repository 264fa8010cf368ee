package alarm

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	// ActorHostKey is the metadata key carrying the caller's hostname.
	ActorHostKey = "x-alarm-actor-host"
	// ActorUserKey is the metadata key carrying the caller's username.
	ActorUserKey = "x-alarm-actor-user"
)

// WithActor attaches the caller identity to outgoing call metadata.
func WithActor(ctx context.Context, hostname, username string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, ActorHostKey, hostname, ActorUserKey, username)
}

// ActorFromContext extracts the caller identity from incoming metadata.
// Missing values come back empty.
func ActorFromContext(ctx context.Context) (hostname, username string) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ""
	}

	if v := md.Get(ActorHostKey); len(v) > 0 {
		hostname = v[0]
	}

	if v := md.Get(ActorUserKey); len(v) > 0 {
		username = v[0]
	}

	return hostname, username
}

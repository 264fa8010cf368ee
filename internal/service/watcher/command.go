package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/service/common"
)

// Options controls the watcher polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between view requests.
	PollInterval time.Duration
	// Output receives the printed alarms, os.Stdout when nil.
	Output io.Writer
}

// DefaultPollInterval defines the polling interval when none is given.
const DefaultPollInterval = time.Second

// Viewer fetches the consumer groups.
type Viewer interface {
	View(ctx context.Context) (*structpb.Struct, error)
}

// Run polls the consumer groups until ctx is cancelled and prints every
// alarm that was added to a group since the previous poll.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-watcher")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Establish gRPC connection with timeout from configuration.
	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger.InfoKV(ctx, "Watching consumer groups", "server_address", serverAddress, "interval", interval.String())

	return watch(ctx, client, interval, outputOrDefault(opts.Output))
}

// watch is the polling loop. Poll failures are logged and retried.
func watch(ctx context.Context, viewer Viewer, interval time.Duration, out io.Writer) error {
	seen := make(map[string]int)

	poll := func() {
		view, err := viewer.View(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "View failed", "error", err)

			return
		}

		for _, line := range newMembers(view, seen) {
			_, _ = fmt.Fprintln(out, line)
		}
	}

	// Poll immediately before starting the ticker.
	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// newMembers returns a line for each group member past the count recorded
// in seen, and updates seen. Groups only ever grow.
func newMembers(view *structpb.Struct, seen map[string]int) []string {
	var lines []string

	for _, g := range view.GetFields()["groups"].GetListValue().GetValues() {
		group := g.GetStructValue().GetFields()
		id := group["id"].GetStringValue()
		members := group["alarms"].GetListValue().GetValues()

		for _, m := range members[min(seen[id], len(members)):] {
			a := m.GetStructValue().GetFields()
			lines = append(lines, fmt.Sprintf("Group(%s) %s: Alarm(%d): %s %d %s",
				id,
				group["category"].GetStringValue(),
				int(a["id"].GetNumberValue()),
				a["category"].GetStringValue(),
				int(a["seconds"].GetNumberValue()),
				a["text"].GetStringValue(),
			))
		}

		seen[id] = len(members)
	}

	return lines
}

func outputOrDefault(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

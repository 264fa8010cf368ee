package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/repository/journal"
	"github.com/oshokin/alarm-scheduler/internal/service/common"
)

// Options configures one alarm-ctl invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Line is the command line to send; ignored when View is set.
	Line string
	// View fetches the consumer groups instead of sending a line.
	View bool
	// Output receives the result, os.Stdout when nil.
	Output io.Writer
}

var (
	// ErrRejected is returned when the scheduler refused the command.
	ErrRejected = errors.New("command rejected")
	// errNothingToSend is returned when neither a line nor View was requested.
	errNothingToSend = errors.New("command line is required")
)

// Run sends the requested command and prints the scheduler's answer.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-ctl")

	if !opts.View && opts.Line == "" {
		return errNothingToSend
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOpts := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// Identify current user and hostname for the server's audit log.
	if actor, err := common.DetectActor(); err != nil {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	} else {
		clientOpts = append(clientOpts, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, serverAddress, clientOpts...)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Sending command", "server_address", serverAddress, "line", opts.Line, "view", opts.View)

	out := outputOrDefault(opts.Output)

	if opts.View {
		view, err := client.View(ctx)
		if err != nil {
			return explain(err)
		}

		data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(view)
		if err != nil {
			return fmt.Errorf("encode view: %w", err)
		}

		_, err = fmt.Fprintln(out, string(data))

		return err
	}

	ack, err := client.Execute(ctx, opts.Line)
	if err != nil {
		return explain(err)
	}

	_, err = fmt.Fprintln(out, ack)

	return err
}

// PrintJournal writes every journal entry at path as one line.
func PrintJournal(path string, out io.Writer) error {
	if path == "" {
		path = config.DefaultJournalFilename
	}

	entries, err := journal.ReadEntries(path)
	if err != nil {
		return err
	}

	out = outputOrDefault(out)

	for _, e := range entries {
		line := fmt.Sprintf("%s %s Alarm(%d): %s %d %s",
			e.At.UTC().Format(time.RFC3339), e.Kind, e.AlarmID, e.Category, e.Seconds, e.Text)
		if e.GroupID != "" {
			line += " -> Group(" + e.GroupID + ")"
		}

		if _, err = fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	return nil
}

// explain turns rejections into ErrRejected with the scheduler's message.
func explain(err error) error {
	var withStatus interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &withStatus) {
		return err
	}

	st := withStatus.GRPCStatus()

	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return err
	}
}

func outputOrDefault(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-scheduler/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-scheduler/internal/command"
	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/repository/journal"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
	"github.com/oshokin/alarm-scheduler/internal/service/console"
	"github.com/oshokin/alarm-scheduler/internal/service/instance"
)

// Options controls the alarm-scheduler process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// JournalFile overrides the journal path from the configuration.
	JournalFile string
	// Headless disables the interactive console; the process then runs until signalled.
	Headless bool
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// Input is the console input, os.Stdin when nil.
	Input io.Reader
	// Output is the console output, os.Stdout when nil.
	Output io.Writer
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the scheduler and blocks until the console input ends, ctx is
// cancelled or one of the components fails.
//
//nolint:funlen // Wiring of the whole process reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-scheduler")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.AllowMultiple {
		if err = instance.EnsureSingle(instance.CurrentExecutable()); err != nil {
			return err
		}
	}

	// Use JournalFile from config unless overridden by command line option.
	journalFile := settings.JournalFile
	if opts.JournalFile != "" {
		journalFile = opts.JournalFile
	}

	// Determine listen address: CLI argument overrides config.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	sinks := scheduler.Sinks{scheduler.LogSink{}}
	if journalFile != "" {
		fileJournal := journal.NewFileJournal(journalFile)
		sinks = append(sinks, fileJournal)

		logger.InfoKV(ctx, "Expiry journal enabled", "path", fileJournal.Path())
	}

	var printer *console.Printer
	if !opts.Headless {
		printer = console.NewPrinter(outputOrDefault(opts.Output))
		sinks = append(sinks, printer)
	}

	engine, err := scheduler.New(settings.Scheduler, scheduler.WithSink(sinks))
	if err != nil {
		return fmt.Errorf("initialise scheduler: %w", err)
	}

	processor := command.NewProcessor(engine)

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with the command processor.
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(api.LoggingInterceptor(ctx)))
	api.RegisterAlarmSchedulerServer(grpcServer, api.NewServer(processor))

	logger.InfoKV(
		ctx,
		"Alarm scheduler started",
		"listen_address", lis.Addr().String(),
		"journal_file", journalFile,
		"group_capacity", settings.Scheduler.GroupCapacity,
		"ordering", settings.Scheduler.Ordering,
		"dispatch_on", settings.Scheduler.DispatchOn,
		"headless", opts.Headless,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return ignoreCanceled(engine.Run(groupCtx))
	})

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()

		return nil
	})

	if !opts.Headless {
		group.Go(func() error {
			err := console.New(inputOrDefault(opts.Input), printer, processor).Run(groupCtx)
			if err == nil {
				// End of input stops the process.
				cancel()
			}

			return ignoreCanceled(err)
		})
	}

	err = group.Wait()

	logger.Info(ctx, "Alarm scheduler stopped")

	return err
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise the configured
// address is validated and used as is.
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(configAddr); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return configAddr, nil
}

// ignoreCanceled treats context cancellation as a clean stop.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func inputOrDefault(r io.Reader) io.Reader {
	if r == nil {
		return os.Stdin
	}

	return r
}

func outputOrDefault(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/service/server"
	"github.com/oshokin/alarm-scheduler/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// journalFile overrides the journal path from the configuration.
	journalFile string
	// headless disables the interactive console.
	headless bool
	// allowMultiple skips the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the scheduler.
	rootCmd = &cobra.Command{
		Use:   "alarm-scheduler [listen-address]",
		Short: "Run the alarm scheduler with its console and gRPC API.",
		Long: `Starts the alarm scheduler: an ordered list of pending alarms, a worker that
fires them when they are due, and consumer groups that collect fired alarms by category.

Commands are typed at the console or sent with alarm-ctl over gRPC:

  Create(<id>): <category> <seconds> <text>
  Change(<id>): <category> <seconds> <text>
  Cancel(<id>)
  View
  List

Closing the console input (Ctrl+D) stops the scheduler. In headless mode it runs until
it receives SIGINT or SIGTERM. Listen address can be provided as argument to override config.
Pending alarms are kept in memory only and are lost on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				JournalFile:   journalFile,
				Headless:      headless,
				AllowMultiple: allowMultiple,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-scheduler CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&journalFile, "journal", "j", "", "append fired alarms to this file")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without the interactive console")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")
}

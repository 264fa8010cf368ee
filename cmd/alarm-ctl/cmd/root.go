package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/service/client"
	"github.com/oshokin/alarm-scheduler/internal/service/watcher"
	"github.com/oshokin/alarm-scheduler/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from the configuration.
	serverAddress string
	// journalPath is the journal file read by the journal subcommand.
	journalPath string
	// pollInterval is the watch polling period.
	pollInterval time.Duration

	// rootCmd represents the base command of the remote client.
	rootCmd = &cobra.Command{
		Use:   "alarm-ctl",
		Short: "Control a running alarm scheduler.",
		Long: `Sends commands to a running alarm-scheduler over gRPC.

Server address is loaded from the configuration file unless --server is given.`,
		SilenceUsage: true,
	}

	// sendCmd sends one command line.
	sendCmd = &cobra.Command{
		Use:   "send <command>",
		Short: "Send one command line, e.g. 'Create(1): Weather 30 Rain'.",
		Long: `Sends one command line and prints the acknowledgement.

Arguments are joined with spaces, so quoting the whole command is optional.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Line:          strings.Join(args, " "),
			})
		},
	}

	// viewCmd prints the consumer groups.
	viewCmd = &cobra.Command{
		Use:   "view",
		Short: "Print the consumer groups as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				View:          true,
			})
		},
	}

	// watchCmd follows the consumer groups.
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print alarms as they are assigned to consumer groups.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				PollInterval:  pollInterval,
			})
		},
	}

	// journalCmd prints the fired-alarm journal.
	journalCmd = &cobra.Command{
		Use:   "journal",
		Short: "Print the fired-alarm journal written by the scheduler.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := journalPath
			if path == "" {
				if cfg, err := config.Load(cfgPath); err == nil && cfg.JournalFile != "" {
					path = cfg.JournalFile
				}
			}

			return client.PrintJournal(path, nil)
		},
	}
)

// Execute runs the alarm-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "scheduler address, overrides config")

	journalCmd.Flags().StringVarP(&journalPath, "file", "f", "", "journal file, defaults to the configured one")

	watchCmd.Flags().DurationVarP(&pollInterval, "interval", "i", watcher.DefaultPollInterval, "polling interval")

	rootCmd.AddCommand(sendCmd, viewCmd, watchCmd, journalCmd)
}

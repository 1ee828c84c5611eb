package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/service/checker"
	"github.com/roomguard/roomguard/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// databasePath overrides the event database location from config.
	databasePath string
	// processName is the controller executable to look for.
	processName string
	// maxHeartbeatAge is the staleness bound for the newest heartbeat.
	maxHeartbeatAge time.Duration
	// watch keeps the checker polling instead of exiting after one check.
	watch bool
	// pollInterval defines the interval between checks in watch mode.
	pollInterval time.Duration

	// rootCmd represents the base command for verifying controller health.
	rootCmd = &cobra.Command{
		Use:   "roomguard-checker",
		Short: "Verify the room controller is alive.",
		Long: `Checks that a roomguard controller process is running and that the newest
heartbeat in its event log is fresh.

Exits non-zero when the process is missing or the heartbeat is older than the
staleness bound, so the check can drive cron alerts or systemd watchdogs.
With --watch it keeps polling on an interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &checker.Options{
				ConfigPath:      configPath,
				DatabasePath:    databasePath,
				ProcessName:     processName,
				MaxHeartbeatAge: maxHeartbeatAge,
				Watch:           watch,
				PollInterval:    pollInterval,
			}

			return checker.Run(ctx, options)
		},
	}
)

// Execute runs the roomguard-checker CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&databasePath, "database", "d", "", "path to the event database (overrides config)")
	rootCmd.Flags().
		StringVarP(&processName, "process", "p", checker.DefaultProcessName, "controller executable name to look for")
	rootCmd.Flags().
		DurationVarP(&maxHeartbeatAge, "max-age", "m", checker.DefaultMaxHeartbeatAge, "maximum age of the newest heartbeat")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling instead of exiting after one check")
	rootCmd.Flags().
		DurationVarP(&pollInterval, "interval", "i", checker.DefaultPollInterval, "interval between checks in watch mode")
}

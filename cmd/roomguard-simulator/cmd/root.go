package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/service/simulator"
	"github.com/roomguard/roomguard/internal/version"
)

var (
	// tickInterval overrides the control loop cadence.
	tickInterval time.Duration

	// rootCmd represents the base command for the interactive simulator.
	rootCmd = &cobra.Command{
		Use:   "roomguard-simulator",
		Short: "Drive the controller logic from the keyboard.",
		Long: `Runs the control loop against an in-memory backend on a workstation.

Type commands to press the button, scan cards, move the measured distance or
make the sensor time out, and watch the resulting events and output state.
Useful for demonstrating the alert rules without a Raspberry Pi.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &simulator.Options{
				TickInterval: tickInterval,
			}

			return simulator.Run(ctx, options)
		},
	}
)

// Execute runs the roomguard-simulator CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().
		DurationVarP(&tickInterval, "tick", "t", config.DefaultTickInterval, "control loop period")
}

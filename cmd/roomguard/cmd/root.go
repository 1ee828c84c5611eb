package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/service/daemon"
	"github.com/roomguard/roomguard/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// databasePath overrides the event database location from config.
	databasePath string

	// rootCmd represents the base command for running the room controller.
	rootCmd = &cobra.Command{
		Use:   "roomguard",
		Short: "Run the room access and intrusion controller.",
		Long: `Runs the controller daemon for one enclosed room on a Raspberry Pi.

Polls the proximity-card reader, the ultrasonic range sensor and the panel
button on a fixed tick, drives the indicator LED and the buzzer, and appends
every decision to the local event log. When an MQTT broker is configured,
status and events are mirrored there for remote monitoring.

Authorized cards open a thirty-second privileged window during which motion
does not raise an alert. Run this as a service on the room's controller.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &daemon.Options{
				ConfigPath:   configPath,
				DatabasePath: databasePath,
			}

			return daemon.Run(ctx, options)
		},
	}

	// initCmd writes a default configuration file for a new deployment.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file.",
		Long: `Writes a configuration file with default pin assignments and settings.

Edit the generated file to match the wiring of the target room before
starting the controller. Refuses to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultConfigFilename
			}

			if _, err := os.Stat(path); err == nil {
				return os.ErrExist
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			cmd.Println("wrote", path)

			return nil
		},
	}
)

// Execute runs the roomguard CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&databasePath, "database", "d", "", "path to the event database (overrides config)")
}

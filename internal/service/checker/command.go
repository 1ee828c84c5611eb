package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/logger"
	"github.com/roomguard/roomguard/internal/repository/events"
)

// Options controls the checker behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// DatabasePath overrides the event database location from the config.
	DatabasePath string
	// ProcessName is the controller executable to look for.
	ProcessName string
	// MaxHeartbeatAge is how old the newest heartbeat may be before the
	// controller counts as stalled.
	MaxHeartbeatAge time.Duration
	// Watch keeps the checker running and re-verifying on an interval
	// instead of exiting after one check.
	Watch bool
	// PollInterval defines the interval between checks in watch mode.
	PollInterval time.Duration
}

const (
	// DefaultProcessName is the controller binary the checker looks for.
	DefaultProcessName = "roomguard"
	// DefaultMaxHeartbeatAge is the staleness bound for the newest heartbeat.
	DefaultMaxHeartbeatAge = 5 * time.Minute
	// DefaultPollInterval defines the fixed polling interval in watch mode.
	DefaultPollInterval = 30 * time.Second
)

var (
	// ErrControllerNotRunning indicates no controller process was found.
	ErrControllerNotRunning = errors.New("controller process not running")
	// ErrHeartbeatStale indicates the newest heartbeat is too old.
	ErrHeartbeatStale = errors.New("controller heartbeat is stale")
)

// Run verifies the controller daemon is alive: a process with the
// expected name exists and the event store holds a fresh heartbeat.
// With Watch set it repeats the check on the polling interval until the
// context is canceled; the last verdict becomes the return value.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "roomguard-checker")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	applyDefaults(opts, cfg)

	if !opts.Watch {
		return check(ctx, opts)
	}

	logger.InfoKV(ctx, "Watching controller",
		"process", opts.ProcessName,
		"interval", opts.PollInterval.String())

	// Setup polling ticker with fixed interval.
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	// Carry the latest verdict so cancellation reports current health.
	lastErr := check(ctx, opts)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return lastErr
		case <-ticker.C:
			lastErr = check(ctx, opts)
		}
	}
}

// applyDefaults fills unset options from the config and the package defaults.
func applyDefaults(opts *Options, cfg *config.Config) {
	if opts.DatabasePath == "" {
		opts.DatabasePath = cfg.DatabasePath
	}

	if opts.ProcessName == "" {
		opts.ProcessName = DefaultProcessName
	}

	if opts.MaxHeartbeatAge <= 0 {
		opts.MaxHeartbeatAge = DefaultMaxHeartbeatAge
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
}

// check runs one verification pass and logs the verdict.
func check(ctx context.Context, opts *Options) error {
	alive, err := processAlive(opts.ProcessName)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if !alive {
		logger.ErrorKV(ctx, "Controller process not found", "process", opts.ProcessName)
		return ErrControllerNotRunning
	}

	age, err := heartbeatAge(ctx, opts.DatabasePath)
	if err != nil {
		if errors.Is(err, events.ErrNoHeartbeat) {
			logger.Error(ctx, "Event store holds no heartbeat yet")
			return ErrHeartbeatStale
		}

		return fmt.Errorf("read heartbeat: %w", err)
	}

	if age > opts.MaxHeartbeatAge {
		logger.ErrorKV(ctx, "Controller heartbeat is stale",
			"age", age.Round(time.Second).String(),
			"max_age", opts.MaxHeartbeatAge.String())

		return ErrHeartbeatStale
	}

	logger.InfoKV(ctx, "Controller is healthy",
		"process", opts.ProcessName,
		"heartbeat_age", age.Round(time.Second).String())

	return nil
}

// processAlive reports whether a process with the given executable name
// is running, excluding the checker itself.
func processAlive(name string) (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		// Windows reports names with the .exe suffix.
		executable := strings.TrimSuffix(process.Executable(), ".exe")
		if strings.EqualFold(executable, name) {
			return true, nil
		}
	}

	return false, nil
}

// heartbeatAge opens the event store and returns the age of the newest
// heartbeat.
func heartbeatAge(ctx context.Context, databasePath string) (time.Duration, error) {
	store, err := events.Open(databasePath)
	if err != nil {
		return 0, fmt.Errorf("open event store: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	at, err := store.LastHeartbeat(ctx)
	if err != nil {
		return 0, err
	}

	return time.Since(at), nil
}

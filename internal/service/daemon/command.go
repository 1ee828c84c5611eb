package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/controller"
	"github.com/roomguard/roomguard/internal/domain/access"
	"github.com/roomguard/roomguard/internal/hardware/rpi"
	"github.com/roomguard/roomguard/internal/logger"
	"github.com/roomguard/roomguard/internal/repository/events"
	"github.com/roomguard/roomguard/internal/telemetry"
	"github.com/roomguard/roomguard/internal/version"
)

// heartbeatInterval is how often the loop writes a liveness event for
// the checker. Not configurable; the checker's staleness bound assumes it.
const heartbeatInterval = time.Minute

// dispatchTimeout bounds audit writes so a wedged disk cannot stall the
// control loop indefinitely.
const dispatchTimeout = 2 * time.Second

// Options controls the roomguard controller process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// DatabasePath provides an optional audit database override.
	DatabasePath string
}

// Run starts the control loop and blocks until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "roomguard")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if lvl, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(lvl)
	}

	databasePath := cfg.DatabasePath
	if opts.DatabasePath != "" {
		databasePath = opts.DatabasePath
	}

	hw, err := rpi.Open(rpi.Options{
		LEDPin:     cfg.Hardware.LEDPin,
		BuzzerPin:  cfg.Hardware.BuzzerPin,
		ButtonPin:  cfg.Hardware.ButtonPin,
		TriggerPin: cfg.Hardware.TriggerPin,
		EchoPin:    cfg.Hardware.EchoPin,
		SPIDevice:  cfg.Hardware.SPIDevice,
		ResetPin:   cfg.Hardware.ResetPin,
		IRQPin:     cfg.Hardware.IRQPin,
	})
	if err != nil {
		return fmt.Errorf("open hardware: %w", err)
	}

	defer func() {
		if err := hw.Close(); err != nil {
			logger.ErrorKV(ctx, "Hardware close failed", "error", err)
		}
	}()

	store, err := events.Open(databasePath)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			logger.ErrorKV(ctx, "Audit store close failed", "error", err)
		}
	}()

	var publisher *telemetry.Publisher

	if cfg.MQTT != nil {
		publisher, err = telemetry.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connect telemetry: %w", err)
		}

		defer publisher.Close()
	}

	ctrl := controller.New(NewRanger(ctx, hw))
	sink := &auditSink{store: store, publisher: publisher}
	loop := NewLoop(hw, ctrl, sink.dispatch, heartbeatInterval)

	logger.InfoKV(ctx, "Controller starting",
		"version", version.Short(),
		"tick", cfg.TickInterval.String(),
		"database", databasePath,
		"telemetry", publisher != nil)

	if err := loop.Run(ctx, cfg.TickInterval); err != nil {
		return fmt.Errorf("control loop: %w", err)
	}

	logger.Info(ctx, "Controller stopped")

	return nil
}

// auditSink fans tick results out to the log, the audit store and the
// telemetry publisher. Failures are logged and swallowed: audit and
// telemetry are informational and must never influence control flow.
type auditSink struct {
	store     *events.Store
	publisher *telemetry.Publisher
}

// dispatch handles the events and snapshot of one tick.
func (s *auditSink) dispatch(ctx context.Context, evs []access.Event, snap access.Snapshot) {
	writeCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	for _, e := range evs {
		logEvent(ctx, e)

		if err := s.store.Append(writeCtx, e); err != nil {
			logger.ErrorKV(ctx, "Audit append failed", "kind", string(e.Kind), "error", err)
		}

		if s.publisher != nil {
			if err := s.publisher.PublishEvent(e); err != nil {
				logger.WarnKV(ctx, "Event publish failed", "kind", string(e.Kind), "error", err)
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatus(snap); err != nil {
			logger.WarnKV(ctx, "Status publish failed", "error", err)
		}
	}
}

// logEvent writes one event to the diagnostic stream at a level matching
// its severity.
func logEvent(ctx context.Context, e access.Event) {
	kvs := []any{"kind", string(e.Kind)}
	if e.UID != nil {
		kvs = append(kvs, "uid", e.UID.String())
	}

	if e.Detail != "" {
		kvs = append(kvs, "detail", e.Detail)
	}

	switch e.Kind {
	case access.EventMotionAlert:
		logger.WarnKV(ctx, "Motion alert", kvs...)
	case access.EventCardRejected:
		logger.WarnKV(ctx, "Unknown card scanned", kvs...)
	case access.EventSensorSilent:
		logger.WarnKV(ctx, "Range sensor silent", kvs...)
	case access.EventHeartbeat:
		logger.DebugKV(ctx, "Heartbeat", kvs...)
	default:
		logger.InfoKV(ctx, "State transition", kvs...)
	}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds deployment parameters shared by the roomguard binaries.
type Config struct {
	// LogLevel is the minimum level for console logging (debug..fatal).
	LogLevel string `yaml:"log_level"`
	// TickInterval is the control loop period. It acts as a rate
	// limiter, not a scheduler; tens of milliseconds is the intended range.
	TickInterval time.Duration `yaml:"tick_interval"`
	// DatabasePath is the SQLite file holding the append-only audit log.
	DatabasePath string `yaml:"database_path"`
	// Hardware names the pins and buses of the unit.
	Hardware Hardware `yaml:"hardware"`
	// MQTT enables telemetry publishing when present.
	MQTT *MQTT `yaml:"mqtt,omitempty"`
}

// Hardware names the physical wiring of one unit. Pin names use periph
// conventions, BCM numbers on a Raspberry Pi.
type Hardware struct {
	LEDPin     string `yaml:"led_pin"`
	BuzzerPin  string `yaml:"buzzer_pin"`
	ButtonPin  string `yaml:"button_pin"`
	TriggerPin string `yaml:"trigger_pin"`
	EchoPin    string `yaml:"echo_pin"`
	SPIDevice  string `yaml:"spi_device"`
	ResetPin   string `yaml:"reset_pin"`
	IRQPin     string `yaml:"irq_pin"`
}

// MQTT configures the optional telemetry publisher.
type MQTT struct {
	// BrokerURL is the broker address (tcp://host:1883 or ssl://...).
	BrokerURL string `yaml:"broker_url"`
	// ClientID identifies this unit to the broker.
	ClientID string `yaml:"client_id"`
	// TopicPrefix roots the status and event topics.
	TopicPrefix string `yaml:"topic_prefix"`
	// ConnectTimeout bounds the initial broker connection.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for deployment settings.
	DefaultConfigFilename = "roomguard-settings.yaml"

	// DefaultDatabaseFilename is the default filename for the audit log.
	DefaultDatabaseFilename = "roomguard-events.db"

	// DefaultTickInterval is the default control loop period.
	DefaultTickInterval = 20 * time.Millisecond

	// DefaultMQTTConnectTimeout is the default broker connection bound.
	DefaultMQTTConnectTimeout = 10 * time.Second

	// DefaultTopicPrefix roots telemetry topics unless configured.
	DefaultTopicPrefix = "roomguard"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxTickInterval guards against configs that would make the unit
	// unresponsive to human interaction.
	maxTickInterval = time.Second
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errTickIntervalTooLong is returned when the loop period exceeds the responsiveness bound.
	errTickIntervalTooLong = errors.New("tick interval must be one second or less")
	// errBrokerURLRequired is returned when an MQTT section lacks a broker address.
	errBrokerURLRequired = errors.New("mqtt broker url must be provided")
)

// Default returns a configuration with the standard wiring of the
// reference unit. Useful as a starting point for `roomguard init`.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		TickInterval: DefaultTickInterval,
		DatabasePath: DefaultDatabaseFilename,
		Hardware: Hardware{
			LEDPin:     "GPIO17",
			BuzzerPin:  "GPIO27",
			ButtonPin:  "GPIO22",
			TriggerPin: "GPIO23",
			EchoPin:    "GPIO24",
			SPIDevice:  "/dev/spidev0.0",
			ResetPin:   "GPIO25",
			IRQPin:     "GPIO4",
		},
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	if cfg.TickInterval > maxTickInterval {
		return errTickIntervalTooLong
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabaseFilename
	}

	applyHardwareDefaults(&cfg.Hardware)

	if cfg.MQTT == nil {
		return nil
	}

	return validateMQTT(cfg.MQTT)
}

// applyHardwareDefaults fills in the reference wiring for any pin left unset.
func applyHardwareDefaults(hw *Hardware) {
	defaults := Default().Hardware

	if hw.LEDPin == "" {
		hw.LEDPin = defaults.LEDPin
	}

	if hw.BuzzerPin == "" {
		hw.BuzzerPin = defaults.BuzzerPin
	}

	if hw.ButtonPin == "" {
		hw.ButtonPin = defaults.ButtonPin
	}

	if hw.TriggerPin == "" {
		hw.TriggerPin = defaults.TriggerPin
	}

	if hw.EchoPin == "" {
		hw.EchoPin = defaults.EchoPin
	}

	if hw.SPIDevice == "" {
		hw.SPIDevice = defaults.SPIDevice
	}

	if hw.ResetPin == "" {
		hw.ResetPin = defaults.ResetPin
	}

	if hw.IRQPin == "" {
		hw.IRQPin = defaults.IRQPin
	}
}

// validateMQTT checks the telemetry section and fills defaults.
func validateMQTT(m *MQTT) error {
	if m.BrokerURL == "" {
		return errBrokerURLRequired
	}

	if _, err := url.Parse(m.BrokerURL); err != nil {
		return fmt.Errorf("invalid mqtt broker url: %w", err)
	}

	if m.ClientID == "" {
		m.ClientID = DefaultTopicPrefix
	}

	if m.TopicPrefix == "" {
		m.TopicPrefix = DefaultTopicPrefix
	}

	if m.ConnectTimeout <= 0 {
		m.ConnectTimeout = DefaultMQTTConnectTimeout
	}

	return nil
}

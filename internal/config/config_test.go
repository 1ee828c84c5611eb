package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLoadRoundTrip verifies Save followed by Load preserves settings.
func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.TickInterval = 50 * time.Millisecond
	cfg.MQTT = &MQTT{BrokerURL: "tcp://broker.local:1883"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.LogLevel)
	require.Equal(t, 50*time.Millisecond, loaded.TickInterval)
	require.Equal(t, cfg.Hardware, loaded.Hardware)
	require.NotNil(t, loaded.MQTT)
	require.Equal(t, "tcp://broker.local:1883", loaded.MQTT.BrokerURL)
}

// TestLoadMissingFile verifies a helpful wrapped error for absent settings.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestValidateDefaults verifies that an empty config validates into the
// reference wiring and the default loop period.
func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config

	require.NoError(t, Validate(&cfg))
	require.Equal(t, DefaultTickInterval, cfg.TickInterval)
	require.Equal(t, DefaultDatabaseFilename, cfg.DatabasePath)
	require.Equal(t, Default().Hardware, cfg.Hardware)
	require.Nil(t, cfg.MQTT)
}

// TestValidateRejectsSlowTick verifies the responsiveness bound on the loop period.
func TestValidateRejectsSlowTick(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.TickInterval = 2 * time.Second

	require.Error(t, Validate(cfg))
}

// TestValidateMQTT verifies telemetry defaults and the broker requirement.
func TestValidateMQTT(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.MQTT = &MQTT{}
	require.Error(t, Validate(cfg))

	cfg.MQTT = &MQTT{BrokerURL: "tcp://broker.local:1883"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultTopicPrefix, cfg.MQTT.ClientID)
	require.Equal(t, DefaultTopicPrefix, cfg.MQTT.TopicPrefix)
	require.Equal(t, DefaultMQTTConnectTimeout, cfg.MQTT.ConnectTimeout)
}

// TestValidateNil verifies the nil-config sentinel.
func TestValidateNil(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
	require.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
}

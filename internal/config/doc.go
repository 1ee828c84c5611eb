// Package config defines deployment settings for the roomguard binaries
// and provides helpers to load, validate and save them in YAML format.
//
// The config covers wiring only: pin assignments, the SPI device, the
// audit database path and optional MQTT telemetry. Behavioural constants
// (thresholds, windows, the allow-list) are compiled into the controller
// package and have no runtime reconfiguration surface.
package config

//go:build !linux

package rpi

import (
	"errors"

	"github.com/roomguard/roomguard/internal/hardware"
)

// ErrUnsupported is returned on platforms without GPIO support.
var ErrUnsupported = errors.New("rpi hardware backend requires linux")

// Options names the pins and the SPI device of one unit. See the Linux
// implementation for field semantics.
type Options struct {
	LEDPin     string
	BuzzerPin  string
	ButtonPin  string
	TriggerPin string
	EchoPin    string

	SPIDevice string
	ResetPin  string
	IRQPin    string
}

// Open always fails on this platform.
//
//nolint:ireturn // Both build flavours share the interface signature.
func Open(Options) (hardware.Backend, error) {
	return nil, ErrUnsupported
}

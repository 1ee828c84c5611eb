//go:build linux

package rpi

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"
	"periph.io/x/host/v3"

	"github.com/roomguard/roomguard/internal/domain/access"
	"github.com/roomguard/roomguard/internal/hardware"
)

// cardProbeTimeout bounds a single reader poll. The loop calls PollCard
// every tick, so the probe has to stay well under the tick period.
const cardProbeTimeout = 5 * time.Millisecond

// settleDelay is the low settle before the ultrasonic trigger pulse.
const settleDelay = 2 * time.Microsecond

// triggerPulse is the width of the ultrasonic trigger pulse.
const triggerPulse = 10 * time.Microsecond

// Options names the pins and the SPI device of one unit. Pin names are
// periph names, BCM numbers on a Raspberry Pi (e.g. "GPIO17").
type Options struct {
	LEDPin     string
	BuzzerPin  string
	ButtonPin  string
	TriggerPin string
	EchoPin    string

	// SPIDevice is the reader's SPI port (e.g. "/dev/spidev0.0").
	SPIDevice string
	// ResetPin and IRQPin are the MFRC522 module's RST and IRQ lines.
	ResetPin string
	IRQPin   string
}

// Backend drives the physical unit. It implements hardware.Backend.
type Backend struct {
	led     gpio.PinIO
	buzzer  gpio.PinIO
	button  gpio.PinIO
	trigger gpio.PinIO
	echo    gpio.PinIO

	spiPort spi.PortCloser
	reader  *mfrc522.Dev
}

// Open initializes periph host state, claims the pins and brings up the
// card reader over SPI.
//
//nolint:ireturn // Both build flavours share the interface signature.
func Open(opts Options) (hardware.Backend, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	b := &Backend{}

	var err error

	if b.led, err = outputPin(opts.LEDPin); err != nil {
		return nil, err
	}

	if b.buzzer, err = outputPin(opts.BuzzerPin); err != nil {
		return nil, err
	}

	// Momentary button wired active-low against the internal pull-up.
	if b.button, err = pinByName(opts.ButtonPin); err != nil {
		return nil, err
	}

	if err = b.button.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure button pin %s: %w", opts.ButtonPin, err)
	}

	if b.trigger, err = outputPin(opts.TriggerPin); err != nil {
		return nil, err
	}

	if b.echo, err = pinByName(opts.EchoPin); err != nil {
		return nil, err
	}

	if err = b.echo.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure echo pin %s: %w", opts.EchoPin, err)
	}

	if err = b.openReader(opts); err != nil {
		return nil, err
	}

	return b, nil
}

// openReader brings up the MFRC522 over SPI.
func (b *Backend) openReader(opts Options) error {
	reset, err := pinByName(opts.ResetPin)
	if err != nil {
		return err
	}

	irq, err := pinByName(opts.IRQPin)
	if err != nil {
		return err
	}

	b.spiPort, err = spireg.Open(opts.SPIDevice)
	if err != nil {
		return fmt.Errorf("open SPI device %s: %w", opts.SPIDevice, err)
	}

	b.reader, err = mfrc522.NewSPI(b.spiPort, reset, irq)
	if err != nil {
		_ = b.spiPort.Close()

		return fmt.Errorf("init mfrc522: %w", err)
	}

	return nil
}

// PollCard probes the reader field for a card. A probe timeout means no
// card is present and is not an error.
func (b *Backend) PollCard() (access.UID, bool, error) {
	var uid access.UID

	raw, err := b.reader.ReadUID(cardProbeTimeout)
	if err != nil {
		// The driver reports an absent card as a timeout error.
		return uid, false, nil
	}

	if len(raw) < access.UIDLength {
		return uid, false, fmt.Errorf("reader returned %d-byte uid", len(raw))
	}

	copy(uid[:], raw[:access.UIDLength])

	return uid, true, nil
}

// HaltSession tells the card in the field to leave the active state.
func (b *Backend) HaltSession() error {
	if err := b.reader.Halt(); err != nil {
		return fmt.Errorf("halt card session: %w", err)
	}

	return nil
}

// MeasureCentimeters fires the ultrasonic trigger and times the echo
// pulse. It blocks for at most roughly two echo-timeout windows.
func (b *Backend) MeasureCentimeters() (float64, bool, error) {
	if err := b.echo.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return 0, false, fmt.Errorf("arm echo pin: %w", err)
	}

	// Idle-low settle, then the trigger pulse.
	if err := b.trigger.Out(gpio.Low); err != nil {
		return 0, false, fmt.Errorf("drive trigger: %w", err)
	}

	time.Sleep(settleDelay)

	if err := b.trigger.Out(gpio.High); err != nil {
		return 0, false, fmt.Errorf("drive trigger: %w", err)
	}

	time.Sleep(triggerPulse)

	if err := b.trigger.Out(gpio.Low); err != nil {
		return 0, false, fmt.Errorf("drive trigger: %w", err)
	}

	if !b.echo.WaitForEdge(hardware.EchoTimeout) {
		return 0, false, nil
	}

	start := time.Now()

	if err := b.echo.In(gpio.PullDown, gpio.FallingEdge); err != nil {
		return 0, false, fmt.Errorf("arm echo pin: %w", err)
	}

	if !b.echo.WaitForEdge(hardware.EchoTimeout) {
		return 0, false, nil
	}

	pulse := time.Since(start)

	return hardware.PulseToCentimeters(pulse.Microseconds()), true, nil
}

// SetLED drives the indicator output.
func (b *Backend) SetLED(on bool) error {
	return b.led.Out(gpio.Level(on))
}

// SetBuzzer drives the buzzer output.
func (b *Backend) SetBuzzer(on bool) error {
	return b.buzzer.Out(gpio.Level(on))
}

// ButtonActive reads the button with the active-low translation applied.
func (b *Backend) ButtonActive() (bool, error) {
	return b.button.Read() == gpio.Low, nil
}

// Close quiesces the outputs and releases the reader and SPI port.
func (b *Backend) Close() error {
	var errs []error

	errs = append(errs, b.buzzer.Out(gpio.Low), b.led.Out(gpio.Low))

	if b.reader != nil {
		errs = append(errs, b.reader.Halt())
	}

	if b.spiPort != nil {
		errs = append(errs, b.spiPort.Close())
	}

	return errors.Join(errs...)
}

// outputPin claims a pin by name and drives it low.
func outputPin(name string) (gpio.PinIO, error) {
	p, err := pinByName(name)
	if err != nil {
		return nil, err
	}

	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure output pin %s: %w", name, err)
	}

	return p, nil
}

// pinByName resolves a periph pin name.
func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", name)
	}

	return p, nil
}

package simulator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/controller"
	"github.com/roomguard/roomguard/internal/domain/access"
	"github.com/roomguard/roomguard/internal/hardware"
	"github.com/roomguard/roomguard/internal/logger"
	"github.com/roomguard/roomguard/internal/service/daemon"
)

// Options configures the interactive simulation session.
type Options struct {
	// TickInterval overrides the control loop cadence.
	TickInterval time.Duration
}

// pressDuration is how long a simulated button press stays active. It
// comfortably clears the debounce window.
const pressDuration = 120 * time.Millisecond

// Run drives the control loop with a fake backend and reads commands
// from stdin until "q" or EOF.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "roomguard-simulator")

	tick := opts.TickInterval
	if tick <= 0 {
		tick = config.DefaultTickInterval
	}

	fake := hardware.NewFake()
	ctrl := controller.New(daemon.NewRanger(ctx, fake))
	out := os.Stdout

	dispatch := func(_ context.Context, evs []access.Event, snap access.Snapshot) {
		for _, e := range evs {
			line := string(e.Kind)
			if e.UID != nil {
				line += " uid=" + e.UID.String()
			}

			if e.Detail != "" {
				line += " " + e.Detail
			}

			fmt.Fprintln(out, "event:", line)
		}

		fmt.Fprintf(out, "state: alerting=%t vip=%t led=%t buzzer=%t\n",
			snap.Alerting, snap.VIPMode, snap.LED, snap.Buzzer)
	}

	loop := daemon.NewLoop(fake, ctrl, dispatch, 0)

	// Run the loop in the background; the session owns its lifetime.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)

	go func() {
		loopDone <- loop.Run(ctx, tick)
	}()

	// The session goroutine may outlive Run when stdin stays blocked
	// after a signal; it only touches the fake, so that is harmless.
	sessionDone := make(chan struct{})

	go func() {
		defer close(sessionDone)
		session(ctx, fake, os.Stdin, out)
	}()

	printHelp(out)

	select {
	case <-ctx.Done():
	case <-sessionDone:
	}

	cancel()

	if err := <-loopDone; err != nil {
		return fmt.Errorf("control loop: %w", err)
	}

	logger.Info(ctx, "Simulation finished")

	return nil
}

// session consumes commands line by line until quit, EOF or cancellation.
func session(ctx context.Context, fake *hardware.Fake, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		if quit := handle(fake, strings.TrimSpace(scanner.Text()), out); quit {
			return
		}
	}
}

// handle executes one command and reports whether the session should end.
func handle(fake *hardware.Fake, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "b":
		fake.PressFor(pressDuration)
		fmt.Fprintln(out, "button pressed")
	case "c":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: c <hex uid, e.g. 9C7A0F2B>")
			return false
		}

		uid, err := access.ParseUID(strings.Join(fields[1:], " "))
		if err != nil {
			fmt.Fprintln(out, "bad uid:", err)
			return false
		}

		fake.QueueCard(uid)
		fmt.Fprintln(out, "card queued:", uid.String())
	case "d":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: d <centimeters>")
			return false
		}

		cm, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || cm < 0 {
			fmt.Fprintln(out, "bad distance:", fields[1])
			return false
		}

		fake.SetDistance(cm)
		fmt.Fprintf(out, "distance set to %.1f cm\n", cm)
	case "t":
		fake.SetEchoTimeout()
		fmt.Fprintln(out, "sensor reports no echo")
	case "q":
		return true
	case "h", "help", "?":
		printHelp(out)
	default:
		fmt.Fprintln(out, "unknown command:", fields[0])
	}

	return false
}

// printHelp lists the session commands.
func printHelp(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  b          press the button")
	fmt.Fprintln(out, "  c <hex>    scan a card by UID, e.g. c 9C7A0F2B")
	fmt.Fprintln(out, "  d <cm>     set the measured distance")
	fmt.Fprintln(out, "  t          make the sensor time out")
	fmt.Fprintln(out, "  q          quit")
}

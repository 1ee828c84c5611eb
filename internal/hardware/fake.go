package hardware

import (
	"sync"
	"time"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// Fake is an in-memory Backend for tests and the simulator. All methods
// are safe for concurrent use: the control loop reads it while a test or
// the simulator's stdin goroutine scripts it.
type Fake struct {
	mu sync.Mutex

	buttonActive bool
	cards        []access.UID
	distanceCm   float64
	distanceOK   bool

	led    bool
	buzzer bool
	halted int
}

// NewFake returns a fake with the button released, no cards queued and
// the sensor reporting open space (echo timeout).
func NewFake() *Fake {
	return &Fake{}
}

// PollCard pops the oldest queued card, if any.
func (f *Fake) PollCard() (access.UID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.cards) == 0 {
		return access.UID{}, false, nil
	}

	uid := f.cards[0]
	f.cards = f.cards[1:]

	return uid, true, nil
}

// HaltSession records the halt; the fake has no card session to end.
func (f *Fake) HaltSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.halted++

	return nil
}

// MeasureCentimeters returns the scripted reading.
func (f *Fake) MeasureCentimeters() (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.distanceCm, f.distanceOK, nil
}

// SetLED records the commanded indicator level.
func (f *Fake) SetLED(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.led = on

	return nil
}

// SetBuzzer records the commanded buzzer level.
func (f *Fake) SetBuzzer(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buzzer = on

	return nil
}

// ButtonActive reports the scripted button level.
func (f *Fake) ButtonActive() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.buttonActive, nil
}

// Close is a no-op on the fake.
func (f *Fake) Close() error {
	return nil
}

// QueueCard schedules a card to be returned by the next PollCard.
func (f *Fake) QueueCard(uid access.UID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cards = append(f.cards, uid)
}

// SetButtonActive scripts the raw button level.
func (f *Fake) SetButtonActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buttonActive = active
}

// PressFor holds the button for the given duration, then releases it.
// The duration must exceed the controller's debounce window for the
// press to register.
func (f *Fake) PressFor(d time.Duration) {
	f.SetButtonActive(true)

	time.AfterFunc(d, func() {
		f.SetButtonActive(false)
	})
}

// SetDistance scripts a distance reading in centimeters.
func (f *Fake) SetDistance(cm float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.distanceCm = cm
	f.distanceOK = true
}

// SetEchoTimeout scripts the sensor to report no echo.
func (f *Fake) SetEchoTimeout() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.distanceCm = 0
	f.distanceOK = false
}

// LED reports the last commanded indicator level.
func (f *Fake) LED() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.led
}

// Buzzer reports the last commanded buzzer level.
func (f *Fake) Buzzer() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.buzzer
}

// Halted reports how many times HaltSession was called.
func (f *Fake) Halted() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.halted
}

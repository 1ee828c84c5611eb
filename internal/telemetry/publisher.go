package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/roomguard/roomguard/internal/config"
	"github.com/roomguard/roomguard/internal/domain/access"
)

const (
	// publishTimeout bounds a single publish so a slow broker cannot
	// stall event dispatch for long.
	publishTimeout = 2 * time.Second

	// publishQoS is at-least-once; duplicated events are harmless in an
	// informational stream.
	publishQoS = 1
)

var (
	// ErrConnectionFailed is returned when the initial broker connection fails.
	ErrConnectionFailed = errors.New("mqtt connection failed")
	// ErrPublishFailed is returned when a publish does not complete in time.
	ErrPublishFailed = errors.New("mqtt publish failed")
)

// eventMessage is the wire form of an audit event.
type eventMessage struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	UID    string    `json:"uid,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Publisher sends controller telemetry to an MQTT broker.
type Publisher struct {
	client pahomqtt.Client
	prefix string
}

// Connect establishes the broker session. Auto-reconnect is left on so a
// broker restart does not require a controller restart; messages lost
// while offline are acceptable for an informational stream.
func Connect(cfg *config.MQTT) (*Publisher, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetCleanSession(true)

	client := pahomqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, cfg.ConnectTimeout)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Publisher{
		client: client,
		prefix: cfg.TopicPrefix,
	}, nil
}

// PublishStatus sends a retained state snapshot so new subscribers
// immediately learn the current alert/VIP state.
func (p *Publisher) PublishStatus(s access.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return p.publish(p.prefix+"/status", payload, true)
}

// PublishEvent sends one audit event.
func (p *Publisher) PublishEvent(e access.Event) error {
	msg := eventMessage{
		At:     e.At,
		Kind:   string(e.Kind),
		Detail: e.Detail,
	}
	if e.UID != nil {
		msg.UID = e.UID.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return p.publish(p.prefix+"/events", payload, false)
}

// publish sends a payload with the package QoS and a bounded wait.
func (p *Publisher) publish(topic string, payload []byte, retained bool) error {
	token := p.client.Publish(topic, publishQoS, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrPublishFailed, topic, publishTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}

	return nil
}

// Close disconnects from the broker, allowing a short drain.
func (p *Publisher) Close() {
	const drainMillis = 250

	p.client.Disconnect(drainMillis)
}

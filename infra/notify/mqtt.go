// Package notify publishes reminder messages to an MQTT broker so external
// consumers (mobile push relays, desktop agents) can surface them.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/studyflow/studyflow/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "studyflow-" + uuid.NewString()[:8]
	}
	if c.Topic == "" {
		c.Topic = "studyflow/reminders"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// connectTimeout bounds the initial broker handshake.
const connectTimeout = 10 * time.Second

// MQTTPublisher sends JSON payloads to a fixed topic using Eclipse Paho.
type MQTTPublisher struct {
	cli   pahoClient
	topic string
	qos   byte
	log   logger.Logger
}

// NewMQTTPublisher connects to the broker and returns a ready publisher.
func NewMQTTPublisher(cfg Config) (*MQTTPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	cli := newMQTTClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &MQTTPublisher{
		cli:   cli,
		topic: cfg.Topic,
		qos:   cfg.QoS,
		log:   logger.New("mqtt_notify"),
	}, nil
}

// Publish marshals the payload and sends it to the configured topic.
func (p *MQTTPublisher) Publish(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	token := p.cli.Publish(p.topic, p.qos, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.log.Debugf("published %d bytes to %s", len(data), p.topic)
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

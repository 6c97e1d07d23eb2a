// internal/telemetry/publisher.go
package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher forwards verification read-backs to an MQTT broker as
// timestamped JSON documents. It implements verify.Observer; publish
// failures are logged, never propagated, so a dead broker cannot stall
// the verification loop.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    *slog.Logger
	now    func() time.Time
}

type Config struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Username string
	Password string
}

// New creates a publisher and connects to the broker.
func New(cfg Config, log *slog.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("telemetry: broker required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("telemetry: topic required")
	}
	if log == nil {
		log = slog.Default()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(30 * time.Second)
	opts.SetMaxReconnectInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetWriteTimeout(10 * time.Second)
	opts.SetPingTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connect %s: %w", cfg.Broker, token.Error())
	}

	return &Publisher{
		client: client,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		log:    log,
		now:    time.Now,
	}, nil
}

// Close disconnects from the broker, allowing in-flight messages a short
// grace period.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// Reading implements verify.Observer.
func (p *Publisher) Reading(ch int, value float64, unit string) {
	p.publish(p.topic, encodeReading(ch, value, unit, p.now()))
}

// ReadError implements verify.Observer.
func (p *Publisher) ReadError(ch int, err error) {
	p.publish(p.topic+"/errors", encodeReadError(ch, err, p.now()))
}

func (p *Publisher) publish(topic string, payload []byte) {
	token := p.client.Publish(topic, p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		p.log.Warn("telemetry publish failed", "topic", topic, "err", token.Error())
	}
}

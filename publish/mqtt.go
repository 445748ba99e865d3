package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/robertof/go-parasite-monitor/sensor"
)

const (
	DefaultTopicPrefix = "parasite"
	DefaultClientID    = "go-parasite-monitor"

	publishTimeout = 5 * time.Second
)

var ErrNotConnected = errors.New("mqtt client not connected")

type Config struct {
	// Broker is a paho broker URL, e.g. tcp://localhost:1883.
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
	Retain      bool
}

// Message is the JSON document published for every reading.
type Message struct {
	Addr                  string    `json:"addr"`
	Name                  string    `json:"name"`
	Timestamp             time.Time `json:"timestamp"`
	RunCounter            uint8     `json:"run_counter"`
	BatteryMilliVolts     uint16    `json:"battery_mv"`
	BatteryPercent        float64   `json:"battery_pct"`
	TemperatureCelsius    float32   `json:"temperature_c"`
	TemperatureFahrenheit float64   `json:"temperature_f"`
	RelativeHumidity      float64   `json:"humidity_pct"`
	SoilMoisture          float64   `json:"soil_moisture_pct"`
	Lux                   *uint16   `json:"lux,omitempty"`
}

func NewMessage(r sensor.Reading) Message {
	m := Message{
		Addr:                  r.Addr.String(),
		Name:                  r.Name(),
		Timestamp:             r.Timestamp,
		RunCounter:            r.RunCounter,
		BatteryMilliVolts:     r.BatteryMilliVolts,
		BatteryPercent:        r.BatteryPercent(),
		TemperatureCelsius:    r.TemperatureCelsius,
		TemperatureFahrenheit: r.TemperatureFahrenheit(),
		RelativeHumidity:      r.RelativeHumidity(),
		SoilMoisture:          r.SoilMoisturePercent(),
	}

	if r.HasLightSensor {
		lux := r.Lux
		m.Lux = &lux
	}

	return m
}

// Topic returns <prefix>/<addr>/reading.
func Topic(prefix string, addr sensor.Addr) string {
	prefix = strings.TrimSuffix(prefix, "/")

	if prefix == "" {
		prefix = DefaultTopicPrefix
	}

	return fmt.Sprintf("%s/%s/reading", prefix, addr)
}

// MQTT publishes readings to a broker. Publishing never waits for the broker: delivery
// failures are only logged.
type MQTT struct {
	client mqtt.Client
	cfg    Config
}

func NewMQTT(cfg Config) *MQTT {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}

	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetKeepAlive(30 * time.Second)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info().Str("Broker", cfg.Broker).Msg("Connected to MQTT broker")
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("Broker", cfg.Broker).Msg("Lost connection to MQTT broker")
	})

	return &MQTT{
		client: mqtt.NewClient(opts),
		cfg:    cfg,
	}
}

// Connect starts connecting and waits for the first connection until ctx is done. With
// connect retry enabled the client keeps trying in the background after ctx expires.
func (m *MQTT) Connect(ctx context.Context) error {
	token := m.client.Connect()

	for {
		if token.WaitTimeout(200 * time.Millisecond) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (m *MQTT) Publish(ctx context.Context, readings []sensor.Reading) error {
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	var errs []error

	for _, r := range readings {
		data, err := json.Marshal(NewMessage(r))
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal reading for %v: %w", r.Addr, err))
			continue
		}

		topic := Topic(m.cfg.TopicPrefix, r.Addr)
		token := m.client.Publish(topic, m.cfg.QoS, m.cfg.Retain, data)

		go func() {
			if !token.WaitTimeout(publishTimeout) {
				log.Warn().Str("Topic", topic).Msg("Timed out publishing reading")
				return
			}

			if err := token.Error(); err != nil {
				log.Warn().Err(err).Str("Topic", topic).Msg("Failed to publish reading")
				return
			}

			log.Trace().Str("Topic", topic).Msg("Published reading")
		}()
	}

	return errors.Join(errs...)
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
	log.Info().Msg("Disconnected from MQTT broker")
}

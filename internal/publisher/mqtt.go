package publisher

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jgoulah/energyview/internal/config"
)

const mqttQoS = 1

// mqttClient is the part of mqtt.Client the sink uses
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// MQTTSink publishes anomalies to <prefix>/anomaly
type MQTTSink struct {
	client      mqttClient
	topicPrefix string
}

// RouteMQTTLogs sends the paho client's error and warning output to log
func RouteMQTTLogs(log *zap.Logger) error {
	log = log.Named("mqtt")
	errLog, err := zap.NewStdLogAt(log, zapcore.ErrorLevel)
	if err != nil {
		return fmt.Errorf("creating mqtt error log: %w", err)
	}
	warnLog, err := zap.NewStdLogAt(log, zapcore.WarnLevel)
	if err != nil {
		return fmt.Errorf("creating mqtt warn log: %w", err)
	}
	mqtt.ERROR = errLog
	mqtt.CRITICAL = errLog
	mqtt.WARN = warnLog
	return nil
}

// NewMQTT connects to the broker in cfg
func NewMQTT(cfg *config.Config) (*MQTTSink, error) {
	mqttCfg := cfg.MQTT
	if mqttCfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required")
	}

	clientID := mqttCfg.ClientID
	if clientID == "" {
		clientID = "energyview-" + uuid.NewString()[:8]
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if mqttCfg.Username != "" {
		opts.SetUsername(mqttCfg.Username)
	}
	if mqttCfg.Password != "" {
		opts.SetPassword(mqttCfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &MQTTSink{client: client, topicPrefix: cfg.GetTopicPrefix()}, nil
}

// Name identifies the sink in errors and output
func (s *MQTTSink) Name() string {
	return "mqtt"
}

// Topic is where anomalies are published
func (s *MQTTSink) Topic() string {
	return s.topicPrefix + "/anomaly"
}

// Publish sends one payload with QoS 1 and waits for the broker to accept it
func (s *MQTTSink) Publish(ctx context.Context, p AnomalyPayload) error {
	body, err := p.Encode()
	if err != nil {
		return err
	}

	token := s.client.Publish(s.Topic(), mqttQoS, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", p.Date, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (s *MQTTSink) Close() error {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	return nil
}

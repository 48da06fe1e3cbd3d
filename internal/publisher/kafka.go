package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jgoulah/energyview/internal/config"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes anomalies to a topic, keyed by record date
type KafkaSink struct {
	writer kafkaWriter
	topic  string
}

// NewKafka builds a writer for the brokers in cfg. No connection is made
// until the first publish.
func NewKafka(cfg *config.Config) (*KafkaSink, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("at least one Kafka broker is required")
	}
	topic := cfg.GetKafkaTopic()
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("Kafka topic must not be empty")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaSink{writer: w, topic: topic}, nil
}

// Name identifies the sink in errors and output
func (s *KafkaSink) Name() string {
	return "kafka"
}

// Topic is where anomalies are written
func (s *KafkaSink) Topic() string {
	return s.topic
}

// Publish writes one payload
func (s *KafkaSink) Publish(ctx context.Context, p AnomalyPayload) error {
	body, err := p.Encode()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(p.Date),
		Value: body,
		Time:  time.Now().UTC(),
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing %s: %w", p.Date, err)
	}
	return nil
}

// Close flushes and closes the writer
func (s *KafkaSink) Close() error {
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer: %w", err)
	}
	return nil
}

package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of kafka.Writer used by Producer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events to a single Kafka topic.
type Producer struct {
	writer       MessageWriter
	writeTimeout time.Duration
}

// NewProducer creates a synchronous producer for topic.
func NewProducer(brokers []string, topic string, writeTimeout time.Duration) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: writeTimeout,
	}, writeTimeout)
}

// NewProducerWithWriter creates a Producer on top of an existing writer.
func NewProducerWithWriter(writer MessageWriter, writeTimeout time.Duration) *Producer {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Producer{writer: writer, writeTimeout: writeTimeout}
}

// Publish marshals value as JSON and writes it under key.
func (p *Producer) Publish(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

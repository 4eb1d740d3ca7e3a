package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrUnknownTopic = errors.New("kafka: unknown topic")

// Producer owns one writer per topic. A producer without brokers is disabled and
// drops every event, so the service runs without kafka.
type Producer struct {
	writers map[string]*kafka.Writer
}

func NewProducer(brokers []string, topics []string) (*Producer, error) {
	p := &Producer{writers: map[string]*kafka.Writer{}}
	if len(brokers) == 0 {
		return p, nil
	}
	if len(topics) == 0 {
		return nil, errors.New("kafka: no topics configured")
	}

	for _, topic := range topics {
		p.writers[topic] = &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		}
	}
	return p, nil
}

func (p *Producer) Enabled() bool {
	return p != nil && len(p.writers) > 0
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if !p.Enabled() {
		return nil
	}
	w, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

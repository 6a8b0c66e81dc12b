package events

import (
	"context"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/kafka"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/rabbitmq"
)

// Publisher sends a CloudEvent to a topic. subject keys the event so
// events for one reservation stay ordered.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, subject string, data interface{}) error
}

func newEvent(eventType, subject string, data interface{}) (kafka.CloudEvent, error) {
	ce, err := kafka.NewCloudEvent(Source, eventType, data)
	if err != nil {
		return kafka.CloudEvent{}, err
	}
	ce.Subject = subject
	return ce, nil
}

// KafkaPublisher publishes through a Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, eventType, subject string, data interface{}) error {
	ce, err := newEvent(eventType, subject, data)
	if err != nil {
		return err
	}
	return p.producer.PublishEvent(ctx, topic, ce)
}

// RabbitPublisher publishes the same envelope to a topic exchange. The
// routing key is "<topic>.<event type>".
type RabbitPublisher struct {
	publisher *rabbitmq.Publisher
}

// NewRabbitPublisher creates a RabbitPublisher.
func NewRabbitPublisher(publisher *rabbitmq.Publisher) *RabbitPublisher {
	return &RabbitPublisher{publisher: publisher}
}

// Publish implements Publisher.
func (p *RabbitPublisher) Publish(ctx context.Context, topic, eventType, subject string, data interface{}) error {
	ce, err := newEvent(eventType, subject, data)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, topic+"."+eventType, ce.ID, ce)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, string, string, interface{}) error { return nil }

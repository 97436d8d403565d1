package messaging

import (
	"context"
	"encoding/json"

	"restore-scheduler/internal/notify"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes notification events to the topic consumed by
// the platform's SMS/WhatsApp relay.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ notify.MessagePublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event notify.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RegistrationID.String()),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

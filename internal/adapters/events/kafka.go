package events

import (
	"context"
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to one topic keyed by account ID, so events of the same
// account land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.WalletEvent) error {
	data, err := marshalEvent(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write event to kafka topic %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

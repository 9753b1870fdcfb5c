package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tradelink/settlement-service/internal/domain"
)

// DefaultKafkaPublisher pushes realtime settlement events keyed by recipient
// so each user's events stay ordered within a partition.
type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (k *DefaultKafkaPublisher) PublishSettlement(event domain.SettlementEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RecipientID),
		Value: value,
		Time:  time.Now(),
		Topic: k.topic,
	})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

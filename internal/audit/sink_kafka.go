package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"sensorgate/internal/platform/kafka"
)

// KafkaSink publishes audit events to a Kafka topic, keyed by device so one
// device's events stay ordered within a partition.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSink(producer *kafka.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	return s.producer.Produce(ctx, s.topic, []byte(event.DeviceID), value)
}

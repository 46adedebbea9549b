package events

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var (
	_ Publisher     = (*KafkaPublisher)(nil)
	_ MessageWriter = (*kafka.Writer)(nil)
)

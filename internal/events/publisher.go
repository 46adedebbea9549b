package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeReviewSubmitted = "review_submitted"
	TypeSearchPerformed = "search_performed"
)

type Message struct {
	Type         string    `json:"type"`
	Username     string    `json:"username,omitempty"`
	RestaurantID int       `json:"restaurant_id,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	Query        string    `json:"query,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// key groups a restaurant's events on one partition; searches go by user.
func (m Message) key() []byte {
	if m.RestaurantID > 0 {
		return []byte(strconv.Itoa(m.RestaurantID))
	}
	return []byte(m.Username)
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", msg.Type, err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   msg.key(),
		Value: payload,
	})
}

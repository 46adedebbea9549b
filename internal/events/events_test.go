package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant-finder/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	w.messages = append(w.messages, msgs...)
	w.mu.Unlock()
	return nil
}

type blockingWriter struct {
	release chan struct{}
	written chan kafka.Message
}

func (w *blockingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	select {
	case <-w.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, m := range msgs {
		w.written <- m
	}
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newActivity(w *captureWriter, user string) *Activity {
	a := NewActivity(NewKafkaPublisher(w), func() string { return user })
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestActivity_ReviewSubmitted(t *testing.T) {
	w := &captureWriter{}
	a := newActivity(w, "ana")
	a.ReviewSubmitted(context.Background(), 42, domain.Review{ID: 1, Rating: 4})
	a.Wait()

	require.Len(t, w.messages, 1)
	assert.Equal(t, "42", string(w.messages[0].Key))

	var msg Message
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &msg))
	assert.Equal(t, Message{
		Type:         TypeReviewSubmitted,
		Username:     "ana",
		RestaurantID: 42,
		Rating:       4,
		Timestamp:    fixedNow,
	}, msg)
}

func TestActivity_SearchPerformed(t *testing.T) {
	w := &captureWriter{}
	filters := domain.SearchFilters{Name: "sushi", Categories: []string{"Asian", "Japanese"}, MinRating: domain.RatingFour}
	a := newActivity(w, "ana")
	a.SearchPerformed(context.Background(), filters)
	a.Wait()

	require.Len(t, w.messages, 1)
	assert.Equal(t, "ana", string(w.messages[0].Key))
	assert.JSONEq(t, `{
		"type": "search_performed",
		"username": "ana",
		"query": "name=sushi&categories=Asian&categories=Japanese&rating=4",
		"timestamp": "2024-05-01T12:00:00Z"
	}`, string(w.messages[0].Value))
}

func TestActivity_FailuresAreSwallowed(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		a := newActivity(w, "ana")
		a.SearchPerformed(context.Background(), domain.SearchFilters{})
		a.Wait()
	})

	var nilActivity *Activity
	assert.NotPanics(t, func() {
		nilActivity.ReviewSubmitted(context.Background(), 1, domain.Review{})
	})
	assert.NotPanics(t, func() {
		NewActivity(nil, nil).SearchPerformed(context.Background(), domain.SearchFilters{})
	})
}

func TestActivity_DoesNotBlockCaller(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{}), written: make(chan kafka.Message, 2)}
	a := NewActivity(NewKafkaPublisher(w), func() string { return "ana" })

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		a.ReviewSubmitted(ctx, 7, domain.Review{Rating: 5})
		a.SearchPerformed(ctx, domain.SearchFilters{Name: "pho"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("publishing blocked the caller")
	}

	// A finished request must not abort its pending event.
	cancel()
	close(w.release)
	a.Wait()
	assert.Len(t, w.written, 2)
}

package events

import (
	"context"
	"log"
	"sync"
	"time"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/search"
)

// PublishTimeout bounds one background publish.
const PublishTimeout = 5 * time.Second

// Activity turns user actions into events. A nil Activity, or one without a
// publisher, drops everything. Events are published in the background so the
// caller never waits on the broker; failures are only logged.
type Activity struct {
	publisher Publisher
	username  func() string
	now       func() time.Time

	wg sync.WaitGroup
}

func NewActivity(publisher Publisher, username func() string) *Activity {
	return &Activity{publisher: publisher, username: username, now: time.Now}
}

func (a *Activity) ReviewSubmitted(ctx context.Context, restaurantID int, review domain.Review) {
	a.publish(ctx, Message{
		Type:         TypeReviewSubmitted,
		RestaurantID: restaurantID,
		Rating:       review.Rating,
	})
}

func (a *Activity) SearchPerformed(ctx context.Context, filters domain.SearchFilters) {
	a.publish(ctx, Message{
		Type:  TypeSearchPerformed,
		Query: search.QueryString(filters),
	})
}

// Wait blocks until every event handed to the publisher has been sent or
// has failed.
func (a *Activity) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}

func (a *Activity) publish(ctx context.Context, msg Message) {
	if a == nil || a.publisher == nil {
		return
	}
	if a.username != nil {
		msg.Username = a.username()
	}
	msg.Timestamp = a.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		if err := a.publisher.Publish(ctx, msg); err != nil {
			log.Printf("Warning: failed to publish %s event: %v", msg.Type, err)
		}
	}()
}

package pages

import (
	"context"
	"fmt"
	"sync"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/service"
)

const DefaultReviewRating = 5

type ReviewForm struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func defaultForm() ReviewForm {
	return ReviewForm{Rating: DefaultReviewRating}
}

type DetailState struct {
	RestaurantID int                `json:"restaurantId"`
	Loading      bool               `json:"loading"`
	Restaurant   *domain.Restaurant `json:"restaurant"`
	Reviews      []domain.Review    `json:"reviews"`
	Submitting   bool               `json:"submitting"`
	Form         ReviewForm         `json:"form"`
	Err          error              `json:"-"`
	Error        string             `json:"error,omitempty"`
}

type AuthChecker interface {
	IsAuthenticated() bool
}

// ReviewHook runs after a review was accepted by the backend.
type ReviewHook func(restaurantID int, review domain.Review)

// Detail holds the restaurant page currently open.
type Detail struct {
	svc  service.RestaurantServiceInterface
	auth AuthChecker
	hook ReviewHook

	mu       sync.Mutex
	gen      uint64
	state    DetailState
	inFlight map[int]bool
}

func NewDetail(svc service.RestaurantServiceInterface, auth AuthChecker, hook ReviewHook) *Detail {
	return &Detail{
		svc:      svc,
		auth:     auth,
		hook:     hook,
		state:    DetailState{Reviews: []domain.Review{}, Form: defaultForm()},
		inFlight: make(map[int]bool),
	}
}

// Load fetches the restaurant and its reviews in parallel. If another Load
// starts before both return, this one's results are discarded.
func (d *Detail) Load(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("load restaurant %d: %w", id, ErrPrecondition)
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.state = DetailState{
		RestaurantID: id,
		Loading:      true,
		Reviews:      []domain.Review{},
		Submitting:   d.inFlight[id],
		Form:         defaultForm(),
	}
	d.mu.Unlock()

	var (
		wg         sync.WaitGroup
		restaurant *domain.Restaurant
		reviews    []domain.Review
		getErr     error
		reviewsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		restaurant, getErr = d.svc.Get(ctx, id)
	}()
	go func() {
		defer wg.Done()
		reviews, reviewsErr = d.svc.Reviews(ctx, id)
	}()
	wg.Wait()

	err := getErr
	if err == nil {
		err = reviewsErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return nil
	}
	d.state.Loading = false
	if err != nil {
		d.state.Err = err
		d.state.Error = err.Error()
		return err
	}
	d.state.Restaurant = restaurant
	if reviews != nil {
		d.state.Reviews = reviews
	}
	return nil
}

// SetForm keeps what the user typed so a failed submit does not lose it.
func (d *Detail) SetForm(form ReviewForm) {
	d.mu.Lock()
	d.state.Form = form
	d.mu.Unlock()
}

// SubmitReview posts a review for the open restaurant. Only one submission
// per restaurant may be outstanding.
func (d *Detail) SubmitReview(ctx context.Context, rating int, comment string) (*domain.Review, error) {
	d.mu.Lock()
	id := d.state.RestaurantID
	if id == 0 || d.auth == nil || !d.auth.IsAuthenticated() {
		d.mu.Unlock()
		return nil, fmt.Errorf("submit review: %w", ErrPrecondition)
	}
	if d.inFlight[id] {
		d.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	d.inFlight[id] = true
	d.state.Submitting = true
	d.mu.Unlock()

	review, err := d.svc.AddReview(ctx, id, rating, comment)

	d.mu.Lock()
	delete(d.inFlight, id)
	if d.state.RestaurantID == id {
		d.state.Submitting = false
		if err == nil && review != nil {
			d.state.Reviews = append(d.state.Reviews, *review)
			d.state.Form = defaultForm()
		}
	}
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if d.hook != nil && review != nil {
		d.hook(id, *review)
	}
	return review, nil
}

func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.state
	out.Reviews = append([]domain.Review{}, d.state.Reviews...)
	if d.state.Restaurant != nil {
		copied := *d.state.Restaurant
		out.Restaurant = &copied
	}
	return out
}

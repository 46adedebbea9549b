package pages

import (
	"context"
	"log"
	"sync"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/service"
)

type ListingState struct {
	Loading     bool                 `json:"loading"`
	Restaurants []domain.Restaurant  `json:"restaurants"`
	Filters     domain.SearchFilters `json:"filters"`
	Err         error                `json:"-"`
	Error       string               `json:"error,omitempty"`
}

// ListingHook sees every fetch result that was not superseded.
type ListingHook func(filters domain.SearchFilters, restaurants []domain.Restaurant, err error)

// Listing is the restaurant result list. Only the most recently started
// fetch may write its result.
type Listing struct {
	svc  service.RestaurantServiceInterface
	hook ListingHook

	mu    sync.Mutex
	gen   uint64
	state ListingState
}

func NewListing(svc service.RestaurantServiceInterface, hook ListingHook) *Listing {
	return &Listing{
		svc:   svc,
		hook:  hook,
		state: ListingState{Restaurants: []domain.Restaurant{}, Filters: domain.SearchFilters{Categories: []string{}}},
	}
}

// Fetch runs one search. A result that arrives after a newer Fetch started is
// dropped and Fetch returns nil for it.
func (l *Listing) Fetch(ctx context.Context, filters domain.SearchFilters) error {
	return l.Begin(filters)(ctx)
}

// Begin claims the next generation for filters right away and returns the
// search to run for it. Requests rank by when Begin was called, not by when
// the returned function runs.
func (l *Listing) Begin(filters domain.SearchFilters) func(ctx context.Context) error {
	filters = filters.Clone()

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state.Loading = true
	l.state.Filters = filters
	l.state.Err = nil
	l.state.Error = ""
	l.mu.Unlock()

	return func(ctx context.Context) error {
		return l.complete(ctx, gen, filters)
	}
}

// Dispatch returns a query callback that starts a background search per
// filter change. done sees every outcome, with a nil error for stale results.
func (l *Listing) Dispatch(ctx context.Context, done func(err error)) func(filters domain.SearchFilters) {
	return func(filters domain.SearchFilters) {
		run := l.Begin(filters)
		go func() {
			err := run(ctx)
			if done != nil {
				done(err)
			}
		}()
	}
}

func (l *Listing) complete(ctx context.Context, gen uint64, filters domain.SearchFilters) error {
	restaurants, err := l.svc.Search(ctx, filters)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		log.Printf("Dropping stale search result for %+v", filters)
		return nil
	}
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.state.Error = err.Error()
	} else {
		l.state.Restaurants = restaurants
	}
	l.mu.Unlock()

	if l.hook != nil {
		l.hook(filters, restaurants, err)
	}
	return err
}

// EnsureLoaded runs the first search of the page. Once any fetch has started
// it does nothing.
func (l *Listing) EnsureLoaded(ctx context.Context, filters domain.SearchFilters) error {
	l.mu.Lock()
	started := l.gen > 0
	l.mu.Unlock()
	if started {
		return nil
	}
	return l.Fetch(ctx, filters)
}

// Retry repeats the last search with the same filters.
func (l *Listing) Retry(ctx context.Context) error {
	l.mu.Lock()
	filters := l.state.Filters
	l.mu.Unlock()
	return l.Fetch(ctx, filters)
}

func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.state
	out.Restaurants = append([]domain.Restaurant{}, l.state.Restaurants...)
	out.Filters = l.state.Filters.Clone()
	return out
}

package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"restaurant-finder/internal/domain"
)

// QueryFunc receives a copy of the filters every time a query should go out.
type QueryFunc func(filters domain.SearchFilters)

type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Controller owns the filter state of one search bar. Name edits are
// debounced; every other change queries immediately.
type Controller struct {
	onQuery  QueryFunc
	source   CategorySource
	debounce *Debouncer

	mu            sync.Mutex
	filters       domain.SearchFilters
	nameGen       uint64
	options       []domain.Category
	optionsLoaded bool
}

func NewController(onQuery QueryFunc, source CategorySource, debounce *Debouncer) *Controller {
	if debounce == nil {
		debounce = NewDebouncer(DefaultDebounce, nil)
	}
	return &Controller{
		onQuery:  onQuery,
		source:   source,
		debounce: debounce,
		filters:  domain.SearchFilters{Categories: []string{}},
	}
}

func (c *Controller) Filters() domain.SearchFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// HasActiveFilters ignores the name: the free-text box is always visible.
func (c *Controller) HasActiveFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.filters.Categories) > 0 ||
		c.filters.PriceTier != domain.PriceAny ||
		c.filters.MinRating != domain.RatingAny
}

func (c *Controller) SetName(name string) {
	c.mu.Lock()
	if c.filters.Name == name {
		c.mu.Unlock()
		return
	}
	c.filters.Name = name
	c.nameGen++
	gen := c.nameGen
	c.debounce.Trigger(func() { c.fireName(gen) })
	c.mu.Unlock()
}

// fireName sends the debounced name query unless an immediate query has
// gone out since, which already carried the name.
func (c *Controller) fireName(gen uint64) {
	c.mu.Lock()
	if gen != c.nameGen {
		c.mu.Unlock()
		return
	}
	snapshot := c.filters.Clone()
	c.mu.Unlock()

	c.emit(snapshot)
}

// AddCategory reports false when the category is blank or already selected.
func (c *Controller) AddCategory(name string) bool {
	name = strings.TrimSpace(name)
	c.mu.Lock()
	if name == "" || c.filters.HasCategory(name) {
		c.mu.Unlock()
		return false
	}
	c.filters.Categories = append(c.filters.Categories, name)
	snapshot := c.commitLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return true
}

func (c *Controller) RemoveCategory(name string) bool {
	c.mu.Lock()
	kept := make([]string, 0, len(c.filters.Categories))
	for _, existing := range c.filters.Categories {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(c.filters.Categories) {
		c.mu.Unlock()
		return false
	}
	c.filters.Categories = kept
	snapshot := c.commitLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return true
}

func (c *Controller) SetPriceTier(tier domain.PriceTier) (bool, error) {
	if _, err := domain.ParsePriceTier(string(tier)); err != nil {
		return false, err
	}
	return c.update(func(f *domain.SearchFilters) bool {
		if f.PriceTier == tier {
			return false
		}
		f.PriceTier = tier
		return true
	}), nil
}

func (c *Controller) ClearPriceTier() bool {
	changed, _ := c.SetPriceTier(domain.PriceAny)
	return changed
}

func (c *Controller) SetMinRating(rating domain.MinRating) (bool, error) {
	if _, err := domain.ParseMinRating(rating.String()); err != nil {
		return false, err
	}
	return c.update(func(f *domain.SearchFilters) bool {
		if f.MinRating == rating {
			return false
		}
		f.MinRating = rating
		return true
	}), nil
}

func (c *Controller) ClearMinRating() bool {
	changed, _ := c.SetMinRating(domain.RatingAny)
	return changed
}

// Reset always queries, once, even if nothing was set.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.filters = domain.SearchFilters{Categories: []string{}}
	snapshot := c.commitLocked()
	c.mu.Unlock()

	c.emit(snapshot)
}

// LoadCategories fetches the option list once; later calls are no-ops after
// the first success.
func (c *Controller) LoadCategories(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.optionsLoaded
	c.mu.Unlock()
	if loaded || c.source == nil {
		return nil
	}

	categories, err := c.source.Categories(ctx)
	if err != nil {
		log.Printf("Failed to fetch categories: %v", err)
		return fmt.Errorf("load categories: %w", err)
	}

	c.mu.Lock()
	c.options = categories
	c.optionsLoaded = true
	c.mu.Unlock()
	return nil
}

// AvailableCategories lists the options not selected yet, in option order.
func (c *Controller) AvailableCategories() []domain.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Category, 0, len(c.options))
	for _, option := range c.options {
		if !c.filters.HasCategory(option.Name) {
			out = append(out, option)
		}
	}
	return out
}

// Close drops a pending name query.
func (c *Controller) Close() {
	c.debounce.Cancel()
}

func (c *Controller) update(mutate func(f *domain.SearchFilters) bool) bool {
	c.mu.Lock()
	if !mutate(&c.filters) {
		c.mu.Unlock()
		return false
	}
	snapshot := c.commitLocked()
	c.mu.Unlock()

	c.emit(snapshot)
	return true
}

// commitLocked prepares an immediate query. The snapshot already carries the
// latest name, so a pending debounced name query is dropped, including one
// whose timer has already fired. c.mu must be held.
func (c *Controller) commitLocked() domain.SearchFilters {
	c.nameGen++
	c.debounce.Cancel()
	return c.filters.Clone()
}

func (c *Controller) emit(snapshot domain.SearchFilters) {
	if c.onQuery != nil {
		c.onQuery(snapshot)
	}
}

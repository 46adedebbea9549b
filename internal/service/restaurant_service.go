package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/search"
)

var (
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidRestaurantID = errors.New("restaurant id must be positive")
)

type RestaurantService struct {
	api API
}

func NewRestaurantService(api API) *RestaurantService {
	return &RestaurantService{api: api}
}

func (s *RestaurantService) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Restaurant, error) {
	// QueryString keeps the field order; url.Values would sort the keys.
	path := pathRestaurants
	if query := search.QueryString(filters); query != "" {
		path += "?" + query
	}

	var restaurants []domain.Restaurant
	if err := s.api.Get(ctx, path, nil, &restaurants); err != nil {
		return nil, err
	}
	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}
	return restaurants, nil
}

func (s *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	if id <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	var rest domain.Restaurant
	if err := s.api.Get(ctx, restaurantPath(id), nil, &rest); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *RestaurantService) Create(ctx context.Context, req domain.RestaurantRequest) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := s.api.Post(ctx, pathRegisterRestaurant, req, &rest); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *RestaurantService) Update(ctx context.Context, id int, req domain.RestaurantRequest) (*domain.Restaurant, error) {
	if id <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	var rest domain.Restaurant
	if err := s.api.Put(ctx, updateRestaurantPath(id), req, &rest); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *RestaurantService) Reviews(ctx context.Context, restaurantID int) ([]domain.Review, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	var reviews []domain.Review
	if err := s.api.Get(ctx, reviewsPath(restaurantID), nil, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *RestaurantService) AddReview(ctx context.Context, restaurantID, rating int, comment string) (*domain.Review, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	var review domain.Review
	req := domain.ReviewRequest{Rating: rating, Comment: comment}
	if err := s.api.Post(ctx, reviewsPath(restaurantID), req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *RestaurantService) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.api.Get(ctx, pathCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

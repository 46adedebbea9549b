package service

import (
	"context"
	"net/url"

	"restaurant-finder/internal/client"
	"restaurant-finder/internal/domain"
)

// API is the slice of the HTTP client wrapper the services use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

type AuthServiceInterface interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	Validate(ctx context.Context) (*domain.AuthResponse, error)
	Logout(ctx context.Context) error
}

type RestaurantServiceInterface interface {
	Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Restaurant, error)
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
	Create(ctx context.Context, req domain.RestaurantRequest) (*domain.Restaurant, error)
	Update(ctx context.Context, id int, req domain.RestaurantRequest) (*domain.Restaurant, error)
	Reviews(ctx context.Context, restaurantID int) ([]domain.Review, error)
	AddReview(ctx context.Context, restaurantID, rating int, comment string) (*domain.Review, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

var (
	_ API                        = (*client.Client)(nil)
	_ AuthServiceInterface       = (*AuthService)(nil)
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
)

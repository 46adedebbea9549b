package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-finder/internal/client"
	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFunc func() string

func (f tokenFunc) Token(context.Context) (string, error) { return f(), nil }

// backend is a minimal fake of the remote REST API.
type backend struct {
	lastQuery  map[string][]string
	lastRaw    string
	lastReview domain.ReviewRequest
	lastAuth   string
}

func (b *backend) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(domain.ErrorResponse{Message: "Invalid username or password", Status: 401})
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "jwt", Username: req.Username, Role: "ROLE_USER", Message: "Login successful"})
	}).Methods("POST")
	r.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req domain.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "jwt-new", Username: req.Username, Role: "ROLE_USER", Message: "Registration successful"})
	}).Methods("POST")
	r.HandleFunc("/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.AuthResponse{Token: "jwt", Username: "maria", Role: "ROLE_ADMIN", Message: "Token is valid"})
	}).Methods("GET")
	r.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(domain.ErrorResponse{Message: "Logout failed", Status: 500})
	}).Methods("POST")
	r.HandleFunc("/api/v1/restaurants/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Category{{ID: 1, Name: "Asian"}, {ID: 2, Name: "Italian"}})
	}).Methods("GET")
	r.HandleFunc("/api/v1/restaurants/register", func(w http.ResponseWriter, r *http.Request) {
		var req domain.RestaurantRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(domain.Restaurant{ID: 9, Name: req.Name, PriceRange: req.PriceRange})
	}).Methods("POST")
	r.HandleFunc("/api/v1/restaurants/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req domain.RestaurantRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(domain.Restaurant{ID: 9, Name: req.Name})
	}).Methods("PUT")
	r.HandleFunc("/api/v1/restaurants", func(w http.ResponseWriter, r *http.Request) {
		b.lastQuery = r.URL.Query()
		b.lastRaw = r.URL.RawQuery
		w.Write([]byte(`[{"id":1,"name":"Sushi Zen","address":"1 Main St","hours":"Mon-Fri 9-5","priceRange":"MEDIUM","categories":[{"id":1,"name":"Asian"}],"rating":"4.5"}]`))
	}).Methods("GET")
	r.HandleFunc("/api/v1/restaurants/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "404" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(domain.ErrorResponse{Message: "Restaurant not found", Error: "NOT_FOUND", Status: 404})
			return
		}
		w.Write([]byte(`{"id":1,"name":"Sushi Zen","address":"1 Main St","phone":5551234,"hours":"Mon-Fri 9-5","priceRange":"LOW","categories":[],"rating":4.25}`))
	}).Methods("GET")
	r.HandleFunc("/api/v1/restaurants/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"restaurantId":1,"rating":4,"comment":"good","createdAt":"2024-05-01T18:30:00"}]`))
	}).Methods("GET")
	r.HandleFunc("/api/v1/restaurants/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&b.lastReview)
		w.Write([]byte(`{"id":4,"restaurantId":1,"rating":5,"comment":"great","createdAt":"2024-05-02T12:00:00Z"}`))
	}).Methods("POST")
	return r
}

func setup(t *testing.T) (*backend, *service.AuthService, *service.RestaurantService) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	api := client.New(srv.URL, srv.Client(), tokenFunc(func() string { return "jwt" }))
	return b, service.NewAuthService(api), service.NewRestaurantService(api)
}

func TestAuthService(t *testing.T) {
	b, auth, _ := setup(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, domain.LoginRequest{Username: "maria", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, "maria", resp.Username)

	_, err = auth.Login(ctx, domain.LoginRequest{Username: "maria", Password: "wrong"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid username or password", apiErr.Message)

	resp, err = auth.Register(ctx, domain.RegisterRequest{Username: "leo", Email: "leo@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-new", resp.Token)

	resp, err = auth.Validate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_ADMIN", resp.Role)
	assert.Equal(t, "Bearer jwt", b.lastAuth)

	err = auth.Logout(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestRestaurantService_Search(t *testing.T) {
	b, _, restaurants := setup(t)

	result, err := restaurants.Search(context.Background(), domain.SearchFilters{
		Name:       "sushi",
		Categories: []string{"Asian", "Japanese"},
		MinRating:  domain.RatingFour,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Sushi Zen", result[0].Name)
	assert.Equal(t, domain.PriceMedium, result[0].PriceRange)
	assert.Equal(t, "4.5", result[0].Rating.String())
	assert.Equal(t, []string{"Asian"}, result[0].CategoryNames())

	assert.Equal(t, []string{"sushi"}, b.lastQuery["name"])
	assert.Equal(t, []string{"Asian", "Japanese"}, b.lastQuery["categories"])
	assert.Equal(t, []string{"4"}, b.lastQuery["rating"])
	assert.NotContains(t, b.lastQuery, "priceRange")
	assert.Equal(t, "name=sushi&categories=Asian&categories=Japanese&rating=4", b.lastRaw)

	_, err = restaurants.Search(context.Background(), domain.SearchFilters{Categories: []string{}})
	require.NoError(t, err)
	assert.Empty(t, b.lastRaw)
}

func TestRestaurantService_GetAndReviews(t *testing.T) {
	b, _, restaurants := setup(t)
	ctx := context.Background()

	rest, err := restaurants.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "4.25", rest.Rating.String())
	require.NotNil(t, rest.Phone)
	assert.Equal(t, int64(5551234), *rest.Phone)

	_, err = restaurants.Get(ctx, 404)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	reviews, err := restaurants.Reviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 2024, reviews[0].CreatedAt.Year())

	review, err := restaurants.AddReview(ctx, 1, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 4, review.ID)
	assert.Equal(t, domain.ReviewRequest{Rating: 5, Comment: "great"}, b.lastReview)

	categories, err := restaurants.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestRestaurantService_CreateAndUpdate(t *testing.T) {
	_, _, restaurants := setup(t)
	ctx := context.Background()

	req := domain.RestaurantRequest{Name: "Trattoria", Address: "2 Side St", Hours: "daily", PriceRange: domain.PriceHigh, CategoryIDs: []int{2}}
	created, err := restaurants.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	assert.Equal(t, domain.PriceHigh, created.PriceRange)

	updated, err := restaurants.Update(ctx, 9, req)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria", updated.Name)
}

func TestRestaurantService_Preconditions(t *testing.T) {
	_, _, restaurants := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{name: "rating_too_low", call: func() error { _, err := restaurants.AddReview(ctx, 1, 0, ""); return err }, wantErr: service.ErrInvalidRating},
		{name: "rating_too_high", call: func() error { _, err := restaurants.AddReview(ctx, 1, 6, ""); return err }, wantErr: service.ErrInvalidRating},
		{name: "bad_id_review", call: func() error { _, err := restaurants.AddReview(ctx, 0, 3, ""); return err }, wantErr: service.ErrInvalidRestaurantID},
		{name: "bad_id_get", call: func() error { _, err := restaurants.Get(ctx, -1); return err }, wantErr: service.ErrInvalidRestaurantID},
		{name: "bad_id_update", call: func() error { _, err := restaurants.Update(ctx, 0, domain.RestaurantRequest{}); return err }, wantErr: service.ErrInvalidRestaurantID},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.call()
			assert.True(t, errors.Is(err, testCase.wantErr), "got %v", err)
		})
	}
}

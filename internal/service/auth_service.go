package service

import (
	"context"

	"restaurant-finder/internal/domain"
)

type AuthService struct {
	api API
}

func NewAuthService(api API) *AuthService {
	return &AuthService{api: api}
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.api.Post(ctx, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.api.Post(ctx, pathRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate relies on the wrapper attaching the stored token.
func (s *AuthService) Validate(ctx context.Context) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.api.Get(ctx, pathValidate, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.api.Post(ctx, pathLogout, nil, nil)
}

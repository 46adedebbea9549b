package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-finder/internal/domain"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// KeyValue is the durable storage the session survives restarts in.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type SessionStore struct {
	kv KeyValue
}

func NewSessionStore(kv KeyValue) *SessionStore {
	return &SessionStore{kv: kv}
}

// Token returns "" when nothing is stored.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *SessionStore) SetToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, TokenKey, token)
}

// User returns nil when no profile is stored.
func (s *SessionStore) User(ctx context.Context) (*domain.AuthResponse, error) {
	raw, ok, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var user domain.AuthResponse
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &user, nil
}

func (s *SessionStore) SetUser(ctx context.Context, user domain.AuthResponse) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(ctx, UserKey, string(payload))
}

// Save writes token and profile together.
func (s *SessionStore) Save(ctx context.Context, resp domain.AuthResponse) error {
	if err := s.SetToken(ctx, resp.Token); err != nil {
		return err
	}
	return s.SetUser(ctx, resp)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey, UserKey)
}

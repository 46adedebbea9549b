package session

import (
	"context"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/notify"
	"restaurant-finder/internal/storage"
)

// Store persists the token and the profile it was issued with.
type Store interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*domain.AuthResponse, error)
	Save(ctx context.Context, resp domain.AuthResponse) error
	Clear(ctx context.Context) error
}

type Announcer interface {
	Success(message string)
}

var (
	_ Store     = (*storage.SessionStore)(nil)
	_ Announcer = (*notify.Notifier)(nil)
)

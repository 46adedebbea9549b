package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"restaurant-finder/internal/domain"
	"restaurant-finder/internal/service"
)

var (
	ErrNoStoredProfile = errors.New("token stored without a profile")
	ErrTokenExpired    = errors.New("stored token has expired")
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a copy of the controller state safe to hand to views.
type Snapshot struct {
	State           State  `json:"state"`
	Ready           bool   `json:"ready"`
	Username        string `json:"username,omitempty"`
	Role            string `json:"role,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	IsBusinessOwner bool   `json:"isBusinessOwner"`
	IsUser          bool   `json:"isUser"`
}

// Controller is the single owner of the authenticated session of this process.
type Controller struct {
	auth  service.AuthServiceInterface
	store Store
	notes Announcer
	now   func() time.Time

	initOnce sync.Once

	mu      sync.Mutex
	state   State
	session *domain.Session
	ready   bool
}

func NewController(auth service.AuthServiceInterface, store Store, notes Announcer) *Controller {
	return &Controller{
		auth:  auth,
		store: store,
		notes: notes,
		now:   time.Now,
	}
}

// Initialize restores a stored session after checking it with the backend.
// Any failure leaves the controller anonymous with storage cleared; it is
// logged, never returned. Only the first call does work; concurrent callers
// wait for it.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		c.setState(StateLoading)

		sess, err := c.restore(ctx)
		if err != nil {
			log.Printf("Auth initialization error: %v", err)
			c.clearStore(ctx)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.ready = true
		c.applyLocked(sess)
	})
}

func (c *Controller) restore(ctx context.Context) (*domain.Session, error) {
	token, err := c.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	profile, err := c.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoStoredProfile
	}
	if tokenExpired(token, c.now()) {
		return nil, ErrTokenExpired
	}

	if _, err := c.auth.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}

	stored := *profile
	stored.Token = token
	return domain.SessionFromAuth(stored)
}

// Login returns the backend error unchanged. Storage is cleared on failure.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	c.setState(StateLoading)
	resp, err := c.auth.Login(ctx, domain.LoginRequest{Username: username, Password: password})
	return c.establish(ctx, resp, err)
}

func (c *Controller) Register(ctx context.Context, username, email, password string) error {
	c.setState(StateLoading)
	resp, err := c.auth.Register(ctx, domain.RegisterRequest{Username: username, Email: email, Password: password})
	return c.establish(ctx, resp, err)
}

func (c *Controller) establish(ctx context.Context, resp *domain.AuthResponse, err error) error {
	if err == nil && resp == nil {
		err = errors.New("empty auth response")
	}

	var sess *domain.Session
	if err == nil {
		sess, err = domain.SessionFromAuth(*resp)
	}
	if err == nil {
		if saveErr := c.store.Save(ctx, *resp); saveErr != nil {
			err = fmt.Errorf("persist session: %w", saveErr)
		}
	}

	if err != nil {
		c.clearStore(ctx)
		c.mu.Lock()
		c.applyLocked(nil)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.applyLocked(sess)
	c.mu.Unlock()
	log.Printf("Successfully signed in as %s", sess.Username)
	return nil
}

// Logout always ends the local session. The backend call runs first so it
// still carries the token.
func (c *Controller) Logout(ctx context.Context) {
	err := c.auth.Logout(ctx)

	c.clearStore(ctx)
	c.mu.Lock()
	c.applyLocked(nil)
	c.mu.Unlock()

	if err != nil {
		log.Printf("Logout error: %v", err)
		return
	}
	if c.notes != nil {
		c.notes.Success("Logged out successfully")
	}
}

func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Controller) IsAuthenticated() bool { return c.Session() != nil }
func (c *Controller) IsAdmin() bool         { return c.hasRole(domain.RoleAdmin) }
func (c *Controller) IsBusinessOwner() bool { return c.hasRole(domain.RoleBusinessOwner) }
func (c *Controller) IsUser() bool          { return c.hasRole(domain.RoleUser) }

func (c *Controller) hasRole(role domain.Role) bool {
	sess := c.Session()
	return sess != nil && sess.Role == role
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state, Ready: c.ready}
	if c.session != nil {
		snap.Username = c.session.Username
		snap.Role = c.session.Role.String()
		snap.IsAuthenticated = true
		snap.IsAdmin = c.session.Role == domain.RoleAdmin
		snap.IsBusinessOwner = c.session.Role == domain.RoleBusinessOwner
		snap.IsUser = c.session.Role == domain.RoleUser
	}
	return snap
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) applyLocked(sess *domain.Session) {
	c.session = sess
	if sess == nil {
		c.state = StateAnonymous
		return
	}
	c.state = StateAuthenticated
}

func (c *Controller) clearStore(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		log.Printf("Warning: failed to clear stored session: %v", err)
	}
}

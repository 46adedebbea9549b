package notify

import (
	"errors"
	"sync"
	"time"

	"restaurant-finder/internal/client"
	"restaurant-finder/internal/pages"
)

const DefaultCapacity = 20

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier queues transient messages until a view drains them. When full the
// oldest message is dropped.
type Notifier struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	now      func() time.Time
}

func New(capacity int) *Notifier {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Notifier{capacity: capacity, now: time.Now}
}

func (n *Notifier) Success(message string) { n.push(LevelSuccess, message) }
func (n *Notifier) Error(message string)   { n.push(LevelError, message) }
func (n *Notifier) Info(message string)    { n.push(LevelInfo, message) }

// Report shows err to the user. Backend errors keep their message, failures
// with no response get fallback, and precondition failures stay silent. It
// reports whether anything was queued.
func (n *Notifier) Report(err error, fallback string) bool {
	if err == nil || errors.Is(err, pages.ErrPrecondition) {
		return false
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		n.Error(apiErr.Error())
	case errors.Is(err, client.ErrNetwork):
		n.Error(fallback)
	case err.Error() != "":
		n.Error(err.Error())
	default:
		n.Error(fallback)
	}
	return true
}

// Drain returns every queued message, oldest first, and empties the queue.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

func (n *Notifier) push(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) >= n.capacity {
		n.items = n.items[1:]
	}
	n.items = append(n.items, Notification{Level: level, Message: message, At: n.now()})
}

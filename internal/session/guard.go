package session

import "restaurant-finder/internal/domain"

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard decides access to a protected view. A nil role admits any signed-in
// user.
func (c *Controller) Guard(required *domain.Role) Decision {
	sess := c.Session()
	if sess == nil {
		return Decision{Redirect: LoginPath}
	}
	if required != nil && sess.Role != *required {
		return Decision{Redirect: HomePath}
	}
	return Decision{Allowed: true}
}

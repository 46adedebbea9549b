package pages

import "errors"

var (
	// ErrPrecondition aborts an action without telling the user, e.g. a
	// review submit with no restaurant loaded or nobody signed in.
	ErrPrecondition   = errors.New("precondition not met")
	ErrSubmitInFlight = errors.New("a review for this restaurant is already being submitted")
)

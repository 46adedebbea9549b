package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("unknown role")

type Role int

const (
	RoleUser Role = iota + 1
	RoleAdmin
	RoleBusinessOwner
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "ROLE_USER":
		return RoleUser, nil
	case "ROLE_ADMIN":
		return RoleAdmin, nil
	case "ROLE_BUSINESS_OWNER":
		return RoleBusinessOwner, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "ROLE_USER"
	case RoleAdmin:
		return "ROLE_ADMIN"
	case RoleBusinessOwner:
		return "ROLE_BUSINESS_OWNER"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Session is only ever built from a backend auth response.
type Session struct {
	Token    string
	Username string
	Role     Role
}

func SessionFromAuth(resp AuthResponse) (*Session, error) {
	if resp.Token == "" {
		return nil, errors.New("auth response carries no token")
	}
	role, err := ParseRole(resp.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, Username: resp.Username, Role: role}, nil
}

package domain

import (
	"context"
	"errors"
	"time"
)

// User represents an authenticated owner account.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	OwnerID        string
	BranchID       *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SessionFor derives the request session for this user. Owner accounts
// scope to their own data; staff accounts scope to their owner's data
// restricted to their branch.
func (u *User) SessionFor() *Session {
	owner := u.OwnerID
	if u.Role == RoleOwner || owner == "" {
		owner = u.ID
	}
	return &Session{
		UserID:   u.ID,
		OwnerID:  owner,
		Role:     u.Role,
		BranchID: u.BranchID,
	}
}

// Role represents a user's access level within a business.
type Role string

const (
	// RoleOwner has full access to all operations
	RoleOwner Role = "owner"

	// RoleStaff records transactions and invoices for their branch only
	RoleStaff Role = "staff"
)

var validRoles = map[Role]bool{
	RoleOwner: true,
	RoleStaff: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Session is the explicit per-request session context: the owner whose
// data is visible plus the optional branch read filter. It is established
// at sign-in and passed down to every operation needing ownership scoping.
type Session struct {
	UserID   string
	OwnerID  string
	Role     Role
	BranchID *string
}

type sessionContextKey struct{}

// ContextWithSession returns a context carrying the session.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext extracts the session from the context.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

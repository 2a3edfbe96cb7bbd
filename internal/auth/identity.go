// Package auth carries the caller of a request through the service layer and
// decides whether that caller may perform an operation.
package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-booking/internal/service"
)

// Identity is what a session claims about its owner.
type Identity struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// Caller is the per-request view of the session. A nil Identity means anonymous.
type Caller struct {
	SessionID string
	Identity  *Identity
}

func Anonymous() Caller {
	return Caller{}
}

func (c Caller) CurrentUser() (string, bool) {
	if c.Identity == nil || c.Identity.Username == "" {
		return "", false
	}
	return c.Identity.Username, true
}

// IsAdmin reports the unverified session claim, only use it for display.
func (c Caller) IsAdmin() bool {
	return c.Identity != nil && c.Identity.IsAdmin
}

func RequireAuthenticated(c Caller) (Identity, error) {
	if _, ok := c.CurrentUser(); !ok {
		return Identity{}, service.ErrUnauthenticated
	}
	return *c.Identity, nil
}

// AdminIdentity is only produced by Gate.RequireAdmin after the users table
// confirmed the admin flag.
type AdminIdentity struct {
	UserID   uint
	Username string
}

// AdminLookup is the subset of the user repository the gate needs.
type AdminLookup interface {
	IsAdmin(ctx context.Context, username string) (userID uint, isAdmin bool, err error)
}

type Gate struct {
	users AdminLookup
}

func NewGate(users AdminLookup) *Gate {
	return &Gate{users: users}
}

func (g *Gate) RequireAdmin(ctx context.Context, c Caller) (AdminIdentity, error) {
	identity, err := RequireAuthenticated(c)
	if err != nil {
		return AdminIdentity{}, err
	}
	if !identity.IsAdmin {
		return AdminIdentity{}, service.ErrForbidden
	}

	userID, isAdmin, err := g.users.IsAdmin(ctx, identity.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdminIdentity{}, service.ErrForbidden
		}
		return AdminIdentity{}, fmt.Errorf("verify admin %q: %w", identity.Username, err)
	}
	if !isAdmin || userID != identity.UserID {
		return AdminIdentity{}, service.ErrForbidden
	}

	return AdminIdentity{UserID: userID, Username: identity.Username}, nil
}

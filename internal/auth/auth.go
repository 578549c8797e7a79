// Package auth carries the authenticated caller from the HTTP layer down to the services.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Role decides what a member may do inside their home.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Principal is the resolved caller. Services take it as an explicit argument.
type Principal struct {
	MemberID uuid.UUID
	HomeID   uuid.UUID
	Name     string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

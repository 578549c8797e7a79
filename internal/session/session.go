package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
	ErrNotFound       = errors.New("session not found")
)

// DefaultTTL is how long a login stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Session backs an issued token so that it can be revoked before it expires.
type Session struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

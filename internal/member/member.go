package member

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
)

var (
	ErrNotFound           = errors.New("member not found")
	ErrHomeNotFound       = errors.New("home not found")
	ErrContactExists      = errors.New("member with this contact number already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminRequired      = errors.New("admin access required")
	ErrEmptyName          = errors.New("name can't be empty")
	ErrEmptyHomeName      = errors.New("home name can't be empty")
	ErrEmptyContact       = errors.New("contact number can't be empty")
	ErrBlankPassword      = errors.New("password can't be blank")
)

// Home is the group whose members share expenses.
type Home struct {
	ID        uuid.UUID
	Name      string
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

type Member struct {
	ID           uuid.UUID
	HomeID       uuid.UUID
	Name         string
	LastName     string
	ContactNo    string
	PasswordHash string
	Role         auth.Role
	CreatedBy    *uuid.UUID
	CreatedAt    time.Time
}

// Principal is the caller identity derived from this member.
func (m *Member) Principal() auth.Principal {
	return auth.Principal{
		MemberID: m.ID,
		HomeID:   m.HomeID,
		Name:     m.Name,
		Role:     m.Role,
	}
}

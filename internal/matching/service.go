// Package matching remembers how a home prefers to name recurring purposes, so imported
// lines like "PINGO DOCE LISBOA 123" can be stored as "Groceries".
package matching

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyMapping = errors.New("raw pattern and preferred purpose are required")

type Mapping struct {
	ID               uuid.UUID
	HomeID           uuid.UUID
	RawPattern       string
	PreferredPurpose string
	CreatedAt        time.Time
}

type Repository interface {
	// FindMatch returns the preferred purpose of the longest pattern contained in raw, or "".
	FindMatch(ctx context.Context, homeID uuid.UUID, raw string) (string, error)
	CreateMapping(ctx context.Context, m *Mapping) error
	ListMappings(ctx context.Context, homeID uuid.UUID) ([]*Mapping, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the preferred purpose for raw, or "" when the home has no matching pattern.
func (s *Service) Suggest(ctx context.Context, homeID uuid.UUID, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, homeID, raw)
}

// Resolve is Suggest falling back to raw itself.
func (s *Service) Resolve(ctx context.Context, homeID uuid.UUID, raw string) (string, error) {
	preferred, err := s.Suggest(ctx, homeID, raw)
	if err != nil {
		return "", fmt.Errorf("resolve purpose: %w", err)
	}

	if preferred == "" {
		return raw, nil
	}

	return preferred, nil
}

// Learn remembers a new mapping between a raw pattern and a preferred purpose.
func (s *Service) Learn(ctx context.Context, homeID uuid.UUID, rawPattern, preferred string) (*Mapping, error) {
	rawPattern = strings.TrimSpace(rawPattern)
	preferred = strings.TrimSpace(preferred)

	if rawPattern == "" || preferred == "" {
		return nil, ErrEmptyMapping
	}

	m := &Mapping{
		HomeID:           homeID,
		RawPattern:       rawPattern,
		PreferredPurpose: preferred,
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, fmt.Errorf("learn mapping: %w", err)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context, homeID uuid.UUID) ([]*Mapping, error) {
	return s.repo.ListMappings(ctx, homeID)
}

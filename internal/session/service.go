package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=session
type Repository interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Service{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue starts a session for the member and returns its signed token.
func (s *Service) Issue(ctx context.Context, memberID uuid.UUID) (string, *Session, error) {
	now := s.now().UTC()

	sess := &Session{
		ID:        uuid.New(),
		MemberID:  memberID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return "", nil, err
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID.String(),
		Subject:   memberID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return token, sess, nil
}

func (s *Service) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}

		return nil, ErrInvalidSession
	}

	return &claims, nil
}

func sessionID(claims *jwt.RegisteredClaims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}

	return id, nil
}

// Validate checks the token signature and expiry and that its session was not revoked.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	id, err := sessionID(claims)
	if err != nil {
		return nil, err
	}

	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidSession
		}

		return nil, err
	}

	if s.now().After(sess.ExpiresAt) {
		return nil, ErrExpiredSession
	}

	if sess.MemberID.String() != claims.Subject {
		return nil, ErrInvalidSession
	}

	return sess, nil
}

// Revoke ends the session behind the token. Expired tokens can still be revoked.
func (s *Service) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}

	id, err := sessionID(claims)
	if err != nil {
		return err
	}

	return s.repo.DeleteSession(ctx, id)
}

// Prune removes sessions that expired before now.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

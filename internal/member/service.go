package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	// CreateHomeWithAdmin stores a new home and its first member atomically.
	CreateHomeWithAdmin(ctx context.Context, h *Home, m *Member) error
	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByContact(ctx context.Context, contactNo string) (*Member, error)
	// ListMembers returns the roster of a home, oldest member first.
	ListMembers(ctx context.Context, homeID uuid.UUID) ([]*Member, error)
	GetHome(ctx context.Context, id uuid.UUID) (*Home, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	HomeName  string
	Name      string
	LastName  string
	ContactNo string
	Password  string
}

type AddParams struct {
	Name      string
	LastName  string
	ContactNo string
	Password  string
}

func validate(name, contactNo, password string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	if strings.TrimSpace(contactNo) == "" {
		return ErrEmptyContact
	}

	if password == "" {
		return ErrBlankPassword
	}

	return nil
}

func (s *Service) ensureContactFree(ctx context.Context, contactNo string) error {
	_, err := s.repo.GetByContact(ctx, contactNo)
	if err == nil {
		return ErrContactExists
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return nil
}

func newMember(name, lastName, contactNo, password string, role auth.Role) (*Member, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	return &Member{
		Name:         strings.TrimSpace(name),
		LastName:     strings.TrimSpace(lastName),
		ContactNo:    strings.TrimSpace(contactNo),
		PasswordHash: string(hashed),
		Role:         role,
	}, nil
}

// Register creates a home with the registering member as its admin.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Member, error) {
	if strings.TrimSpace(params.HomeName) == "" {
		return nil, ErrEmptyHomeName
	}

	if err := validate(params.Name, params.ContactNo, params.Password); err != nil {
		return nil, err
	}

	if err := s.ensureContactFree(ctx, strings.TrimSpace(params.ContactNo)); err != nil {
		return nil, err
	}

	m, err := newMember(params.Name, params.LastName, params.ContactNo, params.Password, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	h := &Home{Name: strings.TrimSpace(params.HomeName)}
	if err := s.repo.CreateHomeWithAdmin(ctx, h, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Add puts a regular member into the admin's home.
func (s *Service) Add(ctx context.Context, actor auth.Principal, params AddParams) (*Member, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	if err := validate(params.Name, params.ContactNo, params.Password); err != nil {
		return nil, err
	}

	if err := s.ensureContactFree(ctx, strings.TrimSpace(params.ContactNo)); err != nil {
		return nil, err
	}

	m, err := newMember(params.Name, params.LastName, params.ContactNo, params.Password, auth.RoleUser)
	if err != nil {
		return nil, err
	}

	m.HomeID = actor.HomeID
	m.CreatedBy = new(actor.MemberID)

	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Authenticate checks a contact number and password pair.
func (s *Service) Authenticate(ctx context.Context, contactNo, password string) (*Member, error) {
	m, err := s.repo.GetByContact(ctx, strings.TrimSpace(contactNo))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) List(ctx context.Context, homeID uuid.UUID) ([]*Member, error) {
	return s.repo.ListMembers(ctx, homeID)
}

func (s *Service) GetHome(ctx context.Context, id uuid.UUID) (*Home, error) {
	return s.repo.GetHome(ctx, id)
}

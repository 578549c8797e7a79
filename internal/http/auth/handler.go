package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	"github.com/MrJamesThe3rd/splitty/internal/session"
)

type Handler struct {
	members  *member.Service
	sessions *session.Service
}

func NewHandler(members *member.Service, sessions *session.Service) *Handler {
	return &Handler{members: members, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})
}

type registerRequest struct {
	HomeName  string `json:"home_name"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	ContactNo string `json:"contact_no"`
	Password  string `json:"password"`
}

type loginRequest struct {
	ContactNo string `json:"contact_no"`
	Password  string `json:"password"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	HomeID    uuid.UUID `json:"home_id"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name,omitempty"`
	ContactNo string    `json:"contact_no"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMemberResponse never exposes the password hash.
func ToMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		HomeID:    m.HomeID,
		Name:      m.Name,
		LastName:  m.LastName,
		ContactNo: m.ContactNo,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

type tokenResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Member    MemberResponse `json:"member"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.members.Register(r.Context(), member.RegisterParams{
		HomeName:  req.HomeName,
		Name:      req.Name,
		LastName:  req.LastName,
		ContactNo: req.ContactNo,
		Password:  req.Password,
	})
	if err != nil {
		WriteMemberError(w, err)
		return
	}

	h.issue(w, r, m, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.members.Authenticate(r.Context(), req.ContactNo, req.Password)
	if err != nil {
		WriteMemberError(w, err)
		return
	}

	h.issue(w, r, m, http.StatusOK)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, m *member.Member, status int) {
	token, sess, err := h.sessions.Issue(r.Context(), m.ID)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "member_id", m.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(tokenResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Member:    ToMemberResponse(m),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), bearerToken(r)); err != nil {
		slog.Error("failed to revoke session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())

	m, err := h.members.Get(r.Context(), p.MemberID)
	if err != nil {
		WriteMemberError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToMemberResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteMemberError maps member errors to status codes.
func WriteMemberError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, member.ErrEmptyName),
		errors.Is(err, member.ErrEmptyHomeName),
		errors.Is(err, member.ErrEmptyContact),
		errors.Is(err, member.ErrBlankPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, member.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, member.ErrAdminRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, member.ErrNotFound), errors.Is(err, member.ErrHomeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, member.ErrContactExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("member request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

package member

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	authHandler "github.com/MrJamesThe3rd/splitty/internal/http/auth"
	"github.com/MrJamesThe3rd/splitty/internal/http/live"
	"github.com/MrJamesThe3rd/splitty/internal/member"
)

type Handler struct {
	svc  *member.Service
	live live.Publisher
}

func NewHandler(svc *member.Service, publisher live.Publisher) *Handler {
	return &Handler{svc: svc, live: publisher}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
}

type addMemberRequest struct {
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	ContactNo string `json:"contact_no"`
	Password  string `json:"password"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())

	members, err := h.svc.List(r.Context(), p.HomeID)
	if err != nil {
		authHandler.WriteMemberError(w, err)
		return
	}

	resp := make([]authHandler.MemberResponse, len(members))
	for i, m := range members {
		resp[i] = authHandler.ToMemberResponse(m)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	m, err := h.svc.Add(r.Context(), p, member.AddParams{
		Name:      req.Name,
		LastName:  req.LastName,
		ContactNo: req.ContactNo,
		Password:  req.Password,
	})
	if err != nil {
		authHandler.WriteMemberError(w, err)
		return
	}

	h.live.Publish(p.HomeID, live.MemberAdded)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(authHandler.ToMemberResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

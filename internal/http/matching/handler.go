package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription   string `json:"raw_description"`
	PreferredPurpose string `json:"preferred_purpose"`
}

type mappingResponse struct {
	ID               uuid.UUID `json:"id"`
	RawPattern       string    `json:"raw_pattern"`
	PreferredPurpose string    `json:"preferred_purpose"`
	CreatedAt        time.Time `json:"created_at"`
}

func toMappingResponse(m *matching.Mapping) mappingResponse {
	return mappingResponse{
		ID:               m.ID,
		RawPattern:       m.RawPattern,
		PreferredPurpose: m.PreferredPurpose,
		CreatedAt:        m.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())

	mappings, err := h.svc.List(r.Context(), p.HomeID)
	if err != nil {
		slog.Error("failed to list mappings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]mappingResponse, len(mappings))
	for i, m := range mappings {
		resp[i] = toMappingResponse(m)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	preferred, err := h.svc.Suggest(r.Context(), p.HomeID, rawDesc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		RawDescription:   rawDesc,
		PreferredPurpose: preferred,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern       string `json:"raw_pattern"`
	PreferredPurpose string `json:"preferred_purpose"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	m, err := h.svc.Learn(r.Context(), p.HomeID, req.RawPattern, req.PreferredPurpose)
	if err != nil {
		if errors.Is(err, matching.ErrEmptyMapping) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toMappingResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

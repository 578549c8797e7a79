package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/receipt"
)

type Handler struct {
	store   *receipt.Store
	maxSize int64
}

func NewHandler(store *receipt.Store, maxSize int64) *Handler {
	if maxSize <= 0 {
		maxSize = receipt.DefaultMaxSize
	}

	return &Handler{store: store, maxSize: maxSize}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/{id}", h.download)
}

type uploadResponse struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	// Headroom over the file limit for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	p, _ := auth.FromContext(r.Context())

	rec, err := h.store.Save(r.Context(), p.HomeID, file)
	if err != nil {
		switch {
		case errors.Is(err, receipt.ErrTooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.Is(err, receipt.ErrUnsupportedType):
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		default:
			slog.Error("failed to save receipt", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(uploadResponse{
		ID:          rec.ID,
		ContentType: rec.ContentType,
		Size:        rec.Size,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	rc, contentType, err := h.store.Open(r.Context(), p.HomeID, id)
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			http.Error(w, "receipt not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to open receipt", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to write receipt", "error", err)
	}
}

package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/export"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if !stats.ValidPeriod(month) {
		http.Error(w, "month must be YYYY-MM or all", http.StatusBadRequest)
		return
	}

	if month == "" {
		month = stats.PeriodAll
	}

	p, _ := auth.FromContext(r.Context())

	var buf bytes.Buffer

	items, err := h.svc.Write(r.Context(), &buf, p, month)
	if err != nil {
		slog.Error("failed to build export", "error", err, "home_id", p.HomeID.String())
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	name := month
	if name == stats.PeriodAll {
		name = time.Now().Format("20060102")
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.zip\"", name))
	w.Header().Set("X-Expense-Count", fmt.Sprint(len(items)))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

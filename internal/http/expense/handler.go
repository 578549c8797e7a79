package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/http/live"
	"github.com/MrJamesThe3rd/splitty/internal/importer"
	"github.com/MrJamesThe3rd/splitty/internal/matching"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

// maxImportSize bounds the multipart form of an import upload.
const maxImportSize = 10 << 20

type Handler struct {
	svc      *expense.Service
	parser   *importer.Parser
	matchSvc *matching.Service
	live     live.Publisher
}

func NewHandler(svc *expense.Service, parser *importer.Parser, matchSvc *matching.Service, publisher live.Publisher) *Handler {
	return &Handler{
		svc:      svc,
		parser:   parser,
		matchSvc: matchSvc,
		live:     publisher,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Date      string     `json:"date"`
	Purpose   string     `json:"purpose"`
	Amount    int64      `json:"amount"`
	Note      string     `json:"note"`
	ReceiptID *uuid.UUID `json:"receipt_id"`
}

type updateExpenseRequest struct {
	Date      *string    `json:"date,omitempty"`
	Purpose   *string    `json:"purpose,omitempty"`
	Amount    *int64     `json:"amount,omitempty"`
	Note      *string    `json:"note,omitempty"`
	ReceiptID *uuid.UUID `json:"receipt_id,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if !stats.ValidPeriod(month) {
		http.Error(w, "month must be YYYY-MM or all", http.StatusBadRequest)
		return
	}

	if month == stats.PeriodAll {
		month = ""
	}

	mine := r.URL.Query().Get("mine") == "true"

	p, _ := auth.FromContext(r.Context())

	es, err := h.svc.List(r.Context(), p, month, mine)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(es)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	e, err := h.svc.Create(r.Context(), p, expense.CreateParams{
		Date:      req.Date,
		Purpose:   req.Purpose,
		Amount:    req.Amount,
		Note:      req.Note,
		ReceiptID: req.ReceiptID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.live.Publish(p.HomeID, live.ExpenseCreated)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	e, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	e, err := h.svc.Update(r.Context(), p, id, expense.UpdateParams{
		Date:      req.Date,
		Purpose:   req.Purpose,
		Amount:    req.Amount,
		Note:      req.Note,
		ReceiptID: req.ReceiptID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.live.Publish(p.HomeID, live.ExpenseUpdated)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}

	h.live.Publish(p.HomeID, live.ExpenseDeleted)

	w.WriteHeader(http.StatusNoContent)
}

// importCSV records every row of the uploaded file as an expense paid by the caller, with
// purposes rewritten through the home's learned mappings.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, _ := auth.FromContext(r.Context())

	params := make([]expense.CreateParams, 0, len(rows))

	for _, row := range rows {
		purpose, err := h.matchSvc.Resolve(r.Context(), p.HomeID, row.Purpose)
		if err != nil {
			slog.Warn("purpose matching failed", "error", err, "purpose", row.Purpose)

			purpose = row.Purpose
		}

		params = append(params, expense.CreateParams{
			Date:    row.Date,
			Purpose: purpose,
			Amount:  row.Amount,
			Note:    row.Note,
		})
	}

	es, err := h.svc.CreateBatch(r.Context(), p, params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(es) > 0 {
		h.live.Publish(p.HomeID, live.ExpensesImported)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{
		Imported: len(es),
		Expenses: toResponseList(es),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidDate),
		errors.Is(err, expense.ErrEmptyPurpose):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, expense.ErrNotFound):
		http.Error(w, "expense not found", http.StatusNotFound)
	case errors.Is(err, expense.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		slog.Error("expense request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

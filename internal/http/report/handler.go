package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	authHandler "github.com/MrJamesThe3rd/splitty/internal/http/auth"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/settlement"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts /stats for every member and /settlements for admins.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)

	r.Group(func(r chi.Router) {
		r.Use(authHandler.RequireAdmin)
		r.Get("/settlements", h.settlements)
		r.Get("/settlements/summary", h.summary)
	})
}

type memberBalanceResponse struct {
	MemberID     uuid.UUID `json:"member_id"`
	DisplayName  string    `json:"display_name"`
	TotalPaid    int64     `json:"total_paid"`
	ExpenseCount int       `json:"expense_count"`
	ShouldPay    int64     `json:"should_pay"`
	Balance      int64     `json:"balance"`
}

type monthlyResponse struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

type statsResponse struct {
	Period           string                  `json:"period"`
	TotalAmount      int64                   `json:"total_amount"`
	AveragePerPerson decimal.Decimal         `json:"average_per_person"`
	MemberStats      []memberBalanceResponse `json:"member_stats"`
	MonthlyData      []monthlyResponse       `json:"monthly_data"`
}

type transferResponse struct {
	FromMemberID uuid.UUID `json:"from_member_id"`
	FromName     string    `json:"from_name"`
	ToMemberID   uuid.UUID `json:"to_member_id"`
	ToName       string    `json:"to_name"`
	Amount       int64     `json:"amount"`
}

type settlementsResponse struct {
	Stats     statsResponse      `json:"stats"`
	Transfers []transferResponse `json:"transfers"`
}

func toStatsResponse(period string, st *stats.Stats) statsResponse {
	resp := statsResponse{
		Period:           period,
		TotalAmount:      st.TotalAmount,
		AveragePerPerson: st.AveragePerPerson.Round(2),
		MemberStats:      make([]memberBalanceResponse, len(st.MemberStats)),
		MonthlyData:      make([]monthlyResponse, len(st.MonthlyData)),
	}

	for i, m := range st.MemberStats {
		resp.MemberStats[i] = memberBalanceResponse(m)
	}

	for i, m := range st.MonthlyData {
		resp.MonthlyData[i] = monthlyResponse(m)
	}

	return resp
}

func toTransferResponses(ts []settlement.Transfer) []transferResponse {
	resp := make([]transferResponse, len(ts))
	for i, t := range ts {
		resp[i] = transferResponse(t)
	}

	return resp
}

// period reads ?month=, writing a 400 when it is malformed.
func period(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := r.URL.Query().Get("month")
	if !stats.ValidPeriod(month) {
		http.Error(w, "month must be YYYY-MM or all", http.StatusBadRequest)
		return "", false
	}

	if month == "" {
		month = stats.PeriodAll
	}

	return month, true
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	month, ok := period(w, r)
	if !ok {
		return
	}

	p, _ := auth.FromContext(r.Context())

	st, err := h.svc.Stats(r.Context(), p.HomeID, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toStatsResponse(month, st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) settlements(w http.ResponseWriter, r *http.Request) {
	month, ok := period(w, r)
	if !ok {
		return
	}

	p, _ := auth.FromContext(r.Context())

	rep, err := h.svc.Build(r.Context(), p.HomeID, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(settlementsResponse{
		Stats:     toStatsResponse(month, rep.Stats),
		Transfers: toTransferResponses(rep.Transfers),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	month, ok := period(w, r)
	if !ok {
		return
	}

	p, _ := auth.FromContext(r.Context())

	rep, err := h.svc.Build(r.Context(), p.HomeID, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(report.Summary(rep))); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, stats.ErrInvalidInput) {
		http.Error(w, "no members in home", http.StatusUnprocessableEntity)
		return
	}

	slog.Error("report request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

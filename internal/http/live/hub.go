// Package live pushes change notifications to the websocket clients of a home.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/olahol/melody"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
)

const (
	keyHomeID   = "home_id"
	keyMemberID = "member_id"
)

// Event types published after mutations.
const (
	ExpenseCreated   = "expense.created"
	ExpenseUpdated   = "expense.updated"
	ExpenseDeleted   = "expense.deleted"
	ExpensesImported = "expense.imported"
	MemberAdded      = "member.added"
)

// Publisher is what handlers depend on to announce a change.
type Publisher interface {
	Publish(homeID uuid.UUID, eventType string)
}

type event struct {
	Type   string    `json:"type"`
	HomeID uuid.UUID `json:"home_id"`
	SentAt time.Time `json:"sent_at"`
}

type Hub struct {
	m *melody.Melody
}

func NewHub() *Hub {
	m := melody.New()
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		homeID, _ := s.Get(keyHomeID)
		slog.Info("live client connected", "home_id", homeID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		homeID, _ := s.Get(keyHomeID)
		slog.Info("live client disconnected", "home_id", homeID)
	})

	m.HandleError(func(_ *melody.Session, err error) {
		slog.Warn("live client error", "error", err)
	})

	return &Hub{m: m}
}

func (h *Hub) Routes(r chi.Router) {
	r.Get("/", h.connect)
}

// connect upgrades an authenticated request. Keys are attached before the upgrade so a
// broadcast can never reach a session without its home.
func (h *Hub) connect(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	keys := map[string]any{
		keyHomeID:   p.HomeID.String(),
		keyMemberID: p.MemberID.String(),
	}

	if err := h.m.HandleRequestWithKeys(w, r, keys); err != nil {
		slog.Error("failed to upgrade websocket", "error", err)
	}
}

// Publish sends the event to the sockets of homeID only.
func (h *Hub) Publish(homeID uuid.UUID, eventType string) {
	msg, err := json.Marshal(event{Type: eventType, HomeID: homeID, SentAt: time.Now().UTC()})
	if err != nil {
		slog.Error("failed to encode live event", "error", err)
		return
	}

	target := homeID.String()

	err = h.m.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get(keyHomeID)
		return exists && id == target
	})
	if err != nil {
		slog.Warn("failed to broadcast live event", "home_id", target, "type", eventType, "error", err)
	}
}

// Sessions reports the number of connected clients.
func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	return h.m.Close()
}

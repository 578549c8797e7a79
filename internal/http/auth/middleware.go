package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	"github.com/MrJamesThe3rd/splitty/internal/session"
)

// bearerToken reads the Authorization header, falling back to the token query parameter
// that browsers must use when opening a websocket.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}

		return strings.TrimSpace(token)
	}

	return r.URL.Query().Get("token")
}

// Authenticate resolves the session token into an auth.Principal on the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sess, err := h.sessions.Validate(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidSession) || errors.Is(err, session.ErrExpiredSession) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			slog.Error("failed to validate session", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		m, err := h.members.Get(r.Context(), sess.MemberID)
		if err != nil {
			if errors.Is(err, member.ErrNotFound) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			slog.Error("failed to load session member", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), m.Principal())))
	})
}

// RequireAdmin rejects callers that are not admins of their home. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !p.IsAdmin() {
			http.Error(w, member.ErrAdminRequired.Error(), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/splitty/internal/http/auth"
	"github.com/MrJamesThe3rd/splitty/internal/http/expense"
	"github.com/MrJamesThe3rd/splitty/internal/http/export"
	"github.com/MrJamesThe3rd/splitty/internal/http/live"
	"github.com/MrJamesThe3rd/splitty/internal/http/matching"
	"github.com/MrJamesThe3rd/splitty/internal/http/member"
	"github.com/MrJamesThe3rd/splitty/internal/http/receipt"
	"github.com/MrJamesThe3rd/splitty/internal/http/report"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	authV1 *auth.Handler,
	membersV1 *member.Handler,
	expensesV1 *expense.Handler,
	receiptsV1 *receipt.Handler,
	reportV1 *report.Handler,
	matchingV1 *matching.Handler,
	exportV1 *export.Handler,
	liveV1 *live.Hub,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Expense-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authV1.Authenticate)

			// Websockets are long-lived and must not inherit the request timeout.
			r.Route("/live", liveV1.Routes)

			r.Group(func(r chi.Router) {
				if opts.Timeout > 0 {
					r.Use(middleware.Timeout(opts.Timeout))
				}

				r.Route("/members", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					membersV1.Routes(r)
				})

				r.Route("/expenses", expensesV1.Routes)
				r.Route("/receipts", receiptsV1.Routes)
				r.Route("/matching", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					matchingV1.Routes(r)
				})

				r.Route("/export", exportV1.Routes)
				r.Group(reportV1.Routes)
			})
		})
	})

	return router
}

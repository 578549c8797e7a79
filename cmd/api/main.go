package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/splitty/internal/config"
	"github.com/MrJamesThe3rd/splitty/internal/database"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/splitty/internal/expense/store"
	"github.com/MrJamesThe3rd/splitty/internal/export"
	splittyHttp "github.com/MrJamesThe3rd/splitty/internal/http"
	authHandler "github.com/MrJamesThe3rd/splitty/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/splitty/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/splitty/internal/http/export"
	"github.com/MrJamesThe3rd/splitty/internal/http/live"
	matchingHandler "github.com/MrJamesThe3rd/splitty/internal/http/matching"
	memberHandler "github.com/MrJamesThe3rd/splitty/internal/http/member"
	receiptHandler "github.com/MrJamesThe3rd/splitty/internal/http/receipt"
	reportHandler "github.com/MrJamesThe3rd/splitty/internal/http/report"
	"github.com/MrJamesThe3rd/splitty/internal/importer"
	"github.com/MrJamesThe3rd/splitty/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/splitty/internal/matching/store"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	memberStore "github.com/MrJamesThe3rd/splitty/internal/member/store"
	"github.com/MrJamesThe3rd/splitty/internal/receipt"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/session"
	sessionStore "github.com/MrJamesThe3rd/splitty/internal/session/store"
)

const pruneInterval = time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	receipts, err := receipt.New(cfg.Receipts.Dir, cfg.Receipts.MaxSize)
	if err != nil {
		slog.Error("failed to open receipt store", "error", err)
		os.Exit(1)
	}

	var (
		memberService   = member.NewService(memberStore.New(db))
		sessionService  = session.NewService(sessionStore.New(db), cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
		expenseService  = expense.NewService(expenseStore.New(db), receipts)
		matchingService = matching.NewService(matchingStore.New(db))
		reportService   = report.NewService(expenseService, memberService)
		exportService   = export.NewService(expenseService, receipts, reportService)
		hub             = live.NewHub()
	)
	defer hub.Close()

	var (
		authH     = authHandler.NewHandler(memberService, sessionService)
		membersH  = memberHandler.NewHandler(memberService, hub)
		expensesH = expenseHandler.NewHandler(expenseService, importer.NewParser(), matchingService, hub)
		receiptsH = receiptHandler.NewHandler(receipts, cfg.Receipts.MaxSize)
		reportH   = reportHandler.NewHandler(reportService)
		matchingH = matchingHandler.NewHandler(matchingService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := splittyHttp.New(
		splittyHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Timeout: cfg.Server.Timeout},
		authH, membersH, expensesH, receiptsH, reportH, matchingH, exportH, hub,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, sessionService)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func pruneSessions(ctx context.Context, sessions *session.Service) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Prune(ctx)
			if err != nil {
				slog.Error("failed to prune sessions", "error", err)
				continue
			}

			if n > 0 {
				slog.Info("pruned expired sessions", "count", n)
			}
		}
	}
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernight/internal/api/apierr"
	"github.com/mcoot/pokernight/internal/api/handler"
	"github.com/mcoot/pokernight/internal/api/middleware"
	"github.com/mcoot/pokernight/internal/services/aggregator"
	"github.com/mcoot/pokernight/internal/services/auth"
	"github.com/mcoot/pokernight/internal/services/leaderboard"
	"github.com/mcoot/pokernight/internal/services/player"
	"github.com/mcoot/pokernight/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	PlayerService      *player.Service
	SessionController  *session.Controller
	LeaderboardService *leaderboard.Service
	Aggregator         *aggregator.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.LeaderboardService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.PlayerService)
	statsHandler := handler.NewStatsHandler(cfg.LeaderboardService, cfg.Aggregator)

	admin := middleware.RequireAdmin(cfg.AuthService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Stack(cfg.Logger)...)

	// Auth routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/logout", admin(http.HandlerFunc(authHandler.Logout))).Methods(http.MethodPost)

	// Player routes (reads are open, writes need an admin session)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.Handle("/players", admin(http.HandlerFunc(playerHandler.Create))).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.Handle("/players/{id}", admin(http.HandlerFunc(playerHandler.Delete))).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id}/report", playerHandler.Report).Methods(http.MethodGet)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.Handle("/sessions", admin(http.HandlerFunc(sessionHandler.Create))).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.Handle("/sessions/{id}", admin(http.HandlerFunc(sessionHandler.Edit))).Methods(http.MethodPatch)
	api.Handle("/sessions/{id}", admin(http.HandlerFunc(sessionHandler.Delete))).Methods(http.MethodDelete)
	api.Handle("/sessions/{id}/players/{player_id}/cash-out",
		admin(http.HandlerFunc(sessionHandler.CashOut))).Methods(http.MethodPost)

	// Stats routes
	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/stats/overview", statsHandler.Overview).Methods(http.MethodGet)
	api.Handle("/stats/recompute", admin(http.HandlerFunc(statsHandler.Recompute))).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

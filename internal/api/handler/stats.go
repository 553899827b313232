package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/pokernight/internal/api/response"
	"github.com/mcoot/pokernight/internal/services/aggregator"
	"github.com/mcoot/pokernight/internal/services/leaderboard"
)

// StatsHandler serves the leaderboard and summary endpoints
type StatsHandler struct {
	leaderboardService *leaderboard.Service
	aggregator         *aggregator.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(leaderboardService *leaderboard.Service, aggregator *aggregator.Service) *StatsHandler {
	return &StatsHandler{
		leaderboardService: leaderboardService,
		aggregator:         aggregator,
	}
}

// Leaderboard handles GET /api/v1/leaderboard[?limit=]
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	standings, err := h.leaderboardService.Standings(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.LeaderboardFromModel(standings))
}

// Overview handles GET /api/v1/stats/overview
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.leaderboardService.Overview(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.OverviewFromModel(overview))
}

// Recompute handles POST /api/v1/stats/recompute
func (h *StatsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if err := h.aggregator.Recompute(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Status{Status: "ok"})
}

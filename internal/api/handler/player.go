package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernight/internal/api/request"
	"github.com/mcoot/pokernight/internal/api/response"
	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/leaderboard"
	"github.com/mcoot/pokernight/internal/services/player"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	playerService      *player.Service
	leaderboardService *leaderboard.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service, leaderboardService *leaderboard.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService:      playerService,
		leaderboardService: leaderboardService,
	}
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.playerService.Create(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.PlayerFromModel(p))
}

// List handles GET /api/v1/players[?q=]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayersFromModel(players))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.playerService.Get(r.Context(), playerIDVar(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerFromModel(p))
}

// Delete handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.playerService.Delete(r.Context(), playerIDVar(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Report handles GET /api/v1/players/{id}/report
func (h *PlayerHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.leaderboardService.PlayerReport(r.Context(), playerIDVar(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerReportFromModel(report))
}

func playerIDVar(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}

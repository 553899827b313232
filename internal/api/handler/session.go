package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernight/internal/api/request"
	"github.com/mcoot/pokernight/internal/api/response"
	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/player"
	"github.com/mcoot/pokernight/internal/services/session"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	sessionController *session.Controller
	playerService     *player.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionController *session.Controller, playerService *player.Service) *SessionHandler {
	return &SessionHandler{
		sessionController: sessionController,
		playerService:     playerService,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	date, err := request.ParseDate(req.Date)
	if err != nil {
		WriteError(w, NewInvalidRequestError("date must be YYYY-MM-DD or RFC 3339"))
		return
	}
	players, err := request.SeatsToModel(req.Players)
	if err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.sessionController.Create(r.Context(), session.CreateParams{
		Date:     date,
		Location: req.Location,
		Players:  players,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, s)
}

// List handles GET /api/v1/sessions[?status=active|completed&location=]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := model.SessionStatus(query.Get("status"))
	switch status {
	case model.SessionStatusAll, model.SessionStatusActive, model.SessionStatusCompleted:
	default:
		WriteError(w, NewInvalidRequestError("status must be active or completed"))
		return
	}

	sessions, err := h.sessionController.List(r.Context(), session.ListFilter{
		Status:   status,
		Location: query.Get("location"),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	names, err := h.playerService.Names(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SessionsFromModel(sessions, names))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionController.Get(r.Context(), sessionIDVar(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, s)
}

// Edit handles PATCH /api/v1/sessions/{id}
func (h *SessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req request.EditSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var params session.EditParams
	if req.Date != nil {
		date, err := request.ParseDate(*req.Date)
		if err != nil || date.IsZero() {
			WriteError(w, NewInvalidRequestError("date must be YYYY-MM-DD or RFC 3339"))
			return
		}
		params.Date = &date
	}
	params.Location = req.Location

	players, err := request.SeatsToModel(req.Players)
	if err != nil {
		WriteError(w, err)
		return
	}
	params.Players = players

	s, err := h.sessionController.Edit(r.Context(), sessionIDVar(r), params)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, s)
}

// CashOut handles POST /api/v1/sessions/{id}/players/{player_id}/cash-out
func (h *SessionHandler) CashOut(w http.ResponseWriter, r *http.Request) {
	var req request.CashOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Amount == nil {
		WriteError(w, NewInvalidRequestError("amount is required"))
		return
	}

	amount, err := model.MoneyFromDecimal(*req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	playerID := model.PlayerID(mux.Vars(r)["player_id"])
	s, err := h.sessionController.RecordCashOut(r.Context(), sessionIDVar(r), playerID, amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, s)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionController.Delete(r.Context(), sessionIDVar(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// writeSession renders s with the current player names
func (h *SessionHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, s *model.Session) {
	names, err := h.playerService.Names(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.SessionFromModel(s, names))
}

func sessionIDVar(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	// Validation
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidName         = "INVALID_NAME"
	CodeInvalidLocation     = "INVALID_LOCATION"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidBuyIn        = "INVALID_BUY_IN"
	CodeDuplicatePlayer     = "DUPLICATE_PLAYER"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeAuthDisabled        = "AUTH_DISABLED"

	// Invariant violations
	CodePoolExceeded          = "POOL_EXCEEDED"
	CodePlayerInActiveSession = "PLAYER_IN_ACTIVE_SESSION"
	CodeAlreadyCashedOut      = "ALREADY_CASHED_OUT"
	CodeNotInSession          = "NOT_IN_SESSION"

	// Lookup
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeNotFound        = "NOT_FOUND"

	// Auth
	CodeUnauthorized = "UNAUTHORIZED"

	// Server
	CodeStatsOutOfSync = "STATS_OUT_OF_SYNC"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Recompute failures wrap the store error, so they must be matched first
	case errors.Is(err, model.ErrStatsRecompute):
		return &httpError{http.StatusInternalServerError, APIError{CodeStatsOutOfSync,
			"Change saved but player stats could not be recomputed; retry or run a recompute"}}

	// Map validation errors
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Player name is required"}}
	case errors.Is(err, model.ErrInvalidLocation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLocation, "Location is required"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeInsufficientPlayers, "At least two players are required"}}
	case errors.Is(err, model.ErrInvalidBuyIn):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBuyIn, "Buy-in must be greater than zero"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicatePlayer, "A player can only be seated once per session"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be a non-negative value with at most two decimal places"}}

	// Map invariant violations
	case errors.Is(err, model.ErrPoolExceeded):
		return &httpError{http.StatusConflict, APIError{CodePoolExceeded, "Total cash-out cannot exceed total buy-in for the session"}}
	case errors.Is(err, model.ErrPlayerInActiveSession):
		return &httpError{http.StatusConflict, APIError{CodePlayerInActiveSession, "Player is in an active session"}}
	case errors.Is(err, model.ErrAlreadyCashedOut):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyCashedOut, "Player has already cashed out"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusNotFound, APIError{CodeNotInSession, "Player is not in this session"}}

	// Map lookups
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid admin password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrAuthDisabled):
		return &httpError{http.StatusBadRequest, APIError{CodeAuthDisabled, "Admin authentication is not configured"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewNotFoundError creates an error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

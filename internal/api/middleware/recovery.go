package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernight/internal/api/apierr"
	"github.com/mcoot/pokernight/internal/middleware"
)

// Recovery answers a handler panic with the JSON INTERNAL_ERROR envelope
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

// Stack is the middleware every /api/v1 route runs through, outermost first.
// Logging sits outside Recovery so a panic is logged with its request ID and still gets an access line.
func Stack(logger *slog.Logger) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		Logging(logger),
		Recovery(logger),
	}
}

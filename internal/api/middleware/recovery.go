package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/chirpygame/internal/api/apierr"
	"github.com/mcoot/chirpygame/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler, ClientIDAttr)
}

// Logging creates request logging middleware tagged with the client id
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, ClientIDAttr)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

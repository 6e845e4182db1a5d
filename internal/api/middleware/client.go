package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/chirpygame/internal/api/apierr"
	"github.com/mcoot/chirpygame/internal/services/shell"
)

type contextKey string

const (
	clientIDContextKey contextKey = "client_id"
	shellContextKey    contextKey = "shell"
)

// Client identity transport
const (
	ClientIDHeader = "X-Client-ID"
	ClientIDCookie = "client_id"
)

// Client resolves the calling client's shell and adds it to the request
// context. Requests without a client id, or with one that is not a UUID,
// are rejected.
func Client(manager *shell.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractClientID(r)
			if raw == "" {
				apierr.WriteError(w, apierr.NewMissingClientError())
				return
			}
			parsed, err := uuid.Parse(raw)
			if err != nil {
				apierr.WriteError(w, apierr.NewInvalidClientError())
				return
			}
			// Canonical form, so one client never maps to two shells
			clientID := parsed.String()

			ctx := r.Context()
			ctx = context.WithValue(ctx, clientIDContextKey, clientID)
			ctx = context.WithValue(ctx, shellContextKey, manager.Shell(clientID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractClientID extracts the client id from the request
func ExtractClientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(ClientIDHeader)); id != "" {
		return id
	}

	cookie, err := r.Cookie(ClientIDCookie)
	if err == nil {
		return strings.TrimSpace(cookie.Value)
	}

	return ""
}

// ClientIDAttr is a logging field carrying the request's client id
func ClientIDAttr(r *http.Request) slog.Attr {
	return slog.String("client_id", ExtractClientID(r))
}

// GetClientID returns the client id from the request context
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDContextKey).(string)
	return id
}

// GetShell returns the client's shell from the request context
func GetShell(ctx context.Context) *shell.Shell {
	sh, _ := ctx.Value(shellContextKey).(*shell.Shell)
	return sh
}

// MustGetShell returns the client's shell or panics
func MustGetShell(ctx context.Context) *shell.Shell {
	sh := GetShell(ctx)
	if sh == nil {
		panic("no shell in context - client middleware not applied?")
	}
	return sh
}

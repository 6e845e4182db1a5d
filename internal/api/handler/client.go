package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/api/response"
)

// ClientHandler issues client identifiers
type ClientHandler struct {
	secureCookies bool
}

// NewClientHandler creates a new client handler
func NewClientHandler(secureCookies bool) *ClientHandler {
	return &ClientHandler{secureCookies: secureCookies}
}

// Issue handles POST /api/v1/clients
func (h *ClientHandler) Issue(w http.ResponseWriter, _ *http.Request) {
	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ClientIDCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, http.StatusCreated, response.Client{ClientID: id})
}

package handler

import (
	"net/http"

	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/api/response"
)

// SaveHandler handles save files and the game data download
type SaveHandler struct{}

// NewSaveHandler creates a new save handler
func NewSaveHandler() *SaveHandler {
	return &SaveHandler{}
}

// Export handles GET /api/v1/save
func (h *SaveHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := middleware.MustGetShell(r.Context()).Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

// Load handles POST /api/v1/save. The body is the save file itself; the
// character query parameter answers the character prompt if one is needed.
func (h *SaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}

	st, err := middleware.MustGetShell(r.Context()).Load(r.Context(), data, characterPrompter(r.URL.Query().Get("character")))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromState(st))
}

// Transfer handles POST /api/v1/save/transfer
func (h *SaveHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).Import(r.Context(), data)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// Download handles GET /api/v1/download
func (h *SaveHandler) Download(w http.ResponseWriter, r *http.Request) {
	file, err := middleware.MustGetShell(r.Context()).DownloadGameData(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

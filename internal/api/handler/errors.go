package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/chirpygame/internal/api/apierr"
	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
)

// maxBodySize bounds request bodies, save files included
const maxBodySize = 1 << 20

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	WriteError(w, NewInvalidRequestError("invalid request body"))
	return false
}

// readBody reads a raw request body
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		WriteError(w, NewInvalidRequestError("request body too large"))
		return nil, false
	}
	return data, true
}

// characterPrompter answers the character prompt with what the client sent.
// An empty choice selects the default character.
func characterPrompter(character string) prompt.CharacterPrompter {
	if character == "" {
		return nil
	}
	return prompt.Static(character)
}

package handler

import (
	"net/http"

	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/api/request"
	"github.com/mcoot/chirpygame/internal/api/response"
	"github.com/mcoot/chirpygame/internal/services/auth"
)

// SessionHandler handles sign-in and account endpoints
type SessionHandler struct{}

// NewSessionHandler creates a new session handler
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Restore handles POST /api/v1/session/restore
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req request.CharacterRequest
	if !decode(w, r, &req, true) {
		return
	}

	st, err := middleware.MustGetShell(r.Context()).Restore(r.Context(), characterPrompter(req.Character))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromState(st))
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st := middleware.MustGetShell(r.Context()).Session(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromState(st))
}

// LogOut handles DELETE /api/v1/session
func (h *SessionHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	if err := middleware.MustGetShell(r.Context()).LogOut(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// SignUpLocal handles POST /api/v1/session/local/signup
func (h *SessionHandler) SignUpLocal(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if !decode(w, r, &req, false) {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).SignUpLocal(r.Context(), req.Username, req.Password, req.Character)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.AccountFromModel(acc))
}

// SignInLocal handles POST /api/v1/session/local/signin
func (h *SessionHandler) SignInLocal(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest
	if !decode(w, r, &req, false) {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).SignInLocal(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// ClaimGithub handles POST /api/v1/session/github/claim
func (h *SessionHandler) ClaimGithub(w http.ResponseWriter, r *http.Request) {
	var req request.GithubClaimRequest
	if !decode(w, r, &req, true) {
		return
	}

	sh := middleware.MustGetShell(r.Context())
	if _, err := sh.ClaimGithubIdentity(r.Context(), auth.IdentityClaim{Code: req.Code}); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromState(sh.Session(r.Context())))
}

// CompleteGithubProfile handles POST /api/v1/session/github/profile
func (h *SessionHandler) CompleteGithubProfile(w http.ResponseWriter, r *http.Request) {
	var req request.GithubProfileRequest
	if !decode(w, r, &req, false) {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).CompleteGithubProfile(r.Context(), req.Username, req.Avatar, characterPrompter(req.Character))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// UnlockTestPortal handles POST /api/v1/session/test/unlock
func (h *SessionHandler) UnlockTestPortal(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordRequest
	if !decode(w, r, &req, false) {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).UnlockTestPortal(r.Context(), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// GetAccount handles GET /api/v1/account
func (h *SessionHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := middleware.MustGetShell(r.Context()).Account(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// DeleteAccount handles DELETE /api/v1/account
func (h *SessionHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := middleware.MustGetShell(r.Context()).DeleteAccount(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// UpdatePassword handles POST /api/v1/account/password
func (h *SessionHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordRequest
	if !decode(w, r, &req, false) {
		return
	}

	acc, err := middleware.MustGetShell(r.Context()).UpdatePassword(r.Context(), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

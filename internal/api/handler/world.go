package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/api/request"
	"github.com/mcoot/chirpygame/internal/api/response"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/shell"
)

// WorldHandler handles the map, battles and friends
type WorldHandler struct{}

// NewWorldHandler creates a new world handler
func NewWorldHandler() *WorldHandler {
	return &WorldHandler{}
}

// Map handles GET /api/v1/map
func (h *WorldHandler) Map(w http.ResponseWriter, r *http.Request) {
	cells, pos, err := middleware.MustGetShell(r.Context()).Map(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Map{Cells: cells, Position: pos})
}

// Move handles POST /api/v1/map/move
func (h *WorldHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if !decode(w, r, &req, false) {
		return
	}
	if req.Cell == "" {
		WriteError(w, NewInvalidRequestError("cell is required"))
		return
	}

	result, err := middleware.MustGetShell(r.Context()).MoveTo(r.Context(), model.CellID(req.Cell))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Battle handles GET /api/v1/battle
func (h *WorldHandler) Battle(w http.ResponseWriter, r *http.Request) {
	state, ok := middleware.MustGetShell(r.Context()).Battle()
	resp := response.Battle{Active: ok}
	if ok {
		resp.State = &state
	}
	response.JSON(w, http.StatusOK, resp)
}

// BattleAction handles POST /api/v1/battle/{action}
func (h *WorldHandler) BattleAction(w http.ResponseWriter, r *http.Request) {
	sh := middleware.MustGetShell(r.Context())

	var turn shell.BattleTurn
	var err error
	switch mux.Vars(r)["action"] {
	case "attack":
		turn, err = sh.Attack(r.Context())
	case "defend":
		turn, err = sh.Defend(r.Context())
	case "retreat":
		turn, err = sh.Retreat(r.Context())
	default:
		WriteError(w, NewInvalidRequestError("action must be attack, defend or retreat"))
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, turn)
}

// Friends handles GET /api/v1/friends
func (h *WorldHandler) Friends(w http.ResponseWriter, r *http.Request) {
	friends, err := middleware.MustGetShell(r.Context()).Friends(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Friends{Friends: friends})
}

// Duel handles POST /api/v1/friends/{name}/duel
func (h *WorldHandler) Duel(w http.ResponseWriter, r *http.Request) {
	state, err := middleware.MustGetShell(r.Context()).Duel(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Battle{Active: true, State: &state})
}

// ToggleOffline handles POST /api/v1/account/offline
func (h *WorldHandler) ToggleOffline(w http.ResponseWriter, r *http.Request) {
	offline, err := middleware.MustGetShell(r.Context()).ToggleOffline(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Offline{OfflineMode: offline})
}

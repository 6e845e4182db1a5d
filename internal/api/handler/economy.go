package handler

import (
	"net/http"

	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/api/request"
	"github.com/mcoot/chirpygame/internal/api/response"
	"github.com/mcoot/chirpygame/internal/model"
)

// EconomyHandler handles rewards, the shop and the inventory
type EconomyHandler struct{}

// NewEconomyHandler creates a new economy handler
func NewEconomyHandler() *EconomyHandler {
	return &EconomyHandler{}
}

// ClaimReward handles POST /api/v1/economy/reward. A reward still on
// cooldown is a successful response with granted=false.
func (h *EconomyHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	result, err := middleware.MustGetShell(r.Context()).ClaimDailyReward(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Subscribe handles POST /api/v1/account/plus
func (h *EconomyHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.setSubscription(w, r, true)
}

// Unsubscribe handles DELETE /api/v1/account/plus
func (h *EconomyHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.setSubscription(w, r, false)
}

func (h *EconomyHandler) setSubscription(w http.ResponseWriter, r *http.Request, active bool) {
	acc, err := middleware.MustGetShell(r.Context()).SetSubscription(r.Context(), active)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(acc))
}

// Shop handles GET /api/v1/shop
func (h *EconomyHandler) Shop(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string][]model.ShopItem{
		"items": middleware.MustGetShell(r.Context()).ShopItems(),
	})
}

// Purchase handles POST /api/v1/shop/purchase
func (h *EconomyHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req request.PurchaseRequest
	if !decode(w, r, &req, false) {
		return
	}
	if req.Item == "" {
		WriteError(w, NewInvalidRequestError("item is required"))
		return
	}

	result, err := middleware.MustGetShell(r.Context()).Purchase(r.Context(), req.Item)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Inventory handles GET /api/v1/inventory
func (h *EconomyHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	items, equipped, err := middleware.MustGetShell(r.Context()).Inventory(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	response.JSON(w, http.StatusOK, response.Inventory{Items: items, Equipped: equipped})
}

// Equip handles POST /api/v1/inventory/equip
func (h *EconomyHandler) Equip(w http.ResponseWriter, r *http.Request) {
	var req request.EquipRequest
	if !decode(w, r, &req, false) {
		return
	}

	equipped, err := middleware.MustGetShell(r.Context()).Equip(r.Context(), req.Index, req.Coordinate)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, equipped)
}

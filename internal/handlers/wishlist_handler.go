package handlers

import (
	"encoding/json"
	"net/http"

	"carspotBack/internal/services"
)

type WishlistHandler struct {
	Service *services.WishlistService
}

// ToggleWishlist flips membership and reports the resulting state.
func (h *WishlistHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID int `json:"listing_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	wishlisted, err := h.Service.Toggle(r.Context(), contextUserID(r), req.ListingID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"wishlisted": wishlisted})
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetWishlist(r.Context(), contextUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

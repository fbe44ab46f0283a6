package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carspotBack/internal/services"
)

type ReviewHandler struct {
	Service *services.ReviewService
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID int    `json:"listing_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	review, err := h.Service.CreateReview(r.Context(), contextUserID(r), req.ListingID, req.Rating, req.Comment)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// GetMyPurchases lists the requester's bought listings with their review
// state, so the client can offer "leave a review" only where it applies.
func (h *ReviewHandler) GetMyPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.Service.GetMyPurchases(r.Context(), contextUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *ReviewHandler) GetSellerReviews(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.Atoi(getParam(r, "seller_id"))
	if err != nil {
		http.Error(w, "Invalid seller ID", http.StatusBadRequest)
		return
	}

	reviews, err := h.Service.GetSellerReviews(r.Context(), sellerID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetSellerRating(w http.ResponseWriter, r *http.Request) {
	sellerID, err := strconv.Atoi(getParam(r, "seller_id"))
	if err != nil {
		http.Error(w, "Invalid seller ID", http.StatusBadRequest)
		return
	}

	rating, err := h.Service.GetSellerRating(r.Context(), sellerID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

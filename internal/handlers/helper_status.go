package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"carspotBack/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// serviceError maps domain errors onto HTTP statuses. Anything unmapped is a
// plain 500 with a generic body so DB details never leak to clients.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrSelfConversation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, models.ErrNotOwner),
		errors.Is(err, models.ErrConversationForbidden),
		errors.Is(err, models.ErrNotEligibleToReview):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrListingNotFound),
		errors.Is(err, models.ErrImageNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrConversationNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrAlreadyReviewed),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicatePhone):
		http.Error(w, err.Error(), http.StatusConflict)
	case isForeignKeyConstraintError(err):
		http.Error(w, "Referenced record does not exist", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// contextUserID returns the authenticated user injected by the JWT middleware,
// or 0 on public routes.
func contextUserID(r *http.Request) int {
	if id, ok := r.Context().Value("user_id").(int); ok {
		return id
	}
	return 0
}

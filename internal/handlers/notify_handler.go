package handlers

import (
	"encoding/json"
	"net/http"

	"carspotBack/internal/notify"
)

type NotifyHandler struct {
	Push *notify.PushSender
}

func (h *NotifyHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.Push.RegisterToken(r.Context(), contextUserID(r), req.Token); err != nil {
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotifyHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.Push.DeleteToken(r.Context(), req.Token); err != nil {
		http.Error(w, "Failed to delete token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carspotBack/internal/services"
)

type MessageHandler struct {
	Service *services.MessageService
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID  int    `json:"listing_id"`
		ReceiverID int    `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	msg, err := h.Service.SendMessage(r.Context(), req.ListingID, contextUserID(r), req.ReceiverID, req.Text)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// GetConversation returns the thread with one counterparty about one listing
// and marks the requester's unread messages in it as read.
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.Atoi(getParam(r, "listing_id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	otherID, err := strconv.Atoi(getParam(r, "user_id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	messages, err := h.Service.GetConversation(r.Context(), listingID, contextUserID(r), otherID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) GetInbox(w http.ResponseWriter, r *http.Request) {
	threads, err := h.Service.GetInbox(r.Context(), contextUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

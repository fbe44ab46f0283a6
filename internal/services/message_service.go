package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"carspotBack/internal/models"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	GetConversationMessages(ctx context.Context, listingID, user1ID, user2ID int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, listingID, readerID, otherID int) error
	GetInboxMessages(ctx context.Context, userID int) ([]models.InboxMessage, error)
	GetLatestCounterpart(ctx context.Context, listingID, sellerID int) (int, error)
}

// Pusher delivers a notification to every device of a user. Best-effort.
type Pusher interface {
	SendToUser(ctx context.Context, userID int, title, body string, data map[string]string) error
}

type MessageService struct {
	MessageRepo MessageRepo
	ListingRepo ListingRepo
	Push        Pusher
}

// SendMessage stores a message in the thread for (listing, sender, receiver)
// and pushes a notification to the receiver's devices.
func (s *MessageService) SendMessage(ctx context.Context, listingID, senderID, receiverID int, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, fmt.Errorf("%w: message text is required", models.ErrValidation)
	}
	listing, err := s.authorizeThread(ctx, listingID, senderID, receiverID)
	if err != nil {
		return models.Message{}, err
	}

	msg, err := s.MessageRepo.CreateMessage(ctx, models.Message{
		ListingID:  listingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	})
	if err != nil {
		return models.Message{}, err
	}

	if s.Push != nil {
		title := fmt.Sprintf("New message about %s %s", listing.Make, listing.Model)
		data := map[string]string{
			"listing_id": strconv.Itoa(listingID),
			"sender_id":  strconv.Itoa(senderID),
		}
		if err := s.Push.SendToUser(ctx, receiverID, title, text, data); err != nil {
			log.Printf("push to user=%d failed: %v", receiverID, err)
		}
	}
	return msg, nil
}

// GetConversation returns the thread between the requester and the other user
// about the listing, oldest first, and marks the requester's side as read.
func (s *MessageService) GetConversation(ctx context.Context, listingID, requesterID, otherID int) ([]models.Message, error) {
	if _, err := s.authorizeThread(ctx, listingID, requesterID, otherID); err != nil {
		return nil, err
	}
	messages, err := s.MessageRepo.GetConversationMessages(ctx, listingID, requesterID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.MessageRepo.MarkConversationRead(ctx, listingID, requesterID, otherID); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetInbox groups the user's messages into threads keyed by (listing,
// counterparty), newest thread first, each with its unread counter.
func (s *MessageService) GetInbox(ctx context.Context, userID int) ([]models.ThreadPreview, error) {
	rows, err := s.MessageRepo.GetInboxMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupInbox(rows, userID), nil
}

// authorizeThread enforces that a thread pairs the listing's seller with one
// other user. Anyone else asking for it gets ErrConversationForbidden.
func (s *MessageService) authorizeThread(ctx context.Context, listingID, requesterID, otherID int) (models.CarListing, error) {
	if requesterID == otherID {
		return models.CarListing{}, models.ErrSelfConversation
	}
	listing, err := s.ListingRepo.GetListingByID(ctx, listingID, 0)
	if err != nil {
		return models.CarListing{}, err
	}
	if requesterID != listing.SellerID && otherID != listing.SellerID {
		return models.CarListing{}, models.ErrConversationForbidden
	}
	return listing, nil
}

// groupInbox collapses inbox rows (already sorted newest first) into one
// preview per thread. The first row seen for a key is the thread's latest
// message, so the output inherits the newest-first order.
func groupInbox(rows []models.InboxMessage, userID int) []models.ThreadPreview {
	type threadKey struct {
		listingID int
		otherID   int
	}

	previews := []models.ThreadPreview{}
	index := map[threadKey]int{}
	for _, row := range rows {
		key := threadKey{listingID: row.ListingID, otherID: row.OtherUserID}
		i, seen := index[key]
		if !seen {
			previews = append(previews, models.ThreadPreview{
				ListingID:       row.ListingID,
				ListingTitle:    row.ListingTitle,
				OtherUserID:     row.OtherUserID,
				OtherUserName:   row.OtherUserName,
				OtherAvatarPath: row.OtherAvatarPath,
				LastMessage:     row.Text,
				LastSenderID:    row.SenderID,
				LastMessageAt:   row.CreatedAt,
			})
			i = len(previews) - 1
			index[key] = i
		}
		if row.ReceiverID == userID && !row.IsRead {
			previews[i].UnreadCount++
		}
	}
	return previews
}

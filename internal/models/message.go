package models

import "time"

// Conversation groups messages between two users about one listing.
// user1_id/user2_id are stored in insertion order; lookups match both orders.
type Conversation struct {
	ID        int       `json:"id"`
	ListingID int       `json:"listing_id"`
	User1ID   int       `json:"user1_id"`
	User2ID   int       `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversation_id"`
	ListingID      int       `json:"listing_id"`
	SenderID       int       `json:"sender_id"`
	ReceiverID     int       `json:"receiver_id"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// InboxMessage is a raw inbox row: a message joined with the listing title and
// the counterparty shown in the thread list.
type InboxMessage struct {
	Message
	ListingTitle    string  `json:"listing_title"`
	OtherUserID     int     `json:"other_user_id"`
	OtherUserName   string  `json:"other_user_name"`
	OtherAvatarPath *string `json:"other_avatar_path,omitempty"`
}

// ThreadPreview is one row of the aggregated inbox: the most recent message of
// a (listing, counterparty) thread plus the unread counter for the viewer.
type ThreadPreview struct {
	ListingID       int       `json:"listing_id"`
	ListingTitle    string    `json:"listing_title"`
	OtherUserID     int       `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherAvatarPath *string   `json:"other_avatar_path,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastSenderID    int       `json:"last_sender_id"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"carspotBack/internal/models"
)

type MessageRepository struct {
	DB *sql.DB
}

// GetOrCreateConversation finds the conversation for (listing, user pair) in
// either participant order, creating it when absent. A duplicate-key error on
// insert means another request won the race; re-read in that case.
func (r *MessageRepository) GetOrCreateConversation(ctx context.Context, listingID, user1ID, user2ID int) (int, error) {
	var convID int
	err := r.DB.QueryRowContext(ctx, `
		SELECT id FROM conversations
		WHERE listing_id = ? AND ((user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?))
		ORDER BY id ASC
		LIMIT 1
	`, listingID, user1ID, user2ID, user2ID, user1ID).Scan(&convID)
	if err == nil {
		return convID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO conversations (listing_id, user1_id, user2_id, created_at) VALUES (?, ?, ?, ?)`,
		listingID, user1ID, user2ID, time.Now(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return r.GetOrCreateConversation(ctx, listingID, user1ID, user2ID)
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(newID), nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	convID, err := r.GetOrCreateConversation(ctx, msg.ListingID, msg.SenderID, msg.ReceiverID)
	if err != nil {
		return models.Message{}, err
	}
	msg.ConversationID = convID
	msg.CreatedAt = time.Now()
	msg.IsRead = false

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, receiver_id, text, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Text, msg.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = int(id)
	return msg, nil
}

// GetConversationMessages returns every message between exactly the two
// participants about the listing, oldest first.
func (r *MessageRepository) GetConversationMessages(ctx context.Context, listingID, user1ID, user2ID int) ([]models.Message, error) {
	query := `
		SELECT m.id, m.conversation_id, c.listing_id, m.sender_id, m.receiver_id, m.text, m.is_read, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.listing_id = ?
		  AND ((c.user1_id = ? AND c.user2_id = ?) OR (c.user1_id = ? AND c.user2_id = ?))
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, listingID, user1ID, user2ID, user2ID, user1ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.ListingID, &msg.SenderID, &msg.ReceiverID,
			&msg.Text, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkConversationRead flags every unread message the counterpart sent to the
// reader within the thread.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, listingID, readerID, otherID int) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE messages m
		JOIN conversations c ON c.id = m.conversation_id
		SET m.is_read = 1
		WHERE c.listing_id = ?
		  AND m.sender_id = ? AND m.receiver_id = ?
		  AND m.is_read = 0
	`, listingID, otherID, readerID)
	return err
}

// GetInboxMessages returns every message involving the user together with the
// listing title and the counterparty; thread grouping happens in the service.
func (r *MessageRepository) GetInboxMessages(ctx context.Context, userID int) ([]models.InboxMessage, error) {
	query := `
		SELECT m.id, m.conversation_id, c.listing_id, m.sender_id, m.receiver_id, m.text, m.is_read, m.created_at,
		       CONCAT(l.make, ' ', l.model) AS listing_title,
		       other.id, other.name, p.avatar_path
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		JOIN listings l ON l.id = c.listing_id
		JOIN users other ON other.id = CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
		LEFT JOIN profiles p ON p.user_id = other.id
		WHERE m.sender_id = ? OR m.receiver_id = ?
		ORDER BY m.created_at DESC, m.id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.InboxMessage{}
	for rows.Next() {
		var im models.InboxMessage
		if err := rows.Scan(&im.ID, &im.ConversationID, &im.ListingID, &im.SenderID, &im.ReceiverID,
			&im.Text, &im.IsRead, &im.CreatedAt,
			&im.ListingTitle, &im.OtherUserID, &im.OtherUserName, &im.OtherAvatarPath); err != nil {
			return nil, err
		}
		messages = append(messages, im)
	}
	return messages, rows.Err()
}

// GetLatestCounterpart returns the non-seller side of the listing's most
// recent message, or 0 when the listing has no messages at all.
func (r *MessageRepository) GetLatestCounterpart(ctx context.Context, listingID, sellerID int) (int, error) {
	var senderID, receiverID int
	err := r.DB.QueryRowContext(ctx, `
		SELECT m.sender_id, m.receiver_id
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.listing_id = ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT 1
	`, listingID).Scan(&senderID, &receiverID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if senderID == sellerID {
		return receiverID, nil
	}
	return senderID, nil
}

package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"
)

// PushSender delivers FCM notifications to every device token registered for
// a user. Delivery is best-effort: a dead token is logged and skipped.
type PushSender struct {
	Client *messaging.Client
	DB     *sql.DB
}

func NewPushSender(client *messaging.Client, db *sql.DB) *PushSender {
	return &PushSender{Client: client, DB: db}
}

func (s *PushSender) SendToUser(ctx context.Context, userID int, title, body string, data map[string]string) error {
	if s.Client == nil {
		return nil
	}
	tokens, err := s.tokensByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{"apns-priority": "10"},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{Title: title, Body: body},
						Sound: "default",
					},
				},
			},
		}
		if _, err := s.Client.Send(ctx, msg); err != nil {
			log.Printf("fcm send to user=%d failed: %v", userID, err)
		}
	}
	return nil
}

func (s *PushSender) RegisterToken(ctx context.Context, userID int, token string) error {
	if s.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO notify_tokens (user_id, token)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE user_id = VALUES(user_id)
	`, userID, token)
	return err
}

func (s *PushSender) DeleteToken(ctx context.Context, token string) error {
	if s.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := s.DB.ExecContext(ctx, `DELETE FROM notify_tokens WHERE token = ?`, token)
	return err
}

func (s *PushSender) tokensByUserID(ctx context.Context, userID int) ([]string, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT token FROM notify_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

package store

import (
	"context"
	"fmt"
)

// InsertMessage persists a direct message with read=false and returns the stored row.
// The realtime layer calls this before producing any delivery event.
func (s *Store) InsertMessage(ctx context.Context, senderID, receiverID int64, content string) (Message, error) {
	var m Message
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (content, sender_id, receiver_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, sender_id, receiver_id, is_read, created_at`,
		content, senderID, receiverID,
	).Scan(&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.IsRead, &m.CreatedAt)
	return m, err
}

// MarkConversationRead flags every unread message from otherUserID to selfUserID
// as read and returns the number of rows updated.
func (s *Store) MarkConversationRead(ctx context.Context, otherUserID, selfUserID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND NOT is_read`,
		otherUserID, selfUserID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const conversationMessageQuery = `
	SELECT m.id, m.content, m.sender_id, m.receiver_id, m.is_read, m.created_at,
	       s.id, s.username, s.full_name, COALESCE(s.avatar_url, ''),
	       r.id, r.username, r.full_name, COALESCE(r.avatar_url, '')
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id`

func scanConversationMessage(row interface{ Scan(...any) error }) (ConversationMessage, error) {
	var m ConversationMessage
	err := row.Scan(
		&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.IsRead, &m.CreatedAt,
		&m.Sender.ID, &m.Sender.Username, &m.Sender.FullName, &m.Sender.AvatarURL,
		&m.Receiver.ID, &m.Receiver.Username, &m.Receiver.FullName, &m.Receiver.AvatarURL,
	)
	return m, err
}

// ListConversation returns the full message history between two users, oldest first.
func (s *Store) ListConversation(ctx context.Context, userID, otherUserID int64) ([]ConversationMessage, error) {
	rows, err := s.pool.Query(ctx, conversationMessageQuery+`
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at`,
		userID, otherUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	var messages []ConversationMessage
	for rows.Next() {
		m, err := scanConversationMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListChats builds the chat list for a user: every conversation partner together
// with the most recent message and the count of unread messages from that partner.
// Sorted by last activity, newest conversation first.
func (s *Store) ListChats(ctx context.Context, userID int64) ([]ChatSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.username, u.full_name, COALESCE(u.avatar_url, ''),
		       lm.id, lm.content, lm.sender_id, lm.receiver_id, lm.is_read, lm.created_at,
		       (SELECT count(*) FROM messages
		        WHERE sender_id = u.id AND receiver_id = $1 AND NOT is_read)
		FROM (
			SELECT DISTINCT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		) p
		JOIN users u ON u.id = p.partner_id
		JOIN LATERAL (
			SELECT id, content, sender_id, receiver_id, is_read, created_at
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = u.id)
			   OR (sender_id = u.id AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		ORDER BY lm.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []ChatSummary
	for rows.Next() {
		var c ChatSummary
		var last Message
		err := rows.Scan(
			&c.User.ID, &c.User.Username, &c.User.FullName, &c.User.AvatarURL,
			&last.ID, &last.Content, &last.SenderID, &last.ReceiverID, &last.IsRead, &last.CreatedAt,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat summary: %w", err)
		}
		c.LastMessage = &last
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

/*
Package chat contains the realtime subsystem of the social hub: the connection
registry, the presence broadcaster, and the inbound event router that together
drive direct messaging, typing indicators, read receipts, and online status
over per-user WebSocket channels.

This file defines the wire shapes exchanged over a realtime channel.
*/
package chat

import (
	"time"

	"socialhub/internal/app/store"
)

// Inbound event types accepted from clients.
const (
	EventMessage  = "message"
	EventTyping   = "typing"
	EventMarkRead = "mark_read"
)

// Outbound event types produced by the server.
const (
	EventUserStatus  = "user_status"
	EventMessageRead = "message_read"
)

// InboundEvent is the envelope read off a client channel. The Type field
// discriminates; the remaining fields are populated depending on it.
type InboundEvent struct {
	Type string `json:"type"`

	// message
	Content    string `json:"content,omitempty"`
	ReceiverID int64  `json:"receiver_id,omitempty"`

	// typing. Pointer so that a missing field is distinguishable from false.
	IsTyping *bool `json:"is_typing,omitempty"`

	// mark_read
	OtherUserID int64 `json:"other_user_id,omitempty"`
}

// ChatDelivery is the projection of a persisted message pushed to the live
// channels of both conversation parties.
type ChatDelivery struct {
	Type       string            `json:"type"`
	ID         int64             `json:"id"`
	Content    string            `json:"content"`
	SenderID   int64             `json:"sender_id"`
	ReceiverID int64             `json:"receiver_id"`
	Sender     store.UserSummary `json:"sender"`
	Timestamp  string            `json:"timestamp"`
	IsRead     bool              `json:"is_read"`
}

// NewChatDelivery builds the delivery event for a stored message.
func NewChatDelivery(msg store.Message, sender store.UserSummary) ChatDelivery {
	return ChatDelivery{
		Type:       EventMessage,
		ID:         msg.ID,
		Content:    msg.Content,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Sender:     sender,
		Timestamp:  msg.CreatedAt.UTC().Format(time.RFC3339),
		IsRead:     msg.IsRead,
	}
}

// PresenceEvent announces an online/offline transition to a user's friends.
// It is transient and never persisted.
type PresenceEvent struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsOnline bool   `json:"is_online"`
	LastSeen string `json:"last_seen"`
}

// TypingIndicator tells the receiver that the sender started or stopped typing.
type TypingIndicator struct {
	Type     string `json:"type"`
	SenderID int64  `json:"sender_id"`
	IsTyping bool   `json:"is_typing"`
}

// ReadReceipt tells the original sender that the reader caught up on the
// conversation.
type ReadReceipt struct {
	Type     string `json:"type"`
	ReaderID int64  `json:"reader_id"`
	SenderID int64  `json:"sender_id"`
}

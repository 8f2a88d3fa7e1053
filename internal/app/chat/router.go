package chat

import (
	"context"
	"encoding/json"
	"strings"

	"socialhub/internal/app/store"
	"socialhub/internal/pkg/logx"
)

// RouterStore is the slice of persistence the router needs.
type RouterStore interface {
	InsertMessage(ctx context.Context, senderID, receiverID int64, content string) (store.Message, error)
	MarkConversationRead(ctx context.Context, otherUserID, selfUserID int64) (int64, error)
}

// Router interprets inbound events from authenticated channels and pushes the
// resulting realtime events to live recipients. Persistence always happens
// before any notification, so a delivered event is never ahead of the
// database. Unknown or malformed events are ignored without closing the
// sending channel.
type Router struct {
	registry *Registry
	store    RouterStore
	drop     func(ch Channel)
}

func NewRouter(registry *Registry, st RouterStore, drop func(Channel)) *Router {
	return &Router{registry: registry, store: st, drop: drop}
}

// Dispatch handles one raw frame read from sender. It is called synchronously
// from the channel's read loop, which gives events from a single channel a
// strict processing order.
func (rt *Router) Dispatch(ctx context.Context, sender Channel, raw []byte) {
	var event InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		logx.Debug("Ignoring undecodable realtime frame.", "user_id", sender.User().ID)
		return
	}

	switch event.Type {
	case EventMessage:
		rt.handleMessage(ctx, sender, event)
	case EventTyping:
		rt.handleTyping(sender, event)
	case EventMarkRead:
		rt.handleMarkRead(ctx, sender, event)
	default:
		logx.Debug("Ignoring realtime event of unknown type.",
			"user_id", sender.User().ID, "type", event.Type)
	}
}

// handleMessage persists a direct message and then pushes the stored row to
// both parties. Delivery to sender and receiver is attempted independently;
// either one being offline or failing does not affect the other.
func (rt *Router) handleMessage(ctx context.Context, sender Channel, event InboundEvent) {
	content := strings.TrimSpace(event.Content)
	if content == "" || event.ReceiverID == 0 {
		return
	}

	msg, err := rt.store.InsertMessage(ctx, sender.User().ID, event.ReceiverID, content)
	if err != nil {
		logx.Warn("Failed to persist direct message.",
			"sender_id", sender.User().ID, "receiver_id", event.ReceiverID, "error", err.Error())
		return
	}

	payload, err := json.Marshal(NewChatDelivery(msg, sender.User()))
	if err != nil {
		logx.Error(err, "Failed to encode message delivery.")
		return
	}

	rt.deliver(msg.ReceiverID, payload)
	rt.deliver(msg.SenderID, payload)
}

// handleTyping relays a transient typing indicator to the receiver, if online.
func (rt *Router) handleTyping(sender Channel, event InboundEvent) {
	if event.ReceiverID == 0 || event.IsTyping == nil {
		return
	}

	payload, err := json.Marshal(TypingIndicator{
		Type:     EventTyping,
		SenderID: sender.User().ID,
		IsTyping: *event.IsTyping,
	})
	if err != nil {
		logx.Error(err, "Failed to encode typing indicator.")
		return
	}

	rt.deliver(event.ReceiverID, payload)
}

// handleMarkRead flips the unread flag on every message the other user sent
// to the reader, then pushes a read receipt back to the other user.
func (rt *Router) handleMarkRead(ctx context.Context, sender Channel, event InboundEvent) {
	if event.OtherUserID == 0 {
		return
	}

	if _, err := rt.store.MarkConversationRead(ctx, event.OtherUserID, sender.User().ID); err != nil {
		logx.Warn("Failed to mark conversation as read.",
			"reader_id", sender.User().ID, "other_user_id", event.OtherUserID, "error", err.Error())
		return
	}

	payload, err := json.Marshal(ReadReceipt{
		Type:     EventMessageRead,
		ReaderID: sender.User().ID,
		SenderID: event.OtherUserID,
	})
	if err != nil {
		logx.Error(err, "Failed to encode read receipt.")
		return
	}

	rt.deliver(event.OtherUserID, payload)
}

// deliver pushes a payload to the live channel of userID, when there is one.
// A failed Send means the connection is gone: the channel is handed to the
// drop callback for implicit-disconnect cleanup.
func (rt *Router) deliver(userID int64, payload []byte) {
	ch, ok := rt.registry.Lookup(userID)
	if !ok {
		return
	}
	if err := ch.Send(payload); err != nil {
		logx.Info("Dropping unresponsive channel during delivery.", "user_id", userID)
		rt.drop(ch)
	}
}

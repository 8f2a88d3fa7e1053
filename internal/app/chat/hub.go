package chat

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"

	"socialhub/internal/app/store"
	"socialhub/internal/pkg/logx"
)

// Application-defined WebSocket close codes.
const (
	CloseInvalidToken    = 4001
	CloseUnknownUser     = 4002
	CloseSessionReplaced = 4003
)

// Store is the persistence surface of the realtime subsystem.
type Store interface {
	PresenceStore
	RouterStore
}

// Hub wires the registry, the presence broadcaster, and the router together
// and owns the connection lifecycle: Connect and Disconnect are the only two
// entry points that change registry membership, and each presence transition
// is emitted exactly once per successful membership change.
type Hub struct {
	Registry *Registry
	Presence *Presence
	Router   *Router
}

func NewHub(st Store) *Hub {
	registry := NewRegistry()
	h := &Hub{Registry: registry}
	h.Presence = NewPresence(registry, st, h.dropChannel)
	h.Router = NewRouter(registry, st, h.dropChannel)
	return h
}

// Connect registers ch as its user's live channel and broadcasts the online
// transition. When the user already had a connection, the older channel is
// evicted and closed with CloseSessionReplaced; the eviction produces no
// offline event because the user never stopped being online.
func (h *Hub) Connect(ctx context.Context, ch Channel) {
	user := ch.User()

	if evicted := h.Registry.Register(ch); evicted != nil {
		logx.Info("Evicting superseded realtime connection.", "user_id", user.ID)
		evicted.Close(CloseSessionReplaced, "session replaced by a newer connection")
	}

	h.Presence.UserOnline(ctx, user)
}

// Disconnect removes ch from the registry and, when it was still the user's
// current channel, broadcasts the offline transition. Calling it for an
// already-replaced or already-removed channel is a no-op, so the read-loop
// teardown of an evicted connection never masks the newer session.
func (h *Hub) Disconnect(ctx context.Context, ch Channel) {
	if h.Registry.Unregister(ch) {
		h.Presence.UserOffline(ctx, ch.User())
	}
}

// PushMessage delivers an already-persisted message to the live channels of
// both parties, best effort. Used by the REST send path so an HTTP-sent
// message still shows up instantly for connected clients.
func (h *Hub) PushMessage(msg store.Message, sender store.UserSummary) {
	payload, err := json.Marshal(NewChatDelivery(msg, sender))
	if err != nil {
		logx.Error(err, "Failed to encode message delivery.")
		return
	}

	h.Router.deliver(msg.ReceiverID, payload)
	h.Router.deliver(msg.SenderID, payload)
}

// PushReadReceipt notifies otherUserID's live channel that readerID caught up
// on their conversation, best effort.
func (h *Hub) PushReadReceipt(readerID, otherUserID int64) {
	payload, err := json.Marshal(ReadReceipt{
		Type:     EventMessageRead,
		ReaderID: readerID,
		SenderID: otherUserID,
	})
	if err != nil {
		logx.Error(err, "Failed to encode read receipt.")
		return
	}

	h.Router.deliver(otherUserID, payload)
}

// dropChannel runs the implicit-disconnect path for a channel whose Send
// failed mid-fan-out. The channel is closed without a close frame exchange;
// its own read loop ends up in Disconnect as a no-op afterwards.
func (h *Hub) dropChannel(ch Channel) {
	h.Disconnect(context.Background(), ch)
	ch.Close(websocket.CloseGoingAway, "")
}

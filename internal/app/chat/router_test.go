package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"socialhub/internal/app/chat"
	"socialhub/internal/app/store"
)

func newTestRouter(st *fakeStore) (*chat.Router, *chat.Registry, *[]chat.Channel) {
	registry := chat.NewRegistry()
	dropped := &[]chat.Channel{}
	router := chat.NewRouter(registry, st, func(ch chat.Channel) {
		*dropped = append(*dropped, ch)
	})
	return router, registry, dropped
}

// tracingChannel appends to the store's trace on every successful send so the
// persist/deliver order can be asserted.
type tracingChannel struct {
	*fakeChannel
	st *fakeStore
}

func (c *tracingChannel) Send(payload []byte) error {
	if err := c.fakeChannel.Send(payload); err != nil {
		return err
	}
	c.st.appendTrace("deliver")
	return nil
}

func TestRouterMessagePersistsBeforeDelivery(t *testing.T) {
	st := newFakeStore()
	router, registry, _ := newTestRouter(st)

	sender := &tracingChannel{fakeChannel: newFakeChannel(1, "alice"), st: st}
	receiver := &tracingChannel{fakeChannel: newFakeChannel(2, "bob"), st: st}
	registry.Register(sender)
	registry.Register(receiver)

	raw := []byte(`{"type":"message","content":"hey bob","receiver_id":2}`)
	router.Dispatch(context.Background(), sender, raw)

	require.Equal(t, []string{"persist", "deliver", "deliver"}, st.traceLog())

	// both parties receive the stored row
	for _, ch := range []*tracingChannel{sender, receiver} {
		payloads := ch.sentPayloads()
		require.Len(t, payloads, 1)

		var delivery chat.ChatDelivery
		require.NoError(t, json.Unmarshal(payloads[0], &delivery))
		require.Equal(t, "message", delivery.Type)
		require.Equal(t, int64(1), delivery.ID)
		require.Equal(t, "hey bob", delivery.Content)
		require.Equal(t, int64(1), delivery.SenderID)
		require.Equal(t, int64(2), delivery.ReceiverID)
		require.Equal(t, "alice", delivery.Sender.Username)
		require.False(t, delivery.IsRead)
		require.NotEmpty(t, delivery.Timestamp)
	}
}

func TestRouterMessagePersistsForOfflineReceiver(t *testing.T) {
	st := newFakeStore()
	router, registry, _ := newTestRouter(st)

	sender := newFakeChannel(1, "alice")
	registry.Register(sender)

	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"message","content":"you there?","receiver_id":2}`))

	require.Len(t, st.messages, 1)
	require.Equal(t, "you there?", st.messages[0].Content)

	// sender still gets the echo
	require.Len(t, sender.sentPayloads(), 1)
}

func TestRouterMessagePersistenceFailureSuppressesDelivery(t *testing.T) {
	st := newFakeStore()
	st.insertErr = errors.New("db down")
	router, registry, _ := newTestRouter(st)

	sender := newFakeChannel(1, "alice")
	receiver := newFakeChannel(2, "bob")
	registry.Register(sender)
	registry.Register(receiver)

	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"message","content":"hello","receiver_id":2}`))

	require.Empty(t, sender.sentPayloads())
	require.Empty(t, receiver.sentPayloads())
}

func TestRouterIgnoresMalformedEvents(t *testing.T) {
	st := newFakeStore()
	router, registry, dropped := newTestRouter(st)

	sender := newFakeChannel(1, "alice")
	receiver := newFakeChannel(2, "bob")
	registry.Register(sender)
	registry.Register(receiver)

	frames := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"type":"shout","content":"???"}`),
		[]byte(`{"type":"message","receiver_id":2}`),
		[]byte(`{"type":"message","content":"   ","receiver_id":2}`),
		[]byte(`{"type":"message","content":"no receiver"}`),
		[]byte(`{"type":"typing","receiver_id":2}`),
		[]byte(`{"type":"typing","is_typing":true}`),
		[]byte(`{"type":"mark_read"}`),
	}
	for _, raw := range frames {
		router.Dispatch(context.Background(), sender, raw)
	}

	require.Empty(t, st.messages)
	require.Empty(t, st.markCalls)
	require.Empty(t, sender.sentPayloads())
	require.Empty(t, receiver.sentPayloads())
	require.Empty(t, *dropped)
}

func TestRouterTypingIndicatorRelay(t *testing.T) {
	st := newFakeStore()
	router, registry, _ := newTestRouter(st)

	sender := newFakeChannel(1, "alice")
	receiver := newFakeChannel(2, "bob")
	registry.Register(sender)
	registry.Register(receiver)

	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"typing","receiver_id":2,"is_typing":true}`))
	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"typing","receiver_id":2,"is_typing":false}`))

	payloads := receiver.sentPayloads()
	require.Len(t, payloads, 2)

	var first, second chat.TypingIndicator
	require.NoError(t, json.Unmarshal(payloads[0], &first))
	require.NoError(t, json.Unmarshal(payloads[1], &second))

	require.Equal(t, "typing", first.Type)
	require.Equal(t, int64(1), first.SenderID)
	require.True(t, first.IsTyping)
	require.False(t, second.IsTyping)

	// typing is transient, nothing persisted and nothing echoed back
	require.Empty(t, st.messages)
	require.Empty(t, sender.sentPayloads())
}

func TestRouterMarkReadSendsReceipt(t *testing.T) {
	st := newFakeStore()
	router, registry, _ := newTestRouter(st)

	reader := newFakeChannel(2, "bob")
	originalSender := newFakeChannel(1, "alice")
	registry.Register(reader)
	registry.Register(originalSender)

	router.Dispatch(context.Background(), reader,
		[]byte(`{"type":"mark_read","other_user_id":1}`))

	require.Equal(t, [][2]int64{{1, 2}}, st.markCalls)

	payloads := originalSender.sentPayloads()
	require.Len(t, payloads, 1)

	var receipt chat.ReadReceipt
	require.NoError(t, json.Unmarshal(payloads[0], &receipt))
	require.Equal(t, "message_read", receipt.Type)
	require.Equal(t, int64(2), receipt.ReaderID)
	require.Equal(t, int64(1), receipt.SenderID)
}

func TestRouterMarkReadFailureSuppressesReceipt(t *testing.T) {
	st := newFakeStore()
	st.markErr = errors.New("db down")
	router, registry, _ := newTestRouter(st)

	reader := newFakeChannel(2, "bob")
	originalSender := newFakeChannel(1, "alice")
	registry.Register(reader)
	registry.Register(originalSender)

	router.Dispatch(context.Background(), reader,
		[]byte(`{"type":"mark_read","other_user_id":1}`))

	require.Empty(t, originalSender.sentPayloads())
}

func TestRouterDeliveryFailureDropsChannel(t *testing.T) {
	st := newFakeStore()
	router, registry, dropped := newTestRouter(st)

	sender := newFakeChannel(1, "alice")
	receiver := newFakeChannel(2, "bob")
	registry.Register(sender)
	registry.Register(receiver)
	receiver.failSends()

	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"message","content":"hello","receiver_id":2}`))

	// message is persisted, the broken channel is dropped, the sender echo
	// still goes through
	require.Len(t, st.messages, 1)
	require.Len(t, *dropped, 1)
	require.Same(t, receiver, (*dropped)[0])
	require.Len(t, sender.sentPayloads(), 1)
}

func TestRouterMessageSenderSummaryComesFromChannel(t *testing.T) {
	st := newFakeStore()
	router, registry, _ := newTestRouter(st)

	sender := newFakeChannel(7, "grace")
	sender.user = store.UserSummary{ID: 7, Username: "grace", FullName: "Grace Hopper"}
	receiver := newFakeChannel(8, "heidi")
	registry.Register(sender)
	registry.Register(receiver)

	router.Dispatch(context.Background(), sender,
		[]byte(`{"type":"message","content":"hi","receiver_id":8}`))

	payloads := receiver.sentPayloads()
	require.Len(t, payloads, 1)

	var delivery chat.ChatDelivery
	require.NoError(t, json.Unmarshal(payloads[0], &delivery))
	require.Equal(t, int64(7), delivery.Sender.ID)
	require.Equal(t, "Grace Hopper", delivery.Sender.FullName)
}

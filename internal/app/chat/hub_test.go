package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"socialhub/internal/app/chat"
)

func TestHubConnectBroadcastsOnlineOnce(t *testing.T) {
	st := newFakeStore()
	hub := chat.NewHub(st)

	alice := newFakeChannel(1, "alice")
	hub.Connect(context.Background(), alice)

	require.True(t, hub.Registry.IsOnline(1))
	require.Equal(t, []presenceCall{{UserID: 1, Online: true}}, st.recordedPresence())
}

func TestHubReconnectEvictsAndKeepsUserOnline(t *testing.T) {
	st := newFakeStore()
	hub := chat.NewHub(st)

	first := newFakeChannel(1, "alice")
	second := newFakeChannel(1, "alice")

	hub.Connect(context.Background(), first)
	hub.Connect(context.Background(), second)

	closed, code := first.wasClosed()
	require.True(t, closed)
	require.Equal(t, chat.CloseSessionReplaced, code)

	got, ok := hub.Registry.Lookup(1)
	require.True(t, ok)
	require.Same(t, second, got)

	// the evicted connection's read loop tears down afterwards; this must
	// not knock the newer session offline
	hub.Disconnect(context.Background(), first)
	require.True(t, hub.Registry.IsOnline(1))

	// two online transitions, never an offline one
	require.Equal(t, []presenceCall{
		{UserID: 1, Online: true},
		{UserID: 1, Online: true},
	}, st.recordedPresence())
}

func TestHubDisconnectBroadcastsOfflineToFriends(t *testing.T) {
	st := newFakeStore()
	hub := chat.NewHub(st)

	alice := newFakeChannel(1, "alice")
	bob := newFakeChannel(2, "bob")
	st.befriend(alice.User(), bob.User())

	hub.Connect(context.Background(), alice)
	hub.Connect(context.Background(), bob)

	hub.Disconnect(context.Background(), alice)

	require.False(t, hub.Registry.IsOnline(1))

	calls := st.recordedPresence()
	require.Equal(t, presenceCall{UserID: 1, Online: false}, calls[len(calls)-1])

	// bob saw alice's online and offline events
	payloads := bob.sentPayloads()
	require.Len(t, payloads, 2)
	require.True(t, decodePresence(t, payloads[0]).IsOnline)
	require.False(t, decodePresence(t, payloads[1]).IsOnline)
}

func TestHubDisconnectIsIdempotent(t *testing.T) {
	st := newFakeStore()
	hub := chat.NewHub(st)

	alice := newFakeChannel(1, "alice")
	hub.Connect(context.Background(), alice)

	hub.Disconnect(context.Background(), alice)
	hub.Disconnect(context.Background(), alice)

	// one online, exactly one offline
	require.Equal(t, []presenceCall{
		{UserID: 1, Online: true},
		{UserID: 1, Online: false},
	}, st.recordedPresence())
}

func TestHubImplicitDisconnectOnDeliveryFailure(t *testing.T) {
	st := newFakeStore()
	hub := chat.NewHub(st)

	alice := newFakeChannel(1, "alice")
	bob := newFakeChannel(2, "bob")
	st.befriend(alice.User(), bob.User())

	hub.Connect(context.Background(), alice)
	hub.Connect(context.Background(), bob)
	bob.failSends()

	// a message to bob fails to deliver; bob's dead channel is removed and
	// his offline transition recorded
	hub.Router.Dispatch(context.Background(), alice,
		[]byte(`{"type":"message","content":"ping","receiver_id":2}`))

	require.False(t, hub.Registry.IsOnline(2))

	closed, _ := bob.wasClosed()
	require.True(t, closed)

	calls := st.recordedPresence()
	require.Contains(t, calls, presenceCall{UserID: 2, Online: false})

	// the message itself was persisted before delivery was attempted
	require.Len(t, st.messages, 1)
}

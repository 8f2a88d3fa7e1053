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

func decodePresence(t *testing.T, payload []byte) chat.PresenceEvent {
	t.Helper()

	var event chat.PresenceEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestPresenceBroadcastReachesOnlineFriendsOnly(t *testing.T) {
	st := newFakeStore()
	registry := chat.NewRegistry()

	var dropped []chat.Channel
	presence := chat.NewPresence(registry, st, func(ch chat.Channel) {
		dropped = append(dropped, ch)
	})

	alice := store.UserSummary{ID: 1, Username: "alice"}
	bob := newFakeChannel(2, "bob")
	carol := newFakeChannel(3, "carol")
	st.befriend(alice, bob.User())
	st.befriend(alice, carol.User())
	// dave is a friend but never connects
	st.befriend(alice, store.UserSummary{ID: 4, Username: "dave"})

	registry.Register(bob)
	registry.Register(carol)

	presence.UserOnline(context.Background(), alice)

	for _, ch := range []*fakeChannel{bob, carol} {
		payloads := ch.sentPayloads()
		require.Len(t, payloads, 1)

		event := decodePresence(t, payloads[0])
		require.Equal(t, "user_status", event.Type)
		require.Equal(t, int64(1), event.UserID)
		require.Equal(t, "alice", event.Username)
		require.True(t, event.IsOnline)
		require.NotEmpty(t, event.LastSeen)
	}

	require.Empty(t, dropped)

	calls := st.recordedPresence()
	require.Equal(t, []presenceCall{{UserID: 1, Online: true}}, calls)
}

func TestPresenceOfflineEvent(t *testing.T) {
	st := newFakeStore()
	registry := chat.NewRegistry()
	presence := chat.NewPresence(registry, st, func(chat.Channel) {})

	alice := store.UserSummary{ID: 1, Username: "alice"}
	bob := newFakeChannel(2, "bob")
	st.befriend(alice, bob.User())
	registry.Register(bob)

	presence.UserOffline(context.Background(), alice)

	payloads := bob.sentPayloads()
	require.Len(t, payloads, 1)

	event := decodePresence(t, payloads[0])
	require.False(t, event.IsOnline)
	require.Equal(t, []presenceCall{{UserID: 1, Online: false}}, st.recordedPresence())
}

func TestPresencePersistenceFailureDoesNotStopFanOut(t *testing.T) {
	st := newFakeStore()
	st.presenceErr = errors.New("db down")

	registry := chat.NewRegistry()
	presence := chat.NewPresence(registry, st, func(chat.Channel) {})

	alice := store.UserSummary{ID: 1, Username: "alice"}
	bob := newFakeChannel(2, "bob")
	st.befriend(alice, bob.User())
	registry.Register(bob)

	presence.UserOnline(context.Background(), alice)

	require.Len(t, bob.sentPayloads(), 1)
}

func TestPresenceFriendLookupFailureSkipsFanOut(t *testing.T) {
	st := newFakeStore()
	st.friendsErr = errors.New("db down")

	registry := chat.NewRegistry()
	presence := chat.NewPresence(registry, st, func(chat.Channel) {})

	bob := newFakeChannel(2, "bob")
	registry.Register(bob)

	presence.UserOnline(context.Background(), store.UserSummary{ID: 1, Username: "alice"})

	require.Empty(t, bob.sentPayloads())
}

func TestPresenceSendFailureTriggersDrop(t *testing.T) {
	st := newFakeStore()
	registry := chat.NewRegistry()

	var dropped []chat.Channel
	presence := chat.NewPresence(registry, st, func(ch chat.Channel) {
		dropped = append(dropped, ch)
	})

	alice := store.UserSummary{ID: 1, Username: "alice"}
	bob := newFakeChannel(2, "bob")
	carol := newFakeChannel(3, "carol")
	st.befriend(alice, bob.User())
	st.befriend(alice, carol.User())

	registry.Register(bob)
	registry.Register(carol)
	bob.failSends()

	presence.UserOnline(context.Background(), alice)

	// the broken channel is handed over for cleanup, the healthy one still
	// receives the event
	require.Len(t, dropped, 1)
	require.Same(t, bob, dropped[0])
	require.Len(t, carol.sentPayloads(), 1)
}

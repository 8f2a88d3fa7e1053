package chat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"socialhub/internal/app/chat"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := chat.NewRegistry()
	alice := newFakeChannel(1, "alice")

	evicted := registry.Register(alice)
	require.Nil(t, evicted)

	got, ok := registry.Lookup(1)
	require.True(t, ok)
	require.Same(t, alice, got)

	require.True(t, registry.IsOnline(1))
	require.False(t, registry.IsOnline(2))
}

func TestRegistrySecondRegistrationEvictsFirst(t *testing.T) {
	registry := chat.NewRegistry()
	first := newFakeChannel(1, "alice")
	second := newFakeChannel(1, "alice")

	require.Nil(t, registry.Register(first))

	evicted := registry.Register(second)
	require.Same(t, first, evicted)

	got, ok := registry.Lookup(1)
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestRegistryUnregisterIsIdentityChecked(t *testing.T) {
	registry := chat.NewRegistry()
	stale := newFakeChannel(1, "alice")
	current := newFakeChannel(1, "alice")

	registry.Register(stale)
	registry.Register(current)

	// the replaced channel must not remove the newer session
	require.False(t, registry.Unregister(stale))
	require.True(t, registry.IsOnline(1))

	require.True(t, registry.Unregister(current))
	require.False(t, registry.IsOnline(1))

	// repeated unregistration is a no-op
	require.False(t, registry.Unregister(current))
}

func TestRegistryOnlineUsersSnapshot(t *testing.T) {
	registry := chat.NewRegistry()

	require.Empty(t, registry.OnlineUsers())

	registry.Register(newFakeChannel(1, "alice"))
	registry.Register(newFakeChannel(2, "bob"))
	registry.Register(newFakeChannel(3, "carol"))

	require.ElementsMatch(t, []int64{1, 2, 3}, registry.OnlineUsers())

	bob, _ := registry.Lookup(2)
	registry.Unregister(bob)
	require.ElementsMatch(t, []int64{1, 3}, registry.OnlineUsers())
}

package chat

import (
	"sync"

	"socialhub/internal/app/store"
)

// Channel is the writable end of one live realtime connection. Implementations
// must make Send safe for concurrent use and must never block it: a Send that
// cannot be queued returns an error, which callers treat as the connection
// being gone.
type Channel interface {
	// User identifies the authenticated owner of the connection.
	User() store.UserSummary

	// Send queues a payload for delivery. A non-nil error means the
	// connection can no longer accept writes.
	Send(payload []byte) error

	// Close shuts the channel down, sending a close frame with the given
	// code and reason when the transport still allows it. Safe to call more
	// than once.
	Close(code int, reason string)
}

// Registry maps user IDs to their single live channel. Membership in the
// registry is the authoritative definition of "online". At most one channel
// per user: a second registration for the same user evicts the first.
type Registry struct {
	mu    sync.RWMutex
	conns map[int64]Channel
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[int64]Channel)}
}

// Register installs ch as the live channel for its user and returns the
// previous channel when one was displaced. The caller is responsible for
// closing the evicted channel outside the registry lock.
func (r *Registry) Register(ch Channel) (evicted Channel) {
	userID := ch.User().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted = r.conns[userID]
	r.conns[userID] = ch
	return evicted
}

// Unregister removes ch when it is still the current channel for its user.
// It reports whether a removal happened; a stale channel (already replaced by
// a newer registration, or never registered) is a no-op. Safe to call
// multiple times for the same channel.
func (r *Registry) Unregister(ch Channel) bool {
	userID := ch.User().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[userID]; ok && current == ch {
		delete(r.conns, userID)
		return true
	}
	return false
}

// Lookup returns the live channel for a user, if any.
func (r *Registry) Lookup(userID int64) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.conns[userID]
	return ch, ok
}

// IsOnline reports whether the user currently holds a registered channel.
func (r *Registry) IsOnline(userID int64) bool {
	_, ok := r.Lookup(userID)
	return ok
}

// OnlineUsers returns a snapshot of the IDs of all currently connected users.
func (r *Registry) OnlineUsers() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

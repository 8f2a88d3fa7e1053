package chat

import (
	"context"
	"encoding/json"
	"time"

	"socialhub/internal/app/store"
	"socialhub/internal/pkg/logx"
)

// PresenceStore is the slice of persistence the broadcaster needs.
type PresenceStore interface {
	UpdatePresence(ctx context.Context, userID int64, online bool, lastSeen time.Time) error
	GetFriends(ctx context.Context, userID int64) ([]store.User, error)
}

// Presence records online/offline transitions and fans the resulting status
// events out to the live channels of the user's friends. Every failure here
// is tolerated: a presence event that cannot be persisted or delivered is
// logged and dropped, never surfaced to the triggering connection.
type Presence struct {
	registry *Registry
	store    PresenceStore

	// drop is invoked for a channel whose Send failed, so the owner of the
	// registry can run the implicit-disconnect cleanup.
	drop func(ch Channel)
}

func NewPresence(registry *Registry, st PresenceStore, drop func(Channel)) *Presence {
	return &Presence{registry: registry, store: st, drop: drop}
}

// UserOnline marks the user online and notifies their friends.
func (p *Presence) UserOnline(ctx context.Context, user store.UserSummary) {
	p.broadcast(ctx, user, true)
}

// UserOffline marks the user offline, stamps last_seen, and notifies their
// friends.
func (p *Presence) UserOffline(ctx context.Context, user store.UserSummary) {
	p.broadcast(ctx, user, false)
}

func (p *Presence) broadcast(ctx context.Context, user store.UserSummary, online bool) {
	now := time.Now().UTC()

	if err := p.store.UpdatePresence(ctx, user.ID, online, now); err != nil {
		logx.Warn("Failed to persist presence change.",
			"user_id", user.ID, "online", online, "error", err.Error())
	}

	friends, err := p.store.GetFriends(ctx, user.ID)
	if err != nil {
		logx.Warn("Failed to load friends for presence fan-out.",
			"user_id", user.ID, "error", err.Error())
		return
	}

	payload, err := json.Marshal(PresenceEvent{
		Type:     EventUserStatus,
		UserID:   user.ID,
		Username: user.Username,
		IsOnline: online,
		LastSeen: now.Format(time.RFC3339),
	})
	if err != nil {
		logx.Error(err, "Failed to encode presence event.")
		return
	}

	for _, friend := range friends {
		ch, ok := p.registry.Lookup(friend.ID)
		if !ok {
			continue
		}
		if err := ch.Send(payload); err != nil {
			logx.Info("Dropping unresponsive channel during presence fan-out.",
				"user_id", friend.ID)
			p.drop(ch)
		}
	}
}

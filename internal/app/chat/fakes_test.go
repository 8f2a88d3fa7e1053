package chat_test

import (
	"context"
	"sync"
	"time"

	"socialhub/internal/app/chat"
	"socialhub/internal/app/store"
)

// fakeChannel is an in-memory chat.Channel recording everything sent to it.
type fakeChannel struct {
	user store.UserSummary

	mu        sync.Mutex
	sent      [][]byte
	sendErr   error
	closed    bool
	closeCode int
}

func newFakeChannel(id int64, username string) *fakeChannel {
	return &fakeChannel{user: store.UserSummary{ID: id, Username: username}}
}

func (f *fakeChannel) User() store.UserSummary { return f.user }

func (f *fakeChannel) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeChannel) Close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		f.closeCode = code
	}
}

func (f *fakeChannel) sentPayloads() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([][]byte, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeChannel) wasClosed() (bool, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed, f.closeCode
}

func (f *fakeChannel) failSends() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sendErr = chat.ErrSendQueueFull
}

// presenceCall records one UpdatePresence invocation.
type presenceCall struct {
	UserID int64
	Online bool
}

// fakeStore implements chat.Store in memory, with per-method failure switches
// and an ordered trace of the calls it received.
type fakeStore struct {
	mu sync.Mutex

	friends map[int64][]store.User

	presenceCalls []presenceCall
	presenceErr   error
	friendsErr    error

	messages   []store.Message
	nextID     int64
	insertErr  error
	markCalls  [][2]int64 // {otherUserID, selfUserID}
	markErr    error
	trace      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{friends: make(map[int64][]store.User), nextID: 1}
}

func (f *fakeStore) befriend(a, b store.UserSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.friends[a.ID] = append(f.friends[a.ID], store.User{ID: b.ID, Username: b.Username})
	f.friends[b.ID] = append(f.friends[b.ID], store.User{ID: a.ID, Username: a.Username})
}

func (f *fakeStore) UpdatePresence(_ context.Context, userID int64, online bool, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.presenceErr != nil {
		return f.presenceErr
	}
	f.presenceCalls = append(f.presenceCalls, presenceCall{UserID: userID, Online: online})
	return nil
}

func (f *fakeStore) GetFriends(_ context.Context, userID int64) ([]store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.friendsErr != nil {
		return nil, f.friendsErr
	}
	return f.friends[userID], nil
}

func (f *fakeStore) InsertMessage(_ context.Context, senderID, receiverID int64, content string) (store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return store.Message{}, f.insertErr
	}

	msg := store.Message{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	f.nextID++
	f.messages = append(f.messages, msg)
	f.trace = append(f.trace, "persist")
	return msg, nil
}

func (f *fakeStore) MarkConversationRead(_ context.Context, otherUserID, selfUserID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markErr != nil {
		return 0, f.markErr
	}
	f.markCalls = append(f.markCalls, [2]int64{otherUserID, selfUserID})
	return 1, nil
}

func (f *fakeStore) appendTrace(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.trace = append(f.trace, step)
}

func (f *fakeStore) traceLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *fakeStore) recordedPresence() []presenceCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]presenceCall, len(f.presenceCalls))
	copy(out, f.presenceCalls)
	return out
}

package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"socialhub/internal/app/chat"
	"socialhub/internal/app/store"
	"socialhub/internal/configs"
	"socialhub/internal/handler"
)

// stubStore satisfies chat.Store for routes that never touch persistence.
type stubStore struct{}

func (stubStore) UpdatePresence(context.Context, int64, bool, time.Time) error { return nil }
func (stubStore) GetFriends(context.Context, int64) ([]store.User, error)      { return nil, nil }
func (stubStore) InsertMessage(context.Context, int64, int64, string) (store.Message, error) {
	return store.Message{}, nil
}
func (stubStore) MarkConversationRead(context.Context, int64, int64) (int64, error) { return 0, nil }

// stubChannel is a registered but inert realtime channel.
type stubChannel struct{ user store.UserSummary }

func (s stubChannel) User() store.UserSummary { return s.user }
func (s stubChannel) Send([]byte) error       { return nil }
func (s stubChannel) Close(int, string)       {}

func newTestServer(t *testing.T) (*chat.Hub, http.Handler) {
	t.Helper()

	hub := chat.NewHub(stubStore{})
	deps := &handler.AppDeps{
		Hub: hub,
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   "test-secret",
		},
	}
	return hub, handler.Router(deps)
}

func doRequest(t *testing.T, h http.Handler, method, target string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 0, envelope["code"])

	data := envelope["data"].(map[string]any)
	require.Equal(t, "ok", data["status"])
}

func TestOnlineUsersSnapshot(t *testing.T) {
	hub, router := newTestServer(t)

	_, envelope := doRequest(t, router, http.MethodGet, "/ws/online-users", "")
	data := envelope["data"].(map[string]any)
	require.Empty(t, data["online_user_ids"])

	hub.Connect(context.Background(), stubChannel{user: store.UserSummary{ID: 7, Username: "grace"}})

	_, envelope = doRequest(t, router, http.MethodGet, "/ws/online-users", "")
	data = envelope["data"].(map[string]any)
	require.Equal(t, []any{float64(7)}, data["online_user_ids"])
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	_, router := newTestServer(t)

	for _, target := range []string{"/api/auth/me", "/api/posts/", "/api/messages/chats", "/api/stories/"} {
		rec, envelope := doRequest(t, router, http.MethodGet, target, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, target)
		require.NotEqualValues(t, 0, envelope["code"], target)
	}
}

func TestLoginRejectsNonJSONBody(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("login=alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

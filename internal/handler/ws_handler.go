/*
This file contains the realtime connection handlers: upgrading HTTP requests to
WebSocket, authenticating the channel before registration, and exposing the
registry's online-user snapshot.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"socialhub/internal/app/chat"
	"socialhub/internal/pkg/auth/jwt"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/limiter"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/resp"
)

// closeRefused sends a close frame with an application reason code on a
// freshly-upgraded connection that never made it into the registry.
func closeRefused(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
		logx.Debug("Failed to write refusal close frame.", "close_code", code)
	}
	conn.Close()
}

// HandleWebSocket creates an HTTP HandlerFunc to process realtime connection requests.
// The token travels as a query parameter because browser WebSocket clients cannot
// set an Authorization header. Authentication failures are reported over the
// upgraded socket with application close codes, so clients can tell a bad token
// (4001) from a vanished account (4002).
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		tokenString := r.URL.Query().Get("token")
		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection refused: invalid token.", "ip", ip)
			closeRefused(conn, chat.CloseInvalidToken, "invalid token")
			return
		}

		user, err := deps.DB.GetUserByID(r.Context(), payload.UserID)
		if err != nil || !user.IsActive {
			logx.Warn("WebSocket connection refused: unknown or inactive user.", "user_id", payload.UserID)
			closeRefused(conn, chat.CloseUnknownUser, "user not found")
			return
		}

		client := chat.NewClient(deps.Hub, conn, user.Summary())

		go client.WritePump()

		deps.Hub.Connect(r.Context(), client)

		logx.Info("WebSocket connection established.", "user_id", user.ID, "username", user.Username)

		client.ReadPump()
	}
}

// HandleOnlineUsers returns the IDs of all currently connected users, straight
// from the connection registry.
func HandleOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"online_user_ids": deps.Hub.Registry.OnlineUsers(),
		})
	}
}

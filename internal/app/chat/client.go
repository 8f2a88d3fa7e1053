/*
This file defines the Client struct, representing an active WebSocket connection. It manages
the connection's lifecycle, the communication loops (ReadPump and WritePump), and hands every
inbound frame to the hub's router.
*/
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"socialhub/internal/app/store"
	"socialhub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192
)

// ErrSendQueueFull is returned by Send when the outbound queue cannot accept
// another payload, which callers treat as the connection being gone.
var ErrSendQueueFull = errors.New("client send queue full")

// ErrChannelClosed is returned by Send after the client has been closed.
var ErrChannelClosed = errors.New("client channel closed")

// Client represents an active WebSocket connection and its authenticated user.
type Client struct {
	// hub owning this connection's registry membership.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// associated authenticated user.
	user store.UserSummary

	// a buffered channel used to queue payloads waiting to be sent to the client.
	send chan []byte

	// done is closed exactly once when the client shuts down.
	done chan struct{}

	closeOnce sync.Once

	// structured logger with user context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(hub *Hub, wsConn *websocket.Conn, user store.UserSummary) *Client {
	clientLogger := logx.Logger().With().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		user:   user,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		logger: clientLogger,
	}
}

// User returns the authenticated owner of the connection.
func (c *Client) User() store.UserSummary {
	return c.user
}

// Send queues a payload for delivery to the client. It never blocks: a full
// queue or a closed client yields an error instead.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping payload")
		return ErrSendQueueFull
	}
}

// Close shuts the client down, sending a close frame with the given code and
// reason while the transport still allows it. Subsequent calls are no-ops.
func (c *Client) Close(code int, reason string) {
	c.closeOnce.Do(func() {
		closeMessage := websocket.FormatCloseMessage(code, reason)

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Debug().Err(err).Int("close_code", code).Msg("Failed to send WS close message.")
		}

		close(c.done)
	})
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), dispatches inbound events to the router, and
// performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.hub.Router.Dispatch(context.Background(), c, messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's
// ReadPump terminates. The hub decides whether this connection was still
// current; an evicted session reaching here changes nothing.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Disconnect(context.Background(), c)

	c.Close(websocket.CloseNormalClosure, "")

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump handles writing payloads from the Client.send channel to the
// WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-c.send:
			if !c.writeQueuedMessage(message) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			return
		}
	}
}

// writeQueuedMessage writes one queued payload to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

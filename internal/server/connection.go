package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/gravitas-games/nectar/internal/network"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	id string

	ws     *websocket.Conn
	server *Server

	// Seat this connection plays; nil for hot-seat
	seat *int

	// Per-connection command budget
	limiter *rate.Limiter

	// Buffered channel for outbound messages
	send   chan []byte
	sendMu sync.Mutex
	closed bool

	closeOnce sync.Once
	logger    *slog.Logger
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, seat *int) *Connection {
	cfg := server.config.Session
	c := &Connection{
		id:      uuid.NewString(),
		ws:      ws,
		server:  server,
		seat:    seat,
		limiter: rate.NewLimiter(rate.Limit(cfg.CommandRate), cfg.CommandBurst),
		send:    make(chan []byte, cfg.SendBuffer),
	}
	c.logger = server.logger.With("conn", c.id)
	return c
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the session
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "err", err)
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Debug("failed to parse client message", "err", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("websocket write error", "err", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes a client message
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	if !c.limiter.Allow() {
		c.SendError("rate_limited", "Too many commands")
		return
	}

	switch msg.Type {
	case network.MsgTypePing:
		c.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypePong,
			Payload: network.PongPayload{Timestamp: time.Now().UnixMilli()},
		})

	case network.MsgTypeSnapshot:
		c.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeState,
			Payload: network.StatePayload{Snapshot: c.server.session.Snapshot()},
		})

	default:
		session := c.server.session
		state, broadcast, err := session.Apply(c.seat, *msg)
		if err != nil {
			c.logger.Debug("command rejected", "type", msg.Type, "seat", seatAttr(c.seat), "err", err)
			c.SendError(commandErrorCode(err), err.Error())
			if broadcast {
				session.Broadcast(&network.ServerMessage{Type: network.MsgTypeState, Payload: state})
			}
			return
		}
		c.logger.Info("command accepted", "type", msg.Type, "player", state.Event.Player, "round", state.Snapshot.Round)
		session.Broadcast(&network.ServerMessage{Type: network.MsgTypeState, Payload: state})
	}
}

// SendWelcome greets a freshly registered client
func (c *Connection) SendWelcome() {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			SessionID:    c.server.session.ID,
			ConnectionID: c.id,
			Seat:         c.seat,
			Snapshot:     c.server.session.Snapshot(),
		},
	})
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal message", "err", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close leaves the session and shuts the connection down. Safe to call
// more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.server.session.Unregister(c)

		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()

		c.ws.Close()
	})
}

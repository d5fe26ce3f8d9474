package network

import (
	"encoding/json"

	"github.com/gravitas-games/nectar/pkg/models"
)

// Message types - Client → Server
const (
	MsgTypeSelect        = "select"
	MsgTypeDeselect      = "deselect"
	MsgTypeMove          = "move"
	MsgTypeBoost         = "boost"
	MsgTypeChainStart    = "chain_start"
	MsgTypeChainPass     = "chain_pass"
	MsgTypeChainCancel   = "chain_cancel"
	MsgTypeCapture       = "capture"
	MsgTypeCaptureCancel = "capture_cancel"
	MsgTypeMoveAllOut    = "move_all_out"
	MsgTypeEndTurn       = "end_turn"
	MsgTypeSnapshot      = "snapshot"
	MsgTypePing          = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome = "welcome"
	MsgTypeState   = "state"
	MsgTypeError   = "error"
	MsgTypePong    = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// SelectPayload picks a bee
type SelectPayload struct {
	Bee int `json:"bee"`
}

// MovePayload steps a bee to a neighboring cell
type MovePayload struct {
	Bee *int `json:"bee,omitempty"` // Defaults to the selected bee
	Q   int  `json:"q"`
	R   int  `json:"r"`
}

// TokenPayload addresses one carried token; used by boost and chain_start
type TokenPayload struct {
	Bee   int `json:"bee"`
	Token int `json:"token"` // Index into the bee's carried nectar
}

// ChainPassPayload hands the armed token to a connected bee
type ChainPassPayload struct {
	Target int `json:"target"`
}

// CapturePayload chooses where the captured bee is sent
type CapturePayload struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	SessionID    string          `json:"session_id"`
	ConnectionID string          `json:"connection_id"`
	Seat         *int            `json:"seat"` // Nil for hot-seat connections
	Snapshot     models.Snapshot `json:"snapshot"`
}

// StatePayload is broadcast after every accepted command
type StatePayload struct {
	Snapshot models.Snapshot `json:"snapshot"`
	Event    *EventInfo      `json:"event,omitempty"`
}

// EventInfo summarizes the command that produced a state update
type EventInfo struct {
	Command string `json:"command"`
	Player  int    `json:"player"`
	Message string `json:"message,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PongPayload answers a ping
type PongPayload struct {
	Timestamp int64 `json:"timestamp"` // Unix milliseconds
}

// Decode unmarshals the payload of msg into v. An absent payload leaves v
// untouched.
func Decode(msg ClientMessage, v interface{}) error {
	if len(msg.Payload) == 0 || string(msg.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(msg.Payload, v)
}

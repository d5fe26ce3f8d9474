package models

import "time"

// Player is a seated player as shown to clients
type Player struct {
	ID            int       `json:"id"`    // Seat index, 0..N-1
	Name          string    `json:"name"`  // Display name, at most 20 characters
	Color         string    `json:"color"` // Fixed identity label by seat
	Score         int       `json:"score"`
	Bees          []int     `json:"bees"`
	Home          []Coord   `json:"home"`                     // Central cell at index 1
	HomeAmbiguous bool      `json:"home_ambiguous,omitempty"` // No cell neighbors both others
	Corner        string    `json:"corner"`
	Seat          *SeatInfo `json:"seat,omitempty"` // Nil while the seat is unclaimed
}

// SeatInfo is the connection side of a seat
type SeatInfo struct {
	// From the seat token
	SessionID string    `json:"session_id"`
	ClaimedAt time.Time `json:"claimed_at"`

	// Connection state
	Connected bool      `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// IsConnected checks if a client currently holds the seat
func (p *Player) IsConnected() bool {
	return p.Seat != nil && p.Seat.Connected
}

// IsClaimed checks if the seat has been handed out
func (p *Player) IsClaimed() bool {
	return p.Seat != nil
}

package models

// Coord is an axial hex coordinate
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cell is one board hex
type Cell struct {
	Coord
	Field string `json:"field"`
	Owner *int   `json:"owner,omitempty"` // Seat whose home this is
}

// Bee is a unit on the board
type Bee struct {
	ID             int   `json:"id"`
	Owner          int   `json:"owner"`
	Pos            Coord `json:"pos"`
	Nectar         []int `json:"nectar"` // Pickup order
	RemainingMoves int   `json:"remaining_moves"`
	Moved          bool  `json:"moved"`
}

// Token is nectar lying on the board
type Token struct {
	Pos   Coord `json:"pos"`
	Value int   `json:"value"`
}

// Interaction is the active sub-mode with its payload
type Interaction struct {
	Mode string `json:"mode"` // idle, selecting, chaining or capturing

	Selected  *int  `json:"selected,omitempty"`
	Neighbors []int `json:"neighbors,omitempty"` // Adjacent bees of any owner

	ChainSource  *int  `json:"chain_source,omitempty"`
	ChainToken   *int  `json:"chain_token,omitempty"`
	ChainTargets []int `json:"chain_targets,omitempty"`

	Attacker       *int    `json:"attacker,omitempty"`
	Victim         *int    `json:"victim,omitempty"`
	CaptureTargets []Coord `json:"capture_targets,omitempty"` // Free home cells of the victim
}

// Standing is one line of the ranking
type Standing struct {
	Rank   int    `json:"rank"`
	Label  string `json:"label"` // "1st", "2nd", ...
	Player int    `json:"player"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Weather is the last weather draw
type Weather struct {
	Roll    int     `json:"roll"`
	Value   int     `json:"value"`
	Field   string  `json:"field,omitempty"`
	Spawned []Coord `json:"spawned"`
	Text    string  `json:"text"`
}

// Snapshot is a read-only copy of the game for rendering
type Snapshot struct {
	Multiplayer bool        `json:"multiplayer"`
	WinScore    int         `json:"win_score"`
	Round       int         `json:"round"`
	Current     int         `json:"current"`
	HasActed    bool        `json:"has_acted"`
	CanEndTurn  bool        `json:"can_end_turn"`
	MoveAllOut  bool        `json:"move_all_out"` // Opening dispersal still offered
	Interaction Interaction `json:"interaction"`

	Cells   []Cell   `json:"cells"`
	Players []Player `json:"players"`
	Bees    []Bee    `json:"bees"`
	Tokens  []Token  `json:"tokens"`
	Weather *Weather `json:"weather,omitempty"`

	Over      bool       `json:"over"`
	Winner    *int       `json:"winner,omitempty"`
	Standings []Standing `json:"standings,omitempty"` // Set once the game is over
}

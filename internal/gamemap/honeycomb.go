package gamemap

import (
	"fmt"

	"github.com/gravitas-games/nectar/internal/hex"
)

// Corner identifies one of the six distance-3 corners that anchor a home.
type Corner int

const (
	CornerEast Corner = iota
	CornerSouth
	CornerSouthWest
	CornerWest
	CornerNorth
	CornerNorthEast
)

// Corners lists every corner in index order.
var Corners = [6]Corner{CornerEast, CornerSouth, CornerSouthWest, CornerWest, CornerNorth, CornerNorthEast}

// CornerCoords holds the axial coordinate of each corner, indexed by Corner.
var CornerCoords = [6]hex.Axial{
	{Q: 3, R: 0},
	{Q: 0, R: 3},
	{Q: -3, R: 3},
	{Q: -3, R: 0},
	{Q: 0, R: -3},
	{Q: 3, R: -3},
}

var cornerNames = [6]string{"east", "south", "south-west", "west", "north", "north-east"}

func (c Corner) String() string {
	if c >= 0 && int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "unknown"
}

// activeCorners is the symmetry table by player count.
var activeCorners = map[int][]Corner{
	2: {CornerEast, CornerSouthWest},
	3: {CornerEast, CornerSouthWest, CornerNorth},
	4: {CornerEast, CornerSouth, CornerWest, CornerNorth},
	5: {CornerEast, CornerSouth, CornerSouthWest, CornerWest, CornerNorth},
	6: {CornerEast, CornerSouth, CornerSouthWest, CornerWest, CornerNorth, CornerNorthEast},
}

// ActiveCorners returns the corners seated for playerCount, one per player
// in player order.
func ActiveCorners(playerCount int) ([]Corner, error) {
	cs, ok := activeCorners[playerCount]
	if !ok {
		return nil, fmt.Errorf("no corner layout for %d players", playerCount)
	}
	return append([]Corner(nil), cs...), nil
}

// UnitsPerPlayer returns 3 in standard mode and 2 in multiplayer mode.
func UnitsPerPlayer(playerCount int) int {
	if IsMultiplayer(playerCount) {
		return 2
	}
	return 3
}

// honeycombsAround returns the neighbors of corner lying outside the main
// board, in Directions order.
func honeycombsAround(corner hex.Axial) []hex.Axial {
	out := make([]hex.Axial, 0, 3)
	for _, n := range corner.Neighbors() {
		if hex.Radius(n) > MainRadius {
			out = append(out, n)
		}
	}
	return out
}

// Home is the three-cell home territory of one corner. Cells[1] is the
// central cell, adjacent to both others, unless Ambiguous is set.
type Home struct {
	Corner    Corner
	Cells     [3]hex.Axial
	Ambiguous bool
}

// Central returns the cell adjacent to both others.
func (h Home) Central() hex.Axial { return h.Cells[1] }

// Contains reports whether a is one of the home cells.
func (h Home) Contains(a hex.Axial) bool {
	for _, c := range h.Cells {
		if c == a {
			return true
		}
	}
	return false
}

// HomeFor returns the honeycomb triple of corner c with the central cell
// moved to index 1. When no cell neighbors both others the original order
// is kept and Ambiguous is set.
func HomeFor(c Corner) (Home, error) {
	if c < 0 || int(c) >= len(CornerCoords) {
		return Home{}, fmt.Errorf("unknown corner %d", c)
	}
	cells := honeycombsAround(CornerCoords[c])
	if len(cells) != 3 {
		return Home{}, fmt.Errorf("corner %s has %d honeycombs", c, len(cells))
	}

	h := Home{Corner: c}
	copy(h.Cells[:], cells)

	middle := -1
	for i := 0; i < 3; i++ {
		a, b := h.Cells[(i+1)%3], h.Cells[(i+2)%3]
		if hex.IsNeighbor(h.Cells[i], a) && hex.IsNeighbor(h.Cells[i], b) {
			middle = i
			break
		}
	}
	switch {
	case middle == -1:
		h.Ambiguous = true
	case middle != 1:
		h.Cells[1], h.Cells[middle] = h.Cells[middle], h.Cells[1]
	}
	return h, nil
}

// StartCells returns where a player's bees begin. Standard mode uses all
// three home cells; multiplayer mode skips the central cell so the two bees
// never start adjacent.
func StartCells(h Home, multiplayer bool) []hex.Axial {
	if multiplayer {
		return []hex.Axial{h.Cells[0], h.Cells[2]}
	}
	return []hex.Axial{h.Cells[0], h.Cells[1], h.Cells[2]}
}

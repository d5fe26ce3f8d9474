package gamemap

import (
	"fmt"
	"log/slog"

	"github.com/gravitas-games/nectar/internal/hex"
)

const (
	// MainRadius is the radius of the ringed main board.
	MainRadius = 3
	// MinPlayers and MaxPlayers bound the supported player counts.
	MinPlayers = 2
	MaxPlayers = 6
)

// FieldType tags a board cell.
type FieldType uint8

const (
	FieldPlain FieldType = iota
	FieldHoneycomb
	FieldPink
	FieldBlack
	FieldGold
	FieldBlackGold
)

var fieldNames = [...]string{
	FieldPlain:     "plain",
	FieldHoneycomb: "honeycomb",
	FieldPink:      "pink",
	FieldBlack:     "black",
	FieldGold:      "gold",
	FieldBlackGold: "blackgold",
}

func (f FieldType) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// Ring-2 nectar fields. In multiplayer mode all six merge into FieldBlackGold.
var (
	blackFields = [3]hex.Axial{{Q: -2, R: 2}, {Q: 2, R: 0}, {Q: 0, R: -2}}
	goldFields  = [3]hex.Axial{{Q: -2, R: 0}, {Q: 0, R: 2}, {Q: 2, R: -2}}
)

// Cell is a single board hex.
type Cell struct {
	Coord hex.Axial `json:"coord"`
	Field FieldType `json:"field"`
}

// Board is the fixed hex set for one session. Cells are generated once and
// never removed.
type Board struct {
	cells       map[hex.Axial]*Cell
	order       []hex.Axial
	Multiplayer bool
}

// IsMultiplayer reports whether playerCount selects multiplayer mode.
func IsMultiplayer(playerCount int) bool { return playerCount >= 4 }

// New builds the four concentric rings and the six honeycomb clusters for
// the given player count.
func New(playerCount int) (*Board, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, fmt.Errorf("player count %d outside [%d,%d]", playerCount, MinPlayers, MaxPlayers)
	}

	b := &Board{
		cells:       make(map[hex.Axial]*Cell),
		Multiplayer: IsMultiplayer(playerCount),
	}

	for k := 0; k <= MainRadius; k++ {
		for _, a := range hex.Ring(hex.Origin, k) {
			b.add(a, b.fieldFor(a))
		}
	}
	for c := range Corners {
		for _, a := range honeycombsAround(CornerCoords[c]) {
			b.add(a, FieldHoneycomb)
		}
	}

	slog.Debug("board generated", "cells", len(b.order), "multiplayer", b.Multiplayer)
	return b, nil
}

func (b *Board) fieldFor(a hex.Axial) FieldType {
	if a == hex.Origin {
		return FieldPink
	}
	for i := range blackFields {
		if a == blackFields[i] {
			if b.Multiplayer {
				return FieldBlackGold
			}
			return FieldBlack
		}
		if a == goldFields[i] {
			if b.Multiplayer {
				return FieldBlackGold
			}
			return FieldGold
		}
	}
	return FieldPlain
}

func (b *Board) add(a hex.Axial, f FieldType) {
	if _, exists := b.cells[a]; exists {
		return
	}
	b.cells[a] = &Cell{Coord: a, Field: f}
	b.order = append(b.order, a)
}

// Cell returns the cell at a.
func (b *Board) Cell(a hex.Axial) (Cell, bool) {
	c, ok := b.cells[a]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// Contains reports whether a is a board cell.
func (b *Board) Contains(a hex.Axial) bool {
	_, ok := b.cells[a]
	return ok
}

// Field returns the field type at a; FieldPlain off the board.
func (b *Board) Field(a hex.Axial) FieldType {
	if c, ok := b.Cell(a); ok {
		return c.Field
	}
	return FieldPlain
}

// IsHoneycomb reports whether a is a home-territory cell of any corner.
func (b *Board) IsHoneycomb(a hex.Axial) bool { return b.Field(a) == FieldHoneycomb }

// OnMainBoard reports whether a lies on the ringed main board.
func (b *Board) OnMainBoard(a hex.Axial) bool {
	return b.Contains(a) && hex.Radius(a) <= MainRadius
}

// Cells returns every cell in generation order: rings 0..3 in walk order,
// then honeycombs corner by corner.
func (b *Board) Cells() []Cell {
	out := make([]Cell, 0, len(b.order))
	for _, a := range b.order {
		out = append(out, *b.cells[a])
	}
	return out
}

// CellsOf returns the coordinates of every cell of field type f, in
// generation order.
func (b *Board) CellsOf(f FieldType) []hex.Axial {
	var out []hex.Axial
	for _, a := range b.order {
		if b.cells[a].Field == f {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of cells.
func (b *Board) Len() int { return len(b.order) }

// String returns a summary of the board.
func (b *Board) String() string {
	return fmt.Sprintf("Board(cells=%d, multiplayer=%t)", b.Len(), b.Multiplayer)
}

// Package hex implements axial coordinate arithmetic for the board.
package hex

import "fmt"

// Axial represents axial coordinates (q, r) for pointy-top orientation.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin is the board center.
var Origin = Axial{}

// Direction indexes Directions.
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// Directions for axial neighbors in pointy-top orientation, indexed by Direction.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// Step returns the neighbor of a in direction d.
func (a Axial) Step(d Direction) Axial { return a.Add(Directions[d]) }

// Neighbors returns the six adjacent coordinates in Directions order.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

func (a Axial) String() string { return fmt.Sprintf("(%d,%d)", a.Q, a.R) }

// Distance returns the hex distance between two axial coords:
// (|dq| + |dr| + |dq+dr|) / 2.
func Distance(a, b Axial) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Radius returns the distance of a from the origin.
func Radius(a Axial) int { return Distance(a, Origin) }

// IsNeighbor reports whether a and b are exactly one step apart.
func IsNeighbor(a, b Axial) bool { return Distance(a, b) == 1 }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package game

import (
	"fmt"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/hex"
)

// MoveResult describes what a Move did.
type MoveResult struct {
	Bee  BeeID
	From hex.Axial
	To   hex.Axial

	// Picked is the value of a token lifted at To, 0 if none.
	Picked int
	// Scored is the nectar deposited at home by this step.
	Scored int

	// CaptureStarted is set instead of a move when To held a loaded enemy.
	CaptureStarted bool
	Victim         BeeID
}

// Move steps bee id onto the neighboring cell to. Stepping onto an enemy
// bee that carries nectar does not move anything; it opens a capture and
// reports CaptureStarted.
func (g *Game) Move(id BeeID, to hex.Axial) (MoveResult, error) {
	if g.over {
		return MoveResult{}, ErrGameOver
	}
	switch g.interaction.(type) {
	case Capturing:
		return MoveResult{}, ErrCaptureInProgress
	case Chaining:
		g.interaction = Idle{}
		return MoveResult{}, ErrChainCancelled
	}

	b, err := g.ownBee(id)
	if err != nil {
		return MoveResult{}, err
	}
	victim, err := g.checkStep(b, to)
	if err != nil {
		return MoveResult{}, fmt.Errorf("bee %d to %v: %w", id, to, err)
	}

	if victim != nil {
		g.initiateCapture(b, victim)
		return MoveResult{Bee: id, From: b.Pos, To: to, CaptureStarted: true, Victim: victim.ID}, nil
	}

	res := g.applyStep(b, to)
	switch {
	case g.over:
		// checkWin already went idle
	case b.RemainingMoves <= 0 && !b.Carrying():
		g.interaction = Idle{}
	default:
		g.interaction = Selecting{Bee: id}
	}
	return res, nil
}

// MoveSelected moves the selected bee.
func (g *Game) MoveSelected(to hex.Axial) (MoveResult, error) {
	id, ok := g.Selected()
	if !ok {
		if _, chaining := g.interaction.(Chaining); chaining {
			g.interaction = Idle{}
			return MoveResult{}, ErrChainCancelled
		}
		if _, capturing := g.interaction.(Capturing); capturing {
			return MoveResult{}, ErrCaptureInProgress
		}
		return MoveResult{}, fmt.Errorf("%w: nothing selected", ErrUnknownBee)
	}
	return g.Move(id, to)
}

// checkStep validates a single step without touching state. A non-nil
// victim means the step is a capture.
func (g *Game) checkStep(b *Bee, to hex.Axial) (*Bee, error) {
	if b.RemainingMoves <= 0 {
		return nil, ErrNoMovesLeft
	}
	if !hex.IsNeighbor(b.Pos, to) {
		return nil, ErrNotAdjacent
	}
	if !g.board.Contains(to) {
		return nil, ErrOffBoard
	}
	if occ, ok := g.BeeAt(to); ok {
		other := &g.bees[occ]
		if other.Owner == b.Owner {
			return nil, ErrBlockedByAlly
		}
		if !other.Carrying() {
			return nil, ErrBlockade
		}
		return other, nil
	}
	if g.board.IsHoneycomb(to) && !g.owner(b).IsHome(to) {
		return nil, ErrForeignHome
	}
	return nil, nil
}

// applyStep is the success path of a move: relocate, spend a move, pick up
// any token at the target and bank carried nectar on a home cell.
func (g *Game) applyStep(b *Bee, to hex.Axial) MoveResult {
	res := MoveResult{Bee: b.ID, From: b.Pos, To: to}

	b.Pos = to
	b.RemainingMoves--
	b.MovedThisTurn = true
	g.hasActed = true

	g.publish(events.Event{
		Type:   events.EventMoved,
		Player: int(b.Owner),
		Bee:    int(b.ID),
		Data:   map[string]any{"from": res.From, "to": to, "remaining_moves": b.RemainingMoves},
	})

	if i := g.TokenAt(to); i >= 0 {
		res.Picked = g.tokens[i].Value
		b.Nectar = append(b.Nectar, res.Picked)
		g.tokens = append(g.tokens[:i], g.tokens[i+1:]...)
		g.publish(events.Event{
			Type:   events.EventNectarPicked,
			Player: int(b.Owner),
			Bee:    int(b.ID),
			Data:   map[string]any{"value": res.Picked, "at": to, "carried": append([]int(nil), b.Nectar...)},
		})
	}

	p := g.owner(b)
	if p.IsHome(to) && b.Carrying() {
		res.Scored = b.NectarTotal()
		b.Nectar = nil
		g.award(p, res.Scored, b.ID, "deposit")
	}
	return res
}

package game

import (
	"fmt"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/hex"
)

// CaptureResult describes a resolved capture.
type CaptureResult struct {
	Attacker BeeID
	Victim   BeeID
	Stolen   []int
	// VictimTo is the home cell the victim was sent to.
	VictimTo hex.Axial
	// AttackerTo is the cell the victim stood on.
	AttackerTo hex.Axial
}

func (g *Game) initiateCapture(attacker, victim *Bee) {
	g.interaction = Capturing{Attacker: attacker.ID, Victim: victim.ID}
	g.publish(events.Event{
		Type:   events.EventCaptureStarted,
		Player: int(attacker.Owner),
		Bee:    int(attacker.ID),
		Data:   map[string]any{"victim": int(victim.ID), "victim_owner": int(victim.Owner), "at": victim.Pos},
	})
}

// ExecuteCapture sends the pending victim to the home cell to and moves the
// attacker onto the victim's old cell, taking every token it carried. An
// invalid target leaves the capture pending.
func (g *Game) ExecuteCapture(to hex.Axial) (CaptureResult, error) {
	if g.over {
		return CaptureResult{}, ErrGameOver
	}
	c, ok := g.interaction.(Capturing)
	if !ok {
		return CaptureResult{}, ErrNotCapturing
	}
	attacker, victim := &g.bees[c.Attacker], &g.bees[c.Victim]

	if !g.owner(victim).IsHome(to) {
		return CaptureResult{}, fmt.Errorf("%v: %w", to, ErrInvalidCaptureTarget)
	}
	if _, occupied := g.BeeAt(to); occupied {
		return CaptureResult{}, fmt.Errorf("%v: %w", to, ErrCaptureTargetOccupied)
	}

	res := CaptureResult{
		Attacker:   attacker.ID,
		Victim:     victim.ID,
		Stolen:     append([]int(nil), victim.Nectar...),
		VictimTo:   to,
		AttackerTo: victim.Pos,
	}

	attacker.Nectar = append(attacker.Nectar, victim.Nectar...)
	victim.Nectar = nil
	victim.Pos = to
	victim.MovedThisTurn = true

	attacker.Pos = res.AttackerTo
	attacker.RemainingMoves--
	attacker.MovedThisTurn = true

	g.interaction = Idle{}
	g.hasActed = true

	g.publish(events.Event{
		Type:   events.EventCaptured,
		Player: int(attacker.Owner),
		Bee:    int(attacker.ID),
		Data: map[string]any{
			"victim":       int(victim.ID),
			"victim_owner": int(victim.Owner),
			"stolen":       res.Stolen,
			"victim_to":    to,
			"attacker_to":  res.AttackerTo,
		},
	})
	return res, nil
}

// CancelCapture abandons a pending capture without moving anything.
func (g *Game) CancelCapture() error {
	if _, ok := g.interaction.(Capturing); !ok {
		return ErrNotCapturing
	}
	g.interaction = Idle{}
	return nil
}

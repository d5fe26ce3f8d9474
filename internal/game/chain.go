package game

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/hex"
)

// PassResult describes a completed pass.
type PassResult struct {
	Source BeeID
	Target BeeID
	Value  int
	// Scored is true when the target stood at home and the value went
	// straight to its owner's score.
	Scored bool
}

// ConnectedBees returns every bee of the same owner reachable from id by
// stepping between adjacent bees, excluding id itself. Order is breadth
// first.
func (g *Game) ConnectedBees(id BeeID) []BeeID {
	src, ok := g.bee(id)
	if !ok {
		return nil
	}
	owned := g.players[src.Owner].Bees

	visited := mapset.New[BeeID]()
	visited.Put(id)
	queue := []BeeID{id}
	var out []BeeID

	for len(queue) > 0 {
		cur := g.bees[queue[0]].Pos
		queue = queue[1:]
		for _, other := range owned {
			if visited.Has(other) || !hex.IsNeighbor(cur, g.bees[other].Pos) {
				continue
			}
			visited.Put(other)
			queue = append(queue, other)
			out = append(out, other)
		}
	}
	return out
}

// StartChain arms a pass of the token at idx carried by id. Nothing changes
// when the bee has no connected partner.
func (g *Game) StartChain(id BeeID, idx int) (Chaining, error) {
	if g.over {
		return Chaining{}, ErrGameOver
	}
	if _, ok := g.interaction.(Capturing); ok {
		return Chaining{}, ErrCaptureInProgress
	}
	b, err := g.ownBee(id)
	if err != nil {
		return Chaining{}, err
	}
	if !b.Carrying() {
		return Chaining{}, ErrNoTokens
	}
	if idx < 0 || idx >= len(b.Nectar) {
		return Chaining{}, fmt.Errorf("%w: %d of %d", ErrTokenIndex, idx, len(b.Nectar))
	}
	targets := g.ConnectedBees(id)
	if len(targets) == 0 {
		return Chaining{}, ErrNoChainTargets
	}

	c := Chaining{Source: id, TokenIndex: idx, Value: b.Nectar[idx], Targets: targets}
	g.interaction = c
	ids := make([]int, len(targets))
	for i, t := range targets {
		ids[i] = int(t)
	}
	g.publish(events.Event{
		Type:   events.EventChainStarted,
		Player: int(b.Owner),
		Bee:    int(id),
		Data:   map[string]any{"token_index": idx, "value": b.Nectar[idx], "targets": ids},
	})
	return c, nil
}

// PassNectar completes the armed chain by handing the token to target. A
// target outside the eligible set ends the chain without a transfer.
func (g *Game) PassNectar(target BeeID) (PassResult, error) {
	if g.over {
		return PassResult{}, ErrGameOver
	}
	c, ok := g.interaction.(Chaining)
	if !ok {
		return PassResult{}, ErrNoChain
	}
	g.interaction = Idle{}

	if !c.HasTarget(target) {
		return PassResult{}, fmt.Errorf("bee %d: %w", target, ErrNotChainTarget)
	}
	src := &g.bees[c.Source]
	if c.TokenIndex >= len(src.Nectar) {
		return PassResult{}, fmt.Errorf("%w: %d of %d", ErrTokenIndex, c.TokenIndex, len(src.Nectar))
	}
	if src.Nectar[c.TokenIndex] != c.Value {
		return PassResult{}, fmt.Errorf("%w: token %d changed from %d to %d", ErrTokenIndex, c.TokenIndex, c.Value, src.Nectar[c.TokenIndex])
	}

	v := src.Nectar[c.TokenIndex]
	src.Nectar = append(src.Nectar[:c.TokenIndex], src.Nectar[c.TokenIndex+1:]...)

	dst := &g.bees[target]
	res := PassResult{Source: c.Source, Target: target, Value: v}
	p := g.owner(dst)
	g.publish(events.Event{
		Type:   events.EventNectarPassed,
		Player: int(src.Owner),
		Bee:    int(src.ID),
		Data:   map[string]any{"target": int(target), "value": v, "at_home": p.IsHome(dst.Pos)},
	})
	if p.IsHome(dst.Pos) {
		res.Scored = true
		g.award(p, v, target, "pass")
	} else {
		dst.Nectar = append(dst.Nectar, v)
	}
	return res, nil
}

// CancelChain drops an armed chain.
func (g *Game) CancelChain() error {
	if _, ok := g.interaction.(Chaining); !ok {
		return ErrNoChain
	}
	g.interaction = Idle{}
	return nil
}

package game

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/hex"
)

// MoveAllOutResult is the dispersal that was carried out.
type MoveAllOutResult struct {
	Moves []MoveResult
	Score int
}

// EndTurn hands play to the next player, resets every bee and rolls the
// weather for the new turn. It needs the current player to have acted,
// unless none of their bees has a legal step left.
func (g *Game) EndTurn() (WeatherReport, error) {
	if g.over {
		return WeatherReport{}, ErrGameOver
	}
	if _, ok := g.interaction.(Capturing); ok {
		return WeatherReport{}, ErrCaptureInProgress
	}
	if !g.hasActed && g.hasLegalAction() {
		return WeatherReport{}, ErrTurnNotReady
	}

	prev := g.current
	g.current = PlayerID((int(g.current) + 1) % len(g.players))
	if g.current == 0 {
		g.round++
	}
	for i := range g.bees {
		g.bees[i].MovedThisTurn = false
		g.bees[i].RemainingMoves = 1
	}
	g.interaction = Idle{}
	g.hasActed = false

	g.publish(events.Event{
		Type:   events.EventTurnEnded,
		Player: int(prev),
		Bee:    -1,
		Data:   map[string]any{"next": int(g.current)},
	})
	return g.TriggerWeather(), nil
}

// hasLegalAction reports whether any bee of the current player could make
// a step, counting carried nectar as a potential boost.
func (g *Game) hasLegalAction() bool {
	for _, id := range g.players[g.current].Bees {
		b := g.bees[id]
		if b.RemainingMoves <= 0 && b.Carrying() {
			b.RemainingMoves = 1
		}
		for _, n := range b.Pos.Neighbors() {
			if _, err := g.checkStep(&b, n); err == nil {
				return true
			}
		}
	}
	return false
}

// CanMoveAllOut reports whether MoveAllOut is currently offered.
func (g *Game) CanMoveAllOut() bool {
	if g.over || g.round != 1 {
		return false
	}
	if _, ok := g.interaction.(Capturing); ok {
		return false
	}
	return len(g.waitingAtHome()) > 0
}

func (g *Game) waitingAtHome() []BeeID {
	p := &g.players[g.current]
	var out []BeeID
	for _, id := range p.Bees {
		b := &g.bees[id]
		if p.IsHome(b.Pos) && !b.MovedThisTurn && b.RemainingMoves > 0 {
			out = append(out, id)
		}
	}
	return out
}

// MoveAllOut steps every unmoved bee of the current player off its home
// cell at once, choosing the spread that keeps the bees furthest apart.
// Only offered in the first round.
func (g *Game) MoveAllOut() (MoveAllOutResult, error) {
	if g.over {
		return MoveAllOutResult{}, ErrGameOver
	}
	if _, ok := g.interaction.(Capturing); ok {
		return MoveAllOutResult{}, ErrCaptureInProgress
	}
	if g.round != 1 {
		return MoveAllOutResult{}, ErrMoveAllOutUnavailable
	}
	bees := g.waitingAtHome()
	if len(bees) == 0 {
		return MoveAllOutResult{}, ErrNothingToMoveOut
	}

	options := make([][]hex.Axial, len(bees))
	for i, id := range bees {
		options[i] = g.exitCells(g.bees[id].Pos)
	}
	plan, score, ok := bestDispersal(options)
	if !ok {
		return MoveAllOutResult{}, ErrNoDispersal
	}

	res := MoveAllOutResult{Score: score}
	for i, to := range plan {
		if to == nil {
			continue
		}
		res.Moves = append(res.Moves, g.applyStep(&g.bees[bees[i]], *to))
	}
	g.interaction = Idle{}
	return res, nil
}

// exitCells returns the empty main-board neighbors of a.
func (g *Game) exitCells(a hex.Axial) []hex.Axial {
	var out []hex.Axial
	for _, n := range a.Neighbors() {
		if !g.board.OnMainBoard(n) {
			continue
		}
		if _, occupied := g.BeeAt(n); occupied {
			continue
		}
		out = append(out, n)
	}
	return out
}

// bestDispersal searches every assignment of distinct destinations. A bee
// with no options stays (nil). The first assignment with the highest score
// wins.
func bestDispersal(options [][]hex.Axial) ([]*hex.Axial, int, bool) {
	var (
		best      []*hex.Axial
		bestScore int
		found     bool
	)
	plan := make([]*hex.Axial, len(options))
	used := mapset.New[hex.Axial]()

	var walk func(i int)
	walk = func(i int) {
		if i == len(options) {
			var dests []hex.Axial
			for _, d := range plan {
				if d != nil {
					dests = append(dests, *d)
				}
			}
			s := scoreDispersal(dests)
			if !found || s > bestScore {
				best = append([]*hex.Axial(nil), plan...)
				bestScore, found = s, true
			}
			return
		}
		if len(options[i]) == 0 {
			plan[i] = nil
			walk(i + 1)
			return
		}
		for j := range options[i] {
			d := options[i][j]
			if used.Has(d) {
				continue
			}
			used.Put(d)
			plan[i] = &options[i][j]
			walk(i + 1)
			used.Remove(d)
		}
		plan[i] = nil
	}
	walk(0)
	return best, bestScore, found
}

// scoreDispersal rates a set of destinations: 1000 per moved bee, then per
// pair -500 when adjacent or ten times their distance otherwise.
func scoreDispersal(dests []hex.Axial) int {
	score := 1000 * len(dests)
	for i := 0; i < len(dests); i++ {
		for j := i + 1; j < len(dests); j++ {
			if d := hex.Distance(dests[i], dests[j]); d == 1 {
				score -= 500
			} else {
				score += 10 * d
			}
		}
	}
	return score
}

// CanEndTurn reports whether EndTurn would be accepted.
func (g *Game) CanEndTurn() bool {
	if g.over {
		return false
	}
	if _, ok := g.interaction.(Capturing); ok {
		return false
	}
	return g.hasActed || !g.hasLegalAction()
}

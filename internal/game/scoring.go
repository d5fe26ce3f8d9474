package game

import (
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/gravitas-games/nectar/internal/events"
)

// Standing is one line of the ranking.
type Standing struct {
	Rank   int
	Label  string
	Player PlayerID
	Name   string
	Color  string
	Score  int
}

// award banks amount for p and runs the win check. Scores never decrease.
func (g *Game) award(p *Player, amount int, bee BeeID, source string) {
	if amount <= 0 {
		return
	}
	p.Score += amount
	g.publish(events.Event{
		Type:   events.EventNectarScored,
		Player: int(p.ID),
		Bee:    int(bee),
		Data:   map[string]any{"amount": amount, "score": p.Score, "source": source},
	})
	g.checkWin(p)
}

func (g *Game) checkWin(p *Player) {
	if g.over || p.Score < g.winScore {
		return
	}
	g.over = true
	g.winner = p.ID
	g.interaction = Idle{}

	standings := g.Standings()
	names := make([]string, len(standings))
	for i, s := range standings {
		names[i] = s.Name
	}
	g.publish(events.Event{
		Type:   events.EventGameOver,
		Player: int(p.ID),
		Bee:    -1,
		Data:   map[string]any{"score": p.Score, "ranking": names},
	})
}

// Standings ranks every player by score, highest first. Equal scores keep
// seat order.
func (g *Game) Standings() []Standing {
	out := make([]Standing, len(g.players))
	for i, p := range g.players {
		out[i] = Standing{Player: p.ID, Name: p.Name, Color: p.Color, Score: p.Score}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
		out[i].Label = humanize.Ordinal(i + 1)
	}
	return out
}

// ScoresFromCurrent lists the players starting with the one to act and
// continuing in seat order.
func (g *Game) ScoresFromCurrent() []Player {
	n := len(g.players)
	out := make([]Player, 0, n)
	for i := 0; i < n; i++ {
		p, _ := g.Player(PlayerID((int(g.current) + i) % n))
		out = append(out, p)
	}
	return out
}

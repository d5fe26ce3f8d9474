package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gravitas-games/nectar/internal/events"
	"github.com/gravitas-games/nectar/internal/hex"
)

// fixedRoll always rolls the same face.
type fixedRoll int

func (f fixedRoll) Intn(n int) int { return int(f) - 1 }

// scriptRoller rolls the given faces in order.
type scriptRoller struct{ faces []int }

func (s *scriptRoller) Intn(n int) int {
	f := s.faces[0]
	s.faces = s.faces[1:]
	return f - 1
}

func at(q, r int) hex.Axial { return hex.Axial{Q: q, R: r} }

// newGame starts a quiet game: every weather roll is a 3.
func newGame(t *testing.T, players int, opts ...Option) *Game {
	t.Helper()
	g, err := New(Config{PlayerCount: players}, append([]Option{WithRoller(fixedRoll(3))}, opts...)...)
	if err != nil {
		t.Fatalf("New(%d): %v", players, err)
	}
	return g
}

func TestNewSeatsPlayers(t *testing.T) {
	g := newGame(t, 2)
	if g.PlayerCount() != 2 || g.Multiplayer() {
		t.Fatalf("unexpected setup: %d players, multiplayer=%t", g.PlayerCount(), g.Multiplayer())
	}
	if len(g.bees) != 6 {
		t.Fatalf("expected 6 bees, got %d", len(g.bees))
	}
	p0, _ := g.Player(0)
	want := []hex.Axial{at(4, -1), at(4, 0), at(3, 1)}
	for i, id := range p0.Bees {
		b, _ := g.Bee(id)
		if b.Pos != want[i] || b.RemainingMoves != 1 || b.MovedThisTurn {
			t.Fatalf("bee %d: unexpected start %+v", id, b)
		}
	}
	p1, _ := g.Player(1)
	if p1.Home.Cells != [3]hex.Axial{at(-4, 3), at(-4, 4), at(-3, 4)} {
		t.Fatalf("unexpected south-west home %v", p1.Home.Cells)
	}
	if g.Round() != 1 || g.CurrentPlayer() != 0 || g.Interaction().Mode() != ModeIdle {
		t.Fatalf("unexpected opening state: round=%d current=%d mode=%s", g.Round(), g.CurrentPlayer(), g.Interaction().Mode())
	}
	if p0.Color != "red" || p1.Color != "blue" {
		t.Fatalf("unexpected colors %s, %s", p0.Color, p1.Color)
	}
}

func TestNewMultiplayerSkipsCentralCell(t *testing.T) {
	g := newGame(t, 4)
	if !g.Multiplayer() {
		t.Fatal("expected multiplayer mode")
	}
	for id := PlayerID(0); id < 4; id++ {
		p, _ := g.Player(id)
		if len(p.Bees) != 2 {
			t.Fatalf("player %d: expected 2 bees, got %d", id, len(p.Bees))
		}
		a, _ := g.Bee(p.Bees[0])
		b, _ := g.Bee(p.Bees[1])
		if a.Pos != p.Home.Cells[0] || b.Pos != p.Home.Cells[2] {
			t.Fatalf("player %d: bees at %v and %v", id, a.Pos, b.Pos)
		}
		if hex.IsNeighbor(a.Pos, b.Pos) {
			t.Fatalf("player %d: starting bees are adjacent", id)
		}
	}
}

func TestNewRejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		if _, err := New(Config{PlayerCount: n}); !errors.Is(err, ErrInvalidPlayerCount) {
			t.Fatalf("count %d: expected ErrInvalidPlayerCount, got %v", n, err)
		}
	}
}

func TestPlayerNames(t *testing.T) {
	g, err := New(Config{
		PlayerCount: 3,
		PlayerNames: []string{"  Ada  ", "", "abcdefghijklmnopqrstuvwxyz"},
	}, WithRoller(fixedRoll(3)))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ada", "Player 2", "abcdefghijklmnopqrst"}
	for i, name := range want {
		p, _ := g.Player(PlayerID(i))
		if p.Name != name {
			t.Fatalf("player %d: expected %q, got %q", i, name, p.Name)
		}
	}
}

func TestStandingsBreakTiesBySeat(t *testing.T) {
	g := newGame(t, 3)
	g.players[0].Score = 3
	g.players[1].Score = 5
	g.players[2].Score = 3

	st := g.Standings()
	order := []PlayerID{st[0].Player, st[1].Player, st[2].Player}
	if !reflect.DeepEqual(order, []PlayerID{1, 0, 2}) {
		t.Fatalf("unexpected ranking %v", order)
	}
	if st[0].Label != "1st" || st[1].Label != "2nd" || st[2].Label != "3rd" {
		t.Fatalf("unexpected labels %s %s %s", st[0].Label, st[1].Label, st[2].Label)
	}
}

func TestScoresFromCurrent(t *testing.T) {
	g := newGame(t, 3)
	g.current = 2
	var ids []PlayerID
	for _, p := range g.ScoresFromCurrent() {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []PlayerID{2, 0, 1}) {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestSnapshot(t *testing.T) {
	g := newGame(t, 2)
	s := g.Snapshot()
	if len(s.Cells) != 55 || len(s.Bees) != 6 || len(s.Players) != 2 {
		t.Fatalf("unexpected sizes: %d cells, %d bees, %d players", len(s.Cells), len(s.Bees), len(s.Players))
	}
	owned := 0
	for _, c := range s.Cells {
		if c.Owner != nil {
			owned++
			if c.Field != "honeycomb" {
				t.Fatalf("home cell %v has field %s", c.Coord, c.Field)
			}
		}
	}
	if owned != 6 {
		t.Fatalf("expected 6 owned home cells, got %d", owned)
	}
	if s.Interaction.Mode != "idle" || !s.MoveAllOut || s.CanEndTurn || s.Over {
		t.Fatalf("unexpected opening snapshot %+v", s.Interaction)
	}
	if s.Weather == nil || s.Weather.Text != "Nothing new blooms" {
		t.Fatalf("unexpected weather %+v", s.Weather)
	}

	s.Bees[1].Nectar = append(s.Bees[1].Nectar, 4)
	if b, _ := g.Bee(1); b.Carrying() {
		t.Fatal("snapshot shares nectar with the game")
	}

	if err := g.Select(1); err != nil {
		t.Fatal(err)
	}
	s = g.Snapshot()
	if s.Interaction.Mode != "selecting" || s.Interaction.Selected == nil || *s.Interaction.Selected != 1 {
		t.Fatalf("unexpected interaction %+v", s.Interaction)
	}
	if !reflect.DeepEqual(s.Interaction.Neighbors, []int{0, 2}) {
		t.Fatalf("expected neighbors [0 2], got %v", s.Interaction.Neighbors)
	}

	g.bees[3].Pos = at(3, 0)
	if got := g.NeighborBees(1); !reflect.DeepEqual(got, []BeeID{0, 2, 3}) {
		t.Fatalf("enemy bees count as neighbors too, got %v", got)
	}

	g.Deselect()
	if s = g.Snapshot(); s.Interaction.Mode != "idle" || s.Interaction.Neighbors != nil {
		t.Fatalf("unexpected interaction after deselect %+v", s.Interaction)
	}
}

func TestEventsArePublished(t *testing.T) {
	bus := events.NewSimpleBus()
	rec := &events.Recorder{}
	bus.Subscribe("test", rec.Handle)
	g := newGame(t, 2, WithEventBus(bus))

	g.tokens = append(g.tokens, NectarToken{Pos: at(3, 0), Value: 4})
	g.bees[1].RemainingMoves = 2
	if _, err := g.Move(1, at(3, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Move(1, at(4, 0)); err != nil {
		t.Fatal(err)
	}

	want := []events.EventType{
		events.EventWeather,
		events.EventMoved,
		events.EventNectarPicked,
		events.EventMoved,
		events.EventNectarScored,
	}
	if got := rec.Types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if e := rec.Events()[4]; e.Data["amount"] != 4 || e.Player != 0 || e.Round != 1 {
		t.Fatalf("unexpected score event %+v", e)
	}
}

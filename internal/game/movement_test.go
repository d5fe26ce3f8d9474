package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gravitas-games/nectar/internal/hex"
)

func TestMoveRejectionsLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
		bee   BeeID
		to    hex.Axial
		want  error
	}{
		{name: "not adjacent", bee: 1, to: at(2, 0), want: ErrNotAdjacent},
		{name: "ally", bee: 0, to: at(4, 0), want: ErrBlockedByAlly},
		{name: "off board", bee: 0, to: at(5, -1), want: ErrOffBoard},
		{name: "foreign home", setup: func(g *Game) { g.bees[0].Pos = at(3, -2) }, bee: 0, to: at(4, -3), want: ErrForeignHome},
		{name: "not current player", bee: 3, to: at(-3, 3), want: ErrNotCurrentPlayer},
		{name: "unknown bee", bee: 99, to: at(3, 0), want: ErrUnknownBee},
		{name: "no moves", setup: func(g *Game) { g.bees[2].RemainingMoves = 0 }, bee: 2, to: at(2, 1), want: ErrNoMovesLeft},
		{name: "blockade", setup: func(g *Game) { g.bees[3].Pos = at(3, 0) }, bee: 1, to: at(3, 0), want: ErrBlockade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, 2)
			if tt.setup != nil {
				tt.setup(g)
			}
			before := g.Snapshot()
			_, err := g.Move(tt.bee, tt.to)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !IsRuleError(err) {
				t.Fatalf("expected a rule error, got %v", err)
			}
			if after := g.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Fatal("rejected move changed the game state")
			}
		})
	}
}

func TestPickupAndReturnHome(t *testing.T) {
	g := newGame(t, 2)
	g.tokens = append(g.tokens, NectarToken{Pos: at(3, 0), Value: 4})
	g.bees[1].RemainingMoves = 2

	res, err := g.Move(1, at(3, 0))
	if err != nil {
		t.Fatalf("move out: %v", err)
	}
	if res.Picked != 4 || res.Scored != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	b, _ := g.Bee(1)
	if !reflect.DeepEqual(b.Nectar, []int{4}) || b.RemainingMoves != 1 || !b.MovedThisTurn {
		t.Fatalf("unexpected bee after pickup %+v", b)
	}
	if len(g.Tokens()) != 0 {
		t.Fatalf("token still on the board: %v", g.Tokens())
	}
	if !g.HasActed() {
		t.Fatal("expected has-acted after a move")
	}
	if sel, ok := g.Selected(); !ok || sel != 1 {
		t.Fatal("expected the bee to stay selected while it can still move")
	}

	res, err = g.Move(1, at(4, 0))
	if err != nil {
		t.Fatalf("move home: %v", err)
	}
	if res.Scored != 4 {
		t.Fatalf("expected 4 scored, got %d", res.Scored)
	}
	p, _ := g.Player(0)
	b, _ = g.Bee(1)
	if p.Score != 4 || b.Carrying() {
		t.Fatalf("expected score 4 and an empty bee, got %d and %v", p.Score, b.Nectar)
	}
	if g.Interaction().Mode() != ModeIdle {
		t.Fatalf("expected idle once the bee is spent, got %s", g.Interaction().Mode())
	}
}

func TestPinkPickup(t *testing.T) {
	g := newGame(t, 2)
	g.ApplyWeather(4)
	g.bees[1].Pos = at(1, 0)

	res, err := g.Move(1, hex.Origin)
	if err != nil {
		t.Fatal(err)
	}
	if res.Picked != 4 {
		t.Fatalf("expected to pick up 4, got %d", res.Picked)
	}
}

func TestDepositReachingWinScoreEndsGame(t *testing.T) {
	g := newGame(t, 2)
	g.players[0].Score = 8
	g.bees[1].Pos = at(3, 0)
	g.bees[1].Nectar = []int{2}

	g.bees[1].RemainingMoves = 3

	if _, err := g.Move(1, at(4, 0)); err != nil {
		t.Fatal(err)
	}
	if winner, over := g.Winner(); !over || winner != 0 {
		t.Fatalf("expected player 0 to win, got over=%t winner=%d", over, winner)
	}
	if mode := g.Snapshot().Interaction.Mode; mode != "idle" {
		t.Fatalf("a finished game should be idle, got %s", mode)
	}
	if _, err := g.Move(0, at(3, -1)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := g.EndTurn(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if s := g.Snapshot(); !s.Over || len(s.Standings) != 2 || s.Standings[0].Player != 0 {
		t.Fatalf("unexpected final snapshot %+v", s.Standings)
	}
}

func TestMoveSelected(t *testing.T) {
	g := newGame(t, 2)
	if _, err := g.MoveSelected(at(3, 0)); !errors.Is(err, ErrUnknownBee) {
		t.Fatalf("expected ErrUnknownBee without a selection, got %v", err)
	}
	if err := g.Select(3); !errors.Is(err, ErrNotCurrentPlayer) {
		t.Fatalf("expected ErrNotCurrentPlayer, got %v", err)
	}
	if err := g.Select(1); err != nil {
		t.Fatal(err)
	}
	res, err := g.MoveSelected(at(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Bee != 1 || res.To != at(3, 0) {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := g.Selected(); ok {
		t.Fatal("a spent empty bee should not stay selected")
	}
}

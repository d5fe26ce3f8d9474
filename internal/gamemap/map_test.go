package gamemap

import (
	"testing"

	"github.com/gravitas-games/nectar/internal/hex"
)

func TestBoardCellCounts(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		b, err := New(n)
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if b.Len() != 37+18 {
			t.Fatalf("players=%d: expected 55 cells, got %d", n, b.Len())
		}
		main, combs := 0, 0
		seen := map[hex.Axial]bool{}
		for _, c := range b.Cells() {
			if seen[c.Coord] {
				t.Fatalf("duplicate coordinate %v", c.Coord)
			}
			seen[c.Coord] = true
			if b.OnMainBoard(c.Coord) {
				main++
				if c.Field == FieldHoneycomb {
					t.Fatalf("honeycomb %v on the main board", c.Coord)
				}
			} else {
				combs++
				if c.Field != FieldHoneycomb {
					t.Fatalf("off-board cell %v is %s", c.Coord, c.Field)
				}
			}
		}
		if main != 37 || combs != 18 {
			t.Fatalf("players=%d: main=%d honeycomb=%d", n, main, combs)
		}
	}
}

func TestBoardRejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		if _, err := New(n); err == nil {
			t.Fatalf("expected error for %d players", n)
		}
	}
}

func TestFieldAssignmentStandard(t *testing.T) {
	b, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	if b.Field(hex.Origin) != FieldPink {
		t.Fatalf("origin should be pink, got %s", b.Field(hex.Origin))
	}
	if c, ok := b.Cell(hex.Axial{Q: 4, R: 0}); !ok || c.Field != FieldHoneycomb {
		t.Fatalf("expected a honeycomb at (4,0), got %+v %t", c, ok)
	}
	if _, ok := b.Cell(hex.Axial{Q: 9, R: 0}); ok {
		t.Fatal("expected no cell far off the board")
	}
	if got := b.CellsOf(FieldBlack); len(got) != 3 {
		t.Fatalf("expected 3 black cells, got %v", got)
	}
	if got := b.CellsOf(FieldGold); len(got) != 3 {
		t.Fatalf("expected 3 gold cells, got %v", got)
	}
	if got := b.CellsOf(FieldBlackGold); len(got) != 0 {
		t.Fatalf("standard mode must not have blackgold cells, got %v", got)
	}
	for _, a := range blackFields {
		if b.Field(a) != FieldBlack {
			t.Errorf("%v: expected black, got %s", a, b.Field(a))
		}
		if hex.Radius(a) != 2 {
			t.Errorf("%v is not on ring 2", a)
		}
	}
	for _, a := range goldFields {
		if b.Field(a) != FieldGold {
			t.Errorf("%v: expected gold, got %s", a, b.Field(a))
		}
	}
}

func TestFieldAssignmentMultiplayer(t *testing.T) {
	b, err := New(5)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Multiplayer {
		t.Fatalf("5 players should be multiplayer mode")
	}
	if got := b.CellsOf(FieldBlackGold); len(got) != 6 {
		t.Fatalf("expected 6 blackgold cells, got %v", got)
	}
	if len(b.CellsOf(FieldBlack))+len(b.CellsOf(FieldGold)) != 0 {
		t.Fatalf("multiplayer mode must not keep separate black/gold cells")
	}
}

func TestCellsOrderStartsWithRings(t *testing.T) {
	b, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	cells := b.Cells()
	if cells[0].Coord != hex.Origin {
		t.Fatalf("first cell should be the origin, got %v", cells[0].Coord)
	}
	if cells[1].Coord != (hex.Axial{Q: -1, R: 1}) {
		t.Fatalf("ring 1 should start at its south-west corner, got %v", cells[1].Coord)
	}
}

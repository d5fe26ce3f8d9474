package hex

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Axial
		want int
	}{
		{Axial{0, 0}, Axial{0, 0}, 0},
		{Axial{0, 0}, Axial{1, 0}, 1},
		{Axial{0, 0}, Axial{3, -3}, 3},
		{Axial{4, -1}, Axial{3, 1}, 2},
		{Axial{-2, 2}, Axial{2, -2}, 4},
		{Axial{1, 2}, Axial{-1, -1}, 5},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Errorf("Distance is not symmetric for %v, %v", c.a, c.b)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	center := Axial{2, -1}
	seen := map[Axial]bool{}
	for i, n := range center.Neighbors() {
		if !IsNeighbor(center, n) {
			t.Fatalf("neighbor %d %v is at distance %d", i, n, Distance(center, n))
		}
		if n != center.Step(Direction(i)) {
			t.Fatalf("Step(%d) disagrees with Neighbors", i)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct neighbors, got %d", len(seen))
	}
	if IsNeighbor(center, center) {
		t.Fatalf("a cell must not be its own neighbor")
	}
}

func TestRingStartsSouthWestAndWalksInOrder(t *testing.T) {
	for k := 1; k <= 3; k++ {
		ring := Ring(Origin, k)
		if len(ring) != 6*k {
			t.Fatalf("ring %d: expected %d cells, got %d", k, 6*k, len(ring))
		}
		if ring[0] != (Axial{-k, k}) {
			t.Fatalf("ring %d: expected start (-%d,%d), got %v", k, k, k, ring[0])
		}
		seen := map[Axial]bool{}
		for i, a := range ring {
			if Radius(a) != k {
				t.Fatalf("ring %d: cell %v at radius %d", k, a, Radius(a))
			}
			if seen[a] {
				t.Fatalf("ring %d: duplicate %v", k, a)
			}
			seen[a] = true
			next := ring[(i+1)%len(ring)]
			if !IsNeighbor(a, next) {
				t.Fatalf("ring %d: %v and %v are not consecutive", k, a, next)
			}
		}
	}
	if r := Ring(Origin, 0); len(r) != 1 || r[0] != Origin {
		t.Fatalf("ring 0 should be the center only, got %v", r)
	}
}

func TestDiskSize(t *testing.T) {
	if got := len(Disk(Origin, 3)); got != 37 {
		t.Fatalf("expected 37 cells within radius 3, got %d", got)
	}
}

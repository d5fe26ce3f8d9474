package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id string, ended time.Time, winner string) Result {
	return Result{
		GameID:      id,
		SessionID:   "session-1",
		EndedAt:     ended,
		Rounds:      7,
		PlayerCount: 2,
		Winner:      0,
		WinnerName:  winner,
		WinnerScore: 11,
		Standings: []Standing{
			{Rank: 1, Label: "1st", Seat: 0, Name: winner, Score: 11},
			{Rank: 2, Label: "2nd", Seat: 1, Name: "Player 2", Score: 4},
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.RecordResult(ctx, sampleResult("g1", now.Add(-2*time.Hour), "Ada")); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordResult(ctx, sampleResult("g2", now.Add(-time.Minute), "Bo")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].GameID != "g2" || got[1].GameID != "g1" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if len(got[0].Standings) != 2 || got[0].Standings[0].Label != "1st" || got[0].Standings[1].Score != 4 {
		t.Fatalf("unexpected standings %+v", got[0].Standings)
	}
	if got[1].Ended != "2 hours ago" {
		t.Fatalf("unexpected relative time %q", got[1].Ended)
	}
	if got[0].EndedAt.UnixMilli() != now.Add(-time.Minute).UnixMilli() {
		t.Fatalf("end time not preserved: %v", got[0].EndedAt)
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 result, got %d", len(limited))
	}
}

func TestDuplicateGameRollsBack(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	r := sampleResult("g1", time.Now(), "Ada")
	if err := s.RecordResult(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordResult(ctx, r); err == nil {
		t.Fatal("expected a duplicate game id to fail")
	}
	n, err := s.Wins(ctx, "Ada")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 win, got %d", n)
	}
}

func TestFileLedgerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordResult(context.Background(), sampleResult("g1", time.Now(), "Ada")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].WinnerName != "Ada" {
		t.Fatalf("unexpected results after reopen %+v", got)
	}
}

// Package history keeps a ledger of finished games in SQLite.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory ledger.
const MemoryPath = ":memory:"

// Standing is one player's final line.
type Standing struct {
	Rank  int    `db:"rank" json:"rank"`
	Label string `db:"label" json:"label"`
	Seat  int    `db:"seat" json:"seat"`
	Name  string `db:"name" json:"name"`
	Score int    `db:"score" json:"score"`
}

// Result is a finished game.
type Result struct {
	GameID      string     `json:"game_id"`
	SessionID   string     `json:"session_id"`
	EndedAt     time.Time  `json:"ended_at"`
	Ended       string     `json:"ended,omitempty"` // relative, filled by Recent
	Rounds      int        `json:"rounds"`
	PlayerCount int        `json:"player_count"`
	Winner      int        `json:"winner"`
	WinnerName  string     `json:"winner_name"`
	WinnerScore int        `json:"winner_score"`
	Standings   []Standing `json:"standings"`
}

type gameRow struct {
	GameID      string `db:"game_id"`
	SessionID   string `db:"session_id"`
	EndedAt     int64  `db:"ended_at"`
	Rounds      int    `db:"rounds"`
	PlayerCount int    `db:"player_count"`
	Winner      int    `db:"winner"`
	WinnerName  string `db:"winner_name"`
	WinnerScore int    `db:"winner_score"`
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create ledger dir: %w", err)
			}
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == MemoryPath {
		// every new connection would see a fresh empty database
		conn.SetMaxOpenConns(1)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		ended_at INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		player_count INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		winner_name TEXT NOT NULL,
		winner_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS standings (
		game_id TEXT NOT NULL REFERENCES games(game_id),
		rank INTEGER NOT NULL,
		label TEXT NOT NULL,
		seat INTEGER NOT NULL,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (game_id, rank)
	);

	CREATE INDEX IF NOT EXISTS idx_games_ended ON games(ended_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordResult stores a finished game and its standings in one transaction.
func (s *Store) RecordResult(ctx context.Context, r Result) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `INSERT INTO games
		(game_id, session_id, ended_at, rounds, player_count, winner, winner_name, winner_score)
		VALUES (:game_id, :session_id, :ended_at, :rounds, :player_count, :winner, :winner_name, :winner_score)`,
		gameRow{
			GameID:      r.GameID,
			SessionID:   r.SessionID,
			EndedAt:     r.EndedAt.UnixMilli(),
			Rounds:      r.Rounds,
			PlayerCount: r.PlayerCount,
			Winner:      r.Winner,
			WinnerName:  r.WinnerName,
			WinnerScore: r.WinnerScore,
		})
	if err != nil {
		return fmt.Errorf("insert game %s: %w", r.GameID, err)
	}

	for _, st := range r.Standings {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO standings (game_id, rank, label, seat, name, score) VALUES (?, ?, ?, ?, ?, ?)",
			r.GameID, st.Rank, st.Label, st.Seat, st.Name, st.Score,
		)
		if err != nil {
			return fmt.Errorf("insert standing: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns the latest limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	var rows []gameRow
	err := s.conn.SelectContext(ctx, &rows,
		`SELECT game_id, session_id, ended_at, rounds, player_count, winner, winner_name, winner_score
		FROM games ORDER BY ended_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(rows))
	for _, row := range rows {
		r := Result{
			GameID:      row.GameID,
			SessionID:   row.SessionID,
			EndedAt:     time.UnixMilli(row.EndedAt),
			Rounds:      row.Rounds,
			PlayerCount: row.PlayerCount,
			Winner:      row.Winner,
			WinnerName:  row.WinnerName,
			WinnerScore: row.WinnerScore,
		}
		r.Ended = humanize.Time(r.EndedAt)
		if err := s.conn.SelectContext(ctx, &r.Standings,
			"SELECT rank, label, seat, name, score FROM standings WHERE game_id = ? ORDER BY rank",
			row.GameID,
		); err != nil {
			return nil, fmt.Errorf("standings for %s: %w", row.GameID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Wins counts recorded wins by winner name.
func (s *Store) Wins(ctx context.Context, name string) (int, error) {
	var n int
	err := s.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM games WHERE winner_name = ?", name)
	return n, err
}

package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	seating INTEGER,
	first_name TEXT,
	second_name TEXT,
	winner_name TEXT,
	forfeit INTEGER,
	plies INTEGER,
	moves TEXT,
	played_at DATETIME
);
`

// Store persists game results in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and makes sure the games table exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts results in a single transaction.
func (s *Store) Save(ctx context.Context, results []Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO games (id, seating, first_name, second_name, winner_name, forfeit, plies, moves, played_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		moves, err := json.Marshal(r.Moves)
		if err != nil {
			return fmt.Errorf("encode moves of %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID,
			r.Seating,
			string(r.Seats[0]),
			string(r.Seats[1]),
			string(r.Winner),
			r.Forfeit,
			r.Plies,
			string(moves),
			r.PlayedAt,
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Wins returns the number of stored games won by each actor name.
func (s *Store) Wins(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT winner_name, COUNT(*) FROM games GROUP BY winner_name`)
	if err != nil {
		return nil, fmt.Errorf("query wins: %w", err)
	}
	defer rows.Close()

	wins := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		wins[name] = n
	}
	return wins, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

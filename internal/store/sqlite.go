// Package store persists finished game results to SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"werewolf/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	session_id        TEXT PRIMARY KEY,
	winning_alignment TEXT NOT NULL,
	lovers_win        INTEGER NOT NULL,
	outcomes          TEXT NOT NULL,
	finished_at       TEXT NOT NULL
);
`

// ResultStore writes one row per finished session. database/sql pools
// connections, so the store is safe for concurrent use.
type ResultStore struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the results database at path
func Open(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// SaveResult records a finished session's outcome. Writing the same
// session twice keeps the first row.
func (s *ResultStore) SaveResult(sessionID string, result *domain.GameResult) error {
	outcomes, err := json.Marshal(result.Outcomes)
	if err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO game_results (session_id, winning_alignment, lovers_win, outcomes, finished_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(result.WinningAlignment), boolToInt(result.LoversWin),
		string(outcomes), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", sessionID, err)
	}
	return nil
}

// GetResult loads one session's stored outcome
func (s *ResultStore) GetResult(sessionID string) (*domain.GameResult, error) {
	var (
		alignment string
		loversWin int
		outcomes  string
	)
	err := s.db.QueryRow(
		`SELECT winning_alignment, lovers_win, outcomes FROM game_results WHERE session_id = ?`,
		sessionID,
	).Scan(&alignment, &loversWin, &outcomes)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", sessionID, err)
	}

	result := &domain.GameResult{
		WinningAlignment: domain.Alignment(alignment),
		LoversWin:        loversWin != 0,
	}
	if err := json.Unmarshal([]byte(outcomes), &result.Outcomes); err != nil {
		return nil, fmt.Errorf("decode outcomes %s: %w", sessionID, err)
	}
	return result, nil
}

// CountResults returns the total number of stored results
func (s *ResultStore) CountResults() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM game_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// Close closes the underlying database
func (s *ResultStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

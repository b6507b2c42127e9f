// Package scores provides SQLite persistence for the optional scoreboard.
// It uses the pure-Go modernc.org/sqlite driver, so no CGO is required.
package scores

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

var _ service.ScoreStore = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("scores: database path is empty")
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("scores: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scores: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			board_size INTEGER NOT NULL,
			win_tile INTEGER NOT NULL,
			max_tile INTEGER NOT NULL,
			progress TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(board_size, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save inserts entry and sets its ID and CreatedAt.
func (s *Store) Save(ctx context.Context, entry *service.ScoreEntry) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (player, score, board_size, win_tile, max_tile, progress, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Player, entry.Score, entry.BoardSize, entry.WinTile, entry.MaxTile,
		entry.Progress.String(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("scores: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("scores: cannot get inserted ID: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	return nil
}

// Top retrieves the best scores, highest first, for boardSize (every size
// when boardSize is 0). Ties go to the earlier entry.
func (s *Store) Top(ctx context.Context, boardSize, limit int) ([]service.ScoreEntry, error) {
	if limit <= 0 {
		limit = service.DefaultTopLimit
	}

	query := `SELECT id, player, score, board_size, win_tile, max_tile, progress, created_at
		FROM scores`
	args := []any{}
	if boardSize != 0 {
		query += ` WHERE board_size = ?`
		args = append(args, boardSize)
	}
	query += ` ORDER BY score DESC, created_at ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []service.ScoreEntry
	for rows.Next() {
		var (
			e        service.ScoreEntry
			progress string
			created  int64
		)
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.BoardSize, &e.WinTile, &e.MaxTile, &progress, &created); err != nil {
			return nil, fmt.Errorf("scores: cannot scan score: %w", err)
		}
		if err := e.Progress.UnmarshalText([]byte(progress)); err != nil {
			return nil, fmt.Errorf("scores: row %d: %w", e.ID, err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: row iteration error: %w", err)
	}

	return entries, nil
}

// Best returns the highest score recorded for boardSize, 0 if none.
func (s *Store) Best(ctx context.Context, boardSize int) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE board_size = ?",
		boardSize,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("scores: cannot get best score: %w", err)
	}
	return int(best.Int64), nil
}

// Count returns the number of stored entries that reached progress.
func (s *Store) Count(ctx context.Context, progress engine.Progress) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scores WHERE progress = ?",
		progress.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("scores: cannot count scores: %w", err)
	}
	return n, nil
}

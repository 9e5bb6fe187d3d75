// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Setting keys written by the game menu.
const (
	SettingSoundEnabled = "sound.enabled"
	SettingSoundVolume  = "sound.volume"
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for results and settings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			reason TEXT NOT NULL,
			score INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			elapsed_seconds REAL NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			time_limit INTEGER NOT NULL,
			time_remaining INTEGER NOT NULL,
			passage TEXT NOT NULL,
			input TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_difficulty_score ON results(difficulty, score);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return s.addColumn("results", "input", `TEXT NOT NULL DEFAULT ''`)
}

// addColumn adds a column to a table created by an older schema.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == column {
			return rows.Err()
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// InsertResult stores an ended session.
func (s *Store) InsertResult(ctx context.Context, r model.SessionResult) error {
	if r.ID == "" {
		return errors.New("result has no id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, started_at, ended_at, difficulty, reason, score, accuracy, wpm, elapsed_seconds, correct, incorrect, time_limit, time_remaining, passage, input)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.UTC().Format(timeLayout),
		r.EndedAt.UTC().Format(timeLayout),
		string(r.Difficulty),
		string(r.Reason),
		r.Score,
		r.Accuracy,
		r.WordsPerMinute,
		r.ElapsedSeconds,
		r.CorrectCount,
		r.IncorrectCount,
		r.TimeLimit,
		r.TimeRemaining,
		r.Passage,
		r.Input,
	)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.ID, err)
	}
	return nil
}

const resultColumns = `id, ended_at, difficulty, reason, score, accuracy, wpm, elapsed_seconds`

// ListResults returns stored results filtered by cfg, oldest first. A
// positive cfg.Last keeps only the most recent results.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(cfg.Difficulty))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s ORDER BY ended_at DESC`,
		resultColumns, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	results, err := s.queryResults(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// TopScores returns the highest-scoring results, best first. An empty
// difficulty ranks across all tiers.
func (s *Store) TopScores(ctx context.Context, difficulty model.Difficulty, limit int) ([]model.ResultAggregate, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM results
		WHERE (? = '' OR difficulty = ?)
		ORDER BY score DESC, ended_at ASC
		LIMIT ?`, resultColumns)
	return s.queryResults(ctx, query, string(difficulty), string(difficulty), limit)
}

// BestScore returns the highest score for a difficulty, or 0 when there
// are no results.
func (s *Store) BestScore(ctx context.Context, difficulty model.Difficulty) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM results WHERE (? = '' OR difficulty = ?)`,
		string(difficulty), string(difficulty)).Scan(&best)
	if err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// GetSetting returns a stored setting and whether it exists.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores a setting, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]model.ResultAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultAggregate
	for rows.Next() {
		var agg model.ResultAggregate
		var endedAt, difficulty, reason string
		if err := rows.Scan(&agg.ID, &endedAt, &difficulty, &reason, &agg.Score, &agg.Accuracy, &agg.WordsPerMinute, &agg.ElapsedSeconds); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Difficulty = model.Difficulty(difficulty)
		agg.Reason = model.EndReason(reason)
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

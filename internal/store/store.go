// Package store handles SQLite persistence of crack runs.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/classicrypt/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attack history.
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
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			digest TEXT NOT NULL,
			cipher_len INTEGER NOT NULL,
			letters INTEGER NOT NULL,
			estimated INTEGER NOT NULL,
			key_length INTEGER NOT NULL,
			manual INTEGER NOT NULL,
			recovered_key TEXT NOT NULL,
			bigram_score INTEGER NOT NULL,
			success INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_candidates (
			run_id INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			length INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, rank)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Digest identifies a ciphertext without storing it.
func Digest(ciphertext string) string {
	sum := sha256.Sum256([]byte(ciphertext))
	return hex.EncodeToString(sum[:8])
}

// InsertRun stores a crack run and its ranked key-length candidates.
func (s *Store) InsertRun(ctx context.Context, run model.Run, candidates []model.KeyLengthCandidate) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, digest, cipher_len, letters, estimated, key_length, manual, recovered_key, bigram_score, success, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.Digest,
		run.CipherLen,
		run.Letters,
		run.Estimated,
		run.KeyLength,
		boolToInt(run.Manual),
		run.RecoveredKey,
		run.BigramScore,
		boolToInt(run.Success),
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(candidates) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_candidates (run_id, rank, length, count) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for rank, c := range candidates {
			if _, err = stmt.ExecContext(ctx, id, rank, c.Length, c.Count); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs, oldest first, filtered by cfg.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	if cfg.SuccessOnly {
		clauses = append(clauses, "success = 1")
	}
	query := fmt.Sprintf(`SELECT id, created_at, digest, cipher_len, letters, estimated, key_length, manual, recovered_key, bigram_score, success, duration_ms
		FROM runs
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var createdAt string
		var manual, success int
		if err := rows.Scan(&run.ID, &createdAt, &run.Digest, &run.CipherLen, &run.Letters, &run.Estimated,
			&run.KeyLength, &manual, &run.RecoveredKey, &run.BigramScore, &success, &run.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		run.CreatedAt = parsed
		run.Manual = manual != 0
		run.Success = success != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// ListCandidates returns the ranked key-length candidates stored for a run.
func (s *Store) ListCandidates(ctx context.Context, runID int64) ([]model.KeyLengthCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT length, count FROM run_candidates WHERE run_id = ? ORDER BY rank ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyLengthCandidate
	for rows.Next() {
		var c model.KeyLengthCandidate
		if err := rows.Scan(&c.Length, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Summary aggregates all stored runs.
func (s *Store) Summary(ctx context.Context) (model.RunSummary, error) {
	var summary model.RunSummary
	var successes sql.NullInt64
	var avgLetters, avgKeyLen sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(success), AVG(letters), AVG(CASE WHEN success = 1 THEN key_length END) FROM runs`).
		Scan(&summary.Runs, &successes, &avgLetters, &avgKeyLen)
	if err != nil {
		return model.RunSummary{}, err
	}
	summary.Successes = int(successes.Int64)
	summary.AvgLetters = avgLetters.Float64
	summary.AvgKeyLen = avgKeyLen.Float64
	return summary, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contractfix/internal/rewrite"
	"contractfix/internal/rules"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT,
			since TEXT,
			started_at INTEGER,
			finished_at INTEGER,
			files INTEGER,
			findings INTEGER,
			applied INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS findings (
			run_id TEXT,
			seq INTEGER,
			rule TEXT,
			path TEXT,
			line INTEGER,
			col INTEGER,
			message TEXT,
			fix JSON,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_findings_path ON findings(path);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- RunStore Implementation ---

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, findings []rules.Finding) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Findings == 0 {
		run.Findings = len(findings)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, since, started_at, finished_at, files, findings, applied)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root=excluded.root,
			since=excluded.since,
			started_at=excluded.started_at,
			finished_at=excluded.finished_at,
			files=excluded.files,
			findings=excluded.findings,
			applied=excluded.applied
	`, run.ID, run.Root, run.Since, unixMilli(run.StartedAt), unixMilli(run.FinishedAt), run.Files, run.Findings, run.Applied)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	// Findings are a snapshot of the run.
	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE run_id = ?", run.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (run_id, seq, rule, path, line, col, message, fix)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO UPDATE SET
			rule=excluded.rule,
			path=excluded.path,
			line=excluded.line,
			col=excluded.col,
			message=excluded.message,
			fix=excluded.fix
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range findings {
		fix, err := json.Marshal(f.Edits)
		if err != nil {
			return fmt.Errorf("failed to encode fix: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, f.Rule.String(), f.Path, f.Line, f.Column, f.Message, fix); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const runColumns = "id, root, since, started_at, finished_at, files, findings, applied"

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return scanRun(row)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var since sql.NullString
	var started, finished int64
	err := row.Scan(&run.ID, &run.Root, &since, &started, &finished, &run.Files, &run.Findings, &run.Applied)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Since = since.String
	run.StartedAt = fromUnixMilli(started)
	run.FinishedAt = fromUnixMilli(finished)
	return run, nil
}

// --- FindingStore Implementation ---

func (s *SQLiteStore) LoadFindings(ctx context.Context, runID string) ([]rules.Finding, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT rule, path, line, col, message, fix FROM findings WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []rules.Finding
	for rows.Next() {
		var f rules.Finding
		var rule string
		var fix []byte
		if err := rows.Scan(&rule, &f.Path, &f.Line, &f.Column, &f.Message, &fix); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.Rule = rules.ID(rule)
		if len(fix) > 0 {
			var edits []rewrite.Edit
			if err := json.Unmarshal(fix, &edits); err == nil && len(edits) > 0 {
				f.Edits = edits
			}
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

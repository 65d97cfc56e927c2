package storage

import (
	"context"
	"errors"
	"time"

	"contractfix/internal/rules"
)

// ErrRunNotFound is returned when no run matches the request.
var ErrRunNotFound = errors.New("run not found")

// Run is one analysis of a project.
type Run struct {
	ID         string
	Root       string
	Since      string // git ref the file set was limited to, if any
	StartedAt  time.Time
	FinishedAt time.Time
	Files      int
	Findings   int
	Applied    int
}

// Store combines run and finding storage.
type Store interface {
	RunStore
	FindingStore
	Close() error
}

// RunStore persists run metadata.
type RunStore interface {
	// SaveRun upserts a run together with its findings. Findings of a previous save of
	// the same run are replaced.
	SaveRun(ctx context.Context, run Run, findings []rules.Finding) error

	// GetRun returns a run by ID.
	GetRun(ctx context.Context, id string) (Run, error)

	// LatestRun returns the most recently started run.
	LatestRun(ctx context.Context) (Run, error)

	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// FindingStore reads persisted findings.
type FindingStore interface {
	// LoadFindings returns the findings of a run in report order.
	LoadFindings(ctx context.Context, runID string) ([]rules.Finding, error)
}

// Package pipeline runs the contract rules over a whole project.
package pipeline

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"contractfix/internal/analysis"
	"contractfix/internal/crawler"
	"contractfix/internal/extractor"
	"contractfix/internal/fixer"
	"contractfix/internal/git"
	"contractfix/internal/index"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options selects what a run analyzes and whether it rewrites files.
type Options struct {
	Root        string
	Since       string   // git ref; only files changed since it are analyzed
	Files       []string // explicit file set; takes precedence over Since
	Dependents  bool     // also analyze files declaring types derived from the selected ones
	Ignore      []string // extra directory names to skip
	Write       bool
	Concurrency int
	Fixer       fixer.Options
}

// Result is the outcome of one run.
type Result struct {
	Run      storage.Run
	Findings []rules.Finding
	Applied  []rules.Finding
	Skipped  []rules.Finding // fixes dropped because they overlap an applied one
	Project  *index.Project
}

// Runner executes runs and persists them when a store is configured.
type Runner struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner creates a runner. A nil store disables persistence.
func NewRunner(store storage.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger, now: time.Now}
}

// Run indexes the project, analyzes the selected files and optionally applies and stores the result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := r.now()
	root, err := filepath.Abs(nonEmpty(opts.Root, "."))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	// Holders may live in files that did not change, so the index always covers the whole tree.
	project, err := r.indexStage(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	targets, err := r.selectFilesStage(ctx, project, opts)
	if err != nil {
		return nil, err
	}

	findings, err := r.analyzeStage(ctx, project, targets, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Run: storage.Run{
			ID:        uuid.NewString(),
			Root:      root,
			Since:     opts.Since,
			StartedAt: started,
			Files:     len(targets),
			Findings:  len(findings),
		},
		Findings: findings,
		Project:  project,
	}

	if opts.Write {
		res.Applied, res.Skipped, err = r.applyStage(project, findings)
		if err != nil {
			return nil, err
		}
		res.Run.Applied = len(res.Applied)
	}
	res.Run.FinishedAt = r.now()

	if err := r.persistStage(ctx, res); err != nil {
		return nil, err
	}

	r.logger.Info("run finished",
		zap.String("run", res.Run.ID),
		zap.Int("files", res.Run.Files),
		zap.Int("findings", len(findings)),
		zap.Int("applied", len(res.Applied)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("elapsed", res.Run.FinishedAt.Sub(started)))
	return res, nil
}

func (r *Runner) indexStage(ctx context.Context, root string, opts Options) (*index.Project, error) {
	ext, err := extractor.NewExtractor("csharp")
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	cr := crawler.NewCrawler(ext,
		crawler.WithIgnored(opts.Ignore...),
		crawler.WithConcurrency(opts.Concurrency),
		crawler.WithLogger(r.logger))
	return index.NewIndexer(cr, r.logger).Build(ctx, root)
}

// selectFilesStage returns the parsed files to analyze, in path order.
func (r *Runner) selectFilesStage(ctx context.Context, project *index.Project, opts Options) ([]string, error) {
	var wanted []string
	switch {
	case len(opts.Files) > 0:
		wanted = opts.Files
	case opts.Since != "":
		changed, err := git.ChangedSources(ctx, project.Root, opts.Since, ".cs")
		if err != nil {
			return nil, fmt.Errorf("failed to get git changes: %w", err)
		}
		r.logger.Info("changed files", zap.String("since", opts.Since), zap.Int("count", len(changed)))
		wanted = changed
	default:
		return project.Paths, nil
	}

	selected := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		abs, err := filepath.Abs(w)
		if err != nil {
			continue
		}
		selected[abs] = true
	}
	if opts.Dependents {
		impact := analysis.NewAnalyzer(project.Graph).AnalyzeImpact(slices.Collect(maps.Keys(selected)))
		for _, p := range impact.Files() {
			selected[p] = true
		}
		r.logger.Debug("impacted types",
			zap.Int("direct", len(impact.DirectlyAffected)),
			zap.Int("indirect", len(impact.IndirectlyAffected)))
	}
	var out []string
	for _, p := range project.Paths {
		if selected[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Runner) analyzeStage(ctx context.Context, project *index.Project, targets []string, opts Options) ([]rules.Finding, error) {
	fx := fixer.New(opts.Fixer, r.logger)
	perFile := make([][]rules.Finding, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, path := range targets {
		g.Go(func() error {
			findings, err := fx.AnalyzeFile(gctx, relPath(project.Root, path), project.Files[path], project.Model)
			if err != nil {
				return err
			}
			perFile[i] = findings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []rules.Finding
	for _, fs := range perFile {
		out = append(out, fs...)
	}
	rules.SortFindings(out)
	return out, nil
}

// applyStage rewrites files with the fixes of findings. Findings are taken in report order
// and a fix overlapping one already taken in the same file is skipped.
func (r *Runner) applyStage(project *index.Project, findings []rules.Finding) (applied, skipped []rules.Finding, err error) {
	accepted := make(map[string][]rewrite.Edit)
	var order []string
	for _, f := range findings {
		if !f.Fixable() {
			continue
		}
		edits, seen := accepted[f.Path]
		if rewrite.Overlaps(edits, f.Edits) {
			skipped = append(skipped, f)
			continue
		}
		if !seen {
			order = append(order, f.Path)
		}
		accepted[f.Path] = append(edits, f.Edits...)
		applied = append(applied, f)
	}

	for _, rel := range order {
		path := filepath.Join(project.Root, filepath.FromSlash(rel))
		file := project.Files[path]
		if file == nil {
			return nil, nil, fmt.Errorf("no parsed source for %s", rel)
		}
		out, err := rewrite.Apply(file.Source, accepted[rel])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to apply fixes to %s: %w", rel, err)
		}
		if err := writeFile(path, out); err != nil {
			return nil, nil, err
		}
		r.logger.Debug("rewrote file", zap.String("path", rel), zap.Int("edits", len(accepted[rel])))
	}
	for _, f := range skipped {
		r.logger.Warn("fix skipped, overlaps another fix", zap.String("finding", f.String()))
	}
	return applied, skipped, nil
}

func (r *Runner) persistStage(ctx context.Context, res *Result) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveRun(ctx, res.Run, res.Findings); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

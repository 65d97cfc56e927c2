package crawler

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"contractfix/internal/extractor"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultIgnored are directory names never descended into.
var DefaultIgnored = []string{".git", ".vs", "bin", "obj", "packages", "node_modules"}

// Crawler scans a directory for source files.
type Crawler struct {
	extractor   *extractor.Extractor
	ignored     []string
	concurrency int
	logger      *zap.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithIgnored adds directory names to skip.
func WithIgnored(names ...string) Option {
	return func(c *Crawler) {
		for _, n := range names {
			if !slices.Contains(c.ignored, n) {
				c.ignored = append(c.ignored, n)
			}
		}
	}
}

// WithConcurrency bounds the number of files parsed at once.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-file warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		extractor:   ext,
		ignored:     append([]string{}, DefaultIgnored...),
		concurrency: runtime.NumCPU(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsIgnoredDir reports whether a directory with this base name is skipped.
func (c *Crawler) IsIgnoredDir(name string) bool {
	return slices.Contains(c.ignored, name)
}

// IsSource reports whether path has an extension handled by the extractor.
func (c *Crawler) IsSource(path string) bool {
	return slices.Contains(c.extractor.Extensions(), strings.ToLower(filepath.Ext(path)))
}

// ListFiles walks root and returns every source file, sorted.
func (c *Crawler) ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && c.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if c.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// ScanProject walks the root directory and processes all relevant files.
// onFile is called once per parsed file, sequentially and in path order.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(*extractor.FileResult)) error {
	files, err := c.ListFiles(root)
	if err != nil {
		return err
	}
	return c.ScanFiles(ctx, files, onFile)
}

// ScanFiles parses the given files concurrently. A file that fails to parse is logged and skipped.
func (c *Crawler) ScanFiles(ctx context.Context, files []string, onFile func(*extractor.FileResult)) error {
	results := make([]*extractor.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	var mu sync.Mutex
	failed := 0
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.extractor.ExtractFromFile(gctx, path)
			if err != nil {
				c.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			if res.File.HasErrors {
				c.logger.Debug("file has syntax errors", zap.String("path", path))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		if res != nil {
			onFile(res)
		}
	}
	c.logger.Debug("scan finished", zap.Int("files", len(files)), zap.Int("failed", failed))
	return nil
}

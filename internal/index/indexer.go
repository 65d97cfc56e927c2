package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"contractfix/internal/crawler"
	"contractfix/internal/extractor"
	"contractfix/internal/graph"
	"contractfix/internal/resolver"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"

	"go.uber.org/zap"
)

// Project is a parsed and linked C# code base.
type Project struct {
	Root   string
	Files  map[string]*syntax.File
	Paths  []string // parsed files in path order
	Graph  *graph.Graph
	Model  *symbols.Model
	Stages []resolver.StageResult
}

// Indexer orchestrates codebase indexing and graph management.
type Indexer struct {
	crawler *crawler.Crawler
	chain   *resolver.Chain
	logger  *zap.Logger
}

// NewIndexer creates a new indexer running the default resolver chain.
func NewIndexer(c *crawler.Crawler, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		crawler: c,
		chain:   resolver.NewDefaultChain(),
		logger:  logger,
	}
}

// Build scans the project root, links the type graph and builds the semantic model.
func (i *Indexer) Build(ctx context.Context, root string) (*Project, error) {
	p := &Project{Root: root, Files: make(map[string]*syntax.File)}
	g := graph.NewGraph()

	err := i.crawler.ScanProject(ctx, root, func(res *extractor.FileResult) {
		p.Files[res.File.Path] = res.File
		p.Paths = append(p.Paths, res.File.Path)
		for _, unit := range res.Units {
			g.AddUnit(unit)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	// Resolve relationships after all units are loaded
	p.Stages = i.chain.Run(g)
	for _, st := range p.Stages {
		i.logger.Debug("resolver stage",
			zap.String("resolver", st.Resolver),
			zap.Int("resolved", st.Stats.Resolved),
			zap.Int("unresolved", st.UnresolvedAfter),
			zap.Int("edges", st.EdgeCount),
			zap.Int("links", st.Links),
			zap.Duration("elapsed", st.Elapsed))
		if st.Err != nil {
			return nil, fmt.Errorf("resolver %s failed: %w", st.Resolver, st.Err)
		}
	}

	model, err := symbols.New(g)
	if err != nil {
		return nil, fmt.Errorf("failed to build symbol model: %w", err)
	}
	p.Graph = g
	p.Model = model
	i.logger.Info("indexed project",
		zap.String("root", root),
		zap.Int("files", len(p.Paths)),
		zap.Int("symbols", len(g.Nodes)),
		zap.Int("contract_links", g.Links.Len()))
	m := g.Metrics()
	i.logger.Debug("graph metrics",
		zap.Any("edges", m.Edges),
		zap.Any("unresolved", m.Unresolved))
	return p, nil
}

// SaveGraph writes the graph snapshot as JSON.
func SaveGraph(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(g.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveGraph.
func LoadSnapshot(path string) (*graph.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	var snap graph.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &snap, nil
}

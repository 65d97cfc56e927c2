// Package resolver links the relations recorded by the extractor into graph edges
// and confirms contract holder pairs.
package resolver

import (
	"time"

	"contractfix/internal/graph"
)

type ResolveStats struct {
	Attempted int
	Resolved  int
	Skipped   int
}

// GraphResolver is one stage of a Chain. Stages run in order over the same graph.
type GraphResolver interface {
	Name() string
	Resolve(g *graph.Graph) (ResolveStats, error)
}

// StageResult records what one stage changed.
type StageResult struct {
	Resolver         string
	Stats            ResolveStats
	UnresolvedBefore int
	UnresolvedAfter  int
	EdgeCount        int
	Links            int // confirmed type/holder pairs after the stage
	Elapsed          time.Duration
	Err              error
}

type Chain struct {
	stages []GraphResolver
}

func NewChain(stages ...GraphResolver) *Chain {
	return &Chain{stages: stages}
}

// NewDefaultChain links names first and then validates contract holder links.
func NewDefaultChain() *Chain {
	return NewChain(NewHeuristicResolver(), NewContractLinkResolver())
}

// Run executes the stages until one fails. The failing stage is the last result.
func (c *Chain) Run(g *graph.Graph) []StageResult {
	if g == nil {
		return nil
	}

	results := make([]StageResult, 0, len(c.stages))
	for _, stage := range c.stages {
		res := StageResult{Resolver: stage.Name(), UnresolvedBefore: len(g.Unresolved)}
		start := time.Now()
		res.Stats, res.Err = stage.Resolve(g)
		res.Elapsed = time.Since(start)
		res.UnresolvedAfter = len(g.Unresolved)
		res.EdgeCount = len(g.Edges)
		if g.Links != nil {
			res.Links = g.Links.Len()
		}
		results = append(results, res)
		if res.Err != nil {
			break
		}
	}
	return results
}

package resolver

import "contractfix/internal/graph"

// HeuristicResolver resolves relation targets by scoped name lookup.
type HeuristicResolver struct{}

func NewHeuristicResolver() *HeuristicResolver {
	return &HeuristicResolver{}
}

func (r *HeuristicResolver) Name() string {
	return "heuristic"
}

func (r *HeuristicResolver) Resolve(g *graph.Graph) (ResolveStats, error) {
	if g == nil {
		return ResolveStats{}, nil
	}
	g.LinkRelations()

	stats := ResolveStats{Skipped: len(g.Unresolved)}
	for _, node := range g.Nodes {
		stats.Attempted += len(node.Unit.Relations)
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Resolver == "" {
			e.Resolver = r.Name()
		}
		stats.Resolved++
	}
	return stats, nil
}

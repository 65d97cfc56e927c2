package resolver

import (
	"slices"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"
)

// DefaultMinLinkConfidence rejects holders that do not derive from the type they hold contracts for.
const DefaultMinLinkConfidence = 0.6

// ContractLinkResolver fills graph.Links with type/holder pairs whose attributes agree in both directions.
// One-sided links are reported as unresolved with graph.ReasonLinkMismatch; pairs scoring below
// MinConfidence with graph.ReasonLowConfidence.
type ContractLinkResolver struct {
	MinConfidence float64
}

func NewContractLinkResolver() *ContractLinkResolver {
	return &ContractLinkResolver{MinConfidence: DefaultMinLinkConfidence}
}

func (r *ContractLinkResolver) Name() string {
	return "contract_link"
}

func (r *ContractLinkResolver) Resolve(g *graph.Graph) (ResolveStats, error) {
	stats := ResolveStats{}
	if g == nil {
		return stats, nil
	}
	if g.Links == nil {
		g.Links = graph.NewContractLinks()
	}
	g.Links.Reset()

	for i := range g.Edges {
		e := &g.Edges[i]
		var owner, holder string
		var back graph.RelationKind
		switch e.Kind {
		case graph.RelationContractClass:
			owner, holder, back = e.From, e.To, graph.RelationContractClassFor
		case graph.RelationContractClassFor:
			owner, holder, back = e.To, e.From, graph.RelationContractClass
		default:
			continue
		}
		stats.Attempted++

		reject := func(reason graph.UnresolvedReason) {
			stats.Skipped++
			g.Unresolved = append(g.Unresolved, graph.UnresolvedRelation{
				From:     e.From,
				Target:   e.To,
				Kind:     e.Kind,
				Reason:   reason,
				Evidence: evidenceOf(g, e.From),
			})
		}
		if !hasEdge(g, e.To, e.From, back) {
			reject(graph.ReasonLinkMismatch)
			continue
		}

		ev := evidenceOf(g, e.From)
		e.Resolver = r.Name()
		e.Confidence = extractor.CalibrateLinkConfidence(string(e.Kind), extractor.Evidence{
			Filepath:  ev.Filepath,
			StartLine: ev.StartLine,
			EndLine:   ev.EndLine,
		}, derivesFrom(g, holder, owner))
		if e.Confidence < r.MinConfidence {
			reject(graph.ReasonLowConfidence)
			continue
		}

		stats.Resolved++
		g.Links.Add(owner, holder)
	}
	return stats, nil
}

// derivesFrom reports whether id reaches base through base-list edges.
func derivesFrom(g *graph.Graph, id, base string) bool {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.EdgesFrom(cur, graph.RelationBase) {
			if e.To == base {
				return true
			}
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return false
}

func hasEdge(g *graph.Graph, from, to string, kind graph.RelationKind) bool {
	return slices.ContainsFunc(g.EdgesFrom(from, kind), func(e graph.Edge) bool { return e.To == to })
}

func evidenceOf(g *graph.Graph, id string) graph.Evidence {
	node, ok := g.Nodes[id]
	if !ok {
		return graph.Evidence{}
	}
	return graph.Evidence{Filepath: node.Unit.Filepath, StartLine: node.Unit.StartLine, EndLine: node.Unit.StartLine}
}

package graph

// Metrics summarizes a linked graph for logs and snapshots.
type Metrics struct {
	Nodes      int                      `json:"nodes"`
	Edges      map[RelationKind]int     `json:"edges"`
	Unresolved map[UnresolvedReason]int `json:"unresolved"`
	Links      int                      `json:"contract_links"`
}

func (g *Graph) Metrics() Metrics {
	if g == nil {
		return Metrics{Edges: map[RelationKind]int{}, Unresolved: map[UnresolvedReason]int{}}
	}
	return Metrics{
		Nodes:      len(g.Nodes),
		Edges:      g.EdgeKindCounts(),
		Unresolved: g.UnresolvedReasonCounts(),
		Links:      g.Links.Len(),
	}
}

// UnresolvedReasonCounts counts unresolved relations per reason; a missing reason counts as no candidate.
func (g *Graph) UnresolvedReasonCounts() map[UnresolvedReason]int {
	counts := make(map[UnresolvedReason]int)
	if g == nil {
		return counts
	}
	for _, u := range g.Unresolved {
		if u.Reason == "" {
			counts[ReasonNoCandidate]++
			continue
		}
		counts[u.Reason]++
	}
	return counts
}

// EdgeKindCounts counts linked edges per relation kind.
func (g *Graph) EdgeKindCounts() map[RelationKind]int {
	counts := make(map[RelationKind]int)
	if g == nil {
		return counts
	}
	for _, e := range g.Edges {
		counts[e.Kind]++
	}
	return counts
}

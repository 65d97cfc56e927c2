package graph

import "contractfix/internal/extractor"

// FromCodeUnit converts extractor output into graph-domain Symbol.
func FromCodeUnit(unit *extractor.CodeUnit) *Symbol {
	if unit == nil {
		return nil
	}

	s := &Symbol{
		ID:          unit.ID,
		Filepath:    unit.Filepath,
		Package:     unit.Package,
		Language:    unit.Language,
		StartLine:   unit.StartLine,
		EndLine:     unit.EndLine,
		UnitType:    unit.UnitType,
		Name:        unit.Name,
		Description: unit.Description,
	}
	switch d := unit.Details.(type) {
	case extractor.TypeDetails:
		s.Metadata.Qualified = d.Qualified
	case extractor.MethodDetails:
		s.Metadata.Signature = d.Signature
		s.Metadata.Owner = d.Owner
	}

	if len(unit.Relations) > 0 {
		s.Relations = make([]Relation, 0, len(unit.Relations))
		for _, rel := range unit.Relations {
			s.Relations = append(s.Relations, Relation{
				Target:     rel.Target,
				Kind:       RelationKind(rel.Kind),
				Resolver:   rel.Resolver,
				Confidence: rel.Confidence,
				Evidence: Evidence{
					Filepath:  rel.Evidence.Filepath,
					StartLine: rel.Evidence.StartLine,
					EndLine:   rel.Evidence.EndLine,
				},
			})
		}
	}

	return s
}

// Snapshot is a serialisable view of the graph.
type Snapshot struct {
	Symbols    []*Symbol            `json:"symbols"`
	Edges      []Edge               `json:"edges"`
	Unresolved []UnresolvedRelation `json:"unresolved,omitempty"`
	Links      map[string][]string  `json:"contract_links,omitempty"`
	Metrics    Metrics              `json:"metrics"`
}

// Snapshot converts the graph into its serialisable form, with symbols in ID order.
func (g *Graph) Snapshot() *Snapshot {
	snap := &Snapshot{Edges: g.Edges, Unresolved: g.Unresolved, Metrics: g.Metrics()}
	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		s := FromCodeUnit(node.Unit)
		s.Parts = len(node.Parts)
		snap.Symbols = append(snap.Symbols, s)
		if holders := g.Links.HoldersOf(id); len(holders) > 0 {
			if snap.Links == nil {
				snap.Links = make(map[string][]string)
			}
			snap.Links[id] = holders
		}
	}
	return snap
}

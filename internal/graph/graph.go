package graph

import (
	"fmt"
	"slices"
	"strings"

	"contractfix/internal/extractor"
)

// Node represents a vertex in the type graph.
// Parts holds every declaration of a partial type; Unit is the first one seen.
type Node struct {
	Unit  *extractor.CodeUnit
	Parts []*extractor.CodeUnit `json:"-"`
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	From       string       // Source CodeUnit ID
	To         string       // Target CodeUnit ID
	Kind       RelationKind // Relationship type
	Resolver   string
	Confidence float64
}

// Graph manages nodes and their relationships.
type Graph struct {
	Nodes      map[string]*Node
	Edges      []Edge
	Unresolved []UnresolvedRelation
	Links      *ContractLinks

	// Index for faster lookup: Name -> []ID
	// nameIndex is keyed by the full name (Ns.Outer`1.Inner), simpleIndex by the
	// nesting path and the last segment alone.
	nameIndex   map[string][]string
	simpleIndex map[string][]string
	members     map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]*Node),
		Edges:     []Edge{},
		Links:       NewContractLinks(),
		nameIndex:   make(map[string][]string),
		simpleIndex: make(map[string][]string),
		members:     make(map[string][]string),
	}
}

// AddUnit adds a CodeUnit as a node and indexes it.
// A second declaration of an existing type (a partial type) is merged into the existing node.
func (g *Graph) AddUnit(unit *extractor.CodeUnit) {
	if unit == nil {
		return
	}
	if existing, ok := g.Nodes[unit.ID]; ok {
		g.mergePart(existing, unit)
		return
	}
	g.Nodes[unit.ID] = &Node{Unit: unit, Parts: []*extractor.CodeUnit{unit}}
	g.index(unit)
}

func (g *Graph) mergePart(node *Node, part *extractor.CodeUnit) {
	node.Parts = append(node.Parts, part)
	base, ok1 := node.Unit.Details.(extractor.TypeDetails)
	extra, ok2 := part.Details.(extractor.TypeDetails)
	if !ok1 || !ok2 {
		return
	}
	for _, b := range extra.Bases {
		if !slices.ContainsFunc(base.Bases, func(x extractor.TypeRef) bool { return x.String() == b.String() }) {
			base.Bases = append(base.Bases, b)
		}
	}
	base.Attributes = append(base.Attributes, extra.Attributes...)
	for _, m := range extra.Modifiers {
		if !base.HasModifier(m) {
			base.Modifiers = append(base.Modifiers, m)
		}
	}
	for _, u := range extra.Usings {
		if !slices.Contains(base.Usings, u) {
			base.Usings = append(base.Usings, u)
		}
	}
	node.Unit.Details = base
	node.Unit.Relations = append(node.Unit.Relations, part.Relations...)
}

func (g *Graph) index(unit *extractor.CodeUnit) {
	switch d := unit.Details.(type) {
	case extractor.TypeDetails:
		addKey(g.nameIndex, qualify(unit.Package, d.Qualified), unit.ID)
		addKey(g.simpleIndex, d.Qualified, unit.ID)
		addKey(g.simpleIndex, lastSegment(d.Qualified), unit.ID)
	case extractor.MethodDetails:
		g.members[d.Owner] = append(g.members[d.Owner], unit.ID)
	}
}

// RebuildIndices recomputes lookup tables after nodes were loaded directly.
func (g *Graph) RebuildIndices() {
	g.nameIndex = make(map[string][]string)
	g.simpleIndex = make(map[string][]string)
	g.members = make(map[string][]string)
	for _, node := range g.Nodes {
		g.index(node.Unit)
	}
	for owner := range g.members {
		slices.SortFunc(g.members[owner], func(a, b string) int {
			ua, ub := g.Nodes[a].Unit, g.Nodes[b].Unit
			if c := strings.Compare(ua.Filepath, ub.Filepath); c != 0 {
				return c
			}
			return ua.StartLine - ub.StartLine
		})
	}
}

func addKey(index map[string][]string, key, id string) {
	if !slices.Contains(index[key], id) {
		index[key] = append(index[key], id)
	}
}

func lastSegment(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// Members returns the method and constructor nodes owned by a type, in declaration order.
func (g *Graph) Members(typeID string) []*Node {
	var out []*Node
	for _, id := range g.members[typeID] {
		if n, ok := g.Nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Scope describes where a type reference was written.
type Scope struct {
	Namespace string
	Container string // TypeKey of the enclosing type, if any
	Usings    []string
}

// ScopeOf returns the lookup scope of a unit.
func ScopeOf(unit *extractor.CodeUnit) Scope {
	s := Scope{Namespace: unit.Package}
	switch d := unit.Details.(type) {
	case extractor.TypeDetails:
		s.Container = d.Container
		s.Usings = d.Usings
	case extractor.MethodDetails:
		s.Container = d.Owner
	}
	return s
}

// LookupType returns the IDs of type nodes a reference may denote, nearest scope first.
// The result has more than one element only when the reference is ambiguous.
func (g *Graph) LookupType(ref extractor.TypeRef, scope Scope) []string {
	name := ref.Name
	if n := ref.GenericArity(); n > 0 {
		name = fmt.Sprintf("%s`%d", ref.Name, n)
	}

	if ref.Qualifier != "" {
		if ids := g.nameIndex[strings.TrimPrefix(ref.Qualifier, "global::")+"."+name]; len(ids) > 0 {
			return ids
		}
		// Outer.Inner written relative to the namespace.
		if ids := g.nameIndex[qualify(scope.Namespace, ref.Qualifier+"."+name)]; len(ids) > 0 {
			return ids
		}
		return nil
	}

	// Nested types of the enclosing types.
	for c := scope.Container; c != ""; {
		node, ok := g.Nodes[c]
		if !ok {
			break
		}
		d, _ := node.Unit.Details.(extractor.TypeDetails)
		if ids := g.nameIndex[qualify(node.Unit.Package, d.Qualified+"."+name)]; len(ids) > 0 {
			return ids
		}
		c = d.Container
	}

	// Enclosing namespaces, innermost first.
	for ns := scope.Namespace; ; {
		if ids := g.nameIndex[qualify(ns, name)]; len(ids) > 0 {
			return ids
		}
		if ns == "" {
			break
		}
		if i := strings.LastIndex(ns, "."); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}

	var found []string
	for _, u := range scope.Usings {
		for _, id := range g.nameIndex[u+"."+name] {
			if !slices.Contains(found, id) {
				found = append(found, id)
			}
		}
	}
	if len(found) > 0 {
		return found
	}

	// Last resort: any type with that simple name.
	return g.simpleIndex[name]
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// LinkRelations attempts to resolve all name-based relations to actual node IDs.
func (g *Graph) LinkRelations() {
	g.Edges = []Edge{} // Reset edges
	g.Unresolved = nil

	for _, sourceID := range g.SortedIDs() {
		node := g.Nodes[sourceID]
		for _, rel := range node.Unit.Relations {
			kind := RelationKind(rel.Kind)
			var targets []string
			if kind == RelationBelongsTo {
				if _, ok := g.Nodes[rel.Target]; ok {
					targets = []string{rel.Target}
				}
			} else if rel.Ref != nil {
				targets = g.LookupType(*rel.Ref, ScopeOf(node.Unit))
			}

			ev := Evidence{Filepath: rel.Evidence.Filepath, StartLine: rel.Evidence.StartLine, EndLine: rel.Evidence.EndLine}
			switch len(targets) {
			case 0:
				g.Unresolved = append(g.Unresolved, UnresolvedRelation{From: sourceID, Target: rel.Target, Kind: kind, Reason: ReasonNoCandidate, Evidence: ev})
			case 1:
				g.addEdge(Edge{From: sourceID, To: targets[0], Kind: kind, Resolver: rel.Resolver, Confidence: rel.Confidence})
			default:
				g.Unresolved = append(g.Unresolved, UnresolvedRelation{From: sourceID, Target: rel.Target, Kind: kind, Reason: ReasonAmbiguous, Evidence: ev})
			}
		}
	}
}

func (g *Graph) addEdge(e Edge) {
	for _, existing := range g.Edges {
		if existing.From == e.From && existing.To == e.To && existing.Kind == e.Kind {
			return
		}
	}
	g.Edges = append(g.Edges, e)
}

// SortedIDs returns node IDs in lexical order.
func (g *Graph) SortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EdgesFrom returns the edges of the given kind leaving id.
func (g *Graph) EdgesFrom(id string, kind RelationKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// GetDependents returns all nodes that depend on the given node.
func (g *Graph) GetDependents(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.To == id && edge.Kind != RelationBelongsTo {
			if node, ok := g.Nodes[edge.From]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}

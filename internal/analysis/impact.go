// Package analysis finds the types whose contract findings can change when files change.
package analysis

import (
	"slices"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"
)

// ImpactReport lists the types declared in the changed files and the types that
// derive from them, implement them or hold their contracts.
type ImpactReport struct {
	DirectlyAffected   []*graph.Node
	IndirectlyAffected []*graph.Node
}

// Files returns the paths declaring an affected type, sorted.
func (r *ImpactReport) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, nodes := range [][]*graph.Node{r.DirectlyAffected, r.IndirectlyAffected} {
		for _, node := range nodes {
			for _, part := range node.Parts {
				if !seen[part.Filepath] {
					seen[part.Filepath] = true
					out = append(out, part.Filepath)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

// Analyzer performs impact analysis on the type graph.
type Analyzer struct {
	g *graph.Graph
}

func NewAnalyzer(g *graph.Graph) *Analyzer {
	return &Analyzer{g: g}
}

// AnalyzeImpact identifies the types affected by changes to paths.
// Dependents are followed transitively, so a change to an interface reaches
// every class below its implementers.
func (a *Analyzer) AnalyzeImpact(paths []string) *ImpactReport {
	report := &ImpactReport{}
	changed := make(map[string]bool, len(paths))
	for _, p := range paths {
		changed[p] = true
	}

	seen := make(map[string]bool)
	for _, id := range a.g.SortedIDs() {
		node := a.g.Nodes[id]
		if !isType(node) {
			continue
		}
		for _, part := range node.Parts {
			if changed[part.Filepath] {
				report.DirectlyAffected = append(report.DirectlyAffected, node)
				seen[id] = true
				break
			}
		}
	}

	queue := slices.Clone(report.DirectlyAffected)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, dep := range a.g.GetDependents(node.Unit.ID) {
			if seen[dep.Unit.ID] {
				continue
			}
			seen[dep.Unit.ID] = true
			report.IndirectlyAffected = append(report.IndirectlyAffected, dep)
			queue = append(queue, dep)
		}
	}
	return report
}

func isType(node *graph.Node) bool {
	_, ok := node.Unit.Details.(extractor.TypeDetails)
	return ok
}

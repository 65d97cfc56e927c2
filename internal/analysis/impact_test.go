package analysis

import (
	"testing"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeUnit(name, path string, bases ...string) *extractor.CodeUnit {
	u := &extractor.CodeUnit{
		ID:       extractor.TypeKey("App", name),
		Name:     name,
		Package:  "App",
		Filepath: path,
		UnitType: extractor.UnitClass,
		Details:  extractor.TypeDetails{Qualified: name},
	}
	for _, b := range bases {
		ref := extractor.ParseTypeRefString(b)
		u.Relations = append(u.Relations, extractor.Relation{Target: ref.String(), Kind: extractor.RelationBase, Ref: &ref})
	}
	return u
}

func buildGraph(units ...*extractor.CodeUnit) *graph.Graph {
	g := graph.NewGraph()
	for _, u := range units {
		g.AddUnit(u)
	}
	g.LinkRelations()
	return g
}

func TestAnalyzeImpact_FollowsDerivedTypes(t *testing.T) {
	g := buildGraph(
		typeUnit("IStore", "IStore.cs"),
		typeUnit("Store", "Store.cs", "IStore"),
		typeUnit("CachedStore", "Cached.cs", "Store"),
		typeUnit("Unrelated", "Other.cs"),
	)

	report := NewAnalyzer(g).AnalyzeImpact([]string{"IStore.cs"})
	require.Len(t, report.DirectlyAffected, 1)
	assert.Equal(t, "IStore", report.DirectlyAffected[0].Unit.Name)
	require.Len(t, report.IndirectlyAffected, 2)
	assert.Equal(t, []string{"Cached.cs", "IStore.cs", "Store.cs"}, report.Files())
}

func TestAnalyzeImpact_LeafChange(t *testing.T) {
	g := buildGraph(
		typeUnit("Store", "Store.cs"),
		typeUnit("CachedStore", "Cached.cs", "Store"),
	)

	report := NewAnalyzer(g).AnalyzeImpact([]string{"Cached.cs"})
	assert.Empty(t, report.IndirectlyAffected)
	assert.Equal(t, []string{"Cached.cs"}, report.Files())
}

func TestAnalyzeImpact_NoMatch(t *testing.T) {
	g := buildGraph(typeUnit("Store", "Store.cs"))

	report := NewAnalyzer(g).AnalyzeImpact([]string{"Missing.cs"})
	assert.Empty(t, report.DirectlyAffected)
	assert.Empty(t, report.Files())
}

package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Shape.cs", `namespace Geo
{
    public abstract class Shape
    {
        public virtual double Scale(double factor) { return factor; }
    }
}
`)
	writeFile(t, root, "src/Circle.cs", `namespace Geo
{
    public class Circle : Shape
    {
        public override double Scale(double factor) { return factor * 2; }
    }
}
`)
	writeFile(t, root, "obj/Generated.cs", `class Generated { }`)
	writeFile(t, root, "README.md", "# not code")

	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)
	c := NewCrawler(ext, WithConcurrency(2))

	files, err := c.ListFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "Circle.cs"),
		filepath.Join(root, "src", "Shape.cs"),
	}, files)

	g := graph.NewGraph()
	var parsed []string
	err = c.ScanProject(context.Background(), root, func(res *extractor.FileResult) {
		parsed = append(parsed, res.File.Path)
		for _, unit := range res.Units {
			g.AddUnit(unit)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, files, parsed, "results are delivered in path order")

	g.LinkRelations()

	t.Run("Graph integrity", func(t *testing.T) {
		shape := g.Nodes["Geo:Shape"]
		require.NotNil(t, shape)
		deps := g.GetDependents(shape.Unit.ID)
		require.Len(t, deps, 1)
		assert.Equal(t, "Circle", deps[0].Unit.Name)
		assert.Len(t, g.Members("Geo:Circle"), 1)
	})
}

func TestCrawler_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.cs", "class A { }")

	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewCrawler(ext).ScanProject(ctx, root, func(*extractor.FileResult) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCrawler_WithIgnored(t *testing.T) {
	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)
	c := NewCrawler(ext, WithIgnored("Migrations", "bin"))
	assert.True(t, c.IsIgnoredDir("Migrations"))
	assert.True(t, c.IsIgnoredDir("obj"))
	assert.False(t, c.IsIgnoredDir("src"))
	assert.True(t, c.IsSource("Foo.CS"))
	assert.False(t, c.IsSource("Foo.go"))
}

package contract

import (
	"context"
	"fmt"
	"testing"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"
	"contractfix/internal/resolver"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"

	"github.com/stretchr/testify/require"
)

// parseBody parses stmts as the body of a method and returns the block.
func parseBody(t *testing.T, stmts string) *syntax.Node {
	t.Helper()
	src := fmt.Sprintf("class C\n{\n    void M(string x, string y, int n)\n    {\n%s\n    }\n}\n", stmts)
	f, err := syntax.Parse(context.Background(), "C.cs", []byte(src))
	require.NoError(t, err)
	methods := f.Root.FindAll(syntax.KindMethod)
	require.Len(t, methods, 1)
	body := methods[0].ChildByField("body")
	require.NotNil(t, body)
	return body
}

// parseStatements returns the statements of a method body made of stmts.
func parseStatements(t *testing.T, stmts string) []*syntax.Node {
	t.Helper()
	return parseBody(t, stmts).NamedChildren()
}

func parseCall(t *testing.T, stmt string) *syntax.Node {
	t.Helper()
	stmts := parseStatements(t, stmt)
	require.Len(t, stmts, 1)
	calls := stmts[0].FindAll(syntax.KindInvocation)
	require.NotEmpty(t, calls)
	return calls[0]
}

func buildModel(t *testing.T, sources map[string]string) *symbols.Model {
	t.Helper()
	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)

	g := graph.NewGraph()
	for path, src := range sources {
		res, err := ext.ExtractFromSource(context.Background(), path, []byte(src))
		require.NoError(t, err)
		for _, u := range res.Units {
			g.AddUnit(u)
		}
	}
	resolver.NewDefaultChain().Run(g)

	m, err := symbols.New(g)
	require.NoError(t, err)
	return m
}

func typeNamed(t *testing.T, m *symbols.Model, ns, qualified string) *symbols.NamedType {
	t.Helper()
	typ := m.Definition(extractor.TypeKey(ns, qualified))
	require.NotNil(t, typ, "type %s.%s", ns, qualified)
	return typ
}

func methodNamed(t *testing.T, typ *symbols.NamedType, name string) *symbols.Method {
	t.Helper()
	for _, m := range typ.Methods() {
		if m.Name() == name {
			return m
		}
	}
	t.Fatalf("method %s not found on %s", name, typ)
	return nil
}

func statementTexts(ps []Precondition) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Statement.Text()
	}
	return out
}

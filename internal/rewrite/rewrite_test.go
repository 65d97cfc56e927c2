package rewrite

import (
	"context"
	"testing"

	"contractfix/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	f, err := syntax.Parse(context.Background(), "Test.cs", []byte(src))
	require.NoError(t, err)
	return f
}

func TestApply(t *testing.T) {
	src := []byte("hello world")

	out, err := Apply(src, []Edit{
		{Start: 6, End: 11, NewText: "there"},
		Insert(0, ">> "),
		Insert(11, "!"),
	})
	require.NoError(t, err)
	assert.Equal(t, ">> hello there!", string(out))

	t.Run("duplicates collapse", func(t *testing.T) {
		out, err := Apply(src, []Edit{Insert(5, ","), Insert(5, ",")})
		require.NoError(t, err)
		assert.Equal(t, "hello, world", string(out))
	})

	t.Run("overlap", func(t *testing.T) {
		_, err := Apply(src, []Edit{{Start: 0, End: 5}, {Start: 3, End: 8, NewText: "x"}})
		assert.ErrorIs(t, err, ErrOverlappingEdits)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Apply(src, []Edit{{Start: 5, End: 50}})
		assert.Error(t, err)
	})
}

func TestOverlaps(t *testing.T) {
	a := []Edit{{Start: 10, End: 20, NewText: "x"}}
	assert.True(t, Overlaps(a, []Edit{{Start: 15, End: 25}}))
	assert.True(t, Overlaps(a, []Edit{Insert(12, "y")}))
	assert.False(t, Overlaps(a, []Edit{Insert(10, "y")}))
	assert.False(t, Overlaps(a, []Edit{{Start: 20, End: 30}}))
	assert.False(t, Overlaps(a, a))
}

const usingSource = `using System;
using System.Collections.Generic;

namespace Demo.Inner
{
    class C
    {
        void M() { Contract.Requires(true); }
    }
}
`

func TestAddUsing(t *testing.T) {
	f := parse(t, usingSource)
	call := f.Root.FindAll(syntax.KindInvocation)[0]

	t.Run("inserted after the last using", func(t *testing.T) {
		e, ok := AddUsing(call, "System.Diagnostics")
		require.True(t, ok)
		out, err := Apply(f.Source, []Edit{e})
		require.NoError(t, err)
		assert.Contains(t, string(out), "using System.Collections.Generic;\nusing System.Diagnostics;\n\nnamespace")
	})

	t.Run("already imported", func(t *testing.T) {
		_, ok := AddUsing(call, "System")
		assert.False(t, ok)
	})

	t.Run("enclosing namespace", func(t *testing.T) {
		_, ok := AddUsing(call, "Demo")
		assert.False(t, ok)
		_, ok = AddUsing(call, "Demo.Inner")
		assert.False(t, ok)
		_, ok = AddUsing(call, "Dem")
		assert.True(t, ok)
	})

	t.Run("no usings", func(t *testing.T) {
		g := parse(t, "class C { void M() { Contract.Requires(true); } }\n")
		e, ok := AddUsing(g.Root.FindAll(syntax.KindInvocation)[0], "System.Linq")
		require.True(t, ok)
		assert.Equal(t, Insert(0, "using System.Linq;\n"), e)
	})
}

func TestEnclosingNamespace(t *testing.T) {
	f := parse(t, "namespace A.B { namespace C { class X { } } }")
	assert.Equal(t, "A.B.C", EnclosingNamespace(f.Root.FindAll(syntax.KindClass)[0]))

	g := parse(t, "namespace Flat;\nclass Y { }\n")
	assert.Equal(t, "Flat", EnclosingNamespace(g.Root.FindAll(syntax.KindClass)[0]))
}

func TestDeleteNode(t *testing.T) {
	f := parse(t, "class C\n{\n    void M()\n    {\n        A();\n        B(); C();\n    }\n}\n")
	stmts := f.Root.FindAll(syntax.KindExpressionStatement)
	require.Len(t, stmts, 3)

	out, err := Apply(f.Source, []Edit{DeleteNode(stmts[0])})
	require.NoError(t, err)
	assert.Equal(t, "class C\n{\n    void M()\n    {\n        B(); C();\n    }\n}\n", string(out))

	out, err = Apply(f.Source, []Edit{DeleteNode(stmts[2])})
	require.NoError(t, err)
	assert.Contains(t, string(out), "        B(); \n")
}

func TestInsertStatements(t *testing.T) {
	f := parse(t, "class C\n{\n    void M()\n    {\n        Existing();\n    }\n\n    void N()\n    {\n    }\n}\n")
	blocks := f.Root.FindAll(syntax.KindBlock)
	require.Len(t, blocks, 2)

	src := parse(t, "class D\n{\n  void P()\n  {\n    Contract.Requires(x != null &&\n      y != null);\n  }\n}\n")
	stmt := src.Root.FindAll(syntax.KindExpressionStatement)[0]

	out, err := Apply(f.Source, []Edit{
		InsertStatements(blocks[0], []*syntax.Node{stmt}),
		InsertStatements(blocks[1], []*syntax.Node{stmt}),
	})
	require.NoError(t, err)
	want := "class C\n{\n    void M()\n    {\n" +
		"        Contract.Requires(x != null &&\n          y != null);\n" +
		"        Existing();\n    }\n\n    void N()\n    {\n" +
		"        Contract.Requires(x != null &&\n          y != null);\n" +
		"    }\n}\n"
	assert.Equal(t, want, string(out))
}

func TestInsertStatementsOneLineBody(t *testing.T) {
	f := parse(t, "class C\n{\n    void Put(string key) { }\n    int Get(string key) { return 1; }\n}\n")
	blocks := f.Root.FindAll(syntax.KindBlock)
	require.Len(t, blocks, 2)

	src := parse(t, "class D { void P() { Contract.Requires(key != null); } }")
	stmt := src.Root.FindAll(syntax.KindExpressionStatement)[0]

	out, err := Apply(f.Source, []Edit{
		InsertStatements(blocks[0], []*syntax.Node{stmt}),
		InsertStatements(blocks[1], []*syntax.Node{stmt}),
	})
	require.NoError(t, err)
	want := "class C\n{\n" +
		"    void Put(string key) {\n        Contract.Requires(key != null);\n    }\n" +
		"    int Get(string key) {\n        Contract.Requires(key != null);\n        return 1;\n    }\n" +
		"}\n"
	assert.Equal(t, want, string(out))
}

func TestReindent(t *testing.T) {
	assert.Equal(t, "a\n\t\tb\r\n\t\tc", Reindent("a\n    b\r\n    c", "    ", "\t\t"))
}

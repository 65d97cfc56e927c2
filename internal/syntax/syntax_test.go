package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `namespace Demo
{
    public class Account
    {
        public void Deposit(int amount)
        {
            Contract.Requires(amount > 0);
            Contract.Requires( amount  >  0 ); // spaced
            Contract.Requires(amount >= 0);
            var x = @"a""b";
            var y = "tab\there";
        }
    }
}
`

func parseSample(t *testing.T) *File {
	t.Helper()
	f, err := Parse(context.Background(), "Account.cs", []byte(sample))
	require.NoError(t, err)
	require.NotNil(t, f.Root)
	return f
}

func TestParse_Structure(t *testing.T) {
	f := parseSample(t)
	assert.Equal(t, KindCompilationUnit, f.Root.Kind)
	assert.False(t, f.HasErrors)

	classes := f.Root.FindAll(KindClass)
	require.Len(t, classes, 1)
	name := classes[0].ChildByField("name")
	require.NotNil(t, name)
	assert.Equal(t, "Account", name.Text())

	methods := f.Root.FindAll(KindMethod)
	require.Len(t, methods, 1)
	assert.Equal(t, 5, methods[0].Line())
	assert.Same(t, classes[0], methods[0].Ancestor(KindClass))

	body := methods[0].ChildByField("body")
	require.NotNil(t, body)
	stmts := body.NamedChildren()
	require.Len(t, stmts, 5, "comments are not statements")
	assert.Equal(t, KindExpressionStatement, stmts[0].Kind)
	assert.True(t, IsStatement(stmts[0]))
}

func TestEquivalent(t *testing.T) {
	f := parseSample(t)
	stmts := f.Root.FindAll(KindMethod)[0].ChildByField("body").NamedChildren()

	t.Run("ignores whitespace and comments", func(t *testing.T) {
		assert.True(t, Equivalent(stmts[0], stmts[1]))
	})
	t.Run("operators differ", func(t *testing.T) {
		assert.False(t, Equivalent(stmts[0], stmts[2]))
	})
	t.Run("nil handling", func(t *testing.T) {
		assert.True(t, Equivalent(nil, nil))
		assert.False(t, Equivalent(stmts[0], nil))
	})
}

func TestStringValue(t *testing.T) {
	f := parseSample(t)

	verbatim := f.Root.FindAll(KindVerbatimStringLiteral)
	require.Len(t, verbatim, 1)
	v, ok := StringValue(verbatim[0])
	require.True(t, ok)
	assert.Equal(t, `a"b`, v)

	regular := f.Root.FindAll(KindStringLiteral)
	require.Len(t, regular, 1)
	v, ok = StringValue(regular[0])
	require.True(t, ok)
	assert.Equal(t, "tab\there", v)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"x != null"`, Quote("x != null"))
	assert.Equal(t, `"say \"hi\"\n"`, Quote("say \"hi\"\n"))
	assert.Equal(t, `"a\\b"`, Quote(`a\b`))
}

func TestIndentation(t *testing.T) {
	f := parseSample(t)
	stmts := f.Root.FindAll(KindMethod)[0].ChildByField("body").NamedChildren()
	assert.Equal(t, "            ", Indentation(stmts[0]))
	assert.Equal(t, "\n", LineEnding(f))
}

func TestUnwrap(t *testing.T) {
	f, err := Parse(context.Background(), "u.cs", []byte(`class C { void M() { var a = ((b)); } }`))
	require.NoError(t, err)
	parens := f.Root.FindAll(KindParenthesized)
	require.NotEmpty(t, parens)
	inner := Unwrap(parens[0])
	assert.Equal(t, KindIdentifier, inner.Kind)
	assert.Equal(t, "b", inner.Text())
}

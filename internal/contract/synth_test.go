package contract

import (
	"context"
	"testing"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"
	"contractfix/internal/resolver"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exceptionsSource = `using System;

namespace Demo
{
    public class WidthException : ArgumentException
    {
        public WidthException(string message) { }
        public WidthException(string paramName) { }
    }

    public class QuietException : Exception
    {
        public QuietException(string message, Exception innerException) { }
    }

    public class BareException : Exception
    {
    }
}
`

// buildExceptionModel extracts exceptionsSource. WidthException declares two
// constructors that differ only in parameter names, so they are given distinct ids.
func buildExceptionModel(t *testing.T) *symbols.Model {
	t.Helper()
	ext, err := extractor.NewExtractor("csharp")
	require.NoError(t, err)
	res, err := ext.ExtractFromSource(context.Background(), "Exceptions.cs", []byte(exceptionsSource))
	require.NoError(t, err)

	g := graph.NewGraph()
	for _, u := range res.Units {
		if _, dup := g.Nodes[u.ID]; dup && u.UnitType == extractor.UnitConstructor {
			u.ID += "#2"
		}
		g.AddUnit(u)
	}
	resolver.NewDefaultChain().Run(g)
	m, err := symbols.New(g)
	require.NoError(t, err)
	return m
}

func condition(t *testing.T, stmt string) *syntax.Node {
	t.Helper()
	ci, ok := ClassifyInvocation(parseCall(t, stmt), DefaultDialect())
	require.True(t, ok)
	return ci.Condition
}

func TestSynthesizeThrowExpression(t *testing.T) {
	m := buildExceptionModel(t)
	cond := condition(t, `Contract.Requires(x != null);`)
	msgCall, ok := ClassifyInvocation(parseCall(t, `Contract.Requires(x != null, "x is missing");`), DefaultDialect())
	require.True(t, ok)

	tests := []struct {
		name      string
		typ       *symbols.NamedType
		message   *syntax.Node
		parameter string
		want      string
	}{
		{
			name:      "argument null with parameter",
			typ:       m.WellKnownType("System.ArgumentNullException"),
			parameter: "x",
			want:      "new ArgumentNullException(nameof(x))",
		},
		{
			name:      "argument null with parameter and message",
			typ:       m.WellKnownType("System.ArgumentNullException"),
			message:   msgCall.Message,
			parameter: "x",
			want:      `new ArgumentNullException(nameof(x), "x is missing")`,
		},
		{
			name:      "argument exception puts message first",
			typ:       m.WellKnownType("System.ArgumentException"),
			parameter: "x",
			want:      `new ArgumentException("x != null", nameof(x))`,
		},
		{
			name:      "message constructor blocks the parameter-only one",
			typ:       typeNamed(t, m, "Demo", "WidthException"),
			parameter: "x",
			want:      `new WidthException("x != null")`,
		},
		{
			name: "message only",
			typ:  m.WellKnownType("System.InvalidOperationException"),
			want: `new InvalidOperationException("x != null")`,
		},
		{
			name:    "message and inner exception",
			typ:     typeNamed(t, m, "Demo", "QuietException"),
			message: msgCall.Message,
			want:    `new QuietException("x is missing", (Exception)null)`,
		},
		{
			name: "parameterless",
			typ:  typeNamed(t, m, "Demo", "BareException"),
			want: "new BareException()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.typ)
			c := SynthesizeThrowExpression(m, tt.typ, cond, tt.message, tt.parameter)
			assert.Equal(t, tt.want, c.String())
			assert.NotNil(t, c.Constructor)
		})
	}
}

func TestSynthesizeThrowExpression_ConstructorSlots(t *testing.T) {
	m := buildExceptionModel(t)
	cond := condition(t, `Contract.Requires(x != null);`)
	c := SynthesizeThrowExpression(m, typeNamed(t, m, "Demo", "WidthException"), cond, nil, "x")

	require.NotNil(t, c.Constructor)
	params := c.Constructor.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "message", params[0].Name)
	assert.Equal(t, []string{`"x != null"`}, c.Arguments)
}

func TestSynthesizeThrowExpression_UnknownType(t *testing.T) {
	m := buildExceptionModel(t)
	c := SynthesizeThrowExpression(m, nil, condition(t, `Contract.Requires(x != null);`), nil, "x")
	assert.Nil(t, c.Constructor)
	assert.Empty(t, c.String())
}

func TestExtractParameter(t *testing.T) {
	params := []string{"x", "y", "n"}
	tests := []struct {
		stmt string
		want string
	}{
		{`Contract.Requires(x != null);`, "x"},
		{`Contract.Requires(x != null && x.Length > 0);`, "x"},
		{`Contract.Requires(x != y);`, ""},
		{`Contract.Requires(Count > 0);`, ""},
		{`Contract.Requires(n >= 0 && n < Count);`, "n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractParameter(condition(t, tt.stmt), params), tt.stmt)
	}
	assert.Empty(t, ExtractParameter(nil, params))
}

func TestNegateCondition(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{`Contract.Requires(x != null);`, "x == null"},
		{`Contract.Requires(x == null);`, "x != null"},
		{`Contract.Requires(n > 0);`, "n <= 0"},
		{`Contract.Requires(n >= 0);`, "n < 0"},
		{`Contract.Requires(n < 10);`, "n >= 10"},
		{`Contract.Requires(n <= 10);`, "n > 10"},
		{`Contract.Requires(x != null && y != null);`, "!(x != null && y != null)"},
		{`Contract.Requires(IsValid(x));`, "!IsValid(x)"},
		{`Contract.Requires(enabled);`, "!enabled"},
		{`Contract.Requires((n > 0));`, "!(n > 0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NegateCondition(condition(t, tt.stmt)), tt.stmt)
	}
}

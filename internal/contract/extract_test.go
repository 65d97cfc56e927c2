package contract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prologue = `            Contract.Requires(x != null);
            TurboContract.Requires(y != null);
            Debug.Assert(n > 0);
            Log(x);
            Contract.Requires(n < 10);
            if (n == 3) { return; }
            Contract.Requires(n != 4);`

func TestExtractLeadingPreconditions(t *testing.T) {
	body := parseBody(t, prologue)
	d := DefaultDialect()

	tests := []struct {
		name  string
		kinds ExtractKinds
		want  []string
	}{
		{"default", ExtractDefault, []string{
			"Contract.Requires(x != null);",
			"Contract.Requires(n < 10);",
		}},
		{"replacement", ExtractReplacementRequires, []string{
			"Contract.Requires(x != null);",
			"TurboContract.Requires(y != null);",
			"Contract.Requires(n < 10);",
		}},
		{"all", ExtractAll, []string{
			"Contract.Requires(x != null);",
			"TurboContract.Requires(y != null);",
			"Debug.Assert(n > 0);",
			"Contract.Requires(n < 10);",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statementTexts(ExtractLeadingPreconditions(body, d, tt.kinds))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("preconditions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractLeadingPreconditions_Empty(t *testing.T) {
	assert.Empty(t, ExtractLeadingPreconditions(nil, DefaultDialect(), ExtractAll))

	body := parseBody(t, `            var a = 1;
            Contract.Requires(x != null);`)
	assert.Empty(t, ExtractLeadingPreconditions(body, DefaultDialect(), ExtractAll))
}

func TestParseExtractKinds(t *testing.T) {
	for _, k := range []ExtractKinds{ExtractDefault, ExtractReplacementRequires, ExtractDebugAssert, ExtractAll} {
		got, err := ParseExtractKinds(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseExtractKinds("everything")
	assert.Error(t, err)
	assert.True(t, ExtractAll.Has(ExtractDebugAssert))
	assert.False(t, ExtractDefault.Has(ExtractDebugAssert))
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	for _, r := range All() {
		id, err := Parse(string(r.ID))
		require.NoError(t, err)
		assert.Equal(t, r.ID, id)

		id, err = Parse(r.Name)
		require.NoError(t, err)
		assert.Equal(t, r.ID, id)
	}

	id, err := Parse("cr02")
	require.NoError(t, err)
	assert.Equal(t, RequiresGenericToThrow, id)

	_, err = Parse("CR12")
	assert.Error(t, err)
}

func TestEnabled(t *testing.T) {
	set, err := Enabled([]string{"CR03"}, nil)
	require.NoError(t, err)
	assert.True(t, set.Has(PullFromBase))
	assert.False(t, set.Has(ContractToDebugAssert))
	assert.Len(t, set.IDs(), len(All())-1)

	set, err = Enabled(nil, []string{"CR01", "nameof"})
	require.NoError(t, err)
	assert.Equal(t, []ID{PullFromBase, NameOf}, set.IDs())

	_, err = Enabled([]string{"bogus"}, nil)
	assert.Error(t, err)
}

func TestSortFindings(t *testing.T) {
	fs := []Finding{
		{Rule: NameOf, Path: "b.cs", Line: 1, Column: 1},
		{Rule: RequiresGenericToThrow, Path: "a.cs", Line: 3, Column: 5},
		{Rule: PullFromBase, Path: "a.cs", Line: 3, Column: 5},
		{Rule: NameOf, Path: "a.cs", Line: 1, Column: 9},
	}
	SortFindings(fs)
	assert.Equal(t, "a.cs:1:9: CR14 ", fs[0].String())
	assert.Equal(t, PullFromBase, fs[1].Rule)
	assert.Equal(t, RequiresGenericToThrow, fs[2].Rule)
	assert.Equal(t, "b.cs", fs[3].Path)
	assert.False(t, fs[0].Fixable())
}

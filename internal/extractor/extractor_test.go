package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractFromFile(t *testing.T) {
	testFile := filepath.Join("testdata", "sample.cs")

	ext, err := NewExtractor("csharp")
	require.NoError(t, err)

	res, err := ext.ExtractFromFile(context.Background(), testFile)
	require.NoError(t, err)
	require.NotNil(t, res.File)
	units := res.Units

	unitsByName := make(map[string]*CodeUnit)
	for _, unit := range units {
		if _, dup := unitsByName[unit.Name]; !dup {
			unitsByName[unit.Name] = unit
		}
	}

	t.Run("Overall Count", func(t *testing.T) {
		// IRepository, IRepository.Save, RepositoryContract, its Save,
		// MemoryRepository, its ctor, its Save, Entry
		assert.Equal(t, 8, len(units))
	})

	t.Run("Namespace", func(t *testing.T) {
		for _, unit := range units {
			assert.Equal(t, "Sample.Contracts", unit.Package)
			assert.Equal(t, "csharp", unit.Language)
		}
	})

	t.Run("Interface", func(t *testing.T) {
		unit, ok := unitsByName["IRepository"]
		require.True(t, ok)
		assert.Equal(t, UnitInterface, unit.UnitType)
		assert.Equal(t, "Stores values by key.", unit.Description)
		assert.Equal(t, "Sample.Contracts:IRepository`1", unit.ID)

		details, ok := unit.Details.(TypeDetails)
		require.True(t, ok)
		assert.Equal(t, []string{"T"}, details.TypeParams)
		assert.ElementsMatch(t, []string{"System", "System.Diagnostics.Contracts"}, details.Usings)

		attr, ok := FindAttribute(details.Attributes, "ContractClass")
		require.True(t, ok)
		require.Len(t, attr.Args, 1)
		require.NotNil(t, attr.Args[0].TypeOf)
		assert.Equal(t, "RepositoryContract", attr.Args[0].TypeOf.Name)
		assert.True(t, attr.Args[0].TypeOf.IsUnbound())

		var link *Relation
		for i := range unit.Relations {
			if unit.Relations[i].Kind == RelationContractClass {
				link = &unit.Relations[i]
			}
		}
		require.NotNil(t, link)
		assert.Equal(t, "RepositoryContract<>", link.Target)
	})

	t.Run("Contract Class", func(t *testing.T) {
		unit, ok := unitsByName["RepositoryContract"]
		require.True(t, ok)
		details := unit.Details.(TypeDetails)
		assert.True(t, details.HasModifier("abstract"))
		assert.True(t, details.HasModifier("internal"))
		require.Len(t, details.Bases, 1)
		assert.Equal(t, "IRepository<T>", details.Bases[0].String())

		kinds := map[string]string{}
		for _, rel := range unit.Relations {
			kinds[rel.Kind] = rel.Target
		}
		assert.Equal(t, "IRepository<>", kinds[RelationContractClassFor])
		assert.Equal(t, "IRepository<T>", kinds[RelationBase])
	})

	t.Run("Explicit Implementation", func(t *testing.T) {
		var explicit *CodeUnit
		for _, unit := range units {
			if d, ok := unit.Details.(MethodDetails); ok && d.ExplicitInterface != nil {
				explicit = unit
			}
		}
		require.NotNil(t, explicit)
		d := explicit.Details.(MethodDetails)
		assert.Equal(t, "Sample.Contracts:RepositoryContract`1", d.Owner)
		assert.Equal(t, "IRepository<T>", d.ExplicitInterface.String())
		assert.True(t, d.HasBody)
		assert.Equal(t, "IRepository<T>.Save(string, T)", d.Signature)
	})

	t.Run("Methods", func(t *testing.T) {
		var save *CodeUnit
		for _, unit := range units {
			if d, ok := unit.Details.(MethodDetails); ok && unit.Name == "Save" && d.Owner == "Sample.Contracts:MemoryRepository`1" {
				save = unit
			}
		}
		require.NotNil(t, save)
		d := save.Details.(MethodDetails)
		assert.True(t, d.HasModifier("virtual"))
		assert.Equal(t, "Save stores the value.", save.Description)
		require.Len(t, d.Parameters, 2)
		assert.Equal(t, "key", d.Parameters[0].Name)
		assert.Equal(t, "string", d.Parameters[0].Type.String())
		assert.Equal(t, "T", d.Parameters[1].Type.String())

		ctor, ok := unitsByName["MemoryRepository"]
		require.True(t, ok)
		assert.Equal(t, UnitClass, ctor.UnitType, "type is extracted before its constructor")
	})

	t.Run("Nested Type", func(t *testing.T) {
		unit, ok := unitsByName["Entry"]
		require.True(t, ok)
		details := unit.Details.(TypeDetails)
		assert.Equal(t, "MemoryRepository`1.Entry", details.Qualified)
		assert.Equal(t, "Sample.Contracts:MemoryRepository`1", details.Container)
	})
}

func TestExtractFromSource_FileScopedNamespace(t *testing.T) {
	ext, err := NewExtractor("csharp")
	require.NoError(t, err)

	src := []byte("namespace Flat.Ns;\n\npublic class Widget\n{\n    public void Spin() { }\n}\n")
	res, err := ext.ExtractFromSource(context.Background(), "Widget.cs", src)
	require.NoError(t, err)
	require.Len(t, res.Units, 2)
	for _, u := range res.Units {
		assert.Equal(t, "Flat.Ns", u.Package)
	}
	assert.Equal(t, "Flat.Ns:Widget", res.Units[0].ID)
}

func TestNewExtractor_Unsupported(t *testing.T) {
	_, err := NewExtractor("cobol")
	assert.Error(t, err)
}

func TestParseTypeRefString(t *testing.T) {
	ref := ParseTypeRefString("System.Collections.Generic.Dictionary<string, List<int>>")
	assert.Equal(t, "System.Collections.Generic", ref.Qualifier)
	assert.Equal(t, "Dictionary", ref.Name)
	require.Len(t, ref.Args, 2)
	assert.Equal(t, "List<int>", ref.Args[1].String())

	open := ParseTypeRefString("Foo<,>")
	assert.True(t, open.IsUnbound())
	assert.Equal(t, 2, open.GenericArity())
	assert.Equal(t, "Foo<,>", open.String())

	assert.Equal(t, "string", ParseTypeRefString("System.String").Canonical())
	assert.Equal(t, "int?[]", ParseTypeRefString("int?[]").String())
}

func TestTypeRef_Substitute(t *testing.T) {
	ref := ParseTypeRefString("IDictionary<TKey, List<TValue>>")
	out := ref.Substitute(map[string]TypeRef{
		"TKey":   {Name: "string"},
		"TValue": {Name: "int"},
	})
	assert.Equal(t, "IDictionary<string, List<int>>", out.String())
	assert.Equal(t, "IDictionary<TKey, List<TValue>>", ref.String(), "original is untouched")
}

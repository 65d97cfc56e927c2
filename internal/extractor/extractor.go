package extractor

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"contractfix/internal/syntax"
)

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// FileResult is a parsed file together with the units declared in it.
type FileResult struct {
	File  *syntax.File
	Units []*CodeUnit
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "csharp", "cs", "c#":
		langExt = &CSharpExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: langExt.Language()}, nil
}

// Extensions returns the file extensions handled by the extractor.
func (e *Extractor) Extensions() []string { return e.langExtractor.Extensions() }

// ExtractFromFile parses a single source file and extracts all relevant code units.
func (e *Extractor) ExtractFromFile(ctx context.Context, filepath string) (*FileResult, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.ExtractFromSource(ctx, filepath, sourceCode)
}

// ExtractFromSource parses source held in memory.
func (e *Extractor) ExtractFromSource(ctx context.Context, filepath string, sourceCode []byte) (*FileResult, error) {
	file, err := syntax.Parse(ctx, filepath, sourceCode)
	if err != nil {
		return nil, err
	}

	kinds := e.langExtractor.Kinds()
	fileNamespace := detectFileScopedNamespace(file.Root)

	var codeUnits []*CodeUnit
	file.Root.Walk(func(n *syntax.Node) bool {
		if !slices.Contains(kinds, n.Kind) {
			return true
		}
		if unit := e.langExtractor.ExtractUnit(n, filepath, namespaceOf(n, fileNamespace)); unit != nil {
			codeUnits = append(codeUnits, unit)
		}
		return true
	})

	return &FileResult{File: file, Units: codeUnits}, nil
}

// detectFileScopedNamespace returns the name in "namespace X;" if present.
func detectFileScopedNamespace(root *syntax.Node) string {
	ns := root.FirstChildOfKind(syntax.KindFileScopedNamespace)
	if ns == nil {
		return ""
	}
	return namespaceName(ns)
}

func namespaceName(ns *syntax.Node) string {
	name := ns.ChildByField("name")
	if name == nil {
		name = ns.FirstChildOfKind(syntax.KindIdentifier, syntax.KindQualifiedName)
	}
	return strings.Join(strings.Fields(name.Text()), "")
}

// namespaceOf joins the names of every namespace block enclosing n.
func namespaceOf(n *syntax.Node, fileNamespace string) string {
	var parts []string
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Is(syntax.KindNamespace) {
			parts = append([]string{namespaceName(p)}, parts...)
		}
	}
	if fileNamespace != "" {
		parts = append([]string{fileNamespace}, parts...)
	}
	return strings.Join(parts, ".")
}

package extractor

import "contractfix/internal/syntax"

// CodeUnit is the universal container for any extracted code symbol.
type CodeUnit struct {
	ID          string      `json:"id"`
	Filepath    string      `json:"filepath"`
	Package     string      `json:"package"` // enclosing namespace
	Language    string      `json:"language"`
	StartLine   int         `json:"start_line"`
	EndLine     int         `json:"end_line"`
	UnitType    string      `json:"unit_type"` // e.g., "class", "interface", "method", "constructor"
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Details     interface{} `json:"details"` // Language-specific details
	Relations   []Relation  `json:"relations,omitempty"`

	// Node is the declaring syntax. It is not serialised.
	Node *syntax.Node `json:"-"`
}

// Relation is a name-based reference from a unit to another symbol, resolved later by the graph.
type Relation struct {
	Target     string   `json:"target"`
	Kind       string   `json:"kind"`
	Resolver   string   `json:"resolver,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Evidence   Evidence `json:"evidence,omitempty"`
	Ref        *TypeRef `json:"ref,omitempty"`
}

// Evidence points at the source that produced a relation.
type Evidence struct {
	Filepath  string `json:"filepath,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	Language() string
	Extensions() []string
	// Kinds lists the node kinds ExtractUnit wants to see.
	Kinds() []string
	ExtractUnit(node *syntax.Node, filepath string, namespace string) *CodeUnit
}

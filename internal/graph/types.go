package graph

type RelationKind string

const (
	RelationBase             RelationKind = "base"
	RelationContractClass    RelationKind = "contract_class"
	RelationContractClassFor RelationKind = "contract_class_for"
	RelationBelongsTo        RelationKind = "belongs_to"
)

type UnresolvedReason string

const (
	ReasonNoCandidate   UnresolvedReason = "no_candidate"
	ReasonAmbiguous     UnresolvedReason = "ambiguous"
	ReasonLinkMismatch  UnresolvedReason = "link_mismatch"
	ReasonSourceMissing UnresolvedReason = "source_missing"
	ReasonLowConfidence UnresolvedReason = "low_confidence"
)

type SymbolMetadata struct {
	Signature string `json:"signature,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Qualified string `json:"qualified,omitempty"`
}

// Symbol is the graph-domain node payload used for snapshots.
// It is intentionally decoupled from extractor.CodeUnit.
type Symbol struct {
	ID          string         `json:"id"`
	Filepath    string         `json:"filepath"`
	Package     string         `json:"package"`
	Language    string         `json:"language"`
	StartLine   int            `json:"start_line"`
	EndLine     int            `json:"end_line"`
	UnitType    string         `json:"unit_type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parts       int            `json:"parts,omitempty"`
	Metadata    SymbolMetadata `json:"metadata,omitempty"`
	Relations   []Relation     `json:"relations,omitempty"`
}

type Evidence struct {
	Filepath  string `json:"filepath,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

type Relation struct {
	Target     string       `json:"target"`
	Kind       RelationKind `json:"kind"`
	Resolver   string       `json:"resolver,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
	Evidence   Evidence     `json:"evidence,omitempty"`
}

// UnresolvedRelation is a relation whose target could not be linked to a node.
type UnresolvedRelation struct {
	From     string           `json:"from"`
	Target   string           `json:"target"`
	Kind     RelationKind     `json:"kind"`
	Reason   UnresolvedReason `json:"reason"`
	Evidence Evidence         `json:"evidence,omitempty"`
}

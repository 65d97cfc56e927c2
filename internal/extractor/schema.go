package extractor

import "slices"

// Unit types produced by the C# extractor.
const (
	UnitClass       = "class"
	UnitInterface   = "interface"
	UnitStruct      = "struct"
	UnitRecord      = "record"
	UnitMethod      = "method"
	UnitConstructor = "constructor"
)

// Relation kinds emitted by the C# extractor.
const (
	RelationBase             = "base"
	RelationContractClass    = "contract_class"
	RelationContractClassFor = "contract_class_for"
	RelationBelongsTo        = "belongs_to"
)

// TypeDetails contains specific information about a class, struct, record or interface.
type TypeDetails struct {
	Modifiers  []string    `json:"modifiers,omitempty"`
	TypeParams []string    `json:"type_params,omitempty"`
	Bases      []TypeRef   `json:"bases,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Usings     []string    `json:"usings,omitempty"`
	Container  string      `json:"container,omitempty"` // TypeKey of the enclosing type for nested types
	Qualified  string      `json:"qualified"`           // Outer.Inner without namespace
}

// MethodDetails contains specific information about a method or constructor.
type MethodDetails struct {
	Owner             string      `json:"owner"` // TypeKey of the containing type
	Modifiers         []string    `json:"modifiers,omitempty"`
	TypeParams        []string    `json:"type_params,omitempty"`
	Parameters        []Param     `json:"parameters"`
	Attributes        []Attribute `json:"attributes,omitempty"`
	ExplicitInterface *TypeRef    `json:"explicit_interface,omitempty"`
	HasBody           bool        `json:"has_body"`
	Signature         string      `json:"signature"`
}

// Param represents a single method parameter.
type Param struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Attribute is an attribute applied to a declaration, with the "Attribute" suffix removed.
type Attribute struct {
	Name string         `json:"name"`
	Args []AttributeArg `json:"args,omitempty"`
}

// AttributeArg is one attribute argument; TypeOf is set for typeof(...) arguments.
type AttributeArg struct {
	Name   string   `json:"name,omitempty"`
	Text   string   `json:"text"`
	TypeOf *TypeRef `json:"typeof,omitempty"`
}

// HasModifier reports whether mod is present.
func (d MethodDetails) HasModifier(mod string) bool {
	return slices.Contains(d.Modifiers, mod)
}

// HasModifier reports whether mod is present.
func (d TypeDetails) HasModifier(mod string) bool {
	return slices.Contains(d.Modifiers, mod)
}

// FindAttribute returns the first attribute with the given name.
func FindAttribute(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

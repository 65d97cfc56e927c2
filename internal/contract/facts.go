package contract

import (
	"contractfix/internal/extractor"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"
)

// SymbolFacts is the symbol information the contract rules consult.
// *symbols.Model implements it.
type SymbolFacts interface {
	ContractHolders(t *symbols.NamedType) []*symbols.NamedType
	LookupType(ref extractor.TypeRef, scope *symbols.NamedType) *symbols.NamedType
	WellKnownType(fullName string) *symbols.NamedType
	MethodOf(decl *syntax.Node) *symbols.Method
}

var _ SymbolFacts = (*symbols.Model)(nil)

package contract

import (
	"fmt"
	"strings"

	"contractfix/internal/syntax"
)

// ExtractKinds selects which non-legacy statements count as preconditions.
// Legacy Requires calls always count.
type ExtractKinds uint8

const (
	ExtractReplacementRequires ExtractKinds = 1 << iota
	ExtractDebugAssert

	ExtractDefault ExtractKinds = 0
	ExtractAll                  = ExtractReplacementRequires | ExtractDebugAssert
)

// Has reports whether every flag in k2 is set.
func (k ExtractKinds) Has(k2 ExtractKinds) bool { return k&k2 == k2 }

func (k ExtractKinds) String() string {
	switch k {
	case ExtractDefault:
		return "default"
	case ExtractAll:
		return "all"
	case ExtractReplacementRequires:
		return "replacement"
	case ExtractDebugAssert:
		return "debug"
	}
	return fmt.Sprintf("ExtractKinds(%d)", uint8(k))
}

// ParseExtractKinds parses default, replacement, debug or all.
func ParseExtractKinds(s string) (ExtractKinds, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ExtractDefault, nil
	case "replacement":
		return ExtractReplacementRequires, nil
	case "debug":
		return ExtractDebugAssert, nil
	case "all":
		return ExtractAll, nil
	}
	return 0, fmt.Errorf("unknown precondition kind %q", s)
}

// Precondition is a statement from a method prologue together with its classified call.
type Precondition struct {
	Statement  *syntax.Node
	Invocation *ContractInvocation
}

// ExtractLeadingPreconditions scans the expression statements at the top of body and
// returns those that are preconditions of the selected kinds, in order. The scan stops
// at the first statement that is not an expression statement. A nil body yields nothing.
func ExtractLeadingPreconditions(body *syntax.Node, d Dialect, kinds ExtractKinds) []Precondition {
	if !body.Is(syntax.KindBlock) {
		return nil
	}
	var out []Precondition
	for _, stmt := range body.NamedChildren() {
		if stmt.Is(syntax.KindComment) {
			continue
		}
		if !stmt.Is(syntax.KindExpressionStatement) {
			break
		}
		if ci, ok := ClassifyStatement(stmt, d); ok && isPrecondition(ci, kinds) {
			out = append(out, Precondition{Statement: stmt, Invocation: ci})
		}
	}
	return out
}

func isPrecondition(ci *ContractInvocation, kinds ExtractKinds) bool {
	switch ci.Kind {
	case KindLegacy:
		return ci.IsRequires()
	case KindReplacement:
		return kinds.Has(ExtractReplacementRequires) && ci.IsRequires()
	case KindDebug:
		return kinds.Has(ExtractDebugAssert) && ci.MethodName == "Assert"
	}
	return false
}

// Statements returns the statement nodes of ps.
func Statements(ps []Precondition) []*syntax.Node {
	out := make([]*syntax.Node, len(ps))
	for i, p := range ps {
		out[i] = p.Statement
	}
	return out
}

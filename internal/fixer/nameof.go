package fixer

import (
	"context"

	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"
)

// nameOf replaces string literals naming a parameter of the enclosing member with nameof.
type nameOf struct{}

func (nameOf) Rule() rules.ID { return rules.NameOf }

func (nameOf) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, arg := range fc.File.Root.FindAll(syntax.KindArgument) {
		lit := lastNamedChild(arg)
		if !syntax.IsStringLiteral(lit) {
			continue
		}
		v, ok := syntax.StringValue(lit)
		if !ok || v == "" {
			continue
		}
		for _, p := range parameterNames(enclosingMember(arg)) {
			if p != v {
				continue
			}
			out = append(out, fc.finding(rules.NameOf, lit, "Can be replaced with nameof("+p+")",
				rewrite.Replace(lit, "nameof("+p+")")))
			break
		}
	}
	return out, nil
}

func lastNamedChild(n *syntax.Node) *syntax.Node {
	named := n.NamedChildren()
	if len(named) == 0 {
		return nil
	}
	return named[len(named)-1]
}

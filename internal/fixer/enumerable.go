package fixer

import (
	"context"

	"contractfix/internal/contract"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"
)

var quantifiers = map[string]string{"ForAll": "All", "Exists": "Any"}

// forAllToEnumerable rewrites Contract.ForAll(c, p) and Contract.Exists(c, p) as LINQ calls.
type forAllToEnumerable struct{}

func (forAllToEnumerable) Rule() rules.ID { return rules.ForAllToEnumerable }

func (forAllToEnumerable) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.contractCalls() {
		linq, ok := quantifiers[ci.MethodName]
		if !ok || ci.Kind != contract.KindLegacy || len(ci.Arguments) != 2 {
			continue
		}
		if fc.isContractClass(ci.Call) {
			continue
		}
		source := ci.Arguments[0].Expr
		receiver := source.Text()
		if !syntax.IsPrimary(source) {
			receiver = "(" + receiver + ")"
		}
		text := receiver + "." + linq + "(" + ci.Arguments[1].Expr.Text() + ")"
		out = append(out, fc.finding(rules.ForAllToEnumerable, ci.Call, "",
			withUsing(ci.Call, linqNamespace, rewrite.Replace(ci.Call, text))...))
	}
	return out, nil
}

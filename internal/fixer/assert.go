package fixer

import (
	"context"
	"strings"

	"contractfix/internal/contract"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"
)

// contractToDebugAssert turns Contract.Requires, Assert and Assume into Debug.Assert.
type contractToDebugAssert struct{}

func (contractToDebugAssert) Rule() rules.ID { return rules.ContractToDebugAssert }

func (contractToDebugAssert) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.contractCalls() {
		if ci.Kind != contract.KindLegacy || ci.IsGeneric() || !assertionMethods[ci.MethodName] {
			continue
		}
		if fc.isContractClass(ci.Call) {
			continue
		}
		args := []string{ci.Condition.Text(), syntax.Quote(ci.Condition.Text())}
		if ci.Message != nil {
			args = append(args, ci.Message.Text())
		}
		text := fc.Options.Dialect.Debug + ".Assert(" + strings.Join(args, ", ") + ")"
		out = append(out, fc.finding(rules.ContractToDebugAssert, ci.Call, "",
			withUsing(ci.Call, diagnosticsNamespace, rewrite.Replace(ci.Call, text))...))
	}
	return out, nil
}

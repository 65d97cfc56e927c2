package fixer

import (
	"context"

	"contractfix/internal/contract"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"
)

// debugAssertToReplacement points Debug.Assert calls at the replacement class.
type debugAssertToReplacement struct{}

func (debugAssertToReplacement) Rule() rules.ID { return rules.DebugAssertToReplace }

func (debugAssertToReplacement) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	d := fc.Options.Dialect
	var out []rules.Finding
	for _, call := range fc.invocations() {
		ct, ok := contract.ParseCallTarget(call)
		if !ok || ct.ClassName != d.Debug || ct.MethodName != "Assert" {
			continue
		}
		// The replacement class itself is built on Debug.Assert.
		if typeName(enclosingType(call)) == d.Replacement {
			continue
		}
		out = append(out, fc.finding(rules.DebugAssertToReplace, call,
			"Debug.Assert can be replaced with "+d.Replacement+".Assert",
			fc.retarget(ct)...))
	}
	return out, nil
}

// contractToReplacement points legacy Contract calls at the replacement class.
type contractToReplacement struct{}

func (contractToReplacement) Rule() rules.ID { return rules.ContractToReplacement }

func (contractToReplacement) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	d := fc.Options.Dialect
	var out []rules.Finding
	for _, call := range fc.invocations() {
		ct, ok := contract.ParseCallTarget(call)
		if !ok || ct.ClassName != d.Legacy {
			continue
		}
		if ct.MethodName == "Requires" && len(ct.TypeArgs) > 0 {
			continue
		}
		msg := d.Legacy + "." + ct.MethodName + " can be replaced with " + d.Replacement + "." + ct.MethodName
		if fc.isContractClass(call) {
			msg += " (inside a contract class)"
		}
		out = append(out, fc.finding(rules.ContractToReplacement, call, msg, fc.retarget(ct)...))
	}
	return out, nil
}

func (fc *FileContext) retarget(ct contract.CallTarget) []rewrite.Edit {
	return withUsing(ct.ClassExpr, fc.Options.ReplacementNamespace,
		rewrite.Replace(ct.ClassExpr, fc.Options.Dialect.Replacement))
}

// replacementAssertions yields the replacement-class Requires, Assert and Assume calls.
func (fc *FileContext) replacementAssertions() []*contract.ContractInvocation {
	var out []*contract.ContractInvocation
	for _, ci := range fc.contractCalls() {
		if ci.Kind == contract.KindReplacement && !ci.IsGeneric() && assertionMethods[ci.MethodName] {
			out = append(out, ci)
		}
	}
	return out
}

// beforeClosingParen inserts text just before the ')' of the argument list.
func beforeClosingParen(list *syntax.Node, text string) rewrite.Edit {
	return rewrite.Insert(list.End-1, text)
}

// extendWithConditionString adds the condition text to single-argument calls.
type extendWithConditionString struct{}

func (extendWithConditionString) Rule() rules.ID { return rules.ExtendConditionString }

func (extendWithConditionString) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.replacementAssertions() {
		if len(ci.Arguments) != 1 || ci.ArgumentList == nil {
			continue
		}
		text := ", conditionString: " + syntax.Quote(ci.Condition.Text())
		out = append(out, fc.finding(rules.ExtendConditionString, ci.Call, "",
			beforeClosingParen(ci.ArgumentList, text)))
	}
	return out, nil
}

// extendedMessage adds the condition text after an explicit message.
type extendedMessage struct{}

func (extendedMessage) Rule() rules.ID { return rules.ExtendedMessage }

func (extendedMessage) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.replacementAssertions() {
		if len(ci.Arguments) != 2 || ci.Message == nil || ci.ArgumentList == nil {
			continue
		}
		if isLiteral(ci.Condition) {
			continue
		}
		if v, ok := syntax.StringValue(ci.Message); ok && v == ci.Condition.Text() {
			continue
		}
		out = append(out, fc.finding(rules.ExtendedMessage, ci.Call, "",
			beforeClosingParen(ci.ArgumentList, ", "+syntax.Quote(ci.Condition.Text()))))
	}
	return out, nil
}

// conditionStringSync rewrites condition strings that drifted from their condition.
type conditionStringSync struct{}

func (conditionStringSync) Rule() rules.ID { return rules.ConditionStringSync }

func (conditionStringSync) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.replacementAssertions() {
		if ci.ConditionText == nil || !syntax.IsStringLiteral(ci.ConditionText) || ci.ConditionMatchesText() {
			continue
		}
		out = append(out, fc.finding(rules.ConditionStringSync, ci.ConditionText, "",
			rewrite.Replace(ci.ConditionText, syntax.Quote(ci.Condition.Text()))))
	}
	return out, nil
}

func isLiteral(n *syntax.Node) bool {
	n = syntax.Unwrap(n)
	return n != nil && (syntax.IsStringLiteral(n) || n.Is("boolean_literal", "null_literal",
		"integer_literal", "real_literal", "character_literal", syntax.KindRawStringLiteral))
}

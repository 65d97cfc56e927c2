package fixer

import (
	"context"

	"contractfix/internal/contract"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"
)

var removableMethods = map[string]bool{
	"EndContractBlock": true,
	"Ensures":          true,
	"EnsuresOnThrow":   true,
	"Invariant":        true,
}

// eliminateContractCalls removes contract calls that have no runtime counterpart.
type eliminateContractCalls struct{}

func (eliminateContractCalls) Rule() rules.ID { return rules.EliminateContractCalls }

func (eliminateContractCalls) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, call := range fc.invocations() {
		ct, ok := contract.ParseCallTarget(call)
		if !ok || ct.ClassName != fc.Options.Dialect.Legacy || len(ct.TypeArgs) > 0 || !removableMethods[ct.MethodName] {
			continue
		}
		stmt := call.Parent
		if !stmt.Is(syntax.KindExpressionStatement) {
			continue
		}
		if isInvariantMethod(stmt) || fc.isContractClass(stmt) {
			continue
		}
		out = append(out, fc.finding(rules.EliminateContractCalls, stmt, "", rewrite.DeleteNode(stmt)))
	}
	return out, nil
}

// eliminateContractClass removes types that only hold contracts for another type.
type eliminateContractClass struct{}

func (eliminateContractClass) Rule() rules.ID { return rules.EliminateContractClass }

func (eliminateContractClass) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, decl := range fc.File.Root.FindAll(syntax.TypeDeclarationKinds...) {
		if !hasAttribute(decl, attrContractClassFor) {
			continue
		}
		at := decl.ChildByField("name")
		if at == nil {
			at = decl
		}
		out = append(out, fc.finding(rules.EliminateContractClass, at, "", rewrite.DeleteNode(decl)))
	}
	return out, nil
}

// eliminateInvariantMethods removes methods marked ContractInvariantMethod.
type eliminateInvariantMethods struct{}

func (eliminateInvariantMethods) Rule() rules.ID { return rules.EliminateInvariants }

func (eliminateInvariantMethods) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, decl := range fc.File.Root.FindAll(syntax.KindMethod) {
		if !hasAttribute(decl, attrContractInvariant) {
			continue
		}
		at := decl.ChildByField("name")
		if at == nil {
			at = decl
		}
		out = append(out, fc.finding(rules.EliminateInvariants, at, "", rewrite.DeleteNode(decl)))
	}
	return out, nil
}

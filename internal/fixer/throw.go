package fixer

import (
	"context"

	"contractfix/internal/contract"
	"contractfix/internal/extractor"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"
)

// requiresToThrow lowers Contract.Requires<E>(cond) statements to if/throw.
type requiresToThrow struct{}

func (requiresToThrow) Rule() rules.ID { return rules.RequiresGenericToThrow }

func (requiresToThrow) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	var out []rules.Finding
	for _, ci := range fc.contractCalls() {
		if ci.Kind != contract.KindLegacy || !ci.IsRequires() || !ci.IsGeneric() {
			continue
		}
		stmt := ci.Call.Parent
		if !stmt.Is(syntax.KindExpressionStatement) || fc.isContractClass(stmt) {
			continue
		}

		member := enclosingMember(stmt)
		var scope *symbols.NamedType
		if member != nil && fc.Facts != nil {
			if m := fc.Facts.MethodOf(member); m != nil {
				scope = m.ContainingType()
			}
		}
		var exceptionType *symbols.NamedType
		if fc.Facts != nil {
			exceptionType = fc.Facts.LookupType(extractor.ParseTypeRef(ci.GenericExceptionType), scope)
		}
		if exceptionType == nil {
			out = append(out, fc.finding(rules.RequiresGenericToThrow, stmt,
				"Contract.Requires should be replaced with if..throw; exception type "+ci.GenericExceptionType.Text()+" could not be resolved"))
			continue
		}

		param := contract.ExtractParameter(ci.Condition, parameterNames(member))
		construction := contract.SynthesizeThrowExpression(fc.Facts, exceptionType, ci.Condition, ci.Message, param)
		out = append(out, fc.finding(rules.RequiresGenericToThrow, stmt, "",
			rewrite.Replace(stmt, ifThrow(stmt, ci.Condition, construction))))
	}
	return out, nil
}

func ifThrow(stmt, condition *syntax.Node, c contract.Construction) string {
	eol := syntax.LineEnding(stmt.File)
	indent := syntax.Indentation(stmt)
	return "if (" + contract.NegateCondition(condition) + ")" + eol +
		indent + rewrite.IndentUnit(stmt) + "throw " + c.String() + ";"
}

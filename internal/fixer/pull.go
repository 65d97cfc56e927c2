package fixer

import (
	"context"
	"strings"

	"contractfix/internal/contract"
	"contractfix/internal/extractor"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/symbols"
	"contractfix/internal/syntax"
)

// pullFromBase reports methods missing preconditions declared by the methods they
// override or implement, or by those methods' contract classes.
type pullFromBase struct{}

func (pullFromBase) Rule() rules.ID { return rules.PullFromBase }

func (a pullFromBase) Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error) {
	if fc.Facts == nil {
		return nil, nil
	}
	var out []rules.Finding
	for _, decl := range fc.File.Root.FindAll(syntax.KindMethod) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		missing, err := MissingPreconditions(ctx, fc.Facts, decl, fc.Options)
		if err != nil {
			return nil, err
		}
		if len(missing) == 0 {
			continue
		}
		at := decl.ChildByField("name")
		if at == nil {
			at = decl
		}
		body := extractor.MethodBody(decl)
		out = append(out, fc.finding(rules.PullFromBase, at, pullMessage(missing),
			rewrite.InsertStatements(body, contract.Statements(missing))))
	}
	return out, nil
}

// MissingPreconditions returns the preconditions decl should repeat from its base methods
// and their contract holders, in insertion order.
func MissingPreconditions(ctx context.Context, facts contract.SymbolFacts, decl *syntax.Node, opts Options) ([]contract.Precondition, error) {
	m := facts.MethodOf(decl)
	if m == nil || len(m.DeclaringSyntax()) != 1 {
		return nil, nil
	}
	body := extractor.MethodBody(decl)
	if body == nil {
		return nil, nil
	}

	bases, err := contract.ResolveBaseMethods(ctx, m, contract.BaseOptions{Transitive: opts.TransitiveOverrides})
	if err != nil || len(bases) == 0 {
		return nil, err
	}

	// Holder methods come first, then virtual base methods.
	var holders, virtuals []*symbols.Method
	for _, b := range bases {
		found, err := contract.ResolveContractHolderMethods(ctx, facts, b, m)
		if err != nil {
			return nil, err
		}
		for _, h := range found {
			if h == b {
				virtuals = append(virtuals, h)
			} else {
				holders = append(holders, h)
			}
		}
	}

	var aggregated []contract.Precondition
	for _, src := range append(holders, virtuals...) {
		aggregated = append(aggregated, sourcePreconditions(src, opts)...)
	}
	if len(aggregated) == 0 {
		return nil, nil
	}

	present := contract.ExtractLeadingPreconditions(body, opts.Dialect, opts.PresentKinds)
	return contract.Deduplicate(aggregated, present, opts.PresentKinds != contract.ExtractDefault), nil
}

// sourcePreconditions returns the leading preconditions of src. Framework members and
// members with several declarations have no single source body and contribute nothing.
func sourcePreconditions(src *symbols.Method, opts Options) []contract.Precondition {
	decls := src.DeclaringSyntax()
	if len(decls) != 1 {
		return nil
	}
	return contract.ExtractLeadingPreconditions(extractor.MethodBody(decls[0]), opts.Dialect, opts.SourceKinds)
}

func pullMessage(missing []contract.Precondition) string {
	var b strings.Builder
	b.WriteString("Requires can be retrieved from base type: \n ")
	for _, p := range missing {
		b.WriteString(p.Statement.Text())
		b.WriteByte('\n')
	}
	return b.String()
}

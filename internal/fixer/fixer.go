// Package fixer runs the contract rules over parsed files and proposes edits.
package fixer

import (
	"context"
	"fmt"

	"contractfix/internal/contract"
	"contractfix/internal/rewrite"
	"contractfix/internal/rules"
	"contractfix/internal/syntax"

	"go.uber.org/zap"
)

// Options configures the analyzers.
type Options struct {
	Dialect              contract.Dialect
	ReplacementNamespace string
	SourceKinds          contract.ExtractKinds // preconditions pulled from base methods
	PresentKinds         contract.ExtractKinds // preconditions that count as already present
	TransitiveOverrides  bool
	Rules                rules.Set // nil enables every rule
}

// DefaultOptions targets TurboContract from Qoollo.Turbo.
func DefaultOptions() Options {
	return Options{
		Dialect:              contract.DefaultDialect(),
		ReplacementNamespace: "Qoollo.Turbo",
		SourceKinds:          contract.ExtractDefault,
		PresentKinds:         contract.ExtractAll,
	}
}

// Analyzer implements one rule.
type Analyzer interface {
	Rule() rules.ID
	Analyze(ctx context.Context, fc *FileContext) ([]rules.Finding, error)
}

// FileContext is what an analyzer sees of one file.
type FileContext struct {
	Path    string
	File    *syntax.File
	Facts   contract.SymbolFacts
	Options Options

	calls []*syntax.Node
}

// Fixer runs the enabled analyzers.
type Fixer struct {
	opts      Options
	analyzers []Analyzer
	logger    *zap.Logger
}

// AllAnalyzers returns one analyzer per rule, in rule order.
func AllAnalyzers() []Analyzer {
	return []Analyzer{
		pullFromBase{},
		requiresToThrow{},
		contractToDebugAssert{},
		eliminateContractCalls{},
		eliminateContractClass{},
		eliminateInvariantMethods{},
		forAllToEnumerable{},
		debugAssertToReplacement{},
		contractToReplacement{},
		extendWithConditionString{},
		extendedMessage{},
		conditionStringSync{},
		nameOf{},
	}
}

// New builds a fixer running the rules enabled in opts.
func New(opts Options, logger *zap.Logger) *Fixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fixer{opts: opts, logger: logger}
	for _, a := range AllAnalyzers() {
		if opts.Rules == nil || opts.Rules.Has(a.Rule()) {
			f.analyzers = append(f.analyzers, a)
		}
	}
	return f
}

// Analyzers returns the enabled analyzers.
func (f *Fixer) Analyzers() []Analyzer { return f.analyzers }

// AnalyzeFile runs every enabled analyzer over file.
func (f *Fixer) AnalyzeFile(ctx context.Context, path string, file *syntax.File, facts contract.SymbolFacts) ([]rules.Finding, error) {
	fc := &FileContext{Path: path, File: file, Facts: facts, Options: f.opts}

	var out []rules.Finding
	for _, a := range f.analyzers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings, err := a.Analyze(ctx, fc)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed on %s: %w", a.Rule(), path, err)
		}
		out = append(out, findings...)
	}
	rules.SortFindings(out)
	f.logger.Debug("analyzed file", zap.String("path", path), zap.Int("findings", len(out)))
	return out, nil
}

func (fc *FileContext) finding(id rules.ID, at *syntax.Node, message string, edits ...rewrite.Edit) rules.Finding {
	if message == "" {
		message = id.Rule().Title
	}
	return rules.Finding{
		Rule:    id,
		Path:    fc.Path,
		Line:    at.Line(),
		Column:  at.Column(),
		Message: message,
		Edits:   edits,
	}
}

// invocations returns every call expression of the file in source order.
func (fc *FileContext) invocations() []*syntax.Node {
	if fc.calls == nil {
		fc.calls = fc.File.Root.FindAll(syntax.KindInvocation)
	}
	return fc.calls
}

// contractCalls returns the classified calls of the file.
func (fc *FileContext) contractCalls() []*contract.ContractInvocation {
	var out []*contract.ContractInvocation
	for _, call := range fc.invocations() {
		if ci, ok := contract.ClassifyInvocation(call, fc.Options.Dialect); ok {
			out = append(out, ci)
		}
	}
	return out
}

// withUsing appends the using directive for ns to edits when the file needs it.
func withUsing(at *syntax.Node, ns string, edits ...rewrite.Edit) []rewrite.Edit {
	if e, ok := rewrite.AddUsing(at, ns); ok {
		edits = append(edits, e)
	}
	return edits
}

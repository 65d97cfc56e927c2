// Package rules names the diagnostics contractfix reports.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"contractfix/internal/rewrite"
)

// ID is a stable rule identifier such as "CR01".
type ID string

const (
	PullFromBase           ID = "CR01"
	RequiresGenericToThrow ID = "CR02"
	ContractToDebugAssert  ID = "CR03"
	EliminateContractCalls ID = "CR04"
	EliminateContractClass ID = "CR05"
	EliminateInvariants    ID = "CR06"
	ForAllToEnumerable     ID = "CR07"
	DebugAssertToReplace   ID = "CR08"
	ContractToReplacement  ID = "CR09"
	ExtendConditionString  ID = "CR10"
	ExtendedMessage        ID = "CR11"
	// CR12 is retired.
	ConditionStringSync    ID = "CR13"
	NameOf                 ID = "CR14"
)

// Severity mirrors the analyzer severities: warnings need action, infos are cleanups.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule describes one diagnostic.
type Rule struct {
	ID          ID       `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

var registry = []Rule{
	{PullFromBase, "pull-from-base", "Contract.Requires can be retrieved from base type/contract class",
		"Preconditions declared on an overridden method, an implemented interface member or their contract classes are missing from the implementation.", SeverityWarning},
	{RequiresGenericToThrow, "requires-generic-to-if-throw", "Contract.Requires should be replaced with if..throw",
		"Contract.Requires<TException> is rewritten as an if statement throwing TException.", SeverityWarning},
	{ContractToDebugAssert, "contract-to-debug-assert", "Contract call should be replaced with Debug.Assert",
		"Non-generic Contract.Requires, Assert and Assume calls become Debug.Assert calls.", SeverityWarning},
	{EliminateContractCalls, "eliminate-contract-calls", "Contract call should be removed from source code",
		"Contract.EndContractBlock, Ensures, EnsuresOnThrow and Invariant calls have no runtime replacement.", SeverityWarning},
	{EliminateContractClass, "eliminate-contract-class", "Contract class can be removed from source code",
		"Types marked with ContractClassFor only carry contracts for another type.", SeverityInfo},
	{EliminateInvariants, "eliminate-invariant-methods", "Invariant methods can be removed from source code",
		"Methods marked with ContractInvariantMethod are only used by the contract rewriter.", SeverityInfo},
	{ForAllToEnumerable, "forall-to-enumerable", "Contract.ForAll and Contract.Exists can be replaced with Enumerable.All and Enumerable.Any",
		"Quantifier helpers of the contract class become LINQ calls.", SeverityWarning},
	{DebugAssertToReplace, "debug-assert-to-replacement", "Debug.Assert can be replaced with the replacement contract class",
		"Debug.Assert calls are retargeted to the replacement contract class.", SeverityWarning},
	{ContractToReplacement, "contract-to-replacement", "Contract should be replaced with the replacement contract class",
		"Contract calls other than Requires<TException> are retargeted to the replacement contract class.", SeverityWarning},
	{ExtendConditionString, "extend-with-condition-string", "Contract call can be extended with condition string",
		"Replacement contract calls with only a condition get the condition text as conditionString.", SeverityInfo},
	{ExtendedMessage, "extended-message", "Contract call can be extended with condition message",
		"Replacement contract calls with a message get the condition text as a third argument.", SeverityInfo},
	{ConditionStringSync, "condition-string-sync", "Contract call has different condition and condition string",
		"The conditionString literal no longer matches the condition it describes.", SeverityWarning},
	{NameOf, "nameof", "Argument string can be replaced with nameof",
		"A string literal naming a parameter of the enclosing method is replaced with nameof.", SeverityWarning},
}

// All returns every rule in identifier order.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the rule with the given identifier.
func Lookup(id ID) (Rule, bool) {
	for _, r := range registry {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Parse accepts a rule identifier or name, case-insensitively.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, r := range registry {
		if strings.EqualFold(string(r.ID), s) || strings.EqualFold(r.Name, s) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("unknown rule %q", s)
}

func (id ID) String() string { return string(id) }

// Rule returns the registry entry for id; unknown identifiers yield a bare rule.
func (id ID) Rule() Rule {
	if r, ok := Lookup(id); ok {
		return r
	}
	return Rule{ID: id, Name: string(id)}
}

// Set is a set of enabled rules.
type Set map[ID]bool

// Enabled returns every rule except the disabled ones. When only is non-empty, the
// result is limited to those rules.
func Enabled(disabled, only []string) (Set, error) {
	set := make(Set, len(registry))
	if len(only) > 0 {
		for _, s := range only {
			id, err := Parse(s)
			if err != nil {
				return nil, err
			}
			set[id] = true
		}
	} else {
		for _, r := range registry {
			set[r.ID] = true
		}
	}
	for _, s := range disabled {
		id, err := Parse(s)
		if err != nil {
			return nil, err
		}
		delete(set, id)
	}
	return set, nil
}

// Has reports whether id is enabled.
func (s Set) Has(id ID) bool { return s[id] }

// IDs returns the enabled identifiers in order.
func (s Set) IDs() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Finding is one diagnostic with its proposed fix.
type Finding struct {
	Rule    ID             `json:"rule"`
	Path    string         `json:"path"`
	Line    int            `json:"line"`
	Column  int            `json:"column"`
	Message string         `json:"message"`
	Edits   []rewrite.Edit `json:"edits,omitempty"`
}

// Fixable reports whether the finding carries edits.
func (f Finding) Fixable() bool { return len(f.Edits) > 0 }

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", f.Path, f.Line, f.Column, f.Rule, f.Message)
}

// SortFindings orders findings by path, line, column and rule.
func SortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}

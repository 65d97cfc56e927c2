package contract

import "contractfix/internal/syntax"

// Deduplicate returns the preconditions of aggregated that are not already present,
// with internal duplicates dropped. Overlap with present is structural (trivia ignored)
// or, in semantic mode, decided by the conditions alone so a differing message still
// counts as present. Internal duplicates are always compared structurally. Order is kept.
func Deduplicate(aggregated, present []Precondition, semantic bool) []Precondition {
	if len(aggregated) == 0 {
		return nil
	}
	overlaps := structurallyEqual
	if semantic {
		overlaps = semanticallyEqual
	}

	var out []Precondition
	for _, p := range aggregated {
		if containsFunc(present, p, overlaps) || containsFunc(out, p, structurallyEqual) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsFunc(list []Precondition, p Precondition, eq func(a, b Precondition) bool) bool {
	for _, q := range list {
		if eq(p, q) {
			return true
		}
	}
	return false
}

func structurallyEqual(a, b Precondition) bool {
	return syntax.Equivalent(a.Statement, b.Statement)
}

func semanticallyEqual(a, b Precondition) bool {
	if a.Invocation == nil || b.Invocation == nil {
		return false
	}
	return syntax.Equivalent(a.Invocation.Condition, b.Invocation.Condition)
}

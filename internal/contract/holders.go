package contract

import (
	"context"

	"contractfix/internal/symbols"
)

// ResolveContractHolderMethods returns the methods that carry base method a's contract
// as seen from m: the matching method of every contract holder of a's type, followed by
// a itself when it is virtual. Holders that are m's own type are skipped.
func ResolveContractHolderMethods(ctx context.Context, facts SymbolFacts, a, m *symbols.Method) ([]*symbols.Method, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}

	var out []*symbols.Method
	seen := make(map[*symbols.Method]bool)
	add := func(x *symbols.Method) {
		if x != nil && !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}

	var self *symbols.NamedType
	if m != nil {
		self = m.ContainingType().OriginalDefinition()
	}
	for _, h := range facts.ContractHolders(a.ContainingType()) {
		if h.OriginalDefinition() == self {
			continue
		}
		if a.ContainingType().IsInterface() {
			add(holderInterfaceMethod(h, a))
		} else {
			add(holderOverride(h, a))
		}
	}
	if a.IsVirtual() {
		add(a)
	}
	return out, nil
}

// holderInterfaceMethod finds h's implementation of interface method a. A generic holder
// implements the interface constructed with its own type arguments.
func holderInterfaceMethod(h *symbols.NamedType, a *symbols.Method) *symbols.Method {
	target := a
	iface := a.ContainingType()
	if h.IsGeneric() && iface.IsGeneric() {
		constructed := iface.OriginalDefinition().Construct(h.TypeArguments())
		if constructed == nil {
			return nil
		}
		target = nil
		def := a.OriginalDefinition()
		for _, cm := range constructed.Methods() {
			if cm.OriginalDefinition() == def {
				target = cm
				break
			}
		}
		if target == nil {
			return nil
		}
	}
	return h.FindImplementationForInterfaceMember(target)
}

// holderOverride finds the override in h of class method a.
func holderOverride(h *symbols.NamedType, a *symbols.Method) *symbols.Method {
	for _, hm := range h.Methods() {
		if !hm.IsOverride() || hm.Name() != a.Name() {
			continue
		}
		o := hm.OverriddenMethod()
		if o == nil {
			continue
		}
		if h.IsGeneric() {
			if o.OriginalDefinition() == a.OriginalDefinition() {
				return hm
			}
		} else if o == a {
			return hm
		}
	}
	return nil
}

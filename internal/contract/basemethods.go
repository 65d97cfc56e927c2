package contract

import (
	"context"

	"contractfix/internal/symbols"
)

// BaseOptions tunes ResolveBaseMethods.
type BaseOptions struct {
	// Transitive follows overrides past the immediately overridden method.
	Transitive bool
}

// ResolveBaseMethods returns the methods m inherits its contract from: the method it
// overrides, followed by every interface member it implements, without duplicates.
func ResolveBaseMethods(ctx context.Context, m *symbols.Method, opts BaseOptions) ([]*symbols.Method, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	var out []*symbols.Method
	seen := make(map[*symbols.Method]bool)
	add := func(b *symbols.Method) {
		if b != nil && b != m && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}

	if m.IsOverride() {
		for o := m.OverriddenMethod(); o != nil && !seen[o]; o = o.OverriddenMethod() {
			add(o)
			if !opts.Transitive {
				break
			}
		}
	}

	owner := m.ContainingType()
	if owner == nil || owner.IsInterface() {
		return out, nil
	}
	for _, iface := range owner.AllInterfaces() {
		for _, im := range iface.Methods() {
			if im.Name() == m.Name() && owner.FindImplementationForInterfaceMember(im) == m {
				add(im)
			}
		}
	}
	return out, nil
}

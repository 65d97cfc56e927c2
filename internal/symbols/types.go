package symbols

import (
	"strings"

	"contractfix/internal/extractor"
)

const maxHierarchyDepth = 64

// NamedType is a type definition together with its type arguments.
type NamedType struct {
	model *Model
	Def   *TypeDef
	args  []extractor.TypeRef
	key   string
}

func (t *NamedType) Name() string { return t.Def.Name }

// Key identifies the constructed type, e.g. "App:IRepo`1<int>".
func (t *NamedType) Key() string { return t.key }

func (t *NamedType) IsInterface() bool { return t.Def.Kind == KindInterface }

func (t *NamedType) IsGeneric() bool { return len(t.Def.TypeParams) > 0 }

// TypeArguments returns the type arguments; a definition returns its own type parameters.
func (t *NamedType) TypeArguments() []extractor.TypeRef { return t.args }

// Attributes returns the attributes of every declaration of the type.
func (t *NamedType) Attributes() []extractor.Attribute { return t.Def.Attributes }

// OriginalDefinition returns the type with its own type parameters as arguments.
func (t *NamedType) OriginalDefinition() *NamedType { return t.model.definitionOf(t.Def) }

// IsDefinition reports whether t is its own original definition.
func (t *NamedType) IsDefinition() bool { return t.OriginalDefinition() == t }

// Construct returns the definition instantiated with args. A mismatched count yields nil.
func (t *NamedType) Construct(args []extractor.TypeRef) *NamedType {
	if len(args) != len(t.Def.TypeParams) {
		return nil
	}
	return t.model.intern(t.Def, args)
}

// Substitution maps type parameter names to t's type arguments.
func (t *NamedType) Substitution() map[string]extractor.TypeRef {
	if len(t.Def.TypeParams) == 0 {
		return nil
	}
	subst := make(map[string]extractor.TypeRef, len(t.Def.TypeParams))
	for i, tp := range t.Def.TypeParams {
		subst[tp] = t.args[i]
	}
	return subst
}

func (t *NamedType) resolveBases() (base *NamedType, interfaces []*NamedType) {
	subst := t.Substitution()
	for _, ref := range t.Def.Bases {
		b := t.model.resolve(ref.Substitute(subst), t.Def)
		if b == nil || b == t {
			continue
		}
		if b.IsInterface() {
			interfaces = append(interfaces, b)
		} else if base == nil && !t.IsInterface() && b.Def.Kind == KindClass {
			base = b
		}
	}
	return base, interfaces
}

// BaseType returns the base class, or nil when it is unknown or the type is an interface.
func (t *NamedType) BaseType() *NamedType {
	base, _ := t.resolveBases()
	return base
}

// Interfaces returns the directly listed interfaces.
func (t *NamedType) Interfaces() []*NamedType {
	_, ifaces := t.resolveBases()
	return ifaces
}

// AllInterfaces returns every interface t implements, directly or through base types and other interfaces.
func (t *NamedType) AllInterfaces() []*NamedType {
	var out []*NamedType
	seen := make(map[*NamedType]bool)
	var visit func(i *NamedType, depth int)
	visit = func(i *NamedType, depth int) {
		if seen[i] || depth > maxHierarchyDepth {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, parent := range i.Interfaces() {
			visit(parent, depth+1)
		}
	}
	depth := 0
	for cur := t; cur != nil && depth < maxHierarchyDepth; cur = cur.BaseType() {
		for _, i := range cur.Interfaces() {
			visit(i, 0)
		}
		depth++
	}
	return out
}

// IsSubtypeOf reports whether t is other or derives from it.
func (t *NamedType) IsSubtypeOf(other *NamedType) bool {
	depth := 0
	for cur := t; cur != nil && depth < maxHierarchyDepth; cur = cur.BaseType() {
		if cur == other {
			return true
		}
		depth++
	}
	return false
}

// Methods returns the methods declared on the type, in declaration order.
func (t *NamedType) Methods() []*Method {
	out := make([]*Method, 0, len(t.Def.Methods))
	for _, md := range t.Def.Methods {
		out = append(out, t.model.internMethod(md, t))
	}
	return out
}

// Constructors returns the instance constructors of the type.
func (t *NamedType) Constructors() []*Method {
	out := make([]*Method, 0, len(t.Def.Ctors))
	for _, md := range t.Def.Ctors {
		out = append(out, t.model.internMethod(md, t))
	}
	return out
}

// FindImplementationForInterfaceMember returns the method of t (or of its base classes)
// implementing the interface method im, or nil when t does not implement it.
func (t *NamedType) FindImplementationForInterfaceMember(im *Method) *Method {
	if im == nil || !im.Owner.IsInterface() {
		return nil
	}
	implements := false
	for _, i := range t.AllInterfaces() {
		if i == im.Owner {
			implements = true
			break
		}
	}
	if !implements {
		return nil
	}

	depth := 0
	for cur := t; cur != nil && depth < maxHierarchyDepth; cur = cur.BaseType() {
		methods := cur.Methods()
		for _, m := range methods {
			if m.Def.ExplicitInterface == nil || m.Name() != im.Name() {
				continue
			}
			if m.ExplicitInterface() == im.Owner && sameSignature(m, im) {
				return m
			}
		}
		for _, m := range methods {
			if m.Def.ExplicitInterface != nil || m.Name() != im.Name() || m.IsStatic() {
				continue
			}
			if m.Def.hasModifier("public") && sameSignature(m, im) {
				return m
			}
		}
		depth++
	}
	return nil
}

func (t *NamedType) String() string {
	var b strings.Builder
	if t.Def.Namespace != "" {
		b.WriteString(t.Def.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(t.Def.Name)
	if len(t.args) > 0 {
		b.WriteByte('<')
		for i, a := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}

package symbols

import (
	"strings"

	"contractfix/internal/extractor"
	"contractfix/internal/syntax"
)

// Method is a method or constructor of a (possibly constructed) type.
type Method struct {
	model *Model
	Def   *MethodDef
	Owner *NamedType
	key   string
}

// Parameter is a parameter with its type substituted for the owner's type arguments.
type Parameter struct {
	Name string
	Type extractor.TypeRef
}

func (m *Method) Name() string { return m.Def.Name }

// Key identifies the method within the model.
func (m *Method) Key() string { return m.key }

func (m *Method) ContainingType() *NamedType { return m.Owner }

func (m *Method) IsConstructor() bool { return m.Def.Constructor }

func (m *Method) IsOverride() bool { return m.Def.hasModifier("override") }

// IsVirtual reports an explicit virtual modifier; abstract and override members are not virtual.
func (m *Method) IsVirtual() bool { return m.Def.hasModifier("virtual") }

func (m *Method) IsAbstract() bool { return m.Def.hasModifier("abstract") }

func (m *Method) IsStatic() bool { return m.Def.hasModifier("static") }

func (m *Method) GenericArity() int { return len(m.Def.TypeParams) }

func (m *Method) Attributes() []extractor.Attribute { return m.Def.Attributes }

// HasAttribute reports whether the method carries the named attribute.
func (m *Method) HasAttribute(name string) bool {
	_, ok := extractor.FindAttribute(m.Def.Attributes, name)
	return ok
}

// DeclaringSyntax returns the declaration node, or nothing for framework members.
func (m *Method) DeclaringSyntax() []*syntax.Node {
	if m.Def.Decl == nil {
		return nil
	}
	return []*syntax.Node{m.Def.Decl}
}

// Parameters returns the parameters with owner type arguments substituted.
func (m *Method) Parameters() []Parameter {
	subst := m.Owner.Substitution()
	out := make([]Parameter, len(m.Def.Params))
	for i, p := range m.Def.Params {
		out[i] = Parameter{Name: p.Name, Type: p.Type.Substitute(subst)}
	}
	return out
}

// OriginalDefinition returns the method as declared on the type definition.
func (m *Method) OriginalDefinition() *Method {
	def := m.Owner.OriginalDefinition()
	if def == m.Owner {
		return m
	}
	return m.model.internMethod(m.Def, def)
}

// ExplicitInterface returns the interface named by an explicit implementation, or nil.
func (m *Method) ExplicitInterface() *NamedType {
	if m.Def.ExplicitInterface == nil {
		return nil
	}
	return m.model.resolve(m.Def.ExplicitInterface.Substitute(m.Owner.Substitution()), m.Owner.Def)
}

// OverriddenMethod returns the base class method an override replaces, or nil.
func (m *Method) OverriddenMethod() *Method {
	if !m.IsOverride() {
		return nil
	}
	depth := 0
	for base := m.Owner.BaseType(); base != nil && depth < maxHierarchyDepth; base = base.BaseType() {
		for _, candidate := range base.Methods() {
			if candidate.Name() != m.Name() || candidate.IsStatic() {
				continue
			}
			if !candidate.IsVirtual() && !candidate.IsAbstract() && !candidate.IsOverride() {
				continue
			}
			if sameSignature(candidate, m) {
				return candidate
			}
		}
		depth++
	}
	return nil
}

// signature renders parameter types with method type parameters replaced by their position.
func (m *Method) signature() string {
	rename := make(map[string]extractor.TypeRef, len(m.Def.TypeParams))
	for i, tp := range m.Def.TypeParams {
		rename[tp] = extractor.TypeRef{Name: "!!" + strings.Repeat("'", i)}
	}
	var b strings.Builder
	for i, p := range m.Parameters() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.Substitute(rename).String())
	}
	return b.String()
}

func sameSignature(a, b *Method) bool {
	return len(a.Def.Params) == len(b.Def.Params) &&
		a.GenericArity() == b.GenericArity() &&
		a.signature() == b.signature()
}

func (m *Method) String() string {
	var b strings.Builder
	b.WriteString(m.Owner.String())
	b.WriteByte('.')
	b.WriteString(m.Name())
	b.WriteByte('(')
	for i, p := range m.Parameters() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	return b.String()
}

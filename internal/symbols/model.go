package symbols

import (
	"strconv"
	"strings"
	"sync"

	"contractfix/internal/extractor"
	"contractfix/internal/graph"
	"contractfix/internal/syntax"
)

// TypeKind distinguishes the declarations a TypeDef can come from.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindStruct
	KindRecord
)

// TypeDef is a type declaration, merged across partial parts.
type TypeDef struct {
	Key        string
	Name       string
	Namespace  string
	Qualified  string
	Kind       TypeKind
	TypeParams []string
	Modifiers  []string
	Attributes []extractor.Attribute
	Bases      []extractor.TypeRef
	Decls      []*syntax.Node
	Methods    []*MethodDef
	Ctors      []*MethodDef
	External   bool

	scope graph.Scope
}

// MethodDef is a method or constructor declaration.
type MethodDef struct {
	Owner             *TypeDef
	Name              string
	TypeParams        []string
	Params            []extractor.Param
	Modifiers         []string
	Attributes        []extractor.Attribute
	ExplicitInterface *extractor.TypeRef
	Constructor       bool
	Decl              *syntax.Node

	index int
}

// Model answers semantic questions about the types declared in a project.
// Constructed types and methods are interned, so == compares them.
type Model struct {
	graph   *graph.Graph
	defs    map[string]*TypeDef
	catalog map[string]*TypeDef // simple and full names of framework types
	byDecl  map[*syntax.Node]*MethodDef

	mu      sync.Mutex
	types   map[string]*NamedType
	methods map[string]*Method
}

// New builds a model over a linked graph.
func New(g *graph.Graph) (*Model, error) {
	if g == nil {
		g = graph.NewGraph()
	}
	m := &Model{
		graph:   g,
		defs:    make(map[string]*TypeDef),
		catalog: make(map[string]*TypeDef),
		byDecl:  make(map[*syntax.Node]*MethodDef),
		types:   make(map[string]*NamedType),
		methods: make(map[string]*Method),
	}

	external, err := loadCatalog(exceptionsYAML)
	if err != nil {
		return nil, err
	}
	for _, def := range external {
		def.scope = graph.Scope{Namespace: def.Namespace}
		m.defs[def.Key] = def
		m.catalog[def.Name] = def
		m.catalog[def.Namespace+"."+def.Name] = def
	}

	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		d, ok := node.Unit.Details.(extractor.TypeDetails)
		if !ok {
			continue
		}
		def := &TypeDef{
			Key:        id,
			Name:       node.Unit.Name,
			Namespace:  node.Unit.Package,
			Qualified:  d.Qualified,
			Kind:       kindOf(node.Unit.UnitType),
			TypeParams: d.TypeParams,
			Modifiers:  d.Modifiers,
			Attributes: d.Attributes,
			Bases:      d.Bases,
			scope:      graph.Scope{Namespace: node.Unit.Package, Container: id, Usings: d.Usings},
		}
		for _, part := range node.Parts {
			if part.Node != nil {
				def.Decls = append(def.Decls, part.Node)
			}
		}
		m.defs[id] = def
		m.addMembers(def, g.Members(id))
	}
	return m, nil
}

func kindOf(unitType string) TypeKind {
	switch unitType {
	case extractor.UnitInterface:
		return KindInterface
	case extractor.UnitStruct:
		return KindStruct
	case extractor.UnitRecord:
		return KindRecord
	}
	return KindClass
}

func (m *Model) addMembers(def *TypeDef, members []*graph.Node) {
	for _, node := range members {
		d, ok := node.Unit.Details.(extractor.MethodDetails)
		if !ok {
			continue
		}
		md := &MethodDef{
			Owner:             def,
			Name:              node.Unit.Name,
			TypeParams:        d.TypeParams,
			Params:            d.Parameters,
			Modifiers:         d.Modifiers,
			Attributes:        d.Attributes,
			ExplicitInterface: d.ExplicitInterface,
			Constructor:       node.Unit.UnitType == extractor.UnitConstructor,
			Decl:              node.Unit.Node,
		}
		if md.Constructor {
			if md.hasModifier("static") {
				continue
			}
			md.index = len(def.Ctors)
			def.Ctors = append(def.Ctors, md)
		} else {
			md.index = len(def.Methods)
			def.Methods = append(def.Methods, md)
		}
		if md.Decl != nil {
			m.byDecl[md.Decl] = md
		}
	}
	// Classes without a declared constructor get the implicit parameterless one.
	if len(def.Ctors) == 0 && def.Kind != KindInterface && !def.hasModifier("static") {
		def.Ctors = append(def.Ctors, &MethodDef{Owner: def, Name: def.Name, Modifiers: []string{"public"}, Constructor: true})
	}
}

func (d *TypeDef) hasModifier(mod string) bool {
	for _, x := range d.Modifiers {
		if x == mod {
			return true
		}
	}
	return false
}

func (d *MethodDef) hasModifier(mod string) bool {
	for _, x := range d.Modifiers {
		if x == mod {
			return true
		}
	}
	return false
}

// Graph returns the graph the model was built from.
func (m *Model) Graph() *graph.Graph { return m.graph }

// Definition returns the named type for a declaration key, with its own type parameters as arguments.
func (m *Model) Definition(key string) *NamedType {
	def, ok := m.defs[key]
	if !ok {
		return nil
	}
	return m.definitionOf(def)
}

func (m *Model) definitionOf(def *TypeDef) *NamedType {
	args := make([]extractor.TypeRef, len(def.TypeParams))
	for i, tp := range def.TypeParams {
		args[i] = extractor.TypeRef{Name: tp}
	}
	return m.intern(def, args)
}

func (m *Model) intern(def *TypeDef, args []extractor.TypeRef) *NamedType {
	var b strings.Builder
	b.WriteString(def.Key)
	if len(args) > 0 {
		b.WriteByte('<')
		for i, a := range args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	key := b.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.types[key]; ok {
		return t
	}
	t := &NamedType{model: m, Def: def, args: args, key: key}
	m.types[key] = t
	return t
}

func (m *Model) internMethod(def *MethodDef, owner *NamedType) *Method {
	kind := "m"
	if def.Constructor {
		kind = "c"
	}
	var b strings.Builder
	b.WriteString(owner.key)
	b.WriteByte('#')
	b.WriteString(kind)
	b.WriteString(strconv.Itoa(def.index))
	key := b.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if method, ok := m.methods[key]; ok {
		return method
	}
	method := &Method{model: m, Def: def, Owner: owner, key: key}
	m.methods[key] = method
	return method
}

// resolve finds the named type a reference written inside scope denotes.
// Type parameters, unknown types and ambiguous names yield nil.
func (m *Model) resolve(ref extractor.TypeRef, scope *TypeDef) *NamedType {
	if ref.Name == "" {
		return nil
	}
	var sc graph.Scope
	if scope != nil {
		sc = scope.scope
		if ref.Qualifier == "" && ref.GenericArity() == 0 {
			for _, tp := range scope.TypeParams {
				if tp == ref.Name {
					return nil
				}
			}
		}
	}

	var def *TypeDef
	ids := m.graph.LookupType(ref, sc)
	switch len(ids) {
	case 1:
		def = m.defs[ids[0]]
	case 0:
		if ref.GenericArity() == 0 {
			if ref.Qualifier != "" {
				def = m.catalog[ref.Qualifier+"."+ref.Name]
			} else {
				def = m.catalog[ref.Name]
			}
		}
	}
	if def == nil {
		return nil
	}
	if ref.IsUnbound() || len(ref.Args) != len(def.TypeParams) {
		if len(ref.Args) == 0 {
			return m.definitionOf(def)
		}
		return nil
	}
	return m.intern(def, ref.Args)
}

// LookupType resolves a type reference written inside scope. A nil scope resolves globally.
func (m *Model) LookupType(ref extractor.TypeRef, scope *NamedType) *NamedType {
	var def *TypeDef
	if scope != nil {
		def = scope.Def
	}
	return m.resolve(ref, def)
}

// WellKnownType returns a type by its namespace-qualified name, such as "System.ArgumentException".
func (m *Model) WellKnownType(fullName string) *NamedType {
	ref := extractor.ParseTypeRefString(fullName)
	if ref.Qualifier != "" {
		if ids := m.graph.LookupType(ref, graph.Scope{}); len(ids) == 1 {
			return m.definitionOf(m.defs[ids[0]])
		}
	}
	if def, ok := m.catalog[fullName]; ok {
		return m.definitionOf(def)
	}
	return nil
}

// MethodOf returns the symbol declared by a method or constructor declaration node.
func (m *Model) MethodOf(decl *syntax.Node) *Method {
	md, ok := m.byDecl[decl]
	if !ok {
		return nil
	}
	return m.internMethod(md, m.definitionOf(md.Owner))
}

// TypeOf returns the definition of the type declared by decl.
func (m *Model) TypeOf(decl *syntax.Node) *NamedType {
	for _, def := range m.defs {
		for _, d := range def.Decls {
			if d == decl {
				return m.definitionOf(def)
			}
		}
	}
	return nil
}

// ContractHolders returns the confirmed contract holder types of t's definition.
// Unbound generic holders are returned as their definitions.
func (m *Model) ContractHolders(t *NamedType) []*NamedType {
	if t == nil {
		return nil
	}
	var out []*NamedType
	for _, id := range m.graph.Links.HoldersOf(t.Def.Key) {
		if def, ok := m.defs[id]; ok {
			out = append(out, m.definitionOf(def))
		}
	}
	return out
}

// IsContractHolder reports whether t's definition is a confirmed contract holder.
func (m *Model) IsContractHolder(t *NamedType) bool {
	return t != nil && m.graph.Links.IsHolder(t.Def.Key)
}

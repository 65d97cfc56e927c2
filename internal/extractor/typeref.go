package extractor

import (
	"strings"

	"contractfix/internal/syntax"
)

// TypeRef is a type reference as written in source.
// An unbound generic reference such as Foo<> or Foo<,> has Arity > 0 and no Args.
type TypeRef struct {
	Qualifier string    `json:"qualifier,omitempty"`
	Name      string    `json:"name"`
	Args      []TypeRef `json:"args,omitempty"`
	Arity     int       `json:"arity,omitempty"`
	Suffix    string    `json:"suffix,omitempty"` // "?", "[]", ...
}

var keywordAliases = map[string]string{
	"String":  "string",
	"Int32":   "int",
	"Int64":   "long",
	"Boolean": "bool",
	"Object":  "object",
	"Double":  "double",
	"Single":  "float",
	"Byte":    "byte",
	"Char":    "char",
}

// ParseTypeRef builds a TypeRef from a type syntax node.
func ParseTypeRef(n *syntax.Node) TypeRef {
	if n == nil {
		return TypeRef{}
	}
	switch n.Kind {
	case syntax.KindIdentifier, syntax.KindPredefinedType:
		return TypeRef{Name: n.Text()}
	case syntax.KindGenericName:
		ref := TypeRef{}
		if id := n.FirstChildOfKind(syntax.KindIdentifier); id != nil {
			ref.Name = id.Text()
		} else if named := n.NamedChildren(); len(named) > 0 {
			ref.Name = named[0].Text()
		}
		if list := n.FirstChildOfKind(syntax.KindTypeArgumentList); list != nil {
			args := list.NamedChildren()
			if len(args) == 0 {
				ref.Arity = strings.Count(list.Text(), ",") + 1
			} else {
				for _, a := range args {
					ref.Args = append(ref.Args, ParseTypeRef(a))
				}
				ref.Arity = len(ref.Args)
			}
		}
		return ref
	case syntax.KindQualifiedName:
		named := n.NamedChildren()
		qual, name := n.ChildByField("qualifier"), n.ChildByField("name")
		if qual == nil && len(named) > 0 {
			qual = named[0]
		}
		if name == nil && len(named) > 1 {
			name = named[len(named)-1]
		}
		ref := ParseTypeRef(name)
		if qual != nil {
			ref.Qualifier = qual.Text()
		}
		return ref
	case syntax.KindAliasQualifiedName:
		named := n.NamedChildren()
		if len(named) > 0 {
			return ParseTypeRef(named[len(named)-1])
		}
	case syntax.KindNullableType:
		if named := n.NamedChildren(); len(named) > 0 {
			ref := ParseTypeRef(named[0])
			ref.Suffix += "?"
			return ref
		}
	case syntax.KindArrayType:
		if named := n.NamedChildren(); len(named) > 0 {
			ref := ParseTypeRef(named[0])
			ref.Suffix += strings.TrimPrefix(n.Text(), named[0].Text())
			ref.Suffix = strings.Join(strings.Fields(ref.Suffix), "")
			return ref
		}
	}
	return TypeRef{Name: strings.Join(strings.Fields(n.Text()), "")}
}

// ParseTypeRefString parses a type written as plain text, e.g. "List<T>" or "System.String".
func ParseTypeRefString(s string) TypeRef {
	s = strings.TrimSpace(s)
	var ref TypeRef
	if strings.HasSuffix(s, "?") {
		ref = ParseTypeRefString(strings.TrimSuffix(s, "?"))
		ref.Suffix += "?"
		return ref
	}
	if strings.HasSuffix(s, "]") {
		if i := strings.LastIndex(s, "["); i > 0 {
			ref = ParseTypeRefString(s[:i])
			ref.Suffix += s[i:]
			return ref
		}
	}
	head, args := s, ""
	if i := strings.Index(s, "<"); i >= 0 && strings.HasSuffix(s, ">") {
		head, args = s[:i], s[i+1:len(s)-1]
	}
	if i := strings.LastIndex(head, "."); i >= 0 {
		ref.Qualifier, ref.Name = head[:i], head[i+1:]
	} else {
		ref.Name = head
	}
	if args != "" || strings.HasSuffix(s, "<>") {
		parts := splitTopLevel(args)
		if strings.TrimSpace(args) == "" || allBlank(parts) {
			ref.Arity = len(parts)
		} else {
			for _, p := range parts {
				ref.Args = append(ref.Args, ParseTypeRefString(p))
			}
			ref.Arity = len(ref.Args)
		}
	}
	return ref
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func allBlank(parts []string) bool {
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// IsUnbound reports whether the reference is an open generic like Foo<>.
func (r TypeRef) IsUnbound() bool {
	return r.Arity > 0 && len(r.Args) == 0
}

// GenericArity returns the number of type arguments.
func (r TypeRef) GenericArity() int {
	if len(r.Args) > 0 {
		return len(r.Args)
	}
	return r.Arity
}

// Canonical returns the simple name with keyword aliases applied, e.g. "String" becomes "string".
func (r TypeRef) Canonical() string {
	if alias, ok := keywordAliases[r.Name]; ok && (r.Qualifier == "" || r.Qualifier == "System") {
		return alias
	}
	return r.Name
}

// String renders the reference without its namespace qualifier.
func (r TypeRef) String() string {
	var b strings.Builder
	b.WriteString(r.Canonical())
	switch {
	case len(r.Args) > 0:
		b.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	case r.Arity > 0:
		b.WriteByte('<')
		b.WriteString(strings.Repeat(",", r.Arity-1))
		b.WriteByte('>')
	}
	b.WriteString(r.Suffix)
	return b.String()
}

// Substitute replaces type parameter names according to subst.
func (r TypeRef) Substitute(subst map[string]TypeRef) TypeRef {
	if len(subst) == 0 {
		return r
	}
	if r.Qualifier == "" && len(r.Args) == 0 && r.Arity == 0 {
		if repl, ok := subst[r.Name]; ok {
			repl.Suffix += r.Suffix
			return repl
		}
		return r
	}
	out := r
	if len(r.Args) > 0 {
		out.Args = make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			out.Args[i] = a.Substitute(subst)
		}
	}
	return out
}

package rewrite

import (
	"strings"

	"contractfix/internal/syntax"
)

// AddUsing returns the edit inserting `using ns;` into the file containing at.
// Nothing is inserted when the directive exists or at sits inside ns or one of its children.
func AddUsing(at *syntax.Node, ns string) (Edit, bool) {
	if at == nil || at.File == nil || ns == "" {
		return Edit{}, false
	}
	enclosing := EnclosingNamespace(at)
	if enclosing == ns || strings.HasPrefix(enclosing, ns+".") {
		return Edit{}, false
	}

	root := at.File.Root
	for _, u := range root.FindAll(syntax.KindUsing) {
		if usingName(u) == ns {
			return Edit{}, false
		}
	}

	eol := syntax.LineEnding(at.File)
	directive := "using " + ns + ";"
	top := root.ChildrenOfKind(syntax.KindUsing)
	if len(top) == 0 {
		return Insert(0, directive+eol), true
	}
	last := top[len(top)-1]
	return Insert(last.End, eol+syntax.Indentation(last)+directive), true
}

// usingName returns the namespace a plain using directive imports, or "" for aliases and
// using static.
func usingName(u *syntax.Node) string {
	text := strings.TrimSpace(u.Text())
	text = strings.TrimPrefix(text, "global ")
	text = strings.TrimSpace(strings.TrimPrefix(text, "using"))
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	if strings.HasPrefix(text, "static ") || strings.Contains(text, "=") {
		return ""
	}
	return strings.Join(strings.Fields(text), "")
}

// EnclosingNamespace returns the dotted namespace n is declared in.
func EnclosingNamespace(n *syntax.Node) string {
	var parts []string
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Is(syntax.KindNamespace) {
			if name := cur.ChildByField("name"); name != nil {
				parts = append([]string{name.Text()}, parts...)
			}
		}
	}
	if n.File != nil {
		if fs := n.File.Root.FirstChildOfKind(syntax.KindFileScopedNamespace); fs != nil {
			if name := fs.ChildByField("name"); name != nil {
				parts = append([]string{name.Text()}, parts...)
			}
		}
	}
	return strings.Join(parts, ".")
}

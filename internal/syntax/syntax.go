package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Point is a zero-based row/column position inside a file.
type Point struct {
	Row    int
	Column int
}

// File is a parsed C# source file.
type File struct {
	Path      string
	Source    []byte
	Root      *Node
	HasErrors bool
}

// Node is a syntax node copied out of a tree-sitter tree.
// Nodes never change after Parse returns, so they can be shared freely between goroutines.
type Node struct {
	Kind     string
	Field    string // field name inside the parent, if any
	Named    bool
	Start    int
	End      int
	StartPos Point
	EndPos   Point
	Parent   *Node
	Children []*Node
	File     *File

	index int
}

// Parse parses C# source code.
func Parse(ctx context.Context, path string, source []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	f := &File{Path: path, Source: source}
	root := tree.RootNode()
	f.HasErrors = root.HasError()

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()
	f.Root = convert(cursor, f, nil, 0)
	return f, nil
}

func convert(c *sitter.TreeCursor, f *File, parent *Node, index int) *Node {
	n := c.CurrentNode()
	start, end := n.StartPoint(), n.EndPoint()
	out := &Node{
		Kind:     n.Type(),
		Field:    c.CurrentFieldName(),
		Named:    n.IsNamed(),
		Start:    int(n.StartByte()),
		End:      int(n.EndByte()),
		StartPos: Point{Row: int(start.Row), Column: int(start.Column)},
		EndPos:   Point{Row: int(end.Row), Column: int(end.Column)},
		Parent:   parent,
		File:     f,
		index:    index,
	}
	if c.GoToFirstChild() {
		i := 0
		for {
			out.Children = append(out.Children, convert(c, f, out, i))
			i++
			if !c.GoToNextSibling() {
				break
			}
		}
		c.GoToParent()
	}
	return out
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	if n == nil || n.File == nil {
		return ""
	}
	return string(n.File.Source[n.Start:n.End])
}

// Line returns the one-based line of the node start.
func (n *Node) Line() int { return n.StartPos.Row + 1 }

// Column returns the one-based column of the node start.
func (n *Node) Column() int { return n.StartPos.Column + 1 }

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// ChildByField returns the first child stored under the given field name.
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named children, skipping comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child with one of the given kinds.
func (n *Node) FirstChildOfKind(kinds ...string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(kinds...) {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns all direct children with one of the given kinds.
func (n *Node) ChildrenOfKind(kinds ...string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Is(kinds...) {
			out = append(out, c)
		}
	}
	return out
}

// HasToken reports whether an anonymous child token with the given text exists.
func (n *Node) HasToken(text string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if !c.Named && c.Kind == text {
			return true
		}
	}
	return false
}

// Ancestor returns the closest enclosing node with one of the given kinds.
func (n *Node) Ancestor(kinds ...string) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Is(kinds...) {
			return p
		}
	}
	return nil
}

// PrevSibling returns the previous sibling including anonymous tokens and comments.
func (n *Node) PrevSibling() *Node {
	if n == nil || n.Parent == nil || n.index == 0 {
		return nil
	}
	return n.Parent.Children[n.index-1]
}

// NextSibling returns the next sibling including anonymous tokens and comments.
func (n *Node) NextSibling() *Node {
	if n == nil || n.Parent == nil || n.index+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[n.index+1]
}

// Walk visits the node and its descendants in pre-order.
// Returning false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every descendant (including n) with one of the given kinds.
func (n *Node) FindAll(kinds ...string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Is(kinds...) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Unwrap strips parentheses around an expression.
func Unwrap(n *Node) *Node {
	for n.Is(KindParenthesized) {
		inner := n.NamedChildren()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

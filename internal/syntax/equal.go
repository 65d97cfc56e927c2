package syntax

// Equivalent reports whether two fragments are identical ignoring whitespace and comments.
func Equivalent(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	ac, bc := significantChildren(a), significantChildren(b)
	if len(ac) == 0 && len(bc) == 0 {
		return a.Text() == b.Text()
	}
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equivalent(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

func significantChildren(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == KindComment {
			continue
		}
		out = append(out, c)
	}
	return out
}

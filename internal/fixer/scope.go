package fixer

import (
	"contractfix/internal/extractor"
	"contractfix/internal/syntax"
)

const (
	attrContractClassFor  = "ContractClassFor"
	attrContractInvariant = "ContractInvariantMethod"
	diagnosticsNamespace  = "System.Diagnostics"
	linqNamespace         = "System.Linq"
)

var assertionMethods = map[string]bool{"Requires": true, "Assert": true, "Assume": true}

func enclosingMember(n *syntax.Node) *syntax.Node {
	return n.Ancestor(syntax.KindMethod, syntax.KindConstructor)
}

func enclosingType(n *syntax.Node) *syntax.Node {
	return n.Ancestor(syntax.TypeDeclarationKinds...)
}

func parameterNames(member *syntax.Node) []string {
	if member == nil {
		return nil
	}
	list := member.ChildByField("parameters")
	if list == nil {
		list = member.FirstChildOfKind(syntax.KindParameterList)
	}
	var out []string
	for _, p := range list.ChildrenOfKind(syntax.KindParameter) {
		if name := p.ChildByField("name"); name != nil {
			out = append(out, name.Text())
		}
	}
	return out
}

func hasAttribute(decl *syntax.Node, name string) bool {
	if decl == nil {
		return false
	}
	_, ok := extractor.FindAttribute(extractor.DeclarationAttributes(decl), name)
	return ok
}

// isContractClass reports whether n sits in a type marked ContractClassFor. Partial types
// are checked through the model so every part counts.
func (fc *FileContext) isContractClass(n *syntax.Node) bool {
	if member := enclosingMember(n); member != nil && fc.Facts != nil {
		if m := fc.Facts.MethodOf(member); m != nil {
			_, ok := extractor.FindAttribute(m.ContainingType().Attributes(), attrContractClassFor)
			return ok
		}
	}
	return hasAttribute(enclosingType(n), attrContractClassFor)
}

func isInvariantMethod(n *syntax.Node) bool {
	return hasAttribute(enclosingMember(n), attrContractInvariant)
}

func typeName(decl *syntax.Node) string {
	if decl == nil {
		return ""
	}
	if name := decl.ChildByField("name"); name != nil {
		return name.Text()
	}
	return ""
}

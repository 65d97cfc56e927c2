// Package contract recognises contract-style assertion calls and decides which
// inherited preconditions a method is missing.
package contract

import (
	"contractfix/internal/syntax"
)

// InvocationKind tells which assertion class a call targets.
type InvocationKind int

const (
	KindLegacy      InvocationKind = iota + 1 // System.Diagnostics.Contracts.Contract
	KindDebug                                 // System.Diagnostics.Debug
	KindReplacement                           // the configured replacement class
)

func (k InvocationKind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindDebug:
		return "debug"
	case KindReplacement:
		return "replacement"
	}
	return "unknown"
}

// Dialect is the allow-list of class names the classifier accepts.
type Dialect struct {
	Legacy      string
	Debug       string
	Replacement string
}

// DefaultDialect targets Contract, Debug and TurboContract.
func DefaultDialect() Dialect {
	return Dialect{Legacy: "Contract", Debug: "Debug", Replacement: "TurboContract"}
}

// KindOf maps a class name to its invocation kind.
func (d Dialect) KindOf(className string) (InvocationKind, bool) {
	switch className {
	case "":
		return 0, false
	case d.Legacy:
		return KindLegacy, true
	case d.Debug:
		return KindDebug, true
	case d.Replacement:
		return KindReplacement, true
	}
	return 0, false
}

// Argument is one argument of a classified call.
type Argument struct {
	Name string       // explicit argument name, if any
	Expr *syntax.Node // the argument expression
	Node *syntax.Node // the whole argument
}

// ContractInvocation is a normalised contract-style call.
type ContractInvocation struct {
	ClassName            string
	MethodName           string
	Kind                 InvocationKind
	Condition            *syntax.Node
	Message              *syntax.Node
	ConditionText        *syntax.Node
	GenericExceptionType *syntax.Node
	Arguments            []Argument
	Call                 *syntax.Node
	ClassNode            *syntax.Node // simple name of the class
	MethodNode           *syntax.Node // method name, including type arguments
	ArgumentList         *syntax.Node
}

// IsRequires reports whether the call belongs to the Requires family.
func (ci *ContractInvocation) IsRequires() bool { return ci.MethodName == "Requires" }

// IsGeneric reports whether the call names an exception type, as in Requires<E>.
func (ci *ContractInvocation) IsGeneric() bool { return ci.GenericExceptionType != nil }

// ConditionMatchesText reports whether the condition text argument is absent or a string
// literal equal to the condition source.
func (ci *ContractInvocation) ConditionMatchesText() bool {
	if ci.ConditionText == nil {
		return true
	}
	v, ok := syntax.StringValue(ci.ConditionText)
	return ok && v == ci.Condition.Text()
}

// CallTarget is the Class.Method part of a call, without its arguments.
type CallTarget struct {
	ClassName    string
	MethodName   string
	ClassNode    *syntax.Node // simple name of the class
	ClassExpr    *syntax.Node // everything left of the last dot
	MethodNode   *syntax.Node
	TypeArgs     []*syntax.Node
	ArgumentList *syntax.Node
}

// ParseCallTarget splits a call of the form Class.Method(...) or Ns.Class.Method(...).
// It accepts any number of arguments and type arguments.
func ParseCallTarget(call *syntax.Node) (CallTarget, bool) {
	if !call.Is(syntax.KindInvocation) {
		return CallTarget{}, false
	}
	fn := call.ChildByField("function")
	if fn == nil {
		if named := call.NamedChildren(); len(named) > 0 {
			fn = named[0]
		}
	}
	if !fn.Is(syntax.KindMemberAccess) {
		return CallTarget{}, false
	}

	ct := CallTarget{ClassExpr: memberExpression(fn), MethodNode: memberName(fn)}
	ct.ClassNode = simpleName(ct.ClassExpr)
	if ct.ClassNode == nil || ct.MethodNode == nil {
		return CallTarget{}, false
	}
	ct.ClassName = identifierText(ct.ClassNode)
	switch {
	case ct.MethodNode.Is(syntax.KindGenericName):
		ct.TypeArgs = ct.MethodNode.FirstChildOfKind(syntax.KindTypeArgumentList).NamedChildren()
	case !ct.MethodNode.Is(syntax.KindIdentifier):
		return CallTarget{}, false
	}
	ct.MethodName = identifierText(ct.MethodNode)

	ct.ArgumentList = call.ChildByField("arguments")
	if ct.ArgumentList == nil {
		ct.ArgumentList = call.FirstChildOfKind(syntax.KindArgumentList)
	}
	return ct, true
}

// ClassifyInvocation parses a call of the form Class.Method(args) or Ns.Class.Method(args).
func ClassifyInvocation(call *syntax.Node, d Dialect) (*ContractInvocation, bool) {
	ct, ok := ParseCallTarget(call)
	if !ok {
		return nil, false
	}
	kind, ok := d.KindOf(ct.ClassName)
	if !ok {
		return nil, false
	}
	var genericType *syntax.Node
	switch len(ct.TypeArgs) {
	case 0:
		if ct.MethodNode.Is(syntax.KindGenericName) {
			return nil, false
		}
	case 1:
		// Only the Requires family carries an exception type.
		if ct.MethodName == "Requires" {
			genericType = ct.TypeArgs[0]
		}
	default:
		return nil, false
	}

	args := parseArguments(ct.ArgumentList)
	if len(args) < 1 || len(args) > 3 {
		return nil, false
	}

	ci := &ContractInvocation{
		ClassName:            ct.ClassName,
		MethodName:           ct.MethodName,
		Kind:                 kind,
		Condition:            args[0].Expr,
		GenericExceptionType: genericType,
		Arguments:            args,
		Call:                 call,
		ClassNode:            ct.ClassNode,
		MethodNode:           ct.MethodNode,
		ArgumentList:         ct.ArgumentList,
	}
	if len(args) >= 2 {
		if args[1].Name == "conditionString" {
			ci.ConditionText = args[1].Expr
		} else {
			ci.Message = args[1].Expr
		}
	}
	if len(args) == 3 {
		if args[2].Name == "message" || args[2].Name == "userMessage" {
			ci.Message = args[2].Expr
		} else {
			ci.ConditionText = args[2].Expr
		}
	}
	if ci.Condition == nil {
		return nil, false
	}
	return ci, true
}

// ClassifyStatement classifies an expression statement that consists of a single call.
func ClassifyStatement(stmt *syntax.Node, d Dialect) (*ContractInvocation, bool) {
	if !stmt.Is(syntax.KindExpressionStatement) {
		return nil, false
	}
	named := stmt.NamedChildren()
	if len(named) != 1 {
		return nil, false
	}
	return ClassifyInvocation(named[0], d)
}

func memberExpression(access *syntax.Node) *syntax.Node {
	if e := access.ChildByField("expression"); e != nil {
		return e
	}
	if named := access.NamedChildren(); len(named) > 0 {
		return named[0]
	}
	return nil
}

func memberName(access *syntax.Node) *syntax.Node {
	if n := access.ChildByField("name"); n != nil {
		return n
	}
	if named := access.NamedChildren(); len(named) > 1 {
		return named[len(named)-1]
	}
	return nil
}

// simpleName returns the innermost simple name of a class reference: Contract in
// Contract or in System.Diagnostics.Contracts.Contract.
func simpleName(n *syntax.Node) *syntax.Node {
	switch {
	case n.Is(syntax.KindIdentifier, syntax.KindGenericName):
		return n
	case n.Is(syntax.KindMemberAccess):
		return simpleNameLeaf(memberName(n))
	case n.Is(syntax.KindQualifiedName):
		if name := n.ChildByField("name"); name != nil {
			return simpleNameLeaf(name)
		}
		if named := n.NamedChildren(); len(named) > 0 {
			return simpleNameLeaf(named[len(named)-1])
		}
	}
	return nil
}

func simpleNameLeaf(n *syntax.Node) *syntax.Node {
	if n.Is(syntax.KindIdentifier, syntax.KindGenericName) {
		return n
	}
	return nil
}

func identifierText(n *syntax.Node) string {
	if n.Is(syntax.KindGenericName) {
		if id := n.FirstChildOfKind(syntax.KindIdentifier); id != nil {
			return id.Text()
		}
		return ""
	}
	return n.Text()
}

func parseArguments(list *syntax.Node) []Argument {
	var out []Argument
	for _, arg := range list.ChildrenOfKind(syntax.KindArgument) {
		a := Argument{Node: arg}
		for _, ch := range arg.NamedChildren() {
			switch {
			case ch.Is(syntax.KindNameColon):
				if id := ch.FirstChildOfKind(syntax.KindIdentifier); id != nil {
					a.Name = id.Text()
				} else {
					a.Name = ch.Text()
				}
			case ch.Field == "name" && ch.Is(syntax.KindIdentifier):
				a.Name = ch.Text()
			default:
				a.Expr = ch
			}
		}
		if a.Expr == nil {
			return nil
		}
		out = append(out, a)
	}
	return out
}

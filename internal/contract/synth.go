package contract

import (
	"strings"

	"contractfix/internal/symbols"
	"contractfix/internal/syntax"
)

// Construction is a synthesized `new E(args)` expression.
type Construction struct {
	Type        *symbols.NamedType
	Constructor *symbols.Method
	Arguments   []string
}

// String renders the construction, or nothing when the type is unknown.
func (c Construction) String() string {
	if c.Type == nil {
		return ""
	}
	return "new " + typeDisplayName(c.Type) + "(" + strings.Join(c.Arguments, ", ") + ")"
}

func typeDisplayName(t *symbols.NamedType) string {
	args := t.TypeArguments()
	if len(args) == 0 {
		return t.Name()
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return t.Name() + "<" + strings.Join(parts, ", ") + ">"
}

type paramPredicate func(symbols.Parameter) bool

func isStringParam(p symbols.Parameter) bool {
	return p.Type.Canonical() == "string" && p.Type.GenericArity() == 0 && p.Type.Suffix == ""
}

func isParamNameArg(p symbols.Parameter) bool {
	return isStringParam(p) && (p.Name == "param" || p.Name == "paramName")
}

func isMessageArg(p symbols.Parameter) bool {
	return isStringParam(p) && p.Name == "message"
}

func isInnerExceptionArg(p symbols.Parameter) bool {
	return p.Type.Name == "Exception" && p.Type.GenericArity() == 0 && p.Type.Suffix == ""
}

// matchesExactly reports whether ctor has one parameter per predicate and every predicate
// is satisfied by some parameter.
func matchesExactly(ctor *symbols.Method, preds ...paramPredicate) bool {
	params := ctor.Parameters()
	if len(params) != len(preds) {
		return false
	}
	for _, pred := range preds {
		found := false
		for _, p := range params {
			if pred(p) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func findConstructor(ctors []*symbols.Method, preds ...paramPredicate) *symbols.Method {
	for _, c := range ctors {
		if matchesExactly(c, preds...) {
			return c
		}
	}
	return nil
}

type slotValue struct {
	pred  paramPredicate
	value string
}

// fill places values into ctor's parameter slots.
func fill(ctor *symbols.Method, values ...slotValue) []string {
	params := ctor.Parameters()
	out := make([]string, len(params))
	for i, p := range params {
		for _, v := range values {
			if v.pred(p) {
				out[i] = v.value
				break
			}
		}
	}
	return out
}

// SynthesizeThrowExpression builds the exception a failed precondition throws. It picks the
// richest constructor of exceptionType able to carry the parameter name and the message;
// when message is nil the condition's source text is used as the message.
// parameter is the condition's single parameter name, or empty. A nil exceptionType
// yields an empty Construction.
func SynthesizeThrowExpression(facts SymbolFacts, exceptionType *symbols.NamedType, condition, message *syntax.Node, parameter string) Construction {
	c := Construction{Type: exceptionType}
	if exceptionType == nil {
		return c
	}
	ctors := exceptionType.Constructors()

	withParamAndMsg := findConstructor(ctors, isParamNameArg, isMessageArg)
	withParam := findConstructor(ctors, isParamNameArg)
	withMsg := findConstructor(ctors, isMessageArg)
	withMsgAndExc := findConstructor(ctors, isMessageArg, isInnerExceptionArg)

	msg := syntax.Quote(condition.Text())
	if message != nil {
		msg = message.Text()
	}
	nameOf := "nameof(" + parameter + ")"
	hasParam := parameter != ""

	argumentFamily := false
	if base := facts.WellKnownType("System.ArgumentException"); base != nil {
		argumentFamily = exceptionType.IsSubtypeOf(base)
	}
	isArgumentNull := exceptionType.String() == "System.ArgumentNullException"

	switch {
	case argumentFamily && hasParam && message == nil && isArgumentNull && withParam != nil:
		c.Constructor = withParam
		c.Arguments = fill(withParam, slotValue{isParamNameArg, nameOf})
	case argumentFamily && hasParam && withParamAndMsg != nil:
		c.Constructor = withParamAndMsg
		c.Arguments = fill(withParamAndMsg, slotValue{isParamNameArg, nameOf}, slotValue{isMessageArg, msg})
	case argumentFamily && hasParam && withMsg == nil && withParam != nil:
		c.Constructor = withParam
		c.Arguments = fill(withParam, slotValue{isParamNameArg, nameOf})
	case withMsg != nil:
		c.Constructor = withMsg
		c.Arguments = fill(withMsg, slotValue{isMessageArg, msg})
	case withParamAndMsg != nil && hasParam:
		c.Constructor = withParamAndMsg
		c.Arguments = fill(withParamAndMsg, slotValue{isParamNameArg, nameOf}, slotValue{isMessageArg, msg})
	case withMsgAndExc != nil:
		c.Constructor = withMsgAndExc
		c.Arguments = fill(withMsgAndExc, slotValue{isMessageArg, msg}, slotValue{isInnerExceptionArg, "(Exception)null"})
	default:
		c.Constructor = findConstructor(ctors)
	}
	return c
}

// ExtractParameter returns the single distinct parameter of params referenced by condition,
// or an empty string when there is none or more than one.
func ExtractParameter(condition *syntax.Node, params []string) string {
	if condition == nil || len(params) == 0 {
		return ""
	}
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p] = true
	}
	found := ""
	ambiguous := false
	condition.Walk(func(n *syntax.Node) bool {
		if ambiguous {
			return false
		}
		if n.Is(syntax.KindIdentifier) {
			name := strings.TrimPrefix(n.Text(), "@")
			if known[name] {
				if found != "" && found != name {
					ambiguous = true
					return false
				}
				found = name
			}
		}
		return true
	})
	if ambiguous {
		return ""
	}
	return found
}

var negatedOperators = map[string]string{
	"!=": "==",
	"==": "!=",
	">":  "<=",
	">=": "<",
	"<":  ">=",
	"<=": ">",
}

// NegateCondition renders the logical negation of condition, flipping a top-level
// comparison where possible.
func NegateCondition(condition *syntax.Node) string {
	if condition.Is(syntax.KindBinary) {
		left, op, right := binaryParts(condition)
		if left != nil && right != nil {
			if flipped, ok := negatedOperators[op]; ok {
				return left.Text() + " " + flipped + " " + right.Text()
			}
		}
	}
	text := condition.Text()
	if syntax.IsPrimary(condition) {
		return "!" + text
	}
	return "!(" + text + ")"
}

func binaryParts(n *syntax.Node) (left *syntax.Node, op string, right *syntax.Node) {
	left, right = n.ChildByField("left"), n.ChildByField("right")
	if o := n.ChildByField("operator"); o != nil {
		op = o.Text()
	}
	named := n.NamedChildren()
	if left == nil && len(named) == 2 {
		left = named[0]
	}
	if right == nil && len(named) == 2 {
		right = named[1]
	}
	if op == "" {
		for _, ch := range n.Children {
			if !ch.Named {
				op = ch.Text()
				break
			}
		}
	}
	return left, op, right
}

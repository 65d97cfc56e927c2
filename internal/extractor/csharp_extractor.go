package extractor

import (
	"fmt"
	"strings"

	"contractfix/internal/syntax"
)

// CSharpExtractor implements LanguageExtractor for C#.
type CSharpExtractor struct{}

func (c *CSharpExtractor) Language() string { return "csharp" }

func (c *CSharpExtractor) Extensions() []string { return []string{".cs"} }

func (c *CSharpExtractor) Kinds() []string {
	return append(append([]string{}, syntax.TypeDeclarationKinds...), syntax.KindMethod, syntax.KindConstructor)
}

func (c *CSharpExtractor) ExtractUnit(node *syntax.Node, filepath string, namespace string) *CodeUnit {
	var unit *CodeUnit
	switch node.Kind {
	case syntax.KindClass, syntax.KindInterface, syntax.KindStruct, syntax.KindRecord:
		unit = c.extractTypeUnit(node, filepath, namespace)
	case syntax.KindMethod, syntax.KindConstructor:
		unit = c.extractMethodUnit(node, filepath, namespace)
	}
	if unit != nil {
		unit.Package = namespace
		unit.Language = "csharp"
		unit.Node = node
		unit.ID = BuildStableSymbolID(unit)
	}
	return unit
}

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true, "static": true,
	"abstract": true, "virtual": true, "override": true, "sealed": true, "partial": true,
	"async": true, "extern": true, "new": true, "readonly": true, "unsafe": true,
}

func extractModifiers(node *syntax.Node) []string {
	var mods []string
	for _, ch := range node.Children {
		switch {
		case ch.Kind == syntax.KindModifier:
			mods = append(mods, strings.TrimSpace(ch.Text()))
		case !ch.Named && modifierKeywords[ch.Kind]:
			mods = append(mods, ch.Kind)
		}
	}
	return mods
}

func extractTypeParams(node *syntax.Node) []string {
	list := node.ChildByField("type_parameters")
	if list == nil {
		list = node.FirstChildOfKind(syntax.KindTypeParameterList)
	}
	var out []string
	for _, tp := range list.ChildrenOfKind(syntax.KindTypeParameter) {
		name := tp.ChildByField("name")
		if name == nil {
			name = tp.FirstChildOfKind(syntax.KindIdentifier)
		}
		if name != nil {
			out = append(out, name.Text())
		}
	}
	return out
}

// DeclarationAttributes returns the attributes applied to a declaration node.
func DeclarationAttributes(node *syntax.Node) []Attribute {
	var out []Attribute
	for _, list := range node.ChildrenOfKind(syntax.KindAttributeList) {
		for _, attr := range list.ChildrenOfKind(syntax.KindAttribute) {
			nameNode := attr.ChildByField("name")
			if nameNode == nil {
				if named := attr.NamedChildren(); len(named) > 0 {
					nameNode = named[0]
				}
			}
			if nameNode == nil {
				continue
			}
			a := Attribute{Name: normalizeAttributeName(ParseTypeRef(nameNode).Name)}
			argList := attr.FirstChildOfKind(syntax.KindAttributeArgumentList)
			for _, arg := range argList.ChildrenOfKind(syntax.KindAttributeArgument) {
				a.Args = append(a.Args, extractAttributeArg(arg))
			}
			out = append(out, a)
		}
	}
	return out
}

func extractAttributeArg(arg *syntax.Node) AttributeArg {
	named := arg.NamedChildren()
	out := AttributeArg{}
	if len(named) == 0 {
		return out
	}
	expr := named[len(named)-1]
	if len(named) > 1 {
		if id := named[0].FirstChildOfKind(syntax.KindIdentifier); id != nil {
			out.Name = id.Text()
		} else if named[0].Is(syntax.KindIdentifier) {
			out.Name = named[0].Text()
		}
	}
	out.Text = expr.Text()
	if expr.Is(syntax.KindTypeOf) {
		typeNode := expr.ChildByField("type")
		if typeNode == nil {
			if inner := expr.NamedChildren(); len(inner) > 0 {
				typeNode = inner[0]
			}
		}
		if typeNode != nil {
			ref := ParseTypeRef(typeNode)
			out.TypeOf = &ref
		}
	}
	return out
}

func normalizeAttributeName(name string) string {
	if name != "Attribute" {
		name = strings.TrimSuffix(name, "Attribute")
	}
	return name
}

// containerChain returns the enclosing type declarations, outermost first.
func containerChain(node *syntax.Node) []*syntax.Node {
	var chain []*syntax.Node
	for p := node.Ancestor(syntax.TypeDeclarationKinds...); p != nil; p = p.Ancestor(syntax.TypeDeclarationKinds...) {
		chain = append([]*syntax.Node{p}, chain...)
	}
	return chain
}

func typeName(node *syntax.Node) string {
	if n := node.ChildByField("name"); n != nil {
		return n.Text()
	}
	if n := node.FirstChildOfKind(syntax.KindIdentifier); n != nil {
		return n.Text()
	}
	return ""
}

func qualifiedTypeName(node *syntax.Node) string {
	var parts []string
	for _, outer := range containerChain(node) {
		parts = append(parts, arityName(typeName(outer), len(extractTypeParams(outer))))
	}
	if node.Is(syntax.TypeDeclarationKinds...) {
		parts = append(parts, arityName(typeName(node), len(extractTypeParams(node))))
	}
	return strings.Join(parts, ".")
}

// arityName renders a type name with its generic arity, Foo`1, so overloads by arity stay distinct.
func arityName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return fmt.Sprintf("%s`%d", name, arity)
}

func (c *CSharpExtractor) extractTypeUnit(node *syntax.Node, filepath string, namespace string) *CodeUnit {
	name := typeName(node)
	if name == "" {
		return nil
	}

	details := TypeDetails{
		Modifiers:  extractModifiers(node),
		TypeParams: extractTypeParams(node),
		Attributes: DeclarationAttributes(node),
		Usings:     collectUsings(node),
		Qualified:  qualifiedTypeName(node),
	}
	if outer := node.Ancestor(syntax.TypeDeclarationKinds...); outer != nil {
		details.Container = TypeKey(namespace, qualifiedTypeName(outer))
	}

	baseList := node.ChildByField("bases")
	if baseList == nil {
		baseList = node.FirstChildOfKind(syntax.KindBaseList)
	}
	for _, b := range baseList.NamedChildren() {
		if b.Is(syntax.KindArgumentList) {
			continue
		}
		target := b
		if b.Is("primary_constructor_base_type") {
			if named := b.NamedChildren(); len(named) > 0 {
				target = named[0]
			}
		}
		details.Bases = append(details.Bases, ParseTypeRef(target))
	}

	unitType := UnitClass
	switch node.Kind {
	case syntax.KindInterface:
		unitType = UnitInterface
	case syntax.KindStruct:
		unitType = UnitStruct
	case syntax.KindRecord:
		unitType = UnitRecord
	}

	unit := &CodeUnit{
		Filepath:    filepath,
		StartLine:   node.Line(),
		EndLine:     node.EndPos.Row + 1,
		UnitType:    unitType,
		Name:        name,
		Description: extractDocComment(node),
		Details:     details,
	}

	ev := Evidence{Filepath: filepath, StartLine: unit.StartLine, EndLine: unit.StartLine}
	for i := range details.Bases {
		ref := details.Bases[i]
		unit.Relations = append(unit.Relations, Relation{
			Target:     ref.String(),
			Kind:       RelationBase,
			Resolver:   "ast_heuristic",
			Confidence: CalibrateRelationConfidence(RelationBase, "ast_heuristic", ev),
			Evidence:   ev,
			Ref:        &ref,
		})
	}
	for _, attr := range details.Attributes {
		kind := ""
		switch attr.Name {
		case "ContractClass":
			kind = RelationContractClass
		case "ContractClassFor":
			kind = RelationContractClassFor
		default:
			continue
		}
		if len(attr.Args) == 0 || attr.Args[0].TypeOf == nil {
			continue
		}
		ref := *attr.Args[0].TypeOf
		unit.Relations = append(unit.Relations, Relation{
			Target:     ref.String(),
			Kind:       kind,
			Resolver:   "ast_heuristic",
			Confidence: CalibrateRelationConfidence(kind, "ast_heuristic", ev),
			Evidence:   ev,
			Ref:        &ref,
		})
	}
	return unit
}

func (c *CSharpExtractor) extractMethodUnit(node *syntax.Node, filepath string, namespace string) *CodeUnit {
	owner := node.Ancestor(syntax.TypeDeclarationKinds...)
	if owner == nil {
		return nil
	}
	name := typeName(node)
	if name == "" {
		return nil
	}

	details := MethodDetails{
		Owner:      TypeKey(namespace, qualifiedTypeName(owner)),
		Modifiers:  extractModifiers(node),
		TypeParams: extractTypeParams(node),
		Parameters: []Param{},
		Attributes: DeclarationAttributes(node),
	}
	if spec := node.FirstChildOfKind(syntax.KindExplicitInterfaceSpecifier); spec != nil {
		if named := spec.NamedChildren(); len(named) > 0 {
			ref := ParseTypeRef(named[0])
			details.ExplicitInterface = &ref
		}
	}

	params := node.ChildByField("parameters")
	if params == nil {
		params = node.FirstChildOfKind(syntax.KindParameterList)
	}
	var sig []string
	for _, p := range params.ChildrenOfKind(syntax.KindParameter) {
		param := Param{}
		if n := p.ChildByField("name"); n != nil {
			param.Name = n.Text()
		}
		if t := p.ChildByField("type"); t != nil {
			param.Type = ParseTypeRef(t)
		}
		details.Parameters = append(details.Parameters, param)
		sig = append(sig, param.Type.String())
	}

	body := MethodBody(node)
	details.HasBody = body != nil || node.FirstChildOfKind(syntax.KindArrowExpression) != nil

	var b strings.Builder
	if details.ExplicitInterface != nil {
		b.WriteString(details.ExplicitInterface.String())
		b.WriteByte('.')
	}
	b.WriteString(arityName(name, len(details.TypeParams)))
	b.WriteByte('(')
	b.WriteString(strings.Join(sig, ", "))
	b.WriteByte(')')
	details.Signature = b.String()

	unitType := UnitMethod
	if node.Kind == syntax.KindConstructor {
		unitType = UnitConstructor
	}

	ev := Evidence{Filepath: filepath, StartLine: node.Line(), EndLine: node.Line()}
	return &CodeUnit{
		Filepath:    filepath,
		StartLine:   node.Line(),
		EndLine:     node.EndPos.Row + 1,
		UnitType:    unitType,
		Name:        name,
		Description: extractDocComment(node),
		Details:     details,
		Relations: []Relation{{
			Target:     details.Owner,
			Kind:       RelationBelongsTo,
			Resolver:   "ast_heuristic",
			Confidence: CalibrateRelationConfidence(RelationBelongsTo, "ast_heuristic", ev),
			Evidence:   ev,
		}},
	}
}

// MethodBody returns the block body of a method or constructor declaration, or nil.
func MethodBody(node *syntax.Node) *syntax.Node {
	if body := node.ChildByField("body"); body.Is(syntax.KindBlock) {
		return body
	}
	return node.FirstChildOfKind(syntax.KindBlock)
}

func collectUsings(node *syntax.Node) []string {
	var out []string
	for p := node.Parent; p != nil; p = p.Parent {
		if !p.Is(syntax.KindCompilationUnit, syntax.KindDeclarationList, syntax.KindNamespace, syntax.KindFileScopedNamespace) {
			continue
		}
		for _, u := range p.ChildrenOfKind(syntax.KindUsing) {
			named := u.NamedChildren()
			if len(named) == 0 || u.FirstChildOfKind("name_equals") != nil || u.HasToken("static") {
				continue
			}
			out = append(out, strings.Join(strings.Fields(named[len(named)-1].Text()), ""))
		}
	}
	return out
}

func extractDocComment(node *syntax.Node) string {
	var commentLines []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil || prev.Kind != syntax.KindComment || current.StartPos.Row-prev.EndPos.Row > 1 {
			break
		}
		commentLines = append([]string{prev.Text()}, commentLines...)
		current = prev
	}
	return cleanDocComment(strings.Join(commentLines, "\n"))
}

func cleanDocComment(rawComment string) string {
	if rawComment == "" {
		return ""
	}
	lines := strings.Split(rawComment, "\n")
	var cleaned []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "///")
		l = strings.TrimPrefix(l, "//")
		l = strings.TrimPrefix(l, "/*")
		l = strings.TrimSuffix(l, "*/")
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "<summary>")
		l = strings.TrimSuffix(l, "</summary>")
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	return strings.Join(cleaned, "\n")
}

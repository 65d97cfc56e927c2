package syntax

// Node kinds produced by the tree-sitter C# grammar.
const (
	KindCompilationUnit            = "compilation_unit"
	KindNamespace                  = "namespace_declaration"
	KindFileScopedNamespace        = "file_scoped_namespace_declaration"
	KindUsing                      = "using_directive"
	KindClass                      = "class_declaration"
	KindInterface                  = "interface_declaration"
	KindStruct                     = "struct_declaration"
	KindRecord                     = "record_declaration"
	KindMethod                     = "method_declaration"
	KindConstructor                = "constructor_declaration"
	KindDeclarationList            = "declaration_list"
	KindBaseList                   = "base_list"
	KindTypeParameterList          = "type_parameter_list"
	KindTypeParameter              = "type_parameter"
	KindParameterList              = "parameter_list"
	KindParameter                  = "parameter"
	KindAttributeList              = "attribute_list"
	KindAttribute                  = "attribute"
	KindAttributeArgumentList      = "attribute_argument_list"
	KindAttributeArgument          = "attribute_argument"
	KindModifier                   = "modifier"
	KindExplicitInterfaceSpecifier = "explicit_interface_specifier"
	KindBlock                      = "block"
	KindArrowExpression            = "arrow_expression_clause"
	KindExpressionStatement        = "expression_statement"
	KindInvocation                 = "invocation_expression"
	KindArgumentList               = "argument_list"
	KindArgument                   = "argument"
	KindNameColon                  = "name_colon"
	KindMemberAccess               = "member_access_expression"
	KindIdentifier                 = "identifier"
	KindGenericName                = "generic_name"
	KindQualifiedName              = "qualified_name"
	KindAliasQualifiedName         = "alias_qualified_name"
	KindTypeArgumentList           = "type_argument_list"
	KindPredefinedType             = "predefined_type"
	KindNullableType               = "nullable_type"
	KindArrayType                  = "array_type"
	KindBinary                     = "binary_expression"
	KindPrefixUnary                = "prefix_unary_expression"
	KindParenthesized              = "parenthesized_expression"
	KindStringLiteral              = "string_literal"
	KindVerbatimStringLiteral      = "verbatim_string_literal"
	KindRawStringLiteral           = "raw_string_literal"
	KindInterpolatedString         = "interpolated_string_expression"
	KindTypeOf                     = "typeof_expression"
	KindObjectCreation             = "object_creation_expression"
	KindLambda                     = "lambda_expression"
	KindComment                    = "comment"
	KindError                      = "ERROR"
)

// TypeDeclarationKinds are the declarations that introduce a named type.
var TypeDeclarationKinds = []string{KindClass, KindInterface, KindStruct, KindRecord}

// IsStatement reports whether n is a statement directly inside a block.
func IsStatement(n *Node) bool {
	return n != nil && n.Named && n.Kind != KindComment && n.Parent.Is(KindBlock)
}

// IsStringLiteral reports whether n is a plain or verbatim string literal.
func IsStringLiteral(n *Node) bool {
	return n.Is(KindStringLiteral, KindVerbatimStringLiteral)
}

// IsPrimary reports whether n binds tighter than any unary operator.
func IsPrimary(n *Node) bool {
	return n.Is(KindIdentifier, KindMemberAccess, KindInvocation, KindParenthesized, KindGenericName,
		KindStringLiteral, KindVerbatimStringLiteral, KindTypeOf, KindObjectCreation,
		"boolean_literal", "null_literal", "integer_literal", "real_literal", "character_literal",
		"element_access_expression", "this_expression", "base_expression", "this", "base")
}

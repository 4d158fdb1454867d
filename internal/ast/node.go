// Package ast defines the tagged node family produced by the (external)
// parser front-end: a closed set of statement, expression, pattern and type
// annotation shapes, each carrying a stable id, a source span, and a Kind
// tag for exhaustive dispatch. Node shapes only — parsing lives outside
// this module.
package ast

import "github.com/nsyo/jsre/internal/token"

// ID is a node's stable index within the owning Tree's arena. Using an
// index instead of an embedded parent pointer (per the arena redesign)
// keeps the tree free of raw back-references: mutating or replacing a
// node never leaves a dangling parent.
type ID uint32

// NoID marks the absence of a node (e.g. an omitted else-branch).
const NoID ID = 0

// Kind tags every node with its concrete shape, enabling exhaustive
// switches across the ~85 statement/expression/pattern/type forms this
// analyzer supports.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Module / program structure.
	KindProgram
	KindImportDeclaration
	KindImportSpecifier
	KindImportDefaultSpecifier
	KindImportNamespaceSpecifier
	KindExportNamedDeclaration
	KindExportDefaultDeclaration
	KindExportAllDeclaration
	KindExportSpecifier

	// Statements.
	KindBlockStatement
	KindExpressionStatement
	KindEmptyStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindClassDeclaration
	KindReturnStatement
	KindIfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindSwitchStatement
	KindSwitchCase
	KindBreakStatement
	KindContinueStatement
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindLabeledStatement
	KindTypeAlias
	KindInterfaceDeclaration

	// Class members.
	KindClassMethod
	KindClassPrivateMethod
	KindClassProperty
	KindClassPrivateProperty

	// Expressions.
	KindIdentifier
	KindPrivateName
	KindThisExpression
	KindSuper
	KindNumericLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindRegExpLiteral
	KindTemplateLiteral
	KindTemplateElement
	KindArrayExpression
	KindObjectExpression
	KindObjectProperty
	KindObjectMethod
	KindSpreadElement
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindBinaryExpression
	KindLogicalExpression
	KindUnaryExpression
	KindUpdateExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindSequenceExpression
	KindAwaitExpression
	KindYieldExpression
	KindTypeCastExpression

	// Patterns (destructuring).
	KindObjectPattern
	KindArrayPattern
	KindRestElement
	KindAssignmentPattern

	// Type annotations (the gradual structural type layer).
	KindTypeAnnotation
	KindNullableTypeAnnotation
	KindGenericTypeAnnotation
	KindUnionTypeAnnotation
	KindFunctionTypeAnnotation
	KindFunctionTypeParam
	KindObjectTypeAnnotation
	KindObjectTypeProperty
	KindObjectTypeIndexer
	KindQualifiedTypeIdentifier
	KindTypeParameterDeclaration
)

var kindNames = map[Kind]string{
	KindInvalid:                  "Invalid",
	KindProgram:                  "Program",
	KindImportDeclaration:        "ImportDeclaration",
	KindImportSpecifier:          "ImportSpecifier",
	KindImportDefaultSpecifier:   "ImportDefaultSpecifier",
	KindImportNamespaceSpecifier: "ImportNamespaceSpecifier",
	KindExportNamedDeclaration:   "ExportNamedDeclaration",
	KindExportDefaultDeclaration: "ExportDefaultDeclaration",
	KindExportAllDeclaration:     "ExportAllDeclaration",
	KindExportSpecifier:          "ExportSpecifier",
	KindBlockStatement:           "BlockStatement",
	KindExpressionStatement:      "ExpressionStatement",
	KindEmptyStatement:           "EmptyStatement",
	KindVariableDeclaration:      "VariableDeclaration",
	KindVariableDeclarator:       "VariableDeclarator",
	KindFunctionDeclaration:      "FunctionDeclaration",
	KindClassDeclaration:         "ClassDeclaration",
	KindReturnStatement:          "ReturnStatement",
	KindIfStatement:              "IfStatement",
	KindWhileStatement:           "WhileStatement",
	KindDoWhileStatement:         "DoWhileStatement",
	KindForStatement:             "ForStatement",
	KindForInStatement:           "ForInStatement",
	KindForOfStatement:           "ForOfStatement",
	KindSwitchStatement:          "SwitchStatement",
	KindSwitchCase:               "SwitchCase",
	KindBreakStatement:           "BreakStatement",
	KindContinueStatement:        "ContinueStatement",
	KindThrowStatement:           "ThrowStatement",
	KindTryStatement:             "TryStatement",
	KindCatchClause:              "CatchClause",
	KindLabeledStatement:         "LabeledStatement",
	KindTypeAlias:                "TypeAlias",
	KindInterfaceDeclaration:     "InterfaceDeclaration",
	KindClassMethod:              "ClassMethod",
	KindClassPrivateMethod:       "ClassPrivateMethod",
	KindClassProperty:            "ClassProperty",
	KindClassPrivateProperty:     "ClassPrivateProperty",
	KindIdentifier:               "Identifier",
	KindPrivateName:              "PrivateName",
	KindThisExpression:           "ThisExpression",
	KindSuper:                    "Super",
	KindNumericLiteral:           "NumericLiteral",
	KindStringLiteral:            "StringLiteral",
	KindBooleanLiteral:           "BooleanLiteral",
	KindNullLiteral:              "NullLiteral",
	KindRegExpLiteral:            "RegExpLiteral",
	KindTemplateLiteral:          "TemplateLiteral",
	KindTemplateElement:          "TemplateElement",
	KindArrayExpression:          "ArrayExpression",
	KindObjectExpression:         "ObjectExpression",
	KindObjectProperty:           "ObjectProperty",
	KindObjectMethod:             "ObjectMethod",
	KindSpreadElement:            "SpreadElement",
	KindFunctionExpression:       "FunctionExpression",
	KindArrowFunctionExpression:  "ArrowFunctionExpression",
	KindClassExpression:          "ClassExpression",
	KindCallExpression:           "CallExpression",
	KindNewExpression:            "NewExpression",
	KindMemberExpression:         "MemberExpression",
	KindBinaryExpression:         "BinaryExpression",
	KindLogicalExpression:        "LogicalExpression",
	KindUnaryExpression:          "UnaryExpression",
	KindUpdateExpression:         "UpdateExpression",
	KindAssignmentExpression:     "AssignmentExpression",
	KindConditionalExpression:    "ConditionalExpression",
	KindSequenceExpression:       "SequenceExpression",
	KindAwaitExpression:          "AwaitExpression",
	KindYieldExpression:          "YieldExpression",
	KindTypeCastExpression:       "TypeCastExpression",
	KindObjectPattern:            "ObjectPattern",
	KindArrayPattern:             "ArrayPattern",
	KindRestElement:              "RestElement",
	KindAssignmentPattern:        "AssignmentPattern",
	KindTypeAnnotation:           "TypeAnnotation",
	KindNullableTypeAnnotation:   "NullableTypeAnnotation",
	KindGenericTypeAnnotation:    "GenericTypeAnnotation",
	KindUnionTypeAnnotation:      "UnionTypeAnnotation",
	KindFunctionTypeAnnotation:   "FunctionTypeAnnotation",
	KindFunctionTypeParam:        "FunctionTypeParam",
	KindObjectTypeAnnotation:     "ObjectTypeAnnotation",
	KindObjectTypeProperty:       "ObjectTypeProperty",
	KindObjectTypeIndexer:        "ObjectTypeIndexer",
	KindQualifiedTypeIdentifier:  "QualifiedTypeIdentifier",
	KindTypeParameterDeclaration: "TypeParameterDeclaration",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Node is the base interface every AST node satisfies.
type Node interface {
	NodeID() ID
	Kind() Kind
	Span() token.Span
}

// base is embedded by every concrete node to provide id/span bookkeeping
// without requiring a parent back-pointer (see the package doc and
// design notes on arena-indexed parents).
type base struct {
	id   ID
	span token.Span
}

func (b *base) NodeID() ID        { return b.id }
func (b *base) Span() token.Span  { return b.span }
func (b *base) setID(id ID)       { b.id = id }
func (b *base) setSpan(s token.Span) { b.span = s }

// settable is implemented by *base via the embedding concrete types; Attach
// uses it to assign stable ids as nodes are registered with a Tree.
type settable interface {
	setID(ID)
}

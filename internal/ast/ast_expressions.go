package ast

// Expression is any node that can appear in value position.
type Expression interface {
	Node
	expressionNode()
}

// Identifier is a bound or free name. TypeAnnotation is non-nil when the
// identifier appears in a position that permits one (function parameter,
// variable declarator, class property).
type Identifier struct {
	base
	Name           string
	TypeAnnotation Expression // a *TypeAnnotation, or nil
}

func (*Identifier) expressionNode() {}
func (*Identifier) Kind() Kind      { return KindIdentifier }

// PrivateName is a `#name` class-private member reference.
type PrivateName struct {
	base
	Name string
}

func (*PrivateName) expressionNode() {}
func (*PrivateName) Kind() Kind      { return KindPrivateName }

type ThisExpression struct{ base }

func (*ThisExpression) expressionNode() {}
func (*ThisExpression) Kind() Kind      { return KindThisExpression }

type Super struct{ base }

func (*Super) expressionNode() {}
func (*Super) Kind() Kind      { return KindSuper }

type NumericLiteral struct {
	base
	Value float64
	Raw   string
}

func (*NumericLiteral) expressionNode() {}
func (*NumericLiteral) Kind() Kind      { return KindNumericLiteral }

type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) expressionNode() {}
func (*StringLiteral) Kind() Kind      { return KindStringLiteral }

type BooleanLiteral struct {
	base
	Value bool
}

func (*BooleanLiteral) expressionNode() {}
func (*BooleanLiteral) Kind() Kind      { return KindBooleanLiteral }

type NullLiteral struct{ base }

func (*NullLiteral) expressionNode() {}
func (*NullLiteral) Kind() Kind      { return KindNullLiteral }

type RegExpLiteral struct {
	base
	Pattern string
	Flags   string
}

func (*RegExpLiteral) expressionNode() {}
func (*RegExpLiteral) Kind() Kind      { return KindRegExpLiteral }

// TemplateElement is one literal chunk of a template literal.
type TemplateElement struct {
	base
	Raw    string
	Cooked string
	Tail   bool
}

func (*TemplateElement) expressionNode() {}
func (*TemplateElement) Kind() Kind      { return KindTemplateElement }

// TemplateLiteral interleaves literal Quasis with interpolated Expressions;
// len(Quasis) == len(Expressions)+1.
type TemplateLiteral struct {
	base
	Quasis      []ID
	Expressions []ID
}

func (*TemplateLiteral) expressionNode() {}
func (*TemplateLiteral) Kind() Kind      { return KindTemplateLiteral }

type ArrayExpression struct {
	base
	Elements []ID // element may be NoID for an elision, or a SpreadElement
}

func (*ArrayExpression) expressionNode() {}
func (*ArrayExpression) Kind() Kind      { return KindArrayExpression }

// ObjectProperty is a key: value pair of an object literal (or, reused as
// a pattern property, of an ObjectPattern).
type ObjectProperty struct {
	base
	Key       ID // Identifier, StringLiteral, NumericLiteral, or an arbitrary Expression when Computed
	Value     ID // expression (object literal) or pattern (object pattern); may equal Key for shorthand
	Computed  bool
	Shorthand bool
}

func (*ObjectProperty) expressionNode() {}
func (*ObjectProperty) Kind() Kind      { return KindObjectProperty }

// ObjectMethod is a method shorthand inside an object literal: `{ f(x) {} }`.
type ObjectMethod struct {
	base
	Key       ID
	Computed  bool
	Kind_     string // "method", "get", "set"
	Params    []ID
	Body      ID // BlockStatement
	Async     bool
	Generator bool
}

func (*ObjectMethod) expressionNode() {}
func (*ObjectMethod) Kind() Kind      { return KindObjectMethod }

type ObjectExpression struct {
	base
	Properties []ID // ObjectProperty, ObjectMethod, or SpreadElement
}

func (*ObjectExpression) expressionNode() {}
func (*ObjectExpression) Kind() Kind      { return KindObjectExpression }

// SpreadElement is `...expr` inside an array/object literal or a call's
// argument list.
type SpreadElement struct {
	base
	Argument ID
}

func (*SpreadElement) expressionNode() {}
func (*SpreadElement) Kind() Kind      { return KindSpreadElement }

// FunctionExpression, ArrowFunctionExpression, and FunctionDeclaration
// (ast_statements.go) all share this shape; kept as distinct Kinds because
// isFunctionNode and hoisting treat them uniformly but the
// resolver/graph builder branch on a few of their differences (arrow
// functions don't bind `this`/`arguments`; expression-bodied arrows are
// implicitly returning).
type FunctionExpression struct {
	base
	ID_        ID // optional name, for `const f = function named() {}` stack traces
	Params     []ID
	Body       ID // BlockStatement
	Async      bool
	Generator  bool
	ReturnType Expression
}

func (*FunctionExpression) expressionNode() {}
func (*FunctionExpression) Kind() Kind      { return KindFunctionExpression }

type ArrowFunctionExpression struct {
	base
	Params         []ID
	Body           ID // BlockStatement, or an Expression when ExpressionBody is set
	ExpressionBody bool
	Async          bool
	ReturnType     Expression
}

func (*ArrowFunctionExpression) expressionNode() {}
func (*ArrowFunctionExpression) Kind() Kind      { return KindArrowFunctionExpression }

type ClassExpression struct {
	base
	ID_        ID // optional
	SuperClass ID
	Body       []ID // ClassMethod, ClassPrivateMethod, ClassProperty, ClassPrivateProperty
}

func (*ClassExpression) expressionNode() {}
func (*ClassExpression) Kind() Kind      { return KindClassExpression }

type CallExpression struct {
	base
	Callee    ID
	Arguments []ID
	Optional  bool // `callee?.()`
}

func (*CallExpression) expressionNode() {}
func (*CallExpression) Kind() Kind      { return KindCallExpression }

type NewExpression struct {
	base
	Callee    ID
	Arguments []ID
}

func (*NewExpression) expressionNode() {}
func (*NewExpression) Kind() Kind      { return KindNewExpression }

// MemberExpression covers both `obj.prop` (Computed=false, Property is an
// Identifier) and `obj[expr]` (Computed=true).
type MemberExpression struct {
	base
	Object   ID
	Property ID
	Computed bool
	Optional bool
}

func (*MemberExpression) expressionNode() {}
func (*MemberExpression) Kind() Kind      { return KindMemberExpression }

type BinaryExpression struct {
	base
	Operator string
	Left     ID
	Right    ID
}

func (*BinaryExpression) expressionNode() {}
func (*BinaryExpression) Kind() Kind      { return KindBinaryExpression }

// LogicalExpression is syntactically identical to BinaryExpression
// (Operator one of "&&", "||", "??") but kept as a distinct Kind because
// the graph builder and refinement must distinguish short-circuit
// logical operators from eager binary operators even though both lower to
// the same BinaryOperator graph node tag with an AST back-reference.
type LogicalExpression struct {
	base
	Operator string
	Left     ID
	Right    ID
}

func (*LogicalExpression) expressionNode() {}
func (*LogicalExpression) Kind() Kind      { return KindLogicalExpression }

type UnaryExpression struct {
	base
	Operator string // "!", "-", "+", "~", "typeof", "void", "delete"
	Argument ID
	Prefix   bool
}

func (*UnaryExpression) expressionNode() {}
func (*UnaryExpression) Kind() Kind      { return KindUnaryExpression }

type UpdateExpression struct {
	base
	Operator string // "++" or "--"
	Argument ID
	Prefix   bool
}

func (*UpdateExpression) expressionNode() {}
func (*UpdateExpression) Kind() Kind      { return KindUpdateExpression }

type AssignmentExpression struct {
	base
	Operator string // "=", "+=", "&&=", ...
	Left     ID     // Identifier, MemberExpression, or a pattern for destructuring assignment
	Right    ID
}

func (*AssignmentExpression) expressionNode() {}
func (*AssignmentExpression) Kind() Kind      { return KindAssignmentExpression }

type ConditionalExpression struct {
	base
	Test       ID
	Consequent ID
	Alternate  ID
}

func (*ConditionalExpression) expressionNode() {}
func (*ConditionalExpression) Kind() Kind      { return KindConditionalExpression }

type SequenceExpression struct {
	base
	Expressions []ID
}

func (*SequenceExpression) expressionNode() {}
func (*SequenceExpression) Kind() Kind      { return KindSequenceExpression }

type AwaitExpression struct {
	base
	Argument ID
}

func (*AwaitExpression) expressionNode() {}
func (*AwaitExpression) Kind() Kind      { return KindAwaitExpression }

type YieldExpression struct {
	base
	Argument ID // may be NoID
	Delegate bool
}

func (*YieldExpression) expressionNode() {}
func (*YieldExpression) Kind() Kind      { return KindYieldExpression }

// TypeCastExpression is `(expr: Type)`, an explicit structural-type
// assertion the type resolver treats as authoritative.
type TypeCastExpression struct {
	base
	Expression     ID
	TypeAnnotation Expression
}

func (*TypeCastExpression) expressionNode() {}
func (*TypeCastExpression) Kind() Kind      { return KindTypeCastExpression }

package ast

// Type-annotation node shapes: the gradual structural type layer overlaid
// on an otherwise dynamically typed language. These appear as
// the TypeAnnotation field of identifiers/params/properties and are
// resolved to types.TypeInfo values lazily.

// TypeAnnotation wraps the actual type expression; kept as its own node
// (rather than inlining the wrapped type directly into Identifier) so a
// bare, unannotated identifier and an explicitly-annotated one share the
// same Go field type (Expression, nilable) without a discriminant.
type TypeAnnotation struct {
	base
	TypeExpression Expression
}

func (*TypeAnnotation) expressionNode() {}
func (*TypeAnnotation) Kind() Kind      { return KindTypeAnnotation }

// NamedTypeAnnotation names a primitive or declared type: `number`,
// `string`, `MyClass`. (Not separately tagged; represented as a
// GenericTypeAnnotation with no TypeParameters.)

// GenericTypeAnnotation is a named type, optionally applied to type
// arguments: `Array<number>`, `Point`.
type GenericTypeAnnotation struct {
	base
	ID_            ID // Identifier or QualifiedTypeIdentifier
	TypeParameters []Expression
}

func (*GenericTypeAnnotation) expressionNode() {}
func (*GenericTypeAnnotation) Kind() Kind      { return KindGenericTypeAnnotation }

// NullableTypeAnnotation is `?T`, shorthand for `T | null | undefined`.
type NullableTypeAnnotation struct {
	base
	TypeExpression Expression
}

func (*NullableTypeAnnotation) expressionNode() {}
func (*NullableTypeAnnotation) Kind() Kind      { return KindNullableTypeAnnotation }

// UnionTypeAnnotation is `A | B | C`, the syntactic source of a Sum type.
type UnionTypeAnnotation struct {
	base
	Types []Expression
}

func (*UnionTypeAnnotation) expressionNode() {}
func (*UnionTypeAnnotation) Kind() Kind      { return KindUnionTypeAnnotation }

// FunctionTypeParam is one parameter of a FunctionTypeAnnotation; its Name
// is an unscoped type identifier.
type FunctionTypeParam struct {
	base
	Name           *Identifier // may be nil (positional-only param type)
	TypeExpression Expression
}

func (*FunctionTypeParam) expressionNode() {}
func (*FunctionTypeParam) Kind() Kind      { return KindFunctionTypeParam }

// FunctionTypeAnnotation is `(a: number, ...rest: string[]) => boolean`.
type FunctionTypeAnnotation struct {
	base
	Params     []ID // FunctionTypeParam
	RestParam  ID   // may be NoID
	ReturnType Expression
}

func (*FunctionTypeAnnotation) expressionNode() {}
func (*FunctionTypeAnnotation) Kind() Kind      { return KindFunctionTypeAnnotation }

// ObjectTypeProperty is one `name: Type` member of an object type
// annotation; Key is an unscoped type identifier.
type ObjectTypeProperty struct {
	base
	Key            *Identifier
	TypeExpression Expression
	Optional       bool
	Method         bool // `foo(): number` shorthand vs `foo: () => number`
}

func (*ObjectTypeProperty) expressionNode() {}
func (*ObjectTypeProperty) Kind() Kind      { return KindObjectTypeProperty }

// ObjectTypeIndexer is `[key: string]: Type`; its Id is an unscoped type
// identifier.
type ObjectTypeIndexer struct {
	base
	Id             *Identifier
	KeyType        Expression
	TypeExpression Expression
}

func (*ObjectTypeIndexer) expressionNode() {}
func (*ObjectTypeIndexer) Kind() Kind      { return KindObjectTypeIndexer }

// ObjectTypeAnnotation is `{a: number, b: string, [k: string]: unknown}`.
// Exact=true (called "strict" in the type lattice) means the property set
// is closed (`{| ... |}`-style); open object type literals set Exact=false.
type ObjectTypeAnnotation struct {
	base
	Properties []ID // ObjectTypeProperty
	Indexers   []ID // ObjectTypeIndexer
	Exact      bool
}

func (*ObjectTypeAnnotation) expressionNode() {}
func (*ObjectTypeAnnotation) Kind() Kind      { return KindObjectTypeAnnotation }

// QualifiedTypeIdentifier is `Namespace.Type`; its Id (the trailing member)
// is treated the same as a MemberExpression property for resolution
// purposes.
type QualifiedTypeIdentifier struct {
	base
	Qualification Expression // GenericTypeAnnotation or nested QualifiedTypeIdentifier
	Id            *Identifier
}

func (*QualifiedTypeIdentifier) expressionNode() {}
func (*QualifiedTypeIdentifier) Kind() Kind      { return KindQualifiedTypeIdentifier }

// TypeParameterDeclaration introduces a generic type parameter name on a
// function or class (`function f<T>(x: T): T`); its Name is an unscoped
// type identifier.
type TypeParameterDeclaration struct {
	base
	Name       *Identifier
	Bound      Expression // optional constraint
	Default    Expression // optional default
}

func (*TypeParameterDeclaration) expressionNode() {}
func (*TypeParameterDeclaration) Kind() Kind      { return KindTypeParameterDeclaration }

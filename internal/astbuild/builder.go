// Package astbuild constructs ast.Tree values directly, without a
// tokenizer or parser in front of them. Parsing source text into this AST
// is explicitly out of scope; every other package that needs a tree to
// operate on — resolution, graph construction, type checking, and their
// tests — builds one through this package instead.
package astbuild

import "github.com/nsyo/jsre/internal/ast"

// Builder accumulates nodes into one arena. Build (or any method that
// returns a root, like Program) does not finalize parent links; call
// Finish once the whole tree is assembled.
type Builder struct {
	Tree *ast.Tree
}

// New starts a fresh builder.
func New() *Builder {
	return &Builder{Tree: ast.NewTree()}
}

func (b *Builder) attach(n ast.Node) ast.ID {
	return b.Tree.Attach(n)
}

// Finish links parent pointers for the whole subtree rooted at root. Call
// once after the tree is fully built.
func (b *Builder) Finish(root ast.ID) ast.ID {
	b.Tree.Link(root)
	return root
}

// Program attaches the module root.
func (b *Builder) Program(file string, body ...ast.ID) ast.ID {
	return b.attach(&ast.Program{File: file, Body: body})
}

func (b *Builder) Ident(name string) ast.ID {
	return b.attach(&ast.Identifier{Name: name})
}

func (b *Builder) IdentTyped(name string, typeAnn ast.Expression) ast.ID {
	return b.attach(&ast.Identifier{Name: name, TypeAnnotation: typeAnn})
}

func (b *Builder) Num(v float64) ast.ID {
	return b.attach(&ast.NumericLiteral{Value: v})
}

func (b *Builder) Str(v string) ast.ID {
	return b.attach(&ast.StringLiteral{Value: v})
}

func (b *Builder) Bool(v bool) ast.ID {
	return b.attach(&ast.BooleanLiteral{Value: v})
}

func (b *Builder) Null() ast.ID {
	return b.attach(&ast.NullLiteral{})
}

func (b *Builder) This() ast.ID {
	return b.attach(&ast.ThisExpression{})
}

// Block / expression statements.

func (b *Builder) Block(body ...ast.ID) ast.ID {
	return b.attach(&ast.BlockStatement{Body: body})
}

func (b *Builder) ExprStmt(e ast.ID) ast.ID {
	return b.attach(&ast.ExpressionStatement{Expression: e})
}

func (b *Builder) Empty() ast.ID {
	return b.attach(&ast.EmptyStatement{})
}

// Declarations.

func (b *Builder) VarDeclarator(id, init ast.ID) ast.ID {
	return b.attach(&ast.VariableDeclarator{ID_: id, Init: init})
}

func (b *Builder) VarDecl(kind ast.DeclKind, declarators ...ast.ID) ast.ID {
	return b.attach(&ast.VariableDeclaration{DeclKind: kind, Declarators: declarators})
}

func (b *Builder) FuncDecl(name ast.ID, params []ast.ID, body ast.ID, async, generator bool, ret ast.Expression) ast.ID {
	return b.attach(&ast.FunctionDeclaration{ID_: name, Params: params, Body: body, Async: async, Generator: generator, ReturnType: ret})
}

func (b *Builder) FuncExpr(name ast.ID, params []ast.ID, body ast.ID, async bool, ret ast.Expression) ast.ID {
	return b.attach(&ast.FunctionExpression{ID_: name, Params: params, Body: body, Async: async, ReturnType: ret})
}

func (b *Builder) Arrow(params []ast.ID, body ast.ID, exprBody, async bool, ret ast.Expression) ast.ID {
	return b.attach(&ast.ArrowFunctionExpression{Params: params, Body: body, ExpressionBody: exprBody, Async: async, ReturnType: ret})
}

func (b *Builder) ClassDecl(name, superClass ast.ID, body ...ast.ID) ast.ID {
	return b.attach(&ast.ClassDeclaration{ID_: name, SuperClass: superClass, Body: body})
}

func (b *Builder) ClassMethod(key ast.ID, kind string, params []ast.ID, body ast.ID, static, async bool) ast.ID {
	return b.attach(&ast.ClassMethod{Key: key, Kind_: kind, Params: params, Body: body, Static: static, Async: async})
}

func (b *Builder) ClassProperty(key, value ast.ID, static bool, typeAnn ast.Expression) ast.ID {
	return b.attach(&ast.ClassProperty{Key: key, Value: value, Static: static, TypeAnnotation: typeAnn})
}

// Control flow.

func (b *Builder) If(test, consequent, alternate ast.ID) ast.ID {
	return b.attach(&ast.IfStatement{Test: test, Consequent: consequent, Alternate: alternate})
}

func (b *Builder) While(test, body ast.ID) ast.ID {
	return b.attach(&ast.WhileStatement{Test: test, Body: body})
}

func (b *Builder) DoWhile(body, test ast.ID) ast.ID {
	return b.attach(&ast.DoWhileStatement{Test: test, Body: body})
}

func (b *Builder) For(init, test, update, body ast.ID) ast.ID {
	return b.attach(&ast.ForStatement{Init: init, Test: test, Update: update, Body: body})
}

func (b *Builder) ForIn(left, right, body ast.ID) ast.ID {
	return b.attach(&ast.ForInStatement{Left: left, Right: right, Body: body})
}

func (b *Builder) ForOf(left, right, body ast.ID, await bool) ast.ID {
	return b.attach(&ast.ForOfStatement{Left: left, Right: right, Body: body, Await: await})
}

func (b *Builder) SwitchCase(test ast.ID, consequent ...ast.ID) ast.ID {
	return b.attach(&ast.SwitchCase{Test: test, Consequent: consequent})
}

func (b *Builder) Switch(discriminant ast.ID, cases ...ast.ID) ast.ID {
	return b.attach(&ast.SwitchStatement{Discriminant: discriminant, Cases: cases})
}

func (b *Builder) Break(label *ast.Identifier) ast.ID {
	return b.attach(&ast.BreakStatement{Label: label})
}

func (b *Builder) Continue(label *ast.Identifier) ast.ID {
	return b.attach(&ast.ContinueStatement{Label: label})
}

func (b *Builder) Return(arg ast.ID) ast.ID {
	return b.attach(&ast.ReturnStatement{Argument: arg})
}

func (b *Builder) Throw(arg ast.ID) ast.ID {
	return b.attach(&ast.ThrowStatement{Argument: arg})
}

func (b *Builder) Catch(param, body ast.ID) ast.ID {
	return b.attach(&ast.CatchClause{Param: param, Body: body})
}

func (b *Builder) Try(block, handler, finalizer ast.ID) ast.ID {
	return b.attach(&ast.TryStatement{Block: block, Handler: handler, Finalizer: finalizer})
}

func (b *Builder) Labeled(label *ast.Identifier, body ast.ID) ast.ID {
	return b.attach(&ast.LabeledStatement{Label: label, Body: body})
}

// Expressions.

func (b *Builder) Call(callee ast.ID, args ...ast.ID) ast.ID {
	return b.attach(&ast.CallExpression{Callee: callee, Arguments: args})
}

func (b *Builder) New(callee ast.ID, args ...ast.ID) ast.ID {
	return b.attach(&ast.NewExpression{Callee: callee, Arguments: args})
}

func (b *Builder) Member(obj, prop ast.ID, computed bool) ast.ID {
	return b.attach(&ast.MemberExpression{Object: obj, Property: prop, Computed: computed})
}

// MemberProp attaches prop as a plain identifier for `obj.prop`.
func (b *Builder) MemberProp(obj ast.ID, propName string, computed bool) ast.ID {
	propID := b.Ident(propName)
	return b.Member(obj, propID, computed)
}

func (b *Builder) Binary(op string, left, right ast.ID) ast.ID {
	return b.attach(&ast.BinaryExpression{Operator: op, Left: left, Right: right})
}

func (b *Builder) Logical(op string, left, right ast.ID) ast.ID {
	return b.attach(&ast.LogicalExpression{Operator: op, Left: left, Right: right})
}

func (b *Builder) Unary(op string, arg ast.ID, prefix bool) ast.ID {
	return b.attach(&ast.UnaryExpression{Operator: op, Argument: arg, Prefix: prefix})
}

func (b *Builder) Update(op string, arg ast.ID, prefix bool) ast.ID {
	return b.attach(&ast.UpdateExpression{Operator: op, Argument: arg, Prefix: prefix})
}

func (b *Builder) Assign(op string, left, right ast.ID) ast.ID {
	return b.attach(&ast.AssignmentExpression{Operator: op, Left: left, Right: right})
}

func (b *Builder) Conditional(test, consequent, alternate ast.ID) ast.ID {
	return b.attach(&ast.ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate})
}

func (b *Builder) Sequence(exprs ...ast.ID) ast.ID {
	return b.attach(&ast.SequenceExpression{Expressions: exprs})
}

func (b *Builder) Await(arg ast.ID) ast.ID {
	return b.attach(&ast.AwaitExpression{Argument: arg})
}

func (b *Builder) Array(elements ...ast.ID) ast.ID {
	return b.attach(&ast.ArrayExpression{Elements: elements})
}

func (b *Builder) ObjectProp(key, value ast.ID, computed, shorthand bool) ast.ID {
	return b.attach(&ast.ObjectProperty{Key: key, Value: value, Computed: computed, Shorthand: shorthand})
}

func (b *Builder) Object(props ...ast.ID) ast.ID {
	return b.attach(&ast.ObjectExpression{Properties: props})
}

func (b *Builder) Spread(arg ast.ID) ast.ID {
	return b.attach(&ast.SpreadElement{Argument: arg})
}

// Patterns.

func (b *Builder) ArrayPattern(elements ...ast.ID) ast.ID {
	return b.attach(&ast.ArrayPattern{Elements: elements})
}

func (b *Builder) ObjectPattern(props ...ast.ID) ast.ID {
	return b.attach(&ast.ObjectPattern{Properties: props})
}

func (b *Builder) Rest(arg ast.ID) ast.ID {
	return b.attach(&ast.RestElement{Argument: arg})
}

func (b *Builder) AssignPattern(left, right ast.ID) ast.ID {
	return b.attach(&ast.AssignmentPattern{Left: left, Right: right})
}

// Modules.

func (b *Builder) ImportSpec(imported, local ast.ID) ast.ID {
	return b.attach(&ast.ImportSpecifier{Imported: imported, Local: local})
}

func (b *Builder) ImportDefaultSpec(local ast.ID) ast.ID {
	return b.attach(&ast.ImportDefaultSpecifier{Local: local})
}

func (b *Builder) ImportNamespaceSpec(local ast.ID) ast.ID {
	return b.attach(&ast.ImportNamespaceSpecifier{Local: local})
}

func (b *Builder) ImportDecl(source string, specifiers ...ast.ID) ast.ID {
	return b.attach(&ast.ImportDeclaration{Specifiers: specifiers, Source: source})
}

func (b *Builder) ExportSpec(local, exported ast.ID) ast.ID {
	return b.attach(&ast.ExportSpecifier{Local: local, Exported: exported})
}

func (b *Builder) ExportNamed(decl ast.ID, source string, specifiers ...ast.ID) ast.ID {
	return b.attach(&ast.ExportNamedDeclaration{Declaration: decl, Specifiers: specifiers, Source: source})
}

func (b *Builder) ExportDefault(decl ast.ID) ast.ID {
	return b.attach(&ast.ExportDefaultDeclaration{Declaration: decl})
}

func (b *Builder) ExportAll(source string) ast.ID {
	return b.attach(&ast.ExportAllDeclaration{Source: source})
}

// Types.

func (b *Builder) TypeAnn(expr ast.Expression) ast.Expression {
	id := b.attach(&ast.TypeAnnotation{TypeExpression: expr})
	return b.Tree.Node(id).(ast.Expression)
}

func (b *Builder) NamedType(name string, typeArgs ...ast.Expression) ast.Expression {
	nameID := b.Ident(name)
	id := b.attach(&ast.GenericTypeAnnotation{ID_: nameID, TypeParameters: typeArgs})
	return b.Tree.Node(id).(ast.Expression)
}

func (b *Builder) UnionType(types ...ast.Expression) ast.Expression {
	id := b.attach(&ast.UnionTypeAnnotation{Types: types})
	return b.Tree.Node(id).(ast.Expression)
}

func (b *Builder) NullableType(expr ast.Expression) ast.Expression {
	id := b.attach(&ast.NullableTypeAnnotation{TypeExpression: expr})
	return b.Tree.Node(id).(ast.Expression)
}

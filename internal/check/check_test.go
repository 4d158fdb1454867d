package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/resolve"
)

func newModule(t *testing.T, b *astbuild.Builder, root ast.ID) *resolve.Module {
	t.Helper()
	b.Finish(root)
	mod := resolve.NewModule("test.js", "", b.Tree, root)
	resolve.ResolveLocal(mod)
	return mod
}

func runChecks(t *testing.T, mod *resolve.Module) []*diagnostics.Diagnostic {
	t.Helper()
	sink := diagnostics.NewSink(nil)
	Run(mod, sink)
	return sink.All()
}

func codesOf(diags []*diagnostics.Diagnostic) []diagnostics.Code {
	out := make([]diagnostics.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestUnusedDeclarationFlagsUnreadLocal(t *testing.T) {
	b := astbuild.New()
	x := b.Ident("x")
	decl := b.VarDecl(ast.DeclLet, b.VarDeclarator(x, b.Num(1)))
	root := b.Program("test.js", decl)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeUnusedDeclaration)
}

func TestUnusedDeclarationIgnoresUsedLocal(t *testing.T) {
	b := astbuild.New()
	x := b.Ident("x")
	use := b.Ident("x")
	decl := b.VarDecl(ast.DeclLet, b.VarDeclarator(x, b.Num(1)))
	stmt := b.ExprStmt(use)
	root := b.Program("test.js", decl, stmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeUnusedDeclaration)
}

func TestUnusedParameterSuggestsRenameInArrow(t *testing.T) {
	b := astbuild.New()
	param := b.Ident("unused")
	arrow := b.Arrow([]ast.ID{param}, b.Block(), false, false, nil)
	stmt := b.ExprStmt(arrow)
	root := b.Program("test.js", stmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeRenameUnusedParam)
}

func TestUnusedParameterWithLeadingUnderscoreIsSilent(t *testing.T) {
	b := astbuild.New()
	param := b.Ident("_unused")
	arrow := b.Arrow([]ast.ID{param}, b.Block(), false, false, nil)
	stmt := b.ExprStmt(arrow)
	root := b.Program("test.js", stmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeRenameUnusedParam)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeUnusedParameter)
}

func TestUnusedImportSpecifierWarns(t *testing.T) {
	b := astbuild.New()
	local := b.Ident("foo")
	imported := b.Ident("foo")
	spec := b.ImportSpec(imported, local)
	decl := b.ImportDecl("./m.js", spec)
	root := b.Program("test.js", decl)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeUnusedImport)
}

func TestUnusedCatchParamIsExcluded(t *testing.T) {
	b := astbuild.New()
	param := b.Ident("e")
	catch := b.Catch(param, b.Block())
	tryStmt := b.Try(b.Block(), catch, ast.NoID)
	root := b.Program("test.js", tryStmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeUnusedDeclaration)
}

func TestUnusedClassFlaggedDespiteInternalSelfReference(t *testing.T) {
	b := astbuild.New()
	name := b.Ident("Node")
	selfUse := b.Ident("Node")
	method := b.ClassMethod(b.Ident("wrap"), "method", nil,
		b.Block(b.Return(b.New(selfUse))), false, false)
	classDecl := b.ClassDecl(name, ast.NoID, method)
	root := b.Program("test.js", classDecl)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeUnusedDeclaration)
}

func TestExportedDeclarationIsNeverUnused(t *testing.T) {
	b := astbuild.New()
	name := b.Ident("helper")
	fn := b.FuncDecl(name, nil, b.Block(), false, false, nil)
	exported := b.ExportNamed(fn, "")
	root := b.Program("test.js", exported)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeUnusedDeclaration)
}

func TestEmptyBodyConditionalWarnsOnStraySemicolon(t *testing.T) {
	b := astbuild.New()
	ifStmt := b.If(b.Bool(true), b.Empty(), ast.NoID)
	root := b.Program("test.js", ifStmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeEmptyBodyConditional)
}

func TestEmptyBodyConditionalIsSilentOnRealBody(t *testing.T) {
	b := astbuild.New()
	ifStmt := b.If(b.Bool(true), b.Block(), ast.NoID)
	root := b.Program("test.js", ifStmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.NotContains(t, codesOf(diags), diagnostics.CodeEmptyBodyConditional)
}

func TestNotCallableFlagsCallOnNumber(t *testing.T) {
	b := astbuild.New()
	num := b.Num(1)
	call := b.Call(num)
	stmt := b.ExprStmt(call)
	root := b.Program("test.js", stmt)
	mod := newModule(t, b, root)

	diags := runChecks(t, mod)
	assert.Contains(t, codesOf(diags), diagnostics.CodeNotCallable)
}

func TestCheckersRunWithoutPanicOnEmptyModule(t *testing.T) {
	b := astbuild.New()
	root := b.Program("test.js")
	mod := newModule(t, b, root)
	require.NotPanics(t, func() { runChecks(t, mod) })
}

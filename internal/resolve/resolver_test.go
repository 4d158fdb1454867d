package resolve

import (
	"testing"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
)

// buildModule finishes b, links root, and wraps the result as a Module.
func buildModule(t *testing.T, b *astbuild.Builder, path string, root ast.ID) *Module {
	t.Helper()
	b.Finish(root)
	return NewModule(path, "", b.Tree, root)
}

// Reproduces the canonical hoisting/shadowing case:
//
//	if (x) { var i = 1; f(i); }
//	var i = 2;
//	g(i);
//
// f(i) must bind to the first declarator (i = 1); g(i) must bind to the
// second (i = 2), because both vars hoist to the same function-level frame
// and the later declarator overwrites the binding once the walk reaches it.
func TestVarHoistShadowing(t *testing.T) {
	b := astbuild.New()

	xUse := b.Ident("x")
	iDecl1 := b.Ident("i")
	one := b.Num(1)
	declarator1 := b.VarDeclarator(iDecl1, one)
	varDecl1 := b.VarDecl(ast.DeclVar, declarator1)

	fCallee := b.Ident("f")
	iUseInF := b.Ident("i")
	fCall := b.Call(fCallee, iUseInF)
	fStmt := b.ExprStmt(fCall)

	ifBlock := b.Block(varDecl1, fStmt)
	ifStmt := b.If(xUse, ifBlock, ast.NoID)

	iDecl2 := b.Ident("i")
	two := b.Num(2)
	declarator2 := b.VarDeclarator(iDecl2, two)
	varDecl2 := b.VarDecl(ast.DeclVar, declarator2)

	gCallee := b.Ident("g")
	iUseInG := b.Ident("i")
	gCall := b.Call(gCallee, iUseInG)
	gStmt := b.ExprStmt(gCall)

	prog := b.Program("test.js", ifStmt, varDecl2, gStmt)
	mod := buildModule(t, b, "test.js", prog)

	ResolveLocal(mod)

	if got, ok := mod.ResolvedLocal[iUseInF]; !ok || got != iDecl1 {
		t.Fatalf("f(i) should resolve to the i=1 declarator, got %v (ok=%v), want %v", got, ok, iDecl1)
	}
	if got, ok := mod.ResolvedLocal[iUseInG]; !ok || got != iDecl2 {
		t.Fatalf("g(i) should resolve to the i=2 declarator, got %v (ok=%v), want %v", got, ok, iDecl2)
	}
}

// let/const are block-scoped: a block-local `let` must not leak to a
// sibling statement after the block closes.
func TestLetIsBlockScoped(t *testing.T) {
	b := astbuild.New()

	letIdent := b.Ident("y")
	init := b.Num(5)
	declarator := b.VarDeclarator(letIdent, init)
	letDecl := b.VarDecl(ast.DeclLet, declarator)
	block := b.Block(letDecl)

	freeUse := b.Ident("y")
	freeStmt := b.ExprStmt(freeUse)

	prog := b.Program("test.js", block, freeStmt)
	mod := buildModule(t, b, "test.js", prog)

	ResolveLocal(mod)

	if _, ok := mod.ResolvedLocal[freeUse]; ok {
		t.Fatalf("y outside the block should not resolve to the block-scoped let")
	}
	found := false
	for _, id := range mod.FreeTopLevel {
		if id == freeUse {
			found = true
		}
	}
	if !found {
		t.Fatalf("y outside the block should be recorded as a free identifier")
	}
}

// Function declarations hoist and are visible before their textual position.
func TestFunctionDeclarationHoists(t *testing.T) {
	b := astbuild.New()

	calleeUse := b.Ident("greet")
	call := b.Call(calleeUse)
	callStmt := b.ExprStmt(call)

	fnName := b.Ident("greet")
	body := b.Block()
	fnDecl := b.FuncDecl(fnName, nil, body, false, false, nil)

	prog := b.Program("test.js", callStmt, fnDecl)
	mod := buildModule(t, b, "test.js", prog)

	ResolveLocal(mod)

	if got, ok := mod.ResolvedLocal[calleeUse]; !ok || got != fnName {
		t.Fatalf("call before the function declaration should still resolve to it, got %v (ok=%v)", got, ok)
	}
}

// Destructuring in declaration position binds every leaf name; the default
// value and a computed key are walked as ordinary uses, not declarations.
func TestObjectPatternDeclarationBindsLeaves(t *testing.T) {
	b := astbuild.New()

	keyUse := b.Ident("dynamicKey")
	aIdent := b.Ident("a")
	defaultUse := b.Ident("fallback")
	bDefaultPattern := b.AssignPattern(b.Ident("b"), defaultUse)

	propA := b.ObjectProp(aIdent, aIdent, false, true)
	propB := b.ObjectProp(keyUse, bDefaultPattern, true, false)

	pattern := b.ObjectPattern(propA, propB)
	rhs := b.Ident("source")
	declarator := b.VarDeclarator(pattern, rhs)
	decl := b.VarDecl(ast.DeclConst, declarator)

	useA := b.Ident("a")
	useAStmt := b.ExprStmt(useA)

	prog := b.Program("test.js", decl, useAStmt)
	mod := buildModule(t, b, "test.js", prog)

	ResolveLocal(mod)

	if got, ok := mod.ResolvedLocal[useA]; !ok || got != aIdent {
		t.Fatalf("use of a should resolve to the destructured binding, got %v (ok=%v)", got, ok)
	}
	if _, ok := mod.ResolvedLocal[defaultUse]; ok {
		t.Fatalf("fallback is a free identifier, it must not be treated as a declaration target")
	}
	foundFree := false
	for _, id := range mod.FreeTopLevel {
		if id == defaultUse || id == keyUse || id == rhs {
			foundFree = true
		}
	}
	if !foundFree {
		t.Fatalf("fallback/dynamicKey/source should appear as free identifier uses")
	}
}

// Destructuring assignment (not declaration) must resolve against existing
// bindings rather than declaring new ones.
func TestDestructuringAssignmentResolvesExisting(t *testing.T) {
	b := astbuild.New()

	declIdent := b.Ident("a")
	decl := b.VarDecl(ast.DeclLet, b.VarDeclarator(declIdent, ast.NoID))

	targetA := b.Ident("a")
	pattern := b.ArrayPattern(targetA)
	rhs := b.Ident("source")
	assign := b.Assign("=", pattern, rhs)
	assignStmt := b.ExprStmt(assign)

	prog := b.Program("test.js", decl, assignStmt)
	mod := buildModule(t, b, "test.js", prog)

	ResolveLocal(mod)

	if got, ok := mod.ResolvedLocal[targetA]; !ok || got != declIdent {
		t.Fatalf("destructuring assignment target should resolve to the existing let a, got %v (ok=%v)", got, ok)
	}
}

// fakeHost is a minimal in-memory Host for cross-module resolution tests.
type fakeHost struct {
	modules map[string]*Module
}

func (h *fakeHost) Load(fromPath, specifier string) (*Module, error) {
	mod, ok := h.modules[specifier]
	if !ok {
		return nil, errNotFound(specifier)
	}
	return mod, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "module not found: " + string(e) }

func TestImportResolvesToExportedDeclaration(t *testing.T) {
	// ./math.js: export const pi = 3;
	mb := astbuild.New()
	piIdent := mb.Ident("pi")
	piInit := mb.Num(3)
	piDecl := mb.VarDecl(ast.DeclConst, mb.VarDeclarator(piIdent, piInit))
	exportDecl := mb.ExportNamed(piDecl, "")
	mathProg := mb.Program("./math.js", exportDecl)
	mathMod := buildModule(t, mb, "./math.js", mathProg)

	// ./main.js: import { pi } from "./math.js"; use(pi);
	b := astbuild.New()
	importedName := b.Ident("pi")
	localName := b.Ident("pi")
	spec := b.ImportSpec(importedName, localName)
	importDecl := b.ImportDecl("./math.js", spec)

	useCallee := b.Ident("use")
	useArg := b.Ident("pi")
	useCall := b.Call(useCallee, useArg)
	useStmt := b.ExprStmt(useCall)

	prog := b.Program("./main.js", importDecl, useStmt)
	mainMod := buildModule(t, b, "./main.js", prog)

	host := &fakeHost{modules: map[string]*Module{"./math.js": mathMod}}
	ResolveImports(host, mainMod, nil)

	if got, ok := mainMod.ResolvedLocal[useArg]; !ok || got != localName {
		t.Fatalf("use(pi) should resolve locally to the import binding, got %v (ok=%v)", got, ok)
	}
	ref, ok := mainMod.ResolvedImported[localName]
	if !ok {
		t.Fatalf("import specifier should have a resolved cross-module reference")
	}
	if ref.Module != mathMod || ref.Decl != piIdent {
		t.Fatalf("import should resolve to pi's declarator in math.js, got module=%v decl=%v", ref.Module, ref.Decl)
	}
}

func TestReExportChainResolves(t *testing.T) {
	// ./base.js: export const value = 1;
	bb := astbuild.New()
	valueIdent := bb.Ident("value")
	valueInit := bb.Num(1)
	valueDecl := bb.VarDecl(ast.DeclConst, bb.VarDeclarator(valueIdent, valueInit))
	baseExport := bb.ExportNamed(valueDecl, "")
	baseProg := bb.Program("./base.js", baseExport)
	baseMod := buildModule(t, bb, "./base.js", baseProg)

	// ./mid.js: export { value } from "./base.js";
	mb := astbuild.New()
	midLocal := mb.Ident("value")
	midExported := mb.Ident("value")
	midSpec := mb.ExportSpec(midLocal, midExported)
	midExport := mb.ExportNamed(ast.NoID, "./base.js", midSpec)
	midProg := mb.Program("./mid.js", midExport)
	midMod := buildModule(t, mb, "./mid.js", midProg)

	// ./main.js: import { value } from "./mid.js";
	b := astbuild.New()
	importedName := b.Ident("value")
	localName := b.Ident("value")
	spec := b.ImportSpec(importedName, localName)
	importDecl := b.ImportDecl("./mid.js", spec)
	prog := b.Program("./main.js", importDecl)
	mainMod := buildModule(t, b, "./main.js", prog)

	host := &fakeHost{modules: map[string]*Module{
		"./base.js": baseMod,
		"./mid.js":  midMod,
	}}
	ResolveImports(host, mainMod, nil)

	ref, ok := mainMod.ResolvedImported[localName]
	if !ok {
		t.Fatalf("import through a re-export chain should resolve")
	}
	if ref.Module != baseMod || ref.Decl != valueIdent {
		t.Fatalf("re-export chain should bottom out at base.js's declarator, got module=%v decl=%v", ref.Module, ref.Decl)
	}
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/resolve"
)

func buildAndResolve(t *testing.T, b *astbuild.Builder, root ast.ID) *resolve.Module {
	t.Helper()
	b.Finish(root)
	mod := resolve.NewModule("test.js", "", b.Tree, root)
	resolve.ResolveLocal(mod)
	return mod
}

// assertWellFormed checks the invariants every finished Graph must satisfy:
// every block sealed, no dangling incomplete phis, every phi has at least
// one operand, and End has at least one incoming control node.
func assertWellFormed(t *testing.T, g *Graph) {
	t.Helper()
	for _, blk := range g.Blocks() {
		assert.True(t, blk.Sealed, "block %d must be sealed at function-build end", blk.ID())
		assert.Empty(t, blk.incomplete, "block %d must have no incomplete phis", blk.ID())
	}
	endNode := g.Node(g.End)
	require.NotNil(t, endNode)
	assert.NotEmpty(t, endNode.Prevs, "End must collect at least one leaf control node")
	for i := 1; i <= g.Len(); i++ {
		n := g.Node(NodeID(i))
		if n.Tag == TagPhi {
			assert.NotEmpty(t, n.Inputs, "phi node %d must have at least one operand", n.ID())
		}
	}
}

// function(x) { if (x) { var i = 1; return i; } var i = 2; return i; }
//
// Both vars hoist to the same function frame; the first return must read
// the i=1 value, the second the i=2 value, mirroring the shadowing case
// already exercised at module scope in internal/resolve.
func TestVarHoistShadowingAcrossBranches(t *testing.T) {
	b := astbuild.New()

	xParam := b.Ident("x")

	iDecl1 := b.Ident("i")
	one := b.Num(1)
	declarator1 := b.VarDeclarator(iDecl1, one)
	varDecl1 := b.VarDecl(ast.DeclVar, declarator1)
	iUse1 := b.Ident("i")
	ret1 := b.Return(iUse1)
	ifBlock := b.Block(varDecl1, ret1)
	xUse := b.Ident("x")
	ifStmt := b.If(xUse, ifBlock, ast.NoID)

	iDecl2 := b.Ident("i")
	two := b.Num(2)
	declarator2 := b.VarDeclarator(iDecl2, two)
	varDecl2 := b.VarDecl(ast.DeclVar, declarator2)
	iUse2 := b.Ident("i")
	ret2 := b.Return(iUse2)

	body := b.Block(ifStmt, varDecl2, ret2)
	fnName := b.Ident("f")
	fnDecl := b.FuncDecl(fnName, []ast.ID{xParam}, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	g := Build(mod, fnDecl, sink)

	assertWellFormed(t, g)
	assert.Zero(t, sink.Counters.Errors())

	returns := nodesWithTag(g, TagReturn)
	require.Len(t, returns, 2)
	require.Len(t, returns[0].Inputs, 1)
	assert.Equal(t, one, g.Node(returns[0].Inputs[0]).AST)
	require.Len(t, returns[1].Inputs, 1)
	assert.Equal(t, two, g.Node(returns[1].Inputs[0]).AST)
}

// A variable written identically on both arms of an if/else collapses to a
// single value at the merge point instead of a genuine phi.
func TestTrivialPhiCollapses(t *testing.T) {
	b := astbuild.New()

	xParam := b.Ident("x")

	yOuterDecl := b.Ident("y")
	outerDecl := b.VarDecl(ast.DeclVar, b.VarDeclarator(yOuterDecl, ast.NoID))

	yAssignThen := b.Ident("y")
	xThen := b.Ident("x")
	thenBlock := b.Block(b.ExprStmt(b.Assign("=", yAssignThen, xThen)))

	yAssignElse := b.Ident("y")
	xElse := b.Ident("x")
	elseBlock := b.Block(b.ExprStmt(b.Assign("=", yAssignElse, xElse)))

	xUse := b.Ident("x")
	ifStmt := b.If(xUse, thenBlock, elseBlock)

	yUse := b.Ident("y")
	body := b.Block(outerDecl, ifStmt, b.Return(yUse))
	fnName := b.Ident("g")
	fnDecl := b.FuncDecl(fnName, []ast.ID{xParam}, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	g := Build(mod, fnDecl, sink)

	assertWellFormed(t, g)
	assert.Zero(t, sink.Counters.Errors())

	// y is x on both arms, so the return reads the Argument node directly.
	returns := nodesWithTag(g, TagReturn)
	require.Len(t, returns, 1)
	require.Len(t, returns[0].Inputs, 1)
	assert.Equal(t, TagArgument, g.Node(returns[0].Inputs[0]).Tag)
}

// try { risky(); } catch (e) { handle(e); } lowers through
// Try/PrepareException/CatchException and both paths reach End.
func TestTryCatchShape(t *testing.T) {
	b := astbuild.New()

	riskyCallee := b.Ident("risky")
	riskyCall := b.Call(riskyCallee)
	tryBlock := b.Block(b.ExprStmt(riskyCall))

	eParam := b.Ident("e")
	handleCallee := b.Ident("handle")
	eUse := b.Ident("e")
	handleCall := b.Call(handleCallee, eUse)
	catchBody := b.Block(b.ExprStmt(handleCall))
	catchClause := b.Catch(eParam, catchBody)

	tryStmt := b.Try(tryBlock, catchClause, ast.NoID)
	body := b.Block(tryStmt, b.Return(ast.NoID))
	fnName := b.Ident("h")
	fnDecl := b.FuncDecl(fnName, nil, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	g := Build(mod, fnDecl, sink)

	assertWellFormed(t, g)
	assert.Zero(t, sink.Counters.Errors())
	assert.NotEmpty(t, nodesWithTag(g, TagTry))
	assert.NotEmpty(t, nodesWithTag(g, TagPrepareException))
	assert.NotEmpty(t, nodesWithTag(g, TagCatchException))
}

// A `finally` block is an implementation limit: construction reports an
// error instead of silently dropping the finalizer's effect.
func TestFinallyReportsUnsupported(t *testing.T) {
	b := astbuild.New()

	tryBlock := b.Block()
	finallyBlock := b.Block()
	tryStmt := b.Try(tryBlock, ast.NoID, finallyBlock)
	body := b.Block(tryStmt, b.Return(ast.NoID))
	fnName := b.Ident("j")
	fnDecl := b.FuncDecl(fnName, nil, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	Build(mod, fnDecl, sink)

	assert.Equal(t, int64(1), sink.Counters.Errors())
}

// break outside of any loop is reported, not a fatal construction failure.
func TestBreakOutsideLoopReportsError(t *testing.T) {
	b := astbuild.New()

	brk := b.Break(nil)
	body := b.Block(brk)
	fnName := b.Ident("k")
	fnDecl := b.FuncDecl(fnName, nil, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	Build(mod, fnDecl, sink)

	assert.Equal(t, int64(1), sink.Counters.Errors())
}

// A for loop wired with break/continue still leaves every block sealed and
// every phi fed.
func TestForLoopWithBreakAndContinue(t *testing.T) {
	b := astbuild.New()

	iIdent := b.Ident("i")
	zero := b.Num(0)
	init := b.VarDecl(ast.DeclLet, b.VarDeclarator(iIdent, zero))

	iTestUse := b.Ident("i")
	ten := b.Num(10)
	test := b.Binary("<", iTestUse, ten)

	iUpdUse := b.Ident("i")
	update := b.Update("++", iUpdUse, false)

	iCondUse := b.Ident("i")
	five := b.Num(5)
	cond := b.Binary("===", iCondUse, five)
	contStmt := b.Continue(nil)
	skipIf := b.If(cond, contStmt, ast.NoID)

	iBreakUse := b.Ident("i")
	eight := b.Num(8)
	breakCond := b.Binary("===", iBreakUse, eight)
	brkStmt := b.Break(nil)
	breakIf := b.If(breakCond, brkStmt, ast.NoID)

	callee := b.Ident("use")
	iBodyUse := b.Ident("i")
	call := b.Call(callee, iBodyUse)
	callStmt := b.ExprStmt(call)

	forBody := b.Block(skipIf, breakIf, callStmt)
	forStmt := b.For(init, test, update, forBody)

	body := b.Block(forStmt, b.Return(ast.NoID))
	fnName := b.Ident("loop")
	fnDecl := b.FuncDecl(fnName, nil, body, false, false, nil)

	prog := b.Program("test.js", fnDecl)
	mod := buildAndResolve(t, b, prog)

	sink := diagnostics.NewSink(nil)
	g := Build(mod, fnDecl, sink)

	assertWellFormed(t, g)
	assert.Zero(t, sink.Counters.Errors())
	assert.NotEmpty(t, nodesWithTag(g, TagLoop))
}

func nodesWithTag(g *Graph, tag Tag) []*GraphNode {
	var out []*GraphNode
	for i := 1; i <= g.Len(); i++ {
		n := g.Node(NodeID(i))
		if n != nil && n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

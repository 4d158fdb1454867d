package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/graph"
	"github.com/nsyo/jsre/internal/resolve"
)

func buildAndResolve(t *testing.T, b *astbuild.Builder, root ast.ID) *resolve.Module {
	t.Helper()
	b.Finish(root)
	mod := resolve.NewModule("test.js", "", b.Tree, root)
	resolve.ResolveLocal(mod)
	return mod
}

func buildGraph(t *testing.T, b *astbuild.Builder, root, fnID ast.ID) (*resolve.Module, *graph.Graph) {
	t.Helper()
	mod := buildAndResolve(t, b, root)
	sink := diagnostics.NewSink(nil)
	g := graph.Build(mod, fnID, sink)
	require.Zero(t, sink.Counters.Errors())
	return mod, g
}

func nodesWithTag(g *graph.Graph, tag graph.Tag) []*graph.GraphNode {
	var out []*graph.GraphNode
	for i := 1; i <= g.Len(); i++ {
		n := g.Node(graph.NodeID(i))
		if n != nil && n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

func TestBaseTypeEquality(t *testing.T) {
	assert.True(t, MakeNumber().Equal(MakeNumber()))
	assert.True(t, MakeString("a").Equal(MakeString("a")))
	assert.False(t, MakeString("a").Equal(MakeString("b")))
	assert.False(t, MakeString().Equal(MakeString("a")))
	assert.False(t, MakeNumber().Equal(MakeString()))
}

func TestMakeSumFlattensDedupesAndCollapses(t *testing.T) {
	assert.True(t, MakeSum(nil).Equal(MakeUnknown()))
	assert.True(t, MakeSum([]TypeInfo{MakeNumber(), MakeNumber()}).Equal(MakeNumber()))

	nested := MakeSum([]TypeInfo{MakeSum([]TypeInfo{MakeNumber(), MakeString()}), MakeNull()})
	assert.Equal(t, Sum, nested.Base())
	assert.Len(t, nested.SumMembers(), 3)

	// Member order is canonical regardless of construction order.
	a := MakeSum([]TypeInfo{MakeString(), MakeNumber(), MakeNull()})
	bRev := MakeSum([]TypeInfo{MakeNull(), MakeNumber(), MakeString()})
	assert.True(t, a.Equal(bRev))
}

func TestObjectPropertyStrictness(t *testing.T) {
	strict := MakeObject(map[string]TypeInfo{"x": MakeNumber()}, true)
	v, ok := strict.Property("x")
	assert.True(t, ok)
	assert.True(t, v.Equal(MakeNumber()))

	_, ok = strict.Property("y")
	assert.False(t, ok, "missing field on a strict object must fail the lookup")

	open := MakeObject(map[string]TypeInfo{"x": MakeNumber()}, false)
	missing, ok := open.Property("y")
	assert.True(t, ok, "missing field on an open object still succeeds")
	assert.Equal(t, Unknown, missing.Base())

	withY := strict.WithProperty("y", MakeString())
	y, ok := withY.Property("y")
	assert.True(t, ok)
	assert.True(t, y.Equal(MakeString()))
}

func TestLazyFunctionResolvesOnce(t *testing.T) {
	calls := 0
	fn := MakeLazyFunction(1, func() ([]TypeInfo, TypeInfo, bool) {
		calls++
		return []TypeInfo{MakeNumber()}, MakeString(), false
	})
	assert.Equal(t, 0, calls)
	_ = fn.Return()
	_ = fn.Params()
	_ = fn.Variadic()
	assert.Equal(t, 1, calls, "resolve must run exactly once across every accessor")
}

func TestLazyClassResolvesOnce(t *testing.T) {
	calls := 0
	cls := MakeClass("Point", 7, func() map[string]TypeInfo {
		calls++
		return map[string]TypeInfo{"x": MakeNumber()}
	})
	_ = cls.Members()
	_ = cls.Members()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Point", cls.ClassName())
}

// function f() { return 1 + 2; }
func TestResolverLiteralAndBinaryOperator(t *testing.T) {
	b := astbuild.New()
	one := b.Num(1)
	two := b.Num(2)
	sum := b.Binary("+", one, two)
	body := b.Block(b.Return(sum))
	fnDecl := b.FuncDecl(b.Ident("f"), nil, body, false, false, nil)
	prog := b.Program("test.js", fnDecl)

	mod, g := buildGraph(t, b, prog, fnDecl)
	r := NewResolver(mod)

	binNodes := nodesWithTag(g, graph.TagBinaryOperator)
	require.Len(t, binNodes, 1)
	assert.Equal(t, Number, r.ResolveNodeType(g, binNodes[0].ID()).Base())

	litNodes := nodesWithTag(g, graph.TagLiteral)
	require.NotEmpty(t, litNodes)
	assert.Equal(t, Number, r.ResolveNodeType(g, litNodes[0].ID()).Base())
}

// function f() { return 1 < 2; }
func TestResolverComparisonIsBoolean(t *testing.T) {
	b := astbuild.New()
	cmp := b.Binary("<", b.Num(1), b.Num(2))
	body := b.Block(b.Return(cmp))
	fnDecl := b.FuncDecl(b.Ident("f"), nil, body, false, false, nil)
	prog := b.Program("test.js", fnDecl)

	mod, g := buildGraph(t, b, prog, fnDecl)
	r := NewResolver(mod)

	binNodes := nodesWithTag(g, graph.TagBinaryOperator)
	require.Len(t, binNodes, 1)
	assert.Equal(t, Boolean, r.ResolveNodeType(g, binNodes[0].ID()).Base())
}

// function user() { function maybe(): ?string { return null; }
// if (maybe()) { return 1; } return 2; }
//
// maybe's declared nullable return type is a Sum(String, Null, Undefined);
// the call's type resolves from the annotation without ever building maybe's
// own graph, and narrows to plain String once pinned true on the IfTrue branch.
func TestRefinerNarrowsSumOnIfTrueBranch(t *testing.T) {
	b := astbuild.New()

	maybeRet := b.NullableType(b.NamedType("string"))
	maybeBody := b.Block(b.Return(b.Null()))
	maybeDecl := b.FuncDecl(b.Ident("maybe"), nil, maybeBody, false, false, maybeRet)

	call := b.Call(b.Ident("maybe"))
	thenBlock := b.Block(b.Return(b.Num(1)))
	ifStmt := b.If(call, thenBlock, ast.NoID)

	userBody := b.Block(maybeDecl, ifStmt, b.Return(b.Num(2)))
	userDecl := b.FuncDecl(b.Ident("user"), nil, userBody, false, false, nil)

	prog := b.Program("test.js", userDecl)
	mod := buildAndResolve(t, b, prog)
	sink := diagnostics.NewSink(nil)
	g := graph.Build(mod, userDecl, sink)
	require.Zero(t, sink.Counters.Errors())

	r := NewResolver(mod)
	rf := NewRefiner(r)

	callNodes := nodesWithTag(g, graph.TagCall)
	require.Len(t, callNodes, 1)
	callID := callNodes[0].ID()

	unrefined := r.ResolveNodeType(g, callID)
	require.Equal(t, Sum, unrefined.Base())
	require.Len(t, unrefined.SumMembers(), 3)

	ifTrueNodes := nodesWithTag(g, graph.TagIfTrue)
	require.Len(t, ifTrueNodes, 1)

	overlay := rf.RefineAtBranch(g, ifTrueNodes[0].ID())
	require.NotNil(t, overlay)
	narrowed, ok := overlay[callID]
	require.True(t, ok)
	assert.Equal(t, String, narrowed.Base(), "Null/Undefined must be stripped once pinned true")

	ifFalseNodes := nodesWithTag(g, graph.TagIfFalse)
	require.Len(t, ifFalseNodes, 1)
	falseOverlay := rf.RefineAtBranch(g, ifFalseNodes[0].ID())
	_, pinnedFalse := falseOverlay[callID]
	assert.False(t, pinnedFalse, "truthiness narrowing only applies to the true-pinned branch")
}

// function user() with nested left(): ?string and right(): ?number, whose
// if-test is the logical `&&` of the two calls: both operands narrow
// together on the true branch.
func TestRefinerPropagatesThroughLogicalAnd(t *testing.T) {
	b := astbuild.New()

	leftRet := b.NullableType(b.NamedType("string"))
	leftBody := b.Block(b.Return(b.Null()))
	leftDecl := b.FuncDecl(b.Ident("left"), nil, leftBody, false, false, leftRet)

	rightRet := b.NullableType(b.NamedType("number"))
	rightBody := b.Block(b.Return(b.Null()))
	rightDecl := b.FuncDecl(b.Ident("right"), nil, rightBody, false, false, rightRet)

	leftCall := b.Call(b.Ident("left"))
	rightCall := b.Call(b.Ident("right"))
	cond := b.Logical("&&", leftCall, rightCall)
	thenBlock := b.Block(b.Return(b.Num(1)))
	ifStmt := b.If(cond, thenBlock, ast.NoID)

	userBody := b.Block(leftDecl, rightDecl, ifStmt, b.Return(b.Num(2)))
	userDecl := b.FuncDecl(b.Ident("user"), nil, userBody, false, false, nil)
	prog := b.Program("test.js", userDecl)

	mod := buildAndResolve(t, b, prog)
	sink := diagnostics.NewSink(nil)
	g := graph.Build(mod, userDecl, sink)
	require.Zero(t, sink.Counters.Errors())

	r := NewResolver(mod)
	rf := NewRefiner(r)

	callNodes := nodesWithTag(g, graph.TagCall)
	require.Len(t, callNodes, 2)

	ifTrueNodes := nodesWithTag(g, graph.TagIfTrue)
	require.Len(t, ifTrueNodes, 1)
	overlay := rf.RefineAtBranch(g, ifTrueNodes[0].ID())
	require.Len(t, overlay, 2, "both && operands narrow on the true branch")
	for _, n := range callNodes {
		narrowed, ok := overlay[n.ID()]
		require.True(t, ok)
		assert.NotEqual(t, Sum, narrowed.Base())
	}
}

// function f(x: number) { return x; } — the parameter's annotation flows
// through the Argument node without needing a second function call.
func TestResolverArgumentAnnotation(t *testing.T) {
	b := astbuild.New()
	xParam := b.IdentTyped("x", b.NamedType("number"))
	xUse := b.Ident("x")
	body := b.Block(b.Return(xUse))
	fnDecl := b.FuncDecl(b.Ident("f"), []ast.ID{xParam}, body, false, false, nil)
	prog := b.Program("test.js", fnDecl)

	mod, g := buildGraph(t, b, prog, fnDecl)
	r := NewResolver(mod)

	argNodes := nodesWithTag(g, graph.TagArgument)
	require.Len(t, argNodes, 1)
	assert.Equal(t, Number, r.ResolveNodeType(g, argNodes[0].ID()).Base())
}

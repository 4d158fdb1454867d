package check

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astutil"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/graph"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/types"
)

// calleeKindOK reports whether base is an acceptable callee kind for
// either a plain call (wantClass=false) or a `new` call (wantClass=true).
// Unknown always passes — gradual typing never flags what it can't see.
func calleeKindOK(base types.BaseType, wantClass bool) bool {
	if base == types.Unknown {
		return true
	}
	if wantClass {
		return base == types.Class
	}
	return base == types.Function
}

func checkNotCallable(mod *resolve.Module, g *graph.Graph, r resolvedTypes, n *graph.GraphNode, sink *diagnostics.Sink) {
	if len(n.Inputs) == 0 {
		return
	}
	calleeType := r.of(g, n.Inputs[0])
	wantClass := n.Tag == graph.TagNewCall
	if calleeKindOK(calleeType.Base(), wantClass) {
		return
	}
	if wantClass {
		sink.Error(diagnostics.CodeNotCallable, posOf(mod, n.AST),
			"attempt to construct a non-class value of type %s", calleeType)
		return
	}
	sink.Error(diagnostics.CodeNotCallable, posOf(mod, n.AST),
		"attempt to call a non-function value of type %s", calleeType)
}

// checkCallCompatibility compares a Call's arguments against its callee's
// declared parameter types, one positional pairing at a time.
func checkCallCompatibility(mod *resolve.Module, g *graph.Graph, r resolvedTypes, n *graph.GraphNode, sink *diagnostics.Sink) {
	if len(n.Inputs) == 0 {
		return
	}
	calleeType := r.of(g, n.Inputs[0])
	if calleeType.Base() != types.Function {
		return
	}
	params := calleeType.Params()
	variadic := calleeType.Variadic()
	args := n.Inputs[1:]

	if len(args) > len(params) && !variadic {
		sink.Warn(diagnostics.CodeCallArityWarn, posOf(mod, n.AST),
			"call passes %d argument(s), callee declares %d", len(args), len(params))
	}

	for i, argID := range args {
		pi := i
		if pi >= len(params) {
			if !variadic || len(params) == 0 {
				break
			}
			pi = len(params) - 1
		}
		argType := r.of(g, argID)
		paramType := params[pi]
		compareArgType(mod, n, i, argType, paramType, sink)
	}
}

func compareArgType(mod *resolve.Module, n *graph.GraphNode, index int, argType, paramType types.TypeInfo, sink *diagnostics.Sink) {
	if argType.Base() == types.Unknown || paramType.Base() == types.Unknown {
		return
	}
	if argType.Equal(paramType) {
		return
	}
	if argType.Base() != paramType.Base() {
		sink.Error(diagnostics.CodeCallArgTypeMismatch, posOf(mod, n.AST),
			"argument %d is %s, parameter declared %s", index+1, argType.Base(), paramType.Base())
		return
	}
	if argType.Base() == types.Promise && !argType.Inner().Equal(paramType.Inner()) {
		sink.Error(diagnostics.CodeCallPromiseMismatch, posOf(mod, n.AST),
			"argument %d is Promise<%s>, parameter declared Promise<%s>", index+1, argType.Inner(), paramType.Inner())
	}
}

// checkMissingAwait flags a Promise-typed Call whose result is neither
// awaited, immediately returned from an async/Promise-returning function,
// nor used as the receiver of a then/catch/finally call.
func checkMissingAwait(mod *resolve.Module, g *graph.Graph, r resolvedTypes, n *graph.GraphNode, sink *diagnostics.Sink) {
	if n.AST == ast.NoID {
		return
	}
	resultType := r.of(g, n.ID())
	if resultType.Base() != types.Promise {
		return
	}
	tree := mod.Tree
	parent := tree.ParentNode(n.AST)
	if _, ok := parent.(*ast.AwaitExpression); ok {
		return
	}
	if isReturnedFromPromiseFunction(tree, n.AST) {
		return
	}
	if isThenCatchFinallyReceiver(tree, n.AST) {
		return
	}
	if likelyMisusedAsNonPromise(parent) {
		sink.Warn(diagnostics.CodeMissingAwaitWarn, posOf(mod, n.AST),
			"result of this call is a Promise used as a non-Promise value; did you forget 'await'?")
		return
	}
	sink.Suggest(diagnostics.CodeMissingAwaitSuggest, posOf(mod, n.AST),
		"result of this call is a Promise; consider 'await'")
}

func isReturnedFromPromiseFunction(tree *ast.Tree, callID ast.ID) bool {
	if astutil.IsReturnedValue(tree, callID) != astutil.Yes {
		return false
	}
	fnID := astutil.EnclosingFunction(tree, callID)
	if fnID == ast.NoID {
		return false
	}
	fn := tree.Node(fnID)
	if astutil.IsAsyncFunction(fn) {
		return true
	}
	retAnn := astutil.FunctionReturnType(fn)
	return annotatesPromise(tree, retAnn)
}

func annotatesPromise(tree *ast.Tree, expr ast.Expression) bool {
	switch t := expr.(type) {
	case *ast.TypeAnnotation:
		return annotatesPromise(tree, t.TypeExpression)
	case *ast.GenericTypeAnnotation:
		ident, ok := tree.Node(t.ID_).(*ast.Identifier)
		return ok && ident.Name == "Promise"
	}
	return false
}

func isThenCatchFinallyReceiver(tree *ast.Tree, callID ast.ID) bool {
	member, ok := tree.ParentNode(callID).(*ast.MemberExpression)
	if !ok || member.Computed || member.Object != callID {
		return false
	}
	prop, ok := tree.Node(member.Property).(*ast.Identifier)
	if !ok {
		return false
	}
	switch prop.Name {
	case "then", "catch", "finally":
	default:
		return false
	}
	call, ok := tree.ParentNode(member.NodeID()).(*ast.CallExpression)
	return ok && call.Callee == member.NodeID()
}

// likelyMisusedAsNonPromise reports whether parent combines the Promise
// value directly with an operation that only makes sense on a resolved
// value — arithmetic, comparison, property access, or a conditional test —
// rather than passing it through (argument, assignment, array/object
// element) where the developer might still intend to await it elsewhere.
func likelyMisusedAsNonPromise(parent ast.Node) bool {
	switch parent.(type) {
	case *ast.BinaryExpression, *ast.LogicalExpression, *ast.UnaryExpression, *ast.UpdateExpression,
		*ast.MemberExpression, *ast.ConditionalExpression, *ast.TemplateLiteral,
		*ast.IfStatement, *ast.WhileStatement, *ast.DoWhileStatement:
		return true
	default:
		return false
	}
}

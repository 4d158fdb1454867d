package check

import (
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/graph"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/types"
)

// checkPropertyAccess flags a LoadNamedProperty/LoadProperty whose object
// type can never sensibly carry the requested property: a primitive,
// a Promise accessed without awaiting first, or a strict object missing
// the named field.
func checkPropertyAccess(mod *resolve.Module, g *graph.Graph, r resolvedTypes, n *graph.GraphNode, sink *diagnostics.Sink) {
	if len(n.Inputs) == 0 {
		return
	}
	objType := r.of(g, n.Inputs[0])
	switch objType.Base() {
	case types.Undefined, types.Null, types.Number, types.Boolean:
		sink.Error(diagnostics.CodePropertyOnPrimitive, posOf(mod, n.AST),
			"property access on a value of type %s", objType)
	case types.Promise:
		checkPromisePropertyAccess(mod, n, sink)
	case types.Object:
		checkStrictObjectPropertyAccess(mod, objType, n, sink)
	}
}

func checkPromisePropertyAccess(mod *resolve.Module, n *graph.GraphNode, sink *diagnostics.Sink) {
	if n.Tag != graph.TagLoadNamedProperty {
		sink.Suggest(diagnostics.CodePropertyDynamicAwait, posOf(mod, n.AST),
			"property name is computed on a Promise; did you forget 'await'?")
		return
	}
	switch n.Name {
	case "then", "catch", "finally":
		return
	}
	sink.Warn(diagnostics.CodePropertyMissingAwait, posOf(mod, n.AST),
		"accessing '%s' on a Promise; did you forget 'await'?", n.Name)
}

func checkStrictObjectPropertyAccess(mod *resolve.Module, objType types.TypeInfo, n *graph.GraphNode, sink *diagnostics.Sink) {
	if n.Tag != graph.TagLoadNamedProperty || !objType.IsStrictObject() {
		return
	}
	if _, ok := objType.Property(n.Name); !ok {
		sink.Error(diagnostics.CodePropertyMissingField, posOf(mod, n.AST),
			"object type has no field named '%s'", n.Name)
	}
}

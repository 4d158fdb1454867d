// Package check implements the diagnostic passes that run once a module
// is resolved and every function body has a graph: missing-await,
// call-site type compatibility, property-access safety, and a handful of
// AST-level checks (empty conditional bodies, duplicate if-tests, unused
// declarations) that never need the graph at all.
package check

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astutil"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/graph"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/token"
	"github.com/nsyo/jsre/internal/types"
)

// Run builds (or reuses) a graph for every function body in mod and runs
// every check over it, then runs the AST-level checks once over the whole
// module. Built graphs are cached on mod.Graphs so a later caller (or a
// repeated Run) doesn't redo the work.
func Run(mod *resolve.Module, sink *diagnostics.Sink) {
	resolver := types.NewResolver(mod)
	refiner := types.NewRefiner(resolver)

	for _, fnID := range astutil.CollectFunctions(mod.Tree, mod.Root) {
		g := functionGraph(mod, fnID, sink)
		if g == nil {
			continue
		}
		checkGraph(mod, g, resolver, refiner, sink)
	}

	checkEmptyBodyConditionals(mod, sink)
	checkDuplicateIfTests(mod, sink)
	checkUnusedDeclarations(mod, sink)
}

// functionGraph returns fnID's cached graph, building and caching it on
// first request.
func functionGraph(mod *resolve.Module, fnID ast.ID, sink *diagnostics.Sink) *graph.Graph {
	if cached, ok := mod.Graphs[fnID]; ok {
		if g, ok := cached.(*graph.Graph); ok {
			return g
		}
	}
	g := graph.Build(mod, fnID, sink)
	mod.Graphs[fnID] = g
	return g
}

// checkGraph runs every graph-based check over one function's nodes. Nodes
// are visited in id order, which is also build order: an IfTrue/IfFalse's
// refinement overlay is merged into refined as soon as it's reached, so
// every node built afterwards (i.e. everything dominated by that branch,
// until the next IfTrue/IfFalse replaces the overlay or a Merge clears it)
// resolves through the narrowed type instead of the branch-independent one.
func checkGraph(mod *resolve.Module, g *graph.Graph, resolver *types.Resolver, refiner *types.Refiner, sink *diagnostics.Sink) {
	refined := make(map[graph.NodeID]types.TypeInfo)
	rt := resolvedTypes{resolver: resolver, refined: refined}
	for i := 1; i <= g.Len(); i++ {
		n := g.Node(graph.NodeID(i))
		if n == nil {
			continue
		}
		switch n.Tag {
		case graph.TagCall:
			checkNotCallable(mod, g, rt, n, sink)
			checkCallCompatibility(mod, g, rt, n, sink)
			checkMissingAwait(mod, g, rt, n, sink)
		case graph.TagNewCall:
			checkNotCallable(mod, g, rt, n, sink)
		case graph.TagLoadNamedProperty, graph.TagLoadProperty:
			checkPropertyAccess(mod, g, rt, n, sink)
		case graph.TagIfTrue, graph.TagIfFalse:
			for id := range refined {
				delete(refined, id)
			}
			for id, t := range refiner.RefineAtBranch(g, n.ID()) {
				refined[id] = t
			}
		case graph.TagMerge:
			for id := range refined {
				delete(refined, id)
			}
		}
	}
}

// resolvedTypes resolves a node's type through any refinement overlay in
// effect at the current point in the scan, falling back to the plain
// graph-wide resolution everywhere else.
type resolvedTypes struct {
	resolver *types.Resolver
	refined  map[graph.NodeID]types.TypeInfo
}

func (rt resolvedTypes) of(g *graph.Graph, id graph.NodeID) types.TypeInfo {
	if t, ok := rt.refined[id]; ok {
		return t
	}
	return rt.resolver.ResolveNodeType(g, id)
}

func posOf(mod *resolve.Module, id ast.ID) token.Position {
	n := mod.Tree.Node(id)
	if n == nil {
		return token.Position{}
	}
	return n.Span().Start
}

package types

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/graph"
)

// Refiner computes flow-sensitive truthiness narrowing at If branches, per
// the rules in the resolver's own Sum lattice: narrowing only ever removes
// Null/Undefined from a Sum, never widens, and a contradiction (narrowing
// to nothing) is ignored rather than producing an empty type.
type Refiner struct {
	resolver *Resolver
}

func NewRefiner(r *Resolver) *Refiner {
	return &Refiner{resolver: r}
}

// RefineAtBranch returns the node -> TypeInfo overlay in effect immediately
// after branchNode (an IfTrue or IfFalse node fed by one If). Callers look
// a node up in the overlay first and fall back to Resolver.ResolveNodeType
// when absent.
func (rf *Refiner) RefineAtBranch(g *graph.Graph, branchNode graph.NodeID) map[graph.NodeID]TypeInfo {
	n := g.Node(branchNode)
	if n == nil || (n.Tag != graph.TagIfTrue && n.Tag != graph.TagIfFalse) {
		return nil
	}
	if len(n.Prevs) == 0 {
		return nil
	}
	ifNode := g.Node(n.Prevs[0])
	if ifNode == nil || ifNode.Tag != graph.TagIf || len(ifNode.Inputs) == 0 {
		return nil
	}
	overlay := make(map[graph.NodeID]TypeInfo)
	rf.refineCondition(g, ifNode.Inputs[0], n.Tag == graph.TagIfTrue, overlay)
	return overlay
}

func (rf *Refiner) refineCondition(g *graph.Graph, id graph.NodeID, pinTrue bool, overlay map[graph.NodeID]TypeInfo) {
	n := g.Node(id)
	if n == nil {
		return
	}
	switch n.Tag {
	case graph.TagCall, graph.TagPhi:
		if !pinTrue {
			return
		}
		overlay[id] = narrowTruthy(rf.resolver.ResolveNodeType(g, id))
	case graph.TagUnaryOperator:
		if n.Operator == "!" && len(n.Inputs) > 0 {
			rf.refineCondition(g, n.Inputs[0], !pinTrue, overlay)
		}
	case graph.TagBinaryOperator:
		rf.refineLogical(g, n, pinTrue, overlay)
	}
}

// refineLogical handles `&&`/`||` — but only when the node's AST
// back-reference is actually a LogicalExpression; an eager `&`/`|`
// BinaryOperator lowers through the same graph tag and must not be
// refined as if it short-circuited.
func (rf *Refiner) refineLogical(g *graph.Graph, n *graph.GraphNode, pinTrue bool, overlay map[graph.NodeID]TypeInfo) {
	if _, ok := rf.resolver.mod.Tree.Node(n.AST).(*ast.LogicalExpression); !ok {
		return
	}
	if len(n.Inputs) < 2 {
		return
	}
	switch n.Operator {
	case "&&":
		if pinTrue {
			rf.refineCondition(g, n.Inputs[0], true, overlay)
			rf.refineCondition(g, n.Inputs[1], true, overlay)
		}
	case "||":
		if !pinTrue {
			rf.refineCondition(g, n.Inputs[0], false, overlay)
			rf.refineCondition(g, n.Inputs[1], false, overlay)
		}
	}
}

// narrowTruthy drops Null/Undefined members of a Sum pinned true; any other
// base type (including an outright Null/Undefined, a contradiction) is left
// untouched rather than narrowed to nothing.
func narrowTruthy(t TypeInfo) TypeInfo {
	if t.Base() != Sum {
		return t
	}
	var kept []TypeInfo
	for _, m := range t.SumMembers() {
		if m.Base() == Null || m.Base() == Undefined {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return t
	}
	return MakeSum(kept)
}

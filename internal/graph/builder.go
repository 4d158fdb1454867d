package graph

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astutil"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/token"
)

// loopFrame tracks the basic blocks that ended in Break/Continue inside
// one enclosing loop or switch, so they can be wired to the right target
// once the construct closes.
type loopFrame struct {
	breaks    []BlockID
	continues []BlockID
}

// Builder lowers one function body into a Graph. It is used once per
// function and discarded.
type Builder struct {
	mod  *resolve.Module
	tree *ast.Tree
	sink *diagnostics.Sink

	g   *Graph
	cur *BasicBlock

	catchStack []NodeID // PrepareException node ids covering the current exceptional region
	loops      []*loopFrame

	// cachedUndefined memoizes the shared Undefined node used for hoisted
	// var declarations and for reads that reach no definition.
	cachedUndefined NodeID
}

// Build lowers the function-shaped node fnID (FunctionDeclaration,
// FunctionExpression, ArrowFunctionExpression, ClassMethod,
// ClassPrivateMethod, or ObjectMethod) into a fresh Graph.
func Build(mod *resolve.Module, fnID ast.ID, sink *diagnostics.Sink) *Graph {
	b := &Builder{mod: mod, tree: mod.Tree, sink: sink, g: newGraph(fnID)}

	start := b.g.newNode(TagStart)
	b.g.Start = start.id
	entry := newBlock(b.g.newBlockID())
	b.g.addBlock(entry)
	entry.Next = start.id
	entry.Newest = start.id
	entry.Sealed = true
	b.cur = entry

	fn := b.tree.Node(fnID)
	params := astutil.FunctionParams(fn)
	for _, p := range params {
		b.bindParam(p)
	}

	body := astutil.EnclosingBlockBody(b.tree, fn)
	if arrow, ok := fn.(*ast.ArrowFunctionExpression); ok && arrow.ExpressionBody {
		val := b.lowerExpr(arrow.Body)
		b.emitReturn(val, arrow.Body)
	} else {
		b.hoistBlock(body)
		for _, stmtID := range body {
			b.lowerStmt(stmtID)
		}
		if !b.cur.Filled {
			b.emitReturn(NoNode, ast.NoID)
		}
	}

	b.finish()
	return b.g
}

func (b *Builder) bindParam(patID ast.ID) {
	switch n := b.tree.Node(patID).(type) {
	case *ast.Identifier:
		arg := b.g.newNode(TagArgument)
		arg.Name = n.Name
		arg.AST = patID
		b.writeVariable(patID, arg.id)
	case *ast.AssignmentPattern:
		arg := b.g.newNode(TagArgument)
		arg.AST = n.Left
		b.writeVariable(patternDeclID(b.tree, n.Left), arg.id)
	default:
		// Object/array destructured params: every leaf is bound to one
		// shared Argument node; no per-leaf property extraction is lowered.
		// Binding to one shared Argument node keeps resolution sound even
		// though the decomposition is elided.
		arg := b.g.newNode(TagArgument)
		arg.AST = patID
		for _, ident := range patternLeafIdents(b.tree, patID) {
			b.writeVariable(ident.NodeID(), arg.id)
		}
	}
}

// patternDeclID returns the identifier id a simple-or-defaulted parameter
// pattern declares.
func patternDeclID(tree *ast.Tree, id ast.ID) ast.ID {
	if ident, ok := tree.Node(id).(*ast.Identifier); ok {
		return ident.NodeID()
	}
	return id
}

// patternLeafIdents collects every binding Identifier under a declaration
// pattern, mirroring internal/resolve's collectPatternNames without
// importing that package (graph only needs the identifier ids, not the
// resolver's internal frame bookkeeping).
func patternLeafIdents(tree *ast.Tree, id ast.ID) []*ast.Identifier {
	if id == ast.NoID {
		return nil
	}
	switch n := tree.Node(id).(type) {
	case *ast.Identifier:
		return []*ast.Identifier{n}
	case *ast.ObjectPattern:
		var out []*ast.Identifier
		for _, propID := range n.Properties {
			switch p := tree.Node(propID).(type) {
			case *ast.ObjectProperty:
				out = append(out, patternLeafIdents(tree, p.Value)...)
			case *ast.RestElement:
				out = append(out, patternLeafIdents(tree, p.Argument)...)
			}
		}
		return out
	case *ast.ArrayPattern:
		var out []*ast.Identifier
		for _, elID := range n.Elements {
			out = append(out, patternLeafIdents(tree, elID)...)
		}
		return out
	case *ast.RestElement:
		return patternLeafIdents(tree, n.Argument)
	case *ast.AssignmentPattern:
		return patternLeafIdents(tree, n.Left)
	default:
		return nil
	}
}

func (b *Builder) posOf(id ast.ID) token.Position {
	if id == ast.NoID {
		return token.Position{}
	}
	n := b.tree.Node(id)
	if n == nil {
		return token.Position{}
	}
	return n.Span().Start
}

// finish runs function-build-end validation and collects every leaf
// control node into End.
func (b *Builder) finish() {
	end := b.g.newNode(TagEnd)
	b.g.End = end.id

	for _, blk := range b.g.blocks {
		diagnostics.Assert(blk.Sealed, "unsealed block at function-build end")
		diagnostics.Assert(len(blk.incomplete) == 0, "unfilled incomplete phi at function-build end")
	}

	for _, n := range b.g.nodes {
		if n == nil {
			continue
		}
		for _, in := range n.Inputs {
			diagnostics.Assert(in != b.g.Start, "graph input references Start")
		}
		if n.Tag == TagPhi {
			diagnostics.Assert(len(n.Inputs) >= 1, "phi with no inputs")
		}
		isLeaf := len(n.Nexts) == 0 && len(n.Prevs) > 0
		switch n.Tag {
		case TagReturn, TagThrow:
			connect(b.g, n.id, end.id)
		default:
			if isLeaf {
				connect(b.g, n.id, end.id)
			}
		}
	}
}

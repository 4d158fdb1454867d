package check

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/token"
)

// checkEmptyBodyConditionals flags If/While/DoWhile/For/ForIn/ForOf whose
// body is a bare `;`. An if/else-if chain is only checked from its first
// `if`: ast.Walk visits each node exactly once, so a chain's later `else
// if` arms (reached only as another IfStatement's Alternate, never walked
// again on their own) are never re-examined.
func checkEmptyBodyConditionals(mod *resolve.Module, sink *diagnostics.Sink) {
	tree := mod.Tree
	ast.Walk(tree, mod.Root, func(id ast.ID, n ast.Node) bool {
		bodyID, ok := conditionalBody(n)
		if !ok {
			return true
		}
		if _, empty := tree.Node(bodyID).(*ast.EmptyStatement); empty {
			sink.Warn(diagnostics.CodeEmptyBodyConditional, posOf(mod, id),
				"suspicious semicolon after conditional")
		}
		return true
	})
}

func conditionalBody(n ast.Node) (ast.ID, bool) {
	switch s := n.(type) {
	case *ast.IfStatement:
		return s.Consequent, true
	case *ast.WhileStatement:
		return s.Body, true
	case *ast.DoWhileStatement:
		return s.Body, true
	case *ast.ForStatement:
		return s.Body, true
	case *ast.ForInStatement:
		return s.Body, true
	case *ast.ForOfStatement:
		return s.Body, true
	default:
		return ast.NoID, false
	}
}

// checkDuplicateIfTests walks each if/else-if chain from its root and flags
// a chain with two branches whose test has identical source text.
func checkDuplicateIfTests(mod *resolve.Module, sink *diagnostics.Sink) {
	tree := mod.Tree
	ast.Walk(tree, mod.Root, func(id ast.ID, n ast.Node) bool {
		ifStmt, ok := n.(*ast.IfStatement)
		if !ok || isElseIfArm(tree, id) {
			return true
		}
		seen := map[string]token.Position{}
		walkIfChain(mod, ifStmt, seen, sink)
		return true
	})
}

// isElseIfArm reports whether id is reached only as another IfStatement's
// Alternate (i.e. it is the `else if` continuation of a chain, not its
// root).
func isElseIfArm(tree *ast.Tree, id ast.ID) bool {
	parent, ok := tree.ParentNode(id).(*ast.IfStatement)
	return ok && parent.Alternate == id
}

func walkIfChain(mod *resolve.Module, ifStmt *ast.IfStatement, seen map[string]token.Position, sink *diagnostics.Sink) {
	testText := sourceText(mod, ifStmt.Test)
	if firstPos, dup := seen[testText]; dup {
		sink.Error(diagnostics.CodeDuplicateIfTest, posOf(mod, ifStmt.NodeID()),
			"duplicate condition; identical to the test at line %d", firstPos.Line)
	} else {
		seen[testText] = posOf(mod, ifStmt.Test)
	}
	next, ok := mod.Tree.Node(ifStmt.Alternate).(*ast.IfStatement)
	if ok {
		walkIfChain(mod, next, seen, sink)
	}
}

func sourceText(mod *resolve.Module, id ast.ID) string {
	n := mod.Tree.Node(id)
	if n == nil {
		return ""
	}
	span := n.Span()
	if span.Start.Offset < 0 || span.End.Offset > len(mod.Source) || span.Start.Offset > span.End.Offset {
		return ""
	}
	return string(mod.Source[span.Start.Offset:span.End.Offset])
}

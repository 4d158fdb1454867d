package resolve

import "github.com/nsyo/jsre/internal/ast"

// collectPatternNames returns every binding Identifier reachable from a
// declaration-position pattern (a VariableDeclarator's ID_, a function
// parameter, or a catch clause's Param), skipping default-value and
// computed-key expressions — those are walked separately once the
// resolver reaches the pattern's real textual position.
func collectPatternNames(tree *ast.Tree, id ast.ID) []*ast.Identifier {
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
				out = append(out, collectPatternNames(tree, p.Value)...)
			case *ast.RestElement:
				out = append(out, collectPatternNames(tree, p.Argument)...)
			}
		}
		return out
	case *ast.ArrayPattern:
		var out []*ast.Identifier
		for _, elID := range n.Elements {
			out = append(out, collectPatternNames(tree, elID)...)
		}
		return out
	case *ast.RestElement:
		return collectPatternNames(tree, n.Argument)
	case *ast.AssignmentPattern:
		return collectPatternNames(tree, n.Left)
	default:
		return nil
	}
}

// Package astutil holds pure predicates over AST shape — no state, no
// resolution, just "what kind of slot is this node sitting in". Every
// later pass (the lexical resolver, the graph builder, the checkers)
// builds on these instead of re-deriving parent-chain logic.
package astutil

import "github.com/nsyo/jsre/internal/ast"

// Tristate is the Yes/No/Maybe result of IsReturnedValue.
type Tristate int

const (
	No Tristate = iota
	Yes
	Maybe
)

// IsFunctionNode reports whether n is one of the function-shaped nodes:
// arrow, function expression/declaration, or a class method.
func IsFunctionNode(n ast.Node) bool {
	switch n.(type) {
	case *ast.ArrowFunctionExpression, *ast.FunctionExpression, *ast.FunctionDeclaration,
		*ast.ClassMethod, *ast.ClassPrivateMethod, *ast.ObjectMethod:
		return true
	default:
		return false
	}
}

// IsUnscopedPropertyOrMethodIdentifier reports whether id is the *key*
// child of an ObjectProperty/ClassProperty/ClassPrivateProperty/
// ClassMethod/ClassPrivateMethod — names that are never looked up in
// lexical scope.
func IsUnscopedPropertyOrMethodIdentifier(tree *ast.Tree, id ast.ID) bool {
	parent := tree.ParentNode(id)
	switch p := parent.(type) {
	case *ast.ObjectProperty:
		return p.Key == id && !p.Computed
	case *ast.ClassProperty:
		return p.Key == id && !p.Computed
	case *ast.ClassPrivateProperty:
		return p.Key == id
	case *ast.ClassMethod:
		return p.Key == id && !p.Computed
	case *ast.ClassPrivateMethod:
		return p.Key == id
	case *ast.ObjectMethod:
		return p.Key == id && !p.Computed
	default:
		return false
	}
}

// IsUnscopedTypeIdentifier reports whether id names a FunctionTypeParam,
// is the key of an ObjectTypeProperty, or the Id of an ObjectTypeIndexer /
// TypeParameterDeclaration.
func IsUnscopedTypeIdentifier(tree *ast.Tree, id ast.ID) bool {
	parent := tree.ParentNode(id)
	switch p := parent.(type) {
	case *ast.FunctionTypeParam:
		return p.Name != nil && p.Name.NodeID() == id
	case *ast.ObjectTypeProperty:
		return p.Key != nil && p.Key.NodeID() == id
	case *ast.ObjectTypeIndexer:
		return p.Id != nil && p.Id.NodeID() == id
	case *ast.TypeParameterDeclaration:
		return p.Name != nil && p.Name.NodeID() == id
	case *ast.QualifiedTypeIdentifier:
		return p.Id != nil && p.Id.NodeID() == id
	default:
		return false
	}
}

// IsMemberPropertyOrQualifiedIdentifier reports whether id is the
// *property* of a (non-computed) MemberExpression or the *id* of a
// QualifiedTypeIdentifier.
func IsMemberPropertyOrQualifiedIdentifier(tree *ast.Tree, id ast.ID) bool {
	parent := tree.ParentNode(id)
	switch p := parent.(type) {
	case *ast.MemberExpression:
		return !p.Computed && p.Property == id
	case *ast.QualifiedTypeIdentifier:
		return p.Id != nil && p.Id.NodeID() == id
	default:
		return false
	}
}

// IsVarDeclarationIdentifier reports whether id is the declarator child of
// a `var`-kind VariableDeclaration.
func IsVarDeclarationIdentifier(tree *ast.Tree, id ast.ID) bool {
	declarator, ok := tree.ParentNode(id).(*ast.VariableDeclarator)
	if !ok || declarator.ID_ != id {
		return false
	}
	decl, ok := tree.ParentNode(declarator.NodeID()).(*ast.VariableDeclaration)
	return ok && decl.DeclKind == ast.DeclVar
}

// IsFunctionParameterIdentifier reports whether id appears directly in the
// Params list of its enclosing function node (not nested inside a pattern).
func IsFunctionParameterIdentifier(tree *ast.Tree, id ast.ID) bool {
	parent := tree.ParentNode(id)
	var params []ast.ID
	switch p := parent.(type) {
	case *ast.FunctionDeclaration:
		params = p.Params
	case *ast.FunctionExpression:
		params = p.Params
	case *ast.ArrowFunctionExpression:
		params = p.Params
	case *ast.ClassMethod:
		params = p.Params
	case *ast.ClassPrivateMethod:
		params = p.Params
	case *ast.ObjectMethod:
		params = p.Params
	default:
		return false
	}
	for _, p := range params {
		if p == id {
			return true
		}
	}
	return false
}

// IsReturnedValue classifies n's role with respect to returning a value
// from its enclosing function: Yes when n is a ReturnStatement's argument
// or an expression-bodied arrow's implicit return; No when n has no
// parent; Maybe otherwise.
func IsReturnedValue(tree *ast.Tree, id ast.ID) Tristate {
	parent := tree.ParentNode(id)
	if parent == nil {
		return No
	}
	switch p := parent.(type) {
	case *ast.ReturnStatement:
		if p.Argument == id {
			return Yes
		}
	case *ast.ArrowFunctionExpression:
		if p.ExpressionBody && p.Body == id {
			return Yes
		}
	}
	return Maybe
}

// CollectFunctions returns every function-shaped node reachable from root,
// in a pre-order (outer before inner) walk. Used by any pass that needs to
// build a graph for every function body in a module.
func CollectFunctions(tree *ast.Tree, root ast.ID) []ast.ID {
	var out []ast.ID
	ast.Walk(tree, root, func(id ast.ID, n ast.Node) bool {
		if IsFunctionNode(n) {
			out = append(out, id)
		}
		return true
	})
	return out
}

// EnclosingFunction walks up from id to the nearest function-shaped
// ancestor, returning its id or ast.NoID if id is at module top level.
func EnclosingFunction(tree *ast.Tree, id ast.ID) ast.ID {
	var found ast.ID = ast.NoID
	tree.Ancestors(id, func(n ast.Node) bool {
		if IsFunctionNode(n) {
			found = n.NodeID()
			return false
		}
		return true
	})
	return found
}

// EnclosingBlockBody returns the []ast.ID statement list a function node's
// body resolves to (nil for an expression-bodied arrow).
func EnclosingBlockBody(tree *ast.Tree, fn ast.Node) []ast.ID {
	var bodyID ast.ID
	switch f := fn.(type) {
	case *ast.FunctionDeclaration:
		bodyID = f.Body
	case *ast.FunctionExpression:
		bodyID = f.Body
	case *ast.ArrowFunctionExpression:
		if f.ExpressionBody {
			return nil
		}
		bodyID = f.Body
	case *ast.ClassMethod:
		bodyID = f.Body
	case *ast.ClassPrivateMethod:
		bodyID = f.Body
	case *ast.ObjectMethod:
		bodyID = f.Body
	default:
		return nil
	}
	if block, ok := tree.Node(bodyID).(*ast.BlockStatement); ok {
		return block.Body
	}
	return nil
}

// IsAsyncFunction reports whether fn is declared `async`.
func IsAsyncFunction(fn ast.Node) bool {
	switch f := fn.(type) {
	case *ast.FunctionDeclaration:
		return f.Async
	case *ast.FunctionExpression:
		return f.Async
	case *ast.ArrowFunctionExpression:
		return f.Async
	case *ast.ClassMethod:
		return f.Async
	case *ast.ClassPrivateMethod:
		return f.Async
	case *ast.ObjectMethod:
		return f.Async
	default:
		return false
	}
}

// FunctionParams returns fn's parameter ids.
func FunctionParams(fn ast.Node) []ast.ID {
	switch f := fn.(type) {
	case *ast.FunctionDeclaration:
		return f.Params
	case *ast.FunctionExpression:
		return f.Params
	case *ast.ArrowFunctionExpression:
		return f.Params
	case *ast.ClassMethod:
		return f.Params
	case *ast.ClassPrivateMethod:
		return f.Params
	case *ast.ObjectMethod:
		return f.Params
	default:
		return nil
	}
}

// FunctionReturnType returns fn's declared return-type annotation, if any.
func FunctionReturnType(fn ast.Node) ast.Expression {
	switch f := fn.(type) {
	case *ast.FunctionDeclaration:
		return f.ReturnType
	case *ast.FunctionExpression:
		return f.ReturnType
	case *ast.ArrowFunctionExpression:
		return f.ReturnType
	default:
		return nil
	}
}

package check

import (
	"strings"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astutil"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/resolve"
)

// checkUnusedDeclarations walks the cross-reference map built during
// lexical resolution and flags every declaration that is never read.
// Catch-clause parameters, unscoped declarations, exported declarations,
// and a function expression's own name used as an object property value
// are skipped explicitly; a class whose only references sit inside its own
// body is still reported.
func checkUnusedDeclarations(mod *resolve.Module, sink *diagnostics.Sink) {
	tree := mod.Tree
	for declID, refs := range mod.LocalXRefs {
		if isCatchParam(tree, declID) {
			continue
		}
		if isUnscopedDeclaration(tree, declID) {
			continue
		}
		if isExportedDeclaration(tree, declID) {
			continue
		}
		if isFunctionExprSelfNameAsObjectProperty(tree, declID) {
			continue
		}
		if classID, ok := classDeclarationFor(tree, declID); ok {
			if allRefsInsideBody(tree, refs, classID, declID) {
				reportUnusedClass(mod, declID, sink)
			}
			continue
		}
		if len(refs) > 1 {
			continue
		}
		reportUnused(mod, tree, declID, sink)
	}
}

func isCatchParam(tree *ast.Tree, declID ast.ID) bool {
	cc, ok := tree.ParentNode(declID).(*ast.CatchClause)
	return ok && cc.Param == declID
}

func isUnscopedDeclaration(tree *ast.Tree, declID ast.ID) bool {
	return astutil.IsUnscopedPropertyOrMethodIdentifier(tree, declID) ||
		astutil.IsUnscopedTypeIdentifier(tree, declID)
}

func isExportedDeclaration(tree *ast.Tree, declID ast.ID) bool {
	switch p := tree.ParentNode(declID).(type) {
	case *ast.FunctionDeclaration:
		return p.ID_ == declID && hasExportAncestor(tree, p.NodeID())
	case *ast.ClassDeclaration:
		return p.ID_ == declID && hasExportAncestor(tree, p.NodeID())
	case *ast.VariableDeclarator:
		if p.ID_ != declID {
			return false
		}
		decl, ok := tree.ParentNode(p.NodeID()).(*ast.VariableDeclaration)
		return ok && hasExportAncestor(tree, decl.NodeID())
	default:
		return false
	}
}

// isFunctionExprSelfNameAsObjectProperty excludes a named function
// expression's own name when the function is an object property's value,
// e.g. `{ retry: function attempt() {...} }` — the name exists for
// stack-trace readability, not to be referenced, so it's never "unused".
func isFunctionExprSelfNameAsObjectProperty(tree *ast.Tree, declID ast.ID) bool {
	fn, ok := tree.ParentNode(declID).(*ast.FunctionExpression)
	if !ok || fn.ID_ != declID {
		return false
	}
	prop, ok := tree.ParentNode(fn.NodeID()).(*ast.ObjectProperty)
	return ok && prop.Value == fn.NodeID()
}

func hasExportAncestor(tree *ast.Tree, id ast.ID) bool {
	switch tree.ParentNode(id).(type) {
	case *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration:
		return true
	default:
		return false
	}
}

// classDeclarationFor reports the enclosing ClassDeclaration id when declID
// is its name, so the caller can apply the self-body-reference exclusion
// below instead of the plain exactly-one-reference rule.
func classDeclarationFor(tree *ast.Tree, declID ast.ID) (ast.ID, bool) {
	cd, ok := tree.ParentNode(declID).(*ast.ClassDeclaration)
	if !ok || cd.ID_ != declID {
		return ast.NoID, false
	}
	return cd.NodeID(), true
}

// allRefsInsideBody reports whether every reference to declID other than
// the declaration itself lies within classID's own subtree: a class that
// only ever calls itself recursively is still unused from the outside.
func allRefsInsideBody(tree *ast.Tree, refs []ast.ID, classID, declID ast.ID) bool {
	for _, ref := range refs {
		if ref == declID {
			continue
		}
		if !isDescendantOf(tree, ref, classID) {
			return false
		}
	}
	return true
}

func isDescendantOf(tree *ast.Tree, id, ancestor ast.ID) bool {
	found := false
	tree.Ancestors(id, func(n ast.Node) bool {
		if n.NodeID() == ancestor {
			found = true
			return false
		}
		return true
	})
	return found
}

func reportUnusedClass(mod *resolve.Module, declID ast.ID, sink *diagnostics.Sink) {
	sink.Warn(diagnostics.CodeUnusedDeclaration, posOf(mod, declID),
		"class '%s' is never used outside its own body", identifierName(mod.Tree, declID))
}

func reportUnused(mod *resolve.Module, tree *ast.Tree, declID ast.ID, sink *diagnostics.Sink) {
	if name, ok := importedSymbolName(tree, declID); ok {
		sink.Warn(diagnostics.CodeUnusedImport, posOf(mod, declID),
			"imported symbol '%s' is never used", name)
		return
	}
	if astutil.IsFunctionParameterIdentifier(tree, declID) {
		reportUnusedParam(mod, tree, declID, sink)
		return
	}
	sink.Warn(diagnostics.CodeUnusedDeclaration, posOf(mod, declID),
		"'%s' is declared but never used", identifierName(tree, declID))
}

func reportUnusedParam(mod *resolve.Module, tree *ast.Tree, declID ast.ID, sink *diagnostics.Sink) {
	name := identifierName(tree, declID)
	if strings.HasPrefix(name, "_") {
		return
	}
	fnID := astutil.EnclosingFunction(tree, declID)
	if fnID == ast.NoID {
		return
	}
	switch tree.Node(fnID).(type) {
	case *ast.ArrowFunctionExpression, *ast.FunctionExpression:
		sink.Suggest(diagnostics.CodeRenameUnusedParam, posOf(mod, declID),
			"parameter '%s' is unused; rename to '_%s' or remove it", name, name)
	default:
		sink.Warn(diagnostics.CodeUnusedParameter, posOf(mod, declID),
			"parameter '%s' is unused", name)
	}
}

func importedSymbolName(tree *ast.Tree, declID ast.ID) (string, bool) {
	switch p := tree.ParentNode(declID).(type) {
	case *ast.ImportSpecifier:
		if p.Local == declID {
			return identifierName(tree, declID), true
		}
	case *ast.ImportDefaultSpecifier:
		if p.Local == declID {
			return identifierName(tree, declID), true
		}
	case *ast.ImportNamespaceSpecifier:
		if p.Local == declID {
			return identifierName(tree, declID), true
		}
	}
	return "", false
}

func identifierName(tree *ast.Tree, id ast.ID) string {
	if ident, ok := tree.Node(id).(*ast.Identifier); ok {
		return ident.Name
	}
	return ""
}

// Package resolve ingests one module's AST and binds every identifier use
// to its declaration, across three declaration kinds that differ in
// scoping, destructuring patterns, and the ES6 import/export graph. It
// owns the Module and Scope types.
package resolve

import (
	"github.com/nsyo/jsre/internal/ast"
)

// Module is the unit of parsing and resolution. It is created on first
// reference through a Host (see internal/host), parsed eagerly, and
// resolution passes run on demand and memoize their results.
type Module struct {
	Path   string
	Source string
	Tree   *ast.Tree
	Root   ast.ID // the Program node

	// IsNative marks a built-in module stub (fs, process, ...): it has an
	// empty body and is never itself resolved or checked, but any name
	// imported from it resolves successfully rather than reporting a
	// missing export.
	IsNative bool

	// ResolvedLocal maps an Identifier use to its declaring Identifier,
	// both within this module.
	ResolvedLocal map[ast.ID]ast.ID

	// ResolvedImported maps an import/re-export specifier's local
	// identifier to the declaring Identifier in the *target* module.
	ResolvedImported map[ast.ID]ImportedRef

	// LocalXRefs is the reverse of ResolvedLocal: declaration -> every use
	// (plus the declaration itself at index 0).
	LocalXRefs map[ast.ID][]ast.ID

	// FreeTopLevel holds every top-level identifier use that resolved to
	// no declaration.
	FreeTopLevel []ast.ID

	// localResolved / importedResolved record phase completion: local
	// resolution happens-before imported resolution happens-before any
	// function graph is built.
	localResolved    bool
	importedResolved bool

	// Graphs and ClassTypes are per-function / per-class caches owned by
	// the module but populated by the internal/graph and internal/types
	// packages respectively. Using `any` here (rather than importing those
	// packages' concrete types) avoids a resolve -> graph -> resolve
	// import cycle.
	Graphs     map[ast.ID]any
	ClassTypes map[ast.ID]any
}

// ImportedRef names the module+identifier an import specifier resolved to.
type ImportedRef struct {
	Module *Module
	Decl   ast.ID
}

// NewModule wraps a parsed Program as a fresh, unresolved Module.
func NewModule(path, source string, tree *ast.Tree, root ast.ID) *Module {
	return &Module{
		Path:             path,
		Source:           source,
		Tree:             tree,
		Root:             root,
		ResolvedLocal:    make(map[ast.ID]ast.ID),
		ResolvedImported: make(map[ast.ID]ImportedRef),
		LocalXRefs:       make(map[ast.ID][]ast.ID),
		Graphs:           make(map[ast.ID]any),
		ClassTypes:       make(map[ast.ID]any),
	}
}

// NewNativeModule wraps an empty Program as an opaque built-in module
// stub: its body is never walked by any resolution or checking pass.
func NewNativeModule(path string, tree *ast.Tree, root ast.ID) *Module {
	m := NewModule(path, "", tree, root)
	m.IsNative = true
	m.localResolved = true
	m.importedResolved = true
	return m
}

// Program returns the module's root node.
func (m *Module) Program() *ast.Program {
	return m.Tree.Node(m.Root).(*ast.Program)
}

package resolve

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/diagnostics"
)

// Host loads the module a specifier resolves to, relative to fromPath.
// Defined here (rather than imported from internal/host) so resolve has
// no dependency on the module-resolution/caching layer; internal/host
// implements this interface against its own *resolve.Module-returning
// loader.
type Host interface {
	Load(fromPath, specifier string) (*Module, error)
}

// ResolveImports runs local resolution if needed, then follows every
// import and re-export specifier into its target module. Safe to call
// more than once. sink may be nil, in which case a specifier whose module
// can't be found is silently left unresolved rather than reported.
func ResolveImports(host Host, mod *Module, sink *diagnostics.Sink) {
	if mod.importedResolved {
		return
	}
	ResolveLocal(mod)
	for _, id := range mod.Program().Body {
		resolveImportsOne(host, mod, id, sink)
	}
	mod.importedResolved = true
}

func reportModuleNotFound(sink *diagnostics.Sink, mod *Module, id ast.ID, specifier string, err error) {
	if sink == nil {
		return
	}
	pos := mod.Tree.Node(id).Span().Start
	sink.Error(diagnostics.CodeModuleNotFound, pos, "cannot find module %q: %v", specifier, err)
}

func resolveImportsOne(host Host, mod *Module, id ast.ID, sink *diagnostics.Sink) {
	switch n := mod.Tree.Node(id).(type) {
	case *ast.ImportDeclaration:
		target, err := host.Load(mod.Path, n.Source)
		if err != nil {
			reportModuleNotFound(sink, mod, id, n.Source, err)
			return
		}
		visited := map[*Module]bool{}
		for _, specID := range n.Specifiers {
			switch s := mod.Tree.Node(specID).(type) {
			case *ast.ImportSpecifier:
				imported := mod.Tree.Node(s.Imported).(*ast.Identifier)
				if ref, ok := target.resolveExport(host, imported.Name, visited); ok {
					mod.ResolvedImported[s.Local] = ref
				} else if sink != nil {
					sink.Error(diagnostics.CodeExportNotFound, mod.Tree.Node(specID).Span().Start,
						"module %q has no export %q", n.Source, imported.Name)
				}
			case *ast.ImportDefaultSpecifier:
				if ref, ok := target.resolveExport(host, "default", visited); ok {
					mod.ResolvedImported[s.Local] = ref
				} else if sink != nil {
					sink.Error(diagnostics.CodeExportNotFound, mod.Tree.Node(specID).Span().Start,
						"module %q has no default export", n.Source)
				}
			case *ast.ImportNamespaceSpecifier:
				mod.ResolvedImported[s.Local] = ImportedRef{Module: target, Decl: target.Root}
			}
		}
	case *ast.ExportNamedDeclaration:
		if n.Source == "" {
			return
		}
		target, err := host.Load(mod.Path, n.Source)
		if err != nil {
			reportModuleNotFound(sink, mod, id, n.Source, err)
			return
		}
		visited := map[*Module]bool{}
		for _, specID := range n.Specifiers {
			sp := mod.Tree.Node(specID).(*ast.ExportSpecifier)
			localIdent := mod.Tree.Node(sp.Local).(*ast.Identifier)
			if ref, ok := target.resolveExport(host, localIdent.Name, visited); ok {
				mod.ResolvedImported[sp.Local] = ref
			} else if sink != nil {
				sink.Error(diagnostics.CodeExportNotFound, mod.Tree.Node(specID).Span().Start,
					"module %q has no export %q", n.Source, localIdent.Name)
			}
		}
	case *ast.ExportAllDeclaration:
		target, err := host.Load(mod.Path, n.Source)
		if err != nil {
			reportModuleNotFound(sink, mod, id, n.Source, err)
			return
		}
		mod.ResolvedImported[id] = ImportedRef{Module: target, Decl: target.Root}
	}
}

// resolveExport finds the declaration exported under name, descending
// through re-export chains (`export { x } from "./other"`, `export * from
// "./other"`) with cycle detection via visited.
func (m *Module) resolveExport(host Host, name string, visited map[*Module]bool) (ImportedRef, bool) {
	if m.IsNative {
		return ImportedRef{Module: m, Decl: m.Root}, true
	}
	if visited[m] {
		return ImportedRef{}, false
	}
	visited[m] = true
	ResolveLocal(m)

	for _, id := range m.Program().Body {
		switch n := m.Tree.Node(id).(type) {
		case *ast.ExportNamedDeclaration:
			if n.Source != "" {
				for _, specID := range n.Specifiers {
					sp := m.Tree.Node(specID).(*ast.ExportSpecifier)
					exported := m.Tree.Node(sp.Exported).(*ast.Identifier)
					if exported.Name != name {
						continue
					}
					target, err := host.Load(m.Path, n.Source)
					if err != nil {
						return ImportedRef{}, false
					}
					local := m.Tree.Node(sp.Local).(*ast.Identifier)
					return target.resolveExport(host, local.Name, visited)
				}
				continue
			}
			if n.Declaration != ast.NoID {
				for _, ident := range declaredNames(m.Tree, n.Declaration) {
					if ident.Name == name {
						return ImportedRef{Module: m, Decl: ident.NodeID()}, true
					}
				}
				continue
			}
			for _, specID := range n.Specifiers {
				sp := m.Tree.Node(specID).(*ast.ExportSpecifier)
				exported := m.Tree.Node(sp.Exported).(*ast.Identifier)
				if exported.Name != name {
					continue
				}
				if decl, ok := m.ResolvedLocal[sp.Local]; ok {
					return ImportedRef{Module: m, Decl: decl}, true
				}
				return ImportedRef{Module: m, Decl: sp.Local}, true
			}
		case *ast.ExportDefaultDeclaration:
			if name != "default" {
				continue
			}
			if ident, ok := declaredName(m.Tree, n.Declaration); ok {
				return ImportedRef{Module: m, Decl: ident.NodeID()}, true
			}
			return ImportedRef{Module: m, Decl: n.Declaration}, true
		case *ast.ExportAllDeclaration:
			target, err := host.Load(m.Path, n.Source)
			if err != nil {
				continue
			}
			if ref, ok := target.resolveExport(host, name, visited); ok {
				return ref, true
			}
		}
	}
	return ImportedRef{}, false
}

// declaredNames returns every name a top-level declaration (var/let/const
// possibly with multiple destructured declarators, a function, or a
// class) introduces.
func declaredNames(tree *ast.Tree, id ast.ID) []*ast.Identifier {
	switch n := tree.Node(id).(type) {
	case *ast.VariableDeclaration:
		var out []*ast.Identifier
		for _, declID := range n.Declarators {
			d := tree.Node(declID).(*ast.VariableDeclarator)
			out = append(out, collectPatternNames(tree, d.ID_)...)
		}
		return out
	case *ast.FunctionDeclaration:
		if ident, ok := tree.Node(n.ID_).(*ast.Identifier); ok {
			return []*ast.Identifier{ident}
		}
	case *ast.ClassDeclaration:
		if ident, ok := tree.Node(n.ID_).(*ast.Identifier); ok {
			return []*ast.Identifier{ident}
		}
	}
	return nil
}

// declaredName is declaredNames for the single-name case `export default
// function foo() {}` / `export default class Foo {}`.
func declaredName(tree *ast.Tree, id ast.ID) (*ast.Identifier, bool) {
	switch n := tree.Node(id).(type) {
	case *ast.FunctionDeclaration:
		if n.ID_ == ast.NoID {
			return nil, false
		}
		ident, ok := tree.Node(n.ID_).(*ast.Identifier)
		return ident, ok
	case *ast.ClassDeclaration:
		if n.ID_ == ast.NoID {
			return nil, false
		}
		ident, ok := tree.Node(n.ID_).(*ast.Identifier)
		return ident, ok
	}
	return nil, false
}

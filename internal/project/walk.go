package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/config"
	"github.com/nsyo/jsre/internal/host"
	"github.com/nsyo/jsre/internal/resolve"
)

// sourceFilesUnder walks dir recursively and returns every recognized
// source file, skipping any directory named h.VendoredDir (so a project's
// own node_modules, or whatever a .jsreignore override points at, is
// never analyzed directly). Sorted for deterministic output ordering.
func sourceFilesUnder(dir string, h *host.Host) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == h.VendoredDir && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if config.HasSourceExt(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// importSpecifiers returns every source specifier a module's top-level
// import/re-export declarations name, in declaration order.
func importSpecifiers(mod *resolve.Module) []string {
	var specs []string
	for _, id := range mod.Program().Body {
		switch n := mod.Tree.Node(id).(type) {
		case *ast.ImportDeclaration:
			specs = append(specs, n.Source)
		case *ast.ExportNamedDeclaration:
			if n.Source != "" {
				specs = append(specs, n.Source)
			}
		case *ast.ExportAllDeclaration:
			specs = append(specs, n.Source)
		}
	}
	return specs
}

// collectProjectModules loads entry and transitively follows its
// import/re-export graph, returning every module reached that is neither
// a native stub nor vendored (under node_modules) — the project-local set
// a manifest run transitively loads and analyzes, as opposed to a
// dependency whose exports are resolved against but whose own body is
// never itself checked.
func collectProjectModules(h *host.Host, entry *resolve.Module) []*resolve.Module {
	visited := map[string]bool{entry.Path: true}
	queue := []*resolve.Module{entry}
	var local []*resolve.Module

	for len(queue) > 0 {
		mod := queue[0]
		queue = queue[1:]
		local = append(local, mod)

		for _, spec := range importSpecifiers(mod) {
			target, err := h.Load(mod.Path, spec)
			if err != nil || target.IsNative || isVendored(target.Path, h.VendoredDir) {
				continue
			}
			if visited[target.Path] {
				continue
			}
			visited[target.Path] = true
			queue = append(queue, target)
		}
	}
	return local
}

func isVendored(path, vendoredDir string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))
	for _, part := range strings.Split(clean, "/") {
		if part == vendoredDir {
			return true
		}
	}
	return false
}

// Package host resolves import specifiers to files on disk and loads the
// modules they name, implementing resolve.Host. It owns every filesystem
// concern a module graph touches: relative/bare specifier resolution, the
// upward node_modules walk, native-module stubbing, and a persisted
// per-file analysis cache.
package host

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/config"
	"github.com/nsyo/jsre/internal/resolve"
)

// ParseFunc parses one module's source text into a linked ast.Tree rooted
// at the returned Program id. Host has no opinion on how parsing happens —
// the parser front-end is an external collaborator — it only decides
// which path to parse and caches the result.
type ParseFunc func(path, source string) (*ast.Tree, ast.ID, error)

// Host resolves specifiers and loads the modules they name, memoizing
// every module it has already loaded (by absolute path, or by name for
// native stubs) so a module imported from several places is parsed once.
type Host struct {
	Parse ParseFunc

	// VendoredDir defaults to config.VendoredDirName; a .jsreignore file
	// (see LoadIgnoreFile) may override it.
	VendoredDir string
	// ExtraNatives supplements config.NativeModules with project-specific
	// stub names, also set from a .jsreignore file.
	ExtraNatives []string

	mu      sync.Mutex
	modules map[string]*resolve.Module
	natives map[string]*resolve.Module
	sources map[string][]byte

	cache *parserCache
}

// New builds a Host around parse. Call EnableCache and/or LoadIgnoreFile
// afterward to opt into the optional persisted-cache and config-override
// behavior; neither is required for Load to work.
func New(parse ParseFunc) *Host {
	return &Host{
		Parse:       parse,
		VendoredDir: config.VendoredDirName,
		modules:     make(map[string]*resolve.Module),
		natives:     make(map[string]*resolve.Module),
		sources:     make(map[string][]byte),
	}
}

// EnableCache loads (or initializes) a persisted analysis cache at path,
// stored alongside the binary per spec's "cache files" contract. Safe to
// call even if path doesn't exist yet.
func (h *Host) EnableCache(path string) {
	h.cache = loadParserCache(path)
}

// Flush persists the cache enabled by EnableCache. A no-op if no cache is
// enabled, or if nothing changed since it was loaded.
func (h *Host) Flush() error {
	if h.cache == nil {
		return nil
	}
	return h.cache.flush()
}

// Load resolves specifier relative to fromPath (the importing module's
// own path) and returns the module it names, parsing on first reference
// and returning the memoized Module on every later one. Implements
// resolve.Host.
func (h *Host) Load(fromPath, specifier string) (*resolve.Module, error) {
	if h.isNative(specifier) {
		return h.loadNative(specifier), nil
	}

	resolved, err := h.resolveSpecifier(fromPath, specifier)
	if err != nil {
		return nil, fmt.Errorf("host: resolving %q from %q: %w", specifier, fromPath, err)
	}
	return h.loadFile(resolved)
}

// LoadEntry loads the module at path directly, with no importer to
// resolve relative to — the CLI's own entry point (a file argument, or a
// manifest's "main" field) rather than something another module imports.
func (h *Host) LoadEntry(path string) (*resolve.Module, error) {
	resolved, err := h.resolveFileOrDir(path)
	if err != nil {
		return nil, fmt.Errorf("host: resolving entry %q: %w", path, err)
	}
	return h.loadFile(resolved)
}

// Register injects an already-parsed module into the cache under path, so
// a caller that parsed a batch of files up front (see internal/pipeline)
// doesn't pay to re-parse one of them when it's later reached as an
// import target. Returns the cached Module (or the one already present,
// if path was registered or loaded before).
func (h *Host) Register(path, source string, tree *ast.Tree, root ast.ID) *resolve.Module {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.modules[abs]; ok {
		return m
	}
	mod := resolve.NewModule(abs, source, tree, root)
	h.modules[abs] = mod
	h.sources[abs] = []byte(source)
	return mod
}

// Modules returns every non-native module currently cached, in no
// particular order.
func (h *Host) Modules() []*resolve.Module {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*resolve.Module, 0, len(h.modules))
	for _, m := range h.modules {
		out = append(out, m)
	}
	return out
}

func (h *Host) isNative(specifier string) bool {
	if config.IsNativeModule(specifier) {
		return true
	}
	for _, n := range h.ExtraNatives {
		if n == specifier {
			return true
		}
	}
	return false
}

// loadNative returns the stub Module for a built-in, creating it on first
// reference. The stub's Program has no body: nothing ever walks it, but
// any name imported from it resolves successfully (resolve.Module.IsNative
// short-circuits export lookup).
func (h *Host) loadNative(name string) *resolve.Module {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.natives[name]; ok {
		return m
	}
	tree := ast.NewTree()
	root := tree.Attach(&ast.Program{})
	tree.Link(root)
	m := resolve.NewNativeModule("native:"+name, tree, root)
	h.natives[name] = m
	return m
}

// loadFile parses the module at absPath (already resolved to a concrete
// file), or returns the memoized Module if it's already been loaded.
func (h *Host) loadFile(path string) (*resolve.Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if m, ok := h.modules[abs]; ok {
		h.mu.Unlock()
		return m, nil
	}
	h.mu.Unlock()

	source, err := readFile(abs)
	if err != nil {
		return nil, err
	}

	tree, root, err := h.Parse(abs, string(source))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", abs, err)
	}

	mod := resolve.NewModule(abs, string(source), tree, root)

	h.mu.Lock()
	h.modules[abs] = mod
	h.sources[abs] = source
	h.mu.Unlock()

	return mod, nil
}

package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/config"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/token"
)

func countingParse(calls *int) ParseFunc {
	return func(path, source string) (*ast.Tree, ast.ID, error) {
		*calls++
		tree := ast.NewTree()
		root := tree.Attach(&ast.Program{File: path})
		tree.Link(root)
		return tree, root, nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadRelativeFileResolvesAgainstImporterDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "export const a = 1;")
	writeFile(t, filepath.Join(dir, "b.js"), "import { a } from './a.js';")

	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load(filepath.Join(dir, "b.js"), "./a.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.js"), mod.Path)
	assert.False(t, mod.IsNative)
}

func TestLoadRelativeFileResolvesWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "export const a = 1;")
	writeFile(t, filepath.Join(dir, "b.js"), "import { a } from './a';")

	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load(filepath.Join(dir, "b.js"), "./a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.js"), mod.Path)
}

func TestLoadBareSpecifierSearchesNodeModulesUpward(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "node_modules", "leftpad")
	writeFile(t, filepath.Join(pkgDir, "index.js"), "export function leftpad() {}")

	nested := filepath.Join(root, "src", "deep", "importer.js")
	writeFile(t, nested, "import { leftpad } from 'leftpad';")

	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load(nested, "leftpad")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pkgDir, "index.js"), mod.Path)
}

func TestLoadDirectoryUsesManifestMainField(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "mylib")
	writeFile(t, filepath.Join(libDir, "package.json"), `{"main": "entry.js"}`)
	writeFile(t, filepath.Join(libDir, "entry.js"), "export const x = 1;")

	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load(filepath.Join(dir, "importer.js"), "./mylib")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libDir, "entry.js"), mod.Path)
}

func TestLoadDirectoryFallsBackToIndexFile(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "mylib")
	writeFile(t, filepath.Join(libDir, "index.js"), "export const x = 1;")

	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load(filepath.Join(dir, "importer.js"), "./mylib")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libDir, "index.js"), mod.Path)
}

func TestLoadNativeModuleReturnsOpaqueStub(t *testing.T) {
	var calls int
	h := New(countingParse(&calls))

	mod, err := h.Load("/project/app.js", "fs")
	require.NoError(t, err)
	assert.True(t, mod.IsNative)
	assert.Equal(t, 0, calls, "a native stub never reaches Parse")
}

func TestLoadMemoizesByAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "export const a = 1;")
	writeFile(t, filepath.Join(dir, "b.js"), "")
	writeFile(t, filepath.Join(dir, "c.js"), "")

	var calls int
	h := New(countingParse(&calls))

	first, err := h.Load(filepath.Join(dir, "b.js"), "./a.js")
	require.NoError(t, err)
	second, err := h.Load(filepath.Join(dir, "c.js"), "./a.js")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls, "a.js should be parsed exactly once despite two importers")
}

func TestLoadMissingModuleReturnsError(t *testing.T) {
	dir := t.TempDir()
	var calls int
	h := New(countingParse(&calls))

	_, err := h.Load(filepath.Join(dir, "b.js"), "./missing.js")
	assert.Error(t, err)
}

func TestLoadIgnoreFileOverridesVendoredDirAndAddsNatives(t *testing.T) {
	root := t.TempDir()
	vendorDir := filepath.Join(root, "vendor_libs", "leftpad")
	writeFile(t, filepath.Join(vendorDir, "index.js"), "export function leftpad() {}")
	writeFile(t, filepath.Join(root, ".jsreignore"), "vendored_dir: vendor_libs\nnative_modules:\n  - sqlite3\n")

	var calls int
	h := New(countingParse(&calls))
	require.NoError(t, h.LoadIgnoreFile(filepath.Join(root, ".jsreignore")))
	assert.Equal(t, "vendor_libs", h.VendoredDir)

	mod, err := h.Load(filepath.Join(root, "src", "importer.js"), "leftpad")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(vendorDir, "index.js"), mod.Path)

	stub, err := h.Load(filepath.Join(root, "src", "importer.js"), "sqlite3")
	require.NoError(t, err)
	assert.True(t, stub.IsNative)
}

func TestLoadIgnoreFileMissingIsNotAnError(t *testing.T) {
	var calls int
	h := New(countingParse(&calls))
	assert.NoError(t, h.LoadIgnoreFile("/does/not/exist/.jsreignore"))
	assert.Equal(t, config.VendoredDirName, h.VendoredDir)
}

func TestCacheRoundTripsDiagnosticsAcrossHostInstances(t *testing.T) {
	dir := t.TempDir()
	source := "export const a = 1;"
	path := filepath.Join(dir, "a.js")
	writeFile(t, path, source)
	cachePath := filepath.Join(dir, ".jsre-cache.json")

	diags := []*diagnostics.Diagnostic{
		diagnostics.NewWarning("C005", token.Position{Filename: path, Line: 1, Column: 1}, "unused declaration"),
	}

	var calls int
	h1 := New(countingParse(&calls))
	h1.EnableCache(cachePath)
	_, err := h1.Load(filepath.Join(dir, "importer.js"), "./a.js")
	require.NoError(t, err)
	h1.StoreDiagnostics(path, diags)
	require.NoError(t, h1.Flush())

	var calls2 int
	h2 := New(countingParse(&calls2))
	h2.EnableCache(cachePath)
	_, err = h2.Load(filepath.Join(dir, "importer.js"), "./a.js")
	require.NoError(t, err)

	cached, ok := h2.CachedDiagnostics(path)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, diagnostics.Code("C005"), cached[0].Code)
}

func TestCacheMissesAfterSourceChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	writeFile(t, path, "export const a = 1;")
	cachePath := filepath.Join(dir, ".jsre-cache.json")

	var calls int
	h := New(countingParse(&calls))
	h.EnableCache(cachePath)
	_, err := h.Load(filepath.Join(dir, "importer.js"), "./a.js")
	require.NoError(t, err)
	h.StoreDiagnostics(path, nil)
	require.NoError(t, h.Flush())

	writeFile(t, path, "export const a = 2;")

	h2 := New(countingParse(&calls))
	h2.EnableCache(cachePath)
	_, err = h2.Load(filepath.Join(dir, "importer.js"), "./a.js")
	require.NoError(t, err)

	_, ok := h2.CachedDiagnostics(path)
	assert.False(t, ok, "a changed source hash must miss the cache")
}

func TestCacheInvalidatesOnVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, ".jsre-cache.json")
	writeFile(t, cachePath, `{"version":"jsre-cache-v1:0.0.0","entries":{"/x.js":{"hash":"deadbeef"}}}`)

	c := loadParserCache(cachePath)
	assert.Empty(t, c.entries, "a stale version tag must invalidate every cached entry")
}

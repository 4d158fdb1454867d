package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/host"
)

// extractArchive writes a as a real directory tree under t.TempDir and
// returns its root. Every fixture in this file is authored as one txtar
// archive so a whole small project reads as a single literal in the test;
// the other packages' tests build their fixtures through internal/astbuild.
func extractArchive(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	arc := txtar.Parse([]byte(data))
	for _, f := range arc.Files {
		full := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, f.Data, 0o644))
	}
	return dir
}

// fixtureParse is a ParseFunc that recognizes the handful of fixture
// source texts this file declares and builds the matching tree directly,
// standing in for a parser front end this package never implements.
func fixtureParse(path, source string) (*ast.Tree, ast.ID, error) {
	builder, ok := fixtures[source]
	if !ok {
		return nil, ast.NoID, fmt.Errorf("fixtureParse: no fixture registered for source %q", source)
	}
	b := astbuild.New()
	root := builder(b, filepath.Base(path))
	b.Finish(root)
	return b.Tree, root, nil
}

var fixtures = map[string]func(b *astbuild.Builder, file string) ast.ID{
	"const unused = 1;\n": func(b *astbuild.Builder, file string) ast.ID {
		decl := b.VarDecl(ast.DeclConst, b.VarDeclarator(b.Ident("unused"), b.Num(1)))
		return b.Program(file, decl)
	},
	"export function add(a, b) { return a + b; }\n": func(b *astbuild.Builder, file string) ast.ID {
		fn := b.FuncDecl(b.Ident("add"), []ast.ID{b.Ident("a"), b.Ident("b")},
			b.Block(b.Return(b.Binary("+", b.Ident("a"), b.Ident("b")))), false, false, nil)
		exp := b.ExportNamed(fn, "")
		return b.Program(file, exp)
	},
	"import { add } from \"./lib.js\";\nuse(add);\n": func(b *astbuild.Builder, file string) ast.ID {
		local := b.Ident("add")
		imp := b.ImportDecl("./lib.js", b.ImportSpec(b.Ident("add"), local))
		use := b.ExprStmt(b.Call(b.Ident("use"), b.Ident("add")))
		return b.Program(file, imp, use)
	},
	"use(1);\n": func(b *astbuild.Builder, file string) ast.ID {
		return b.Program(file, b.ExprStmt(b.Call(b.Ident("use"), b.Num(1))))
	},
}

func TestDetectModeClassifiesFileDirectoryAndManifest(t *testing.T) {
	dir := extractArchive(t, `
-- index.js --
use(1);
`)
	fileMode, err := DetectMode(filepath.Join(dir, "index.js"))
	require.NoError(t, err)
	require.Equal(t, ModeFile, fileMode)

	dirMode, err := DetectMode(dir)
	require.NoError(t, err)
	require.Equal(t, ModeDirectory, dirMode)

	manifestPath := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"main":"index.js"}`), 0o644))
	manifestMode, err := DetectMode(manifestPath)
	require.NoError(t, err)
	require.Equal(t, ModeManifest, manifestMode)
}

func TestRunFileAnalyzesSingleModule(t *testing.T) {
	dir := extractArchive(t, `
-- index.js --
const unused = 1;
`)
	h := host.New(fixtureParse)
	sink := diagnostics.NewSink(nil)
	p := New(h, sink)

	require.NoError(t, p.Run(filepath.Join(dir, "index.js")))
	require.Equal(t, int64(1), sink.Counters.Warnings()+sink.Counters.Suggestions(),
		"unused top-level declaration should be flagged")
}

func TestRunDirectoryAnalyzesEveryFileExcludingVendored(t *testing.T) {
	dir := extractArchive(t, `
-- a.js --
use(1);
-- b.js --
use(1);
-- node_modules/dep/index.js --
use(1);
`)
	h := host.New(fixtureParse)
	sink := diagnostics.NewSink(nil)
	p := New(h, sink)

	require.NoError(t, p.Run(dir))
	require.Len(t, h.Modules(), 2, "vendored file must not be walked in directory mode")
}

func TestRunManifestFollowsMainAndLocalImportsOnly(t *testing.T) {
	dir := extractArchive(t, `
-- package.json --
{"main": "index.js", "dependencies": {"left-pad": "^1.0.0"}}
-- index.js --
import { add } from "./lib.js";
use(add);
-- lib.js --
export function add(a, b) { return a + b; }
-- node_modules/left-pad/index.js --
use(1);
`)
	h := host.New(fixtureParse)
	sink := diagnostics.NewSink(nil)
	p := New(h, sink)

	require.NoError(t, p.Run(filepath.Join(dir, "package.json")))
	require.Equal(t, "index.js", p.Manifest.Main)
	require.Len(t, p.Manifest.Dependencies, 1)
	require.Equal(t, int64(1), sink.Counters.Traces(), "manifest dependency count should be traced")

	// index.js and lib.js are both project-local and must both be loaded;
	// the vendored dependency is resolved against but never walked itself.
	require.Len(t, h.Modules(), 2)
	for _, mod := range h.Modules() {
		require.NotContains(t, mod.Path, "node_modules")
	}
}

func TestRunDirectoryReportsParseFailures(t *testing.T) {
	dir := extractArchive(t, `
-- bad.js --
this source has no registered fixture
`)
	h := host.New(fixtureParse)
	sink := diagnostics.NewSink(nil)
	p := New(h, sink)

	require.NoError(t, p.Run(dir))
	require.Equal(t, int64(1), sink.Counters.Errors())
}

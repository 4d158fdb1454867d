package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astbuild"
)

// stubParse recognizes the one fixture source below; the real parser
// front end is out of scope for this repository (see Parse's doc comment).
func stubParse(path, source string) (*ast.Tree, ast.ID, error) {
	b := astbuild.New()
	decl := b.VarDecl(ast.DeclConst, b.VarDeclarator(b.Ident("unused"), b.Num(1)))
	root := b.Program(filepath.Base(path), decl)
	b.Finish(root)
	return b.Tree, root, nil
}

func TestRunReportsDiagnosticsAndSummary(t *testing.T) {
	old := Parse
	Parse = stubParse
	defer func() { Parse = old }()

	dir := t.TempDir()
	file := filepath.Join(dir, "index.js")
	require.NoError(t, os.WriteFile(file, []byte("const unused = 1;\n"), 0o644))

	var out bytes.Buffer
	err := run(&out, file, false, true)
	require.NoError(t, err)

	snaps.MatchSnapshot(t, "run_output", out.String())
}

func TestRunWithoutParserFails(t *testing.T) {
	old := Parse
	Parse = nil
	defer func() { Parse = old }()

	var out bytes.Buffer
	err := run(&out, "whatever", false, false)
	require.Error(t, err)
}

func TestRunMissingPathFails(t *testing.T) {
	old := Parse
	Parse = stubParse
	defer func() { Parse = old }()

	var out bytes.Buffer
	err := run(&out, filepath.Join(t.TempDir(), "missing.js"), false, false)
	require.Error(t, err)
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/host"
	"github.com/nsyo/jsre/internal/project"
)

const rootDoc = `jsre analyzes one module, directory, or project manifest.

The positional argument is one of:

  a source file       analyze that one module.
  a directory          analyze every source file under it, excluding the
                        vendored-dependencies directory.
  a package.json file  read its "main" field, load the entry module, and
                        transitively analyze every project-local module
                        reached from it.
`

func newRootCmd() *cobra.Command {
	var debug, suggest bool

	cmd := &cobra.Command{
		Use:           "jsre <path>",
		Short:         "static analyzer for structurally-typed modules",
		Long:          rootDoc,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  false,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], debug, suggest)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug (trace) output")
	cmd.Flags().BoolVarP(&suggest, "suggest", "s", false, "enable suggestions")

	return cmd
}

func run(out io.Writer, path string, debug, suggest bool) (err error) {
	defer diagnostics.Recover(&err)

	if Parse == nil {
		diagnostics.Fatal("no parser front end linked into this binary")
	}

	sink := diagnostics.NewSink(out)
	sink.Enabled = func(sev diagnostics.Severity) bool {
		switch sev {
		case diagnostics.Trace:
			return debug
		case diagnostics.Suggest:
			return suggest
		default:
			return true
		}
	}

	h := host.New(Parse)
	if exe, err := os.Executable(); err == nil {
		h.EnableCache(filepath.Join(filepath.Dir(exe), ".jsre-cache.json"))
	}
	if err := h.LoadIgnoreFile(filepath.Join(ignoreFileDir(path), ".jsreignore")); err != nil {
		return fmt.Errorf("loading .jsreignore: %w", err)
	}

	p := project.New(h, sink)
	if err := p.Run(path); err != nil {
		return err
	}

	if err := h.Flush(); err != nil {
		fmt.Fprintf(out, "warning: could not persist parser cache: %v\n", err)
	}

	fmt.Fprintln(out, sink.Counters.Summary())
	return nil
}

// ignoreFileDir is where a .jsreignore override is looked for: the
// directory itself in directory/manifest mode, its parent for a single
// source file.
func ignoreFileDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// Package project orchestrates one analyzer run: given the CLI's single
// positional argument, it works out which of the three entry shapes
// (file / directory / manifest) applies, loads the relevant modules
// through internal/host, and drives each through resolution, graph
// construction, and checking.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nsyo/jsre/internal/check"
	"github.com/nsyo/jsre/internal/diagnostics"
	"github.com/nsyo/jsre/internal/host"
	"github.com/nsyo/jsre/internal/pipeline"
	"github.com/nsyo/jsre/internal/resolve"
	"github.com/nsyo/jsre/internal/token"
)

// Mode is which of the three CLI entry shapes a positional argument took.
type Mode int

const (
	ModeFile Mode = iota
	ModeDirectory
	ModeManifest
)

// DetectMode classifies path by the three entry shapes a CLI argument can
// take: a directory, a file named package.json (a project manifest), or
// any other file.
func DetectMode(path string) (Mode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return ModeDirectory, nil
	}
	if manifestAt(path) {
		return ModeManifest, nil
	}
	return ModeFile, nil
}

// Project orchestrates one CLI run: resolving modules through Host,
// building each function's graph, and running every checker, draining
// diagnostics into Sink.
type Project struct {
	Host *host.Host
	Sink *diagnostics.Sink

	// Workers bounds concurrent parsing in directory/manifest mode. <= 0
	// defers to pipeline.Pool's own runtime.GOMAXPROCS default.
	Workers int

	// Manifest is populated by Run when the entry argument is a project
	// manifest file.
	Manifest Manifest
}

// New builds a Project around an already-constructed Host and Sink.
func New(h *host.Host, sink *diagnostics.Sink) *Project {
	return &Project{Host: h, Sink: sink}
}

// Run analyzes path, dispatching on its mode.
func (p *Project) Run(path string) error {
	mode, err := DetectMode(path)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}

	switch mode {
	case ModeFile:
		return p.runFile(path)
	case ModeDirectory:
		return p.runDirectory(path)
	case ModeManifest:
		return p.runManifest(path)
	default:
		return fmt.Errorf("project: unrecognized mode for %s", path)
	}
}

func (p *Project) runFile(path string) error {
	mod, err := p.Host.LoadEntry(path)
	if err != nil {
		return err
	}
	p.analyze(mod)
	return nil
}

func (p *Project) runManifest(path string) error {
	m, err := loadManifest(path)
	if err != nil {
		return err
	}
	p.Manifest = m
	if len(m.Dependencies) > 0 {
		p.Sink.Trace(diagnostics.CodeManifestDependencies, token.Position{Filename: path},
			"manifest declares %d dependency(ies)", len(m.Dependencies))
	}

	entryPath := filepath.Join(filepath.Dir(path), m.Main)
	entry, err := p.Host.LoadEntry(entryPath)
	if err != nil {
		return err
	}

	for _, mod := range collectProjectModules(p.Host, entry) {
		p.analyze(mod)
	}
	return nil
}

func (p *Project) runDirectory(dir string) error {
	files, err := sourceFilesUnder(dir, p.Host)
	if err != nil {
		return err
	}

	units := make([]pipeline.Unit, len(files))
	sources := make(map[string]string, len(files))
	for i, f := range files {
		source, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		units[i] = pipeline.Unit{Path: f, Source: string(source)}
		sources[f] = string(source)
	}

	pool := &pipeline.Pool{Parse: pipeline.ParseFunc(p.Host.Parse), Workers: p.Workers}
	results, err := pool.Run(context.Background(), units)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			p.Sink.Error(diagnostics.CodeParseFailed, token.Position{Filename: r.Path},
				"parsing %s: %v", r.Path, r.Err)
			continue
		}
		mod := p.Host.Register(r.Path, sources[r.Path], r.Tree, r.Root)
		p.analyze(mod)
	}
	return nil
}

// analyze runs cross-module resolution and every checker over mod,
// reporting to p.Sink.
func (p *Project) analyze(mod *resolve.Module) {
	resolve.ResolveImports(p.Host, mod, p.Sink)
	check.Run(mod, p.Sink)
}

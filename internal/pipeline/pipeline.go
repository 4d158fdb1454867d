// Package pipeline runs the parsing stage of a project load across a
// fixed-size pool of workers: each worker pulls a (module path, source)
// unit, parses it, and hands the resulting tree back through a pre-sized
// results slice observed after every worker has finished — the
// concurrent-safe equivalent of a future without a dedicated type.
package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nsyo/jsre/internal/ast"
)

// ErrStopped is the error recorded for a unit that never ran because Stop
// had already been requested when its turn came up.
var ErrStopped = errors.New("pipeline: stopped before this unit ran")

// ParseFunc parses one module's source text into a linked ast.Tree rooted
// at the returned Program id. Pipeline has no opinion on how parsing
// happens; it only schedules calls to it across workers.
type ParseFunc func(path, source string) (*ast.Tree, ast.ID, error)

// Unit is one module awaiting a parse.
type Unit struct {
	Path   string
	Source string
}

// Result is what one Unit produces.
type Result struct {
	Path string
	Tree *ast.Tree
	Root ast.ID
	Err  error
}

// Pool runs units through Parse across a fixed number of concurrent
// workers. Parsing two modules has no ordering relative to each other;
// Run's returned slice is simply index-aligned with the input.
type Pool struct {
	Parse    ParseFunc
	Workers  int  // <= 0 means runtime.GOMAXPROCS(0)
	FailFast bool // stop scheduling new units once one unit errors

	stopped atomic.Bool
}

// Stop requests every worker still pulling units to exit after its current
// unit finishes; in-flight units always run to completion. Safe to call
// from any goroutine, including one of the pool's own workers.
func (p *Pool) Stop() { p.stopped.Store(true) }

// Stopped reports whether Stop has been called.
func (p *Pool) Stopped() bool { return p.stopped.Load() }

// Run parses every unit, bounded to p.Workers concurrent parses, and
// returns one Result per unit. A single unit's error never aborts its
// siblings unless FailFast is set, in which case Run's error return is
// the first one encountered and no further units are scheduled.
func (p *Pool) Run(ctx context.Context, units []Unit) ([]Result, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if p.stopped.Load() {
				results[i] = Result{Path: u.Path, Err: ErrStopped}
				return nil
			}
			select {
			case <-gctx.Done():
				results[i] = Result{Path: u.Path, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			tree, root, err := p.Parse(u.Path, u.Source)
			results[i] = Result{Path: u.Path, Tree: tree, Root: root, Err: err}
			if err != nil && p.FailFast {
				p.Stop()
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

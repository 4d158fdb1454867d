package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsyo/jsre/internal/ast"
)

func stubParse(root ast.ID) ParseFunc {
	return func(path, source string) (*ast.Tree, ast.ID, error) {
		tree := ast.NewTree()
		return tree, root, nil
	}
}

func TestRunParsesEveryUnit(t *testing.T) {
	pool := &Pool{Parse: stubParse(ast.NoID), Workers: 2}
	units := []Unit{{Path: "a.js", Source: "a"}, {Path: "b.js", Source: "b"}, {Path: "c.js", Source: "c"}}

	results, err := pool.Run(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, u := range units {
		assert.Equal(t, u.Path, results[i].Path)
		assert.NoError(t, results[i].Err)
		assert.NotNil(t, results[i].Tree)
	}
}

func TestRunContinuesPastErrorsWithoutFailFast(t *testing.T) {
	boom := errors.New("boom")
	parse := func(path, source string) (*ast.Tree, ast.ID, error) {
		if path == "bad.js" {
			return nil, ast.NoID, boom
		}
		return ast.NewTree(), ast.NoID, nil
	}
	pool := &Pool{Parse: parse, Workers: 1}
	units := []Unit{{Path: "good.js"}, {Path: "bad.js"}, {Path: "also-good.js"}}

	results, err := pool.Run(context.Background(), units)
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
}

func TestRunFailFastStopsSchedulingFurtherUnits(t *testing.T) {
	boom := errors.New("boom")
	parse := func(path, source string) (*ast.Tree, ast.ID, error) {
		if path == "bad.js" {
			return nil, ast.NoID, boom
		}
		return ast.NewTree(), ast.NoID, nil
	}
	pool := &Pool{Parse: parse, Workers: 1, FailFast: true}
	units := []Unit{{Path: "bad.js"}, {Path: "never-runs.js"}}

	_, err := pool.Run(context.Background(), units)
	require.Error(t, err)
	assert.True(t, pool.Stopped())
}

func TestStopBeforeRunSkipsEveryUnit(t *testing.T) {
	pool := &Pool{Parse: stubParse(ast.NoID), Workers: 2}
	pool.Stop()

	results, err := pool.Run(context.Background(), []Unit{{Path: "a.js"}, {Path: "b.js"}})
	require.NoError(t, err)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, ErrStopped)
	}
}

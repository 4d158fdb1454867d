package resolve

import "github.com/nsyo/jsre/internal/ast"

// scopeKind distinguishes the two frame shapes the resolver pushes: full
// scopes introduce a fresh function-local variable namespace and are the
// ceiling var hoisting climbs to; partial scopes are transparent to var
// but own their own let/const bindings.
type scopeKind uint8

const (
	fullScope scopeKind = iota
	partialScope
)

// frame is one entry on the resolver's scope stack.
type frame struct {
	kind   scopeKind
	parent *frame

	// lexical holds let/const/function/class/import/catch-param bindings
	// local to exactly this frame.
	lexical map[string]ast.ID

	// varBindings holds the *currently live* declarator for a hoisted var
	// name, visible in this frame. Updated twice: once at discovery time
	// (forward-reference fallback, propagated up to and including the
	// nearest full scope, set only if absent — see declareVar) and once
	// as the real walk passes each declarator's textual position
	// (propagated only through block scopes below the nearest full
	// scope, always overwritten — see visitVarDeclarator).
	varBindings map[string]ast.ID
}

func newFrame(kind scopeKind, parent *frame) *frame {
	return &frame{
		kind:        kind,
		parent:      parent,
		lexical:     make(map[string]ast.ID),
		varBindings: make(map[string]ast.ID),
	}
}

// nearestFullScopeChain returns f and every ancestor up to and including
// the nearest full scope, innermost first.
func (f *frame) nearestFullScopeChain() []*frame {
	var chain []*frame
	for cur := f; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
		if cur.kind == fullScope {
			break
		}
	}
	return chain
}

// blockScopeChain returns f and every block-scope ancestor up to but
// excluding the nearest full scope, innermost first — unless f is itself
// the full scope, in which case the chain is just f. A full-scope frame
// doubles as the top of the enclosing function's own statement list (no
// separate frame is pushed for "the function body block"), so a var's
// live binding only needs to reach the full scope when nothing shallower
// already holds it; overwriting it from inside a nested block would wipe
// out whatever sibling declarator is live there once the block closes.
func (f *frame) blockScopeChain() []*frame {
	if f.kind == fullScope {
		return []*frame{f}
	}
	var chain []*frame
	for cur := f; cur != nil && cur.kind != fullScope; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// declareLexical binds name to decl in this frame only.
func (f *frame) declareLexical(name string, decl ast.ID) {
	f.lexical[name] = decl
}

// declareVar registers decl as a hoisted var in f and every ancestor up to
// the nearest full scope. If a binding for name doesn't exist yet in a
// frame, decl becomes its provisional value (forward-reference fallback);
// existing bindings are left untouched at discovery time.
func (f *frame) declareVar(name string, decl ast.ID) {
	for _, a := range f.nearestFullScopeChain() {
		if _, ok := a.varBindings[name]; !ok {
			a.varBindings[name] = decl
		}
	}
}

// visitVarDeclarator is called when the main walk reaches a var
// declarator's real textual position; it makes decl the live binding for
// name in f and every block-scope ancestor (see blockScopeChain) — a
// sibling declarator already live in the enclosing full scope is left
// alone, so a read after the block closes still sees it rather than the
// block-local declarator.
func (f *frame) visitVarDeclarator(name string, decl ast.ID) {
	for _, a := range f.blockScopeChain() {
		a.varBindings[name] = decl
	}
}

// lookup searches f and its ancestors, innermost first, for name. It
// checks a frame's own lexical bindings before its var bindings, since a
// let/const declared directly in a frame shadows a var hoisted into the
// same frame from a nested block.
func (f *frame) lookup(name string) (ast.ID, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if id, ok := cur.lexical[name]; ok {
			return id, true
		}
		if id, ok := cur.varBindings[name]; ok {
			return id, true
		}
	}
	return ast.NoID, false
}

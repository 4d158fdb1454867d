package resolve

import "github.com/nsyo/jsre/internal/ast"

// localResolver walks one module's AST once, binding every identifier use
// to its declaration within the module. Import specifiers are treated as
// ordinary declarations during this pass — ResolveImports (imports.go)
// runs afterward to follow them into their target modules.
type localResolver struct {
	mod  *Module
	tree *ast.Tree
	cur  *frame
}

// ResolveLocal runs local lexical resolution over mod and marks it done.
// Safe to call more than once; only the first call has effect.
func ResolveLocal(mod *Module) {
	if mod.localResolved {
		return
	}
	r := &localResolver{mod: mod, tree: mod.Tree}
	r.cur = newFrame(fullScope, nil)
	prog := mod.Program()
	r.discover(prog.Body)
	for _, id := range prog.Body {
		r.walkStmt(id)
	}
	mod.localResolved = true
}

func (r *localResolver) declareLexical(name string, id ast.ID) {
	r.cur.declareLexical(name, id)
	r.ensureXRefSelf(id)
}

func (r *localResolver) declareVar(name string, id ast.ID) {
	r.cur.declareVar(name, id)
	r.ensureXRefSelf(id)
}

func (r *localResolver) visitVarDeclarator(name string, id ast.ID) {
	r.cur.visitVarDeclarator(name, id)
	r.ensureXRefSelf(id)
}

func (r *localResolver) ensureXRefSelf(id ast.ID) {
	if _, ok := r.mod.LocalXRefs[id]; !ok {
		r.mod.LocalXRefs[id] = []ast.ID{id}
	}
}

func (r *localResolver) resolveIdentifierUse(id ast.ID) {
	if id == ast.NoID {
		return
	}
	ident, ok := r.tree.Node(id).(*ast.Identifier)
	if !ok {
		return
	}
	if decl, found := r.cur.lookup(ident.Name); found {
		r.mod.ResolvedLocal[id] = decl
		r.mod.LocalXRefs[decl] = append(r.mod.LocalXRefs[decl], id)
		return
	}
	r.mod.FreeTopLevel = append(r.mod.FreeTopLevel, id)
}

// discover scans an immediate statement list for hoistable declarations —
// var (propagated to the nearest enclosing full scope), function, class,
// type alias, interface, and import bindings — registering each in the
// current frame before the statement-by-statement walk descends into it.
func (r *localResolver) discover(stmts []ast.ID) {
	for _, id := range stmts {
		r.discoverOne(id)
	}
}

func (r *localResolver) discoverOne(id ast.ID) {
	switch n := r.tree.Node(id).(type) {
	case *ast.VariableDeclaration:
		for _, declID := range n.Declarators {
			d := r.tree.Node(declID).(*ast.VariableDeclarator)
			for _, ident := range collectPatternNames(r.tree, d.ID_) {
				if n.DeclKind == ast.DeclVar {
					r.declareVar(ident.Name, ident.NodeID())
				} else {
					r.declareLexical(ident.Name, ident.NodeID())
				}
			}
		}
	case *ast.FunctionDeclaration:
		if n.ID_ != ast.NoID {
			if ident, ok := r.tree.Node(n.ID_).(*ast.Identifier); ok {
				r.declareLexical(ident.Name, n.ID_)
			}
		}
	case *ast.ClassDeclaration:
		if n.ID_ != ast.NoID {
			if ident, ok := r.tree.Node(n.ID_).(*ast.Identifier); ok {
				r.declareLexical(ident.Name, n.ID_)
			}
		}
	case *ast.TypeAlias:
		if ident, ok := r.tree.Node(n.ID_).(*ast.Identifier); ok {
			r.declareLexical(ident.Name, n.ID_)
		}
	case *ast.InterfaceDeclaration:
		if ident, ok := r.tree.Node(n.ID_).(*ast.Identifier); ok {
			r.declareLexical(ident.Name, n.ID_)
		}
	case *ast.ImportDeclaration:
		for _, specID := range n.Specifiers {
			r.declareImportSpecifier(specID)
		}
	case *ast.ExportNamedDeclaration:
		if n.Declaration != ast.NoID {
			r.discoverOne(n.Declaration)
		}
	case *ast.ExportDefaultDeclaration:
		switch r.tree.Node(n.Declaration).(type) {
		case *ast.FunctionDeclaration, *ast.ClassDeclaration:
			r.discoverOne(n.Declaration)
		}
	}
}

func (r *localResolver) declareImportSpecifier(specID ast.ID) {
	var local ast.ID
	switch s := r.tree.Node(specID).(type) {
	case *ast.ImportSpecifier:
		local = s.Local
	case *ast.ImportDefaultSpecifier:
		local = s.Local
	case *ast.ImportNamespaceSpecifier:
		local = s.Local
	default:
		return
	}
	if ident, ok := r.tree.Node(local).(*ast.Identifier); ok {
		r.declareLexical(ident.Name, local)
	}
}

// bindPattern recurses a declaration-position pattern (var/let/const
// declarator, function/catch parameter), invoking bind for every
// Identifier it binds and walking default-value and computed-key
// expressions as ordinary uses.
func (r *localResolver) bindPattern(patID ast.ID, bind func(name string, id ast.ID)) {
	if patID == ast.NoID {
		return
	}
	switch n := r.tree.Node(patID).(type) {
	case *ast.Identifier:
		bind(n.Name, patID)
		if n.TypeAnnotation != nil {
			r.walkTypeExpr(n.TypeAnnotation)
		}
	case *ast.ObjectPattern:
		for _, propID := range n.Properties {
			switch p := r.tree.Node(propID).(type) {
			case *ast.ObjectProperty:
				if p.Computed {
					r.walkExpr(p.Key)
				}
				r.bindPattern(p.Value, bind)
			case *ast.RestElement:
				r.bindPattern(p.Argument, bind)
			}
		}
	case *ast.ArrayPattern:
		for _, elID := range n.Elements {
			r.bindPattern(elID, bind)
		}
	case *ast.RestElement:
		r.bindPattern(n.Argument, bind)
	case *ast.AssignmentPattern:
		r.bindPattern(n.Left, bind)
		r.walkExpr(n.Right)
	}
}

// walkAssignmentTarget recurses an assignment's or for-in/of's left-hand
// side, which may re-use pattern syntax for destructuring but binds to
// *existing* declarations rather than introducing new ones.
func (r *localResolver) walkAssignmentTarget(id ast.ID) {
	if id == ast.NoID {
		return
	}
	switch n := r.tree.Node(id).(type) {
	case *ast.Identifier:
		r.resolveIdentifierUse(id)
	case *ast.MemberExpression:
		r.walkExpr(id)
	case *ast.ObjectPattern:
		for _, propID := range n.Properties {
			switch p := r.tree.Node(propID).(type) {
			case *ast.ObjectProperty:
				if p.Computed {
					r.walkExpr(p.Key)
				}
				r.walkAssignmentTarget(p.Value)
			case *ast.RestElement:
				r.walkAssignmentTarget(p.Argument)
			}
		}
	case *ast.ArrayPattern:
		for _, elID := range n.Elements {
			r.walkAssignmentTarget(elID)
		}
	case *ast.RestElement:
		r.walkAssignmentTarget(n.Argument)
	case *ast.AssignmentPattern:
		r.walkAssignmentTarget(n.Left)
		r.walkExpr(n.Right)
	}
}

func (r *localResolver) walkVariableDeclarator(declID ast.ID, kind ast.DeclKind) {
	d := r.tree.Node(declID).(*ast.VariableDeclarator)
	bind := func(name string, id ast.ID) {
		if kind == ast.DeclVar {
			r.visitVarDeclarator(name, id)
		} else {
			r.declareLexical(name, id)
		}
	}
	r.bindPattern(d.ID_, bind)
	if d.Init != ast.NoID {
		r.walkExpr(d.Init)
	}
}

// walkFunctionExpr handles a FunctionExpression's own optional name: unlike
// a FunctionDeclaration, the name doesn't belong to the enclosing scope —
// it's visible only inside the function's own scope, so a recursive
// self-call resolves to it there and nowhere else.
func (r *localResolver) walkFunctionExpr(n *ast.FunctionExpression) {
	prev := r.cur
	r.cur = newFrame(fullScope, prev)
	if n.ID_ != ast.NoID {
		if ident, ok := r.tree.Node(n.ID_).(*ast.Identifier); ok {
			r.declareLexical(ident.Name, n.ID_)
		}
	}
	r.walkFunctionBody(n.Params, n.Body, n.ReturnType)
	r.cur = prev
}

func (r *localResolver) walkFunctionLike(params []ast.ID, body ast.ID, retType ast.Expression) {
	prev := r.cur
	r.cur = newFrame(fullScope, prev)
	r.walkFunctionBody(params, body, retType)
	r.cur = prev
}

// walkFunctionBody binds params and walks the body within whatever frame
// the caller already pushed onto r.cur.
func (r *localResolver) walkFunctionBody(params []ast.ID, body ast.ID, retType ast.Expression) {
	for _, p := range params {
		r.bindPattern(p, r.declareLexical)
	}
	if retType != nil {
		r.walkTypeExpr(retType)
	}
	if bb, ok := r.tree.Node(body).(*ast.BlockStatement); ok {
		r.discover(bb.Body)
		for _, s := range bb.Body {
			r.walkStmt(s)
		}
	}
}

func (r *localResolver) walkArrow(n *ast.ArrowFunctionExpression) {
	prev := r.cur
	r.cur = newFrame(fullScope, prev)
	for _, p := range n.Params {
		r.bindPattern(p, r.declareLexical)
	}
	if n.ReturnType != nil {
		r.walkTypeExpr(n.ReturnType)
	}
	if n.ExpressionBody {
		r.walkExpr(n.Body)
	} else if bb, ok := r.tree.Node(n.Body).(*ast.BlockStatement); ok {
		r.discover(bb.Body)
		for _, s := range bb.Body {
			r.walkStmt(s)
		}
	}
	r.cur = prev
}

func (r *localResolver) walkClassBody(superClass ast.ID, body []ast.ID) {
	if superClass != ast.NoID {
		r.walkExpr(superClass)
	}
	for _, memberID := range body {
		switch m := r.tree.Node(memberID).(type) {
		case *ast.ClassMethod:
			if m.Computed {
				r.walkExpr(m.Key)
			}
			r.walkFunctionLike(m.Params, m.Body, nil)
		case *ast.ClassPrivateMethod:
			r.walkFunctionLike(m.Params, m.Body, nil)
		case *ast.ClassProperty:
			if m.Computed {
				r.walkExpr(m.Key)
			}
			if m.TypeAnnotation != nil {
				r.walkTypeExpr(m.TypeAnnotation)
			}
			if m.Value != ast.NoID {
				r.walkExpr(m.Value)
			}
		case *ast.ClassPrivateProperty:
			if m.TypeAnnotation != nil {
				r.walkTypeExpr(m.TypeAnnotation)
			}
			if m.Value != ast.NoID {
				r.walkExpr(m.Value)
			}
		}
	}
}

func (r *localResolver) walkForInit(id ast.ID) {
	if vd, ok := r.tree.Node(id).(*ast.VariableDeclaration); ok {
		if vd.DeclKind == ast.DeclVar {
			for _, declID := range vd.Declarators {
				d := r.tree.Node(declID).(*ast.VariableDeclarator)
				for _, ident := range collectPatternNames(r.tree, d.ID_) {
					r.declareVar(ident.Name, ident.NodeID())
				}
			}
		}
		for _, declID := range vd.Declarators {
			r.walkVariableDeclarator(declID, vd.DeclKind)
		}
		return
	}
	r.walkExpr(id)
}

func (r *localResolver) walkForHead(left, right, body ast.ID) {
	prev := r.cur
	r.cur = newFrame(partialScope, prev)
	if vd, ok := r.tree.Node(left).(*ast.VariableDeclaration); ok {
		for _, declID := range vd.Declarators {
			d := r.tree.Node(declID).(*ast.VariableDeclarator)
			r.bindPattern(d.ID_, func(name string, id ast.ID) {
				if vd.DeclKind == ast.DeclVar {
					r.declareVar(name, id)
					r.visitVarDeclarator(name, id)
				} else {
					r.declareLexical(name, id)
				}
			})
		}
	} else {
		r.walkAssignmentTarget(left)
	}
	r.walkExpr(right)
	r.walkStmt(body)
	r.cur = prev
}

func (r *localResolver) walkCatchClause(handlerID ast.ID) {
	cc := r.tree.Node(handlerID).(*ast.CatchClause)
	prev := r.cur
	r.cur = newFrame(partialScope, prev)
	if cc.Param != ast.NoID {
		r.bindPattern(cc.Param, r.declareLexical)
	}
	if bb, ok := r.tree.Node(cc.Body).(*ast.BlockStatement); ok {
		r.discover(bb.Body)
		for _, s := range bb.Body {
			r.walkStmt(s)
		}
	}
	r.cur = prev
}

func (r *localResolver) walkStmt(id ast.ID) {
	if id == ast.NoID {
		return
	}
	switch n := r.tree.Node(id).(type) {
	case *ast.BlockStatement:
		prev := r.cur
		r.cur = newFrame(partialScope, prev)
		r.discover(n.Body)
		for _, s := range n.Body {
			r.walkStmt(s)
		}
		r.cur = prev
	case *ast.ExpressionStatement:
		r.walkExpr(n.Expression)
	case *ast.EmptyStatement:
	case *ast.VariableDeclaration:
		for _, declID := range n.Declarators {
			r.walkVariableDeclarator(declID, n.DeclKind)
		}
	case *ast.FunctionDeclaration:
		r.walkFunctionLike(n.Params, n.Body, n.ReturnType)
	case *ast.ClassDeclaration:
		r.walkClassBody(n.SuperClass, n.Body)
	case *ast.ReturnStatement:
		if n.Argument != ast.NoID {
			r.walkExpr(n.Argument)
		}
	case *ast.IfStatement:
		r.walkExpr(n.Test)
		r.walkStmt(n.Consequent)
		if n.Alternate != ast.NoID {
			r.walkStmt(n.Alternate)
		}
	case *ast.WhileStatement:
		r.walkExpr(n.Test)
		r.walkStmt(n.Body)
	case *ast.DoWhileStatement:
		r.walkStmt(n.Body)
		r.walkExpr(n.Test)
	case *ast.ForStatement:
		prev := r.cur
		r.cur = newFrame(partialScope, prev)
		if n.Init != ast.NoID {
			r.walkForInit(n.Init)
		}
		if n.Test != ast.NoID {
			r.walkExpr(n.Test)
		}
		if n.Update != ast.NoID {
			r.walkExpr(n.Update)
		}
		r.walkStmt(n.Body)
		r.cur = prev
	case *ast.ForInStatement:
		r.walkForHead(n.Left, n.Right, n.Body)
	case *ast.ForOfStatement:
		r.walkForHead(n.Left, n.Right, n.Body)
	case *ast.SwitchStatement:
		r.walkExpr(n.Discriminant)
		prev := r.cur
		r.cur = newFrame(partialScope, prev)
		for _, caseID := range n.Cases {
			sc := r.tree.Node(caseID).(*ast.SwitchCase)
			r.discover(sc.Consequent)
		}
		for _, caseID := range n.Cases {
			sc := r.tree.Node(caseID).(*ast.SwitchCase)
			if sc.Test != ast.NoID {
				r.walkExpr(sc.Test)
			}
			for _, s := range sc.Consequent {
				r.walkStmt(s)
			}
		}
		r.cur = prev
	case *ast.BreakStatement, *ast.ContinueStatement:
		// labels aren't lexically scoped identifiers.
	case *ast.ThrowStatement:
		r.walkExpr(n.Argument)
	case *ast.TryStatement:
		r.walkStmt(n.Block)
		if n.Handler != ast.NoID {
			r.walkCatchClause(n.Handler)
		}
		if n.Finalizer != ast.NoID {
			r.walkStmt(n.Finalizer)
		}
	case *ast.LabeledStatement:
		r.walkStmt(n.Body)
	case *ast.TypeAlias:
		for _, tpID := range n.TypeParameters {
			if tp, ok := r.tree.Node(tpID).(*ast.TypeParameterDeclaration); ok {
				if tp.Bound != nil {
					r.walkTypeExpr(tp.Bound)
				}
				if tp.Default != nil {
					r.walkTypeExpr(tp.Default)
				}
			}
		}
		r.walkTypeExpr(n.Right)
	case *ast.InterfaceDeclaration:
		if body, ok := r.tree.Node(n.Body).(*ast.ObjectTypeAnnotation); ok {
			r.walkTypeExpr(body)
		}
	case *ast.ImportDeclaration:
		// bindings already registered by discover; nothing more to walk.
	case *ast.ExportNamedDeclaration:
		if n.Declaration != ast.NoID {
			r.walkStmt(n.Declaration)
		}
		if n.Source == "" {
			for _, specID := range n.Specifiers {
				sp := r.tree.Node(specID).(*ast.ExportSpecifier)
				r.resolveIdentifierUse(sp.Local)
			}
		}
	case *ast.ExportDefaultDeclaration:
		switch r.tree.Node(n.Declaration).(type) {
		case *ast.FunctionDeclaration, *ast.ClassDeclaration:
			r.walkStmt(n.Declaration)
		default:
			r.walkExpr(n.Declaration)
		}
	case *ast.ExportAllDeclaration:
		// entirely cross-module; nothing local to resolve.
	}
}

func (r *localResolver) walkExpr(id ast.ID) {
	if id == ast.NoID {
		return
	}
	switch n := r.tree.Node(id).(type) {
	case *ast.Identifier:
		r.resolveIdentifierUse(id)
		if n.TypeAnnotation != nil {
			r.walkTypeExpr(n.TypeAnnotation)
		}
	case *ast.TemplateLiteral:
		for _, e := range n.Expressions {
			r.walkExpr(e)
		}
	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			if e != ast.NoID {
				r.walkExpr(e)
			}
		}
	case *ast.ObjectProperty:
		if n.Computed {
			r.walkExpr(n.Key)
		}
		r.walkExpr(n.Value)
	case *ast.ObjectMethod:
		if n.Computed {
			r.walkExpr(n.Key)
		}
		r.walkFunctionLike(n.Params, n.Body, nil)
	case *ast.ObjectExpression:
		for _, p := range n.Properties {
			r.walkExpr(p)
		}
	case *ast.SpreadElement:
		r.walkExpr(n.Argument)
	case *ast.FunctionExpression:
		r.walkFunctionExpr(n)
	case *ast.ArrowFunctionExpression:
		r.walkArrow(n)
	case *ast.ClassExpression:
		r.walkClassBody(n.SuperClass, n.Body)
	case *ast.CallExpression:
		r.walkExpr(n.Callee)
		for _, a := range n.Arguments {
			r.walkExpr(a)
		}
	case *ast.NewExpression:
		r.walkExpr(n.Callee)
		for _, a := range n.Arguments {
			r.walkExpr(a)
		}
	case *ast.MemberExpression:
		r.walkExpr(n.Object)
		if n.Computed {
			r.walkExpr(n.Property)
		}
	case *ast.BinaryExpression:
		r.walkExpr(n.Left)
		r.walkExpr(n.Right)
	case *ast.LogicalExpression:
		r.walkExpr(n.Left)
		r.walkExpr(n.Right)
	case *ast.UnaryExpression:
		r.walkExpr(n.Argument)
	case *ast.UpdateExpression:
		r.walkExpr(n.Argument)
	case *ast.AssignmentExpression:
		r.walkAssignmentTarget(n.Left)
		r.walkExpr(n.Right)
	case *ast.ConditionalExpression:
		r.walkExpr(n.Test)
		r.walkExpr(n.Consequent)
		r.walkExpr(n.Alternate)
	case *ast.SequenceExpression:
		for _, e := range n.Expressions {
			r.walkExpr(e)
		}
	case *ast.AwaitExpression:
		r.walkExpr(n.Argument)
	case *ast.YieldExpression:
		if n.Argument != ast.NoID {
			r.walkExpr(n.Argument)
		}
	case *ast.TypeCastExpression:
		r.walkExpr(n.Expression)
		r.walkTypeExpr(n.TypeAnnotation)
	case *ast.ObjectPattern, *ast.ArrayPattern, *ast.RestElement, *ast.AssignmentPattern:
		r.walkAssignmentTarget(id)
	}
}

func (r *localResolver) walkTypeExpr(e ast.Expression) {
	if e == nil {
		return
	}
	switch t := e.(type) {
	case *ast.TypeAnnotation:
		r.walkTypeExpr(t.TypeExpression)
	case *ast.Identifier:
		r.resolveIdentifierUse(t.NodeID())
	case *ast.GenericTypeAnnotation:
		switch base := r.tree.Node(t.ID_).(type) {
		case *ast.Identifier:
			r.resolveIdentifierUse(t.ID_)
		case *ast.QualifiedTypeIdentifier:
			r.walkTypeExpr(base.Qualification)
		}
		for _, tp := range t.TypeParameters {
			r.walkTypeExpr(tp)
		}
	case *ast.NullableTypeAnnotation:
		r.walkTypeExpr(t.TypeExpression)
	case *ast.UnionTypeAnnotation:
		for _, tt := range t.Types {
			r.walkTypeExpr(tt)
		}
	case *ast.FunctionTypeAnnotation:
		for _, pID := range t.Params {
			if p, ok := r.tree.Node(pID).(*ast.FunctionTypeParam); ok {
				r.walkTypeExpr(p.TypeExpression)
			}
		}
		if t.RestParam != ast.NoID {
			if p, ok := r.tree.Node(t.RestParam).(*ast.FunctionTypeParam); ok {
				r.walkTypeExpr(p.TypeExpression)
			}
		}
		r.walkTypeExpr(t.ReturnType)
	case *ast.ObjectTypeAnnotation:
		for _, pID := range t.Properties {
			if p, ok := r.tree.Node(pID).(*ast.ObjectTypeProperty); ok {
				r.walkTypeExpr(p.TypeExpression)
			}
		}
		for _, iID := range t.Indexers {
			if ix, ok := r.tree.Node(iID).(*ast.ObjectTypeIndexer); ok {
				r.walkTypeExpr(ix.KeyType)
				r.walkTypeExpr(ix.TypeExpression)
			}
		}
	case *ast.QualifiedTypeIdentifier:
		r.walkTypeExpr(t.Qualification)
	}
}

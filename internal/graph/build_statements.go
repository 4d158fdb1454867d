package graph

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/diagnostics"
)

// hoistBlock scans body (recursing into nested blocks and control
// constructs, but never into a nested function body) for `var` declarators
// and function declarations and gives each a value in the entry block
// before any statement runs, matching `var`'s function-scoped hoisting.
// Function declarations are bound to their own Function node immediately,
// since a call may textually precede the declaration.
func (b *Builder) hoistBlock(body []ast.ID) {
	for _, stmtID := range body {
		b.hoistStmt(stmtID)
	}
}

func (b *Builder) hoistStmt(id ast.ID) {
	if id == ast.NoID {
		return
	}
	switch n := b.tree.Node(id).(type) {
	case *ast.VariableDeclaration:
		if n.DeclKind == ast.DeclVar {
			for _, declID := range n.Declarators {
				decl := b.tree.Node(declID).(*ast.VariableDeclarator)
				for _, leaf := range patternLeafIdents(b.tree, decl.ID_) {
					b.writeVariable(leaf.NodeID(), b.undefinedNode())
				}
			}
		}
	case *ast.FunctionDeclaration:
		fn := b.g.newNode(TagFunction)
		fn.AST = id
		b.writeVariable(n.ID_, fn.id)
	case *ast.BlockStatement:
		b.hoistBlock(n.Body)
	case *ast.IfStatement:
		b.hoistStmt(n.Consequent)
		b.hoistStmt(n.Alternate)
	case *ast.WhileStatement:
		b.hoistStmt(n.Body)
	case *ast.DoWhileStatement:
		b.hoistStmt(n.Body)
	case *ast.ForStatement:
		b.hoistStmt(n.Init)
		b.hoistStmt(n.Body)
	case *ast.ForInStatement:
		b.hoistStmt(n.Left)
		b.hoistStmt(n.Body)
	case *ast.ForOfStatement:
		b.hoistStmt(n.Left)
		b.hoistStmt(n.Body)
	case *ast.TryStatement:
		b.hoistStmt(n.Block)
		if n.Handler != ast.NoID {
			handler := b.tree.Node(n.Handler).(*ast.CatchClause)
			b.hoistStmt(handler.Body)
		}
		b.hoistStmt(n.Finalizer)
	case *ast.SwitchStatement:
		for _, caseID := range n.Cases {
			c := b.tree.Node(caseID).(*ast.SwitchCase)
			for _, stmtID := range c.Consequent {
				b.hoistStmt(stmtID)
			}
		}
	case *ast.LabeledStatement:
		b.hoistStmt(n.Body)
	}
}

// lowerStmt lowers one statement into the current block. If the statement
// fills the current block (return/throw/break/continue or an exhaustive
// if/else), later statements in the same list are unreachable and skipped
// by the caller noticing Filled.
func (b *Builder) lowerStmt(id ast.ID) {
	if id == ast.NoID || b.cur.Filled {
		return
	}
	switch n := b.tree.Node(id).(type) {
	case *ast.ExpressionStatement:
		b.lowerExpr(n.Expression)
	case *ast.EmptyStatement:
	case *ast.BlockStatement:
		for _, stmtID := range n.Body {
			b.lowerStmt(stmtID)
		}
	case *ast.VariableDeclaration:
		for _, declID := range n.Declarators {
			b.lowerVarDeclarator(declID)
		}
	case *ast.FunctionDeclaration:
		// already bound during hoisting; nothing to do at statement position
	case *ast.ClassDeclaration:
		cls := b.g.newNode(TagFunction)
		cls.AST = id
		b.writeVariable(n.ID_, cls.id)
	case *ast.ReturnStatement:
		val := b.lowerExpr(n.Argument)
		b.emitReturn(val, id)
	case *ast.ThrowStatement:
		b.lowerThrow(id, n)
	case *ast.IfStatement:
		b.lowerIf(n)
	case *ast.WhileStatement:
		b.lowerWhile(n)
	case *ast.DoWhileStatement:
		b.lowerDoWhile(n)
	case *ast.ForStatement:
		b.lowerFor(n)
	case *ast.ForInStatement:
		b.lowerForIn(n)
	case *ast.ForOfStatement:
		b.lowerForOf(n)
	case *ast.SwitchStatement:
		b.lowerSwitch(n)
	case *ast.TryStatement:
		b.lowerTry(n)
	case *ast.BreakStatement:
		b.lowerBreak(n)
	case *ast.ContinueStatement:
		b.lowerContinue(n)
	case *ast.LabeledStatement:
		b.lowerLabeled(n)
	case *ast.TypeAlias, *ast.InterfaceDeclaration:
		// type-only declarations have no runtime effect
	case *ast.ImportDeclaration, *ast.ExportNamedDeclaration,
		*ast.ExportDefaultDeclaration, *ast.ExportAllDeclaration:
		b.lowerModuleStmt(id, n)
	}
}

func (b *Builder) lowerModuleStmt(id ast.ID, n ast.Node) {
	switch d := n.(type) {
	case *ast.ExportNamedDeclaration:
		if d.Declaration != ast.NoID {
			b.lowerStmt(d.Declaration)
		}
	case *ast.ExportDefaultDeclaration:
		switch b.tree.Node(d.Declaration).(type) {
		case *ast.FunctionDeclaration, *ast.ClassDeclaration:
			b.lowerStmt(d.Declaration)
		default:
			b.lowerExpr(d.Declaration)
		}
	}
}

func (b *Builder) lowerVarDeclarator(declID ast.ID) {
	decl := b.tree.Node(declID).(*ast.VariableDeclarator)
	if decl.Init == ast.NoID {
		if ident, ok := b.tree.Node(decl.ID_).(*ast.Identifier); ok {
			if _, exists := b.cur.values[ident.NodeID()]; !exists {
				b.writeVariable(ident.NodeID(), b.undefinedNode())
			}
		}
		return
	}
	val := b.lowerExpr(decl.Init)
	b.bindDeclarationTarget(decl.ID_, val)
}

// bindDeclarationTarget writes val to every leaf binding of a declaration
// pattern (Identifier, ObjectPattern, or ArrayPattern).
func (b *Builder) bindDeclarationTarget(patID ast.ID, val NodeID) {
	switch n := b.tree.Node(patID).(type) {
	case *ast.Identifier:
		b.writeVariable(n.NodeID(), val)
	case *ast.ArrayPattern:
		for i, elID := range n.Elements {
			if elID == ast.NoID {
				continue
			}
			b.bindPatternElement(elID, val, i)
		}
	case *ast.ObjectPattern:
		b.bindObjectPattern(n, val)
	}
}

func (b *Builder) bindPatternElement(elID ast.ID, arrVal NodeID, index int) {
	switch e := b.tree.Node(elID).(type) {
	case *ast.RestElement:
		b.bindDeclarationTarget(e.Argument, arrVal)
	case *ast.AssignmentPattern:
		b.bindDeclarationTarget(e.Left, b.extractIndexed(arrVal, index))
	default:
		b.bindDeclarationTarget(elID, b.extractIndexed(arrVal, index))
	}
}

func (b *Builder) bindObjectPattern(pat *ast.ObjectPattern, objVal NodeID) {
	for _, propID := range pat.Properties {
		switch p := b.tree.Node(propID).(type) {
		case *ast.ObjectProperty:
			var extracted NodeID
			if p.Computed {
				b.lowerExpr(p.Key) // evaluated for its side effects / free-use resolution
				ld := b.g.newNode(TagLoadProperty)
				addInput(b.g, ld.id, objVal)
				extracted = ld.id
			} else {
				ld := b.g.newNode(TagLoadNamedProperty)
				if key, ok := b.tree.Node(p.Key).(*ast.Identifier); ok {
					ld.Name = key.Name
				}
				addInput(b.g, ld.id, objVal)
				extracted = ld.id
			}
			if ap, ok := b.tree.Node(p.Value).(*ast.AssignmentPattern); ok {
				b.lowerExpr(ap.Right) // default expression, evaluated unconditionally for simplicity
				b.bindDeclarationTarget(ap.Left, extracted)
			} else {
				b.bindDeclarationTarget(p.Value, extracted)
			}
		case *ast.RestElement:
			b.bindDeclarationTarget(p.Argument, objVal)
		}
	}
}

func (b *Builder) emitReturn(val NodeID, astID ast.ID) {
	ret := b.g.newNode(TagReturn)
	ret.AST = astID
	addInput(b.g, ret.id, val)
	b.emit(ret)
	b.cur.Filled = true
}

func (b *Builder) lowerThrow(id ast.ID, n *ast.ThrowStatement) {
	val := b.lowerExpr(n.Argument)
	thr := b.g.newNode(TagThrow)
	thr.AST = id
	addInput(b.g, thr.id, val)
	if len(b.catchStack) > 0 {
		connect(b.g, thr.id, b.catchStack[len(b.catchStack)-1])
	}
	b.emit(thr)
	b.cur.Filled = true
}

// lowerIf lowers `if`/`else` as If/IfTrue/IfFalse/Merge nodes,
// φ-joining any variable written differently on the two arms.
func (b *Builder) lowerIf(n *ast.IfStatement) {
	testVal := b.lowerExpr(n.Test)
	ifNode := b.g.newNode(TagIf)
	addInput(b.g, ifNode.id, testVal)
	b.emit(ifNode)
	entry := b.cur

	thenBlock := b.newOpenBlock()
	ifTrue := b.g.newNode(TagIfTrue)
	connect(b.g, ifNode.id, ifTrue.id)
	b.addPred(thenBlock, entry.id)
	thenBlock.Newest, thenBlock.Next = ifTrue.id, ifTrue.id
	thenBlock.Sealed = true

	b.switchTo(thenBlock)
	b.lowerStmt(n.Consequent)
	thenExit := b.cur

	var elseExit *BasicBlock
	if n.Alternate != ast.NoID {
		elseBlock := b.newOpenBlock()
		ifFalse := b.g.newNode(TagIfFalse)
		connect(b.g, ifNode.id, ifFalse.id)
		b.addPred(elseBlock, entry.id)
		elseBlock.Newest, elseBlock.Next = ifFalse.id, ifFalse.id
		elseBlock.Sealed = true

		b.switchTo(elseBlock)
		b.lowerStmt(n.Alternate)
		elseExit = b.cur
	}

	mergeBlock := b.newOpenBlock()
	merge := b.g.newNode(TagMerge)
	if !thenExit.Filled {
		connect(b.g, thenExit.Newest, merge.id)
		b.addPred(mergeBlock, thenExit.id)
	}
	if elseExit != nil {
		if !elseExit.Filled {
			connect(b.g, elseExit.Newest, merge.id)
			b.addPred(mergeBlock, elseExit.id)
		}
	} else {
		ifFalse := b.g.newNode(TagIfFalse)
		connect(b.g, ifNode.id, ifFalse.id)
		connect(b.g, ifFalse.id, merge.id)
		b.addPred(mergeBlock, entry.id)
	}

	if len(mergeBlock.Preds) == 0 {
		// both branches returned/threw: nothing falls through
		b.cur = mergeBlock
		mergeBlock.Sealed = true
		mergeBlock.Filled = true
		return
	}

	mergeBlock.Newest, mergeBlock.Next = merge.id, merge.id
	mergeBlock.Sealed = true
	b.switchTo(mergeBlock)
}

func (b *Builder) lowerLoopBody(header *BasicBlock, body ast.ID, frame *loopFrame) {
	b.loops = append(b.loops, frame)
	b.lowerStmt(body)
	b.loops = b.loops[:len(b.loops)-1]
}

// lowerWhile lowers `while (test) body` as a Loop header block that reads
// test, an IfTrue body edge back to the header, and an IfFalse exit edge.
func (b *Builder) lowerWhile(n *ast.WhileStatement) {
	preheader := b.cur
	header := b.newOpenBlock()
	connect(b.g, preheader.Newest, header.id)
	b.addPred(header, preheader.id)
	b.switchTo(header)

	loopNode := b.g.newNode(TagLoop)
	b.emit(loopNode)

	testVal := b.lowerExpr(n.Test)
	ifNode := b.g.newNode(TagIf)
	addInput(b.g, ifNode.id, testVal)
	b.emit(ifNode)

	bodyBlock := b.newOpenBlock()
	ifTrue := b.g.newNode(TagIfTrue)
	connect(b.g, ifNode.id, ifTrue.id)
	b.addPred(bodyBlock, header.id)
	bodyBlock.Newest, bodyBlock.Next = ifTrue.id, ifTrue.id
	bodyBlock.Sealed = true

	exitBlock := b.newOpenBlock()
	ifFalse := b.g.newNode(TagIfFalse)
	connect(b.g, ifNode.id, ifFalse.id)
	b.addPred(exitBlock, header.id)
	exitBlock.Newest, exitBlock.Next = ifFalse.id, ifFalse.id

	frame := &loopFrame{}
	b.switchTo(bodyBlock)
	b.lowerLoopBody(header, n.Body, frame)
	if !b.cur.Filled {
		connect(b.g, b.cur.Newest, header.id)
		b.addPred(header, b.cur.id)
	}
	for _, brk := range frame.breaks {
		b.addPred(exitBlock, brk)
	}
	for _, cont := range frame.continues {
		b.addPred(header, cont)
	}

	b.seal(header)
	exitBlock.Sealed = true
	b.switchTo(exitBlock)
}

// lowerDoWhile lowers `do body while (test)`: the body runs once
// unconditionally before the header's test is ever read.
func (b *Builder) lowerDoWhile(n *ast.DoWhileStatement) {
	preheader := b.cur
	header := b.newOpenBlock()
	connect(b.g, preheader.Newest, header.id)
	b.addPred(header, preheader.id)

	loopNode := b.g.newNode(TagLoop)

	frame := &loopFrame{}
	b.switchTo(header)
	b.emit(loopNode)
	b.lowerLoopBody(header, n.Body, frame)
	bodyExit := b.cur

	exitBlock := b.newOpenBlock()
	if !bodyExit.Filled {
		testVal := b.lowerExpr(n.Test)
		ifNode := b.g.newNode(TagIf)
		addInput(b.g, ifNode.id, testVal)
		b.emit(ifNode)

		ifTrue := b.g.newNode(TagIfTrue)
		connect(b.g, ifNode.id, ifTrue.id)
		connect(b.g, ifTrue.id, header.id)
		b.addPred(header, b.cur.id)

		ifFalse := b.g.newNode(TagIfFalse)
		connect(b.g, ifNode.id, ifFalse.id)
		connect(b.g, ifFalse.id, exitBlock.id)
		b.addPred(exitBlock, b.cur.id)
	}
	for _, brk := range frame.breaks {
		b.addPred(exitBlock, brk)
	}
	for _, cont := range frame.continues {
		b.addPred(header, cont)
	}

	b.seal(header)
	exitBlock.Sealed = true
	exitBlock.Newest, exitBlock.Next = NoNode, NoNode
	b.switchTo(exitBlock)
}

// lowerFor lowers the C-style for loop by desugaring to while: Init runs
// once, Test/Body/Update form the header/body/continue structure.
func (b *Builder) lowerFor(n *ast.ForStatement) {
	if n.Init != ast.NoID {
		if decl, ok := b.tree.Node(n.Init).(*ast.VariableDeclaration); ok {
			for _, declID := range decl.Declarators {
				b.lowerVarDeclarator(declID)
			}
		} else {
			b.lowerExpr(n.Init)
		}
	}

	preheader := b.cur
	header := b.newOpenBlock()
	connect(b.g, preheader.Newest, header.id)
	b.addPred(header, preheader.id)
	b.switchTo(header)
	b.emit(b.g.newNode(TagLoop))

	var ifNode *GraphNode
	if n.Test != ast.NoID {
		testVal := b.lowerExpr(n.Test)
		ifNode = b.g.newNode(TagIf)
		addInput(b.g, ifNode.id, testVal)
		b.emit(ifNode)
	}

	bodyBlock := b.newOpenBlock()
	exitBlock := b.newOpenBlock()
	if ifNode != nil {
		ifTrue := b.g.newNode(TagIfTrue)
		connect(b.g, ifNode.id, ifTrue.id)
		b.addPred(bodyBlock, header.id)
		bodyBlock.Newest, bodyBlock.Next = ifTrue.id, ifTrue.id

		ifFalse := b.g.newNode(TagIfFalse)
		connect(b.g, ifNode.id, ifFalse.id)
		b.addPred(exitBlock, header.id)
		exitBlock.Newest, exitBlock.Next = ifFalse.id, ifFalse.id
	} else {
		connect(b.g, header.Newest, bodyBlock.id)
		b.addPred(bodyBlock, header.id)
	}
	bodyBlock.Sealed = true

	frame := &loopFrame{}
	b.switchTo(bodyBlock)
	b.lowerLoopBody(header, n.Body, frame)

	if !b.cur.Filled {
		if n.Update != ast.NoID {
			b.lowerExpr(n.Update)
		}
		connect(b.g, b.cur.Newest, header.id)
		b.addPred(header, b.cur.id)
		for _, cont := range frame.continues {
			b.addPred(header, cont)
		}
	} else {
		for _, cont := range frame.continues {
			b.addPred(header, cont)
		}
	}
	for _, brk := range frame.breaks {
		b.addPred(exitBlock, brk)
	}

	b.seal(header)
	exitBlock.Sealed = true
	b.switchTo(exitBlock)
}

// lowerForIn/lowerForOf both iterate Right and bind Left each iteration;
// modeled as a Loop header whose body is unconditionally entered once
// iteration has values (the exit edge is opaque to the iterator itself,
// consistent with the graph not modeling iterator protocol calls).
func (b *Builder) lowerForIn(n *ast.ForInStatement) {
	b.lowerForEachShape(n.Left, n.Right, n.Body, TagLoop)
}

func (b *Builder) lowerForOf(n *ast.ForOfStatement) {
	b.lowerForEachShape(n.Left, n.Right, n.Body, TagForOfLoop)
}

func (b *Builder) lowerForEachShape(left, right, body ast.ID, tag Tag) {
	rightVal := b.lowerExpr(right)

	preheader := b.cur
	header := b.newOpenBlock()
	connect(b.g, preheader.Newest, header.id)
	b.addPred(header, preheader.id)
	b.switchTo(header)

	loopNode := b.g.newNode(tag)
	addInput(b.g, loopNode.id, rightVal)
	b.emit(loopNode)

	bodyBlock := b.newOpenBlock()
	connect(b.g, loopNode.id, bodyBlock.id)
	b.addPred(bodyBlock, header.id)
	bodyBlock.Newest, bodyBlock.Next = loopNode.id, loopNode.id
	bodyBlock.Sealed = true

	exitBlock := b.newOpenBlock()
	b.addPred(exitBlock, header.id)

	b.switchTo(bodyBlock)
	elemVal := b.g.newNode(TagLiteral)
	addInput(b.g, elemVal.id, loopNode.id)
	if decl, ok := b.tree.Node(left).(*ast.VariableDeclaration); ok {
		declarator := b.tree.Node(decl.Declarators[0]).(*ast.VariableDeclarator)
		b.bindDeclarationTarget(declarator.ID_, elemVal.id)
	} else {
		b.storeToTarget(left, elemVal.id)
	}

	frame := &loopFrame{}
	b.lowerLoopBody(header, body, frame)
	if !b.cur.Filled {
		connect(b.g, b.cur.Newest, header.id)
		b.addPred(header, b.cur.id)
	}
	for _, brk := range frame.breaks {
		b.addPred(exitBlock, brk)
	}
	for _, cont := range frame.continues {
		b.addPred(header, cont)
	}

	b.seal(header)
	exitBlock.Sealed = true
	b.switchTo(exitBlock)
}

// lowerSwitch lowers each case as its own block headed by a Case node whose
// input is the case test (none for `default`), falling through to the next case's block when its body
// doesn't end in break, matching the source's fallthrough semantics.
func (b *Builder) lowerSwitch(n *ast.SwitchStatement) {
	discVal := b.lowerExpr(n.Discriminant)
	sw := b.g.newNode(TagSwitch)
	addInput(b.g, sw.id, discVal)
	b.emit(sw)
	entry := b.cur

	exitBlock := b.newOpenBlock()
	frame := &loopFrame{}
	b.loops = append(b.loops, frame)

	var prevFallthrough *BasicBlock
	pred := entry
	for _, caseID := range n.Cases {
		c := b.tree.Node(caseID).(*ast.SwitchCase)
		caseBlock := b.newOpenBlock()
		caseNode := b.g.newNode(TagCase)
		if c.Test != ast.NoID {
			addInput(b.g, caseNode.id, b.lowerExpr(c.Test))
		}
		connect(b.g, pred.Newest, caseNode.id)
		b.addPred(caseBlock, pred.id)
		if prevFallthrough != nil {
			b.addPred(caseBlock, prevFallthrough.id)
		}
		caseBlock.Newest, caseBlock.Next = caseNode.id, caseNode.id
		caseBlock.Sealed = true

		b.switchTo(caseBlock)
		for _, stmtID := range c.Consequent {
			b.lowerStmt(stmtID)
		}
		if !b.cur.Filled {
			prevFallthrough = b.cur
		} else {
			prevFallthrough = nil
		}
		pred = caseBlock
	}
	if prevFallthrough != nil {
		connect(b.g, prevFallthrough.Newest, exitBlock.id)
		b.addPred(exitBlock, prevFallthrough.id)
	}
	b.addPred(exitBlock, entry.id) // no case matched

	b.loops = b.loops[:len(b.loops)-1]
	for _, brk := range frame.breaks {
		b.addPred(exitBlock, brk)
	}
	if len(frame.continues) > 0 {
		// a continue inside a switch targets the enclosing loop
		if len(b.loops) > 0 {
			outer := b.loops[len(b.loops)-1]
			outer.continues = append(outer.continues, frame.continues...)
		} else {
			b.sink.Error(diagnostics.CodeContinueOutsideLoop, b.posOf(n.NodeID()), "continue used outside of a loop")
		}
	}

	if len(exitBlock.Preds) == 0 {
		b.cur = exitBlock
		exitBlock.Sealed = true
		exitBlock.Filled = true
		return
	}
	exitBlock.Sealed = true
	b.switchTo(exitBlock)
}

// lowerTry lowers try/catch via Try/PrepareException/CatchException nodes.
// A Finalizer (`finally`) is reported as a G001 error and its statements
// are not lowered; construction continues.
func (b *Builder) lowerTry(n *ast.TryStatement) {
	if n.Finalizer != ast.NoID {
		b.sink.Error(diagnostics.CodeFinallyUnsupported, b.posOf(n.NodeID()), "finally blocks are not supported by graph construction")
	}

	tryNode := b.g.newNode(TagTry)
	b.emit(tryNode)

	var catchException NodeID
	if n.Handler != ast.NoID {
		prep := b.g.newNode(TagPrepareException)
		connect(b.g, tryNode.id, prep.id)
		catchException = prep.id
	}

	bodyBlock := b.newOpenBlock()
	connect(b.g, tryNode.id, bodyBlock.id)
	b.addPred(bodyBlock, b.cur.id)
	bodyBlock.Newest, bodyBlock.Next = tryNode.id, tryNode.id
	bodyBlock.Sealed = true

	if catchException != NoNode {
		b.catchStack = append(b.catchStack, catchException)
	}
	b.switchTo(bodyBlock)
	block := b.tree.Node(n.Block).(*ast.BlockStatement)
	for _, stmtID := range block.Body {
		b.lowerStmt(stmtID)
	}
	if catchException != NoNode {
		b.catchStack = b.catchStack[:len(b.catchStack)-1]
	}
	tryExit := b.cur

	exitBlock := b.newOpenBlock()
	if !tryExit.Filled {
		connect(b.g, tryExit.Newest, exitBlock.id)
		b.addPred(exitBlock, tryExit.id)
	}

	if n.Handler != ast.NoID {
		handler := b.tree.Node(n.Handler).(*ast.CatchClause)
		catchBlock := b.newOpenBlock()
		catchExcNode := b.g.newNode(TagCatchException)
		connect(b.g, catchException, catchExcNode.id)
		b.addPred(catchBlock, bodyBlock.id)
		catchBlock.Newest, catchBlock.Next = catchExcNode.id, catchExcNode.id
		catchBlock.Sealed = true

		b.switchTo(catchBlock)
		if handler.Param != ast.NoID {
			b.bindDeclarationTarget(handler.Param, catchExcNode.id)
		}
		handlerBlock := b.tree.Node(handler.Body).(*ast.BlockStatement)
		for _, stmtID := range handlerBlock.Body {
			b.lowerStmt(stmtID)
		}
		if !b.cur.Filled {
			connect(b.g, b.cur.Newest, exitBlock.id)
			b.addPred(exitBlock, b.cur.id)
		}
	}

	if len(exitBlock.Preds) == 0 {
		b.cur = exitBlock
		exitBlock.Sealed = true
		exitBlock.Filled = true
		return
	}
	exitBlock.Sealed = true
	b.switchTo(exitBlock)
}

func (b *Builder) lowerBreak(n *ast.BreakStatement) {
	brk := b.g.newNode(TagBreak)
	b.emit(brk)
	b.cur.Filled = true
	if len(b.loops) == 0 {
		b.sink.Error(diagnostics.CodeBreakOutsideLoop, b.posOf(n.NodeID()), "break used outside of a loop or switch")
		return
	}
	b.loops[len(b.loops)-1].breaks = append(b.loops[len(b.loops)-1].breaks, b.cur.id)
}

func (b *Builder) lowerContinue(n *ast.ContinueStatement) {
	cont := b.g.newNode(TagContinue)
	b.emit(cont)
	b.cur.Filled = true
	if len(b.loops) == 0 {
		b.sink.Error(diagnostics.CodeContinueOutsideLoop, b.posOf(n.NodeID()), "continue used outside of a loop")
		return
	}
	b.loops[len(b.loops)-1].continues = append(b.loops[len(b.loops)-1].continues, b.cur.id)
}

func (b *Builder) lowerLabeled(n *ast.LabeledStatement) {
	b.lowerStmt(n.Body)
}

package graph

import (
	"github.com/nsyo/jsre/internal/ast"
)

// lowerExpr lowers a value-position AST node to the graph node computing it.
func (b *Builder) lowerExpr(id ast.ID) NodeID {
	if id == ast.NoID {
		return b.undefinedNode()
	}
	switch n := b.tree.Node(id).(type) {
	case *ast.Identifier:
		return b.lowerIdentifierUse(n)
	case *ast.NumericLiteral:
		lit := b.g.newNode(TagLiteral)
		lit.AST = id
		return lit.id
	case *ast.StringLiteral:
		lit := b.g.newNode(TagLiteral)
		lit.AST = id
		return lit.id
	case *ast.BooleanLiteral:
		lit := b.g.newNode(TagLiteral)
		lit.AST = id
		return lit.id
	case *ast.NullLiteral:
		lit := b.g.newNode(TagLiteral)
		lit.AST = id
		return lit.id
	case *ast.ThisExpression:
		this := b.g.newNode(TagThis)
		this.AST = id
		return this.id
	case *ast.Super:
		sup := b.g.newNode(TagSuper)
		sup.AST = id
		return sup.id
	case *ast.TemplateLiteral:
		tmpl := b.g.newNode(TagTemplateLiteral)
		tmpl.AST = id
		for _, exprID := range n.Expressions {
			addInput(b.g, tmpl.id, b.lowerExpr(exprID))
		}
		return tmpl.id
	case *ast.ArrayExpression:
		arr := b.g.newNode(TagArrayLiteral)
		arr.AST = id
		for _, elID := range n.Elements {
			if elID == ast.NoID {
				continue
			}
			addInput(b.g, arr.id, b.lowerExpr(elID))
		}
		return arr.id
	case *ast.ObjectExpression:
		return b.lowerObjectExpression(id, n)
	case *ast.SpreadElement:
		spread := b.g.newNode(TagSpread)
		spread.AST = id
		addInput(b.g, spread.id, b.lowerExpr(n.Argument))
		return spread.id
	case *ast.FunctionExpression:
		return b.lowerNestedFunction(id)
	case *ast.ArrowFunctionExpression:
		return b.lowerNestedFunction(id)
	case *ast.ClassExpression:
		fn := b.g.newNode(TagFunction)
		fn.AST = id
		return fn.id
	case *ast.CallExpression:
		call := b.g.newNode(TagCall)
		call.AST = id
		addInput(b.g, call.id, b.lowerExpr(n.Callee))
		for _, argID := range n.Arguments {
			addInput(b.g, call.id, b.lowerExpr(argID))
		}
		return call.id
	case *ast.NewExpression:
		call := b.g.newNode(TagNewCall)
		call.AST = id
		addInput(b.g, call.id, b.lowerExpr(n.Callee))
		for _, argID := range n.Arguments {
			addInput(b.g, call.id, b.lowerExpr(argID))
		}
		return call.id
	case *ast.MemberExpression:
		return b.lowerMemberLoad(id, n)
	case *ast.BinaryExpression:
		bin := b.g.newNode(TagBinaryOperator)
		bin.AST = id
		bin.Operator = n.Operator
		addInput(b.g, bin.id, b.lowerExpr(n.Left))
		addInput(b.g, bin.id, b.lowerExpr(n.Right))
		return bin.id
	case *ast.LogicalExpression:
		bin := b.g.newNode(TagBinaryOperator)
		bin.AST = id
		bin.Operator = n.Operator
		addInput(b.g, bin.id, b.lowerExpr(n.Left))
		addInput(b.g, bin.id, b.lowerExpr(n.Right))
		return bin.id
	case *ast.UnaryExpression:
		un := b.g.newNode(TagUnaryOperator)
		un.AST = id
		un.Operator = n.Operator
		addInput(b.g, un.id, b.lowerExpr(n.Argument))
		return un.id
	case *ast.UpdateExpression:
		return b.lowerUpdate(id, n)
	case *ast.AssignmentExpression:
		return b.lowerAssignment(id, n)
	case *ast.ConditionalExpression:
		return b.lowerConditionalExpr(n)
	case *ast.SequenceExpression:
		var last NodeID = b.undefinedNode()
		for _, exprID := range n.Expressions {
			last = b.lowerExpr(exprID)
		}
		return last
	case *ast.AwaitExpression:
		await := b.g.newNode(TagAwait)
		await.AST = id
		addInput(b.g, await.id, b.lowerExpr(n.Argument))
		return await.id
	case *ast.YieldExpression:
		// Generators are parsed but not lowered to their own control shape;
		// a yield behaves like an Await for data-flow purposes.
		await := b.g.newNode(TagAwait)
		await.AST = id
		if n.Argument != ast.NoID {
			addInput(b.g, await.id, b.lowerExpr(n.Argument))
		}
		return await.id
	case *ast.TypeCastExpression:
		cast := b.g.newNode(TagTypeCast)
		cast.AST = id
		addInput(b.g, cast.id, b.lowerExpr(n.Expression))
		return cast.id
	default:
		u := b.g.newNode(TagUndefined)
		u.AST = id
		return u.id
	}
}

func (b *Builder) lowerIdentifierUse(n *ast.Identifier) NodeID {
	id := n.NodeID()
	if declID, ok := b.mod.ResolvedLocal[id]; ok {
		return b.readVariable(declID)
	}
	ld := b.g.newNode(TagLoadValue)
	ld.AST = id
	ld.Decl = id
	ld.Name = n.Name
	return ld.id
}

func (b *Builder) lowerObjectExpression(id ast.ID, n *ast.ObjectExpression) NodeID {
	obj := b.g.newNode(TagObjectLiteral)
	obj.AST = id
	for _, propID := range n.Properties {
		switch p := b.tree.Node(propID).(type) {
		case *ast.ObjectProperty:
			prop := b.g.newNode(TagObjectProperty)
			prop.AST = propID
			if !p.Computed {
				if key, ok := b.tree.Node(p.Key).(*ast.Identifier); ok {
					prop.Name = key.Name
				}
			} else {
				addInput(b.g, prop.id, b.lowerExpr(p.Key))
			}
			addInput(b.g, prop.id, b.lowerExpr(p.Value))
			addInput(b.g, obj.id, prop.id)
		case *ast.ObjectMethod:
			prop := b.g.newNode(TagObjectProperty)
			prop.AST = propID
			if !p.Computed {
				if key, ok := b.tree.Node(p.Key).(*ast.Identifier); ok {
					prop.Name = key.Name
				}
			}
			addInput(b.g, prop.id, b.lowerNestedFunction(propID))
			addInput(b.g, obj.id, prop.id)
		case *ast.SpreadElement:
			addInput(b.g, obj.id, b.lowerExpr(propID))
		}
	}
	return obj.id
}

// lowerNestedFunction lowers a function-shaped literal appearing in
// expression position to a Function graph node that carries its own graph
// via NodeTypes-style side storage isn't needed here: the nested function's
// own Graph is built lazily by internal/types on first use, keyed by AST id
// through the owning resolve.Module.Graphs cache.
func (b *Builder) lowerNestedFunction(fnID ast.ID) NodeID {
	fn := b.g.newNode(TagFunction)
	fn.AST = fnID
	return fn.id
}

func (b *Builder) lowerMemberLoad(id ast.ID, n *ast.MemberExpression) NodeID {
	objVal := b.lowerExpr(n.Object)
	if n.Computed {
		ld := b.g.newNode(TagLoadProperty)
		ld.AST = id
		addInput(b.g, ld.id, objVal)
		addInput(b.g, ld.id, b.lowerExpr(n.Property))
		return ld.id
	}
	ld := b.g.newNode(TagLoadNamedProperty)
	ld.AST = id
	if prop, ok := b.tree.Node(n.Property).(*ast.Identifier); ok {
		ld.Name = prop.Name
	}
	addInput(b.g, ld.id, objVal)
	return ld.id
}

func (b *Builder) lowerUpdate(id ast.ID, n *ast.UpdateExpression) NodeID {
	oldVal := b.lowerExpr(n.Argument)
	bin := b.g.newNode(TagBinaryOperator)
	bin.AST = id
	if n.Operator == "++" {
		bin.Operator = "+"
	} else {
		bin.Operator = "-"
	}
	one := b.g.newNode(TagLiteral)
	addInput(b.g, bin.id, oldVal)
	addInput(b.g, bin.id, one.id)
	b.storeToTarget(n.Argument, bin.id)
	if n.Prefix {
		return bin.id
	}
	return oldVal
}

func (b *Builder) lowerAssignment(id ast.ID, n *ast.AssignmentExpression) NodeID {
	if n.Operator == "=" {
		val := b.lowerExpr(n.Right)
		b.storeToTarget(n.Left, val)
		return val
	}
	// Compound assignment: `a op= b` reads a, combines with b, stores back.
	oldVal := b.lowerExpr(n.Left)
	rhsVal := b.lowerExpr(n.Right)
	bin := b.g.newNode(TagBinaryOperator)
	bin.AST = id
	bin.Operator = compoundOperatorBase(n.Operator)
	addInput(b.g, bin.id, oldVal)
	addInput(b.g, bin.id, rhsVal)
	b.storeToTarget(n.Left, bin.id)
	return bin.id
}

// compoundOperatorBase strips the trailing "=" from a compound assignment
// operator ("+=" -> "+", "&&=" -> "&&").
func compoundOperatorBase(op string) string {
	if len(op) > 1 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

// storeToTarget assigns val to an assignment-position target: an
// identifier, a member expression, or a destructuring pattern.
func (b *Builder) storeToTarget(targetID ast.ID, val NodeID) {
	switch t := b.tree.Node(targetID).(type) {
	case *ast.Identifier:
		if declID, ok := b.mod.ResolvedLocal[targetID]; ok {
			b.writeVariable(declID, val)
			return
		}
		st := b.g.newNode(TagStoreValue)
		st.AST = targetID
		st.Decl = targetID
		st.Name = t.Name
		addInput(b.g, st.id, val)
	case *ast.MemberExpression:
		objVal := b.lowerExpr(t.Object)
		if t.Computed {
			st := b.g.newNode(TagStoreProperty)
			st.AST = targetID
			addInput(b.g, st.id, objVal)
			addInput(b.g, st.id, b.lowerExpr(t.Property))
			addInput(b.g, st.id, val)
			return
		}
		st := b.g.newNode(TagStoreNamedProperty)
		st.AST = targetID
		if prop, ok := b.tree.Node(t.Property).(*ast.Identifier); ok {
			st.Name = prop.Name
		}
		addInput(b.g, st.id, objVal)
		addInput(b.g, st.id, val)
	case *ast.ArrayPattern:
		for i, elID := range t.Elements {
			if elID == ast.NoID {
				continue
			}
			b.storePatternElement(elID, val, i)
		}
	case *ast.ObjectPattern:
		b.storeObjectPattern(t, val)
	case *ast.AssignmentPattern:
		b.storeToTarget(t.Left, val)
	default:
		// Unsupported assignment target shape: evaluate for side effects.
		_ = val
	}
}

func (b *Builder) storePatternElement(elID ast.ID, arrVal NodeID, index int) {
	switch e := b.tree.Node(elID).(type) {
	case *ast.RestElement:
		b.storeToTarget(e.Argument, arrVal)
		return
	case *ast.AssignmentPattern:
		extracted := b.extractIndexed(arrVal, index)
		b.storeToTarget(e.Left, extracted)
		return
	}
	extracted := b.extractIndexed(arrVal, index)
	b.storeToTarget(elID, extracted)
}

func (b *Builder) extractIndexed(arrVal NodeID, index int) NodeID {
	lit := b.g.newNode(TagLiteral)
	ld := b.g.newNode(TagLoadProperty)
	addInput(b.g, ld.id, arrVal)
	addInput(b.g, ld.id, lit.id)
	return ld.id
}

func (b *Builder) storeObjectPattern(pat *ast.ObjectPattern, objVal NodeID) {
	for _, propID := range pat.Properties {
		switch p := b.tree.Node(propID).(type) {
		case *ast.ObjectProperty:
			var extracted NodeID
			if p.Computed {
				ld := b.g.newNode(TagLoadProperty)
				addInput(b.g, ld.id, objVal)
				addInput(b.g, ld.id, b.lowerExpr(p.Key))
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
				b.storeToTarget(ap.Left, extracted)
			} else {
				b.storeToTarget(p.Value, extracted)
			}
		case *ast.RestElement:
			b.storeToTarget(p.Argument, objVal)
		}
	}
}

func (b *Builder) lowerConditionalExpr(n *ast.ConditionalExpression) NodeID {
	testVal := b.lowerExpr(n.Test)
	ifNode := b.g.newNode(TagIf)
	addInput(b.g, ifNode.id, testVal)
	b.emit(ifNode)

	thenBlock := b.newOpenBlock()
	elseBlock := b.newOpenBlock()
	mergeBlock := b.newOpenBlock()

	ifTrue := b.g.newNode(TagIfTrue)
	connect(b.g, ifNode.id, ifTrue.id)
	b.addPred(thenBlock, b.cur.id)
	thenBlock.Newest, thenBlock.Next = ifTrue.id, ifTrue.id
	thenBlock.Sealed = true

	ifFalse := b.g.newNode(TagIfFalse)
	connect(b.g, ifNode.id, ifFalse.id)
	b.addPred(elseBlock, b.cur.id)
	elseBlock.Newest, elseBlock.Next = ifFalse.id, ifFalse.id
	elseBlock.Sealed = true

	b.switchTo(thenBlock)
	thenVal := b.lowerExpr(n.Consequent)
	thenExit := b.cur

	b.switchTo(elseBlock)
	elseVal := b.lowerExpr(n.Alternate)
	elseExit := b.cur

	merge := b.g.newNode(TagMerge)
	connect(b.g, thenExit.Newest, merge.id)
	connect(b.g, elseExit.Newest, merge.id)
	b.addPred(mergeBlock, thenExit.id)
	b.addPred(mergeBlock, elseExit.id)
	mergeBlock.Newest, mergeBlock.Next = merge.id, merge.id
	mergeBlock.Sealed = true

	phi := b.g.newNode(TagPhi)
	addInput(b.g, phi.id, thenVal)
	addInput(b.g, phi.id, elseVal)
	connect(b.g, thenVal, phi.id)
	connect(b.g, elseVal, phi.id)

	b.switchTo(mergeBlock)
	return phi.id
}

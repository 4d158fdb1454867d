package ast

// Children returns the immediate child ids of n, in source order, skipping
// NoID slots. This is the single place that knows the shape of every node
// kind; every generic traversal (the lexical resolver's scope walk, the
// unused-declaration cross-reference walk, AST queries) is built on top of
// it instead of re-deriving per-kind traversal logic.
func Children(n Node) []ID {
	var out []ID
	add := func(ids ...ID) {
		for _, id := range ids {
			if id != NoID {
				out = append(out, id)
			}
		}
	}
	addExpr := func(e Expression) {
		if e == nil {
			return
		}
		add(e.NodeID())
	}

	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *BlockStatement:
		add(n.Body...)
	case *ExpressionStatement:
		add(n.Expression)
	case *EmptyStatement:
	case *VariableDeclaration:
		add(n.Declarators...)
	case *VariableDeclarator:
		add(n.ID_, n.Init)
	case *FunctionDeclaration:
		add(n.ID_)
		add(n.Params...)
		add(n.Body)
		addExpr(n.ReturnType)
	case *FunctionExpression:
		add(n.ID_)
		add(n.Params...)
		add(n.Body)
		addExpr(n.ReturnType)
	case *ArrowFunctionExpression:
		add(n.Params...)
		add(n.Body)
		addExpr(n.ReturnType)
	case *ClassDeclaration:
		add(n.ID_, n.SuperClass)
		add(n.Body...)
	case *ClassExpression:
		add(n.ID_, n.SuperClass)
		add(n.Body...)
	case *ClassMethod:
		add(n.Key)
		add(n.Params...)
		add(n.Body)
	case *ClassPrivateMethod:
		add(n.Key)
		add(n.Params...)
		add(n.Body)
	case *ClassProperty:
		add(n.Key, n.Value)
		addExpr(n.TypeAnnotation)
	case *ClassPrivateProperty:
		add(n.Key, n.Value)
		addExpr(n.TypeAnnotation)
	case *ReturnStatement:
		add(n.Argument)
	case *IfStatement:
		add(n.Test, n.Consequent, n.Alternate)
	case *WhileStatement:
		add(n.Test, n.Body)
	case *DoWhileStatement:
		add(n.Test, n.Body)
	case *ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		add(n.Left, n.Right, n.Body)
	case *ForOfStatement:
		add(n.Left, n.Right, n.Body)
	case *SwitchStatement:
		add(n.Discriminant)
		add(n.Cases...)
	case *SwitchCase:
		add(n.Test)
		add(n.Consequent...)
	case *BreakStatement:
	case *ContinueStatement:
	case *ThrowStatement:
		add(n.Argument)
	case *TryStatement:
		add(n.Block, n.Handler, n.Finalizer)
	case *CatchClause:
		add(n.Param, n.Body)
	case *LabeledStatement:
		add(n.Body)
	case *TypeAlias:
		add(n.ID_)
		add(n.TypeParameters...)
		addExpr(n.Right)
	case *InterfaceDeclaration:
		add(n.ID_, n.Body)
	case *ImportDeclaration:
		add(n.Specifiers...)
	case *ImportSpecifier:
		add(n.Imported, n.Local)
	case *ImportDefaultSpecifier:
		add(n.Local)
	case *ImportNamespaceSpecifier:
		add(n.Local)
	case *ExportSpecifier:
		add(n.Local, n.Exported)
	case *ExportNamedDeclaration:
		add(n.Declaration)
		add(n.Specifiers...)
	case *ExportDefaultDeclaration:
		add(n.Declaration)
	case *ExportAllDeclaration:
	case *Identifier:
		addExpr(n.TypeAnnotation)
	case *PrivateName, *ThisExpression, *Super,
		*NumericLiteral, *StringLiteral, *BooleanLiteral, *NullLiteral, *RegExpLiteral:
	case *TemplateElement:
	case *TemplateLiteral:
		add(n.Quasis...)
		add(n.Expressions...)
	case *ArrayExpression:
		add(n.Elements...)
	case *ObjectProperty:
		add(n.Key, n.Value)
	case *ObjectMethod:
		add(n.Key)
		add(n.Params...)
		add(n.Body)
	case *ObjectExpression:
		add(n.Properties...)
	case *SpreadElement:
		add(n.Argument)
	case *CallExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *NewExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *MemberExpression:
		add(n.Object)
		if n.Computed {
			add(n.Property)
		}
		// For non-computed member access, Property (the property-key
		// identifier) is intentionally excluded from generic traversal:
		// it is an unscoped use
		// and resolved specially, not walked as a free identifier.
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *LogicalExpression:
		add(n.Left, n.Right)
	case *UnaryExpression:
		add(n.Argument)
	case *UpdateExpression:
		add(n.Argument)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *SequenceExpression:
		add(n.Expressions...)
	case *AwaitExpression:
		add(n.Argument)
	case *YieldExpression:
		add(n.Argument)
	case *TypeCastExpression:
		add(n.Expression)
		addExpr(n.TypeAnnotation)
	case *ObjectPattern:
		add(n.Properties...)
	case *ArrayPattern:
		add(n.Elements...)
	case *RestElement:
		add(n.Argument)
	case *AssignmentPattern:
		add(n.Left, n.Right)
	case *TypeAnnotation:
		addExpr(n.TypeExpression)
	case *GenericTypeAnnotation:
		add(n.ID_)
		for _, tp := range n.TypeParameters {
			addExpr(tp)
		}
	case *NullableTypeAnnotation:
		addExpr(n.TypeExpression)
	case *UnionTypeAnnotation:
		for _, t := range n.Types {
			addExpr(t)
		}
	case *FunctionTypeParam:
		addExpr(n.TypeExpression)
	case *FunctionTypeAnnotation:
		add(n.Params...)
		add(n.RestParam)
		addExpr(n.ReturnType)
	case *ObjectTypeProperty:
		addExpr(n.TypeExpression)
	case *ObjectTypeIndexer:
		addExpr(n.KeyType)
		addExpr(n.TypeExpression)
	case *ObjectTypeAnnotation:
		add(n.Properties...)
		add(n.Indexers...)
	case *QualifiedTypeIdentifier:
		addExpr(n.Qualification)
	case *TypeParameterDeclaration:
		addExpr(n.Bound)
		addExpr(n.Default)
	}
	return out
}

// Walk performs a depth-first traversal starting at root (inclusive),
// calling visit(id, node) for every reachable node. Returning false from
// visit skips that node's children but continues the walk.
func Walk(tree *Tree, root ID, visit func(ID, Node) bool) {
	n := tree.Node(root)
	if n == nil {
		return
	}
	if !visit(root, n) {
		return
	}
	for _, child := range Children(n) {
		Walk(tree, child, visit)
	}
}

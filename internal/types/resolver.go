package types

import (
	"github.com/nsyo/jsre/internal/ast"
	"github.com/nsyo/jsre/internal/astutil"
	"github.com/nsyo/jsre/internal/graph"
	"github.com/nsyo/jsre/internal/resolve"
)

// Resolver computes TypeInfo for graph nodes, memoizing per graph (through
// Graph.NodeTypes) and reaching into the owning Module's per-function graph
// cache to resolve calls into other functions.
type Resolver struct {
	mod *resolve.Module
}

func NewResolver(mod *resolve.Module) *Resolver {
	return &Resolver{mod: mod}
}

// funcGraph returns the already-built Graph for fnID, or nil if none has
// been built yet (check.Run builds graphs in pre-order, outer functions
// before the functions nested in them, so a lookup of an inner or later
// function from an earlier graph returns nil).
func (r *Resolver) funcGraph(fnID ast.ID) *graph.Graph {
	if g, ok := r.mod.Graphs[fnID]; ok {
		if gg, ok := g.(*graph.Graph); ok {
			return gg
		}
	}
	return nil
}

// ResolveNodeType resolves (and memoizes) the type of one graph node.
func (r *Resolver) ResolveNodeType(g *graph.Graph, id graph.NodeID) TypeInfo {
	if cached, ok := g.NodeTypes[id]; ok {
		return cached.(TypeInfo)
	}
	// Guard recursive resolution (e.g. a phi cycle) with a provisional
	// Unknown so a cyclic read doesn't recurse forever; it's overwritten
	// with the real result once computed.
	g.NodeTypes[id] = MakeUnknown()
	t := r.resolveNodeTypeUncached(g, id)
	g.NodeTypes[id] = t
	return t
}

func (r *Resolver) resolveNodeTypeUncached(g *graph.Graph, id graph.NodeID) TypeInfo {
	n := g.Node(id)
	if n == nil {
		return MakeUnknown()
	}
	switch n.Tag {
	case graph.TagLiteral:
		return r.literalType(n.AST)
	case graph.TagUndefined:
		return MakeUndefined()
	case graph.TagLoadValue:
		return r.loadValueType(g, n)
	case graph.TagCall:
		if len(n.Inputs) == 0 {
			return MakeUnknown()
		}
		calleeType := r.ResolveNodeType(g, n.Inputs[0])
		if calleeType.Base() == Function {
			return calleeType.Return()
		}
		return MakeUnknown()
	case graph.TagNewCall:
		if len(n.Inputs) == 0 {
			return MakeObject(nil, false)
		}
		calleeType := r.ResolveNodeType(g, n.Inputs[0])
		if calleeType.Base() == Class {
			return MakeObject(calleeType.Members(), false)
		}
		return MakeObject(nil, false)
	case graph.TagFunction:
		return r.resolveFunctionOrClassLiteral(n.AST)
	case graph.TagObjectLiteral:
		return r.objectLiteralType(g, n)
	case graph.TagSpread:
		if len(n.Inputs) == 0 {
			return MakeUnknown()
		}
		return r.ResolveNodeType(g, n.Inputs[0])
	case graph.TagLoadNamedProperty:
		return r.loadNamedPropertyType(g, n)
	case graph.TagStoreNamedProperty:
		if len(n.Inputs) < 2 {
			return MakeUnknown()
		}
		objType := r.ResolveNodeType(g, n.Inputs[0])
		valType := r.ResolveNodeType(g, n.Inputs[1])
		return objType.WithProperty(n.Name, valType)
	case graph.TagReturn:
		return r.returnNodeType(g, n)
	case graph.TagAwait:
		if len(n.Inputs) == 0 {
			return MakeUndefined()
		}
		inner := r.ResolveNodeType(g, n.Inputs[0])
		if inner.Base() == Promise {
			return inner.Inner()
		}
		return inner
	case graph.TagPrepareException:
		if len(n.Inputs) == 0 {
			return MakeUnknown()
		}
		return r.ResolveNodeType(g, n.Inputs[0])
	case graph.TagCatchException:
		return r.resolveCatchType(g, n)
	case graph.TagPhi:
		return r.phiType(g, n)
	case graph.TagArgument:
		return r.argumentType(g, n)
	case graph.TagBinaryOperator:
		return r.binaryOperatorType(n)
	case graph.TagThis, graph.TagSuper:
		return MakeObject(nil, false)
	default:
		return MakeUnknown()
	}
}

func (r *Resolver) literalType(id ast.ID) TypeInfo {
	if id == ast.NoID {
		return MakeUnknown()
	}
	switch n := r.mod.Tree.Node(id).(type) {
	case *ast.NumericLiteral:
		return MakeNumber()
	case *ast.StringLiteral:
		return MakeString(n.Value)
	case *ast.BooleanLiteral:
		return MakeBoolean()
	case *ast.NullLiteral:
		return MakeNull()
	default:
		return MakeUnknown()
	}
}

func (r *Resolver) loadValueType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	declID, ok := r.mod.ResolvedLocal[n.Decl]
	if !ok {
		return MakeUnknown()
	}
	switch parent := r.mod.Tree.ParentNode(declID).(type) {
	case *ast.FunctionDeclaration:
		if parent.ID_ == declID {
			return r.resolveFunctionOrClassLiteral(parent.NodeID())
		}
	case *ast.ClassDeclaration:
		if parent.ID_ == declID {
			return r.resolveFunctionOrClassLiteral(parent.NodeID())
		}
	}
	if astutil.IsFunctionParameterIdentifier(r.mod.Tree, declID) {
		enclosing := astutil.EnclosingFunction(r.mod.Tree, declID)
		if enclosing == g.Func {
			if ident, ok := r.mod.Tree.Node(declID).(*ast.Identifier); ok && ident.TypeAnnotation != nil {
				return r.resolveTypeAnnotation(ident.TypeAnnotation)
			}
		}
	}
	return MakeUnknown()
}

// resolveFunctionOrClassLiteral dispatches a Function-tagged graph node's
// AST back-reference to a lazy Function or Class type.
func (r *Resolver) resolveFunctionOrClassLiteral(fnID ast.ID) TypeInfo {
	switch r.mod.Tree.Node(fnID).(type) {
	case *ast.ClassDeclaration, *ast.ClassExpression:
		return r.resolveClassType(fnID)
	default:
		return r.resolveFunctionType(fnID)
	}
}

func (r *Resolver) resolveFunctionType(fnID ast.ID) TypeInfo {
	return MakeLazyFunction(uint64(fnID), func() ([]TypeInfo, TypeInfo, bool) {
		fn := r.mod.Tree.Node(fnID)
		paramIDs := astutil.FunctionParams(fn)
		params := make([]TypeInfo, 0, len(paramIDs))
		variadic := false
		for _, pID := range paramIDs {
			if rest, ok := r.mod.Tree.Node(pID).(*ast.RestElement); ok {
				variadic = true
				if ident, ok := r.mod.Tree.Node(rest.Argument).(*ast.Identifier); ok && ident.TypeAnnotation != nil {
					params = append(params, r.resolveTypeAnnotation(ident.TypeAnnotation))
					continue
				}
				params = append(params, MakeUnknown())
				continue
			}
			if ident, ok := r.mod.Tree.Node(pID).(*ast.Identifier); ok && ident.TypeAnnotation != nil {
				params = append(params, r.resolveTypeAnnotation(ident.TypeAnnotation))
			} else {
				params = append(params, MakeUnknown())
			}
		}
		ret := MakeUnknown()
		if retAnn := astutil.FunctionReturnType(fn); retAnn != nil {
			ret = r.resolveTypeAnnotation(retAnn)
		} else if g := r.funcGraph(fnID); g != nil {
			ret = r.ResolveReturnType(g)
		}
		return params, ret, variadic
	})
}

// resolveClassType walks the class body: methods/constructor become
// Function members, getters contribute their return type, setters their
// sole parameter's type, and plain properties their annotation or
// initializer literal type. Members resolve lazily, on first read.
func (r *Resolver) resolveClassType(declID ast.ID) TypeInfo {
	name := ""
	var body []ast.ID
	switch n := r.mod.Tree.Node(declID).(type) {
	case *ast.ClassDeclaration:
		body = n.Body
		if ident, ok := r.mod.Tree.Node(n.ID_).(*ast.Identifier); ok {
			name = ident.Name
		}
	case *ast.ClassExpression:
		body = n.Body
		if ident, ok := r.mod.Tree.Node(n.ID_).(*ast.Identifier); ok {
			name = ident.Name
		}
	}
	return MakeClass(name, uint64(declID), func() map[string]TypeInfo {
		members := make(map[string]TypeInfo)
		for _, memberID := range body {
			switch m := r.mod.Tree.Node(memberID).(type) {
			case *ast.ClassMethod:
				key, ok := r.tree().Node(m.Key).(*ast.Identifier)
				if !ok || m.Computed {
					continue
				}
				switch m.Kind_ {
				case "get":
					members[key.Name] = r.functionReturnOnly(memberID)
				case "set":
					if len(m.Params) > 0 {
						members[key.Name] = r.firstParamType(m.Params[0])
					}
				default:
					members[key.Name] = r.resolveFunctionType(memberID)
				}
			case *ast.ClassProperty:
				key, ok := r.tree().Node(m.Key).(*ast.Identifier)
				if !ok || m.Computed {
					continue
				}
				if m.TypeAnnotation != nil {
					members[key.Name] = r.resolveTypeAnnotation(m.TypeAnnotation)
				} else if m.Value != ast.NoID {
					members[key.Name] = r.literalType(m.Value)
				} else {
					members[key.Name] = MakeUnknown()
				}
			}
		}
		return members
	})
}

func (r *Resolver) tree() *ast.Tree { return r.mod.Tree }

func (r *Resolver) functionReturnOnly(fnID ast.ID) TypeInfo {
	fnType := r.resolveFunctionType(fnID)
	return fnType.Return()
}

func (r *Resolver) firstParamType(paramID ast.ID) TypeInfo {
	if ident, ok := r.mod.Tree.Node(paramID).(*ast.Identifier); ok && ident.TypeAnnotation != nil {
		return r.resolveTypeAnnotation(ident.TypeAnnotation)
	}
	return MakeUnknown()
}

func (r *Resolver) objectLiteralType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	props := make(map[string]TypeInfo)
	strict := true
	for _, propID := range n.Inputs {
		propNode := g.Node(propID)
		if propNode == nil {
			continue
		}
		if propNode.Tag != graph.TagObjectProperty {
			// a SpreadElement input: merge the spread object's properties
			spreadType := r.ResolveNodeType(g, propID)
			if spreadType.Base() == Object {
				for k, v := range spreadType.Members() {
					props[k] = v
				}
				strict = strict && spreadType.IsStrictObject()
			} else {
				strict = false
			}
			continue
		}
		if propNode.Name == "" && len(propNode.Inputs) == 2 {
			keyType := r.ResolveNodeType(g, propNode.Inputs[0])
			if lit, ok := keyType.Literal(); ok {
				props[lit] = r.ResolveNodeType(g, propNode.Inputs[1])
				continue
			}
			// unresolved computed key: forget everything assembled so far
			// and widen to an open object.
			for k := range props {
				props[k] = MakeUnknown()
			}
			strict = false
			continue
		}
		if len(propNode.Inputs) == 0 {
			continue
		}
		props[propNode.Name] = r.ResolveNodeType(g, propNode.Inputs[len(propNode.Inputs)-1])
	}
	return MakeObject(props, strict)
}

func (r *Resolver) loadNamedPropertyType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	if len(n.Inputs) == 0 {
		return MakeUnknown()
	}
	objType := r.ResolveNodeType(g, n.Inputs[0])
	if objType.Base() != Object {
		return MakeUnknown()
	}
	v, _ := objType.Property(n.Name)
	return v
}

func (r *Resolver) returnNodeType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	var val TypeInfo
	if len(n.Inputs) == 0 {
		val = MakeUndefined()
	} else {
		val = r.ResolveNodeType(g, n.Inputs[0])
	}
	fn := r.mod.Tree.Node(g.Func)
	if astutil.IsAsyncFunction(fn) && val.Base() != Promise {
		return MakePromise(val)
	}
	return val
}

// ResolveReturnType scans End's predecessors and unions each Return's type;
// a non-terminal fallthrough into End counts as an implicit return undefined.
func (r *Resolver) ResolveReturnType(g *graph.Graph) TypeInfo {
	endNode := g.Node(g.End)
	if endNode == nil {
		return MakeUnknown()
	}
	fn := r.mod.Tree.Node(g.Func)
	async := astutil.IsAsyncFunction(fn)
	var alts []TypeInfo
	for _, prevID := range endNode.Prevs {
		prev := g.Node(prevID)
		if prev == nil || prev.Tag == graph.TagThrow {
			continue
		}
		if prev.Tag == graph.TagReturn {
			alts = append(alts, r.ResolveNodeType(g, prevID))
			continue
		}
		// a non-terminal fallthrough into End: implicit `return undefined`
		fallthroughType := MakeUndefined()
		if async {
			fallthroughType = MakePromise(fallthroughType)
		}
		alts = append(alts, fallthroughType)
	}
	return MakeSum(alts)
}

// resolveCatchType implements resolveCatchType: union over every
// PrepareException predecessor's type.
func (r *Resolver) resolveCatchType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	var alts []TypeInfo
	for _, prevID := range n.Prevs {
		prev := g.Node(prevID)
		if prev == nil || prev.Tag != graph.TagPrepareException {
			continue
		}
		alts = append(alts, r.ResolveNodeType(g, prevID))
	}
	return MakeSum(alts)
}

func (r *Resolver) phiType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	var alts []TypeInfo
	for _, inID := range n.Inputs {
		alts = append(alts, r.ResolveNodeType(g, inID))
	}
	return MakeSum(alts)
}

func (r *Resolver) argumentType(g *graph.Graph, n *graph.GraphNode) TypeInfo {
	if n.AST == ast.NoID {
		return MakeUnknown()
	}
	if ident, ok := r.mod.Tree.Node(n.AST).(*ast.Identifier); ok && ident.TypeAnnotation != nil {
		return r.resolveTypeAnnotation(ident.TypeAnnotation)
	}
	return MakeUnknown()
}

func (r *Resolver) binaryOperatorType(n *graph.GraphNode) TypeInfo {
	switch n.Operator {
	case "+", "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return MakeNumber()
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "&&", "||", "??":
		return MakeBoolean()
	default:
		return MakeUnknown()
	}
}

// resolveTypeAnnotation interprets a parsed type expression as a TypeInfo.
func (r *Resolver) resolveTypeAnnotation(expr ast.Expression) TypeInfo {
	if expr == nil {
		return MakeUnknown()
	}
	switch n := expr.(type) {
	case *ast.TypeAnnotation:
		return r.resolveTypeAnnotation(n.TypeExpression)
	case *ast.GenericTypeAnnotation:
		ident, ok := r.mod.Tree.Node(n.ID_).(*ast.Identifier)
		if !ok {
			return MakeUnknown()
		}
		switch ident.Name {
		case "number":
			return MakeNumber()
		case "string":
			return MakeString()
		case "boolean":
			return MakeBoolean()
		case "undefined", "void":
			return MakeUndefined()
		case "null":
			return MakeNull()
		case "any", "unknown":
			return MakeUnknown()
		case "Promise":
			if len(n.TypeParameters) == 1 {
				return MakePromise(r.resolveTypeAnnotation(n.TypeParameters[0]))
			}
			return MakePromise(MakeUnknown())
		default:
			if declID, ok := r.mod.ResolvedLocal[n.ID_]; ok {
				if parent, ok := r.mod.Tree.ParentNode(declID).(*ast.ClassDeclaration); ok && parent.ID_ == declID {
					return r.resolveClassType(parent.NodeID())
				}
			}
			return MakeUnknown()
		}
	case *ast.UnionTypeAnnotation:
		items := make([]TypeInfo, 0, len(n.Types))
		for _, t := range n.Types {
			items = append(items, r.resolveTypeAnnotation(t))
		}
		return MakeSum(items)
	case *ast.NullableTypeAnnotation:
		return MakeSum([]TypeInfo{r.resolveTypeAnnotation(n.TypeExpression), MakeNull(), MakeUndefined()})
	case *ast.ObjectTypeAnnotation:
		props := make(map[string]TypeInfo, len(n.Properties))
		for _, propID := range n.Properties {
			p, ok := r.mod.Tree.Node(propID).(*ast.ObjectTypeProperty)
			if !ok || p.Key == nil {
				continue
			}
			props[p.Key.Name] = r.resolveTypeAnnotation(p.TypeExpression)
		}
		return MakeObject(props, n.Exact)
	case *ast.FunctionTypeAnnotation:
		params := make([]TypeInfo, 0, len(n.Params))
		for _, paramID := range n.Params {
			p, ok := r.mod.Tree.Node(paramID).(*ast.FunctionTypeParam)
			if !ok {
				continue
			}
			params = append(params, r.resolveTypeAnnotation(p.TypeExpression))
		}
		ret := MakeUnknown()
		if n.ReturnType != nil {
			ret = r.resolveTypeAnnotation(n.ReturnType)
		}
		return MakeFunction(params, ret, n.RestParam != ast.NoID)
	default:
		return MakeUnknown()
	}
}

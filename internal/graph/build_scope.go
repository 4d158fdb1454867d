package graph

import (
	"github.com/nsyo/jsre/internal/ast"
)

// newOpenBlock allocates a fresh unsealed block with no predecessors and
// registers it with the graph; callers add predecessors and switch to it
// themselves. Used at every point control forks and rejoins: loop headers,
// if-branches, merge points.
func (b *Builder) newOpenBlock() *BasicBlock {
	blk := newBlock(b.g.newBlockID())
	b.g.addBlock(blk)
	return blk
}

// switchTo makes blk the block lowering continues into.
func (b *Builder) switchTo(blk *BasicBlock) {
	b.cur = blk
}

// addPred records pred as one of blk's predecessors. Call before seal.
func (b *Builder) addPred(blk *BasicBlock, pred BlockID) {
	blk.Preds = append(blk.Preds, pred)
}

// emit appends n as the next control node in the current block, chaining it
// after whatever was last emitted there.
func (b *Builder) emit(n *GraphNode) NodeID {
	if b.cur.Newest != NoNode {
		connect(b.g, b.cur.Newest, n.id)
	}
	b.cur.Newest = n.id
	b.cur.Next = n.id
	return n.id
}

// writeVariable records that decl's current value in blk is val — the
// direct-SSA-construction "write" primitive (Braun et al.).
func (b *Builder) writeVariableIn(blk *BasicBlock, decl ast.ID, val NodeID) {
	blk.values[decl] = val
}

func (b *Builder) writeVariable(decl ast.ID, val NodeID) {
	b.writeVariableIn(b.cur, decl, val)
}

// readVariable resolves decl's current value in blk, recursing to
// predecessors (possibly inserting an incomplete φ) when blk has no local
// definition.
func (b *Builder) readVariableIn(blk *BasicBlock, decl ast.ID) NodeID {
	if val, ok := blk.values[decl]; ok {
		return val
	}
	return b.readNonlocalVariable(blk, decl)
}

func (b *Builder) readVariable(decl ast.ID) NodeID {
	return b.readVariableIn(b.cur, decl)
}

// readNonlocalVariable resolves a block with no local
// writer either defers to its single predecessor, or — when unsealed or
// joining more than one predecessor — gets a placeholder φ that is
// completed once the block seals (or immediately when the block is already
// sealed with more than one predecessor). A sealed block with no
// predecessor reads the shared Undefined node.
func (b *Builder) readNonlocalVariable(blk *BasicBlock, decl ast.ID) NodeID {
	var val NodeID
	if !blk.Sealed {
		phi := b.g.newNode(TagPhi)
		phi.AST = decl
		blk.incomplete = append(blk.incomplete, incompletePhi{Decl: decl, Phi: phi.id})
		val = phi.id
	} else if len(blk.Preds) == 1 {
		val = b.readVariableIn(b.g.Block(blk.Preds[0]), decl)
	} else if len(blk.Preds) == 0 {
		val = b.undefinedNode()
	} else {
		phi := b.g.newNode(TagPhi)
		phi.AST = decl
		b.writeVariableIn(blk, decl, phi.id) // break cycles before recursing into preds
		val = b.addPhiOperands(blk, decl, phi.id)
	}
	b.writeVariableIn(blk, decl, val)
	return val
}

// addPhiOperands fills phi with one operand per predecessor of blk, then
// tries to collapse it if it turns out trivial.
func (b *Builder) addPhiOperands(blk *BasicBlock, decl ast.ID, phi NodeID) NodeID {
	for _, predID := range blk.Preds {
		pred := b.g.Block(predID)
		operand := b.readVariableIn(pred, decl)
		addInput(b.g, phi, operand)
		connect(b.g, operand, phi)
	}
	return b.tryRemoveTrivialPhi(phi)
}

// tryRemoveTrivialPhi collapses a φ that (ignoring self-references) has
// exactly one distinct operand, replacing every use of phi with that
// operand — the standard minimal-SSA cleanup paired with Braun's
// construction algorithm.
func (b *Builder) tryRemoveTrivialPhi(phi NodeID) NodeID {
	node := b.g.Node(phi)
	var same NodeID
	for _, op := range node.Inputs {
		if op == same || op == phi {
			continue
		}
		if same != NoNode {
			return phi // more than one distinct operand: genuinely a phi
		}
		same = op
	}
	if same == NoNode {
		same = b.undefinedNode() // phi with no real operand: unreachable merge
	}
	b.replaceNode(phi, same)
	return same
}

// replaceNode rewrites every recorded reference to old as new across block
// value maps and other nodes' Inputs. Graph edges already drawn into/out of
// old are left in place (harmless once old is unreferenced from Inputs).
func (b *Builder) replaceNode(old, new NodeID) {
	for _, blk := range b.g.blocks {
		for decl, v := range blk.values {
			if v == old {
				blk.values[decl] = new
			}
		}
	}
	for _, n := range b.g.nodes {
		if n == nil {
			continue
		}
		for i, in := range n.Inputs {
			if in == old {
				n.Inputs[i] = new
			}
		}
	}
}

// undefinedNode returns the single shared Undefined literal node, creating
// it lazily the first time it's needed; it is not emitted into any block.
func (b *Builder) undefinedNode() NodeID {
	if b.cachedUndefined == NoNode {
		b.cachedUndefined = b.g.newNode(TagUndefined).id
	}
	return b.cachedUndefined
}

// seal marks blk's predecessor set as final and completes every φ that was
// deferred while it was open.
func (b *Builder) seal(blk *BasicBlock) {
	for _, inc := range blk.incomplete {
		b.addPhiOperands(blk, inc.Decl, inc.Phi)
	}
	blk.incomplete = nil
	blk.Sealed = true
}

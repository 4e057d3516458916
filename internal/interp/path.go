package interp

import (
	"sort"

	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/context"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
	"xpath31/pkg/xot"
)

// execAxisStep applies one compiled path step (an axis plus a node test) to
// every node in the sequence on top of the stack, pushing the concatenated,
// per-context-item result (spec.md §4.4). Document order and duplicate
// removal are left to the OpDocOrderDedup that internal/compiler.compilePath
// emits after each step, so the per-node axis order is preserved here.
func (it *Interpreter) execAxisStep(f *callFrame, operand uint16) *xdmerr.Error {
	step := f.fn.Steps[operand]
	ctxSeq, err := it.pop()
	if err != nil {
		return err
	}
	items, ierr := ctxSeq.Items()
	if ierr != nil {
		return ierr
	}
	var out []sequence.Item
	for _, item := range items {
		if item.Kind() != sequence.ItemNode {
			return xdmerr.Typef("a path step requires a node as its context item, got %v", item.Kind())
		}
		node, ok := item.Node().(xot.Node)
		if !ok {
			return it.runtimeErrorf("interp: node item does not implement xot.Node")
		}
		for _, cand := range axisNodes(step.Axis, node) {
			if matchesStep(step, cand) {
				out = append(out, sequence.NodeItem(cand))
			}
		}
	}
	it.push(sequence.Many(out))
	return nil
}

// matchesStep applies a compiled Step's node test to one axis candidate.
func matchesStep(step program.Step, node xot.Node) bool {
	if step.KindTest != xot.NodeKindAny && node.Kind() != step.KindTest {
		return false
	}
	if step.NameTest != "" && node.Name().Local != step.NameTest {
		return false
	}
	return true
}

// axisNodes enumerates every node reachable from n along axis, in the
// order the axis is defined to number positions in (spec.md §4.4): forward
// axes (child, descendant, following, ...) in document order, reverse axes
// (parent, ancestor, preceding, ...) in reverse document order.
func axisNodes(axis program.StepKind, n xot.Node) []xot.Node {
	switch axis {
	case program.StepChild:
		return n.Children()

	case program.StepDescendant:
		return descendants(n)

	case program.StepDescendantOrSelf:
		return append([]xot.Node{n}, descendants(n)...)

	case program.StepParent:
		if p, ok := n.Parent(); ok {
			return []xot.Node{p}
		}
		return nil

	case program.StepAncestor:
		return ancestors(n)

	case program.StepAncestorOrSelf:
		return append([]xot.Node{n}, ancestors(n)...)

	case program.StepFollowing:
		return following(n)

	case program.StepFollowingSibling:
		return siblingsAfter(n)

	case program.StepPreceding:
		return preceding(n)

	case program.StepPrecedingSibling:
		return siblingsBefore(n)

	case program.StepSelf:
		return []xot.Node{n}

	case program.StepAttribute:
		return n.Attributes()

	case program.StepNamespace:
		return n.Namespaces()
	}
	return nil
}

// descendants returns every node strictly below n, in document order (a
// preorder walk of the children).
func descendants(n xot.Node) []xot.Node {
	var out []xot.Node
	for _, c := range n.Children() {
		out = append(out, c)
		out = append(out, descendants(c)...)
	}
	return out
}

// ancestors returns n's ancestors nearest-first (reverse document order).
func ancestors(n xot.Node) []xot.Node {
	var out []xot.Node
	cur := n
	for {
		p, ok := cur.Parent()
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

func siblingsOf(n xot.Node) ([]xot.Node, int) {
	p, ok := n.Parent()
	if !ok {
		return nil, -1
	}
	sibs := p.Children()
	for i, s := range sibs {
		if sameNode(s, n) {
			return sibs, i
		}
	}
	return sibs, -1
}

func siblingsAfter(n xot.Node) []xot.Node {
	sibs, idx := siblingsOf(n)
	if idx < 0 {
		return nil
	}
	return sibs[idx+1:]
}

func siblingsBefore(n xot.Node) []xot.Node {
	sibs, idx := siblingsOf(n)
	if idx <= 0 {
		return nil
	}
	out := make([]xot.Node, idx)
	for i := 0; i < idx; i++ {
		out[i] = sibs[idx-1-i]
	}
	return out
}

// following collects every node after n in document order that is not one
// of n's own ancestors or descendants (spec.md §4.4): at each ancestor
// level (starting with n's own level), the later siblings' full subtrees
// contribute their nodes in preorder; appending level by level from
// innermost to outermost yields ascending document order directly, with no
// separate sort needed.
func following(n xot.Node) []xot.Node {
	var out []xot.Node
	cur := n
	for {
		for _, s := range siblingsAfter(cur) {
			out = append(out, s)
			out = append(out, descendants(s)...)
		}
		p, ok := cur.Parent()
		if !ok {
			return out
		}
		cur = p
	}
}

// preceding is following's mirror: at each ancestor level, the earlier
// siblings contribute their subtrees nearest-first via reversePreorder, so
// the whole result comes out in descending (reverse) document order.
func preceding(n xot.Node) []xot.Node {
	var out []xot.Node
	cur := n
	for {
		sibs, idx := siblingsOf(cur)
		if idx > 0 {
			for i := idx - 1; i >= 0; i-- {
				out = append(out, reversePreorder(sibs[i])...)
			}
		}
		p, ok := cur.Parent()
		if !ok {
			return out
		}
		cur = p
	}
}

// reversePreorder lists n and its full subtree in reverse document order:
// recurse into children right-to-left, self last.
func reversePreorder(n xot.Node) []xot.Node {
	children := n.Children()
	var out []xot.Node
	for i := len(children) - 1; i >= 0; i-- {
		out = append(out, reversePreorder(children[i])...)
	}
	out = append(out, n)
	return out
}

func sameNode(a, b xot.Node) bool {
	ad, ao := a.DocumentOrderKey()
	bd, bo := b.DocumentOrderKey()
	return ad == bd && ao == bo
}

// execPredicate applies one compiled predicate to the axis-step result
// beneath it on the stack (spec.md §4.4): for each candidate at 1-based
// position i of size total, the predicate closure runs with a Focus for
// that candidate pushed; a candidate survives if the predicate's result is
// a single numeric value equal to i (the "[N]" shorthand, spec.md §4.2),
// or otherwise if its effective boolean value is true.
func (it *Interpreter) execPredicate() *xdmerr.Error {
	predSeq, err := it.pop()
	if err != nil {
		return err
	}
	candSeq, err := it.pop()
	if err != nil {
		return err
	}
	if predSeq.Len() != 1 || predSeq.At(0).Kind() != sequence.ItemFunction {
		return xdmerr.Typef("interp: a predicate closure must be a single function item")
	}
	predFn := predSeq.At(0).Function()

	items, ierr := candSeq.Items()
	if ierr != nil {
		return ierr
	}
	size := len(items)
	var out []sequence.Item
	for i, item := range items {
		pos := i + 1
		it.pushFocus(context.Focus{Item: item, Position: pos, Size: size})
		result, perr := it.invokeCallable(predFn, nil)
		it.popFocus()
		if perr != nil {
			return perr
		}
		keep, kerr := predicateKeeps(result, pos)
		if kerr != nil {
			return kerr
		}
		if keep {
			out = append(out, item)
		}
	}
	it.push(sequence.Many(out))
	return nil
}

func predicateKeeps(result sequence.Sequence, pos int) (bool, *xdmerr.Error) {
	if result.Len() == 1 {
		item := result.At(0)
		if item.Kind() == sequence.ItemAtomic && item.Atomic().Kind().IsNumeric() {
			return item.Atomic().Eq(atomic.IntegerFromInt64(int64(pos)), atomic.DefaultCollator, 0)
		}
	}
	ebv, err := result.EffectiveBooleanValue()
	if err != nil {
		return false, err
	}
	return ebv, nil
}

// execDocOrderDedup sorts the sequence on top of the stack into document
// order and removes duplicate nodes (spec.md §4.4: a path expression's
// result is always in document order with duplicates removed). Atomic and
// function items cannot occur here (only path steps emit this opcode, and
// a step's result is always nodes), so every item is assumed to be a node.
func (it *Interpreter) execDocOrderDedup() *xdmerr.Error {
	seq, err := it.pop()
	if err != nil {
		return err
	}
	items, ierr := seq.Items()
	if ierr != nil {
		return ierr
	}
	sorted := sortNodesDedup(items)
	it.push(sequence.Many(sorted))
	return nil
}

type nodeKey struct {
	docID uint64
	order uint64
}

func keyOf(item sequence.Item) nodeKey {
	d, o := item.Node().DocumentOrderKey()
	return nodeKey{d, o}
}

// sortNodesDedup sorts items by document order key and drops consecutive
// duplicates (by node identity, not by value).
func sortNodesDedup(items []sequence.Item) []sequence.Item {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]sequence.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		ki, kj := keyOf(sorted[i]), keyOf(sorted[j])
		if ki.docID != kj.docID {
			return ki.docID < kj.docID
		}
		return ki.order < kj.order
	})
	out := sorted[:0:0]
	for i, item := range sorted {
		if i > 0 && keyOf(item) == keyOf(sorted[i-1]) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// execNodeSetOp implements the "|"/"union", "intersect", and "except"
// operators (spec.md §4.2): node identity and ordering both come from
// DocumentOrderKey, so set membership never needs an xot.Node type
// assertion the way axis traversal does.
func (it *Interpreter) execNodeSetOp(op bytecode.OpCode) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	aItems, aerr := a.Items()
	if aerr != nil {
		return aerr
	}
	bItems, berr := b.Items()
	if berr != nil {
		return berr
	}
	for _, item := range aItems {
		if item.Kind() != sequence.ItemNode {
			return xdmerr.Typef("operands of a node-set operator must be nodes")
		}
	}
	for _, item := range bItems {
		if item.Kind() != sequence.ItemNode {
			return xdmerr.Typef("operands of a node-set operator must be nodes")
		}
	}

	bSet := make(map[nodeKey]bool, len(bItems))
	for _, item := range bItems {
		bSet[keyOf(item)] = true
	}

	var out []sequence.Item
	switch op {
	case bytecode.OpUnion:
		out = append(out, aItems...)
		out = append(out, bItems...)
	case bytecode.OpIntersect:
		for _, item := range aItems {
			if bSet[keyOf(item)] {
				out = append(out, item)
			}
		}
	case bytecode.OpExcept:
		for _, item := range aItems {
			if !bSet[keyOf(item)] {
				out = append(out, item)
			}
		}
	}
	it.push(sequence.Many(sortNodesDedup(out)))
	return nil
}

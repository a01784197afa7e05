package search

// pvNode is one link of a persistent, structurally-shared principal
// variation. Nodes are never mutated after creation, so a PV can be
// prepended to cheaply while still being shared across sibling branches of
// the search tree.
type pvNode[A comparable] struct {
	action A
	tail   *pvNode[A]
}

// PV is an immutable singly linked list of actions, read head-first. The
// zero value is the empty PV.
type PV[A comparable] struct {
	node *pvNode[A]
}

// Prepend returns a new PV with a in front of pv, in O(1) and without
// mutating pv.
func (pv PV[A]) Prepend(a A) PV[A] {
	return PV[A]{node: &pvNode[A]{action: a, tail: pv.node}}
}

// IsEmpty reports whether the PV holds no actions.
func (pv PV[A]) IsEmpty() bool {
	return pv.node == nil
}

// Head returns the first action of the PV, if any.
func (pv PV[A]) Head() (A, bool) {
	if pv.node == nil {
		var zero A
		return zero, false
	}
	return pv.node.action, true
}

// Tail returns the PV without its first action.
func (pv PV[A]) Tail() PV[A] {
	if pv.node == nil {
		return pv
	}
	return PV[A]{node: pv.node.tail}
}

// Len counts the actions in the PV. It walks the whole chain, so callers
// doing this repeatedly should cache the result.
func (pv PV[A]) Len() int {
	n := 0
	for node := pv.node; node != nil; node = node.tail {
		n++
	}
	return n
}

// Actions materializes the PV into a slice, in play order (head first).
func (pv PV[A]) Actions() []A {
	actions := make([]A, 0, pv.Len())
	for node := pv.node; node != nil; node = node.tail {
		actions = append(actions, node.action)
	}
	return actions
}

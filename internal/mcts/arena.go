package mcts

import "github.com/janpfeifer/gitcgsearch/internal/search"

// nodeID addresses a node within an Arena. Edges are stored as nodeID
// tokens rather than pointers, so the whole tree can grow as one
// contiguous, cache-friendly slice and nodes never need to be individually
// freed.
type nodeID int32

// noChild marks an edge whose child has not been expanded yet.
const noChild nodeID = -1

// selectionCache memoizes the best child picked by the selection policy, so
// that repeated descents through a hot node don't re-score every child each
// time. It is invalidated (visitsRemaining reaches zero) once enough new
// visits have landed that the cached choice might no longer be best.
type selectionCache struct {
	best            int
	visitsRemaining int
}

// node is one arena slot. Children are addressed by position in the
// parallel actions/children/priors/visits/props/childHashes slices, all
// indexed identically. childHashes holds the Zobrist hash each action would
// reach, computed at expansion time, so the shared transposition table can
// be consulted for a child's transposed statistics even before that child
// is materialized into its own arena node.
type node[A comparable] struct {
	toMove   search.PlayerID
	terminal bool
	termEval search.Eval

	actions     []A
	children    []nodeID
	priors      []float32
	visits      []uint32
	props       []Proportion
	childHashes []uint64

	sumVisits uint32
	cache     selectionCache
}

// Arena owns every node allocated during a search. It is not safe for
// concurrent mutation; the search loop serializes tree mutation and only
// parallelizes the leaf playouts themselves.
type Arena[A comparable] struct {
	nodes []node[A]
}

// NewArena returns an empty arena with capacity pre-reserved. Callers that
// allocate at most one new node per traverse (as Searcher does) must size
// capacityHint to cover every traverse plus the root, so that node
// allocation never reallocates the backing slice: *node[A] pointers handed
// out mid-traversal stay valid for the lifetime of the search.
func NewArena[A comparable](capacityHint int) *Arena[A] {
	return &Arena[A]{nodes: make([]node[A], 0, capacityHint)}
}

// newLeaf appends an unexpanded node and returns its id.
func (a *Arena[A]) newLeaf(toMove search.PlayerID) nodeID {
	a.nodes = append(a.nodes, node[A]{toMove: toMove})
	return nodeID(len(a.nodes) - 1)
}

// newTerminal appends a terminal node carrying its final evaluation.
func (a *Arena[A]) newTerminal(toMove search.PlayerID, eval search.Eval) nodeID {
	a.nodes = append(a.nodes, node[A]{toMove: toMove, terminal: true, termEval: eval})
	return nodeID(len(a.nodes) - 1)
}

func (a *Arena[A]) get(id nodeID) *node[A] {
	return &a.nodes[id]
}

// expand populates an unexpanded node's children from weighted actions and
// their precomputed state hashes. It is a no-op if the node already has
// children.
func (a *Arena[A]) expand(id nodeID, weights []search.ActionWeight[A], hashes []uint64) {
	expandNode(a.get(id), weights, hashes)
}

// expandNode populates an unexpanded node's children in place. It is a
// no-op if the node already has children. hashes must align with weights:
// hashes[i] is the Zobrist hash reached by taking weights[i].Action.
func expandNode[A comparable](n *node[A], weights []search.ActionWeight[A], hashes []uint64) {
	if n.children != nil {
		return
	}
	count := len(weights)
	n.actions = make([]A, count)
	n.children = make([]nodeID, count)
	n.priors = make([]float32, count)
	n.visits = make([]uint32, count)
	n.props = make([]Proportion, count)
	n.childHashes = hashes
	for i, w := range weights {
		n.actions[i] = w.Action
		n.children[i] = noChild
		n.priors[i] = w.Weight
	}
	normalizePriors(n.priors)
}

func normalizePriors(priors []float32) {
	var sum float32
	for _, p := range priors {
		sum += p
	}
	if sum <= 0 {
		uniform := float32(1) / float32(len(priors))
		for i := range priors {
			priors[i] = uniform
		}
		return
	}
	for i := range priors {
		priors[i] /= sum
	}
}

// Size returns how many nodes have been allocated.
func (a *Arena[A]) Size() int {
	return len(a.nodes)
}

// Package mcts implements PUCT/UCB1 Monte Carlo tree search over the same
// search.Game adapter contract used by the minimax engine. Nodes live in a
// flat arena addressed by integer token, not by pointer, and edges are
// backed by a second transposition table so that transpositions across
// subtrees share statistics.
package mcts

import (
	"github.com/pkg/errors"

	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// SelectionPolicy chooses how a node's children are scored during tree
// descent.
type SelectionPolicy uint8

const (
	// PolicyPUCT is AlphaZero-style PUCT: Q(s,a) + c(N)*P(a)*sqrt(N+1)/(1+n),
	// with c growing slowly with total visits N, plus a first-play bonus of 1
	// for a child with no visits yet.
	PolicyPUCT SelectionPolicy = iota
	// PolicyUCB1 is the classic UCB1 bandit formula, ignoring priors.
	PolicyUCB1
)

// Config controls one Searcher's behavior.
type Config struct {
	// Policy selects which selection formula descends the tree.
	Policy SelectionPolicy

	// CPuctInit and CPuctFactor parametrize PolicyPUCT's exploration
	// constant: c(N) = CPuctInit + CPuctFactor*log2((N+CPuctBase)/CPuctBase).
	CPuctInit   float64
	CPuctFactor float64
	CPuctBase   float64

	// UCB1C is PolicyUCB1's exploration constant.
	UCB1C float64

	// MaxTraverses bounds the number of tree descents performed.
	// MinTraverses guarantees at least that many even if MaxTime elapses
	// first.
	MaxTraverses int
	MinTraverses int

	// PlayoutsPerLeaf is how many independent random playouts are run, in
	// parallel, from a newly expanded leaf, to form its initial value
	// estimate.
	PlayoutsPerLeaf int

	// MaxPlayoutPlies bounds how many plies a random playout plays before
	// it is scored by Eval instead of played to a natural conclusion.
	MaxPlayoutPlies int

	// MaxParallelPlayouts bounds how many playouts of one leaf evaluation
	// run at once. Leaf evaluations happen one at a time, so this is also
	// the bound across the whole search.
	MaxParallelPlayouts int

	// Limits bounds wall-clock time and/or total positions visited.
	Limits *search.SearchLimits

	// Temperature controls how greedily the final action is chosen: 0
	// always picks the child with the highest ratio_with_transposition,
	// larger values sample from the root's visit counts more broadly.
	Temperature float64
}

// DefaultConfig returns sane defaults: cpuct growing logarithmically from
// 4.0, 8 parallel playouts per expansion, and a hard cap of 800 traverses.
func DefaultConfig() Config {
	return Config{
		Policy:              PolicyPUCT,
		CPuctInit:           4.0,
		CPuctFactor:         4.0,
		CPuctBase:           20000,
		UCB1C:               1.41421356,
		MaxTraverses:        800,
		MinTraverses:        50,
		PlayoutsPerLeaf:     8,
		MaxPlayoutPlies:     200,
		MaxParallelPlayouts: 16,
		Temperature:         0,
	}
}

// Validate reports whether c is internally consistent.
func (c Config) Validate() error {
	if c.MaxTraverses <= 0 {
		return errors.New("mcts: MaxTraverses must be > 0")
	}
	if c.MinTraverses > c.MaxTraverses {
		return errors.New("mcts: MinTraverses must be <= MaxTraverses")
	}
	if c.PlayoutsPerLeaf <= 0 {
		return errors.New("mcts: PlayoutsPerLeaf must be > 0")
	}
	if c.MaxParallelPlayouts <= 0 {
		return errors.New("mcts: MaxParallelPlayouts must be > 0")
	}
	if c.Temperature < 0 {
		return errors.New("mcts: Temperature must be >= 0")
	}
	return nil
}

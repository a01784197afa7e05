package mcts

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/gitcgsearch/internal/cache"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Searcher is a search.Engine implementing PUCT/UCB1 Monte Carlo tree
// search. It owns a shared Entry cache across Search calls so that
// transposing lines of play accumulate statistics together.
type Searcher[S search.Game[S, A], A comparable] struct {
	cfg Config
	tt  *cache.Cache[Entry]
}

// New creates a Searcher for the given configuration.
func New[S search.Game[S, A], A comparable](cfg Config, ttSizeMB float64) (*Searcher[S, A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "mcts: invalid configuration")
	}
	return &Searcher[S, A]{cfg: cfg, tt: cache.New[Entry](ttSizeMB)}, nil
}

// errNoLegalActions is returned when Search is asked to search a position
// with no winner and no legal actions: an adapter contract violation at the
// search boundary rather than a deep-recursion bug, so it is surfaced as an
// error instead of a panic.
var errNoLegalActions = errors.New("mcts: root position has no winner and no legal actions")

// Search implements search.Engine.
func (s *Searcher[S, A]) Search(ctx context.Context, state S, maximizer search.PlayerID) (search.SearchResult[S, A], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var zero search.SearchResult[S, A]

	toMove, ok := state.ToMove()
	if !ok {
		if winner, isOver := state.Winner(); isOver {
			eval := state.Eval(maximizer)
			_ = winner
			return search.SearchResult[S, A]{Eval: eval}, nil
		}
		return zero, errNoLegalActions
	}

	arena := NewArena[A](2 * (s.cfg.MaxTraverses + 1))
	rootID := arena.newLeaf(toMove)
	actions := state.Actions()
	if len(actions) == 0 {
		return zero, errNoLegalActions
	}
	rootWeights := state.ActionWeights(actions)
	arena.expand(rootID, rootWeights, childHashesFor[S, A](state, rootWeights))

	var positions atomic.Uint64
	start := time.Now()
	counter := search.SearchCounter{}

	traverses := 0
	for traverses < s.cfg.MaxTraverses {
		if traverses >= s.cfg.MinTraverses {
			if ctx.Err() != nil {
				break
			}
			if s.cfg.Limits != nil && s.cfg.Limits.ShouldTerminate(start, positions.Load()) {
				break
			}
		}
		s.traverse(ctx, arena, rootID, state.Clone(), &positions)
		traverses++
		counter.StatesVisited = positions.Load()
		if traverses%10 == 0 {
			klog.V(3).Infof("mcts: traverse=%d root_visits=%d", traverses, arena.get(rootID).sumVisits)
		}
	}
	counter.LastDepth = uint64(traverses)

	pv, eval, err := s.extractPV(arena, rootID, state, maximizer)
	if err != nil {
		return zero, err
	}

	klog.V(2).Infof("mcts: traverses=%d states=%d eval=%v", traverses, counter.StatesVisited, eval)
	return search.SearchResult[S, A]{PV: pv, Eval: eval, Counter: counter}, nil
}

// traverse performs one selection/expansion/simulation/backpropagation
// cycle starting at id, whose corresponding game state is state. It returns
// the resulting win Proportion from the perspective of the player to move
// at id, except for a terminal id, whose Proportion is already from its
// parent's mover's perspective; the caller orients the result accordingly
// before accumulating it into its per-child statistics.
func (s *Searcher[S, A]) traverse(ctx context.Context, arena *Arena[A], id nodeID, state S, positions *atomic.Uint64) Proportion {
	positions.Add(1)
	n := arena.get(id)

	if n.terminal {
		return terminalProportion(n.termEval)
	}
	if n.children == nil {
		return s.evaluateLeaf(ctx, state, n)
	}

	i := selectChild(s.cfg, s.tt, n)
	action := n.actions[i]
	if err := state.Advance(action); err != nil {
		exceptions.Panicf("mcts: adapter returned illegal action %v: %+v", action, err)
	}

	child := n.children[i]
	if child == noChild {
		child = s.materializeChild(arena, n.toMove, state)
		n.children[i] = child
	}

	childResult := s.traverse(ctx, arena, child, state, positions)

	var propForParent Proportion
	if arena.get(child).terminal {
		propForParent = childResult
	} else {
		propForParent = childResult.Complement()
	}

	n.visits[i]++
	n.sumVisits++
	n.props[i] = n.props[i].Add(propForParent)
	mergeEntry(s.tt, n.childHashes[i], propForParent)

	return propForParent
}

// materializeChild creates the arena node for a just-taken action, from
// parentMover's perspective (the player who just moved to reach state).
func (s *Searcher[S, A]) materializeChild(arena *Arena[A], parentMover search.PlayerID, state S) nodeID {
	if _, ok := state.Winner(); ok {
		return arena.newTerminal(parentMover, state.Eval(parentMover))
	}
	toMove, ok := state.ToMove()
	if !ok {
		return arena.newTerminal(parentMover, state.Eval(parentMover))
	}
	return arena.newLeaf(toMove)
}

// evaluateLeaf expands n in place and scores it with PlayoutsPerLeaf
// parallel random playouts, returning the aggregate Proportion from n's own
// mover's perspective. Parallelism is bounded by a semaphore of
// MaxParallelPlayouts created for this leaf; traverses run one at a time,
// so the playouts of two leaves never overlap.
func (s *Searcher[S, A]) evaluateLeaf(ctx context.Context, state S, n *node[A]) Proportion {
	actions := state.Actions()
	if len(actions) == 0 {
		exceptions.Panicf("mcts: adapter reported a mover with no winner and no legal actions: toMove=%v state=%+v", n.toMove, state)
	}
	weights := state.ActionWeights(actions)
	expandNode(n, weights, childHashesFor[S, A](state, weights))

	results := make([]bool, s.cfg.PlayoutsPerLeaf)
	sem := semaphore.NewWeighted(int64(s.cfg.MaxParallelPlayouts))
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.PlayoutsPerLeaf; i++ {
		i := i
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil // context canceled: treat remaining playouts as skipped, not an error
			}
			defer sem.Release(1)
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
			results[i] = s.playout(state.Clone(), n.toMove, rng)
			return nil
		})
	}
	_ = g.Wait()

	prop := Proportion{}
	for _, win := range results {
		prop = prop.Record(win)
	}
	return prop
}

// playout plays a bounded random game from state to a natural or
// depth-bounded conclusion, weighted by ActionWeights, and reports whether
// mover came out ahead.
func (s *Searcher[S, A]) playout(state S, mover search.PlayerID, rng *rand.Rand) bool {
	cur := state
	for i := 0; i < s.cfg.MaxPlayoutPlies; i++ {
		if _, ok := cur.Winner(); ok {
			break
		}
		if _, ok := cur.ToMove(); !ok {
			break
		}
		actions := cur.Actions()
		if len(actions) == 0 {
			break
		}
		weights := cur.ActionWeights(actions)
		action := sampleWeighted(weights, rng)
		if err := cur.Advance(action); err != nil {
			exceptions.Panicf("mcts: adapter returned illegal playout action %v: %+v", action, err)
		}
	}
	return cur.Eval(mover) > 0
}

// childHashesFor computes the Zobrist hash each action in weights would
// reach from state, without disturbing state itself, so the shared
// transposition table can be consulted for a child's statistics during
// selection even before that child is materialized into its own arena
// node.
func childHashesFor[S search.Game[S, A], A comparable](state S, weights []search.ActionWeight[A]) []uint64 {
	hashes := make([]uint64, len(weights))
	for i, w := range weights {
		child := state.Clone()
		if err := child.Advance(w.Action); err != nil {
			exceptions.Panicf("mcts: adapter returned illegal action %v: %+v", w.Action, err)
		}
		hashes[i] = child.ZobristHash()
	}
	return hashes
}

func sampleWeighted[A comparable](weights []search.ActionWeight[A], rng *rand.Rand) A {
	var total float64
	for _, w := range weights {
		total += float64(w.Weight)
	}
	if total <= 0 {
		return weights[rng.Intn(len(weights))].Action
	}
	pick := rng.Float64() * total
	for _, w := range weights {
		pick -= float64(w.Weight)
		if pick <= 0 {
			return w.Action
		}
	}
	return weights[len(weights)-1].Action
}

// terminalProportion maps a terminal Eval to a Proportion: a clear win maps
// to 1 trial in the winner's favor, a clear loss to 1 trial against, and a
// draw (or any non-terminal value passed in defensively) to the neutral
// zero-trial Proportion, whose Ratio() is exactly 0.5.
func terminalProportion(e search.Eval) Proportion {
	switch {
	case e > 0:
		return Proportion{Wins: 1, Total: 1}
	case e < 0:
		return Proportion{Wins: 0, Total: 1}
	default:
		return Proportion{}
	}
}

// extractPV walks, at each step from the root, the child with the highest
// ratio_with_transposition (local Proportion merged with whatever the
// shared transposition table holds for that child's state hash), following
// Temperature-weighted sampling only at the root itself, and returns the
// resulting line together with the root's estimated value.
func (s *Searcher[S, A]) extractPV(arena *Arena[A], rootID nodeID, rootState S, maximizer search.PlayerID) (search.PV[A], search.Eval, error) {
	root := arena.get(rootID)
	if len(root.children) == 0 {
		return search.PV[A]{}, 0, errNoLegalActions
	}

	first := s.selectFinalAction(root)
	if first < 0 {
		return search.PV[A]{}, 0, errNoLegalActions
	}

	eval := evalFromProportion(s.childRatio(root, first), root.toMove, maximizer)

	var actions []A
	id := rootID
	state := rootState.Clone()
	for {
		n := arena.get(id)
		if len(n.children) == 0 {
			break
		}
		idx := first
		if id != rootID {
			idx = s.bestChildByRatio(n)
		}
		if idx < 0 {
			break
		}
		actions = append(actions, n.actions[idx])
		if err := state.Advance(n.actions[idx]); err != nil {
			break
		}
		child := n.children[idx]
		if child == noChild || arena.get(child).terminal {
			break
		}
		id = child
	}

	var pv search.PV[A]
	for i := len(actions) - 1; i >= 0; i-- {
		pv = pv.Prepend(actions[i])
	}
	return pv, eval, nil
}

// childRatio returns child i's ratio_with_transposition: its local
// Proportion merged with whatever the shared transposition table holds
// under its state hash. Unlike score, this carries no exploration term, so
// it reflects what the search actually believes is best, not what it still
// wants to explore.
func (s *Searcher[S, A]) childRatio(n *node[A], i int) float64 {
	ttEntry, _ := s.tt.Get(n.childHashes[i])
	return n.props[i].Add(ttEntry.Prop).Ratio()
}

// bestChildByRatio returns the child of n with the highest
// ratio_with_transposition.
func (s *Searcher[S, A]) bestChildByRatio(n *node[A]) int {
	best := -1
	var bestRatio float64
	for i := range n.children {
		ratio := s.childRatio(n, i)
		if best == -1 || ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	return best
}

func (s *Searcher[S, A]) selectFinalAction(n *node[A]) int {
	if s.cfg.Temperature <= 0 {
		return s.bestChildByRatio(n)
	}
	weights := make([]float64, len(n.visits))
	var total float64
	for i, v := range n.visits {
		weights[i] = math.Pow(float64(v), 1/s.cfg.Temperature)
		total += weights[i]
	}
	if total <= 0 {
		return s.bestChildByRatio(n)
	}
	pick := rand.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// evalFromProportion converts a Proportion ratio, known from rootMover's
// perspective, into an Eval from maximizer's perspective.
func evalFromProportion(ratio float64, rootMover, maximizer search.PlayerID) search.Eval {
	v := search.Eval((ratio - 0.5) * 2 * float64(winnerUnitApprox))
	if rootMover != maximizer {
		v = v.Negate()
	}
	return v
}

// winnerUnitApprox scales a [-1,1] MCTS value estimate into the heuristic
// band of search.Eval, well clear of the terminal thresholds.
const winnerUnitApprox = 1 << 16

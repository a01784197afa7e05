package minimax

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gomlx/exceptions"

	"github.com/janpfeifer/gitcgsearch/internal/cache"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

type searchMode uint8

const (
	modeFull searchMode = iota
	modeTactical
)

// searchContext carries the mutable state of one goroutine's recursive
// search: its own counters and rng, plus pointers to the state shared across
// the whole Lazy-SMP group (the transposition table and the cooperative
// termination flags).
type searchContext[S search.Game[S, A], A comparable] struct {
	cfg         Config
	tt          *cache.Cache[TTEntry[A]]
	targetRound uint8

	finished  *atomic.Bool
	positions *atomic.Uint64
	startTime time.Time

	helperID int // -1 for the primary searcher
	rng      *rand.Rand
	counter  search.SearchCounter
	ctx      context.Context

	currentTopDepth int
}

func (sc *searchContext[S, A]) shouldAbort() bool {
	if sc.finished.Load() {
		return true
	}
	if sc.ctx != nil && sc.ctx.Err() != nil {
		return true
	}
	if sc.cfg.Limits != nil && sc.cfg.Limits.ShouldTerminate(sc.startTime, sc.positions.Load()) {
		return true
	}
	return false
}

// isShuffleHelper reports whether, at this node, a helper goroutine should
// shuffle its move ordering rather than follow the PV hint, diversifying
// Lazy-SMP search order at the root of each helper's tree.
func (sc *searchContext[S, A]) isShuffleHelper(depth int) bool {
	return sc.helperID >= 0 && depth == sc.currentTopDepth
}

func iidTarget(depth int) int {
	return (depth + 3) / 4
}

func (sc *searchContext[S, A]) evalPosition(state S, maximizer search.PlayerID) search.Eval {
	sc.counter.Evals++
	if sc.cfg.PrepareForEval {
		clone := state.Clone()
		clone.PrepareForEval()
		return clone.Eval(maximizer)
	}
	return state.Eval(maximizer)
}

// staticSearch plays out a bounded sequence of cheap heuristic actions past
// the tactical horizon, without backtracking, then evaluates the result.
func (sc *searchContext[S, A]) staticSearch(state S, maximizer search.PlayerID) search.Eval {
	cur := state.Clone()
	for i := uint8(0); i < sc.cfg.StaticSearchMaxIters; i++ {
		if cur.RoundNumber() >= sc.targetRound {
			break
		}
		if _, ok := cur.Winner(); ok {
			break
		}
		toMove, ok := cur.ToMove()
		if !ok {
			break
		}
		action, ok := cur.StaticSearchAction(toMove)
		if !ok {
			break
		}
		if err := cur.Advance(action); err != nil {
			exceptions.Panicf("minimax: adapter returned illegal static-search action %v: %+v", action, err)
		}
		sc.counter.StatesVisited++
		sc.positions.Add(1)
	}
	return sc.evalPosition(cur, maximizer)
}

// search is the recursive alpha-beta core. It returns the value of state
// from maximizer's perspective, within the (alpha, beta) window, and the
// principal variation that achieves it.
func (sc *searchContext[S, A]) search(state S, maximizer search.PlayerID, alpha, beta search.Eval, depth int, pvHint search.PV[A], m searchMode) (search.Eval, search.PV[A]) {
	sc.counter.StatesVisited++
	sc.positions.Add(1)

	if _, ok := state.Winner(); ok {
		return sc.evalPosition(state, maximizer), search.PV[A]{}
	}
	if state.RoundNumber() >= sc.targetRound {
		return sc.evalPosition(state, maximizer), search.PV[A]{}
	}
	if sc.shouldAbort() {
		return sc.evalPosition(state, maximizer), search.PV[A]{}
	}

	if depth <= 0 {
		if m == modeFull {
			tactical := state.Clone()
			tactical.ConvertToTacticalSearch()
			return sc.search(tactical, maximizer, alpha, beta, int(sc.cfg.TacticalDepth), search.PV[A]{}, modeTactical)
		}
		return sc.staticSearch(state, maximizer), search.PV[A]{}
	}

	if toMove, ok := state.ToMove(); ok && toMove != maximizer {
		v, pv := sc.search(state, toMove, beta.Negate(), alpha.Negate(), depth, pvHint, m)
		return v.Negate(), pv
	}

	hash := state.ZobristHash()
	entry, found := sc.tt.Get(hash)
	if found {
		sc.counter.TTHits++
	}
	if res := probeTT[A](entry, found, depth, alpha, beta); res.cutAt {
		return res.value, res.pv
	}

	if pvHint.IsEmpty() && depth > 2 {
		for d := 1; d <= iidTarget(depth); d += 2 {
			_, seededPV := sc.search(state, maximizer, alpha, beta, d, pvHint, m)
			pvHint = seededPV
		}
	}

	actions := state.Actions()
	if len(actions) == 0 {
		return sc.evalPosition(state, maximizer), search.PV[A]{}
	}
	if sc.isShuffleHelper(depth) {
		state.ShuffleActions(actions, sc.rng)
	} else {
		state.MoveOrdering(pvHint, actions)
	}

	flag := FlagUpper
	var bestPV search.PV[A]
	suppressWrite := false

	for i, action := range actions {
		if sc.shouldAbort() {
			suppressWrite = true
			break
		}
		child := state.Clone()
		if err := child.Advance(action); err != nil {
			exceptions.Panicf("minimax: adapter returned illegal action %v: %+v", action, err)
		}
		newDepth := depth - 1 + int(state.DepthExtension(action))

		useNullWindow := sc.cfg.EnablePVS && i > 0
		var lo, hi search.Eval
		if useNullWindow {
			lo, hi = alpha.NullWindow()
		} else {
			lo, hi = alpha, beta
		}
		v, pv := sc.search(child, maximizer, lo, hi, newDepth, search.PV[A]{}, m)

		if useNullWindow && v > alpha && v < beta {
			sc.counter.AWFailHighs++
			v, pv = sc.search(child, maximizer, alpha, beta, newDepth, search.PV[A]{}, m)
		}

		if v > alpha {
			alpha = v
			bestPV = pv.Prepend(action)
			flag = FlagExact
		}
		if alpha >= beta {
			flag = FlagLower
			sc.counter.BetaPrunes++
			break
		}
	}

	if !suppressWrite {
		sc.tt.ReplaceIf(hash, TTEntry[A]{Flag: flag, Depth: uint8(depth), Value: alpha, PV: bestPV}, shouldReplace[A](uint8(depth)))
	}
	return alpha, bestPV
}

// aspirationSteps bounds how many widening attempts are made before falling
// back to a full (Min, Max) re-search.
const aspirationSteps = 3

// iterativeDeepen runs full-width iterative deepening with aspiration
// windows from ply 1 up to cfg.Depth, reusing the previous iteration's PV
// both as a move-ordering hint and as the center of the next window.
func (sc *searchContext[S, A]) iterativeDeepen(state S, maximizer search.PlayerID) (search.Eval, search.PV[A]) {
	if sc.cfg.Depth == 0 {
		sc.currentTopDepth = 0
		return sc.search(state, maximizer, search.Min, search.Max, 0, search.PV[A]{}, modeFull)
	}

	sc.currentTopDepth = 1
	eval, pv := sc.search(state, maximizer, search.Min, search.Max, 1, search.PV[A]{}, modeFull)
	sc.counter.LastDepth = 1

	for d := 2; d <= int(sc.cfg.Depth); d++ {
		sc.currentTopDepth = d
		lo, hi := eval.AspirationWindow()
		found := false
		for step := 1; step <= aspirationSteps; step++ {
			v, newPV := sc.search(state, maximizer, lo, hi, d, pv, modeFull)
			if v > lo && v < hi {
				eval, pv = v, newPV
				found = true
				break
			}
			if v <= lo {
				sc.counter.AWFailLows++
				lo = eval.MinusUnit(step)
			} else {
				sc.counter.AWFailHighs++
				hi = eval.PlusUnit(step)
			}
		}
		if !found {
			v, newPV := sc.search(state, maximizer, search.Min, search.Max, d, pv, modeFull)
			eval, pv = v, newPV
		}
		sc.counter.LastDepth = uint64(d)
		if sc.shouldAbort() {
			break
		}
	}
	return eval, pv
}

package minimax

import (
	"context"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// yieldThreshold is the helper index from which on a new goroutine yields once
// before its first transposition-table probe, spreading goroutine startup
// across the scheduler instead of having every helper hammer the table at
// once.
const yieldThreshold = 8

func targetRound[S search.Game[S, A], A comparable](state S, cfg Config) uint8 {
	return state.RoundNumber() + cfg.TargetRoundDelta
}

// searchParallel runs Lazy-SMP: a primary goroutine plus cfg.Helpers helper
// goroutines, all searching the same root against one shared transposition
// table. Helpers search to the primary's target depth rounded up to the next
// even ply (the same depth if it is already even) and diversify their move ordering by shuffling instead of following
// the PV hint, so that they explore different parts of the tree and feed the
// shared table with complementary entries. Termination is cooperative: the
// primary sets a shared atomic flag when it finishes its own iterative
// deepening, and every goroutine (primary and helpers) polls that flag
// rather than being preempted.
func (s *Searcher[S, A]) searchParallel(ctx context.Context, state S, maximizer search.PlayerID) (search.Eval, search.PV[A], search.SearchCounter) {
	var finished atomic.Bool
	var positions atomic.Uint64
	startTime := time.Now()

	round := targetRound[S, A](state, s.cfg)

	primary := &searchContext[S, A]{
		cfg:         s.cfg,
		tt:          s.tt,
		targetRound: round,
		finished:    &finished,
		positions:   &positions,
		startTime:   startTime,
		helperID:    -1,
		ctx:         ctx,
		rng:         rand.New(rand.NewSource(1)),
	}

	helperDepth := s.cfg.Depth
	if helperDepth%2 != 0 {
		helperDepth++
	}

	g, gctx := errgroup.WithContext(ctx)
	helperResults := make([]search.SearchCounter, s.cfg.Helpers)
	for h := 0; h < s.cfg.Helpers; h++ {
		h := h
		g.Go(func() error {
			if h >= yieldThreshold {
				runtime.Gosched()
			}
			helperCfg := s.cfg
			helperCfg.Depth = helperDepth
			hc := &searchContext[S, A]{
				cfg:         helperCfg,
				tt:          s.tt,
				targetRound: round,
				finished:    &finished,
				positions:   &positions,
				startTime:   startTime,
				helperID:    h,
				ctx:         gctx,
				rng:         rand.New(rand.NewSource(int64(h) + 2)),
			}
			hc.iterativeDeepen(state.Clone(), maximizer)
			helperResults[h] = hc.counter
			return nil
		})
	}

	eval, pv := primary.iterativeDeepen(state, maximizer)
	finished.Store(true)
	_ = g.Wait()

	total := primary.counter
	for _, c := range helperResults {
		total = total.Add(c)
	}
	return eval, pv, total
}

package minimax

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/gitcgsearch/internal/cache"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Searcher is a search.Engine implementing alpha-beta minimax with iterative
// deepening, aspiration windows and, optionally, Lazy-SMP parallelism. It
// owns a transposition table sized once at construction and reused across
// every Search call.
type Searcher[S search.Game[S, A], A comparable] struct {
	cfg Config
	tt  *cache.Cache[TTEntry[A]]
}

// New creates a Searcher for the given configuration.
func New[S search.Game[S, A], A comparable](cfg Config) (*Searcher[S, A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "minimax: invalid configuration")
	}
	return &Searcher[S, A]{
		cfg: cfg,
		tt:  cache.New[TTEntry[A]](float64(cfg.TTSizeMB)),
	}, nil
}

// ResetCache clears the shared transposition table, e.g. between unrelated
// searches where stale entries would only cost memory and cache-coherence
// overhead.
func (s *Searcher[S, A]) ResetCache() {
	s.tt.Clear()
}

// Search implements search.Engine.
func (s *Searcher[S, A]) Search(ctx context.Context, state S, maximizer search.PlayerID) (search.SearchResult[S, A], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var eval search.Eval
	var pv search.PV[A]
	var counter search.SearchCounter

	if s.cfg.Parallel {
		eval, pv, counter = s.searchParallel(ctx, state, maximizer)
	} else {
		sc := &searchContext[S, A]{
			cfg:         s.cfg,
			tt:          s.tt,
			targetRound: targetRound[S, A](state, s.cfg),
			finished:    new(atomic.Bool),
			positions:   new(atomic.Uint64),
			startTime:   time.Now(),
			helperID:    -1,
			ctx:         ctx,
			rng:         rand.New(rand.NewSource(1)),
		}
		eval, pv = sc.iterativeDeepen(state, maximizer)
		counter = sc.counter
	}

	klog.V(2).Infof("minimax: depth=%d states=%d evals=%d tt_hits=%d beta_prunes=%d aw_fail_lows=%d aw_fail_highs=%d",
		counter.LastDepth, counter.StatesVisited, counter.Evals, counter.TTHits, counter.BetaPrunes, counter.AWFailLows, counter.AWFailHighs)

	return search.SearchResult[S, A]{PV: pv, Eval: eval, Counter: counter}, nil
}

package mcts

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/janpfeifer/gitcgsearch/internal/cache"
)

// score returns the selection value of one child, from the parent's mover's
// perspective, under the configured policy. prop is the child's ratio,
// already merged with whatever the shared transposition table holds for
// its state hash (see recomputeSelection). The exploration term is computed
// in float32, matching the precision this codebase's other hot-path
// scoring arithmetic uses.
func (c Config) score(sumVisits uint32, prior float32, visits uint32, prop Proportion) float32 {
	ratio := float32(prop.Ratio())
	switch c.Policy {
	case PolicyUCB1:
		return ratio + math32.Sqrt(float32(c.UCB1C)*math32.Log(1+float32(sumVisits))/float32(1+visits))
	default: // PolicyPUCT
		cpuct := float32(c.CPuctInit) + float32(c.CPuctFactor)*math32.Log2((float32(sumVisits)+float32(c.CPuctBase))/float32(c.CPuctBase))
		var fpu float32
		if visits < 1 {
			fpu = 1
		}
		return ratio + cpuct*prior*math32.Sqrt(float32(sumVisits)+1)/float32(1+visits) + fpu
	}
}

// selectChild picks the highest-scoring child of n, honoring and refreshing
// n's selection cache. The cache avoids rescoring every child on every
// descent through a hot node: once a child is picked, the cache estimates
// how many additional visits it can absorb before a different child could
// plausibly overtake it, using a linear approximation of how fast scores
// drift with one more visit.
func selectChild[A comparable](cfg Config, tt *cache.Cache[Entry], n *node[A]) int {
	if n.cache.visitsRemaining > 0 && n.cache.best < len(n.children) {
		n.cache.visitsRemaining--
		return n.cache.best
	}
	return recomputeSelection(cfg, tt, n)
}

// recomputeSelection scores every child, picks the best, and sets up the
// next selection cache window. Each child's local Proportion is merged with
// whatever the shared transposition table holds under that child's state
// hash before scoring, so statistics accumulated through a transposing
// sibling line (one this node's own subtree never directly visited) still
// inform the choice.
func recomputeSelection[A comparable](cfg Config, tt *cache.Cache[Entry], n *node[A]) int {
	best, second := -1, -1
	var bestScore, secondScore float32
	for i := range n.children {
		ttEntry, _ := tt.Get(n.childHashes[i])
		merged := n.props[i].Add(ttEntry.Prop)
		s := cfg.score(n.sumVisits, n.priors[i], n.visits[i], merged)
		if best == -1 || s > bestScore {
			second, secondScore = best, bestScore
			best, bestScore = i, s
		} else if second == -1 || s > secondScore {
			second, secondScore = i, s
		}
	}

	gap := math32.Abs(bestScore - secondScore)
	if second == -1 || math.IsInf(float64(gap), 0) {
		gap = 1
	}
	bestVisits := float64(n.visits[best] + 1)
	remaining := int(0.7 * float64(gap) * bestVisits)
	if remaining < 1 {
		remaining = 1
	}
	if remaining > 100 {
		remaining = 100
	}
	n.cache = selectionCache{best: best, visitsRemaining: remaining}
	return best
}

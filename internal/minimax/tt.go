package minimax

import (
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Flag records which bound a TTEntry's Value represents, following the
// classic alpha-beta transposition-table convention.
type Flag uint8

const (
	FlagExact Flag = iota
	FlagLower
	FlagUpper
)

// TTEntry is what the minimax searcher stores per Zobrist hash.
type TTEntry[A comparable] struct {
	Flag  Flag
	Depth uint8
	Value search.Eval
	PV    search.PV[A]
}

// probeResult reports what probeTT found for a position.
type probeResult[A comparable] struct {
	value search.Eval
	pv    search.PV[A]
	cutAt bool // true if the caller can return value/pv immediately
}

// probeTT looks up hash and decides whether the stored entry is deep enough
// and tight enough to resolve the current (alpha, beta) window outright.
// Whether the hash merely had an entry at all (a "hit" for statistics, even
// one too shallow to use) is the caller's concern, not probeTT's: the caller
// already has found from the Get that produced entry.
func probeTT[A comparable](entry TTEntry[A], found bool, depth int, alpha, beta search.Eval) probeResult[A] {
	if !found || int(entry.Depth) < depth {
		return probeResult[A]{}
	}
	switch entry.Flag {
	case FlagExact:
		return probeResult[A]{value: entry.Value, pv: entry.PV, cutAt: true}
	case FlagUpper:
		if entry.Value <= alpha {
			return probeResult[A]{value: alpha, pv: entry.PV, cutAt: true}
		}
	case FlagLower:
		if entry.Value >= beta {
			return probeResult[A]{value: beta, pv: entry.PV, cutAt: true}
		}
	}
	return probeResult[A]{}
}

// shouldReplace is the ReplaceIf predicate used when inserting into the
// shared transposition table: a new entry may overwrite an existing one only
// if it was produced by a search of at least the same depth, so a shallow
// helper-thread result never clobbers a deeper primary-thread result.
func shouldReplace[A comparable](newDepth uint8) func(existing TTEntry[A]) bool {
	return func(existing TTEntry[A]) bool {
		return newDepth >= existing.Depth
	}
}

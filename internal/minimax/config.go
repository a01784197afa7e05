// Package minimax implements an alpha-beta game-tree search with iterative
// deepening, aspiration windows, internal iterative deepening and optional
// Lazy-SMP parallelism, sharing a transposition table across goroutines.
package minimax

import (
	"github.com/pkg/errors"

	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Config controls one Searcher's behavior.
type Config struct {
	// Depth is the full-width search horizon, in plies. Zero means search
	// only the tactical phase from the root.
	Depth uint8

	// TacticalDepth is how many plies of the reduced tactical ruleset to
	// search once Depth is exhausted, before falling back to StaticSearch.
	TacticalDepth uint8

	// StaticSearchMaxIters bounds how many StaticSearchAction steps are
	// taken beyond the tactical horizon before evaluating.
	StaticSearchMaxIters uint8

	// TargetRoundDelta is how many rounds past the position's current
	// RoundNumber the search is allowed to look, bounding search depth in
	// games without a fixed branching factor.
	TargetRoundDelta uint8

	// Parallel enables Lazy-SMP: one primary goroutine plus Helpers helper
	// goroutines searching the same position against a shared
	// transposition table.
	Parallel bool

	// Helpers is the number of helper goroutines used when Parallel is
	// true.
	Helpers int

	// EnablePVS enables null-window principal-variation-search: every
	// non-first sibling is first searched with a null window and
	// re-searched with the full window only if it fails high.
	EnablePVS bool

	// TTSizeMB is the approximate memory budget of the transposition table,
	// in megabytes.
	TTSizeMB uint32

	// Limits bounds wall-clock time and/or total positions visited. Nil
	// means unbounded (search runs to Depth).
	Limits *search.SearchLimits

	// PrepareForEval, when true, calls Game.PrepareForEval on a defensive
	// clone of the state immediately before calling Eval, for adapters
	// whose Eval depends on expensive derived state that Advance does not
	// maintain incrementally.
	PrepareForEval bool
}

// DefaultConfig returns sane defaults: a depth-4 tactical window, a
// 2-round full-width horizon, a 128MB table, and 24 Lazy-SMP helpers
// (used only if Parallel is set to true).
func DefaultConfig() Config {
	return Config{
		TacticalDepth:        4,
		StaticSearchMaxIters: 20,
		TargetRoundDelta:     2,
		TTSizeMB:             128,
		Helpers:              24,
	}
}

// Validate reports whether c is internally consistent.
func (c Config) Validate() error {
	if c.TargetRoundDelta == 0 {
		return errors.New("minimax: TargetRoundDelta must be > 0")
	}
	if c.Parallel && c.Helpers < 0 {
		return errors.New("minimax: Helpers must be >= 0")
	}
	if c.Limits != nil {
		if c.Limits.MaxPositions != nil && *c.Limits.MaxPositions == 0 {
			return errors.New("minimax: Limits.MaxPositions must be > 0 if set")
		}
	}
	return nil
}

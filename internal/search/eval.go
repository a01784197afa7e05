// Package search defines the primitives shared by every game-tree search
// algorithm in this repository: the bounded Eval scalar, the persistent PV
// list, search counters and limits, and the Game adapter contract that
// decouples the search engines from any particular game's rules.
package search

// Eval is a bounded, ordered scalar used to score a game position from one
// player's perspective. It partitions its range into a heuristic band around
// zero and two terminal bands near the extremes encoding "distance to
// win/loss" in plies.
type Eval int32

const (
	// winnerUnit is the width of one terminal "step". Any Eval with
	// absolute value >= winnerUnit is in a terminal band.
	winnerUnit Eval = 1 << 20

	// MaxSteps is the number of terminal steps available on each side,
	// i.e. how many distinct "mate in N" plies can be distinguished.
	MaxSteps = 64

	// aspirationDelta is the half-width used for the first aspiration
	// window around a heuristic value.
	aspirationDelta Eval = 11

	// epsilon is the smallest representable Eval unit, used to build a
	// null window around a value.
	epsilon Eval = 1
)

// widenDeltas is the widening schedule for failed aspiration windows,
// indexed by (failed step - 1) and saturating at the last entry.
var widenDeltas = [...]Eval{11, 42, 60, 120}

// Max is the highest representable Eval: a win in this ply.
// Min is the lowest representable Eval: a loss in this ply. Min == -Max.
const (
	Max Eval = Eval(MaxSteps) * winnerUnit
	Min Eval = -Max
)

// IsTerminal reports whether e falls in one of the win/loss bands rather than
// the heuristic band.
func (e Eval) IsTerminal() bool {
	if e < 0 {
		return -e >= winnerUnit
	}
	return e >= winnerUnit
}

// Negate flips an Eval for the opposing player's perspective. -Min == Max and
// -Max == Min exactly.
func (e Eval) Negate() Eval {
	return -e
}

// PlusOneStep moves a terminal Eval one step closer to its extremum
// (saturating at Max/Min), and is the identity on heuristic values. The
// engines in this module do not call it: terminal values propagate up the
// tree unchanged.
func (e Eval) PlusOneStep() Eval {
	if !e.IsTerminal() {
		return e
	}
	if e > 0 {
		if e > Max-winnerUnit {
			return Max
		}
		return e + winnerUnit
	}
	if e < Min+winnerUnit {
		return Min
	}
	return e - winnerUnit
}

// PlusUnit adds the widening delta for step (widenDeltas[step-1], saturating
// at the last entry) to e, used to build re-search windows.
func (e Eval) PlusUnit(step int) Eval {
	return e + deltaForStep(step)
}

// MinusUnit subtracts the widening delta for step from e.
func (e Eval) MinusUnit(step int) Eval {
	return e - deltaForStep(step)
}

func deltaForStep(step int) Eval {
	idx := step - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(widenDeltas) {
		idx = len(widenDeltas) - 1
	}
	return widenDeltas[idx]
}

// AspirationWindow returns the initial search window around e. Heuristic
// values get a narrow (e-delta, e+delta) window; terminal values get the
// full (Min, Max) window, since widening around a mate score is pointless.
func (e Eval) AspirationWindow() (lo, hi Eval) {
	if e.IsTerminal() {
		return Min, Max
	}
	return e - aspirationDelta, e + aspirationDelta
}

// NullWindow returns the degenerate (e, e+epsilon) window used by
// null-window PVS re-searches.
func (e Eval) NullWindow() (lo, hi Eval) {
	return e, e + epsilon
}

package search

import "math/rand"

// PlayerID identifies one of the two players in a game. Games with more than
// two players are out of scope.
type PlayerID uint8

const (
	Player0 PlayerID = iota
	Player1
)

// Other returns the opposing player.
func (p PlayerID) Other() PlayerID {
	return 1 - p
}

// ActionWeight pairs an action with a prior weight, used by MCTS to seed
// PUCT priors from a policy that is cheaper than a full rollout.
type ActionWeight[A any] struct {
	Action A
	Weight float32
}

// Game is the adapter contract a caller implements to plug its own game's
// rules into the search engines in this module. S is the concrete state
// type implementing Game[S, A]; A is the action type, which must be
// comparable so it can key transposition-table PV entries and be compared
// for move ordering.
//
// Implementations are expected to be cheap to Clone: the engines clone
// liberally rather than undo moves.
type Game[S any, A comparable] interface {
	// Winner reports the winning player, if the game has ended decisively.
	Winner() (PlayerID, bool)

	// ToMove reports which player acts next. The second return is false for
	// terminal or chance-only positions where no player is to move.
	ToMove() (PlayerID, bool)

	// Actions enumerates the legal actions from this state. It must not be
	// empty while a player is to move and no winner is decided: the MCTS
	// engine rejects that case (an error at the root, a panic below it),
	// while minimax scores such a node with Eval.
	Actions() []A

	// Advance applies a to the state in place. It returns an error if a is
	// not legal from the current state.
	Advance(a A) error

	// Clone returns an independent copy of the state.
	Clone() S

	// ZobristHash returns an incremental hash suitable for keying the
	// transposition table. Equal states must hash equal.
	ZobristHash() uint64

	// Eval returns a heuristic or terminal evaluation of the state from p's
	// perspective.
	Eval(p PlayerID) Eval

	// PrepareForEval gives the adapter a chance to run expensive
	// derived-state computation (e.g. memoized features) immediately before
	// Eval is called, rather than on every Advance.
	PrepareForEval()

	// RoundNumber returns the current round/ply counter, used to bound
	// full-width search depth in games without a fixed branching factor.
	RoundNumber() uint8

	// ConvertToTacticalSearch mutates the state in place into the reduced
	// ruleset used once the main search horizon is reached, restricting
	// Actions to tactically significant moves.
	ConvertToTacticalSearch()

	// MoveOrdering reorders actions in place, using pv as a hint for which
	// action is likely best.
	MoveOrdering(pv PV[A], actions []A)

	// ShuffleActions randomizes actions in place, used by Lazy-SMP helper
	// threads to diversify search order across the shared transposition
	// table.
	ShuffleActions(actions []A, rng *rand.Rand)

	// StaticSearchAction returns a cheap heuristic action for p to take
	// during the static (non-backtracking) search phase beyond the
	// tactical horizon. The second return is false if no action applies.
	StaticSearchAction(p PlayerID) (A, bool)

	// ActionWeights returns prior weights over actions, used to seed MCTS
	// PUCT priors.
	ActionWeights(actions []A) []ActionWeight[A]

	// IsTacticalAction reports whether a is significant enough to remain in
	// the reduced tactical ruleset.
	IsTacticalAction(a A) bool

	// DepthExtension returns how many extra plies of search depth a merits,
	// e.g. for forcing moves. Zero means no extension.
	DepthExtension(a A) uint8

	// HidePrivateInformation mutates the state in place to redact
	// information not visible to p, for adapters modeling hidden
	// information. Adapters with no hidden information may no-op.
	HidePrivateInformation(p PlayerID)
}

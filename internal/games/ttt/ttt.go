// Package ttt implements tic-tac-toe as a search.Game fixture, used to
// exercise both the minimax and MCTS engines end-to-end without depending on
// any particular card game's rules.
package ttt

import (
	"math/bits"
	"math/rand"

	"github.com/janpfeifer/gitcgsearch/internal/generics"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Cell is a board square's occupant.
type Cell uint8

const (
	Empty Cell = iota
	Cross
	Circle
)

// winningPatterns enumerates every 3-in-a-row bitboard mask over the 9
// squares, indexed 0 (top-left) to 8 (bottom-right), row-major.
var winningPatterns = [8]uint16{
	0b000000111, 0b000111000, 0b111000000, // rows
	0b001001001, 0b010010010, 0b100100100, // columns
	0b100010001, 0b001010100, // diagonals
}

// State is a tic-tac-toe position. The zero value is the empty starting
// position with Cross to move.
type State struct {
	bitboards   [2]uint16 // indexed by Cross-1, Circle-1
	moveCount   uint8
	winner      search.PlayerID
	hasWinner   bool
	isDraw      bool
}

// playerCell maps a search.PlayerID to the board symbol it plays.
func playerCell(p search.PlayerID) Cell {
	if p == search.Player0 {
		return Cross
	}
	return Circle
}

func (s *State) occupied() uint16 {
	return s.bitboards[0] | s.bitboards[1]
}

func (s *State) checkTermination() {
	for _, pattern := range winningPatterns {
		if s.bitboards[0]&pattern == pattern {
			s.winner, s.hasWinner = search.Player0, true
			return
		}
		if s.bitboards[1]&pattern == pattern {
			s.winner, s.hasWinner = search.Player1, true
			return
		}
	}
	if s.moveCount == 9 {
		s.isDraw = true
	}
}

// Winner implements search.Game.
func (s *State) Winner() (search.PlayerID, bool) {
	return s.winner, s.hasWinner
}

// ToMove implements search.Game.
func (s *State) ToMove() (search.PlayerID, bool) {
	if s.hasWinner || s.isDraw {
		return 0, false
	}
	if s.moveCount%2 == 0 {
		return search.Player0, true
	}
	return search.Player1, true
}

// Actions implements search.Game: legal actions are the empty squares,
// numbered 0-8.
func (s *State) Actions() []int {
	free := uint(0b111111111 ^ uint(s.occupied()))
	actions := make([]int, 0, 9)
	for free != 0 {
		actions = append(actions, bits.TrailingZeros(free))
		free &= free - 1
	}
	return actions
}

// Advance implements search.Game.
func (s *State) Advance(a int) error {
	toMove, ok := s.ToMove()
	if !ok {
		return errGameOver
	}
	mask := uint16(1) << uint(a)
	if s.occupied()&mask != 0 {
		return errIllegalMove
	}
	idx := 0
	if playerCell(toMove) == Circle {
		idx = 1
	}
	s.bitboards[idx] |= mask
	s.moveCount++
	s.checkTermination()
	return nil
}

// Clone implements search.Game.
func (s *State) Clone() *State {
	clone := *s
	return &clone
}

// ZobristHash implements search.Game. Since the full board fits in 18 bits,
// a direct pack is an exact, collision-free hash.
func (s *State) ZobristHash() uint64 {
	return uint64(s.bitboards[0]) | uint64(s.bitboards[1])<<16
}

// Eval implements search.Game: an immediate win/loss is terminal; otherwise
// a simple center-and-piece-count heuristic.
func (s *State) Eval(p search.PlayerID) search.Eval {
	if s.hasWinner {
		if s.winner == p {
			return search.Max
		}
		return search.Min
	}
	if s.isDraw {
		return 0
	}
	var score search.Eval
	const centerMask = uint16(1) << 4
	myIdx, oppIdx := 0, 1
	if p == search.Player1 {
		myIdx, oppIdx = 1, 0
	}
	if s.bitboards[myIdx]&centerMask != 0 {
		score += 3
	}
	if s.bitboards[oppIdx]&centerMask != 0 {
		score -= 3
	}
	score += search.Eval(bits.OnesCount16(s.bitboards[myIdx])) - search.Eval(bits.OnesCount16(s.bitboards[oppIdx]))
	return score
}

// PrepareForEval implements search.Game; Eval needs no derived state here.
func (s *State) PrepareForEval() {}

// RoundNumber implements search.Game.
func (s *State) RoundNumber() uint8 {
	return s.moveCount
}

// ConvertToTacticalSearch implements search.Game. The game is small enough
// that the tactical ruleset is identical to the full ruleset.
func (s *State) ConvertToTacticalSearch() {}

// MoveOrdering implements search.Game: the PV hint's head, if legal here, is
// moved to the front.
func (s *State) MoveOrdering(pv search.PV[int], actions []int) {
	head, ok := pv.Head()
	if !ok {
		return
	}
	for i, a := range actions {
		if a == head {
			actions[0], actions[i] = actions[i], actions[0]
			return
		}
	}
}

// ShuffleActions implements search.Game.
func (s *State) ShuffleActions(actions []int, rng *rand.Rand) {
	rng.Shuffle(len(actions), func(i, j int) { actions[i], actions[j] = actions[j], actions[i] })
}

// StaticSearchAction implements search.Game: play the first free square.
func (s *State) StaticSearchAction(p search.PlayerID) (int, bool) {
	actions := s.Actions()
	if len(actions) == 0 {
		return 0, false
	}
	return actions[0], true
}

// ActionWeights implements search.Game: uniform priors, with a bonus for
// the center and corners.
func (s *State) ActionWeights(actions []int) []search.ActionWeight[int] {
	rawWeights := make([]float32, len(actions))
	for i, a := range actions {
		w := float32(1)
		if a == 4 {
			w = 2
		} else if a%2 == 0 {
			w = 1.5
		}
		rawWeights[i] = w
	}

	// Present the heaviest (center, then corners) squares first: this gives
	// the MCTS arena's priors a deterministic, highest-weight-first order,
	// which is convenient for its tie-breaking selection cache.
	weights := make([]search.ActionWeight[int], len(actions))
	for out, in := range generics.SliceOrdering(rawWeights, true) {
		weights[out] = search.ActionWeight[int]{Action: actions[in], Weight: rawWeights[in]}
	}
	return weights
}

// IsTacticalAction implements search.Game: every action is tactical in this
// small a game.
func (s *State) IsTacticalAction(a int) bool {
	return true
}

// DepthExtension implements search.Game: no extensions.
func (s *State) DepthExtension(a int) uint8 {
	return 0
}

// HidePrivateInformation implements search.Game: tic-tac-toe has no hidden
// information.
func (s *State) HidePrivateInformation(p search.PlayerID) {}

var (
	errIllegalMove = gameError("ttt: square already occupied")
	errGameOver    = gameError("ttt: game already over")
)

type gameError string

func (e gameError) Error() string { return string(e) }

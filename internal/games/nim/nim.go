// Package nim implements multi-pile Nim as a search.Game fixture. Nim has a
// closed-form optimal strategy (the Sprague-Grundy nim-sum), which makes it
// useful as an oracle: both engines' chosen actions can be checked against
// the known-correct move rather than just against each other.
package nim

import (
	"math/rand"

	"github.com/janpfeifer/gitcgsearch/internal/search"
)

// Action removes Count objects from Pile.
type Action struct {
	Pile  int
	Count int
}

// State is a Nim position under normal play (the player who takes the last
// object wins).
type State struct {
	piles     []int
	toMove    search.PlayerID
	moveCount uint8
}

// New returns the starting position for the given pile sizes.
func New(piles ...int) *State {
	cp := make([]int, len(piles))
	copy(cp, piles)
	return &State{piles: cp, toMove: search.Player0}
}

func (s *State) total() int {
	sum := 0
	for _, p := range s.piles {
		sum += p
	}
	return sum
}

// Winner implements search.Game.
func (s *State) Winner() (search.PlayerID, bool) {
	if s.total() == 0 {
		return s.toMove.Other(), true
	}
	return 0, false
}

// ToMove implements search.Game.
func (s *State) ToMove() (search.PlayerID, bool) {
	if s.total() == 0 {
		return 0, false
	}
	return s.toMove, true
}

// Actions implements search.Game: remove any positive count from any
// nonempty pile.
func (s *State) Actions() []Action {
	actions := make([]Action, 0, len(s.piles)*2)
	for i, p := range s.piles {
		for c := 1; c <= p; c++ {
			actions = append(actions, Action{Pile: i, Count: c})
		}
	}
	return actions
}

// Advance implements search.Game.
func (s *State) Advance(a Action) error {
	if a.Pile < 0 || a.Pile >= len(s.piles) {
		return errIllegalMove
	}
	if a.Count <= 0 || a.Count > s.piles[a.Pile] {
		return errIllegalMove
	}
	s.piles[a.Pile] -= a.Count
	s.toMove = s.toMove.Other()
	if s.moveCount < 255 {
		s.moveCount++
	}
	return nil
}

// Clone implements search.Game.
func (s *State) Clone() *State {
	cp := make([]int, len(s.piles))
	copy(cp, s.piles)
	return &State{piles: cp, toMove: s.toMove, moveCount: s.moveCount}
}

// ZobristHash implements search.Game: starting from whose turn it is, mix
// in each pile count FNV-style (multiply by a prime, then xor).
func (s *State) ZobristHash() uint64 {
	h := uint64(s.toMove)
	for _, p := range s.piles {
		h = h*1099511628211 ^ uint64(p+1)
	}
	return h
}

// NimSum returns the Sprague-Grundy value of the position: nonzero means the
// player to move wins with optimal play.
func (s *State) NimSum() int {
	sum := 0
	for _, p := range s.piles {
		sum ^= p
	}
	return sum
}

// Eval implements search.Game. Nim's value is exactly known from the
// nim-sum, so Eval returns a terminal-strength signal rather than a
// heuristic one: this lets tests assert both engines agree with the
// closed-form oracle.
func (s *State) Eval(p search.PlayerID) search.Eval {
	toMove, ok := s.ToMove()
	if !ok {
		winner, _ := s.Winner()
		if winner == p {
			return search.Max
		}
		return search.Min
	}
	winningForMover := s.NimSum() != 0
	if toMove == p {
		if winningForMover {
			return search.Max / 2
		}
		return search.Min / 2
	}
	if winningForMover {
		return search.Min / 2
	}
	return search.Max / 2
}

// PrepareForEval implements search.Game.
func (s *State) PrepareForEval() {}

// RoundNumber implements search.Game: the number of moves played so far.
func (s *State) RoundNumber() uint8 {
	return s.moveCount
}

// ConvertToTacticalSearch implements search.Game: Nim has no reduced
// ruleset.
func (s *State) ConvertToTacticalSearch() {}

// MoveOrdering implements search.Game.
func (s *State) MoveOrdering(pv search.PV[Action], actions []Action) {
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
func (s *State) ShuffleActions(actions []Action, rng *rand.Rand) {
	rng.Shuffle(len(actions), func(i, j int) { actions[i], actions[j] = actions[j], actions[i] })
}

// StaticSearchAction implements search.Game: take one object from the
// largest pile.
func (s *State) StaticSearchAction(p search.PlayerID) (Action, bool) {
	best := -1
	for i, pile := range s.piles {
		if pile > 0 && (best < 0 || pile > s.piles[best]) {
			best = i
		}
	}
	if best < 0 {
		return Action{}, false
	}
	return Action{Pile: best, Count: 1}, true
}

// ActionWeights implements search.Game: uniform priors.
func (s *State) ActionWeights(actions []Action) []search.ActionWeight[Action] {
	weights := make([]search.ActionWeight[Action], len(actions))
	for i, a := range actions {
		weights[i] = search.ActionWeight[Action]{Action: a, Weight: 1}
	}
	return weights
}

// IsTacticalAction implements search.Game.
func (s *State) IsTacticalAction(a Action) bool {
	return true
}

// DepthExtension implements search.Game.
func (s *State) DepthExtension(a Action) uint8 {
	return 0
}

// HidePrivateInformation implements search.Game: Nim has no hidden
// information.
func (s *State) HidePrivateInformation(p search.PlayerID) {}

type gameError string

func (e gameError) Error() string { return string(e) }

const errIllegalMove = gameError("nim: illegal move")

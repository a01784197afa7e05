package search

import "context"

// Engine searches a position and recommends a line of play. Minimax and MCTS
// both implement Engine over the same Game contract, so callers can swap one
// for the other without touching adapter code.
type Engine[S Game[S, A], A comparable] interface {
	Search(ctx context.Context, state S, maximizer PlayerID) (SearchResult[S, A], error)
}

// SearchResult is what an Engine returns: the best line found, its
// evaluation from maximizer's perspective, and statistics about the search
// that produced it.
type SearchResult[S Game[S, A], A comparable] struct {
	PV      PV[A]
	Eval    Eval
	Counter SearchCounter
}

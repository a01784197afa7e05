package mcts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/gitcgsearch/internal/games/nim"
	"github.com/janpfeifer/gitcgsearch/internal/games/ttt"
	"github.com/janpfeifer/gitcgsearch/internal/mcts"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

func smallConfig() mcts.Config {
	cfg := mcts.DefaultConfig()
	cfg.MaxTraverses = 300
	cfg.MinTraverses = 300
	cfg.PlayoutsPerLeaf = 4
	cfg.MaxPlayoutPlies = 20
	return cfg
}

func TestMCTSFindsForcedWinInOne(t *testing.T) {
	state := &ttt.State{}
	for _, a := range []int{0, 3, 1, 4} {
		require.NoError(t, state.Advance(a))
	}
	s, err := mcts.New[*ttt.State, int](smallConfig(), 4)
	require.NoError(t, err)

	res, err := s.Search(context.Background(), state, search.Player0)
	require.NoError(t, err)
	action, ok := res.PV.Head()
	require.True(t, ok)
	assert.Equal(t, 2, action)
}

func TestMCTSAgreesWithNimSumOracleMostly(t *testing.T) {
	// A single-pile Nim position is maximally simple for a playout policy
	// to solve: take-all wins immediately whenever the nim-sum is nonzero.
	state := nim.New(5)
	cfg := smallConfig()
	cfg.MaxTraverses = 150
	cfg.MinTraverses = 150
	s, err := mcts.New[*nim.State, nim.Action](cfg, 1)
	require.NoError(t, err)

	res, err := s.Search(context.Background(), state, search.Player0)
	require.NoError(t, err)
	action, ok := res.PV.Head()
	require.True(t, ok)
	assert.Equal(t, nim.Action{Pile: 0, Count: 5}, action)
}

func TestMCTSDecidedRootReportsEvalWithoutError(t *testing.T) {
	state := &ttt.State{}
	// X completes the left column (0, 3, 6) on its fourth move, so the game
	// is decided and the remaining moves of the list are never played.
	for _, a := range []int{0, 1, 3, 4, 8, 2, 6, 5, 7} {
		toMove, ok := state.ToMove()
		if !ok {
			break
		}
		_ = toMove
		if err := state.Advance(a); err != nil {
			break
		}
	}
	if _, ok := state.ToMove(); ok {
		t.Skip("fixture did not reach a terminal board; sequence needs adjusting")
	}

	s, err := mcts.New[*ttt.State, int](smallConfig(), 1)
	require.NoError(t, err)
	_, err = s.Search(context.Background(), state, search.Player0)
	assert.NoError(t, err, "a decided terminal root should report its eval, not error")
}

package minimax_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/gitcgsearch/internal/games/nim"
	"github.com/janpfeifer/gitcgsearch/internal/games/ttt"
	"github.com/janpfeifer/gitcgsearch/internal/minimax"
	"github.com/janpfeifer/gitcgsearch/internal/search"
)

func tttSearcher(t *testing.T, depth uint8) *minimax.Searcher[*ttt.State, int] {
	t.Helper()
	cfg := minimax.DefaultConfig()
	cfg.Depth = depth
	cfg.TargetRoundDelta = 9
	s, err := minimax.New[*ttt.State, int](cfg)
	require.NoError(t, err)
	return s
}

func TestMinimaxFindsForcedWinInOne(t *testing.T) {
	// X has two in a row on the top row and to move: X0 X1 _ / O3 O4 _ / _ _ _
	state := &ttt.State{}
	for _, a := range []int{0, 3, 1, 4} {
		require.NoError(t, state.Advance(a))
	}
	s := tttSearcher(t, 3)
	res, err := s.Search(context.Background(), state, search.Player0)
	require.NoError(t, err)
	assert.True(t, res.Eval.IsTerminal())
	assert.Greater(t, res.Eval, search.Eval(0))
	action, ok := res.PV.Head()
	require.True(t, ok)
	assert.Equal(t, 2, action)
}

func TestMinimaxOptimalPlayDraws(t *testing.T) {
	state := &ttt.State{}
	s := tttSearcher(t, 9)
	for i := 0; i < 9; i++ {
		toMove, ok := state.ToMove()
		if !ok {
			break
		}
		res, err := s.Search(context.Background(), state, toMove)
		require.NoError(t, err)
		action, ok := res.PV.Head()
		require.True(t, ok)
		require.NoError(t, state.Advance(action))
	}
	winner, hasWinner := state.Winner()
	assert.False(t, hasWinner, "optimal tic-tac-toe never produces a winner, got winner=%v", winner)
}

func TestTranspositionTableReducesRevisitedStatesVisited(t *testing.T) {
	state := &ttt.State{}
	require.NoError(t, state.Advance(0))

	cfg := minimax.DefaultConfig()
	cfg.Depth = 6
	cfg.TargetRoundDelta = 9
	s, err := minimax.New[*ttt.State, int](cfg)
	require.NoError(t, err)

	first, err := s.Search(context.Background(), state, search.Player1)
	require.NoError(t, err)

	second, err := s.Search(context.Background(), state, search.Player1)
	require.NoError(t, err)

	assert.Greater(t, second.Counter.TTHits, uint64(0))
	assert.Less(t, second.Counter.StatesVisited, first.Counter.StatesVisited)
}

func TestLazySMPAgreesWithSequentialOnSmallGame(t *testing.T) {
	state := &ttt.State{}
	require.NoError(t, state.Advance(4))

	cfg := minimax.DefaultConfig()
	cfg.Depth = 5
	cfg.TargetRoundDelta = 9
	seq, err := minimax.New[*ttt.State, int](cfg)
	require.NoError(t, err)
	seqResult, err := seq.Search(context.Background(), state, search.Player1)
	require.NoError(t, err)

	cfg.Parallel = true
	cfg.Helpers = 4
	par, err := minimax.New[*ttt.State, int](cfg)
	require.NoError(t, err)
	parResult, err := par.Search(context.Background(), state, search.Player1)
	require.NoError(t, err)

	assert.Equal(t, seqResult.Eval, parResult.Eval)
}

func TestCooperativeCancellationRespectsWallClockBound(t *testing.T) {
	state := nim.New(10, 10, 10, 10)
	maxTime := 50 * time.Millisecond
	cfg := minimax.DefaultConfig()
	cfg.Depth = 200
	cfg.TargetRoundDelta = 50
	cfg.Limits = &search.SearchLimits{MaxTime: &maxTime}
	s, err := minimax.New[*nim.State, nim.Action](cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Search(context.Background(), state, search.Player0)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestNimAgreesWithNimSumOracle(t *testing.T) {
	state := nim.New(3, 4, 5)
	cfg := minimax.DefaultConfig()
	cfg.Depth = 12
	cfg.TargetRoundDelta = 12
	s, err := minimax.New[*nim.State, nim.Action](cfg)
	require.NoError(t, err)

	res, err := s.Search(context.Background(), state, search.Player0)
	require.NoError(t, err)

	winningForMover := state.NimSum() != 0
	if winningForMover {
		assert.Greater(t, res.Eval, search.Eval(0))
	} else {
		assert.Less(t, res.Eval, search.Eval(0))
	}
}

package strategy_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/strategy"
)

var stuck = engine.Board{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
}

func TestNew(t *testing.T) {
	for _, name := range strategy.Names() {
		s, err := strategy.New(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	_, err := strategy.New("psychic", nil)
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"corner", "greedy", "lookahead", "random"}, strategy.Names())
}

func TestStrategies_ReturnEffectiveMoves(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	boards := []engine.Board{
		{{2, 2}, {0, 0}},
		{{0, 0, 0}, {0, 4, 0}, {0, 0, 0}},
		{{2, 4, 8, 16}, {4, 8, 16, 32}, {8, 16, 32, 64}, {16, 32, 64, 0}},
	}

	for _, name := range strategy.Names() {
		s, err := strategy.New(name, rng)
		require.NoError(t, err)

		for _, board := range boards {
			dir, ok := s.NextMove(board)
			require.True(t, ok, "%s on %v", name, board)
			assert.True(t, engine.CanMove(board, dir), "%s chose ineffective %s on %v", name, dir, board)
		}

		_, ok := s.NextMove(stuck)
		assert.False(t, ok, "%s must report no move on a stuck board", name)
	}
}

func TestGreedy_PrefersScore(t *testing.T) {
	board := engine.Board{
		{0, 0, 0},
		{0, 0, 0},
		{8, 8, 2},
	}
	dir, ok := strategy.Greedy{}.NextMove(board)
	require.True(t, ok)
	assert.Contains(t, []engine.Direction{engine.Left, engine.Right}, dir)
}

func TestCorner_Order(t *testing.T) {
	dir, ok := strategy.Corner{}.NextMove(engine.Board{{2, 0}, {0, 0}})
	require.True(t, ok)
	assert.Equal(t, engine.Down, dir)

	dir, ok = strategy.Corner{}.NextMove(engine.Board{{0, 0}, {4, 0}})
	require.True(t, ok)
	assert.Equal(t, engine.Right, dir, "down and left are blocked")
}

func TestEvaluate(t *testing.T) {
	empty := strategy.Evaluate(engine.Board{{2, 0}, {0, 0}})
	full := strategy.Evaluate(engine.Board{{2, 4}, {8, 16}})
	assert.Greater(t, empty, full)

	assert.Zero(t, strategy.Evaluate(engine.Board{}))
}

func newService() service.GameService {
	seed := uint64(0)
	return service.NewGameService(service.Options{
		NewRand: func() *rand.Rand {
			seed++
			return rand.New(rand.NewPCG(seed, 99))
		},
	})
}

func TestPlay_FinishesGame(t *testing.T) {
	size := 3
	winTile := 64
	result, err := strategy.Play(context.Background(), newService(), strategy.Greedy{},
		service.NewGameRequest{Size: &size, WinTile: &winTile}, 0)
	require.NoError(t, err)

	assert.True(t, result.Progress.Terminal())
	assert.Equal(t, "greedy", result.Strategy)
	assert.Equal(t, 3, result.BoardSize)
	assert.Equal(t, 64, result.WinTile)
	assert.Positive(t, result.Moves)
	assert.True(t, engine.IsPowerOfTwo(result.MaxTile))
	if result.Progress == engine.GameWon {
		assert.GreaterOrEqual(t, result.MaxTile, 64)
	}
}

func TestPlay_MoveLimit(t *testing.T) {
	result, err := strategy.Play(context.Background(), newService(), strategy.Corner{}, service.NewGameRequest{}, 5)
	assert.ErrorIs(t, err, strategy.ErrMoveLimit)
	require.NotNil(t, result)
	assert.Equal(t, 5, result.Moves)
	assert.Equal(t, engine.InProgress, result.Progress)
}

func TestPlay_InvalidRequest(t *testing.T) {
	size := 8
	_, err := strategy.Play(context.Background(), newService(), strategy.Corner{}, service.NewGameRequest{Size: &size}, 0)
	assert.ErrorIs(t, err, engine.ErrInvalidSize)
}

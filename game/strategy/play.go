package strategy

import (
	"context"
	"errors"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Result summarises one automated game.
type Result struct {
	Strategy  string
	Score     int
	MaxTile   int
	Moves     int
	Progress  engine.Progress
	BoardSize int
	WinTile   int
}

// ErrMoveLimit is returned when a game does not finish within the move limit.
var ErrMoveLimit = errors.New("move limit reached")

// Play runs one game through game with strat until it is won, lost, or
// maxMoves moves have been made (0 means no limit). The game service may be
// local or remote.
func Play(ctx context.Context, game service.GameService, strat Strategy, req service.NewGameRequest, maxMoves int) (*Result, error) {
	state, err := game.NewGame(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{Strategy: strat.Name(), BoardSize: state.BoardSize, WinTile: state.WinTile}
	for !state.Progress.Terminal() {
		if maxMoves > 0 && result.Moves >= maxMoves {
			result.fill(state)
			return result, ErrMoveLimit
		}

		dir, ok := strat.NextMove(state.Board)
		if !ok {
			break
		}

		moved, err := game.Move(ctx, service.MoveRequest{
			Board:     state.Board,
			Score:     state.Score,
			Direction: dir,
			WinTile:   state.WinTile,
		})
		if err != nil {
			return nil, err
		}
		result.Moves++
		state = &moved.GameState
	}

	result.fill(state)
	return result, nil
}

func (r *Result) fill(state *engine.GameState) {
	r.Score = state.Score
	r.MaxTile = engine.MaxTile(state.Board)
	r.Progress = state.Progress
}

package service

import (
	"context"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// NewGame creates a board with two random tiles.
	NewGame(ctx context.Context, req NewGameRequest) (*engine.GameState, error)

	// Move applies one direction to the board carried in req.
	Move(ctx context.Context, req MoveRequest) (*MoveResult, error)

	// Rules reports limits and defaults.
	Rules(ctx context.Context) (*RulesInfo, error)
}

// ScoreBoard records finished games. It is independent of GameService and
// only available when a score store is configured.
type ScoreBoard interface {
	Submit(ctx context.Context, req SubmitScoreRequest) (*ScoreEntry, error)
	Top(ctx context.Context, query TopScoresQuery) ([]ScoreEntry, error)
}

// ScoreStore persists score entries.
type ScoreStore interface {
	// Save stores entry and fills in its ID and CreatedAt.
	Save(ctx context.Context, entry *ScoreEntry) error

	// Top returns the highest scores for boardSize, or for every size when
	// boardSize is 0.
	Top(ctx context.Context, boardSize, limit int) ([]ScoreEntry, error)
}

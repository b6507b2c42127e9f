package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Player-facing move messages.
const (
	MessageWon         = "Congratulations! You won!"
	MessageGameOver    = "Game Over. No more valid moves."
	MessageIneffective = "Move was not effective; board state unchanged by slide."
)

// NewGameRequest asks for a fresh board. Nil fields take the configured
// defaults.
type NewGameRequest struct {
	Size    *int `json:"size,omitempty"`
	WinTile *int `json:"win_tile,omitempty"`
}

// MoveRequest carries the client's complete game state plus a direction.
// A zero WinTile takes the configured default.
type MoveRequest struct {
	Board     engine.Board     `json:"board"`
	Score     int              `json:"score"`
	Direction engine.Direction `json:"direction"`
	WinTile   int              `json:"win_tile,omitempty"`
}

// MoveResult is the new game state after a move.
type MoveResult struct {
	engine.GameState
	MoveWasEffective bool   `json:"move_was_effective"`
	Message          string `json:"message,omitempty"`
}

// RulesInfo describes the limits and defaults a client needs to build valid
// requests.
type RulesInfo struct {
	MinBoardSize     int            `json:"min_board_size"`
	MaxBoardSize     int            `json:"max_board_size"`
	DefaultBoardSize int            `json:"default_board_size"`
	DefaultWinTile   int            `json:"default_win_tile"`
	MinWinTile       int            `json:"min_win_tile"`
	FourProbability  float64        `json:"four_probability"`
	Directions       map[string]int `json:"directions"`
	Progress         []string       `json:"progress"`
}

// ScoreEntry is one finished (or abandoned) game on the scoreboard.
type ScoreEntry struct {
	ID        int64           `json:"id"`
	Player    string          `json:"player"`
	Score     int             `json:"score"`
	BoardSize int             `json:"board_size"`
	WinTile   int             `json:"win_tile"`
	MaxTile   int             `json:"max_tile"`
	Progress  engine.Progress `json:"progress"`
	CreatedAt time.Time       `json:"created_at"`
}

// SubmitScoreRequest is a client's claim about a game it played.
type SubmitScoreRequest struct {
	Player    string          `json:"player"`
	Score     int             `json:"score"`
	BoardSize int             `json:"board_size"`
	WinTile   int             `json:"win_tile,omitempty"`
	MaxTile   int             `json:"max_tile"`
	Progress  engine.Progress `json:"progress"`
}

// TopScoresQuery selects scoreboard entries. A zero BoardSize matches every
// size; a zero Limit takes DefaultTopLimit.
type TopScoresQuery struct {
	BoardSize int `json:"board_size,omitempty"`
	Limit     int `json:"limit,omitempty"`
}

// Scoreboard limits
const (
	DefaultTopLimit = 10
	MaxTopLimit     = 100
	MaxPlayerLength = 32
	DefaultPlayer   = "anonymous"
)

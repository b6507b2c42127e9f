package service

import (
	"context"
	"errors"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Error types reported to clients.
const (
	ErrTypeInvalidBoard     = "invalid_board"
	ErrTypeInvalidDirection = "invalid_direction"
	ErrTypeInvalidSize      = "invalid_size"
	ErrTypeInvalidWinTile   = "invalid_win_tile"
	ErrTypeInvalidScore     = "invalid_score"
	ErrTypeBadRequest       = "bad_request"
	ErrTypeNotFound         = "not_found"
	ErrTypeInternal         = "internal"
)

// ErrorType classifies err for transport responses.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidBoard):
		return ErrTypeInvalidBoard
	case errors.Is(err, engine.ErrInvalidDirection):
		return ErrTypeInvalidDirection
	case errors.Is(err, engine.ErrInvalidSize):
		return ErrTypeInvalidSize
	case errors.Is(err, engine.ErrInvalidWinTile):
		return ErrTypeInvalidWinTile
	case errors.Is(err, engine.ErrInvalidScore):
		return ErrTypeInvalidScore
	case errors.Is(err, ErrScoreboardDisabled):
		return ErrTypeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrTypeBadRequest
	}
	return ErrTypeInternal
}

package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoard     = errors.New("invalid board")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidSize      = errors.New("invalid board size")
	ErrInvalidWinTile   = errors.New("invalid win tile")
	ErrInvalidScore     = errors.New("invalid score")
)

// IsInputError reports whether err was caused by client input rather than a
// runtime fault.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidBoard) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrInvalidWinTile) ||
		errors.Is(err, ErrInvalidScore)
}

// ValidateSize checks that size is within [MinBoardSize, MaxBoardSize].
func ValidateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidSize, MinBoardSize, MaxBoardSize, size)
	}
	return nil
}

// ValidateWinTile checks that the win tile is a power of two between
// MinWinTile and MaxTileValue.
func ValidateWinTile(winTile int) error {
	if winTile < MinWinTile || winTile > MaxTileValue || !IsPowerOfTwo(winTile) {
		return fmt.Errorf("%w: must be a power of two between %d and %d, got %d", ErrInvalidWinTile, MinWinTile, MaxTileValue, winTile)
	}
	return nil
}

// ValidateDirection checks the wire code.
func ValidateDirection(dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: must be 1 (up), 2 (down), 3 (left) or 4 (right), got %d", ErrInvalidDirection, int(dir))
	}
	return nil
}

// ValidateScore rejects negative scores and scores above MaxScore.
func ValidateScore(score int) error {
	if score < 0 {
		return fmt.Errorf("%w: must be non-negative, got %d", ErrInvalidScore, score)
	}
	if score > MaxScore {
		return fmt.Errorf("%w: must be at most %d, got %d", ErrInvalidScore, MaxScore, score)
	}
	return nil
}

// ValidateBoard checks shape and tile values: the board must be square, its
// size within range, and every cell 0 or a tile (see IsTile).
func ValidateBoard(board Board) error {
	n := len(board)
	if n == 0 {
		return fmt.Errorf("%w: board is empty", ErrInvalidBoard)
	}
	if n < MinBoardSize || n > MaxBoardSize {
		return fmt.Errorf("%w: %d rows, size must be between %d and %d", ErrInvalidBoard, n, MinBoardSize, MaxBoardSize)
	}

	for r, row := range board {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d cells, want %d (board must be square)", ErrInvalidBoard, r, len(row), n)
		}
		for c, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: negative value %d at (%d,%d)", ErrInvalidBoard, v, r, c)
			}
			if v == 0 || IsTile(v) {
				continue
			}
			switch {
			case !IsPowerOfTwo(v):
				return fmt.Errorf("%w: value %d at (%d,%d) is not a power of two", ErrInvalidBoard, v, r, c)
			case v < 2:
				return fmt.Errorf("%w: value %d at (%d,%d), tiles start at 2", ErrInvalidBoard, v, r, c)
			default:
				return fmt.Errorf("%w: value %d at (%d,%d) exceeds the largest tile %d", ErrInvalidBoard, v, r, c, MaxTileValue)
			}
		}
	}
	return nil
}

// ValidateState validates everything a move request carries besides the
// direction.
func ValidateState(board Board, score, winTile int) error {
	if err := ValidateBoard(board); err != nil {
		return err
	}
	if err := ValidateScore(score); err != nil {
		return err
	}
	return ValidateWinTile(winTile)
}

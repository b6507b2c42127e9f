package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestValidateSize(t *testing.T) {
	for size := -1; size <= 8; size++ {
		err := ValidateSize(size)
		valid := size >= MinBoardSize && size <= MaxBoardSize
		if valid && err != nil {
			t.Errorf("size %d: unexpected error %v", size, err)
		}
		if !valid && !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestValidateWinTile(t *testing.T) {
	tests := []struct {
		winTile int
		valid   bool
	}{
		{8, true},
		{16, true},
		{2048, true},
		{1 << 20, true},
		{MaxTileValue, true},
		{MaxTileValue * 2, false},
		{0, false},
		{2, false},
		{4, false},
		{-2048, false},
		{2047, false},
		{3000, false},
	}

	for _, test := range tests {
		t.Run(fmt.Sprint(test.winTile), func(t *testing.T) {
			err := ValidateWinTile(test.winTile)
			if test.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.valid && !errors.Is(err, ErrInvalidWinTile) {
				t.Errorf("expected ErrInvalidWinTile, got %v", err)
			}
		})
	}
}

func TestValidateBoard(t *testing.T) {
	tests := []struct {
		name    string
		board   Board
		wantErr bool
	}{
		{"valid 2x2", Board{{2, 0}, {0, 4}}, false},
		{"valid empty 6x6", NewEmptyBoard(6), false},
		{"valid large tiles", Board{{65536, 131072}, {0, 2}}, false},
		{"largest tile", Board{{MaxTileValue, 0}, {0, 2}}, false},
		{"above largest tile", Board{{MaxTileValue * 2, 0}, {0, 2}}, true},
		{"huge power of two", Board{{1 << 62, 1 << 62}, {0, 0}}, true},
		{"nil", nil, true},
		{"1x1", Board{{2}}, true},
		{"7x7", NewEmptyBoard(7), true},
		{"ragged", Board{{2, 0, 0}, {0, 0}, {0, 0, 0}}, true},
		{"rectangular", Board{{2, 0, 0}, {0, 0, 0}}, true},
		{"value one", Board{{1, 0}, {0, 0}}, true},
		{"value six", Board{{6, 0}, {0, 0}}, true},
		{"negative", Board{{0, -4}, {0, 0}}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateBoard(test.board)
			if test.wantErr && !errors.Is(err, ErrInvalidBoard) {
				t.Errorf("expected ErrInvalidBoard, got %v", err)
			}
			if !test.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateScore(t *testing.T) {
	for _, score := range []int{0, 4, 3_932_100, MaxScore} {
		if err := ValidateScore(score); err != nil {
			t.Errorf("score %d: unexpected error %v", score, err)
		}
	}
	for _, score := range []int{-1, MaxScore + 1, math.MaxInt - 1, math.MaxInt} {
		if err := ValidateScore(score); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}
}

func TestIsTile(t *testing.T) {
	for _, v := range []int{2, 4, 2048, MaxTileValue} {
		if !IsTile(v) {
			t.Errorf("%d should be a tile", v)
		}
	}
	for _, v := range []int{0, 1, 3, -2, MaxTileValue * 2} {
		if IsTile(v) {
			t.Errorf("%d should not be a tile", v)
		}
	}
}

func TestValidateDirection(t *testing.T) {
	for _, dir := range Directions {
		if err := ValidateDirection(dir); err != nil {
			t.Errorf("%s: unexpected error %v", dir, err)
		}
	}
	for _, dir := range []Direction{0, 5, 99} {
		if err := ValidateDirection(dir); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("%d: expected ErrInvalidDirection, got %v", int(dir), err)
		}
	}
}

func TestValidateState(t *testing.T) {
	board := Board{{2, 0}, {0, 0}}

	if err := ValidateState(board, 0, DefaultWinTile); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateState(board, -5, DefaultWinTile); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("expected ErrInvalidScore, got %v", err)
	}
	if err := ValidateState(Board{{3}}, 0, DefaultWinTile); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("expected ErrInvalidBoard, got %v", err)
	}
}

func TestIsInputError(t *testing.T) {
	if IsInputError(errors.New("disk full")) {
		t.Error("unrelated error reported as input error")
	}
	if IsInputError(nil) {
		t.Error("nil reported as input error")
	}
	wrapped := fmt.Errorf("request: %w", ErrInvalidSize)
	if !IsInputError(wrapped) {
		t.Error("wrapped ErrInvalidSize should be an input error")
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 4, 1024, 1 << 30} {
		if !IsPowerOfTwo(v) {
			t.Errorf("%d should be a power of two", v)
		}
	}
	for _, v := range []int{0, -2, 3, 6, 1000} {
		if IsPowerOfTwo(v) {
			t.Errorf("%d should not be a power of two", v)
		}
	}
}

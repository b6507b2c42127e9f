package engine

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// IsTile reports whether v can appear on a board: a power of two from 2 up
// to MaxTileValue.
func IsTile(v int) bool {
	return v >= 2 && v <= MaxTileValue && IsPowerOfTwo(v)
}

// EmptyCells returns the positions of all zero cells in row-major order.
func EmptyCells(board Board) []Position {
	var cells []Position
	for r, row := range board {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell reports whether at least one cell is zero.
func HasEmptyCell(board Board) bool {
	for _, row := range board {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// TileCount counts the non-zero cells.
func TileCount(board Board) int {
	count := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// MaxTile returns the largest tile on the board, 0 for an empty board.
func MaxTile(board Board) int {
	maxVal := 0
	for _, row := range board {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// TileSum adds every tile on the board.
func TileSum(board Board) int {
	sum := 0
	for _, row := range board {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

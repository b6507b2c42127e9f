package engine

// SlideResult is the outcome of sliding a board without spawning.
type SlideResult struct {
	Board      Board
	ScoreDelta int
	Merges     int
	Changed    bool
}

// slideLine packs a line toward index 0 and merges equal neighbours. A tile
// produced by a merge does not merge again in the same move, and tiles of
// MaxTileValue never merge.
func slideLine(line []int) (result []int, score, merges int) {
	result = make([]int, len(line))
	writePos := 0
	mergeable := false

	for _, v := range line {
		if v == 0 {
			continue
		}

		if mergeable && result[writePos-1] == v && v < MaxTileValue {
			// Merge with previous tile
			result[writePos-1] *= 2
			score += result[writePos-1]
			merges++
			mergeable = false
			continue
		}

		result[writePos] = v
		writePos++
		mergeable = true
	}

	return result, score, merges
}

// lineCells returns the cells of line i ordered from the edge tiles move
// toward to the opposite edge.
func lineCells(n, i int, dir Direction) []Position {
	cells := make([]Position, n)
	for j := range n {
		switch dir {
		case Left:
			cells[j] = Position{Row: i, Col: j}
		case Right:
			cells[j] = Position{Row: i, Col: n - 1 - j}
		case Up:
			cells[j] = Position{Row: j, Col: i}
		case Down:
			cells[j] = Position{Row: n - 1 - j, Col: i}
		}
	}
	return cells
}

// Slide moves every tile toward dir and merges. The input board is not
// modified. Callers are expected to have validated board and dir.
func Slide(board Board, dir Direction) SlideResult {
	n := board.Size()
	out := board.Clone()
	res := SlideResult{Board: out}

	for i := range n {
		cells := lineCells(n, i, dir)

		line := make([]int, n)
		for j, p := range cells {
			line[j] = board[p.Row][p.Col]
		}

		packed, score, merges := slideLine(line)
		res.ScoreDelta += score
		res.Merges += merges

		for j, p := range cells {
			if out[p.Row][p.Col] != packed[j] {
				res.Changed = true
			}
			out[p.Row][p.Col] = packed[j]
		}
	}

	return res
}

// CanMove reports whether sliding toward dir would change the board: some
// tile has an empty cell or an equal tile next to it on the side it moves
// toward.
func CanMove(board Board, dir Direction) bool {
	n := board.Size()
	dr, dc := 0, 0
	switch dir {
	case Up:
		dr = -1
	case Down:
		dr = 1
	case Left:
		dc = -1
	case Right:
		dc = 1
	default:
		return false
	}

	for r := range n {
		for c := range n {
			v := board[r][c]
			if v == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr < 0 || nr >= n || nc < 0 || nc >= n {
				continue
			}
			if next := board[nr][nc]; next == 0 || (next == v && v < MaxTileValue) {
				return true
			}
		}
	}
	return false
}

// AnyMovePossible reports whether at least one direction changes the board.
func AnyMovePossible(board Board) bool {
	for _, dir := range Directions {
		if CanMove(board, dir) {
			return true
		}
	}
	return false
}

// PossibleMoves lists the directions that would change the board.
func PossibleMoves(board Board) []Direction {
	var moves []Direction
	for _, dir := range Directions {
		if CanMove(board, dir) {
			moves = append(moves, dir)
		}
	}
	return moves
}

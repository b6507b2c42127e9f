package strategy

import (
	"math"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// DefaultLookaheadDepth is the search depth of the registered "lookahead"
// strategy.
const DefaultLookaheadDepth = 3

// Heuristic weights
const (
	emptyWeight        = 270.0
	monotonicityWeight = 47.0
	mergeWeight        = 700.0
	cornerWeight       = 100.0
)

// Lookahead searches Depth plies of slides, ignoring spawns, and scores the
// leaves with Evaluate.
type Lookahead struct {
	Depth int
}

func (l Lookahead) Name() string { return "lookahead" }

func (l Lookahead) NextMove(board engine.Board) (engine.Direction, bool) {
	depth := l.Depth
	if depth < 1 {
		depth = 1
	}

	var (
		best      engine.Direction
		bestValue = math.Inf(-1)
	)
	for _, dir := range engine.Directions {
		res := engine.Slide(board, dir)
		if !res.Changed {
			continue
		}
		value := float64(res.ScoreDelta) + l.search(res.Board, depth-1)
		if value > bestValue {
			best, bestValue = dir, value
		}
	}
	return best, !math.IsInf(bestValue, -1)
}

func (l Lookahead) search(board engine.Board, depth int) float64 {
	if depth == 0 {
		return Evaluate(board)
	}

	best := math.Inf(-1)
	for _, dir := range engine.Directions {
		res := engine.Slide(board, dir)
		if !res.Changed {
			continue
		}
		if v := float64(res.ScoreDelta) + l.search(res.Board, depth-1); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return Evaluate(board)
	}
	return best
}

// Evaluate scores a board position: empty cells, monotonic rows and columns,
// adjacent equal tiles and the largest tile sitting in a corner all count.
func Evaluate(board engine.Board) float64 {
	n := board.Size()
	if n == 0 {
		return 0
	}

	empty := float64(len(engine.EmptyCells(board)))

	var mergeable float64
	for r := range n {
		for c := range n {
			v := board[r][c]
			if v == 0 {
				continue
			}
			if c+1 < n && board[r][c+1] == v {
				mergeable++
			}
			if r+1 < n && board[r+1][c] == v {
				mergeable++
			}
		}
	}

	maxTile := engine.MaxTile(board)
	var corner float64
	for _, v := range []int{board[0][0], board[0][n-1], board[n-1][0], board[n-1][n-1]} {
		if v == maxTile && v != 0 {
			corner = math.Log2(float64(maxTile))
			break
		}
	}

	return emptyWeight*empty +
		monotonicityWeight*monotonicity(board) +
		mergeWeight*mergeable +
		cornerWeight*corner
}

// monotonicity rewards rows and columns that only increase or only decrease,
// measured on log2 tile values. The result is zero for a perfectly
// monotonic board and negative otherwise.
func monotonicity(board engine.Board) float64 {
	n := board.Size()
	logv := func(v int) float64 {
		if v == 0 {
			return 0
		}
		return math.Log2(float64(v))
	}

	var total float64
	for i := range n {
		var incRow, decRow, incCol, decCol float64
		for j := 0; j+1 < n; j++ {
			a, b := logv(board[i][j]), logv(board[i][j+1])
			if a > b {
				decRow += b - a
			} else {
				incRow += a - b
			}
			a, b = logv(board[j][i]), logv(board[j+1][i])
			if a > b {
				decCol += b - a
			} else {
				incCol += a - b
			}
		}
		total += math.Max(incRow, decRow) + math.Max(incCol, decCol)
	}
	return total
}

package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Engine applies moves and spawns tiles. The random source is the only
// state it carries; it is not safe for concurrent use, so callers create one
// Engine per request or goroutine.
type Engine struct {
	rng             *rand.Rand
	fourProbability float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithFourProbability sets the chance that a spawned tile is a 4 instead of
// a 2. Values outside [0,1] are ignored.
func WithFourProbability(p float64) Option {
	return func(e *Engine) {
		if p >= 0 && p <= 1 {
			e.fourProbability = p
		}
	}
}

// New creates an engine drawing spawns from rng. A nil rng gets a randomly
// seeded source.
func New(rng *rand.Rand, opts ...Option) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e := &Engine{
		rng:             rng,
		fourProbability: DefaultFourProbability,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGame creates a size×size board with InitialTiles random tiles.
func (e *Engine) NewGame(size, winTile int) (*GameState, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if err := ValidateWinTile(winTile); err != nil {
		return nil, err
	}

	board := NewEmptyBoard(size)
	for range InitialTiles {
		e.Spawn(board)
	}

	return &GameState{
		Board:     board,
		Score:     0,
		Progress:  Status(board, winTile),
		WinTile:   winTile,
		BoardSize: size,
	}, nil
}

// Spawn places a 2 or a 4 on a uniformly chosen empty cell of board, in
// place. It returns nil when the board is full.
func (e *Engine) Spawn(board Board) *Position {
	empty := EmptyCells(board)
	if len(empty) == 0 {
		return nil
	}

	cell := empty[e.rng.IntN(len(empty))]

	value := 2
	if e.rng.Float64() < e.fourProbability {
		value = 4
	}

	board[cell.Row][cell.Col] = value
	return &cell
}

// Move applies dir to a validated copy of board. An effective move adds the
// merge score and spawns one tile; an ineffective move returns the board and
// score unchanged. Progress is recomputed in both cases.
func (e *Engine) Move(board Board, score int, dir Direction, winTile int) (*MoveOutcome, error) {
	if err := ValidateState(board, score, winTile); err != nil {
		return nil, err
	}
	if err := ValidateDirection(dir); err != nil {
		return nil, err
	}

	slid := Slide(board, dir)

	outcome := &MoveOutcome{
		Board:     board.Clone(),
		Score:     score,
		Effective: slid.Changed,
	}

	if slid.ScoreDelta > math.MaxInt-score {
		return nil, fmt.Errorf("%w: %d plus %d overflows", ErrInvalidScore, score, slid.ScoreDelta)
	}

	if slid.Changed {
		outcome.Board = slid.Board
		outcome.Score = score + slid.ScoreDelta
		outcome.ScoreDelta = slid.ScoreDelta
		outcome.Merges = slid.Merges
		outcome.Spawned = e.Spawn(outcome.Board)
	}

	outcome.Progress = Status(outcome.Board, winTile)
	return outcome, nil
}

// Status determines progress: a tile at or above winTile wins, otherwise a
// full board with no effective move is over.
func Status(board Board, winTile int) Progress {
	if MaxTile(board) >= winTile {
		return GameWon
	}
	if !HasEmptyCell(board) && !AnyMovePossible(board) {
		return GameOver
	}
	return InProgress
}

// Package strategy picks moves for automated 2048 players. The analyzer and
// the bruteforcer bot share these strategies.
package strategy

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Strategy chooses the next direction for a board. ok is false when no
// direction changes the board.
type Strategy interface {
	Name() string
	NextMove(board engine.Board) (dir engine.Direction, ok bool)
}

// Names lists the registered strategies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]func(rng *rand.Rand) Strategy{
	"random":    func(rng *rand.Rand) Strategy { return &Random{rng: rng} },
	"greedy":    func(*rand.Rand) Strategy { return Greedy{} },
	"corner":    func(*rand.Rand) Strategy { return Corner{} },
	"lookahead": func(*rand.Rand) Strategy { return Lookahead{Depth: DefaultLookaheadDepth} },
}

// New returns the strategy called name. rng is only used by "random"; nil
// gets a randomly seeded source.
func New(name string, rng *rand.Rand) (Strategy, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return factory(rng), nil
}

// Random picks uniformly among the directions that change the board.
type Random struct {
	rng *rand.Rand
}

func (r *Random) Name() string { return "random" }

func (r *Random) NextMove(board engine.Board) (engine.Direction, bool) {
	moves := engine.PossibleMoves(board)
	if len(moves) == 0 {
		return 0, false
	}
	return moves[r.rng.IntN(len(moves))], true
}

// Greedy takes the move with the largest immediate score, then the one
// leaving the most empty cells. Ties go to the earlier direction code.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) NextMove(board engine.Board) (engine.Direction, bool) {
	var (
		best      engine.Direction
		bestScore = -1
		bestEmpty = -1
	)
	for _, dir := range engine.Directions {
		res := engine.Slide(board, dir)
		if !res.Changed {
			continue
		}
		empty := len(engine.EmptyCells(res.Board))
		if res.ScoreDelta > bestScore || (res.ScoreDelta == bestScore && empty > bestEmpty) {
			best, bestScore, bestEmpty = dir, res.ScoreDelta, empty
		}
	}
	return best, bestScore >= 0
}

// Corner keeps the largest tiles in the bottom-left corner by preferring
// down, then left, then right, and up only when nothing else moves.
type Corner struct{}

// cornerOrder is the preference of Corner.
var cornerOrder = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

func (Corner) Name() string { return "corner" }

func (Corner) NextMove(board engine.Board) (engine.Direction, bool) {
	for _, dir := range cornerOrder {
		if engine.CanMove(board, dir) {
			return dir, true
		}
	}
	return 0, false
}

package service

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Options configures a GameService. Zero values take the engine defaults.
type Options struct {
	DefaultSize     int
	DefaultWinTile  int
	FourProbability float64

	// NewRand returns the random source for one request. Defaults to a PCG
	// source seeded from the runtime generator.
	NewRand func() *rand.Rand

	Logger *log.Logger
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	defaultSize     int
	defaultWinTile  int
	fourProbability float64
	newRand         func() *rand.Rand
	logger          *log.Logger
}

// NewGameService creates a new game service instance
func NewGameService(opts Options) GameService {
	s := &gameServiceImpl{
		defaultSize:     opts.DefaultSize,
		defaultWinTile:  opts.DefaultWinTile,
		fourProbability: opts.FourProbability,
		newRand:         opts.NewRand,
		logger:          opts.Logger,
	}
	if s.defaultSize == 0 {
		s.defaultSize = engine.DefaultBoardSize
	}
	if s.defaultWinTile == 0 {
		s.defaultWinTile = engine.DefaultWinTile
	}
	if s.fourProbability <= 0 || s.fourProbability > 1 {
		s.fourProbability = engine.DefaultFourProbability
	}
	if s.newRand == nil {
		s.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// newEngine builds a per-request engine so no random state is shared.
func (s *gameServiceImpl) newEngine() *engine.Engine {
	return engine.New(s.newRand(), engine.WithFourProbability(s.fourProbability))
}

// NewGame creates a fresh board
func (s *gameServiceImpl) NewGame(ctx context.Context, req NewGameRequest) (*engine.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := s.defaultSize
	if req.Size != nil {
		size = *req.Size
	}
	winTile := s.defaultWinTile
	if req.WinTile != nil {
		winTile = *req.WinTile
	}

	state, err := s.newEngine().NewGame(size, winTile)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("new game", "size", size, "win_tile", winTile)
	return state, nil
}

// Move applies one direction to the client's board
func (s *gameServiceImpl) Move(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	winTile := req.WinTile
	if winTile == 0 {
		winTile = s.defaultWinTile
	}

	outcome, err := s.newEngine().Move(req.Board, req.Score, req.Direction, winTile)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		GameState: engine.GameState{
			Board:     outcome.Board,
			Score:     outcome.Score,
			Progress:  outcome.Progress,
			WinTile:   winTile,
			BoardSize: outcome.Board.Size(),
		},
		MoveWasEffective: outcome.Effective,
		Message:          moveMessage(outcome),
	}

	s.logger.Debug("move",
		"dir", req.Direction,
		"effective", outcome.Effective,
		"delta", outcome.ScoreDelta,
		"score", outcome.Score,
		"progress", outcome.Progress)

	return result, nil
}

// moveMessage picks the player-facing message for an outcome. Terminal
// progress wins over the ineffective-move notice.
func moveMessage(outcome *engine.MoveOutcome) string {
	switch {
	case outcome.Progress == engine.GameWon:
		return MessageWon
	case outcome.Progress == engine.GameOver:
		return MessageGameOver
	case !outcome.Effective:
		return MessageIneffective
	}
	return ""
}

// Rules returns the limits and defaults this service applies
func (s *gameServiceImpl) Rules(ctx context.Context) (*RulesInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	directions := make(map[string]int, len(engine.Directions))
	for _, dir := range engine.Directions {
		directions[dir.String()] = int(dir)
	}

	return &RulesInfo{
		MinBoardSize:     engine.MinBoardSize,
		MaxBoardSize:     engine.MaxBoardSize,
		DefaultBoardSize: s.defaultSize,
		DefaultWinTile:   s.defaultWinTile,
		MinWinTile:       engine.MinWinTile,
		FourProbability:  s.fourProbability,
		Directions:       directions,
		Progress: []string{
			engine.InProgress.String(),
			engine.GameWon.String(),
			engine.GameOver.String(),
		},
	}, nil
}

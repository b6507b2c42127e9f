package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ErrScoreboardDisabled is returned when no score store is configured.
var ErrScoreboardDisabled = errors.New("scoreboard disabled")

type scoreBoardImpl struct {
	store  ScoreStore
	logger *log.Logger
}

// NewScoreBoard creates a scoreboard backed by store. A nil store yields a
// scoreboard whose every call fails with ErrScoreboardDisabled.
func NewScoreBoard(store ScoreStore, logger *log.Logger) ScoreBoard {
	if logger == nil {
		logger = log.Default()
	}
	return &scoreBoardImpl{store: store, logger: logger}
}

// Submit validates and stores a finished game
func (b *scoreBoardImpl) Submit(ctx context.Context, req SubmitScoreRequest) (*ScoreEntry, error) {
	if b.store == nil {
		return nil, ErrScoreboardDisabled
	}

	entry, err := NormalizeScore(req)
	if err != nil {
		return nil, err
	}

	if err := b.store.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	b.logger.Info("score submitted",
		"player", entry.Player,
		"score", entry.Score,
		"size", entry.BoardSize,
		"max_tile", entry.MaxTile)
	return entry, nil
}

// Top returns the best scores, highest first
func (b *scoreBoardImpl) Top(ctx context.Context, query TopScoresQuery) ([]ScoreEntry, error) {
	if b.store == nil {
		return nil, ErrScoreboardDisabled
	}

	if query.BoardSize != 0 {
		if err := engine.ValidateSize(query.BoardSize); err != nil {
			return nil, err
		}
	}

	entries, err := b.store.Top(ctx, query.BoardSize, ClampLimit(query.Limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	return entries, nil
}

// NormalizeScore validates a submission and returns the entry to store.
func NormalizeScore(req SubmitScoreRequest) (*ScoreEntry, error) {
	if err := engine.ValidateScore(req.Score); err != nil {
		return nil, err
	}
	if err := engine.ValidateSize(req.BoardSize); err != nil {
		return nil, err
	}

	winTile := req.WinTile
	if winTile == 0 {
		winTile = engine.DefaultWinTile
	}
	if err := engine.ValidateWinTile(winTile); err != nil {
		return nil, err
	}

	if !engine.IsTile(req.MaxTile) {
		return nil, fmt.Errorf("%w: max tile must be a power of two between 2 and %d, got %d", engine.ErrInvalidScore, engine.MaxTileValue, req.MaxTile)
	}

	switch req.Progress {
	case engine.InProgress, engine.GameWon, engine.GameOver:
	default:
		return nil, fmt.Errorf("%w: progress is required", engine.ErrInvalidScore)
	}

	return &ScoreEntry{
		Player:    normalizePlayer(req.Player),
		Score:     req.Score,
		BoardSize: req.BoardSize,
		WinTile:   winTile,
		MaxTile:   req.MaxTile,
		Progress:  req.Progress,
	}, nil
}

func normalizePlayer(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayer
	}
	if utf8.RuneCountInString(name) > MaxPlayerLength {
		name = string([]rune(name)[:MaxPlayerLength])
	}
	return name
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

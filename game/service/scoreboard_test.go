package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// MockScoreStore implements service.ScoreStore for testing
type MockScoreStore struct {
	entries   []service.ScoreEntry
	lastLimit int
	failWith  error
}

func (m *MockScoreStore) Save(ctx context.Context, entry *service.ScoreEntry) error {
	if m.failWith != nil {
		return m.failWith
	}
	entry.ID = int64(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockScoreStore) Top(ctx context.Context, boardSize, limit int) ([]service.ScoreEntry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.lastLimit = limit
	var out []service.ScoreEntry
	for _, e := range m.entries {
		if boardSize == 0 || e.BoardSize == boardSize {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func validSubmission() service.SubmitScoreRequest {
	return service.SubmitScoreRequest{
		Player:    "alice",
		Score:     1200,
		BoardSize: 4,
		WinTile:   2048,
		MaxTile:   128,
		Progress:  engine.GameOver,
	}
}

func TestScoreBoard_Submit(t *testing.T) {
	store := &MockScoreStore{}
	board := service.NewScoreBoard(store, nil)

	entry, err := board.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "alice", entry.Player)
	assert.Equal(t, 1200, entry.Score)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Len(t, store.entries, 1)
}

func TestScoreBoard_SubmitNormalizes(t *testing.T) {
	board := service.NewScoreBoard(&MockScoreStore{}, nil)

	req := validSubmission()
	req.Player = "   "
	req.WinTile = 0
	entry, err := board.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultPlayer, entry.Player)
	assert.Equal(t, engine.DefaultWinTile, entry.WinTile)

	req.Player = strings.Repeat("é", 40)
	entry, err = board.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", service.MaxPlayerLength), entry.Player)
}

func TestScoreBoard_SubmitInvalid(t *testing.T) {
	board := service.NewScoreBoard(&MockScoreStore{}, nil)

	tests := []struct {
		name   string
		modify func(*service.SubmitScoreRequest)
		want   error
	}{
		{"negative score", func(r *service.SubmitScoreRequest) { r.Score = -1 }, engine.ErrInvalidScore},
		{"board too big", func(r *service.SubmitScoreRequest) { r.BoardSize = 9 }, engine.ErrInvalidSize},
		{"bad win tile", func(r *service.SubmitScoreRequest) { r.WinTile = 1000 }, engine.ErrInvalidWinTile},
		{"max tile not power of two", func(r *service.SubmitScoreRequest) { r.MaxTile = 100 }, engine.ErrInvalidScore},
		{"missing max tile", func(r *service.SubmitScoreRequest) { r.MaxTile = 0 }, engine.ErrInvalidScore},
		{"max tile one", func(r *service.SubmitScoreRequest) { r.MaxTile = 1 }, engine.ErrInvalidScore},
		{"max tile past the largest", func(r *service.SubmitScoreRequest) { r.MaxTile = engine.MaxTileValue * 2 }, engine.ErrInvalidScore},
		{"score past the maximum", func(r *service.SubmitScoreRequest) { r.Score = engine.MaxScore + 1 }, engine.ErrInvalidScore},
		{"missing progress", func(r *service.SubmitScoreRequest) { r.Progress = 0 }, engine.ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmission()
			tt.modify(&req)
			_, err := board.Submit(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScoreBoard_Top(t *testing.T) {
	store := &MockScoreStore{}
	board := service.NewScoreBoard(store, nil)
	ctx := context.Background()

	for i, score := range []int{100, 900, 500} {
		req := validSubmission()
		req.Score = score
		req.BoardSize = 3 + i%2
		_, err := board.Submit(ctx, req)
		require.NoError(t, err)
	}

	all, err := board.Top(ctx, service.TopScoresQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 900, all[0].Score)
	assert.Equal(t, service.DefaultTopLimit, store.lastLimit)

	sized, err := board.Top(ctx, service.TopScoresQuery{BoardSize: 3, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, sized, 2)
	assert.Equal(t, service.MaxTopLimit, store.lastLimit)

	_, err = board.Top(ctx, service.TopScoresQuery{BoardSize: 12})
	assert.ErrorIs(t, err, engine.ErrInvalidSize)
}

func TestScoreBoard_StoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	board := service.NewScoreBoard(&MockScoreStore{failWith: boom}, nil)

	_, err := board.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, boom)
	assert.False(t, engine.IsInputError(err))
}

func TestScoreBoard_Disabled(t *testing.T) {
	board := service.NewScoreBoard(nil, nil)

	_, err := board.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, service.ErrScoreboardDisabled)

	_, err = board.Top(context.Background(), service.TopScoresQuery{})
	assert.ErrorIs(t, err, service.ErrScoreboardDisabled)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, service.ClampLimit(0))
	assert.Equal(t, 10, service.ClampLimit(-4))
	assert.Equal(t, 25, service.ClampLimit(25))
	assert.Equal(t, 100, service.ClampLimit(1000))
}

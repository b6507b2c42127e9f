package session

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Session is a client's working copy of one game.
type Session struct {
	ID          string
	State       engine.GameState
	Moves       int
	Effective   int
	LastMessage string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Finished reports whether the game has been won or lost.
func (s *Session) Finished() bool {
	return s.State.Progress.Terminal()
}

// MoveRequest builds the stateless request for dir from the session state.
func (s *Session) MoveRequest(dir engine.Direction) service.MoveRequest {
	return service.MoveRequest{
		Board:     s.State.Board.Clone(),
		Score:     s.State.Score,
		Direction: dir,
		WinTile:   s.State.WinTile,
	}
}

// apply stores the server's answer as the new working state.
func (s *Session) apply(result *service.MoveResult) {
	s.State = result.GameState
	s.Moves++
	if result.MoveWasEffective {
		s.Effective++
	}
	s.LastMessage = result.Message
	s.UpdatedAt = time.Now()
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s *Session) Snapshot() *Session {
	c := *s
	c.State.Board = s.State.Board.Clone()
	return &c
}

func (s *Session) toData() PersistedSessionData {
	return PersistedSessionData{
		ID:          s.ID,
		GameState:   s.State,
		Moves:       s.Moves,
		Effective:   s.Effective,
		LastMessage: s.LastMessage,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func fromData(data PersistedSessionData) *Session {
	return &Session{
		ID:          data.ID,
		State:       data.GameState,
		Moves:       data.Moves,
		Effective:   data.Effective,
		LastMessage: data.LastMessage,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

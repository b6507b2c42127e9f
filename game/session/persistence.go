package session

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Persistence defines the interface for persisting sessions
type Persistence interface {
	// Save persists a session to storage
	Save(session *Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID          string           `json:"id"`
	GameState   engine.GameState `json:"game_state"`
	Moves       int              `json:"moves"`
	Effective   int              `json:"effective_moves"`
	LastMessage string           `json:"last_message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

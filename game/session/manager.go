package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrGameFinished         = errors.New("game already finished")
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateID checks that id is safe to use as a file name.
func ValidateID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// Manager handles client game sessions
type Manager struct {
	game        service.GameService
	sessions    map[string]*Session
	persistence Persistence
	logger      *log.Logger
	mu          sync.Mutex
}

// NewManager creates a new session manager
func NewManager(game service.GameService, logger *log.Logger) *Manager {
	return NewManagerWithPersistence(game, nil, logger)
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(game service.GameService, persistence Persistence, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		game:        game,
		sessions:    make(map[string]*Session),
		persistence: persistence,
		logger:      logger,
	}
}

// Start asks the game service for a new board and opens a session for it
func (m *Manager) Start(ctx context.Context, req service.NewGameRequest) (*Session, error) {
	return m.StartWithID(ctx, uuid.NewString(), req)
}

// StartWithID is Start with a caller-chosen session ID
func (m *Manager) StartWithID(ctx context.Context, id string, req service.NewGameRequest) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	_, exists := m.sessions[id]
	m.mu.Unlock()
	if exists || (m.persistence != nil && m.persistence.Exists(id)) {
		return nil, ErrSessionAlreadyExists
	}

	state, err := m.game.NewGame(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		State:     *state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.save(sess)
	return sess.Snapshot(), nil
}

// Get retrieves a session by ID, loading it from persistence when it is not
// in memory
func (m *Manager) Get(id string) (*Session, error) {
	sess, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return sess.Snapshot(), nil
}

func (m *Manager) lookup(id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	sess, exists := m.sessions[id]
	m.mu.Unlock()
	if exists {
		return sess, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		loaded, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.sessions[id]; ok {
			return existing, nil
		}
		m.sessions[id] = loaded
		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// Move sends the session's board to the game service and keeps the answer as
// the new working state. Finished games reject further moves.
func (m *Manager) Move(ctx context.Context, id string, dir engine.Direction) (*service.MoveResult, error) {
	sess, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if sess.Finished() {
		progress := sess.State.Progress
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrGameFinished, progress)
	}
	req := sess.MoveRequest(dir)
	m.mu.Unlock()

	result, err := m.game.Move(ctx, req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	sess.apply(result)
	snapshot := sess.Snapshot()
	m.mu.Unlock()

	m.save(snapshot)
	m.logger.Debug("session move", "id", id, "dir", dir, "score", result.Score, "progress", result.Progress)
	return result, nil
}

// List returns snapshots of the sessions held in memory
func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess.Snapshot())
	}
	return result
}

// Delete removes a session from memory and persistence
func (m *Manager) Delete(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	m.mu.Lock()
	_, inMemory := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// Count returns the number of sessions in memory
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() (int, error) {
	if m.persistence == nil {
		return 0, nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, exists := m.sessions[id]; exists {
			continue
		}

		sess, err := m.persistence.Load(id)
		if err != nil {
			m.logger.Warn("failed to load persisted session", "id", id, "err", err)
			continue
		}

		m.sessions[id] = sess
		loaded++
	}

	return loaded, nil
}

// save persists sess. Failures are logged only.
func (m *Manager) save(sess *Session) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(sess); err != nil {
		m.logger.Warn("failed to persist session", "id", sess.ID, "err", err)
	}
}

package session

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func testSession(id string) *Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &Session{
		ID: id,
		State: engine.GameState{
			Board:     engine.Board{{2, 0, 0}, {0, 4, 0}, {0, 0, 8}},
			Score:     12,
			Progress:  engine.InProgress,
			WinTile:   2048,
			BoardSize: 3,
		},
		Moves:       5,
		Effective:   4,
		LastMessage: "Move was not effective; board state unchanged by slide.",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestFilePersistence_SaveAndLoad(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	require.NoError(t, err)

	sess := testSession("test1")
	require.NoError(t, persistence.Save(sess))
	assert.True(t, persistence.Exists("test1"))

	loaded, err := persistence.Load("test1")
	require.NoError(t, err)

	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, sess.State, loaded.State)
	assert.Equal(t, 5, loaded.Moves)
	assert.Equal(t, 4, loaded.Effective)
	assert.Equal(t, sess.LastMessage, loaded.LastMessage)
	assert.True(t, sess.CreatedAt.Equal(loaded.CreatedAt))
}

func TestFilePersistence_Overwrite(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	require.NoError(t, err)

	sess := testSession("game")
	require.NoError(t, persistence.Save(sess))

	sess.State.Score = 400
	sess.State.Board[0][0] = 256
	require.NoError(t, persistence.Save(sess))

	loaded, err := persistence.Load("game")
	require.NoError(t, err)
	assert.Equal(t, 400, loaded.State.Score)
	assert.Equal(t, 256, loaded.State.Board[0][0])

	entries, err := os.ReadDir(persistence.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFilePersistence_LoadMissing(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	require.NoError(t, err)

	_, err = persistence.Load("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, persistence.Exists("nope"))
}

func TestFilePersistence_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	_, err = persistence.Load("broken")
	assert.Error(t, err)

	bad := `{"id":"badboard","game_state":{"board":[[3,0],[0,0]],"score":0,"progress":"IN_PROGRESS","win_tile":2048,"board_size":2}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badboard.json"), []byte(bad), 0o644))
	_, err = persistence.Load("badboard")
	assert.ErrorIs(t, err, engine.ErrInvalidBoard)

	mismatch := `{"id":"other","game_state":{"board":[[2,0],[0,0]],"score":0,"progress":"IN_PROGRESS","win_tile":2048,"board_size":2}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "renamed.json"), []byte(mismatch), 0o644))
	_, err = persistence.Load("renamed")
	assert.Error(t, err)

	noProgress := `{"id":"np","game_state":{"board":[[2,0],[0,0]],"score":0,"win_tile":2048,"board_size":2}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "np.json"), []byte(noProgress), 0o644))
	_, err = persistence.Load("np")
	assert.Error(t, err)
}

func TestFilePersistence_DeleteAndList(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, persistence.Save(testSession(id)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := persistence.ListAll()
	require.NoError(t, err)
	sort.Strings(ids)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, persistence.Delete("b"))
	assert.False(t, persistence.Exists("b"))
	assert.ErrorIs(t, persistence.Delete("b"), ErrSessionNotFound)
}

func TestFilePersistence_RejectsUnsafeIDs(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", "a/b", "dot.dot"} {
		sess := testSession("ok")
		sess.ID = id
		assert.ErrorIs(t, persistence.Save(sess), ErrInvalidSessionID, "id %q", id)
		_, err := persistence.Load(id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, "id %q", id)
		assert.False(t, persistence.Exists(id))
	}
}

func TestFilePersistence_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	persistence, err := NewFilePersistence("~/.game2048/sessions")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".game2048", "sessions"), persistence.Dir())

	info, err := os.Stat(persistence.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

package main

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/scores"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard
	err := cmd.Run(context.Background(), append([]string{"game2048"}, args...))
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("GAME2048_PORT", "9191")
	path := writeConfig(t, "game:\n  default_size: 5\n")

	out, err := runCLI(t, "--config", path, "--log-level", "WARN", "config")
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}

	if !strings.Contains(out, "# source: "+path) {
		t.Errorf("Expected config source in output, got:\n%s", out)
	}
	for _, want := range []string{"default_size: 5", "port: 9191", "level: warn"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestConfigCommand_Invalid(t *testing.T) {
	path := writeConfig(t, "game:\n  default_size: 12\n")

	if _, err := runCLI(t, "--config", path, "config"); err == nil {
		t.Error("Expected validation error for default_size 12")
	}

	if _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestNewLogger(t *testing.T) {
	logger := newLogger(config.LogConfig{Level: "debug", Format: "json"})
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("Expected debug level, got %v", logger.GetLevel())
	}

	logger = newLogger(config.LogConfig{Level: "error", Format: "text"})
	if logger.GetLevel() != log.ErrorLevel {
		t.Errorf("Expected error level, got %v", logger.GetLevel())
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func seededService() service.GameService {
	return service.NewGameService(service.Options{
		NewRand: func() *rand.Rand { return rand.New(rand.NewPCG(5, 6)) },
		Logger:  quietLogger(),
	})
}

func TestPlayLoop(t *testing.T) {
	manager := session.NewManager(seededService(), quietLogger())
	size := 4
	sess, err := manager.Start(context.Background(), service.NewGameRequest{Size: &size})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	in := strings.NewReader("a\nx\nd\nw\nq\ns\n")
	var out bytes.Buffer
	final, err := playLoop(context.Background(), in, &out, manager, sess.ID)
	if err != nil {
		t.Fatalf("playLoop failed: %v", err)
	}

	if final.Moves != 3 {
		t.Errorf("Expected 3 moves before quitting, got %d", final.Moves)
	}

	text := out.String()
	if !strings.Contains(text, "Invalid input. Use W, A, S, D.") {
		t.Errorf("Expected invalid input message, got:\n%s", text)
	}
	if !strings.Contains(text, "Quitting game.") {
		t.Errorf("Expected quit message, got:\n%s", text)
	}
}

func TestPlayLoop_GameOver(t *testing.T) {
	stuck := &stuckGame{GameService: seededService()}
	manager := session.NewManager(stuck, quietLogger())
	sess, err := manager.Start(context.Background(), service.NewGameRequest{})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	var out bytes.Buffer
	final, err := playLoop(context.Background(), strings.NewReader("d\nd\n"), &out, manager, sess.ID)
	if err != nil {
		t.Fatalf("playLoop failed: %v", err)
	}

	if final.State.Progress != engine.GameOver {
		t.Errorf("Expected GAME_OVER, got %s", final.State.Progress)
	}
	if final.Moves != 1 {
		t.Errorf("Expected loop to stop after the losing move, got %d moves", final.Moves)
	}
	if !strings.Contains(out.String(), "No more moves possible") {
		t.Errorf("Expected game over message, got:\n%s", out.String())
	}

	req := scoreSubmission("tester", final)
	if req.MaxTile != 4 || req.BoardSize != 2 || req.Progress != engine.GameOver {
		t.Errorf("Unexpected submission: %+v", req)
	}
}

// stuckGame starts every game one move away from GAME_OVER
type stuckGame struct {
	service.GameService
}

func (s *stuckGame) NewGame(ctx context.Context, req service.NewGameRequest) (*engine.GameState, error) {
	return &engine.GameState{
		Board:     engine.Board{{2, 4}, {0, 2}},
		Progress:  engine.InProgress,
		WinTile:   engine.DefaultWinTile,
		BoardSize: 2,
	}, nil
}

func (s *stuckGame) Move(ctx context.Context, req service.MoveRequest) (*service.MoveResult, error) {
	return &service.MoveResult{
		GameState: engine.GameState{
			Board:     engine.Board{{2, 4}, {4, 2}},
			Score:     req.Score,
			Progress:  engine.GameOver,
			WinTile:   req.WinTile,
			BoardSize: 2,
		},
		MoveWasEffective: true,
		Message:          service.MessageGameOver,
	}, nil
}

func TestPrintScores(t *testing.T) {
	store, err := scores.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	var out bytes.Buffer
	if err := printScores(ctx, &out, store, 0, 10); err != nil {
		t.Fatalf("printScores failed: %v", err)
	}
	if !strings.Contains(out.String(), "No scores recorded yet") {
		t.Errorf("Expected empty message, got:\n%s", out.String())
	}

	board := service.NewScoreBoard(store, quietLogger())
	for _, req := range []service.SubmitScoreRequest{
		{Player: "ann", Score: 900, BoardSize: 4, MaxTile: 128, Progress: engine.GameOver},
		{Player: "ben", Score: 20000, BoardSize: 4, MaxTile: 2048, Progress: engine.GameWon},
	} {
		if _, err := board.Submit(ctx, req); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	out.Reset()
	if err := printScores(ctx, &out, store, 4, 10); err != nil {
		t.Fatalf("printScores failed: %v", err)
	}
	text := out.String()
	if strings.Index(text, "ben") > strings.Index(text, "ann") {
		t.Errorf("Expected highest score first, got:\n%s", text)
	}
	for _, want := range []string{"Best on 4x4: 20000", "Games won: 1, lost: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, text)
		}
	}
}

func TestRunServe_Shutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, quietLogger()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}

func TestRenderBoard(t *testing.T) {
	board := engine.Board{{0, 2}, {4096, 2048}}
	rendered := renderBoard(board)

	lines := strings.Split(rendered, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rows, got %d:\n%s", len(lines), rendered)
	}
	for _, want := range []string{".", "2", "4096", "2048"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Expected %q in rendered board:\n%s", want, rendered)
		}
	}
}

func TestPlayCommand_SavedGames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	manager, err := newSessionManager(seededService(), dir, quietLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	first, err := manager.Start(ctx, service.NewGameRequest{})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	second, err := manager.Start(ctx, service.NewGameRequest{})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	if _, err := manager.Move(ctx, second.ID, engine.Left); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	cfg := writeConfig(t, "log:\n  level: error\n")

	out, err := runCLI(t, "--config", cfg, "play", "--save-dir", dir, "--list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{first.ID, second.ID, "2 saved games"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in listing, got:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "--config", cfg, "play", "--save-dir", dir, "--delete", first.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted "+first.ID) {
		t.Errorf("Expected delete confirmation, got:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfg, "play", "--save-dir", dir, "--list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Contains(out, first.ID) || !strings.Contains(out, "1 saved games") {
		t.Errorf("Expected only %s after delete, got:\n%s", second.ID, out)
	}

	if _, err := runCLI(t, "--config", cfg, "play", "--save-dir", dir, "--delete", first.ID); err == nil {
		t.Error("Expected error deleting a missing game")
	}
	if _, err := runCLI(t, "--config", cfg, "play", "--list"); err == nil {
		t.Error("Expected error listing without --save-dir")
	}
}

func TestListSessions_Empty(t *testing.T) {
	manager, err := newSessionManager(seededService(), t.TempDir(), quietLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var out bytes.Buffer
	if err := listSessions(&out, manager); err != nil {
		t.Fatalf("listSessions failed: %v", err)
	}
	if !strings.Contains(out.String(), "No saved games") {
		t.Errorf("Expected empty message, got:\n%s", out.String())
	}
}

func TestRemoveFinished(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	manager, err := newSessionManager(&stuckGame{GameService: seededService()}, dir, quietLogger())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	sess, err := manager.Start(ctx, service.NewGameRequest{})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	removeFinished(manager, sess, quietLogger())
	if _, err := manager.Get(sess.ID); err != nil {
		t.Errorf("Game in progress should be kept: %v", err)
	}

	final, err := playLoop(ctx, strings.NewReader("d\n"), io.Discard, manager, sess.ID)
	if err != nil {
		t.Fatalf("playLoop failed: %v", err)
	}
	removeFinished(manager, final, quietLogger())

	if _, err := manager.Get(sess.ID); err == nil {
		t.Error("Finished game should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, sess.ID+".json")); !os.IsNotExist(err) {
		t.Errorf("Expected saved file to be removed, got %v", err)
	}
}

func TestRemoteScoreBoard(t *testing.T) {
	newServer := func(board service.ScoreBoard) *api.Client {
		ts := httptest.NewServer(api.NewServer(seededService(), nil, api.Options{Scores: board, Logger: quietLogger()}))
		t.Cleanup(ts.Close)
		return api.NewClient(ts.URL)
	}
	ctx := context.Background()

	if board := remoteScoreBoard(ctx, newServer(nil), quietLogger()); board != nil {
		t.Errorf("Expected no scoreboard for a server without one, got %v", board)
	}

	store, err := scores.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if board := remoteScoreBoard(ctx, newServer(service.NewScoreBoard(store, quietLogger())), quietLogger()); board == nil {
		t.Error("Expected scoreboard for a server with one")
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateFile_GameState(t *testing.T) {
	path := writeFile(t, t.TempDir(), "state.json", `{
		"board": [[2, 4, 0, 0], [8, 0, 0, 0], [0, 0, 0, 0], [0, 0, 0, 2]],
		"score": 12,
		"progress": "IN_PROGRESS",
		"win_tile": 2048,
		"board_size": 4
	}`)

	result := validateFile(path)
	if !result.Valid {
		t.Fatalf("Expected valid state, got errors: %v", result.Errors)
	}
	if result.File != "state.json" {
		t.Errorf("Expected file name state.json, got %s", result.File)
	}
	for _, want := range []string{"✓ Board: 4x4", "✓ Score: 12", "✓ Max tile: 8 / 2048", "✓ Progress: IN_PROGRESS"} {
		if !hasMessage(result.Errors, want) {
			t.Errorf("Expected info %q, got %v", want, result.Errors)
		}
	}
}

func TestValidateFile_Session(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abc123.json", `{
		"id": "abc123",
		"game_state": {
			"board": [[2, 4], [4, 2]],
			"score": 0,
			"progress": "GAME_OVER",
			"win_tile": 2048,
			"board_size": 2
		},
		"moves": 7,
		"effective_moves": 7
	}`)

	result := validateFile(path)
	if !result.Valid {
		t.Fatalf("Expected valid session, got errors: %v", result.Errors)
	}
	if !hasMessage(result.Errors, "✓ Session: abc123") {
		t.Errorf("Expected session info, got %v", result.Errors)
	}
}

func TestValidateFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "malformed json",
			content: `{"board": [[2, 4]`,
			want:    "Invalid JSON",
		},
		{
			name:    "unknown progress",
			content: `{"board": [[0, 0], [0, 2]], "progress": "PAUSED", "win_tile": 2048, "board_size": 2}`,
			want:    "Invalid JSON",
		},
		{
			name:    "non square board",
			content: `{"board": [[0, 0], [0, 2, 0]], "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}`,
			want:    "must be square",
		},
		{
			name:    "tile not a power of two",
			content: `{"board": [[0, 3], [0, 2]], "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}`,
			want:    "not a power of two",
		},
		{
			name:    "negative score",
			content: `{"board": [[0, 0], [0, 2]], "score": -4, "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}`,
			want:    "invalid score",
		},
		{
			name:    "bad win tile",
			content: `{"board": [[0, 0], [0, 2]], "progress": "IN_PROGRESS", "win_tile": 100, "board_size": 2}`,
			want:    "invalid win tile",
		},
		{
			name:    "size mismatch",
			content: `{"board": [[0, 0], [0, 2]], "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 4}`,
			want:    "board_size 4 does not match",
		},
		{
			name:    "missing progress",
			content: `{"board": [[0, 0], [0, 2]], "win_tile": 2048, "board_size": 2}`,
			want:    "progress is missing",
		},
		{
			name:    "stale progress",
			content: `{"board": [[2, 4], [4, 2]], "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}`,
			want:    "progress is IN_PROGRESS but the board is GAME_OVER",
		},
		{
			name:    "win not recorded",
			content: `{"board": [[16, 0], [0, 0]], "score": 32, "progress": "IN_PROGRESS", "win_tile": 16, "board_size": 2}`,
			want:    "but the board is GAME_WON",
		},
		{
			name:    "score too low",
			content: `{"board": [[64, 0], [0, 2]], "score": 100, "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}`,
			want:    "below the 256 needed",
		},
		{
			name:    "bad session id",
			content: `{"id": "../etc", "game_state": {"board": [[0, 0], [0, 2]], "progress": "IN_PROGRESS", "win_tile": 2048, "board_size": 2}}`,
			want:    "Invalid session id",
		},
	}

	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "case"+string(rune('a'+i))+".json", tt.content)
			result := validateFile(path)
			if result.Valid {
				t.Fatalf("Expected invalid result, got infos: %v", result.Errors)
			}
			if !hasMessage(result.Errors, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateFile_Missing(t *testing.T) {
	result := validateFile(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestMinimumScore(t *testing.T) {
	tests := []struct {
		tile int
		want int
	}{
		{2, 0},
		{4, 0},
		{8, 8},
		{16, 32},
		{2048, 2048 * 9},
	}
	for _, tt := range tests {
		board := [][]int{{tt.tile, 0}, {0, 0}}
		if got := minimumScore(board); got != tt.want {
			t.Errorf("minimumScore(%d) = %d, want %d", tt.tile, got, tt.want)
		}
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "notes.txt", "ignored")
	single := writeFile(t, t.TempDir(), "c.json", "{}")

	files, err := collectFiles([]string{dir, single})
	if err != nil {
		t.Fatalf("collectFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 files, got %v", files)
	}

	if _, err := collectFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("Expected error for missing path")
	}
}

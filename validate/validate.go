// Command validate checks saved 2048 games. It accepts files holding either a
// game state ({"board", "score", ...}) or a saved session
// ({"id", "game_state", ...}) and directories of such files. It checks:
//   - JSON structure
//   - Board shape and tile values (square, 2..6, zero or powers of two)
//   - Score and win tile ranges
//   - board_size matching the board
//   - Progress matching what the board actually shows
//   - Score plausibility: at least the merges needed to build the tiles
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/session"
)

// savedGame accepts both file layouts.
type savedGame struct {
	engine.GameState
	ID      string            `json:"id"`
	Session *engine.GameState `json:"game_state"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateFile loads and validates a single saved game.
func validateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var saved savedGame
	if err := json.Unmarshal(data, &saved); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	state := saved.GameState
	if saved.Session != nil {
		state = *saved.Session
		if saved.ID != "" {
			if err := session.ValidateID(saved.ID); err != nil {
				result.fail("Invalid session id: %v", err)
			}
		}
	}

	validateState(&result, state)

	if result.Valid {
		if saved.ID != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Session: %s", saved.ID))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", state.BoardSize, state.BoardSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Score: %d", state.Score))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Max tile: %d / %d", engine.MaxTile(state.Board), state.WinTile))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Tiles: %d, empty cells: %d", engine.TileCount(state.Board), len(engine.EmptyCells(state.Board))))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Progress: %s", state.Progress))
	}

	return result
}

// validateState checks one game state, collecting every problem.
func validateState(result *ValidationResult, state engine.GameState) {
	boardOK := true
	if err := engine.ValidateBoard(state.Board); err != nil {
		result.fail("%v", err)
		boardOK = false
	}
	if err := engine.ValidateScore(state.Score); err != nil {
		result.fail("%v", err)
	}

	winTileOK := true
	if err := engine.ValidateWinTile(state.WinTile); err != nil {
		result.fail("%v", err)
		winTileOK = false
	}

	if !boardOK {
		return
	}

	if state.BoardSize != state.Board.Size() {
		result.fail("board_size %d does not match a %d-row board", state.BoardSize, state.Board.Size())
	}

	if state.Progress == 0 {
		result.fail("progress is missing")
	} else if winTileOK {
		if actual := engine.Status(state.Board, state.WinTile); actual != state.Progress {
			result.fail("progress is %s but the board is %s", state.Progress, actual)
		}
	}

	if minimum := minimumScore(state.Board); state.Score < minimum {
		result.fail("score %d is below the %d needed to build these tiles", state.Score, minimum)
	}
}

// minimumScore is the least score a game can have with board on the table.
// A 2 or a 4 can spawn for free; any larger tile v needs merges worth at
// least v*(log2(v)-2) when built from spawned 4s.
func minimumScore(board engine.Board) int {
	total := 0
	for _, row := range board {
		for _, v := range row {
			if v >= 8 {
				total += v * (bits.TrailingZeros(uint(v)) - 2)
			}
		}
	}
	return total
}

// collectFiles expands directories to the *.json files they contain.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every file given on the command line (default: the
// sessions directory of the terminal player), printing a concise report and
// exiting with non-zero status if any are invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "validate saved 2048 games",
		ArgsUsage: "[file or directory ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				paths = []string{filepath.Join(home, ".game2048", "sessions")}
			}

			files, err := collectFiles(paths)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return cli.Exit("No saved games found", 1)
			}

			if !report(files) {
				return cli.Exit("❌ Some saved games have errors", 1)
			}
			fmt.Println("✅ All saved games are valid!")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints the result of every file and reports whether all are valid.
func report(files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	return allValid
}

package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// formatGameState renders the board for reading and the exact JSON the agent
// should send with its next move
func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Score: %d | Max tile: %d | Win tile: %d | Size: %dx%d | Progress: %s\n\n",
		state.Score, engine.MaxTile(state.Board), state.WinTile, state.BoardSize, state.BoardSize, state.Progress))

	result.WriteString(state.Board.String())
	result.WriteString("\n")

	switch state.Progress {
	case engine.GameWon:
		result.WriteString("\n🎉 VICTORY!\n")
	case engine.GameOver:
		result.WriteString("\n💀 GAME OVER\n")
	default:
		moves := engine.PossibleMoves(state.Board)
		names := make([]string, len(moves))
		for i, m := range moves {
			names[i] = m.String()
		}
		result.WriteString(fmt.Sprintf("\nPossible moves: %s\n", strings.Join(names, ", ")))
	}

	if data, err := json.Marshal(state); err == nil {
		result.WriteString("\nState: ")
		result.Write(data)
	}

	return result.String()
}

func formatMoveResult(dir engine.Direction, result *service.MoveResult) string {
	var response strings.Builder
	if result.MoveWasEffective {
		response.WriteString(fmt.Sprintf("✓ Moved %s\n", dir))
	} else {
		response.WriteString(fmt.Sprintf("✗ Moving %s changed nothing\n", dir))
	}

	if result.Message != "" {
		response.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}

	response.WriteString("\n" + formatGameState(&result.GameState))
	return response.String()
}

func formatRules(rules *service.RulesInfo) string {
	var b strings.Builder
	b.WriteString("2048 RULES\n\n")
	b.WriteString(fmt.Sprintf("Board size: %d to %d (default %d)\n", rules.MinBoardSize, rules.MaxBoardSize, rules.DefaultBoardSize))
	b.WriteString(fmt.Sprintf("Win tile: power of two >= %d (default %d)\n", rules.MinWinTile, rules.DefaultWinTile))
	b.WriteString(fmt.Sprintf("New tiles: 2, or 4 with probability %.2f, on a random empty cell after each effective move\n", rules.FourProbability))
	b.WriteString("Directions: ")
	for i, dir := range engine.Directions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s=%d", dir, rules.Directions[dir.String()]))
	}
	b.WriteString("\nProgress: " + strings.Join(rules.Progress, ", ") + "\n")
	b.WriteString("\nMerging two equal tiles adds their sum to the score. A tile merges at most once per move.\n")
	b.WriteString("A move that changes nothing spawns no tile and keeps the score.\n")
	return b.String()
}

func formatScores(entries []service.ScoreEntry) string {
	if len(entries) == 0 {
		return "No scores recorded yet"
	}

	var b strings.Builder
	b.WriteString("TOP SCORES\n")
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%2d. %-16s %7d  %dx%d  max %d  %s\n",
			i+1, e.Player, e.Score, e.BoardSize, e.BoardSize, e.MaxTile, e.Progress))
	}
	return b.String()
}

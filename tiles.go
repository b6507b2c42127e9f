package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

const tileWidth = 6

var (
	emptyTileStyle = lipgloss.NewStyle().Width(tileWidth).Align(lipgloss.Right).Foreground(lipgloss.Color("240"))
	bigTileStyle   = lipgloss.NewStyle().Width(tileWidth).Align(lipgloss.Right).Bold(true).Foreground(lipgloss.Color("11"))
)

// tileStyles colors tiles by value, small to large.
var tileStyles = map[int]lipgloss.Style{
	2:    tileStyle("7"),
	4:    tileStyle("15"),
	8:    tileStyle("208"),
	16:   tileStyle("9"),
	32:   tileStyle("1"),
	64:   tileStyle("13"),
	128:  tileStyle("3"),
	256:  tileStyle("2"),
	512:  tileStyle("10"),
	1024: tileStyle("14"),
	2048: tileStyle("12"),
}

func tileStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Width(tileWidth).Align(lipgloss.Right).Foreground(lipgloss.Color(color))
}

// renderBoard draws board with one colored, right-aligned cell per tile.
func renderBoard(board engine.Board) string {
	rows := make([]string, 0, len(board))
	for _, row := range board {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			switch style, ok := tileStyles[v]; {
			case v == 0:
				cells = append(cells, emptyTileStyle.Render("."))
			case ok:
				cells = append(cells, style.Render(strconv.Itoa(v)))
			default:
				cells = append(cells, bigTileStyle.Render(strconv.Itoa(v)))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

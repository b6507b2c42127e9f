// Command analyze plays many automated games per strategy and prints
// human-readable statistics: average and best score, win rate, average game
// length and how often each maximum tile was reached.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/strategy"
)

// Analysis aggregates the results of one strategy.
type Analysis struct {
	Strategy   string
	Games      int
	Won        int
	TotalScore int
	BestScore  int
	TotalMoves int
	MaxTiles   map[int]int
}

// AverageScore returns the mean final score.
func (a *Analysis) AverageScore() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.TotalScore) / float64(a.Games)
}

// AverageMoves returns the mean number of moves per game.
func (a *Analysis) AverageMoves() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.TotalMoves) / float64(a.Games)
}

// WinRate returns the fraction of games won.
func (a *Analysis) WinRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.Won) / float64(a.Games)
}

func (a *Analysis) add(r *strategy.Result) {
	a.Games++
	a.TotalScore += r.Score
	a.TotalMoves += r.Moves
	if r.Score > a.BestScore {
		a.BestScore = r.Score
	}
	if r.Progress == engine.GameWon {
		a.Won++
	}
	a.MaxTiles[r.MaxTile]++
}

// Settings control one analysis run.
type Settings struct {
	Strategies []string
	Games      int
	Size       int
	WinTile    int
	Seed       uint64
	MaxMoves   int
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "compare automated 2048 strategies",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "strategy to run (repeatable; default all: " + strings.Join(strategy.Names(), ", ") + ")"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 100, Usage: "games per strategy"},
			&cli.IntFlag{Name: "size", Value: engine.DefaultBoardSize, Usage: "board size"},
			&cli.IntFlag{Name: "win-tile", Value: engine.DefaultWinTile, Usage: "winning tile"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed"},
			&cli.IntFlag{Name: "max-moves", Value: 100000, Usage: "stop a game after this many moves"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings := Settings{
				Strategies: cmd.StringSlice("strategy"),
				Games:      int(cmd.Int("games")),
				Size:       int(cmd.Int("size")),
				WinTile:    int(cmd.Int("win-tile")),
				Seed:       uint64(cmd.Int("seed")),
				MaxMoves:   int(cmd.Int("max-moves")),
			}
			analyses, err := analyze(ctx, settings)
			if err != nil {
				return err
			}
			return report(cmd.Root().Writer, settings, analyses)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// analyze plays settings.Games games with each strategy. Runs with the same
// seed produce the same numbers.
func analyze(ctx context.Context, settings Settings) ([]*Analysis, error) {
	names := settings.Strategies
	if len(names) == 0 {
		names = strategy.Names()
	}
	if settings.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", settings.Games)
	}

	size, winTile := settings.Size, settings.WinTile
	req := service.NewGameRequest{Size: &size, WinTile: &winTile}

	var analyses []*Analysis
	for i, name := range names {
		// Each strategy sees the same sequence of spawns.
		stream := uint64(0)
		game := service.NewGameService(service.Options{
			NewRand: func() *rand.Rand {
				stream++
				return rand.New(rand.NewPCG(settings.Seed, stream))
			},
			Logger: log.New(io.Discard),
		})

		strat, err := strategy.New(name, rand.New(rand.NewPCG(settings.Seed, uint64(i)+1<<32)))
		if err != nil {
			return nil, err
		}

		a := &Analysis{Strategy: name, MaxTiles: map[int]int{}}
		for range settings.Games {
			result, err := strategy.Play(ctx, game, strat, req, settings.MaxMoves)
			if err != nil && result == nil {
				return nil, err
			}
			a.add(result)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

// report prints one row per strategy, then the max tile distribution.
func report(out io.Writer, settings Settings, analyses []*Analysis) error {
	fmt.Fprintf(out, "=== %d games per strategy on %dx%d, win tile %d, seed %d ===\n\n",
		settings.Games, settings.Size, settings.Size, settings.WinTile, settings.Seed)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tAVG SCORE\tBEST\tWIN RATE\tAVG MOVES")
	for _, a := range analyses {
		fmt.Fprintf(tw, "%s\t%.0f\t%d\t%.1f%%\t%.0f\n",
			a.Strategy, a.AverageScore(), a.BestScore, 100*a.WinRate(), a.AverageMoves())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, a := range analyses {
		tiles := make([]int, 0, len(a.MaxTiles))
		for tile := range a.MaxTiles {
			tiles = append(tiles, tile)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

		parts := make([]string, len(tiles))
		for i, tile := range tiles {
			parts[i] = fmt.Sprintf("%d×%d", tile, a.MaxTiles[tile])
		}
		fmt.Fprintf(out, "\n%s max tiles: %s", a.Strategy, strings.Join(parts, "  "))
	}
	fmt.Fprintln(out)
	return nil
}

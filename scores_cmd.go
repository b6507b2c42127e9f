package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/scores"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

func scoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "print the scoreboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scores-db", Usage: "SQLite file of the scoreboard (default from config)"},
			&cli.IntFlag{Name: "size", Usage: "only this board size"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: service.DefaultTopLimit, Usage: "number of entries"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Scores.Enabled() {
				return errors.New("no scoreboard configured (set scores.db_path, GAME2048_SCORES_DB or --scores-db)")
			}

			store, err := scores.Open(cfg.Scores.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			return printScores(ctx, cmd.Root().Writer, store, int(cmd.Int("size")), int(cmd.Int("limit")))
		},
	}
}

// printScores writes the top entries followed by summary counts.
func printScores(ctx context.Context, out io.Writer, store *scores.Store, size, limit int) error {
	board := service.NewScoreBoard(store, nil)
	entries, err := board.Top(ctx, service.TopScoresQuery{BoardSize: size, Limit: limit})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No scores recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tSCORE\tSIZE\tMAX TILE\tRESULT\tDATE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%dx%d\t%d\t%s\t%s\n",
			i+1, e.Player, e.Score, e.BoardSize, e.BoardSize, e.MaxTile, e.Progress, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if size != 0 {
		best, err := store.Best(ctx, size)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nBest on %dx%d: %d\n", size, size, best)
	}

	won, err := store.Count(ctx, engine.GameWon)
	if err != nil {
		return err
	}
	lost, err := store.Count(ctx, engine.GameOver)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Games won: %d, lost: %d\n", won, lost)
	return nil
}

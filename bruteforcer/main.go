// Command bruteforcer plays 2048 against a running game server until it wins
// or runs out of attempts. Every move goes through the HTTP API, so it doubles
// as a load and correctness check of a deployed server. Finished games can be
// submitted to the server's scoreboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/strategy"
)

// Settings control a bruteforce run.
type Settings struct {
	Strategy    string
	Size        int
	WinTile     int
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
	Player      string
	Verbose     bool
}

// Attempt is the outcome of one game.
type Attempt struct {
	Number   int
	Moves    int
	Score    int
	MaxTile  int
	Progress engine.Progress
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "play 2048 against a game server until victory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "strategy", Value: "lookahead", Usage: "move strategy"},
			&cli.IntFlag{Name: "size", Value: engine.DefaultBoardSize, Usage: "board size"},
			&cli.IntFlag{Name: "win-tile", Value: engine.DefaultWinTile, Usage: "winning tile"},
			&cli.IntFlag{Name: "max-moves", Value: 20000, Usage: "maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "delay between moves"},
			&cli.StringFlag{Name: "player", Usage: "submit every finished game under this name"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "bruteforcer"})
			if cmd.Bool("v") {
				logger.SetLevel(log.DebugLevel)
			}

			client := api.NewClient(cmd.String("url"))
			logger.Info("connecting to game server", "url", client.BaseURL())
			if err := client.Health(ctx); err != nil {
				return fmt.Errorf("game server not reachable: %w", err)
			}

			settings := Settings{
				Strategy:    cmd.String("strategy"),
				Size:        int(cmd.Int("size")),
				WinTile:     int(cmd.Int("win-tile")),
				MaxMoves:    int(cmd.Int("max-moves")),
				MaxAttempts: int(cmd.Int("max-attempts")),
				Delay:       cmd.Duration("delay"),
				Player:      cmd.String("player"),
				Verbose:     cmd.Bool("v"),
			}

			won, err := run(ctx, client, client, settings, logger)
			if err != nil {
				return err
			}
			if won == nil {
				return cli.Exit(fmt.Sprintf("❌ Failed to win after %d attempts", settings.MaxAttempts), 1)
			}
			return nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run plays attempts until one is won. It returns the winning attempt, or
// nil when every attempt was lost. scores may be nil.
func run(ctx context.Context, game service.GameService, scores service.ScoreBoard, settings Settings, logger *log.Logger) (*Attempt, error) {
	strat, err := strategy.New(settings.Strategy, nil)
	if err != nil {
		return nil, err
	}

	for n := 1; n <= settings.MaxAttempts; n++ {
		logger.Info("🎮 attempt", "n", n, "of", settings.MaxAttempts, "strategy", strat.Name())

		attempt, err := playAttempt(ctx, game, strat, settings, logger)
		if err != nil {
			return nil, err
		}
		attempt.Number = n

		logger.Info("attempt finished",
			"n", n,
			"moves", attempt.Moves,
			"score", attempt.Score,
			"max_tile", attempt.MaxTile,
			"progress", attempt.Progress)

		if settings.Player != "" && scores != nil {
			submitAttempt(ctx, scores, settings, attempt, logger)
		}

		if attempt.Progress == engine.GameWon {
			logger.Info("🎉 VICTORY!", "attempt", n, "moves", attempt.Moves, "score", attempt.Score)
			return attempt, nil
		}
	}
	return nil, nil
}

// playAttempt plays one game move by move through game.
func playAttempt(ctx context.Context, game service.GameService, strat strategy.Strategy, settings Settings, logger *log.Logger) (*Attempt, error) {
	size, winTile := settings.Size, settings.WinTile
	state, err := game.NewGame(ctx, service.NewGameRequest{Size: &size, WinTile: &winTile})
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	attempt := &Attempt{}
	for !state.Progress.Terminal() && attempt.Moves < settings.MaxMoves {
		if settings.Verbose && attempt.Moves%100 == 0 {
			logger.Debug("progress", "moves", attempt.Moves, "score", state.Score, "max_tile", engine.MaxTile(state.Board))
		}

		dir, ok := strat.NextMove(state.Board)
		if !ok {
			logger.Warn("⚠️  no valid moves available")
			break
		}

		result, err := game.Move(ctx, service.MoveRequest{
			Board:     state.Board,
			Score:     state.Score,
			Direction: dir,
			WinTile:   state.WinTile,
		})
		if err != nil {
			return nil, fmt.Errorf("move %d (%s) failed: %w", attempt.Moves+1, dir, err)
		}
		state = &result.GameState
		attempt.Moves++

		if settings.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(settings.Delay):
			}
		}
	}

	attempt.Score = state.Score
	attempt.MaxTile = engine.MaxTile(state.Board)
	attempt.Progress = state.Progress
	return attempt, nil
}

// submitAttempt records attempt on the scoreboard. Failures are logged only.
func submitAttempt(ctx context.Context, scores service.ScoreBoard, settings Settings, attempt *Attempt, logger *log.Logger) {
	entry, err := scores.Submit(ctx, service.SubmitScoreRequest{
		Player:    settings.Player,
		Score:     attempt.Score,
		BoardSize: settings.Size,
		WinTile:   settings.WinTile,
		MaxTile:   attempt.MaxTile,
		Progress:  attempt.Progress,
	})
	if err != nil {
		logger.Warn("failed to submit score", "err", err)
		return
	}
	logger.Info("score submitted", "id", entry.ID)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
)

// keyDirections maps player input to directions.
var keyDirections = map[string]engine.Direction{
	"w": engine.Up, "up": engine.Up,
	"s": engine.Down, "down": engine.Down,
	"a": engine.Left, "left": engine.Left,
	"d": engine.Right, "right": engine.Right,
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play in the terminal (W/A/S/D then Enter, Q to quit)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "base URL of a running game server; empty plays locally"},
			&cli.IntFlag{Name: "size", Usage: "board size (default from config)"},
			&cli.IntFlag{Name: "win-tile", Usage: "winning tile (default from config)"},
			&cli.StringFlag{Name: "save-dir", Usage: "directory to save the game in so it can be resumed"},
			&cli.StringFlag{Name: "resume", Usage: "session id to resume from --save-dir"},
			&cli.StringFlag{Name: "player", Usage: "submit the final score under this name"},
			&cli.BoolFlag{Name: "list", Usage: "list the games saved in --save-dir and exit"},
			&cli.StringFlag{Name: "delete", Usage: "delete a saved game from --save-dir and exit"},
			&cli.BoolFlag{Name: "keep-finished", Usage: "keep won or lost games in --save-dir"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log)
			out := cmd.Root().Writer
			saveDir := cmd.String("save-dir")

			if cmd.Bool("list") || cmd.IsSet("delete") {
				if saveDir == "" {
					return errors.New("--list and --delete need --save-dir")
				}
				manager, err := newSessionManager(newGameService(cfg, logger), saveDir, logger)
				if err != nil {
					return err
				}
				if id := cmd.String("delete"); id != "" {
					if err := manager.Delete(id); err != nil {
						return fmt.Errorf("cannot delete %s: %w", id, err)
					}
					fmt.Fprintf(out, "Deleted %s\n", id)
					return nil
				}
				return listSessions(out, manager)
			}

			var (
				game   service.GameService
				scores service.ScoreBoard
			)
			if url := cmd.String("server"); url != "" {
				client := api.NewClient(url)
				game, scores = client, client
			} else {
				board, _, closeScores, err := openScoreBoard(cfg, logger)
				if err != nil {
					return err
				}
				defer closeScores()
				game, scores = newGameService(cfg, logger), board
			}

			manager, err := newSessionManager(game, saveDir, logger)
			if err != nil {
				return err
			}

			var sess *session.Session
			if id := cmd.String("resume"); id != "" {
				if sess, err = manager.Get(id); err != nil {
					return fmt.Errorf("cannot resume %s: %w", id, err)
				}
			} else {
				var req service.NewGameRequest
				if cmd.IsSet("size") {
					size := int(cmd.Int("size"))
					req.Size = &size
				}
				if cmd.IsSet("win-tile") {
					winTile := int(cmd.Int("win-tile"))
					req.WinTile = &winTile
				}
				if sess, err = manager.Start(ctx, req); err != nil {
					return err
				}
			}

			final, err := playLoop(ctx, cmd.Root().Reader, out, manager, sess.ID)
			if err != nil {
				return exitError(err)
			}
			if saveDir != "" && !cmd.Bool("keep-finished") {
				removeFinished(manager, final, logger)
			}

			if player := cmd.String("player"); player != "" && scores != nil && final.Moves > 0 {
				entry, err := scores.Submit(ctx, scoreSubmission(player, final))
				if err != nil {
					return fmt.Errorf("failed to submit score: %w", err)
				}
				fmt.Fprintf(out, "Score #%d recorded for %s\n", entry.ID, entry.Player)
			}
			return nil
		},
	}
}

// newSessionManager keeps sessions in memory, or on disk when dir is set.
func newSessionManager(game service.GameService, dir string, logger *log.Logger) (*session.Manager, error) {
	if dir == "" {
		return session.NewManager(game, logger), nil
	}
	persistence, err := session.NewFilePersistence(dir)
	if err != nil {
		return nil, err
	}
	return session.NewManagerWithPersistence(game, persistence, logger), nil
}

// removeFinished deletes sess once it is won or lost, since it cannot be
// resumed.
func removeFinished(manager *session.Manager, sess *session.Session, logger *log.Logger) {
	if !sess.Finished() {
		return
	}
	if err := manager.Delete(sess.ID); err != nil {
		logger.Warn("failed to remove finished game", "id", sess.ID, "err", err)
		return
	}
	logger.Debug("removed finished game", "id", sess.ID)
}

// listSessions prints the saved games, most recently played first.
func listSessions(out io.Writer, manager *session.Manager) error {
	if _, err := manager.LoadPersistedSessions(); err != nil {
		return err
	}
	if manager.Count() == 0 {
		fmt.Fprintln(out, "No saved games")
		return nil
	}

	sessions := manager.List()
	slices.SortFunc(sessions, func(a, b *session.Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tSCORE\tMAX TILE\tMOVES\tPROGRESS\tUPDATED")
	for _, sess := range sessions {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%d\t%s\t%s\n",
			sess.ID, sess.State.BoardSize, sess.State.BoardSize, sess.State.Score,
			engine.MaxTile(sess.State.Board), sess.Moves, sess.State.Progress,
			sess.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d saved games\n", len(sessions))
	return nil
}

// playLoop reads one command per line from in until the game ends, the
// player quits, or input runs out. It returns the last session state.
func playLoop(ctx context.Context, in io.Reader, out io.Writer, manager *session.Manager, id string) (*session.Session, error) {
	sess, err := manager.Get(id)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Session %s\n", sess.ID)
	displayBoardState(out, sess)

	scanner := bufio.NewScanner(in)
	for !sess.Finished() {
		fmt.Fprint(out, "Enter move (W/A/S/D for Up/Left/Down/Right, Q to quit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		if err := ctx.Err(); err != nil {
			return sess, err
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if input == "q" || input == "quit" {
			fmt.Fprintln(out, "Quitting game.")
			break
		}

		dir, ok := keyDirections[input]
		if !ok {
			fmt.Fprintln(out, "Invalid input. Use W, A, S, D.")
			continue
		}

		result, err := manager.Move(ctx, sess.ID, dir)
		if err != nil {
			if errors.Is(err, session.ErrGameFinished) {
				break
			}
			return sess, err
		}
		if !result.MoveWasEffective && !result.Progress.Terminal() {
			fmt.Fprintln(out, "Move did not change the board. Try a different direction.")
		}

		if sess, err = manager.Get(sess.ID); err != nil {
			return nil, err
		}
		displayBoardState(out, sess)
	}
	if err := scanner.Err(); err != nil {
		return sess, err
	}

	switch sess.State.Progress {
	case engine.GameWon:
		fmt.Fprintf(out, "Congratulations! You reached the %d tile!\n", sess.State.WinTile)
	case engine.GameOver:
		fmt.Fprintln(out, "No more moves possible. Better luck next time!")
	}
	return sess, nil
}

// displayBoardState prints the board, score and progress.
func displayBoardState(out io.Writer, sess *session.Session) {
	state := sess.State
	fmt.Fprintf(out, "\nScore: %d   Moves: %d\n", state.Score, sess.Moves)
	switch state.Progress {
	case engine.GameWon:
		fmt.Fprintln(out, "YOU WON!")
	case engine.GameOver:
		fmt.Fprintln(out, "GAME OVER!")
	default:
		fmt.Fprintf(out, "Status: %s\n", state.Progress)
	}
	fmt.Fprintln(out, renderBoard(state.Board))
	fmt.Fprintln(out, strings.Repeat("-", state.BoardSize*tileWidth))
}

// scoreSubmission describes a played session for the scoreboard.
func scoreSubmission(player string, sess *session.Session) service.SubmitScoreRequest {
	return service.SubmitScoreRequest{
		Player:    player,
		Score:     sess.State.Score,
		BoardSize: sess.State.BoardSize,
		WinTile:   sess.State.WinTile,
		MaxTile:   engine.MaxTile(sess.State.Board),
		Progress:  sess.State.Progress,
	}
}

// Command game2048 starts the 2048 board game server.
//
// It supports several commands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server against a local game service or a remote server
//  3. "play" – plays in the terminal with WASD keys, optionally against a remote server
//  4. "scores" – prints the scoreboard kept in the SQLite database
//  5. "config" – prints the effective configuration
//
// Configuration comes from a YAML file, then the environment (a .env file is
// loaded first), then command-line flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/scores"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "2048 Board Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("error loading .env file", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Global flags are visible to every command.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:           "game2048",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yaml (default: ~/.game2048/config.yaml, ./configs/config.yaml, built-in)",
				Sources: cli.EnvVars("GAME2048_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text, json or logfmt",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "shorthand for --log-level debug",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
			scoresCommand(),
			configCommand(),
		},
	}
}

// loadConfig reads the config file, then applies environment and flag
// overrides, and validates the result.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := cmd.String("log-format"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if cmd.Bool("debug") {
		cfg.Log.Level = "debug"
	}

	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("scores-db") {
		cfg.Scores.DBPath = cmd.String("scores-db")
	}
	if cmd.IsSet("ngrok") {
		cfg.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-authtoken") {
		cfg.Ngrok.AuthToken = cmd.String("ngrok-authtoken")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the process logger. Output goes to stderr so stdout stays
// free for the MCP stdio transport.
func newLogger(cfg config.LogConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "game2048",
	})

	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}

	switch cfg.Format {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}

	log.SetDefault(logger)
	return logger
}

// newGameService builds the local game service from configuration.
func newGameService(cfg *config.Config, logger *log.Logger) service.GameService {
	return service.NewGameService(service.Options{
		DefaultSize:     cfg.Game.DefaultSize,
		DefaultWinTile:  cfg.Game.DefaultWinTile,
		FourProbability: cfg.Game.FourProbability,
		Logger:          logger,
	})
}

// openScoreBoard opens the scoreboard database when one is configured. The
// returned close function is never nil.
func openScoreBoard(cfg *config.Config, logger *log.Logger) (service.ScoreBoard, *scores.Store, func(), error) {
	if !cfg.Scores.Enabled() {
		return nil, nil, func() {}, nil
	}

	store, err := scores.Open(cfg.Scores.DBPath)
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("failed to open scoreboard: %w", err)
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close scoreboard", "err", err)
		}
	}
	logger.Info("scoreboard enabled", "db", cfg.Scores.DBPath)
	return service.NewScoreBoard(store, logger), store, closeFn, nil
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective configuration",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "# source: %s\n%s", cfg.Source, data)
			return nil
		},
	}
}

// exitError reports err for cli unless it is a cancellation from a signal.
func exitError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

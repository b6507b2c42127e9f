package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "base URL of a running game server; empty plays locally",
			},
			&cli.StringFlag{Name: "scores-db", Usage: "SQLite file for the scoreboard in local mode"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return exitError(runMCP(ctx, cfg, cmd.String("server"), newLogger(cfg.Log)))
		},
	}
}

// runMCP serves MCP over stdio. With serverURL set, tools call that server;
// otherwise they use an in-process game service and the configured
// scoreboard.
func runMCP(ctx context.Context, cfg *config.Config, serverURL string, logger *log.Logger) error {
	var (
		game   service.GameService
		scores service.ScoreBoard
	)

	if serverURL != "" {
		client := api.NewClient(serverURL)
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("game server %s is not reachable: %w", serverURL, err)
		}
		logger.Info("MCP stdio server ready", "server", client.BaseURL())
		game, scores = client, remoteScoreBoard(ctx, client, logger)
	} else {
		board, _, closeScores, err := openScoreBoard(cfg, logger)
		if err != nil {
			return err
		}
		defer closeScores()
		game, scores = newGameService(cfg, logger), board
		logger.Info("MCP stdio server ready", "mode", "local")
	}

	mcpClient := mcp.NewClient(game, scores)

	// Run MCP stdio server (blocking)
	return server.ServeStdio(mcpClient.GetMCPServer())
}

// remoteScoreBoard returns client when the server keeps a scoreboard, so the
// score tools are only offered when they can work.
func remoteScoreBoard(ctx context.Context, client *api.Client, logger *log.Logger) service.ScoreBoard {
	_, err := client.Top(ctx, service.TopScoresQuery{Limit: 1})
	switch {
	case errors.Is(err, service.ErrScoreboardDisabled):
		logger.Info("server has no scoreboard, score tools disabled")
		return nil
	case err != nil:
		logger.Warn("scoreboard check failed", "err", err)
	}
	return client
}

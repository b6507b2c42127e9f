package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Client exposes a GameService as MCP tools. The service may be local or an
// HTTP client for a remote server.
type Client struct {
	game      service.GameService
	scores    service.ScoreBoard
	mcpServer *server.MCPServer
}

// NewClient creates the MCP server for game. scores may be nil, in which case
// the scoreboard tools are not registered.
func NewClient(game service.GameService, scores service.ScoreBoard) *Client {
	c := &Client{
		game:   game,
		scores: scores,
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"2048 Board Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`2048 Board Game - MCP Interface

The server is stateless: you hold the game. Every move sends the whole board
and score back, and the reply is the board you send with the next move.

GAME OBJECTIVE:
Slide tiles up/down/left/right. Equal neighbours merge into their sum, adding
it to the score. After every move that changes the board one new tile (2, or
sometimes 4) appears. Reach the win tile (2048 by default) to win; the game
is over when the board is full and no move changes it.

AVAILABLE TOOLS:
- new_game: Start a board (size 2-6, default 4)
- move: Apply a direction to a board you pass in
- game_rules: Limits, defaults and direction codes
- submit_score / top_scores: Scoreboard, when the server has one

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"size": map[string]any{
					"type":        "integer",
					"minimum":     engine.MinBoardSize,
					"maximum":     engine.MaxBoardSize,
					"description": "Board size N for an NxN board (optional)",
				},
				"win_tile": map[string]any{
					"type":        "integer",
					"description": "Tile value that wins the game, a power of two >= 8 (optional)",
				},
			},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide the tiles of a board in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"board": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "integer"},
					},
					"description": "Current board, rows top to bottom, 0 for empty cells",
				},
				"score": map[string]any{
					"type":        "integer",
					"description": "Current score",
				},
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
				"win_tile": map[string]any{
					"type":        "integer",
					"description": "Win tile of this game (optional, default 2048)",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"board", "score", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the game rules, limits and direction codes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleRules)

	if c.scores == nil {
		return
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_score",
		Description: "Record a finished game on the scoreboard",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"player":     map[string]any{"type": "string", "description": "Player name (optional)"},
				"score":      map[string]any{"type": "integer", "description": "Final score"},
				"board_size": map[string]any{"type": "integer", "description": "Board size"},
				"max_tile":   map[string]any{"type": "integer", "description": "Largest tile reached"},
				"win_tile":   map[string]any{"type": "integer", "description": "Win tile (optional)"},
				"progress": map[string]any{
					"type": "string",
					"enum": []string{"IN_PROGRESS", "GAME_WON", "GAME_OVER"},
				},
			},
			Required: []string{"score", "board_size", "max_tile", "progress"},
		},
	}, c.handleSubmitScore)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "top_scores",
		Description: "List the best scores",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"board_size": map[string]any{"type": "integer", "description": "Only this board size (optional)"},
				"limit":      map[string]any{"type": "integer", "description": "Maximum entries (default 10)"},
			},
		},
	}, c.handleTopScores)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var req service.NewGameRequest
	if v, ok, err := intArg(args, "size"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if ok {
		req.Size = &v
	}
	if v, ok, err := intArg(args, "win_tile"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if ok {
		req.WinTile = &v
	}

	state, err := c.game.NewGame(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	var req service.MoveRequest

	board, err := boardArg(args["board"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.Board = board

	score, ok, err := intArg(args, "score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Errorf("%w: score is required", engine.ErrInvalidScore).Error()), nil
	}
	req.Score = score

	dir, err := directionArg(args["direction"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.Direction = dir

	if winTile, ok, err := intArg(args, "win_tile"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if ok {
		req.WinTile = winTile
	}

	result, err := c.game.Move(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(dir, result)), nil
}

func (c *Client) handleRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules, err := c.game.Rules(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRules(rules)), nil
}

func (c *Client) handleSubmitScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var req service.SubmitScoreRequest
	req.Player, _ = args["player"].(string)

	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"score", &req.Score},
		{"board_size", &req.BoardSize},
		{"max_tile", &req.MaxTile},
		{"win_tile", &req.WinTile},
	} {
		v, _, err := intArg(args, field.name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*field.dst = v
	}

	progress, _ := args["progress"].(string)
	if err := req.Progress.UnmarshalText([]byte(progress)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := c.scores.Submit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Recorded score #%d: %s scored %d on %dx%d (max tile %d, %s)",
		entry.ID, entry.Player, entry.Score, entry.BoardSize, entry.BoardSize, entry.MaxTile, entry.Progress)), nil
}

func (c *Client) handleTopScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var query service.TopScoresQuery
	var err error
	if query.BoardSize, _, err = intArg(args, "board_size"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if query.Limit, _, err = intArg(args, "limit"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := c.scores.Top(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatScores(entries)), nil
}

// arguments returns the tool arguments as a map, empty when absent
func arguments(request mcp.CallToolRequest) map[string]any {
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		return args
	}
	return map[string]any{}
}

// intArg reads an integer argument. JSON numbers arrive as float64; strings
// holding integers are accepted too.
func intArg(args map[string]any, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%s must be an integer, got %v", name, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false, fmt.Errorf("%s must be an integer, got %q", name, v)
		}
		return n, true, nil
	}
	return 0, false, fmt.Errorf("%s must be an integer", name)
}

// boardArg converts the decoded board argument. A JSON string holding the
// board is accepted as well.
func boardArg(raw any) (engine.Board, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: board is required", engine.ErrInvalidBoard)
	}

	var data []byte
	if s, ok := raw.(string); ok {
		data = []byte(s)
	} else {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrInvalidBoard, err)
		}
	}

	var board engine.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("%w: board must be an array of integer rows: %v", engine.ErrInvalidBoard, err)
	}
	return board, nil
}

// directionArg accepts a direction name or its numeric code
func directionArg(raw any) (engine.Direction, error) {
	switch v := raw.(type) {
	case string:
		return engine.ParseDirection(v)
	case float64:
		dir := engine.Direction(int(v))
		if float64(int(v)) != v || !dir.Valid() {
			return 0, fmt.Errorf("%w: %v", engine.ErrInvalidDirection, v)
		}
		return dir, nil
	}
	return 0, fmt.Errorf("%w: direction is required", engine.ErrInvalidDirection)
}

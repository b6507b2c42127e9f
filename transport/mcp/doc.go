// Package mcp provides the Model Context Protocol server for the 2048 board game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for stateless play
//   - Optional scoreboard tools
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - new_game: Start a board with optional size and win tile
//   - move: Slide a board the agent passes in and get the next state
//   - game_rules: Board limits, defaults and direction codes
//   - submit_score: Record a finished game (scoreboard only)
//   - top_scores: List the best games (scoreboard only)
//
// Statelessness:
//
// The server keeps no game between calls. Each reply ends with the JSON
// state the agent sends back with its next move, so any number of agents
// can play independent games against the same server.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: POST /mcp on the game API server
//
// Usage:
//
//	// Stdio mode
//	client := mcp.NewClient(gameService, scoreBoard)
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp

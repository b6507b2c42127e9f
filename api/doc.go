// Package api provides the HTTP REST API for the 2048 board game.
//
// The api package implements:
//   - Stateless game endpoints (new game, move, rules)
//   - The optional scoreboard
//   - WebSocket upgrade and MCP JSON-RPC mounting
//   - A Client that speaks the same API
//
// Endpoints:
//
// Game Operations:
//   - POST /game/new - Start a game: {"size"?, "win_tile"?}
//   - POST /game/move - Apply a direction: {"board", "score", "direction", "win_tile"?}
//   - GET /game/rules - Limits, defaults and direction codes
//   - GET /game/ws - WebSocket play (see package websocket)
//
// Scoreboard (404 unless enabled):
//   - GET /scores?board_size=&limit= - Best scores, highest first
//   - POST /scores - Record a game
//
// Other:
//   - POST /mcp - MCP JSON-RPC messages
//   - GET /health - Liveness and websocket connection count
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Directions are wire codes 1 (up),
// 2 (down), 3 (left) and 4 (right). Progress is "IN_PROGRESS", "GAME_WON" or
// "GAME_OVER". The server keeps no game state: a move response is the state
// the client sends with its next move.
//
// Every response carries an X-Request-ID header. A well-formed incoming
// X-Request-ID is echoed back, otherwise a UUID is assigned.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.Options{
//		Scores: scoreBoard,
//		MCP:    mcpClient.GetMCPServer(),
//		Logger: logger,
//	})
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON. Client input errors answer 400, a disabled
// scoreboard 404, anything else 500:
//
//	{
//	  "error": "invalid direction: must be 1 (up), 2 (down), 3 (left) or 4 (right), got 7",
//	  "type": "invalid_direction"
//	}
package api

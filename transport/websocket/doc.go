// Package websocket provides WebSocket transport for the 2048 board game.
//
// The websocket package implements:
//   - Stateless request/reply play over a single connection
//   - Connection registry and lifecycle management
//   - Server-wide event broadcasting (for example new scoreboard entries)
//
// Architecture:
//
// A central Hub owns the set of connected clients and is the only goroutine
// that mutates it. Each connection has a read pump, which decodes requests
// and calls the game service, and a write pump, which serialises replies,
// broadcasts and keep-alive pings.
//
// Message Protocol:
//
// Requests and replies are JSON frames:
//   - Incoming: {"type": "new_game"|"move"|"rules", "id": "...", "payload": {...}}
//   - Outgoing: {"type": "state"|"rules"|"error"|"event", "id": "...", "payload": {...}}
//
// The payload of a move request is the same body POST /game/move accepts, so
// the connection carries no game state between frames. The id, when present,
// is echoed back so clients can match replies to requests.
//
// Usage:
//
//	hub := websocket.NewHub(gameService, logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/game/ws", hub.ServeWS)
package websocket

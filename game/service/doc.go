// Package service provides the business logic layer for the 2048 board game.
//
// The service package implements:
//   - Stateless game creation and move application
//   - Defaults for board size, win tile and spawn policy
//   - Rules discovery for clients and agents
//   - An opt-in scoreboard for finished games
//
// Core Interfaces:
//
// GameService is the main service interface providing new-game, move and
// rules operations. It keeps no state between calls: every move request
// carries the complete board the client holds.
//
// ScoreBoard validates and records finished games through a ScoreStore.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// engine. Each call builds its own engine with a freshly seeded random source,
// so concurrent requests share nothing.
//
// Usage:
//
//	gameService := service.NewGameService(service.Options{DefaultSize: 4})
//
//	state, err := gameService.NewGame(ctx, service.NewGameRequest{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, service.MoveRequest{
//		Board:     state.Board,
//		Score:     state.Score,
//		Direction: engine.Left,
//		WinTile:   state.WinTile,
//	})
package service

// Package session keeps client-side game sessions for the 2048 board game.
//
// The server is stateless: every move request carries the whole board. A
// Session is the client's copy of that state between requests. The Manager
// starts sessions through a service.GameService (local or remote), applies
// moves, and refuses further moves once a game has been won or lost.
//
// Core Types:
//
// Session holds the working GameState plus bookkeeping such as the move
// count and the last server message. Manager owns a set of sessions and can
// persist them through a Persistence implementation so a game can be resumed
// later. FilePersistence stores one JSON file per session.
//
// Session Identifiers:
//
// Sessions use UUIDs. IDs supplied by callers (for example on resume) may only
// contain letters, digits, '-' and '_' because they become file names.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("~/.game2048/sessions")
//	manager := session.NewManagerWithPersistence(gameService, persistence, logger)
//
//	sess, err := manager.Start(ctx, service.NewGameRequest{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := manager.Move(ctx, sess.ID, engine.Left)
package session

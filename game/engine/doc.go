// Package engine provides the core board logic for the 2048 game.
//
// The engine package implements the game mechanics including:
//   - Sliding and merging tiles along rows and columns
//   - Scoring (each merge of two v tiles scores 2v)
//   - Spawning a 2 or 4 tile into a random empty cell
//   - Win and game-over detection
//   - Board, direction and size validation
//
// Core Types:
//
// Board is an N×N grid of tile values where 0 is an empty cell. GameState is
// the full snapshot a client holds between requests. Engine wraps a random
// source and applies moves; everything else in the package is a pure function.
//
// Usage:
//
//	eng := engine.New(rand.New(rand.NewPCG(1, 2)))
//
//	state, err := eng.NewGame(4, engine.DefaultWinTile)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := eng.Move(state.Board, state.Score, engine.Left, state.WinTile)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Game Rules:
//
// A move slides every tile as far as possible toward one edge. Two equal
// tiles that meet merge into one tile of double value, at most once per
// move. If the board changed, one new tile appears. The game is won once a
// tile reaches the win tile, and lost once the board is full and no move in
// any direction changes it.
package engine

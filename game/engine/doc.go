// Package engine provides the core rules and state machine for the Triomino game.
//
// The engine package implements the game mechanics including:
//   - Triangular grid adjacency driven by cell parity
//   - Edge matching between neighbouring pieces
//   - Bridge, hexagon and triple bonus detection
//   - The draw pile, player racks and turn rotation
//   - Rule variant configuration loading and validation
//
// Core Types:
//
// Piece is an immutable value with three corner numbers. Board is the sparse
// grid of placed pieces. RuleEngine holds the pure validation and scoring
// functions, and GameEngine is the turn-based state machine that orchestrates
// them and notifies subscribers synchronously.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.StartGame(2)
//	rack := gameEngine.CurrentPlayer().Rack
//	gameEngine.SelectPieceFromRack(rack[0].ID)
//	result := gameEngine.PlacePiece(5, 12)
//
// Game Rules:
//
// Pieces are placed on a grid of alternating up and down triangles. Every
// placement after the opening tile must touch at least one placed piece and
// every touching edge must carry the same two numbers in reverse order. A
// player scores the sum of the corners plus bonuses for bridges, completed
// hexagons and an opening triple. The first player to empty their rack ends
// the game.
package engine

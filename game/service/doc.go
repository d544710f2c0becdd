// Package service provides the business logic layer for the Triomino game.
//
// The service package implements:
//   - Multi-session game management
//   - Rule variant loading
//   - Command dispatch with event collection
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule variant loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance; the service
// serializes every call so an engine is never touched by two goroutines at
// once. Commands return a CommandResponse carrying the engine's result, the
// notifications fired while the command ran and the resulting game state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithEventHandler(hub.PublishCommand))
//
//	info, err := gameService.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := gameService.StartGame(ctx, info.ID, 2)
//	resp, err = gameService.SelectPiece(ctx, info.ID, 55, engine.FromRack)
//	resp, err = gameService.PlacePiece(ctx, info.ID, 6, 13)
//
// Determinism:
//
// CreateSession accepts an optional seed. Sessions created with the same seed
// and rule variant deal identical racks and pools.
package service

// Package websocket provides the live notification stream for the Triomino game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Relaying engine events and the resulting state after every command
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Registration, removal and fan-out all happen on the
// hub's Run goroutine; each client has a read pump and a write pump.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//   - {"event": "state_update", "game_state": {...}} on connect
//   - {"event": "command", "command": "place", "events": [...], "game_state": {...}}
//     after every command that changed the game
//
// Clients drive the game through the REST API or MCP tools; frames sent by
// clients are read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, configs,
//		service.WithEventHandler(hub.PublishCommand))
//
//	// in an HTTP handler
//	hub.ServeWS(w, r, sessionID, state)
package websocket

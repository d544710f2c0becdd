// Package mcp provides the Model Context Protocol server for the Triomino game.
//
// The mcp package implements:
//   - MCP tool definitions for every game command and query
//   - Text renderings of the game state for agents
//   - Stdio and streamable HTTP transports
//
// MCP Tools:
//
//   - create_session, list_sessions, get_session, delete_session
//   - start_game, reset_game, rename_player
//   - select_piece, deselect_piece, rotate_piece, place_piece, keep_piece, end_turn
//   - game_state, valid_placements, check_placement
//   - list_configs, game_instructions
//
// Tools call the game service directly, so commands issued by an agent are
// relayed to WebSocket viewers exactly like REST commands. A command the
// rules reject comes back as a tool error carrying the reason.
//
// Usage:
//
//	// Stdio mode
//	server := mcp.NewServer(gameService)
//	server.ServeStdio()
//
//	// HTTP mode
//	router.Handle("/mcp", server.HTTPHandler())
package mcp

// Package api provides HTTP REST API handlers for the Triomino game.
//
// The api package implements:
//   - Session management endpoints
//   - One endpoint per game command
//   - Placement queries for the current selection
//   - Rule variant listing and upload
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic", "seed": 42})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Commands (all POST, all answer with a CommandResponse):
//   - /api/sessions/{id}/start - {"players": 2}
//   - /api/sessions/{id}/reset
//   - /api/sessions/{id}/select - {"piece_id": 51, "source": "rack|pool"}
//   - /api/sessions/{id}/deselect
//   - /api/sessions/{id}/rotate
//   - /api/sessions/{id}/place - {"row": 6, "col": 13}
//   - /api/sessions/{id}/keep - move the selected pool piece to the rack
//   - /api/sessions/{id}/end-turn
//
// PUT /api/sessions/{id}/players/{player} renames a player.
//
// Queries:
//   - GET /api/sessions/{id}/state - Full game state
//   - GET /api/sessions/{id}/placements - Cells where the selection fits
//   - GET /api/sessions/{id}/placements/{row}/{col} - Check one cell
//
// Configuration:
//   - GET /api/configs - List rule variants
//   - GET /api/configs/{name} - Get one variant
//   - POST /api/configs - Save a variant
//
// Responses:
//
// A command rejected by the rules (an illegal placement, a command outside
// the playing phase) still answers 200 with "success": false and the
// reason in "message". Unknown sessions answer 404 and malformed requests
// answer 400, both with an {"error": "..."} body.
//
// WebSocket:
//
// GET /ws?session={id} streams the session's state and the events of every
// command, whichever transport issued it.
package api

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/triomino-game/game/engine"
	"github.com/wricardo/triomino-game/game/service"
)

const (
	serverName    = "Triomino Game"
	serverVersion = "1.0.0"
)

// Server exposes the game service as MCP tools
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by the given game service
func NewServer(gameService service.GameService) *Server {
	s := &Server{service: gameService}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Triomino Game - MCP Interface

Players take turns placing triangular pieces with a number (0-5) on each
corner onto a board of alternating up/down cells. Touching edges must carry
the same two numbers. A player who empties their rack ends the game.

TYPICAL TURN:
1. game_state to see your rack, the board and the pool
2. select_piece with a piece_id from your rack (source "rack")
3. valid_placements to list the cells where it fits in some rotation
4. place_piece at one of those cells; rotation is found automatically
   If nothing fits: select a pool piece and keep_piece, or end_turn.

AVAILABLE TOOLS:
- create_session, get_session, list_sessions, delete_session
- start_game, reset_game, rename_player
- game_state, valid_placements, check_placement
- select_piece, deselect_piece, rotate_piece, place_piece, keep_piece, end_turn
- list_configs, game_instructions`),
	)

	s.registerTools()
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// HTTPHandler serves the tools over streamable HTTP
func (s *Server) HTTPHandler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session ID",
			},
		},
		Required: []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Session management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional rule variant and shuffle seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Rule variant to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Shuffle seed for a reproducible deal (optional)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, s.handleGetSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session",
		InputSchema: sessionOnlySchema(),
	}, s.handleDeleteSession)

	// Game commands
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Deal racks and place the opening piece",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"players": map[string]interface{}{
					"type":        "integer",
					"description": "Number of players",
				},
			},
			Required: []string{"session_id", "players"},
		},
	}, s.handleStartGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Clear the game and return to setup",
		InputSchema: sessionOnlySchema(),
	}, s.handleResetGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rename_player",
		Description: "Change a player's display name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_id": map[string]interface{}{
					"type":        "integer",
					"description": "Player ID (1-based seat)",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New name",
				},
			},
			Required: []string{"session_id", "player_id", "name"},
		},
	}, s.handleRenamePlayer)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "select_piece",
		Description: "Select a piece from the current player's rack or from the pool. Selecting the selected piece again deselects it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"piece_id": map[string]interface{}{
					"type":        "integer",
					"description": "ID of the piece",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"rack", "pool"},
					"description": "Where the piece is (default rack)",
				},
			},
			Required: []string{"session_id", "piece_id"},
		},
	}, s.handleSelectPiece)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "deselect_piece",
		Description: "Clear the current selection",
		InputSchema: sessionOnlySchema(),
	}, s.handleDeselectPiece)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_piece",
		Description: "Rotate the selected piece one step clockwise",
		InputSchema: sessionOnlySchema(),
	}, s.handleRotatePiece)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "place_piece",
		Description: "Place the selected piece at a cell. Each rotation is tried until one fits.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Board row",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Board column",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handlePlacePiece)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "keep_piece",
		Description: "Add the selected pool piece to the current player's rack and end the turn",
		InputSchema: sessionOnlySchema(),
	}, s.handleKeepPiece)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "Pass the turn to the next player",
		InputSchema: sessionOnlySchema(),
	}, s.handleEndTurn)

	// Queries
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state: board, players, racks, pool and selection",
		InputSchema: sessionOnlySchema(),
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "valid_placements",
		Description: "List every cell where the selected piece fits in some rotation",
		InputSchema: sessionOnlySchema(),
	}, s.handleValidPlacements)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "check_placement",
		Description: "Check whether the selected piece fits at one cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Board row",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Board column",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, s.handleCheckPlacement)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule variants",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and the scoring table for a rule variant",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Rule variant (optional, defaults to classic)",
				},
			},
		},
	}, s.handleGameInstructions)
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// intArg accepts JSON numbers and numeric strings
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var seed *int64
	if n, ok := intArg(args, "seed"); ok {
		v := int64(n)
		seed = &v
	}

	info, err := s.service.CreateSession(ctx, stringArg(args, "config_id"), seed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nBoard: %dx%d, %d-%d players\n\nNext: start_game with the number of players.",
		info.ID, info.ConfigName, info.GameConfig.Rows, info.GameConfig.Cols,
		info.GameConfig.MinPlayers, info.GameConfig.MaxPlayers)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Active Sessions (%d):\n\n", len(sessions)))
	for _, info := range sessions {
		result.WriteString(fmt.Sprintf("- %s (Config: %s, Phase: %s, Created: %s)\n",
			info.ID, info.ConfigName, info.GameState.Phase, info.CreatedAt.Format("15:04:05")))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	info, err := s.service.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	if err := s.service.DeleteSession(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

// commandResult renders a command outcome. Rule rejections are reported
// as tool errors so agents notice them.
func commandResult(resp *service.CommandResponse, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !resp.Success {
		return mcp.NewToolResultError(fmt.Sprintf("Rejected: %s", resp.Message)), nil
	}
	return mcp.NewToolResultText(formatCommandResponse(resp)), nil
}

func (s *Server) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	players, ok := intArg(args, "players")
	if !ok {
		return mcp.NewToolResultError("players is required"), nil
	}

	return commandResult(s.service.StartGame(ctx, sessionID, players))
}

func (s *Server) handleResetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return commandResult(s.service.ResetGame(ctx, sessionID))
}

func (s *Server) handleRenamePlayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	playerID, ok := intArg(args, "player_id")
	if !ok {
		return mcp.NewToolResultError("player_id is required"), nil
	}

	return commandResult(s.service.SetPlayerName(ctx, sessionID, playerID, stringArg(args, "name")))
}

func (s *Server) handleSelectPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	pieceID, ok := intArg(args, "piece_id")
	if !ok {
		return mcp.NewToolResultError("piece_id is required"), nil
	}
	source := engine.SelectionSource(stringArg(args, "source"))

	return commandResult(s.service.SelectPiece(ctx, sessionID, pieceID, source))
}

func (s *Server) handleDeselectPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return commandResult(s.service.DeselectPiece(ctx, sessionID))
}

func (s *Server) handleRotatePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return commandResult(s.service.RotatePiece(ctx, sessionID))
}

func (s *Server) handlePlacePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}

	return commandResult(s.service.PlacePiece(ctx, sessionID, row, col))
}

func (s *Server) handleKeepPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return commandResult(s.service.KeepSelectedPiece(ctx, sessionID))
}

func (s *Server) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return commandResult(s.service.EndTurn(ctx, sessionID))
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (s *Server) handleValidPlacements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	resp, err := s.service.ValidPlacements(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if resp.Selection == nil {
		return mcp.NewToolResultText("No piece selected. Use select_piece first."), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Piece %s (id %d, from %s) fits at %d cell(s)",
		resp.Selection.Piece, resp.Selection.Piece.ID, resp.Selection.Source, resp.Count))
	if resp.Count == 0 {
		result.WriteString(". Try another piece, keep one from the pool, or end_turn.")
		return mcp.NewToolResultText(result.String()), nil
	}
	result.WriteString(":\n")
	for _, pos := range resp.Positions {
		result.WriteString(fmt.Sprintf("- row %d, col %d (%s)\n", pos.Row, pos.Col, engine.OrientationAt(pos.Row, pos.Col)))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleCheckPlacement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}

	check, err := s.service.CanPlace(ctx, sessionID, row, col)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	verdict := "does not fit"
	if check.Valid {
		verdict = "fits"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Selected piece %s at %s", verdict, check.Position)), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Available Rule Variants (%d):\n\n", len(configs)))
	for _, cfg := range configs {
		result.WriteString(fmt.Sprintf("- %s: %s (%dx%d, %d-%d players, rack %d)\n",
			cfg.ConfigID, cfg.Description, cfg.Rows, cfg.Cols, cfg.MinPlayers, cfg.MaxPlayers, cfg.RackSize))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID := stringArg(arguments(request), "config_id")
	if configID == "" {
		configID = "classic"
	}

	rules, err := s.service.LoadConfig(ctx, configID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatInstructions(rules)), nil
}

// Formatting helpers

func formatInstructions(rules *engine.RuleConfig) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("TRIOMINO RULES (%s)\n\n", rules.Name))
	b.WriteString(fmt.Sprintf("Board: %d rows x %d cols. A cell at (row, col) points up when row+col is even, down otherwise.\n", rules.Rows, rules.Cols))
	b.WriteString(fmt.Sprintf("Pieces: every non-decreasing triple of values 0-%d (%d pieces). Racks hold %d pieces.\n\n",
		rules.MaxCornerValue, engine.PieceCount(rules.MaxCornerValue), rules.RackSize))
	b.WriteString("PLACEMENT:\n")
	b.WriteString("- The opening piece is placed in the centre when the game starts.\n")
	b.WriteString("- Every later piece must touch at least one placed piece.\n")
	b.WriteString("- Each shared edge must show the same two numbers, mirrored.\n")
	b.WriteString("- place_piece tries all three rotations.\n\n")
	b.WriteString("SCORING:\n")
	b.WriteString("- Base: sum of the three corner values.\n")
	b.WriteString(fmt.Sprintf("- Triple (all corners equal): +%d\n", rules.TripleBonus))
	b.WriteString(fmt.Sprintf("- Bridge (matching %d or more edges at once): +%d\n", rules.BridgeMinEdges, rules.BridgeBonus))
	b.WriteString(fmt.Sprintf("- Hexagon (closing a ring of six pieces): +%d\n\n", rules.HexagonBonus))
	b.WriteString("END: the first player to empty their rack ends the game; highest score wins.\n")
	return b.String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		info.ID, info.ConfigName,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(info.GameState))
}

func formatCommandResponse(resp *service.CommandResponse) string {
	var b strings.Builder
	b.WriteString(resp.Message)
	if resp.PointsScored > 0 {
		b.WriteString(fmt.Sprintf(" (+%d points)", resp.PointsScored))
	}
	b.WriteString("\n")
	if len(resp.Events) > 0 {
		names := make([]string, len(resp.Events))
		for i, ev := range resp.Events {
			names[i] = string(ev.Type)
		}
		b.WriteString(fmt.Sprintf("Events: %s\n", strings.Join(names, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(resp.GameState))
	return b.String()
}

func formatPieces(pieces []engine.Piece) string {
	if len(pieces) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = fmt.Sprintf("#%d[%s]", p.ID, p)
	}
	return strings.Join(parts, " ")
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Phase: %s | Board: %dx%d | Pieces placed: %d | Pool: %d | Total score: %d\n",
		state.Phase, state.Rows, state.Cols, len(state.Board), len(state.Pool), state.TotalScore))

	if len(state.Players) > 0 {
		b.WriteString("\nPlayers:\n")
		for _, p := range state.Players {
			marker := "  "
			if p.IsCurrentPlayer {
				marker = "> "
			}
			b.WriteString(fmt.Sprintf("%s%d. %s - %d points - rack: %s\n", marker, p.ID, p.Name, p.Score, formatPieces(p.Rack)))
		}
	}

	if state.Selection != nil {
		b.WriteString(fmt.Sprintf("\nSelected: #%d[%s] from %s\n", state.Selection.Piece.ID, state.Selection.Piece, state.Selection.Source))
	}

	if len(state.Board) > 0 {
		b.WriteString("\nBoard:\n")
		placed := append([]engine.PlacedPiece(nil), state.Board...)
		sort.Slice(placed, func(i, j int) bool {
			if placed[i].Position.Row != placed[j].Position.Row {
				return placed[i].Position.Row < placed[j].Position.Row
			}
			return placed[i].Position.Col < placed[j].Position.Col
		})
		for _, pp := range placed {
			b.WriteString(fmt.Sprintf("  %s %-4s %s\n", pp.Position, pp.Piece.Orientation, pp.Piece))
		}
		b.WriteString(formatBoardMap(state))
	}

	if len(state.Standings) > 0 {
		b.WriteString("\nFinal standings:\n")
		for _, st := range state.Standings {
			b.WriteString(fmt.Sprintf("  %d. %s - %d\n", st.Rank, st.Name, st.Score))
		}
	}

	if state.Message != "" {
		b.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return b.String()
}

// formatBoardMap draws the occupied area plus a one-cell margin; ^ and v
// mark placed pieces, dots are free cells
func formatBoardMap(state *engine.GameState) string {
	minRow, maxRow := state.Rows, -1
	minCol, maxCol := state.Cols, -1
	occupied := make(map[engine.Position]bool, len(state.Board))
	for _, pp := range state.Board {
		occupied[pp.Position] = true
		minRow = min(minRow, pp.Position.Row)
		maxRow = max(maxRow, pp.Position.Row)
		minCol = min(minCol, pp.Position.Col)
		maxCol = max(maxCol, pp.Position.Col)
	}
	minRow = max(0, minRow-1)
	maxRow = min(state.Rows-1, maxRow+1)
	minCol = max(0, minCol-1)
	maxCol = min(state.Cols-1, maxCol+1)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\nMap rows %d-%d, cols %d-%d:\n", minRow, maxRow, minCol, maxCol))
	for r := minRow; r <= maxRow; r++ {
		b.WriteString(fmt.Sprintf("%3d ", r))
		for c := minCol; c <= maxCol; c++ {
			switch {
			case !occupied[engine.Position{Row: r, Col: c}]:
				b.WriteString(".")
			case engine.OrientationAt(r, c) == engine.PointingUp:
				b.WriteString("^")
			default:
				b.WriteString("v")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Commands
	StartGame(playerCount int) CommandResult
	ResetGame() CommandResult
	EndTurn() CommandResult
	SelectPieceFromRack(pieceID int) CommandResult
	SelectPieceFromPool(pieceID int) CommandResult
	DeselectPiece() CommandResult
	RotatePiece() CommandResult
	PlacePiece(row, col int) CommandResult
	AddSelectedPieceToRack() CommandResult
	SetPlayerName(playerID int, name string) CommandResult

	// Queries
	Phase() Phase
	Players() []Player
	CurrentPlayer() Player
	CurrentPlayerIndex() int
	PlayerAt(index int) Player
	PlacedPieces() []PlacedPiece
	PieceAt(row, col int) (PlacedPiece, bool)
	BoardSize() (rows, cols int)
	PoolPieces() []Piece
	Selection() (Selection, bool)
	IsFirstMove() bool
	TotalScore() int
	Standings() []Standing
	ValidPlacements() []Position
	CanPlaceAt(row, col int) bool
	State() *GameState

	// Notifications
	Subscribe(listener Listener) func()
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithShuffler injects the random source used to shuffle the draw pile
func WithShuffler(s Shuffler) Option {
	return func(e *GameEngine) {
		e.shuffler = s
	}
}

// WithSeed shuffles the draw pile deterministically from seed
func WithSeed(seed int64) Option {
	return WithShuffler(rand.New(rand.NewSource(seed)))
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialise access.
type GameEngine struct {
	config   *RuleConfig
	rules    *RuleEngine
	shuffler Shuffler

	phase      Phase
	players    []*Player
	current    int
	board      *Board
	pile       *DrawPile
	selection  *Selection
	totalScore int
	standings  []Standing
	message    string

	listeners      []subscription
	nextListenerID int
}

// NewEngine creates a new game engine for the given rule variant
func NewEngine(config *RuleConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateRuleConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		rules:  NewRuleEngine(config),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.shuffler == nil {
		seed, err := newSeed()
		if err != nil {
			return nil, err
		}
		e.shuffler = rand.New(rand.NewSource(seed))
	}

	e.clear()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the standard rules
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultRuleConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Config returns the rule variant in use
func (e *GameEngine) Config() *RuleConfig {
	return e.config
}

// Rules returns the rule engine used for validation and scoring
func (e *GameEngine) Rules() *RuleEngine {
	return e.rules
}

func (e *GameEngine) clear() {
	e.phase = PhaseSetup
	e.players = nil
	e.current = 0
	e.board = NewBoard(e.config.Rows, e.config.Cols)
	e.pile = NewDrawPile(nil)
	e.selection = nil
	e.totalScore = 0
	e.standings = nil
	e.message = "Waiting for players"
}

func fail(format string, args ...any) CommandResult {
	return CommandResult{Message: fmt.Sprintf(format, args...)}
}

func (e *GameEngine) requirePlaying() (CommandResult, bool) {
	if e.phase != PhasePlaying {
		return fail("action not allowed: game is in %s phase", e.phase), false
	}
	return CommandResult{}, true
}

// StartGame deals a new game for playerCount players
func (e *GameEngine) StartGame(playerCount int) CommandResult {
	if e.phase != PhaseSetup {
		return fail("cannot start: game is in %s phase", e.phase)
	}
	if playerCount < e.config.MinPlayers || playerCount > e.config.MaxPlayers {
		return fail("player count must be between %d and %d, got %d", e.config.MinPlayers, e.config.MaxPlayers, playerCount)
	}

	e.clear()
	e.pile = NewStandardPile(e.config.MaxCornerValue)
	e.pile.Shuffle(e.shuffler)

	// The opening tile goes to the centre without adjacency checks
	opening, err := e.pile.Draw()
	if err != nil {
		e.clear()
		return fail("cannot draw opening piece: %v", err)
	}
	center := e.board.Center()
	placed := e.board.Place(opening, center)
	openingScore := e.rules.CalculatePlacementScore(placed.Piece, true, 0, false)
	e.totalScore = openingScore.Total

	for i := 0; i < playerCount; i++ {
		player := NewPlayer(i+1, fmt.Sprintf("Player %d", i+1))
		for j := 0; j < e.config.RackSize; j++ {
			piece, err := e.pile.Draw()
			if err != nil {
				e.clear()
				return fail("cannot deal pieces: %v", err)
			}
			player.AddPiece(piece)
		}
		e.players = append(e.players, player)
	}

	e.current = 0
	e.players[0].IsCurrentPlayer = true
	e.phase = PhasePlaying
	e.message = fmt.Sprintf("Opening piece %s placed at %s. %s", placed.Piece, center, openingScore.Message)

	e.emitStateChanged()
	e.emitPlayerChanged()

	return CommandResult{
		Success:      true,
		Message:      fmt.Sprintf("Game started with %d player(s)", playerCount),
		PointsScored: openingScore.Total,
	}
}

// ResetGame clears everything and returns to setup from any phase
func (e *GameEngine) ResetGame() CommandResult {
	hadSelection := e.selection != nil
	e.clear()
	if hadSelection {
		e.emitSelectionChanged()
	}
	e.emitStateChanged()
	return CommandResult{Success: true, Message: "Game reset"}
}

// SetPlayerName renames a player
func (e *GameEngine) SetPlayerName(playerID int, name string) CommandResult {
	if name == "" {
		return fail("player name cannot be empty")
	}
	for _, p := range e.players {
		if p.ID == playerID {
			p.Name = name
			e.emitStateChanged()
			return CommandResult{Success: true, Message: fmt.Sprintf("Player %d is now %s", playerID, name)}
		}
	}
	return fail("player %d not found", playerID)
}

// SelectPieceFromRack selects a piece held by the current player
func (e *GameEngine) SelectPieceFromRack(pieceID int) CommandResult {
	if res, ok := e.requirePlaying(); !ok {
		return res
	}
	player := e.players[e.current]
	piece, ok := player.RackPiece(pieceID)
	if !ok {
		return fail("piece %d is not in %s's rack", pieceID, player.Name)
	}
	return e.toggleSelection(piece, FromRack)
}

// SelectPieceFromPool selects a piece still in the draw pile
func (e *GameEngine) SelectPieceFromPool(pieceID int) CommandResult {
	if res, ok := e.requirePlaying(); !ok {
		return res
	}
	piece, ok := e.pile.Get(pieceID)
	if !ok {
		return fail("piece %d is not in the pool", pieceID)
	}
	return e.toggleSelection(piece, FromPool)
}

func (e *GameEngine) toggleSelection(piece Piece, source SelectionSource) CommandResult {
	if e.selection != nil && e.selection.Piece.ID == piece.ID {
		e.selection = nil
		e.emitSelectionChanged()
		return CommandResult{Success: true, Message: fmt.Sprintf("Piece %s deselected", piece)}
	}

	e.selection = &Selection{Piece: piece, Source: source}
	e.emitSelectionChanged()
	return CommandResult{Success: true, Message: fmt.Sprintf("Piece %s selected from %s", piece, source)}
}

// DeselectPiece clears the selection
func (e *GameEngine) DeselectPiece() CommandResult {
	e.selection = nil
	e.emitSelectionChanged()
	return CommandResult{Success: true, Message: "Selection cleared"}
}

// RotatePiece rotates the selected piece in place
func (e *GameEngine) RotatePiece() CommandResult {
	if e.selection == nil {
		return fail("no piece selected")
	}
	e.selection.Piece = e.selection.Piece.Rotate()
	e.emitSelectionChanged()
	return CommandResult{Success: true, Message: fmt.Sprintf("Piece rotated to %s", e.selection.Piece)}
}

// PlacePiece places the selected piece at (row, col), trying each rotation
// in turn until one fits
func (e *GameEngine) PlacePiece(row, col int) CommandResult {
	if res, ok := e.requirePlaying(); !ok {
		return res
	}
	if e.selection == nil {
		return fail("no piece selected")
	}

	pos := Position{Row: row, Col: col}
	firstMove := e.IsFirstMove()
	validation, ok := e.rules.FirstValidRotation(e.selection.Piece, pos, e.board, firstMove)
	if !ok {
		return fail("%s", validation.Message)
	}

	placed := e.board.Place(validation.Piece, pos)
	hexagon := e.rules.CheckHexagonCompletion(pos, e.board)
	score := e.rules.CalculatePlacementScore(placed.Piece, firstMove, validation.MatchingEdges, hexagon)

	player := e.players[e.current]
	e.totalScore += score.Total
	player.Score += score.Total

	if e.selection.Source == FromRack {
		player.RemovePiece(placed.Piece.ID)
	} else {
		e.pile.Remove(placed.Piece.ID)
	}
	e.selection = nil
	e.message = fmt.Sprintf("%s placed %s at %s. %s", player.Name, placed.Piece, pos, score.Message)

	e.emit(Event{Type: EventPiecePlaced, Placement: &placed, Score: &score})
	e.emitSelectionChanged()

	if len(player.Rack) == 0 {
		e.finish()
	} else {
		e.advanceTurn()
	}

	return CommandResult{Success: true, Message: score.Message, PointsScored: score.Total}
}

// AddSelectedPieceToRack keeps the selected pool piece and ends the turn
func (e *GameEngine) AddSelectedPieceToRack() CommandResult {
	if res, ok := e.requirePlaying(); !ok {
		return res
	}
	if e.selection == nil {
		return fail("no piece selected")
	}
	if e.selection.Source != FromPool {
		return fail("only pieces selected from the pool can be added to the rack")
	}

	piece, ok := e.pile.Get(e.selection.Piece.ID)
	if !ok || !e.pile.Remove(piece.ID) {
		return fail("piece %d is not in the pool", e.selection.Piece.ID)
	}

	player := e.players[e.current]
	player.AddPiece(piece)
	e.selection = nil
	e.message = fmt.Sprintf("%s took %s from the pool", player.Name, piece)

	e.emitSelectionChanged()
	e.advanceTurn()

	return CommandResult{Success: true, Message: e.message}
}

// EndTurn passes to the next player
func (e *GameEngine) EndTurn() CommandResult {
	if res, ok := e.requirePlaying(); !ok {
		return res
	}
	name := e.players[e.current].Name
	if e.selection != nil {
		e.selection = nil
		e.emitSelectionChanged()
	}
	e.message = fmt.Sprintf("%s passed", name)
	e.advanceTurn()
	return CommandResult{Success: true, Message: e.message}
}

func (e *GameEngine) advanceTurn() {
	e.players[e.current].IsCurrentPlayer = false
	e.current = (e.current + 1) % len(e.players)
	e.players[e.current].IsCurrentPlayer = true
	e.selection = nil
	e.emitPlayerChanged()
}

func (e *GameEngine) finish() {
	e.phase = PhaseGameOver
	e.standings = RankStandings(e.players)
	winner := e.standings[0]
	e.message = fmt.Sprintf("Game over! %s wins with %d points", winner.Name, winner.Score)

	e.emitStateChanged()
	e.emit(Event{Type: EventGameEnded, Standings: append([]Standing(nil), e.standings...)})
}

// RankStandings orders players by descending score, keeping seat order on ties
func RankStandings(players []*Player) []Standing {
	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// Phase returns the current lifecycle phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// Players returns snapshots of all players in seat order
func (e *GameEngine) Players() []Player {
	players := make([]Player, len(e.players))
	for i, p := range e.players {
		players[i] = p.Snapshot()
	}
	return players
}

// PlayerAt returns the player in the given seat. It panics on a bad index.
func (e *GameEngine) PlayerAt(index int) Player {
	if index < 0 || index >= len(e.players) {
		panic(fmt.Sprintf("engine: player index %d out of range [0,%d)", index, len(e.players)))
	}
	return e.players[index].Snapshot()
}

// CurrentPlayer returns the player whose turn it is. It panics before the
// game has started.
func (e *GameEngine) CurrentPlayer() Player {
	return e.PlayerAt(e.current)
}

// CurrentPlayerIndex returns the seat of the current player
func (e *GameEngine) CurrentPlayerIndex() int {
	return e.current
}

// BoardSize returns the board dimensions
func (e *GameEngine) BoardSize() (rows, cols int) {
	return e.board.Rows(), e.board.Cols()
}

// PlacedPieces returns every piece on the board in row-major order
func (e *GameEngine) PlacedPieces() []PlacedPiece {
	return e.board.Pieces()
}

// PieceAt returns the placed piece at (row, col)
func (e *GameEngine) PieceAt(row, col int) (PlacedPiece, bool) {
	return e.board.PieceAt(Position{Row: row, Col: col})
}

// PoolPieces returns the undrawn pieces
func (e *GameEngine) PoolPieces() []Piece {
	return e.pile.Pieces()
}

// Selection returns the selected piece, if any
func (e *GameEngine) Selection() (Selection, bool) {
	if e.selection == nil {
		return Selection{}, false
	}
	return *e.selection, true
}

// IsFirstMove reports whether the board is still empty
func (e *GameEngine) IsFirstMove() bool {
	return e.board.Len() == 0
}

// TotalScore returns the points scored in this game, including the opening tile
func (e *GameEngine) TotalScore() int {
	return e.totalScore
}

// Standings returns the final ranking once the game is over
func (e *GameEngine) Standings() []Standing {
	return append([]Standing(nil), e.standings...)
}

// ValidPlacements lists the cells where the selected piece fits in some rotation
func (e *GameEngine) ValidPlacements() []Position {
	if e.selection == nil || e.phase != PhasePlaying {
		return nil
	}
	var positions []Position
	for pos := range e.rules.ValidPlacements(e.selection.Piece, e.board) {
		positions = append(positions, pos)
	}
	return positions
}

// CanPlaceAt reports whether the selected piece fits at (row, col) in some rotation
func (e *GameEngine) CanPlaceAt(row, col int) bool {
	if e.selection == nil || e.phase != PhasePlaying {
		return false
	}
	_, ok := e.rules.FirstValidRotation(e.selection.Piece, Position{Row: row, Col: col}, e.board, e.IsFirstMove())
	return ok
}

// State returns a snapshot of the whole session
func (e *GameEngine) State() *GameState {
	state := &GameState{
		Phase:              e.phase,
		ConfigName:         e.config.Name,
		Rows:               e.board.Rows(),
		Cols:               e.board.Cols(),
		Players:            e.Players(),
		CurrentPlayerIndex: e.current,
		Board:              e.board.Pieces(),
		Pool:               e.pile.Pieces(),
		FirstMove:          e.IsFirstMove(),
		TotalScore:         e.totalScore,
		Standings:          e.Standings(),
		Message:            e.message,
	}
	if e.selection != nil {
		sel := *e.selection
		state.Selection = &sel
	}
	return state
}

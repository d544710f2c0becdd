package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/triomino-game/game/engine"
)

var (
	ErrUnknownSource = errors.New("unknown selection source")
	ErrNoConfig      = errors.New("no rule configuration available")
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithEventHandler registers a handler that receives every command response
// that produced at least one engine event
func WithEventHandler(handler EventHandler) Option {
	return func(s *gameServiceImpl) {
		s.onEvents = handler
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	onEvents EventHandler
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. A nil seed shuffles from a
// random source.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.RuleConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("failed to load config '%s' (available configs: %v): %w", configName, configIDs, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		if config == nil {
			return nil, ErrNoConfig
		}
	}

	var opts []engine.Option
	if seed != nil {
		opts = append(opts, engine.WithSeed(*seed))
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}

	log.Printf("Created session %s with config %s", sess.ID, sess.ConfigID)
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	log.Printf("Deleted session %s", sessionID)
	return nil
}

// execute runs a command against a session's engine, collecting the events
// the engine fires while it runs
func (s *gameServiceImpl) execute(sessionID, command string, run func(*engine.GameEngine) engine.CommandResult) (*CommandResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	unsubscribe := sess.Engine.Subscribe(func(ev engine.Event) {
		events = append(events, GameEvent{Event: ev, Timestamp: time.Now()})
	})
	result := run(sess.Engine)
	unsubscribe()

	resp := &CommandResponse{
		SessionID:    sess.ID,
		Command:      command,
		Success:      result.Success,
		Message:      result.Message,
		PointsScored: result.PointsScored,
		Events:       events,
		GameState:    sess.Engine.State(),
	}

	if !result.Success {
		log.Printf("Session %s: %s rejected: %s", sess.ID, command, result.Message)
	}

	if len(events) > 0 && s.onEvents != nil {
		s.onEvents(sess.ID, resp)
	}

	return resp, nil
}

// StartGame deals racks and places the opening piece
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string, players int) (*CommandResponse, error) {
	return s.execute(sessionID, "start", func(e *engine.GameEngine) engine.CommandResult {
		return e.StartGame(players)
	})
}

// ResetGame returns a session to the setup phase
func (s *gameServiceImpl) ResetGame(ctx context.Context, sessionID string) (*CommandResponse, error) {
	return s.execute(sessionID, "reset", (*engine.GameEngine).ResetGame)
}

// SetPlayerName renames a player
func (s *gameServiceImpl) SetPlayerName(ctx context.Context, sessionID string, playerID int, name string) (*CommandResponse, error) {
	return s.execute(sessionID, "rename", func(e *engine.GameEngine) engine.CommandResult {
		return e.SetPlayerName(playerID, name)
	})
}

// SelectPiece toggles the selection of a rack or pool piece
func (s *gameServiceImpl) SelectPiece(ctx context.Context, sessionID string, pieceID int, source engine.SelectionSource) (*CommandResponse, error) {
	var run func(*engine.GameEngine) engine.CommandResult
	switch source {
	case engine.FromRack, "":
		run = func(e *engine.GameEngine) engine.CommandResult { return e.SelectPieceFromRack(pieceID) }
	case engine.FromPool:
		run = func(e *engine.GameEngine) engine.CommandResult { return e.SelectPieceFromPool(pieceID) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return s.execute(sessionID, "select", run)
}

// DeselectPiece clears the selection
func (s *gameServiceImpl) DeselectPiece(ctx context.Context, sessionID string) (*CommandResponse, error) {
	return s.execute(sessionID, "deselect", (*engine.GameEngine).DeselectPiece)
}

// RotatePiece rotates the selected piece
func (s *gameServiceImpl) RotatePiece(ctx context.Context, sessionID string) (*CommandResponse, error) {
	return s.execute(sessionID, "rotate", (*engine.GameEngine).RotatePiece)
}

// PlacePiece places the selected piece at a cell
func (s *gameServiceImpl) PlacePiece(ctx context.Context, sessionID string, row, col int) (*CommandResponse, error) {
	return s.execute(sessionID, "place", func(e *engine.GameEngine) engine.CommandResult {
		return e.PlacePiece(row, col)
	})
}

// KeepSelectedPiece moves the selected pool piece into the current rack
func (s *gameServiceImpl) KeepSelectedPiece(ctx context.Context, sessionID string) (*CommandResponse, error) {
	return s.execute(sessionID, "keep", (*engine.GameEngine).AddSelectedPieceToRack)
}

// EndTurn passes the turn to the next player
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*CommandResponse, error) {
	return s.execute(sessionID, "end_turn", (*engine.GameEngine).EndTurn)
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.State(), nil
}

// ValidPlacements lists every cell where the selected piece fits in some rotation
func (s *gameServiceImpl) ValidPlacements(ctx context.Context, sessionID string) (*PlacementsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	positions := sess.Engine.ValidPlacements()
	if positions == nil {
		positions = []engine.Position{}
	}
	resp := &PlacementsResponse{
		Positions: positions,
		FirstMove: sess.Engine.IsFirstMove(),
		Count:     len(positions),
	}
	if sel, ok := sess.Engine.Selection(); ok {
		resp.Selection = &sel
	}
	return resp, nil
}

// CanPlace reports whether the selected piece fits at a cell
func (s *gameServiceImpl) CanPlace(ctx context.Context, sessionID string, row, col int) (*PlacementCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	return &PlacementCheck{
		Position: engine.Position{Row: row, Col: col},
		Valid:    sess.Engine.CanPlaceAt(row, col),
	}, nil
}

// ListConfigs returns all available rule variants
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule variant
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.RuleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a rule variant
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.RuleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

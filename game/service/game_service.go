package service

import (
	"context"
	"time"

	"github.com/wricardo/triomino-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Commands
	StartGame(ctx context.Context, sessionID string, players int) (*CommandResponse, error)
	ResetGame(ctx context.Context, sessionID string) (*CommandResponse, error)
	SetPlayerName(ctx context.Context, sessionID string, playerID int, name string) (*CommandResponse, error)
	SelectPiece(ctx context.Context, sessionID string, pieceID int, source engine.SelectionSource) (*CommandResponse, error)
	DeselectPiece(ctx context.Context, sessionID string) (*CommandResponse, error)
	RotatePiece(ctx context.Context, sessionID string) (*CommandResponse, error)
	PlacePiece(ctx context.Context, sessionID string, row, col int) (*CommandResponse, error)
	KeepSelectedPiece(ctx context.Context, sessionID string) (*CommandResponse, error)
	EndTurn(ctx context.Context, sessionID string) (*CommandResponse, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	ValidPlacements(ctx context.Context, sessionID string) (*PlacementsResponse, error)
	CanPlace(ctx context.Context, sessionID string, row, col int) (*PlacementCheck, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.RuleConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.RuleConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.RuleConfig, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles rule variant loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.RuleConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.RuleConfig
	SaveConfig(name string, config *engine.RuleConfig) error
}

// EventHandler receives the events produced by a command together with the
// resulting state. It is invoked while the session is locked and must not
// call back into the service.
type EventHandler func(sessionID string, resp *CommandResponse)

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.RuleConfig
	ConfigID       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

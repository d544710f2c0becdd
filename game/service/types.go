package service

import (
	"time"

	"github.com/wricardo/triomino-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.RuleConfig `json:"game_config"`
}

// CommandResponse contains the outcome of a single engine command
type CommandResponse struct {
	SessionID    string            `json:"session_id"`
	Command      string            `json:"command"`
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	PointsScored int               `json:"points_scored"`
	Events       []GameEvent       `json:"events,omitempty"`
	GameState    *engine.GameState `json:"game_state"`
}

// GameEvent wraps an engine notification with the time it was observed
type GameEvent struct {
	engine.Event
	Timestamp time.Time `json:"timestamp"`
}

// PlacementsResponse lists the cells where the current selection fits
type PlacementsResponse struct {
	Selection *engine.Selection `json:"selection,omitempty"`
	Positions []engine.Position `json:"positions"`
	FirstMove bool              `json:"first_move"`
	Count     int               `json:"count"`
}

// PlacementCheck reports whether the current selection fits at one cell
type PlacementCheck struct {
	Position engine.Position `json:"position"`
	Valid    bool            `json:"valid"`
}

// ConfigInfo provides information about a rule variant
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
	RackSize    int    `json:"rack_size"`
}

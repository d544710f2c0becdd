package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Validation constants
	MinBoardSize     = 3
	MaxBoardSize     = 100
	MaxPlayersLimit  = 8
	MaxCornerLimit   = 9
	DefaultRows      = 12
	DefaultCols      = 24
	DefaultRackSize  = 7
	DefaultMaxCorner = 5
)

// ErrInvalidConfig wraps every rule configuration validation failure
var ErrInvalidConfig = errors.New("invalid rule config")

// RuleConfig holds the rule constants of a game variant
type RuleConfig struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
	MinPlayers     int    `json:"min_players"`
	MaxPlayers     int    `json:"max_players"`
	RackSize       int    `json:"rack_size"`
	MaxCornerValue int    `json:"max_corner_value"`
	TripleBonus    int    `json:"triple_bonus"`
	BridgeBonus    int    `json:"bridge_bonus"`
	BridgeMinEdges int    `json:"bridge_min_edges"`
	HexagonBonus   int    `json:"hexagon_bonus"`
}

// DefaultRuleConfig returns the standard rules: a 12x24 board, one to four
// players with seven pieces each and the 56-piece set.
func DefaultRuleConfig() *RuleConfig {
	return &RuleConfig{
		Name:           "classic",
		Description:    "Standard rules with the 56-piece set",
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		MinPlayers:     1,
		MaxPlayers:     4,
		RackSize:       DefaultRackSize,
		MaxCornerValue: DefaultMaxCorner,
		TripleBonus:    10,
		BridgeBonus:    40,
		BridgeMinEdges: 2,
		HexagonBonus:   50,
	}
}

// ValidateRuleConfig checks a rule configuration for correctness and playability
func ValidateRuleConfig(config *RuleConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	if config.Rows < MinBoardSize || config.Rows > MaxBoardSize {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize, config.Rows)
	}
	if config.Cols < MinBoardSize || config.Cols > MaxBoardSize {
		return fmt.Errorf("%w: cols must be between %d and %d, got %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize, config.Cols)
	}

	if config.MinPlayers < 1 {
		return fmt.Errorf("%w: min_players must be at least 1, got %d", ErrInvalidConfig, config.MinPlayers)
	}
	if config.MaxPlayers < config.MinPlayers || config.MaxPlayers > MaxPlayersLimit {
		return fmt.Errorf("%w: max_players must be between min_players (%d) and %d, got %d",
			ErrInvalidConfig, config.MinPlayers, MaxPlayersLimit, config.MaxPlayers)
	}
	if config.RackSize < 1 {
		return fmt.Errorf("%w: rack_size must be at least 1, got %d", ErrInvalidConfig, config.RackSize)
	}

	if config.MaxCornerValue < 0 || config.MaxCornerValue > MaxCornerLimit {
		return fmt.Errorf("%w: max_corner_value must be between 0 and %d, got %d", ErrInvalidConfig, MaxCornerLimit, config.MaxCornerValue)
	}

	// The opening tile plus a full rack for every seat must come out of the pile
	needed := 1 + config.MaxPlayers*config.RackSize
	if available := PieceCount(config.MaxCornerValue); needed > available {
		return fmt.Errorf("%w: %d players with %d pieces each need %d pieces but the set has %d",
			ErrInvalidConfig, config.MaxPlayers, config.RackSize, needed, available)
	}

	if config.TripleBonus < 0 || config.BridgeBonus < 0 || config.HexagonBonus < 0 {
		return fmt.Errorf("%w: bonuses cannot be negative", ErrInvalidConfig)
	}
	if config.BridgeMinEdges < 1 || config.BridgeMinEdges > 3 {
		return fmt.Errorf("%w: bridge_min_edges must be between 1 and 3, got %d", ErrInvalidConfig, config.BridgeMinEdges)
	}

	return nil
}

// LoadRuleConfig loads a rule configuration from a JSON file
func LoadRuleConfig(filename string) (*RuleConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseRuleConfig(data)
}

// ParseRuleConfig decodes and validates a JSON rule configuration
func ParseRuleConfig(data []byte) (*RuleConfig, error) {
	var config RuleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateRuleConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a rule configuration by name from the configs directory
func LoadConfigByName(configName string) (*RuleConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configDir := "configs"
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		configDir = dir
	}
	configPath := filepath.Join(configDir, configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %v", configName, err)
	}

	config, err := ParseRuleConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return config, nil
}

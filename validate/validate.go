// Package validate checks rule variant JSON files before they are deployed
// to a config directory. For every file it checks:
//   - JSON structure, rejecting unknown fields
//   - the rule constraints enforced by the engine (board size, player
//     range, rack size, corner values, bonuses)
//   - that the file name matches the variant name
//   - that a short automated game can be dealt and played
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/triomino-game/game/engine"
	"github.com/wricardo/triomino-game/game/simulate"
)

// SmokeSeed is the shuffle seed used for the smoke game
const SmokeSeed = 1

// smokeTurns bounds the smoke game
const smokeTurns = 200

// ValidationResult captures the outcome of validating a single file.
// Errors lists the problems found; Info carries details about a valid file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateFile loads and validates a single rule variant file
func ValidateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
		Info:   []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.RuleConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateRuleConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), engine.ErrInvalidConfig.Error()+": "))
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if config.Name != "" && config.Name != stem {
		result.fail("Name %q does not match file name %q", config.Name, stem)
	}

	if !result.Valid {
		return result
	}

	smoke, err := smokeGame(&config)
	if err != nil {
		result.fail("Smoke game failed: %v", err)
		return result
	}
	if smoke.Placements == 0 {
		result.fail("Smoke game: no piece could be placed after the opening tile")
		return result
	}

	pieces := engine.PieceCount(config.MaxCornerValue)
	center := engine.NewBoard(config.Rows, config.Cols).Center()
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Board: %dx%d, opening cell %s", config.Rows, config.Cols, center),
		fmt.Sprintf("✓ Players: %d-%d with %d pieces each", config.MinPlayers, config.MaxPlayers, config.RackSize),
		fmt.Sprintf("✓ Pieces: %d (corner values 0-%d), %d left in the pool with a full table", pieces, config.MaxCornerValue, pieces-1-config.MaxPlayers*config.RackSize),
		fmt.Sprintf("✓ Bonuses: triple %d, bridge %d (%d+ edges), hexagon %d", config.TripleBonus, config.BridgeBonus, config.BridgeMinEdges, config.HexagonBonus),
		fmt.Sprintf("✓ Smoke game: %d placements in %d turns", smoke.Placements, len(smoke.Turns)),
	)

	return result
}

func smokeGame(config *engine.RuleConfig) (*simulate.Result, error) {
	eng, err := engine.NewEngine(config, engine.WithSeed(SmokeSeed))
	if err != nil {
		return nil, err
	}
	return simulate.Play(eng, simulate.Options{
		Players:       config.MinPlayers,
		MaxTurns:      smokeTurns,
		DrawWhenStuck: true,
	})
}

// ValidateDir validates every *.json file in dir
func ValidateDir(dir string) ([]ValidationResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config directory: %s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no configuration files found")
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

// WriteReport prints a concise report and returns whether every file is valid
func WriteReport(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

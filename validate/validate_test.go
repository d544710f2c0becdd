package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"name": "test_variant",
	"description": "Test configuration",
	"rows": 12,
	"cols": 24,
	"min_players": 1,
	"max_players": 4,
	"rack_size": 7,
	"max_corner_value": 5,
	"triple_bonus": 10,
	"bridge_bonus": 40,
	"bridge_min_edges": 2,
	"hexagon_bonus": 50
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateFile_ValidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test_variant.json", validConfig)

	result := ValidateFile(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test_variant.json" {
		t.Errorf("Expected file name test_variant.json, got %s", result.File)
	}

	joined := strings.Join(result.Info, "\n")
	for _, want := range []string{"✓ Name: test_variant", "✓ Board: 12x24, opening cell (6,12)", "✓ Pieces: 56", "✓ Smoke game:"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected info %q, got:\n%s", want, joined)
		}
	}
}

func TestValidateFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.json", `{"name": "broken", invalid json}`)

	result := ValidateFile(path)
	if result.Valid {
		t.Fatal("Expected invalid JSON to fail")
	}
	if !strings.Contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got %v", result.Errors)
	}
}

func TestValidateFile_MissingFile(t *testing.T) {
	result := ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Fatal("Expected missing file to fail")
	}
	if !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateFile_RuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "unknown field",
			file:    "test_variant.json",
			content: strings.Replace(validConfig, `"rows": 12,`, `"rows": 12, "grid_size": 5,`, 1),
			want:    "unknown field",
		},
		{
			name:    "board too small",
			file:    "test_variant.json",
			content: strings.Replace(validConfig, `"rows": 12,`, `"rows": 2,`, 1),
			want:    "rows must be between",
		},
		{
			name:    "too many pieces dealt",
			file:    "test_variant.json",
			content: strings.Replace(validConfig, `"rack_size": 7,`, `"rack_size": 20,`, 1),
			want:    "need 81 pieces but the set has 56",
		},
		{
			name:    "negative bonus",
			file:    "test_variant.json",
			content: strings.Replace(validConfig, `"hexagon_bonus": 50`, `"hexagon_bonus": -1`, 1),
			want:    "bonuses cannot be negative",
		},
		{
			name:    "name mismatch",
			file:    "other.json",
			content: validConfig,
			want:    `does not match file name "other"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			result := ValidateFile(path)
			if result.Valid {
				t.Fatal("Expected config to be invalid")
			}
			if !strings.Contains(strings.Join(result.Errors, "\n"), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
			if len(result.Info) != 0 {
				t.Errorf("Invalid configs should carry no info lines, got %v", result.Info)
			}
		})
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_variant.json", validConfig)
	writeFile(t, dir, "broken.json", `{`)
	writeFile(t, dir, "notes.txt", "ignored")

	results, err := ValidateDir(dir)
	if err != nil {
		t.Fatalf("ValidateDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	if valid != 1 {
		t.Errorf("Expected 1 valid file, got %d", valid)
	}
}

func TestValidateDir_Errors(t *testing.T) {
	if _, err := ValidateDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
	if _, err := ValidateDir(t.TempDir()); err == nil {
		t.Error("Expected error for directory without configs")
	}
}

func TestValidateDir_ShippedConfigs(t *testing.T) {
	if _, err := os.Stat("../configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	results, err := ValidateDir("../configs")
	if err != nil {
		t.Fatalf("ValidateDir failed: %v", err)
	}
	for _, r := range results {
		if !r.Valid {
			t.Errorf("%s is invalid: %v", r.File, r.Errors)
		}
	}
}

func TestWriteReport(t *testing.T) {
	results := []ValidationResult{
		{File: "good.json", Valid: true, Info: []string{"✓ Name: good"}},
		{File: "bad.json", Valid: false, Errors: []string{"rows must be between 3 and 100, got 1"}},
	}

	var buf bytes.Buffer
	if WriteReport(&buf, results) {
		t.Error("Expected report to flag invalid files")
	}
	out := buf.String()
	for _, want := range []string{"✅ VALID", "✓ Name: good", "❌ INVALID", "❌ rows must be between", "❌ Some configurations have errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if !WriteReport(&buf, results[:1]) {
		t.Error("Expected all-valid report to return true")
	}
	if !strings.Contains(buf.String(), "✅ All configurations are valid!") {
		t.Errorf("Expected success footer, got:\n%s", buf.String())
	}
}

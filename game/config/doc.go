// Package config provides rule variant management for the Triomino game.
//
// The config package handles:
//   - Loading rule variants from JSON files
//   - Variant validation through the engine
//   - Default variant management
//   - Variant discovery and listing
//
// Configuration Format:
//
// Rule variants are stored as JSON files in the configs directory. Each
// variant defines the board size, the allowed player count, the rack size,
// the highest corner value of the piece set and the bonus points awarded
// for triples, bridges and hexagons.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("quick")
//	defaultRules := manager.GetDefault()
//	variants, err := manager.ListConfigs()
package config

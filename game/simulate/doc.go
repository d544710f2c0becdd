// Package simulate plays triomino games automatically with a simple greedy
// strategy. It is used to smoke test rule variants and to gather rough
// scoring statistics for configuration files.
//
// Example:
//
//	eng, _ := engine.NewEngine(config, engine.WithSeed(42))
//	result, err := simulate.Play(eng, simulate.Options{Players: 2, DrawWhenStuck: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	simulate.WriteSummary(os.Stdout, result)
package simulate

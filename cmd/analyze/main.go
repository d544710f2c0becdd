// Command analyze plays a batch of seeded automated games for every rule
// variant in a config directory and prints rough balance statistics: how
// often games finish, average length and score, and how often each bonus
// triggers.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/triomino-game/game/config"
	"github.com/wricardo/triomino-game/game/engine"
	"github.com/wricardo/triomino-game/game/simulate"
)

// Analysis aggregates the simulations run for one variant
type Analysis struct {
	Config        string
	Players       int
	Runs          int
	Finished      int
	Blocked       int
	AvgTurns      float64
	AvgPlacements float64
	AvgDraws      float64
	AvgTotalScore float64
	AvgWinner     float64
	Bonuses       map[engine.Bonus]int
}

type analysisOptions struct {
	runs     int
	seed     int64
	players  int
	maxTurns int
	draw     bool
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "simulate seeded games for every rule variant and report statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing rule variants", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "runs", Value: 20, Usage: "games per variant"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed of the first game; later games use seed+1, seed+2, ..."},
			&cli.IntFlag{Name: "players", Usage: "players per game (0 uses each variant's minimum)"},
			&cli.IntFlag{Name: "max-turns", Value: simulate.DefaultMaxTurns, Usage: "turn limit per game"},
			&cli.BoolFlag{Name: "draw", Value: true, Usage: "draw from the pool instead of passing when stuck"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("config-dir"), analysisOptions{
				runs:     cmd.Int("runs"),
				seed:     cmd.Int64("seed"),
				players:  cmd.Int("players"),
				maxTurns: cmd.Int("max-turns"),
				draw:     cmd.Bool("draw"),
			})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, configDir string, opts analysisOptions) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no valid configurations in %s", configDir)
	}

	for _, info := range infos {
		ruleConfig, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError loading config: %v\n", info.Filename, err)
			continue
		}

		analysis, err := analyzeConfig(ruleConfig, opts)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", info.Filename, err)
			continue
		}
		printAnalysis(w, analysis)
	}
	return nil
}

func analyzeConfig(ruleConfig *engine.RuleConfig, opts analysisOptions) (*Analysis, error) {
	if opts.runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.runs)
	}
	players := opts.players
	if players == 0 {
		players = ruleConfig.MinPlayers
	}

	analysis := &Analysis{
		Config:  ruleConfig.Name,
		Players: players,
		Runs:    opts.runs,
		Bonuses: make(map[engine.Bonus]int),
	}

	var turns, placements, draws, totalScore, winner int
	for i := 0; i < opts.runs; i++ {
		eng, err := engine.NewEngine(ruleConfig, engine.WithSeed(opts.seed+int64(i)))
		if err != nil {
			return nil, err
		}
		result, err := simulate.Play(eng, simulate.Options{
			Players:       players,
			MaxTurns:      opts.maxTurns,
			DrawWhenStuck: opts.draw,
		})
		if err != nil {
			return nil, err
		}

		if result.Finished {
			analysis.Finished++
		}
		if result.Blocked {
			analysis.Blocked++
		}
		turns += len(result.Turns)
		placements += result.Placements
		draws += result.Draws
		totalScore += result.TotalScore
		if len(result.Standings) > 0 {
			winner += result.Standings[0].Score
		}
		for bonus, count := range result.Bonuses {
			analysis.Bonuses[bonus] += count
		}
	}

	runs := float64(opts.runs)
	analysis.AvgTurns = float64(turns) / runs
	analysis.AvgPlacements = float64(placements) / runs
	analysis.AvgDraws = float64(draws) / runs
	analysis.AvgTotalScore = float64(totalScore) / runs
	analysis.AvgWinner = float64(winner) / runs
	return analysis, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.Config)
	fmt.Fprintf(w, "Games: %d with %d player(s)\n", a.Runs, a.Players)
	fmt.Fprintf(w, "Finished: %d/%d (%.0f%%)\n", a.Finished, a.Runs, 100*float64(a.Finished)/float64(a.Runs))
	fmt.Fprintf(w, "Average turns: %.1f, placements: %.1f, draws: %.1f\n", a.AvgTurns, a.AvgPlacements, a.AvgDraws)
	fmt.Fprintf(w, "Average total score: %.1f, winner: %.1f\n", a.AvgTotalScore, a.AvgWinner)

	if len(a.Bonuses) == 0 {
		fmt.Fprintln(w, "Bonuses: none")
	} else {
		bonuses := make([]string, 0, len(a.Bonuses))
		for bonus, count := range a.Bonuses {
			bonuses = append(bonuses, fmt.Sprintf("%s=%d", bonus, count))
		}
		sort.Strings(bonuses)
		fmt.Fprintf(w, "Bonuses: %s\n", strings.Join(bonuses, ", "))
	}

	if a.Blocked > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d games stalled with every player passing\n", a.Blocked)
	} else {
		fmt.Fprintln(w, "✅ No stalled games")
	}
}

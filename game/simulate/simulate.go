package simulate

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/wricardo/triomino-game/game/engine"
)

// Action names what a player did on a simulated turn
type Action string

const (
	ActionPlace Action = "place"
	ActionDraw  Action = "draw"
	ActionPass  Action = "pass"
)

// DefaultMaxTurns bounds a simulation when Options.MaxTurns is not set
const DefaultMaxTurns = 500

// ErrStartFailed is returned when the engine refuses to deal a new game
var ErrStartFailed = errors.New("simulation could not start game")

// Options control an automated playthrough
type Options struct {
	Players  int
	MaxTurns int
	// DrawWhenStuck lets a player with no legal move take the first pool
	// piece into their rack instead of passing
	DrawWhenStuck bool
	Verbose       bool
}

// Turn records one simulated turn
type Turn struct {
	Number   int              `json:"number"`
	PlayerID int              `json:"player_id"`
	Action   Action           `json:"action"`
	Piece    *engine.Piece    `json:"piece,omitempty"`
	Position *engine.Position `json:"position,omitempty"`
	Points   int              `json:"points"`
	Message  string           `json:"message"`
}

// Result summarises a finished playthrough
type Result struct {
	Config     string               `json:"config"`
	Turns      []Turn               `json:"turns"`
	Placements int                  `json:"placements"`
	Draws      int                  `json:"draws"`
	Passes     int                  `json:"passes"`
	Finished   bool                 `json:"finished"`
	Blocked    bool                 `json:"blocked"`
	Standings  []engine.Standing    `json:"standings"`
	TotalScore int                  `json:"total_score"`
	Bonuses    map[engine.Bonus]int `json:"bonuses"`
}

// Play drives eng with a greedy strategy until the game ends, every player
// passes in a row, or the turn limit is reached. An engine still in setup is
// started with opts.Players players.
//
// On each turn the current player tries its rack pieces in order and places
// the first one that fits at its first valid cell.
func Play(eng *engine.GameEngine, opts Options) (*Result, error) {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if eng.Phase() == engine.PhaseSetup {
		players := opts.Players
		if players == 0 {
			players = eng.Config().MinPlayers
		}
		if res := eng.StartGame(players); !res.Success {
			return nil, fmt.Errorf("%w: %s", ErrStartFailed, res.Message)
		}
	}
	if eng.Phase() != engine.PhasePlaying {
		return nil, fmt.Errorf("%w: game is in %s phase", ErrStartFailed, eng.Phase())
	}

	result := &Result{
		Config:  eng.Config().Name,
		Bonuses: make(map[engine.Bonus]int),
	}

	unsubscribe := eng.Subscribe(func(ev engine.Event) {
		if ev.Type != engine.EventPiecePlaced || ev.Score == nil {
			return
		}
		if ev.Score.Triple > 0 {
			result.Bonuses[engine.BonusTriple]++
		}
		if ev.Score.Bridge > 0 {
			result.Bonuses[engine.BonusBridge]++
		}
		if ev.Score.Hexagon > 0 {
			result.Bonuses[engine.BonusHexagon]++
		}
	})
	defer unsubscribe()

	playerCount := len(eng.Players())
	consecutivePasses := 0

	for n := 1; n <= opts.MaxTurns && eng.Phase() == engine.PhasePlaying; n++ {
		turn := playTurn(eng, n, opts.DrawWhenStuck)
		result.Turns = append(result.Turns, turn)

		switch turn.Action {
		case ActionPlace:
			result.Placements++
			consecutivePasses = 0
		case ActionDraw:
			result.Draws++
			consecutivePasses = 0
		case ActionPass:
			result.Passes++
			consecutivePasses++
		}

		if opts.Verbose {
			log.Printf("[SIM] turn=%d player=%d action=%s points=%d %s", turn.Number, turn.PlayerID, turn.Action, turn.Points, turn.Message)
		}

		if consecutivePasses >= playerCount {
			result.Blocked = true
			break
		}
	}

	result.Finished = eng.Phase() == engine.PhaseGameOver
	result.TotalScore = eng.TotalScore()
	if result.Finished {
		result.Standings = eng.Standings()
	} else {
		players := eng.Players()
		ptrs := make([]*engine.Player, len(players))
		for i := range players {
			ptrs[i] = &players[i]
		}
		result.Standings = engine.RankStandings(ptrs)
	}

	return result, nil
}

func playTurn(eng *engine.GameEngine, number int, drawWhenStuck bool) Turn {
	player := eng.CurrentPlayer()
	turn := Turn{Number: number, PlayerID: player.ID}

	// selecting an already selected piece toggles it off
	eng.DeselectPiece()

	for _, piece := range player.Rack {
		if res := eng.SelectPieceFromRack(piece.ID); !res.Success {
			continue
		}
		positions := eng.ValidPlacements()
		if len(positions) == 0 {
			eng.DeselectPiece()
			continue
		}

		pos := positions[0]
		res := eng.PlacePiece(pos.Row, pos.Col)
		if !res.Success {
			eng.DeselectPiece()
			continue
		}
		placed, _ := eng.PieceAt(pos.Row, pos.Col)
		turn.Action = ActionPlace
		turn.Piece = &placed.Piece
		turn.Position = &pos
		turn.Points = res.PointsScored
		turn.Message = res.Message
		return turn
	}

	if drawWhenStuck {
		if pool := eng.PoolPieces(); len(pool) > 0 {
			piece := pool[0]
			if res := eng.SelectPieceFromPool(piece.ID); res.Success {
				if res := eng.AddSelectedPieceToRack(); res.Success {
					turn.Action = ActionDraw
					turn.Piece = &piece
					turn.Message = res.Message
					return turn
				}
				eng.DeselectPiece()
			}
		}
	}

	res := eng.EndTurn()
	turn.Action = ActionPass
	turn.Message = res.Message
	return turn
}

// WriteSummary prints a human readable report of r
func WriteSummary(w io.Writer, r *Result) {
	status := "blocked"
	switch {
	case r.Finished:
		status = "finished"
	case !r.Blocked:
		status = "turn limit reached"
	}

	fmt.Fprintf(w, "Config: %s\n", r.Config)
	fmt.Fprintf(w, "Result: %s after %d turns\n", status, len(r.Turns))
	fmt.Fprintf(w, "Placements: %d, draws: %d, passes: %d\n", r.Placements, r.Draws, r.Passes)
	fmt.Fprintf(w, "Total score: %d\n", r.TotalScore)

	if len(r.Bonuses) > 0 {
		bonuses := make([]string, 0, len(r.Bonuses))
		for bonus, count := range r.Bonuses {
			bonuses = append(bonuses, fmt.Sprintf("%s=%d", bonus, count))
		}
		sort.Strings(bonuses)
		fmt.Fprintf(w, "Bonuses: %s\n", strings.Join(bonuses, ", "))
	}

	fmt.Fprintln(w, "Standings:")
	for _, s := range r.Standings {
		fmt.Fprintf(w, "  %d. %s - %d points\n", s.Rank, s.Name, s.Score)
	}
}

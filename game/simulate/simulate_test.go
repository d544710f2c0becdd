package simulate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/triomino-game/game/engine"
)

// lastShuffler leaves the pile in generation order so the highest piece is drawn first
type lastShuffler struct{}

func (lastShuffler) Intn(n int) int { return n - 1 }

func newEngine(t *testing.T, rackSize int) *engine.GameEngine {
	t.Helper()
	config := engine.DefaultRuleConfig()
	config.RackSize = rackSize
	eng, err := engine.NewEngine(config, engine.WithShuffler(lastShuffler{}))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return eng
}

func TestPlay_FinishesWhenRackEmpties(t *testing.T) {
	eng := newEngine(t, 1)

	result, err := Play(eng, Options{Players: 2})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if !result.Finished {
		t.Fatal("expected the game to finish")
	}
	if result.Blocked {
		t.Error("a finished game should not be reported as blocked")
	}
	if len(result.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(result.Turns))
	}

	turn := result.Turns[0]
	if turn.Action != ActionPlace {
		t.Errorf("expected place action, got %s", turn.Action)
	}
	if turn.Piece == nil || turn.Piece.ID != 55 {
		t.Errorf("expected piece 55 to be placed, got %+v", turn.Piece)
	}
	if turn.Points != 14 {
		t.Errorf("expected 14 points, got %d", turn.Points)
	}

	// Opening tile 5-5-5 scores 25 towards the total only
	if result.TotalScore != 39 {
		t.Errorf("expected total score 39, got %d", result.TotalScore)
	}
	if len(result.Standings) != 2 || result.Standings[0].PlayerID != 1 || result.Standings[0].Score != 14 {
		t.Errorf("unexpected standings: %+v", result.Standings)
	}
}

func TestPlay_TurnLimit(t *testing.T) {
	eng := newEngine(t, engine.DefaultRackSize)

	result, err := Play(eng, Options{Players: 2, MaxTurns: 1})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if result.Finished || result.Blocked {
		t.Errorf("expected an unfinished, unblocked game: %+v", result)
	}
	if result.Placements != 1 {
		t.Errorf("expected 1 placement, got %d", result.Placements)
	}
	if eng.Phase() != engine.PhasePlaying {
		t.Errorf("engine should still be playing, got %s", eng.Phase())
	}
	if len(result.Standings) != 2 {
		t.Fatalf("expected standings for 2 players, got %d", len(result.Standings))
	}
	if result.Standings[0].Score != 14 {
		t.Errorf("expected the leader to have 14 points, got %d", result.Standings[0].Score)
	}
}

func TestPlay_StartErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*engine.GameEngine)
		players int
	}{
		{"too many players", func(*engine.GameEngine) {}, 9},
		{"game already over", func(e *engine.GameEngine) {
			e.StartGame(2)
			e.SelectPieceFromRack(55)
			e.PlacePiece(6, 13)
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newEngine(t, 1)
			tt.prepare(eng)

			_, err := Play(eng, Options{Players: tt.players})
			if !errors.Is(err, ErrStartFailed) {
				t.Errorf("expected ErrStartFailed, got %v", err)
			}
		})
	}
}

func TestPlay_ContinuesStartedGame(t *testing.T) {
	eng := newEngine(t, 1)
	if res := eng.StartGame(2); !res.Success {
		t.Fatalf("StartGame failed: %s", res.Message)
	}

	result, err := Play(eng, Options{Players: 4})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(result.Standings) != 2 {
		t.Errorf("expected the existing 2 player game to be used, got %d standings", len(result.Standings))
	}
}

func TestPlay_ClearsLeftoverSelection(t *testing.T) {
	eng := newEngine(t, 1)
	if res := eng.StartGame(2); !res.Success {
		t.Fatalf("StartGame failed: %s", res.Message)
	}
	if res := eng.SelectPieceFromRack(55); !res.Success {
		t.Fatalf("SelectPieceFromRack failed: %s", res.Message)
	}

	result, err := Play(eng, Options{})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if !result.Finished || len(result.Turns) != 1 {
		t.Fatalf("expected the game to finish in 1 turn, got finished=%v turns=%d", result.Finished, len(result.Turns))
	}
	if turn := result.Turns[0]; turn.Action != ActionPlace || turn.Piece == nil || turn.Piece.ID != 55 {
		t.Errorf("expected piece 55 to be placed, got %s %+v", turn.Action, turn.Piece)
	}
}

func TestWriteSummary(t *testing.T) {
	result := &Result{
		Config:     "classic",
		Turns:      make([]Turn, 3),
		Placements: 2,
		Passes:     1,
		Finished:   true,
		TotalScore: 60,
		Bonuses:    map[engine.Bonus]int{engine.BonusBridge: 1, engine.BonusHexagon: 2},
		Standings: []engine.Standing{
			{Rank: 1, PlayerID: 2, Name: "Bob", Score: 30},
			{Rank: 2, PlayerID: 1, Name: "Alice", Score: 5},
		},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, result)
	out := buf.String()

	for _, want := range []string{
		"Config: classic",
		"Result: finished after 3 turns",
		"Placements: 2, draws: 0, passes: 1",
		"Bonuses: bridge=1, hexagon=2",
		"1. Bob - 30 points",
		"2. Alice - 5 points",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

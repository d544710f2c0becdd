package engine

import (
	"strings"
	"testing"
)

func newTestRules() (*RuleEngine, *Board) {
	return NewRuleEngine(DefaultRuleConfig()), NewBoard(DefaultRows, DefaultCols)
}

func TestValidatePlacement_FirstMove(t *testing.T) {
	rules, board := newTestRules()

	v := rules.ValidatePlacement(NewPiece(1, 0, 1, 2), Position{6, 13}, board, true)
	if !v.Valid {
		t.Fatalf("Expected first move to be valid, got %q", v.Message)
	}
	if v.MatchingEdges != 0 {
		t.Errorf("Expected 0 matching edges, got %d", v.MatchingEdges)
	}
	if v.Piece.Orientation != PointingDown {
		t.Errorf("Expected orientation forced to down, got %s", v.Piece.Orientation)
	}
}

func TestValidatePlacement_Occupied(t *testing.T) {
	rules, board := newTestRules()
	board.Place(NewPiece(1, 1, 2, 3), Position{6, 12})

	v := rules.ValidatePlacement(NewPiece(2, 1, 2, 3), Position{6, 12}, board, true)
	if v.Valid {
		t.Fatal("Expected placement on occupied cell to fail")
	}
	if !strings.Contains(v.Message, "occupied") {
		t.Errorf("Expected occupied message, got %q", v.Message)
	}
}

func TestValidatePlacement_OutOfBounds(t *testing.T) {
	rules, board := newTestRules()
	v := rules.ValidatePlacement(NewPiece(1, 1, 2, 3), Position{-1, 3}, board, true)
	if v.Valid {
		t.Fatal("Expected out of bounds placement to fail")
	}
}

func TestValidatePlacement_MustBeAdjacent(t *testing.T) {
	rules, board := newTestRules()
	board.Place(NewPiece(1, 1, 2, 3), Position{6, 12})

	for _, p := range GenerateAll(5) {
		v := rules.ValidatePlacement(p, Position{0, 0}, board, false)
		if v.Valid {
			t.Fatalf("Expected floating piece %s to fail", p)
		}
		if !strings.Contains(v.Message, "adjacent") {
			t.Fatalf("Expected adjacent message for %s, got %q", p, v.Message)
		}
	}
}

func TestValidatePlacement_EdgeMatching(t *testing.T) {
	// Up piece 1-2-3 at (6,12) shows its right edge (1,2) to (6,13).
	// A down piece at (6,13) shows its left edge (v3,v1), which must read (2,1).
	tests := []struct {
		name      string
		candidate Piece
		valid     bool
	}{
		{"matching", NewPiece(2, 1, 4, 2), true},
		{"mismatch", NewPiece(2, 1, 4, 3), false},
		{"same order is not a match", NewPiece(2, 2, 4, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, board := newTestRules()
			board.Place(NewPiece(1, 1, 2, 3), Position{6, 12})

			v := rules.ValidatePlacement(tt.candidate, Position{6, 13}, board, false)
			if v.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (%s)", v.Valid, tt.valid, v.Message)
			}
			if tt.valid && v.MatchingEdges != 1 {
				t.Errorf("Expected 1 matching edge, got %d", v.MatchingEdges)
			}
			if !tt.valid && !strings.Contains(v.Message, "does not match") {
				t.Errorf("Expected mismatch message, got %q", v.Message)
			}
		})
	}
}

func TestValidatePlacement_MismatchOnAnyNeighbourFails(t *testing.T) {
	rules, board := newTestRules()
	board.Place(NewPiece(1, 1, 2, 3), Position{6, 12}) // right edge (1,2)
	board.Place(NewPiece(2, 0, 0, 0), Position{6, 14}) // left edge (0,0)

	// Fits the left neighbour but not the right one
	v := rules.ValidatePlacement(NewPiece(3, 1, 4, 2), Position{6, 13}, board, false)
	if v.Valid {
		t.Fatal("Expected a single mismatch to fail the placement")
	}
	if !strings.Contains(v.Message, "(6,14)") {
		t.Errorf("Expected message to name the conflicting neighbour, got %q", v.Message)
	}
}

// bridgeBoard lays out two pieces around (6,13) that the piece 1-4-2 fits on both sides
func bridgeBoard(board *Board) {
	board.Place(NewPiece(1, 1, 2, 3), Position{6, 12}) // right edge (1,2)
	board.Place(NewPiece(2, 4, 0, 2), Position{6, 14}) // left edge (2,4)
}

func TestValidatePlacement_Bridge(t *testing.T) {
	rules, board := newTestRules()
	bridgeBoard(board)

	v := rules.ValidatePlacement(NewPiece(3, 1, 4, 2), Position{6, 13}, board, false)
	if !v.Valid {
		t.Fatalf("Expected bridge placement to be valid: %s", v.Message)
	}
	if v.MatchingEdges != 2 {
		t.Fatalf("Expected 2 matching edges, got %d", v.MatchingEdges)
	}

	placed := board.Place(v.Piece, Position{6, 13})
	hexagon := rules.CheckHexagonCompletion(Position{6, 13}, board)
	if hexagon {
		t.Fatal("Expected no hexagon")
	}

	score := rules.CalculatePlacementScore(placed.Piece, false, v.MatchingEdges, hexagon)
	if score.Total != 7+40 {
		t.Errorf("Expected bridge score 47, got %d", score.Total)
	}
	if score.Bonus != BonusBridge {
		t.Errorf("Expected bridge bonus message, got %q", score.Bonus)
	}
}

func TestCheckHexagonCompletion(t *testing.T) {
	rules, board := newTestRules()
	anchor := Position{6, 12}
	cells := []Position{{6, 11}, {6, 13}, {5, 12}, {5, 11}, {5, 13}}
	for i, c := range cells {
		board.Place(NewPiece(i+1, 0, 0, 0), c)
	}

	if rules.CheckHexagonCompletion(anchor, board) {
		t.Fatal("Expected no hexagon with a missing cell")
	}

	board.Place(NewPiece(10, 0, 0, 0), anchor)
	if !rules.CheckHexagonCompletion(anchor, board) {
		t.Error("Expected hexagon completed at its anchor")
	}
	// The same hexagon is found from a neighbouring anchor
	if !rules.CheckHexagonCompletion(Position{6, 13}, board) {
		t.Error("Expected hexagon completed when checking from (6,13)")
	}
	if !rules.CheckHexagonCompletion(Position{5, 12}, board) {
		t.Error("Expected hexagon completed when checking from (5,12)")
	}
	if rules.CheckHexagonCompletion(Position{0, 0}, board) {
		t.Error("Expected no hexagon around (0,0)")
	}
}

func TestBridgeAndHexagonStack(t *testing.T) {
	rules, board := newTestRules()

	// Hexagon around (6,12); the candidate 1-2-3 fits both side neighbours
	board.Place(NewPiece(1, 0, 1, 3), Position{6, 11}) // down, right edge (1,3)
	board.Place(NewPiece(2, 1, 0, 2), Position{6, 13}) // down, left edge (2,1)
	board.Place(NewPiece(3, 0, 0, 0), Position{5, 11})
	board.Place(NewPiece(4, 0, 0, 0), Position{5, 12})
	board.Place(NewPiece(5, 0, 0, 0), Position{5, 13})

	pos := Position{6, 12}
	v := rules.ValidatePlacement(NewPiece(6, 1, 2, 3), pos, board, false)
	if !v.Valid {
		t.Fatalf("Expected placement to be valid: %s", v.Message)
	}
	if v.MatchingEdges != 2 {
		t.Fatalf("Expected 2 matching edges, got %d", v.MatchingEdges)
	}

	board.Place(v.Piece, pos)
	hexagon := rules.CheckHexagonCompletion(pos, board)
	if !hexagon {
		t.Fatal("Expected the placement to complete a hexagon")
	}

	score := rules.CalculatePlacementScore(v.Piece, false, v.MatchingEdges, hexagon)
	if score.Total != 6+40+50 {
		t.Errorf("Expected 96 points, got %d", score.Total)
	}
	if score.Bonus != BonusHexagon {
		t.Errorf("Expected hexagon to be the announced bonus, got %q", score.Bonus)
	}
}

func TestCalculatePlacementScore(t *testing.T) {
	rules := NewRuleEngine(DefaultRuleConfig())

	tests := []struct {
		name      string
		piece     Piece
		firstMove bool
		edges     int
		hexagon   bool
		want      int
		bonus     Bonus
	}{
		{"first move triple", NewPiece(1, 5, 5, 5), true, 0, false, 25, BonusTriple},
		{"first move plain", NewPiece(1, 0, 1, 2), true, 0, false, 3, BonusNone},
		{"triple not first", NewPiece(1, 5, 5, 5), false, 1, false, 15, BonusNone},
		{"single edge", NewPiece(1, 1, 2, 3), false, 1, false, 6, BonusNone},
		{"bridge", NewPiece(1, 1, 2, 3), false, 2, false, 46, BonusBridge},
		{"three edges", NewPiece(1, 1, 2, 3), false, 3, false, 46, BonusBridge},
		{"hexagon only", NewPiece(1, 1, 2, 3), false, 1, true, 56, BonusHexagon},
		{"bridge and hexagon", NewPiece(1, 1, 2, 3), false, 2, true, 96, BonusHexagon},
		{"everything", NewPiece(1, 4, 4, 4), true, 2, true, 12 + 10 + 40 + 50, BonusTriple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := rules.CalculatePlacementScore(tt.piece, tt.firstMove, tt.edges, tt.hexagon)
			if score.Total != tt.want {
				t.Errorf("Total = %d, want %d", score.Total, tt.want)
			}
			if score.Bonus != tt.bonus {
				t.Errorf("Bonus = %q, want %q", score.Bonus, tt.bonus)
			}
		})
	}
}

func TestCalculatePlacementScore_Variant(t *testing.T) {
	config := DefaultRuleConfig()
	config.HexagonBonus = 100
	rules := NewRuleEngine(config)

	score := rules.CalculatePlacementScore(NewPiece(1, 1, 2, 3), false, 2, true)
	if score.Total != 6+40+100 {
		t.Errorf("Expected 146 with a 100 point hexagon, got %d", score.Total)
	}
}

func TestValidPlacements_EmptyBoard(t *testing.T) {
	rules, board := newTestRules()

	var got []Position
	for pos := range rules.ValidPlacements(NewPiece(1, 0, 1, 2), board) {
		got = append(got, pos)
	}
	if len(got) != 1 || got[0] != (Position{6, 12}) {
		t.Errorf("ValidPlacements on empty board = %v, want [(6,12)]", got)
	}
}

func TestValidPlacements_TriesRotations(t *testing.T) {
	rules, board := newTestRules()
	board.Place(NewPiece(1, 5, 5, 5), Position{6, 12})

	got := make(map[Position]bool)
	for pos := range rules.ValidPlacements(NewPiece(2, 4, 5, 5), board) {
		if got[pos] {
			t.Errorf("position %s yielded twice", pos)
		}
		got[pos] = true
	}

	for _, want := range []Position{{6, 11}, {6, 13}, {7, 12}} {
		if !got[want] {
			t.Errorf("Expected %s to be a valid placement", want)
		}
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 placements, got %v", got)
	}

	// A piece with a single 5 cannot touch 5-5 edges anywhere
	for pos := range rules.ValidPlacements(NewPiece(3, 4, 4, 5), board) {
		t.Errorf("Unexpected placement %s for 4-4-5", pos)
	}
}

func TestValidPlacements_StopsEarly(t *testing.T) {
	rules, board := newTestRules()
	board.Place(NewPiece(1, 5, 5, 5), Position{6, 12})

	count := 0
	for range rules.ValidPlacements(NewPiece(2, 5, 5, 5), board) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("Expected to stop after one placement, got %d", count)
	}
}

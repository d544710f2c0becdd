package engine

import (
	"errors"
	"math/rand"
	"testing"
)

// identityShuffler never swaps, leaving the pile in generation order
type identityShuffler struct{}

func (identityShuffler) Intn(n int) int { return n - 1 }

// scriptedShuffler returns the scripted picks first, then behaves like identityShuffler
type scriptedShuffler struct {
	picks []int
}

func (s *scriptedShuffler) Intn(n int) int {
	if len(s.picks) == 0 {
		return n - 1
	}
	pick := s.picks[0]
	s.picks = s.picks[1:]
	return pick
}

func TestGenerateAll_StandardSet(t *testing.T) {
	pieces := GenerateAll(5)
	if len(pieces) != 56 {
		t.Fatalf("Expected 56 pieces, got %d", len(pieces))
	}
	if PieceCount(5) != 56 {
		t.Errorf("PieceCount(5) = %d, want 56", PieceCount(5))
	}

	ids := make(map[int]bool)
	triples := make(map[[3]int]bool)
	for i, p := range pieces {
		if p.ID != i+1 {
			t.Errorf("piece %d has ID %d, want sequential %d", i, p.ID, i+1)
		}
		if ids[p.ID] {
			t.Errorf("duplicate ID %d", p.ID)
		}
		ids[p.ID] = true

		v := p.Values
		if v[0] > v[1] || v[1] > v[2] {
			t.Errorf("piece %d is not non-decreasing: %v", p.ID, v)
		}
		triples[v] = true
	}

	for i := 0; i <= 5; i++ {
		for j := i; j <= 5; j++ {
			for k := j; k <= 5; k++ {
				if !triples[[3]int{i, j, k}] {
					t.Errorf("missing triple %d-%d-%d", i, j, k)
				}
			}
		}
	}
}

func TestDrawPile_DrawFromEnd(t *testing.T) {
	pile := NewStandardPile(5)

	piece, err := pile.Draw()
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if piece.Values != [3]int{5, 5, 5} {
		t.Errorf("Expected last piece 5-5-5, got %s", piece)
	}
	if pile.Len() != 55 {
		t.Errorf("Expected 55 pieces left, got %d", pile.Len())
	}
}

func TestDrawPile_DrawEmpty(t *testing.T) {
	pile := NewDrawPile([]Piece{NewPiece(1, 0, 0, 0)})
	if _, err := pile.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pile.Draw(); !errors.Is(err, ErrPileEmpty) {
		t.Errorf("Expected ErrPileEmpty, got %v", err)
	}
}

func TestDrawPile_Remove(t *testing.T) {
	pile := NewStandardPile(5)

	if !pile.Remove(10) {
		t.Error("Expected Remove(10) to find the piece")
	}
	if pile.Contains(10) {
		t.Error("Expected piece 10 to be gone")
	}
	if pile.Remove(10) {
		t.Error("Expected second Remove(10) to report not found")
	}
	if pile.Len() != 55 {
		t.Errorf("Expected 55 pieces left, got %d", pile.Len())
	}
}

func TestDrawPile_ShuffleDeterministic(t *testing.T) {
	a := NewStandardPile(5)
	b := NewStandardPile(5)
	a.Shuffle(rand.New(rand.NewSource(42)))
	b.Shuffle(rand.New(rand.NewSource(42)))

	pa, pb := a.Pieces(), b.Pieces()
	for i := range pa {
		if pa[i].ID != pb[i].ID {
			t.Fatalf("same seed produced different order at %d: %d vs %d", i, pa[i].ID, pb[i].ID)
		}
	}

	seen := make(map[int]bool)
	for _, p := range pa {
		seen[p.ID] = true
	}
	if len(seen) != 56 {
		t.Errorf("shuffle lost pieces: %d distinct IDs", len(seen))
	}
}

func TestDrawPile_ShuffleUsesSource(t *testing.T) {
	pile := NewStandardPile(5)
	pile.Shuffle(&scriptedShuffler{picks: []int{0}})

	piece, _ := pile.Draw()
	if piece.ID != 1 {
		t.Errorf("Expected scripted swap to bring piece 1 to the end, drew %d", piece.ID)
	}
}

func TestDrawPile_PiecesIsCopy(t *testing.T) {
	pile := NewStandardPile(5)
	pieces := pile.Pieces()
	pieces[0] = NewPiece(99, 9, 9, 9)
	if got, _ := pile.Get(1); got.ID != 1 {
		t.Error("mutating Pieces() result changed the pile")
	}
}

func TestDrawPile_PiecesEndIsNextDraw(t *testing.T) {
	pile := NewStandardPile(5)
	for i := 0; i < 3; i++ {
		pieces := pile.Pieces()
		want := pieces[len(pieces)-1]
		got, err := pile.Draw()
		if err != nil {
			t.Fatalf("Draw() error: %v", err)
		}
		if got.ID != want.ID {
			t.Errorf("draw %d: expected last listed piece %d, got %d", i, want.ID, got.ID)
		}
	}
}

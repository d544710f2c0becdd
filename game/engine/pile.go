package engine

import "errors"

// ErrPileEmpty is returned when drawing from an exhausted pile
var ErrPileEmpty = errors.New("draw pile is empty")

// Shuffler is the random source used to shuffle the pile. *math/rand.Rand
// satisfies it.
type Shuffler interface {
	Intn(n int) int
}

// GenerateAll builds every piece whose corners form a non-decreasing triple
// in [0, maxValue], with sequential IDs starting at 1.
func GenerateAll(maxValue int) []Piece {
	var pieces []Piece
	id := 1
	for i := 0; i <= maxValue; i++ {
		for j := i; j <= maxValue; j++ {
			for k := j; k <= maxValue; k++ {
				pieces = append(pieces, NewPiece(id, i, j, k))
				id++
			}
		}
	}
	return pieces
}

// PieceCount returns how many distinct pieces GenerateAll(maxValue) builds
func PieceCount(maxValue int) int {
	n := maxValue + 1
	return n * (n + 1) * (n + 2) / 6
}

// DrawPile is the ordered reserve of undrawn pieces. Draws come off the end.
type DrawPile struct {
	pieces []Piece
}

// NewDrawPile creates a pile holding a copy of pieces
func NewDrawPile(pieces []Piece) *DrawPile {
	return &DrawPile{pieces: append([]Piece(nil), pieces...)}
}

// NewStandardPile creates an unshuffled pile of every piece up to maxValue
func NewStandardPile(maxValue int) *DrawPile {
	return &DrawPile{pieces: GenerateAll(maxValue)}
}

// Shuffle applies a Fisher-Yates shuffle using rng
func (d *DrawPile) Shuffle(rng Shuffler) {
	for i := len(d.pieces) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.pieces[i], d.pieces[j] = d.pieces[j], d.pieces[i]
	}
}

// Draw removes and returns the last piece
func (d *DrawPile) Draw() (Piece, error) {
	if len(d.pieces) == 0 {
		return Piece{}, ErrPileEmpty
	}
	last := len(d.pieces) - 1
	piece := d.pieces[last]
	d.pieces = d.pieces[:last]
	return piece, nil
}

// Remove takes the piece with the given ID out of the pile
func (d *DrawPile) Remove(id int) bool {
	for i, p := range d.pieces {
		if p.ID == id {
			d.pieces = append(d.pieces[:i], d.pieces[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the piece with the given ID without removing it
func (d *DrawPile) Get(id int) (Piece, bool) {
	for _, p := range d.pieces {
		if p.ID == id {
			return p, true
		}
	}
	return Piece{}, false
}

// Contains reports whether the piece is still in the pile
func (d *DrawPile) Contains(id int) bool {
	_, ok := d.Get(id)
	return ok
}

// Len returns the number of undrawn pieces
func (d *DrawPile) Len() int {
	return len(d.pieces)
}

// Pieces returns a copy of the undrawn pieces in pile order; Draw takes the last element
func (d *DrawPile) Pieces() []Piece {
	return append([]Piece(nil), d.pieces...)
}

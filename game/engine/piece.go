package engine

import "fmt"

// Piece is a triangular tile with three corner values.
//
// Corners are listed clockwise starting from the apex for a piece pointing
// up. Pieces are compared by ID; rotating a piece changes the corner order
// but never its identity.
type Piece struct {
	ID          int         `json:"id"`
	Values      [3]int      `json:"values"`
	Orientation Orientation `json:"orientation"`
}

// NewPiece creates a piece pointing up
func NewPiece(id, v1, v2, v3 int) Piece {
	return Piece{ID: id, Values: [3]int{v1, v2, v3}, Orientation: PointingUp}
}

// Rotate returns the piece with its corners shifted (v1,v2,v3) -> (v3,v1,v2)
func (p Piece) Rotate() Piece {
	p.Values = [3]int{p.Values[2], p.Values[0], p.Values[1]}
	return p
}

// Clone returns an identical copy, keeping ID and orientation
func (p Piece) Clone() Piece {
	return p
}

// WithOrientation returns the piece pointing in the given direction
func (p Piece) WithOrientation(o Orientation) Piece {
	p.Orientation = o
	return p
}

// IsTriple reports whether all three corners carry the same value
func (p Piece) IsTriple() bool {
	return p.Values[0] == p.Values[1] && p.Values[1] == p.Values[2]
}

// PointValue is the sum of the corners
func (p Piece) PointValue() int {
	return p.Values[0] + p.Values[1] + p.Values[2]
}

// Edge returns the corner pair bounding the given side.
// It panics when the side does not exist for the current orientation.
func (p Piece) Edge(side Side) Edge {
	v1, v2, v3 := p.Values[0], p.Values[1], p.Values[2]
	switch side {
	case SideRight:
		if p.Orientation == PointingUp {
			return Edge{v1, v2}
		}
		return Edge{v2, v3}
	case SideLeft:
		return Edge{v3, v1}
	case SideBottom:
		if p.Orientation != PointingUp {
			panic(fmt.Sprintf("engine: piece %d points %s and has no bottom edge", p.ID, p.Orientation))
		}
		return Edge{v2, v3}
	case SideTop:
		if p.Orientation != PointingDown {
			panic(fmt.Sprintf("engine: piece %d points %s and has no top edge", p.ID, p.Orientation))
		}
		return Edge{v1, v2}
	}
	panic(fmt.Sprintf("engine: unknown side %d", int(side)))
}

func (p Piece) String() string {
	return fmt.Sprintf("%d-%d-%d", p.Values[0], p.Values[1], p.Values[2])
}

// Rotations returns the three corner orderings of p, starting with p itself
func Rotations(p Piece) [3]Piece {
	r1 := p.Rotate()
	return [3]Piece{p, r1, r1.Rotate()}
}

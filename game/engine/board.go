package engine

import (
	"fmt"
	"sort"
)

// PlacedPiece is a piece bound to a board coordinate
type PlacedPiece struct {
	Piece    Piece    `json:"piece"`
	Position Position `json:"position"`
}

// Board is a bounded sparse grid of placed pieces
type Board struct {
	rows  int
	cols  int
	cells map[Position]PlacedPiece
}

// NewBoard creates an empty rows x cols board
func NewBoard(rows, cols int) *Board {
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make(map[Position]PlacedPiece),
	}
}

// Rows returns the number of rows
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns
func (b *Board) Cols() int { return b.cols }

// Center returns the geometric centre cell
func (b *Board) Center() Position {
	return Position{Row: b.rows / 2, Col: b.cols / 2}
}

// Len returns the number of pieces placed
func (b *Board) Len() int {
	return len(b.cells)
}

// IsValidPosition checks bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Col >= 0 && pos.Col < b.cols
}

// IsOccupied reports whether a piece sits at pos
func (b *Board) IsOccupied(pos Position) bool {
	_, ok := b.cells[pos]
	return ok
}

// PieceAt returns the placed piece at pos
func (b *Board) PieceAt(pos Position) (PlacedPiece, bool) {
	placed, ok := b.cells[pos]
	return placed, ok
}

// Place puts a piece on the board without validating it. The piece is
// re-oriented to match the cell parity.
func (b *Board) Place(piece Piece, pos Position) PlacedPiece {
	placed := PlacedPiece{
		Piece:    piece.WithOrientation(OrientationAt(pos.Row, pos.Col)),
		Position: pos,
	}
	b.cells[pos] = placed
	return placed
}

// AdjacentPositions returns the in-bounds cells sharing a side with pos
func (b *Board) AdjacentPositions(pos Position) []Position {
	candidates := []Position{
		{Row: pos.Row, Col: pos.Col - 1},
		{Row: pos.Row, Col: pos.Col + 1},
	}
	if OrientationAt(pos.Row, pos.Col) == PointingUp {
		candidates = append(candidates, Position{Row: pos.Row + 1, Col: pos.Col})
	} else {
		candidates = append(candidates, Position{Row: pos.Row - 1, Col: pos.Col})
	}

	adjacent := candidates[:0]
	for _, c := range candidates {
		if b.IsValidPosition(c) {
			adjacent = append(adjacent, c)
		}
	}
	return adjacent
}

// EdgeFacing returns the edge of the piece placed at pos that faces adj
func (b *Board) EdgeFacing(pos, adj Position) Edge {
	placed, ok := b.cells[pos]
	if !ok {
		panic(fmt.Sprintf("engine: no piece at %s", pos))
	}
	return FacingEdge(placed.Piece, pos, adj)
}

// FacingEdge returns the edge of piece (sitting at pos) that faces adj
func FacingEdge(piece Piece, pos, adj Position) Edge {
	return piece.Edge(FacingSide(piece.Orientation, pos, adj))
}

// FacingSide maps the direction from pos to adj onto a side of a piece
// with the given orientation
func FacingSide(o Orientation, pos, adj Position) Side {
	switch {
	case adj.Col < pos.Col:
		return SideLeft
	case adj.Col > pos.Col:
		return SideRight
	case o == PointingUp && adj.Row > pos.Row:
		return SideBottom
	case o == PointingDown && adj.Row < pos.Row:
		return SideTop
	}
	panic(fmt.Sprintf("engine: %s is not a neighbour of %s pointing %s", adj, pos, o))
}

// Pieces returns the placed pieces in row-major order
func (b *Board) Pieces() []PlacedPiece {
	pieces := make([]PlacedPiece, 0, len(b.cells))
	for _, placed := range b.cells {
		pieces = append(pieces, placed)
	}
	sort.Slice(pieces, func(i, j int) bool {
		if pieces[i].Position.Row != pieces[j].Position.Row {
			return pieces[i].Position.Row < pieces[j].Position.Row
		}
		return pieces[i].Position.Col < pieces[j].Position.Col
	})
	return pieces
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	clone := NewBoard(b.rows, b.cols)
	for pos, placed := range b.cells {
		clone.cells[pos] = placed
	}
	return clone
}

// Reset removes every piece
func (b *Board) Reset() {
	b.cells = make(map[Position]PlacedPiece)
}

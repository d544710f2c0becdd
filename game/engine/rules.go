package engine

import (
	"fmt"
	"iter"
)

// Bonus identifies the bonus reported in a score message
type Bonus string

const (
	BonusNone    Bonus = ""
	BonusTriple  Bonus = "triple"
	BonusHexagon Bonus = "hexagon"
	BonusBridge  Bonus = "bridge"
)

// Validation is the outcome of checking a single placement
type Validation struct {
	Valid         bool
	Message       string
	MatchingEdges int
	// Piece is the candidate re-oriented for the target cell
	Piece Piece
}

// Score breaks down the points earned by one placement
type Score struct {
	Base    int    `json:"base"`
	Triple  int    `json:"triple,omitempty"`
	Bridge  int    `json:"bridge,omitempty"`
	Hexagon int    `json:"hexagon,omitempty"`
	Total   int    `json:"total"`
	Bonus   Bonus  `json:"bonus,omitempty"`
	Message string `json:"message"`
}

// RuleEngine validates and scores placements. It holds no game state.
type RuleEngine struct {
	config *RuleConfig
}

// NewRuleEngine creates a rule engine for the given rule variant
func NewRuleEngine(config *RuleConfig) *RuleEngine {
	if config == nil {
		config = DefaultRuleConfig()
	}
	return &RuleEngine{config: config}
}

// ValidatePlacement checks whether piece may be placed at pos
func (r *RuleEngine) ValidatePlacement(piece Piece, pos Position, board *Board, isFirstMove bool) Validation {
	piece = piece.WithOrientation(OrientationAt(pos.Row, pos.Col))
	result := Validation{Piece: piece}

	if !board.IsValidPosition(pos) {
		result.Message = fmt.Sprintf("cell %s is outside the board", pos)
		return result
	}
	if board.IsOccupied(pos) {
		result.Message = fmt.Sprintf("cell %s is occupied", pos)
		return result
	}
	if isFirstMove {
		result.Valid = true
		result.Message = "first move"
		return result
	}

	neighbours := 0
	for _, adj := range board.AdjacentPositions(pos) {
		if !board.IsOccupied(adj) {
			continue
		}
		neighbours++

		own := FacingEdge(piece, pos, adj)
		theirs := board.EdgeFacing(adj, pos)
		if !own.Matches(theirs) {
			result.MatchingEdges = 0
			result.Message = fmt.Sprintf("edge %s does not match edge %s of the piece at %s", own, theirs, adj)
			return result
		}
		result.MatchingEdges++
	}

	if neighbours == 0 {
		result.Message = "piece must be adjacent to an existing piece"
		return result
	}

	result.Valid = true
	result.Message = fmt.Sprintf("fits %d edge(s)", result.MatchingEdges)
	return result
}

// hexagonAnchors are the logical anchors examined around a placement
var hexagonAnchors = []Position{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// hexagonCells are the six offsets that make up a hexagon around an anchor
var hexagonCells = []Position{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {-1, -1}, {-1, 1}}

// CheckHexagonCompletion reports whether any hexagon touching pos is fully occupied
func (r *RuleEngine) CheckHexagonCompletion(pos Position, board *Board) bool {
	for _, a := range hexagonAnchors {
		anchor := Position{Row: pos.Row + a.Row, Col: pos.Col + a.Col}
		if hexagonComplete(anchor, board) {
			return true
		}
	}
	return false
}

func hexagonComplete(anchor Position, board *Board) bool {
	for _, off := range hexagonCells {
		if !board.IsOccupied(Position{Row: anchor.Row + off.Row, Col: anchor.Col + off.Col}) {
			return false
		}
	}
	return true
}

// CalculatePlacementScore adds up the corner values and every applicable bonus
func (r *RuleEngine) CalculatePlacementScore(piece Piece, isFirstMove bool, matchingEdges int, completesHexagon bool) Score {
	score := Score{Base: piece.PointValue()}

	if isFirstMove && piece.IsTriple() {
		score.Triple = r.config.TripleBonus
	}
	if matchingEdges >= r.config.BridgeMinEdges {
		score.Bridge = r.config.BridgeBonus
	}
	if completesHexagon {
		score.Hexagon = r.config.HexagonBonus
	}
	score.Total = score.Base + score.Triple + score.Bridge + score.Hexagon

	// Only the highest priority bonus is announced
	switch {
	case isFirstMove && piece.IsTriple():
		score.Bonus = BonusTriple
		score.Message = fmt.Sprintf("Triple bonus! +%d points", score.Total)
	case completesHexagon:
		score.Bonus = BonusHexagon
		score.Message = fmt.Sprintf("Hexagon completed! +%d points", score.Total)
	case matchingEdges >= r.config.BridgeMinEdges:
		score.Bonus = BonusBridge
		score.Message = fmt.Sprintf("Bridge! +%d points", score.Total)
	default:
		score.Message = fmt.Sprintf("+%d points", score.Total)
	}

	return score
}

// ValidPlacements yields every cell where some rotation of piece fits
func (r *RuleEngine) ValidPlacements(piece Piece, board *Board) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if board.Len() == 0 {
			yield(board.Center())
			return
		}

		visited := make(map[Position]bool)
		for _, placed := range board.Pieces() {
			for _, adj := range board.AdjacentPositions(placed.Position) {
				if visited[adj] || board.IsOccupied(adj) {
					continue
				}
				visited[adj] = true

				if _, ok := r.FirstValidRotation(piece, adj, board, false); ok {
					if !yield(adj) {
						return
					}
				}
			}
		}
	}
}

// FirstValidRotation tries the three rotations of piece at pos in order and
// returns the validation of the first that fits. When none fits the
// validation of the unrotated piece is returned.
func (r *RuleEngine) FirstValidRotation(piece Piece, pos Position, board *Board, isFirstMove bool) (Validation, bool) {
	var first Validation
	for i, candidate := range Rotations(piece.WithOrientation(OrientationAt(pos.Row, pos.Col))) {
		v := r.ValidatePlacement(candidate, pos, board, isFirstMove)
		if v.Valid {
			return v, true
		}
		if i == 0 {
			first = v
		}
	}
	return first, false
}

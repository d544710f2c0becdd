package engine

// Player is a participant with a score and a rack of held pieces
type Player struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Score           int     `json:"score"`
	Rack            []Piece `json:"rack"`
	IsCurrentPlayer bool    `json:"is_current_player"`
}

// NewPlayer creates a player with an empty rack
func NewPlayer(id int, name string) *Player {
	return &Player{ID: id, Name: name, Rack: []Piece{}}
}

// HasPiece reports whether the rack holds the piece
func (p *Player) HasPiece(id int) bool {
	_, ok := p.RackPiece(id)
	return ok
}

// RackPiece returns the held piece with the given ID
func (p *Player) RackPiece(id int) (Piece, bool) {
	for _, piece := range p.Rack {
		if piece.ID == id {
			return piece, true
		}
	}
	return Piece{}, false
}

// AddPiece puts a piece in the rack
func (p *Player) AddPiece(piece Piece) {
	p.Rack = append(p.Rack, piece)
}

// RemovePiece takes a piece out of the rack
func (p *Player) RemovePiece(id int) bool {
	for i, piece := range p.Rack {
		if piece.ID == id {
			p.Rack = append(p.Rack[:i], p.Rack[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy that shares no memory with p
func (p *Player) Snapshot() Player {
	snap := *p
	snap.Rack = append([]Piece{}, p.Rack...)
	return snap
}

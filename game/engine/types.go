package engine

import "fmt"

// Orientation is the direction a triangle points on the board
type Orientation int

const (
	PointingUp Orientation = iota
	PointingDown
)

func (o Orientation) String() string {
	if o == PointingDown {
		return "down"
	}
	return "up"
}

// MarshalText encodes the orientation as "up" or "down"
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes "up" or "down"
func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "up":
		*o = PointingUp
	case "down":
		*o = PointingDown
	default:
		return fmt.Errorf("unknown orientation %q", text)
	}
	return nil
}

// OrientationAt returns the orientation forced on any piece placed at (row, col)
func OrientationAt(row, col int) Orientation {
	if (row+col)%2 == 0 {
		return PointingUp
	}
	return PointingDown
}

// Side names one of the three sides of a triangle
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideBottom
	SideTop
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Edge is the ordered pair of corner values bounding one side of a piece
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Matches reports whether two facing edges fit: (a,b) fits (c,d) iff a==d and b==c
func (e Edge) Matches(other Edge) bool {
	return e.A == other.B && e.B == other.A
}

func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e.A, e.B)
}

// EdgesMatch reports whether edge a fits against edge b
func EdgesMatch(a, b Edge) bool {
	return a.Matches(b)
}

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Phase is the lifecycle stage of a game session
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
)

// SelectionSource records where the selected piece came from
type SelectionSource string

const (
	FromRack SelectionSource = "rack"
	FromPool SelectionSource = "pool"
)

// Selection is the piece a player is currently handling
type Selection struct {
	Piece  Piece           `json:"piece"`
	Source SelectionSource `json:"source"`
}

// CommandResult is the uniform outcome of every engine command
type CommandResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PointsScored int    `json:"points_scored"`
}

// Standing is a player's final rank
type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// GameState is a JSON-friendly snapshot of the whole session
type GameState struct {
	Phase              Phase         `json:"phase"`
	ConfigName         string        `json:"config_name"`
	Rows               int           `json:"rows"`
	Cols               int           `json:"cols"`
	Players            []Player      `json:"players"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	Board              []PlacedPiece `json:"board"`
	Pool               []Piece       `json:"pool"`
	Selection          *Selection    `json:"selection,omitempty"`
	FirstMove          bool          `json:"first_move"`
	TotalScore         int           `json:"total_score"`
	Standings          []Standing    `json:"standings,omitempty"`
	Message            string        `json:"message"`
}

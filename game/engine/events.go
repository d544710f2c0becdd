package engine

// EventType names a notification fired by the engine
type EventType string

const (
	EventStateChanged     EventType = "state_changed"
	EventPiecePlaced      EventType = "piece_placed"
	EventPlayerChanged    EventType = "player_changed"
	EventGameEnded        EventType = "game_ended"
	EventSelectionChanged EventType = "selection_changed"
)

// Event carries the entities relevant to a notification. Only the fields
// that apply to the event type are set.
type Event struct {
	Type      EventType    `json:"type"`
	Phase     Phase        `json:"phase"`
	Placement *PlacedPiece `json:"placement,omitempty"`
	Score     *Score       `json:"score,omitempty"`
	Player    *Player      `json:"player,omitempty"`
	Selection *Selection   `json:"selection,omitempty"`
	Standings []Standing   `json:"standings,omitempty"`
}

// Listener receives engine notifications synchronously
type Listener func(Event)

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers a listener and returns a function that removes it
func (e *GameEngine) Subscribe(listener Listener) func() {
	e.nextListenerID++
	id := e.nextListenerID
	e.listeners = append(e.listeners, subscription{id: id, listener: listener})

	return func() {
		for i, sub := range e.listeners {
			if sub.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *GameEngine) emit(event Event) {
	event.Phase = e.phase
	// A listener may unsubscribe while being notified
	listeners := append([]subscription(nil), e.listeners...)
	for _, sub := range listeners {
		sub.listener(event)
	}
}

func (e *GameEngine) emitStateChanged() {
	e.emit(Event{Type: EventStateChanged})
}

func (e *GameEngine) emitSelectionChanged() {
	event := Event{Type: EventSelectionChanged}
	if e.selection != nil {
		sel := *e.selection
		event.Selection = &sel
	}
	e.emit(event)
}

func (e *GameEngine) emitPlayerChanged() {
	player := e.players[e.current].Snapshot()
	e.emit(Event{Type: EventPlayerChanged, Player: &player})
}

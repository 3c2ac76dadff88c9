package boardview

import (
	"sort"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// EventKind names the notifications a BoardView sends to its listeners.
type EventKind int

const (
	HexClicked EventKind = iota
	HexDoubleClicked
	HexDragged
	HexPopup
	HexSelected
	HexHighlighted
	HexCursor
	FirstLOSHex
	SecondLOSHex
	FinishedMovingUnits
)

var eventNames = [...]string{
	"BOARD_HEX_CLICKED",
	"BOARD_HEX_DOUBLE_CLICKED",
	"BOARD_HEX_DRAGGED",
	"BOARD_HEX_POPUP",
	"BOARD_HEX_SELECTED",
	"BOARD_HEX_HIGHLIGHTED",
	"BOARD_HEX_CURSOR",
	"BOARD_FIRST_LOS_HEX",
	"BOARD_SECOND_LOS_HEX",
	"FINISHED_MOVING_UNITS",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "UNKNOWN"
	}
	return eventNames[k]
}

// Modifier is a set of held keyboard modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every bit of o is set.
func (m Modifier) Has(o Modifier) bool { return m&o == o }

// Button is the mouse button behind a pointer event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Action is a pointer gesture over the board.
type Action int

const (
	ActionClick Action = iota
	ActionDoubleClick
	ActionDrag
	ActionPopup
)

// Event is one notification. Coord is Invalid for events without a hex.
type Event struct {
	Kind      EventKind
	Coord     hexgeo.Coord
	Button    Button
	Modifiers Modifier
	// Tick is the scheduler tick the event was raised in.
	Tick int
}

// Listener receives events on the UI goroutine.
type Listener func(Event)

// AddListener registers l; the returned func removes it again.
func (bv *BoardView) AddListener(l Listener) (cancel func()) {
	id := bv.nextListener
	bv.nextListener++
	bv.listeners[id] = l
	return func() { delete(bv.listeners, id) }
}

func (bv *BoardView) emit(e Event) {
	e.Tick = bv.ticks
	ids := make([]int, 0, len(bv.listeners))
	for id := range bv.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if l, ok := bv.listeners[id]; ok {
			l(e)
		}
	}
}

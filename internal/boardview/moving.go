package boardview

import (
	"time"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/sprites"
)

// Step is one hex of an animated move.
type Step struct {
	Coord     hexgeo.Coord
	Facing    int
	Elevation int
}

type moveState int

const (
	moveQueued moveState = iota
	moveStepping
	moveFinalised
)

type move struct {
	unit   *game.Unit
	steps  []Step
	next   int
	state  moveState
	sprite *sprites.MovingSprite
}

// AddMovingUnit queues u to walk along steps, one step per moveStepDelay.
// Steps for a unit that is already moving are appended to its path.
func (bv *BoardView) AddMovingUnit(u *game.Unit, steps []Step) {
	if bv.snap == nil || u == nil || len(steps) == 0 {
		return
	}
	for _, m := range bv.moves {
		if m.unit.ID == u.ID && m.state != moveFinalised {
			m.steps = append(m.steps, steps...)
			return
		}
	}
	bv.moves = append(bv.moves, &move{unit: u, steps: append([]Step(nil), steps...)})
}

// MovingUnits is the number of units still walking.
func (bv *BoardView) MovingUnits() int {
	n := 0
	for _, m := range bv.moves {
		if m.state != moveFinalised {
			n++
		}
	}
	return n
}

// advanceMoving moves every walking unit one step once the step delay
// has passed. When the last unit arrives the moves are cleared and
// FinishedMovingUnits is emitted.
func (bv *BoardView) advanceMoving(dt time.Duration) bool {
	if len(bv.moves) == 0 {
		return false
	}
	bv.moveWait += dt
	if bv.moveWait < bv.prefs.Millis(prefs.MoveStepDelay) {
		return false
	}
	bv.moveWait = 0

	done := true
	for _, m := range bv.moves {
		switch m.state {
		case moveQueued:
			bv.layer.RemoveEntity(m.unit.ID)
			bv.layer.AddGhost(bv.snap, m.unit)
			m.sprite = bv.layer.SetMoving(bv.snap, m.unit)
			m.state = moveStepping
			fallthrough
		case moveStepping:
			st := m.steps[m.next]
			m.sprite.Step(st.Coord, st.Facing, st.Elevation)
			m.next++
			if m.next < len(m.steps) {
				done = false
				continue
			}
			bv.finalise(m)
		}
	}
	if done {
		bv.moves = nil
		bv.emit(Event{Kind: FinishedMovingUnits, Coord: hexgeo.Invalid})
	}
	return true
}

// finalise puts the unit's counters back at the end of its path.
func (bv *BoardView) finalise(m *move) {
	bv.layer.StopMoving(m.unit.ID)
	last := m.steps[len(m.steps)-1]
	arrived := *m.unit
	arrived.Position, arrived.Facing, arrived.Elevation = last.Coord, last.Facing, last.Elevation
	bv.layer.RedrawEntity(bv.snap, bv.viewer, &arrived)
	m.state = moveFinalised
}

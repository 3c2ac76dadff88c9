package boardview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

func totals(t *testing.T, tb *TestBoard) map[string]int64 {
	t.Helper()
	m, err := tb.Reader.Totals(context.Background())
	require.NoError(t, err)
	return m
}

func TestTick_MovingUnitWalksPath(t *testing.T) {
	u := NewUnit(4, &game.Player{ID: 1}, hexgeo.C(3, 3))
	tb := newTestBoard(t, WithUnit(u))
	bv := tb.View
	steps := []Step{
		{Coord: hexgeo.C(3, 4), Facing: 3},
		{Coord: hexgeo.C(3, 5), Facing: 3},
		{Coord: hexgeo.C(4, 5), Facing: 2, Elevation: 1},
	}
	bv.AddMovingUnit(u, steps)
	require.Equal(t, 1, bv.MovingUnits())

	// 50ms step delay at 20ms ticks: one step every third tick.
	for i := 0; i < 3; i++ {
		bv.Tick(TickInterval)
	}
	ms, ok := bv.layer.Moving(4)
	require.True(t, ok)
	assert.Equal(t, hexgeo.C(3, 4), ms.Coord())
	assert.Equal(t, 0, ms.Elevation())
	require.Len(t, bv.layer.Ghosts(), 1)
	assert.Equal(t, hexgeo.C(3, 3), bv.layer.Ghosts()[0].Coord())
	for _, s := range bv.layer.Units() {
		assert.NotEqual(t, 4, s.Unit().ID, "the counter leaves its hex while walking")
	}

	for bv.MovingUnits() > 0 && bv.Ticks() < 50 {
		bv.Tick(TickInterval)
	}
	assert.Equal(t, 9, bv.Ticks())
	assert.Equal(t, 1, tb.Events.Count(FinishedMovingUnits))
	e, _ := tb.Events.LastOf(FinishedMovingUnits)
	assert.Equal(t, 9, e.Tick)
	assert.Equal(t, hexgeo.Invalid, e.Coord)

	_, ok = bv.layer.Moving(4)
	assert.False(t, ok)
	assert.Empty(t, bv.layer.Ghosts())
	var arrived *game.Unit
	for _, s := range bv.layer.Units() {
		if s.Unit().ID == 4 {
			arrived = s.Unit()
		}
	}
	require.NotNil(t, arrived)
	assert.Equal(t, hexgeo.C(4, 5), arrived.Position)
	assert.Equal(t, 2, arrived.Facing)
	assert.Equal(t, 1, arrived.Elevation)
	assert.Equal(t, hexgeo.C(3, 3), u.Position, "the snapshot unit is not touched")
}

func TestTick_MovingUnitClimbsOnTheWay(t *testing.T) {
	u := NewUnit(4, &game.Player{ID: 1}, hexgeo.C(3, 3))
	tb := newTestBoard(t, WithIsometric(), WithUnit(u))
	bv := tb.View
	bv.AddMovingUnit(u, []Step{
		{Coord: hexgeo.C(3, 4), Facing: 3, Elevation: 2},
		{Coord: hexgeo.C(3, 5), Facing: 3, Elevation: 2},
	})
	for i := 0; i < 3; i++ {
		bv.Tick(TickInterval)
	}
	require.Equal(t, 1, bv.MovingUnits())
	ms, ok := bv.layer.Moving(4)
	require.True(t, ok)
	assert.Equal(t, 2, ms.Elevation())

	ms.Prepare(bv.raster)
	ground := bv.raster.Geometry().TopLeft(hexgeo.C(3, 4), false)
	assert.Equal(t, ground.Y-2*hexgeo.HexElev, ms.Bounds().Min.Y)
}

func TestAddMovingUnit_AppendsToRunningMove(t *testing.T) {
	u := NewUnit(4, &game.Player{ID: 1}, hexgeo.C(3, 3))
	tb := newTestBoard(t, WithUnit(u))
	bv := tb.View
	bv.AddMovingUnit(u, []Step{{Coord: hexgeo.C(3, 4)}})
	bv.AddMovingUnit(u, []Step{{Coord: hexgeo.C(3, 5)}})
	assert.Equal(t, 1, bv.MovingUnits())
	require.Len(t, bv.moves, 1)
	assert.Len(t, bv.moves[0].steps, 2)

	bv.AddMovingUnit(u, nil)
	assert.Len(t, bv.moves[0].steps, 2)
}

func TestTick_RecoversPanic(t *testing.T) {
	tb := newTestBoard(t)
	bv := tb.View
	bv.post(func() { panic("boom") })
	assert.False(t, bv.Tick(TickInterval))

	// The loop keeps going.
	bv.Select(hexgeo.C(1, 1))
	assert.True(t, bv.Tick(TickInterval))

	m := totals(t, tb)
	assert.Equal(t, int64(1), m["boardview.tick.panics"])
	assert.Equal(t, int64(2), m["boardview.ticks"])
}

func TestScheduler_QueuesTicksForPump(t *testing.T) {
	tb := newTestBoard(t)
	bv := tb.View
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewScheduler(bv, 5*time.Millisecond).Run(ctx) }()

	require.Eventually(t, func() bool {
		bv.qmu.Lock()
		defer bv.qmu.Unlock()
		return bv.queued
	}, time.Second, time.Millisecond)
	assert.Zero(t, bv.Ticks(), "ticks only run on the pumping goroutine")

	// A stalled pump holds at most one tick.
	time.Sleep(30 * time.Millisecond)
	bv.qmu.Lock()
	n := len(bv.pending)
	bv.qmu.Unlock()
	assert.Equal(t, 1, n)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	bv.Pump()
	assert.Equal(t, 1, bv.Ticks())
}

func TestScheduler_StopsAfterShutdown(t *testing.T) {
	tb := newTestBoard(t)
	done := make(chan error, 1)
	require.NoError(t, tb.View.Shutdown())
	go func() { done <- NewScheduler(tb.View, time.Millisecond).Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

package app

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/boardview"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
)

type harness struct {
	tb      *boardview.TestBoard
	app     *App
	copied  []string
	clipErr error
	now     time.Time
}

func newHarness(t *testing.T, opts ...boardview.Option) *harness {
	t.Helper()
	tb, err := boardview.NewTestBoard(append([]boardview.Option{boardview.WithViewSize(600, 480)}, opts...)...)
	require.NoError(t, err)
	h := &harness{tb: tb, now: time.Unix(1000, 0)}
	h.app = New(Config{
		View:  tb.View,
		Prefs: tb.Prefs,
		Clipboard: func(s string) error {
			if h.clipErr != nil {
				return h.clipErr
			}
			h.copied = append(h.copied, s)
			return nil
		},
		ScreenshotDir: t.TempDir(),
	})
	// Sized by hand; Layout would allocate GPU images.
	h.app.width, h.app.height = 600+panelWidth, 480
	t.Cleanup(func() {
		h.app.cancelEvt()
		_ = tb.Close()
	})
	return h
}

// at returns the view pixel at the centre of c.
func (h *harness) at(c hexgeo.Coord) image.Point {
	return h.tb.View.Viewport().ToView(hexgeo.New(h.tb.View.Viewport().Scale()).Center(c, true))
}

// frame runs one frame with the pointer at p and the given buttons and
// keys held, 100ms after the previous frame.
func (h *harness) frame(p image.Point, buttons [3]bool, keys ...ebiten.Key) {
	h.wait(p, 100*time.Millisecond, buttons, keys...)
}

func (h *harness) wait(p image.Point, d time.Duration, buttons [3]bool, keys ...ebiten.Key) {
	h.now = h.now.Add(d)
	in := frameInput{cursor: p, buttons: buttons, keys: make(map[ebiten.Key]bool), now: h.now}
	for _, k := range keys {
		in.keys[k] = true
	}
	h.app.apply(in)
}

var (
	none  = [3]bool{}
	left  = [3]bool{true, false, false}
	right = [3]bool{false, true, false}
)

func mine(id int, c hexgeo.Coord) *game.Unit {
	return boardview.NewUnit(id, &game.Player{ID: 1}, c)
}

func TestPointer_ClickSelectsHexAndUnit(t *testing.T) {
	h := newHarness(t, boardview.WithUnit(mine(3, hexgeo.C(4, 4))))
	p := h.at(hexgeo.C(4, 4))
	h.frame(p, left)
	h.frame(p, none)

	assert.True(t, h.app.events.HasEntry(boardview.HexClicked, hexgeo.C(4, 4)))
	assert.True(t, h.app.events.HasEntry(boardview.HexSelected, hexgeo.C(4, 4)))
	assert.Equal(t, 3, h.tb.View.SelectedEntity())
	assert.Equal(t, 1, h.app.events.Count(boardview.HexClicked), "holding the button is one click")
}

func TestPointer_DoubleClick(t *testing.T) {
	h := newHarness(t)
	p := h.at(hexgeo.C(2, 3))
	h.frame(p, left)
	h.frame(p, none)
	h.frame(p, left)
	assert.Equal(t, 1, h.app.events.Count(boardview.HexDoubleClicked))

	h.frame(p, none)
	h.wait(p, time.Second, left)
	assert.Equal(t, 1, h.app.events.Count(boardview.HexDoubleClicked), "too slow for a double click")
	assert.Equal(t, 2, h.app.events.Count(boardview.HexClicked))
}

func TestPointer_DragAndPopup(t *testing.T) {
	h := newHarness(t)
	h.frame(h.at(hexgeo.C(2, 2)), left)
	h.frame(h.at(hexgeo.C(3, 2)), left)
	h.frame(h.at(hexgeo.C(3, 2)), left)
	h.frame(h.at(hexgeo.C(4, 2)), left)
	assert.Equal(t, 2, h.app.events.Count(boardview.HexDragged))

	h.frame(h.at(hexgeo.C(5, 5)), none)
	h.frame(h.at(hexgeo.C(5, 5)), right)
	assert.True(t, h.app.events.HasEntry(boardview.HexPopup, hexgeo.C(5, 5)))
	assert.True(t, h.app.events.HasEntry(boardview.HexHighlighted, hexgeo.C(5, 5)))
}

func TestPointer_CtrlClickChecksLOS(t *testing.T) {
	h := newHarness(t)
	h.frame(h.at(hexgeo.C(1, 1)), left, ebiten.KeyControl)
	h.frame(h.at(hexgeo.C(1, 1)), none, ebiten.KeyControl)
	h.frame(h.at(hexgeo.C(6, 4)), left, ebiten.KeyControl)

	first, second := h.tb.View.LOS()
	assert.Equal(t, hexgeo.C(1, 1), first)
	assert.Equal(t, hexgeo.C(6, 4), second)
	assert.Zero(t, h.app.events.Count(boardview.HexClicked))
}

func TestPointer_LeavingBoardClearsHover(t *testing.T) {
	h := newHarness(t)
	h.frame(h.at(hexgeo.C(2, 2)), none)
	assert.Equal(t, hexgeo.C(2, 2), h.tb.View.LastCursor())

	h.frame(image.Pt(700, 20), none) // over the event panel
	assert.Equal(t, hexgeo.Invalid, h.app.hover)
	assert.Equal(t, hexgeo.Invalid, h.tb.View.LastCursor())
}

func TestKeys_CopyHoveredHexOnce(t *testing.T) {
	h := newHarness(t)
	p := h.at(hexgeo.C(2, 4))
	h.frame(p, none, ebiten.KeyC)
	h.frame(p, none, ebiten.KeyC)
	h.frame(p, none)
	assert.Equal(t, []string{"0305"}, h.copied)

	h.clipErr = errors.New("no display")
	h.frame(p, none, ebiten.KeyC)
	assert.Equal(t, "clipboard unavailable", h.app.status)
}

func TestKeys_ToggleIsometricAndZoom(t *testing.T) {
	h := newHarness(t)
	p := h.at(hexgeo.C(2, 2))
	h.frame(p, none, ebiten.KeyI)
	h.tb.View.Pump()
	assert.True(t, h.tb.Prefs.Bool(prefs.Isometric))
	assert.True(t, h.tb.View.Rasterizer().Isometric())

	h.frame(p, none, ebiten.KeyEqual)
	assert.Equal(t, 8, h.tb.Prefs.Int(prefs.MapZoomIndex))
	h.frame(p, none)
	h.frame(p, none, ebiten.KeyMinus)
	assert.Equal(t, 7, h.tb.Prefs.Int(prefs.MapZoomIndex))
}

func TestKeys_PanScrollsView(t *testing.T) {
	h := newHarness(t)
	before := h.tb.View.Viewport().Origin()
	h.frame(image.Pt(700, 20), none, ebiten.KeyD, ebiten.KeyS)
	assert.Equal(t, before.Add(image.Pt(panSpeed, panSpeed)), h.tb.View.Viewport().Origin())
}

func TestKeys_CtrlQQuits(t *testing.T) {
	h := newHarness(t)
	h.frame(image.Pt(700, 20), none, ebiten.KeyQ)
	assert.False(t, h.app.quit)
	h.frame(image.Pt(700, 20), none)
	h.frame(image.Pt(700, 20), none, ebiten.KeyQ, ebiten.KeyControl)
	assert.True(t, h.app.quit)
}

func TestKeys_WalkSelectedUnit(t *testing.T) {
	u := mine(9, hexgeo.C(2, 2))
	h := newHarness(t, boardview.WithUnit(u))
	h.tb.View.SelectEntity(9)

	dest := hexgeo.C(5, 3)
	h.frame(h.at(dest), none, ebiten.KeyM)
	require.Equal(t, 1, h.tb.View.MovingUnits())

	for i := 0; i < 100 && h.tb.View.MovingUnits() > 0; i++ {
		h.tb.View.Tick(boardview.TickInterval)
	}
	assert.Equal(t, dest, u.Position)
	assert.Equal(t, 1, h.app.events.Count(boardview.FinishedMovingUnits))
	assert.Empty(t, h.app.walking)
}

func TestPathTo(t *testing.T) {
	from, to := hexgeo.C(1, 1), hexgeo.C(6, 4)
	steps := pathTo(from, to, 2)
	require.Len(t, steps, from.Distance(to))
	prev := from
	for _, s := range steps {
		assert.Equal(t, 1, prev.Distance(s.Coord))
		assert.Equal(t, s.Coord, prev.Neighbors()[s.Facing])
		assert.Equal(t, 2, s.Elevation)
		prev = s.Coord
	}
	assert.Equal(t, to, prev)
	assert.Empty(t, pathTo(to, to, 0))
}

func TestPanelLines(t *testing.T) {
	log := boardview.NewEventLog()
	for i := 0; i < 40; i++ {
		log.Record(boardview.Event{Tick: i, Kind: boardview.HexCursor, Coord: hexgeo.C(i%5, 0)})
		log.Record(boardview.Event{Tick: i, Kind: boardview.HexClicked, Coord: hexgeo.C(i%5, 1)})
	}
	lines := panelLines(log, 200)
	require.Len(t, lines, (200-panelTitle-6)/panelLineHeight)
	for _, e := range lines {
		assert.Equal(t, boardview.HexClicked, e.Kind)
	}
	assert.Equal(t, 39, lines[len(lines)-1].Tick)
	assert.Empty(t, panelLines(log, 10))
}

func TestTooltip_SuppressedWithinDistance(t *testing.T) {
	var tip tooltip
	now := time.Unix(0, 0)
	require.True(t, tip.update(image.Pt(100, 100), hexgeo.C(2, 2), now, 3, -1))

	// A small wobble into the next hex keeps the tooltip where it was.
	tip.update(image.Pt(102, 101), hexgeo.C(3, 2), now.Add(time.Second), 3, -1)
	assert.Equal(t, hexgeo.C(2, 2), tip.hex)
	assert.Equal(t, image.Pt(100, 100), tip.anchor)

	tip.update(image.Pt(110, 100), hexgeo.C(3, 2), now.Add(2*time.Second), 3, -1)
	assert.Equal(t, hexgeo.C(3, 2), tip.hex)
	assert.True(t, tip.visible, "a negative delay never dismisses")

	assert.False(t, tip.update(image.Pt(0, 0), hexgeo.Invalid, now, 3, -1))
	assert.Equal(t, hexgeo.Invalid, tip.hex)
}

func TestTooltip_DismissDelayFromPreferences(t *testing.T) {
	h := newHarness(t, boardview.WithUnit(mine(3, hexgeo.C(4, 4))))
	require.NoError(t, h.tb.Prefs.Set(prefs.TooltipDismissDelay, 250))
	p := h.at(hexgeo.C(4, 4))
	h.frame(p, none)
	require.True(t, h.app.tip.visible)
	assert.Contains(t, tooltipLines(h.tb.Board, h.tb.View.Game(), h.app.tip.hex), "unit 3")

	h.wait(p, 300*time.Millisecond, none)
	assert.False(t, h.app.tip.visible)

	h.frame(h.at(hexgeo.C(6, 4)), none)
	assert.True(t, h.app.tip.visible)
	assert.Equal(t, hexgeo.C(6, 4), h.app.tip.hex)
}

package app

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/BoardView/internal/boardview"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
)

const (
	panSpeed          = 12 // pixels per frame
	doubleClickWindow = 400 * time.Millisecond
)

// watchedKeys are sampled every frame for edge detection.
var watchedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyShift, ebiten.KeyControl, ebiten.KeyAlt,
	ebiten.KeyH, ebiten.KeyI, ebiten.KeyC, ebiten.KeyM, ebiten.KeyP,
	ebiten.KeyEqual, ebiten.KeyMinus, ebiten.KeyEscape, ebiten.KeyQ,
}

// frameInput is the input state read once per frame.
type frameInput struct {
	cursor  image.Point
	keys    map[ebiten.Key]bool
	buttons [3]bool // left, right, middle
	wheelX  float64
	wheelY  float64
	now     time.Time
}

func sample() frameInput {
	in := frameInput{keys: make(map[ebiten.Key]bool, len(watchedKeys)), now: time.Now()}
	for _, k := range watchedKeys {
		in.keys[k] = ebiten.IsKeyPressed(k)
	}
	x, y := ebiten.CursorPosition()
	in.cursor = image.Pt(x, y)
	in.buttons = [3]bool{
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}
	in.wheelX, in.wheelY = ebiten.Wheel()
	return in
}

func (in frameInput) modifiers() boardview.Modifier {
	var m boardview.Modifier
	if in.keys[ebiten.KeyShift] {
		m |= boardview.ModShift
	}
	if in.keys[ebiten.KeyControl] {
		m |= boardview.ModCtrl
	}
	if in.keys[ebiten.KeyAlt] {
		m |= boardview.ModAlt
	}
	return m
}

// apply feeds one frame of input to the board view.
func (a *App) apply(in frameInput) {
	pressed := func(k ebiten.Key) bool { return in.keys[k] && !a.prevKeys[k] }
	mods := in.modifiers()

	onBoard := in.cursor.X >= 0 && in.cursor.X < a.boardWidth() && in.cursor.Y >= 0 && in.cursor.Y < a.height
	if onBoard {
		if in.wheelX != 0 || in.wheelY != 0 {
			a.bv.Wheel(in.cursor, in.wheelX, in.wheelY, mods)
		}
		a.pointer(in, mods)
	} else if a.hover != hexgeo.Invalid {
		a.hover = hexgeo.Invalid
		a.bv.Cursor(hexgeo.Invalid)
		a.updateTooltip(in, hexgeo.Invalid)
	}

	if pressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
	if pressed(ebiten.KeyI) && a.prefs != nil {
		if err := a.prefs.Set(prefs.Isometric, !a.prefs.Bool(prefs.Isometric)); err != nil {
			a.log.Error("failed to toggle isometric", "error", err)
		}
	}
	if pressed(ebiten.KeyC) {
		a.copyHover()
	}
	if pressed(ebiten.KeyM) {
		a.walkSelected()
	}
	if pressed(ebiten.KeyP) {
		a.screenshot()
	}
	if pressed(ebiten.KeyEqual) {
		a.bv.ZoomIn()
	}
	if pressed(ebiten.KeyMinus) {
		a.bv.ZoomOut()
	}
	if pressed(ebiten.KeyEscape) {
		a.bv.Select(hexgeo.Invalid)
		a.bv.SelectEntity(-1)
	}
	if pressed(ebiten.KeyQ) && mods.Has(boardview.ModCtrl) {
		a.quit = true
	}

	var dx, dy int
	if in.keys[ebiten.KeyW] || in.keys[ebiten.KeyArrowUp] {
		dy -= panSpeed
	}
	if in.keys[ebiten.KeyS] || in.keys[ebiten.KeyArrowDown] {
		dy += panSpeed
	}
	if in.keys[ebiten.KeyA] || in.keys[ebiten.KeyArrowLeft] {
		dx -= panSpeed
	}
	if in.keys[ebiten.KeyD] || in.keys[ebiten.KeyArrowRight] {
		dx += panSpeed
	}
	if dx != 0 || dy != 0 {
		a.bv.Scroll(dx, dy)
	}

	a.prevKeys = in.keys
	a.prevButtons = in.buttons
}

// pointer turns button edges into board gestures. A second left press
// on the same hex within doubleClickWindow is a double click; holding
// the left button across hexes drags.
func (a *App) pointer(in frameInput, mods boardview.Modifier) {
	c := a.bv.CoordAt(in.cursor)
	if !a.bv.Board().Contains(c) {
		c = hexgeo.Invalid
	}
	a.hover = c
	a.bv.Cursor(c)
	a.updateTooltip(in, c)

	left, right := in.buttons[0], in.buttons[1]
	switch {
	case left && !a.prevButtons[0]:
		if c == a.clickAt && in.now.Sub(a.lastClick) < doubleClickWindow {
			a.bv.MouseAction(in.cursor, boardview.ActionDoubleClick, boardview.ButtonLeft, mods)
			a.clickAt = hexgeo.Invalid
		} else {
			a.bv.MouseAction(in.cursor, boardview.ActionClick, boardview.ButtonLeft, mods)
			a.clickAt, a.lastClick = c, in.now
		}
		a.dragFrom = c
	case left && c != a.dragFrom:
		a.bv.MouseAction(in.cursor, boardview.ActionDrag, boardview.ButtonLeft, mods)
		a.dragFrom = c
	case !left:
		a.dragFrom = hexgeo.Invalid
	}
	if right && !a.prevButtons[1] {
		a.bv.MouseAction(in.cursor, boardview.ActionPopup, boardview.ButtonRight, mods)
	}
}

package boardview

import (
	"image"
	"math"

	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
)

// CoordAt returns the hex under view pixel p. In flat mode this is pure
// geometry and may name a coord off the board. In isometric mode a hex
// can be covered by a higher one further down, so candidates are tried
// from the highest level down; a miss returns hexgeo.Invalid.
func (bv *BoardView) CoordAt(p image.Point) hexgeo.Coord {
	bp := bv.view.ToBoard(p)
	flat := hexgeo.New(bv.raster.Scale())
	c := flat.PixelToCoord(bp)
	if !bv.raster.Isometric() {
		return c
	}
	g := bv.raster.Geometry()
	minE, maxE := bv.board.MinElevation(), bv.board.MaxElevation()
	delta := int(math.Ceil(float64(maxE-minE) / 3))
	for elev := maxE; elev >= minE; elev-- {
		for y := c.Y - delta; y <= c.Y+delta; y++ {
			for x := c.X - 1; x <= c.X+1; x++ {
				cc := hexgeo.C(x, y)
				h := bv.board.Hex(cc)
				if h == nil || h.Level != elev {
					continue
				}
				if g.Contains(cc, bp) {
					return cc
				}
			}
		}
	}
	return hexgeo.Invalid
}

// MouseAction turns a pointer gesture at view pixel p into a board
// event. Gestures off the board are ignored; a ctrl-click runs a line of
// sight check instead of reporting a click.
func (bv *BoardView) MouseAction(p image.Point, a Action, b Button, mods Modifier) {
	c := bv.CoordAt(p)
	if !bv.board.Contains(c) {
		return
	}
	var kind EventKind
	switch a {
	case ActionClick:
		if mods.Has(ModCtrl) {
			bv.CheckLOS(c)
			return
		}
		kind = HexClicked
	case ActionDoubleClick:
		kind = HexDoubleClicked
	case ActionDrag:
		kind = HexDragged
	case ActionPopup:
		kind = HexPopup
	default:
		return
	}
	bv.emit(Event{Kind: kind, Coord: c, Button: b, Modifiers: mods})
}

// Wheel handles notches of wheel movement at view pixel p; positive dy
// is away from the user. Whether the wheel zooms or scrolls is the
// mouseWheelZoom preference, inverted while ctrl is held.
func (bv *BoardView) Wheel(p image.Point, dx, dy float64, mods Modifier) {
	zoom := bv.prefs.Bool(prefs.MouseWheelZoom) != mods.Has(ModCtrl)
	if zoom {
		if dy == 0 {
			return
		}
		in := dy > 0
		if bv.prefs.Bool(prefs.MouseWheelZoomFlip) {
			in = !in
		}
		step := 1
		if !in {
			step = -1
		}
		bv.zoomAt(bv.view.ZoomIndex()+step, &p)
		return
	}
	notch := float64(hexgeo.HexH) * bv.view.Scale()
	if mods.Has(ModShift) {
		dx, dy = dy, 0
	}
	bv.Scroll(int(-dx*notch), int(-dy*notch))
}

// Scroll moves the view by (dx, dy) pixels and stops soft centering.
func (bv *BoardView) Scroll(dx, dy int) {
	bv.view.StopSoftCenter()
	before := bv.view.Origin()
	bv.view.Scroll(dx, dy)
	if bv.view.Origin() != before {
		bv.repaint()
	}
}

// Select moves the selection cursor and reports it. Invalid clears it.
func (bv *BoardView) Select(c hexgeo.Coord) {
	if c != hexgeo.Invalid && !bv.board.Contains(c) {
		return
	}
	bv.selected.SetHexLocation(c)
	bv.clearLOS()
	bv.repaint()
	bv.emit(Event{Kind: HexSelected, Coord: c})
}

// Highlight moves the highlight cursor and reports it.
func (bv *BoardView) Highlight(c hexgeo.Coord) {
	if c != hexgeo.Invalid && !bv.board.Contains(c) {
		return
	}
	bv.highlight.SetHexLocation(c)
	bv.clearLOS()
	bv.repaint()
	bv.emit(Event{Kind: HexHighlighted, Coord: c})
}

// Cursor moves the hover cursor. It only reports a coord it was not
// already on.
func (bv *BoardView) Cursor(c hexgeo.Coord) {
	if c != hexgeo.Invalid && !bv.board.Contains(c) {
		return
	}
	if c == bv.lastCursor {
		return
	}
	bv.lastCursor = c
	bv.cursor.SetHexLocation(c)
	bv.repaint()
	bv.emit(Event{Kind: HexCursor, Coord: c})
}

// LastCursor is the hex under the hover cursor.
func (bv *BoardView) LastCursor() hexgeo.Coord { return bv.lastCursor }

// CheckLOS alternates between picking the first and the second end of a
// line of sight check.
func (bv *BoardView) CheckLOS(c hexgeo.Coord) {
	if c != hexgeo.Invalid && !bv.board.Contains(c) {
		return
	}
	if bv.firstLOS.Coord() == hexgeo.Invalid || bv.secondLOS.Coord() != hexgeo.Invalid {
		bv.firstLOS.SetHexLocation(c)
		bv.secondLOS.SetHexLocation(hexgeo.Invalid)
		bv.repaint()
		bv.emit(Event{Kind: FirstLOSHex, Coord: c})
		return
	}
	bv.secondLOS.SetHexLocation(c)
	bv.repaint()
	bv.emit(Event{Kind: SecondLOSHex, Coord: c})
}

// LOS returns both ends of the current line of sight check.
func (bv *BoardView) LOS() (first, second hexgeo.Coord) {
	return bv.firstLOS.Coord(), bv.secondLOS.Coord()
}

func (bv *BoardView) clearLOS() {
	bv.firstLOS.SetHexLocation(hexgeo.Invalid)
	bv.secondLOS.SetHexLocation(hexgeo.Invalid)
}

// CenterOnHex brings c to the middle of the view, gliding there when
// softCenter is on.
func (bv *BoardView) CenterOnHex(c hexgeo.Coord) {
	if !bv.board.Contains(c) {
		return
	}
	p := hexgeo.New(bv.view.Scale()).Center(c, true)
	if bv.prefs.Bool(prefs.SoftCenter) {
		bv.view.StartSoftCenter(p)
	} else {
		bv.view.CenterOn(p)
	}
	bv.repaint()
}

// SelectEntity marks unit id as selected; -1 clears. Hex shading depends
// on the selected unit's view, so cached hexes are dropped.
func (bv *BoardView) SelectEntity(id int) {
	bv.selectedEntity = id
	bv.layer.SetSelected(id)
	bv.UpdateECM()
	bv.raster.Clear()
	bv.repaint()
}

// SelectedEntity is the selected unit id or -1.
func (bv *BoardView) SelectedEntity() int { return bv.selectedEntity }

// CenterOnSelected centres on the selected unit, if it is on the board.
func (bv *BoardView) CenterOnSelected() {
	if bv.snap == nil {
		return
	}
	if u := bv.snap.Unit(bv.selectedEntity); u.HasPosition() {
		bv.CenterOnHex(u.Position)
	}
}

// ZoomIn zooms one step around the middle of the view.
func (bv *BoardView) ZoomIn() bool { return bv.zoomAt(bv.view.ZoomIndex()+1, nil) }

// ZoomOut zooms one step out around the middle of the view.
func (bv *BoardView) ZoomOut() bool { return bv.zoomAt(bv.view.ZoomIndex()-1, nil) }

// ZoomAt zooms to index i keeping the hex under view pixel p in place.
func (bv *BoardView) ZoomAt(i int, p image.Point) bool { return bv.zoomAt(i, &p) }

func (bv *BoardView) zoomAt(i int, p *image.Point) bool {
	if !bv.setZoom(i, p) {
		return false
	}
	if err := bv.prefs.Set(prefs.MapZoomIndex, bv.view.ZoomIndex()); err != nil {
		bv.log.Error("failed to store zoom index", "error", err)
	}
	return true
}

// setZoom switches every scale-dependent part to zoom index i. With an
// anchor the hex under it stays under it; otherwise the view keeps its
// relative centre.
func (bv *BoardView) setZoom(i int, anchor *image.Point) bool {
	old := hexgeo.New(bv.view.Scale())
	a := bv.view.VisibleArea()
	var (
		focus      hexgeo.Coord
		ihdx, ihdy float64
	)
	if anchor != nil {
		bp := bv.view.ToBoard(*anchor)
		focus = old.PixelToCoord(bp)
		ctr := old.Center(focus, true)
		ihdx = float64(bp.X-ctr.X) / (hexgeo.HexW * old.Scale)
		ihdy = float64(bp.Y-ctr.Y) / (hexgeo.HexH * old.Scale)
	}
	if !bv.view.SetZoomIndex(i) {
		return false
	}
	bv.raster.SetScale(bv.view.ZoomIndex())
	bv.layer.Unready()
	bv.unreadyCursors()
	if anchor != nil {
		ctr := hexgeo.New(bv.view.Scale()).Center(focus, true)
		bv.view.AdjustVisiblePosition(ctr, *anchor, ihdx, ihdy)
	} else {
		bv.view.CenterOnPointRel((a[0]+a[2])/2, (a[1]+a[3])/2)
	}
	bv.repaint()
	return true
}

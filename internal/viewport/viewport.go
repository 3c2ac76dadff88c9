// Package viewport tracks which part of the board is on screen: the zoom
// step, the scroll position over the padded board and soft centering.
package viewport

import (
	"image"
	"math"
	"time"

	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/render"
)

const (
	// SoftCenterInterval is the minimum time between soft centering moves.
	SoftCenterInterval = 20 * time.Millisecond
	// softCenterSpeed divides the remaining distance on every move.
	softCenterSpeed = 8
	// softCenterDone is the relative distance at which the move stops.
	softCenterDone = 0.0005
)

// Padding is the empty margin around the board, one unscaled hex.
var Padding = image.Pt(hexgeo.HexW, hexgeo.HexH)

// Viewport is a window of View pixels over the padded board. Scroll is
// the panel pixel at the window's upper left; board pixel (0,0) sits at
// panel pixel Padding.
type Viewport struct {
	cols, rows int
	zoom       int
	scroll     image.Point
	view       image.Point

	soft   bool
	target [2]float64
	center [2]float64
	wait   time.Duration
}

// New returns a viewport over a cols x rows board at zoom index zoom.
func New(cols, rows, zoom int) *Viewport {
	return &Viewport{cols: cols, rows: rows, zoom: render.ClampZoom(zoom)}
}

// SetBoardSize changes the board dimensions in hexes.
func (v *Viewport) SetBoardSize(cols, rows int) {
	v.cols, v.rows = cols, rows
	v.SetScroll(v.scroll)
}

// SetViewSize sets the on-screen window size.
func (v *Viewport) SetViewSize(w, h int) {
	v.view = image.Pt(w, h)
	v.SetScroll(v.scroll)
}

// ViewSize is the on-screen window size.
func (v *Viewport) ViewSize() image.Point { return v.view }

// ZoomIndex is the current step in render.ZoomFactors.
func (v *Viewport) ZoomIndex() int { return v.zoom }

// Scale is the zoom factor of the current step.
func (v *Viewport) Scale() float64 { return render.ZoomFactors[v.zoom] }

// Geometry is a flat geometry at the current scale.
func (v *Viewport) Geometry() hexgeo.Geometry {
	return hexgeo.New(v.Scale())
}

// BoardSize is the scaled board size in pixels, without padding.
func (v *Viewport) BoardSize() image.Point {
	return v.Geometry().BoardSize(v.cols, v.rows)
}

// PanelSize is the board size plus padding on every side.
func (v *Viewport) PanelSize() image.Point {
	return v.BoardSize().Add(Padding.Mul(2))
}

// SetZoomIndex moves to zoom step i, clamped to the table, and stops any
// soft centering. It reports whether the step changed.
func (v *Viewport) SetZoomIndex(i int) bool {
	i = render.ClampZoom(i)
	v.StopSoftCenter()
	if i == v.zoom {
		return false
	}
	v.zoom = i
	v.SetScroll(v.scroll)
	return true
}

// ZoomIn moves one step up; it reports false at the top of the table.
func (v *Viewport) ZoomIn() bool {
	if v.zoom == len(render.ZoomFactors)-1 {
		return false
	}
	return v.SetZoomIndex(v.zoom + 1)
}

// ZoomOut moves one step down; it reports false at the bottom.
func (v *Viewport) ZoomOut() bool {
	if v.zoom == 0 {
		return false
	}
	return v.SetZoomIndex(v.zoom - 1)
}

// Origin is the current scroll position.
func (v *Viewport) Origin() image.Point { return v.scroll }

// SetScroll moves the window, clamped to the panel.
func (v *Viewport) SetScroll(p image.Point) {
	maxP := v.PanelSize().Sub(v.view)
	v.scroll = image.Pt(clamp(p.X, 0, maxP.X), clamp(p.Y, 0, maxP.Y))
}

// Scroll moves the window by (dx, dy).
func (v *Viewport) Scroll(dx, dy int) {
	v.SetScroll(v.scroll.Add(image.Pt(dx, dy)))
}

// ToBoard converts a window pixel to a board pixel.
func (v *Viewport) ToBoard(p image.Point) image.Point {
	return p.Add(v.scroll).Sub(Padding)
}

// ToView converts a board pixel to a window pixel.
func (v *Viewport) ToView(p image.Point) image.Point {
	return p.Add(Padding).Sub(v.scroll)
}

// VisibleRect is the window in board pixels.
func (v *Viewport) VisibleRect() image.Rectangle {
	min := v.ToBoard(image.Point{})
	return image.Rectangle{Min: min, Max: min.Add(v.view)}
}

// VisibleArea is the window relative to the board size as (x0, y0, x1,
// y1). The whole board in view reads 0,0,1,1; padding can push values
// outside [0,1].
func (v *Viewport) VisibleArea() [4]float64 {
	bs := v.BoardSize()
	bw, bh := float64(bs.X), float64(bs.Y)
	if bw == 0 || bh == 0 {
		return [4]float64{}
	}
	x := float64(v.scroll.X - Padding.X)
	y := float64(v.scroll.Y - Padding.Y)
	return [4]float64{x / bw, y / bh, (x + float64(v.view.X)) / bw, (y + float64(v.view.Y)) / bh}
}

// CenterOnPointRel centres the window on a point given relative to the
// board size; both values are clipped to [0,1].
func (v *Viewport) CenterOnPointRel(xrel, yrel float64) {
	xrel = math.Min(1, math.Max(0, xrel))
	yrel = math.Min(1, math.Max(0, yrel))
	bs := v.BoardSize()
	p := image.Pt(int(float64(bs.X)*xrel)+Padding.X, int(float64(bs.Y)*yrel)+Padding.Y)
	v.SetScroll(p.Sub(v.view.Div(2)))
}

// CenterOn centres the window on board pixel p.
func (v *Viewport) CenterOn(p image.Point) {
	x, y := v.rel(p)
	v.CenterOnPointRel(x, y)
}

func (v *Viewport) rel(p image.Point) (float64, float64) {
	bs := v.BoardSize()
	if bs.X == 0 || bs.Y == 0 {
		return 0, 0
	}
	return float64(p.X) / float64(bs.X), float64(p.Y) / float64(bs.Y)
}

// AdjustVisiblePosition scrolls so that hexCenter, a board pixel, shows
// at window pixel disp, shifted by (ihdx, ihdy) hexes. Zooming calls it
// to keep the hex under the pointer in place.
func (v *Viewport) AdjustVisiblePosition(hexCenter, disp image.Point, ihdx, ihdy float64) {
	p := hexCenter.Add(Padding)
	s := v.Scale()
	v.SetScroll(image.Pt(
		p.X-disp.X+int(ihdx*s*hexgeo.HexW),
		p.Y-disp.Y+int(ihdy*s*hexgeo.HexH),
	))
}

// StartSoftCenter begins gliding towards board pixel p. The target is
// held back from the edges where the window cannot centre on it.
func (v *Viewport) StartSoftCenter(p image.Point) {
	tx, ty := v.rel(p)
	bs := v.BoardSize()
	w, h := float64(v.view.X), float64(v.view.Y)
	bw, bh := float64(bs.X), float64(bs.Y)
	if bw == 0 || bh == 0 {
		return
	}
	minX := (w/2 - hexgeo.HexW) / bw
	minY := (h/2 - hexgeo.HexH) / bh
	maxX := (bw + hexgeo.HexW - w/2) / bw
	maxY := (bh + hexgeo.HexH - h/2) / bh

	// Top and left always stop the board; bottom and right only when the
	// board is larger than the window.
	tx, ty = math.Min(tx, maxX), math.Min(ty, maxY)
	tx, ty = math.Max(tx, minX), math.Max(ty, minY)
	v.target = [2]float64{tx, ty}

	a := v.VisibleArea()
	v.center = [2]float64{(a[0] + a[2]) / 2, (a[1] + a[3]) / 2}
	v.wait = 0
	v.soft = true
}

// StepSoftCenter advances a running glide by dt. It reports whether the
// window moved.
func (v *Viewport) StepSoftCenter(dt time.Duration) bool {
	if !v.soft {
		return false
	}
	v.wait += dt
	if v.wait < SoftCenterInterval {
		return false
	}
	v.wait = 0
	next := [2]float64{
		v.center[0] + (v.target[0]-v.center[0])/softCenterSpeed,
		v.center[1] + (v.target[1]-v.center[1])/softCenterSpeed,
	}
	v.CenterOnPointRel(next[0], next[1])
	v.center = next
	if math.Hypot(v.target[0]-next[0], v.target[1]-next[1]) < softCenterDone {
		v.StopSoftCenter()
	}
	return true
}

// StopSoftCenter cancels a glide.
func (v *Viewport) StopSoftCenter() { v.soft = false }

// SoftCentering reports whether a glide is running.
func (v *Viewport) SoftCentering() bool { return v.soft }

// SoftTarget is the relative point a glide is heading for.
func (v *Viewport) SoftTarget() (float64, float64) { return v.target[0], v.target[1] }

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

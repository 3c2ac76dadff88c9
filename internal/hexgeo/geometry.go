package hexgeo

import (
	"image"

	"golang.org/x/image/math/f64"
)

// Dimensions of an unscaled hex image.
const (
	HexW    = 84
	HexH    = 72
	HexWC   = HexW - HexW/4 // column stride
	HexElev = 12            // vertical pixels per level in isometric mode
)

// hexPoly is the outline of an unscaled hex image.
var hexPoly = [8]f64.Vec2{
	{21, 0}, {62, 0}, {83, 35}, {83, 36}, {62, 71}, {21, 71}, {0, 36}, {0, 35},
}

// Geometry converts between coords and pixels at a single scale. Pixel
// positions are relative to the board origin, without any padding.
type Geometry struct {
	Scale     float64
	Isometric bool
	// Level reports a hex's level; consulted only in isometric mode.
	Level func(Coord) (int, bool)
}

// New returns a flat geometry at scale s.
func New(s float64) Geometry {
	return Geometry{Scale: s}
}

// ColStride is the truncated horizontal distance between columns.
func (g Geometry) ColStride() int {
	return int(HexWC * g.Scale)
}

// RowStride is the truncated vertical distance between rows.
func (g Geometry) RowStride() int {
	return int(HexH * g.Scale)
}

// HexSize is the scaled size of a standard hex image.
func (g Geometry) HexSize() image.Point {
	return image.Pt(int(HexW*g.Scale), int(HexH*g.Scale))
}

// TopLeft returns the upper-left corner of the hex image at c. In
// isometric mode the hex is lifted by level*HexElev unless ignoreElev.
func (g Geometry) TopLeft(c Coord, ignoreElev bool) image.Point {
	elevAdjust := 0.0
	if g.Isometric && !ignoreElev && g.Level != nil {
		if lvl, ok := g.Level(c); ok {
			elevAdjust = float64(lvl) * HexElev * g.Scale * -1
		}
	}
	y := c.Y * g.RowStride()
	if c.X&1 == 1 {
		y += int(float64(HexH/2) * g.Scale)
	}
	return image.Pt(c.X*g.ColStride(), y+int(elevAdjust))
}

// Center returns the center of the hex image at c.
func (g Geometry) Center(c Coord, ignoreElev bool) image.Point {
	p := g.TopLeft(c, ignoreElev)
	return image.Pt(
		int(float64(p.X)+float64(HexW/2)*g.Scale),
		int(float64(p.Y)+float64(HexH/2)*g.Scale),
	)
}

// LargeTileOrigin is the untruncated hex position used to pick the slice
// of a texture bigger than one hex; it never includes elevation.
func LargeTileOrigin(c Coord, s float64) image.Point {
	y := int(float64(c.Y) * HexH * s)
	if c.X&1 == 1 {
		y += int(float64(HexH/2) * s)
	}
	return image.Pt(int(float64(c.X)*HexWC*s), y)
}

// BoardSize is the pixel size of a w x h board.
func (g Geometry) BoardSize(w, h int) image.Point {
	return image.Pt(
		w*g.ColStride()+int(float64(HexW/4)*g.Scale),
		h*g.RowStride()+int(float64(HexH/2)*g.Scale),
	)
}

// Outline returns the scaled hex outline with its origin at (0,0).
func (g Geometry) Outline() []f64.Vec2 {
	out := make([]f64.Vec2, len(hexPoly))
	for i, p := range hexPoly {
		out[i] = f64.Vec2{p[0] * g.Scale, p[1] * g.Scale}
	}
	return out
}

// Polygon returns the scaled outline of the hex at c in board pixels.
func (g Geometry) Polygon(c Coord) []f64.Vec2 {
	tl := g.TopLeft(c, false)
	out := g.Outline()
	for i := range out {
		out[i][0] += float64(tl.X)
		out[i][1] += float64(tl.Y)
	}
	return out
}

// Contains reports whether pixel p lies inside the hex at c.
func (g Geometry) Contains(c Coord, p image.Point) bool {
	return PolygonContains(g.Polygon(c), float64(p.X), float64(p.Y))
}

// PixelToCoord finds the hex under board pixel p. The first estimate is
// refined against the exact outlines of the candidate and its neighbors,
// since an odd column's bounding box spans two honeycomb cells.
func (g Geometry) PixelToCoord(p image.Point) Coord {
	cs, rs := g.ColStride(), g.RowStride()
	if cs <= 0 || rs <= 0 {
		return Invalid
	}
	x := p.X / cs
	y := p.Y / rs
	if float64(p.Y)/(g.Scale*HexH)-float64(y) < 0.5 {
		y -= x % 2
	}
	cc := Coord{X: x, Y: y}
	if g.Contains(cc, p) {
		return cc
	}
	for _, n := range cc.Neighbors() {
		if g.Contains(n, p) {
			return n
		}
	}
	return cc
}

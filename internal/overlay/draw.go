package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/sprites"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// Canvas is a frame being painted; Offset maps board pixels to Dst.
type Canvas struct {
	Dst    draw.Image
	Ctx    sprites.Context
	Offset image.Point
}

func (cv Canvas) origin(c hexgeo.Coord) image.Point {
	return cv.Ctx.Geometry().TopLeft(c, false).Add(cv.Offset)
}

// DrawBorders paints each border as a ring inside its hex.
func (cv Canvas) DrawBorders(bs []Border) {
	s := cv.Ctx.Scale()
	outline := gfx.Path(hexgeo.New(s).Outline())
	cx, cy, a := 41.5*s, 35.5*s, 36*s
	for _, b := range bs {
		o := cv.origin(b.Coord)
		outer := gfx.Inset(outline, cx, cy, a, b.Pad*s).Translate(float64(o.X), float64(o.Y))
		inner := gfx.Inset(outline, cx, cy, a, (b.Pad+b.Width)*s).Translate(float64(o.X), float64(o.Y))
		gfx.Ring(cv.Dst, b.Colour, outer, inner)
	}
}

// DrawMarkers blits each marker at its scaled offset.
func (cv Canvas) DrawMarkers(ms []Marker) {
	s := cv.Ctx.Scale()
	for _, m := range ms {
		if m.Tile == nil {
			continue
		}
		o := cv.origin(m.Coord)
		at := image.Pt(o.X+int(float64(m.At.X)*s), o.Y+int(float64(m.At.Y)*s))
		gfx.Blit(cv.Dst, cv.Ctx.ScaledImage(m.Tile), at)
	}
}

// DrawMinefields paints the sign at (13,13) and the label lines from 51
// down in 9 pixel steps, centred across the hex.
func (cv Canvas) DrawMinefields(sign *tiles.Tile, ls []MineLabel) {
	s := cv.Ctx.Scale()
	width := cv.Ctx.Geometry().HexSize().X
	face := cv.Ctx.Face()
	for _, l := range ls {
		o := cv.origin(l.Coord)
		if sign != nil {
			gfx.Blit(cv.Dst, cv.Ctx.ScaledImage(sign), image.Pt(o.X+int(13*s), o.Y+int(13*s)))
		}
		for i, line := range l.Lines {
			y := 51 + 9*i
			gfx.DrawCentered(cv.Dst, face, line, o.X, o.Y+int(float64(y)*s), width, color.Black)
		}
	}
}

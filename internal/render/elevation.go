package render

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
)

// corners are the truncated outline points of a scaled hex.
type corners struct {
	s62y0, s21y0, s83y35, s83y36, s62y71, s21y71, x0y36, x0y35 image.Point
}

func cornerPoints(s float64) corners {
	s21, s35, s36 := int(21*s), int(35*s), int(36*s)
	s62, s71, s83 := int(62*s), int(71*s), int(83*s)
	return corners{
		s62y0:  image.Pt(s62, 0),
		s21y0:  image.Pt(s21, 0),
		s83y35: image.Pt(s83, s35),
		s83y36: image.Pt(s83, s36),
		s62y71: image.Pt(s62, s71),
		s21y71: image.Pt(s21, s71),
		x0y36:  image.Pt(0, s36),
		x0y35:  image.Pt(0, s35),
	}
}

// vec maps a pixel to its centre, where one pixel wide lines belong.
func vec(p image.Point) f64.Vec2 {
	return f64.Vec2{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

type side struct {
	a, b     image.Point
	face     color.RGBA
	hlA, hlB image.Point
}

// drawElevation marks the sides of a hex that border a different level,
// with cliff faces in isometric mode.
func (r *Rasterizer) drawElevation(img *image.RGBA, c hexgeo.Coord, hex *board.Hex) {
	p := cornerPoints(r.Scale())
	sides := [6]side{
		{p.s62y0, p.s21y0, gray, p.s21y0, p.s62y0},
		{p.s83y35, p.s62y0, darkGray, p.s62y0, p.s83y35},
		{p.s83y36, p.s62y71, lightGray, p.s83y36, p.s62y71},
		{p.s21y71, p.s62y71, gray, p.s62y71, p.s21y71},
		{p.x0y36, p.s21y71, darkGray, p.s21y71, p.x0y36},
		{p.x0y35, p.s21y0, lightGray, p.x0y35, p.s21y0},
	}
	highlight := r.prefs.Bool(prefs.LevelHighlight)
	for dir, sd := range sides {
		if !r.elevationLine(c, hex, dir) {
			continue
		}
		r.drawCliff(img, c, hex, sd, dir)
		if highlight {
			gfx.Line(img, black, vec(sd.hlA), vec(sd.hlB), 1)
		}
	}
}

// elevationLine reports whether the side towards dir separates two
// levels. The answer is the same seen from either hex.
func (r *Rasterizer) elevationLine(c hexgeo.Coord, src *board.Hex, dir int) bool {
	dest := r.board.HexInDir(c, dir)
	switch {
	case dest == nil:
		return src.Level != 0
	case src.Level != dest.Level:
		return true
	default:
		return src.Floor() != dest.Floor()
	}
}

// drawCliff paints the visible face below a front side of a hex that is
// higher than its neighbour. Only the south-facing sides are visible in
// the isometric projection.
func (r *Rasterizer) drawCliff(img *image.RGBA, c hexgeo.Coord, src *board.Hex, sd side, dir int) {
	if !r.isometric || r.prefs.Bool(prefs.FloatingIso) {
		return
	}
	front := dir == 2 || dir == 3 || dir == 4
	fudge := -1
	if front {
		fudge = 1
	}
	s := r.Scale()
	elev := src.Level
	dest := r.board.HexInDir(c, dir)
	if dest == nil {
		if elev <= 0 || !front {
			return
		}
		height := elev
		if south := r.board.HexInDir(c, 3); dir != 3 && south != nil && elev > south.Level {
			height = elev - south.Level
		}
		sh := int(hexgeo.HexElev * s * float64(height))
		r.fillCliff(img, sd, sd.a.Y+fudge, sd.b.Y+fudge, sd.b.Y+sh, sd.a.Y+sh)
		if dir == 2 || dir == 4 {
			gfx.Line(img, black, vec(sd.a), vec(image.Pt(sd.a.X, sd.a.Y+sh)), 1)
		}
		return
	}

	delta := elev - dest.Level
	if delta <= 0 || !front {
		return
	}
	sh := int(hexgeo.HexElev * s * float64(delta))
	ys := [4]int{sd.a.Y + fudge, sd.b.Y + fudge, sd.b.Y + fudge + sh, sd.a.Y + fudge + sh}
	for _, y := range ys {
		if y < 0 {
			r.log.Debug("negative cliff y", "hex", c.BoardNum(), "dir", dir, "y", y)
		}
	}
	r.fillCliff(img, sd, ys[0], ys[1], ys[2], ys[3])
	if dir == 2 || dir == 4 {
		gfx.Line(img, black, vec(sd.a), vec(image.Pt(sd.a.X, sd.a.Y+sh+fudge)), 1)
	}
}

func (r *Rasterizer) fillCliff(img *image.RGBA, sd side, y1, y2, y3, y4 int) {
	ax, bx := float64(sd.a.X), float64(sd.b.X)
	quad := gfx.Path{
		{ax, float64(y1)}, {bx, float64(y2)},
		{bx, float64(y3)}, {ax, float64(y4)},
	}
	gfx.FillColor(img, sd.face, quad)
	gfx.Polyline(img, sd.face, quad, 1, true)
}

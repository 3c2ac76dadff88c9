// Package gfx holds the drawing primitives shared by the rasterizer,
// sprites and overlays. Everything draws on the CPU into image.RGBA.
package gfx

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// Path is a closed polygon in destination pixel coordinates.
type Path []f64.Vec2

// Translate returns p moved by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, v := range p {
		out[i] = f64.Vec2{v[0] + dx, v[1] + dy}
	}
	return out
}

// Reverse returns p with the opposite winding.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

func (p Path) bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	minX, minY := p[0][0], p[0][1]
	maxX, maxY := minX, minY
	for _, v := range p[1:] {
		minX = math.Min(minX, v[0])
		minY = math.Min(minY, v[1])
		maxX = math.Max(maxX, v[0])
		maxY = math.Max(maxY, v[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// Fill paints the union of the paths with src. Overlapping paths with
// opposite winding cut holes, which is how rings are drawn.
func Fill(dst draw.Image, src image.Image, paths ...Path) {
	var r image.Rectangle
	for _, p := range paths {
		r = r.Union(p.bounds())
	}
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	clip := Path{{0, 0}, {float64(r.Dx()), 0}, {float64(r.Dx()), float64(r.Dy())}, {0, float64(r.Dy())}}
	for _, p := range paths {
		local := clipTo(p.Translate(float64(-r.Min.X), float64(-r.Min.Y)), clip)
		if len(local) < 3 {
			continue
		}
		z.MoveTo(float32(local[0][0]), float32(local[0][1]))
		for _, v := range local[1:] {
			z.LineTo(float32(v[0]), float32(v[1]))
		}
		z.ClosePath()
	}
	z.Draw(dst, r, src, r.Min)
}

// FillColor paints the paths in a solid colour.
func FillColor(dst draw.Image, c color.Color, paths ...Path) {
	Fill(dst, image.NewUniform(c), paths...)
}

// Ring paints the band between outer and inner.
func Ring(dst draw.Image, c color.Color, outer, inner Path) {
	FillColor(dst, c, outer, inner.Reverse())
}

// Line paints a straight stroke of the given width from a to b.
func Line(dst draw.Image, c color.Color, a, b f64.Vec2, width float64) {
	FillColor(dst, c, LinePath(a, b, width))
}

// LinePath is the outline of a stroke of the given width from a to b.
// Fill it with a LinearGradient for a shaded line.
func LinePath(a, b f64.Vec2, width float64) Path {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return Rect(a[0]-width/2, a[1]-width/2, width, width)
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return Path{
		{a[0] + nx, a[1] + ny}, {b[0] + nx, b[1] + ny},
		{b[0] - nx, b[1] - ny}, {a[0] - nx, a[1] - ny},
	}
}

// Polyline strokes each segment of p, closing it when closed is set.
func Polyline(dst draw.Image, c color.Color, p Path, width float64, closed bool) {
	for i := 0; i+1 < len(p); i++ {
		Line(dst, c, p[i], p[i+1], width)
	}
	if closed && len(p) > 2 {
		Line(dst, c, p[len(p)-1], p[0], width)
	}
}

// Rect is an axis-aligned rectangle path.
func Rect(x, y, w, h float64) Path {
	return Path{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// Inset pulls every point of p towards (cx, cy) so that edges at apothem
// distance a from the centre move inwards by d.
func Inset(p Path, cx, cy, a, d float64) Path {
	k := (a - d) / a
	if k < 0 {
		k = 0
	}
	out := make(Path, len(p))
	for i, v := range p {
		out[i] = f64.Vec2{cx + (v[0]-cx)*k, cy + (v[1]-cy)*k}
	}
	return out
}

// Rotate turns p by deg degrees clockwise around (cx, cy).
func Rotate(p Path, deg, cx, cy float64) Path {
	s, c := math.Sincos(deg * math.Pi / 180)
	out := make(Path, len(p))
	for i, v := range p {
		x, y := v[0]-cx, v[1]-cy
		out[i] = f64.Vec2{cx + x*c - y*s, cy + x*s + y*c}
	}
	return out
}

// clipTo clips p against the convex polygon win.
func clipTo(p, win Path) Path {
	out := p
	for i := range win {
		if len(out) == 0 {
			return nil
		}
		a, b := win[i], win[(i+1)%len(win)]
		in := out
		out = make(Path, 0, len(in)+2)
		for j := range in {
			cur, prev := in[j], in[(j+len(in)-1)%len(in)]
			curIn, prevIn := inside(cur, a, b), inside(prev, a, b)
			if curIn {
				if !prevIn {
					out = append(out, intersect(prev, cur, a, b))
				}
				out = append(out, cur)
			} else if prevIn {
				out = append(out, intersect(prev, cur, a, b))
			}
		}
	}
	return out
}

func inside(p, a, b f64.Vec2) bool {
	return (b[0]-a[0])*(p[1]-a[1])-(b[1]-a[1])*(p[0]-a[0]) >= 0
}

func intersect(p, q, a, b f64.Vec2) f64.Vec2 {
	a1, b1 := q[1]-p[1], p[0]-q[0]
	c1 := a1*p[0] + b1*p[1]
	a2, b2 := b[1]-a[1], a[0]-b[0]
	c2 := a2*a[0] + b2*a[1]
	det := a1*b2 - a2*b1
	if det == 0 {
		return q
	}
	return f64.Vec2{(b2*c1 - b1*c2) / det, (a1*c2 - a2*c1) / det}
}

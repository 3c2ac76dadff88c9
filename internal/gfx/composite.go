package gfx

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Scale resamples src to w x h with the given interpolator.
func Scale(src image.Image, w, h int, k draw.Interpolator) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	k.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Blit draws src over dst with its top-left corner at at.
func Blit(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, b.Sub(b.Min).Add(at), src, b.Min, draw.Over)
}

// BlitAlpha draws src over dst at the given opacity.
func BlitAlpha(dst draw.Image, src image.Image, at image.Point, alpha float64) {
	if alpha >= 1 {
		Blit(dst, src, at)
		return
	}
	b := src.Bounds()
	mask := image.NewUniform(color.Alpha16{A: uint16(clamp01(alpha) * 0xffff)})
	draw.DrawMask(dst, b.Sub(b.Min).Add(at), src, b.Min, mask, image.Point{}, draw.Over)
}

// DrawAtop composites the sr part of src into r of dst at the given
// opacity, only where dst is already painted. The destination's shape is
// kept, so nothing bleeds outside a hex.
func DrawAtop(dst *image.RGBA, r image.Rectangle, src image.Image, sp image.Point, alpha float64) {
	draw.DrawMask(dst, r, src, sp, atopMask{dst: dst, alpha: clamp01(alpha)}, r.Min, draw.Over)
}

// DrawAtopScaled stretches the sr slice of src onto r of dst, atop.
func DrawAtopScaled(dst *image.RGBA, r image.Rectangle, src image.Image, sr image.Rectangle, alpha float64, k draw.Interpolator) {
	tmp := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	k.Scale(tmp, tmp.Bounds(), src, sr, draw.Src, nil)
	DrawAtop(dst, r, tmp, image.Point{}, alpha)
}

// atopMask uses the destination's own alpha as the coverage mask.
type atopMask struct {
	dst   *image.RGBA
	alpha float64
}

func (m atopMask) ColorModel() color.Model { return color.Alpha16Model }
func (m atopMask) Bounds() image.Rectangle { return m.dst.Bounds() }
func (m atopMask) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.dst.Rect)) {
		return color.Alpha16{}
	}
	a := m.dst.Pix[m.dst.PixOffset(x, y)+3]
	return color.Alpha16{A: uint16(float64(a) * 257 * m.alpha)}
}

// LinearGradient is an unbounded image shading from C1 at P1 to C2 at P2,
// clamped beyond both ends.
type LinearGradient struct {
	P1, P2 f64.Vec2
	C1, C2 color.RGBA
}

func (g LinearGradient) ColorModel() color.Model { return color.RGBAModel }

func (g LinearGradient) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (g LinearGradient) At(x, y int) color.Color {
	dx, dy := g.P2[0]-g.P1[0], g.P2[1]-g.P1[1]
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = clamp01(((float64(x)+0.5-g.P1[0])*dx + (float64(y)+0.5-g.P1[1])*dy) / l2)
	}
	mix := func(a, b uint8) float64 { return float64(a) + (float64(b)-float64(a))*t }
	a := mix(g.C1.A, g.C2.A)
	// premultiply
	return color.RGBA{
		R: uint8(mix(g.C1.R, g.C2.R) * a / 255),
		G: uint8(mix(g.C1.G, g.C2.G) * a / 255),
		B: uint8(mix(g.C1.B, g.C2.B) * a / 255),
		A: uint8(a),
	}
}

// Darker mirrors the classic 0.7 darkening of a colour, keeping alpha.
func Darker(c color.RGBA) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * 0.7), G: uint8(float64(c.G) * 0.7), B: uint8(float64(c.B) * 0.7), A: c.A}
}

// WithAlpha returns the opaque colour c at alpha a, premultiplied.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

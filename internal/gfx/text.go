package gfx

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	parseOnce sync.Once
	regular   *opentype.Font
	parseErr  error
)

// Fonts caches Go Regular faces by point size. Faces are not safe for
// concurrent use, so every renderer owns its own Fonts.
type Fonts struct {
	faces map[float64]font.Face
}

// NewFonts returns an empty face cache.
func NewFonts() *Fonts {
	return &Fonts{faces: make(map[float64]font.Face)}
}

// Face returns the face for size, falling back to the 7x13 bitmap face
// when the embedded font cannot be parsed.
func (f *Fonts) Face(size float64) font.Face {
	if face, ok := f.faces[size]; ok {
		return face
	}
	parseOnce.Do(func() {
		regular, parseErr = opentype.Parse(goregular.TTF)
	})
	var face font.Face = basicfont.Face7x13
	if parseErr == nil && size > 0 {
		ff, err := opentype.NewFace(regular, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			face = ff
		}
	}
	f.faces[size] = face
	return face
}

// Close releases every cached face.
func (f *Fonts) Close() error {
	for size, face := range f.faces {
		if face != basicfont.Face7x13 {
			_ = face.Close()
		}
		delete(f.faces, size)
	}
	return nil
}

// TextWidth is the advance of s in pixels.
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// DrawString draws s with its baseline starting at (x, y).
func DrawString(dst draw.Image, face font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// DrawCentered draws s horizontally centred in a box of the given width
// starting at x, baseline y.
func DrawCentered(dst draw.Image, face font.Face, s string, x, y, width int, c color.Color) {
	DrawString(dst, face, s, x+(width-TextWidth(face, s))/2, y, c)
}

// DrawOutlined draws s centred on (cx, cy) with a one-pixel-per-step
// outline of the given thickness.
func DrawOutlined(dst draw.Image, face font.Face, s string, cx, cy int, fill, outline color.Color, thickness int) {
	m := face.Metrics()
	x := cx - TextWidth(face, s)/2
	y := cy + (m.Ascent.Ceil()-m.Descent.Ceil())/2
	for dy := -thickness; dy <= thickness; dy++ {
		for dx := -thickness; dx <= thickness; dx++ {
			if dx != 0 || dy != 0 {
				DrawString(dst, face, s, x+dx, y+dy, outline)
			}
		}
	}
	DrawString(dst, face, s, x, y, fill)
}

package render

import (
	"image"
	"image/color"

	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// Light falls from the north-west; shadows run south and south-east.
var shadowDirs = []int{2, 3}

const maxShadowReach = 4

var shadowShade = color.RGBA{R: 10, G: 10, B: 25, A: 70}

// ShadowMap returns the board-wide terrain shadow image at base scale,
// building it on first use.
func (r *Rasterizer) ShadowMap() *image.RGBA {
	if r.shadowMap != nil {
		return r.shadowMap
	}
	g := hexgeo.New(1)
	w, h := r.board.Width(), r.board.Height()
	img := image.NewRGBA(image.Rectangle{Max: g.BoardSize(w, h)})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := hexgeo.C(x, y)
			top := r.board.Hex(c).Ceiling()
			for _, dir := range shadowDirs {
				next := c
				for n := 1; n <= maxShadowReach; n++ {
					next = next.Translated(dir)
					target := r.board.Hex(next)
					if target == nil || target.Level >= top-n+1 {
						break
					}
					gfx.FillColor(img, shadowShade, gfx.Path(g.Polygon(next)))
				}
			}
		}
	}
	r.shadowMap = img
	return img
}

// ShadowReach lists the coords whose shading can change when the hex at
// c changes height: every hex a shadow through c can fall on or start
// from, and their neighbours, since the scaled slice of the shadow map
// bleeds a few pixels over the hex edge.
func ShadowReach(c hexgeo.Coord) []hexgeo.Coord {
	seen := map[hexgeo.Coord]bool{c: true}
	out := []hexgeo.Coord{c}
	add := func(h hexgeo.Coord) {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	var line []hexgeo.Coord
	for _, dir := range shadowDirs {
		for _, d := range []int{dir, (dir + 3) % 6} {
			next := c
			for n := 1; n <= maxShadowReach; n++ {
				next = next.Translated(d)
				line = append(line, next)
			}
		}
	}
	for _, h := range append(line, c) {
		add(h)
		for _, n := range h.Neighbors() {
			add(n)
		}
	}
	return out
}

// ResetShadowMap discards the shadow map after the terrain changed.
func (r *Rasterizer) ResetShadowMap() {
	r.shadowMap = nil
}

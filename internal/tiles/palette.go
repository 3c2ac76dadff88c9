package tiles

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/gfx"
)

// groundOf names the terrain that decides a hex's base colour.
func groundOf(h *board.Hex) string {
	for _, t := range []board.Terrain{
		board.TerrainWater, board.TerrainSwamp, board.TerrainMud,
		board.TerrainIce, board.TerrainSnow, board.TerrainPavement,
	} {
		if h.Contains(t) {
			return t.String()
		}
	}
	return "grass"
}

var groundColours = map[string]color.RGBA{
	"grass":    {R: 118, G: 146, B: 82, A: 255},
	"water":    {R: 70, G: 110, B: 170, A: 255},
	"swamp":    {R: 86, G: 104, B: 70, A: 255},
	"mud":      {R: 120, G: 96, B: 66, A: 255},
	"ice":      {R: 200, G: 220, B: 235, A: 255},
	"snow":     {R: 236, G: 238, B: 242, A: 255},
	"pavement": {R: 150, G: 150, B: 150, A: 255},
}

// baseColour shades the ground colour by level: higher ground is lighter,
// deeper water darker.
func baseColour(h *board.Hex) color.RGBA {
	c := groundColours[groundOf(h)]
	shift := h.Level * 6
	if d := h.TerrainLevel(board.TerrainWater); d > 0 {
		shift -= d * 12
	}
	return color.RGBA{R: tone(c.R, shift), G: tone(c.G, shift), B: tone(c.B, shift), A: 255}
}

func tone(v uint8, d int) uint8 {
	n := int(v) + d
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return uint8(n)
}

type painter func(img *image.RGBA, v board.TerrainValue)

// superPainters draw the overlay for each terrain that has one. Terrains
// without an entry contribute no image.
var superPainters = map[board.Terrain]painter{
	board.TerrainWoods:       trees(color.RGBA{R: 40, G: 90, B: 40, A: 255}),
	board.TerrainJungle:      trees(color.RGBA{R: 30, G: 110, B: 50, A: 255}),
	board.TerrainWater:       waves,
	board.TerrainRough:       stones(color.RGBA{R: 110, G: 100, B: 80, A: 255}),
	board.TerrainRubble:      stones(color.RGBA{R: 90, G: 80, B: 80, A: 255}),
	board.TerrainRoad:        road,
	board.TerrainGroundFluff: stones(color.RGBA{R: 140, G: 160, B: 100, A: 160}),
	board.TerrainSnow:        stones(color.RGBA{R: 250, G: 250, B: 255, A: 200}),
	board.TerrainBuilding:    building,
	board.TerrainFortified:   fortified,
}

func trees(c color.RGBA) painter {
	return func(img *image.RGBA, v board.TerrainValue) {
		spots := [][2]float64{{24, 22}, {52, 18}, {60, 44}, {32, 50}, {42, 34}}
		n := 2 + v.Level
		if n > len(spots) {
			n = len(spots)
		}
		for _, s := range spots[:n] {
			gfx.FillColor(img, c, gfx.Inset(gfx.Rect(s[0]-9, s[1]-9, 18, 18), s[0], s[1], 9, 2))
		}
	}
}

func waves(img *image.RGBA, v board.TerrainValue) {
	c := color.RGBA{R: 150, G: 190, B: 230, A: 160}
	for _, y := range []float64{22, 36, 50} {
		gfx.Line(img, c, f64.Vec2{24, y}, f64.Vec2{60, y}, 1.5)
	}
}

func stones(c color.RGBA) painter {
	return func(img *image.RGBA, _ board.TerrainValue) {
		for _, s := range [][2]float64{{26, 20}, {54, 26}, {36, 48}, {58, 50}} {
			gfx.FillColor(img, c, gfx.Rect(s[0], s[1], 5, 4))
		}
	}
}

func road(img *image.RGBA, v board.TerrainValue) {
	c := color.RGBA{R: 120, G: 110, B: 95, A: 255}
	for _, dir := range v.ExitList() {
		if dir > 5 {
			continue
		}
		gfx.FillColor(img, c, gfx.Rotate(gfx.Rect(36, 0, 11, 36), float64(dir*60), 41.5, 35.5))
	}
	gfx.FillColor(img, c, gfx.Rect(36, 30, 11, 11))
}

func building(img *image.RGBA, v board.TerrainValue) {
	base := color.RGBA{R: 130, G: 120, B: 110, A: 255}
	body := gfx.Rect(20, 16, 44, 40)
	gfx.FillColor(img, base, body)
	gfx.Polyline(img, gfx.Darker(base), body, 2, true)
}

func fortified(img *image.RGBA, _ board.TerrainValue) {
	gfx.Polyline(img, color.RGBA{R: 90, G: 70, B: 50, A: 255}, gfx.Rect(14, 12, 56, 48), 3, true)
}

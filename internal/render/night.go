package render

import (
	"image"
	"math/rand/v2"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// Darken applies the night shading for light to img in place. The pitch
// black flicker is seeded by the hex so a hex always renders the same.
func Darken(img *image.RGBA, light game.Light, c hexgeo.Coord) {
	switch light {
	case game.LightFullMoon, game.LightMoonless:
		gfx.MapPixels(img, func(_ int, r, g, b uint8) (uint8, uint8, uint8) {
			return r / 4, g / 4, b / 2
		})
	case game.LightPitchBlack:
		rng := rand.New(rand.NewPCG(uint64(c.X), uint64(c.Y)))
		gfx.MapPixels(img, func(_ int, r, g, b uint8) (uint8, uint8, uint8) {
			gy := (int(r) + int(g) + int(b)) / 16
			if rng.Float64() < 0.3 {
				gy = gy * 4 / 5
			}
			if rng.Float64() < 0.3 {
				gy = gy * 5 / 4
			}
			return uint8(gy + int(r)/5), uint8(gy + int(g)/5), uint8(gy + int(b)/5)
		})
	case game.LightDusk:
		gfx.MapPixels(img, func(_ int, r, g, b uint8) (uint8, uint8, uint8) {
			return r, g, uint8(int(b) * 3 / 4)
		})
	}
}

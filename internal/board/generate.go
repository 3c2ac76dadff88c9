package board

import (
	"math/rand"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// Generate builds a w x h board of hills, woods and water with a road
// running north to south. The same seed always gives the same board.
func Generate(w, h int, seed int64) *Board {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
	b := New(w, h)
	levels := make([]int, w*h)

	// Hills: a few round patches, each raising the ground by one level.
	hills := 2 + (w*h)/60
	for i := 0; i < hills; i++ {
		centre := hexgeo.C(rng.Intn(w), rng.Intn(h))
		radius := 1 + rng.Intn(3)
		height := 1 + rng.Intn(2)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if d := centre.Distance(hexgeo.C(x, y)); d <= radius {
					levels[y*w+x] += height - d/2
				}
			}
		}
	}

	road := w / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := hexgeo.C(x, y)
			level := levels[y*w+x]
			var ts []TerrainValue
			switch roll := rng.Intn(100); {
			case x == road:
				ts = append(ts, TerrainValue{Kind: TerrainRoad, Level: 1, Exits: 1<<0 | 1<<3})
			case level == 0 && roll < 6:
				ts = append(ts, TerrainValue{Kind: TerrainWater, Level: 1 + rng.Intn(2)})
			case roll < 25:
				ts = append(ts, TerrainValue{Kind: TerrainWoods, Level: 1 + rng.Intn(2)})
			case roll < 30:
				ts = append(ts, TerrainValue{Kind: TerrainRough, Level: 1})
			}
			b.SetHex(NewHex(c, level, ts...))
		}
	}
	return b
}

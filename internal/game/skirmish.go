package game

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

var (
	SkirmishBlue = color.RGBA{R: 70, G: 110, B: 210, A: 255}
	SkirmishRed  = color.RGBA{R: 210, G: 70, B: 70, A: 255}
)

// NewSkirmish sets up two opposing players on a w x h board, each with
// perSide units spread down its own board edge and facing the enemy.
// Every side's first unit carries an ECM suite and its second an ECCM
// suite, so both fields show up. The local player is Players[0].
func NewSkirmish(w, h, perSide int, seed int64) *Snapshot {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- scenario layout only
	blue := &Player{ID: 1, Name: "Blue", Team: 1, Colour: SkirmishBlue}
	red := &Player{ID: 2, Name: "Red", Team: 2, Colour: SkirmishRed}
	snap := &Snapshot{
		UUID:    fmt.Sprintf("skirmish-%d", seed),
		Phase:   PhaseMovement,
		Round:   1,
		Players: []*Player{blue, red},
	}

	id := 1
	spawn := func(p *Player, x, facing int) {
		taken := make(map[hexgeo.Coord]bool)
		for i := 0; i < perSide; i++ {
			var c hexgeo.Coord
			for tries := 0; tries < 8; tries++ {
				c = hexgeo.C(x+rng.Intn(2), rng.Intn(h))
				if !taken[c] {
					break
				}
			}
			taken[c] = true
			u := &Unit{
				ID:       id,
				Name:     fmt.Sprintf("%s %d", p.Name, i+1),
				Owner:    p.ID,
				Position: c,
				Facing:   facing,
				C3Master: NoC3,
			}
			switch i {
			case 0:
				u.ECM = []ECMSource{{Kind: ECM, Range: 3, Direction: -1}}
			case 1:
				u.ECM = []ECMSource{{Kind: ECCM, Range: 2, Direction: -1}}
			}
			snap.Units = append(snap.Units, u)
			id++
		}
	}
	// Facing 2 is south-east, 5 north-west.
	spawn(blue, 1, 2)
	spawn(red, max(w-3, 0), 5)
	return snap
}

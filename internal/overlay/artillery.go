package overlay

import (
	"image"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// Marker is an image drawn inside a hex, At unscaled pixels from its
// corner.
type Marker struct {
	Coord hexgeo.Coord
	Tile  *tiles.Tile
	At    image.Point
}

// ArtilleryModifier is a to-hit modifier the selected artillery weapon
// holds against a hex.
type ArtilleryModifier struct {
	Coord   hexgeo.Coord
	AutoHit bool
}

// ArtilleryMarkers returns crosshairs for incoming artillery, the viewer's
// pre-designated hexes and the selected weapon's modifiers. Modifiers are
// not shown while auto-hit hexes are being set.
func ArtilleryMarkers(snap *game.Snapshot, viewer *game.Player, mods []ArtilleryModifier, p tiles.Provider, w Window) []Marker {
	if snap == nil || p == nil {
		return nil
	}
	var out []Marker
	add := func(c hexgeo.Coord, kind tiles.ArtilleryKind) {
		if w.Contains(c) {
			out = append(out, Marker{Coord: c, Tile: p.ArtilleryTarget(kind)})
		}
	}
	for _, a := range snap.Artillery {
		add(a.Target, tiles.ArtilleryIncoming)
	}
	if viewer != nil {
		for _, c := range viewer.ArtilleryAutoHit {
			add(c, tiles.ArtilleryAutoHit)
		}
	}
	if snap.Phase != game.PhaseSetArtilleryAutohitHexes {
		for _, m := range mods {
			if m.AutoHit {
				add(m.Coord, tiles.ArtilleryAutoHit)
			} else {
				add(m.Coord, tiles.ArtilleryAdjusted)
			}
		}
	}
	return out
}

// BombardmentMarkers covers every hex within reach of a declared orbital
// bombardment whose target is in the window.
func BombardmentMarkers(snap *game.Snapshot, p tiles.Provider, w Window) []Marker {
	if snap == nil || p == nil {
		return nil
	}
	var out []Marker
	for _, b := range snap.Bombardments {
		if !w.Contains(b.Target) {
			continue
		}
		t := p.OrbitalBombardment()
		out = append(out, Marker{Coord: b.Target, Tile: t})
		r := b.Radius
		for x := b.Target.X - r; x <= b.Target.X+r; x++ {
			for y := b.Target.Y - r - 1; y <= b.Target.Y+r+1; y++ {
				c := hexgeo.C(x, y)
				if c != b.Target && b.Target.Distance(c) <= r {
					out = append(out, Marker{Coord: c, Tile: t})
				}
			}
		}
	}
	return out
}

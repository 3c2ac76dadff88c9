package board

import (
	"fmt"
	"sort"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// Hex is the terrain at one coordinate.
type Hex struct {
	Coord    hexgeo.Coord
	Level    int
	Theme    string
	terrains map[Terrain]TerrainValue
}

// NewHex returns a hex at level with the given terrains.
func NewHex(c hexgeo.Coord, level int, terrains ...TerrainValue) *Hex {
	h := &Hex{Coord: c, Level: level, terrains: make(map[Terrain]TerrainValue, len(terrains))}
	for _, t := range terrains {
		h.terrains[t.Kind] = t
	}
	return h
}

// Contains reports whether the hex has terrain t.
func (h *Hex) Contains(t Terrain) bool {
	_, ok := h.terrains[t]
	return ok
}

// Terrain returns the value of terrain t.
func (h *Hex) Terrain(t Terrain) (TerrainValue, bool) {
	v, ok := h.terrains[t]
	return v, ok
}

// TerrainLevel is the level of t, or 0 when absent.
func (h *Hex) TerrainLevel(t Terrain) int {
	return h.terrains[t].Level
}

// SetTerrain adds or replaces a terrain.
func (h *Hex) SetTerrain(v TerrainValue) {
	if h.terrains == nil {
		h.terrains = make(map[Terrain]TerrainValue)
	}
	h.terrains[v.Kind] = v
}

// RemoveTerrain drops terrain t.
func (h *Hex) RemoveTerrain(t Terrain) {
	delete(h.terrains, t)
}

// Terrains returns the terrains sorted by kind.
func (h *Hex) Terrains() []TerrainValue {
	out := make([]TerrainValue, 0, len(h.terrains))
	for _, v := range h.terrains {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Depth is the water depth. A basement floods nothing, so it reads 0.
func (h *Hex) Depth() int {
	if h.Contains(TerrainBldgBasement) {
		return 0
	}
	return h.TerrainLevel(TerrainWater)
}

// Height is the tallest structure on the hex.
func (h *Hex) Height() int {
	height := 0
	for _, v := range h.terrains {
		if heightTerrain(v.Kind) && v.Level > height {
			height = v.Level
		}
	}
	return height
}

// Ceiling is the highest level occupied by terrain on the hex.
func (h *Hex) Ceiling() int {
	top := h.Height()
	if f := h.TerrainLevel(TerrainFoliageElev); f > top {
		top = f
	}
	return h.Level + top
}

// Floor is the level of the bottom of the hex.
func (h *Hex) Floor() int {
	return h.Level - h.Depth()
}

// SupersUnderShadow reports whether the overlays of this hex are drawn
// before the terrain shadow map.
func (h *Hex) SupersUnderShadow() bool {
	for t := range h.terrains {
		if drawsUnderShadow(t) {
			return true
		}
	}
	return false
}

// BuriedUnderShadow reports whether the last overlay must be redrawn
// above the shadow map.
func (h *Hex) BuriedUnderShadow() bool {
	for t := range h.terrains {
		if castsOwnShadow(t) {
			return true
		}
	}
	return false
}

// HasCliffTopTowards reports whether h has a cliff edge facing other.
func (h *Hex) HasCliffTopTowards(other *Hex) bool {
	v, ok := h.terrains[TerrainCliffTop]
	if !ok || other == nil {
		return false
	}
	for _, dir := range hexgeo.Directions {
		if h.Coord.Translated(dir) == other.Coord {
			return v.HasExit(dir)
		}
	}
	return false
}

// Problems lists the structural errors of the hex. An empty result means
// the hex is valid.
func (h *Hex) Problems() []string {
	var out []string
	if h.Contains(TerrainBuilding) != h.Contains(TerrainBldgElev) {
		out = append(out, "building without height")
	}
	if h.Contains(TerrainBridge) != h.Contains(TerrainBridgeElev) {
		out = append(out, "bridge without height")
	}
	if v, ok := h.terrains[TerrainWater]; ok && v.Level < 0 {
		out = append(out, fmt.Sprintf("negative water depth %d", v.Level))
	}
	if v, ok := h.terrains[TerrainWoods]; ok && (v.Level < 1 || v.Level > 3) {
		out = append(out, fmt.Sprintf("woods level %d out of range", v.Level))
	}
	if h.Contains(TerrainWoods) && h.Contains(TerrainJungle) {
		out = append(out, "woods and jungle together")
	}
	return out
}

// IsValid reports whether Problems is empty.
func (h *Hex) IsValid() bool {
	return len(h.Problems()) == 0
}

// Clone returns a deep copy.
func (h *Hex) Clone() *Hex {
	c := &Hex{Coord: h.Coord, Level: h.Level, Theme: h.Theme, terrains: make(map[Terrain]TerrainValue, len(h.terrains))}
	for k, v := range h.terrains {
		c.terrains[k] = v
	}
	return c
}

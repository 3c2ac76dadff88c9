package board

import "github.com/Garsondee/BoardView/internal/hexgeo"

// Edge names a deployment area of the board.
type Edge int

const (
	EdgeAny Edge = iota
	EdgeNW
	EdgeN
	EdgeNE
	EdgeE
	EdgeSE
	EdgeS
	EdgeSW
	EdgeW
	EdgeEdge
	EdgeCenter
	EdgeNone
)

// DefaultZoneDepth is the depth of an edge zone with Depth unset.
const DefaultZoneDepth = 3

// Zone is a player's deployment area: an edge band Depth hexes deep, or,
// with Custom set, the hexes whose deployment_zone terrain has exit bit
// Custom.
type Zone struct {
	Edge   Edge
	Depth  int
	Custom int
}

func (z Zone) contains(c hexgeo.Coord, w, h int, hex *Hex) bool {
	if z.Custom > 0 {
		if hex == nil {
			return false
		}
		v, ok := hex.Terrain(TerrainDeploymentZone)
		return ok && v.HasExit(z.Custom)
	}
	d := z.Depth
	if d <= 0 {
		d = DefaultZoneDepth
	}
	nearN, nearS := c.Y < d, c.Y >= h-d
	nearW, nearE := c.X < d, c.X >= w-d
	west, north := c.X < w/2, c.Y < h/2

	switch z.Edge {
	case EdgeAny:
		return true
	case EdgeNW:
		return (nearN && west) || (nearW && north)
	case EdgeN:
		return nearN
	case EdgeNE:
		return (nearN && !west) || (nearE && north)
	case EdgeE:
		return nearE
	case EdgeSE:
		return (nearS && !west) || (nearE && !north)
	case EdgeS:
		return nearS
	case EdgeSW:
		return (nearS && west) || (nearW && !north)
	case EdgeW:
		return nearW
	case EdgeEdge:
		return nearN || nearS || nearW || nearE
	case EdgeCenter:
		return c.X >= w/3 && c.X < 2*w/3 && c.Y >= h/3 && c.Y < 2*h/3
	default:
		return false
	}
}

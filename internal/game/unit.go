package game

import (
	"image/color"
	"sort"

	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// TeamNone marks a player without a team; such a player is everyone's enemy.
const TeamNone = 0

// Player is one side in the game.
type Player struct {
	ID         int
	Name       string
	Team       int
	Colour     color.RGBA
	GameMaster bool
	Bot        bool
	// ArtilleryAutoHit lists the hexes this player pre-designated.
	ArtilleryAutoHit []hexgeo.Coord
}

// IsEnemyOf reports whether p and o are on opposing sides.
func (p *Player) IsEnemyOf(o *Player) bool {
	if p == nil || o == nil || p.ID == o.ID {
		return false
	}
	return p.Team == TeamNone || p.Team != o.Team
}

// MovementMode is how a unit moves; the board view only needs it to pick
// deployment elevations.
type MovementMode int

const (
	MoveNone MovementMode = iota
	MoveBiped
	MoveQuad
	MoveTracked
	MoveWheeled
	MoveHover
	MoveVTOL
	MoveWiGE
	MoveNaval
	MoveInfantry
	MoveAerodyne
	MoveSpheroid
)

func (m MovementMode) IsHover() bool { return m == MoveHover }
func (m MovementMode) IsVTOL() bool  { return m == MoveVTOL }
func (m MovementMode) IsWiGE() bool  { return m == MoveWiGE }

// ECMKind distinguishes jamming from counter-jamming sources.
type ECMKind int

const (
	ECM ECMKind = iota
	ECCM
)

// ECMSource is one electronic warfare emitter carried by a unit. Direction
// is the facing of a directional emitter or -1 when it covers all around.
type ECMSource struct {
	Kind      ECMKind
	Range     int
	Direction int
}

// Unit is an entity on (or off) the board. Position is hexgeo.Invalid
// while the unit is not deployed.
type Unit struct {
	ID           int
	Name         string
	Owner        int
	Icon         string
	Position     hexgeo.Coord
	Facing       int
	Elevation    int
	Altitude     int
	Aero         bool
	MovementMode MovementMode
	// Secondary maps the secondary position index of a multi-hex unit to
	// its hex. Index 0 is the central hex when present.
	Secondary map[int]hexgeo.Coord
	ECM       []ECMSource

	Hidden    bool
	Visual    bool
	Detected  bool
	Destroyed bool

	C3Master int
	C3       bool

	// PassedThrough is the hex path of an aircraft this turn.
	PassedThrough []hexgeo.Coord
	// Velocity holds vector movement per direction.
	Velocity [6]int

	// Prohibited maps a hex to the highest elevation at which the unit
	// may not be placed there. Deadly marks hexes that would kill it.
	Prohibited map[hexgeo.Coord]int
	Deadly     map[hexgeo.Coord]bool
}

// NoC3 is the C3Master value of a unit without a network master.
const NoC3 = -1

// HasPosition reports whether the unit is on the board.
func (u *Unit) HasPosition() bool {
	return u != nil && u.Position != hexgeo.Invalid
}

// SecondaryIndexes returns the secondary position indexes in order.
func (u *Unit) SecondaryIndexes() []int {
	idx := make([]int, 0, len(u.Secondary))
	for i := range u.Secondary {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// PositionAt returns the hex for a secondary index, or the main position
// for -1.
func (u *Unit) PositionAt(index int) hexgeo.Coord {
	if index < 0 {
		return u.Position
	}
	if c, ok := u.Secondary[index]; ok {
		return c
	}
	return u.Position
}

// Occupied lists every hex the unit occupies.
func (u *Unit) Occupied() []hexgeo.Coord {
	if !u.HasPosition() {
		return nil
	}
	if len(u.Secondary) == 0 {
		return []hexgeo.Coord{u.Position}
	}
	out := make([]hexgeo.Coord, 0, len(u.Secondary))
	for _, i := range u.SecondaryIndexes() {
		out = append(out, u.Secondary[i])
	}
	return out
}

// IsLocationProhibited reports whether the unit cannot stand at c at the
// given elevation.
func (u *Unit) IsLocationProhibited(c hexgeo.Coord, elevation int) bool {
	limit, ok := u.Prohibited[c]
	return ok && elevation <= limit
}

// IsLocationDeadly reports whether entering c would destroy the unit.
func (u *Unit) IsLocationDeadly(c hexgeo.Coord) bool {
	return u.Deadly[c]
}

// HasECM reports whether any of the unit's sources is of kind k.
func (u *Unit) HasECM(k ECMKind) bool {
	for _, s := range u.ECM {
		if s.Kind == k {
			return true
		}
	}
	return false
}

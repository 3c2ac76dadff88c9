package game

import "github.com/Garsondee/BoardView/internal/hexgeo"

// AttackKind separates weapon fire from physical attacks for line colours.
type AttackKind int

const (
	AttackWeapon AttackKind = iota
	AttackPhysical
	AttackCharge
)

// Attack is a declared attack between two units.
type Attack struct {
	AttackerID int
	TargetID   int
	Kind       AttackKind
	Weapon     string
}

// ArtilleryAttack is an incoming indirect attack.
type ArtilleryAttack struct {
	Owner       int
	Target      hexgeo.Coord
	TurnsTilHit int
}

// OrbitalBombardment is a declared bombardment centred on Target.
type OrbitalBombardment struct {
	Target hexgeo.Coord
	Radius int
}

// VTOLAttack is a strafing or bombing run target of an aircraft.
type VTOLAttack struct {
	UnitID int
	Target hexgeo.Coord
}

// Snapshot is the game state as seen by the local player. The board view
// never mutates it.
type Snapshot struct {
	UUID        string
	Phase       Phase
	Round       int
	Light       Light
	DoubleBlind bool
	VectorMove  bool
	InSpace     bool

	Players []*Player
	Units   []*Unit

	Attacks      []Attack
	Artillery    []ArtilleryAttack
	Bombardments []OrbitalBombardment
	VTOLAttacks  []VTOLAttack
	Strafing     []hexgeo.Coord

	// Illuminated hexes are lit by searchlights or flares and skip the
	// night pass.
	Illuminated map[hexgeo.Coord]bool
}

// Player returns the player with the given id.
func (s *Snapshot) Player(id int) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Unit returns the unit with the given id.
func (s *Snapshot) Unit(id int) *Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UnitsAt returns the units occupying c.
func (s *Snapshot) UnitsAt(c hexgeo.Coord) []*Unit {
	var out []*Unit
	for _, u := range s.Units {
		for _, o := range u.Occupied() {
			if o == c {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// CanSee reports whether viewer may be shown u: own and allied units
// always, hidden enemies never, and under double blind only detected or
// visually spotted enemies.
func (s *Snapshot) CanSee(viewer *Player, u *Unit) bool {
	owner := s.Player(u.Owner)
	if viewer == nil || owner == nil || !owner.IsEnemyOf(viewer) {
		return true
	}
	if u.Hidden {
		return false
	}
	if s.DoubleBlind {
		return u.Visual || u.Detected
	}
	return true
}

// IsIlluminated reports whether c is lit at night.
func (s *Snapshot) IsIlluminated(c hexgeo.Coord) bool {
	return s.Illuminated[c]
}

// NoOfPlayers counts the players, never returning less than one.
func (s *Snapshot) NoOfPlayers() int {
	if len(s.Players) == 0 {
		return 1
	}
	return len(s.Players)
}

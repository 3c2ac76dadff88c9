package sprites

import (
	"image/color"
	"sort"
	"sync"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

var (
	neutralColour  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	physicalColour = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// Layer owns every sprite collection. Edits build new collections and
// swap them in, so a draw that is iterating an older slice is unaffected.
type Layer struct {
	mu    sync.Mutex
	tiles tiles.Provider

	units     map[Key]*UnitSprite
	isoUnits  map[Key]*UnitSprite
	wrecks    []*WreckSprite
	isoWrecks []*WreckSprite
	c3        []*C3Sprite
	attacks   []*AttackSprite
	flyOvers  []*FlyOverSprite
	vtol      []*VTOLAttackSprite
	vectors   []*MovementVectorSprite
	path      []*StepSprite
	fpi       []*FlightPathSprite
	moving    map[int]*MovingSprite
	ghosts    []*GhostSprite

	// derived on every unit edit
	unitList      []*UnitSprite
	isoList       []*UnitSprite
	overTerrain   []Sprite
	behindTerrain map[hexgeo.Coord][]HexSprite

	selected int
	ecm      func(*game.Unit) bool
}

// NewLayer returns an empty layer drawing icons from p.
func NewLayer(p tiles.Provider) *Layer {
	l := &Layer{
		tiles:    p,
		units:    make(map[Key]*UnitSprite),
		isoUnits: make(map[Key]*UnitSprite),
		moving:   make(map[int]*MovingSprite),
		selected: -1,
	}
	l.derive()
	return l
}

func ownerColour(snap *game.Snapshot, u *game.Unit) color.RGBA {
	if p := snap.Player(u.Owner); p != nil {
		return p.Colour
	}
	return neutralColour
}

func keysOf(u *game.Unit) []Key {
	idx := u.SecondaryIndexes()
	if len(idx) == 0 {
		return []Key{{ID: u.ID, Secondary: -1}}
	}
	keys := make([]Key, len(idx))
	for i, s := range idx {
		keys[i] = Key{ID: u.ID, Secondary: s}
	}
	return keys
}

// addUnit puts the sprites of u into the given maps. Units without a
// position or hidden from the viewer get none.
func (l *Layer) addUnit(snap *game.Snapshot, viewer *game.Player, u *game.Unit,
	flat, iso map[Key]*UnitSprite, wrecks, isoWrecks *[]*WreckSprite) {
	if !u.HasPosition() || !snap.CanSee(viewer, u) {
		return
	}
	if u.Destroyed {
		icon := l.tiles.WreckIcon(u)
		for _, k := range keysOf(u) {
			*wrecks = append(*wrecks, NewWreckSprite(u, k.Secondary, icon, false))
			*isoWrecks = append(*isoWrecks, NewWreckSprite(u, k.Secondary, icon, true))
		}
		return
	}
	icon := l.tiles.UnitIcon(u, ownerColour(snap, u))
	for _, k := range keysOf(u) {
		f := NewUnitSprite(u, k.Secondary, icon, false)
		i := NewUnitSprite(u, k.Secondary, icon, true)
		for _, s := range []*UnitSprite{f, i} {
			s.selected = u.ID == l.selected
			if l.ecm != nil {
				s.affectedByECM = l.ecm(u)
			}
		}
		flat[k], iso[k] = f, i
	}
}

// SetUnits rebuilds every unit and wreck sprite from snap.
func (l *Layer) SetUnits(snap *game.Snapshot, viewer *game.Player) {
	l.mu.Lock()
	defer l.mu.Unlock()
	flat := make(map[Key]*UnitSprite)
	iso := make(map[Key]*UnitSprite)
	var wrecks, isoWrecks []*WreckSprite
	for _, u := range snap.Units {
		l.addUnit(snap, viewer, u, flat, iso, &wrecks, &isoWrecks)
	}
	l.units, l.isoUnits = flat, iso
	l.wrecks, l.isoWrecks = wrecks, isoWrecks
	l.derive()
}

// RedrawEntity replaces the sprites of u, and the C3, flyover and VTOL
// attack sprites that involve it.
func (l *Layer) RedrawEntity(snap *game.Snapshot, viewer *game.Player, u *game.Unit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	flat := withoutUnit(l.units, u.ID)
	iso := withoutUnit(l.isoUnits, u.ID)
	wrecks := without(l.wrecks, u.ID)
	isoWrecks := without(l.isoWrecks, u.ID)
	l.addUnit(snap, viewer, u, flat, iso, &wrecks, &isoWrecks)
	l.units, l.isoUnits = flat, iso
	l.wrecks, l.isoWrecks = wrecks, isoWrecks

	c3 := without(l.c3, u.ID)
	if link := c3Link(snap, viewer, u); link != nil {
		c3 = append(c3, link)
	}
	for _, other := range snap.Units {
		if other.ID != u.ID && other.C3Master == u.ID {
			if link := c3Link(snap, viewer, other); link != nil {
				c3 = append(c3, link)
			}
		}
	}
	l.c3 = c3

	flyOvers := without(l.flyOvers, u.ID)
	if u.HasPosition() && len(u.PassedThrough) > 0 && snap.CanSee(viewer, u) {
		flyOvers = append(flyOvers, NewFlyOverSprite(u, ownerColour(snap, u)))
	}
	l.flyOvers = flyOvers
	l.vtol = without(l.vtol, u.ID)
	l.derive()
}

// RemoveEntity drops every sprite that refers to unit id.
func (l *Layer) RemoveEntity(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.units = withoutUnit(l.units, id)
	l.isoUnits = withoutUnit(l.isoUnits, id)
	l.wrecks = without(l.wrecks, id)
	l.isoWrecks = without(l.isoWrecks, id)
	l.c3 = without(l.c3, id)
	l.attacks = without(l.attacks, id)
	l.flyOvers = without(l.flyOvers, id)
	l.vtol = without(l.vtol, id)
	l.vectors = without(l.vectors, id)
	l.ghosts = without(l.ghosts, id)
	if _, ok := l.moving[id]; ok {
		moving := make(map[int]*MovingSprite, len(l.moving))
		for k, v := range l.moving {
			if k != id {
				moving[k] = v
			}
		}
		l.moving = moving
	}
	l.derive()
}

func withoutUnit(m map[Key]*UnitSprite, id int) map[Key]*UnitSprite {
	out := make(map[Key]*UnitSprite, len(m))
	for k, v := range m {
		if k.ID != id {
			out[k] = v
		}
	}
	return out
}

func without[S EntitySprite](set []S, id int) []S {
	out := make([]S, 0, len(set))
	for _, s := range set {
		if !s.References(id) {
			out = append(out, s)
		}
	}
	return out
}

func sortedUnits(m map[Key]*UnitSprite) []*UnitSprite {
	out := make([]*UnitSprite, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		ca, cb := a.Coord(), b.Coord()
		if ca.Y != cb.Y {
			return ca.Y < cb.Y
		}
		if ca.X != cb.X {
			return ca.X < cb.X
		}
		if a.unit.ID != b.unit.ID {
			return a.unit.ID < b.unit.ID
		}
		return a.secondary < b.secondary
	})
	return out
}

// derive recomputes the ordered unit lists and the isometric partition.
func (l *Layer) derive() {
	l.unitList = sortedUnits(l.units)
	l.isoList = sortedUnits(l.isoUnits)
	over := make([]Sprite, 0, len(l.isoList))
	behind := make(map[hexgeo.Coord][]HexSprite)
	for _, s := range l.isoList {
		if s.BehindTerrain() {
			behind[s.Coord()] = append(behind[s.Coord()], s)
		} else {
			over = append(over, s)
		}
	}
	l.overTerrain = over
	l.behindTerrain = behind
}

func c3Link(snap *game.Snapshot, viewer *game.Player, u *game.Unit) *C3Sprite {
	if u.C3Master == game.NoC3 || u.C3Master == u.ID || !u.HasPosition() || !snap.CanSee(viewer, u) {
		return nil
	}
	master := snap.Unit(u.C3Master)
	if master == nil || !master.HasPosition() || !snap.CanSee(viewer, master) {
		return nil
	}
	return NewC3Sprite(u, master, ownerColour(snap, u))
}

// SetC3 rebuilds the network links.
func (l *Layer) SetC3(snap *game.Snapshot, viewer *game.Player) {
	var out []*C3Sprite
	for _, u := range snap.Units {
		if link := c3Link(snap, viewer, u); link != nil {
			out = append(out, link)
		}
	}
	l.mu.Lock()
	l.c3 = out
	l.mu.Unlock()
}

// SetAttacks rebuilds the attack arrows. Attacks whose ends cannot be
// seen are left out.
func (l *Layer) SetAttacks(snap *game.Snapshot, viewer *game.Player) {
	var out []*AttackSprite
	for _, a := range snap.Attacks {
		att, tgt := snap.Unit(a.AttackerID), snap.Unit(a.TargetID)
		if att == nil || tgt == nil || !att.HasPosition() || !tgt.HasPosition() {
			continue
		}
		if !snap.CanSee(viewer, att) || !snap.CanSee(viewer, tgt) {
			continue
		}
		c := ownerColour(snap, att)
		if a.Kind != game.AttackWeapon {
			c = physicalColour
		}
		out = append(out, NewAttackSprite(a, att.Position, tgt.Position, c))
	}
	l.mu.Lock()
	l.attacks = out
	l.mu.Unlock()
}

// ClearAttacks drops the attack arrows.
func (l *Layer) ClearAttacks() {
	l.mu.Lock()
	l.attacks = nil
	l.mu.Unlock()
}

// SetFlyOvers rebuilds the aircraft flight traces.
func (l *Layer) SetFlyOvers(snap *game.Snapshot, viewer *game.Player) {
	var out []*FlyOverSprite
	for _, u := range snap.Units {
		if u.HasPosition() && len(u.PassedThrough) > 0 && snap.CanSee(viewer, u) {
			out = append(out, NewFlyOverSprite(u, ownerColour(snap, u)))
		}
	}
	l.mu.Lock()
	l.flyOvers = out
	l.mu.Unlock()
}

// SetVTOLAttacks rebuilds the VTOL strike markers.
func (l *Layer) SetVTOLAttacks(snap *game.Snapshot) {
	out := make([]*VTOLAttackSprite, 0, len(snap.VTOLAttacks))
	for _, a := range snap.VTOLAttacks {
		out = append(out, NewVTOLAttackSprite(a))
	}
	l.mu.Lock()
	l.vtol = out
	l.mu.Unlock()
}

// SetMovementVectors rebuilds the velocity arrows of every visible unit.
func (l *Layer) SetMovementVectors(snap *game.Snapshot, viewer *game.Player) {
	var out []*MovementVectorSprite
	for _, u := range snap.Units {
		if !u.HasPosition() || !snap.CanSee(viewer, u) {
			continue
		}
		for dir, n := range u.Velocity {
			if n > 0 {
				out = append(out, NewMovementVectorSprite(u, dir, n, ownerColour(snap, u)))
			}
		}
	}
	l.mu.Lock()
	l.vectors = out
	l.mu.Unlock()
}

// ClearMovementVectors drops the velocity arrows.
func (l *Layer) ClearMovementVectors() {
	l.mu.Lock()
	l.vectors = nil
	l.mu.Unlock()
}

// SetPath replaces the planned movement path.
func (l *Layer) SetPath(steps []*StepSprite) {
	l.mu.Lock()
	l.path = append([]*StepSprite(nil), steps...)
	l.mu.Unlock()
}

// SetFlightPaths replaces the flight path indicators.
func (l *Layer) SetFlightPaths(fpi []*FlightPathSprite) {
	l.mu.Lock()
	l.fpi = append([]*FlightPathSprite(nil), fpi...)
	l.mu.Unlock()
}

// SetMoving starts the stepping counter of u, replacing an older one.
func (l *Layer) SetMoving(snap *game.Snapshot, u *game.Unit) *MovingSprite {
	s := NewMovingSprite(u, l.tiles.UnitIcon(u, ownerColour(snap, u)))
	l.mu.Lock()
	defer l.mu.Unlock()
	moving := make(map[int]*MovingSprite, len(l.moving)+1)
	for k, v := range l.moving {
		moving[k] = v
	}
	moving[u.ID] = s
	l.moving = moving
	return s
}

// Moving returns the stepping counter of unit id.
func (l *Layer) Moving(id int) (*MovingSprite, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.moving[id]
	return s, ok
}

// StopMoving drops the stepping counter and the ghosts of unit id.
func (l *Layer) StopMoving(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	moving := make(map[int]*MovingSprite, len(l.moving))
	for k, v := range l.moving {
		if k != id {
			moving[k] = v
		}
	}
	l.moving = moving
	l.ghosts = without(l.ghosts, id)
}

// SetGhosts replaces the ghost counters.
func (l *Layer) SetGhosts(g []*GhostSprite) {
	l.mu.Lock()
	l.ghosts = append([]*GhostSprite(nil), g...)
	l.mu.Unlock()
}

// AddGhost leaves a translucent counter of u at its current position.
func (l *Layer) AddGhost(snap *game.Snapshot, u *game.Unit) {
	g := NewGhostSprite(u, u.Position, l.tiles.UnitIcon(u, ownerColour(snap, u)))
	l.mu.Lock()
	l.ghosts = append(append([]*GhostSprite(nil), l.ghosts...), g)
	l.mu.Unlock()
}

// SetSelected marks the counters of unit id as selected; -1 clears.
func (l *Layer) SetSelected(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = id
	for _, m := range []map[Key]*UnitSprite{l.units, l.isoUnits} {
		for k, s := range m {
			s.SetSelected(k.ID == id)
		}
	}
}

// SetECM updates the ECM marker of every counter with affected.
func (l *Layer) SetECM(affected func(*game.Unit) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ecm = affected
	for _, m := range []map[Key]*UnitSprite{l.units, l.isoUnits} {
		for _, s := range m {
			s.SetAffectedByECM(affected != nil && affected(s.unit))
		}
	}
}

// ClearTemporary drops the path, flight path and ghost sprites.
func (l *Layer) ClearTemporary() {
	l.mu.Lock()
	l.path, l.fpi, l.ghosts = nil, nil, nil
	l.mu.Unlock()
}

// Clear drops every sprite.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.units = make(map[Key]*UnitSprite)
	l.isoUnits = make(map[Key]*UnitSprite)
	l.wrecks, l.isoWrecks = nil, nil
	l.c3, l.attacks, l.flyOvers, l.vtol, l.vectors = nil, nil, nil, nil, nil
	l.path, l.fpi, l.ghosts = nil, nil, nil
	l.moving = make(map[int]*MovingSprite)
	l.derive()
}

// Unready forces every sprite to prepare again, after a zoom change.
func (l *Layer) Unready() {
	for _, s := range l.All() {
		s.Unready()
	}
}

// PrepareAll prepares every sprite now.
func (l *Layer) PrepareAll(ctx Context) {
	for _, s := range l.All() {
		s.Prepare(ctx)
	}
}

// All lists every sprite in the layer.
func (l *Layer) All() []Sprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Sprite
	for _, s := range l.unitList {
		out = append(out, s)
	}
	for _, s := range l.isoList {
		out = append(out, s)
	}
	out = appendAll(out, l.wrecks)
	out = appendAll(out, l.isoWrecks)
	out = appendAll(out, l.c3)
	out = appendAll(out, l.attacks)
	out = appendAll(out, l.flyOvers)
	out = appendAll(out, l.vtol)
	out = appendAll(out, l.vectors)
	out = appendAll(out, l.path)
	out = appendAll(out, l.fpi)
	out = appendAll(out, l.ghosts)
	for _, s := range l.movingList() {
		out = append(out, s)
	}
	return out
}

func appendAll[S Sprite](out []Sprite, set []S) []Sprite {
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

func (l *Layer) movingList() []*MovingSprite {
	out := make([]*MovingSprite, 0, len(l.moving))
	for _, s := range l.moving {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].unit.ID < out[j].unit.ID })
	return out
}

// Unit returns the flat counter for a key.
func (l *Layer) Unit(k Key) (*UnitSprite, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.units[k]
	return s, ok
}

// Units lists the flat unit counters in draw order.
func (l *Layer) Units() []*UnitSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unitList
}

// IsoUnits lists the isometric unit counters in draw order.
func (l *Layer) IsoUnits() []*UnitSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isoList
}

// Wrecks lists the flat wreck sprites.
func (l *Layer) Wrecks() []*WreckSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wrecks
}

// IsoWrecks lists the isometric wreck sprites.
func (l *Layer) IsoWrecks() []*WreckSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isoWrecks
}

// C3 lists the C3 network lines.
func (l *Layer) C3() []*C3Sprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c3
}

// Attacks lists the attack lines.
func (l *Layer) Attacks() []*AttackSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attacks
}

// FlyOvers lists the aircraft fly-over paths.
func (l *Layer) FlyOvers() []*FlyOverSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flyOvers
}

// VTOLAttacks lists the VTOL bombing and strafing markers.
func (l *Layer) VTOLAttacks() []*VTOLAttackSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vtol
}

// Vectors lists the movement vector arrows.
func (l *Layer) Vectors() []*MovementVectorSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vectors
}

// Path lists the planned movement steps.
func (l *Layer) Path() []*StepSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// FlightPaths lists the flight path indicators.
func (l *Layer) FlightPaths() []*FlightPathSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fpi
}

// Ghosts lists the counters left where moving units started.
func (l *Layer) Ghosts() []*GhostSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ghosts
}

// MovingSprites lists the stepping counters ordered by unit id.
func (l *Layer) MovingSprites() []*MovingSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.movingList()
}

// OverTerrain lists the isometric counters drawn after all hexes.
func (l *Layer) OverTerrain() []Sprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overTerrain
}

// BehindTerrainAt lists the isometric counters drawn with the hex at c.
func (l *Layer) BehindTerrainAt(c hexgeo.Coord) []HexSprite {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.behindTerrain[c]
}

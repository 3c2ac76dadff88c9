// Package overlay computes what the board view paints above the hexes:
// electronic warfare fields, deployment borders, artillery crosshairs and
// minefield labels.
package overlay

import (
	"image/color"
	"sort"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// fieldAlpha is the opacity of the tint laid over an affected hex.
const fieldAlpha = 64

// Field is the electronic warfare picture for one viewer. A coord may be
// in both ECM and ECCM when opposing effects do not cancel.
type Field struct {
	ECM         map[hexgeo.Coord]color.RGBA
	ECCM        map[hexgeo.Coord]color.RGBA
	ECMCenters  map[hexgeo.Coord]color.RGBA
	ECCMCenters map[hexgeo.Coord]color.RGBA
	// Affected holds the ids of units standing in uncountered enemy ECM.
	Affected map[int]bool
}

// NewField returns an empty field.
func NewField() Field {
	return Field{
		ECM:         make(map[hexgeo.Coord]color.RGBA),
		ECCM:        make(map[hexgeo.Coord]color.RGBA),
		ECMCenters:  make(map[hexgeo.Coord]color.RGBA),
		ECCMCenters: make(map[hexgeo.Coord]color.RGBA),
		Affected:    make(map[int]bool),
	}
}

// emitter is one source placed on the board.
type emitter struct {
	unit   *game.Unit
	owner  *game.Player
	source game.ECMSource
	colour color.RGBA
}

func (e emitter) covers(c hexgeo.Coord) bool {
	pos := e.unit.Position
	if pos.Distance(c) > e.source.Range {
		return false
	}
	return e.source.Direction < 0 || pos.InNoseArc(e.source.Direction, c)
}

// effects accumulates the emitters touching one coord in one bucket.
type effects struct {
	ecm, eccm []color.RGBA
}

func (f *effects) add(e emitter) {
	if e.source.Kind == game.ECCM {
		f.eccm = append(f.eccm, e.colour)
		return
	}
	f.ecm = append(f.ecm, e.colour)
}

// net reports the winning side and its tint. Each counter source cancels
// one jammer; ok is false when they cancel out completely.
func (f *effects) net() (tint color.RGBA, isECCM, ok bool) {
	if f == nil {
		return color.RGBA{}, false, false
	}
	switch n := len(f.ecm) - len(f.eccm); {
	case n > 0:
		return average(f.ecm), false, true
	case n < 0:
		return average(f.eccm), true, true
	default:
		return color.RGBA{}, false, false
	}
}

func average(cs []color.RGBA) color.RGBA {
	var r, g, b int
	for _, c := range cs {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(cs)
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: fieldAlpha}
}

// ComputeECM builds the field seen by viewer. Hidden enemies, and enemies
// neither seen nor detected under double blind, show no field and no
// center. Unit ECM status ignores visibility.
func ComputeECM(snap *game.Snapshot, viewer *game.Player) Field {
	out := NewField()
	if snap == nil {
		return out
	}
	var all []emitter
	for _, u := range snap.Units {
		if !u.HasPosition() || len(u.ECM) == 0 {
			continue
		}
		owner := snap.Player(u.Owner)
		colour := color.RGBA{R: 128, G: 128, B: 128, A: 255}
		if owner != nil {
			colour = owner.Colour
			colour.A = 255
		}
		for _, s := range u.ECM {
			all = append(all, emitter{unit: u, owner: owner, source: s, colour: colour})
		}
	}

	for _, e := range all {
		if !snap.CanSee(viewer, e.unit) {
			continue
		}
		if e.source.Kind == game.ECCM {
			out.ECCMCenters[e.unit.Position] = e.colour
		} else {
			out.ECMCenters[e.unit.Position] = e.colour
		}
	}

	for _, u := range snap.Units {
		if u.HasPosition() && jammed(snap, u, all) {
			out.Affected[u.ID] = true
		}
	}

	// ecmBucket: enemy ECM and friendly ECCM; eccmBucket: friendly ECM
	// and enemy ECCM.
	ecmBucket := make(map[hexgeo.Coord]*effects)
	eccmBucket := make(map[hexgeo.Coord]*effects)
	for _, e := range all {
		if !snap.CanSee(viewer, e.unit) {
			continue
		}
		opposed := e.owner != nil && e.owner.IsEnemyOf(viewer)
		bucket := eccmBucket
		if opposed == (e.source.Kind == game.ECM) {
			bucket = ecmBucket
		}
		pos, rng := e.unit.Position, e.source.Range
		for x := pos.X - rng; x <= pos.X+rng; x++ {
			for y := pos.Y - rng; y <= pos.Y+rng; y++ {
				c := hexgeo.C(x, y)
				if !e.covers(c) {
					continue
				}
				f := bucket[c]
				if f == nil {
					f = &effects{}
					bucket[c] = f
				}
				f.add(e)
			}
		}
	}

	seen := make(map[hexgeo.Coord]bool, len(ecmBucket)+len(eccmBucket))
	for _, b := range []map[hexgeo.Coord]*effects{ecmBucket, eccmBucket} {
		for c := range b {
			if seen[c] {
				continue
			}
			seen[c] = true
			resolve(out, c, ecmBucket[c], eccmBucket[c])
		}
	}
	return out
}

func resolve(out Field, c hexgeo.Coord, ecm, eccm *effects) {
	t1, e1, ok1 := ecm.net()
	t2, e2, ok2 := eccm.net()
	switch {
	case ok1 && ok2:
		out.ECM[c] = t1
		out.ECCM[c] = t2
	case ok1:
		place(out, c, t1, e1)
	case ok2:
		place(out, c, t2, e2)
	}
}

func place(out Field, c hexgeo.Coord, tint color.RGBA, isECCM bool) {
	if isECCM {
		out.ECCM[c] = tint
	} else {
		out.ECM[c] = tint
	}
}

// jammed reports whether u stands in more enemy ECM than its side's ECCM
// can counter.
func jammed(snap *game.Snapshot, u *game.Unit, all []emitter) bool {
	owner := snap.Player(u.Owner)
	n := 0
	for _, e := range all {
		if !e.covers(u.Position) {
			continue
		}
		hostile := owner == nil || e.owner == nil || e.owner.IsEnemyOf(owner)
		switch {
		case hostile && e.source.Kind == game.ECM:
			n++
		case !hostile && e.source.Kind == game.ECCM:
			n--
		}
	}
	return n > 0
}

// Diff returns the coords whose tint changed between prev and next, in
// row-major order. A coord counts when it gained, lost or changed its ECM
// or ECCM entry.
func Diff(prev, next Field) []hexgeo.Coord {
	changed := make(map[hexgeo.Coord]bool)
	mark := func(a, b map[hexgeo.Coord]color.RGBA) {
		for c, v := range a {
			if w, ok := b[c]; !ok || w != v {
				changed[c] = true
			}
		}
	}
	mark(prev.ECM, next.ECM)
	mark(next.ECM, prev.ECM)
	mark(prev.ECCM, next.ECCM)
	mark(next.ECCM, prev.ECCM)
	mark(prev.ECMCenters, next.ECMCenters)
	mark(next.ECMCenters, prev.ECMCenters)
	mark(prev.ECCMCenters, next.ECCMCenters)
	mark(next.ECCMCenters, prev.ECCMCenters)
	return sortedCoords(changed)
}

func sortedCoords(set map[hexgeo.Coord]bool) []hexgeo.Coord {
	out := make([]hexgeo.Coord, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

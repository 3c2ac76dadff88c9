// Package board is the hex board model: terrain per hex, minefields,
// special hex displays and deployment zones.
package board

import (
	"errors"
	"sort"
	"sync"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// ErrBadFormat is returned for malformed board files.
var ErrBadFormat = errors.New("malformed board file")

// Board is a width x height grid of hexes.
type Board struct {
	width, height int
	hexes         []*Hex

	minefields map[hexgeo.Coord][]Minefield
	specials   map[hexgeo.Coord][]SpecialDisplay
	zones      map[int]Zone

	mu   sync.Mutex
	subs map[int]func(hexgeo.Coord)
	next int
}

// New returns a board of level-0 clear hexes.
func New(width, height int) *Board {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Board{
		width:      width,
		height:     height,
		hexes:      make([]*Hex, width*height),
		minefields: make(map[hexgeo.Coord][]Minefield),
		specials:   make(map[hexgeo.Coord][]SpecialDisplay),
		zones:      make(map[int]Zone),
		subs:       make(map[int]func(hexgeo.Coord)),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.hexes[y*width+x] = NewHex(hexgeo.C(x, y), 0)
		}
	}
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Contains reports whether c is on the board.
func (b *Board) Contains(c hexgeo.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.width && c.Y < b.height
}

// Hex returns the hex at c, or nil off the board.
func (b *Board) Hex(c hexgeo.Coord) *Hex {
	if !b.Contains(c) {
		return nil
	}
	return b.hexes[c.Y*b.width+c.X]
}

// HexInDir returns the neighbor of c in direction dir.
func (b *Board) HexInDir(c hexgeo.Coord, dir int) *Hex {
	return b.Hex(c.Translated(dir))
}

// Level reports the level at c; it satisfies hexgeo.Geometry.Level.
func (b *Board) Level(c hexgeo.Coord) (int, bool) {
	h := b.Hex(c)
	if h == nil {
		return 0, false
	}
	return h.Level, true
}

// SetHex replaces the hex at h.Coord and notifies subscribers.
func (b *Board) SetHex(h *Hex) {
	if h == nil || !b.Contains(h.Coord) {
		return
	}
	b.hexes[h.Coord.Y*b.width+h.Coord.X] = h
	b.notify(h.Coord)
}

// Subscribe registers fn for hex changes. The returned func removes it.
func (b *Board) Subscribe(fn func(hexgeo.Coord)) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Board) notify(c hexgeo.Coord) {
	b.mu.Lock()
	fns := make([]func(hexgeo.Coord), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// MinElevation is the lowest hex level on the board.
func (b *Board) MinElevation() int {
	if len(b.hexes) == 0 {
		return 0
	}
	lo := b.hexes[0].Level
	for _, h := range b.hexes[1:] {
		if h.Level < lo {
			lo = h.Level
		}
	}
	return lo
}

// MaxElevation is the highest hex level on the board.
func (b *Board) MaxElevation() int {
	if len(b.hexes) == 0 {
		return 0
	}
	hi := b.hexes[0].Level
	for _, h := range b.hexes[1:] {
		if h.Level > hi {
			hi = h.Level
		}
	}
	return hi
}

// AddMinefield places m at c.
func (b *Board) AddMinefield(c hexgeo.Coord, m Minefield) {
	b.minefields[c] = append(b.minefields[c], m)
}

// ClearMinefields removes every minefield at c.
func (b *Board) ClearMinefields(c hexgeo.Coord) {
	delete(b.minefields, c)
}

// Minefields returns the minefields at c.
func (b *Board) Minefields(c hexgeo.Coord) []Minefield {
	return b.minefields[c]
}

// MinedCoords returns every mined hex in row-major order.
func (b *Board) MinedCoords() []hexgeo.Coord {
	out := make([]hexgeo.Coord, 0, len(b.minefields))
	for c, mf := range b.minefields {
		if len(mf) > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// AddSpecialDisplay attaches d to c and notifies subscribers.
func (b *Board) AddSpecialDisplay(c hexgeo.Coord, d SpecialDisplay) {
	b.specials[c] = append(b.specials[c], d)
	b.notify(c)
}

// SpecialDisplays returns the displays attached to c.
func (b *Board) SpecialDisplays(c hexgeo.Coord) []SpecialDisplay {
	return b.specials[c]
}

// SetDeploymentZone assigns a zone to a player.
func (b *Board) SetDeploymentZone(playerID int, z Zone) {
	b.zones[playerID] = z
}

// DeploymentZone returns the player's zone; EdgeAny when unset.
func (b *Board) DeploymentZone(playerID int) Zone {
	if z, ok := b.zones[playerID]; ok {
		return z
	}
	return Zone{Edge: EdgeAny}
}

// IsLegalDeployment reports whether the player may deploy at c.
func (b *Board) IsLegalDeployment(c hexgeo.Coord, playerID int) bool {
	if !b.Contains(c) {
		return false
	}
	return b.DeploymentZone(playerID).contains(c, b.width, b.height, b.Hex(c))
}

// IsLegalDeploymentFor checks the deployment zone of the unit's owner.
func (b *Board) IsLegalDeploymentFor(c hexgeo.Coord, u *game.Unit) bool {
	if u == nil {
		return false
	}
	return b.IsLegalDeployment(c, u.Owner)
}

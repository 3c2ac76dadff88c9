package overlay

import (
	"image"
	"image/color"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

var (
	Yellow  = color.RGBA{R: 255, G: 255, A: 255}
	Cyan    = color.RGBA{G: 255, B: 255, A: 255}
	Warning = color.RGBA{R: 255, G: 80, B: 40, A: 255}
)

// Window is the block of coords an overlay pass looks at: the hexes under
// a view rectangle, widened by one hex before and two after.
type Window struct {
	X, Y, W, H int
}

// WindowFor returns the window covering view, a rectangle in board pixels.
func WindowFor(view image.Rectangle, s float64) Window {
	g := hexgeo.New(s)
	cs, rs := g.ColStride(), g.RowStride()
	if cs <= 0 || rs <= 0 {
		return Window{}
	}
	return Window{
		X: view.Min.X/cs - 1,
		Y: view.Min.Y/rs - 1,
		W: view.Dx()/cs + 3,
		H: view.Dy()/rs + 3,
	}
}

// Contains reports whether c falls in the window, bounds inclusive.
func (w Window) Contains(c hexgeo.Coord) bool {
	return c.X >= w.X && c.X <= w.X+w.W && c.Y >= w.Y && c.Y <= w.Y+w.H
}

// Coords returns the window's coords row by row.
func (w Window) Coords() []hexgeo.Coord {
	out := make([]hexgeo.Coord, 0, w.W*w.H)
	for i := 0; i < w.H; i++ {
		for j := 0; j < w.W; j++ {
			out = append(out, hexgeo.C(w.X+j, w.Y+i))
		}
	}
	return out
}

// Border is an outline around one hex, inset by Pad and Width wide, both
// in unscaled pixels. Elevation is the height the legality was checked at.
type Border struct {
	Coord     hexgeo.Coord
	Colour    color.RGBA
	Pad       float64
	Width     float64
	Elevation int
}

// DeploymentBorders outlines the hexes where u may deploy. Aircraft and
// hovering units get a cyan border where they may deploy in the air; every
// hex legal at ground level gets a yellow one and hexes that would kill
// the unit are outlined in the warning colour on top.
func DeploymentBorders(b *board.Board, u *game.Unit, w Window) []Border {
	if b == nil || u == nil {
		return nil
	}
	airGround := u.MovementMode.IsHover() || u.MovementMode.IsVTOL()
	wige := u.MovementMode.IsWiGE()

	var out, deadly []Border
	for _, c := range w.Coords() {
		if !b.IsLegalDeploymentFor(c, u) {
			continue
		}
		switch {
		case u.Aero && u.Altitude > 0:
			if top := b.MaxElevation(); !u.IsLocationProhibited(c, top) {
				out = append(out, Border{Coord: c, Colour: Yellow, Width: 1, Elevation: top})
			}
		case u.Aero && u.Altitude == 0:
			if !u.IsLocationProhibited(c, 1) {
				out = append(out, Border{Coord: c, Colour: Cyan, Width: 1, Elevation: 1})
			}
		case airGround || wige:
			elev := 1
			if h := b.Hex(c); !wige && h != nil && h.Ceiling()+1 > 1 {
				elev = h.Ceiling() + 1
			}
			if !u.IsLocationProhibited(c, elev) {
				out = append(out, Border{Coord: c, Colour: Cyan, Width: 1, Elevation: elev})
			}
		}
		if u.IsLocationProhibited(c, 0) {
			continue
		}
		out = append(out, Border{Coord: c, Colour: Yellow, Width: 1})
		if u.IsLocationDeadly(c) {
			deadly = append(deadly, Border{Coord: c, Colour: Warning, Width: 1})
		}
	}
	return append(out, deadly...)
}

// AllDeploymentBorders nests one border per player around each hex that
// player may deploy in, in the player's colour.
func AllDeploymentBorders(b *board.Board, players []*game.Player, w Window) []Border {
	if b == nil || len(players) == 0 {
		return nil
	}
	thickness := 1 + 10/len(players)
	var out []Border
	for _, c := range w.Coords() {
		idx := 0
		for _, p := range players {
			if !b.IsLegalDeployment(c, p.ID) {
				continue
			}
			out = append(out, Border{
				Coord:  c,
				Colour: p.Colour,
				Pad:    float64((thickness + 2) * idx),
				Width:  float64(thickness),
			})
			idx++
		}
	}
	return out
}

// DeployingPlayers filters the players whose zones are shown to viewer:
// in the lounge under blind drop only the viewer's side unless the viewer
// is a game master.
func DeployingPlayers(snap *game.Snapshot, viewer *game.Player, blindDrop bool) []*game.Player {
	if snap == nil {
		return nil
	}
	if snap.Phase != game.PhaseLounge || !blindDrop || viewer == nil || viewer.GameMaster {
		return snap.Players
	}
	var out []*game.Player
	for _, p := range snap.Players {
		if !p.IsEnemyOf(viewer) {
			out = append(out, p)
		}
	}
	return out
}

// StrafingBorders marks the hexes of a planned strafing run.
func StrafingBorders(snap *game.Snapshot, w Window) []Border {
	if snap == nil || snap.Phase != game.PhaseFiring {
		return nil
	}
	var out []Border
	for _, c := range snap.Strafing {
		if w.Contains(c) {
			out = append(out, Border{Coord: c, Colour: Yellow, Width: 3})
		}
	}
	return out
}

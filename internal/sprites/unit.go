package sprites

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// Draw priorities by how high a unit sits.
const (
	priorityGround = iota
	priorityLow
	priorityAir
)

var (
	selectedColour = color.RGBA{R: 255, G: 255, A: 255}
	ecmColour      = color.RGBA{R: 100, G: 220, B: 255, A: 255}
	labelColour    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelBack      = color.RGBA{R: 20, G: 20, B: 20, A: 170}
)

// Key identifies the sprite of one hex of one unit. Secondary is -1 for
// units without secondary positions.
type Key struct {
	ID        int
	Secondary int
}

func unitPriority(u *game.Unit) int {
	switch {
	case u.Aero && u.Altitude > 0:
		return priorityAir
	case u.Elevation > 0:
		return priorityLow
	default:
		return priorityGround
	}
}

// UnitSprite draws a unit counter in one of the hexes it occupies.
type UnitSprite struct {
	base
	unit      *game.Unit
	secondary int
	icon      *tiles.Tile
	iso       bool

	selected      bool
	affectedByECM bool
}

// NewUnitSprite makes the counter of u at its secondary position index.
func NewUnitSprite(u *game.Unit, secondary int, icon *tiles.Tile, iso bool) *UnitSprite {
	return &UnitSprite{
		base:      base{priority: unitPriority(u)},
		unit:      u,
		secondary: secondary,
		icon:      icon,
		iso:       iso,
	}
}

func (s *UnitSprite) Kind() Kind {
	if s.iso {
		return KindIsoUnit
	}
	return KindUnit
}

func (s *UnitSprite) Key() Key               { return Key{ID: s.unit.ID, Secondary: s.secondary} }
func (s *UnitSprite) Unit() *game.Unit       { return s.unit }
func (s *UnitSprite) Coord() hexgeo.Coord    { return s.unit.PositionAt(s.secondary) }
func (s *UnitSprite) References(id int) bool { return s.unit.ID == id }

// BehindTerrain is true for isometric counters of units on or near the
// ground; aircraft stay above the terrain.
func (s *UnitSprite) BehindTerrain() bool {
	return s.iso && unitPriority(s.unit) != priorityAir
}

// SetSelected toggles the selection ring.
func (s *UnitSprite) SetSelected(v bool) {
	if v != s.selected {
		s.selected = v
		s.ready = false
	}
}

// SetAffectedByECM toggles the ECM marker.
func (s *UnitSprite) SetAffectedByECM(v bool) {
	if v != s.affectedByECM {
		s.affectedByECM = v
		s.ready = false
	}
}

// AffectedByECM reports the ECM marker state.
func (s *UnitSprite) AffectedByECM() bool { return s.affectedByECM }

func (s *UnitSprite) Prepare(ctx Context) {
	g := ctx.Geometry()
	sc := ctx.Scale()
	img := hexCanvas(ctx)
	if icon := ctx.ScaledImage(s.icon); icon != nil {
		gfx.Blit(img, icon, image.Point{})
	}
	drawFacing(img, s.unit.Facing, sc)
	if s.secondary <= 0 {
		drawLabel(ctx, img, s.unit.Name)
	}
	if s.selected {
		ring(img, sc, selectedColour, 2, 3)
	}
	if s.affectedByECM {
		gfx.FillColor(img, ecmColour, gfx.Rect(62*sc, 10*sc, 8*sc, 8*sc))
	}
	p := g.TopLeft(s.Coord(), false)
	if s.iso {
		p.Y -= int(float64(s.unit.Elevation) * hexgeo.HexElev * sc)
	}
	s.finish(img, p)
}

// WreckSprite draws the remains of a destroyed unit.
type WreckSprite struct {
	base
	unit      *game.Unit
	secondary int
	icon      *tiles.Tile
	iso       bool
}

// NewWreckSprite makes the wreck of u at a secondary position index.
func NewWreckSprite(u *game.Unit, secondary int, icon *tiles.Tile, iso bool) *WreckSprite {
	return &WreckSprite{unit: u, secondary: secondary, icon: icon, iso: iso}
}

func (s *WreckSprite) Kind() Kind {
	if s.iso {
		return KindIsoWreck
	}
	return KindWreck
}

func (s *WreckSprite) Coord() hexgeo.Coord    { return s.unit.PositionAt(s.secondary) }
func (s *WreckSprite) BehindTerrain() bool    { return s.iso }
func (s *WreckSprite) References(id int) bool { return s.unit.ID == id }

func (s *WreckSprite) Prepare(ctx Context) {
	img := hexCanvas(ctx)
	if icon := ctx.ScaledImage(s.icon); icon != nil {
		gfx.Blit(img, icon, image.Point{})
	}
	s.finish(img, ctx.Geometry().TopLeft(s.Coord(), false))
}

// GhostSprite marks where a moving unit started.
type GhostSprite struct {
	base
	unit *game.Unit
	at   hexgeo.Coord
	icon *tiles.Tile
}

// NewGhostSprite makes a translucent counter of u at c.
func NewGhostSprite(u *game.Unit, c hexgeo.Coord, icon *tiles.Tile) *GhostSprite {
	return &GhostSprite{unit: u, at: c, icon: icon}
}

func (s *GhostSprite) Kind() Kind             { return KindGhost }
func (s *GhostSprite) Coord() hexgeo.Coord    { return s.at }
func (s *GhostSprite) BehindTerrain() bool    { return false }
func (s *GhostSprite) References(id int) bool { return s.unit.ID == id }

func (s *GhostSprite) Prepare(ctx Context) {
	img := hexCanvas(ctx)
	if icon := ctx.ScaledImage(s.icon); icon != nil {
		gfx.BlitAlpha(img, icon, image.Point{}, 0.5)
	}
	s.finish(img, ctx.Geometry().TopLeft(s.at, false))
}

// MovingSprite is the counter of a unit while it steps along its path.
type MovingSprite struct {
	base
	unit   *game.Unit
	at     hexgeo.Coord
	facing int
	elev   int
	icon   *tiles.Tile
}

// NewMovingSprite makes the stepping counter of u.
func NewMovingSprite(u *game.Unit, icon *tiles.Tile) *MovingSprite {
	return &MovingSprite{
		base:   base{priority: unitPriority(u)},
		unit:   u,
		at:     u.Position,
		facing: u.Facing,
		elev:   u.Elevation,
		icon:   icon,
	}
}

func (s *MovingSprite) Kind() Kind             { return KindMoving }
func (s *MovingSprite) Coord() hexgeo.Coord    { return s.at }
func (s *MovingSprite) BehindTerrain() bool    { return false }
func (s *MovingSprite) References(id int) bool { return s.unit.ID == id }
func (s *MovingSprite) Unit() *game.Unit       { return s.unit }

// Elevation is the counter's current height above the hex.
func (s *MovingSprite) Elevation() int { return s.elev }

// Step moves the counter to c at the given facing and elevation.
func (s *MovingSprite) Step(c hexgeo.Coord, facing, elevation int) {
	s.at, s.facing, s.elev = c, facing, elevation
	s.ready = false
}

func (s *MovingSprite) Prepare(ctx Context) {
	img := hexCanvas(ctx)
	if icon := ctx.ScaledImage(s.icon); icon != nil {
		gfx.Blit(img, icon, image.Point{})
	}
	drawFacing(img, s.facing, ctx.Scale())
	g := ctx.Geometry()
	p := g.TopLeft(s.at, false)
	if g.Isometric {
		p.Y -= int(float64(s.elev) * hexgeo.HexElev * g.Scale)
	}
	s.finish(img, p)
}

// drawFacing puts a small arrow on the hex side the unit faces.
func drawFacing(img *image.RGBA, facing int, s float64) {
	if facing < 0 || facing > 5 {
		return
	}
	arrow := gfx.Path{{41.5, 6}, {47, 14}, {36, 14}}
	arrow = gfx.Rotate(arrow, float64(facing*60), 41.5, 35.5)
	for i := range arrow {
		arrow[i] = f64.Vec2{arrow[i][0] * s, arrow[i][1] * s}
	}
	gfx.FillColor(img, selectedColour, arrow)
}

func drawLabel(ctx Context, img *image.RGBA, name string) {
	if name == "" {
		return
	}
	s := ctx.Scale()
	face := ctx.Face()
	w := gfx.TextWidth(face, name) + 4
	h := face.Metrics().Height.Ceil() + 2
	x := (img.Rect.Dx() - w) / 2
	y := int(52 * s)
	gfx.FillColor(img, labelBack, gfx.Rect(float64(x), float64(y), float64(w), float64(h)))
	gfx.DrawString(img, face, name, x+2, y+face.Metrics().Ascent.Ceil()+1, labelColour)
}

// ring draws a hex border pad pixels inside the outline, unscaled.
func ring(img *image.RGBA, s float64, c color.Color, pad, width float64) {
	outline := gfx.Path(hexgeo.New(s).Outline())
	cx, cy, a := 41.5*s, 35.5*s, 36*s
	gfx.Ring(img, c, gfx.Inset(outline, cx, cy, a, pad*s), gfx.Inset(outline, cx, cy, a, (pad+width)*s))
}

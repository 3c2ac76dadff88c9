package sprites

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// polyline renders a path between hex centres on a canvas just big
// enough to hold it and returns the canvas and its board position.
func polyline(ctx Context, coords []hexgeo.Coord, c color.RGBA, width float64, arrow bool) (*image.RGBA, image.Point) {
	g := ctx.Geometry()
	s := ctx.Scale()
	pad := int(math.Ceil(12*s + width))
	var box image.Rectangle
	pts := make([]image.Point, len(coords))
	for i, cc := range coords {
		pts[i] = g.Center(cc, false)
		pr := image.Rectangle{Min: pts[i], Max: pts[i].Add(image.Pt(1, 1))}
		if i == 0 {
			box = pr
		} else {
			box = box.Union(pr)
		}
	}
	box = box.Inset(-pad)
	img := image.NewRGBA(image.Rectangle{Max: box.Size()})
	local := make(gfx.Path, len(pts))
	for i, p := range pts {
		local[i] = f64.Vec2{float64(p.X - box.Min.X), float64(p.Y - box.Min.Y)}
	}
	gfx.Polyline(img, color.RGBA{A: 200}, local, width+2, false)
	gfx.Polyline(img, c, local, width, false)
	if arrow && len(local) >= 2 {
		drawArrowHead(img, local[len(local)-2], local[len(local)-1], 10*s, c)
	}
	return img, box.Min
}

func drawArrowHead(img *image.RGBA, from, to f64.Vec2, size float64, c color.RGBA) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l, dy/l
	back := f64.Vec2{to[0] - ux*size, to[1] - uy*size}
	gfx.FillColor(img, c, gfx.Path{
		to,
		{back[0] - uy*size/2, back[1] + ux*size/2},
		{back[0] + uy*size/2, back[1] - ux*size/2},
	})
}

// C3Sprite links a unit to its network master.
type C3Sprite struct {
	base
	unitID, masterID int
	from, to         hexgeo.Coord
	colour           color.RGBA
}

// NewC3Sprite links unit to master in the owner's colour.
func NewC3Sprite(unit, master *game.Unit, c color.RGBA) *C3Sprite {
	return &C3Sprite{unitID: unit.ID, masterID: master.ID, from: unit.Position, to: master.Position, colour: c}
}

func (s *C3Sprite) Kind() Kind { return KindC3 }

// References matches both ends of the link.
func (s *C3Sprite) References(id int) bool { return s.unitID == id || s.masterID == id }

func (s *C3Sprite) Prepare(ctx Context) {
	img, p := polyline(ctx, []hexgeo.Coord{s.from, s.to}, s.colour, 2*ctx.Scale(), false)
	s.finish(img, p)
}

// AttackSprite is an arrow from attacker to target.
type AttackSprite struct {
	base
	attack   game.Attack
	from, to hexgeo.Coord
	colour   color.RGBA
}

// NewAttackSprite draws a from one position to the other.
func NewAttackSprite(a game.Attack, from, to hexgeo.Coord, c color.RGBA) *AttackSprite {
	return &AttackSprite{attack: a, from: from, to: to, colour: c}
}

func (s *AttackSprite) Kind() Kind          { return KindAttack }
func (s *AttackSprite) Attack() game.Attack { return s.attack }
func (s *AttackSprite) References(id int) bool {
	return s.attack.AttackerID == id || s.attack.TargetID == id
}

func (s *AttackSprite) Prepare(ctx Context) {
	img, p := polyline(ctx, []hexgeo.Coord{s.from, s.to}, s.colour, 3*ctx.Scale(), true)
	s.finish(img, p)
}

// FlyOverSprite traces the hexes an aircraft passed through.
type FlyOverSprite struct {
	base
	unitID int
	path   []hexgeo.Coord
	colour color.RGBA
}

// NewFlyOverSprite traces u's path in colour c.
func NewFlyOverSprite(u *game.Unit, c color.RGBA) *FlyOverSprite {
	return &FlyOverSprite{unitID: u.ID, path: append([]hexgeo.Coord(nil), u.PassedThrough...), colour: c}
}

func (s *FlyOverSprite) Kind() Kind             { return KindFlyOver }
func (s *FlyOverSprite) References(id int) bool { return s.unitID == id }

func (s *FlyOverSprite) Prepare(ctx Context) {
	if len(s.path) == 0 {
		s.hidden = true
		s.ready = true
		return
	}
	img, p := polyline(ctx, s.path, s.colour, 4*ctx.Scale(), true)
	s.finish(img, p)
}

// VTOLAttackSprite marks the hex a VTOL strikes while passing over it.
type VTOLAttackSprite struct {
	base
	unitID int
	target hexgeo.Coord
}

var vtolColour = color.RGBA{R: 255, G: 60, B: 0, A: 255}

// NewVTOLAttackSprite marks target for a.
func NewVTOLAttackSprite(a game.VTOLAttack) *VTOLAttackSprite {
	return &VTOLAttackSprite{unitID: a.UnitID, target: a.Target}
}

func (s *VTOLAttackSprite) Kind() Kind             { return KindVTOLAttack }
func (s *VTOLAttackSprite) Coord() hexgeo.Coord    { return s.target }
func (s *VTOLAttackSprite) BehindTerrain() bool    { return false }
func (s *VTOLAttackSprite) References(id int) bool { return s.unitID == id }

func (s *VTOLAttackSprite) Prepare(ctx Context) {
	img := hexCanvas(ctx)
	ring(img, ctx.Scale(), vtolColour, 6, 4)
	s.finish(img, ctx.Geometry().TopLeft(s.target, false))
}

// MovementVectorSprite shows one direction of a unit's vector velocity.
type MovementVectorSprite struct {
	base
	unitID    int
	from      hexgeo.Coord
	direction int
	length    int
	colour    color.RGBA
}

// NewMovementVectorSprite draws length hexes from u towards dir.
func NewMovementVectorSprite(u *game.Unit, dir, length int, c color.RGBA) *MovementVectorSprite {
	return &MovementVectorSprite{unitID: u.ID, from: u.Position, direction: dir, length: length, colour: c}
}

func (s *MovementVectorSprite) Kind() Kind             { return KindMovementVector }
func (s *MovementVectorSprite) References(id int) bool { return s.unitID == id }

func (s *MovementVectorSprite) Prepare(ctx Context) {
	to := s.from
	for i := 0; i < s.length; i++ {
		to = to.Translated(s.direction)
	}
	img, p := polyline(ctx, []hexgeo.Coord{s.from, to}, s.colour, 3*ctx.Scale(), true)
	s.finish(img, p)
}

package sprites

import (
	"image/color"

	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// CursorSprite outlines one hex. It is hidden while it has no coord.
type CursorSprite struct {
	base
	at     hexgeo.Coord
	colour color.RGBA
}

// NewCursorSprite returns a hidden cursor of colour c.
func NewCursorSprite(c color.RGBA) *CursorSprite {
	return &CursorSprite{base: base{hidden: true}, at: hexgeo.Invalid, colour: c}
}

func (s *CursorSprite) Kind() Kind          { return KindCursor }
func (s *CursorSprite) Coord() hexgeo.Coord { return s.at }
func (s *CursorSprite) BehindTerrain() bool { return false }

// SetHexLocation moves the cursor; Invalid hides it.
func (s *CursorSprite) SetHexLocation(c hexgeo.Coord) {
	s.at = c
	s.hidden = c == hexgeo.Invalid
	s.ready = false
}

func (s *CursorSprite) Prepare(ctx Context) {
	img := hexCanvas(ctx)
	ring(img, ctx.Scale(), s.colour, 1, 2)
	s.finish(img, ctx.Geometry().TopLeft(s.at, false))
}

// StepSprite is one hex of a planned movement path.
type StepSprite struct {
	base
	at     hexgeo.Coord
	label  string
	colour color.RGBA
	legal  bool
}

var illegalStep = color.RGBA{R: 200, G: 30, B: 30, A: 255}

// NewStepSprite marks c with a cost or summary label.
func NewStepSprite(c hexgeo.Coord, label string, colour color.RGBA, legal bool) *StepSprite {
	return &StepSprite{at: c, label: label, colour: colour, legal: legal}
}

func (s *StepSprite) Kind() Kind          { return KindPathStep }
func (s *StepSprite) Coord() hexgeo.Coord { return s.at }
func (s *StepSprite) BehindTerrain() bool { return false }

func (s *StepSprite) Prepare(ctx Context) {
	sc := ctx.Scale()
	img := hexCanvas(ctx)
	c := s.colour
	if !s.legal {
		c = illegalStep
	}
	dot := gfx.Inset(gfx.Path(hexgeo.New(sc).Outline()), 41.5*sc, 35.5*sc, 36*sc, 26*sc)
	gfx.FillColor(img, c, dot)
	if s.label != "" {
		gfx.DrawCentered(img, ctx.Face(), s.label, 0, int(60*sc), img.Rect.Dx(), c)
	}
	s.finish(img, ctx.Geometry().TopLeft(s.at, false))
}

// FlightPathSprite shows the remaining thrust of an aircraft at a hex.
type FlightPathSprite struct {
	base
	at   hexgeo.Coord
	text string
}

var fpiColour = color.RGBA{R: 120, G: 200, B: 255, A: 255}

// NewFlightPathSprite labels c with text.
func NewFlightPathSprite(c hexgeo.Coord, text string) *FlightPathSprite {
	return &FlightPathSprite{at: c, text: text}
}

func (s *FlightPathSprite) Kind() Kind          { return KindFlightPath }
func (s *FlightPathSprite) Coord() hexgeo.Coord { return s.at }
func (s *FlightPathSprite) BehindTerrain() bool { return false }

func (s *FlightPathSprite) Prepare(ctx Context) {
	sc := ctx.Scale()
	img := hexCanvas(ctx)
	ring(img, sc, fpiColour, 10, 2)
	gfx.DrawOutlined(img, ctx.Face(), s.text, img.Rect.Dx()/2, img.Rect.Dy()/2, fpiColour, color.Black, 1)
	s.finish(img, ctx.Geometry().TopLeft(s.at, false))
}

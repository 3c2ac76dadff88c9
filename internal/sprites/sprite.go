// Package sprites holds everything drawn on top of the hex images: units,
// wrecks, cursors, movement paths and the lines between units.
package sprites

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"

	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// Context supplies the scale-dependent resources a sprite needs to
// prepare its image.
type Context interface {
	Geometry() hexgeo.Geometry
	Scale() float64
	ScaledImage(t *tiles.Tile) image.Image
	Face() font.Face
}

// Kind tags the sprite variants.
type Kind int

const (
	KindUnit Kind = iota
	KindIsoUnit
	KindWreck
	KindIsoWreck
	KindPathStep
	KindC3
	KindAttack
	KindFlyOver
	KindVTOLAttack
	KindMovementVector
	KindCursor
	KindFlightPath
	KindGhost
	KindMoving
)

// Sprite is anything drawn over the board. Bounds are board pixels
// without padding and are valid only after Prepare.
type Sprite interface {
	Kind() Kind
	Bounds() image.Rectangle
	Priority() int
	Hidden() bool
	Ready() bool
	Prepare(ctx Context)
	Draw(dst draw.Image, offset image.Point, alpha float64)
	// Unready forces a Prepare before the next draw.
	Unready()
	sprite()
}

// HexSprite is a sprite anchored to one hex.
type HexSprite interface {
	Sprite
	Coord() hexgeo.Coord
	// BehindTerrain sprites are drawn with their hex in isometric mode so
	// higher ground in front can hide them.
	BehindTerrain() bool
}

// EntitySprite refers to one or more units by id.
type EntitySprite interface {
	Sprite
	References(id int) bool
}

// base carries the state shared by every sprite.
type base struct {
	bounds   image.Rectangle
	img      *image.RGBA
	ready    bool
	hidden   bool
	priority int
}

func (b *base) Bounds() image.Rectangle { return b.bounds }
func (b *base) Priority() int           { return b.priority }
func (b *base) Hidden() bool            { return b.hidden }
func (b *base) Ready() bool             { return b.ready }
func (b *base) Unready()                { b.ready = false }
func (b *base) sprite()                 {}

func (b *base) Draw(dst draw.Image, offset image.Point, alpha float64) {
	if b.img == nil {
		return
	}
	gfx.BlitAlpha(dst, b.img, b.bounds.Min.Add(offset), alpha)
}

// finish stores a prepared image at top-left p.
func (b *base) finish(img *image.RGBA, p image.Point) {
	b.img = img
	b.bounds = img.Rect.Sub(img.Rect.Min).Add(p)
	b.ready = true
}

// DrawSprite prepares s when needed and draws it if it is visible and
// touches clip. offset maps board pixels to dst pixels.
func DrawSprite(dst draw.Image, ctx Context, s Sprite, clip image.Rectangle, offset image.Point, alpha float64) {
	if s == nil || s.Hidden() {
		return
	}
	if !s.Ready() {
		s.Prepare(ctx)
	}
	if !s.Bounds().Add(offset).Overlaps(clip) {
		return
	}
	s.Draw(dst, offset, alpha)
}

// DrawAll draws sprites in order.
func DrawAll[S Sprite](dst draw.Image, ctx Context, set []S, clip image.Rectangle, offset image.Point, alpha float64) {
	for _, s := range set {
		DrawSprite(dst, ctx, s, clip, offset, alpha)
	}
}

func hexCanvas(ctx Context) *image.RGBA {
	return image.NewRGBA(image.Rectangle{Max: ctx.Geometry().HexSize()})
}

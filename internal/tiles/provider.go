// Package tiles supplies the images the board view composes: base and
// overlay tiles per hex, markers, crosshairs and unit icons.
package tiles

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
)

// Tile is a registered image with a stable identity. Key names the
// content; Gen changes whenever the content is regenerated so caches
// keyed by ID never serve stale pixels.
type Tile struct {
	Key   string
	Gen   int
	Image image.Image
}

// ID is the cache identity of the tile.
func (t *Tile) ID() string {
	return fmt.Sprintf("%s#%d", t.Key, t.Gen)
}

// Size is the unscaled pixel size.
func (t *Tile) Size() image.Point {
	return t.Image.Bounds().Size()
}

// ArtilleryKind selects a crosshair image.
type ArtilleryKind int

const (
	ArtilleryIncoming ArtilleryKind = iota
	ArtilleryAutoHit
	ArtilleryAdjusted
)

// Provider supplies every image the board view draws.
type Provider interface {
	BaseFor(h *board.Hex) *Tile
	SupersFor(h *board.Hex) []*Tile
	OrthoFor(h *board.Hex) []*Tile
	HexMask() *Tile
	MinefieldSign() *Tile
	ArtilleryTarget(kind ArtilleryKind) *Tile
	OrbitalBombardment() *Tile
	ECMStatic(tint color.RGBA) *Tile
	SpecialImage(d board.SpecialDisplay) (*Tile, error)
	UnitIcon(u *game.Unit, owner color.RGBA) *Tile
	WreckIcon(u *game.Unit) *Tile
	IsAnimated(t *Tile) bool
	IsLoaded() bool
	ReloadUnitIcons()
}

package tiles

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// ErrNoImage is returned for special displays without an image.
var ErrNoImage = errors.New("no image for special display")

// Procedural draws every tile from flat colours and simple shapes. It is
// the provider used when no tileset is installed, and in tests.
type Procedural struct {
	mu       sync.Mutex
	tiles    map[string]*Tile
	animated map[string]bool
	large    map[string]image.Point
	loaded   bool
	iconGen  int
}

// Option configures a Procedural provider.
type Option func(*Procedural)

// WithLargeTexture makes the base tile of a theme a w x h texture that
// spans several hexes.
func WithLargeTexture(theme string, w, h int) Option {
	return func(p *Procedural) { p.large[theme] = image.Pt(w, h) }
}

// WithLoading starts the provider in the not-loaded state.
func WithLoading() Option {
	return func(p *Procedural) { p.loaded = false }
}

// NewProcedural returns a loaded provider.
func NewProcedural(opts ...Option) *Procedural {
	p := &Procedural{
		tiles:    make(map[string]*Tile),
		animated: make(map[string]bool),
		large:    make(map[string]image.Point),
		loaded:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetLoaded flips the loaded state.
func (p *Procedural) SetLoaded(v bool) {
	p.mu.Lock()
	p.loaded = v
	p.mu.Unlock()
}

// IsLoaded reports whether tiles can be drawn yet.
func (p *Procedural) IsLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// MarkAnimated flags every tile whose key starts with prefix as animated.
func (p *Procedural) MarkAnimated(prefix string) {
	p.mu.Lock()
	p.animated[prefix] = true
	p.mu.Unlock()
}

// IsAnimated reports whether t changes between frames.
func (p *Procedural) IsAnimated(t *Tile) bool {
	if t == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for prefix := range p.animated {
		if strings.HasPrefix(t.Key, prefix) {
			return true
		}
	}
	return false
}

// ReloadUnitIcons regenerates every unit and wreck icon on next use.
func (p *Procedural) ReloadUnitIcons() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.iconGen++
	for k := range p.tiles {
		if strings.HasPrefix(k, "unit/") || strings.HasPrefix(k, "wreck/") {
			delete(p.tiles, k)
		}
	}
}

func (p *Procedural) tile(key string, gen int, draw func() image.Image) *Tile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tiles[key]; ok {
		return t
	}
	t := &Tile{Key: key, Gen: gen, Image: draw()}
	p.tiles[key] = t
	return t
}

// BaseFor returns the ground tile for h.
func (p *Procedural) BaseFor(h *board.Hex) *Tile {
	if size, ok := p.large[h.Theme]; ok {
		key := "base/large/" + h.Theme
		return p.tile(key, 0, func() image.Image { return largeTexture(key, size, baseColour(h)) })
	}
	key := fmt.Sprintf("base/%s/%s/%d", h.Theme, groundOf(h), h.Level)
	return p.tile(key, 0, func() image.Image {
		img := newHexImage()
		c := baseColour(h)
		gfx.FillColor(img, c, outline())
		speckle(img, key, c)
		return img
	})
}

// SupersFor returns the overlays for h, in terrain order.
func (p *Procedural) SupersFor(h *board.Hex) []*Tile {
	var out []*Tile
	for _, v := range h.Terrains() {
		draw, ok := superPainters[v.Kind]
		if !ok {
			continue
		}
		v := v
		key := fmt.Sprintf("super/%s/%d/%d", v.Kind, v.Level, v.Exits)
		out = append(out, p.tile(key, 0, func() image.Image {
			img := newHexImage()
			draw(img, v)
			return img
		}))
	}
	return out
}

// OrthoFor returns the bridge images of h.
func (p *Procedural) OrthoFor(h *board.Hex) []*Tile {
	v, ok := h.Terrain(board.TerrainBridge)
	if !ok {
		return nil
	}
	key := fmt.Sprintf("ortho/bridge/%d", v.Exits)
	return []*Tile{p.tile(key, 0, func() image.Image {
		img := newHexImage()
		deck := color.RGBA{R: 120, G: 110, B: 100, A: 255}
		for _, dir := range v.ExitList() {
			if dir > 5 {
				continue
			}
			gfx.FillColor(img, deck, gfx.Rotate(gfx.Rect(34, -2, 16, 40), float64(dir*60), 41.5, 35.5))
		}
		gfx.FillColor(img, deck, gfx.Rect(30, 24, 24, 24))
		return img
	})}
}

// HexMask is an opaque hex on transparent ground.
func (p *Procedural) HexMask() *Tile {
	return p.tile("mask/hex", 0, func() image.Image {
		img := newHexImage()
		gfx.FillColor(img, color.White, outline())
		return img
	})
}

// MinefieldSign is the small warning sign placed in mined hexes.
func (p *Procedural) MinefieldSign() *Tile {
	return p.tile("marker/minefield", 0, func() image.Image {
		img := image.NewRGBA(image.Rect(0, 0, 58, 30))
		gfx.FillColor(img, color.RGBA{R: 230, G: 200, B: 40, A: 255}, gfx.Path{{29, 2}, {56, 28}, {2, 28}})
		gfx.Polyline(img, color.Black, gfx.Path{{29, 2}, {56, 28}, {2, 28}}, 2, true)
		return img
	})
}

// ArtilleryTarget returns the crosshair for kind.
func (p *Procedural) ArtilleryTarget(kind ArtilleryKind) *Tile {
	cols := map[ArtilleryKind]color.RGBA{
		ArtilleryIncoming: {R: 255, G: 60, B: 40, A: 255},
		ArtilleryAutoHit:  {R: 40, G: 220, B: 60, A: 255},
		ArtilleryAdjusted: {R: 240, G: 200, B: 40, A: 255},
	}
	c := cols[kind]
	return p.tile(fmt.Sprintf("marker/artillery/%d", kind), 0, func() image.Image {
		img := newHexImage()
		crosshair(img, c)
		return img
	})
}

// OrbitalBombardment marks every hex of a bombardment area.
func (p *Procedural) OrbitalBombardment() *Tile {
	return p.tile("marker/orbital", 0, func() image.Image {
		img := newHexImage()
		o := outline()
		gfx.Ring(img, color.RGBA{R: 200, G: 0, B: 200, A: 200}, o, gfx.Inset(o, 41.5, 35.5, 36, 6))
		return img
	})
}

// ECMStatic is a hex-sized noise pattern in the field's tint.
func (p *Procedural) ECMStatic(tint color.RGBA) *Tile {
	key := fmt.Sprintf("ecm/static/%02x%02x%02x%02x", tint.R, tint.G, tint.B, tint.A)
	return p.tile(key, 0, func() image.Image {
		img := newHexImage()
		mask := newHexImage()
		gfx.FillColor(mask, color.White, outline())
		rng := rand.New(rand.NewPCG(seed(key), 0))
		dot := gfx.WithAlpha(color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: 255}, 120)
		for i := 0; i < 220; i++ {
			x, y := rng.IntN(hexgeo.HexW), rng.IntN(hexgeo.HexH)
			if mask.RGBAAt(x, y).A != 0 {
				img.SetRGBA(x, y, dot)
			}
		}
		return img
	})
}

// SpecialImage returns the marker for a special display.
func (p *Procedural) SpecialImage(d board.SpecialDisplay) (*Tile, error) {
	var c color.RGBA
	switch d.Kind {
	case board.SpecialArtilleryIncoming, board.SpecialArtilleryTarget:
		c = color.RGBA{R: 255, G: 60, B: 40, A: 255}
	case board.SpecialArtilleryHit, board.SpecialBombHit:
		c = color.RGBA{R: 255, G: 120, B: 0, A: 255}
	case board.SpecialArtilleryMiss, board.SpecialBombMiss, board.SpecialBombDrift:
		c = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	case board.SpecialNukeHit:
		c = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	case board.SpecialOrbitalBombardment:
		return p.OrbitalBombardment(), nil
	case board.SpecialPlayerNote:
		c = color.RGBA{R: 250, G: 250, B: 210, A: 255}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoImage, d.Kind)
	}
	return p.tile("special/"+d.Kind.String(), 0, func() image.Image {
		img := newHexImage()
		gfx.FillColor(img, gfx.WithAlpha(c, 200), gfx.Rect(56, 8, 14, 14))
		gfx.Polyline(img, color.Black, gfx.Rect(56, 8, 14, 14), 1, true)
		return img
	}), nil
}

// UnitIcon is the counter drawn for u in its owner's colour.
func (p *Procedural) UnitIcon(u *game.Unit, owner color.RGBA) *Tile {
	p.mu.Lock()
	gen := p.iconGen
	p.mu.Unlock()
	key := fmt.Sprintf("unit/%d/%s/%02x%02x%02x", u.ID, u.Icon, owner.R, owner.G, owner.B)
	return p.tile(key, gen, func() image.Image {
		img := newHexImage()
		body := gfx.Inset(outline(), 41.5, 35.5, 36, 14)
		gfx.FillColor(img, owner, body)
		gfx.Polyline(img, color.Black, body, 2, true)
		// facing notch
		gfx.FillColor(img, color.White, gfx.Path{{41.5, 18}, {47, 28}, {36, 28}})
		return img
	})
}

// WreckIcon is the charred remains of u.
func (p *Procedural) WreckIcon(u *game.Unit) *Tile {
	p.mu.Lock()
	gen := p.iconGen
	p.mu.Unlock()
	return p.tile(fmt.Sprintf("wreck/%s", u.Icon), gen, func() image.Image {
		img := newHexImage()
		gfx.FillColor(img, color.RGBA{R: 50, G: 45, B: 40, A: 230},
			gfx.Path{{26, 30}, {50, 24}, {60, 40}, {44, 50}, {24, 44}})
		return img
	})
}

func newHexImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, hexgeo.HexW, hexgeo.HexH))
}

func outline() gfx.Path {
	return gfx.Path(hexgeo.New(1).Outline())
}

func seed(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

// speckle adds a deterministic texture so tiles are not flat.
func speckle(img *image.RGBA, key string, c color.RGBA) {
	rng := rand.New(rand.NewPCG(seed(key), 1))
	dark := gfx.Darker(c)
	for i := 0; i < 160; i++ {
		x, y := rng.IntN(hexgeo.HexW), rng.IntN(hexgeo.HexH)
		if img.RGBAAt(x, y).A == 255 {
			img.SetRGBA(x, y, dark)
		}
	}
}

func largeTexture(key string, size image.Point, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	rng := rand.New(rand.NewPCG(seed(key), 2))
	dark := gfx.Darker(c)
	for i := 0; i < size.X*size.Y/40; i++ {
		img.SetRGBA(rng.IntN(size.X), rng.IntN(size.Y), dark)
	}
	return img
}

func crosshair(img *image.RGBA, c color.RGBA) {
	o := gfx.Inset(outline(), 41.5, 35.5, 36, 10)
	gfx.Ring(img, c, o, gfx.Inset(outline(), 41.5, 35.5, 36, 13))
	gfx.Line(img, c, f64.Vec2{41.5, 12}, f64.Vec2{41.5, 59}, 2)
	gfx.Line(img, c, f64.Vec2{18, 35.5}, f64.Vec2{65, 35.5}, 2)
}

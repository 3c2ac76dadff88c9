// Package render composes the bitmap of a single hex: ground, overlays,
// shadows, fields, night shading, labels and cliff faces.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/imagecache"
	"github.com/Garsondee/BoardView/internal/logging"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/telemetry"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// ErrNotReady means the tiles are still loading. The caller should draw
// nothing for the hex and repaint later.
var ErrNotReady = errors.New("hex tiles not ready")

var (
	textColour      = color.RGBA{A: 255}
	spaceTextColour = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	buildingColour  = color.RGBA{R: 0, G: 0, B: 170, A: 255}
	foliageColour   = color.RGBA{R: 0, G: 110, B: 0, A: 255}
	mapsheetColour  = color.RGBA{B: 255, A: 255}
	invalidColour   = color.RGBA{R: 255, G: 255, A: 255}
	yellow          = color.RGBA{R: 255, G: 255, A: 255}

	gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	darkGray  = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	lightGray = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	black     = color.RGBA{A: 255}

	aoDark  = color.RGBA{R: 30, G: 30, B: 50, A: 255}
	aoLight = color.RGBA{R: 50, G: 50, B: 70, A: 0}
)

// Scene is everything outside the board that changes how hexes look.
// The caller invalidates the affected hexes when it replaces a scene.
type Scene struct {
	Game   *game.Snapshot
	Viewer *game.Player

	ECM         map[hexgeo.Coord]color.RGBA
	ECCM        map[hexgeo.Coord]color.RGBA
	ECMCenters  map[hexgeo.Coord]color.RGBA
	ECCMCenters map[hexgeo.Coord]color.RGBA

	// InSight reports whether the viewer has line of sight to a hex. Nil
	// means everything is visible.
	InSight func(hexgeo.Coord) bool
	// Saving suppresses viewer-specific shading for board images.
	Saving bool
}

func (s Scene) phase() game.Phase {
	if s.Game == nil {
		return game.PhaseUnknown
	}
	return s.Game.Phase
}

func (s Scene) light() game.Light {
	if s.Game == nil {
		return game.LightDay
	}
	return s.Game.Light
}

// Config wires a Rasterizer.
type Config struct {
	Board     *board.Board
	Tiles     tiles.Provider
	Prefs     *prefs.Preferences
	Log       logging.Logger
	Metrics   *telemetry.Metrics
	CacheSize int
}

type scaledKey struct {
	id   string
	zoom int
}

// Rasterizer renders and caches hex images. It is not safe for
// concurrent use; the board view drives it from one goroutine.
type Rasterizer struct {
	board   *board.Board
	tiles   tiles.Provider
	prefs   *prefs.Preferences
	log     logging.Logger
	renders metric.Int64Counter
	fonts   *gfx.Fonts

	zoom      int
	isometric bool
	scene     Scene

	hexes     *imagecache.Cache[hexgeo.Coord]
	scaled    *imagecache.Cache[scaledKey]
	shadowMap *image.RGBA
}

// New builds a rasterizer at the base zoom.
func New(cfg Config) (*Rasterizer, error) {
	if cfg.Board == nil || cfg.Tiles == nil || cfg.Prefs == nil {
		return nil, errors.New("render: board, tiles and prefs are required")
	}
	if cfg.Log == nil {
		cfg.Log = logging.Nop()
	}
	hexes, err := imagecache.New[hexgeo.Coord](cfg.CacheSize, imagecache.WithMetrics(cfg.Metrics, "hex"))
	if err != nil {
		return nil, fmt.Errorf("hex cache: %w", err)
	}
	scaled, err := imagecache.New[scaledKey](cfg.CacheSize, imagecache.WithMetrics(cfg.Metrics, "scaled"))
	if err != nil {
		return nil, fmt.Errorf("scaled image cache: %w", err)
	}
	r := &Rasterizer{
		board:  cfg.Board,
		tiles:  cfg.Tiles,
		prefs:  cfg.Prefs,
		log:    cfg.Log,
		fonts:  gfx.NewFonts(),
		zoom:   BaseZoomIndex,
		hexes:  hexes,
		scaled: scaled,
	}
	if cfg.Metrics != nil {
		r.renders = cfg.Metrics.HexRenders
	}
	return r, nil
}

// Close releases the font faces.
func (r *Rasterizer) Close() error {
	return r.fonts.Close()
}

// SetScale switches the zoom index and drops every cached image.
func (r *Rasterizer) SetScale(zoomIndex int) {
	zoomIndex = ClampZoom(zoomIndex)
	if zoomIndex == r.zoom {
		return
	}
	r.zoom = zoomIndex
	r.hexes.Clear()
	r.scaled.Clear()
}

// ZoomIndex is the current zoom index.
func (r *Rasterizer) ZoomIndex() int { return r.zoom }

// Scale is the current scale factor.
func (r *Rasterizer) Scale() float64 { return ZoomFactors[r.zoom] }

// SetIsometric switches projection and drops cached hexes.
func (r *Rasterizer) SetIsometric(on bool) {
	if on == r.isometric {
		return
	}
	r.isometric = on
	r.hexes.Clear()
}

// Isometric reports the projection.
func (r *Rasterizer) Isometric() bool { return r.isometric }

// Geometry is the coord/pixel mapping at the current scale and projection.
func (r *Rasterizer) Geometry() hexgeo.Geometry {
	g := hexgeo.New(r.Scale())
	g.Isometric = r.isometric
	g.Level = r.board.Level
	return g
}

// SetScene replaces the scene. Cached hexes are not touched.
func (r *Rasterizer) SetScene(s Scene) { r.scene = s }

// Scene is the current scene.
func (r *Rasterizer) Scene() Scene { return r.scene }

// Invalidate makes the next render of each coord bypass the cache.
func (r *Rasterizer) Invalidate(coords ...hexgeo.Coord) {
	r.hexes.MarkStale(coords...)
}

// Clear drops every cached hex image.
func (r *Rasterizer) Clear() {
	r.hexes.Clear()
}

// ClearScaled drops the scaled tile images, for example after unit icons
// were reloaded.
func (r *Rasterizer) ClearScaled() {
	r.scaled.Clear()
}

// Face is the label face for the current zoom.
func (r *Rasterizer) Face() font.Face {
	return r.fonts.Face(FontSize(r.zoom))
}

// FaceSize is a face of the given point size.
func (r *Rasterizer) FaceSize(size float64) font.Face {
	return r.fonts.Face(size)
}

// ScaledImage returns the tile resampled to the current zoom.
func (r *Rasterizer) ScaledImage(t *tiles.Tile) image.Image {
	if t == nil {
		return nil
	}
	if r.zoom == BaseZoomIndex {
		return t.Image
	}
	key := scaledKey{id: t.ID(), zoom: r.zoom}
	if e, ok := r.scaled.Get(key); ok {
		return e.Image
	}
	s := r.Scale()
	size := t.Size()
	img := gfx.Scale(t.Image, int(float64(size.X)*s), int(float64(size.Y)*s), Kernel(r.zoom))
	r.scaled.Put(key, img)
	return img
}

// Render returns the image of the hex at c. A coord without a hex yields
// nil and no error.
func (r *Rasterizer) Render(c hexgeo.Coord) (*image.RGBA, error) {
	hex := r.board.Hex(c)
	if hex == nil {
		return nil, nil
	}
	if e, ok := r.hexes.Get(c); ok {
		return e.Image, nil
	}
	if !r.tiles.IsLoaded() {
		return nil, ErrNotReady
	}
	img, cache := r.compose(c, hex)
	telemetry.Inc(r.renders)
	if cache {
		r.hexes.Put(c, img)
	}
	return img, nil
}

func (r *Rasterizer) compose(c hexgeo.Coord, hex *board.Hex) (*image.RGBA, bool) {
	s := r.Scale()
	g := hexgeo.New(s)
	hexW, hexH := g.HexSize().X, g.HexSize().Y
	dontCache := false
	animated := func(t *tiles.Tile) {
		if r.tiles.IsAnimated(t) {
			dontCache = true
		}
	}

	base := r.tiles.BaseFor(hex)
	animated(base)
	height := hexH
	if r.isometric {
		height += int(hexgeo.HexElev * s * float64(r.largestLevelDiff(c, hex)))
	}
	img := image.NewRGBA(image.Rect(0, 0, hexW, height))
	hexRect := image.Rect(0, 0, hexW, hexH)

	if size := base.Size(); size.X == hexgeo.HexW && size.Y == hexgeo.HexH {
		gfx.Blit(img, r.ScaledImage(base), image.Point{})
	} else {
		r.drawLargeTile(img, c, base)
	}

	supers := r.tiles.SupersFor(hex)
	underShadow := hex.SupersUnderShadow()
	if underShadow {
		r.drawTiles(img, supers, animated)
	}
	if r.prefs.Bool(prefs.ShadowMap) {
		alpha := 0.45
		if r.scene.light().IsDay() {
			alpha = 0.55
		}
		if sm := r.ShadowMap(); sm != nil {
			p := hexgeo.LargeTileOrigin(c, 1)
			src := image.Rect(p.X, p.Y, p.X+hexgeo.HexW, p.Y+hexgeo.HexH)
			gfx.DrawAtopScaled(img, hexRect, sm, src, alpha, Kernel(r.zoom))
		}
	}
	if !underShadow {
		r.drawTiles(img, supers, animated)
	} else if len(supers) > 0 && hex.BuriedUnderShadow() {
		gfx.Blit(img, r.ScaledImage(supers[len(supers)-1]), image.Point{})
	}

	if r.prefs.Bool(prefs.AOHexShadows) {
		r.drawAO(img, c, hex)
	}

	for _, t := range r.tiles.OrthoFor(hex) {
		animated(t)
		if !r.isometric {
			gfx.Blit(img, r.ScaledImage(t), image.Point{})
		}
	}

	r.drawFields(img, c)

	if r.prefs.Bool(prefs.DarkenMapAtNight) && r.scene.light().Darkens() &&
		(r.scene.Game == nil || !r.scene.Game.IsIlluminated(c)) {
		Darken(img, r.scene.light(), c)
	}

	face := r.Face()
	if v, ok := hex.Terrain(board.TerrainDeploymentZone); ok && r.scene.phase() == game.PhaseUnknown {
		border(img, s, yellow, 5, 5)
		gfx.DrawCentered(img, face, "DZ "+intList(v.ExitList()), 0, int(50*s), hexW, yellow)
	}

	text := textColour
	if r.scene.Game != nil && r.scene.Game.InSpace {
		text = spaceTextColour
	}

	for _, d := range r.board.SpecialDisplays(c) {
		if !d.DrawNow(r.scene.phase(), r.round(), r.scene.Viewer) {
			continue
		}
		t, err := r.tiles.SpecialImage(d)
		if err != nil {
			r.log.Error("special hex display failed", "hex", c.BoardNum(), "kind", d.Kind.String(), "err", err)
			gfx.DrawCentered(img, face, "Loading Error", 0, int(50*s), hexW, text)
			return img, false
		}
		animated(t)
		gfx.Blit(img, r.ScaledImage(t), image.Point{})
	}

	if r.prefs.Bool(prefs.ShowCoords) && s >= 0.5 {
		gfx.DrawCentered(img, face, c.BoardNum(), 0, int(12*s), hexW, text)
	}
	if r.prefs.Bool(prefs.ShowInvalidHexes) && !hex.IsValid() {
		big := r.fonts.Face(14 * s)
		gfx.DrawOutlined(img, big, "INVALID", hexW/2, hexH/2, invalidColour, color.White, int(math.Max(1, s/2)))
	}
	if s > 0.5 {
		r.drawLevels(img, hex, face, text)
	}

	r.drawElevation(img, c, hex)

	inSight := r.drawFOV(img, c)

	if r.prefs.Bool(prefs.ShowMapsheets) {
		drawMapsheet(img, c, s)
	}

	if !inSight && r.prefs.Bool(prefs.FovGrayscale) {
		gfx.Grayscale(img)
	}
	return img, !dontCache
}

func (r *Rasterizer) round() int {
	if r.scene.Game == nil {
		return 0
	}
	return r.scene.Game.Round
}

func (r *Rasterizer) drawTiles(img *image.RGBA, ts []*tiles.Tile, animated func(*tiles.Tile)) {
	for _, t := range ts {
		if t == nil {
			continue
		}
		animated(t)
		gfx.Blit(img, r.ScaledImage(t), image.Point{})
	}
}

func (r *Rasterizer) largestLevelDiff(c hexgeo.Coord, hex *board.Hex) int {
	largest := 0
	for _, dir := range hexgeo.Directions {
		adj := r.board.HexInDir(c, dir)
		if adj == nil {
			continue
		}
		if d := abs(hex.Level - adj.Level); d > largest {
			largest = d
		}
	}
	return largest
}

// drawLargeTile paints the slice of a texture bigger than a hex that
// belongs to c, masked to the hex shape. The slice wraps on both axes.
func (r *Rasterizer) drawLargeTile(img *image.RGBA, c hexgeo.Coord, base *tiles.Tile) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("large tile draw failed", "hex", c.BoardNum(), "tile", base.Key, "panic", fmt.Sprint(p))
		}
	}()
	src := base.Image
	size := base.Size()
	if size.X <= 0 || size.Y <= 0 {
		r.log.Warn("large tile has no pixels", "hex", c.BoardNum(), "tile", base.Key)
		return
	}
	// Work at the texture's own scale so the hex slices join without gaps.
	tmp := image.NewRGBA(image.Rect(0, 0, hexgeo.HexW, hexgeo.HexH))
	gfx.Blit(tmp, r.tiles.HexMask().Image, image.Point{})
	p := hexgeo.LargeTileOrigin(c, 1)
	sx, sy := p.X%size.X, p.Y%size.Y
	for dy := 0; dy < hexgeo.HexH; {
		y := (sy + dy) % size.Y
		h := min(hexgeo.HexH-dy, size.Y-y)
		for dx := 0; dx < hexgeo.HexW; {
			x := (sx + dx) % size.X
			w := min(hexgeo.HexW-dx, size.X-x)
			gfx.DrawAtop(tmp, image.Rect(dx, dy, dx+w, dy+h), src, src.Bounds().Min.Add(image.Pt(x, y)), 1)
			dx += w
		}
		dy += h
	}
	if r.zoom == BaseZoomIndex {
		gfx.Blit(img, tmp, image.Point{})
		return
	}
	hs := hexgeo.New(r.Scale()).HexSize()
	gfx.Blit(img, gfx.Scale(tmp, hs.X, hs.Y, Kernel(r.zoom)), image.Point{})
}

// hexSides are the outline vertex pairs of each hex side, north first.
var hexSides = [6][2]int{{0, 1}, {1, 2}, {3, 4}, {4, 5}, {5, 6}, {7, 0}}

// drawAO shades the wedge of each side that faces a higher neighbour.
func (r *Rasterizer) drawAO(img *image.RGBA, c hexgeo.Coord, src *board.Hex) {
	s := r.Scale()
	outline := hexgeo.New(s).Outline()
	cx, cy := 41.5*s, 35.5*s
	for _, dir := range hexgeo.Directions {
		dest := r.board.HexInDir(c, dir)
		if dest == nil || src.Level >= dest.Level {
			continue
		}
		if r.prefs.Bool(prefs.HexInclines) && dest.Level-src.Level < 2 && !dest.HasCliffTopTowards(src) {
			continue
		}
		ld := float64(min((dest.Level-src.Level)*5, 15))
		ends := gfx.Rotate(gfx.Path{{41.5, -25 + ld}, {41.5, 8 + ld}}, float64(dir*60), 41.5, 35.5)
		grad := gfx.LinearGradient{
			P1: f64.Vec2{ends[0][0] * s, ends[0][1] * s},
			P2: f64.Vec2{ends[1][0] * s, ends[1][1] * s},
			C1: aoDark, C2: aoLight,
		}
		side := hexSides[dir]
		gfx.Fill(img, grad, gfx.Path{outline[side[0]], outline[side[1]], {cx, cy}})
	}
}

func (r *Rasterizer) drawFields(img *image.RGBA, c hexgeo.Coord) {
	s := r.Scale()
	poly := gfx.Path(hexgeo.New(s).Outline())
	if tint, ok := r.scene.ECM[c]; ok {
		gfx.FillColor(img, tint, poly)
		gfx.Blit(img, r.ScaledImage(r.tiles.ECMStatic(tint)), image.Point{})
	}
	if tint, ok := r.scene.ECCM[c]; ok {
		gfx.FillColor(img, tint, poly)
	}
	if tint, ok := r.scene.ECMCenters[c]; ok {
		border(img, s, gfx.Darker(tint), 5, 10)
	}
	if tint, ok := r.scene.ECCMCenters[c]; ok {
		border(img, s, gfx.Darker(tint), 5, 10)
	}
}

func (r *Rasterizer) drawLevels(img *image.RGBA, hex *board.Hex, face font.Face, text color.RGBA) {
	s := r.Scale()
	w := img.Rect.Dx()
	ypos := hexgeo.HexH - 2
	line := func(label string, c color.RGBA) {
		gfx.DrawCentered(img, face, label, 0, int(float64(ypos)*s), w, c)
		ypos -= 10
	}
	if hex.Level != 0 {
		line(fmt.Sprintf("LEVEL: %d", hex.Level), text)
	}
	if d := hex.Depth(); d != 0 {
		line(fmt.Sprintf("DEPTH: %d", d), text)
	}
	if h := hex.Height(); h > 0 {
		line(fmt.Sprintf("HEIGHT: %d", h), buildingColour)
	}
	if hex.TerrainLevel(board.TerrainFoliageElev) == 1 {
		line("Low Foliage", foliageColour)
	}
}

// drawFOV shades hexes outside the viewer's sight and reports whether the
// hex is in sight.
func (r *Rasterizer) drawFOV(img *image.RGBA, c hexgeo.Coord) bool {
	if r.scene.Saving || r.scene.InSight == nil || r.scene.InSight(c) {
		return true
	}
	if !r.prefs.Bool(prefs.FovDarken) {
		return false
	}
	s := r.Scale()
	poly := gfx.Path(hexgeo.New(s).Outline())
	alpha := uint8(min(max(r.prefs.Int(prefs.FovHighlightAlpha), 0), 100) * 255 / 100)
	gfx.FillColor(img, gfx.WithAlpha(black, alpha), poly)
	if stripes := min(max(r.prefs.Int(prefs.FovStripes), 0), 100); stripes > 0 {
		tmp := image.NewRGBA(img.Rect)
		sc := gfx.WithAlpha(black, uint8(stripes*255/100))
		w, h := float64(img.Rect.Dx()), float64(img.Rect.Dy())
		hw := math.Max(1, s)
		for x := -h; x < w; x += 8 * s {
			gfx.FillColor(tmp, sc, gfx.Path{{x, h}, {x + hw, h}, {x + hw + h, 0}, {x + h, 0}})
		}
		gfx.DrawAtop(img, img.Rect, tmp, image.Point{}, 1)
	}
	return false
}

func drawMapsheet(img *image.RGBA, c hexgeo.Coord, s float64) {
	p := cornerPoints(s)
	seg := func(a, b image.Point) {
		gfx.Line(img, mapsheetColour, vec(a), vec(b), 1)
	}
	switch c.X % 16 {
	case 0:
		seg(p.s21y71, p.x0y36)
		seg(p.x0y35, p.s21y0)
	case 15:
		seg(p.s62y0, p.s83y35)
		seg(p.s83y36, p.s62y71)
	}
	switch c.Y % 17 {
	case 0:
		seg(p.s21y0, p.s62y0)
		if c.X%2 == 0 {
			seg(p.s62y0, p.s83y35)
			seg(p.x0y35, p.s21y0)
		}
	case 16:
		seg(p.s62y71, p.s21y71)
		if c.X%2 == 1 {
			seg(p.s83y36, p.s62y71)
			seg(p.s21y71, p.x0y36)
		}
	}
}

// border draws a ring inside the hex outline, pad pixels from the edge
// and width pixels wide, both unscaled.
func border(img *image.RGBA, s float64, c color.Color, pad, width float64) {
	outline := gfx.Path(hexgeo.New(s).Outline())
	cx, cy, a := 41.5*s, 35.5*s, 36*s
	outer := gfx.Inset(outline, cx, cy, a, pad*s)
	inner := gfx.Inset(outline, cx, cy, a, (pad+width)*s)
	gfx.Ring(img, c, outer, inner)
}

func intList(v []int) string {
	out := ""
	for i, n := range v {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(n)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package boardview ties the rasterizer, sprites, overlays and viewport
// into the interactive board: it composes frames, maps pointer input to
// hexes, runs the redraw tick and writes board screenshots.
package boardview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/logging"
	"github.com/Garsondee/BoardView/internal/overlay"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/render"
	"github.com/Garsondee/BoardView/internal/sprites"
	"github.com/Garsondee/BoardView/internal/telemetry"
	"github.com/Garsondee/BoardView/internal/tiles"
	"github.com/Garsondee/BoardView/internal/viewport"
)

// ErrNoBoard is returned by New without a board.
var ErrNoBoard = errors.New("boardview: no board")

var (
	defaultBackground = color.RGBA{R: 54, G: 54, B: 54, A: 255}

	cursorColour    = color.RGBA{B: 255, A: 255}
	highlightColour = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	selectedColour  = color.RGBA{R: 230, G: 40, B: 230, A: 255}
	losColour       = color.RGBA{R: 255, A: 255}
)

// Config wires a BoardView. Only Board is required.
type Config struct {
	Board   *board.Board
	Tiles   tiles.Provider
	Prefs   *prefs.Preferences
	Log     logging.Logger
	Metrics *telemetry.Metrics
	// CacheSize bounds each image cache; zero uses the cache default.
	CacheSize int
	// Width and Height are the on-screen size of the view.
	Width, Height int
	// Background fills everything outside the board. Zero means a
	// default grey.
	Background color.RGBA
	// BlindDrop hides enemy deployment zones from non game masters in
	// the lounge.
	BlindDrop bool
}

// BoardView is the interactive board. Apart from the scheduler's Run,
// which only queues work, every method must be called from one goroutine.
type BoardView struct {
	board   *board.Board
	tiles   tiles.Provider
	prefs   *prefs.Preferences
	log     logging.Logger
	metrics *telemetry.Metrics

	raster *render.Rasterizer
	layer  *sprites.Layer
	view   *viewport.Viewport

	background color.RGBA
	blindDrop  bool

	snap   *game.Snapshot
	viewer *game.Player
	field  overlay.Field

	deployer      *game.Unit
	showAllDeploy bool
	artilleryMods []overlay.ArtilleryModifier
	ruler         *ruler

	cursor, highlight, selected *sprites.CursorSprite
	firstLOS, secondLOS         *sprites.CursorSprite
	lastCursor                  hexgeo.Coord
	selectedEntity              int

	moves    []*move
	moveWait time.Duration

	listeners    map[int]Listener
	nextListener int

	qmu     sync.Mutex
	pending []func()
	queued  bool

	dirty  bool
	ticks  int
	closed bool

	cancelPrefs func()
	cancelBoard func()
}

type ruler struct {
	start, end             hexgeo.Coord
	startColour, endColour color.RGBA
}

// New builds a board view over cfg.Board and subscribes to preference
// and board changes. Call Shutdown to release the subscriptions.
func New(cfg Config) (*BoardView, error) {
	if cfg.Board == nil {
		return nil, ErrNoBoard
	}
	if cfg.Log == nil {
		cfg.Log = logging.Nop()
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.New(cfg.Log)
	}
	if cfg.Tiles == nil {
		cfg.Tiles = tiles.NewProcedural()
	}
	r, err := render.New(render.Config{
		Board:     cfg.Board,
		Tiles:     cfg.Tiles,
		Prefs:     cfg.Prefs,
		Log:       cfg.Log,
		Metrics:   cfg.Metrics,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rasterizer: %w", err)
	}
	zoom := render.ClampZoom(cfg.Prefs.Int(prefs.MapZoomIndex))
	r.SetScale(zoom)
	r.SetIsometric(cfg.Prefs.Bool(prefs.Isometric))

	bv := &BoardView{
		board:          cfg.Board,
		tiles:          cfg.Tiles,
		prefs:          cfg.Prefs,
		log:            cfg.Log,
		metrics:        cfg.Metrics,
		raster:         r,
		layer:          sprites.NewLayer(cfg.Tiles),
		view:           viewport.New(cfg.Board.Width(), cfg.Board.Height(), zoom),
		background:     cfg.Background,
		blindDrop:      cfg.BlindDrop,
		field:          overlay.NewField(),
		cursor:         sprites.NewCursorSprite(cursorColour),
		highlight:      sprites.NewCursorSprite(highlightColour),
		selected:       sprites.NewCursorSprite(selectedColour),
		firstLOS:       sprites.NewCursorSprite(losColour),
		secondLOS:      sprites.NewCursorSprite(losColour),
		lastCursor:     hexgeo.Invalid,
		selectedEntity: -1,
		listeners:      make(map[int]Listener),
		dirty:          true,
	}
	if bv.background.A == 0 {
		bv.log.Warn("no board background configured, using default")
		bv.background = defaultBackground
	}
	bv.view.SetViewSize(cfg.Width, cfg.Height)
	bv.cancelPrefs = cfg.Prefs.Subscribe(func(c prefs.Change) {
		bv.post(func() { bv.preferenceChanged(c) })
	})
	bv.cancelBoard = cfg.Board.Subscribe(func(c hexgeo.Coord) {
		bv.post(func() { bv.hexChanged(c) })
	})
	return bv, nil
}

// Shutdown cancels every subscription and releases the fonts. It is
// safe to call more than once.
func (bv *BoardView) Shutdown() error {
	if bv.closed {
		return nil
	}
	bv.cancelPrefs()
	bv.cancelBoard()
	bv.qmu.Lock()
	bv.closed = true
	bv.pending = nil
	bv.qmu.Unlock()
	return bv.raster.Close()
}

// Board is the board on show.
func (bv *BoardView) Board() *board.Board { return bv.board }

// Viewport owns the scroll and zoom state.
func (bv *BoardView) Viewport() *viewport.Viewport { return bv.view }

// Sprites is the sprite layer drawn over the hexes.
func (bv *BoardView) Sprites() *sprites.Layer { return bv.layer }

// Rasterizer renders and caches the hex images.
func (bv *BoardView) Rasterizer() *render.Rasterizer { return bv.raster }

// Game is the current snapshot, nil before SetGame.
func (bv *BoardView) Game() *game.Snapshot { return bv.snap }

// SetViewSize follows a window resize.
func (bv *BoardView) SetViewSize(w, h int) {
	bv.view.SetViewSize(w, h)
	bv.repaint()
}

// NeedsRepaint reports whether anything changed since the last Render.
func (bv *BoardView) NeedsRepaint() bool { return bv.dirty }

func (bv *BoardView) repaint() {
	if !bv.dirty && bv.metrics != nil {
		telemetry.Inc(bv.metrics.Repaints)
	}
	bv.dirty = true
}

// post queues fn for the UI goroutine. Safe from any goroutine.
func (bv *BoardView) post(fn func()) {
	bv.qmu.Lock()
	defer bv.qmu.Unlock()
	if bv.closed {
		return
	}
	bv.pending = append(bv.pending, fn)
}

// Pump runs the queued work on the calling goroutine and reports how
// many items ran.
func (bv *BoardView) Pump() int {
	n := 0
	for {
		bv.qmu.Lock()
		work := bv.pending
		bv.pending = nil
		bv.qmu.Unlock()
		if len(work) == 0 {
			return n
		}
		for _, fn := range work {
			fn()
		}
		n += len(work)
	}
}

func (bv *BoardView) preferenceChanged(c prefs.Change) {
	all := c.Key == prefs.Reload
	if all || c.Key == prefs.Isometric {
		iso := bv.prefs.Bool(prefs.Isometric)
		if iso != bv.raster.Isometric() {
			bv.raster.SetIsometric(iso)
			bv.layer.Unready()
			bv.unreadyCursors()
		}
	}
	if all || c.Key == prefs.MapZoomIndex {
		if z := render.ClampZoom(bv.prefs.Int(prefs.MapZoomIndex)); z != bv.view.ZoomIndex() {
			bv.setZoom(z, nil)
		}
	}
	if all || c.Key == prefs.ShadowMap {
		bv.raster.ResetShadowMap()
	}
	switch c.Key {
	case prefs.Reload, prefs.ShadowMap, prefs.FovDarken, prefs.FovGrayscale,
		prefs.FovHighlightAlpha, prefs.FovStripes, prefs.AOHexShadows,
		prefs.DarkenMapAtNight, prefs.LevelHighlight, prefs.ShowCoords,
		prefs.ShowMapsheets, prefs.FloatingIso, prefs.HexInclines,
		prefs.ShowInvalidHexes:
		bv.raster.Clear()
	}
	bv.repaint()
}

// hexChanged refreshes a hex whose terrain changed. Neighbours draw
// elevation edges and shadows from it; with the shadow map on, so do
// the hexes its cast shadow can reach.
func (bv *BoardView) hexChanged(c hexgeo.Coord) {
	n := c.Neighbors()
	bv.raster.Invalidate(append([]hexgeo.Coord{c}, n[:]...)...)
	bv.raster.ResetShadowMap()
	if bv.prefs.Bool(prefs.ShadowMap) {
		bv.raster.Invalidate(render.ShadowReach(c)...)
	}
	bv.repaint()
}

// SetGame shows snap as seen by viewer. The hex cache is dropped when
// the light, phase or viewer changes since those tint every hex.
func (bv *BoardView) SetGame(snap *game.Snapshot, viewer *game.Player) {
	prev := bv.raster.Scene()
	next := prev
	next.Game, next.Viewer = snap, viewer
	bv.raster.SetScene(next)
	if sceneChanged(prev, next) {
		bv.raster.Clear()
	}
	bv.snap, bv.viewer = snap, viewer
	bv.refreshSprites()
	bv.UpdateECM()
	bv.repaint()
}

func sceneChanged(prev, next render.Scene) bool {
	a, b := prev.Game, next.Game
	if a == nil || b == nil {
		return a != b
	}
	if (prev.Viewer == nil) != (next.Viewer == nil) {
		return true
	}
	if prev.Viewer != nil && prev.Viewer.ID != next.Viewer.ID {
		return true
	}
	return a.Light != b.Light || a.Phase != b.Phase || a.Round != b.Round ||
		a.InSpace != b.InSpace || a.DoubleBlind != b.DoubleBlind
}

func (bv *BoardView) refreshSprites() {
	if bv.snap == nil {
		bv.layer.Clear()
		return
	}
	bv.layer.SetUnits(bv.snap, bv.viewer)
	bv.layer.SetC3(bv.snap, bv.viewer)
	bv.layer.SetAttacks(bv.snap, bv.viewer)
	bv.layer.SetFlyOvers(bv.snap, bv.viewer)
	bv.layer.SetVTOLAttacks(bv.snap)
	if bv.snap.VectorMove {
		bv.layer.SetMovementVectors(bv.snap, bv.viewer)
	} else {
		bv.layer.ClearMovementVectors()
	}
	bv.layer.SetSelected(bv.selectedEntity)
}

// RedrawEntity refreshes the sprites of one unit after it changed.
func (bv *BoardView) RedrawEntity(u *game.Unit) {
	if bv.snap == nil || u == nil {
		return
	}
	bv.layer.RedrawEntity(bv.snap, bv.viewer, u)
	bv.UpdateECM()
	bv.repaint()
}

// RemoveEntity drops every sprite referring to unit id.
func (bv *BoardView) RemoveEntity(id int) {
	bv.layer.RemoveEntity(id)
	bv.UpdateECM()
	bv.repaint()
}

// SetInSight installs the viewer's line-of-sight test for FOV shading.
func (bv *BoardView) SetInSight(fn func(hexgeo.Coord) bool) {
	s := bv.raster.Scene()
	s.InSight = fn
	bv.raster.SetScene(s)
	bv.raster.Clear()
	bv.repaint()
}

// UpdateECM recomputes the ECM and ECCM fields, invalidates the hexes
// whose tint changed and refreshes the ECM marks on unit sprites. It
// returns the invalidated coords.
func (bv *BoardView) UpdateECM() []hexgeo.Coord {
	next := overlay.NewField()
	if bv.snap != nil {
		next = overlay.ComputeECM(bv.snap, bv.viewer)
	}
	changed := overlay.Diff(bv.field, next)
	bv.raster.Invalidate(changed...)
	bv.field = next

	s := bv.raster.Scene()
	s.ECM, s.ECCM = next.ECM, next.ECCM
	s.ECMCenters, s.ECCMCenters = next.ECMCenters, next.ECCMCenters
	bv.raster.SetScene(s)
	bv.layer.SetECM(func(u *game.Unit) bool { return next.Affected[u.ID] })
	if len(changed) > 0 {
		bv.repaint()
	}
	return changed
}

// ECMField is the last computed ECM state.
func (bv *BoardView) ECMField() overlay.Field { return bv.field }

// SetDeployer highlights the legal deployment hexes of u; nil clears.
func (bv *BoardView) SetDeployer(u *game.Unit) {
	bv.deployer = u
	bv.repaint()
}

// ShowAllDeployment toggles the nested deployment zones of every player.
func (bv *BoardView) ShowAllDeployment(on bool) {
	bv.showAllDeploy = on
	bv.repaint()
}

// SetArtilleryModifiers shows the adjusted and auto-hit hexes of the
// selected weapon.
func (bv *BoardView) SetArtilleryModifiers(mods []overlay.ArtilleryModifier) {
	bv.artilleryMods = append([]overlay.ArtilleryModifier(nil), mods...)
	bv.repaint()
}

// DrawRuler shows a line from start to end shaded between the two
// colours. An Invalid start removes it.
func (bv *BoardView) DrawRuler(start, end hexgeo.Coord, startColour, endColour color.RGBA) {
	if start == hexgeo.Invalid || end == hexgeo.Invalid {
		bv.ruler = nil
	} else {
		bv.ruler = &ruler{start: start, end: end, startColour: startColour, endColour: endColour}
	}
	bv.repaint()
}

// SetPath shows a planned movement path.
func (bv *BoardView) SetPath(steps []*sprites.StepSprite) {
	bv.layer.SetPath(steps)
	bv.repaint()
}

// SetFlightPaths shows flight path indicators.
func (bv *BoardView) SetFlightPaths(fpi []*sprites.FlightPathSprite) {
	bv.layer.SetFlightPaths(fpi)
	bv.repaint()
}

// ClearTemporary drops paths, flight paths and ghosts.
func (bv *BoardView) ClearTemporary() {
	bv.layer.ClearTemporary()
	bv.repaint()
}

func (bv *BoardView) cursors() []*sprites.CursorSprite {
	return []*sprites.CursorSprite{bv.highlight, bv.selected, bv.cursor, bv.firstLOS, bv.secondLOS}
}

func (bv *BoardView) unreadyCursors() {
	for _, c := range bv.cursors() {
		c.Unready()
	}
}

// BoardSize is the unpadded board size in pixels at the current zoom.
func (bv *BoardView) BoardSize() image.Point { return bv.view.BoardSize() }

package boardview

import (
	"errors"
	"image"
	"image/draw"

	"golang.org/x/image/math/f64"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/gfx"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/overlay"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/render"
	"github.com/Garsondee/BoardView/internal/sprites"
)

// isoGhostAlpha is the opacity of the unit counters redrawn over the
// hexes in isometric mode, so units behind hills stay visible.
const isoGhostAlpha = 0.5

// frame is one composition pass.
type frame struct {
	dst *image.RGBA
	// offset maps board pixels to dst pixels.
	offset image.Point
	// vis is the part of the board that dst shows, in board pixels.
	vis image.Rectangle
	// saving leaves out cursors and planning aids.
	saving bool
	units  bool
}

func (f frame) clip() image.Rectangle { return f.dst.Bounds() }

// Render composes the visible part of the board into dst, which should be
// the size of the view. It runs queued work first.
func (bv *BoardView) Render(dst *image.RGBA) error {
	if bv.board == nil {
		return ErrNoBoard
	}
	bv.Pump()
	bv.dirty = false
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bv.background), image.Point{}, draw.Src)
	bv.paint(frame{
		dst:    dst,
		offset: bv.view.ToView(image.Point{}).Add(dst.Bounds().Min),
		vis:    bv.view.VisibleRect(),
		units:  true,
	})
	return nil
}

func (bv *BoardView) paint(f frame) {
	g := bv.raster.Geometry()
	win := overlay.WindowFor(f.vis, g.Scale)
	iso := bv.raster.Isometric()
	wrecks := bv.prefs.Bool(prefs.ShowWrecks)
	cv := overlay.Canvas{Dst: f.dst, Ctx: bv.raster, Offset: f.offset}
	clip := f.clip()

	var deploy []overlay.Border
	if !f.saving {
		deploy = bv.deploymentBorders(win)
	}
	if iso {
		bv.drawIsoHexes(f, win, deploy, wrecks)
	} else {
		for _, c := range win.Coords() {
			bv.drawHex(f, c)
		}
		if f.units && wrecks {
			sprites.DrawAll(f.dst, bv.raster, bv.layer.Wrecks(), clip, f.offset, 1)
		}
	}

	cv.DrawMinefields(bv.tiles.MinefieldSign(), overlay.MinefieldLabels(bv.board, bv.viewerID(), win))
	if bv.snap != nil {
		cv.DrawMarkers(overlay.ArtilleryMarkers(bv.snap, bv.viewer, bv.artilleryMods, bv.tiles, win))
		cv.DrawMarkers(overlay.BombardmentMarkers(bv.snap, bv.tiles, win))
	}
	if !f.saving {
		sprites.DrawAll(f.dst, bv.raster, bv.cursors(), clip, f.offset, 1)
		if !iso {
			cv.DrawBorders(deploy)
		}
	}
	if f.units {
		if iso {
			sprites.DrawAll(f.dst, bv.raster, bv.layer.OverTerrain(), clip, f.offset, 1)
		} else {
			sprites.DrawAll(f.dst, bv.raster, bv.layer.Units(), clip, f.offset, 1)
		}
		sprites.DrawAll(f.dst, bv.raster, bv.layer.C3(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.FlyOvers(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.VTOLAttacks(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.MovingSprites(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.Ghosts(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.Attacks(), clip, f.offset, 1)
		sprites.DrawAll(f.dst, bv.raster, bv.layer.Vectors(), clip, f.offset, 1)
	}
	if f.saving {
		return
	}
	sprites.DrawAll(f.dst, bv.raster, bv.layer.Path(), clip, f.offset, 1)
	sprites.DrawAll(f.dst, bv.raster, bv.layer.FlightPaths(), clip, f.offset, 1)
	if bv.snap != nil {
		cv.DrawBorders(overlay.StrafingBorders(bv.snap, win))
	}
	bv.drawRuler(f)
}

// drawIsoHexes draws the hexes back to front: per row the even columns
// and then the odd ones, which sit half a hex lower. Counters that stand
// behind terrain are drawn with their hex so that higher hexes further
// down cover them.
func (bv *BoardView) drawIsoHexes(f frame, win overlay.Window, deploy []overlay.Border, wrecks bool) {
	clip := f.clip()
	cv := overlay.Canvas{Dst: f.dst, Ctx: bv.raster, Offset: f.offset}
	byHex := make(map[hexgeo.Coord][]overlay.Border, len(deploy))
	for _, b := range deploy {
		byHex[b.Coord] = append(byHex[b.Coord], b)
	}
	var isoWrecks []*sprites.WreckSprite
	if f.units && wrecks {
		isoWrecks = bv.layer.IsoWrecks()
	}

	for y := 0; y < win.H; y++ {
		for s := 0; s <= 1; s++ {
			for x := s; x < win.W+s+1; x += 2 {
				c := hexgeo.C(x+win.X/2*2, y+win.Y)
				hex := bv.board.Hex(c)
				if hex == nil {
					continue
				}
				bv.drawHex(f, c)
				if f.units {
					sprites.DrawAll(f.dst, bv.raster, bv.layer.BehindTerrainAt(c), clip, f.offset, 1)
				}
				bv.drawOrtho(f, c, hex)
				cv.DrawBorders(byHex[c])
			}
		}
		if len(isoWrecks) == 0 {
			continue
		}
		row := y + win.Y
		for _, w := range isoWrecks {
			if w.Coord().Y == row {
				sprites.DrawSprite(f.dst, bv.raster, w, clip, f.offset, 1)
			}
		}
	}
	if f.units {
		sprites.DrawAll(f.dst, bv.raster, bv.layer.IsoUnits(), clip, f.offset, isoGhostAlpha)
	}
}

func (bv *BoardView) drawHex(f frame, c hexgeo.Coord) {
	img, err := bv.raster.Render(c)
	if errors.Is(err, render.ErrNotReady) {
		bv.repaint()
		return
	}
	if err != nil {
		bv.log.Error("hex render failed", "coord", c.String(), "error", err)
		return
	}
	if img == nil {
		return
	}
	at := bv.raster.Geometry().TopLeft(c, false).Add(f.offset)
	if !img.Bounds().Add(at).Overlaps(f.clip()) {
		return
	}
	gfx.Blit(f.dst, img, at)
}

// drawOrtho draws the bridge images of an isometric hex, lifted to the
// bridge deck and darkened at night like the hex itself.
func (bv *BoardView) drawOrtho(f frame, c hexgeo.Coord, hex *board.Hex) {
	ts := bv.tiles.OrthoFor(hex)
	if len(ts) == 0 {
		return
	}
	s := bv.raster.Scale()
	lift := int(hexgeo.HexElev * s * float64(hex.TerrainLevel(board.TerrainBridgeElev)))
	at := bv.raster.Geometry().TopLeft(c, false).Add(f.offset).Sub(image.Pt(0, lift))
	darken := bv.darkensAt(c)
	for _, t := range ts {
		img := bv.raster.ScaledImage(t)
		if img == nil {
			continue
		}
		if darken {
			cp := image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
			draw.Draw(cp, cp.Bounds(), img, img.Bounds().Min, draw.Src)
			render.Darken(cp, bv.snap.Light, c)
			img = cp
		}
		gfx.Blit(f.dst, img, at)
	}
}

func (bv *BoardView) darkensAt(c hexgeo.Coord) bool {
	if bv.snap == nil || bv.snap.InSpace || !bv.prefs.Bool(prefs.DarkenMapAtNight) {
		return false
	}
	return bv.snap.Light.Darkens() && !bv.snap.IsIlluminated(c)
}

func (bv *BoardView) viewerID() int {
	if bv.viewer == nil {
		return -1
	}
	return bv.viewer.ID
}

func (bv *BoardView) deploymentBorders(win overlay.Window) []overlay.Border {
	var out []overlay.Border
	if bv.deployer != nil {
		out = append(out, overlay.DeploymentBorders(bv.board, bv.deployer, win)...)
	}
	if bv.showAllDeploy && bv.snap != nil {
		players := overlay.DeployingPlayers(bv.snap, bv.viewer, bv.blindDrop)
		out = append(out, overlay.AllDeploymentBorders(bv.board, players, win)...)
	}
	return out
}

// drawRuler strokes the ruler between the two hex centres, shading from
// the start colour to the end colour.
func (bv *BoardView) drawRuler(f frame) {
	if bv.ruler == nil {
		return
	}
	g := bv.raster.Geometry()
	a := g.Center(bv.ruler.start, false).Add(f.offset)
	b := g.Center(bv.ruler.end, false).Add(f.offset)
	p1 := f64.Vec2{float64(a.X), float64(a.Y)}
	p2 := f64.Vec2{float64(b.X), float64(b.Y)}
	grad := gfx.LinearGradient{P1: p1, P2: p2, C1: bv.ruler.startColour, C2: bv.ruler.endColour}
	gfx.Fill(f.dst, grad, gfx.LinePath(p1, p2, 2*g.Scale+1))
}

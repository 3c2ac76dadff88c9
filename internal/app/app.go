// Package app hosts a BoardView in an ebiten window: it feeds mouse,
// wheel and keyboard input to the view, uploads the composed frame and
// draws a HUD and an event panel beside the board.
package app

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Garsondee/BoardView/internal/boardview"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/logging"
	"github.com/Garsondee/BoardView/internal/prefs"
)

// Config wires an App.
type Config struct {
	View   *boardview.BoardView
	Prefs  *prefs.Preferences
	Events *boardview.EventLog
	Log    logging.Logger
	// Clipboard receives copied text; clipboard.WriteAll when nil.
	Clipboard func(string) error
	// ScreenshotDir is where P writes board images.
	ScreenshotDir string
}

// App is an ebiten.Game around one BoardView.
type App struct {
	bv        *boardview.BoardView
	prefs     *prefs.Preferences
	events    *boardview.EventLog
	log       logging.Logger
	clip      func(string) error
	shotDir   string
	cancelEvt func()

	width, height int
	frame         *image.RGBA
	img           *ebiten.Image

	prevKeys    map[ebiten.Key]bool
	prevButtons [3]bool
	lastClick   time.Time
	clickAt     hexgeo.Coord
	dragFrom    hexgeo.Coord
	hover       hexgeo.Coord
	tip         tooltip
	walking     map[int]hexgeo.Coord
	showHUD     bool
	status      string
	quit        bool
}

// New returns an App over cfg.View. Clicks select the hex and any unit
// standing on it; a right click highlights.
func New(cfg Config) *App {
	if cfg.Log == nil {
		cfg.Log = logging.Nop()
	}
	if cfg.Events == nil {
		cfg.Events = boardview.NewEventLog()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	a := &App{
		bv:       cfg.View,
		prefs:    cfg.Prefs,
		events:   cfg.Events,
		log:      cfg.Log,
		clip:     cfg.Clipboard,
		shotDir:  cfg.ScreenshotDir,
		prevKeys: make(map[ebiten.Key]bool),
		clickAt:  hexgeo.Invalid,
		dragFrom: hexgeo.Invalid,
		hover:    hexgeo.Invalid,
		tip:      tooltip{hex: hexgeo.Invalid},
		walking:  make(map[int]hexgeo.Coord),
		showHUD:  true,
	}
	a.cancelEvt = a.bv.AddListener(a.onEvent)
	return a
}

func (a *App) onEvent(e boardview.Event) {
	a.events.Record(e)
	switch e.Kind {
	case boardview.HexClicked:
		a.bv.Select(e.Coord)
		if u := unitAt(a.bv.Game(), e.Coord); u != nil {
			a.bv.SelectEntity(u.ID)
		}
	case boardview.HexDoubleClicked:
		a.bv.CenterOnHex(e.Coord)
	case boardview.HexPopup:
		a.bv.Highlight(e.Coord)
	case boardview.FinishedMovingUnits:
		a.arrive()
	}
}

// Update runs the queued board work and applies this frame's input.
func (a *App) Update() error {
	a.bv.Pump()
	a.apply(sample())
	if a.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw uploads the board frame when it changed and draws the overlays.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 14, A: 255})
	if a.frame != nil {
		if a.bv.NeedsRepaint() {
			if err := a.bv.Render(a.frame); err != nil {
				a.log.Error("failed to render board", "error", err)
			}
			a.img.WritePixels(a.frame.Pix)
		}
		screen.DrawImage(a.img, nil)
	}
	drawPanel(screen, a.events, a.boardWidth(), a.height)
	if a.showHUD {
		a.drawHUD(screen)
		a.drawTooltip(screen)
	}
}

// Layout keeps the logical screen at the window size and resizes the
// board area to everything left of the event panel.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	bw := a.boardWidth()
	if bw <= 0 || h <= 0 {
		a.frame, a.img = nil, nil
		return
	}
	a.frame = image.NewRGBA(image.Rect(0, 0, bw, h))
	if a.img != nil {
		a.img.Deallocate()
	}
	a.img = ebiten.NewImage(bw, h)
	a.bv.SetViewSize(bw, h)
}

func (a *App) boardWidth() int { return a.width - panelWidth }

func (a *App) drawHUD(screen *ebiten.Image) {
	s := a.bv.Viewport().Scale()
	at := "----"
	if a.hover != hexgeo.Invalid {
		at = a.hover.BoardNum()
	}
	lines := []string{
		fmt.Sprintf("hex %s  zoom %.2f  iso %v", at, s, a.bv.Rasterizer().Isometric()),
		fmt.Sprintf("tick %d  moving %d  fps %.0f", a.bv.Ticks(), a.bv.MovingUnits(), ebiten.ActualFPS()),
		"WASD pan  wheel zoom  I iso  C copy  M move  P shot  H hud",
	}
	if a.status != "" {
		lines = append(lines, a.status)
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 6, 4+i*14)
	}
}

// walkSelected sends the selected unit to the hovered hex, one
// neighbouring hex at a time.
func (a *App) walkSelected() {
	snap := a.bv.Game()
	if snap == nil || a.hover == hexgeo.Invalid {
		return
	}
	u := snap.Unit(a.bv.SelectedEntity())
	if !u.HasPosition() || u.Position == a.hover {
		return
	}
	steps := pathTo(u.Position, a.hover, u.Elevation)
	a.bv.AddMovingUnit(u, steps)
	a.walking[u.ID] = a.hover
}

// arrive moves walked units to their destination in the snapshot.
func (a *App) arrive() {
	snap := a.bv.Game()
	if snap == nil {
		return
	}
	for id, dest := range a.walking {
		if u := snap.Unit(id); u != nil {
			if u.Position != dest {
				u.Facing = facingTowards(u.Position, dest)
			}
			u.Position = dest
			a.bv.RedrawEntity(u)
		}
	}
	a.walking = make(map[int]hexgeo.Coord)
	a.bv.UpdateECM()
}

func (a *App) screenshot() {
	name := fmt.Sprintf("board_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(a.shotDir, name)
	if err := a.bv.WriteScreenshot(path, false); err != nil {
		a.status = "screenshot failed: " + err.Error()
		return
	}
	a.status = "wrote " + path
}

func (a *App) copyHover() {
	if a.hover == hexgeo.Invalid {
		return
	}
	if err := a.clip(a.hover.BoardNum()); err != nil {
		a.log.Warn("failed to copy to clipboard", "error", err)
		a.status = "clipboard unavailable"
		return
	}
	a.status = "copied " + a.hover.BoardNum()
}

// Close detaches the App from its view.
func (a *App) Close() {
	a.cancelEvt()
	if a.img != nil {
		a.img.Deallocate()
	}
}

// pathTo walks from one hex to another by always taking the neighbour
// closest to the goal.
func pathTo(from, to hexgeo.Coord, elevation int) []boardview.Step {
	var steps []boardview.Step
	for at := from; at != to; {
		best, dir := at, 0
		for d, n := range at.Neighbors() {
			if n.Distance(to) < best.Distance(to) {
				best, dir = n, d
			}
		}
		if best == at {
			break
		}
		at = best
		steps = append(steps, boardview.Step{Coord: at, Facing: dir, Elevation: elevation})
	}
	return steps
}

func facingTowards(from, to hexgeo.Coord) int {
	steps := pathTo(from, to, 0)
	if len(steps) == 0 {
		return 0
	}
	return steps[len(steps)-1].Facing
}

var _ ebiten.Game = (*App)(nil)

// unitAt is the first unit standing on c.
func unitAt(snap *game.Snapshot, c hexgeo.Coord) *game.Unit {
	if snap == nil {
		return nil
	}
	if us := snap.UnitsAt(c); len(us) > 0 {
		return us[0]
	}
	return nil
}

package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/BoardView/internal/boardview"
)

const (
	panelWidth      = 280
	panelLineHeight = 14
	panelTitle      = 18
	panelRecent     = 3 // latest lines get a highlight row
)

var (
	panelBg     = color.RGBA{R: 14, G: 14, B: 18, A: 248}
	panelEdge   = color.RGBA{R: 60, G: 60, B: 80, A: 255}
	panelHeader = color.RGBA{R: 26, G: 26, B: 36, A: 255}
	panelRow    = color.RGBA{R: 34, G: 34, B: 48, A: 160}
)

// kindColour is the marker dot drawn before each event line.
func kindColour(k boardview.EventKind) color.RGBA {
	switch k {
	case boardview.HexClicked, boardview.HexDoubleClicked, boardview.HexSelected:
		return color.RGBA{R: 230, G: 40, B: 230, A: 255}
	case boardview.FirstLOSHex, boardview.SecondLOSHex:
		return color.RGBA{R: 220, G: 60, B: 60, A: 255}
	case boardview.FinishedMovingUnits:
		return color.RGBA{R: 80, G: 200, B: 90, A: 255}
	default:
		return color.RGBA{R: 90, G: 120, B: 220, A: 255}
	}
}

// panelLines returns the entries that fit in a panel h pixels tall,
// oldest first. Cursor moves are left out; they would flood the panel.
func panelLines(log *boardview.EventLog, h int) []boardview.LogEntry {
	max := (h - panelTitle - 6) / panelLineHeight
	if max <= 0 {
		return nil
	}
	var out []boardview.LogEntry
	for _, e := range log.Entries() {
		if e.Kind != boardview.HexCursor {
			out = append(out, e)
		}
	}
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

// drawPanel renders the event panel at the right edge of the window.
func drawPanel(screen *ebiten.Image, log *boardview.EventLog, x, h int) {
	fx, fh := float32(x), float32(h)
	vector.FillRect(screen, fx, 0, panelWidth, fh, panelBg, false)
	vector.StrokeLine(screen, fx, 0, fx, fh, 1, panelEdge, false)
	vector.FillRect(screen, fx, 0, panelWidth, panelTitle, panelHeader, false)
	ebitenutil.DebugPrintAt(screen, "BOARD EVENTS", x+8, 1)
	vector.StrokeLine(screen, fx, panelTitle, fx+panelWidth, panelTitle, 1, panelEdge, false)

	lines := panelLines(log, h)
	y := panelTitle + 4
	for i, e := range lines {
		if i >= len(lines)-panelRecent {
			vector.FillRect(screen, fx+2, float32(y), panelWidth-4, panelLineHeight, panelRow, false)
		}
		vector.FillRect(screen, fx+5, float32(y+4), 3, 6, kindColour(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, e.String(), x+12, y-1)
		y += panelLineHeight
	}
}

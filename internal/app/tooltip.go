package app

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
)

// tooltip is the hex description that follows the pointer. It stays
// anchored while the pointer wanders less than the suppression distance
// and hides once the dismiss delay has run out; a negative delay keeps it
// up until the pointer moves on.
type tooltip struct {
	anchor  image.Point
	hex     hexgeo.Coord
	since   time.Time
	armed   bool
	visible bool
}

// update places the tooltip for the pointer at p over c and reports
// whether it shows.
func (t *tooltip) update(p image.Point, c hexgeo.Coord, now time.Time, dist int, dismiss time.Duration) bool {
	if c == hexgeo.Invalid {
		*t = tooltip{hex: hexgeo.Invalid}
		return false
	}
	d := p.Sub(t.anchor)
	if !t.armed || d.X*d.X+d.Y*d.Y > dist*dist {
		t.anchor, t.hex, t.since = p, c, now
		t.armed, t.visible = true, true
	}
	if dismiss >= 0 && now.Sub(t.since) >= dismiss {
		t.visible = false
	}
	return t.visible
}

func (a *App) updateTooltip(in frameInput, c hexgeo.Coord) {
	dist, dismiss := 2, time.Duration(-1)
	if a.prefs != nil {
		dist = a.prefs.Int(prefs.TooltipDistSuppression)
		dismiss = a.prefs.Millis(prefs.TooltipDismissDelay)
	}
	a.tip.update(in.cursor, c, in.now, dist, dismiss)
}

// tooltipLines describes the hex at c and the units on it.
func tooltipLines(b *board.Board, snap *game.Snapshot, c hexgeo.Coord) []string {
	hex := b.Hex(c)
	if hex == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("%s  level %d", c.BoardNum(), hex.Level)}
	var ts []string
	for _, v := range hex.Terrains() {
		ts = append(ts, fmt.Sprintf("%s:%d", v.Kind, v.Level))
	}
	if len(ts) > 0 {
		lines = append(lines, strings.Join(ts, " "))
	}
	if snap != nil {
		for _, u := range snap.UnitsAt(c) {
			lines = append(lines, u.Name)
		}
	}
	return lines
}

func (a *App) drawTooltip(screen *ebiten.Image) {
	if !a.tip.visible {
		return
	}
	at := a.tip.anchor.Add(image.Pt(14, 14))
	for i, l := range tooltipLines(a.bv.Board(), a.bv.Game(), a.tip.hex) {
		ebitenutil.DebugPrintAt(screen, l, at.X, at.Y+i*14)
	}
}

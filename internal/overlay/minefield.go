package overlay

import (
	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

// MineLabel is the sign and text shown on a mined hex.
type MineLabel struct {
	Coord hexgeo.Coord
	Lines []string
}

// MinefieldLabels lists the mined hexes in the window. A hex holding more
// than one minefield only says so.
func MinefieldLabels(b *board.Board, viewer int, w Window) []MineLabel {
	if b == nil {
		return nil
	}
	var out []MineLabel
	for _, c := range b.MinedCoords() {
		if !w.Contains(c) || !b.Contains(c) {
			continue
		}
		mf := b.Minefields(c)
		l := MineLabel{Coord: c}
		switch {
		case len(mf) > 1:
			l.Lines = []string{"Multiple"}
		case len(mf) == 1:
			l.Lines = mf[0].Label(viewer)
		}
		out = append(out, l)
	}
	return out
}

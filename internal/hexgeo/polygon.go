package hexgeo

import (
	"image"

	"golang.org/x/image/math/f64"
)

// PolygonContains is an even-odd crossing test of (x,y) against poly.
// Points on a top or left edge count as inside.
func PolygonContains(poly []f64.Vec2, x, y float64) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > y) == (yj > y) {
			continue
		}
		// X of the edge at height y.
		xCross := xj + (y-yj)*(xi-xj)/(yi-yj)
		if x < xCross {
			inside = !inside
		}
	}
	return inside
}

// SegmentPoints returns the hex line from a to b, sampling center to
// center, used by the ruler and the LOS markers.
func SegmentPoints(a, b Coord) []Coord {
	n := a.Distance(b)
	if n == 0 {
		return []Coord{a}
	}
	ax, ay := unitOrigin(a)
	bx, by := unitOrigin(b)
	out := make([]Coord, 0, n+1)
	last := Invalid
	g := New(1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		// Nudge off exact vertices so ties resolve consistently.
		px := ax + (bx-ax)*t + HexW/2 + 1e-3
		py := ay + (by-ay)*t + HexH/2 + 1e-3
		c := g.PixelToCoord(pt(px, py))
		if c != last {
			out = append(out, c)
			last = c
		}
	}
	return out
}

func pt(x, y float64) image.Point {
	return image.Pt(int(x), int(y))
}

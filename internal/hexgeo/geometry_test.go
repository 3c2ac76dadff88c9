package hexgeo

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZooms = []float64{0.30, 0.41, 0.50, 0.60, 0.68, 0.79, 0.90, 1.00, 1.09, 1.17, 1.30, 1.60, 2.00, 3.00}

func TestTranslated_EvenColumn(t *testing.T) {
	c := C(2, 2)
	want := [6]Coord{{2, 1}, {3, 1}, {3, 2}, {2, 3}, {1, 2}, {1, 1}}
	assert.Equal(t, want, c.Neighbors())
}

func TestTranslated_OddColumn(t *testing.T) {
	c := C(3, 2)
	want := [6]Coord{{3, 1}, {4, 2}, {4, 3}, {3, 3}, {2, 3}, {2, 2}}
	assert.Equal(t, want, c.Neighbors())
}

func TestNeighbors_AreDistanceOne(t *testing.T) {
	for _, c := range []Coord{{0, 0}, {3, 2}, {4, 7}, {-1, 3}} {
		for _, n := range c.Neighbors() {
			if d := c.Distance(n); d != 1 {
				t.Fatalf("distance %v->%v = %d, want 1", c, n, d)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, C(4, 4).Distance(C(4, 4)))
	assert.Equal(t, 2, C(0, 0).Distance(C(2, 0)))
	assert.Equal(t, 3, C(0, 0).Distance(C(0, 3)))
	assert.Equal(t, C(1, 5).Distance(C(6, 2)), C(6, 2).Distance(C(1, 5)))
}

func TestBoardNum(t *testing.T) {
	assert.Equal(t, "0101", C(0, 0).BoardNum())
	assert.Equal(t, "1617", C(15, 16).BoardNum())
}

func TestInNoseArc(t *testing.T) {
	src := C(5, 5)
	assert.True(t, src.InNoseArc(0, C(5, 2)), "north target is ahead of a north-facing unit")
	assert.False(t, src.InNoseArc(0, C(5, 8)), "south target is behind a north-facing unit")
	assert.True(t, src.InNoseArc(3, C(5, 8)))
	assert.True(t, src.InNoseArc(-1, C(5, 8)), "omnidirectional covers everything")
	assert.True(t, src.InNoseArc(2, src))
}

func TestBoardSize_BaseScale(t *testing.T) {
	g := New(1)
	assert.Equal(t, image.Pt(16*63+21, 17*72+36), g.BoardSize(16, 17))
}

func TestTopLeft_OddColumnShift(t *testing.T) {
	g := New(1)
	assert.Equal(t, image.Pt(0, 72), g.TopLeft(C(0, 1), false))
	assert.Equal(t, image.Pt(63, 36), g.TopLeft(C(1, 0), false))
}

func TestTopLeft_IsometricLift(t *testing.T) {
	g := New(1)
	g.Isometric = true
	g.Level = func(c Coord) (int, bool) { return 3, true }
	assert.Equal(t, image.Pt(0, 72-36), g.TopLeft(C(0, 1), false))
	assert.Equal(t, image.Pt(0, 72), g.TopLeft(C(0, 1), true), "ignoreElev skips the lift")
}

func TestPixelToCoord_CenterRoundTrip(t *testing.T) {
	for _, s := range testZooms {
		g := New(s)
		for x := 0; x < 16; x++ {
			for y := 0; y < 17; y++ {
				c := C(x, y)
				got := g.PixelToCoord(g.Center(c, true))
				if got != c {
					t.Fatalf("scale %.2f: center of %v mapped to %v", s, c, got)
				}
			}
		}
	}
}

func TestPixelToCoord_OddColumnHalfShift(t *testing.T) {
	g := New(1)
	// Board pixel (83, 72): inside column 1, the shifted cell of row 0.
	assert.Equal(t, C(1, 0), g.PixelToCoord(image.Pt(83, 72)))
	// The same x one row higher falls into the off-board cell (1,-1).
	assert.Equal(t, C(1, -1), g.PixelToCoord(image.Pt(83, 0)))
}

func TestPixelToCoord_HitIsInsidePolygon(t *testing.T) {
	for _, s := range []float64{0.5, 1, 1.6} {
		g := New(s)
		size := g.BoardSize(6, 6)
		for py := 0; py < size.Y; py += 3 {
			for px := 0; px < size.X; px += 3 {
				p := image.Pt(px, py)
				c := g.PixelToCoord(p)
				if g.Contains(c, p) {
					continue
				}
				// Only truncation gaps may miss; nothing nearby may contain p.
				for dx := -2; dx <= 2; dx++ {
					for dy := -2; dy <= 2; dy++ {
						n := C(c.X+dx, c.Y+dy)
						require.False(t, g.Contains(n, p), "scale %.2f: %v returned %v but %v contains it", s, p, c, n)
					}
				}
			}
		}
	}
}

func TestPolygonContains_Edges(t *testing.T) {
	poly := New(1).Polygon(C(0, 0))
	assert.True(t, PolygonContains(poly, 42, 36))
	assert.False(t, PolygonContains(poly, 1, 1), "corner outside the slanted edge")
	assert.False(t, PolygonContains(poly, 90, 36))
}

func TestSegmentPoints_Endpoints(t *testing.T) {
	line := SegmentPoints(C(0, 0), C(0, 3))
	require.Len(t, line, 4)
	assert.Equal(t, C(0, 0), line[0])
	assert.Equal(t, C(0, 3), line[3])

	diag := SegmentPoints(C(1, 1), C(6, 4))
	assert.Equal(t, C(1, 1), diag[0])
	assert.Equal(t, C(6, 4), diag[len(diag)-1])
}

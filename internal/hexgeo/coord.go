// Package hexgeo maps flat-top offset hex addresses to board pixels.
//
// Columns are laid out with a stride of three quarters of a hex width and
// odd columns sit half a hex lower, which gives a gapless honeycomb at any
// scale as long as the integer-truncated strides are used consistently.
package hexgeo

import (
	"fmt"
	"math"
)

// Coord is an offset hex address (column X, row Y).
type Coord struct {
	X int
	Y int
}

// Invalid is the "no hit" sentinel returned by pixel lookups.
var Invalid = Coord{X: -1, Y: -1}

// Directions lists the six hex sides, 0 = north, clockwise.
var Directions = [6]int{0, 1, 2, 3, 4, 5}

// C is shorthand for Coord{x, y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Translated returns the neighbor on side dir.
func (c Coord) Translated(dir int) Coord {
	return Coord{X: xInDir(c.X, dir), Y: yInDir(c.X, c.Y, dir)}
}

func xInDir(x, dir int) int {
	switch dir {
	case 1, 2:
		return x + 1
	case 4, 5:
		return x - 1
	default:
		return x
	}
}

func yInDir(x, y, dir int) int {
	switch dir {
	case 0:
		return y - 1
	case 1, 5:
		return y - ((x + 1) & 1)
	case 2, 4:
		return y + (x & 1)
	case 3:
		return y + 1
	default:
		return y
	}
}

// Neighbors returns the six adjacent coords in direction order.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for _, dir := range Directions {
		out[dir] = c.Translated(dir)
	}
	return out
}

// cube converts the odd-column offset address to cube coordinates.
func (c Coord) cube() (q, r, s int) {
	q = c.X
	r = c.Y - (c.X-(c.X&1))/2
	return q, r, -q - r
}

// Distance is the hex step distance between two coords.
func (c Coord) Distance(o Coord) int {
	q1, r1, s1 := c.cube()
	q2, r2, s2 := o.cube()
	return (abs(q1-q2) + abs(r1-r2) + abs(s1-s2)) / 2
}

// DegreesTo returns the compass bearing from c to o, 0 = north, clockwise.
func (c Coord) DegreesTo(o Coord) float64 {
	cx, cy := unitOrigin(c)
	ox, oy := unitOrigin(o)
	deg := math.Atan2(ox-cx, cy-oy) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// InNoseArc reports whether o lies in the forward arc of a unit at c
// facing dir. A dir of -1 means omnidirectional.
func (c Coord) InNoseArc(dir int, o Coord) bool {
	if dir < 0 || c == o {
		return true
	}
	fa := math.Mod(c.DegreesTo(o)-float64(dir*60)+720, 360)
	return fa > 300 || fa < 60
}

// BoardNum is the printed XXYY label (1-based).
func (c Coord) BoardNum() string {
	return fmt.Sprintf("%02d%02d", c.X+1, c.Y+1)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func unitOrigin(c Coord) (float64, float64) {
	x := float64(c.X) * HexWC
	y := float64(c.Y) * HexH
	if c.X&1 == 1 {
		y += HexH / 2
	}
	return x, y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

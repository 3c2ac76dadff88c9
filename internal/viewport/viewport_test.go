package viewport

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/render"
)

func newView(t *testing.T) *Viewport {
	t.Helper()
	v := New(20, 20, render.BaseZoomIndex)
	v.SetViewSize(640, 480)
	return v
}

func TestSizes(t *testing.T) {
	v := newView(t)
	assert.Equal(t, image.Pt(1281, 1476), v.BoardSize())
	assert.Equal(t, image.Pt(1449, 1620), v.PanelSize())
	assert.Equal(t, 1.0, v.Scale())
}

func TestSetScroll_Clamped(t *testing.T) {
	v := newView(t)
	v.SetScroll(image.Pt(-5, 99999))
	assert.Equal(t, image.Pt(0, 1140), v.Origin())

	v.Scroll(30, -40)
	assert.Equal(t, image.Pt(30, 1100), v.Origin())

	// A window larger than the panel pins the scroll at zero.
	v.SetViewSize(5000, 5000)
	assert.Equal(t, image.Point{}, v.Origin())
}

func TestCenterOnPointRel(t *testing.T) {
	v := newView(t)
	v.CenterOnPointRel(0.5, 0.5)
	assert.Equal(t, image.Pt(404, 570), v.Origin())

	a := v.VisibleArea()
	assert.InDelta(t, 0.5, (a[0]+a[2])/2, 0.001)
	assert.InDelta(t, 0.5, (a[1]+a[3])/2, 0.001)

	v.CenterOnPointRel(-3, 7)
	assert.Equal(t, v.Origin(), func() image.Point {
		w := newView(t)
		w.CenterOnPointRel(0, 1)
		return w.Origin()
	}())
}

func TestToBoardToView_RoundTrip(t *testing.T) {
	v := newView(t)
	v.SetScroll(image.Pt(200, 300))
	for _, p := range []image.Point{{0, 0}, {17, 401}, {639, 479}} {
		assert.Equal(t, p, v.ToView(v.ToBoard(p)))
	}
	assert.Equal(t, image.Pt(116, 228), v.ToBoard(image.Point{}))
	assert.Equal(t, image.Rect(116, 228, 756, 708), v.VisibleRect())
}

func TestAdjustVisiblePosition_KeepsHexUnderPointer(t *testing.T) {
	v := newView(t)
	for zoom := range render.ZoomFactors {
		v.SetZoomIndex(zoom)
		g := hexgeo.New(v.Scale())
		c := g.Center(hexgeo.C(9, 9), true)
		disp := image.Pt(300, 200)
		v.AdjustVisiblePosition(c, disp, 0, 0)
		o, m := v.Origin(), v.PanelSize().Sub(v.ViewSize())
		if o.X > 0 && o.Y > 0 && o.X < m.X && o.Y < m.Y {
			assert.Equal(t, disp, v.ToView(c), "zoom %d", zoom)
		}
	}
}

func TestZoom_BoundsAndStopsSoftCentering(t *testing.T) {
	v := newView(t)
	v.StartSoftCenter(image.Pt(600, 700))
	require.True(t, v.SoftCentering())

	assert.True(t, v.ZoomIn())
	assert.False(t, v.SoftCentering())
	assert.Equal(t, render.BaseZoomIndex+1, v.ZoomIndex())

	assert.True(t, v.SetZoomIndex(99))
	assert.Equal(t, len(render.ZoomFactors)-1, v.ZoomIndex())
	assert.False(t, v.ZoomIn())

	v.SetZoomIndex(0)
	assert.False(t, v.ZoomOut())
	assert.Equal(t, 0, v.ZoomIndex())
}

func TestSoftCenter_Converges(t *testing.T) {
	v := newView(t)
	target := hexgeo.New(1).Center(hexgeo.C(10, 10), true)
	v.StartSoftCenter(target)

	assert.False(t, v.StepSoftCenter(10*time.Millisecond), "waits for the interval")

	steps := 0
	for v.SoftCentering() && steps < 500 {
		v.StepSoftCenter(SoftCenterInterval)
		steps++
	}
	require.False(t, v.SoftCentering())
	assert.Greater(t, steps, 10)
	assert.Less(t, steps, 200)

	tx, ty := v.SoftTarget()
	a := v.VisibleArea()
	assert.InDelta(t, tx, (a[0]+a[2])/2, 0.002)
	assert.InDelta(t, ty, (a[1]+a[3])/2, 0.002)
}

func TestSoftCenter_TargetClampedAtEdges(t *testing.T) {
	v := newView(t)
	v.StartSoftCenter(image.Point{})
	tx, ty := v.SoftTarget()
	assert.InDelta(t, (320.0-84)/1281, tx, 1e-9)
	assert.InDelta(t, (240.0-72)/1476, ty, 1e-9)

	v.StartSoftCenter(v.BoardSize())
	tx, ty = v.SoftTarget()
	assert.InDelta(t, (1281.0+84-320)/1281, tx, 1e-9)
	assert.InDelta(t, (1476.0+72-240)/1476, ty, 1e-9)
}

package sprites

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

type fakeCtx struct {
	s   float64
	iso bool
}

func (f fakeCtx) Geometry() hexgeo.Geometry {
	g := hexgeo.New(f.s)
	g.Isometric = f.iso
	return g
}
func (f fakeCtx) Scale() float64            { return f.s }
func (f fakeCtx) Face() font.Face           { return basicfont.Face7x13 }
func (f fakeCtx) ScaledImage(t *tiles.Tile) image.Image {
	if t == nil {
		return nil
	}
	return t.Image
}

func snapshot() *game.Snapshot {
	me := &game.Player{ID: 1, Team: 1, Colour: color.RGBA{R: 200, A: 255}}
	foe := &game.Player{ID: 2, Team: 2, Colour: color.RGBA{B: 200, A: 255}}
	return &game.Snapshot{
		Players: []*game.Player{me, foe},
		Units: []*game.Unit{
			{ID: 1, Name: "Atlas", Owner: 1, Position: hexgeo.C(2, 2), C3Master: game.NoC3},
			{ID: 2, Name: "Dropship", Owner: 1, Position: hexgeo.C(5, 5), C3Master: 1,
				Secondary: map[int]hexgeo.Coord{0: hexgeo.C(5, 5), 1: hexgeo.C(5, 4), 2: hexgeo.C(6, 4)}},
			{ID: 3, Name: "Lurker", Owner: 2, Position: hexgeo.C(7, 7), Hidden: true, C3Master: game.NoC3},
			{ID: 4, Name: "Reserve", Owner: 1, Position: hexgeo.Invalid, C3Master: game.NoC3},
			{ID: 5, Name: "Fighter", Owner: 2, Position: hexgeo.C(3, 1), Aero: true, Altitude: 4,
				C3Master: game.NoC3, PassedThrough: []hexgeo.Coord{hexgeo.C(0, 1), hexgeo.C(3, 1)}},
		},
		Attacks: []game.Attack{{AttackerID: 5, TargetID: 1}},
	}
}

func newLayer(t *testing.T) (*Layer, *game.Snapshot, *game.Player) {
	t.Helper()
	snap := snapshot()
	l := NewLayer(tiles.NewProcedural())
	viewer := snap.Players[0]
	l.SetUnits(snap, viewer)
	l.SetC3(snap, viewer)
	l.SetAttacks(snap, viewer)
	l.SetFlyOvers(snap, viewer)
	return l, snap, viewer
}

func TestSetUnits_OneSpritePerOccupiedHex(t *testing.T) {
	l, _, _ := newLayer(t)

	keys := map[Key]bool{}
	for _, s := range l.Units() {
		assert.False(t, keys[s.Key()], "duplicate sprite for %v", s.Key())
		keys[s.Key()] = true
	}
	assert.True(t, keys[Key{ID: 1, Secondary: -1}])
	for i := 0; i < 3; i++ {
		assert.True(t, keys[Key{ID: 2, Secondary: i}])
	}
	assert.False(t, keys[Key{ID: 3, Secondary: -1}], "hidden enemies get no sprite")
	assert.False(t, keys[Key{ID: 4, Secondary: -1}], "undeployed units get no sprite")
	assert.Len(t, l.Units(), 5)
	assert.Len(t, l.IsoUnits(), 5)
}

func TestUnits_DrawOrderByPriority(t *testing.T) {
	l, _, _ := newLayer(t)
	units := l.Units()
	require.NotEmpty(t, units)
	assert.Equal(t, 5, units[len(units)-1].Unit().ID, "aircraft draw last")
}

func TestIsometricPartition(t *testing.T) {
	l, _, _ := newLayer(t)
	behind := l.BehindTerrainAt(hexgeo.C(2, 2))
	require.Len(t, behind, 1)
	assert.True(t, behind[0].BehindTerrain())

	over := l.OverTerrain()
	require.Len(t, over, 1)
	assert.Equal(t, 5, over[0].(*UnitSprite).Unit().ID)
}

func TestRemoveEntity_DropsEveryReference(t *testing.T) {
	l, _, _ := newLayer(t)
	require.NotEmpty(t, l.C3())
	require.NotEmpty(t, l.Attacks())
	require.NotEmpty(t, l.FlyOvers())

	l.RemoveEntity(1)
	l.RemoveEntity(5)
	for _, s := range l.All() {
		if e, ok := s.(EntitySprite); ok {
			assert.False(t, e.References(1), "%T still refers to unit 1", s)
			assert.False(t, e.References(5), "%T still refers to unit 5", s)
		}
	}
	assert.Empty(t, l.C3(), "C3 link to master 1 is gone")
	assert.Empty(t, l.Attacks())
	assert.Empty(t, l.FlyOvers())
}

func TestRedrawEntity_SwapsCollections(t *testing.T) {
	l, snap, viewer := newLayer(t)
	before := l.Units()
	n := len(before)

	u := snap.Unit(1)
	u.Position = hexgeo.C(3, 3)
	l.RedrawEntity(snap, viewer, u)

	assert.Len(t, before, n, "a draw iterating the old list is unaffected")
	s, ok := l.Unit(Key{ID: 1, Secondary: -1})
	require.True(t, ok)
	assert.Equal(t, hexgeo.C(3, 3), s.Coord())
	assert.Len(t, l.C3(), 1, "links to the redrawn master are rebuilt")

	u.Position = hexgeo.Invalid
	l.RedrawEntity(snap, viewer, u)
	_, ok = l.Unit(Key{ID: 1, Secondary: -1})
	assert.False(t, ok)
	assert.Empty(t, l.C3())
}

func TestDestroyedUnitsBecomeWrecks(t *testing.T) {
	l, snap, viewer := newLayer(t)
	u := snap.Unit(1)
	u.Destroyed = true
	l.RedrawEntity(snap, viewer, u)

	_, ok := l.Unit(Key{ID: 1, Secondary: -1})
	assert.False(t, ok)
	require.Len(t, l.Wrecks(), 1)
	assert.Equal(t, hexgeo.C(2, 2), l.Wrecks()[0].Coord())
	assert.Len(t, l.IsoWrecks(), 1)
}

func TestSelectionAndECMUnreadySprites(t *testing.T) {
	l, _, _ := newLayer(t)
	ctx := fakeCtx{s: 1}
	l.PrepareAll(ctx)
	s, ok := l.Unit(Key{ID: 1, Secondary: -1})
	require.True(t, ok)
	require.True(t, s.Ready())

	l.SetSelected(1)
	assert.False(t, s.Ready())
	s.Prepare(ctx)

	l.SetECM(func(u *game.Unit) bool { return u.ID == 1 })
	assert.True(t, s.AffectedByECM())
	assert.False(t, s.Ready())
}

func TestCursor_HiddenUntilPlaced(t *testing.T) {
	ctx := fakeCtx{s: 1}
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	c := NewCursorSprite(color.RGBA{R: 255, A: 255})
	DrawSprite(dst, ctx, c, dst.Rect, image.Point{}, 1)
	assert.False(t, c.Ready(), "hidden sprites are never prepared")

	c.SetHexLocation(hexgeo.C(1, 1))
	DrawSprite(dst, ctx, c, dst.Rect, image.Point{}, 1)
	require.True(t, c.Ready())
	tl := hexgeo.New(1).TopLeft(hexgeo.C(1, 1), true)
	edge := dst.RGBAAt(tl.X+42, tl.Y+2)
	assert.Greater(t, edge.R, uint8(200), "ring just inside the top edge")
	assert.Zero(t, dst.RGBAAt(tl.X+42, tl.Y+36).A, "hex centre untouched")

	c.SetHexLocation(hexgeo.Invalid)
	assert.True(t, c.Hidden())
}

func TestMovingSprite_Steps(t *testing.T) {
	l, snap, _ := newLayer(t)
	m := l.SetMoving(snap, snap.Unit(1))
	m.Prepare(fakeCtx{s: 1})
	m.Step(hexgeo.C(2, 3), 3, 0)
	assert.False(t, m.Ready())
	assert.Equal(t, hexgeo.C(2, 3), m.Coord())
	got, ok := l.Moving(1)
	require.True(t, ok)
	assert.Same(t, m, got)

	// A unit rising mid-walk is lifted on the way, not only on arrival.
	m.Prepare(fakeCtx{s: 1, iso: true})
	ground := m.Bounds().Min
	m.Step(hexgeo.C(2, 3), 3, 4)
	assert.Equal(t, 4, m.Elevation())
	m.Prepare(fakeCtx{s: 1, iso: true})
	assert.Equal(t, ground.Sub(image.Pt(0, 4*hexgeo.HexElev)), m.Bounds().Min)

	// Flat counters ignore the height.
	m.Prepare(fakeCtx{s: 1})
	assert.Equal(t, hexgeo.New(1).TopLeft(hexgeo.C(2, 3), true), m.Bounds().Min)
}

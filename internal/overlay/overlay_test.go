package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/tiles"
)

var (
	red  = color.RGBA{R: 200, A: 255}
	blue = color.RGBA{B: 200, A: 255}
)

func players() (me, foe *game.Player) {
	return &game.Player{ID: 1, Team: 1, Colour: red}, &game.Player{ID: 2, Team: 2, Colour: blue}
}

func ecmUnit(id, owner int, at hexgeo.Coord, kind game.ECMKind, rng int) *game.Unit {
	return &game.Unit{
		ID: id, Owner: owner, Position: at, C3Master: game.NoC3,
		ECM: []game.ECMSource{{Kind: kind, Range: rng, Direction: -1}},
	}
}

func TestComputeECM_OpposedEffectsCancel(t *testing.T) {
	me, foe := players()
	c := hexgeo.C(3, 2)
	snap := &game.Snapshot{
		Players: []*game.Player{me, foe},
		Units:   []*game.Unit{ecmUnit(1, 1, hexgeo.C(2, 2), game.ECM, 2)},
	}
	before := ComputeECM(snap, me)
	require.Contains(t, before.ECM, c)

	snap.Units = append(snap.Units, ecmUnit(2, 2, hexgeo.C(4, 2), game.ECCM, 2))
	after := ComputeECM(snap, me)

	assert.NotContains(t, after.ECM, c)
	assert.NotContains(t, after.ECCM, c)
	assert.Contains(t, Diff(before, after), c)

	// Outside the overlap each side keeps its own field.
	assert.Contains(t, after.ECM, hexgeo.C(0, 2))
	assert.Contains(t, after.ECCM, hexgeo.C(6, 2))
	assert.Equal(t, red, after.ECMCenters[hexgeo.C(2, 2)])
	assert.Equal(t, blue, after.ECCMCenters[hexgeo.C(4, 2)])
}

func TestComputeECM_OpposingBucketsBothShow(t *testing.T) {
	me, foe := players()
	snap := &game.Snapshot{
		Players: []*game.Player{me, foe},
		Units: []*game.Unit{
			ecmUnit(1, 2, hexgeo.C(2, 2), game.ECM, 1),
			ecmUnit(2, 1, hexgeo.C(2, 2), game.ECM, 1),
		},
	}
	f := ComputeECM(snap, me)
	c := hexgeo.C(2, 3)
	require.Contains(t, f.ECM, c)
	require.Contains(t, f.ECCM, c)
	assert.Equal(t, color.RGBA{B: 200, A: fieldAlpha}, f.ECM[c], "enemy jamming")
	assert.Equal(t, color.RGBA{R: 200, A: fieldAlpha}, f.ECCM[c], "own side")
}

func TestComputeECM_HiddenAndUnspottedEnemies(t *testing.T) {
	me, foe := players()
	hidden := ecmUnit(1, 2, hexgeo.C(2, 2), game.ECM, 2)
	hidden.Hidden = true
	snap := &game.Snapshot{Players: []*game.Player{me, foe}, Units: []*game.Unit{hidden}}

	f := ComputeECM(snap, me)
	assert.Empty(t, f.ECM)
	assert.Empty(t, f.ECMCenters)

	hidden.Hidden = false
	snap.DoubleBlind = true
	assert.Empty(t, ComputeECM(snap, me).ECM)

	hidden.Detected = true
	assert.NotEmpty(t, ComputeECM(snap, me).ECM)
}

func TestComputeECM_DirectionalArc(t *testing.T) {
	me, _ := players()
	u := ecmUnit(1, 1, hexgeo.C(5, 5), game.ECM, 3)
	u.ECM[0].Direction = 0
	f := ComputeECM(&game.Snapshot{Players: []*game.Player{me}, Units: []*game.Unit{u}}, me)

	assert.Contains(t, f.ECM, hexgeo.C(5, 3))
	assert.NotContains(t, f.ECM, hexgeo.C(5, 7))
}

func TestComputeECM_AffectedUnits(t *testing.T) {
	me, foe := players()
	target := &game.Unit{ID: 3, Owner: 1, Position: hexgeo.C(3, 3), C3Master: game.NoC3}
	snap := &game.Snapshot{
		Players: []*game.Player{me, foe},
		Units:   []*game.Unit{ecmUnit(1, 2, hexgeo.C(3, 2), game.ECM, 2), target},
	}
	assert.True(t, ComputeECM(snap, me).Affected[3])

	snap.Units = append(snap.Units, ecmUnit(2, 1, hexgeo.C(3, 4), game.ECCM, 2))
	assert.False(t, ComputeECM(snap, me).Affected[3], "friendly ECCM counters the jammer")
}

func TestDiff_ColourChangeAndSymmetry(t *testing.T) {
	a, b := NewField(), NewField()
	a.ECM[hexgeo.C(1, 1)] = red
	b.ECM[hexgeo.C(1, 1)] = blue
	b.ECCM[hexgeo.C(0, 2)] = red
	a.ECCM[hexgeo.C(4, 0)] = red
	b.ECCM[hexgeo.C(4, 0)] = red

	assert.Equal(t, []hexgeo.Coord{hexgeo.C(1, 1), hexgeo.C(0, 2)}, Diff(a, b))
	assert.ElementsMatch(t, Diff(a, b), Diff(b, a))
	assert.Empty(t, Diff(a, a))
}

func whole(b *board.Board) Window {
	return WindowFor(image.Rectangle{Max: hexgeo.New(1).BoardSize(b.Width(), b.Height())}, 1)
}

func bordersAt(bs []Border, c hexgeo.Coord) []color.RGBA {
	var out []color.RGBA
	for _, b := range bs {
		if b.Coord == c {
			out = append(out, b.Colour)
		}
	}
	return out
}

func TestDeploymentBorders_VTOL(t *testing.T) {
	b := board.New(5, 5)
	c := hexgeo.C(2, 2)
	u := &game.Unit{ID: 1, Owner: 1, MovementMode: game.MoveVTOL, Position: hexgeo.Invalid,
		Deadly: map[hexgeo.Coord]bool{c: true}}

	bs := DeploymentBorders(b, u, whole(b))
	assert.Equal(t, []color.RGBA{Cyan, Yellow, Warning}, bordersAt(bs, c))
	assert.Equal(t, []color.RGBA{Cyan, Yellow}, bordersAt(bs, hexgeo.C(1, 1)))
	assert.Equal(t, Warning, bs[len(bs)-1].Colour, "warning outlines are drawn last")
}

func TestDeploymentBorders_AirElevationAboveBuildings(t *testing.T) {
	b := board.New(3, 3)
	c := hexgeo.C(1, 1)
	h := b.Hex(c).Clone()
	h.SetTerrain(board.TerrainValue{Kind: board.TerrainBuilding, Level: 1})
	h.SetTerrain(board.TerrainValue{Kind: board.TerrainBldgElev, Level: 3})
	b.SetHex(h)

	u := &game.Unit{ID: 1, Owner: 1, MovementMode: game.MoveHover}
	var found bool
	for _, bd := range DeploymentBorders(b, u, whole(b)) {
		if bd.Coord == c && bd.Colour == Cyan {
			found = true
			assert.Equal(t, 4, bd.Elevation)
		}
	}
	assert.True(t, found)

	u.MovementMode = game.MoveWiGE
	for _, bd := range DeploymentBorders(b, u, whole(b)) {
		if bd.Coord == c && bd.Colour == Cyan {
			assert.Equal(t, 1, bd.Elevation)
		}
	}
}

func TestDeploymentBorders_Aero(t *testing.T) {
	b := board.New(3, 3)
	b.SetHex(board.NewHex(hexgeo.C(2, 2), 2))
	b.SetDeploymentZone(1, board.Zone{Edge: board.EdgeN, Depth: 1})
	u := &game.Unit{ID: 1, Owner: 1, Aero: true, Altitude: 3,
		Prohibited: map[hexgeo.Coord]int{hexgeo.C(0, 0): 0}}

	bs := DeploymentBorders(b, u, whole(b))
	assert.Equal(t, []color.RGBA{Yellow}, bordersAt(bs, hexgeo.C(0, 0)), "flying aero only")
	assert.Equal(t, []color.RGBA{Yellow, Yellow}, bordersAt(bs, hexgeo.C(1, 0)))
	assert.Empty(t, bordersAt(bs, hexgeo.C(1, 1)), "outside the zone")

	u.Altitude = 0
	bs = DeploymentBorders(b, u, whole(b))
	assert.Equal(t, []color.RGBA{Cyan, Yellow}, bordersAt(bs, hexgeo.C(1, 0)))
}

func TestAllDeploymentBorders_Nested(t *testing.T) {
	me, foe := players()
	b := board.New(4, 4)
	b.SetDeploymentZone(2, board.Zone{Edge: board.EdgeS, Depth: 1})

	bs := AllDeploymentBorders(b, []*game.Player{me, foe}, whole(b))
	var at []Border
	for _, bd := range bs {
		if bd.Coord == hexgeo.C(1, 3) {
			at = append(at, bd)
		}
	}
	require.Len(t, at, 2)
	assert.Equal(t, 6.0, at[0].Width)
	assert.Equal(t, 0.0, at[0].Pad)
	assert.Equal(t, 8.0, at[1].Pad)
	assert.Equal(t, blue, at[1].Colour)
	assert.Len(t, bordersAt(bs, hexgeo.C(1, 0)), 1)
}

func TestDeployingPlayers_BlindDrop(t *testing.T) {
	me, foe := players()
	snap := &game.Snapshot{Phase: game.PhaseLounge, Players: []*game.Player{me, foe}}

	assert.Equal(t, []*game.Player{me}, DeployingPlayers(snap, me, true))
	assert.Len(t, DeployingPlayers(snap, me, false), 2)
	gm := &game.Player{ID: 3, GameMaster: true}
	assert.Len(t, DeployingPlayers(snap, gm, true), 2)
}

func TestWindow_InclusiveBounds(t *testing.T) {
	w := Window{X: 0, Y: 0, W: 3, H: 3}
	assert.True(t, w.Contains(hexgeo.C(3, 3)))
	assert.False(t, w.Contains(hexgeo.C(4, 0)))
	assert.False(t, w.Contains(hexgeo.C(-1, 0)))
	assert.Len(t, w.Coords(), 9)

	w = WindowFor(image.Rect(126, 144, 126+630, 144+360), 1)
	assert.Equal(t, Window{X: 1, Y: 1, W: 13, H: 8}, w)
}

func TestArtilleryMarkers(t *testing.T) {
	p := tiles.NewProcedural()
	me := &game.Player{ID: 1, ArtilleryAutoHit: []hexgeo.Coord{hexgeo.C(1, 1)}}
	snap := &game.Snapshot{
		Phase:     game.PhaseFiring,
		Artillery: []game.ArtilleryAttack{{Target: hexgeo.C(2, 2)}, {Target: hexgeo.C(9, 9)}},
	}
	mods := []ArtilleryModifier{{Coord: hexgeo.C(0, 0), AutoHit: true}, {Coord: hexgeo.C(3, 0)}}
	w := Window{W: 3, H: 3}

	ms := ArtilleryMarkers(snap, me, mods, p, w)
	require.Len(t, ms, 4)
	assert.Equal(t, p.ArtilleryTarget(tiles.ArtilleryIncoming), ms[0].Tile)
	assert.Equal(t, p.ArtilleryTarget(tiles.ArtilleryAutoHit), ms[1].Tile)
	assert.Equal(t, p.ArtilleryTarget(tiles.ArtilleryAutoHit), ms[2].Tile)
	assert.Equal(t, p.ArtilleryTarget(tiles.ArtilleryAdjusted), ms[3].Tile)

	snap.Phase = game.PhaseSetArtilleryAutohitHexes
	assert.Len(t, ArtilleryMarkers(snap, me, mods, p, w), 2)
}

func TestBombardmentMarkers_CoverRadius(t *testing.T) {
	p := tiles.NewProcedural()
	snap := &game.Snapshot{Bombardments: []game.OrbitalBombardment{{Target: hexgeo.C(5, 5), Radius: 1}}}
	ms := BombardmentMarkers(snap, p, Window{W: 10, H: 10})
	assert.Len(t, ms, 7)
	assert.Empty(t, BombardmentMarkers(snap, p, Window{W: 2, H: 2}))
}

func TestMinefieldLabels(t *testing.T) {
	b := board.New(4, 4)
	b.AddMinefield(hexgeo.C(1, 1), board.Minefield{Kind: board.MineConventional, Density: 20})
	b.AddMinefield(hexgeo.C(2, 2), board.Minefield{Kind: board.MineVibrabomb, Owner: 1, Setting: 50})
	b.AddMinefield(hexgeo.C(2, 2), board.Minefield{Kind: board.MineInferno, Density: 5})
	b.AddMinefield(hexgeo.C(3, 0), board.Minefield{Kind: board.MineVibrabomb, Owner: 1, Setting: 50})

	ls := MinefieldLabels(b, 1, whole(b))
	require.Len(t, ls, 3)
	assert.Equal(t, MineLabel{Coord: hexgeo.C(3, 0), Lines: []string{"Vibrabomb", "(50)"}}, ls[0])
	assert.Equal(t, []string{"Conventional (20)"}, ls[1].Lines)
	assert.Equal(t, []string{"Multiple"}, ls[2].Lines)

	assert.Equal(t, []string{"Vibrabomb"}, MinefieldLabels(b, 2, whole(b))[0].Lines)
}

type fakeCtx struct{ s float64 }

func (f fakeCtx) Geometry() hexgeo.Geometry { return hexgeo.New(f.s) }
func (f fakeCtx) Scale() float64            { return f.s }
func (f fakeCtx) Face() font.Face           { return basicfont.Face7x13 }
func (f fakeCtx) ScaledImage(t *tiles.Tile) image.Image {
	if t == nil {
		return nil
	}
	return t.Image
}

func TestCanvas_DrawBordersAndMarkers(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	cv := Canvas{Dst: dst, Ctx: fakeCtx{s: 1}, Offset: image.Pt(10, 10)}

	cv.DrawBorders([]Border{{Coord: hexgeo.C(0, 0), Colour: Yellow, Width: 3}})
	edge := dst.RGBAAt(51, 11)
	assert.Greater(t, edge.R, uint8(200))
	assert.Greater(t, edge.G, uint8(200))
	assert.Less(t, edge.B, uint8(50))
	assert.Zero(t, dst.RGBAAt(51, 45).A, "the hex inside stays clear")

	p := tiles.NewProcedural()
	sign := p.MinefieldSign()
	cv.DrawMinefields(sign, []MineLabel{{Coord: hexgeo.C(0, 0), Lines: []string{"Multiple"}}})
	var painted bool
	for x := 23; x < 23+sign.Size().X && !painted; x++ {
		for y := 23; y < 23+sign.Size().Y; y++ {
			if dst.RGBAAt(x, y).A != 0 {
				painted = true
				break
			}
		}
	}
	assert.True(t, painted, "sign drawn at (13,13) inside the hex")
}

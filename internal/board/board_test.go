package board

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

func TestRead_SizeAndHexes(t *testing.T) {
	src := `# test board
size 4 3
hex 0101 2 "woods:1;foliage_elev:2" "grass"
hex 0203 -1 "water:1" ""
option exit_roads_to_pavement false
end
`
	b, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())

	h := b.Hex(hexgeo.C(0, 0))
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, "grass", h.Theme)
	assert.Equal(t, 1, h.TerrainLevel(TerrainWoods))
	assert.Equal(t, 4, h.Ceiling())

	w := b.Hex(hexgeo.C(1, 2))
	assert.Equal(t, 1, w.Depth())
	assert.Equal(t, -2, w.Floor())

	assert.Equal(t, -1, b.MinElevation())
	assert.Equal(t, 2, b.MaxElevation())
	assert.Equal(t, 0, b.Hex(hexgeo.C(3, 1)).Level, "unlisted hexes are clear")
}

func TestRead_Errors(t *testing.T) {
	cases := map[string]string{
		"no size":      "hex 0101 0 \"\" \"\"\nend\n",
		"bad size":     "size x 3\n",
		"off board":    "size 2 2\nhex 0303 0 \"\" \"\"\n",
		"bad terrain":  "size 2 2\nhex 0101 0 \"lava:1\" \"\"\n",
		"unterminated": "size 2 2\nhex 0101 0 \"woods:1\n",
		"empty":        "",
	}
	for name, src := range cases {
		_, err := Read(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrBadFormat, name)
	}
}

func TestWrite_ReadsBack(t *testing.T) {
	b := New(3, 2)
	h := NewHex(hexgeo.C(2, 1), 3,
		TerrainValue{Kind: TerrainRoad, Level: 1, Exits: 9},
		TerrainValue{Kind: TerrainBuilding, Level: 2},
		TerrainValue{Kind: TerrainBldgElev, Level: 2},
	)
	h.Theme = "urban"
	b.SetHex(h)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b))
	assert.Contains(t, buf.String(), `hex 0302 3 "road:1:9;building:2;bldg_elev:2" "urban"`)

	back, err := Read(&buf)
	require.NoError(t, err)
	got := back.Hex(hexgeo.C(2, 1))
	assert.Equal(t, h.Terrains(), got.Terrains())
	assert.Equal(t, 2, got.Height())
}

func TestHex_Validity(t *testing.T) {
	ok := NewHex(hexgeo.C(0, 0), 0, TerrainValue{Kind: TerrainWoods, Level: 2})
	assert.True(t, ok.IsValid())

	bad := NewHex(hexgeo.C(0, 0), 0, TerrainValue{Kind: TerrainBuilding, Level: 1})
	assert.False(t, bad.IsValid())
	assert.Contains(t, bad.Problems(), "building without height")
}

func TestHex_ShadowClassification(t *testing.T) {
	road := NewHex(hexgeo.C(0, 0), 0, TerrainValue{Kind: TerrainRoad, Level: 1})
	woods := NewHex(hexgeo.C(0, 0), 0, TerrainValue{Kind: TerrainWoods, Level: 1})
	assert.True(t, road.SupersUnderShadow())
	assert.False(t, woods.SupersUnderShadow())
	assert.True(t, woods.BuriedUnderShadow())
}

func TestHex_CliffTopTowards(t *testing.T) {
	top := NewHex(hexgeo.C(2, 2), 2, TerrainValue{Kind: TerrainCliffTop, Level: 1, Exits: 1 << 3})
	south := NewHex(hexgeo.C(2, 3), 0)
	north := NewHex(hexgeo.C(2, 1), 0)
	assert.True(t, top.HasCliffTopTowards(south))
	assert.False(t, top.HasCliffTopTowards(north))
}

func TestSetHex_NotifiesSubscribers(t *testing.T) {
	b := New(2, 2)
	var got []hexgeo.Coord
	cancel := b.Subscribe(func(c hexgeo.Coord) { got = append(got, c) })

	b.SetHex(NewHex(hexgeo.C(1, 1), 2))
	b.SetHex(NewHex(hexgeo.C(5, 5), 2))
	cancel()
	b.SetHex(NewHex(hexgeo.C(0, 0), 1))

	assert.Equal(t, []hexgeo.Coord{hexgeo.C(1, 1)}, got)
}

func TestDeploymentZones(t *testing.T) {
	b := New(16, 17)
	b.SetDeploymentZone(1, Zone{Edge: EdgeN})
	b.SetDeploymentZone(2, Zone{Edge: EdgeSW, Depth: 2})

	assert.True(t, b.IsLegalDeployment(hexgeo.C(8, 2), 1))
	assert.False(t, b.IsLegalDeployment(hexgeo.C(8, 3), 1))
	assert.True(t, b.IsLegalDeployment(hexgeo.C(0, 10), 2))
	assert.True(t, b.IsLegalDeployment(hexgeo.C(3, 16), 2))
	assert.False(t, b.IsLegalDeployment(hexgeo.C(12, 16), 2))
	assert.True(t, b.IsLegalDeployment(hexgeo.C(12, 12), 3), "unset zone is anywhere")
	assert.False(t, b.IsLegalDeployment(hexgeo.C(16, 0), 3))

	b.SetDeploymentZone(4, Zone{Custom: 2})
	b.SetHex(NewHex(hexgeo.C(5, 5), 0, TerrainValue{Kind: TerrainDeploymentZone, Exits: 1 << 2}))
	assert.True(t, b.IsLegalDeployment(hexgeo.C(5, 5), 4))
	assert.False(t, b.IsLegalDeployment(hexgeo.C(5, 6), 4))

	assert.True(t, b.IsLegalDeploymentFor(hexgeo.C(8, 0), &game.Unit{Owner: 1}))
}

func TestMinefields(t *testing.T) {
	b := New(4, 4)
	b.AddMinefield(hexgeo.C(2, 1), Minefield{Kind: MineConventional, Density: 20})
	b.AddMinefield(hexgeo.C(0, 3), Minefield{Kind: MineVibrabomb, Owner: 1, Setting: 40})
	b.AddMinefield(hexgeo.C(1, 1), Minefield{Kind: MineInferno, Density: 10})

	assert.Equal(t, []hexgeo.Coord{hexgeo.C(1, 1), hexgeo.C(2, 1), hexgeo.C(0, 3)}, b.MinedCoords())
	assert.Equal(t, []string{"Conventional (20)"}, b.Minefields(hexgeo.C(2, 1))[0].Label(0))

	vibra := b.Minefields(hexgeo.C(0, 3))[0]
	assert.Equal(t, []string{"Vibrabomb", "(40)"}, vibra.Label(1))
	assert.Equal(t, []string{"Vibrabomb"}, vibra.Label(2))

	b.ClearMinefields(hexgeo.C(1, 1))
	assert.Len(t, b.MinedCoords(), 2)
}

func TestSpecialDisplay_DrawNow(t *testing.T) {
	owner := &game.Player{ID: 1, Team: 1}
	ally := &game.Player{ID: 2, Team: 1}
	enemy := &game.Player{ID: 3, Team: 2}

	incoming := SpecialDisplay{Kind: SpecialArtilleryIncoming, Round: 3, Owner: 1, Team: 1, Visibility: VisibleTeam}
	assert.True(t, incoming.DrawNow(game.PhaseMovement, 2, ally))
	assert.False(t, incoming.DrawNow(game.PhaseMovement, 4, ally), "gone after landing")
	assert.False(t, incoming.DrawNow(game.PhaseMovement, 2, enemy))

	hit := SpecialDisplay{Kind: SpecialBombHit, Round: 3, Visibility: VisibleAll}
	assert.False(t, hit.DrawNow(game.PhaseMovement, 3, enemy))
	assert.True(t, hit.DrawNow(game.PhaseFiring, 3, enemy))
	assert.True(t, hit.DrawNow(game.PhaseMovement, 4, enemy))
	assert.False(t, hit.DrawNow(game.PhaseMovement, 5, enemy))

	note := SpecialDisplay{Kind: SpecialPlayerNote, Owner: 1, Visibility: VisibleOwner}
	assert.True(t, note.DrawNow(game.PhaseEnd, 9, owner))
	assert.False(t, note.DrawNow(game.PhaseEnd, 9, ally))
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(12, 10, 7)
	b := Generate(12, 10, 7)
	var bufA, bufB bytes.Buffer
	require.NoError(t, Write(&bufA, a))
	require.NoError(t, Write(&bufB, b))
	assert.Equal(t, bufA.String(), bufB.String())

	for y := 0; y < 10; y++ {
		h := a.Hex(hexgeo.C(6, y))
		require.NotNil(t, h)
		assert.True(t, h.Contains(TerrainRoad), "road column at y=%d", y)
	}
	assert.GreaterOrEqual(t, a.MinElevation(), 0)
}

package tiles

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

func TestBaseFor_MemoizedByContent(t *testing.T) {
	p := NewProcedural()
	a := p.BaseFor(board.NewHex(hexgeo.C(0, 0), 1))
	b := p.BaseFor(board.NewHex(hexgeo.C(3, 4), 1))
	assert.Same(t, a, b, "equal terrain shares one tile")
	assert.Equal(t, hexgeo.HexW, a.Size().X)

	c := p.BaseFor(board.NewHex(hexgeo.C(0, 0), 2))
	assert.NotEqual(t, a.ID(), c.ID())
}

func TestBaseFor_LargeTexture(t *testing.T) {
	p := NewProcedural(WithLargeTexture("lunar", 300, 250))
	h := board.NewHex(hexgeo.C(0, 0), 0)
	h.Theme = "lunar"
	assert.Equal(t, 300, p.BaseFor(h).Size().X)
}

func TestSupersFor_OnlyDrawableTerrain(t *testing.T) {
	p := NewProcedural()
	h := board.NewHex(hexgeo.C(0, 0), 0,
		board.TerrainValue{Kind: board.TerrainWoods, Level: 1},
		board.TerrainValue{Kind: board.TerrainFire, Level: 1},
	)
	assert.Len(t, p.SupersFor(h), 1)
	assert.Empty(t, p.OrthoFor(h))

	h.SetTerrain(board.TerrainValue{Kind: board.TerrainBridge, Level: 1, Exits: 9})
	assert.Len(t, p.OrthoFor(h), 1)
}

func TestAnimatedAndLoaded(t *testing.T) {
	p := NewProcedural(WithLoading())
	assert.False(t, p.IsLoaded())
	p.SetLoaded(true)
	assert.True(t, p.IsLoaded())

	water := p.SupersFor(board.NewHex(hexgeo.C(0, 0), 0, board.TerrainValue{Kind: board.TerrainWater, Level: 1}))
	require.Len(t, water, 1)
	assert.False(t, p.IsAnimated(water[0]))
	p.MarkAnimated("super/water")
	assert.True(t, p.IsAnimated(water[0]))
	assert.False(t, p.IsAnimated(nil))
}

func TestReloadUnitIcons_BumpsGeneration(t *testing.T) {
	p := NewProcedural()
	u := &game.Unit{ID: 4, Icon: "atlas"}
	red := color.RGBA{R: 200, A: 255}
	first := p.UnitIcon(u, red)
	assert.Same(t, first, p.UnitIcon(u, red))

	p.ReloadUnitIcons()
	second := p.UnitIcon(u, red)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestSpecialImage(t *testing.T) {
	p := NewProcedural()
	tile, err := p.SpecialImage(board.SpecialDisplay{Kind: board.SpecialBombHit})
	require.NoError(t, err)
	assert.NotNil(t, tile.Image)

	_, err = p.SpecialImage(board.SpecialDisplay{Kind: board.SpecialKind(99)})
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestMaskIsHexShaped(t *testing.T) {
	img := NewProcedural().HexMask().Image
	assert.Zero(t, img.At(1, 1).(color.RGBA).A, "corner outside the hex")
	assert.Equal(t, uint8(255), img.At(42, 36).(color.RGBA).A)
}

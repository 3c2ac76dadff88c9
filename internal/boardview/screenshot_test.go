package boardview

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/render"
	"github.com/Garsondee/BoardView/internal/sprites"
)

func TestPhaseChanged_WritesSummaryImage(t *testing.T) {
	dir := t.TempDir()
	tb := newTestBoard(t,
		WithPref(prefs.GameSummaryBoardView, true),
		WithPref(prefs.GameSummaryDir, dir),
	)
	path, err := tb.View.PhaseChanged(game.PhaseMovement, game.PhaseMovementReport)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test", "round_001_010_MOVEMENT.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1029, cfg.Width)
	assert.Equal(t, 1260, cfg.Height)
	assert.Equal(t, int64(1), totals(t, tb)["boardview.screenshots"])

	path, err = tb.View.PhaseChanged(game.PhaseMovementReport, game.PhaseOffboard)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPhaseChanged_OffWritesNothing(t *testing.T) {
	dir := t.TempDir()
	tb := newTestBoard(t, WithPref(prefs.GameSummaryDir, dir))
	path, err := tb.View.PhaseChanged(game.PhaseFiring, game.PhaseFiringReport)
	require.NoError(t, err)
	assert.Empty(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPhaseChanged_ClearsPerPhaseSprites(t *testing.T) {
	tb := newTestBoard(t)
	bv := tb.View
	bv.SetPath([]*sprites.StepSprite{sprites.NewStepSprite(hexgeo.C(2, 2), "1", color.RGBA{G: 200, A: 255}, true)})
	require.Len(t, bv.layer.Path(), 1)
	_, err := bv.PhaseChanged(game.PhaseEnd, game.PhaseInitiative)
	require.NoError(t, err)
	assert.Empty(t, bv.layer.Attacks())
	assert.Empty(t, bv.layer.Path())
}

func TestEntireBoardImage_LeavesOutCursors(t *testing.T) {
	u := NewUnit(5, &game.Player{ID: 1}, hexgeo.C(6, 6))
	tb := newTestBoard(t, WithUnit(u), WithPref(prefs.MapZoomIndex, 9))
	bv := tb.View

	plain := bv.EntireBoardImage(false, true)
	assert.Equal(t, 9, bv.raster.ZoomIndex(), "zoom is restored")
	assert.Equal(t, 1029, plain.Bounds().Dx())

	bv.Select(hexgeo.C(6, 6))
	bv.Cursor(hexgeo.C(2, 2))
	withCursors := bv.EntireBoardImage(false, true)
	assert.True(t, bytes.Equal(plain.Pix, withCursors.Pix))

	noUnits := bv.EntireBoardImage(true, true)
	assert.False(t, bytes.Equal(plain.Pix, noUnits.Pix))
	assert.False(t, bv.raster.Scene().Saving)
}

func TestEntireBoardImage_CurrentZoom(t *testing.T) {
	tb := newTestBoard(t, WithBoardSize(6, 5), WithPref(prefs.MapZoomIndex, 2))
	img := tb.View.EntireBoardImage(true, false)
	want := hexgeo.New(render.ZoomFactors[2]).BoardSize(6, 5)
	assert.Equal(t, want, img.Bounds().Size())
}

func TestWriteScreenshot_BadPath(t *testing.T) {
	tb := newTestBoard(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	err := tb.View.WriteScreenshot(filepath.Join(blocker, "out.png"), true)
	assert.Error(t, err)
	assert.Zero(t, totals(t, tb)["boardview.screenshots"])
}

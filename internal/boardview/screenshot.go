package boardview

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/render"
	"github.com/Garsondee/BoardView/internal/telemetry"
)

// EntireBoardImage renders the whole board, without padding, cursors or
// planning aids. With baseZoom the image is drawn at scale 1 and the
// previous zoom is restored afterwards. Viewer-specific shading is left
// out for the duration of the capture.
func (bv *BoardView) EntireBoardImage(ignoreUnits, baseZoom bool) *image.RGBA {
	bv.Pump()
	zoom := bv.raster.ZoomIndex()
	if baseZoom && zoom != render.BaseZoomIndex {
		bv.raster.SetScale(render.BaseZoomIndex)
		bv.layer.Unready()
		defer func() {
			bv.raster.SetScale(zoom)
			bv.layer.Unready()
		}()
	}
	scene := bv.raster.Scene()
	saving := scene
	saving.Saving = true
	bv.raster.SetScene(saving)
	bv.raster.Clear()
	defer func() {
		bv.raster.SetScene(scene)
		bv.raster.Clear()
	}()

	size := bv.raster.Geometry().BoardSize(bv.board.Width(), bv.board.Height())
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(bv.background), image.Point{}, draw.Src)
	bv.paint(frame{dst: img, vis: img.Bounds(), saving: true, units: !ignoreUnits})
	bv.layer.Unready()
	return img
}

// WriteScreenshot writes the whole board as a PNG at base zoom.
func (bv *BoardView) WriteScreenshot(path string, ignoreUnits bool) error {
	img := bv.EntireBoardImage(ignoreUnits, true)
	if err := writePNG(path, img); err != nil {
		bv.log.Error("failed to write board screenshot", "path", path, "error", err)
		return err
	}
	if bv.metrics != nil {
		telemetry.Inc(bv.metrics.Screenshots)
	}
	bv.log.Info("board screenshot written", "path", path)
	return nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return f.Close()
}

// summaryPhases are the phases whose end state goes into the game summary.
var summaryPhases = map[game.Phase]bool{
	game.PhaseDeployment: true,
	game.PhaseMovement:   true,
	game.PhaseTargeting:  true,
	game.PhaseFiring:     true,
	game.PhasePhysical:   true,
}

// PhaseChanged is called when the game leaves phase old for next. With
// gameSummaryBoardView on, the board as it stood at the end of old is
// saved under gameSummaryDir/<game uuid>/. It returns the written path,
// or "" when nothing was written. Temporary sprites are dropped either way.
func (bv *BoardView) PhaseChanged(old, next game.Phase) (string, error) {
	var path string
	if bv.prefs.Bool(prefs.GameSummaryBoardView) && summaryPhases[old] && bv.snap != nil {
		uuid := bv.snap.UUID
		if uuid == "" {
			uuid = "local"
		}
		name := fmt.Sprintf("round_%03d_%03d_%s.png", bv.snap.Round, old.Ordinal(), old)
		path = filepath.Join(bv.prefs.String(prefs.GameSummaryDir), uuid, name)
		if err := bv.WriteScreenshot(path, false); err != nil {
			return "", err
		}
	}

	bv.layer.ClearTemporary()
	switch next {
	case game.PhaseInitiative:
		bv.layer.ClearAttacks()
	case game.PhaseFiring, game.PhasePhysical:
		bv.layer.ClearMovementVectors()
	}
	bv.repaint()
	return path, nil
}

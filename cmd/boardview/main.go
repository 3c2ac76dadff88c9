package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/BoardView/internal/app"
	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/boardview"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/logging"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/telemetry"
)

func main() {
	var (
		boardFile string
		config    string
		cols      int
		rows      int
		seed      int64
		units     int
		width     int
		height    int
		iso       bool
		level     string
		shots     string
	)
	flag.StringVar(&boardFile, "board", "", "board file to show (default: generated)")
	flag.StringVar(&config, "config", "", "preferences file, watched for changes")
	flag.IntVar(&cols, "cols", 16, "generated board width in hexes")
	flag.IntVar(&rows, "rows", 17, "generated board height in hexes")
	flag.Int64Var(&seed, "seed", 42, "seed for the generated board and units")
	flag.IntVar(&units, "units", 4, "units per side")
	flag.IntVar(&width, "width", 1600, "window width")
	flag.IntVar(&height, "height", 900, "window height")
	flag.BoolVar(&iso, "iso", false, "start in isometric mode")
	flag.StringVar(&level, "log", "", "log level (default: the logLevel preference)")
	flag.StringVar(&shots, "shots", "./logs/screenshots", "directory for P screenshots")
	flag.Parse()

	boot := logging.New(os.Stderr, "info")
	p := prefs.New(logging.NewAdapter(boot))
	if config != "" {
		if err := p.Load(config); err != nil {
			boot.Fatal().Err(err).Msg("failed to load preferences")
		}
		p.Watch()
	}
	if level == "" {
		level = p.String(prefs.LogLevel)
	}
	log := logging.NewAdapter(logging.New(os.Stderr, level))
	if iso {
		if err := p.Set(prefs.Isometric, true); err != nil {
			boot.Fatal().Err(err).Msg("failed to set isometric")
		}
	}

	b, err := loadBoard(boardFile, cols, rows, seed)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load board")
	}
	metrics, err := telemetry.New(nil)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to create metrics")
	}
	bv, err := boardview.New(boardview.Config{
		Board:   b,
		Prefs:   p,
		Log:     log,
		Metrics: metrics,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to create board view")
	}
	snap := game.NewSkirmish(b.Width(), b.Height(), units, seed)
	bv.SetGame(snap, snap.Players[0])
	bv.UpdateECM()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := boardview.NewScheduler(bv, 0).Run(ctx); err != nil {
			log.Error("scheduler stopped", "error", err)
		}
	}()

	a := app.New(app.Config{View: bv, Prefs: p, Log: log, ScreenshotDir: shots})
	ebiten.SetWindowTitle(fmt.Sprintf("BoardView %dx%d", b.Width(), b.Height()))
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	runErr := ebiten.RunGame(a)

	cancel()
	a.Close()
	if err := bv.Shutdown(); err != nil {
		log.Warn("failed to shut down board view", "error", err)
	}
	if runErr != nil {
		boot.Fatal().Err(runErr).Msg("game loop failed")
	}
}

// loadBoard reads path, or generates a cols x rows board when path is
// empty.
func loadBoard(path string, cols, rows int, seed int64) (*board.Board, error) {
	if path == "" {
		return board.Generate(cols, rows, seed), nil
	}
	f, err := os.Open(path) // #nosec G304 -- user supplied board file
	if err != nil {
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	defer f.Close()
	b, err := board.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read board %s: %w", path, err)
	}
	return b, nil
}

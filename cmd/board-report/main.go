package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/boardview"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/render"
)

// maxWalkTicks bounds the unit walk; a walk that has not finished by then
// counts as stuck.
const maxWalkTicks = 500

type runStats struct {
	runIndex int
	seed     int64
	source   string
	err      error

	width, height int
	minElev       int
	maxElev       int

	ecmHexes  int
	eccmHexes int
	affected  int

	frames      int
	walkSteps   int
	walkTicks   int
	hexRenders  int64
	cacheHits   int64
	cacheMisses int64
	repaints    int64
	screenshot  string
	elapsed     time.Duration
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var cols, rows int
	var units int
	var out string
	var parallel int
	var iso bool

	flag.IntVar(&runs, "boards", 3, "number of generated boards (ignored when board files are given)")
	flag.Int64Var(&seedBase, "seed-base", 42, "seed for the first generated board")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between boards")
	flag.IntVar(&cols, "cols", 16, "generated board width in hexes")
	flag.IntVar(&rows, "rows", 17, "generated board height in hexes")
	flag.IntVar(&units, "units", 4, "units per side")
	flag.StringVar(&out, "out", "./logs/board-report", "directory for summary images")
	flag.IntVar(&parallel, "parallel", 2, "boards rendered at once")
	flag.BoolVar(&iso, "iso", false, "render isometric")
	flag.Parse()

	files := flag.Args()
	if len(files) > 0 {
		runs = len(files)
	}
	if runs <= 0 {
		fmt.Println("error: -boards must be > 0")
		return
	}
	if parallel <= 0 {
		fmt.Println("error: -parallel must be > 0")
		return
	}
	if cols < 4 || rows < 4 {
		fmt.Println("error: -cols and -rows must be >= 4")
		return
	}

	fmt.Printf("=== Board Render Report ===\n")
	fmt.Printf("boards=%d seed_base=%d seed_step=%d iso=%v out=%s\n\n", runs, seedBase, seedStep, iso, out)

	all := make([]runStats, runs)
	var g errgroup.Group
	g.SetLimit(parallel)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		file := ""
		if len(files) > 0 {
			file = files[i]
		}
		g.Go(func() error {
			all[i] = runBoard(i+1, seed, file, cols, rows, units, out, iso)
			return nil
		})
	}
	_ = g.Wait()

	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
}

func loadBoard(file string, cols, rows int, seed int64) (*board.Board, string, error) {
	if file == "" {
		return board.Generate(cols, rows, seed), fmt.Sprintf("generated-%d", seed), nil
	}
	f, err := os.Open(file) // #nosec G304 -- board files named on the command line
	if err != nil {
		return nil, file, err
	}
	defer f.Close()
	b, err := board.Read(f)
	return b, filepath.Base(file), err
}

func runBoard(runIndex int, seed int64, file string, cols, rows, units int, out string, iso bool) (rs runStats) {
	rs = runStats{runIndex: runIndex, seed: seed}
	start := time.Now()
	defer func() { rs.elapsed = time.Since(start) }()

	b, source, err := loadBoard(file, cols, rows, seed)
	rs.source = source
	if err != nil {
		rs.err = err
		return rs
	}
	rs.width, rs.height = b.Width(), b.Height()
	rs.minElev, rs.maxElev = b.MinElevation(), b.MaxElevation()

	opts := []boardview.Option{
		boardview.UseBoard(b),
		boardview.WithPref(prefs.GameSummaryBoardView, true),
		boardview.WithPref(prefs.GameSummaryDir, out),
		boardview.WithGame(func(s *game.Snapshot) {
			s.UUID = fmt.Sprintf("run_%03d_%s", runIndex, strings.TrimSuffix(source, filepath.Ext(source)))
			s.Units = game.NewSkirmish(b.Width(), b.Height(), units, seed).Units
		}),
	}
	if iso {
		opts = append(opts, boardview.WithIsometric())
	}
	tb, err := boardview.NewTestBoard(opts...)
	if err != nil {
		rs.err = err
		return rs
	}
	defer func() {
		if cerr := tb.Close(); cerr != nil && rs.err == nil {
			rs.err = cerr
		}
	}()
	bv := tb.View

	bv.UpdateECM()
	field := bv.ECMField()
	rs.ecmHexes, rs.eccmHexes, rs.affected = len(field.ECM), len(field.ECCM), len(field.Affected)

	rs.frames, err = renderAllZooms(bv)
	if err != nil {
		rs.err = err
		return rs
	}

	if u := firstUnit(tb.Game); u != nil {
		steps := walkSteps(b, u, 3)
		rs.walkSteps = len(steps)
		if len(steps) > 0 {
			bv.AddMovingUnit(u, steps)
			rs.walkTicks = -1
			for i := 1; i <= maxWalkTicks; i++ {
				bv.Tick(boardview.TickInterval)
				if bv.MovingUnits() == 0 {
					rs.walkTicks = i
					break
				}
			}
		}
	}

	rs.screenshot, err = bv.PhaseChanged(game.PhaseMovement, game.PhaseFiring)
	if err != nil {
		rs.err = err
		return rs
	}

	m, err := tb.Reader.Totals(context.Background())
	if err != nil {
		rs.err = err
		return rs
	}
	rs.hexRenders = m["boardview.hex.renders"]
	rs.cacheHits = m["boardview.hexcache.hits"]
	rs.cacheMisses = m["boardview.hexcache.misses"]
	rs.repaints = m["boardview.repaints"]
	return rs
}

// renderAllZooms renders one frame at every zoom level, smallest first,
// and leaves the view at the base zoom.
func renderAllZooms(bv *boardview.BoardView) (int, error) {
	for bv.ZoomOut() {
	}
	dst := image.NewRGBA(image.Rectangle{Max: bv.Viewport().ViewSize()})
	frames := 0
	for {
		if err := bv.Render(dst); err != nil {
			return frames, err
		}
		frames++
		if !bv.ZoomIn() {
			break
		}
	}
	for bv.Viewport().ZoomIndex() > render.BaseZoomIndex && bv.ZoomOut() {
	}
	return frames, nil
}

func firstUnit(snap *game.Snapshot) *game.Unit {
	for _, u := range snap.Units {
		if u.HasPosition() {
			return u
		}
	}
	return nil
}

// walkSteps heads up to n hexes along u's facing, stopping at the board
// edge.
func walkSteps(b *board.Board, u *game.Unit, n int) []boardview.Step {
	var steps []boardview.Step
	at := u.Position
	for i := 0; i < n; i++ {
		next := at.Translated(u.Facing)
		if !b.Contains(next) {
			break
		}
		steps = append(steps, boardview.Step{Coord: next, Facing: u.Facing, Elevation: u.Elevation})
		at = next
	}
	return steps
}

func printRun(rs runStats) {
	fmt.Printf("--- Board %d (%s seed=%d) ---\n", rs.runIndex, rs.source, rs.seed)
	if rs.err != nil {
		fmt.Printf("error: %v\n\n", rs.err)
		return
	}
	fmt.Printf("board: size=%dx%d elevation=%d..%d\n", rs.width, rs.height, rs.minElev, rs.maxElev)
	fmt.Printf("ecm: jammed_hexes=%d counter_hexes=%d affected_units=%d\n", rs.ecmHexes, rs.eccmHexes, rs.affected)
	fmt.Printf("render: frames=%d hex_renders=%d cache_hits=%d cache_misses=%d hit_rate=%s repaints=%d\n",
		rs.frames, rs.hexRenders, rs.cacheHits, rs.cacheMisses, hitRate(rs.cacheHits, rs.cacheMisses), rs.repaints)
	fmt.Printf("walk: steps=%d ticks=%s\n", rs.walkSteps, tickString(rs.walkTicks))
	if rs.screenshot != "" {
		fmt.Printf("summary_image: %s\n", rs.screenshot)
	}
	fmt.Printf("elapsed: %s\n\n", rs.elapsed.Round(time.Millisecond))
}

type aggregate struct {
	runs       int
	failed     int
	frames     int
	hexRenders int64
	hits       int64
	misses     int64
	walkTicks  []int
	stuck      int
	sources    map[string]struct{}
}

func aggregateRuns(all []runStats) aggregate {
	agg := aggregate{runs: len(all), sources: map[string]struct{}{}}
	for _, rs := range all {
		if rs.err != nil {
			agg.failed++
			continue
		}
		agg.sources[rs.source] = struct{}{}
		agg.frames += rs.frames
		agg.hexRenders += rs.hexRenders
		agg.hits += rs.cacheHits
		agg.misses += rs.cacheMisses
		switch {
		case rs.walkTicks > 0:
			agg.walkTicks = append(agg.walkTicks, rs.walkTicks)
		case rs.walkTicks < 0:
			agg.stuck++
		}
	}
	return agg
}

func printAggregate(all []runStats) {
	agg := aggregateRuns(all)
	ok := agg.runs - agg.failed
	fmt.Println("=== Aggregate ===")
	fmt.Printf("boards=%d failed=%d\n", agg.runs, agg.failed)
	fmt.Printf("avg_per_board: frames=%.1f hex_renders=%.1f\n",
		avg(int64(agg.frames), ok), avg(agg.hexRenders, ok))
	fmt.Printf("cache: hits=%d misses=%d hit_rate=%s\n", agg.hits, agg.misses, hitRate(agg.hits, agg.misses))
	fmt.Printf("walk: avg_ticks=%s stuck=%d\n", avgTickString(agg.walkTicks), agg.stuck)
	fmt.Printf("sources: %s\n", joinSet(agg.sources))
}

func avg(sum int64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func hitRate(hits, misses int64) string {
	if hits+misses == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(hits)/float64(hits+misses)*100)
}

func tickString(t int) string {
	if t < 0 {
		return "stuck"
	}
	return fmt.Sprintf("%d", t)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(set map[string]struct{}) string {
	if len(set) == 0 {
		return "none"
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

package main

import (
	"errors"
	"testing"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
)

func TestAggregateRuns_SkipsFailedRuns(t *testing.T) {
	all := []runStats{
		{source: "a.board", frames: 14, hexRenders: 100, cacheHits: 30, cacheMisses: 10, walkTicks: 9},
		{source: "b.board", frames: 14, hexRenders: 50, cacheHits: 10, cacheMisses: 10, walkTicks: -1},
		{source: "c.board", err: errors.New("bad board"), frames: 99},
	}
	agg := aggregateRuns(all)
	if agg.runs != 3 || agg.failed != 1 {
		t.Fatalf("expected runs=3 failed=1, got runs=%d failed=%d", agg.runs, agg.failed)
	}
	if agg.frames != 28 || agg.hexRenders != 150 {
		t.Fatalf("expected frames=28 hex_renders=150, got frames=%d hex_renders=%d", agg.frames, agg.hexRenders)
	}
	if agg.stuck != 1 || len(agg.walkTicks) != 1 {
		t.Fatalf("expected one finished and one stuck walk, got ticks=%v stuck=%d", agg.walkTicks, agg.stuck)
	}
	if got := joinSet(agg.sources); got != "a.board,b.board" {
		t.Fatalf("expected sources a.board,b.board, got %s", got)
	}
}

func TestHitRate(t *testing.T) {
	if got := hitRate(0, 0); got != "n/a" {
		t.Fatalf("expected n/a without lookups, got %s", got)
	}
	if got := hitRate(3, 1); got != "75.0%" {
		t.Fatalf("expected 75.0%%, got %s", got)
	}
}

func TestWalkSteps_StopsAtEdge(t *testing.T) {
	b := board.New(6, 6)
	u := &game.Unit{ID: 1, Position: hexgeo.C(2, 1), Facing: 0}

	steps := walkSteps(b, u, 3)
	if len(steps) != 1 {
		t.Fatalf("expected 1 step before the north edge, got %d", len(steps))
	}
	if steps[0].Coord != hexgeo.C(2, 0) {
		t.Fatalf("expected step to 0300, got %s", steps[0].Coord.BoardNum())
	}

	u.Facing = 3
	if got := len(walkSteps(b, u, 3)); got != 3 {
		t.Fatalf("expected 3 steps south, got %d", got)
	}
}

func TestRunBoard_Generated(t *testing.T) {
	rs := runBoard(1, 7, "", 8, 8, 2, t.TempDir(), false)
	if rs.err != nil {
		t.Fatalf("run failed: %v", rs.err)
	}
	if rs.frames != 14 {
		t.Fatalf("expected a frame per zoom level, got %d", rs.frames)
	}
	if rs.screenshot == "" {
		t.Fatalf("expected a summary image")
	}
	if rs.walkSteps > 0 && rs.walkTicks <= 0 {
		t.Fatalf("expected the walk to finish, got ticks=%d", rs.walkTicks)
	}
	if rs.ecmHexes == 0 {
		t.Fatalf("expected the skirmish ECM to cover some hexes")
	}
}

package boardview

import (
	"context"
	"fmt"
	"image/color"

	"github.com/Garsondee/BoardView/internal/board"
	"github.com/Garsondee/BoardView/internal/game"
	"github.com/Garsondee/BoardView/internal/hexgeo"
	"github.com/Garsondee/BoardView/internal/logging"
	"github.com/Garsondee/BoardView/internal/prefs"
	"github.com/Garsondee/BoardView/internal/telemetry"
	"github.com/Garsondee/BoardView/internal/tiles"
)

// TestBoard is a headless board view for tests and the report tool: a
// board, two opposing players, an event log and in-process metrics.
type TestBoard struct {
	Board   *board.Board
	View    *BoardView
	Prefs   *prefs.Preferences
	Tiles   *tiles.Procedural
	Events  *EventLog
	Game    *game.Snapshot
	Me, Foe *game.Player
	Metrics *telemetry.Metrics
	Reader  *telemetry.Reader

	width, height int
	viewW, viewH  int
	log           logging.Logger
	setPrefs      map[string]any
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra optionKind = iota // sizes, preferences, logger; applied first
	optBoard                   // hexes and board features; after the board exists
	optGame                    // units and game state; after the view exists
)

// Option configures a TestBoard.
type Option struct {
	kind optionKind
	fn   func(*TestBoard)
}

// WithBoardSize sets the board dimensions in hexes.
func WithBoardSize(w, h int) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.width, tb.height = w, h }}
}

// WithViewSize sets the on-screen view size.
func WithViewSize(w, h int) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.viewW, tb.viewH = w, h }}
}

// WithPref sets a preference before the view is built.
func WithPref(key string, v any) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.setPrefs[key] = v }}
}

// WithIsometric turns the isometric projection on.
func WithIsometric() Option {
	return WithPref(prefs.Isometric, true)
}

// WithLogger routes the view's logging to l.
func WithLogger(l logging.Logger) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.log = l }}
}

// UseBoard shows b instead of a blank board. The board size options
// are ignored.
func UseBoard(b *board.Board) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.Board = b }}
}

// WithTiles replaces the default procedural provider.
func WithTiles(opts ...tiles.Option) Option {
	return Option{optInfra, func(tb *TestBoard) { tb.Tiles = tiles.NewProcedural(opts...) }}
}

// WithHex replaces the hex at (x, y).
func WithHex(x, y, level int, terrains ...board.TerrainValue) Option {
	return Option{optBoard, func(tb *TestBoard) {
		tb.Board.SetHex(board.NewHex(hexgeo.C(x, y), level, terrains...))
	}}
}

// WithBoard applies fn to the board, for minefields, zones and displays.
func WithBoard(fn func(*board.Board)) Option {
	return Option{optBoard, func(tb *TestBoard) { fn(tb.Board) }}
}

// WithUnit adds u to the game.
func WithUnit(u *game.Unit) Option {
	return Option{optGame, func(tb *TestBoard) {
		tb.Game.Units = append(tb.Game.Units, u)
	}}
}

// WithGame applies fn to the snapshot before it is shown.
func WithGame(fn func(*game.Snapshot)) Option {
	return Option{optGame, func(tb *TestBoard) {
		fn(tb.Game)
	}}
}

// NewTestBoard builds a TestBoard in three ordered passes:
//  1. sizes, preferences and logger
//  2. board hexes and features
//  3. units and game state, then the snapshot is shown to Me
//
// Defaults are a 16x17 board, a 640x480 view and the base zoom. The
// viewer is Me; Foe is on the other team.
func NewTestBoard(opts ...Option) (*TestBoard, error) {
	tb := &TestBoard{
		width:    16,
		height:   17,
		viewW:    640,
		viewH:    480,
		log:      logging.Nop(),
		setPrefs: make(map[string]any),
		Events:   NewEventLog(),
		Tiles:    tiles.NewProcedural(),
		Me:       &game.Player{ID: 1, Name: "me", Team: 1, Colour: color.RGBA{B: 200, A: 255}},
		Foe:      &game.Player{ID: 2, Name: "foe", Team: 2, Colour: color.RGBA{R: 200, A: 255}},
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(tb)
		}
	}
	tb.Prefs = prefs.New(tb.log)
	for k, v := range tb.setPrefs {
		if err := tb.Prefs.Set(k, v); err != nil {
			return nil, err
		}
	}
	if tb.Board == nil {
		tb.Board = board.New(tb.width, tb.height)
	}
	for _, o := range opts {
		if o.kind == optBoard {
			o.fn(tb)
		}
	}

	tb.Reader = telemetry.NewReader()
	m, err := telemetry.New(tb.Reader.Provider)
	if err != nil {
		return nil, err
	}
	tb.Metrics = m
	bv, err := New(Config{
		Board:      tb.Board,
		Tiles:      tb.Tiles,
		Prefs:      tb.Prefs,
		Log:        tb.log,
		Metrics:    m,
		Width:      tb.viewW,
		Height:     tb.viewH,
		Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create board view: %w", err)
	}
	tb.View = bv
	bv.AddListener(tb.Events.Record)

	tb.Game = &game.Snapshot{
		UUID:    "test",
		Phase:   game.PhaseMovement,
		Round:   1,
		Players: []*game.Player{tb.Me, tb.Foe},
	}
	for _, o := range opts {
		if o.kind == optGame {
			o.fn(tb)
		}
	}
	bv.SetGame(tb.Game, tb.Me)
	bv.Pump()
	return tb, nil
}

// NewUnit returns an undecorated unit of owner at c facing north.
func NewUnit(id int, owner *game.Player, c hexgeo.Coord) *game.Unit {
	return &game.Unit{
		ID:       id,
		Name:     fmt.Sprintf("unit %d", id),
		Owner:    owner.ID,
		Position: c,
		C3Master: game.NoC3,
	}
}

// Close shuts the view down and releases the metrics provider.
func (tb *TestBoard) Close() error {
	err := tb.View.Shutdown()
	if serr := tb.Reader.Shutdown(context.Background()); serr != nil && err == nil {
		err = serr
	}
	return err
}

// Package prefs holds the board view's client preferences on a private
// viper instance and notifies subscribers when they change.
package prefs

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Garsondee/BoardView/internal/logging"
)

// ErrUnknownKey is returned by Set for keys the board view does not read.
var ErrUnknownKey = errors.New("unknown preference key")

// Recognised keys.
const (
	Isometric              = "isometric"
	ShadowMap              = "shadowMap"
	FovDarken              = "fovDarken"
	FovGrayscale           = "fovGrayscale"
	FovHighlightAlpha      = "fovHighlightAlpha"
	FovStripes             = "fovStripes"
	AOHexShadows           = "aoHexShadows"
	DarkenMapAtNight       = "darkenMapAtNight"
	LevelHighlight         = "levelHighlight"
	ShowCoords             = "showCoords"
	SoftCenter             = "softCenter"
	MouseWheelZoom         = "mouseWheelZoom"
	MouseWheelZoomFlip     = "mouseWheelZoomFlip"
	TooltipDistSuppression = "tooltipDistSuppression"
	TooltipDismissDelay    = "tooltipDismissDelay"
	GameSummaryBoardView   = "gameSummaryBoardView"
	GameSummaryDir         = "gameSummaryDir"
	ShowMapsheets          = "showMapsheets"
	ShowWrecks             = "showWrecks"
	MoveStepDelay          = "moveStepDelay"
	MapZoomIndex           = "mapZoomIndex"
	FloatingIso            = "floatingIso"
	HexInclines            = "hexInclines"
	ShowInvalidHexes       = "showInvalidHexes"
	LogLevel               = "logLevel"
)

// Reload is the Change key sent after a whole file was (re)read.
const Reload = ""

var defaults = map[string]any{
	Isometric:              false,
	ShadowMap:              true,
	FovDarken:              true,
	FovGrayscale:           false,
	FovHighlightAlpha:      40,
	FovStripes:             35,
	AOHexShadows:           false,
	DarkenMapAtNight:       true,
	LevelHighlight:         true,
	ShowCoords:             true,
	SoftCenter:             true,
	MouseWheelZoom:         true,
	MouseWheelZoomFlip:     false,
	TooltipDistSuppression: 2,
	TooltipDismissDelay:    -1,
	GameSummaryBoardView:   false,
	GameSummaryDir:         "./logs/gameSummaries",
	ShowMapsheets:          false,
	ShowWrecks:             true,
	MoveStepDelay:          50,
	MapZoomIndex:           7,
	FloatingIso:            false,
	HexInclines:            true,
	ShowInvalidHexes:       false,
	LogLevel:               "info",
}

// Change describes one preference update. Key is Reload after a file load.
type Change struct {
	Key   string
	Value any
}

// Preferences is a flat, typed settings map. Safe for concurrent use;
// subscribers run on the goroutine that made the change.
type Preferences struct {
	mu   sync.Mutex
	v    *viper.Viper
	subs map[int]func(Change)
	next int
	log  logging.Logger
}

// New returns preferences holding the defaults.
func New(log logging.Logger) *Preferences {
	if log == nil {
		log = logging.Nop()
	}
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return &Preferences{v: v, subs: make(map[int]func(Change)), log: log}
}

// Keys lists the recognised keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads a JSON, YAML or TOML file; the type follows the extension.
func (p *Preferences) Load(path string) error {
	p.mu.Lock()
	p.v.SetConfigFile(path)
	err := p.v.ReadInConfig()
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("error reading preferences file: %w", err)
	}
	p.log.Debug("preferences loaded", "path", path)
	p.notify(Change{Key: Reload})
	return nil
}

// Watch re-reads the loaded file whenever it changes on disk.
func (p *Preferences) Watch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v.OnConfigChange(func(e fsnotify.Event) {
		p.log.Debug("preferences reloaded", "path", e.Name, "op", e.Op.String())
		p.notify(Change{Key: Reload})
	})
	p.v.WatchConfig()
}

// Set updates key and notifies subscribers.
func (p *Preferences) Set(key string, value any) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	p.mu.Lock()
	p.v.Set(key, value)
	p.mu.Unlock()
	p.notify(Change{Key: key, Value: value})
	return nil
}

// Subscribe registers fn for every change. The returned func removes it.
func (p *Preferences) Subscribe(fn func(Change)) (cancel func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	p.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *Preferences) notify(c Change) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.subs[id])
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Bool returns a bool preference.
func (p *Preferences) Bool(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetBool(key)
}

// Int returns an int preference.
func (p *Preferences) Int(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetInt(key)
}

// String returns a string preference.
func (p *Preferences) String(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetString(key)
}

// Millis reads an integer millisecond preference as a duration.
func (p *Preferences) Millis(key string) time.Duration {
	return time.Duration(p.Int(key)) * time.Millisecond
}

// Subscribers is the number of live subscriptions.
func (p *Preferences) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

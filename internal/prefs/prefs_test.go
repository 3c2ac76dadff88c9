package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultValues(t *testing.T) {
	p := New(nil)

	assert.False(t, p.Bool(Isometric))
	assert.True(t, p.Bool(ShadowMap))
	assert.True(t, p.Bool(SoftCenter))
	assert.True(t, p.Bool(MouseWheelZoom))
	assert.Equal(t, 7, p.Int(MapZoomIndex))
	assert.Equal(t, 50*time.Millisecond, p.Millis(MoveStepDelay))
	assert.Equal(t, "info", p.String(LogLevel))
	assert.Equal(t, "./logs/gameSummaries", p.String(GameSummaryDir))
	assert.Len(t, Keys(), 25)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boardview.json")
	cfg := `{ "isometric": true, "mapZoomIndex": 10, "gameSummaryDir": "/tmp/summaries" }`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	p := New(nil)
	var got []Change
	p.Subscribe(func(c Change) { got = append(got, c) })

	require.NoError(t, p.Load(path))
	assert.True(t, p.Bool(Isometric))
	assert.Equal(t, 10, p.Int(MapZoomIndex))
	assert.Equal(t, "/tmp/summaries", p.String(GameSummaryDir))
	assert.True(t, p.Bool(ShadowMap), "unset keys keep their defaults")
	require.Len(t, got, 1)
	assert.Equal(t, Reload, got[0].Key)
}

func TestLoad_MissingFile(t *testing.T) {
	p := New(nil)
	err := p.Load("/nonexistent/boardview.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading preferences file")
}

func TestSet_NotifiesSubscribers(t *testing.T) {
	p := New(nil)
	var got Change
	cancel := p.Subscribe(func(c Change) { got = c })

	require.NoError(t, p.Set(Isometric, true))
	assert.Equal(t, Change{Key: Isometric, Value: true}, got)
	assert.True(t, p.Bool(Isometric))

	cancel()
	cancel()
	assert.Zero(t, p.Subscribers())
	require.NoError(t, p.Set(Isometric, false))
	assert.Equal(t, true, got.Value, "cancelled subscriber must not be called")
}

func TestSet_UnknownKey(t *testing.T) {
	p := New(nil)
	err := p.Set("animateMoves", true)
	require.ErrorIs(t, err, ErrUnknownKey)
}

// Package telemetry holds the board view's otel instruments.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const instrumentationName = "github.com/Garsondee/BoardView/internal/telemetry"

func meter(mp metric.MeterProvider) metric.Meter {
	if mp == nil {
		return otel.Meter(instrumentationName)
	}
	return mp.Meter(instrumentationName)
}

// Metrics is the set of counters updated by the renderer and scheduler.
type Metrics struct {
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter
	HexRenders  metric.Int64Counter
	Ticks       metric.Int64Counter
	Repaints    metric.Int64Counter
	TickPanics  metric.Int64Counter
	Screenshots metric.Int64Counter
}

// New creates the counters on mp, or on the global provider when mp is nil.
func New(mp metric.MeterProvider) (*Metrics, error) {
	m := meter(mp)
	var (
		out Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.CacheHits, "boardview.hexcache.hits", "Image cache lookups served from cache"},
		{&out.CacheMisses, "boardview.hexcache.misses", "Image cache lookups that had to recompute"},
		{&out.HexRenders, "boardview.hex.renders", "Hex images composed by the rasterizer"},
		{&out.Ticks, "boardview.ticks", "Redraw scheduler ticks"},
		{&out.Repaints, "boardview.repaints", "Repaints requested by ticks or events"},
		{&out.TickPanics, "boardview.tick.panics", "Panics recovered inside a tick"},
		{&out.Screenshots, "boardview.screenshots", "Board images written to disk"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}
	return &out, nil
}

// Must is New for callers that cannot recover, such as package defaults.
func Must(mp metric.MeterProvider) *Metrics {
	m, err := New(mp)
	if err != nil {
		panic(err)
	}
	return m
}

// Inc adds one to c with optional attributes. A nil counter is ignored.
func Inc(c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// Reader is an in-process meter provider whose totals can be read back.
type Reader struct {
	reader   *sdkmetric.ManualReader
	Provider *sdkmetric.MeterProvider
}

// NewReader builds a meter provider backed by a manual reader.
func NewReader() *Reader {
	r := sdkmetric.NewManualReader()
	return &Reader{
		reader:   r,
		Provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(r)),
	}
}

// Totals collects every int64 sum, keyed by instrument name.
func (r *Reader) Totals(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out, nil
}

// Shutdown flushes and stops the provider.
func (r *Reader) Shutdown(ctx context.Context) error {
	return r.Provider.Shutdown(ctx)
}

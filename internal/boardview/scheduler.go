package boardview

import (
	"context"
	"fmt"
	"time"

	"github.com/Garsondee/BoardView/internal/telemetry"
)

// TickInterval is the redraw scheduler period.
const TickInterval = 20 * time.Millisecond

// Tick advances the animations by dt: moving units first, then the soft
// centering glide. It reports whether the view needs a repaint. A panic
// inside the tick is logged and swallowed so the loop keeps running.
func (bv *BoardView) Tick(dt time.Duration) (repaint bool) {
	bv.ticks++
	if bv.metrics != nil {
		telemetry.Inc(bv.metrics.Ticks)
	}
	defer func() {
		if r := recover(); r != nil {
			if bv.metrics != nil {
				telemetry.Inc(bv.metrics.TickPanics)
			}
			bv.log.Error("recovered panic in redraw tick", "tick", bv.ticks, "panic", fmt.Sprint(r))
			repaint = false
		}
	}()

	bv.Pump()
	moved := bv.advanceMoving(dt)
	if moved {
		bv.repaint()
	}
	if bv.view.StepSoftCenter(dt) {
		bv.repaint()
	}
	return bv.dirty
}

// Ticks is the number of ticks run so far.
func (bv *BoardView) Ticks() int { return bv.ticks }

// Scheduler drives Tick at a fixed rate. Run only queues ticks; the UI
// goroutine runs them through Pump.
type Scheduler struct {
	bv       *BoardView
	interval time.Duration
	now      func() time.Time
}

// NewScheduler returns a scheduler ticking bv every interval; zero means
// TickInterval.
func NewScheduler(bv *BoardView, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = TickInterval
	}
	return &Scheduler{bv: bv, interval: interval, now: time.Now}
}

// Run queues one tick per interval until ctx is done. A tick is not
// queued while the previous one is still waiting, so a stalled UI
// goroutine does not build a backlog.
func (s *Scheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		now := s.now()
		dt := now.Sub(last)
		bv := s.bv
		bv.qmu.Lock()
		if bv.closed {
			bv.qmu.Unlock()
			return nil
		}
		if bv.queued {
			bv.qmu.Unlock()
			continue
		}
		bv.queued = true
		last = now
		bv.pending = append(bv.pending, func() {
			bv.qmu.Lock()
			bv.queued = false
			bv.qmu.Unlock()
			bv.Tick(dt)
		})
		bv.qmu.Unlock()
	}
}

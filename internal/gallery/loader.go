package gallery

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/constants"
)

// Element is a deferred image waiting to be revealed.
type Element struct {
	ID string
	// Top is the distance of the element from the top of the viewport.
	Top     float64
	DataSrc string
}

// Loader reveals deferred images one at a time, nearest to the viewport first.
type Loader struct {
	// Interval between two reveals. Zero means constants.LoadInterval.
	Interval time.Duration
}

// Order returns the elements that have a data-src, sorted by their distance
// from the viewport. Ties keep document order.
func Order(elems []Element) []Element {
	out := make([]Element, 0, len(elems))
	for _, e := range elems {
		if e.DataSrc != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Top) < math.Abs(out[j].Top)
	})
	return out
}

// Run calls reveal for each loadable element in Order. The first element is
// revealed immediately, the rest one per Interval. It returns ctx.Err() when
// cancelled before all elements are revealed.
func (l *Loader) Run(ctx context.Context, elems []Element, reveal func(Element)) error {
	interval := l.Interval
	if interval <= 0 {
		interval = constants.LoadInterval
	}

	queue := Order(elems)
	if len(queue) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	reveal(queue[0])
	if len(queue) == 1 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, e := range queue[1:] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reveal(e)
		}
	}
	return nil
}

// Debouncer runs fn once the triggers have been quiet for the delay.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a trailing-edge debouncer. Zero delay means
// constants.ResizeDebounce.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = constants.ResizeDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

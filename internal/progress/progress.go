// Package progress shows a terminal progress bar for long runs.
package progress

import (
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
)

const template = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{etime . }}`

// Bar is a progress bar that is only drawn when the run is long enough to
// need one. All methods are safe on a disabled bar.
type Bar struct {
	mu  sync.Mutex
	bar *pb.ProgressBar
}

// Maybe returns a bar for n steps, drawn only when n exceeds threshold.
func Maybe(n, threshold int, prefix string) *Bar {
	b := &Bar{}
	if n > threshold {
		b.bar = pb.ProgressBarTemplate(template).New(n)
		b.bar.Set("prefix", prefix)
		b.bar.SetRefreshRate(time.Second)
	}
	return b
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool {
	return b.bar != nil
}

func (b *Bar) Start() {
	if b.bar != nil {
		b.bar.Start()
	}
}

func (b *Bar) Increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

// SetCurrent moves the bar to an absolute value. Updates from concurrent
// callers never move it backwards.
func (b *Bar) SetCurrent(v int) {
	if b.bar == nil {
		return
	}
	b.mu.Lock()
	if int64(v) > b.bar.Current() {
		b.bar.SetCurrent(int64(v))
	}
	b.mu.Unlock()
}

func (b *Bar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}

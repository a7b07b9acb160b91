package hotel

import (
	"sync"
	"time"
)

const (
	initialWindow = 8
	windowStep    = 4

	// expandDelay paces expansion so fast networks do not flicker the
	// layout while new cards stream in.
	expandDelay = 800 * time.Millisecond
)

// Window exposes a prefix of the result list and grows it in fixed steps when
// the presentation layer reports the last rendered item visible. One
// expansion runs at a time; signals arriving mid-expansion are dropped, not
// queued. Once the window covers every result no further expansion is
// scheduled until the next Reset.
type Window struct {
	mu        sync.Mutex
	size      int
	total     int
	expanding bool
	gen       uint64
	delay     time.Duration
	onExpand  func()
}

func NewWindow() *Window {
	return &Window{delay: expandDelay}
}

// NewWindowWithDelay overrides the expansion delay, for tests.
func NewWindowWithDelay(delay time.Duration) *Window {
	return &Window{delay: delay}
}

// OnExpand registers a hook invoked after each completed expansion.
func (w *Window) OnExpand(fn func()) {
	w.mu.Lock()
	w.onExpand = fn
	w.mu.Unlock()
}

// Reset installs a fresh result count and rewinds the window to its initial
// size, clamped so the size never exceeds the result count. Any expansion
// still sleeping for a superseded result set completes without growing the
// fresh window.
func (w *Window) Reset(total int) {
	w.mu.Lock()
	w.total = total
	w.size = initialWindow
	if w.size > total {
		w.size = total
	}
	w.gen++
	w.mu.Unlock()
}

// Size reports how many results are currently exposed for rendering.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Expanding reports whether an expansion is in flight.
func (w *Window) Expanding() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expanding
}

// NotifyLastVisible triggers an asynchronous expansion. It is a no-op while
// an expansion is in flight or when the window already covers every result.
func (w *Window) NotifyLastVisible() {
	w.mu.Lock()
	if w.expanding || w.size >= w.total {
		w.mu.Unlock()
		return
	}
	w.expanding = true
	gen := w.gen
	w.mu.Unlock()

	go w.expand(gen)
}

func (w *Window) expand(gen uint64) {
	time.Sleep(w.delay)

	w.mu.Lock()
	w.expanding = false
	if w.gen != gen {
		// A new search superseded this expansion.
		w.mu.Unlock()
		return
	}
	w.size += windowStep
	if w.size > w.total {
		w.size = w.total
	}
	fn := w.onExpand
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Package smoothing maintains a rolling window of pain scores and emits a
// dampened score to absorb per-frame noise.
package smoothing

// Default smoothing configuration constants.
const (
	defaultWindowSize = 5
)

// Option applies a configuration option to the Window.
type Option func(*Window)

// WithWindowSize sets the fixed capacity of the rolling window.
func WithWindowSize(n int) Option {
	return func(w *Window) {
		if n >= 1 {
			w.capacity = n
		}
	}
}

// Window is a fixed-capacity FIFO of recent pain scores. On each new score
// the oldest sample is evicted once capacity is reached and the arithmetic
// mean of the current contents is emitted.
//
// Before the window is full the mean is taken over however many samples exist
// so far; padding with zeros would artificially suppress the first frames.
// The window is purely deterministic and fully replayable from its inputs.
type Window struct {
	capacity int
	samples  []float64
	head     int // index of the oldest sample once the ring is full
	sum      float64
}

// NewWindow creates a rolling window with configuration options.
func NewWindow(opts ...Option) *Window {
	w := &Window{
		capacity: defaultWindowSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	w.samples = make([]float64, 0, w.capacity)
	return w
}

// Push appends a score, evicting the oldest if the window is at capacity,
// and returns the mean of the current window.
func (w *Window) Push(score float64) float64 {
	if len(w.samples) < w.capacity {
		w.samples = append(w.samples, score)
		w.sum += score
	} else {
		w.sum += score - w.samples[w.head]
		w.samples[w.head] = score
		w.head = (w.head + 1) % w.capacity
	}
	return w.sum / float64(len(w.samples))
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return len(w.samples)
}

// Capacity returns the fixed window capacity.
func (w *Window) Capacity() int {
	return w.capacity
}

// Reset discards all samples.
func (w *Window) Reset() {
	w.samples = w.samples[:0]
	w.head = 0
	w.sum = 0
}

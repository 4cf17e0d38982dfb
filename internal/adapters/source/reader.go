package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/vigil/internal/domain/model"
)

// Default reader source configuration constants.
const (
	defaultFrameRate = 15.0
)

// ReaderOption applies a configuration option to the ReaderSource.
type ReaderOption func(*ReaderSource)

// WithFrameRate sets the nominal capture rate used to derive timestamps.
func WithFrameRate(fps float64) ReaderOption {
	return func(s *ReaderSource) {
		if fps > 0 {
			s.frameInterval = intervalFor(fps)
		}
	}
}

// WithStartTime sets the timestamp of the first frame. Defaults to the
// wall clock at construction; tests pin it for replayability.
func WithStartTime(t time.Time) ReaderOption {
	return func(s *ReaderSource) {
		if !t.IsZero() {
			s.next = t
		}
	}
}

// ReaderSource streams raw 8-bit grayscale frames of fixed dimensions from an
// io.Reader, e.g. an ffmpeg rawvideo pipe. Timestamps are synthesized from a
// start time and the nominal frame rate, which keeps them strictly
// increasing even when the producer stalls.
type ReaderSource struct {
	r             io.Reader
	width         int
	height        int
	frameInterval time.Duration
	next          time.Time
}

// NewReaderSource creates a reader-backed source for width x height frames.
func NewReaderSource(r io.Reader, width, height int, opts ...ReaderOption) *ReaderSource {
	s := &ReaderSource{
		r:             r,
		width:         width,
		height:        height,
		frameInterval: intervalFor(defaultFrameRate),
		next:          time.Now(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// intervalFor converts a nominal capture rate to the spacing between frames.
func intervalFor(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / fps)
}

// Next reads exactly one frame from the underlying reader. A clean EOF on a
// frame boundary maps to ErrEndOfStream; a short read mid-frame is a real
// error.
func (s *ReaderSource) Next(ctx context.Context) (model.FrameSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FrameSample{}, fmt.Errorf("frame read canceled: %w", err)
	}

	buf := make([]uint8, s.width*s.height)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return model.FrameSample{}, ErrEndOfStream
		}
		return model.FrameSample{}, fmt.Errorf("read frame: %w", err)
	}

	frame := model.FrameSample{
		Pixels: buf,
		Width:  s.width,
		Height: s.height,
		TS:     s.next,
	}
	s.next = s.next.Add(s.frameInterval)
	return frame, nil
}

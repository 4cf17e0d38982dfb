// Package movement scores per-frame movement intensity against a rolling
// background model.
package movement

import (
	"context"
	"math"

	"github.com/okian/vigil/internal/domain/model"
)

// Default detector configuration constants.
const (
	defaultLearningRate  = 0.05 // background EWMA update rate per frame
	defaultDiffThreshold = 40   // luminance delta marking a pixel as moving
	defaultScalingFactor = 10   // amplifies the moving-area fraction
	defaultWarmupFrames  = 5    // frames scored zero while the model settles
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithLearningRate sets the exponential update rate of the background model.
func WithLearningRate(rate float64) Option {
	return func(d *Detector) {
		if rate > 0 && rate <= 1 {
			d.learningRate = rate
		}
	}
}

// WithDiffThreshold sets the per-pixel luminance delta above which a pixel
// counts as moving. Lower values detect more subtle movement.
func WithDiffThreshold(threshold float64) Option {
	return func(d *Detector) {
		if threshold > 0 {
			d.diffThreshold = threshold
		}
	}
}

// WithScalingFactor sets the amplification applied to the moving-area
// fraction. Movement usually covers a small share of the frame, so the raw
// fraction is scaled before clamping.
func WithScalingFactor(factor float64) Option {
	return func(d *Detector) {
		if factor > 0 {
			d.scalingFactor = factor
		}
	}
}

// WithWarmupFrames sets how many initial frames score zero while the
// background reference is established.
func WithWarmupFrames(n int) Option {
	return func(d *Detector) {
		if n >= 0 {
			d.warmupFrames = n
		}
	}
}

// Detector scores movement via exponential background subtraction. The
// background model persists across frames and is owned exclusively by the
// detector; it is mutated only from the single pipeline goroutine.
//
// The score is the fraction of pixels deviating from the background beyond a
// threshold, amplified and clamped to [0,1]. Normalizing by frame area keeps
// scores comparable across camera and lighting setups.
type Detector struct {
	learningRate  float64
	diffThreshold float64
	scalingFactor float64
	warmupFrames  int

	background []float64 // per-pixel running background, nil until seeded
	width      int
	height     int
	seen       int // frames observed so far
}

// NewDetector creates a movement detector with configuration options.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		learningRate:  defaultLearningRate,
		diffThreshold: defaultDiffThreshold,
		scalingFactor: defaultScalingFactor,
		warmupFrames:  defaultWarmupFrames,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect scores one frame and folds it into the background model. The first
// frame seeds the model and scores zero, as do warmup frames and frames whose
// dimensions changed mid-stream (the model is reseeded).
func (d *Detector) Detect(_ context.Context, frame model.FrameSample) (model.MovementScore, error) {
	if !frame.Valid() {
		return model.MovementScore{}, model.ErrMalformedFrame
	}

	if d.background == nil || d.width != frame.Width || d.height != frame.Height {
		d.seed(frame)
		return model.MovementScore{TS: frame.TS}, nil
	}

	moving := 0
	for i, px := range frame.Pixels {
		diff := math.Abs(float64(px) - d.background[i])
		if diff > d.diffThreshold {
			moving++
		}
		// Fold the pixel into the background regardless, so a person who
		// stops moving is gradually absorbed.
		d.background[i] += d.learningRate * (float64(px) - d.background[i])
	}
	d.seen++

	if d.seen <= d.warmupFrames {
		return model.MovementScore{TS: frame.TS}, nil
	}

	fraction := float64(moving) / float64(len(frame.Pixels))
	score := math.Min(1, fraction*d.scalingFactor)

	return model.MovementScore{Score: score, TS: frame.TS}, nil
}

// Reset discards the background model; the next frame reseeds it.
func (d *Detector) Reset() {
	d.background = nil
	d.seen = 0
}

// seed initializes the background from a frame.
func (d *Detector) seed(frame model.FrameSample) {
	d.background = make([]float64, len(frame.Pixels))
	for i, px := range frame.Pixels {
		d.background[i] = float64(px)
	}
	d.width = frame.Width
	d.height = frame.Height
	d.seen = 1
}

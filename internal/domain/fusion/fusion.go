// Package fusion defines the contract for combining per-frame signals into a
// single normalized pain score.
package fusion

import (
	"context"
	"math"

	"github.com/okian/vigil/internal/domain/model"
)

// Default fusion configuration constants. The facial weight is carried by the
// emotion pain proxy so that granular indicators can be added to the weight
// table without touching the engine.
const (
	defaultEmotionProxyWeight = 0.70
	defaultMovementWeight     = 0.30
)

// Option applies a configuration option to the WeightedEngine.
type Option func(*WeightedEngine)

// WithIndicatorWeights sets the per-indicator weights from a configuration
// map. Negative weights are dropped; indicators absent from the map contribute
// nothing to the fused score.
func WithIndicatorWeights(weights map[string]float64) Option {
	return func(e *WeightedEngine) {
		// Copy the weights map to avoid external modifications
		e.indicatorWeights = make(map[string]float64, len(weights))
		for name, weight := range weights {
			if weight >= 0 {
				e.indicatorWeights[name] = weight
			}
		}
	}
}

// WithMovementWeight sets the weight of the movement contribution.
func WithMovementWeight(weight float64) Option {
	return func(e *WeightedEngine) {
		if weight >= 0 {
			e.movementWeight = weight
		}
	}
}

// Input bundles the per-frame signals consumed by fusion.
type Input struct {
	Indicators model.FacialIndicators // possibly empty
	Movement   float64                // movement intensity in [0,1]
}

// Engine fuses facial indicators and a movement score into one pain score.
type Engine interface {
	// Fuse computes the pain score for one frame. The result is always in
	// [0,1]; absent signals contribute zero and never produce an error.
	Fuse(ctx context.Context, in Input) float64
}

// WeightedEngine implements Engine with a fixed weighted-sum policy.
//
// Missing indicators contribute zero and the remaining weight mass is NOT
// renormalized: absence of evidence is absence of pain signal.
type WeightedEngine struct {
	indicatorWeights map[string]float64
	movementWeight   float64
}

// NewWeightedEngine creates a weighted fusion engine with configuration options.
func NewWeightedEngine(opts ...Option) *WeightedEngine {
	e := &WeightedEngine{
		indicatorWeights: map[string]float64{
			model.IndicatorEmotionPainProxy: defaultEmotionProxyWeight,
		},
		movementWeight: defaultMovementWeight,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Fuse computes the weighted sum of all present indicators plus the movement
// contribution, clamped to [0,1].
func (e *WeightedEngine) Fuse(_ context.Context, in Input) float64 {
	var score float64
	for name, value := range in.Indicators {
		weight, ok := e.indicatorWeights[name]
		if !ok {
			continue // unknown indicator, zero contribution
		}
		score += clamp01(value) * weight
	}
	score += clamp01(in.Movement) * e.movementWeight

	return clamp01(score)
}

// Weight returns the configured weight for an indicator name, zero if unknown.
func (e *WeightedEngine) Weight(name string) float64 {
	return e.indicatorWeights[name]
}

// clamp01 bounds v to [0,1]. NaN collapses to 0 so a malformed upstream
// signal can never poison the fused score.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

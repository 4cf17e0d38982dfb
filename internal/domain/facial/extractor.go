// Package facial turns opaque face-analysis results into named pain
// indicators.
package facial

import (
	"context"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
)

// painByEmotion maps a dominant emotion label to a baseline pain proxy.
// Unknown labels contribute zero.
var painByEmotion = map[string]float64{
	"angry":    0.8,
	"fear":     0.7,
	"disgust":  0.7,
	"sad":      0.6,
	"surprise": 0.2,
	"neutral":  0.1,
	"happy":    0.0,
}

// FaceAnalysis is the opaque analyzer's verdict for one detected face.
type FaceAnalysis struct {
	Emotion    string             // dominant emotion label
	Confidence float64            // detection confidence in [0,1]
	Indicators map[string]float64 // optional granular indicators in [0,1], e.g. landmark-derived
}

// FaceAnalyzer is the external emotion/landmark model. It returns one entry
// per detected face; zero entries when no face is present.
type FaceAnalyzer interface {
	Analyze(ctx context.Context, frame model.FrameSample) ([]FaceAnalysis, error)
}

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger for the extractor.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Extractor produces FacialIndicators for one frame. A missing face is a
// legitimate, frequent condition and yields an empty indicator set; an
// analyzer failure degrades the same way rather than aborting the frame.
type Extractor struct {
	analyzer FaceAnalyzer
	logger   logger.Logger
}

// NewExtractor creates a facial extractor around an analyzer.
func NewExtractor(analyzer FaceAnalyzer, opts ...Option) *Extractor {
	e := &Extractor{
		analyzer: analyzer,
		logger:   logger.Get().Named("facial"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract analyzes one frame and returns the indicator set plus the number
// of faces seen. Multiple faces are collapsed per indicator by taking the
// maximum: if any person in frame shows pain, the pipeline should react.
func (e *Extractor) Extract(ctx context.Context, frame model.FrameSample) (model.FacialIndicators, int) {
	if !frame.Valid() {
		e.logger.Warn(ctx, "skipping facial analysis of malformed frame",
			logger.Int("width", frame.Width),
			logger.Int("height", frame.Height),
			logger.Int("pixels", len(frame.Pixels)),
		)
		return model.FacialIndicators{}, 0
	}

	faces, err := e.analyzer.Analyze(ctx, frame)
	if err != nil {
		e.logger.Warn(ctx, "face analysis unavailable for frame", logger.Error(err))
		return model.FacialIndicators{}, 0
	}
	if len(faces) == 0 {
		return model.FacialIndicators{}, 0
	}

	indicators := model.FacialIndicators{}
	for _, face := range faces {
		if proxy, ok := emotionPainProxy(face); ok {
			merge(indicators, model.IndicatorEmotionPainProxy, proxy)
		}
		for name, value := range face.Indicators {
			if value >= 0 && value <= 1 {
				merge(indicators, name, value)
			}
		}
	}
	return indicators, len(faces)
}

// emotionPainProxy derives the baseline indicator from the dominant emotion,
// weighted by the detection confidence. An unlabeled face omits the
// indicator instead of reporting a bogus zero-pain signal.
func emotionPainProxy(face FaceAnalysis) (float64, bool) {
	if face.Emotion == "" {
		return 0, false
	}
	base, ok := painByEmotion[face.Emotion]
	if !ok {
		return 0, false
	}
	conf := face.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	return base * conf, true
}

// merge keeps the per-indicator maximum across faces.
func merge(ind model.FacialIndicators, name string, value float64) {
	if existing, ok := ind[name]; !ok || value > existing {
		ind[name] = value
	}
}

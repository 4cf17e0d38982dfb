// Package model contains domain models passed between pipeline stages.
package model

import "time"

// Well-known facial indicator names. The indicator set is open-ended;
// extractors may emit names beyond this list and the fusion engine will
// weight them by name, defaulting unknown names to zero contribution.
const (
	IndicatorEmotionPainProxy = "emotion_pain_proxy"
	IndicatorBrowFurrow       = "brow_furrow"
	IndicatorEyeClosure       = "eye_closure"
	IndicatorCheekRaiser      = "cheek_raiser"
	IndicatorNoseWrinkler     = "nose_wrinkler"
	IndicatorUpperLipRaiser   = "upper_lip_raiser"
	IndicatorMouthStretch     = "mouth_stretch"
)

// FrameSample is one grayscale camera frame plus its capture timestamp.
// It is ephemeral: created per capture cycle, consumed by one pipeline
// iteration, never persisted.
type FrameSample struct {
	Pixels []uint8   // row-major 8-bit luminance values, len == Width*Height
	Width  int       // frame width in pixels
	Height int       // frame height in pixels
	TS     time.Time // monotonic capture timestamp
}

// Valid reports whether the frame carries a consistent pixel buffer.
func (f FrameSample) Valid() bool {
	return f.Width > 0 && f.Height > 0 && len(f.Pixels) == f.Width*f.Height
}

// FacialIndicators maps indicator names to scores in [0,1]. Indicators that
// could not be computed for a frame are simply absent from the map; a missing
// face yields an empty map, never an error.
type FacialIndicators map[string]float64

// MovementScore is the normalized movement intensity for one frame.
type MovementScore struct {
	Score float64   // movement intensity in [0,1]
	TS    time.Time // timestamp of the frame that produced it
}

// FrameResult is the annotated output of one pipeline iteration, exposed for
// display and telemetry.
type FrameResult struct {
	TS            time.Time        `json:"ts"`
	FaceCount     int              `json:"face_count"`
	Indicators    FacialIndicators `json:"indicators"`
	MovementScore float64          `json:"movement_score"`
	PainScore     float64          `json:"pain_score"`
	SmoothedScore float64          `json:"smoothed_score"`
	AlertFired    bool             `json:"alert_fired"`
	GateState     string           `json:"gate_state"`
}

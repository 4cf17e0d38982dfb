package facial

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubAnalyzer returns canned analysis results.
type stubAnalyzer struct {
	faces []FaceAnalysis
	err   error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ model.FrameSample) ([]FaceAnalysis, error) {
	return s.faces, s.err
}

func validFrame() model.FrameSample {
	return model.FrameSample{
		Pixels: make([]uint8, 4*4),
		Width:  4,
		Height: 4,
		TS:     time.Unix(1_700_000_000, 0),
	}
}

func TestExtract_NoFace(t *testing.T) {
	Convey("Given an analyzer that sees no faces", t, func() {
		ex := NewExtractor(&stubAnalyzer{})

		Convey("When a frame is extracted", func() {
			indicators, count := ex.Extract(context.Background(), validFrame())

			Convey("Then the indicator set is empty and no faces are counted", func() {
				So(indicators, ShouldBeEmpty)
				So(count, ShouldEqual, 0)
			})
		})
	})
}

func TestExtract_AnalyzerFailure(t *testing.T) {
	Convey("Given an analyzer that fails", t, func() {
		ex := NewExtractor(&stubAnalyzer{err: errors.New("model offline")})

		Convey("When a frame is extracted", func() {
			indicators, count := ex.Extract(context.Background(), validFrame())

			Convey("Then the frame degrades to an empty indicator set", func() {
				So(indicators, ShouldBeEmpty)
				So(count, ShouldEqual, 0)
			})
		})
	})
}

func TestExtract_MalformedFrame(t *testing.T) {
	Convey("Given a frame whose pixel buffer does not match its dimensions", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{{Emotion: "angry", Confidence: 1}}})
		frame := model.FrameSample{Pixels: make([]uint8, 5), Width: 4, Height: 4}

		Convey("When it is extracted", func() {
			indicators, count := ex.Extract(context.Background(), frame)

			Convey("Then analysis is skipped entirely", func() {
				So(indicators, ShouldBeEmpty)
				So(count, ShouldEqual, 0)
			})
		})
	})
}

func TestExtract_EmotionPainProxy(t *testing.T) {
	Convey("Given the emotion-to-pain mapping", t, func() {
		cases := []struct {
			emotion string
			want    float64
		}{
			{"angry", 0.8},
			{"fear", 0.7},
			{"disgust", 0.7},
			{"sad", 0.6},
			{"surprise", 0.2},
			{"neutral", 0.1},
			{"happy", 0.0},
		}

		for _, tc := range cases {
			Convey("When a fully confident "+tc.emotion+" face is analyzed", func() {
				ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
					{Emotion: tc.emotion, Confidence: 1.0},
				}})
				indicators, count := ex.Extract(context.Background(), validFrame())

				Convey("Then the pain proxy matches the mapping", func() {
					So(count, ShouldEqual, 1)
					So(indicators[model.IndicatorEmotionPainProxy], ShouldAlmostEqual, tc.want, 1e-9)
				})
			})
		}
	})
}

func TestExtract_ConfidenceScalesProxy(t *testing.T) {
	Convey("Given an angry face at half confidence", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
			{Emotion: "angry", Confidence: 0.5},
		}})

		Convey("When the frame is extracted", func() {
			indicators, _ := ex.Extract(context.Background(), validFrame())

			Convey("Then the proxy is scaled by the confidence", func() {
				So(indicators[model.IndicatorEmotionPainProxy], ShouldAlmostEqual, 0.4, 1e-9)
			})
		})
	})

	Convey("Given a face with an out-of-range confidence", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
			{Emotion: "angry", Confidence: 3.0},
		}})

		Convey("When the frame is extracted", func() {
			indicators, _ := ex.Extract(context.Background(), validFrame())

			Convey("Then the confidence is clamped before scaling", func() {
				So(indicators[model.IndicatorEmotionPainProxy], ShouldAlmostEqual, 0.8, 1e-9)
			})
		})
	})
}

func TestExtract_UnknownOrMissingEmotion(t *testing.T) {
	Convey("Given faces with unknown or absent emotion labels", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
			{Emotion: "confused", Confidence: 1.0},
			{Emotion: "", Confidence: 1.0},
		}})

		Convey("When the frame is extracted", func() {
			indicators, count := ex.Extract(context.Background(), validFrame())

			Convey("Then the faces are counted but contribute no pain proxy", func() {
				So(count, ShouldEqual, 2)
				_, present := indicators[model.IndicatorEmotionPainProxy]
				So(present, ShouldBeFalse)
			})
		})
	})
}

func TestExtract_MultipleFacesTakeMaximum(t *testing.T) {
	Convey("Given a calm face and a face in visible distress", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
			{Emotion: "happy", Confidence: 1.0, Indicators: map[string]float64{
				model.IndicatorBrowFurrow: 0.1,
			}},
			{Emotion: "angry", Confidence: 1.0, Indicators: map[string]float64{
				model.IndicatorBrowFurrow: 0.9,
				model.IndicatorEyeClosure: 0.4,
			}},
		}})

		Convey("When the frame is extracted", func() {
			indicators, count := ex.Extract(context.Background(), validFrame())

			Convey("Then each indicator keeps the per-face maximum", func() {
				So(count, ShouldEqual, 2)
				So(indicators[model.IndicatorEmotionPainProxy], ShouldAlmostEqual, 0.8, 1e-9)
				So(indicators[model.IndicatorBrowFurrow], ShouldAlmostEqual, 0.9, 1e-9)
				So(indicators[model.IndicatorEyeClosure], ShouldAlmostEqual, 0.4, 1e-9)
			})
		})
	})
}

func TestExtract_DropsOutOfRangeIndicators(t *testing.T) {
	Convey("Given analyzer indicators outside [0,1]", t, func() {
		ex := NewExtractor(&stubAnalyzer{faces: []FaceAnalysis{
			{Emotion: "neutral", Confidence: 1.0, Indicators: map[string]float64{
				model.IndicatorBrowFurrow:     1.7,
				model.IndicatorCheekRaiser:    -0.2,
				model.IndicatorNoseWrinkler:   0.3,
				model.IndicatorUpperLipRaiser: 1.0,
			}},
		}})

		Convey("When the frame is extracted", func() {
			indicators, _ := ex.Extract(context.Background(), validFrame())

			Convey("Then only in-range values survive", func() {
				_, furrow := indicators[model.IndicatorBrowFurrow]
				_, cheek := indicators[model.IndicatorCheekRaiser]
				So(furrow, ShouldBeFalse)
				So(cheek, ShouldBeFalse)
				So(indicators[model.IndicatorNoseWrinkler], ShouldAlmostEqual, 0.3, 1e-9)
				So(indicators[model.IndicatorUpperLipRaiser], ShouldAlmostEqual, 1.0, 1e-9)
			})
		})
	})
}

// Package service drives the per-frame scoring pipeline: acquire frame,
// extract facial and movement signals, fuse, smooth, gate, notify.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/vigil/internal/adapters/source"
	"github.com/okian/vigil/internal/domain/alert"
	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/fusion"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/movement"
	"github.com/okian/vigil/internal/domain/smoothing"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// noFaceAnalyzer stands in when no analyzer is configured; the pipeline then
// scores on movement alone.
type noFaceAnalyzer struct{}

func (noFaceAnalyzer) Analyze(_ context.Context, _ model.FrameSample) ([]facial.FaceAnalysis, error) {
	return nil, nil
}

// notifierAdapter wraps the configured transport with dispatch metrics.
type notifierAdapter struct {
	inner alert.Notifier
}

func (a *notifierAdapter) Notify(ctx context.Context, message string) error {
	start := time.Now()
	err := a.inner.Notify(ctx, message)
	metrics.RecordNotifyLatency(float64(time.Since(start).Milliseconds()))
	return err
}

// Service owns the pipeline components and runs the frame loop. All mutable
// pipeline state (background model, smoothing window, alert timer) is owned
// by its component and touched only from the single Run goroutine; the mutex
// guards the published FrameResult and counters read by the HTTP surface.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	frames   source.Source
	analyzer facial.FaceAnalyzer
	notifier alert.Notifier

	// Core components, built in Start
	extractor *facial.Extractor
	detector  *movement.Detector
	engine    fusion.Engine
	window    *smoothing.Window
	gate      *alert.Gate

	// Configuration
	threshold        float64
	cooldown         time.Duration
	retryOnFailure   bool
	windowSize       int
	indicatorWeights map[string]float64
	movementWeight   float64
	movementOpts     []movement.Option

	// State
	started         bool
	framesProcessed int64
	framesSkipped   int64
	alertsSent      int64
	alertFailures   int64
	latest          model.FrameResult
	hasResult       bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		analyzer:       noFaceAnalyzer{},
		threshold:      0.7,
		cooldown:       300 * time.Second,
		windowSize:     5,
		movementWeight: 0.30,
		indicatorWeights: map[string]float64{
			model.IndicatorEmotionPainProxy: 0.70,
		},
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the pipeline components. It does not consume frames; call Run
// for the loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.frames == nil {
		return ErrNoSource
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}

	if s.notifier == nil {
		return ErrNoNotifier
	}

	s.extractor = facial.NewExtractor(s.analyzer, facial.WithLogger(s.logger))
	s.detector = movement.NewDetector(s.movementOpts...)
	s.engine = fusion.NewWeightedEngine(
		fusion.WithIndicatorWeights(s.indicatorWeights),
		fusion.WithMovementWeight(s.movementWeight),
	)
	s.window = smoothing.NewWindow(smoothing.WithWindowSize(s.windowSize))
	s.gate = alert.NewGate(&notifierAdapter{inner: s.notifier},
		alert.WithThreshold(s.threshold),
		alert.WithCooldown(s.cooldown),
		alert.WithRetryOnFailure(s.retryOnFailure),
	)

	s.started = true
	s.logger.Info(ctx, "pain monitoring pipeline started",
		logger.Float64("threshold", s.threshold),
		logger.Duration("cooldown", s.cooldown),
		logger.Int("window", s.windowSize),
	)

	return nil
}

// Run consumes frames until the context is canceled or the stream ends.
// One iteration completes before the next frame is acquired; the pipeline is
// strictly sequential so cooldown timing and smoothing see frames in arrival
// order.
func (s *Service) Run(ctx context.Context) error {
	if !s.isStarted() {
		return ErrNotStarted
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "stop requested; leaving frame loop")
			return nil
		default:
		}

		frame, err := s.frames.Next(ctx)
		if err != nil {
			if errors.Is(err, source.ErrEndOfStream) {
				s.logger.Info(ctx, "frame stream ended")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("frame acquisition failed: %w", err)
		}

		s.processFrame(ctx, frame)
	}
}

// processFrame runs one pipeline iteration.
func (s *Service) processFrame(ctx context.Context, frame model.FrameSample) {
	start := time.Now()

	if !frame.Valid() {
		// Malformed frame: log and move on to the next one.
		s.logger.Warn(ctx, "skipping malformed frame",
			logger.Int("width", frame.Width),
			logger.Int("height", frame.Height),
			logger.Int("pixels", len(frame.Pixels)),
		)
		metrics.RecordFrameSkipped()
		s.mu.Lock()
		s.framesSkipped++
		s.mu.Unlock()
		return
	}

	indicators, faceCount := s.extractor.Extract(ctx, frame)

	mov, err := s.detector.Detect(ctx, frame)
	if err != nil {
		s.logger.Warn(ctx, "movement detection failed; skipping frame", logger.Error(err))
		metrics.RecordFrameSkipped()
		s.mu.Lock()
		s.framesSkipped++
		s.mu.Unlock()
		return
	}

	pain := s.engine.Fuse(ctx, fusion.Input{Indicators: indicators, Movement: mov.Score})
	smoothed := s.window.Push(pain)

	decision, err := s.gate.Observe(ctx, alert.Observation{Score: smoothed, TS: frame.TS})
	if err != nil {
		// Dispatch failure is non-fatal; the gate has already decided what
		// happens to the cooldown timer.
		s.logger.Error(ctx, "alert dispatch failed", logger.Error(err))
		metrics.RecordAlertFailure()
		s.mu.Lock()
		s.alertFailures++
		s.mu.Unlock()
	}
	if decision.Fired && err == nil {
		s.logger.Warn(ctx, "pain alert dispatched",
			logger.String("alertID", decision.AlertID),
			logger.Float64("smoothed", smoothed),
			logger.Time("ts", frame.TS),
		)
		metrics.RecordAlertSent()
		s.mu.Lock()
		s.alertsSent++
		s.mu.Unlock()
	}
	if smoothed >= s.threshold && !decision.Fired {
		metrics.RecordAlertSuppressed()
	}

	result := model.FrameResult{
		TS:            frame.TS,
		FaceCount:     faceCount,
		Indicators:    indicators,
		MovementScore: mov.Score,
		PainScore:     pain,
		SmoothedScore: smoothed,
		AlertFired:    decision.Fired,
		GateState:     string(decision.State),
	}

	s.mu.Lock()
	s.framesProcessed++
	s.latest = result
	s.hasResult = true
	s.mu.Unlock()

	metrics.RecordFrameProcessed()
	metrics.UpdateFaceCount(faceCount)
	metrics.UpdateMovementScore(mov.Score)
	metrics.UpdatePainScore(pain)
	metrics.UpdateSmoothedScore(smoothed)
	metrics.RecordFrameLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "frame scored",
		logger.Int("faces", faceCount),
		logger.Float64("movement", mov.Score),
		logger.Float64("pain", pain),
		logger.Float64("smoothed", smoothed),
		logger.Bool("alert", decision.Fired),
	)
}

// Stop releases transport resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.notifier.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "pain monitoring pipeline stopped")
}

// Latest returns the most recent frame result, false if none exists yet.
func (s *Service) Latest() (model.FrameResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasResult
}

// GetStats returns pipeline statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"threshold":       s.threshold,
		"cooldownSeconds": s.cooldown.Seconds(),
		"windowSize":      s.windowSize,
		"framesProcessed": s.framesProcessed,
		"framesSkipped":   s.framesSkipped,
		"alertsSent":      s.alertsSent,
		"alertFailures":   s.alertFailures,
	}
	if s.hasResult {
		stats["lastTS"] = s.latest.TS
		stats["smoothedScore"] = s.latest.SmoothedScore
		stats["gateState"] = s.latest.GateState
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

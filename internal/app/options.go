package service

import (
	"time"

	"github.com/okian/vigil/internal/adapters/source"
	"github.com/okian/vigil/internal/domain/alert"
	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/movement"
	"github.com/okian/vigil/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the frame source. Required.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.frames = src
		}
	}
}

// WithAnalyzer sets the face-analysis collaborator. Without one the pipeline
// scores on movement alone.
func WithAnalyzer(a facial.FaceAnalyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithNotifier sets the alert transport. Required.
func WithNotifier(n alert.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThreshold sets the alert threshold on the smoothed score.
func WithThreshold(t float64) Option {
	return func(s *Service) {
		if t >= 0 && t <= 1 {
			s.threshold = t
		}
	}
}

// WithCooldown sets the minimum time between alert dispatches.
func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cooldown = d
		}
	}
}

// WithRetryOnFailure makes a failed dispatch leave the cooldown timer
// untouched so the next qualifying frame retries immediately.
func WithRetryOnFailure(retry bool) Option {
	return func(s *Service) {
		s.retryOnFailure = retry
	}
}

// WithSmoothingWindow sets the rolling window size.
func WithSmoothingWindow(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.windowSize = n
		}
	}
}

// WithIndicatorWeights sets the fusion weights for facial indicators.
func WithIndicatorWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if weights != nil {
			s.indicatorWeights = weights
		}
	}
}

// WithMovementWeight sets the fusion weight of the movement signal.
func WithMovementWeight(w float64) Option {
	return func(s *Service) {
		if w >= 0 {
			s.movementWeight = w
		}
	}
}

// WithMovementOptions forwards tuning options to the movement detector.
func WithMovementOptions(opts ...movement.Option) Option {
	return func(s *Service) {
		s.movementOpts = opts
	}
}

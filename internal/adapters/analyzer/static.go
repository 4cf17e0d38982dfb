package analyzer

import (
	"context"

	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/model"
)

// StaticAnalyzer replays canned per-frame results, standing in for the
// inference sidecar in tests. Each Analyze call consumes one scripted result;
// once exhausted it reports no faces.
type StaticAnalyzer struct {
	results [][]facial.FaceAnalysis
	errs    []error
	pos     int
}

// NewStaticAnalyzer creates an analyzer yielding the given per-frame results.
// errs may be nil or shorter than results; missing entries mean no error.
func NewStaticAnalyzer(results [][]facial.FaceAnalysis, errs []error) *StaticAnalyzer {
	return &StaticAnalyzer{results: results, errs: errs}
}

// Analyze returns the next scripted result.
func (a *StaticAnalyzer) Analyze(_ context.Context, _ model.FrameSample) ([]facial.FaceAnalysis, error) {
	i := a.pos
	a.pos++
	var err error
	if i < len(a.errs) {
		err = a.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i >= len(a.results) {
		return nil, nil
	}
	return a.results[i], nil
}

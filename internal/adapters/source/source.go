// Package source defines the contract for acquiring frames. Camera indices,
// display windows and key handling belong to the capture collaborator, not
// to the pipeline.
package source

import (
	"context"

	"github.com/okian/vigil/internal/domain/model"
)

// Source delivers frames one at a time, in capture order.
type Source interface {
	// Next returns the next frame, or ErrEndOfStream when the stream is
	// exhausted. Blocking on slow capture is acceptable: the pipeline runs
	// one iteration per captured frame.
	Next(ctx context.Context) (model.FrameSample, error)
}

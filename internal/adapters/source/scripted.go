package source

import (
	"context"
	"fmt"

	"github.com/okian/vigil/internal/domain/model"
)

// ScriptedSource replays a fixed in-memory frame sequence. It stands in for
// the capture collaborator in tests and demos, the same way a fake transport
// stands in for real hardware.
type ScriptedSource struct {
	frames []model.FrameSample
	pos    int
}

// NewScriptedSource creates a source that yields the given frames in order.
func NewScriptedSource(frames []model.FrameSample) *ScriptedSource {
	return &ScriptedSource{frames: frames}
}

// Next returns the next scripted frame, or ErrEndOfStream once exhausted.
func (s *ScriptedSource) Next(ctx context.Context) (model.FrameSample, error) {
	if err := ctx.Err(); err != nil {
		return model.FrameSample{}, fmt.Errorf("frame read canceled: %w", err)
	}
	if s.pos >= len(s.frames) {
		return model.FrameSample{}, ErrEndOfStream
	}
	frame := s.frames[s.pos]
	s.pos++
	return frame, nil
}

// Remaining reports how many frames are left to replay.
func (s *ScriptedSource) Remaining() int {
	return len(s.frames) - s.pos
}

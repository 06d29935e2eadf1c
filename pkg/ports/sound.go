package ports

import "github.com/aretw0/workshop/pkg/domain"

// CueSink plays audio cues. Implementations must return immediately and must
// not report playback failures to the caller.
type CueSink interface {
	Play(cue domain.Cue)
}

// CueSinkFunc adapts a function to CueSink.
type CueSinkFunc func(domain.Cue)

// Play calls f(cue).
func (f CueSinkFunc) Play(cue domain.Cue) { f(cue) }

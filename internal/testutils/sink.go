package testutils

import (
	"sync"

	"github.com/aretw0/workshop/pkg/domain"
)

// RecordingSink is a ports.CueSink that remembers every cue.
type RecordingSink struct {
	mu   sync.Mutex
	cues []domain.Cue
}

// Play implements ports.CueSink.
func (r *RecordingSink) Play(cue domain.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

// Cues returns a copy of the recorded cues.
func (r *RecordingSink) Cues() []domain.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Cue(nil), r.cues...)
}

// Reset forgets the recorded cues.
func (r *RecordingSink) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = nil
}

package sound

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/workshop/pkg/domain"
)

// Bell rings the terminal bell for verification cues. Drag and drop cues are silent.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell writes BEL characters to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Play implements Backend.
func (b *Bell) Play(ctx context.Context, cue domain.Cue) error {
	var seq string
	switch cue {
	case domain.CueCorrect:
		seq = "\a"
	case domain.CueIncorrect:
		seq = "\a\a"
	default:
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.out, seq); err != nil {
		return fmt.Errorf("bell: %w", err)
	}
	return nil
}

// Discard is a backend that plays nothing.
var Discard Backend = BackendFunc(func(context.Context, domain.Cue) error { return nil })

package runtime

import (
	"time"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
)

// SystemScheduler runs callbacks on the wall clock.
type SystemScheduler struct{}

// AfterFunc implements ports.Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

type silentSink struct{}

func (silentSink) Play(domain.Cue) {}

package testutils

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/workshop/pkg/ports"
)

// FakeScheduler is a manually driven ports.Scheduler.
// Callbacks run synchronously inside Advance, on the caller's goroutine.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*FakeTimer
}

// FakeTimer is a timer created by FakeScheduler.
type FakeTimer struct {
	s       *FakeScheduler
	due     time.Duration
	order   int
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeScheduler returns a scheduler at time zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// AfterFunc implements ports.Scheduler.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &FakeTimer{s: s, due: s.now + d, order: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Stop implements ports.Timer.
func (t *FakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and fires every due timer in deadline order.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*FakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.due <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].order < due[j].order
		}
		return due[i].due < due[j].due
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Callbacks returns every callback registered so far, stopped or not.
// Tests use it to replay a timer that lost the race against Stop.
func (s *FakeScheduler) Callbacks() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fns := make([]func(), len(s.timers))
	for i, t := range s.timers {
		fns[i] = t.fn
	}
	return fns
}

package runtime

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/payload"
	"github.com/aretw0/workshop/pkg/ports"
)

// Session is one running exercise.
type Session struct {
	exercise domain.Exercise
	rules    domain.Rules

	sink   ports.CueSink
	clock  ports.Scheduler
	rng    *rand.Rand
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu      sync.Mutex
	closed  bool
	problem int
	st      *state
	reverts map[uint64]ports.Timer
	epoch   uint64
	nextID  uint64
	version uint64

	lmu          sync.Mutex
	listeners    map[uint64]func(domain.Snapshot)
	nextListener uint64
}

var _ ports.Session = (*Session)(nil)

// NewSession validates the exercise and initializes its first problem.
func NewSession(exercise domain.Exercise, opts ...Option) (*Session, error) {
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		exercise:  exercise,
		rules:     exercise.Rules,
		sink:      silentSink{},
		clock:     SystemScheduler{},
		logger:    logging.NewNop(),
		reverts:   make(map[uint64]ports.Timer),
		listeners: make(map[uint64]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mutate(context.Background(), func(fx *effects) {
		s.initialize(0, domain.ResetStart, fx)
	})
	return s, nil
}

// ExerciseID returns the ID of the exercise being played.
func (s *Session) ExerciseID() string { return s.exercise.ID }

// Snapshot returns the current projection.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project()
}

// Drag starts a drag gesture and returns the envelope describing it.
// In per-drop exercises only bank items can be dragged; placements stay where they are.
func (s *Session) Drag(ctx context.Context, item domain.ItemID) (domain.Envelope, bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Envelope{}, false
	}
	source, ok := s.st.locate(item)
	if ok && !source.IsBank() && s.rules.PerDrop() {
		ok = false
	}
	var env domain.Envelope
	if ok {
		env = payload.New(s.exercise.ID, s.st.problem.ID, item, source)
	}
	s.mu.Unlock()

	if ok {
		s.sink.Play(domain.CueDrag)
	}
	return env, ok
}

// DropRaw decodes a transported envelope and applies it. Malformed payloads are ignored.
func (s *Session) DropRaw(ctx context.Context, raw []byte, target domain.Location) domain.DropResult {
	env, err := payload.Decode(raw)
	if err != nil {
		s.logger.Debug("drop rejected", "exercise", s.exercise.ID, "reason", domain.RejectMalformed, "err", err)
		res := domain.Rejected(domain.RejectMalformed)
		if s.hooks.OnDrop != nil {
			s.hooks.OnDrop(ctx, &domain.DropEvent{
				EventBase: s.eventBase(domain.EventDrop, ""),
				Target:    target,
				Rejection: res.Rejection,
			})
		}
		return res
	}
	return s.Drop(ctx, env, target)
}

// Drop applies an envelope onto a target location.
func (s *Session) Drop(ctx context.Context, env domain.Envelope, target domain.Location) domain.DropResult {
	var res domain.DropResult
	s.mutate(ctx, func(fx *effects) {
		res = s.drop(env, target, fx)

		ev := &domain.DropEvent{
			EventBase: s.eventBase(domain.EventDrop, s.st.problem.ID),
			Item:      env.Item,
			Source:    env.Source,
			Target:    target,
			Accepted:  res.Accepted,
			Rejection: res.Rejection,
			Outcome:   res.Outcome,
		}
		fx.emit(func(ctx context.Context) {
			if s.hooks.OnDrop != nil {
				s.hooks.OnDrop(ctx, ev)
			}
		})
	})
	if !res.Accepted {
		s.logger.Debug("drop rejected", "exercise", s.exercise.ID, "item", env.Item, "target", target.String(), "reason", res.Rejection)
	}
	return res
}

// DropItem moves a bank item onto a zone without a drag gesture.
func (s *Session) DropItem(ctx context.Context, item domain.ItemID, zone domain.ZoneID) domain.DropResult {
	return s.Drop(ctx, s.envelope(item, domain.Bank()), domain.InZone(zone))
}

// AppendToSequence moves a bank tile to the end of the build sequence.
func (s *Session) AppendToSequence(ctx context.Context, item domain.ItemID) domain.DropResult {
	return s.Drop(ctx, s.envelope(item, domain.Bank()), domain.Sequence())
}

// ReturnToBank moves a tile from the build sequence back to the end of the bank.
func (s *Session) ReturnToBank(ctx context.Context, item domain.ItemID) domain.DropResult {
	return s.Drop(ctx, s.envelope(item, domain.Sequence()), domain.Bank())
}

// Check verifies the build sequence against the expected order.
// It is a no-op for per-drop exercises and for an empty sequence.
func (s *Session) Check(ctx context.Context) domain.CheckResult {
	var res domain.CheckResult
	s.mutate(ctx, func(fx *effects) {
		if s.closed || s.rules.Verification != domain.VerifyExplicit || len(s.st.sequence) == 0 {
			return
		}
		res = s.check(fx)
	})
	return res
}

// Reset reinitializes the current problem and cancels pending reverts.
func (s *Session) Reset(ctx context.Context) {
	s.mutate(ctx, func(fx *effects) {
		if s.closed {
			return
		}
		s.initialize(s.problem, domain.ResetManual, fx)
	})
}

// Next advances to the following problem, wrapping to the first after the last.
func (s *Session) Next(ctx context.Context) {
	s.mutate(ctx, func(fx *effects) {
		if s.closed {
			return
		}
		s.initialize((s.problem+1)%len(s.exercise.Problems), domain.ResetAdvance, fx)
	})
}

// Subscribe registers fn to receive the snapshot after every mutation.
func (s *Session) Subscribe(fn func(domain.Snapshot)) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.nextListener++
	id := s.nextListener
	s.listeners[id] = fn
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

// Close cancels every pending revert. Further input is ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelReverts()
	s.epoch++
}

func (s *Session) envelope(item domain.ItemID, source domain.Location) domain.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return payload.New(s.exercise.ID, s.st.problem.ID, item, source)
}

// initialize replaces the problem state wholesale. Caller holds s.mu.
func (s *Session) initialize(index int, reason domain.ResetReason, fx *effects) {
	cancelled := s.cancelReverts()
	s.epoch++
	s.problem = index
	s.st = newState(s.exercise.Problems[index], s.rules, s.shuffle)

	ev := &domain.ResetEvent{
		EventBase:        s.eventBase(domain.EventReset, s.st.problem.ID),
		Reason:           reason,
		CancelledReverts: cancelled,
	}
	fx.emit(func(ctx context.Context) {
		if s.hooks.OnReset != nil {
			s.hooks.OnReset(ctx, ev)
		}
	})
	fx.touch(s)
}

func (s *Session) shuffle(ids []domain.ItemID) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}

func (s *Session) eventBase(t domain.EventType, problemID string) domain.EventBase {
	return domain.EventBase{
		Timestamp:  time.Now(),
		Type:       t,
		ExerciseID: s.exercise.ID,
		ProblemID:  problemID,
	}
}

// mutate runs fn under the session lock and delivers its effects after unlocking.
func (s *Session) mutate(ctx context.Context, fn func(fx *effects)) {
	fx := &effects{}
	s.mu.Lock()
	fn(fx)
	if fx.changed {
		snap := s.project()
		fx.snapshot = &snap
	}
	s.mu.Unlock()
	s.flush(ctx, fx)
}

func (s *Session) flush(ctx context.Context, fx *effects) {
	for _, cue := range fx.cues {
		s.sink.Play(cue)
	}
	for _, ev := range fx.events {
		ev(ctx)
	}
	if fx.snapshot == nil {
		return
	}
	s.lmu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(*fx.snapshot)
	}
}

// effects collects what a mutation wants to tell the outside world.
type effects struct {
	cues     []domain.Cue
	events   []func(context.Context)
	changed  bool
	snapshot *domain.Snapshot
}

func (fx *effects) cue(c ...domain.Cue) { fx.cues = append(fx.cues, c...) }

func (fx *effects) emit(ev func(context.Context)) { fx.events = append(fx.events, ev) }

func (fx *effects) touch(s *Session) {
	s.version++
	fx.changed = true
}

package runtime_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/workshop/internal/runtime"
	"github.com/aretw0/workshop/internal/testutils"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allFixtures() map[string]domain.Exercise {
	return map[string]domain.Exercise{
		"matching":     testutils.MatchingExercise(),
		"categories":   testutils.CategoryExercise(),
		"connector":    testutils.ConnectorExercise(),
		"construction": testutils.ConstructionExercise(),
	}
}

func assertConserved(t *testing.T, snap domain.Snapshot, total int) {
	t.Helper()
	seen := make(map[domain.ItemID]int)
	for _, it := range snap.Bank {
		seen[it.ID]++
	}
	for _, p := range snap.Placed() {
		seen[p.Item.ID]++
	}
	for _, it := range snap.Sequence {
		seen[it.ID]++
	}
	assert.Equal(t, total, snap.ItemCount(), "items are neither lost nor duplicated")
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %s is in exactly one pool", id)
	}
}

func TestSession_ConservationUnderRandomPlay(t *testing.T) {
	for name, ex := range allFixtures() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, clock, _ := newSession(t, ex)
			rng := rand.New(rand.NewPCG(7, uint64(len(name))))

			for step := 0; step < 300; step++ {
				snap := s.Snapshot()
				problem := ex.Problems[snap.ProblemIndex]
				item := problem.Items[rng.IntN(len(problem.Items))].ID

				switch rng.IntN(10) {
				case 0:
					s.Reset(ctx)
				case 1:
					s.Next(ctx)
				case 2, 3:
					clock.Advance(time.Duration(rng.IntN(2000)) * time.Millisecond)
				case 4:
					s.Check(ctx)
				case 5:
					s.ReturnToBank(ctx, item)
				default:
					if ex.Rules.Layout == domain.LayoutSequence {
						s.AppendToSequence(ctx, item)
					} else {
						zone := problem.Zones[rng.IntN(len(problem.Zones))].ID
						s.DropItem(ctx, item, zone)
					}
				}

				snap = s.Snapshot()
				assertConserved(t, snap, len(ex.Problems[snap.ProblemIndex].Items))
				for _, p := range snap.Placed() {
					if ex.Rules.Layout == domain.LayoutSingleSlot {
						view, _ := snap.Zone(p.Zone)
						assert.Len(t, view.Placements, 1)
					}
				}
			}
		})
	}
}

func TestSession_ResetCancelsPendingReverts(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newSession(t, testutils.MatchingExercise())

	s.DropItem(ctx, "c2", "d3")
	s.DropItem(ctx, "c4", "d5")
	require.Equal(t, 2, clock.Pending())

	s.Reset(ctx)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, 0, s.Snapshot().PendingReverts)

	// The same zone is reused after the reset; only the new timer may clear it.
	s.DropItem(ctx, "c3", "d5")
	versionBefore := s.Snapshot().Version

	clock.Advance(time.Second)
	snap := s.Snapshot()
	assert.Len(t, placed(t, snap, "d5"), 1)
	assert.Equal(t, versionBefore, snap.Version)

	clock.Advance(500 * time.Millisecond)
	assert.Empty(t, placed(t, s.Snapshot(), "d5"))
}

func TestSession_StaleTimerCallbackIsIgnored(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newSession(t, testutils.MatchingExercise())

	s.DropItem(ctx, "c2", "d3")
	callbacks := clock.Callbacks()
	require.Len(t, callbacks, 1)

	s.Reset(ctx)
	s.DropItem(ctx, "c2", "d3")
	before := s.Snapshot()

	// Simulates a timer that fired just before Reset stopped it.
	callbacks[0]()

	assert.Equal(t, before, s.Snapshot())
}

func TestSession_ResetIsIdempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("unshuffled", func(t *testing.T) {
		s, _, _ := newSession(t, testutils.CategoryExercise())
		s.DropItem(ctx, "p2", "clause")

		s.Reset(ctx)
		once := s.Snapshot()
		s.Reset(ctx)
		twice := s.Snapshot()

		once.Version, twice.Version = 0, 0
		assert.Equal(t, once, twice)
		assert.Equal(t, []domain.ItemID{"p1", "p2", "p3", "p4"}, bankIDs(twice))
	})

	t.Run("shuffled", func(t *testing.T) {
		ex := testutils.MatchingExercise()
		ex.Rules.Shuffle = true
		s, _, _ := newSession(t, ex, runtime.WithRand(rand.New(rand.NewPCG(1, 2))))

		s.DropItem(ctx, "c1", "d1")
		s.Reset(ctx)
		once := s.Snapshot()
		s.Reset(ctx)
		twice := s.Snapshot()

		assert.ElementsMatch(t, bankIDs(once), bankIDs(twice))
		assert.Len(t, twice.Bank, 6)
		assert.Empty(t, twice.Placed())
		assert.Nil(t, twice.Explanation)
	})
}

func TestSession_ShuffleIsAPermutation(t *testing.T) {
	ex := testutils.MatchingExercise()
	ex.Rules.Shuffle = true
	s, _, _ := newSession(t, ex, runtime.WithRand(rand.New(rand.NewPCG(42, 42))))

	assert.ElementsMatch(t,
		[]domain.ItemID{"c1", "c2", "c3", "c4", "c5", "c6"},
		bankIDs(s.Snapshot()))
}

func TestSession_ShuffledRevertRestoresPosition(t *testing.T) {
	ctx := context.Background()
	ex := testutils.MatchingExercise()
	ex.Rules.Shuffle = true
	s, clock, _ := newSession(t, ex, runtime.WithRand(rand.New(rand.NewPCG(3, 9))))

	initial := bankIDs(s.Snapshot())
	wrong := domain.ZoneID("d1")
	if initial[0] == "c1" {
		wrong = "d2"
	}
	require.Equal(t, domain.OutcomeIncorrect, s.DropItem(ctx, initial[0], wrong).Outcome)

	clock.Advance(domain.MatchingRevertDelay)
	assert.Equal(t, initial, bankIDs(s.Snapshot()))
}

func TestSession_DropRaw(t *testing.T) {
	ctx := context.Background()
	s, _, sink := newSession(t, testutils.MatchingExercise())
	before := s.Snapshot()

	res := s.DropRaw(ctx, []byte(`{"item":"c1"}`), domain.InZone("d1"))
	assert.Equal(t, domain.RejectMalformed, res.Rejection)
	res = s.DropRaw(ctx, nil, domain.InZone("d1"))
	assert.Equal(t, domain.RejectMalformed, res.Rejection)
	assert.Empty(t, sink.Cues(), "malformed drops are silent")
	assert.Equal(t, before.Version, s.Snapshot().Version)

	env, ok := s.Drag(ctx, "c1")
	require.True(t, ok)
	raw, err := payload.Encode(env)
	require.NoError(t, err)

	res = s.DropRaw(ctx, raw, domain.InZone("d1"))
	assert.True(t, res.Accepted)
	assert.Equal(t, domain.OutcomeCorrect, res.Outcome)
}

func TestSession_EnvelopeFromPreviousProblemIsStale(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t, testutils.ConnectorExercise())

	env, ok := s.Drag(ctx, "conn2")
	require.True(t, ok)
	s.Next(ctx)

	res := s.Drop(ctx, env, domain.InZone("gap"))
	assert.Equal(t, domain.RejectStale, res.Rejection)

	env.Exercise = "other"
	env.Problem = "c2"
	assert.Equal(t, domain.RejectStale, s.Drop(ctx, env, domain.InZone("gap")).Rejection)
}

func TestSession_CloseStopsEverything(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newSession(t, testutils.MatchingExercise())

	s.DropItem(ctx, "c2", "d3")
	s.Close()
	assert.Equal(t, 0, clock.Pending())

	assert.Equal(t, domain.RejectStale, s.DropItem(ctx, "c3", "d3").Rejection)
	_, ok := s.Drag(ctx, "c3")
	assert.False(t, ok)

	s.Close()
}

func TestSession_SubscribeReceivesAsyncReverts(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newSession(t, testutils.MatchingExercise())

	var mu sync.Mutex
	var got []domain.Snapshot
	unsubscribe := s.Subscribe(func(snap domain.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, snap)
	})

	s.DropItem(ctx, "c2", "d3")
	clock.Advance(domain.MatchingRevertDelay)

	mu.Lock()
	require.Len(t, got, 2)
	assert.Len(t, got[0].Placed(), 1)
	assert.Empty(t, got[1].Placed())
	assert.Greater(t, got[1].Version, got[0].Version)
	mu.Unlock()

	unsubscribe()
	s.DropItem(ctx, "c1", "d1")
	mu.Lock()
	assert.Len(t, got, 2)
	mu.Unlock()
}

func TestSession_LifecycleHooks(t *testing.T) {
	ctx := context.Background()

	var drops []*domain.DropEvent
	var reverts []*domain.RevertEvent
	var resets []*domain.ResetEvent
	var checks []*domain.CheckEvent
	hooks := domain.LifecycleHooks{
		OnDrop:   func(_ context.Context, e *domain.DropEvent) { drops = append(drops, e) },
		OnRevert: func(_ context.Context, e *domain.RevertEvent) { reverts = append(reverts, e) },
		OnReset:  func(_ context.Context, e *domain.ResetEvent) { resets = append(resets, e) },
		OnCheck:  func(_ context.Context, e *domain.CheckEvent) { checks = append(checks, e) },
	}

	s, clock, _ := newSession(t, testutils.MatchingExercise(), runtime.WithLifecycleHooks(hooks))
	require.Len(t, resets, 1)
	assert.Equal(t, domain.ResetStart, resets[0].Reason)

	s.DropItem(ctx, "c2", "d3")
	s.DropItem(ctx, "c2", "d4")
	clock.Advance(domain.MatchingRevertDelay)
	s.DropItem(ctx, "c4", "d5")
	s.Reset(ctx)

	require.Len(t, drops, 3)
	assert.True(t, drops[0].Accepted)
	assert.Equal(t, domain.OutcomeIncorrect, drops[0].Outcome)
	assert.Equal(t, domain.RejectStale, drops[1].Rejection)
	assert.Equal(t, "matching", drops[0].ExerciseID)

	require.Len(t, reverts, 1)
	assert.Equal(t, domain.ItemID("c2"), reverts[0].Item)
	assert.Equal(t, domain.ZoneID("d3"), reverts[0].Zone)

	require.Len(t, resets, 2)
	assert.Equal(t, domain.ResetManual, resets[1].Reason)
	assert.Equal(t, 1, resets[1].CancelledReverts)
	assert.Empty(t, checks)

	c, _, _ := newSession(t, testutils.ConstructionExercise(), runtime.WithLifecycleHooks(hooks))
	c.AppendToSequence(ctx, "s1t1")
	c.Check(ctx)
	require.Len(t, checks, 1)
	assert.Equal(t, []domain.ItemID{"s1t1"}, checks[0].Sequence)
	assert.Equal(t, domain.OutcomeIncorrect, checks[0].Outcome)
}

func TestSession_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	s, err := runtime.NewSession(testutils.CategoryExercise())
	require.NoError(t, err)
	defer s.Close()

	var wg sync.WaitGroup
	for _, id := range []domain.ItemID{"p1", "p2", "p3", "p4"} {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.DropItem(ctx, id, "phrase")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assertConserved(t, s.Snapshot(), 4)
}

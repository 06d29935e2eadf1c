package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/workshop/internal/testutils"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceIDs(snap domain.Snapshot) []domain.ItemID {
	ids := make([]domain.ItemID, 0, len(snap.Sequence))
	for _, it := range snap.Sequence {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestConstruction_OrderMustMatchExactly(t *testing.T) {
	ctx := context.Background()
	s, clock, sink := newSession(t, testutils.ConstructionExercise())

	snap := s.Snapshot()
	assert.Equal(t, "Create a Compound Sentence", snap.Prompt)
	assert.Equal(t, domain.OutcomePending, snap.Outcome)
	assert.Empty(t, snap.Sequence)

	for _, id := range []domain.ItemID{"s1t1", "s1t3", "s1t2"} {
		require.True(t, s.AppendToSequence(ctx, id).Accepted)
	}
	assert.Equal(t, []domain.ItemID{"s1t1", "s1t3", "s1t2"}, sequenceIDs(s.Snapshot()))

	res := s.Check(ctx)
	require.True(t, res.Performed)
	assert.Equal(t, domain.OutcomeIncorrect, res.Outcome)
	require.NotNil(t, res.Explanation)
	assert.False(t, res.Explanation.Correct)

	require.True(t, s.ReturnToBank(ctx, "s1t3").Accepted)
	snap = s.Snapshot()
	assert.Equal(t, domain.OutcomePending, snap.Outcome, "any drop clears the previous result")
	assert.Nil(t, snap.Explanation)
	assert.Equal(t, []domain.ItemID{"s1t3"}, bankIDs(snap))

	require.True(t, s.AppendToSequence(ctx, "s1t3").Accepted)
	res = s.Check(ctx)
	assert.Equal(t, domain.OutcomeCorrect, res.Outcome)

	snap = s.Snapshot()
	assert.True(t, snap.Complete)
	assert.Equal(t, "Two independent clauses joined by ', and'.", snap.Explanation.Text)
	assert.Equal(t, 0, clock.Pending(), "construction never schedules reverts")

	assert.Equal(t, []domain.Cue{
		domain.CueDrop, domain.CueDrop, domain.CueDrop, domain.CueIncorrect,
		domain.CueDrop, domain.CueDrop, domain.CueCorrect,
	}, sink.Cues())
}

func TestConstruction_PartialSequenceIsIncorrect(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t, testutils.ConstructionExercise())

	s.AppendToSequence(ctx, "s1t1")
	s.AppendToSequence(ctx, "s1t2")

	assert.Equal(t, domain.OutcomeIncorrect, s.Check(ctx).Outcome)
}

func TestConstruction_CheckEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, sink := newSession(t, testutils.ConstructionExercise())
	before := s.Snapshot()

	res := s.Check(ctx)
	assert.False(t, res.Performed)
	assert.Empty(t, sink.Cues())
	assert.Equal(t, before, s.Snapshot())
}

func TestConstruction_IllegalMoves(t *testing.T) {
	ctx := context.Background()
	s, _, sink := newSession(t, testutils.ConstructionExercise())

	env, ok := s.Drag(ctx, "s1t1")
	require.True(t, ok)
	assert.Equal(t, domain.RejectIllegalMove, s.Drop(ctx, env, domain.Bank()).Rejection, "bank to bank")
	assert.Equal(t, domain.RejectUnknownZone, s.Drop(ctx, env, domain.InZone("d1")).Rejection)

	require.True(t, s.Drop(ctx, env, domain.Sequence()).Accepted)
	env, ok = s.Drag(ctx, "s1t1")
	require.True(t, ok)
	assert.Equal(t, domain.Sequence(), env.Source, "sequence tiles drag from the sequence")
	assert.Equal(t, domain.RejectIllegalMove, s.Drop(ctx, env, domain.Sequence()).Rejection, "sequence to sequence")

	assert.Equal(t, domain.RejectStale, s.ReturnToBank(ctx, "s1t2").Rejection, "tile is not in the sequence")
	assert.Equal(t, domain.RejectStale, s.AppendToSequence(ctx, "s1t1").Rejection, "tile is not in the bank")

	assert.Equal(t, []domain.Cue{domain.CueDrag, domain.CueDrop, domain.CueDrag}, sink.Cues())
}

func TestConstruction_ResetAndNext(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t, testutils.ConstructionExercise())

	s.AppendToSequence(ctx, "s1t1")
	s.AppendToSequence(ctx, "s1t2")
	s.AppendToSequence(ctx, "s1t3")
	s.Check(ctx)

	s.Reset(ctx)
	snap := s.Snapshot()
	assert.Empty(t, snap.Sequence)
	assert.Equal(t, []domain.ItemID{"s1t1", "s1t2", "s1t3"}, bankIDs(snap))
	assert.Equal(t, domain.OutcomePending, snap.Outcome)
	assert.Nil(t, snap.Explanation)

	s.Next(ctx)
	snap = s.Snapshot()
	assert.Equal(t, "s2", snap.ProblemID)
	assert.Equal(t, "Create a Complex Sentence", snap.Prompt)
	assert.Equal(t, []domain.ItemID{"s2t1", "s2t2", "s2t3"}, bankIDs(snap))

	s.Next(ctx)
	assert.Equal(t, "s1", s.Snapshot().ProblemID, "advancing past the last problem wraps around")
}

func TestConstruction_ProgressFollowsCheck(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t, testutils.ConstructionExercise())

	assert.Equal(t, domain.NewProgress(0, 1), s.Snapshot().Progress)
	for _, id := range []domain.ItemID{"s1t1", "s1t2", "s1t3"} {
		s.AppendToSequence(ctx, id)
	}
	assert.Equal(t, 0, s.Snapshot().Progress.Correct, "unchecked sequences do not count")
	s.Check(ctx)
	assert.Equal(t, 1, s.Snapshot().Progress.Correct)
}

package runtime

import (
	"github.com/aretw0/workshop/pkg/domain"
)

// project builds the read-only view of the session. Caller holds s.mu.
func (s *Session) project() domain.Snapshot {
	return projectState(s.exercise, s.problem, s.st, len(s.reverts), s.version)
}

// projectState derives a Snapshot from problem state. It has no side effects and
// copies everything it returns.
func projectState(ex domain.Exercise, index int, st *state, pendingReverts int, version uint64) domain.Snapshot {
	snap := domain.Snapshot{
		ExerciseID:     ex.ID,
		Title:          ex.Title,
		Layout:         ex.Rules.Layout,
		ProblemID:      st.problem.ID,
		ProblemIndex:   index,
		ProblemCount:   len(ex.Problems),
		Prompt:         st.problem.Prompt,
		Context:        append([]string(nil), st.problem.Context...),
		Bank:           st.itemsOf(st.bank),
		Outcome:        st.outcome,
		PendingReverts: pendingReverts,
		Version:        version,
	}

	correct := 0
	for _, z := range st.problem.Zones {
		view := domain.ZoneView{Zone: z, Placements: append([]domain.Placement{}, st.zones[z.ID]...)}
		for _, p := range view.Placements {
			if p.Outcome == domain.OutcomeCorrect {
				correct++
			}
		}
		snap.Zones = append(snap.Zones, view)
	}

	var total int
	switch ex.Rules.Layout {
	case domain.LayoutSingleSlot:
		total = len(st.problem.Zones)
	case domain.LayoutMultiSlot:
		total = len(st.problem.Items)
	case domain.LayoutSequence:
		snap.Sequence = st.itemsOf(st.sequence)
		total = 1
		if st.outcome == domain.OutcomeCorrect {
			correct = 1
		}
	}
	snap.Progress = domain.NewProgress(correct, total)
	snap.Complete = total > 0 && correct == total

	if st.explanation != nil {
		e := *st.explanation
		snap.Explanation = &e
	}
	return snap
}

func (st *state) itemsOf(ids []domain.ItemID) []domain.Item {
	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, st.items[id])
	}
	return items
}

package runtime

import (
	"context"
	"slices"

	"github.com/aretw0/workshop/pkg/domain"
)

// drop dispatches on the layout. Caller holds s.mu.
func (s *Session) drop(env domain.Envelope, target domain.Location, fx *effects) domain.DropResult {
	if s.closed || env.Exercise != s.exercise.ID || env.Problem != s.st.problem.ID {
		return domain.Rejected(domain.RejectStale)
	}
	if s.rules.Layout == domain.LayoutSequence {
		return s.dropSequence(env, target, fx)
	}
	return s.dropPlacement(env, target, fx)
}

// dropPlacement handles per-drop verification onto single-slot and multi-slot zones.
func (s *Session) dropPlacement(env domain.Envelope, target domain.Location, fx *effects) domain.DropResult {
	st := s.st
	if !env.Source.IsBank() || target.IsBank() {
		return domain.Rejected(domain.RejectIllegalMove)
	}
	zone, ok := st.problem.Zone(target.Zone)
	if !ok {
		return domain.Rejected(domain.RejectUnknownZone)
	}
	if !slices.Contains(st.bank, env.Item) {
		return domain.Rejected(domain.RejectStale)
	}
	if s.rules.Layout == domain.LayoutSingleSlot && len(st.zones[zone.ID]) > 0 {
		return domain.Rejected(domain.RejectOccupied)
	}
	st.bank, _ = removeID(st.bank, env.Item)

	item := st.items[env.Item]
	correct := s.isCorrect(item, zone.ID)
	s.nextID++
	p := domain.Placement{
		ID:      s.nextID,
		Item:    item,
		Zone:    zone.ID,
		Outcome: domain.OutcomeIncorrect,
	}
	if correct {
		p.Outcome = domain.OutcomeCorrect
	}
	st.zones[zone.ID] = append(st.zones[zone.ID], p)

	if text := s.explanationFor(item); text != "" {
		st.explanation = &domain.Explanation{Text: text, Correct: correct}
	}

	fx.cue(domain.CueDrop, domain.OutcomeCue(correct))
	if !correct {
		s.scheduleRevert(p.ID)
	}
	fx.touch(s)

	res := domain.DropResult{Accepted: true, Outcome: p.Outcome, Placement: &p}
	if st.explanation != nil {
		e := *st.explanation
		res.Explanation = &e
	}
	return res
}

func (s *Session) isCorrect(item domain.Item, zone domain.ZoneID) bool {
	if s.rules.Answer == domain.AnswerSet {
		return s.st.problem.Accepts(item.ID)
	}
	return item.Target == zone
}

func (s *Session) explanationFor(item domain.Item) string {
	if s.rules.ExplanationFrom == domain.ExplainFromProblem {
		return s.st.problem.Explanation
	}
	return item.Explanation
}

// scheduleRevert registers a timer that returns the placement to the bank. Caller holds s.mu.
func (s *Session) scheduleRevert(id uint64) {
	epoch := s.epoch
	s.reverts[id] = s.clock.AfterFunc(s.rules.RevertDelay, func() {
		s.revert(id, epoch)
	})
}

// cancelReverts stops every pending timer and returns how many were pending. Caller holds s.mu.
func (s *Session) cancelReverts() int {
	n := len(s.reverts)
	for id, t := range s.reverts {
		t.Stop()
		delete(s.reverts, id)
	}
	return n
}

// revert is the timer callback. It does nothing when the session was reset,
// advanced or closed after the timer was scheduled.
func (s *Session) revert(id uint64, epoch uint64) {
	s.mutate(context.Background(), func(fx *effects) {
		if s.closed || epoch != s.epoch {
			return
		}
		delete(s.reverts, id)

		st := s.st
		for zone, placements := range st.zones {
			for i, p := range placements {
				if p.ID != id {
					continue
				}
				if p.Outcome != domain.OutcomeIncorrect {
					return
				}
				st.zones[zone] = append(placements[:i:i], placements[i+1:]...)
				st.restore(p.Item.ID)

				ev := &domain.RevertEvent{
					EventBase: s.eventBase(domain.EventRevert, st.problem.ID),
					Item:      p.Item.ID,
					Zone:      zone,
				}
				fx.emit(func(ctx context.Context) {
					if s.hooks.OnRevert != nil {
						s.hooks.OnRevert(ctx, ev)
					}
				})
				fx.touch(s)
				s.logger.Debug("placement reverted", "exercise", s.exercise.ID, "item", p.Item.ID, "zone", zone)
				return
			}
		}
	})
}

package runtime

import (
	"context"
	"slices"

	"github.com/aretw0/workshop/pkg/domain"
)

// dropSequence moves tiles between the bank and the build sequence.
// Bank tiles are appended to the sequence; sequence tiles are appended to the bank.
func (s *Session) dropSequence(env domain.Envelope, target domain.Location, fx *effects) domain.DropResult {
	st := s.st
	if !target.IsBank() && target.Zone != domain.SequenceZone {
		return domain.Rejected(domain.RejectUnknownZone)
	}
	if !env.Source.IsBank() && env.Source.Zone != domain.SequenceZone {
		return domain.Rejected(domain.RejectStale)
	}
	if env.Source.IsBank() == target.IsBank() {
		return domain.Rejected(domain.RejectIllegalMove)
	}

	var ok bool
	if env.Source.IsBank() {
		if st.bank, ok = removeID(st.bank, env.Item); !ok {
			return domain.Rejected(domain.RejectStale)
		}
		st.sequence = append(st.sequence, env.Item)
	} else {
		if st.sequence, ok = removeID(st.sequence, env.Item); !ok {
			return domain.Rejected(domain.RejectStale)
		}
		st.bank = append(st.bank, env.Item)
	}

	st.outcome = domain.OutcomePending
	st.explanation = nil
	fx.cue(domain.CueDrop)
	fx.touch(s)
	return domain.DropResult{Accepted: true, Outcome: domain.OutcomePending}
}

// check compares the sequence with the expected order. Caller holds s.mu.
func (s *Session) check(fx *effects) domain.CheckResult {
	st := s.st
	correct := slices.Equal(st.sequence, st.problem.Order)

	st.outcome = domain.OutcomeIncorrect
	if correct {
		st.outcome = domain.OutcomeCorrect
	}
	st.explanation = nil
	if st.problem.Explanation != "" {
		st.explanation = &domain.Explanation{Text: st.problem.Explanation, Correct: correct}
	}

	fx.cue(domain.OutcomeCue(correct))
	ev := &domain.CheckEvent{
		EventBase: s.eventBase(domain.EventCheck, st.problem.ID),
		Sequence:  slices.Clone(st.sequence),
		Outcome:   st.outcome,
	}
	fx.emit(func(ctx context.Context) {
		if s.hooks.OnCheck != nil {
			s.hooks.OnCheck(ctx, ev)
		}
	})
	fx.touch(s)

	res := domain.CheckResult{Performed: true, Outcome: st.outcome}
	if st.explanation != nil {
		e := *st.explanation
		res.Explanation = &e
	}
	return res
}

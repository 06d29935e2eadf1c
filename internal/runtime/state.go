package runtime

import (
	"slices"

	"github.com/aretw0/workshop/pkg/domain"
)

// state is the mutable part of a session for its active problem.
type state struct {
	problem domain.Problem
	items   map[domain.ItemID]domain.Item
	// rank is the position of each item in the initial bank, used to put
	// reverted items back where they were.
	rank        map[domain.ItemID]int
	bank        []domain.ItemID
	zones       map[domain.ZoneID][]domain.Placement
	sequence    []domain.ItemID
	outcome     domain.Outcome
	explanation *domain.Explanation
}

func newState(p domain.Problem, rules domain.Rules, shuffle func([]domain.ItemID)) *state {
	st := &state{
		problem: p,
		items:   make(map[domain.ItemID]domain.Item, len(p.Items)),
		rank:    make(map[domain.ItemID]int, len(p.Items)),
		bank:    make([]domain.ItemID, 0, len(p.Items)),
		zones:   make(map[domain.ZoneID][]domain.Placement, len(p.Zones)),
	}
	for _, it := range p.Items {
		st.items[it.ID] = it
		st.bank = append(st.bank, it.ID)
	}
	if rules.Shuffle {
		shuffle(st.bank)
	}
	for i, id := range st.bank {
		st.rank[id] = i
	}
	for _, z := range p.Zones {
		st.zones[z.ID] = nil
	}
	if rules.Layout == domain.LayoutSequence {
		st.outcome = domain.OutcomePending
	}
	return st
}

// locate reports where an item currently is.
func (st *state) locate(id domain.ItemID) (domain.Location, bool) {
	if slices.Contains(st.bank, id) {
		return domain.Bank(), true
	}
	if slices.Contains(st.sequence, id) {
		return domain.Sequence(), true
	}
	for zone, placements := range st.zones {
		for _, p := range placements {
			if p.Item.ID == id {
				return domain.InZone(zone), true
			}
		}
	}
	return domain.Location{}, false
}

// restore puts an item back into the bank at its initial position.
func (st *state) restore(id domain.ItemID) {
	r := st.rank[id]
	at := len(st.bank)
	for i, other := range st.bank {
		if st.rank[other] > r {
			at = i
			break
		}
	}
	st.bank = slices.Insert(st.bank, at, id)
}

func removeID(ids []domain.ItemID, id domain.ItemID) ([]domain.ItemID, bool) {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids, false
	}
	return slices.Delete(ids, i, i+1), true
}

package domain

import "slices"

// Explanation is feedback text shown to the learner, tagged with the result it explains.
type Explanation struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Progress counts correct placements against the number required to finish.
type Progress struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

// NewProgress computes the fraction, guarding against an empty total.
func NewProgress(correct, total int) Progress {
	p := Progress{Correct: correct, Total: total}
	if total > 0 {
		p.Fraction = float64(correct) / float64(total)
	}
	return p
}

// ZoneView is a zone together with its current placements.
type ZoneView struct {
	Zone       Zone        `json:"zone"`
	Placements []Placement `json:"placements"`
}

// Snapshot is the read-only projection of a session rendered by hosts.
type Snapshot struct {
	ExerciseID   string   `json:"exercise_id"`
	Title        string   `json:"title"`
	Layout       Layout   `json:"layout"`
	ProblemID    string   `json:"problem_id"`
	ProblemIndex int      `json:"problem_index"`
	ProblemCount int      `json:"problem_count"`
	Prompt       string   `json:"prompt,omitempty"`
	Context      []string `json:"context,omitempty"`

	Bank     []Item     `json:"bank"`
	Zones    []ZoneView `json:"zones,omitempty"`
	Sequence []Item     `json:"sequence,omitempty"`

	// Outcome is the result of the last explicit check, or pending.
	// Empty for per-drop exercises.
	Outcome     Outcome      `json:"outcome,omitempty"`
	Progress    Progress     `json:"progress"`
	Explanation *Explanation `json:"explanation,omitempty"`
	Complete    bool         `json:"complete"`
	// PendingReverts counts incorrect placements waiting to be returned.
	PendingReverts int `json:"pending_reverts"`

	// Version increases with every mutation of the session.
	Version uint64 `json:"version"`
}

// Placed returns every placement across zones in zone order.
func (s Snapshot) Placed() []Placement {
	var out []Placement
	for _, z := range s.Zones {
		out = append(out, z.Placements...)
	}
	return out
}

// ItemCount is the number of items visible in the bank, the zones and the sequence.
func (s Snapshot) ItemCount() int {
	return len(s.Bank) + len(s.Placed()) + len(s.Sequence)
}

// Zone returns the view of a zone by ID.
func (s Snapshot) Zone(id ZoneID) (ZoneView, bool) {
	for _, z := range s.Zones {
		if z.Zone.ID == id {
			return z, true
		}
	}
	return ZoneView{}, false
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Context = slices.Clone(s.Context)
	out.Bank = slices.Clone(s.Bank)
	out.Sequence = slices.Clone(s.Sequence)
	if s.Zones != nil {
		out.Zones = make([]ZoneView, len(s.Zones))
		for i, z := range s.Zones {
			out.Zones[i] = ZoneView{Zone: z.Zone, Placements: slices.Clone(z.Placements)}
		}
	}
	if s.Explanation != nil {
		e := *s.Explanation
		out.Explanation = &e
	}
	return out
}

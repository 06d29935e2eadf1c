package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`
	Version   uint64 `json:"version"`

	ProblemIndex *int         `json:"problem_index,omitempty"`
	Bank         []Item       `json:"bank,omitempty"`
	Zones        []ZoneView   `json:"zones,omitempty"`
	Sequence     *[]Item      `json:"sequence,omitempty"`
	Outcome      *Outcome     `json:"outcome,omitempty"`
	Progress     *Progress    `json:"progress,omitempty"`
	Explanation  *Explanation `json:"explanation,omitempty"`
	Complete     *bool        `json:"complete,omitempty"`

	// ClearExplanation is set when a previously shown explanation was hidden.
	ClearExplanation bool `json:"clear_explanation,omitempty"`
	// BankChanged distinguishes an emptied bank from an unchanged one.
	BankChanged bool `json:"bank_changed,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
func Diff(sessionID string, oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		SessionID: sessionID,
		Version:   newSnap.Version,
	}

	if oldSnap == nil || oldSnap.ProblemIndex != newSnap.ProblemIndex {
		diff.ProblemIndex = &newSnap.ProblemIndex
	}
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Bank, newSnap.Bank) {
		diff.Bank = newSnap.Bank
		diff.BankChanged = true
	}
	diff.Zones = diffZones(oldSnap, newSnap)
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Sequence, newSnap.Sequence) {
		seq := newSnap.Sequence
		diff.Sequence = &seq
	}
	if oldSnap == nil || oldSnap.Outcome != newSnap.Outcome {
		diff.Outcome = &newSnap.Outcome
	}
	if oldSnap == nil || oldSnap.Progress != newSnap.Progress {
		diff.Progress = &newSnap.Progress
	}
	if oldSnap == nil || oldSnap.Complete != newSnap.Complete {
		diff.Complete = &newSnap.Complete
	}

	switch {
	case newSnap.Explanation != nil:
		if oldSnap == nil || oldSnap.Explanation == nil || *oldSnap.Explanation != *newSnap.Explanation {
			diff.Explanation = newSnap.Explanation
		}
	case oldSnap != nil && oldSnap.Explanation != nil:
		diff.ClearExplanation = true
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffZones returns only the zones whose placements changed.
func diffZones(old, new *Snapshot) []ZoneView {
	if old == nil {
		return new.Zones
	}
	prev := make(map[ZoneID]ZoneView, len(old.Zones))
	for _, z := range old.Zones {
		prev[z.Zone.ID] = z
	}
	var changed []ZoneView
	for _, z := range new.Zones {
		if p, ok := prev[z.Zone.ID]; !ok || !reflect.DeepEqual(p, z) {
			changed = append(changed, z)
		}
	}
	return changed
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.ProblemIndex == nil &&
		!d.BankChanged &&
		len(d.Zones) == 0 &&
		d.Sequence == nil &&
		d.Outcome == nil &&
		d.Progress == nil &&
		d.Explanation == nil &&
		d.Complete == nil &&
		!d.ClearExplanation
}

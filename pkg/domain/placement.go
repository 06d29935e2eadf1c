package domain

// Outcome is the verification result of a placement or of a built sequence.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	// OutcomePending marks something not (yet) verified.
	OutcomePending Outcome = "pending"
)

// Placement records that an item was dropped onto a zone.
// ID is unique within a session and is used to address revert timers.
type Placement struct {
	ID      uint64  `json:"id"`
	Item    Item    `json:"item"`
	Zone    ZoneID  `json:"zone"`
	Outcome Outcome `json:"outcome"`
}

// Rejection explains why a drop was ignored.
type Rejection string

const (
	RejectNone        Rejection = ""
	RejectMalformed   Rejection = "malformed"
	RejectStale       Rejection = "stale"
	RejectOccupied    Rejection = "occupied"
	RejectUnknownZone Rejection = "unknown_zone"
	RejectIllegalMove Rejection = "illegal_move"
)

// DropResult is the outcome of a drop. Rejected drops leave state untouched.
type DropResult struct {
	Accepted    bool         `json:"accepted"`
	Rejection   Rejection    `json:"rejection,omitempty"`
	Outcome     Outcome      `json:"outcome,omitempty"`
	Placement   *Placement   `json:"placement,omitempty"`
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Rejected builds a DropResult for an ignored drop.
func Rejected(reason Rejection) DropResult {
	return DropResult{Rejection: reason}
}

// CheckResult is the outcome of an explicit check.
// Performed is false when the check was a no-op (empty sequence or per-drop exercise).
type CheckResult struct {
	Performed   bool         `json:"performed"`
	Outcome     Outcome      `json:"outcome,omitempty"`
	Explanation *Explanation `json:"explanation,omitempty"`
}

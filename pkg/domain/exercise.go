package domain

import (
	"errors"
	"fmt"
	"time"
)

// Layout describes how target zones hold placements.
type Layout string

const (
	// LayoutSingleSlot zones hold at most one placement each.
	LayoutSingleSlot Layout = "single_slot"
	// LayoutMultiSlot zones hold any number of placements.
	LayoutMultiSlot Layout = "multi_slot"
	// LayoutSequence has a single ordered build area instead of zones.
	LayoutSequence Layout = "sequence"
)

// Verification describes when correctness is decided.
type Verification string

const (
	VerifyPerDrop  Verification = "per_drop"
	VerifyExplicit Verification = "explicit"
)

// Answer describes how correctness is computed.
type Answer string

const (
	// AnswerTarget compares item.Target with the zone.
	AnswerTarget Answer = "target"
	// AnswerSet accepts any item listed in Problem.Accepted.
	AnswerSet Answer = "set"
	// AnswerOrdered compares the build sequence with Problem.Order.
	AnswerOrdered Answer = "ordered"
)

// ExplanationSource selects where the explanation shown after a drop comes from.
type ExplanationSource string

const (
	ExplainFromItem    ExplanationSource = "item"
	ExplainFromProblem ExplanationSource = "problem"
)

// Default revert delays.
const (
	MatchingRevertDelay = 1500 * time.Millisecond
	CategoryRevertDelay = 3000 * time.Millisecond
)

// Rules parameterize the engine for one exercise.
type Rules struct {
	Layout          Layout            `json:"layout"`
	Verification    Verification      `json:"verification"`
	Answer          Answer            `json:"answer"`
	RevertDelay     time.Duration     `json:"revert_delay"`
	Shuffle         bool              `json:"shuffle"`
	ExplanationFrom ExplanationSource `json:"explanation_from"`
}

// MatchingRules returns the rules for one-to-one concept/definition matching.
func MatchingRules() Rules {
	return Rules{
		Layout:          LayoutSingleSlot,
		Verification:    VerifyPerDrop,
		Answer:          AnswerTarget,
		RevertDelay:     MatchingRevertDelay,
		Shuffle:         true,
		ExplanationFrom: ExplainFromItem,
	}
}

// CategoryRules returns the rules for sorting items into category bins.
func CategoryRules() Rules {
	return Rules{
		Layout:          LayoutMultiSlot,
		Verification:    VerifyPerDrop,
		Answer:          AnswerTarget,
		RevertDelay:     CategoryRevertDelay,
		ExplanationFrom: ExplainFromItem,
	}
}

// ConnectorRules returns the rules for picking a connector for a single gap.
func ConnectorRules() Rules {
	return Rules{
		Layout:          LayoutSingleSlot,
		Verification:    VerifyPerDrop,
		Answer:          AnswerSet,
		RevertDelay:     CategoryRevertDelay,
		ExplanationFrom: ExplainFromProblem,
	}
}

// ConstructionRules returns the rules for ordering tiles into a sentence.
func ConstructionRules() Rules {
	return Rules{
		Layout:          LayoutSequence,
		Verification:    VerifyExplicit,
		Answer:          AnswerOrdered,
		Shuffle:         true,
		ExplanationFrom: ExplainFromProblem,
	}
}

// PerDrop reports whether drops are verified immediately.
func (r Rules) PerDrop() bool { return r.Verification == VerifyPerDrop }

// Validate checks that the combination of rules is one the engine supports.
func (r Rules) Validate() error {
	switch r.Layout {
	case LayoutSingleSlot, LayoutMultiSlot:
		if r.Verification != VerifyPerDrop {
			return fmt.Errorf("layout %q requires %q verification", r.Layout, VerifyPerDrop)
		}
		if r.Answer != AnswerTarget && r.Answer != AnswerSet {
			return fmt.Errorf("layout %q does not support %q answers", r.Layout, r.Answer)
		}
		if r.Answer == AnswerSet && r.Layout != LayoutSingleSlot {
			return fmt.Errorf("%q answers require layout %q", AnswerSet, LayoutSingleSlot)
		}
		if r.RevertDelay <= 0 {
			return errors.New("per-drop verification requires a positive revert delay")
		}
	case LayoutSequence:
		if r.Verification != VerifyExplicit || r.Answer != AnswerOrdered {
			return fmt.Errorf("layout %q requires %q verification and %q answers", r.Layout, VerifyExplicit, AnswerOrdered)
		}
	default:
		return fmt.Errorf("unknown layout %q", r.Layout)
	}
	switch r.ExplanationFrom {
	case ExplainFromItem, ExplainFromProblem:
	default:
		return fmt.Errorf("unknown explanation source %q", r.ExplanationFrom)
	}
	return nil
}

// Problem is one round of an exercise. Single-round exercises have exactly one.
type Problem struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt,omitempty"`
	// Context holds surrounding fragments, e.g. the two clauses around a connector gap.
	Context     []string `json:"context,omitempty"`
	Items       []Item   `json:"items"`
	Zones       []Zone   `json:"zones,omitempty"`
	Accepted    []ItemID `json:"accepted,omitempty"`
	Order       []ItemID `json:"order,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Item returns the item with the given ID.
func (p Problem) Item(id ItemID) (Item, bool) {
	for _, it := range p.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Zone returns the zone with the given ID.
func (p Problem) Zone(id ZoneID) (Zone, bool) {
	for _, z := range p.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// Accepts reports whether id is in the accepted set.
func (p Problem) Accepts(id ItemID) bool {
	for _, a := range p.Accepted {
		if a == id {
			return true
		}
	}
	return false
}

// Exercise is a module of the workshop: its rules and its problems.
type Exercise struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	Rules       Rules     `json:"rules"`
	Problems    []Problem `json:"problems"`
}

// Validate checks the exercise against its rules. The returned error wraps ErrInvalidCatalog.
func (e Exercise) Validate() error {
	if err := e.validate(); err != nil {
		return fmt.Errorf("%w: exercise %q: %v", ErrInvalidCatalog, e.ID, err)
	}
	return nil
}

func (e Exercise) validate() error {
	if e.ID == "" {
		return errors.New("missing id")
	}
	if err := e.Rules.Validate(); err != nil {
		return err
	}
	if len(e.Problems) == 0 {
		return errors.New("no problems")
	}
	for i, p := range e.Problems {
		if err := e.validateProblem(p); err != nil {
			return fmt.Errorf("problem %d (%s): %w", i, p.ID, err)
		}
	}
	return nil
}

func (e Exercise) validateProblem(p Problem) error {
	if len(p.Items) == 0 {
		return errors.New("no items")
	}
	items := make(map[ItemID]bool, len(p.Items))
	for _, it := range p.Items {
		if it.ID == "" {
			return errors.New("item without id")
		}
		if items[it.ID] {
			return fmt.Errorf("duplicate item %q", it.ID)
		}
		items[it.ID] = true
	}

	zones := make(map[ZoneID]bool, len(p.Zones))
	for _, z := range p.Zones {
		if z.ID == "" || z.ID == SequenceZone {
			return fmt.Errorf("invalid zone id %q", z.ID)
		}
		if zones[z.ID] {
			return fmt.Errorf("duplicate zone %q", z.ID)
		}
		zones[z.ID] = true
	}

	switch e.Rules.Answer {
	case AnswerTarget:
		if len(zones) == 0 {
			return errors.New("no zones")
		}
		for _, it := range p.Items {
			if !zones[it.Target] {
				return fmt.Errorf("item %q targets unknown zone %q", it.ID, it.Target)
			}
		}
	case AnswerSet:
		if len(zones) != 1 {
			return fmt.Errorf("connector problems need exactly one zone, got %d", len(zones))
		}
		if len(p.Accepted) == 0 {
			return errors.New("empty accepted set")
		}
		for _, id := range p.Accepted {
			if !items[id] {
				return fmt.Errorf("accepted item %q not in problem", id)
			}
		}
	case AnswerOrdered:
		if len(p.Order) == 0 {
			return errors.New("empty answer order")
		}
		seen := make(map[ItemID]bool, len(p.Order))
		for _, id := range p.Order {
			if !items[id] {
				return fmt.Errorf("ordered item %q not in problem", id)
			}
			if seen[id] {
				return fmt.Errorf("ordered item %q repeated", id)
			}
			seen[id] = true
		}
	}
	return nil
}

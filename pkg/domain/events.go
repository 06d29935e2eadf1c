package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDrop   EventType = "drop"
	EventRevert EventType = "revert"
	EventCheck  EventType = "check"
	EventReset  EventType = "reset"
)

// ResetReason tells why a session was (re)initialized.
type ResetReason string

const (
	ResetStart   ResetReason = "start"
	ResetManual  ResetReason = "reset"
	ResetAdvance ResetReason = "advance"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	ExerciseID string    `json:"exercise_id"`
	ProblemID  string    `json:"problem_id"`
}

// DropEvent is emitted for every drop, accepted or not.
type DropEvent struct {
	EventBase
	Item      ItemID    `json:"item"`
	Source    Location  `json:"source"`
	Target    Location  `json:"target"`
	Accepted  bool      `json:"accepted"`
	Rejection Rejection `json:"rejection,omitempty"`
	Outcome   Outcome   `json:"outcome,omitempty"`
}

// RevertEvent is emitted when an incorrect placement returns to the bank.
type RevertEvent struct {
	EventBase
	Item ItemID `json:"item"`
	Zone ZoneID `json:"zone"`
}

// CheckEvent is emitted when a built sequence is verified.
type CheckEvent struct {
	EventBase
	Sequence []ItemID `json:"sequence"`
	Outcome  Outcome  `json:"outcome"`
}

// ResetEvent is emitted when a session is initialized, reset or advanced.
type ResetEvent struct {
	EventBase
	Reason ResetReason `json:"reason"`
	// CancelledReverts is the number of pending reverts dropped by the reset.
	CancelledReverts int `json:"cancelled_reverts"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDrop   func(context.Context, *DropEvent)
	OnRevert func(context.Context, *RevertEvent)
	OnCheck  func(context.Context, *CheckEvent)
	OnReset  func(context.Context, *ResetEvent)
}

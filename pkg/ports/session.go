package ports

import (
	"context"

	"github.com/aretw0/workshop/pkg/domain"
)

// Session is the host-facing API of one running exercise.
// All methods are safe for concurrent use; each runs to completion before the next.
type Session interface {
	// ID of the exercise being played.
	ExerciseID() string

	// Snapshot returns the current projection.
	Snapshot() domain.Snapshot

	// Drag starts a drag gesture on an item and returns its envelope.
	// It returns false when the item cannot be dragged from where it is.
	Drag(ctx context.Context, item domain.ItemID) (domain.Envelope, bool)

	// Drop applies a decoded envelope onto a target location.
	Drop(ctx context.Context, env domain.Envelope, target domain.Location) domain.DropResult

	// DropRaw decodes a transported envelope and applies it.
	DropRaw(ctx context.Context, raw []byte, target domain.Location) domain.DropResult

	// DropItem moves a bank item onto a zone without a drag gesture.
	DropItem(ctx context.Context, item domain.ItemID, zone domain.ZoneID) domain.DropResult

	// AppendToSequence moves a bank tile to the end of the build sequence.
	AppendToSequence(ctx context.Context, item domain.ItemID) domain.DropResult

	// ReturnToBank moves a tile from the build sequence back to the bank.
	ReturnToBank(ctx context.Context, item domain.ItemID) domain.DropResult

	// Check verifies the built sequence of an explicit-check exercise.
	Check(ctx context.Context) domain.CheckResult

	// Reset reinitializes the current problem.
	Reset(ctx context.Context)

	// Next advances to the next problem, wrapping around.
	Next(ctx context.Context)

	// Subscribe registers fn to receive the snapshot after every mutation,
	// including asynchronous reverts. The returned function unsubscribes.
	Subscribe(fn func(domain.Snapshot)) (unsubscribe func())

	// Close cancels pending reverts. A closed session ignores further input.
	Close()
}

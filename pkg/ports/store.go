package ports

import (
	"context"

	"github.com/aretw0/workshop/pkg/domain"
)

// SnapshotStore keeps the latest projection of live sessions so that other
// processes can inspect them. It never feeds an engine back.
type SnapshotStore interface {
	// Save records the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSnapshotNotFound if the session is unknown.
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}

package ports

import (
	"context"

	"github.com/aretw0/workshop/pkg/domain"
)

// CatalogLoader defines how the engine retrieves exercise content.
// This allows the content source (embedded YAML, a file, a Loam directory, memory) to be decoupled.
type CatalogLoader interface {
	// ListExercises returns the IDs of all exercises in navigation order.
	ListExercises(ctx context.Context) ([]string, error)

	// GetExercise returns a validated exercise.
	// Returns domain.ErrExerciseNotFound if the ID is unknown.
	GetExercise(ctx context.Context, id string) (domain.Exercise, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of the changed source.
	// It abstracts away the specific event details, signaling only that a reload happened.
	Watch(ctx context.Context) (<-chan string, error)
}

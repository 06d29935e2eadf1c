package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/workshop/internal/dto"
	"github.com/aretw0/workshop/pkg/adapters/memory"
	"github.com/aretw0/workshop/pkg/domain"
)

// Loader adapts a Loam repository to ports.CatalogLoader.
// Each document holds one exercise: frontmatter (or the whole JSON/YAML file) carries
// the exercise fields and a Markdown body, when present, becomes its description.
type Loader struct {
	Repo *loam.TypedRepository[dto.Exercise]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[dto.Exercise]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// load reads every document and indexes the converted exercises by normalized ID.
func (l *Loader) load(ctx context.Context) (map[string]domain.Exercise, []string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	index := make(map[string]domain.Exercise, len(docs))
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		meta := doc.Data
		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		meta.ID = trimExtension(rawID)

		if existingPath, ok := seen[meta.ID]; ok {
			return nil, nil, fmt.Errorf("%w: collision detected: exercise '%s' is defined in both '%s' and '%s'",
				domain.ErrInvalidCatalog, meta.ID, existingPath, doc.ID)
		}
		seen[meta.ID] = doc.ID

		// List carries metadata only; the body needs a Get.
		if meta.Description == "" {
			full, err := l.Repo.Get(ctx, doc.ID)
			if err != nil {
				return nil, nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
			}
			meta.Description = strings.TrimSpace(full.Content)
		}

		ex, err := meta.ToDomain()
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		index[meta.ID] = ex
		ids = append(ids, meta.ID)
	}

	memory.SortExercises(ids, index)
	return index, ids, nil
}

// ListExercises returns exercise IDs in navigation order.
func (l *Loader) ListExercises(ctx context.Context) ([]string, error) {
	_, ids, err := l.load(ctx)
	return ids, err
}

// GetExercise returns the exercise whose normalized ID matches.
func (l *Loader) GetExercise(ctx context.Context, id string) (domain.Exercise, error) {
	index, _, err := l.load(ctx)
	if err != nil {
		return domain.Exercise{}, err
	}
	ex, ok := index[trimExtension(id)]
	if !ok {
		return domain.Exercise{}, fmt.Errorf("%w: %s", domain.ErrExerciseNotFound, id)
	}
	return ex, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

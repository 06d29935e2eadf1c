package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/workshop/pkg/domain"
)

// Catalog implements ports.CatalogLoader over exercises held in memory.
// It is handy for tests and for embedding a fixed catalog in a host.
type Catalog struct {
	mu        sync.RWMutex
	exercises map[string]domain.Exercise
	order     []string
}

// NewCatalog validates the exercises and indexes them.
func NewCatalog(exercises ...domain.Exercise) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(exercises...); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the catalog content atomically. On error the previous content is kept.
func (c *Catalog) Replace(exercises ...domain.Exercise) error {
	index := make(map[string]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		if err := ex.Validate(); err != nil {
			return err
		}
		if _, dup := index[ex.ID]; dup {
			return fmt.Errorf("%w: duplicate exercise %q", domain.ErrInvalidCatalog, ex.ID)
		}
		index[ex.ID] = ex
	}

	order := make([]string, 0, len(index))
	for id := range index {
		order = append(order, id)
	}
	SortExercises(order, index)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = index
	c.order = order
	return nil
}

// ListExercises returns exercise IDs sorted by Order, then ID.
func (c *Catalog) ListExercises(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...), nil
}

// GetExercise returns the exercise with the given ID.
func (c *Catalog) GetExercise(ctx context.Context, id string) (domain.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ex, ok := c.exercises[id]
	if !ok {
		return domain.Exercise{}, fmt.Errorf("%w: %s", domain.ErrExerciseNotFound, id)
	}
	return ex, nil
}

// SortExercises orders IDs for navigation: ascending Order, ties broken by ID.
func SortExercises(ids []string, index map[string]domain.Exercise) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := index[ids[i]], index[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
}

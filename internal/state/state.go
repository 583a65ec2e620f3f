// Package state serializes snapshot replacement. The planner's data model
// assumes a single logical writer: every mutation is a pure transform over
// the current snapshot committed as one atomic replacement. HTTP handlers
// run concurrently, so the manager funnels them through one mutex to keep
// the last-writer-wins guarantee intact.
package state

import (
	"context"
	"sync"

	"github.com/labplanner/backend/internal/models"
)

// Persister is the narrow slice of the document store the manager needs.
// A nil Persister keeps everything in memory, which tests rely on.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
}

type Manager struct {
	mu    sync.Mutex
	snap  models.Snapshot
	store Persister
}

func NewManager(snap models.Snapshot, store Persister) *Manager {
	return &Manager{snap: snap, store: store}
}

// Snapshot returns a copy of the current snapshot for read-only use.
// Slices and maps inside are shared; readers must not mutate them —
// mutations go through Update.
func (m *Manager) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Update applies a pure transform and, if it succeeds, persists and
// installs the result as the new current snapshot. The transform must not
// mutate its argument's shared structures in place; it returns a new value.
func (m *Manager) Update(ctx context.Context, fn func(models.Snapshot) (models.Snapshot, error)) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.snap)
	if err != nil {
		return models.Snapshot{}, err
	}
	if m.store != nil {
		if err := m.store.SaveSnapshot(ctx, next); err != nil {
			return models.Snapshot{}, err
		}
	}
	m.snap = next
	return next, nil
}

// Replace swaps in a whole new snapshot (bulk import). The same
// persistence rules as Update apply.
func (m *Manager) Replace(ctx context.Context, next models.Snapshot) error {
	_, err := m.Update(ctx, func(models.Snapshot) (models.Snapshot, error) {
		return next, nil
	})
	return err
}

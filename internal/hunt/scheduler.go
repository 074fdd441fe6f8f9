// Package hunt is the execution engine: it selects pending hunts,
// dispatches their directives, and applies the retry policy until each
// hunt reaches a terminal status.
package hunt

import (
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
)

// NextPending returns the hunt that should run next: highest priority
// first, earliest creation within a priority, insertion order as the
// final tie-break. The second return is false when nothing is pending.
//
// There is no aging: a steady stream of critical hunts will starve low
// ones. Callers that care should meter what they enqueue.
func NextPending(hunts []models.Hunt) (models.Hunt, bool) {
	best := -1
	for i, h := range hunts {
		if h.Status != models.StatusPending {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		current := hunts[best]
		if h.Priority.Rank() > current.Priority.Rank() {
			best = i
			continue
		}
		if h.Priority.Rank() == current.Priority.Rank() && h.CreatedAt.Before(current.CreatedAt) {
			best = i
		}
	}
	if best == -1 {
		return models.Hunt{}, false
	}
	return hunts[best], true
}

// Scheduler picks the next hunt to run from a store.
type Scheduler struct {
	store store.HuntStore
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(st store.HuntStore) *Scheduler {
	return &Scheduler{store: st}
}

// Next returns the next pending hunt per NextPending, or ok=false when
// the queue is idle.
func (s *Scheduler) Next() (models.Hunt, bool, error) {
	pending, err := s.store.List(func(h models.Hunt) bool {
		return h.Status == models.StatusPending
	}, nil)
	if err != nil {
		return models.Hunt{}, false, err
	}
	next, ok := NextPending(pending)
	return next, ok, nil
}

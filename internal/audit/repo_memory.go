package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps audit events in process memory for the memory driver and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns every event ordered by CreatedAt, oldest first.
// Events with equal timestamps keep their append order.
func (r *MemoryRepo) Events() []Event {
	return r.filter(func(Event) bool { return true })
}

// EventsOfType returns the events of type t, oldest first.
func (r *MemoryRepo) EventsOfType(t EventType) []Event {
	return r.filter(func(e Event) bool { return e.Type == t })
}

// GrantsFor returns the role grants recorded for username, oldest first.
func (r *MemoryRepo) GrantsFor(username string) []Event {
	return r.filter(func(e Event) bool {
		return e.Type == EventTypeRoleGranted && e.TargetUsername == username
	})
}

func (r *MemoryRepo) filter(keep func(Event) bool) []Event {
	r.mu.Lock()
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Package shared provides shared utilities for use cases.
package shared

import (
	"sync"

	"github.com/runoshun/issuebot/internal/domain"
)

// InFlight tracks chat messages whose transition is still running. A second
// press on the same message is rejected rather than queued, so one card
// never issues two concurrent tracker calls.
type InFlight struct {
	active map[domain.MessageRef]struct{}
	mu     sync.Mutex
}

// NewInFlight creates an empty tracker.
func NewInFlight() *InFlight {
	return &InFlight{active: make(map[domain.MessageRef]struct{})}
}

// TryAcquire marks the message busy. It returns false if it already is.
func (f *InFlight) TryAcquire(ref domain.MessageRef) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.active[ref]; busy {
		return false
	}
	f.active[ref] = struct{}{}
	return true
}

// Release marks the message idle again.
func (f *InFlight) Release(ref domain.MessageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, ref)
}

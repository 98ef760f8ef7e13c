package usecase

import (
	"sync"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

// lastActionTracker remembers the most recent user-initiated network attempt
// so a retry can replay it. Recording happens on every attempt, success or
// failure, so repeated failures of the same action stay retryable.
type lastActionTracker struct {
	mu     sync.Mutex
	action domain.LastAction
}

func newLastActionTracker() *lastActionTracker {
	return &lastActionTracker{action: domain.ActionNone}
}

// Record overwrites the tag unconditionally.
func (t *lastActionTracker) Record(action domain.LastAction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.action = action
}

// Resolve returns the tag without clearing it; repeated retries keep
// replaying the same action until a different one is attempted.
func (t *lastActionTracker) Resolve() domain.LastAction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.action
}

package usecase

import (
	"testing"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

func TestLastActionTrackerDefaultsToNone(t *testing.T) {
	t.Parallel()

	tracker := newLastActionTracker()
	if got := tracker.Resolve(); got != domain.ActionNone {
		t.Fatalf("expected none, got %s", got)
	}
}

func TestLastActionTrackerOverwritesUnconditionally(t *testing.T) {
	t.Parallel()

	tracker := newLastActionTracker()
	tracker.Record(domain.ActionStart)
	tracker.Record(domain.ActionSubmit)
	if got := tracker.Resolve(); got != domain.ActionSubmit {
		t.Fatalf("expected submit, got %s", got)
	}
}

func TestLastActionTrackerResolveDoesNotClear(t *testing.T) {
	t.Parallel()

	tracker := newLastActionTracker()
	tracker.Record(domain.ActionStart)
	_ = tracker.Resolve()
	if got := tracker.Resolve(); got != domain.ActionStart {
		t.Fatalf("expected repeated resolves to keep the action, got %s", got)
	}
}

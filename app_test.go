package main

import (
	"errors"
	"testing"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

func TestErrorTitle(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorKind]string{
		domain.ErrorKindNetwork:    "네트워크 오류",
		domain.ErrorKindValidation: "입력 오류",
		domain.ErrorKindAuth:       "인증 오류",
		domain.ErrorKindServer:     "서버 오류",
		domain.ErrorKindRequest:    "요청 오류",
	}
	for kind, want := range cases {
		kind := kind
		want := want
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			if got := errorTitle(kind); got != want {
				t.Fatalf("unexpected title: %q", got)
			}
		})
	}

	if got := errorTitle("unknown"); got != "오류" {
		t.Fatalf("expected generic title, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetSnapshotWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	snap := app.GetSnapshot()
	if snap.Status != domain.StatusWelcome || snap.Error != nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.CurrentQuestion != domain.DefaultQuestion {
		t.Fatalf("unexpected question: %q", snap.CurrentQuestion)
	}

	app.bootErr = errors.New("boot")
	snap = app.GetSnapshot()
	if snap.Error == nil || snap.Error.Kind != domain.ErrorKindRequest || snap.Error.Message != "boot" {
		t.Fatalf("unexpected boot snapshot: %+v", snap)
	}
}

func TestEventEmitsIgnoredBeforeStartup(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	app.SessionChanged(domain.Snapshot{})
	app.RecordingChanged(domain.RecordingIdle)
	app.TranscriptReady("text")
	app.Notice("notice")
	app.SessionError(domain.ErrorState{Kind: domain.ErrorKindNetwork})
}

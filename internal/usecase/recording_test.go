package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
	"github.com/SamuelOhO/Tell-your-story/internal/ports"
)

func TestRecordingStartStopUploadsAccumulatedChunks(t *testing.T) {
	t.Parallel()

	service := &fakeService{
		transcribeFn: func(_ []byte) (string, error) { return " 안녕하세요 ", nil },
	}
	session := &fakeAudioSession{chunks: [][]byte{[]byte("ab"), []byte("cd")}}
	events := &fakeEventSink{}
	pipeline := NewRecordingPipeline(
		&fakeAudioCapture{sessions: []ports.AudioSession{session}},
		service,
		events,
		nil,
		RecordingConfig{Encode: func(pcm []byte) []byte { return append([]byte("WAV:"), pcm...) }},
	)

	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := pipeline.Phase(); got != domain.RecordingActive {
		t.Fatalf("expected recording phase, got %s", got)
	}

	text, uploaded, err := pipeline.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !uploaded {
		t.Fatalf("expected an upload")
	}
	if text != "안녕하세요" {
		t.Fatalf("unexpected text: %q", text)
	}

	uploads := service.transcribeCalls()
	if len(uploads) != 1 || string(uploads[0]) != "WAV:abcd" {
		t.Fatalf("unexpected upload payload: %q", uploads)
	}
	if session.stopCalls == 0 {
		t.Fatalf("expected device release on stop")
	}
	if got := pipeline.Phase(); got != domain.RecordingIdle {
		t.Fatalf("expected idle phase after stop, got %s", got)
	}

	phases := events.recordedPhases()
	want := []domain.RecordingPhase{domain.RecordingActive, domain.RecordingUploading, domain.RecordingIdle}
	if len(phases) != len(want) {
		t.Fatalf("unexpected phase events: %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phase %d: expected %s, got %s", i, want[i], phases[i])
		}
	}
}

func TestRecordingStopWithNoAudioSkipsUpload(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	session := &fakeAudioSession{}
	pipeline := NewRecordingPipeline(
		&fakeAudioCapture{sessions: []ports.AudioSession{session}},
		service,
		&fakeEventSink{},
		nil,
		RecordingConfig{},
	)

	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	text, uploaded, err := pipeline.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if uploaded || text != "" {
		t.Fatalf("expected no upload for empty capture, got %q", text)
	}
	if len(service.transcribeCalls()) != 0 {
		t.Fatalf("transcription endpoint must not be called for empty capture")
	}
	if session.stopCalls == 0 {
		t.Fatalf("expected device release even with empty capture")
	}
	if got := pipeline.Phase(); got != domain.RecordingIdle {
		t.Fatalf("expected idle phase, got %s", got)
	}
}

func TestRecordingDeviceReleasedWhenUploadFails(t *testing.T) {
	t.Parallel()

	service := &fakeService{
		transcribeFn: func(_ []byte) (string, error) {
			return "", &domain.StateError{State: domain.ErrorState{Kind: domain.ErrorKindServer, Message: "stt down"}}
		},
	}
	session := &fakeAudioSession{chunks: [][]byte{[]byte("pcm")}}
	pipeline := NewRecordingPipeline(
		&fakeAudioCapture{sessions: []ports.AudioSession{session}},
		service,
		&fakeEventSink{},
		nil,
		RecordingConfig{},
	)

	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	_, _, err := pipeline.Stop(context.Background())
	if err == nil {
		t.Fatalf("expected upload failure")
	}
	if session.stopCalls == 0 {
		t.Fatalf("device release must not depend on the upload outcome")
	}
	if got := pipeline.Phase(); got != domain.RecordingIdle {
		t.Fatalf("expected idle phase after failed upload, got %s", got)
	}
}

func TestRecordingStartWhileRecordingIsRejected(t *testing.T) {
	t.Parallel()

	capture := &fakeAudioCapture{sessions: []ports.AudioSession{
		&fakeAudioSession{chunks: [][]byte{[]byte("pcm")}},
	}}
	pipeline := NewRecordingPipeline(capture, &fakeService{}, &fakeEventSink{}, nil, RecordingConfig{})

	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := pipeline.Start(context.Background()); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("expected ErrAlreadyRecording, got %v", err)
	}
	if capture.calls != 1 {
		t.Fatalf("rejected start must not touch the device, got %d acquisitions", capture.calls)
	}
}

func TestRecordingStopWithoutStartIsNoop(t *testing.T) {
	t.Parallel()

	pipeline := NewRecordingPipeline(&fakeAudioCapture{}, &fakeService{}, &fakeEventSink{}, nil, RecordingConfig{})

	_, _, err := pipeline.Stop(context.Background())
	if !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected ErrNotRecording, got %v", err)
	}
}

func TestRecordingDeniedDeviceAllowsRestart(t *testing.T) {
	t.Parallel()

	capture := &fakeAudioCapture{err: errors.New("permission denied")}
	pipeline := NewRecordingPipeline(capture, &fakeService{}, &fakeEventSink{}, nil, RecordingConfig{})

	err := pipeline.Start(context.Background())
	if err == nil {
		t.Fatalf("expected acquisition failure")
	}
	if state := domain.ErrorStateOf(err); state.Kind != domain.ErrorKindRequest {
		t.Fatalf("expected request kind, got %s", state.Kind)
	}
	if got := pipeline.Phase(); got != domain.RecordingIdle {
		t.Fatalf("expected idle phase, got %s", got)
	}

	capture.err = nil
	capture.sessions = []ports.AudioSession{&fakeAudioSession{}}
	if err := pipeline.Start(context.Background()); err != nil {
		t.Fatalf("expected restart after denial to succeed: %v", err)
	}
}

type fakeAudioCapture struct {
	sessions []ports.AudioSession
	err      error
	calls    int
}

func (f *fakeAudioCapture) Start(_ context.Context, _ ports.AudioConfig) (ports.AudioSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no audio session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

type fakeAudioSession struct {
	mu        sync.Mutex
	chunks    [][]byte
	index     int
	stopCalls int
	stopErr   error
}

func (f *fakeAudioSession) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index >= len(f.chunks) {
		return 0, io.EOF
	}
	n := copy(p, f.chunks[f.index])
	f.index++
	return n, nil
}

func (f *fakeAudioSession) Close() error { return nil }

func (f *fakeAudioSession) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stopErr
}

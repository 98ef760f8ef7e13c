package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
	"github.com/SamuelOhO/Tell-your-story/internal/ports"
)

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// RecordingConfig controls capture and upload behavior.
type RecordingConfig struct {
	Audio     ports.AudioConfig
	ChunkSize int
	// Encode frames accumulated PCM into the upload payload (WAV).
	Encode func(pcm []byte) []byte
}

// RecordingPipeline owns the microphone for the duration of one recording,
// accumulates captured chunks, and turns them into recognized text through
// the transcription endpoint. Phases: idle -> recording -> uploading -> idle.
type RecordingPipeline struct {
	capture ports.AudioCapture
	service ports.InterviewService
	events  ports.EventSink
	logger  *slog.Logger
	cfg     RecordingConfig

	mu        sync.Mutex
	phase     domain.RecordingPhase
	acquiring bool
	current   *captureSession
}

type captureSession struct {
	session ports.AudioSession
	chunks  *chunkBuffer
	done    chan struct{}
}

func NewRecordingPipeline(
	capture ports.AudioCapture,
	service ports.InterviewService,
	events ports.EventSink,
	logger *slog.Logger,
	cfg RecordingConfig,
) *RecordingPipeline {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.Encode == nil {
		cfg.Encode = func(pcm []byte) []byte { return pcm }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordingPipeline{
		capture: capture,
		service: service,
		events:  events,
		logger:  logger,
		cfg:     cfg,
		phase:   domain.RecordingIdle,
	}
}

// Phase returns the current pipeline phase.
func (p *RecordingPipeline) Phase() domain.RecordingPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Start acquires the microphone and begins accumulating chunks. Starting
// while a recording is active is rejected without side effects.
func (p *RecordingPipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.acquiring || p.phase != domain.RecordingIdle {
		p.mu.Unlock()
		return ErrAlreadyRecording
	}
	p.acquiring = true
	p.mu.Unlock()

	session, err := p.capture.Start(ctx, p.cfg.Audio)

	p.mu.Lock()
	p.acquiring = false
	if err != nil {
		p.mu.Unlock()
		return &domain.StateError{State: domain.ErrorState{
			Kind:    domain.ErrorKindRequest,
			Message: fmt.Sprintf("마이크를 사용할 수 없습니다: %v", err),
		}}
	}
	active := &captureSession{
		session: session,
		chunks:  &chunkBuffer{},
		done:    make(chan struct{}),
	}
	p.phase = domain.RecordingActive
	p.current = active
	p.mu.Unlock()

	go pumpCaptureChunks(active.session, active.chunks, p.cfg.ChunkSize, p.logger, active.done)

	p.events.RecordingChanged(domain.RecordingActive)
	return nil
}

// Stop finalizes the capture, releases the microphone, and uploads the
// accumulated audio. The device is released before any upload is attempted,
// so the release never depends on the transcription outcome. Returns the
// recognized text and whether an upload actually happened.
func (p *RecordingPipeline) Stop(ctx context.Context) (string, bool, error) {
	p.mu.Lock()
	if p.phase != domain.RecordingActive || p.current == nil {
		p.mu.Unlock()
		return "", false, ErrNotRecording
	}
	active := p.current
	p.current = nil
	p.mu.Unlock()

	if err := active.session.Stop(); err != nil {
		p.logger.Warn("audio capture did not stop cleanly", slog.Any("error", err))
	}
	<-active.done

	data := active.chunks.Bytes()
	if len(data) == 0 {
		p.setPhase(domain.RecordingIdle)
		p.events.RecordingChanged(domain.RecordingIdle)
		return "", false, nil
	}

	p.setPhase(domain.RecordingUploading)
	p.events.RecordingChanged(domain.RecordingUploading)

	text, err := p.service.Transcribe(ctx, p.cfg.Encode(data))

	p.setPhase(domain.RecordingIdle)
	p.events.RecordingChanged(domain.RecordingIdle)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}

func (p *RecordingPipeline) setPhase(phase domain.RecordingPhase) {
	p.mu.Lock()
	p.phase = phase
	p.mu.Unlock()
}

// pumpCaptureChunks drains the capture session into the buffer in arrival
// order until the device signals EOF.
func pumpCaptureChunks(session ports.AudioSession, sink *chunkBuffer, chunkSize int, logger *slog.Logger, done chan struct{}) {
	defer close(done)

	buf := make([]byte, chunkSize)
	for {
		n, err := session.Read(buf)
		if n > 0 {
			sink.Append(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("audio capture read failed", slog.Any("error", err))
			}
			return
		}
	}
}

// chunkBuffer accumulates captured audio fragments in arrival order.
type chunkBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *chunkBuffer) Append(chunk []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(chunk)
}

func (b *chunkBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

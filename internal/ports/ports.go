package ports

import (
	"context"
	"io"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

// StartResult is the backend response to a session start.
type StartResult struct {
	SessionID     string
	FirstQuestion string
}

// ChatRequest carries one answer plus the full history to the chat endpoint.
type ChatRequest struct {
	SessionID string
	UserText  string
	History   []domain.Turn
}

// ChatResult is one completed exchange returned by the chat endpoint.
type ChatResult struct {
	SessionID      string
	AIText         string
	NextQuestion   string
	SummaryUpdated bool
}

// DraftResult holds a generated narrative draft.
type DraftResult struct {
	SessionID string
	Draft     string
}

// InterviewService is the remote interview backend.
type InterviewService interface {
	StartInterview(ctx context.Context) (StartResult, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResult, error)
	Transcribe(ctx context.Context, audio []byte) (string, error)
	// Synthesize returns an absolute URL for the spoken form of text.
	Synthesize(ctx context.Context, text string) (string, error)
	GenerateDraft(ctx context.Context, sessionID string) (DraftResult, error)
}

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session holding the input device.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// Player plays a synthesized audio resource by URL.
type Player interface {
	Play(ctx context.Context, url string) error
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits orchestrator state and events to the UI.
type EventSink interface {
	SessionChanged(snapshot domain.Snapshot)
	RecordingChanged(phase domain.RecordingPhase)
	TranscriptReady(text string)
	Notice(message string)
	SessionError(state domain.ErrorState)
}

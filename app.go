package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/SamuelOhO/Tell-your-story/internal/bootstrap"
	"github.com/SamuelOhO/Tell-your-story/internal/config"
	"github.com/SamuelOhO/Tell-your-story/internal/domain"
	"github.com/SamuelOhO/Tell-your-story/internal/usecase"
)

const (
	eventSession    = "story:session"
	eventRecording  = "story:recording"
	eventTranscript = "story:transcript"
	eventNotice     = "story:notice"
	eventError      = "story:error"
)

// App is the Wails application root. It binds the interview controller to
// the frontend and forwards orchestrator events as runtime events.
type App struct {
	ctx context.Context

	controller *usecase.InterviewController
	clipboard  *wailsClipboard
	cfg        config.Config
	logger     *slog.Logger
	bootErr    error
}

func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{logger: logger, clipboard: &wailsClipboard{}}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, a.logger)
	if err != nil {
		a.bootErr = err
		a.logger.Error("startup failed", slog.Any("error", err))
		a.SessionError(domain.ErrorState{Kind: domain.ErrorKindRequest, Message: err.Error()})
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.SessionChanged(a.controller.Snapshot())
}

// StartInterview begins a new interview session.
func (a *App) StartInterview() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.Start(a.ctx)
	return a.controller.Snapshot(), nil
}

// SubmitAnswer sends the given answer to the interviewer.
func (a *App) SubmitAnswer(text string) (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.SubmitAnswer(a.ctx, text)
	return a.controller.Snapshot(), nil
}

// UpdateAnswer mirrors the answer input as the user edits it.
func (a *App) UpdateAnswer(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.controller.UpdateAnswer(text)
	return nil
}

// RequestQuestionAudio speaks the current question aloud.
func (a *App) RequestQuestionAudio() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.RequestQuestionAudio(a.ctx)
	return a.controller.Snapshot(), nil
}

// GenerateDraft requests a narrative draft of the conversation so far.
func (a *App) GenerateDraft() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.GenerateDraft(a.ctx)
	return a.controller.Snapshot(), nil
}

// Retry replays the last user-initiated action.
func (a *App) Retry() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.Retry(a.ctx)
	return a.controller.Snapshot(), nil
}

// StartRecording begins capturing a spoken answer.
func (a *App) StartRecording() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.StartRecording(a.ctx)
	return a.controller.Snapshot(), nil
}

// StopRecording finalizes the capture and pre-fills the recognized text.
func (a *App) StopRecording() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.controller.StopRecording(a.ctx)
	return a.controller.Snapshot(), nil
}

// CopyDraft writes the generated draft into the system clipboard.
func (a *App) CopyDraft() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	snap := a.controller.Snapshot()
	if snap.DraftText == "" {
		return errors.New("복사할 초안이 없습니다")
	}
	return a.clipboard.SetText(a.ctx, snap.DraftText)
}

// GetSnapshot returns the current session state.
func (a *App) GetSnapshot() domain.Snapshot {
	if a.controller == nil {
		snap := domain.Snapshot{
			Status:          domain.StatusWelcome,
			CurrentQuestion: domain.DefaultQuestion,
			RecordingPhase:  domain.RecordingIdle,
		}
		if a.bootErr != nil {
			snap.Error = &domain.ErrorState{Kind: domain.ErrorKindRequest, Message: a.bootErr.Error()}
		}
		return snap
	}
	return a.controller.Snapshot()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"backendBaseURL": a.cfg.Backend.BaseURL,
		"audioInput":     a.cfg.Audio.InputDevice,
		"audioFormat":    a.cfg.Audio.InputFormat,
		"recorder":       a.cfg.Audio.RecorderCommand,
		"player":         a.cfg.Playback.Command,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionChanged emits the full session snapshot to the frontend.
func (a *App) SessionChanged(snapshot domain.Snapshot) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, snapshot)
}

// RecordingChanged emits recording phase transitions.
func (a *App) RecordingChanged(phase domain.RecordingPhase) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventRecording, map[string]string{
		"phase": string(phase),
	})
}

// TranscriptReady emits recognized text for the answer input.
func (a *App) TranscriptReady(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, map[string]string{"text": text})
}

// Notice emits a non-error status note.
func (a *App) Notice(message string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventNotice, map[string]string{"message": message})
}

// SessionError emits the active error to the UI.
func (a *App) SessionError(state domain.ErrorState) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"kind":    string(state.Kind),
		"title":   errorTitle(state.Kind),
		"message": state.Message,
	})
}

func errorTitle(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrorKindNetwork:
		return "네트워크 오류"
	case domain.ErrorKindValidation:
		return "입력 오류"
	case domain.ErrorKindAuth:
		return "인증 오류"
	case domain.ErrorKindServer:
		return "서버 오류"
	case domain.ErrorKindRequest:
		return "요청 오류"
	default:
		return "오류"
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}

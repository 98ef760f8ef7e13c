package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
	"github.com/SamuelOhO/Tell-your-story/internal/ports"
)

const (
	summaryRefreshedNotice = "대화 요약이 갱신되었습니다."
	draftReadyNotice       = "자서전 초안이 준비되었습니다."
)

// InterviewController drives the interview session against the backend. It
// owns the session identity, the current question, the conversation log, the
// pending answer input, and the busy/error flags the UI renders. Network
// failures never escape an operation; they become the single active error
// state instead.
type InterviewController struct {
	service  ports.InterviewService
	recorder *RecordingPipeline
	player   ports.Player
	events   ports.EventSink

	defaultQuestion string
	lastAction      *lastActionTracker
	log             *conversationLog

	mu              sync.Mutex
	status          domain.InterviewStatus
	sessionID       string
	currentQuestion string
	pendingAnswer   string
	draftText       string
	errState        *domain.ErrorState
	notice          string
	loading         bool
	draftLoading    bool
	speechLoading   bool
}

func NewInterviewController(
	service ports.InterviewService,
	recorder *RecordingPipeline,
	player ports.Player,
	events ports.EventSink,
	defaultQuestion string,
) *InterviewController {
	if defaultQuestion == "" {
		defaultQuestion = domain.DefaultQuestion
	}
	return &InterviewController{
		service:         service,
		recorder:        recorder,
		player:          player,
		events:          events,
		defaultQuestion: defaultQuestion,
		lastAction:      newLastActionTracker(),
		log:             &conversationLog{},
		status:          domain.StatusWelcome,
		currentQuestion: defaultQuestion,
	}
}

// Start opens a new interview session. Valid in any status; on success the
// conversation log is reset and the status moves to interview. The status is
// left untouched on failure.
func (c *InterviewController) Start(ctx context.Context) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.errState = nil
	c.notice = ""
	c.mu.Unlock()

	c.lastAction.Record(domain.ActionStart)
	c.emitSession()

	result, err := c.service.StartInterview(ctx)

	c.mu.Lock()
	if err != nil {
		c.loading = false
		state := domain.ErrorStateOf(err)
		c.errState = &state
		c.mu.Unlock()
		c.events.SessionError(state)
		c.emitSession()
		return
	}
	c.sessionID = result.SessionID
	c.currentQuestion = result.FirstQuestion
	if c.currentQuestion == "" {
		c.currentQuestion = c.defaultQuestion
	}
	c.status = domain.StatusInterview
	// The log reset lands in the same critical section as the status change;
	// no snapshot can see the new session with the old conversation.
	c.log.Reset()
	c.loading = false
	c.mu.Unlock()

	c.emitSession()
}

// SubmitAnswer sends the trimmed answer plus the whole conversation to the
// chat endpoint. Empty input and in-flight submissions are no-ops. A
// successful exchange applies atomically: the user/ai turn pair is appended,
// the pending input cleared, and the question advanced. A failed one applies
// none of it.
func (c *InterviewController) SubmitAnswer(ctx context.Context, rawText string) {
	text := strings.TrimSpace(rawText)

	c.mu.Lock()
	if text == "" || c.loading || c.status != domain.StatusInterview {
		c.mu.Unlock()
		return
	}
	// The pending input holds the trimmed text from here on; a retry resends
	// exactly what went over the wire.
	c.pendingAnswer = text
	c.loading = true
	c.errState = nil
	c.notice = ""
	sessionID := c.sessionID
	c.mu.Unlock()

	c.lastAction.Record(domain.ActionSubmit)
	c.emitSession()

	result, err := c.service.Chat(ctx, ports.ChatRequest{
		SessionID: sessionID,
		UserText:  text,
		History:   c.log.Turns(),
	})

	c.mu.Lock()
	if err != nil {
		c.loading = false
		state := domain.ErrorStateOf(err)
		c.errState = &state
		c.mu.Unlock()
		c.events.SessionError(state)
		c.emitSession()
		return
	}
	if result.SessionID != "" {
		c.sessionID = result.SessionID
	}
	c.currentQuestion = result.NextQuestion
	c.pendingAnswer = ""
	if result.SummaryUpdated {
		c.notice = summaryRefreshedNotice
	}
	// The turn pair lands in the same critical section as the question
	// advance; no snapshot can see one without the other.
	c.log.AppendExchange(text, result.AIText)
	c.loading = false
	c.mu.Unlock()

	if result.SummaryUpdated {
		c.events.Notice(summaryRefreshedNotice)
	}
	c.emitSession()
}

// RequestQuestionAudio synthesizes the current question and plays it back.
// Failures surface as the active error but are not recorded for retry.
func (c *InterviewController) RequestQuestionAudio(ctx context.Context) {
	c.mu.Lock()
	if c.speechLoading || c.status != domain.StatusInterview {
		c.mu.Unlock()
		return
	}
	c.speechLoading = true
	c.errState = nil
	c.notice = ""
	question := c.currentQuestion
	c.mu.Unlock()

	c.emitSession()

	audioURL, err := c.service.Synthesize(ctx, question)
	if err == nil {
		err = c.player.Play(ctx, audioURL)
	}

	c.mu.Lock()
	c.speechLoading = false
	if err != nil {
		state := domain.ErrorStateOf(err)
		c.errState = &state
		c.mu.Unlock()
		c.events.SessionError(state)
		c.emitSession()
		return
	}
	c.mu.Unlock()
	c.emitSession()
}

// GenerateDraft asks the backend for a narrative draft of the conversation.
// Requires a started session; the conversation log is never touched.
func (c *InterviewController) GenerateDraft(ctx context.Context) {
	c.mu.Lock()
	if c.draftLoading || c.sessionID == "" {
		c.mu.Unlock()
		return
	}
	c.draftLoading = true
	c.errState = nil
	c.notice = ""
	sessionID := c.sessionID
	c.mu.Unlock()

	c.emitSession()

	result, err := c.service.GenerateDraft(ctx, sessionID)

	c.mu.Lock()
	c.draftLoading = false
	if err != nil {
		state := domain.ErrorStateOf(err)
		c.errState = &state
		c.mu.Unlock()
		c.events.SessionError(state)
		c.emitSession()
		return
	}
	c.draftText = result.Draft
	c.notice = draftReadyNotice
	c.mu.Unlock()

	c.events.Notice(draftReadyNotice)
	c.emitSession()
}

// Retry replays the last user-initiated action. A replayed submit uses the
// current pending input, not a cached copy of the failed text.
func (c *InterviewController) Retry(ctx context.Context) {
	c.mu.Lock()
	if c.loading || c.draftLoading || c.speechLoading {
		c.mu.Unlock()
		return
	}
	pending := c.pendingAnswer
	c.mu.Unlock()

	switch c.lastAction.Resolve() {
	case domain.ActionStart:
		c.Start(ctx)
	case domain.ActionSubmit:
		c.SubmitAnswer(ctx, pending)
	}
}

// UpdateAnswer mirrors the answer input as the user edits it, so retry and
// transcription operate on the current text.
func (c *InterviewController) UpdateAnswer(text string) {
	c.mu.Lock()
	c.pendingAnswer = text
	c.mu.Unlock()
}

// StartRecording acquires the microphone. Starting while already recording
// is silently ignored.
func (c *InterviewController) StartRecording(ctx context.Context) {
	c.mu.Lock()
	c.errState = nil
	c.notice = ""
	c.mu.Unlock()
	c.emitSession()

	if err := c.recorder.Start(ctx); err != nil {
		if errors.Is(err, ErrAlreadyRecording) {
			return
		}
		c.fail(domain.ErrorStateOf(err))
	}
}

// StopRecording finalizes the capture. When an upload happened, the
// recognized text replaces the pending answer in full; it never auto-submits.
func (c *InterviewController) StopRecording(ctx context.Context) {
	c.mu.Lock()
	c.errState = nil
	c.notice = ""
	c.mu.Unlock()
	c.emitSession()

	text, uploaded, err := c.recorder.Stop(ctx)
	if err != nil {
		if errors.Is(err, ErrNotRecording) {
			return
		}
		c.fail(domain.ErrorStateOf(err))
		return
	}
	if !uploaded {
		return
	}

	c.mu.Lock()
	c.pendingAnswer = text
	c.mu.Unlock()

	c.events.TranscriptReady(text)
	c.emitSession()
}

// Snapshot assembles the full UI-visible state.
func (c *InterviewController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	snap := domain.Snapshot{
		Status:          c.status,
		SessionID:       c.sessionID,
		CurrentQuestion: c.currentQuestion,
		PendingAnswer:   c.pendingAnswer,
		DraftText:       c.draftText,
		Loading:         c.loading,
		DraftLoading:    c.draftLoading,
		SpeechLoading:   c.speechLoading,
		Notice:          c.notice,
	}
	if c.errState != nil {
		state := *c.errState
		snap.Error = &state
	}
	snap.Conversation = c.log.Turns()
	c.mu.Unlock()

	snap.RecordingPhase = c.recorder.Phase()
	return snap
}

func (c *InterviewController) fail(state domain.ErrorState) {
	c.mu.Lock()
	c.errState = &state
	c.mu.Unlock()
	c.events.SessionError(state)
	c.emitSession()
}

func (c *InterviewController) emitSession() {
	c.events.SessionChanged(c.Snapshot())
}

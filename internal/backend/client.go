package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
	"github.com/SamuelOhO/Tell-your-story/internal/ports"
)

// Config holds the interview backend connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the interview backend over HTTP. Every non-success response
// comes back as a *domain.StateError carrying the classified error state.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// StartInterview opens a new interview session.
func (c *Client) StartInterview(ctx context.Context) (ports.StartResult, error) {
	var payload struct {
		SessionID     string `json:"session_id"`
		FirstQuestion string `json:"first_question"`
	}
	if err := c.postJSON(ctx, "/interview/start", nil, &payload); err != nil {
		return ports.StartResult{}, err
	}
	return ports.StartResult{
		SessionID:     payload.SessionID,
		FirstQuestion: payload.FirstQuestion,
	}, nil
}

// Chat submits one answer together with the full conversation so far.
func (c *Client) Chat(ctx context.Context, req ports.ChatRequest) (ports.ChatResult, error) {
	history := req.History
	if history == nil {
		history = []domain.Turn{}
	}
	body := struct {
		SessionID           string        `json:"session_id,omitempty"`
		UserText            string        `json:"user_text"`
		ConversationHistory []domain.Turn `json:"conversation_history"`
	}{req.SessionID, req.UserText, history}

	var payload struct {
		SessionID      string `json:"session_id"`
		AIText         string `json:"ai_text"`
		NextQuestion   string `json:"next_question"`
		SummaryUpdated bool   `json:"summary_updated"`
	}
	if err := c.postJSON(ctx, "/interview/chat", body, &payload); err != nil {
		return ports.ChatResult{}, err
	}
	// The transport call succeeded but the exchange is unusable without both
	// the reply and the follow-up question.
	if payload.AIText == "" || payload.NextQuestion == "" {
		return ports.ChatResult{}, &domain.StateError{State: MalformedReplyError()}
	}
	return ports.ChatResult{
		SessionID:      payload.SessionID,
		AIText:         payload.AIText,
		NextQuestion:   payload.NextQuestion,
		SummaryUpdated: payload.SummaryUpdated,
	}, nil
}

// Transcribe uploads one recorded audio payload and returns the recognized
// text. An empty result is valid.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/interview/stt", body, writer.FormDataContentType(), &payload); err != nil {
		return "", err
	}
	return payload.Text, nil
}

// Synthesize asks the backend to speak text and returns an absolute audio URL.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	body := struct {
		Text string `json:"text"`
	}{text}

	var payload struct {
		AudioURL string `json:"audio_url"`
	}
	if err := c.postJSON(ctx, "/interview/tts", body, &payload); err != nil {
		return "", err
	}
	if payload.AudioURL == "" {
		return "", &domain.StateError{State: MalformedReplyError()}
	}
	return c.resolveURL(payload.AudioURL), nil
}

// GenerateDraft requests a narrative draft for an existing session.
func (c *Client) GenerateDraft(ctx context.Context, sessionID string) (ports.DraftResult, error) {
	body := struct {
		SessionID string `json:"session_id"`
	}{sessionID}

	var payload struct {
		SessionID string `json:"session_id"`
		Draft     string `json:"draft"`
	}
	if err := c.postJSON(ctx, "/interview/draft", body, &payload); err != nil {
		return ports.DraftResult{}, err
	}
	if payload.Draft == "" {
		return ports.DraftResult{}, &domain.StateError{State: MalformedReplyError()}
	}
	return ports.DraftResult{SessionID: payload.SessionID, Draft: payload.Draft}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}
	return c.post(ctx, path, reader, "application/json", out)
}

func (c *Client) post(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api_request_failed",
			slog.String("request_id", requestID),
			slog.String("path", path),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return &domain.StateError{State: NetworkError()}
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)
	c.logger.Info("api_request",
		slog.String("request_id", requestID),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.StateError{State: Classify(resp.StatusCode, payload)}
	}
	if readErr != nil {
		return &domain.StateError{State: NetworkError()}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.StateError{State: MalformedReplyError()}
	}
	return nil
}

// resolveURL joins a relative resource path (e.g. /static/tts_x.mp3) with the
// service base address. Absolute URLs pass through untouched.
func (c *Client) resolveURL(ref string) string {
	parsed, err := url.Parse(ref)
	if err == nil && parsed.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

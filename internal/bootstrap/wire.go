package bootstrap

import (
	"log/slog"

	"github.com/SamuelOhO/Tell-your-story/internal/audio"
	"github.com/SamuelOhO/Tell-your-story/internal/backend"
	"github.com/SamuelOhO/Tell-your-story/internal/config"
	"github.com/SamuelOhO/Tell-your-story/internal/ports"
	"github.com/SamuelOhO/Tell-your-story/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.InterviewController
	Config     config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(events ports.EventSink, logger *slog.Logger) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
	}, logger)

	recorder := usecase.NewRecordingPipeline(
		audio.NewFFmpegCapture(cfg.Audio.RecorderCommand),
		client,
		events,
		logger,
		usecase.RecordingConfig{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			ChunkSize: cfg.Audio.ChunkSize,
			Encode:    audio.Encoder(cfg.Audio.SampleRate, cfg.Audio.Channels),
		},
	)

	controller := usecase.NewInterviewController(
		client,
		recorder,
		audio.NewFFplayPlayer(cfg.Playback.Command),
		events,
		cfg.Interview.DefaultQuestion,
	)

	return Services{Controller: controller, Config: cfg}, nil
}

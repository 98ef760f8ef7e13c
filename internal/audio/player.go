package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// FFplayPlayer plays a synthesized audio resource by handing its URL to
// ffplay. Playback blocks until the clip finishes or ctx is cancelled.
type FFplayPlayer struct {
	command string
}

func NewFFplayPlayer(command string) *FFplayPlayer {
	if command == "" {
		command = "ffplay"
	}
	return &FFplayPlayer{command: command}
}

func (p *FFplayPlayer) Play(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("no audio resource to play")
	}

	cmd := exec.CommandContext(ctx, p.command,
		"-autoexit",
		"-nodisp",
		"-loglevel", "error",
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := trimmed(stderr.String())
		if detail == "" {
			return fmt.Errorf("audio playback failed: %w", err)
		}
		return fmt.Errorf("audio playback failed: %w: %s", err, detail)
	}
	return nil
}

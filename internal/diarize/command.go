package diarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nasteffe/make-notes/internal/transcript"
	"go.uber.org/zap"
)

// DefaultCommand is the diarizer looked up on PATH when nothing is
// configured. MN_DIARIZER_PATH overrides it.
const DefaultCommand = "mn-diarize"

// ErrNoDiarizer is returned when no diarization command can be found.
// Alignment still works without one; the transcript just loses speaker
// attribution.
var ErrNoDiarizer = errors.New("no diarization command available")

// CommandDiarizer shells out to an external diarization command that writes
// RTTM to stdout. The command receives the audio path and optional speaker
// count hints:
//
//	mn-diarize --num-speakers 2 session.wav
type CommandDiarizer struct {
	Command string
	Logger  *zap.Logger
}

// NewCommandDiarizer resolves the diarization command (override, then
// MN_DIARIZER_PATH, then DefaultCommand on PATH).
func NewCommandDiarizer(command string, logger *zap.Logger) (*CommandDiarizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(command) == "" {
		command = strings.TrimSpace(os.Getenv("MN_DIARIZER_PATH"))
	}
	if command == "" {
		command = DefaultCommand
	}

	resolved, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %q not found on PATH", ErrNoDiarizer, command)
	}

	return &CommandDiarizer{Command: resolved, Logger: logger}, nil
}

func (d *CommandDiarizer) Diarize(ctx context.Context, req Request) ([]transcript.SpeakerTurn, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return nil, errors.New("audio path is required")
	}

	var args []string
	if req.NumSpeakers > 0 {
		args = append(args, "--num-speakers", strconv.Itoa(req.NumSpeakers))
	}
	if req.MinSpeakers > 0 {
		args = append(args, "--min-speakers", strconv.Itoa(req.MinSpeakers))
	}
	if req.MaxSpeakers > 0 {
		args = append(args, "--max-speakers", strconv.Itoa(req.MaxSpeakers))
	}
	args = append(args, req.AudioPath)

	cmd := exec.CommandContext(ctx, d.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log().Debug("running diarizer", zap.String("command", d.Command), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("diarize failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	turns, err := ParseRTTM(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("parse diarizer output: %w", err)
	}
	return turns, nil
}

func (d *CommandDiarizer) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

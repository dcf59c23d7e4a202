// Package pipeline composes transcription, diarization, and alignment into
// a single audio-file-to-segments run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nasteffe/make-notes/internal/diarize"
	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/nasteffe/make-notes/internal/whisper"
	"go.uber.org/zap"
)

// Pipeline holds pre-built engine handles so a batch of files shares one
// loaded transcription model and one diarizer instead of reconstructing them
// per file.
type Pipeline struct {
	Engine   whisper.Engine
	Diarizer diarize.Diarizer // nil means single-speaker transcripts
	Logger   *zap.Logger
}

// Request carries the per-file parameters of one run.
type Request struct {
	AudioPath   string
	ModelPath   string
	Language    string
	NumSpeakers int
	MinSpeakers int
	MaxSpeakers int
}

// Run transcribes and diarizes one audio file, then aligns the two time
// series into speaker-attributed segments.
func (p *Pipeline) Run(ctx context.Context, req Request) ([]transcript.Segment, error) {
	if p.Engine == nil {
		return nil, errors.New("pipeline has no transcription engine")
	}

	words, err := p.Engine.TranscribeWords(ctx, whisper.Request{
		AudioPath: req.AudioPath,
		ModelPath: req.ModelPath,
		Language:  req.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", req.AudioPath, err)
	}

	var turns []transcript.SpeakerTurn
	if p.Diarizer != nil {
		turns, err = p.Diarizer.Diarize(ctx, diarize.Request{
			AudioPath:   req.AudioPath,
			NumSpeakers: req.NumSpeakers,
			MinSpeakers: req.MinSpeakers,
			MaxSpeakers: req.MaxSpeakers,
		})
		if err != nil {
			return nil, fmt.Errorf("diarize %s: %w", req.AudioPath, err)
		}
	}

	segments := transcript.Align(words, turns)
	p.log().Debug("aligned transcript",
		zap.String("audio", req.AudioPath),
		zap.Int("words", len(words)),
		zap.Int("turns", len(turns)),
		zap.Int("segments", len(segments)),
	)
	return segments, nil
}

func (p *Pipeline) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

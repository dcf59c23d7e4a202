// Package diarize runs an external speaker-diarization tool and parses its
// output into speaker turns. The tool itself (pyannote, NeMo, anything that
// writes RTTM) is a black box behind the Diarizer interface.
package diarize

import (
	"context"

	"github.com/nasteffe/make-notes/internal/transcript"
)

// Request describes one diarization run. Zero speaker hints mean "let the
// model decide".
type Request struct {
	AudioPath   string
	NumSpeakers int
	MinSpeakers int
	MaxSpeakers int
}

// Diarizer produces speaker turns for an audio file. Like transcription
// engines, diarizers are built once and reused across a batch of files.
type Diarizer interface {
	Diarize(ctx context.Context, req Request) ([]transcript.SpeakerTurn, error)
}

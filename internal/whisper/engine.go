package whisper

import (
	"context"

	"github.com/nasteffe/make-notes/internal/transcript"
)

// Request describes one transcription run.
type Request struct {
	AudioPath string
	ModelPath string
	Language  string
}

// Engine produces word-level timestamps for an audio file. Engines are
// expensive to set up; callers build one and reuse it across a batch of
// files.
type Engine interface {
	TranscribeWords(ctx context.Context, req Request) ([]transcript.Word, error)
}

// Package transcript holds the alignment core: fusing word-level
// transcription timestamps with speaker-turn diarization timestamps into an
// ordered sequence of speaker-attributed segments, plus the serialization
// formats those segments travel in.
package transcript

// Segment is a contiguous span of speech attributed to one speaker.
// Segments are values; operations that change them return new ones.
type Segment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Word is a single transcribed word with timestamps, as produced by the
// transcription engine. Text may carry leading whitespace; it is preserved
// until a segment is finalized.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// SpeakerTurn is one diarization interval attributing speech to a speaker.
// Turns are not guaranteed sorted, contiguous, or non-overlapping.
type SpeakerTurn struct {
	Speaker string
	Start   float64
	End     float64
}

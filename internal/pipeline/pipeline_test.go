package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nasteffe/make-notes/internal/diarize"
	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/nasteffe/make-notes/internal/whisper"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	words []transcript.Word
	err   error
	calls int
}

func (s *stubEngine) TranscribeWords(_ context.Context, _ whisper.Request) ([]transcript.Word, error) {
	s.calls++
	return s.words, s.err
}

type stubDiarizer struct {
	turns []transcript.SpeakerTurn
	err   error
	calls int
}

func (s *stubDiarizer) Diarize(_ context.Context, _ diarize.Request) ([]transcript.SpeakerTurn, error) {
	s.calls++
	return s.turns, s.err
}

func TestRunAlignsWordsAndTurns(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{words: []transcript.Word{
		{Text: " Hi.", Start: 0.0, End: 1.0},
		{Text: " Hello.", Start: 2.0, End: 3.0},
	}}
	diarizer := &stubDiarizer{turns: []transcript.SpeakerTurn{
		{Speaker: "SPEAKER_00", Start: 0.0, End: 1.5},
		{Speaker: "SPEAKER_01", Start: 1.5, End: 3.5},
	}}

	p := &Pipeline{Engine: engine, Diarizer: diarizer}
	segments, err := p.Run(context.Background(), Request{AudioPath: "session.wav"})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	require.Equal(t, "SPEAKER_00", segments[0].Speaker)
	require.Equal(t, "SPEAKER_01", segments[1].Speaker)
}

func TestRunWithoutDiarizer(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{words: []transcript.Word{{Text: " only me", Start: 0, End: 1}}}
	p := &Pipeline{Engine: engine}

	segments, err := p.Run(context.Background(), Request{AudioPath: "session.wav"})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Equal(t, transcript.SingleSpeaker, segments[0].Speaker)
}

func TestRunReusesHandlesAcrossBatch(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{words: []transcript.Word{{Text: " hi", Start: 0, End: 1}}}
	diarizer := &stubDiarizer{}
	p := &Pipeline{Engine: engine, Diarizer: diarizer}

	for _, audio := range []string{"a.wav", "b.wav", "c.wav"} {
		_, err := p.Run(context.Background(), Request{AudioPath: audio})
		require.NoError(t, err)
	}

	require.Equal(t, 3, engine.calls)
	require.Equal(t, 3, diarizer.calls)
}

func TestRunPropagatesEngineError(t *testing.T) {
	t.Parallel()

	p := &Pipeline{Engine: &stubEngine{err: errors.New("boom")}}
	_, err := p.Run(context.Background(), Request{AudioPath: "session.wav"})
	require.ErrorContains(t, err, "transcribe session.wav")
}

func TestRunPropagatesDiarizerError(t *testing.T) {
	t.Parallel()

	p := &Pipeline{
		Engine:   &stubEngine{words: []transcript.Word{{Text: " hi", Start: 0, End: 1}}},
		Diarizer: &stubDiarizer{err: errors.New("boom")},
	}
	_, err := p.Run(context.Background(), Request{AudioPath: "session.wav"})
	require.ErrorContains(t, err, "diarize session.wav")
}

func TestRunRequiresEngine(t *testing.T) {
	t.Parallel()

	p := &Pipeline{}
	_, err := p.Run(context.Background(), Request{AudioPath: "session.wav"})
	require.Error(t, err)
}

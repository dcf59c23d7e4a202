package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/stretchr/testify/require"
)

func TestTranscribeCommandEmitsJSONLPerFile(t *testing.T) {
	t.Parallel()

	var seen []string
	app := &appState{
		alignFn: func(_ context.Context, audioPath string) ([]transcript.Segment, error) {
			seen = append(seen, audioPath)
			return []transcript.Segment{
				{Speaker: "SPEAKER_00", Text: "hello", Start: 0, End: 1},
			}, nil
		},
	}

	stdout, _, err := runCommand(t, newTranscribeCmd(app), "a.wav", "b.wav")
	require.NoError(t, err)
	require.Equal(t, []string{"a.wav", "b.wav"}, seen)
	require.Equal(t,
		`{"speaker":"SPEAKER_00","text":"hello","start":0,"end":1}`+"\n"+
			`{"speaker":"SPEAKER_00","text":"hello","start":0,"end":1}`+"\n",
		stdout)
}

func TestTranscribeCommandRelabelsSpeakers(t *testing.T) {
	t.Parallel()

	app := &appState{
		alignFn: func(_ context.Context, _ string) ([]transcript.Segment, error) {
			return []transcript.Segment{
				{Speaker: "SPEAKER_00", Text: "hello", Start: 0, End: 1},
				{Speaker: "SPEAKER_01", Text: "hi", Start: 1, End: 2},
			}, nil
		},
	}

	stdout, _, err := runCommand(t, newTranscribeCmd(app), "--speakers", "Therapist,Client", "a.wav")
	require.NoError(t, err)
	require.Contains(t, stdout, `"speaker":"Therapist"`)
	require.Contains(t, stdout, `"speaker":"Client"`)
}

func TestTranscribeCommandEmptyResultPrintsNothing(t *testing.T) {
	t.Parallel()

	app := &appState{
		alignFn: func(_ context.Context, _ string) ([]transcript.Segment, error) {
			return nil, nil
		},
	}

	stdout, _, err := runCommand(t, newTranscribeCmd(app), "silent.wav")
	require.NoError(t, err)
	require.Empty(t, stdout)
}

func TestTranscribeCommandStopsOnError(t *testing.T) {
	t.Parallel()

	calls := 0
	app := &appState{
		alignFn: func(_ context.Context, _ string) ([]transcript.Segment, error) {
			calls++
			return nil, errors.New("no such audio")
		},
	}

	_, _, err := runCommand(t, newTranscribeCmd(app), "a.wav", "b.wav")
	require.ErrorContains(t, err, "no such audio")
	require.Equal(t, 1, calls)
}

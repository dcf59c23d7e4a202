package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditCommandRoundTripsThroughEditor(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "t.jsonl", sampleJSONL)

	var staged string
	app := &appState{
		editFn: func(text string) (string, error) {
			staged = text
			return "[0:00 → 0:02] A:\n\ngood evening\n\n[0:02 → 0:03] B:\n\nevening\n", nil
		},
	}

	stdout, _, err := runCommand(t, newEditCmd(app), path)
	require.NoError(t, err)
	require.Contains(t, staged, "[00:00 → 00:02] A:")
	require.Equal(t,
		`{"speaker":"A","text":"good evening","start":0,"end":2}`+"\n"+
			`{"speaker":"B","text":"evening","start":2,"end":3}`+"\n",
		stdout)
}

func TestEditCommandTextWithoutHeadersYieldsNothing(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "t.jsonl", sampleJSONL)

	app := &appState{
		editFn: func(string) (string, error) {
			return "just prose, every header deleted\n", nil
		},
	}

	stdout, _, err := runCommand(t, newEditCmd(app), path)
	require.NoError(t, err)
	require.Empty(t, stdout)
}

func TestEditCommandPropagatesEditorFailure(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "t.jsonl", sampleJSONL)

	app := &appState{
		editFn: func(string) (string, error) {
			return "", errors.New("editor exited with status 1")
		},
	}

	_, _, err := runCommand(t, newEditCmd(app), path)
	require.ErrorContains(t, err, "editor exited")
}

package diarize

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCommandDiarizerMissingCommand(t *testing.T) {
	_, err := NewCommandDiarizer("definitely-not-a-real-diarizer", nil)
	require.ErrorIs(t, err, ErrNoDiarizer)
}

func TestCommandDiarizerRequiresAudioPath(t *testing.T) {
	t.Parallel()

	d := &CommandDiarizer{Command: "/bin/true"}
	_, err := d.Diarize(context.Background(), Request{})
	require.Error(t, err)
}

func TestCommandDiarizerRunsScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script diarizer stub")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-diarize")
	content := "#!/bin/sh\n" +
		"echo 'SPEAKER session 1 0.0 2.0 <NA> <NA> SPEAKER_00 <NA> <NA>'\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))

	d := &CommandDiarizer{Command: script}
	turns, err := d.Diarize(context.Background(), Request{AudioPath: "session.wav"})
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, "SPEAKER_00", turns[0].Speaker)
	require.Equal(t, 0.0, turns[0].Start)
	require.Equal(t, 2.0, turns[0].End)
}

func TestCommandDiarizerNonZeroExit(t *testing.T) {
	t.Parallel()

	d := &CommandDiarizer{Command: "/bin/false"}
	_, err := d.Diarize(context.Background(), Request{AudioPath: "session.wav"})
	require.Error(t, err)
}

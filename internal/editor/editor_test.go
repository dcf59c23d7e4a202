package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script editor stub")
	}

	script := filepath.Join(t.TempDir(), "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))
	return script
}

func TestEditReturnsEditedContent(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\necho 'edited line' >> \"$1\"\n")

	out, err := Edit("original\n", Options{Editor: script})
	require.NoError(t, err)
	require.Equal(t, "original\nedited line\n", out)
}

func TestEditBufferIsOwnerOnly(t *testing.T) {
	probe := filepath.Join(t.TempDir(), "mode")
	script := writeScript(t, "#!/bin/sh\nstat -c %a \"$1\" > "+probe+" 2>/dev/null || stat -f %Lp \"$1\" > "+probe+"\n")

	_, err := Edit("text", Options{Editor: script})
	require.NoError(t, err)

	mode, err := os.ReadFile(probe)
	require.NoError(t, err)
	require.Equal(t, "600", string(mode[:3]))
}

func TestEditRemovesBufferAfterSuccess(t *testing.T) {
	probe := filepath.Join(t.TempDir(), "path")
	script := writeScript(t, "#!/bin/sh\necho \"$1\" > "+probe+"\n")

	_, err := Edit("text", Options{Editor: script})
	require.NoError(t, err)

	stagedPath, err := os.ReadFile(probe)
	require.NoError(t, err)
	_, statErr := os.Stat(string(stagedPath[:len(stagedPath)-1]))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestEditRemovesBufferAfterFailure(t *testing.T) {
	probe := filepath.Join(t.TempDir(), "path")
	script := writeScript(t, "#!/bin/sh\necho \"$1\" > "+probe+"\nexit 3\n")

	_, err := Edit("text", Options{Editor: script})

	var failed *EditorFailedError
	require.ErrorAs(t, err, &failed)

	stagedPath, readErr := os.ReadFile(probe)
	require.NoError(t, readErr)
	_, statErr := os.Stat(string(stagedPath[:len(stagedPath)-1]))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestEditMissingEditor(t *testing.T) {
	t.Parallel()

	_, err := Edit("text", Options{Editor: "definitely-not-a-real-editor"})
	require.ErrorIs(t, err, ErrEditorNotFound)
}

func TestResolveEditorFallsBackToEnv(t *testing.T) {
	t.Setenv("EDITOR", "nano")
	require.Equal(t, "nano", resolveEditor(""))
	require.Equal(t, "emacs", resolveEditor("emacs"))
}

func TestResolveEditorDefault(t *testing.T) {
	t.Setenv("EDITOR", "")
	require.Equal(t, "vi", resolveEditor(""))
}

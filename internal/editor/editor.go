// Package editor stages text in a private temp file, hands it to the user's
// editor, and reads the result back.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrEditorNotFound means the configured editor is not on PATH.
var ErrEditorNotFound = errors.New("editor not found")

// EditorFailedError means the editor exited non-zero; any partial edit is
// discarded.
type EditorFailedError struct {
	Editor string
	Err    error
}

func (e *EditorFailedError) Error() string {
	return fmt.Sprintf("editor %s failed: %v", e.Editor, e.Err)
}

func (e *EditorFailedError) Unwrap() error { return e.Err }

// Options control how the editor is launched.
type Options struct {
	// Editor is the command to run. Empty falls back to $EDITOR, then vi.
	Editor string
	// Stdin/Stdout/Stderr attach the editor to the user's terminal. Nil
	// values use the process's own streams.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Edit writes text to an owner-only temp file, blocks on the editor, and
// returns the file's content afterwards. The temp file is removed on every
// path out of this function.
func Edit(text string, opts Options) (string, error) {
	editorCmd := resolveEditor(opts.Editor)

	editorPath, err := exec.LookPath(editorCmd)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrEditorNotFound, editorCmd)
	}

	// CreateTemp creates the file 0600, so the staged transcript stays
	// owner-only.
	tmp, err := os.CreateTemp("", "mn-edit-*.txt")
	if err != nil {
		return "", fmt.Errorf("create edit buffer: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write edit buffer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close edit buffer: %w", err)
	}

	cmd := exec.Command(editorPath, tmp.Name())
	cmd.Stdin = fileOr(opts.Stdin, os.Stdin)
	cmd.Stdout = fileOr(opts.Stdout, os.Stdout)
	cmd.Stderr = fileOr(opts.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return "", &EditorFailedError{Editor: editorCmd, Err: err}
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("read edited buffer: %w", err)
	}

	return string(edited), nil
}

func resolveEditor(editor string) string {
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	if env := strings.TrimSpace(os.Getenv("EDITOR")); env != "" {
		return env
	}
	return "vi"
}

func fileOr(f, fallback *os.File) *os.File {
	if f != nil {
		return f
	}
	return fallback
}

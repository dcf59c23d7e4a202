package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/spf13/cobra"
)

func newFmtCmd(app *appState) *cobra.Command {
	var timestamps bool

	cmd := &cobra.Command{
		Use:   "fmt [transcript.jsonl]",
		Short: "Render a JSONL transcript as readable text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := app.readSegments(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), transcript.Format(segments, timestamps))
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Prefix each segment with its start time")

	return cmd
}

// readSegments loads a JSONL transcript from the optional file argument, or
// from stdin when no argument is given.
func (a *appState) readSegments(args []string) ([]transcript.Segment, error) {
	text, err := a.readTranscriptText(args)
	if err != nil {
		return nil, err
	}
	return transcript.FromJSONL(text)
}

func (a *appState) readTranscriptText(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(a.inReader())
	if err != nil {
		return "", fmt.Errorf("read transcript from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("no transcript on stdin; pipe JSONL or pass a file")
	}
	return string(data), nil
}

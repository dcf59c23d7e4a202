package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSummarizeCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [transcript.jsonl]",
		Short: "Generate a structured note from a JSONL transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(app.template) == "" {
				return errors.New("--template is required")
			}

			segments, err := app.readSegments(args)
			if err != nil {
				return err
			}

			note, err := app.note(cmd.Context(), segments)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), note)
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	bindSummarizeFlags(cmd, app)

	return cmd
}

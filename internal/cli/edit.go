package cli

import (
	"fmt"

	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/spf13/cobra"
)

func newEditCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <transcript.jsonl>",
		Short: "Open a transcript in $EDITOR and print the corrected JSONL",
		Long: "Converts the transcript into an editable text form, opens it in your\n" +
			"editor, and parses the result back into JSONL on stdout. Segment\n" +
			"boundaries follow the [M:SS → M:SS] Speaker: headers; text between\n" +
			"headers belongs to the preceding segment.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := app.readSegments(args)
			if err != nil {
				return err
			}

			editFn := app.editFn
			if editFn == nil {
				editFn = app.editText
			}

			edited, err := editFn(transcript.ToEditable(segments))
			if err != nil {
				return err
			}

			corrected, err := transcript.FromEditable(edited)
			if err != nil {
				return fmt.Errorf("parse edited transcript: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), transcript.ToJSONL(corrected))
			if len(corrected) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	cmd.Flags().StringVar(&app.editorCmd, "editor", "", "Editor command (default: $EDITOR, then vi)")

	return cmd
}

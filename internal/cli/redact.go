package cli

import (
	"fmt"

	"github.com/nasteffe/make-notes/internal/redact"
	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/spf13/cobra"
)

func newRedactCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact [transcript.jsonl]",
		Short: "Replace phone numbers, emails, and other PII in a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := app.readSegments(args)
			if err != nil {
				return err
			}

			redacted := redact.Segments(segments, splitNames(app.redactNames))

			fmt.Fprint(cmd.OutOrStdout(), transcript.ToJSONL(redacted))
			if len(redacted) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	cmd.Flags().StringVar(&app.redactNames, "names", app.redactNames, "Comma-separated names to redact in addition to the built-in patterns")

	return cmd
}

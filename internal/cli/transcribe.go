package cli

import (
	"fmt"
	"strings"

	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/spf13/cobra"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>...",
		Short: "Transcribe audio files into speaker-attributed JSONL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var lines []string
			for _, audioPath := range args {
				segments, err := app.align(cmd.Context(), audioPath)
				if err != nil {
					return err
				}
				segments = app.postprocess(segments)
				if len(segments) == 0 {
					app.log().Warn(noSpeechHint())
					continue
				}
				lines = append(lines, transcript.ToJSONL(segments))
			}

			if len(lines) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			}
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindModelFlags(cmd, app)
	bindDiarizationFlags(cmd, app)
	bindSilenceFlags(cmd, app)
	bindSpeakerNameFlag(cmd, app)
	bindRedactFlags(cmd, app)

	return cmd
}

func noSpeechHint() string {
	return "No speech detected. Check mic mute and selected input device, then try again."
}

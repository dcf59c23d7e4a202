package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nasteffe/make-notes/internal/audio"
	"github.com/nasteffe/make-notes/internal/record"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type recordOptions struct {
	duration time.Duration
	output   string
	input    string
}

func newRecordCmd(app *appState) *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a session into a WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.input = app.input

			recordFn := app.recordFn
			if recordFn == nil {
				recordFn = app.recordAudio
			}

			path, err := recordFn(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindRecordingBackendFlags(cmd, app)
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Record duration, e.g. 30m; 0 means interactive start/stop")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output WAV file path")
	cmd.Flags().BoolVar(&app.immediate, "immediate", false, "Start recording immediately without waiting for Enter")

	return cmd
}

func (a *appState) recordAudio(ctx context.Context, opts recordOptions) (string, error) {
	backend, err := record.NewBackend(a.backend)
	if err != nil {
		return "", err
	}

	outPath, err := a.recordingOutputPath(opts.output)
	if err != nil {
		return "", err
	}

	interactive := opts.duration <= 0
	if interactive && !a.immediate {
		if err := record.WaitForEnter(os.Stdin, os.Stderr, "Press Enter to start recording."); err != nil {
			return "", err
		}
	}

	a.log().Info("recording started", zap.String("backend", backend.Name()), zap.String("output", outPath))
	stopProgress := func() {}
	if interactive {
		stopProgress = startSpinner(a.progressEnabled(), "Recording")
	} else {
		stopProgress = startDurationProgress(a.progressEnabled(), "Recording", opts.duration)
	}
	defer stopProgress()

	recConfig := record.Config{
		OutputPath:  outPath,
		Duration:    opts.duration,
		Interactive: interactive,
		SampleRate:  16000,
		Channels:    1,
		Input:       opts.input,
		Logger:      a.log(),
	}

	if err := backend.Record(ctx, recConfig); err != nil {
		return "", fmt.Errorf("record audio with backend %s: %w", backend.Name(), err)
	}

	a.log().Info("recording finished", zap.String("path", outPath))
	a.warnIfSilent(outPath)
	return outPath, nil
}

// warnIfSilent flags an apparently empty capture right after recording, when
// re-recording is still cheap.
func (a *appState) warnIfSilent(path string) {
	if !a.silenceGate {
		return
	}

	silent, metrics, err := audio.IsSilentWAV(path, a.silenceDBFS)
	if err != nil || !silent {
		return
	}
	a.log().Warn(noSpeechHint(), zap.Float64("rms_dbfs", metrics.RMSdBFS), zap.Float64("peak_dbfs", metrics.PeakdBFS))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nasteffe/make-notes/internal/audio"
	"github.com/nasteffe/make-notes/internal/config"
	"github.com/nasteffe/make-notes/internal/diarize"
	"github.com/nasteffe/make-notes/internal/download"
	"github.com/nasteffe/make-notes/internal/editor"
	"github.com/nasteffe/make-notes/internal/logging"
	"github.com/nasteffe/make-notes/internal/pipeline"
	"github.com/nasteffe/make-notes/internal/platform"
	"github.com/nasteffe/make-notes/internal/redact"
	"github.com/nasteffe/make-notes/internal/summarize"
	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/nasteffe/make-notes/internal/version"
	"github.com/nasteffe/make-notes/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	configPath string

	model        string
	modelDir     string
	language     string
	autoDownload bool

	diarizerCmd string
	numSpeakers int
	minSpeakers int
	maxSpeakers int
	speakers    string

	backend     string
	input       string
	immediate   bool
	silenceGate bool
	silenceDBFS float64

	template    string
	baseURL     string
	llmModel    string
	apiKey      string
	allowRemote bool
	clientName  string
	sessionDate string

	redactPII   bool
	redactNames string

	editorCmd string

	transcriptOnly bool

	logger *zap.Logger
	now    func() time.Time
	out    io.Writer
	in     io.Reader

	pipe *pipeline.Pipeline

	alignFn  func(ctx context.Context, audioPath string) ([]transcript.Segment, error)
	recordFn func(ctx context.Context, opts recordOptions) (string, error)
	noteFn   func(ctx context.Context, segments []transcript.Segment) (string, error)
	editFn   func(text string) (string, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		model:        whisper.DefaultModel,
		language:     "auto",
		autoDownload: true,
		backend:      "auto",
		silenceGate:  true,
		silenceDBFS:  -65,
		now:          time.Now,
		out:          os.Stdout,
		in:           os.Stdin,
	}
	app.alignFn = app.alignAudio
	app.recordFn = app.recordAudio
	app.noteFn = app.summarizeSegments
	app.editFn = app.editText

	cmd := &cobra.Command{
		Use:           "mn <audio-file>",
		Short:         "Turn recorded speech into a speaker-attributed transcript and a structured note",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			app.applyConfig(cmd, config.Load(app.configPath, logger))
			app.language = sanitizeLanguage(app.language)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("audio file is required")
			}
			return app.runDefault(cmd.Context(), args[0])
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindModelFlags(cmd, app)
	bindDiarizationFlags(cmd, app)
	bindSpeakerNameFlag(cmd, app)
	bindSilenceFlags(cmd, app)
	bindSummarizeFlags(cmd, app)
	bindRedactFlags(cmd, app)
	cmd.Flags().BoolVar(&app.transcriptOnly, "transcript-only", false, "Print the formatted transcript and skip summarization")

	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newFmtCmd(app))
	cmd.AddCommand(newSummarizeCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRedactCmd(app))
	cmd.AddCommand(newRecordCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	cmd.Flags().StringVar(&app.configPath, "config", app.configPath, "Path to mn.toml (default: ./mn.toml, then the user config dir)")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindModelFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.model, "model", app.model, "Whisper model name or model file path")
	cmd.Flags().StringVar(&app.modelDir, "model-dir", app.modelDir, "Directory where models are stored")
	cmd.Flags().StringVar(&app.language, "language", app.language, "Language code (auto|en|de|...) for transcription")
	cmd.Flags().BoolVar(&app.autoDownload, "auto-download", app.autoDownload, "Automatically download missing models")
}

func bindDiarizationFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.diarizerCmd, "diarizer", app.diarizerCmd, "Diarization command emitting RTTM (default: mn-diarize on PATH)")
	cmd.Flags().IntVar(&app.numSpeakers, "num-speakers", app.numSpeakers, "Exact number of speakers")
	cmd.Flags().IntVar(&app.minSpeakers, "min-speakers", app.minSpeakers, "Minimum number of speakers")
	cmd.Flags().IntVar(&app.maxSpeakers, "max-speakers", app.maxSpeakers, "Maximum number of speakers")
}

func bindRecordingBackendFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.backend, "backend", app.backend, "Recording backend: auto|pw-record|arecord|ffmpeg")
	cmd.Flags().StringVar(&app.input, "input", app.input, "Input device; e.g. node-ID (pw-record), hw:1,0 (arecord), :1 (ffmpeg)")
}

func bindSilenceFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.silenceGate, "silence-gate", app.silenceGate, "Detect near-silent WAV audio and skip transcription")
	cmd.Flags().Float64Var(&app.silenceDBFS, "silence-threshold-dbfs", app.silenceDBFS, "Silence gate threshold in dBFS")
}

func bindSpeakerNameFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.speakers, "speakers", app.speakers, "Comma-separated names replacing speaker labels by first appearance, e.g. \"Therapist,Client\"")
}

func bindSummarizeFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.template, "template", app.template, "Path to the note template file")
	cmd.Flags().StringVar(&app.baseURL, "base-url", app.baseURL, "LLM API base URL (or set MN_API_BASE)")
	cmd.Flags().StringVar(&app.llmModel, "llm-model", app.llmModel, "LLM model name (or set MN_MODEL)")
	cmd.Flags().StringVar(&app.apiKey, "api-key", app.apiKey, "LLM API key (or set MN_API_KEY)")
	cmd.Flags().BoolVar(&app.allowRemote, "allow-remote", app.allowRemote, "Allow sending transcript data to a non-local LLM endpoint")
	cmd.Flags().StringVar(&app.clientName, "client-name", app.clientName, "Client name for template substitution")
	cmd.Flags().StringVar(&app.sessionDate, "session-date", app.sessionDate, "Session date for template substitution (default: today)")
}

func bindRedactFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.redactPII, "redact", app.redactPII, "Redact PII from the transcript before further processing")
	cmd.Flags().StringVar(&app.redactNames, "redact-names", app.redactNames, "Comma-separated names to redact in addition to the built-in patterns")
}

// applyConfig fills flag values from mn.toml. Flags the user set on the
// command line always win.
func (a *appState) applyConfig(cmd *cobra.Command, cfg config.Config) {
	set := func(flag string, apply func()) {
		if f := cmd.Flags().Lookup(flag); f == nil || !f.Changed {
			apply()
		}
	}

	tc := cfg.Transcribe
	if tc.Model != "" {
		set("model", func() { a.model = tc.Model })
	}
	if tc.ModelDir != "" {
		set("model-dir", func() { a.modelDir = tc.ModelDir })
	}
	if tc.Language != "" {
		set("language", func() { a.language = tc.Language })
	}
	if tc.Diarizer != "" {
		set("diarizer", func() { a.diarizerCmd = tc.Diarizer })
	}
	if tc.NumSpeakers > 0 {
		set("num-speakers", func() { a.numSpeakers = tc.NumSpeakers })
	}
	if tc.MinSpeakers > 0 {
		set("min-speakers", func() { a.minSpeakers = tc.MinSpeakers })
	}
	if tc.MaxSpeakers > 0 {
		set("max-speakers", func() { a.maxSpeakers = tc.MaxSpeakers })
	}
	if tc.Speakers != "" {
		set("speakers", func() { a.speakers = tc.Speakers })
	}

	sc := cfg.Summarize
	if sc.Template != "" {
		set("template", func() { a.template = sc.Template })
	}
	if sc.BaseURL != "" {
		set("base-url", func() { a.baseURL = sc.BaseURL })
	}
	if sc.Model != "" {
		set("llm-model", func() { a.llmModel = sc.Model })
	}
	if sc.APIKey != "" {
		set("api-key", func() { a.apiKey = sc.APIKey })
	}
	if sc.AllowRemote {
		set("allow-remote", func() { a.allowRemote = true })
	}
	if sc.ClientName != "" {
		set("client-name", func() { a.clientName = sc.ClientName })
	}
	if sc.SessionDate != "" {
		set("session-date", func() { a.sessionDate = sc.SessionDate })
	}

	if cfg.Redact.Enabled {
		set("redact", func() { a.redactPII = true })
	}
	if cfg.Redact.Names != "" {
		set("redact-names", func() { a.redactNames = cfg.Redact.Names })
	}
}

// runDefault is the composed pipeline: audio file → note (or formatted
// transcript) on stdout.
func (a *appState) runDefault(ctx context.Context, audioPath string) error {
	if !a.transcriptOnly && strings.TrimSpace(a.template) == "" {
		return errors.New("--template is required (or pass --transcript-only)")
	}

	segments, err := a.align(ctx, audioPath)
	if err != nil {
		return err
	}
	segments = a.postprocess(segments)

	if a.transcriptOnly {
		fmt.Fprintln(a.outWriter(), transcript.Format(segments, true))
		return nil
	}

	note, err := a.note(ctx, segments)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.outWriter(), note)
	return nil
}

// postprocess applies redaction and speaker relabeling in that order, so
// supplied speaker names are never themselves redacted away.
func (a *appState) postprocess(segments []transcript.Segment) []transcript.Segment {
	if a.redactPII {
		segments = redact.Segments(segments, splitNames(a.redactNames))
	}
	if names := splitNames(a.speakers); len(names) > 0 {
		segments = transcript.Relabel(segments, names)
	}
	return segments
}

func (a *appState) align(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	if a.alignFn != nil {
		return a.alignFn(ctx, audioPath)
	}
	return a.alignAudio(ctx, audioPath)
}

func (a *appState) note(ctx context.Context, segments []transcript.Segment) (string, error) {
	if a.noteFn != nil {
		return a.noteFn(ctx, segments)
	}
	return a.summarizeSegments(ctx, segments)
}

func (a *appState) summarizeSegments(ctx context.Context, segments []transcript.Segment) (string, error) {
	return summarize.Summarize(ctx, segments, a.template, summarize.TemplateData{
		ClientName:  a.clientName,
		SessionDate: a.sessionDate,
	}, summarize.Options{
		BaseURL:     a.baseURL,
		Model:       a.llmModel,
		APIKey:      a.apiKey,
		AllowRemote: a.allowRemote,
		Logger:      a.log(),
	})
}

func (a *appState) editText(text string) (string, error) {
	return editor.Edit(text, editor.Options{Editor: a.editorCmd})
}

// buildPipeline assembles the transcription engine and diarizer once; every
// later alignment reuses the same handles.
func (a *appState) buildPipeline() (*pipeline.Pipeline, error) {
	if a.pipe != nil {
		return a.pipe, nil
	}

	engine, err := whisper.NewBundledEngine(a.log())
	if err != nil {
		return nil, err
	}

	var diarizer diarize.Diarizer
	cmdDiarizer, err := diarize.NewCommandDiarizer(a.diarizerCmd, a.log())
	switch {
	case err == nil:
		diarizer = cmdDiarizer
	case errors.Is(err, diarize.ErrNoDiarizer):
		a.log().Warn("no diarizer available; transcript will have a single speaker", zap.Error(err))
	default:
		return nil, err
	}

	a.pipe = &pipeline.Pipeline{Engine: engine, Diarizer: diarizer, Logger: a.log()}
	return a.pipe, nil
}

func (a *appState) alignAudio(ctx context.Context, audioPath string) ([]transcript.Segment, error) {
	audioPath = filepath.Clean(audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	if skipped, err := a.silenceGateSkips(audioPath); err != nil {
		return nil, err
	} else if skipped {
		return nil, nil
	}

	pipe, err := a.buildPipeline()
	if err != nil {
		return nil, err
	}

	model, err := a.ensureModelAvailable(ctx)
	if err != nil {
		return nil, err
	}

	a.log().Info("transcribing...", zap.String("audio", audioPath), zap.String("model", model.Path), zap.String("language", a.language))
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	segments, err := pipe.Run(ctx, pipeline.Request{
		AudioPath:   audioPath,
		ModelPath:   model.Path,
		Language:    a.language,
		NumSpeakers: a.numSpeakers,
		MinSpeakers: a.minSpeakers,
		MaxSpeakers: a.maxSpeakers,
	})
	stopSpinner()
	if err != nil {
		a.log().Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return nil, err
	}

	a.log().Info("transcription finished", zap.Duration("elapsed", time.Since(started)), zap.Int("segments", len(segments)))
	return segments, nil
}

func (a *appState) ensureModelAvailable(ctx context.Context) (whisper.ResolvedModel, error) {
	modelDir, err := a.modelStorageDir()
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	resolved, err := whisper.ResolveModel(a.model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !a.autoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `mn setup --model %s` or use --auto-download=true", resolved.Name, resolved.Path, resolved.Name)
	}

	a.log().Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     a.noProgress,
		Logger:         a.log(),
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}

func (a *appState) modelStorageDir() (string, error) {
	dir, err := platform.ResolveModelDir(a.modelDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory %s: %w", dir, err)
	}
	return dir, nil
}

// silenceGateSkips reports whether the WAV is effectively silent, so a full
// transcription pass can be skipped. Analysis failures never block the run.
func (a *appState) silenceGateSkips(audioPath string) (bool, error) {
	if !a.silenceGate {
		return false, nil
	}

	if !strings.EqualFold(filepath.Ext(audioPath), ".wav") {
		return false, nil
	}

	silent, metrics, err := audio.IsSilentWAV(audioPath, a.silenceDBFS)
	if err != nil {
		a.log().Warn("silence gate analysis failed; continuing transcription", zap.Error(err), zap.String("audio", audioPath))
		return false, nil
	}

	if !silent {
		return false, nil
	}

	a.log().Info(
		"audio considered silent; skipping transcription",
		zap.String("audio", audioPath),
		zap.Float64("rms_dbfs", metrics.RMSdBFS),
		zap.Float64("peak_dbfs", metrics.PeakdBFS),
		zap.Float64("threshold_dbfs", a.silenceDBFS),
	)
	return true, nil
}

func (a *appState) recordingOutputPath(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		if err := os.MkdirAll(filepath.Dir(override), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return override, nil
	}

	recordingDir, err := platform.ResolveRecordingDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(recordingDir, 0o755); err != nil {
		return "", fmt.Errorf("create recording directory %s: %w", recordingDir, err)
	}

	return filepath.Join(recordingDir, fmt.Sprintf("session-%s.wav", a.now().Format("20060102-150405"))), nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *appState) inReader() io.Reader {
	if a.in == nil {
		return os.Stdin
	}
	return a.in
}

func sanitizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return "auto"
	}
	return trimmed
}

func splitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

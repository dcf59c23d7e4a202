package record

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

type pipewireBackend struct{}

func (b *pipewireBackend) Name() string { return "pw-record" }

func (b *pipewireBackend) Available() bool { return commandAvailable("pw-record") }

func (b *pipewireBackend) Record(ctx context.Context, cfg Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	args := []string{
		"--rate", strconv.Itoa(sampleRateOr16k(cfg.SampleRate)),
		"--channels", strconv.Itoa(channelsOrMono(cfg.Channels)),
		"--format", "s16",
	}
	if cfg.Input != "" {
		args = append(args, "--target", cfg.Input)
	}
	args = append(args, cfg.OutputPath)

	cmd := exec.CommandContext(ctx, "pw-record", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if cfg.Interactive {
		return runInteractive(ctx, cmd, cfg.Logger)
	}
	return runTimed(ctx, cmd, cfg.Duration, cfg.Logger)
}

type alsaBackend struct{}

func (b *alsaBackend) Name() string { return "arecord" }

func (b *alsaBackend) Available() bool { return commandAvailable("arecord") }

func (b *alsaBackend) Record(ctx context.Context, cfg Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	args := []string{
		"-f", "S16_LE",
		"-r", strconv.Itoa(sampleRateOr16k(cfg.SampleRate)),
		"-c", strconv.Itoa(channelsOrMono(cfg.Channels)),
	}
	if cfg.Duration > 0 {
		args = append(args, "-d", strconv.Itoa(int(cfg.Duration/time.Second)))
	}
	if cfg.Input != "" {
		args = append(args, "-D", cfg.Input)
	}
	args = append(args, cfg.OutputPath)

	cmd := exec.CommandContext(ctx, "arecord", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if cfg.Interactive {
		return runInteractive(ctx, cmd, cfg.Logger)
	}
	return runTimed(ctx, cmd, cfg.Duration, cfg.Logger)
}

// ffmpegBackend captures via pulse on Linux and avfoundation on macOS.
type ffmpegBackend struct {
	goos string
}

func (b *ffmpegBackend) Name() string { return "ffmpeg" }

func (b *ffmpegBackend) Available() bool { return commandAvailable("ffmpeg") }

func (b *ffmpegBackend) Record(ctx context.Context, cfg Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	format := "pulse"
	input := cfg.Input
	if b.goos == "darwin" {
		format = "avfoundation"
		if input == "" {
			input = ":0"
		}
	}
	if input == "" {
		input = "default"
	}

	args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-f", format, "-i", input}
	if cfg.Duration > 0 {
		args = append(args, "-t", strconv.Itoa(int(cfg.Duration/time.Second)))
	}
	args = append(args,
		"-ac", strconv.Itoa(channelsOrMono(cfg.Channels)),
		"-ar", strconv.Itoa(sampleRateOr16k(cfg.SampleRate)),
		"-c:a", "pcm_s16le",
		cfg.OutputPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if cfg.Interactive {
		return runInteractive(ctx, cmd, cfg.Logger)
	}
	return runTimed(ctx, cmd, cfg.Duration, cfg.Logger)
}

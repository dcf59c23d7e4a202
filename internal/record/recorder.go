// Package record captures microphone audio into a WAV file by driving
// whichever capture tool the machine has (pw-record, arecord, ffmpeg).
package record

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var ErrInteractiveRequiresTTY = errors.New("interactive recording requires terminal input")
var ErrNoBackendAvailable = errors.New("no recording backend available")

// Config describes one capture run. Transcription wants 16 kHz mono; zero
// values default to that.
type Config struct {
	OutputPath  string
	Duration    time.Duration
	Interactive bool
	SampleRate  int
	Channels    int
	Input       string
	Logger      *zap.Logger
}

type Backend interface {
	Name() string
	Available() bool
	Record(ctx context.Context, cfg Config) error
}

func DefaultBackends(goos string) []Backend {
	switch goos {
	case "linux":
		return []Backend{&pipewireBackend{}, &alsaBackend{}, &ffmpegBackend{goos: goos}}
	case "darwin":
		return []Backend{&ffmpegBackend{goos: goos}}
	default:
		return nil
	}
}

// NewBackend picks a capture backend: the preferred one by name, or the
// first available one when preferred is empty or "auto".
func NewBackend(preferred string) (Backend, error) {
	backends := DefaultBackends(runtime.GOOS)
	if len(backends) == 0 {
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return selectBackend(backends, preferred)
}

func selectBackend(backends []Backend, preferred string) (Backend, error) {
	if preferred != "" && preferred != "auto" {
		for _, backend := range backends {
			if backend.Name() == preferred {
				if !backend.Available() {
					return nil, fmt.Errorf("requested backend %q is not available", preferred)
				}
				return backend, nil
			}
		}
		return nil, fmt.Errorf("unknown backend %q", preferred)
	}

	for _, backend := range backends {
		if backend.Available() {
			return backend, nil
		}
	}

	return nil, ErrNoBackendAvailable
}

// WaitForEnter blocks until the user presses Enter. Requires a terminal on
// stdin so piped invocations fail fast instead of hanging.
func WaitForEnter(in io.Reader, out io.Writer, message string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrInteractiveRequiresTTY
	}

	if message != "" {
		if _, err := fmt.Fprintln(out, message); err != nil {
			return err
		}
	}

	_, err := bufio.NewReader(in).ReadString('\n')
	return err
}

// runInteractive starts the capture process and stops it with SIGINT when
// the user presses Enter. Exiting on our stop signal is success.
func runInteractive(ctx context.Context, cmd *exec.Cmd, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	if err := WaitForEnter(os.Stdin, os.Stderr, "Recording... press Enter to stop."); err != nil {
		_ = cmd.Process.Signal(os.Interrupt)
		_ = cmd.Wait()
		return err
	}

	stopped := cmd.Process.Signal(os.Interrupt) == nil
	err := cmd.Wait()
	if err == nil {
		return nil
	}
	if stopped || exitedOnSignal(err) {
		logger.Debug("capture process exited after stop signal", zap.Error(err))
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return err
	}
}

// runTimed lets the capture tool terminate itself (the backends pass the
// duration through), with a SIGINT backstop in case it overruns.
func runTimed(ctx context.Context, cmd *exec.Cmd, duration time.Duration, logger *zap.Logger) error {
	if duration <= 0 {
		return cmd.Run()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	backstop := time.NewTimer(duration + 5*time.Second)
	defer backstop.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = cmd.Process.Signal(os.Interrupt)
		<-done
		return ctx.Err()
	case <-backstop.C:
		stopped := cmd.Process.Signal(os.Interrupt) == nil
		err := <-done
		if err == nil || stopped || exitedOnSignal(err) {
			logger.Debug("capture process stopped after timed backstop", zap.Error(err))
			return nil
		}
		return err
	}
}

func exitedOnSignal(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled()
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func ensureOutputDir(path string) error {
	return os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755)
}

func sampleRateOr16k(value int) int {
	if value <= 0 {
		return 16000
	}
	return value
}

func channelsOrMono(value int) int {
	if value <= 0 {
		return 1
	}
	return value
}

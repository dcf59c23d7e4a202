package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mn.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[transcribe]
model = "large-v3"
num_speakers = 2
speakers = "Therapist,Client"

[summarize]
template = "templates/soap.txt"
base_url = "http://localhost:11434/v1"

[redact]
enabled = true
names = "John Doe"
`)

	cfg := Load(path, nil)
	require.Equal(t, "large-v3", cfg.Transcribe.Model)
	require.Equal(t, 2, cfg.Transcribe.NumSpeakers)
	require.Equal(t, "Therapist,Client", cfg.Transcribe.Speakers)
	require.Equal(t, "templates/soap.txt", cfg.Summarize.Template)
	require.True(t, cfg.Redact.Enabled)
	require.Equal(t, "John Doe", cfg.Redact.Names)
}

func TestLoadMissingFileIsEmptyConfig(t *testing.T) {
	t.Parallel()

	cfg := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.Equal(t, Config{}, cfg)
}

func TestLoadUnparseableFileDegradesToDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "not valid toml [[[")
	cfg := Load(path, nil)
	require.Equal(t, Config{}, cfg)
}

func TestLoadWrongValueTypeDegradesToDefaults(t *testing.T) {
	t.Parallel()

	// num_speakers = "two" fails to decode; the whole file is rejected
	// rather than half-applied.
	path := writeConfig(t, "[transcribe]\nnum_speakers = \"two\"\n")
	cfg := Load(path, nil)
	require.Equal(t, Config{}, cfg)
}

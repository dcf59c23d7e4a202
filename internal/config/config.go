// Package config loads defaults from mn.toml so flags don't need repeating
// on every invocation. Flags always win over config values.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/nasteffe/make-notes/internal/platform"
	"go.uber.org/zap"
)

// Config mirrors the mn.toml layout:
//
//	[transcribe]
//	model = "large-v3"
//	num_speakers = 2
//	speakers = "Therapist,Client"
//
//	[summarize]
//	template = "templates/soap.txt"
//	base_url = "http://localhost:11434/v1"
//
//	[redact]
//	enabled = true
//	names = "John Doe,Jane Doe"
type Config struct {
	Transcribe TranscribeConfig `toml:"transcribe"`
	Summarize  SummarizeConfig  `toml:"summarize"`
	Redact     RedactConfig     `toml:"redact"`
}

type TranscribeConfig struct {
	Model       string `toml:"model"`
	ModelDir    string `toml:"model_dir"`
	Language    string `toml:"language"`
	Diarizer    string `toml:"diarizer"`
	NumSpeakers int    `toml:"num_speakers"`
	MinSpeakers int    `toml:"min_speakers"`
	MaxSpeakers int    `toml:"max_speakers"`
	Speakers    string `toml:"speakers"`
}

type SummarizeConfig struct {
	Template    string `toml:"template"`
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	APIKey      string `toml:"api_key"`
	ClientName  string `toml:"client_name"`
	SessionDate string `toml:"session_date"`
	AllowRemote bool   `toml:"allow_remote"`
}

type RedactConfig struct {
	Enabled bool   `toml:"enabled"`
	Names   string `toml:"names"`
}

// Load reads config from an explicit path, or from the first search path
// that exists. A missing file is not an error; an unparseable one degrades
// to empty config with a warning, since a broken config file should not
// block transcription.
func Load(path string, logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path == "" {
		found, err := findConfig()
		if err != nil {
			logger.Warn("config search failed", zap.Error(err))
			return Config{}
		}
		if found == "" {
			return Config{}
		}
		path = found
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger.Warn("could not parse config; using defaults", zap.String("path", path), zap.Error(err))
		return Config{}
	}
	return cfg
}

func findConfig() (string, error) {
	paths, err := platform.ConfigSearchPaths()
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", nil
}

package summarize

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/nasteffe/make-notes/internal/transcript"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Defaults target a local ollama instance so clinical audio never leaves the
// machine unless the user explicitly opts in.
const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "llama3"
	defaultAPIKey  = "ollama"
)

// Rough chars-per-token ratio for English text, used for warnings only.
const charsPerToken = 4

// tokenWarningThreshold is where small-context local models start truncating.
const tokenWarningThreshold = 6000

var localHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"0.0.0.0":   true,
	"::1":       true,
}

// RemoteEndpointError is returned when the endpoint is non-local and the
// caller has not opted into sending data off the machine.
type RemoteEndpointError struct {
	BaseURL string
}

func (e *RemoteEndpointError) Error() string {
	return fmt.Sprintf("refusing to send clinical data to remote endpoint (%s); pass --allow-remote to confirm, or use a local LLM (e.g. ollama)", e.BaseURL)
}

// Options configure the completion call. Zero values fall back to the MN_*
// environment variables, then to the local ollama defaults.
type Options struct {
	BaseURL     string
	Model       string
	APIKey      string
	AllowRemote bool
	Logger      *zap.Logger
}

// Complete sends a prompt to the configured chat completions endpoint and
// returns the assistant's reply.
func Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	baseURL := firstNonEmpty(opts.BaseURL, os.Getenv("MN_API_BASE"), DefaultBaseURL)
	model := firstNonEmpty(opts.Model, os.Getenv("MN_MODEL"), DefaultModel)
	apiKey := firstNonEmpty(opts.APIKey, os.Getenv("MN_API_KEY"), defaultAPIKey)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !isLocalEndpoint(baseURL) {
		if !opts.AllowRemote {
			return "", &RemoteEndpointError{BaseURL: baseURL}
		}
		logger.Warn("sending transcript to remote endpoint; ensure appropriate data handling agreements are in place", zap.String("base_url", baseURL))
	}

	if estimate := len(prompt) / charsPerToken; estimate > tokenWarningThreshold {
		logger.Warn("prompt may exceed small context windows; consider a larger model or splitting the session", zap.Int("estimated_tokens", estimate))
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Summarize renders the template against the transcript and completes it.
func Summarize(ctx context.Context, segments []transcript.Segment, templatePath string, data TemplateData, opts Options) (string, error) {
	templateText, err := LoadTemplate(templatePath)
	if err != nil {
		return "", err
	}
	prompt := Render(templateText, segments, data)
	return Complete(ctx, prompt, opts)
}

func isLocalEndpoint(baseURL string) bool {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return localHosts[parsed.Hostname()]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Package summarize turns an aligned transcript into a structured note by
// filling a plain-text template and sending it to an OpenAI-compatible chat
// completions endpoint.
package summarize

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nasteffe/make-notes/internal/transcript"
)

// TemplateData carries the optional session metadata a template can use
// beyond the transcript itself.
type TemplateData struct {
	ClientName  string
	SessionDate string
}

// LoadTemplate reads a note template from disk.
func LoadTemplate(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(content), nil
}

// Render fills $-placeholders in a template with transcript data:
// $transcript, $speakers, $date, $duration, $client_name. Unknown
// placeholders are left in place so templates can carry literal $ text.
func Render(templateText string, segments []transcript.Segment, data TemplateData) string {
	clientName := data.ClientName
	if clientName == "" {
		clientName = "Client"
	}
	sessionDate := data.SessionDate
	if sessionDate == "" {
		sessionDate = time.Now().Format("2006-01-02")
	}

	values := map[string]string{
		"transcript":  transcript.Format(segments, true),
		"speakers":    strings.Join(transcript.Speakers(segments), ", "),
		"date":        sessionDate,
		"duration":    transcript.Duration(segments),
		"client_name": clientName,
	}

	return os.Expand(templateText, func(name string) string {
		if value, ok := values[name]; ok {
			return value
		}
		return "$" + name
	})
}

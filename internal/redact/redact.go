// Package redact strips personally identifiable information from transcript
// text with regex patterns. It runs as a filter between transcription and
// anything that leaves the machine.
package redact

import (
	"regexp"
	"strings"

	"github.com/nasteffe/make-notes/internal/transcript"
)

type pattern struct {
	re          *regexp.Regexp
	replacement string
}

var patterns = []pattern{
	// US phone numbers, with or without country code and separators.
	{regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), "[PHONE]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.-]+\b`), "[EMAIL]"},
	// Date shapes like 3/14/1988 or 03-14-88.
	{regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b`), "[DATE]"},
	// Street addresses: number, street name, suffix.
	{regexp.MustCompile(`(?i)\b\d{1,5}\s+[\w\s]{1,30}(?:street|st|avenue|ave|boulevard|blvd|drive|dr|lane|ln|road|rd|court|ct|place|pl|way|circle|cir)\b`), "[ADDRESS]"},
}

// Text applies the PII patterns to a string, plus any caller-supplied names.
func Text(text string, names []string) string {
	result := text
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.replacement)
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		result = re.ReplaceAllString(result, "[NAME]")
	}

	return result
}

// Segments redacts the text of every segment, returning new segments.
func Segments(segments []transcript.Segment, names []string) []transcript.Segment {
	redacted := make([]transcript.Segment, len(segments))
	for i, s := range segments {
		s.Text = Text(s.Text, names)
		redacted[i] = s
	}
	return redacted
}

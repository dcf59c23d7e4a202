package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a malformed JSONL record. Malformed lines are never
// skipped; the caller decides what to do with a broken transcript.
type ParseError struct {
	Line int // 1-based line number in the input
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse transcript line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ToJSONL serializes segments as newline-delimited JSON, one segment per
// line, without a trailing newline. Empty input yields an empty string.
func ToJSONL(segments []Segment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		// Marshaling a flat struct of strings and floats cannot fail.
		encoded, _ := json.Marshal(s)
		lines[i] = string(encoded)
	}
	return strings.Join(lines, "\n")
}

// FromJSONL parses newline-delimited JSON segments. Blank lines are ignored;
// anything else that fails to parse is a *ParseError.
func FromJSONL(text string) ([]Segment, error) {
	var segments []Segment
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, err := parseSegmentLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Err: err}
		}
		segments = append(segments, s)
	}
	return segments, nil
}

// parseSegmentLine requires exactly the four segment keys. A record with a
// missing key would otherwise decode to a zero value, and zero is a valid
// timestamp, so absence has to be an error rather than a default.
func parseSegmentLine(line string) (Segment, error) {
	var s Segment
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Segment{}, err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &present); err != nil {
		return Segment{}, err
	}
	for _, key := range []string{"speaker", "text", "start", "end"} {
		if _, ok := present[key]; !ok {
			return Segment{}, fmt.Errorf("missing key %q", key)
		}
	}

	return s, nil
}

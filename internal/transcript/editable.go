package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// headerPattern matches a block header like "[00:12 → 01:03] SPEAKER_00:".
// The label is anything up to the final colon, trimmed.
var headerPattern = regexp.MustCompile(`^\[(\d+:\d+)\s*→\s*(\d+:\d+)\]\s*(.+?)\s*:$`)

// InvalidTimestampError reports an editable-format timestamp that is not
// MM:SS shaped. Timestamps are never silently defaulted.
type InvalidTimestampError struct {
	Value string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: want MM:SS", e.Value)
}

// ToEditable renders segments in the hand-correctable block format:
//
//	[00:00 → 00:05] SPEAKER_00:
//	I've been feeling anxious this week.
//
// Blocks are separated by a blank line and the output always ends with a
// newline. Times are truncated to whole seconds, so a round trip through
// FromEditable loses sub-second precision.
func ToEditable(segments []Segment) string {
	blocks := make([]string, len(segments))
	for i, s := range segments {
		header := fmt.Sprintf("[%s → %s] %s:", Clock(s.Start), Clock(s.End), s.Speaker)
		blocks[i] = header + "\n" + s.Text
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// FromEditable parses hand-edited block text back into segments.
//
// Blocks are located by scanning for header lines, not by splitting on blank
// lines, so a body may contain blank lines (multi-paragraph corrections)
// without corrupting the parse. Text before the first header is ignored;
// editors sometimes leave stray content there and losing a whole transcript
// over it is worse than skipping it.
func FromEditable(text string) ([]Segment, error) {
	lines := strings.Split(text, "\n")

	type header struct {
		match []string
		line  int
	}
	var headers []header
	for i, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			headers = append(headers, header{match: m, line: i})
		}
	}

	var segments []Segment
	for idx, h := range headers {
		end := len(lines)
		if idx+1 < len(headers) {
			end = headers[idx+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))

		start, err := ParseClock(h.match[1])
		if err != nil {
			return nil, err
		}
		stop, err := ParseClock(h.match[2])
		if err != nil {
			return nil, err
		}

		segments = append(segments, Segment{
			Speaker: h.match[3],
			Text:    body,
			Start:   start,
			End:     stop,
		})
	}

	return segments, nil
}

// Clock formats seconds as MM:SS. There is no hours field; long sessions
// simply run the minutes past 59 so the format stays round-trippable.
func Clock(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseClock parses an MM:SS timestamp into seconds. Any other shape is an
// *InvalidTimestampError.
func ParseClock(value string) (float64, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, &InvalidTimestampError{Value: value}
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, &InvalidTimestampError{Value: value}
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 {
		return 0, &InvalidTimestampError{Value: value}
	}
	return float64(minutes*60 + seconds), nil
}

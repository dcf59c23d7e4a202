package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders segments as a readable multi-party transcript, one
// blank-line-separated paragraph per segment, optionally prefixed with
// timestamps.
func Format(segments []Segment, timestamps bool) string {
	blocks := make([]string, len(segments))
	for i, s := range segments {
		if timestamps {
			blocks[i] = fmt.Sprintf("[%s → %s] %s: %s", Clock(s.Start), Clock(s.End), s.Speaker, s.Text)
		} else {
			blocks[i] = fmt.Sprintf("%s: %s", s.Speaker, s.Text)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// Speakers returns the distinct speaker labels, sorted.
func Speakers(segments []Segment) []string {
	seen := make(map[string]bool)
	var speakers []string
	for _, s := range segments {
		if !seen[s.Speaker] {
			seen[s.Speaker] = true
			speakers = append(speakers, s.Speaker)
		}
	}
	sort.Strings(speakers)
	return speakers
}

// Duration returns the session length, earliest start to latest end, as
// M:SS text for template use.
func Duration(segments []Segment) string {
	if len(segments) == 0 {
		return "0:00"
	}

	start := segments[0].Start
	end := segments[0].End
	for _, s := range segments[1:] {
		start = min(start, s.Start)
		end = max(end, s.End)
	}

	total := int(end - start)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

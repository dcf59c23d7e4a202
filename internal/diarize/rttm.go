package diarize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nasteffe/make-notes/internal/transcript"
)

// ParseRTTM reads speaker turns from RTTM text, the interchange format
// diarization tools emit. Only SPEAKER lines matter:
//
//	SPEAKER <file> 1 <onset> <duration> <NA> <NA> <speaker> <NA> <NA>
//
// Other line types (LEXEME, NON-SPEECH, comments) and blank lines are
// skipped. A SPEAKER line with a malformed onset or duration is an error;
// silently dropping a turn would shift speaker attribution for the whole
// session.
func ParseRTTM(text string) ([]transcript.SpeakerTurn, error) {
	var turns []transcript.SpeakerTurn

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";;") {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] != "SPEAKER" {
			continue
		}
		if len(fields) < 8 {
			return nil, fmt.Errorf("rttm line %d: want at least 8 fields, got %d", i+1, len(fields))
		}

		onset, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("rttm line %d: bad onset %q: %w", i+1, fields[3], err)
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("rttm line %d: bad duration %q: %w", i+1, fields[4], err)
		}

		turns = append(turns, transcript.SpeakerTurn{
			Speaker: fields[7],
			Start:   onset,
			End:     onset + duration,
		})
	}

	return turns, nil
}

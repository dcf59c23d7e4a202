package transcript

import "strings"

// UnknownSpeaker labels words that no diarization turn claims.
const UnknownSpeaker = "Unknown"

// SingleSpeaker labels the whole transcript when diarization produced no turns.
const SingleSpeaker = "Speaker"

// AttributeSpeaker picks the turn that overlaps [start, end] the most and
// returns its speaker. Ties keep the earliest turn in input order. When no
// turn overlaps at all (gap or zero-length word), the first turn containing
// the word's midpoint wins; failing that, UnknownSpeaker.
func AttributeSpeaker(start, end float64, turns []SpeakerTurn) string {
	best := UnknownSpeaker
	bestOverlap := 0.0

	for _, turn := range turns {
		overlap := min(end, turn.End) - max(start, turn.Start)
		if overlap > bestOverlap {
			best = turn.Speaker
			bestOverlap = overlap
		}
	}

	if bestOverlap > 0 {
		return best
	}

	mid := (start + end) / 2
	for _, turn := range turns {
		if turn.Start <= mid && mid <= turn.End {
			return turn.Speaker
		}
	}

	return UnknownSpeaker
}

// Align fuses transcription words with diarization turns into
// speaker-attributed segments, in word order.
//
// With no words there is nothing to align. With no turns the whole word list
// becomes one SingleSpeaker segment rather than a per-word Unknown parade.
func Align(words []Word, turns []SpeakerTurn) []Segment {
	if len(words) == 0 {
		return nil
	}

	if len(turns) == 0 {
		var text strings.Builder
		for _, w := range words {
			text.WriteString(w.Text)
		}
		return []Segment{{
			Speaker: SingleSpeaker,
			Text:    strings.TrimSpace(text.String()),
			Start:   words[0].Start,
			End:     words[len(words)-1].End,
		}}
	}

	return mergeRuns(words, turns)
}

// mergeRuns attributes every word and coalesces consecutive same-speaker
// words into segments. Word text is concatenated verbatim (whisper words
// carry their own leading whitespace) and only trimmed when a segment closes.
func mergeRuns(words []Word, turns []SpeakerTurn) []Segment {
	var segments []Segment

	var open *Segment
	for _, w := range words {
		speaker := AttributeSpeaker(w.Start, w.End, turns)
		if open == nil || speaker != open.Speaker {
			if open != nil {
				segments = append(segments, finalize(*open))
			}
			open = &Segment{Speaker: speaker, Text: w.Text, Start: w.Start, End: w.End}
			continue
		}
		open.Text += w.Text
		open.End = w.End
	}
	if open != nil {
		segments = append(segments, finalize(*open))
	}

	return segments
}

func finalize(s Segment) Segment {
	s.Text = strings.TrimSpace(s.Text)
	return s
}

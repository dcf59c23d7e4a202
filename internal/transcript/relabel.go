package transcript

// Relabel replaces generic speaker labels (SPEAKER_00, ...) with
// human-readable names, assigned by order of first appearance. Speakers
// beyond the supplied names keep their original label. The input slice is
// left untouched.
func Relabel(segments []Segment, names []string) []Segment {
	var order []string
	seen := make(map[string]bool)
	for _, s := range segments {
		if !seen[s.Speaker] {
			seen[s.Speaker] = true
			order = append(order, s.Speaker)
		}
	}

	mapping := make(map[string]string, len(order))
	for i, speaker := range order {
		if i < len(names) {
			mapping[speaker] = names[i]
		} else {
			mapping[speaker] = speaker
		}
	}

	relabeled := make([]Segment, len(segments))
	for i, s := range segments {
		s.Speaker = mapping[s.Speaker]
		relabeled[i] = s
	}
	return relabeled
}

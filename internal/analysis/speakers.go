package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Diarization engines label speakers with an opaque prefix plus a numeric
// suffix (spk_0, spk_1, ...). The suffix orders them; anything else sorts
// after the numeric labels.
var numericSuffix = regexp.MustCompile(`^.+_(\d+)$`)

// labelOrdinal extracts the numeric suffix of a raw label.
func labelOrdinal(label string) (int, bool) {
	m := numericSuffix.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// speakerMapping assigns stable "speaker N" identifiers to raw labels:
// numeric-suffix labels first by ascending suffix, the rest after in
// lexicographic order, ordinals 1-based.
func speakerMapping(labels []string) map[string]string {
	ordered := make([]string, len(labels))
	copy(ordered, labels)
	sort.SliceStable(ordered, func(i, j int) bool {
		ni, iok := labelOrdinal(ordered[i])
		nj, jok := labelOrdinal(ordered[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		case jok:
			return false
		default:
			return ordered[i] < ordered[j]
		}
	})

	mapping := make(map[string]string, len(ordered))
	for i, label := range ordered {
		mapping[label] = fmt.Sprintf("speaker %d", i+1)
	}
	return mapping
}

// normalizeSpeakers rewrites every turn's raw label to its "speaker N"
// identifier. Labels are collected in order of first appearance; the
// returned slice is a fresh copy.
func normalizeSpeakers(turns []SpeakerTurn) []SpeakerTurn {
	seen := make(map[string]bool, len(turns))
	var labels []string
	for _, t := range turns {
		if !seen[t.Speaker] {
			seen[t.Speaker] = true
			labels = append(labels, t.Speaker)
		}
	}
	mapping := speakerMapping(labels)

	out := make([]SpeakerTurn, len(turns))
	for i, t := range turns {
		out[i] = SpeakerTurn{Speaker: mapping[t.Speaker], Text: t.Text}
	}
	return out
}

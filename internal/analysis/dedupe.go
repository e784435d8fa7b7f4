package analysis

import "strings"

// Speech engines occasionally emit the same phrase twice in a row, either
// inside one turn or as a whole turn duplicated under a second speaker
// label. Two passes handle the two shapes.
const (
	// minNgram of 2 keeps natural single-word repetition ("yes yes")
	// intact; only multi-word echoes are engine artifacts.
	minNgram = 2
	maxNgram = 10
)

// collapseRepeats removes immediate n-gram repetitions from one piece of
// text, longest match first. The scan is left to right: at each position
// the widest window whose words exactly equal the following window is
// collapsed to one copy.
func collapseRepeats(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	i := 0
	for i < len(words) {
		n := longestRepeatAt(words, i)
		if n == 0 {
			out = append(out, words[i])
			i++
			continue
		}
		out = append(out, words[i:i+n]...)
		i += 2 * n
	}
	return strings.Join(out, " ")
}

func longestRepeatAt(words []string, i int) int {
	widest := (len(words) - i) / 2
	if widest > maxNgram {
		widest = maxNgram
	}
	for n := widest; n >= minNgram; n-- {
		if equalRun(words, i, i+n, n) {
			return n
		}
	}
	return 0
}

func equalRun(words []string, a, b, n int) bool {
	for k := 0; k < n; k++ {
		if words[a+k] != words[b+k] {
			return false
		}
	}
	return true
}

// dedupeText applies the repeat collapse twice; a single pass leaves a
// repeat-of-a-repeat behind (e.g. "a b a b a b a b" collapses to
// "a b a b" on the first pass).
func dedupeText(text string) string {
	return collapseRepeats(collapseRepeats(text))
}

// dedupeTurns deduplicates each turn's text and then drops any turn whose
// case-folded text equals the immediately preceding surviving turn's,
// whoever it is attributed to. That second check catches diarization
// misattribution, where one utterance shows up under two speaker labels.
func dedupeTurns(turns []SpeakerTurn) []SpeakerTurn {
	out := make([]SpeakerTurn, 0, len(turns))
	prev := ""
	for _, t := range turns {
		text := dedupeText(t.Text)
		if text == "" {
			continue
		}
		folded := strings.ToLower(text)
		if len(out) > 0 && folded == prev {
			continue
		}
		out = append(out, SpeakerTurn{Speaker: t.Speaker, Text: text})
		prev = folded
	}
	return out
}

package analysis

import "strings"

// SpeakerTurn is a maximal contiguous run of tokens attributed to one
// speaker, with punctuation attached to the preceding word.
type SpeakerTurn struct {
	Speaker string
	Text    string
}

// fallbackLabel is the synthetic raw label used when diarization produced
// no segments and the whole transcript becomes a single turn.
const fallbackLabel = "spk_0"

// buildTurns merges the token stream and the segment timeline into ordered
// speaker turns. Both inputs are chronological; a forward-only cursor into
// the segment list keeps the merge linear. Tokens that start after the last
// segment ends have no speaker to belong to and are dropped.
func buildTurns(tokens []Token, segments []SpeakerSegment, fullTranscript string) []SpeakerTurn {
	if len(segments) == 0 {
		text := strings.TrimSpace(fullTranscript)
		if text == "" {
			return nil
		}
		return []SpeakerTurn{{Speaker: fallbackLabel, Text: text}}
	}

	var (
		turns          []SpeakerTurn
		cursor         int
		currentSpeaker string
		currentText    string
	)

	flush := func() {
		if currentText != "" {
			turns = append(turns, SpeakerTurn{Speaker: currentSpeaker, Text: currentText})
		}
	}

	for _, tok := range tokens {
		if tok.Kind == Punctuation {
			// No timestamp: attach to whatever text has accumulated,
			// discard if nothing has.
			if currentText != "" {
				currentText += tok.Content
			}
			continue
		}

		for cursor < len(segments) && segments[cursor].EndTime < tok.StartTime {
			cursor++
		}
		if cursor == len(segments) {
			break
		}

		speaker := segments[cursor].SpeakerLabel
		if speaker != currentSpeaker {
			flush()
			currentSpeaker = speaker
			currentText = ""
		}
		if currentText == "" {
			currentText = tok.Content
		} else {
			currentText += " " + tok.Content
		}
	}
	flush()
	return turns
}

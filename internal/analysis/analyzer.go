// Package analysis turns a raw recognition result — word-level tokens plus
// an independently timed diarization timeline — into a clean per-speaker
// transcript with vocabulary statistics. It is pure: no I/O, no shared
// state, safe to call concurrently on independent results.
package analysis

// SpeakerLine is one attributed line of the final transcript.
type SpeakerLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Analysis is the full output for one recognition result.
type Analysis struct {
	SpeakerCount int               `json:"speaker_count"`
	SpeakerLines []SpeakerLine     `json:"speaker_lines"`
	UniqueWords  []VocabularyEntry `json:"unique_words"`
}

// DefaultSampleLimit bounds the vocabulary sample shown per speaker.
const DefaultSampleLimit = 30

// Analyzer holds the (tiny) configuration of the transformation.
type Analyzer struct {
	sampleLimit int
}

// NewAnalyzer creates an analyzer; sampleLimit <= 0 selects the default.
func NewAnalyzer(sampleLimit int) *Analyzer {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Analyzer{sampleLimit: sampleLimit}
}

// Analyze is the single entry point: raw result in, attributed and
// deduplicated transcript plus vocabulary statistics out.
//
// Missing optional sections are fallback states, not errors: no
// diarization segments means single-speaker mode over the full transcript
// string, and no recognized content yields an empty line list. The only
// error condition is a malformed timestamp, surfaced as *TimestampError.
func (a *Analyzer) Analyze(result *RawResult) (*Analysis, error) {
	tokens, err := extractTokens(result.Results.Items)
	if err != nil {
		return nil, err
	}
	segments, err := extractSegments(result.Results.SpeakerLabels)
	if err != nil {
		return nil, err
	}

	var fullTranscript string
	if len(result.Results.Transcripts) > 0 {
		fullTranscript = result.Results.Transcripts[0].Transcript
	}

	turns := buildTurns(tokens, segments, fullTranscript)
	turns = normalizeSpeakers(turns)
	turns = dedupeTurns(turns)

	lines := make([]SpeakerLine, 0, len(turns))
	distinct := make(map[string]struct{}, len(turns))
	for _, t := range turns {
		lines = append(lines, SpeakerLine{Speaker: t.Speaker, Text: t.Text})
		distinct[t.Speaker] = struct{}{}
	}

	return &Analysis{
		SpeakerCount: len(distinct),
		SpeakerLines: lines,
		UniqueWords:  analyzeVocabulary(turns, a.sampleLimit),
	}, nil
}

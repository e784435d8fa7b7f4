package analysis

import (
	"fmt"
	"sort"
	"strconv"
)

// RawResult mirrors the result JSON the transcription engine writes to the
// transcript URI. Only the fields the analysis reads are modeled; everything
// the engine marks optional stays optional here.
type RawResult struct {
	JobName string  `json:"jobName"`
	Status  string  `json:"status"`
	Results Results `json:"results"`
}

// Results holds the recognized content of one job.
type Results struct {
	Transcripts   []TranscriptText `json:"transcripts"`
	Items         []Item           `json:"items,omitempty"`
	SpeakerLabels *SpeakerLabels   `json:"speaker_labels,omitempty"`
}

// TranscriptText is the engine's full-transcript string, used as the
// single-speaker fallback when no diarization segments are present.
type TranscriptText struct {
	Transcript string `json:"transcript"`
}

// Item is one recognized token. Pronunciation items carry timestamps;
// punctuation items carry only content.
type Item struct {
	Type         string        `json:"type"`
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
}

// Alternative is one candidate reading of an item. The engine orders
// alternatives by confidence; the analysis uses the first.
type Alternative struct {
	Confidence string `json:"confidence"`
	Content    string `json:"content"`
}

// SpeakerLabels is the diarization section of the result.
type SpeakerLabels struct {
	Speakers int            `json:"speakers"`
	Segments []LabelSegment `json:"segments"`
}

// LabelSegment attributes one time interval to one raw speaker label.
type LabelSegment struct {
	SpeakerLabel string `json:"speaker_label"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// Item type values used by the engine.
const (
	itemPronunciation = "pronunciation"
	itemPunctuation   = "punctuation"
)

// TimestampError reports a timestamp field that could not be parsed as a
// number. The engine encodes times as decimal strings; anything else is a
// malformed result, not a fallback state.
type TimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// TokenKind distinguishes timestamped words from attached punctuation.
type TokenKind int

const (
	Pronunciation TokenKind = iota
	Punctuation
)

// Token is one element of the recognized word stream, in engine order.
// StartTime is meaningful only for Pronunciation tokens.
type Token struct {
	Kind      TokenKind
	StartTime float64
	Content   string
}

// SpeakerSegment is one diarization interval with a parsed time range.
type SpeakerSegment struct {
	SpeakerLabel string
	StartTime    float64
	EndTime      float64
}

// extractTokens converts raw items to the ordered token stream. Items with
// no alternatives carry no content and are skipped; unknown item types are
// skipped as well.
func extractTokens(items []Item) ([]Token, error) {
	tokens := make([]Token, 0, len(items))
	for _, item := range items {
		if len(item.Alternatives) == 0 {
			continue
		}
		content := item.Alternatives[0].Content
		switch item.Type {
		case itemPunctuation:
			tokens = append(tokens, Token{Kind: Punctuation, Content: content})
		case itemPronunciation:
			start, err := strconv.ParseFloat(item.StartTime, 64)
			if err != nil {
				return nil, &TimestampError{Field: "items.start_time", Value: item.StartTime, Err: err}
			}
			tokens = append(tokens, Token{Kind: Pronunciation, StartTime: start, Content: content})
		}
	}
	return tokens, nil
}

// extractSegments parses the diarization timeline and sorts it by start
// time. A nil or empty speaker_labels section yields no segments, which
// triggers the single-speaker fallback downstream.
func extractSegments(labels *SpeakerLabels) ([]SpeakerSegment, error) {
	if labels == nil || len(labels.Segments) == 0 {
		return nil, nil
	}
	segments := make([]SpeakerSegment, 0, len(labels.Segments))
	for _, seg := range labels.Segments {
		start, err := strconv.ParseFloat(seg.StartTime, 64)
		if err != nil {
			return nil, &TimestampError{Field: "speaker_labels.segments.start_time", Value: seg.StartTime, Err: err}
		}
		end, err := strconv.ParseFloat(seg.EndTime, 64)
		if err != nil {
			return nil, &TimestampError{Field: "speaker_labels.segments.end_time", Value: seg.EndTime, Err: err}
		}
		segments = append(segments, SpeakerSegment{
			SpeakerLabel: seg.SpeakerLabel,
			StartTime:    start,
			EndTime:      end,
		})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})
	return segments, nil
}

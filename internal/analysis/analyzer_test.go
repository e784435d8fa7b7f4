package analysis

import (
	"encoding/json"
	"errors"
	"testing"
)

const diarizedResult = `{
  "jobName": "lumi-test",
  "status": "COMPLETED",
  "results": {
    "transcripts": [{"transcript": "Hello there. How are you. My throat hurts my throat hurts."}],
    "speaker_labels": {
      "speakers": 2,
      "segments": [
        {"speaker_label": "spk_1", "start_time": "3.0", "end_time": "6.0"},
        {"speaker_label": "spk_0", "start_time": "0.0", "end_time": "2.5"},
        {"speaker_label": "spk_0", "start_time": "6.5", "end_time": "12.0"}
      ]
    },
    "items": [
      {"type": "pronunciation", "start_time": "0.2", "end_time": "0.6", "alternatives": [{"confidence": "0.99", "content": "Hello"}]},
      {"type": "pronunciation", "start_time": "0.7", "end_time": "1.1", "alternatives": [{"confidence": "0.98", "content": "there"}]},
      {"type": "punctuation", "alternatives": [{"confidence": "0.0", "content": "."}]},
      {"type": "pronunciation", "start_time": "3.2", "end_time": "3.5", "alternatives": [{"confidence": "0.97", "content": "How"}]},
      {"type": "pronunciation", "start_time": "3.6", "end_time": "3.8", "alternatives": [{"confidence": "0.97", "content": "are"}]},
      {"type": "pronunciation", "start_time": "3.9", "end_time": "4.2", "alternatives": [{"confidence": "0.96", "content": "you"}]},
      {"type": "punctuation", "alternatives": [{"confidence": "0.0", "content": "."}]},
      {"type": "pronunciation", "start_time": "6.7", "end_time": "7.0", "alternatives": [{"confidence": "0.95", "content": "my"}]},
      {"type": "pronunciation", "start_time": "7.1", "end_time": "7.4", "alternatives": [{"confidence": "0.95", "content": "throat"}]},
      {"type": "pronunciation", "start_time": "7.5", "end_time": "7.8", "alternatives": [{"confidence": "0.95", "content": "hurts"}]},
      {"type": "pronunciation", "start_time": "8.0", "end_time": "8.3", "alternatives": [{"confidence": "0.94", "content": "my"}]},
      {"type": "pronunciation", "start_time": "8.4", "end_time": "8.7", "alternatives": [{"confidence": "0.94", "content": "throat"}]},
      {"type": "pronunciation", "start_time": "8.8", "end_time": "9.1", "alternatives": [{"confidence": "0.94", "content": "hurts"}]}
    ]
  }
}`

func TestAnalyzeDiarized(t *testing.T) {
	var result RawResult
	if err := json.Unmarshal([]byte(diarizedResult), &result); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	got, err := NewAnalyzer(0).Analyze(&result)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.SpeakerCount != 2 {
		t.Errorf("speaker_count = %d, want 2", got.SpeakerCount)
	}
	wantLines := []SpeakerLine{
		{Speaker: "speaker 1", Text: "Hello there."},
		{Speaker: "speaker 2", Text: "How are you."},
		{Speaker: "speaker 1", Text: "my throat hurts"},
	}
	if len(got.SpeakerLines) != len(wantLines) {
		t.Fatalf("speaker_lines = %+v, want %+v", got.SpeakerLines, wantLines)
	}
	for i := range wantLines {
		if got.SpeakerLines[i] != wantLines[i] {
			t.Errorf("line %d = %+v, want %+v", i, got.SpeakerLines[i], wantLines[i])
		}
	}

	if len(got.UniqueWords) != 2 {
		t.Fatalf("unique_words entries = %d, want 2", len(got.UniqueWords))
	}
	// speaker 1: hello, there, my, throat, hurts
	if got.UniqueWords[0].Speaker != "speaker 1" || got.UniqueWords[0].UniqueWordCount != 5 {
		t.Errorf("entry 0 = %+v", got.UniqueWords[0])
	}
	// speaker 2: how, are, you
	if got.UniqueWords[1].Speaker != "speaker 2" || got.UniqueWords[1].UniqueWordCount != 3 {
		t.Errorf("entry 1 = %+v", got.UniqueWords[1])
	}
}

func TestAnalyzeNoDiarization(t *testing.T) {
	result := &RawResult{}
	result.Results.Transcripts = []TranscriptText{{Transcript: "hello there"}}

	got, err := NewAnalyzer(0).Analyze(result)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.SpeakerCount != 1 {
		t.Errorf("speaker_count = %d, want 1", got.SpeakerCount)
	}
	if len(got.SpeakerLines) != 1 {
		t.Fatalf("lines = %+v", got.SpeakerLines)
	}
	if got.SpeakerLines[0].Speaker != "speaker 1" || got.SpeakerLines[0].Text != "hello there" {
		t.Errorf("line = %+v", got.SpeakerLines[0])
	}
}

func TestAnalyzeEmptyResult(t *testing.T) {
	got, err := NewAnalyzer(0).Analyze(&RawResult{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.SpeakerCount != 0 || len(got.SpeakerLines) != 0 || len(got.UniqueWords) != 0 {
		t.Errorf("expected empty analysis, got %+v", got)
	}
}

func TestAnalyzeMalformedTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RawResult)
	}{
		{
			"item start_time",
			func(r *RawResult) {
				r.Results.Items = []Item{{
					Type:         itemPronunciation,
					StartTime:    "not-a-number",
					Alternatives: []Alternative{{Content: "word"}},
				}}
			},
		},
		{
			"segment end_time",
			func(r *RawResult) {
				r.Results.SpeakerLabels = &SpeakerLabels{Segments: []LabelSegment{
					{SpeakerLabel: "spk_0", StartTime: "0.0", EndTime: "bogus"},
				}}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var result RawResult
			tc.mutate(&result)
			_, err := NewAnalyzer(0).Analyze(&result)
			var tsErr *TimestampError
			if !errors.As(err, &tsErr) {
				t.Fatalf("expected *TimestampError, got %v", err)
			}
			if tsErr.Field == "" || tsErr.Value == "" {
				t.Errorf("error missing context: %+v", tsErr)
			}
		})
	}
}

func TestExtractTokensSkipsEmptyAlternatives(t *testing.T) {
	items := []Item{
		{Type: itemPronunciation, StartTime: "0.1"},
		{Type: itemPronunciation, StartTime: "0.5", Alternatives: []Alternative{{Content: "kept"}}},
	}
	tokens, err := extractTokens(items)
	if err != nil {
		t.Fatalf("extractTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Content != "kept" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestExtractSegmentsSorts(t *testing.T) {
	labels := &SpeakerLabels{Segments: []LabelSegment{
		{SpeakerLabel: "spk_1", StartTime: "5.0", EndTime: "8.0"},
		{SpeakerLabel: "spk_0", StartTime: "0.0", EndTime: "4.0"},
	}}
	segments, err := extractSegments(labels)
	if err != nil {
		t.Fatalf("extractSegments: %v", err)
	}
	if segments[0].SpeakerLabel != "spk_0" || segments[1].SpeakerLabel != "spk_1" {
		t.Errorf("segments not sorted by start time: %+v", segments)
	}
}

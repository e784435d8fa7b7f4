package analysis

import (
	"reflect"
	"testing"
)

func TestAnalyzeVocabulary(t *testing.T) {
	t.Run("case folded distinct words", func(t *testing.T) {
		turns := []SpeakerTurn{{Speaker: "speaker 1", Text: "Cat cat dog."}}
		got := analyzeVocabulary(turns, DefaultSampleLimit)
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}
		if got[0].UniqueWordCount != 2 {
			t.Errorf("unique_word_count = %d, want 2", got[0].UniqueWordCount)
		}
		if !reflect.DeepEqual(got[0].Sample, []string{"cat", "dog"}) {
			t.Errorf("sample = %v, want [cat dog]", got[0].Sample)
		}
	})

	t.Run("apostrophes stay inside words", func(t *testing.T) {
		turns := []SpeakerTurn{{Speaker: "speaker 1", Text: "don't won't don't"}}
		got := analyzeVocabulary(turns, DefaultSampleLimit)
		if got[0].UniqueWordCount != 2 {
			t.Errorf("unique_word_count = %d, want 2", got[0].UniqueWordCount)
		}
	})

	t.Run("sample bounded but count exact", func(t *testing.T) {
		turns := []SpeakerTurn{{Speaker: "speaker 1", Text: "alpha bravo charlie delta echo"}}
		got := analyzeVocabulary(turns, 2)
		if got[0].UniqueWordCount != 5 {
			t.Errorf("unique_word_count = %d, want 5", got[0].UniqueWordCount)
		}
		if !reflect.DeepEqual(got[0].Sample, []string{"alpha", "bravo"}) {
			t.Errorf("sample = %v", got[0].Sample)
		}
	})

	t.Run("entries ordered by speaker ordinal", func(t *testing.T) {
		turns := []SpeakerTurn{
			{Speaker: "speaker 2", Text: "second"},
			{Speaker: "speaker 10", Text: "tenth"},
			{Speaker: "speaker 1", Text: "first"},
		}
		got := analyzeVocabulary(turns, DefaultSampleLimit)
		want := []string{"speaker 1", "speaker 2", "speaker 10"}
		for i, entry := range got {
			if entry.Speaker != want[i] {
				t.Errorf("entry %d speaker = %q, want %q", i, entry.Speaker, want[i])
			}
		}
	})

	t.Run("words merge across a speaker's turns", func(t *testing.T) {
		turns := []SpeakerTurn{
			{Speaker: "speaker 1", Text: "red blue"},
			{Speaker: "speaker 2", Text: "green"},
			{Speaker: "speaker 1", Text: "blue yellow"},
		}
		got := analyzeVocabulary(turns, DefaultSampleLimit)
		if got[0].UniqueWordCount != 3 {
			t.Errorf("speaker 1 count = %d, want 3", got[0].UniqueWordCount)
		}
	})
}

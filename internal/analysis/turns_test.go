package analysis

import "testing"

func word(start float64, content string) Token {
	return Token{Kind: Pronunciation, StartTime: start, Content: content}
}

func punct(content string) Token {
	return Token{Kind: Punctuation, Content: content}
}

func TestBuildTurnsFallback(t *testing.T) {
	t.Run("no segments uses full transcript", func(t *testing.T) {
		got := buildTurns([]Token{word(0.1, "ignored")}, nil, "hello there")
		if len(got) != 1 {
			t.Fatalf("expected 1 turn, got %d", len(got))
		}
		if got[0].Speaker != fallbackLabel || got[0].Text != "hello there" {
			t.Errorf("got %+v", got[0])
		}
	})

	t.Run("no segments and empty transcript", func(t *testing.T) {
		if got := buildTurns(nil, nil, "   "); len(got) != 0 {
			t.Errorf("expected no turns, got %d", len(got))
		}
	})
}

func TestBuildTurnsMerge(t *testing.T) {
	segments := []SpeakerSegment{
		{SpeakerLabel: "spk_0", StartTime: 0.0, EndTime: 2.0},
		{SpeakerLabel: "spk_1", StartTime: 2.5, EndTime: 5.0},
		{SpeakerLabel: "spk_0", StartTime: 5.5, EndTime: 8.0},
	}

	tokens := []Token{
		word(0.1, "Hello"),
		word(1.0, "there"),
		punct("."),
		word(3.0, "Hi"),
		punct(","),
		word(4.0, "back"),
		word(6.0, "Good"),
		punct("."),
	}

	got := buildTurns(tokens, segments, "unused")
	want := []SpeakerTurn{
		{Speaker: "spk_0", Text: "Hello there."},
		{Speaker: "spk_1", Text: "Hi, back"},
		{Speaker: "spk_0", Text: "Good."},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d turns, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildTurnsEdgeCases(t *testing.T) {
	segments := []SpeakerSegment{
		{SpeakerLabel: "spk_0", StartTime: 0.0, EndTime: 2.0},
	}

	t.Run("token past last segment dropped", func(t *testing.T) {
		tokens := []Token{
			word(0.5, "inside"),
			word(3.0, "outside"),
			word(4.0, "also outside"),
		}
		got := buildTurns(tokens, segments, "")
		if len(got) != 1 || got[0].Text != "inside" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("leading punctuation discarded", func(t *testing.T) {
		tokens := []Token{punct("."), word(0.5, "word")}
		got := buildTurns(tokens, segments, "")
		if len(got) != 1 || got[0].Text != "word" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("punctuation after cutoff does not resurrect text", func(t *testing.T) {
		tokens := []Token{word(0.5, "inside"), word(3.0, "outside"), punct("?")}
		got := buildTurns(tokens, segments, "")
		// The cutoff breaks the token loop entirely; only the flushed
		// accumulator survives.
		if len(got) != 1 || got[0].Text != "inside" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("no tokens", func(t *testing.T) {
		if got := buildTurns(nil, segments, "unused"); len(got) != 0 {
			t.Errorf("expected no turns, got %+v", got)
		}
	})

	t.Run("token in gap between segments assigned to next", func(t *testing.T) {
		segs := []SpeakerSegment{
			{SpeakerLabel: "spk_0", StartTime: 0.0, EndTime: 1.0},
			{SpeakerLabel: "spk_1", StartTime: 3.0, EndTime: 4.0},
		}
		got := buildTurns([]Token{word(2.0, "between")}, segs, "")
		if len(got) != 1 || got[0].Speaker != "spk_1" {
			t.Errorf("got %+v", got)
		}
	})
}

package analysis

import "testing"

func TestSpeakerMapping(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   map[string]string
	}{
		{
			"numeric suffixes ordered by suffix",
			[]string{"spk_2", "spk_0", "spk_1"},
			map[string]string{"spk_0": "speaker 1", "spk_1": "speaker 2", "spk_2": "speaker 3"},
		},
		{
			"single label",
			[]string{"spk_0"},
			map[string]string{"spk_0": "speaker 1"},
		},
		{
			"non numeric labels after numeric, lexicographic",
			[]string{"zeta", "spk_1", "alpha", "spk_0"},
			map[string]string{
				"spk_0": "speaker 1",
				"spk_1": "speaker 2",
				"alpha": "speaker 3",
				"zeta":  "speaker 4",
			},
		},
		{
			"double digit suffix sorts numerically",
			[]string{"spk_10", "spk_2"},
			map[string]string{"spk_2": "speaker 1", "spk_10": "speaker 2"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := speakerMapping(tc.labels)
			if len(got) != len(tc.want) {
				t.Fatalf("mapping size = %d, want %d", len(got), len(tc.want))
			}
			for raw, want := range tc.want {
				if got[raw] != want {
					t.Errorf("mapping[%q] = %q, want %q", raw, got[raw], want)
				}
			}
		})
	}
}

func TestNormalizeSpeakers(t *testing.T) {
	turns := []SpeakerTurn{
		{Speaker: "spk_1", Text: "second voice first"},
		{Speaker: "spk_0", Text: "first voice later"},
		{Speaker: "spk_1", Text: "second voice again"},
	}
	got := normalizeSpeakers(turns)

	want := []string{"speaker 2", "speaker 1", "speaker 2"}
	for i, turn := range got {
		if turn.Speaker != want[i] {
			t.Errorf("turn %d speaker = %q, want %q", i, turn.Speaker, want[i])
		}
		if turn.Text != turns[i].Text {
			t.Errorf("turn %d text changed: %q", i, turn.Text)
		}
	}
	// Input must not be mutated.
	if turns[0].Speaker != "spk_1" {
		t.Error("normalizeSpeakers mutated its input")
	}
}

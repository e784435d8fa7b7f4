package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// VocabularyEntry is the per-speaker distinct-word summary.
type VocabularyEntry struct {
	Speaker         string   `json:"speaker"`
	UniqueWordCount int      `json:"unique_word_count"`
	Sample          []string `json:"unique_words_sample"`
}

// Words are maximal runs of letters and apostrophes, so "don't" stays one
// word and punctuation never leaks into the counts.
var wordRun = regexp.MustCompile(`[\p{L}']+`)

// analyzeVocabulary collects each speaker's case-folded distinct words
// from the final turn texts. Entries are ordered by speaker ordinal; the
// sample is the first sampleLimit words in lexicographic order and bounds
// display size only, never the count.
func analyzeVocabulary(turns []SpeakerTurn, sampleLimit int) []VocabularyEntry {
	words := make(map[string]map[string]struct{})
	var speakers []string
	for _, t := range turns {
		set, ok := words[t.Speaker]
		if !ok {
			set = make(map[string]struct{})
			words[t.Speaker] = set
			speakers = append(speakers, t.Speaker)
		}
		for _, w := range wordRun.FindAllString(strings.ToLower(t.Text), -1) {
			set[w] = struct{}{}
		}
	}
	sort.SliceStable(speakers, func(i, j int) bool {
		return speakerOrdinal(speakers[i]) < speakerOrdinal(speakers[j])
	})

	entries := make([]VocabularyEntry, 0, len(speakers))
	for _, speaker := range speakers {
		set := words[speaker]
		sorted := make([]string, 0, len(set))
		for w := range set {
			sorted = append(sorted, w)
		}
		sort.Strings(sorted)

		sample := sorted
		if len(sample) > sampleLimit {
			sample = sample[:sampleLimit]
		}
		entries = append(entries, VocabularyEntry{
			Speaker:         speaker,
			UniqueWordCount: len(set),
			Sample:          sample,
		})
	}
	return entries
}

// speakerOrdinal parses the N out of "speaker N" for ordering. Anything
// else sorts last.
func speakerOrdinal(speaker string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(speaker, "speaker "))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

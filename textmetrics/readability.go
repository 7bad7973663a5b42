package textmetrics

import (
	"errors"
	"math"
	"strings"
)

// ErrTooShort is returned when a metric has too little text to work with.
var ErrTooShort = errors.New("textmetrics: text too short to analyze")

// Readability holds standard English readability indices plus a coarse
// Korean-labeled difficulty band derived from the Flesch score.
type Readability struct {
	FleschReadingEase  float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
	SMOGIndex          float64 `json:"smog_index"`
	ColemanLiau        float64 `json:"coleman_liau"`
	ARI                float64 `json:"ari"`
	AverageGradeLevel  float64 `json:"average_grade_level"`
	Difficulty         string  `json:"difficulty"`
}

// AnalyzeReadability computes the readability indices over text. The
// formulas target English prose; Korean passages contribute sentence counts
// but no syllable signal.
func AnalyzeReadability(text string) (*Readability, error) {
	sentences := SplitSentences(text)
	words := tokenize(text)
	if len(sentences) == 0 || len(words) == 0 {
		return nil, ErrTooShort
	}

	var syllables, polysyllables, letters int
	for _, w := range words {
		s := countSyllables(w)
		syllables += s
		if s >= 3 {
			polysyllables++
		}
		letters += len(w)
	}

	nSent := float64(len(sentences))
	nWords := float64(len(words))
	wordsPerSentence := nWords / nSent
	syllablesPerWord := float64(syllables) / nWords

	flesch := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	fkGrade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	smog := 1.0430*math.Sqrt(float64(polysyllables)*30.0/nSent) + 3.1291
	l := float64(letters) / nWords * 100
	s := nSent / nWords * 100
	colemanLiau := 0.0588*l - 0.296*s - 15.8
	ari := 4.71*float64(letters)/nWords + 0.5*wordsPerSentence - 21.43

	difficulty := "어려움"
	switch {
	case flesch >= 60:
		difficulty = "쉬움"
	case flesch >= 30:
		difficulty = "보통"
	}

	return &Readability{
		FleschReadingEase:  round2(flesch),
		FleschKincaidGrade: round2(fkGrade),
		SMOGIndex:          round2(smog),
		ColemanLiau:        round2(colemanLiau),
		ARI:                round2(ari),
		AverageGradeLevel:  round2((fkGrade + smog + colemanLiau + ari) / 4),
		Difficulty:         difficulty,
	}, nil
}

// countSyllables estimates English syllables by counting vowel groups,
// discounting a silent trailing e. Always at least 1 for non-empty words.
func countSyllables(word string) int {
	if word == "" {
		return 0
	}
	count := 0
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

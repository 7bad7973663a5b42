package textmetrics

import "math"

// longWordLen marks a word as "long" for the long-word ratio.
const longWordLen = 7

// Complexity summarizes sentence-level structural statistics.
type Complexity struct {
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	MaxSentenceLength int     `json:"max_sentence_length"`
	MinSentenceLength int     `json:"min_sentence_length"`
	SentenceLengthStd float64 `json:"sentence_length_std"`
	AvgWordLength     float64 `json:"avg_word_length"`
	// VocabularyDiversity is the type-token ratio as a percentage.
	VocabularyDiversity float64 `json:"vocabulary_diversity"`
	LongWordRatio       float64 `json:"long_word_ratio"`
	TotalSentences      int     `json:"total_sentences"`
	TotalWords          int     `json:"total_words"`
	UniqueWords         int     `json:"unique_words"`
}

// AnalyzeComplexity computes sentence-length and vocabulary statistics.
func AnalyzeComplexity(text string) (*Complexity, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, ErrTooShort
	}

	lengths := make([]int, len(sentences))
	maxLen, minLen := 0, math.MaxInt
	for i, s := range sentences {
		n := len(tokenize(s))
		lengths[i] = n
		if n > maxLen {
			maxLen = n
		}
		if n < minLen {
			minLen = n
		}
	}

	words := tokenize(text)
	if len(words) == 0 {
		return nil, ErrTooShort
	}
	unique := map[string]bool{}
	var letterTotal, longWords int
	for _, w := range words {
		unique[w] = true
		letterTotal += len(w)
		if len(w) >= longWordLen {
			longWords++
		}
	}

	return &Complexity{
		AvgSentenceLength:   round2(mean(lengths)),
		MaxSentenceLength:   maxLen,
		MinSentenceLength:   minLen,
		SentenceLengthStd:   round2(stddev(lengths)),
		AvgWordLength:       round2(float64(letterTotal) / float64(len(words))),
		VocabularyDiversity: round2(float64(len(unique)) / float64(len(words)) * 100),
		LongWordRatio:       round2(float64(longWords) / float64(len(words)) * 100),
		TotalSentences:      len(sentences),
		TotalWords:          len(words),
		UniqueWords:         len(unique),
	}, nil
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func stddev(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var acc float64
	for _, x := range xs {
		d := float64(x) - m
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(xs)))
}

package textmetrics

import (
	"math"
	"sort"
)

const (
	// collocationMinFreq drops bigrams seen fewer times.
	collocationMinFreq = 3
	// collocationMinWords is the smallest token stream worth mining.
	collocationMinWords = 20
)

// Collocation is a recurring adjacent word pair ranked by pointwise mutual
// information.
type Collocation struct {
	Pair string  `json:"pair"`
	Freq int     `json:"freq"`
	PMI  float64 `json:"pmi"`
}

// ExtractCollocations finds statistically associated adjacent word pairs.
// Pairs below the frequency floor are discarded before PMI ranking so rare
// coincidences cannot dominate.
func ExtractCollocations(text string, topN int) []Collocation {
	words := contentWords(text, 3)
	if len(words) < collocationMinWords {
		return nil
	}

	unigram := map[string]int{}
	bigram := map[[2]string]int{}
	for i, w := range words {
		unigram[w]++
		if i > 0 {
			bigram[[2]string{words[i-1], w}]++
		}
	}

	n := float64(len(words))
	var out []Collocation
	for pair, freq := range bigram {
		if freq < collocationMinFreq {
			continue
		}
		pXY := float64(freq) / n
		pX := float64(unigram[pair[0]]) / n
		pY := float64(unigram[pair[1]]) / n
		out = append(out, Collocation{
			Pair: pair[0] + " " + pair[1],
			Freq: freq,
			PMI:  round2(math.Log2(pXY / (pX * pY))),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PMI != out[j].PMI {
			return out[i].PMI > out[j].PMI
		}
		return out[i].Pair < out[j].Pair
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

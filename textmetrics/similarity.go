package textmetrics

import "math"

// Similarity computes TF-IDF cosine similarity between two texts and
// returns a percentage. Unigrams and adjacent bigrams both contribute; with
// a two-document corpus, shared terms get a flat IDF and terms unique to one
// document still separate the vectors.
func Similarity(text1, text2 string) float64 {
	t1 := ngrams(contentWords(text1, 3))
	t2 := ngrams(contentWords(text2, 3))
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	c1, c2 := counts(t1), counts(t2)
	idf := func(term string) float64 {
		df := 0
		if c1[term] > 0 {
			df++
		}
		if c2[term] > 0 {
			df++
		}
		return math.Log(2.0/float64(df)) + 1
	}

	var dot, norm1, norm2 float64
	seen := map[string]bool{}
	for _, counted := range []map[string]int{c1, c2} {
		for term := range counted {
			if seen[term] {
				continue
			}
			seen[term] = true
			w := idf(term)
			v1 := float64(c1[term]) / float64(len(t1)) * w
			v2 := float64(c2[term]) / float64(len(t2)) * w
			dot += v1 * v2
			norm1 += v1 * v1
			norm2 += v2 * v2
		}
	}
	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	return round2(dot / (math.Sqrt(norm1) * math.Sqrt(norm2)) * 100)
}

func counts(terms []string) map[string]int {
	c := make(map[string]int, len(terms))
	for _, t := range terms {
		c[t]++
	}
	return c
}

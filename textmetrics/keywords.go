package textmetrics

import (
	"math"
	"sort"
	"strings"
)

const (
	// keywordMinWords is the smallest corpus keyword extraction accepts.
	keywordMinWords = 20
	// keywordMinDF drops terms appearing in fewer sentences.
	keywordMinDF = 2
	// academicTermLimit caps the reported academic-term list.
	academicTermLimit = 15
)

// academicTerms is the qualitative-methodology vocabulary scanned for in
// every paper.
var academicTerms = []string{
	"qualitative", "quantitative", "methodology", "phenomenology",
	"grounded theory", "case study", "ethnography", "narrative",
	"interview", "observation", "participant", "coding", "theme",
	"category", "analysis", "interpretation", "trustworthiness",
	"credibility", "transferability", "dependability", "confirmability",
	"triangulation", "saturation", "reflexivity", "rigor", "validity",
	"reliability", "framework", "theoretical", "empirical", "context",
}

// methodTerms are the research-method names whose presence is checked when
// comparing papers.
var methodTerms = []string{
	"qualitative", "quantitative", "mixed method", "case study",
	"grounded theory", "phenomenology", "ethnography", "interview",
	"survey", "observation", "coding", "theme",
}

// MethodologyTerms reports which research-method terms appear anywhere in
// text, in list order.
func MethodologyTerms(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, t := range methodTerms {
		if strings.Contains(lower, t) {
			found = append(found, t)
		}
	}
	return found
}

// ScoredTerm is a term with either a TF-IDF weight or a raw count.
type ScoredTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Keywords holds the three keyword views of one paper.
type Keywords struct {
	TFIDF     []ScoredTerm `json:"tfidf"`
	Frequency []ScoredTerm `json:"frequency"`
	Academic  []ScoredTerm `json:"academic"`
}

// ExtractKeywords combines TF-IDF ranking, stem-grouped frequency counting
// and academic-term detection. Sentences act as the TF-IDF document unit so
// document-frequency filtering has something to filter on.
func ExtractKeywords(text string, topN int) *Keywords {
	kw := &Keywords{}
	words := contentWords(text, 3)
	if len(words) < keywordMinWords {
		return kw
	}

	kw.TFIDF = tfidfTerms(SplitSentences(text), topN)
	kw.Frequency = frequencyTerms(text, topN)
	kw.Academic = academicTermCounts(text)
	return kw
}

// tfidfTerms ranks unigrams and bigrams by summed TF-IDF across sentences.
func tfidfTerms(sentences []string, topN int) []ScoredTerm {
	if len(sentences) < keywordMinDF {
		return nil
	}

	df := map[string]int{}
	termTF := map[string]float64{}
	for _, sent := range sentences {
		terms := ngrams(contentWords(sent, 3))
		seen := map[string]bool{}
		counts := map[string]int{}
		total := 0
		for _, t := range terms {
			counts[t]++
			total++
			seen[t] = true
		}
		for t := range seen {
			df[t]++
		}
		for t, c := range counts {
			termTF[t] += float64(c) / float64(total)
		}
	}

	nDocs := float64(len(sentences))
	var ranked []ScoredTerm
	for t, tf := range termTF {
		if df[t] < keywordMinDF {
			continue
		}
		idf := math.Log(nDocs/float64(df[t])) + 1
		ranked = append(ranked, ScoredTerm{Term: t, Score: round4(tf * idf)})
	}
	sortTerms(ranked)
	return truncTerms(ranked, topN)
}

// frequencyTerms counts words longer than 4 letters, grouping inflected
// variants by stem and reporting the most common surface form.
func frequencyTerms(text string, topN int) []ScoredTerm {
	type group struct {
		count int
		forms map[string]int
	}
	groups := map[string]*group{}
	for _, w := range contentWords(text, 4) {
		s := stem(w)
		g := groups[s]
		if g == nil {
			g = &group{forms: map[string]int{}}
			groups[s] = g
		}
		g.count++
		g.forms[w]++
	}

	var ranked []ScoredTerm
	for _, g := range groups {
		best, bestN := "", 0
		for form, n := range g.forms {
			if n > bestN || (n == bestN && form < best) {
				best, bestN = form, n
			}
		}
		ranked = append(ranked, ScoredTerm{Term: best, Score: float64(g.count)})
	}
	sortTerms(ranked)
	return truncTerms(ranked, topN)
}

func academicTermCounts(text string) []ScoredTerm {
	lower := strings.ToLower(text)
	var found []ScoredTerm
	for _, term := range academicTerms {
		if n := strings.Count(lower, term); n > 0 {
			found = append(found, ScoredTerm{Term: term, Score: float64(n)})
		}
	}
	sortTerms(found)
	return truncTerms(found, academicTermLimit)
}

// ngrams returns the unigrams plus adjacent bigrams of words.
func ngrams(words []string) []string {
	out := make([]string, 0, len(words)*2)
	out = append(out, words...)
	for i := 0; i < len(words)-1; i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

func sortTerms(ts []ScoredTerm) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Score != ts[j].Score {
			return ts[i].Score > ts[j].Score
		}
		return ts[i].Term < ts[j].Term
	})
}

func truncTerms(ts []ScoredTerm, n int) []ScoredTerm {
	if n > 0 && len(ts) > n {
		return ts[:n]
	}
	return ts
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

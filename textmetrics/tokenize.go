// Package textmetrics computes language-statistics over extracted paper
// text: readability indices, sentence complexity, keyword and collocation
// extraction, discourse-marker counts and document similarity. Everything
// here is pure computation on strings; no I/O and no LLM calls.
package textmetrics

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// minSentenceChars filters out fragments left over from PDF extraction.
const minSentenceChars = 30

// stopWords is the filter applied before frequency, collocation and
// co-occurrence counting.
var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		"the a an and or but in on at to for of with by from as is was are were been " +
			"be have has had do does did will would could should may might must can " +
			"this that these those i you he she it we they what which who when where " +
			"why how all each every both few more most other some such no nor not only " +
			"own same so than too very also into through during before after above " +
			"below up down out off over under again further then once here there " +
			"however therefore thus furthermore moreover nevertheless although though " +
			"whereas while since because unless whether either neither rather between " +
			"among within") {
		stopWords[w] = true
	}
}

// SplitSentences splits text on sentence-final punctuation followed by
// whitespace and an uppercase Latin or Hangul start. Fragments shorter than
// 30 characters are dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// Find the first non-space rune after the terminator.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j == len(runes) {
			continue
		}
		if !sentenceStart(runes[j]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); len(s) > minSentenceChars {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); len(s) > minSentenceChars {
		sentences = append(sentences, s)
	}
	return sentences
}

func sentenceStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 0xAC00 && r <= 0xD7A3)
}

// tokenize lowercases and splits text into alphabetic word tokens.
func tokenize(text string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// contentWords keeps tokens longer than minLen that are not stopwords.
func contentWords(text string, minLen int) []string {
	var out []string
	for _, w := range tokenize(text) {
		if len(w) > minLen && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// stem reduces an English word to its stem, falling back to the word itself
// when stemming fails.
func stem(word string) string {
	s, err := snowball.Stem(word, "english", false)
	if err != nil || s == "" {
		return word
	}
	return s
}

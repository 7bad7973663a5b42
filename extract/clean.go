package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hyphenBreak matches a word split across a line break with a hyphen, e.g.
// "method-\nology". Applied before whitespace collapsing, while the line
// structure still exists.
var hyphenBreak = regexp.MustCompile(`(\w+)-\s*\n\s*(\w+)`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean normalizes extracted text for prompting and statistics: Unicode NFKC
// normalization, de-hyphenation across line breaks, then collapsing all
// whitespace runs to single spaces.
func Clean(text string) string {
	text = norm.NFKC.String(text)
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TruncateWords returns at most n whitespace-separated words of s. Prompts
// use this to bound request size instead of token counting.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

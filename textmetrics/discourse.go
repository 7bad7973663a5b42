package textmetrics

import (
	"regexp"
	"strings"
)

// discourseCategories maps Korean category names to the English markers
// counted for each.
var discourseCategories = map[string][]string{
	"인과관계": {"because", "therefore", "thus", "hence", "consequently", "as a result", "due to", "since"},
	"대조":   {"however", "but", "although", "despite", "nevertheless", "on the other hand", "whereas", "while", "yet"},
	"추가":   {"furthermore", "moreover", "additionally", "also", "in addition", "besides", "likewise"},
	"예시":   {"for example", "for instance", "such as", "including", "namely", "specifically"},
	"결론":   {"in conclusion", "to conclude", "in summary", "to sum up", "overall", "finally"},
	"강조":   {"indeed", "in fact", "actually", "certainly", "clearly", "obviously"},
}

// CountDiscourseMarkers tallies discourse markers per rhetorical category.
// Substring counting matches the markers inside larger words too; the counts
// are indicative, not token-exact.
func CountDiscourseMarkers(text string) map[string]int {
	lower := strings.ToLower(text)
	out := make(map[string]int, len(discourseCategories))
	for category, markers := range discourseCategories {
		n := 0
		for _, m := range markers {
			n += strings.Count(lower, m)
		}
		out[category] = n
	}
	return out
}

// citationPatterns covers the common in-text citation styles.
var citationPatterns = map[string]*regexp.Regexp{
	"author_year":      regexp.MustCompile(`\([A-Z][a-z]+(?:\s+et al\.)?,?\s+\d{4}\)`),
	"author_year_page": regexp.MustCompile(`\([A-Z][a-z]+(?:\s+et al\.)?,?\s+\d{4},?\s+p+\.\s*\d+\)`),
	"numbered":         regexp.MustCompile(`\[\d+\]`),
	"multiple_authors": regexp.MustCompile(`et al\.`),
}

// CountCitations counts citation-pattern matches per style.
func CountCitations(text string) map[string]int {
	out := make(map[string]int, len(citationPatterns))
	for name, p := range citationPatterns {
		out[name] = len(p.FindAllStringIndex(text, -1))
	}
	return out
}

package analyze

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// ErrNoReferences is returned when no usable bibliography excerpt could be
// located, even after the trailing-fraction fallback.
var ErrNoReferences = errors.New("analyze: references section not found")

const (
	// refMinChars is the smallest excerpt worth analyzing.
	refMinChars = 200
	// refMaxChars caps the excerpt sent upstream.
	refMaxChars = 8000
	// refTailStart is where the fallback excerpt begins: when no heading
	// matches, use the last 20% of the document, on the assumption that
	// bibliographies live at the end.
	refTailStart = 0.8
	// refTailMinChars is the minimum tail size for the fallback to apply.
	refTailMinChars = 500
)

// refHeadingPatterns are tried in order against the raw (newline-preserving)
// text. Earlier patterns stop at the next blank-line-separated heading;
// later ones grab everything after the heading.
var refHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)References\s*\n(.*?)(?:\n\n[A-Z][a-z]+.*)?\z`),
	regexp.MustCompile(`(?is)Bibliography\s*\n(.*?)(?:\n\n[A-Z][a-z]+.*)?\z`),
	regexp.MustCompile(`(?s)참고문헌\s*\n(.*?)(?:\n\n.*)?\z`),
	regexp.MustCompile(`(?is)References\s+(.*)`),
}

// FindReferences locates the bibliography excerpt of a document. It is a
// best-effort boundary detector, not a parser invariant: heading detection
// first, then the trailing 20% of the document as the explicit fallback.
func FindReferences(rawText string) (string, error) {
	var section string
	for _, p := range refHeadingPatterns {
		if m := p.FindStringSubmatch(rawText); m != nil {
			section = m[1]
			break
		}
	}
	section = capRunes(section, refMaxChars)

	if len(section) < refMinChars {
		tail := rawText[runeBoundary(rawText, int(float64(len(rawText))*refTailStart)):]
		if len(tail) > refTailMinChars {
			section = capRunes(tail, refMaxChars)
		}
	}

	if len(section) < refMinChars {
		return "", ErrNoReferences
	}
	return section, nil
}

// runeBoundary moves i forward to the next UTF-8 rune start in s.
func runeBoundary(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// capRunes truncates s to at most n bytes without splitting a rune.
func capRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

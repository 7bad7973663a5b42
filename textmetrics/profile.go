package textmetrics

const (
	defaultTopTerms   = 20
	defaultTopNetwork = 30
	defaultTopColloc  = 20
)

// Profile bundles every local metric computed for one paper. Readability and
// Complexity are nil when the text is too short for them.
type Profile struct {
	Readability  *Readability   `json:"readability,omitempty"`
	Complexity   *Complexity    `json:"complexity,omitempty"`
	Keywords     *Keywords      `json:"keywords,omitempty"`
	Collocations []Collocation  `json:"collocations,omitempty"`
	Network      *Network       `json:"network,omitempty"`
	Discourse    map[string]int `json:"discourse,omitempty"`
	Citations    map[string]int `json:"citations,omitempty"`
}

// Analyze computes the full metric profile of text. It never fails: metrics
// that cannot be computed are simply absent.
func Analyze(text string) *Profile {
	p := &Profile{
		Keywords:     ExtractKeywords(text, defaultTopTerms),
		Collocations: ExtractCollocations(text, defaultTopColloc),
		Network:      BuildCooccurrence(text, defaultTopNetwork),
		Discourse:    CountDiscourseMarkers(text),
		Citations:    CountCitations(text),
	}
	if r, err := AnalyzeReadability(text); err == nil {
		p.Readability = r
	}
	if c, err := AnalyzeComplexity(text); err == nil {
		p.Complexity = c
	}
	return p
}

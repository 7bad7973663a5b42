// Package analyze builds the prompts sent to the LLM provider, runs them, and
// parses the tagged responses into section maps.
package analyze

// Kind identifies one analysis prompt type.
type Kind string

const (
	// KindComprehensive is the overall paper analysis: summary, purpose,
	// method, findings, contribution, limitations.
	KindComprehensive Kind = "comprehensive"
	// KindStructure summarizes the paper along its IMRaD structure.
	KindStructure Kind = "structure"
	// KindKeywords extracts research questions, hypotheses, themes,
	// concepts, keywords, and academic terms.
	KindKeywords Kind = "keywords"
	// KindReferences analyzes the bibliography section.
	KindReferences Kind = "references"
	// KindCompare is the multi-paper comparison (JSON-mode, not tagged).
	KindCompare Kind = "compare"
)

// Schema is the enumerated, versioned list of section labels a prompt type
// asks the model to emit. Presence of any label in a response is optional;
// consumers must presence-check every lookup. Primary doubles as the fallback
// key when the model ignores the tagging convention entirely.
type Schema struct {
	Version int
	Labels  []string
	Primary string
}

// Contains reports whether label is part of the schema.
func (s Schema) Contains(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

var schemas = map[Kind]Schema{
	KindComprehensive: {
		Version: 1,
		Labels:  []string{"핵심요약", "연구목적", "연구방법", "주요발견", "이론적기여", "한계점"},
		Primary: "핵심요약",
	},
	KindStructure: {
		Version: 1,
		Labels:  []string{"서론_배경", "이론적_프레임워크", "연구방법", "자료분석", "연구결과", "논의_함의"},
		Primary: "서론_배경",
	},
	KindKeywords: {
		Version: 1,
		Labels:  []string{"연구질문", "연구가설", "주요주제", "핵심개념", "중요키워드", "학술용어"},
		Primary: "주요주제",
	},
	KindReferences: {
		Version: 1,
		Labels:  []string{"통계요약", "핵심문헌", "주요저널", "영향력있는연구자", "출판물유형", "시사점"},
		Primary: "통계요약",
	},
}

// SchemaFor returns the label schema for a prompt kind. The compare kind has
// no tagged schema and returns the zero Schema.
func SchemaFor(k Kind) Schema {
	return schemas[k]
}

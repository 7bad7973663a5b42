package textmetrics

import (
	"strings"
	"testing"
)

const sample = `Qualitative research methodology offers researchers a powerful lens for understanding lived experience. ` +
	`The participants described their qualitative research experience during extended interview sessions with the research team. ` +
	`Thematic analysis of the interview transcripts revealed three major themes across the qualitative research data. ` +
	`However, the qualitative research design limited transferability of the findings beyond the immediate context. ` +
	`Triangulation between interview data and observation notes strengthened the credibility of the analysis considerably. ` +
	`Furthermore, the researchers maintained reflexivity throughout the coding process to protect interpretive rigor.`

func TestSplitSentences(t *testing.T) {
	got := SplitSentences(sample)
	if len(got) != 6 {
		t.Fatalf("sentences = %d, want 6: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "The participants") {
		t.Errorf("second sentence = %q", got[1])
	}
}

func TestSplitSentencesKorean(t *testing.T) {
	text := "본 연구는 질적 사례연구 방법을 통해 교사의 경험을 탐색하였다. 연구 참여자는 초등학교 교사 다섯 명으로 구성되었다."
	got := SplitSentences(text)
	if len(got) != 2 {
		t.Fatalf("sentences = %d, want 2: %q", len(got), got)
	}
}

func TestSplitSentencesKeepsAbbreviationsTogether(t *testing.T) {
	// Lowercase after the period means no sentence boundary.
	text := "The dataset covered approx. thirty qualitative interviews in total across sites."
	if got := SplitSentences(text); len(got) != 1 {
		t.Errorf("sentences = %d, want 1: %q", len(got), got)
	}
}

func TestDropsShortFragments(t *testing.T) {
	text := "Ok fine. This second sentence easily clears the minimum fragment length filter."
	got := SplitSentences(text)
	if len(got) != 1 || !strings.HasPrefix(got[0], "This second") {
		t.Errorf("got %q", got)
	}
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"cat":         1,
		"table":       2,
		"analysis":    4,
		"reading":     2,
		"methodology": 5,
		"the":         1,
	}
	for word, want := range cases {
		if got := countSyllables(word); got != want {
			t.Errorf("countSyllables(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestAnalyzeReadability(t *testing.T) {
	r, err := AnalyzeReadability(sample)
	if err != nil {
		t.Fatal(err)
	}
	if r.FleschReadingEase > 60 {
		t.Errorf("academic prose scored %v, expected below the easy band", r.FleschReadingEase)
	}
	if r.Difficulty != "보통" && r.Difficulty != "어려움" {
		t.Errorf("difficulty = %q", r.Difficulty)
	}
	if r.AverageGradeLevel <= 0 {
		t.Errorf("average grade level = %v", r.AverageGradeLevel)
	}
}

func TestAnalyzeReadabilityTooShort(t *testing.T) {
	if _, err := AnalyzeReadability(""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	c, err := AnalyzeComplexity(sample)
	if err != nil {
		t.Fatal(err)
	}
	if c.TotalSentences != 6 {
		t.Errorf("sentences = %d", c.TotalSentences)
	}
	if c.MinSentenceLength > c.MaxSentenceLength {
		t.Errorf("min %d > max %d", c.MinSentenceLength, c.MaxSentenceLength)
	}
	if c.VocabularyDiversity <= 0 || c.VocabularyDiversity > 100 {
		t.Errorf("ttr = %v", c.VocabularyDiversity)
	}
	if c.LongWordRatio <= 0 {
		t.Error("sample has long words, ratio should be positive")
	}
}

func TestExtractKeywords(t *testing.T) {
	kw := ExtractKeywords(sample, 10)
	if len(kw.Frequency) == 0 {
		t.Fatal("no frequency keywords")
	}
	top := kw.Frequency[0]
	if top.Term != "research" && top.Term != "qualitative" {
		t.Errorf("top frequency term = %q", top.Term)
	}
	foundAcademic := false
	for _, st := range kw.Academic {
		if st.Term == "qualitative" {
			foundAcademic = true
		}
		if st.Score <= 0 {
			t.Errorf("academic term %q has score %v", st.Term, st.Score)
		}
	}
	if !foundAcademic {
		t.Error("academic scan missed 'qualitative'")
	}
}

func TestFrequencyGroupsInflections(t *testing.T) {
	text := strings.Repeat("The researchers interviewed participants. The researcher interviews participants again. ", 5)
	kw := ExtractKeywords(text+sample, 30)
	seen := map[string]bool{}
	for _, st := range kw.Frequency {
		seen[st.Term] = true
	}
	if seen["researcher"] && seen["researchers"] {
		t.Error("stem grouping kept both singular and plural forms")
	}
}

func TestExtractKeywordsTooShort(t *testing.T) {
	kw := ExtractKeywords("tiny text", 10)
	if len(kw.TFIDF)+len(kw.Frequency)+len(kw.Academic) != 0 {
		t.Error("short input should yield no keywords")
	}
}

func TestExtractCollocations(t *testing.T) {
	text := strings.Repeat("The grounded theory approach shaped the qualitative design of this grounded theory study. ", 4)
	cols := ExtractCollocations(text, 10)
	found := false
	for _, c := range cols {
		if c.Pair == "grounded theory" {
			found = true
			if c.Freq < collocationMinFreq {
				t.Errorf("freq = %d", c.Freq)
			}
		}
	}
	if !found {
		t.Errorf("'grounded theory' not found in %v", cols)
	}
}

func TestBuildCooccurrence(t *testing.T) {
	net := BuildCooccurrence(sample, 30)
	if len(net.Nodes) == 0 {
		t.Fatal("no nodes")
	}
	nodes := map[string]bool{}
	for _, n := range net.Nodes {
		nodes[n] = true
	}
	for _, e := range net.Edges {
		if !nodes[e.Source] || !nodes[e.Target] {
			t.Errorf("edge %v references a node outside the kept set", e)
		}
		if e.Weight < cooccurMinWeight {
			t.Errorf("edge %v below weight floor", e)
		}
		if e.Source >= e.Target {
			t.Errorf("edge %v is not canonically ordered", e)
		}
	}
}

func TestCountDiscourseMarkers(t *testing.T) {
	got := CountDiscourseMarkers(sample)
	if got["대조"] == 0 {
		t.Error("'however' not counted under 대조")
	}
	if got["추가"] == 0 {
		t.Error("'furthermore' not counted under 추가")
	}
	if len(got) != len(discourseCategories) {
		t.Errorf("categories = %d", len(got))
	}
}

func TestCountCitations(t *testing.T) {
	text := "Earlier work (Kim, 2019) and follow-ups (Lee et al., 2021) as well as [3] support this."
	got := CountCitations(text)
	if got["author_year"] != 2 {
		t.Errorf("author_year = %d", got["author_year"])
	}
	if got["numbered"] != 1 {
		t.Errorf("numbered = %d", got["numbered"])
	}
	if got["multiple_authors"] != 1 {
		t.Errorf("multiple_authors = %d", got["multiple_authors"])
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity(sample, sample); got < 99 {
		t.Errorf("self similarity = %v", got)
	}
	other := "Deep convolutional networks dominate modern image classification benchmarks with large labeled datasets everywhere."
	cross := Similarity(sample, other)
	if cross >= Similarity(sample, sample) {
		t.Errorf("unrelated text scored %v", cross)
	}
	if Similarity("", sample) != 0 {
		t.Error("empty input should score 0")
	}
}

func TestAnalyzeProfile(t *testing.T) {
	p := Analyze(sample)
	if p.Readability == nil || p.Complexity == nil {
		t.Fatal("profile missing core metrics")
	}
	if p.Keywords == nil || len(p.Keywords.Frequency) == 0 {
		t.Error("profile missing keywords")
	}
	if p.Discourse == nil || p.Citations == nil {
		t.Error("profile missing marker counts")
	}
}

func TestAnalyzeReferences(t *testing.T) {
	section := "Kim, J., & Park, S. (2023). Grounded theory in practice. Journal of Qualitative Methods, 12(3), pp. 45-67.\n" +
		"Lee, H. et al. (2024). Interview coding strategies for novice researchers. Proceedings of the Methods Conference.\n" +
		"Choi, M. (1998). Phenomenology and lived experience handbooks. University Press, 2nd edition.\n" +
		"too short\n"
	got := AnalyzeReferences(section)
	if got.Count != 3 {
		t.Fatalf("count = %d", got.Count)
	}
	if got.OldestYear != 1998 || got.NewestYear != 2024 {
		t.Errorf("year range = %d-%d", got.OldestYear, got.NewestYear)
	}
	if got.Years[2023] != 1 {
		t.Errorf("years = %v", got.Years)
	}
	if got.RecentRatio <= 0 || got.RecentRatio > 100 {
		t.Errorf("recent ratio = %v", got.RecentRatio)
	}
	if got.AvgAuthors != 3.0 {
		t.Errorf("avg authors = %v", got.AvgAuthors)
	}
	if got.Types["저널 논문"] != 1 || got.Types["학술대회"] != 1 || got.Types["단행본"] != 1 {
		t.Errorf("types = %v", got.Types)
	}
}

func TestAnalyzeReferencesEmpty(t *testing.T) {
	got := AnalyzeReferences("")
	if got.Count != 0 || got.Years != nil || got.Types != nil {
		t.Errorf("empty section produced %+v", got)
	}
}

func TestMethodologyTerms(t *testing.T) {
	terms := MethodologyTerms(sample)
	if len(terms) == 0 || terms[0] != "qualitative" {
		t.Fatalf("terms = %v", terms)
	}
	if got := MethodologyTerms("convolutional networks and benchmarks"); len(got) != 0 {
		t.Errorf("unexpected terms %v", got)
	}
}

package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minjae-im/paperlens/llm"
)

// stubProvider returns a canned response and records the last request.
type stubProvider struct {
	resp llm.ChatResponse
	err  error
	last llm.ChatRequest
}

func (s *stubProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	resp := s.resp
	return &resp, nil
}

func (s *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func TestComprehensiveParsesSections(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{
		Content:     "[핵심요약]\n질적 사례연구이다.\n\n[연구목적]\n교사 경험 탐색.",
		Model:       "gpt-4o-mini",
		TotalTokens: 42,
	}}
	a := New(stub)

	res, err := a.Comprehensive(t.Context(), "본문 텍스트")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != KindComprehensive {
		t.Errorf("kind = %q", res.Kind)
	}
	if got, _ := res.Sections.Get("핵심요약"); got != "질적 사례연구이다." {
		t.Errorf("핵심요약 = %q", got)
	}
	if res.SchemaVersion != SchemaFor(KindComprehensive).Version {
		t.Errorf("schema version = %d", res.SchemaVersion)
	}
	if res.TotalTokens != 42 {
		t.Errorf("total tokens = %d", res.TotalTokens)
	}
	if stub.last.Temperature != 0.3 {
		t.Errorf("temperature = %v", stub.last.Temperature)
	}
	if stub.last.MaxTokens != comprehensiveMaxTokens {
		t.Errorf("max tokens = %d", stub.last.MaxTokens)
	}
}

func TestRunFallsBackOnUntaggedResponse(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{Content: "태그 없는 평문 답변"}}
	a := New(stub)

	res, err := a.Structure(t.Context(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sections.Len() != 1 {
		t.Fatalf("sections = %d, want 1", res.Sections.Len())
	}
	primary := SchemaFor(KindStructure).Primary
	if got, ok := res.Sections.Get(primary); !ok || got != "태그 없는 평문 답변" {
		t.Errorf("fallback under %q = %q, %v", primary, got, ok)
	}
}

func TestRunPropagatesProviderError(t *testing.T) {
	stub := &stubProvider{err: llm.ErrUpstream}
	a := New(stub)

	if _, err := a.Keywords(t.Context(), "text"); !errors.Is(err, llm.ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestKeywordsTruncatesInput(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{Content: "[주요주제]\nx"}}
	a := New(stub)

	long := strings.Repeat("word ", keywordsMaxWords+500)
	if _, err := a.Keywords(t.Context(), long); err != nil {
		t.Fatal(err)
	}
	user := stub.last.Messages[1].Content
	if n := len(strings.Fields(user)); n > keywordsMaxWords+100 {
		t.Errorf("prompt carries %d words, truncation did not apply", n)
	}
}

func TestReferencesRequiresBoundary(t *testing.T) {
	a := New(&stubProvider{})
	if _, err := a.References(t.Context(), "no bibliography here at all"); !errors.Is(err, ErrNoReferences) {
		t.Errorf("err = %v, want ErrNoReferences", err)
	}
}

func TestReferencesUsesDetectedSection(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{Content: "[통계요약]\n총 2건"}}
	a := New(stub)

	raw := strings.Repeat("body text line\n", 80) +
		"References\n" +
		"Kim, J. (2020). Qualitative inquiry. Journal of Education, 12(3), 1-20.\n" +
		"Lee, S. (2021). Case study methods. Seoul: Hakjisa. " + strings.Repeat("x", 200) + "\n"

	res, err := a.References(t.Context(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stub.last.Messages[1].Content, "Kim, J. (2020)") {
		t.Error("prompt does not carry the detected references section")
	}
	if got, _ := res.Sections.Get("통계요약"); got != "총 2건" {
		t.Errorf("통계요약 = %q", got)
	}
}

func TestCompareDecodesJSON(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{
		Content: `{"공통주제":["질적 연구"],"차별점":"대상 차이","방법론비교":"사례연구 대 FGI","종합평가":"상호보완적"}`,
	}}
	a := New(stub)

	cmp, err := a.Compare(t.Context(), []Paper{{Name: "a.pdf", Text: "x"}, {Name: "b.pdf", Text: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if stub.last.ResponseFormat != "json_object" {
		t.Errorf("response format = %q", stub.last.ResponseFormat)
	}
	if len(cmp.CommonThemes) != 1 || cmp.CommonThemes[0] != "질적 연구" {
		t.Errorf("common themes = %v", cmp.CommonThemes)
	}
	if cmp.Overall != "상호보완적" {
		t.Errorf("overall = %q", cmp.Overall)
	}
}

func TestCompareDegradesOnInvalidJSON(t *testing.T) {
	stub := &stubProvider{resp: llm.ChatResponse{Content: "두 논문은 모두 질적 접근을 취한다."}}
	a := New(stub)

	cmp, err := a.Compare(t.Context(), []Paper{{Name: "a", Text: "x"}, {Name: "b", Text: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Overall != "두 논문은 모두 질적 접근을 취한다." {
		t.Errorf("overall = %q", cmp.Overall)
	}
}

func TestCompareRejectsSinglePaper(t *testing.T) {
	a := New(&stubProvider{})
	if _, err := a.Compare(t.Context(), []Paper{{Name: "only", Text: "x"}}); err == nil {
		t.Error("expected error for single paper")
	}
}

func TestSchemasCoverEveryKind(t *testing.T) {
	for _, k := range []Kind{KindComprehensive, KindStructure, KindKeywords, KindReferences} {
		s := SchemaFor(k)
		if len(s.Labels) == 0 {
			t.Errorf("%s: no labels", k)
		}
		if !s.Contains(s.Primary) {
			t.Errorf("%s: primary %q not in label set", k, s.Primary)
		}
	}
}

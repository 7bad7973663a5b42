package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/minjae-im/paperlens/extract"
	"github.com/minjae-im/paperlens/llm"
	"github.com/minjae-im/paperlens/section"
)

// Result is one parsed analysis: the section map plus request accounting.
type Result struct {
	Kind             Kind         `json:"kind"`
	SchemaVersion    int          `json:"schema_version"`
	Sections         *section.Map `json:"sections"`
	Model            string       `json:"model,omitempty"`
	PromptTokens     int          `json:"prompt_tokens,omitempty"`
	CompletionTokens int          `json:"completion_tokens,omitempty"`
	TotalTokens      int          `json:"total_tokens,omitempty"`
}

// Paper is one named document text for comparison.
type Paper struct {
	Name string
	Text string
}

// Comparison is the parsed multi-paper LLM comparison. When the model does
// not return valid JSON the raw text is kept under Overall.
type Comparison struct {
	CommonThemes []string `json:"공통주제,omitempty"`
	Differences  string   `json:"차별점,omitempty"`
	Methodology  string   `json:"방법론비교,omitempty"`
	Overall      string   `json:"종합평가,omitempty"`
}

// Analyzer runs the prompt-typed analyses against one chat provider. It owns
// no state beyond the provider reference; construct one per engine.
type Analyzer struct {
	chat llm.Provider
}

// New returns an Analyzer using the given provider.
func New(chat llm.Provider) *Analyzer {
	return &Analyzer{chat: chat}
}

// Comprehensive runs the overall paper analysis.
func (a *Analyzer) Comprehensive(ctx context.Context, text string) (*Result, error) {
	return a.run(ctx, KindComprehensive,
		comprehensiveSystem,
		comprehensivePrompt(extract.TruncateWords(text, comprehensiveMaxWords)),
		0.3, comprehensiveMaxTokens)
}

// Structure runs the IMRaD structure analysis.
func (a *Analyzer) Structure(ctx context.Context, text string) (*Result, error) {
	return a.run(ctx, KindStructure,
		structureSystem,
		structurePrompt(extract.TruncateWords(text, structureMaxWords)),
		0.3, structureMaxTokens)
}

// Keywords runs the research-question / theme / keyword extraction.
func (a *Analyzer) Keywords(ctx context.Context, text string) (*Result, error) {
	return a.run(ctx, KindKeywords,
		keywordsSystem,
		keywordsPrompt(extract.TruncateWords(text, keywordsMaxWords)),
		0.3, keywordsMaxTokens)
}

// References locates the bibliography in rawText (newlines preserved) and
// analyzes it. Boundary detection failure is reported before any request is
// made.
func (a *Analyzer) References(ctx context.Context, rawText string) (*Result, error) {
	refSection, err := FindReferences(rawText)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, KindReferences,
		referencesSystem,
		referencesPrompt(refSection),
		0.2, referencesMaxTokens)
}

// run sends one chat request and parses the tagged response. An upstream
// failure short-circuits before parsing; the parse itself cannot fail, and an
// untagged response degrades to a single entry under the schema's primary
// label.
func (a *Analyzer) run(ctx context.Context, kind Kind, system, user string, temperature float64, maxTokens int) (*Result, error) {
	start := time.Now()
	resp, err := a.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s analysis: %w", kind, err)
	}

	schema := SchemaFor(kind)
	sections := section.ParseOrFallback(resp.Content, schema.Primary)
	slog.Info("analysis complete",
		"kind", kind,
		"sections", sections.Len(),
		"tokens", resp.TotalTokens,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Kind:             kind,
		SchemaVersion:    schema.Version,
		Sections:         sections,
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.TotalTokens,
	}, nil
}

// Compare runs the multi-paper comparison. The response is requested in JSON
// mode; if the model returns something else, the raw text is preserved under
// the overall-assessment field rather than failing.
func (a *Analyzer) Compare(ctx context.Context, papers []Paper) (*Comparison, error) {
	if len(papers) < 2 {
		return nil, fmt.Errorf("comparison needs at least 2 papers, got %d", len(papers))
	}

	truncated := make([]Paper, len(papers))
	for i, p := range papers {
		truncated[i] = Paper{Name: p.Name, Text: extract.TruncateWords(p.Text, compareMaxWordsPer)}
	}

	resp, err := a.chat.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: compareSystem},
			{Role: "user", Content: comparePrompt(truncated)},
		},
		Temperature:    0.3,
		MaxTokens:      compareMaxTokens,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("compare analysis: %w", err)
	}

	var cmp Comparison
	if err := json.Unmarshal([]byte(resp.Content), &cmp); err != nil {
		slog.Warn("compare response was not valid JSON, keeping raw text", "error", err)
		return &Comparison{Overall: resp.Content}, nil
	}
	return &cmp, nil
}

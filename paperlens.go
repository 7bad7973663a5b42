// Package paperlens analyzes academic PDF papers with an LLM. Uploads are
// validated and text-extracted, run through a fixed set of Korean-language
// analyses plus local text metrics, and kept in an in-memory session that
// supports listing, comparison and CSV/XLSX export.
package paperlens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/minjae-im/paperlens/analyze"
	"github.com/minjae-im/paperlens/export"
	"github.com/minjae-im/paperlens/extract"
	"github.com/minjae-im/paperlens/llm"
	"github.com/minjae-im/paperlens/section"
	"github.com/minjae-im/paperlens/store"
	"github.com/minjae-im/paperlens/textmetrics"
)

// embedMaxWords bounds the text sent to the embedding model.
const embedMaxWords = 2000

// Engine is the main entry point for the paper analysis session.
type Engine interface {
	// Analyze validates and extracts a PDF, runs the configured analyses,
	// and stores the paper under name. Re-using a name replaces the paper.
	// Extraction failures abort; per-analysis upstream failures are
	// recorded on the report instead.
	Analyze(ctx context.Context, name string, pdf []byte, opts ...AnalyzeOption) (*Report, error)

	// Get returns the stored report of one paper.
	Get(ctx context.Context, name string) (*Report, error)

	// List returns all session papers, newest first.
	List(ctx context.Context) ([]PaperInfo, error)

	// Delete removes a paper and everything derived from it.
	Delete(ctx context.Context, name string) error

	// Compare runs the local and LLM comparison over two or more papers.
	Compare(ctx context.Context, names ...string) (*Comparison, error)

	// Export renders a paper's report to w as "csv" or "xlsx".
	Export(ctx context.Context, name, format string, w io.Writer) error

	// Store returns the underlying session store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// Report is the full analysis state of one paper.
type Report struct {
	Name      string               `json:"name"`
	Metadata  extract.Metadata     `json:"metadata"`
	WordCount int                  `json:"word_count"`
	Analyses  []Analysis           `json:"analyses"`
	Metrics   *textmetrics.Profile `json:"metrics,omitempty"`
}

// Analysis is one stored analysis block. Err is set instead of Sections when
// the upstream request failed.
type Analysis struct {
	Kind          analyze.Kind `json:"kind"`
	SchemaVersion int          `json:"schema_version,omitempty"`
	Sections      *section.Map `json:"sections,omitempty"`
	Model         string       `json:"model,omitempty"`
	TotalTokens   int          `json:"total_tokens,omitempty"`
	Err           string       `json:"error,omitempty"`
}

// PaperInfo is one row of the session listing.
type PaperInfo struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Pages     int    `json:"pages"`
	WordCount int    `json:"word_count"`
	CreatedAt string `json:"created_at"`
}

// Comparison is the multi-paper comparison result.
type Comparison struct {
	Names          []string                               `json:"names"`
	Stats          []PaperInfo                            `json:"stats"`
	Pairwise       []PairSimilarity                       `json:"pairwise"`
	CommonKeywords []string                               `json:"common_keywords,omitempty"`
	References     map[string]*textmetrics.ReferenceStats `json:"references,omitempty"`
	Methodology    map[string][]string                    `json:"methodology,omitempty"`
	Similar        []store.SimilarPaper                   `json:"similar,omitempty"`
	LLM            *analyze.Comparison                    `json:"llm,omitempty"`
	LLMError       string                                 `json:"llm_error,omitempty"`
}

// PairSimilarity is the TF-IDF cosine similarity of one paper pair, as a
// percentage.
type PairSimilarity struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// AnalyzeOption configures one Analyze call.
type AnalyzeOption func(*analyzeOptions)

type analyzeOptions struct {
	kinds       []analyze.Kind
	skipMetrics bool
	skipEmbed   bool
}

// WithKinds restricts the run to the given analysis kinds.
func WithKinds(kinds ...analyze.Kind) AnalyzeOption {
	return func(o *analyzeOptions) { o.kinds = kinds }
}

// WithoutMetrics skips the local text-metric profile.
func WithoutMetrics() AnalyzeOption {
	return func(o *analyzeOptions) { o.skipMetrics = true }
}

// WithoutEmbedding skips paper embedding even when a provider is configured.
func WithoutEmbedding() AnalyzeOption {
	return func(o *analyzeOptions) { o.skipEmbed = true }
}

// defaultKinds is the standard four-analysis run.
var defaultKinds = []analyze.Kind{
	analyze.KindComprehensive,
	analyze.KindStructure,
	analyze.KindKeywords,
	analyze.KindReferences,
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg      Config
	store    *store.Store
	chatLLM  llm.Provider
	embedLLM llm.Provider
	analyzer *analyze.Analyzer
}

// New creates a PaperLens engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if cfg.Chat.Provider == "" {
		return nil, fmt.Errorf("%w: chat provider is required", ErrInvalidConfig)
	}
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = 1536
	}

	s, err := store.New(cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	chatLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		APIKey:   cfg.Chat.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating chat provider: %w", err)
	}

	var embedLLM llm.Provider
	if cfg.Embedding.Provider != "" {
		embedLLM, err = llm.NewProvider(llm.Config{
			Provider: cfg.Embedding.Provider,
			Model:    cfg.Embedding.Model,
			BaseURL:  cfg.Embedding.BaseURL,
			APIKey:   cfg.Embedding.APIKey,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating embedding provider: %w", err)
		}
	}

	return &engine{
		cfg:      cfg,
		store:    s,
		chatLLM:  chatLLM,
		embedLLM: embedLLM,
		analyzer: analyze.New(chatLLM),
	}, nil
}

func (e *engine) Store() *store.Store { return e.store }

func (e *engine) Close() error { return e.store.Close() }

// Analyze runs the full upload pipeline for one paper.
func (e *engine) Analyze(ctx context.Context, name string, pdf []byte, opts ...AnalyzeOption) (*Report, error) {
	options := &analyzeOptions{kinds: defaultKinds}
	for _, o := range opts {
		o(options)
	}

	if err := extract.Validate(pdf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	slog.Info("analyze: extracting text", "paper", name, "bytes", len(pdf))
	start := time.Now()
	doc, err := extract.Extract(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	wordCount := len(strings.Fields(doc.Text))
	slog.Info("analyze: extraction complete",
		"paper", name, "pages", doc.Metadata.Pages, "words", wordCount,
		"elapsed", time.Since(start).Round(time.Millisecond))

	paperID, err := e.store.UpsertPaper(ctx, store.Paper{
		Name:      name,
		RawText:   doc.Raw,
		CleanText: doc.Text,
		Pages:     doc.Metadata.Pages,
		Title:     doc.Metadata.Title,
		Author:    doc.Metadata.Author,
		Creator:   doc.Metadata.Creator,
		WordCount: wordCount,
	})
	if err != nil {
		return nil, fmt.Errorf("storing paper: %w", err)
	}

	report := &Report{
		Name:      name,
		Metadata:  doc.Metadata,
		WordCount: wordCount,
	}

	for _, kind := range options.kinds {
		a := e.runAnalysis(ctx, kind, doc)
		report.Analyses = append(report.Analyses, a)
		if err := e.storeAnalysis(ctx, paperID, a); err != nil {
			return nil, fmt.Errorf("storing %s report: %w", kind, err)
		}
	}

	if !options.skipMetrics {
		report.Metrics = textmetrics.Analyze(doc.Text)
		payload, err := json.Marshal(report.Metrics)
		if err != nil {
			return nil, fmt.Errorf("encoding metrics: %w", err)
		}
		if err := e.store.PutMetrics(ctx, paperID, string(payload)); err != nil {
			return nil, fmt.Errorf("storing metrics: %w", err)
		}
	}

	if e.embedLLM != nil && !options.skipEmbed {
		e.embedPaper(ctx, paperID, name, doc.Text)
	}

	return report, nil
}

// runAnalysis dispatches one analysis kind and converts failures to data.
func (e *engine) runAnalysis(ctx context.Context, kind analyze.Kind, doc *extract.Document) Analysis {
	var res *analyze.Result
	var err error
	switch kind {
	case analyze.KindComprehensive:
		res, err = e.analyzer.Comprehensive(ctx, doc.Text)
	case analyze.KindStructure:
		res, err = e.analyzer.Structure(ctx, doc.Text)
	case analyze.KindKeywords:
		res, err = e.analyzer.Keywords(ctx, doc.Text)
	case analyze.KindReferences:
		res, err = e.analyzer.References(ctx, doc.Raw)
	default:
		err = fmt.Errorf("unknown analysis kind %q", kind)
	}
	if err != nil {
		slog.Warn("analysis failed", "kind", kind, "error", err)
		return Analysis{Kind: kind, Err: err.Error()}
	}
	return Analysis{
		Kind:          kind,
		SchemaVersion: res.SchemaVersion,
		Sections:      res.Sections,
		Model:         res.Model,
		TotalTokens:   res.TotalTokens,
	}
}

func (e *engine) storeAnalysis(ctx context.Context, paperID int64, a Analysis) error {
	r := store.Report{
		PaperID:       paperID,
		Kind:          string(a.Kind),
		SchemaVersion: a.SchemaVersion,
		Model:         a.Model,
		TotalTokens:   a.TotalTokens,
		Error:         a.Err,
	}
	if a.Sections != nil {
		payload, err := json.Marshal(a.Sections)
		if err != nil {
			return err
		}
		r.Payload = string(payload)
	} else {
		r.Payload = "{}"
	}
	return e.store.PutReport(ctx, r)
}

// embedPaper computes and stores the paper embedding. Failures are logged
// and dropped; the embedding only powers similarity ranking.
func (e *engine) embedPaper(ctx context.Context, paperID int64, name, text string) {
	vecs, err := e.embedLLM.Embed(ctx, []string{extract.TruncateWords(text, embedMaxWords)})
	if err != nil || len(vecs) == 0 {
		slog.Warn("embedding failed", "paper", name, "error", err)
		return
	}
	if err := e.store.PutEmbedding(ctx, paperID, vecs[0]); err != nil {
		slog.Warn("storing embedding failed", "paper", name, "error", err)
	}
}

// Get reconstructs the stored report of one paper.
func (e *engine) Get(ctx context.Context, name string) (*Report, error) {
	paper, err := e.getPaper(ctx, name)
	if err != nil {
		return nil, err
	}

	reports, err := e.store.GetReports(ctx, paper.ID)
	if err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}

	report := &Report{
		Name:      paper.Name,
		WordCount: paper.WordCount,
		Metadata: extract.Metadata{
			Pages:   paper.Pages,
			Title:   paper.Title,
			Author:  paper.Author,
			Creator: paper.Creator,
		},
	}

	for _, kind := range defaultKinds {
		r, ok := reports[string(kind)]
		if !ok {
			continue
		}
		a := Analysis{
			Kind:          kind,
			SchemaVersion: r.SchemaVersion,
			Model:         r.Model,
			TotalTokens:   r.TotalTokens,
			Err:           r.Error,
		}
		if r.Error == "" && r.Payload != "" {
			m := section.NewMap()
			if err := json.Unmarshal([]byte(r.Payload), m); err != nil {
				return nil, fmt.Errorf("decoding %s report: %w", kind, err)
			}
			a.Sections = m
		}
		report.Analyses = append(report.Analyses, a)
	}

	if payload, err := e.store.GetMetrics(ctx, paper.ID); err != nil {
		return nil, fmt.Errorf("loading metrics: %w", err)
	} else if payload != "" {
		var p textmetrics.Profile
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("decoding metrics: %w", err)
		}
		report.Metrics = &p
	}

	return report, nil
}

// List returns the session papers, newest first.
func (e *engine) List(ctx context.Context) ([]PaperInfo, error) {
	papers, err := e.store.ListPapers(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]PaperInfo, len(papers))
	for i, p := range papers {
		infos[i] = PaperInfo{
			Name:      p.Name,
			Title:     p.Title,
			Author:    p.Author,
			Pages:     p.Pages,
			WordCount: p.WordCount,
			CreatedAt: p.CreatedAt,
		}
	}
	return infos, nil
}

// Delete removes a paper from the session.
func (e *engine) Delete(ctx context.Context, name string) error {
	err := e.store.DeletePaper(ctx, name)
	if errorsIsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrPaperNotFound, name)
	}
	return err
}

// Compare runs the local statistics and the LLM comparison over names.
func (e *engine) Compare(ctx context.Context, names ...string) (*Comparison, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughPapers, len(names))
	}

	papers := make([]*store.Paper, len(names))
	for i, name := range names {
		p, err := e.getPaper(ctx, name)
		if err != nil {
			return nil, err
		}
		papers[i] = p
	}

	cmp := &Comparison{Names: names}
	for _, p := range papers {
		cmp.Stats = append(cmp.Stats, PaperInfo{
			Name:      p.Name,
			Title:     p.Title,
			Author:    p.Author,
			Pages:     p.Pages,
			WordCount: p.WordCount,
			CreatedAt: p.CreatedAt,
		})
	}

	for i := 0; i < len(papers); i++ {
		for j := i + 1; j < len(papers); j++ {
			cmp.Pairwise = append(cmp.Pairwise, PairSimilarity{
				A:     papers[i].Name,
				B:     papers[j].Name,
				Score: textmetrics.Similarity(papers[i].CleanText, papers[j].CleanText),
			})
		}
	}

	cmp.CommonKeywords = commonKeywords(papers)

	cmp.References = make(map[string]*textmetrics.ReferenceStats, len(papers))
	cmp.Methodology = make(map[string][]string, len(papers))
	for _, p := range papers {
		refStats := &textmetrics.ReferenceStats{}
		if sec, err := analyze.FindReferences(p.RawText); err == nil {
			refStats = textmetrics.AnalyzeReferences(sec)
		}
		cmp.References[p.Name] = refStats
		cmp.Methodology[p.Name] = textmetrics.MethodologyTerms(p.CleanText)
	}

	if e.embedLLM != nil {
		if emb, err := e.store.GetEmbedding(ctx, papers[0].ID); err == nil && emb != nil {
			if similar, err := e.store.SimilarPapers(ctx, emb, len(papers), papers[0].ID); err == nil {
				cmp.Similar = similar
			}
		}
	}

	llmPapers := make([]analyze.Paper, len(papers))
	for i, p := range papers {
		llmPapers[i] = analyze.Paper{Name: p.Name, Text: p.CleanText}
	}
	llmCmp, err := e.analyzer.Compare(ctx, llmPapers)
	if err != nil {
		slog.Warn("llm comparison failed", "error", err)
		cmp.LLMError = err.Error()
	} else {
		cmp.LLM = llmCmp
	}

	return cmp, nil
}

// commonKeywords intersects the top frequency terms of every paper.
func commonKeywords(papers []*store.Paper) []string {
	counts := map[string]int{}
	for _, p := range papers {
		kw := textmetrics.ExtractKeywords(p.CleanText, 20)
		for _, st := range kw.Frequency {
			counts[st.Term]++
		}
	}
	var common []string
	for term, n := range counts {
		if n == len(papers) {
			common = append(common, term)
		}
	}
	sort.Strings(common)
	return common
}

// exportHeadings maps analysis kinds to their export block headings and
// newline separators.
var exportHeadings = map[analyze.Kind]struct {
	heading   string
	separator string
}{
	analyze.KindComprehensive: {"종합 분석", " "},
	analyze.KindStructure:     {"구조 분석", " "},
	analyze.KindKeywords:      {"주제 & 키워드", " | "},
	analyze.KindReferences:    {"참고문헌 분석", " | "},
}

// Export renders one paper's report as CSV or XLSX.
func (e *engine) Export(ctx context.Context, name, format string, w io.Writer) error {
	report, err := e.Get(ctx, name)
	if err != nil {
		return err
	}

	doc := export.Document{
		Name:    report.Name,
		Title:   report.Metadata.Title,
		Author:  report.Metadata.Author,
		Creator: report.Metadata.Creator,
		Pages:   report.Metadata.Pages,
	}
	var blocks []export.Block
	for _, a := range report.Analyses {
		if a.Err != "" || a.Sections == nil {
			continue
		}
		h := exportHeadings[a.Kind]
		blocks = append(blocks, export.Block{
			Heading:   h.heading,
			Sections:  a.Sections,
			Separator: h.separator,
		})
	}

	switch strings.ToLower(format) {
	case "csv":
		return export.WriteCSV(w, doc, blocks)
	case "xlsx":
		return export.WriteXLSX(w, doc, blocks)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (e *engine) getPaper(ctx context.Context, name string) (*store.Paper, error) {
	p, err := e.store.GetPaper(ctx, name)
	if errorsIsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotFound, name)
	}
	return p, err
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

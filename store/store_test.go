//go:build cgo

package store

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(4) // dim=4 for test vectors
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePaper(name string) Paper {
	return Paper{
		Name:      name,
		RawText:   "raw text with\nnewlines preserved",
		CleanText: "clean text body",
		Pages:     12,
		Title:     "A Study",
		Author:    "Kim",
		WordCount: 4,
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	s := newTestStore(t)
	if s.EmbeddingDim() != 4 {
		t.Fatalf("expected embedding dim 4, got %d", s.EmbeddingDim())
	}
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}

func TestNewIsolatesSessions(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	ctx := t.Context()

	if _, err := a.UpsertPaper(ctx, samplePaper("only-in-a.pdf")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := b.GetPaper(ctx, "only-in-a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from second store, got %v", err)
	}
	papers, err := b.ListPapers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(papers) != 0 {
		t.Fatalf("second store sees %d papers from the first", len(papers))
	}
}

// ---------------------------------------------------------------------------
// Paper CRUD
// ---------------------------------------------------------------------------

func TestUpsertAndGetPaper(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	p, err := s.GetPaper(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.RawText != "raw text with\nnewlines preserved" {
		t.Errorf("raw text = %q", p.RawText)
	}
	if p.Title != "A Study" || p.Pages != 12 {
		t.Errorf("metadata = %+v", p)
	}
	if p.ContentHash == "" {
		t.Error("content hash not computed")
	}
}

func TestGetPaperNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetPaper(t.Context(), "missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertReplacesByName(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	id1, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutReport(ctx, Report{PaperID: id1, Kind: "comprehensive", Payload: `{"x":"y"}`}); err != nil {
		t.Fatal(err)
	}

	p2 := samplePaper("a.pdf")
	p2.CleanText = "replacement text"
	id2, err := s.UpsertPaper(ctx, p2)
	if err != nil {
		t.Fatal(err)
	}
	if id2 != id1 {
		t.Errorf("replacement changed id: %d -> %d", id1, id2)
	}

	got, err := s.GetPaper(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if got.CleanText != "replacement text" {
		t.Errorf("clean text = %q", got.CleanText)
	}

	// Old reports must not survive the replacement.
	reports, err := s.GetReports(ctx, id1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 0 {
		t.Errorf("stale reports survived: %v", reports)
	}

	papers, err := s.ListPapers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Errorf("papers = %d, want 1", len(papers))
	}
}

func TestListPapersOmitsBodies(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	if _, err := s.UpsertPaper(ctx, samplePaper("a.pdf")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertPaper(ctx, samplePaper("b.pdf")); err != nil {
		t.Fatal(err)
	}

	papers, err := s.ListPapers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 2 {
		t.Fatalf("papers = %d", len(papers))
	}
	for _, p := range papers {
		if p.RawText != "" || p.CleanText != "" {
			t.Errorf("listing carries text body for %s", p.Name)
		}
	}
}

func TestDeletePaper(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutReport(ctx, Report{PaperID: id, Kind: "structure", Payload: `{}`}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutEmbedding(ctx, id, []float32{1, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeletePaper(ctx, "a.pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPaper(ctx, "a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("paper survived delete: %v", err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Papers != 0 || stats.Reports != 0 || stats.Embeddings != 0 {
		t.Errorf("stats after delete = %+v", stats)
	}
}

func TestDeletePaperNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeletePaper(t.Context(), "missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Reports and metrics
// ---------------------------------------------------------------------------

func TestPutReportUpsertsByKind(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.PutReport(ctx, Report{PaperID: id, Kind: "keywords", Payload: `{"v":1}`, TotalTokens: 10}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutReport(ctx, Report{PaperID: id, Kind: "keywords", Payload: `{"v":2}`, Model: "gpt-4o-mini"}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutReport(ctx, Report{PaperID: id, Kind: "references", Error: "upstream request failed"}); err != nil {
		t.Fatal(err)
	}

	reports, err := s.GetReports(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if reports["keywords"].Payload != `{"v":2}` {
		t.Errorf("keywords payload = %q", reports["keywords"].Payload)
	}
	if reports["keywords"].Model != "gpt-4o-mini" {
		t.Errorf("model = %q", reports["keywords"].Model)
	}
	if reports["references"].Error == "" {
		t.Error("failed analysis lost its error")
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutMetrics(ctx, id, `{"total_words":4}`); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetMetrics(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"total_words":4}` {
		t.Errorf("metrics = %q", got)
	}

	missing, err := s.GetMetrics(ctx, 9999)
	if err != nil {
		t.Fatal(err)
	}
	if missing != "" {
		t.Errorf("missing metrics = %q", missing)
	}
}

// ---------------------------------------------------------------------------
// Embeddings
// ---------------------------------------------------------------------------

func TestSimilarPapers(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	vectors := map[string][]float32{
		"a.pdf": {1, 0, 0, 0},
		"b.pdf": {0.9, 0.1, 0, 0},
		"c.pdf": {0, 0, 0, 1},
	}
	ids := map[string]int64{}
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		id, err := s.UpsertPaper(ctx, samplePaper(name))
		if err != nil {
			t.Fatal(err)
		}
		if err := s.PutEmbedding(ctx, id, vectors[name]); err != nil {
			t.Fatal(err)
		}
		ids[name] = id
	}

	got, err := s.SimilarPapers(ctx, vectors["a.pdf"], 2, ids["a.pdf"])
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("no neighbors")
	}
	if got[0].Name != "b.pdf" {
		t.Errorf("nearest = %q, want b.pdf", got[0].Name)
	}
	for _, sp := range got {
		if sp.Name == "a.pdf" {
			t.Error("query paper returned as its own neighbor")
		}
	}
}

func TestGetEmbeddingRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	missing, err := s.GetEmbedding(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing embedding, got %v", missing)
	}

	want := []float32{0.5, -1, 0, 2}
	if err := s.PutEmbedding(ctx, id, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetEmbedding(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("dim = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("embedding[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPutEmbeddingDimensionMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	id, err := s.UpsertPaper(ctx, samplePaper("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutEmbedding(ctx, id, []float32{1, 2}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

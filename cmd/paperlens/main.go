// Command paperlens analyzes academic PDFs from the command line.
//
// Analyze one paper and print the report:
//
//	paperlens analyze thesis.pdf --chat-provider openai --chat-model gpt-4o-mini
//
// Analyze and export to CSV:
//
//	paperlens analyze thesis.pdf -o thesis_analysis.csv
//
// Compare papers already analyzed in the same invocation is not possible
// (the session dies with the process); compare takes the PDFs directly:
//
//	paperlens compare a.pdf b.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/minjae-im/paperlens"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  paperlens analyze <file.pdf> [flags]
  paperlens compare <a.pdf> <b.pdf> [more.pdf...] [flags]

flags:
  -name string          paper name (default: file name)
  -o string             export path (.csv or .xlsx)
  -chat-provider string LLM provider (default openai)
  -chat-model string    LLM model (default gpt-4o-mini)
  -chat-base-url string provider base URL
  -chat-api-key string  API key (or OPENAI_API_KEY / config/api_keys.json)`)
}

func providerFlags(fs *flag.FlagSet) *paperlens.Config {
	cfg := paperlens.DefaultConfig()
	fs.StringVar(&cfg.Chat.Provider, "chat-provider", cfg.Chat.Provider, "LLM provider")
	fs.StringVar(&cfg.Chat.Model, "chat-model", cfg.Chat.Model, "LLM model")
	fs.StringVar(&cfg.Chat.BaseURL, "chat-base-url", "", "provider base URL")
	fs.StringVar(&cfg.Chat.APIKey, "chat-api-key", "", "API key")
	return &cfg
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	name := fs.String("name", "", "paper name (default: file name)")
	out := fs.String("o", "", "export path (.csv or .xlsx)")
	cfg := providerFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("analyze expects exactly one PDF file")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	paperName := *name
	if paperName == "" {
		paperName = filepath.Base(path)
	}

	eng, err := paperlens.New(*cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()
	report, err := eng.Analyze(ctx, paperName, data)
	if err != nil {
		return err
	}

	printReport(report)

	if *out != "" {
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(*out)), ".")
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *out, err)
		}
		defer f.Close()
		if err := eng.Export(ctx, paperName, format, f); err != nil {
			return err
		}
		fmt.Printf("\nexported to %s\n", *out)
	}
	return nil
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfg := providerFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("compare expects at least two PDF files")
	}

	eng, err := paperlens.New(*cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()
	names := make([]string, fs.NArg())
	for i, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		names[i] = filepath.Base(path)
		// LLM analyses are not needed for comparison; metrics only.
		if _, err := eng.Analyze(ctx, names[i], data, paperlens.WithKinds()); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	cmp, err := eng.Compare(ctx, names...)
	if err != nil {
		return err
	}

	fmt.Println("== 비교 대상 ==")
	for _, s := range cmp.Stats {
		fmt.Printf("  %s  (%d쪽, %d단어)\n", s.Name, s.Pages, s.WordCount)
	}
	fmt.Println("\n== 유사도 (TF-IDF cosine %) ==")
	for _, p := range cmp.Pairwise {
		fmt.Printf("  %s ↔ %s: %.1f\n", p.A, p.B, p.Score)
	}
	if len(cmp.CommonKeywords) > 0 {
		fmt.Printf("\n== 공통 키워드 ==\n  %s\n", strings.Join(cmp.CommonKeywords, ", "))
	}
	fmt.Println("\n== 참고문헌 ==")
	for _, name := range cmp.Names {
		if rs := cmp.References[name]; rs != nil {
			fmt.Printf("  %s: %d건", name, rs.Count)
			if rs.OldestYear > 0 {
				fmt.Printf(" (%d-%d, 최근 5년 %.1f%%)", rs.OldestYear, rs.NewestYear, rs.RecentRatio)
			}
			fmt.Println()
		}
	}
	fmt.Println("\n== 연구방법 용어 ==")
	for _, name := range cmp.Names {
		if terms := cmp.Methodology[name]; len(terms) > 0 {
			fmt.Printf("  %s: %s\n", name, strings.Join(terms, ", "))
		} else {
			fmt.Printf("  %s: -\n", name)
		}
	}
	if cmp.LLM != nil {
		fmt.Println("\n== LLM 비교분석 ==")
		if len(cmp.LLM.CommonThemes) > 0 {
			fmt.Printf("[공통주제]\n%s\n\n", strings.Join(cmp.LLM.CommonThemes, "\n"))
		}
		printIfSet("차별점", cmp.LLM.Differences)
		printIfSet("방법론비교", cmp.LLM.Methodology)
		printIfSet("종합평가", cmp.LLM.Overall)
	} else if cmp.LLMError != "" {
		fmt.Printf("\nLLM 비교분석 실패: %s\n", cmp.LLMError)
	}
	return nil
}

func printReport(r *paperlens.Report) {
	fmt.Printf("== %s ==\n", r.Name)
	if r.Metadata.Title != "" {
		fmt.Printf("제목: %s\n", r.Metadata.Title)
	}
	if r.Metadata.Author != "" {
		fmt.Printf("저자: %s\n", r.Metadata.Author)
	}
	fmt.Printf("페이지: %d  단어: %d\n", r.Metadata.Pages, r.WordCount)

	for _, a := range r.Analyses {
		fmt.Printf("\n== %s ==\n", a.Kind)
		if a.Err != "" {
			fmt.Printf("분석 실패: %s\n", a.Err)
			continue
		}
		for _, key := range a.Sections.Keys() {
			body, _ := a.Sections.Get(key)
			fmt.Printf("\n[%s]\n%s\n", key, body)
		}
	}

	if m := r.Metrics; m != nil && m.Readability != nil {
		fmt.Printf("\n== 가독성 ==\n난이도: %s (Flesch %.1f, 평균 학년 %.1f)\n",
			m.Readability.Difficulty, m.Readability.FleschReadingEase, m.Readability.AverageGradeLevel)
	}
}

func printIfSet(label, body string) {
	if body != "" {
		fmt.Printf("[%s]\n%s\n\n", label, body)
	}
}

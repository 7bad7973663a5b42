package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/minjae-im/paperlens/section"
)

func sampleBlocks() (Document, []Block) {
	doc := Document{
		Name:    "paper.pdf",
		Title:   "교사의 질적 경험 연구",
		Author:  "Kim",
		Creator: "LaTeX",
		Pages:   18,
	}

	main := section.NewMap()
	main.Set("핵심요약", "이 연구는 질적 사례연구이다.\n두 번째 줄.")
	main.Set("연구목적", "교사 경험 탐색.")

	keywords := section.NewMap()
	keywords.Set("중요키워드", "질적연구\n사례연구\n교사")

	empty := section.NewMap()

	return doc, []Block{
		{Heading: "종합 분석", Sections: main, Separator: " "},
		{Heading: "주제 & 키워드", Sections: keywords, Separator: " | "},
		{Heading: "구조 분석", Sections: empty, Separator: " "},
		{Heading: "참고문헌 분석", Sections: nil, Separator: " | "},
	}
}

func TestWriteCSV(t *testing.T) {
	doc, blocks := sampleBlocks()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc, blocks); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("missing UTF-8 BOM")
	}

	text := string(out)
	for _, want := range []string{
		"=== 문서 정보 ===",
		"논문명,paper.pdf",
		"=== 종합 분석 ===",
		"=== 주제 & 키워드 ===",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Newlines flattened with the block separator.
	if !strings.Contains(text, "이 연구는 질적 사례연구이다. 두 번째 줄.") {
		t.Error("long-form newlines not flattened with a space")
	}
	if !strings.Contains(text, "질적연구 | 사례연구 | 교사") {
		t.Error("list newlines not flattened with ' | '")
	}

	// Empty blocks skipped entirely.
	if strings.Contains(text, "구조 분석") || strings.Contains(text, "참고문헌 분석") {
		t.Error("empty block rendered")
	}
}

func TestWriteCSVPreservesSectionOrder(t *testing.T) {
	doc, blocks := sampleBlocks()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc, blocks); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if strings.Index(text, "핵심요약") > strings.Index(text, "연구목적") {
		t.Error("section order not preserved")
	}
}

func TestWriteXLSX(t *testing.T) {
	doc, blocks := sampleBlocks()
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, doc, blocks); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"문서 정보": false, "종합 분석": false, "주제 & 키워드": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing sheet %q in %v", name, sheets)
		}
	}

	got, err := f.GetCellValue("종합 분석", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "핵심요약" {
		t.Errorf("A1 = %q", got)
	}
	body, err := f.GetCellValue("종합 분석", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "두 번째 줄") {
		t.Errorf("B1 = %q", body)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("a/b:c"); strings.ContainsAny(got, "/:") {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("가", 40)
	if got := sheetName(long); len([]rune(got)) > 31 {
		t.Errorf("sheet name too long: %d runes", len([]rune(got)))
	}
}

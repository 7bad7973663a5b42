// Package export renders analysis reports as downloadable CSV or XLSX
// documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/minjae-im/paperlens/section"
)

// utf8BOM keeps Korean text intact when the CSV is opened in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is the metadata header of an exported report.
type Document struct {
	Name    string
	Title   string
	Author  string
	Creator string
	Pages   int
}

// Block is one labeled analysis section of the export. Separator replaces
// newlines inside values; the long-form analyses use a space, list-like ones
// use " | ".
type Block struct {
	Heading   string
	Sections  *section.Map
	Separator string
}

// WriteCSV renders the report as UTF-8 CSV with a BOM prefix. Blocks with a
// nil or empty section map are skipped.
func WriteCSV(w io.Writer, doc Document, blocks []Block) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"=== 문서 정보 ===", ""},
		{"논문명", doc.Name},
		{"제목", doc.Title},
		{"저자", doc.Author},
		{"페이지 수", fmt.Sprintf("%d", doc.Pages)},
		{"작성 도구", doc.Creator},
		{"", ""},
	}
	for _, b := range blocks {
		if b.Sections == nil || b.Sections.Len() == 0 {
			continue
		}
		rows = append(rows, []string{fmt.Sprintf("=== %s ===", b.Heading), ""})
		for _, key := range b.Sections.Keys() {
			value, _ := b.Sections.Get(key)
			rows = append(rows, []string{key, flatten(value, b.Separator)})
		}
		rows = append(rows, []string{"", ""})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteXLSX renders the report as a workbook with one sheet per block plus
// a metadata sheet.
func WriteXLSX(w io.Writer, doc Document, blocks []Block) error {
	f := excelize.NewFile()
	defer f.Close()

	const infoSheet = "문서 정보"
	if err := f.SetSheetName("Sheet1", infoSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	info := [][]any{
		{"논문명", doc.Name},
		{"제목", doc.Title},
		{"저자", doc.Author},
		{"페이지 수", doc.Pages},
		{"작성 도구", doc.Creator},
	}
	for i, row := range info {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(infoSheet, cell, &row); err != nil {
			return fmt.Errorf("writing info row: %w", err)
		}
	}

	for _, b := range blocks {
		if b.Sections == nil || b.Sections.Len() == 0 {
			continue
		}
		name := sheetName(b.Heading)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
		for i, key := range b.Sections.Keys() {
			value, _ := b.Sections.Get(key)
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			row := []any{key, value}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("writing row to %q: %w", name, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// flatten replaces newlines so multi-line section bodies stay in one cell.
func flatten(s, sep string) string {
	if sep == "" {
		sep = " "
	}
	return strings.ReplaceAll(s, "\n", sep)
}

// sheetName trims a heading to the 31-character sheet name limit and strips
// characters Excel rejects.
func sheetName(heading string) string {
	r := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name := r.Replace(heading)
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

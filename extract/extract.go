// Package extract validates uploaded PDF bytes and turns them into analyzable
// text plus document metadata.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize is the upload size limit. Larger papers should be compressed
// before analysis.
const MaxFileSize = 30 << 20 // 30 MiB

// minTextLength is the smallest extraction considered usable. Below this the
// PDF is almost certainly image-based or protected.
const minTextLength = 100

var pdfMagic = []byte("%PDF")

// Metadata is the document information read from the PDF info dictionary.
type Metadata struct {
	Pages   int    `json:"pages"`
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// Document is the result of a successful extraction.
type Document struct {
	// Raw is the page text joined with blank lines, newlines preserved.
	// Heading-boundary detection (e.g. the references scan) runs on this.
	Raw string
	// Text is the cleaned, whitespace-normalized form used for prompts and
	// local statistics.
	Text     string
	Metadata Metadata
}

// Validate performs the cheap byte-level checks before any parsing:
// empty upload, size limit, and the %PDF header.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), MaxFileSize)
	}
	if len(data) < len(pdfMagic) || !bytes.Equal(data[:len(pdfMagic)], pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// Extract parses the PDF and returns its text and metadata. The input must
// already have passed Validate. Pages that fail text extraction are skipped;
// if the usable text ends up shorter than minTextLength the whole extraction
// fails with ErrNoText.
func Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	// The underlying reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isEncryptedErr(err) {
			return nil, fmt.Errorf("%w: %v", ErrEncrypted, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return nil, ErrNoPages
	}

	var b strings.Builder
	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}

	raw := b.String()
	cleaned := Clean(raw)
	if len(cleaned) < minTextLength {
		return nil, ErrNoText
	}

	meta := Metadata{Pages: totalPages}
	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		meta.Title = infoString(info, "Title")
		meta.Author = infoString(info, "Author")
		meta.Subject = infoString(info, "Subject")
		meta.Creator = infoString(info, "Creator")
	}

	return &Document{Raw: raw, Text: cleaned, Metadata: meta}, nil
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

func isEncryptedErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}

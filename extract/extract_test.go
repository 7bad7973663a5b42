package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty upload", nil, ErrEmptyFile},
		{"zero bytes", []byte{}, ErrEmptyFile},
		{"wrong magic", []byte("PK\x03\x04 definitely a zip"), ErrNotPDF},
		{"truncated magic", []byte("%P"), ErrNotPDF},
		{"valid header", []byte("%PDF-1.7\n..."), nil},
		{"oversized", append([]byte("%PDF"), bytes.Repeat([]byte{0}, MaxFileSize+1)...), ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace runs",
			input: "a  b\t\tc\n\nd",
			want:  "a b c d",
		},
		{
			name:  "rejoins hyphenated line break",
			input: "the method-\nology section",
			want:  "the methodology section",
		},
		{
			name:  "hyphen break with indentation",
			input: "quali-  \n   tative study",
			want:  "qualitative study",
		},
		{
			name:  "plain hyphen inside a line is kept",
			input: "a well-known approach",
			want:  "a well-known approach",
		},
		{
			name:  "nfkc normalization of fullwidth forms",
			input: "ＡＢＣ analysis",
			want:  "ABC analysis",
		},
		{
			name:  "trims ends",
			input: "  text  ",
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := TruncateWords(text, 10)
	if n := len(strings.Fields(got)); n != 10 {
		t.Errorf("TruncateWords kept %d words, want 10", n)
	}
	// Short input is returned as-is, untouched.
	if got := TruncateWords("a b c", 10); got != "a b c" {
		t.Errorf("TruncateWords short input = %q", got)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	// Valid header, garbage body: parse must fail without panicking.
	data := []byte("%PDF-1.4\nthis is not a real pdf body")
	if _, err := Extract(t.Context(), data); err == nil {
		t.Fatal("expected error for garbage PDF body")
	}
}

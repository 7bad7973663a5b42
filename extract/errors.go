package extract

import "errors"

var (
	// ErrEmptyFile is returned for a zero-byte upload.
	ErrEmptyFile = errors.New("extract: uploaded file is empty")

	// ErrFileTooLarge is returned when the upload exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("extract: file exceeds size limit")

	// ErrNotPDF is returned when the file does not start with the PDF magic.
	ErrNotPDF = errors.New("extract: not a valid PDF file")

	// ErrEncrypted is returned for password-protected documents.
	ErrEncrypted = errors.New("extract: PDF is encrypted")

	// ErrParse is returned when the PDF structure cannot be read.
	ErrParse = errors.New("extract: corrupt or unreadable PDF")

	// ErrNoPages is returned for a PDF with no pages.
	ErrNoPages = errors.New("extract: PDF has no pages")

	// ErrNoText is returned when too little text could be extracted,
	// typically an image-based or protected PDF.
	ErrNoText = errors.New("extract: no extractable text")
)

package biz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageBreak separates the text of consecutive pages.
const PageBreak = "\n\f"

// ErrExtractionFailed is matched by every extraction error.
var ErrExtractionFailed = errors.New("pdf extraction failed")

// ExtractionError reports an unreadable, corrupt or encrypted file.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtractionFailed, e.Err}
}

// Extractor turns a stored file into plain text. An empty result is valid
// and means the file has no text layer.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PDFExtractor extracts page-ordered text from PDF files.
type PDFExtractor struct{}

var _ Extractor = PDFExtractor{}

// NewPDFExtractor returns the PDF extractor.
func NewPDFExtractor() PDFExtractor {
	return PDFExtractor{}
}

// Extract returns every page's text joined with PageBreak.
func (PDFExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Path: path, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", &ExtractionError{Path: path, Err: err}
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, PageBreak), nil
}

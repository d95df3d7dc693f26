package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageRange selects pages [Start, End), zero based. End <= 0 means through the last page.
type PageRange struct {
	Start int
	End   int
}

// TextExtractor pulls plain text out of a PDF document.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, pr PageRange) (string, error)
}

// PDFService extracts text with github.com/ledongthuc/pdf.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func (s *PDFService) ExtractText(ctx context.Context, data []byte, pr PageRange) (string, error) {
	return s.extract(ctx, bytes.NewReader(data), int64(len(data)), pr)
}

// ExtractFile reads the PDF at path.
func (s *PDFService) ExtractFile(ctx context.Context, path string, pr PageRange) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat pdf: %w", err)
	}
	return s.extract(ctx, f, info.Size(), pr)
}

func (s *PDFService) extract(ctx context.Context, r io.ReaderAt, size int64, pr PageRange) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	start, end, err := pageRange(reader.NumPage(), pr)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

func pageRange(total int, pr PageRange) (int, int, error) {
	end := pr.End
	if end <= 0 {
		end = total
	}
	if pr.Start < 0 || pr.Start > end || end > total {
		return 0, 0, fmt.Errorf("page range [%d, %d) out of bounds for %d pages", pr.Start, end, total)
	}
	return pr.Start, end, nil
}

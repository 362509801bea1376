package util

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFContent is the text payload extracted from an uploaded document.
type PDFContent struct {
	Text      string
	PageCount int
}

// ExtractPDFText reads the plain text of a PDF on disk.
func ExtractPDFText(path string) (*PDFContent, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}

	return &PDFContent{
		Text:      buf.String(),
		PageCount: r.NumPage(),
	}, nil
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"

	pdf "github.com/ledongthuc/pdf"

	"skusort/internal/util"
)

type TextExtractor interface {
	Lines(ctx context.Context, content []byte) ([]string, error)
}

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Lines returns the trimmed, non-empty text lines of every page in order.
func (e *PDFExtractor) Lines(ctx context.Context, content []byte) (lines []string, err error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedPDF)
	}
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("%w: %v", ErrMalformedPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrMalformedPDF, i, err)
		}
		out = append(out, util.SplitLines(text)...)
	}
	return out, nil
}

// PlainTextExtractor treats the upload as already-extracted text, one
// listing line per line.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Lines(ctx context.Context, content []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.SplitLines(string(content)), nil
}

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// TextExtractor turns an uploaded resume into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, contentType, filename string) (*ExtractionResult, error)
}

type ExtractionResult struct {
	Text     string
	Format   DocumentFormat
	Strategy string
}

// DetectFormat decides the document format from the declared MIME type or
// the filename suffix.
func DetectFormat(contentType, filename string) (DocumentFormat, error) {
	ct := strings.ToLower(contentType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.Contains(ct, "pdf") || ext == ".pdf":
		return FormatPDF, nil
	case strings.Contains(ct, "word") || ext == ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: content type %q, file %q", ErrUnsupportedType, contentType, filename)
	}
}

// textStrategy is one attempt in an extraction chain. The first strategy whose
// output passes accept wins.
type textStrategy struct {
	name    string
	extract func(ctx context.Context, data []byte) (string, error)
	accept  func(text string) bool
}

func nonEmpty(text string) bool {
	return strings.TrimSpace(text) != ""
}

type textExtractor struct {
	pdfStrategies []textStrategy
	docxStrategy  textStrategy
}

// NewTextExtractor builds the PDF chain (text layer first, then page-by-page
// layout capped at maxPDFPages) and the DOCX raw-text extractor.
func NewTextExtractor(ctx context.Context, maxPDFPages int) (TextExtractor, error) {
	textLayer, err := newEinoTextLayer(ctx)
	if err != nil {
		return nil, err
	}

	return &textExtractor{
		pdfStrategies: []textStrategy{
			{name: "text-layer", extract: textLayer.Extract, accept: nonEmpty},
			{name: "page-layout", extract: newPageLayoutExtractor(maxPDFPages).Extract, accept: nonEmpty},
		},
		docxStrategy: textStrategy{name: "docx-raw", extract: extractDocxText, accept: nonEmpty},
	}, nil
}

// Extract implements TextExtractor.
func (e *textExtractor) Extract(ctx context.Context, data []byte, contentType, filename string) (*ExtractionResult, error) {
	format, err := DetectFormat(contentType, filename)
	if err != nil {
		return nil, err
	}

	result := &ExtractionResult{Format: format}

	switch format {
	case FormatDOCX:
		text, err := e.docxStrategy.extract(ctx, data)
		if err != nil {
			return nil, &ExtractionError{Format: FormatDOCX, Cause: err}
		}
		result.Text = strings.TrimSpace(text)
		result.Strategy = e.docxStrategy.name
	case FormatPDF:
		result.Text, result.Strategy = runChain(ctx, e.pdfStrategies, data)
	}

	log.Ctx(ctx).Info().
		Str("format", string(format)).
		Str("strategy", result.Strategy).
		Int("chars", len(result.Text)).
		Msg("Text extraction finished")

	return result, nil
}

// runChain tries each strategy in order and returns the first accepted text
// with the name of the strategy that produced it. Strategy failures are logged
// and never fatal; if nothing is accepted it returns "".
func runChain(ctx context.Context, strategies []textStrategy, data []byte) (string, string) {
	for _, s := range strategies {
		text, err := safeExtract(ctx, s, data)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("strategy", s.name).Msg("Extraction strategy failed, trying next")
			continue
		}
		if s.accept(text) {
			return strings.TrimSpace(text), s.name
		}
		log.Ctx(ctx).Debug().Str("strategy", s.name).Msg("Extraction strategy returned no text")
	}
	return "", ""
}

func safeExtract(ctx context.Context, s textStrategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", s.name, r)
		}
	}()
	return s.extract(ctx, data)
}

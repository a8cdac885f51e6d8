package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// einoTextLayer reads the whole text layer of a PDF in one pass.
type einoTextLayer struct {
	parser *einopdf.PDFParser
}

func newEinoTextLayer(ctx context.Context) (*einoTextLayer, error) {
	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF text-layer parser: %w", err)
	}
	return &einoTextLayer{parser: p}, nil
}

func (e *einoTextLayer) Extract(ctx context.Context, data []byte) (string, error) {
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), einoparser.WithURI("upload.pdf"))
	if err != nil {
		return "", fmt.Errorf("text-layer parse failed: %w", err)
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(doc.Content)
	}
	return sb.String(), nil
}

// PageResult is the outcome of extracting a single page. Exactly one of Text
// or Err is meaningful.
type PageResult struct {
	Page int
	Text string
	Err  error
}

// pageSource is the minimal view of a paginated document the layout
// extractor needs. Pages are 1-based.
type pageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

type pageLayoutExtractor struct {
	maxPages int
	open     func(data []byte) (pageSource, error)
}

func newPageLayoutExtractor(maxPages int) *pageLayoutExtractor {
	if maxPages <= 0 {
		maxPages = 50
	}
	return &pageLayoutExtractor{maxPages: maxPages, open: openLedongthucPages}
}

func (p *pageLayoutExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	src, err := p.open(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	results := collectPages(ctx, src, p.maxPages)
	text, failed := joinPages(results)

	for _, f := range failed {
		log.Ctx(ctx).Warn().Err(f.Err).Int("page", f.Page).Msg("Failed to process page")
	}
	log.Ctx(ctx).Info().
		Int("pages", len(results)).
		Int("failed_pages", len(failed)).
		Int("chars", len(text)).
		Msg("Page layout extraction finished")

	return text, nil
}

// collectPages extracts up to maxPages pages in order. A failing page is
// recorded and the loop continues. A cancelled context stops the loop early.
func collectPages(ctx context.Context, src pageSource, maxPages int) []PageResult {
	total := src.NumPage()
	if total > maxPages {
		total = maxPages
	}

	results := make([]PageResult, 0, total)
	for page := 1; page <= total; page++ {
		if ctx.Err() != nil {
			break
		}
		text, err := safePageText(src, page)
		results = append(results, PageResult{Page: page, Text: text, Err: err})
	}
	return results
}

func safePageText(src pageSource, page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d panicked: %v", page, r)
		}
	}()
	return src.PageText(page)
}

// joinPages concatenates successful page texts with a newline and returns the
// failed pages separately.
func joinPages(results []PageResult) (string, []PageResult) {
	var sb strings.Builder
	var failed []PageResult

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), failed
}

type ledongthucPages struct {
	reader *pdf.Reader
}

func openLedongthucPages(data []byte) (pageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucPages{reader: r}, nil
}

func (l *ledongthucPages) NumPage() int {
	return l.reader.NumPage()
}

// PageText lays out the page row by row, inserting a space where the gap
// between two text runs is wider than a fraction of the font size.
func (l *ledongthucPages) PageText(index int) (string, error) {
	page := l.reader.Page(index)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		var prevEnd float64
		for i, t := range row.Content {
			if i > 0 && t.X-prevEnd > t.FontSize*0.15 {
				sb.WriteString(" ")
			}
			sb.WriteString(t.S)
			prevEnd = t.X + t.W
		}
		if line := strings.Join(strings.Fields(sb.String()), " "); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}

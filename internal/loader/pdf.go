package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

// Strategy names as they appear in diagnostics.
const (
	PDFReaderStrategyName     = "pdf-reader"
	ContentStreamStrategyName = "pdf-content-stream"
	TextLayerStrategyName     = "pdftotext"
	OCRStrategyName           = "ocr"
)

// PDFReaderStrategy reads the text layer page by page with ledongthuc/pdf.
// Pages without text contribute an empty string.
type PDFReaderStrategy struct{}

func (PDFReaderStrategy) Name() string { return PDFReaderStrategyName }

func (PDFReaderStrategy) TryExtract(_ context.Context, src *Source) (Extraction, error) {
	r, err := pdf.NewReader(bytes.NewReader(src.Data), int64(len(src.Data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("open pdf: %w", err)
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	found := false
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt := pageLines(p)
		if strings.TrimSpace(txt) == "" {
			txt, _ = p.GetPlainText(nil)
		}
		if strings.TrimSpace(txt) != "" {
			found = true
		}
		pages = append(pages, txt)
	}
	if !found {
		return Extraction{Pages: n}, nil
	}
	return Extraction{Text: strings.Join(pages, "\n"), Pages: n}, nil
}

// pageLines rebuilds reading order from glyph positions: rows top to bottom,
// glyphs left to right within a row.
func pageLines(p pdf.Page) string {
	texts := p.Content().Text
	if len(texts) == 0 {
		return ""
	}
	type row struct {
		y     float64
		glyph []pdf.Text
	}
	var rows []*row
	byY := map[float64]*row{}
	for _, t := range texts {
		y := math.Round(t.Y)
		r, ok := byY[y]
		if !ok {
			r = &row{y: y}
			byY[y] = r
			rows = append(rows, r)
		}
		r.glyph = append(r.glyph, t)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var b strings.Builder
	for _, r := range rows {
		sort.SliceStable(r.glyph, func(i, j int) bool { return r.glyph[i].X < r.glyph[j].X })
		for _, g := range r.glyph {
			b.WriteString(g.S)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ContentStreamStrategy decodes text-showing operators from each page's
// content stream with pdfcpu.
type ContentStreamStrategy struct{}

func (ContentStreamStrategy) Name() string { return ContentStreamStrategyName }

func (ContentStreamStrategy) TryExtract(_ context.Context, src *Source) (Extraction, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(src.Data), model.NewDefaultConfiguration())
	if err != nil {
		return Extraction{}, fmt.Errorf("pdfcpu read: %w", err)
	}
	pages := make([]string, 0, ctx.PageCount)
	found := false
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			pages = append(pages, "")
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		txt := textFromContentStream(data)
		if strings.TrimSpace(txt) != "" {
			found = true
		}
		pages = append(pages, txt)
	}
	if !found {
		return Extraction{Pages: ctx.PageCount}, nil
	}
	return Extraction{Text: strings.Join(pages, "\n"), Pages: ctx.PageCount}, nil
}

var reTextOp = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*(?:Tj|')|\[((?:\\.|[^\]])*)\]\s*TJ|\b(?:Td|TD|ET)\b|T\*`)
var reTJString = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromContentStream handles Tj, TJ and ' plus the operators that start a new line.
func textFromContentStream(data []byte) string {
	var b strings.Builder
	newline := func() {
		s := b.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
	for _, m := range reTextOp.FindAllSubmatch(data, -1) {
		switch {
		case m[1] != nil:
			if bytes.HasSuffix(bytes.TrimSpace(m[0]), []byte("'")) {
				newline()
			}
			b.WriteString(decodePDFString(m[1]))
		case m[2] != nil:
			for _, s := range reTJString.FindAllSubmatch(m[2], -1) {
				b.WriteString(decodePDFString(s[1]))
			}
		default:
			newline()
		}
	}
	return b.String()
}

// decodePDFString handles the escape sequences of PDF literal strings.
func decodePDFString(raw []byte) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			b.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '(', ')':
			b.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				b.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			b.WriteByte(byte(val))
		}
	}
	return b.String()
}

// TextLayerStrategy shells out to pdftotext through the OCR engine's runner.
type TextLayerStrategy struct {
	Tool TextLayer
}

func (TextLayerStrategy) Name() string { return TextLayerStrategyName }

func (s TextLayerStrategy) TryExtract(ctx context.Context, src *Source) (Extraction, error) {
	path, err := src.Path()
	if err != nil {
		return Extraction{}, err
	}
	res, err := s.Tool.PDFText(ctx, path)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Text: res.Text, Pages: res.Pages}, nil
}

// OCRStrategy rasterises and recognises every page. It is always last.
type OCRStrategy struct {
	Engine OCR
}

func (OCRStrategy) Name() string { return OCRStrategyName }

func (s OCRStrategy) TryExtract(ctx context.Context, src *Source) (Extraction, error) {
	path, err := src.Path()
	if err != nil {
		return Extraction{}, err
	}
	res, err := s.Engine.RecognizePDF(ctx, path)
	if err != nil {
		if !errors.Is(err, common.ErrOCRFailed) {
			err = common.NewOCRError("pdf recognition", err)
		}
		return Extraction{}, err
	}
	return Extraction{Text: res.Text, Pages: res.Pages, Confidence: res.Confidence}, nil
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/ocr"
)

// RawDocument is one input document. Name is only used for its extension.
type RawDocument struct {
	Name string
	Data []byte
}

// ReadFile loads path into a RawDocument.
func ReadFile(path string) (RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawDocument{}, err
	}
	return RawDocument{Name: filepath.Base(path), Data: data}, nil
}

// Output is the normalized text of a document plus how it was obtained.
type Output struct {
	Text        string
	Method      string
	Pages       int
	Diagnostics entity.Diagnostics
}

// OCR is the recognition engine the loader falls back to.
type OCR interface {
	RecognizeImage(ctx context.Context, path string) (ocr.Result, error)
	RecognizePDF(ctx context.Context, path string) (ocr.Result, error)
}

// TextLayer extracts an existing PDF text layer with an external tool.
type TextLayer interface {
	PDFText(ctx context.Context, path string) (ocr.Result, error)
}

type Loader struct {
	ocr       OCR
	textLayer TextLayer
	pdfChain  []Strategy
	logger    *slog.Logger
}

type Option func(*Loader)

// WithOCR sets the engine used for images and PDFs without a text layer.
func WithOCR(o OCR) Option {
	return func(l *Loader) { l.ocr = o }
}

// WithTextLayer adds pdftotext (or similar) after the in-process PDF readers.
func WithTextLayer(t TextLayer) Option {
	return func(l *Loader) { l.textLayer = t }
}

// WithPDFStrategies replaces the text-layer strategies tried before OCR.
func WithPDFStrategies(s ...Strategy) Option {
	return func(l *Loader) { l.pdfChain = s }
}

func New(logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, o := range opts {
		o(l)
	}
	if l.pdfChain == nil {
		l.pdfChain = []Strategy{PDFReaderStrategy{}, ContentStreamStrategy{}}
		if l.textLayer != nil {
			l.pdfChain = append(l.pdfChain, TextLayerStrategy{Tool: l.textLayer})
		}
	}
	return l
}

// Load dispatches on the document extension and returns normalized text.
// Unsupported extensions and OCR failures are the only errors; an empty
// document yields empty text with an empty_stream note.
func (l *Loader) Load(ctx context.Context, doc RawDocument) (Output, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(doc.Name))
	format := constants.MapExtToFormat(ext)
	if format == "" {
		l.logger.Warn("unsupported document format", "name", doc.Name, "ext", ext)
		return Output{}, common.NewUnsupportedFormatError(ext)
	}

	out := Output{Diagnostics: entity.Diagnostics{Format: format, Bytes: len(doc.Data)}}
	if len(doc.Data) == 0 {
		l.logger.Warn("empty document stream", "name", doc.Name)
		out.Method = constants.MethodEmpty
		out.Diagnostics.Method = constants.MethodEmpty
		out.Diagnostics.AddNote(entity.NoteEmptyStream)
		return out, nil
	}

	src := newSource(doc)
	defer src.cleanup()

	var err error
	switch format {
	case constants.TEXT:
		out.Text = DecodeText(doc.Data)
		out.Method = constants.MethodText
	case constants.DOCX:
		out.Method = constants.MethodDOCX
		out.Text, err = DOCXText(doc.Data)
		if err != nil {
			// unreadable DOCX degrades to an empty profile
			l.logger.Warn("docx unreadable", "name", doc.Name, "error", err)
			out.Diagnostics.RecordError(constants.MethodDOCX, err)
			out.Diagnostics.AddNote(entity.NoteDOCXMalformed)
			err = nil
		}
	case constants.PDF:
		err = l.loadPDF(ctx, src, &out)
	case constants.IMAGE:
		err = l.loadImage(ctx, src, &out)
	}
	if err != nil {
		return out, err
	}

	out.Text = NormalizeText(out.Text)
	out.Diagnostics.Method = out.Method
	out.Diagnostics.Pages = out.Pages
	l.logger.Debug("document loaded",
		"name", doc.Name,
		"format", format,
		"method", out.Method,
		"pages", out.Pages,
		"chars", len(out.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (l *Loader) loadPDF(ctx context.Context, src *Source, out *Output) error {
	chain := l.pdfChain
	if l.ocr != nil {
		chain = append(chain[:len(chain):len(chain)], OCRStrategy{Engine: l.ocr})
	}
	ex, name, err := RunChain(ctx, chain, src, &out.Diagnostics)
	if err != nil {
		return err
	}
	if name == "" {
		if l.ocr == nil {
			return common.NewOCRError("pdf has no text layer and no ocr engine is configured", common.ErrNotInitialized)
		}
		// every strategy came back empty, OCR included
		out.Method = constants.MethodPDFOCR
		out.Pages = ex.Pages
		return nil
	}

	out.Text = ex.Text
	out.Pages = ex.Pages
	out.Diagnostics.Confidence = ex.Confidence
	if name == OCRStrategyName {
		out.Method = constants.MethodPDFOCR
		out.Diagnostics.AddNote(entity.NoteOCRFallback)
		l.logger.Info("no selectable text detected, used OCR", "name", src.Name, "pages", ex.Pages)
	} else {
		out.Method = constants.MethodPDFText
		out.Diagnostics.AddNote(entity.NoteTextLayer)
		l.logger.Info("pdf has selectable text", "name", src.Name, "strategy", name, "pages", ex.Pages)
	}
	return nil
}

func (l *Loader) loadImage(ctx context.Context, src *Source, out *Output) error {
	if l.ocr == nil {
		return common.NewOCRError("no ocr engine configured", common.ErrNotInitialized)
	}
	path, err := src.Path()
	if err != nil {
		return fmt.Errorf("spill image: %w", err)
	}
	res, err := l.ocr.RecognizeImage(ctx, path)
	if err != nil {
		out.Diagnostics.RecordError(constants.MethodImageOCR, err)
		if !errors.Is(err, common.ErrOCRFailed) {
			err = common.NewOCRError("image recognition", err)
		}
		return err
	}
	out.Text = res.Text
	out.Method = constants.MethodImageOCR
	out.Pages = 1
	out.Diagnostics.Confidence = res.Confidence
	out.Diagnostics.Tried = append(out.Diagnostics.Tried, constants.MethodImageOCR)
	out.Diagnostics.Success = constants.MethodImageOCR
	return nil
}

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	HeicConverter       string
	EnableTSVConfidence bool

	PSM int
	OEM int

	ArtifactCacheDir string
}

// ConfigFrom maps application config onto engine config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftotext:           c.Pdftotext,
		Pdftoppm:            c.Pdftoppm,
		Tesseract:           c.Tesseract,
		TesseractLang:       c.Language,
		DPI:                 c.DPI,
		MaxPages:            c.MaxPages,
		TessdataDir:         c.TessdataDir,
		HeicConverter:       c.HeicConverter,
		EnableTSVConfidence: c.TSVConfidence,
		ArtifactCacheDir:    c.ArtifactCacheDir,
	}
}

type Result struct {
	Text       string
	Pages      int
	Method     string // constants.MethodPDFOCR | constants.MethodImageOCR | constants.MethodPDFText
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Engine wraps the poppler and tesseract binaries. It is created once,
// initialised with Init and released with Shutdown; it holds no per-call state.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	mu     sync.RWMutex
	ready  bool
	closed bool
}

type Option func(*Engine)

// WithRunner swaps the command runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewEngine(cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Init prepares the artifact cache and reports missing binaries. Missing
// binaries are not fatal here: documents with a text layer never need them.
func (e *Engine) Init(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("ocr engine: %w", common.ErrNotInitialized)
	}
	if e.ready {
		return nil
	}
	if e.cfg.ArtifactCacheDir != "" {
		if err := os.MkdirAll(e.cfg.ArtifactCacheDir, 0o755); err != nil {
			return fmt.Errorf("create artifact cache dir: %w", err)
		}
	}
	for _, bin := range []string{e.cfg.Pdftotext, e.cfg.Pdftoppm, e.cfg.Tesseract} {
		if _, err := exec.LookPath(bin); err != nil {
			e.logger.Warn("ocr binary not found on PATH", "binary", bin)
		}
	}
	e.ready = true
	e.logger.Debug("ocr engine initialised", "dpi", e.cfg.DPI, "lang", e.cfg.TesseractLang)
	return nil
}

// Shutdown marks the engine closed. Later calls fail with ErrNotInitialized.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.ready = false
}

func (e *Engine) checkReady() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return fmt.Errorf("ocr engine: %w", common.ErrNotInitialized)
	}
	return nil
}

// RecognizeImage OCRs a single image, converting HEIC/HEIF first.
func (e *Engine) RecognizeImage(ctx context.Context, path string) (Result, error) {
	if err := e.checkReady(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	var warns []string
	if constants.IsHEICExt(ext) {
		hashHex, _ := contentHashFromCtx(ctx)
		out, w, cleanup, err := e.heicToPNG(ctx, path, hashHex)
		warns = append(warns, w...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			return Result{Warnings: warns}, common.NewOCRError("heic conversion", err)
		}
		path = out
	}
	res, err := e.extractImage(ctx, path)
	res.Duration = time.Since(start)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, common.NewOCRError("image recognition", err)
	}
	return res, nil
}

// RecognizePDF rasterises every page and OCRs them in order.
func (e *Engine) RecognizePDF(ctx context.Context, path string) (Result, error) {
	if err := e.checkReady(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	text, pages, warns, err := e.pdfToOCR(ctx, path)
	res := Result{
		Text:     Normalize(text),
		Pages:    pages,
		Method:   constants.MethodPDFOCR,
		Language: e.cfg.TesseractLang,
		Duration: time.Since(start),
		Warnings: warns,
	}
	if err != nil {
		return res, common.NewOCRError("pdf rasterisation", err)
	}
	res.Confidence = heuristicConfidence(res.Text)
	return res, nil
}

// PDFText runs pdftotext over the document's text layer.
func (e *Engine) PDFText(ctx context.Context, path string) (Result, error) {
	if err := e.checkReady(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	text, pages, warns, err := e.pdfToText(ctx, path)
	return Result{
		Text:     text,
		Pages:    pages,
		Method:   constants.MethodPDFText,
		Duration: time.Since(start),
		Warnings: warns,
	}, err
}

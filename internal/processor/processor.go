package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/loader"
	"github.com/joseph-ayodele/cv-extractor/internal/pipeline"
	"github.com/joseph-ayodele/cv-extractor/internal/repository"
)

// Outcome is what one processed file produced.
type Outcome struct {
	RunID    string
	Path     string
	Hash     string
	Result   *entity.Result
	Artifact string
}

// Processor reads a file, reuses cached text when the content hash is
// known, runs the pipeline and writes the artifacts.
type Processor struct {
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	cache    repository.TextCacheRepository
	region   string
	outDir   string
}

type Option func(*Processor)

// WithTextCache enables the content-hash text cache.
func WithTextCache(c repository.TextCacheRepository) Option {
	return func(p *Processor) { p.cache = c }
}

// WithPhoneRegion sets the default phone region hint.
func WithPhoneRegion(region string) Option {
	return func(p *Processor) { p.region = strings.ToUpper(strings.TrimSpace(region)) }
}

// WithOutputDir sets where artifacts go; empty means next to the input.
func WithOutputDir(dir string) Option {
	return func(p *Processor) { p.outDir = dir }
}

func NewProcessor(logger *slog.Logger, pl *pipeline.Pipeline, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{logger: logger, pipeline: pl}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Pipeline exposes the wrapped pipeline.
func (p *Processor) Pipeline() *pipeline.Pipeline { return p.pipeline }

// ProcessFile runs one file end to end and writes <stem>_CV.json and CV.json.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Outcome, error) {
	runID := uuid.NewString()
	ctx = common.WithRunID(common.WithSource(ctx, path), runID)

	doc, err := loader.ReadFile(path)
	if err != nil {
		p.logger.Error("processor.read.failed", "path", path, "run_id", runID, "err", err)
		return nil, err
	}
	sum := sha256.Sum256(doc.Data)
	hash := hex.EncodeToString(sum[:])

	res, err := p.extract(ctx, doc, hash)
	if err != nil {
		return nil, err
	}
	res.SourceFile = path

	dir := p.outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	artifact, err := WriteArtifacts(dir, stem(path), res)
	if err != nil {
		p.logger.Error("processor.write.failed", "path", path, "run_id", runID, "err", err)
		return nil, err
	}
	p.logger.Info("processor.file.ok", "path", path, "run_id", runID, "artifact", artifact)
	return &Outcome{RunID: runID, Path: path, Hash: hash, Result: res, Artifact: artifact}, nil
}

func (p *Processor) extract(ctx context.Context, doc loader.RawDocument, hash string) (*entity.Result, error) {
	if p.cache != nil && len(doc.Data) > 0 {
		cached, err := p.cache.Get(ctx, hash)
		switch {
		case err == nil:
			p.logger.Debug("processor.cache.hit", "name", doc.Name, "hash", hash)
			res := p.pipeline.FromText(ctx, doc.Name, cached.Text, p.region)
			res.Diagnostics = &entity.Diagnostics{
				Format: constants.MapExtToFormat(constants.NormalizeExt(filepath.Ext(doc.Name))),
				Method: cached.Method,
				Pages:  cached.Pages,
				Bytes:  len(doc.Data),
				Cached: true,
			}
			return res, nil
		case !errors.Is(err, common.ErrNotFound):
			p.logger.Warn("processor.cache.get", "hash", hash, "err", err)
		}
	}

	res, out, err := p.pipeline.Run(ctx, doc, p.region)
	if err != nil {
		return nil, err
	}
	if p.cache != nil && out.Method != constants.MethodEmpty {
		ct := repository.CachedText{Hash: hash, Method: out.Method, Pages: out.Pages, Text: out.Text}
		if err := p.cache.Put(ctx, ct); err != nil {
			p.logger.Warn("processor.cache.put", "hash", hash, "err", err)
		}
	}
	return res, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

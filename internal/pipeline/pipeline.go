package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/cv-extractor/constants"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/entity"
	"github.com/joseph-ayodele/cv-extractor/internal/loader"
	"github.com/joseph-ayodele/cv-extractor/internal/schema"
)

// Pipeline loads a document and aggregates its profile. It holds no
// per-document state and is safe for concurrent use.
type Pipeline struct {
	Logger *slog.Logger
	Loader *loader.Loader
	Agg    *Aggregator
}

func New(logger *slog.Logger, l *loader.Loader, agg *Aggregator) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if l == nil {
		l = loader.New(logger)
	}
	if agg == nil {
		agg = NewAggregator(nil, 0, logger)
	}
	return &Pipeline{Logger: logger, Loader: l, Agg: agg}
}

// Extract runs the whole pipeline on one document. The error is either an
// unsupported format or an OCR failure; everything else degrades to a
// sparser profile.
func (p *Pipeline) Extract(ctx context.Context, doc loader.RawDocument, region string) (*entity.Result, error) {
	res, _, err := p.Run(ctx, doc, region)
	return res, err
}

// Run is Extract that also returns the loader output, for callers that cache text.
func (p *Pipeline) Run(ctx context.Context, doc loader.RawDocument, region string) (*entity.Result, loader.Output, error) {
	start := time.Now()
	out, err := p.Loader.Load(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.load.failed", "name", doc.Name, "run_id", common.RunIDFromContext(ctx), "err", err)
		return nil, out, err
	}
	res := p.FromText(ctx, doc.Name, out.Text, region)
	diag := out.Diagnostics
	res.Diagnostics = &diag

	p.Logger.Info("pipeline.extract.ok",
		"name", doc.Name,
		"source", common.SourceFromContext(ctx),
		"run_id", common.RunIDFromContext(ctx),
		"method", out.Method,
		"pages", out.Pages,
		"emails", len(res.Fields.Emails),
		"experience", len(res.Fields.Sections.Experience),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, out, nil
}

// FromText aggregates already-extracted text.
func (p *Pipeline) FromText(ctx context.Context, name, text, region string) *entity.Result {
	res := &entity.Result{
		SourceFile:    name,
		ExtractedWith: constants.ExtractedWithLabel,
		Fields:        p.Agg.Aggregate(ctx, text, region),
	}
	if b, err := json.Marshal(res.Fields); err != nil {
		p.Logger.Error("pipeline.profile.encode", "name", name, "err", err)
	} else if err := schema.ValidateProfile(b); err != nil {
		p.Logger.Error("pipeline.profile.schema", "name", name, "err", err)
	}
	return res
}

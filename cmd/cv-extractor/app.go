package main

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/joseph-ayodele/cv-extractor/internal/async"
	"github.com/joseph-ayodele/cv-extractor/internal/common"
	"github.com/joseph-ayodele/cv-extractor/internal/loader"
	"github.com/joseph-ayodele/cv-extractor/internal/ner"
	"github.com/joseph-ayodele/cv-extractor/internal/ocr"
	"github.com/joseph-ayodele/cv-extractor/internal/pipeline"
	"github.com/joseph-ayodele/cv-extractor/internal/processor"
	"github.com/joseph-ayodele/cv-extractor/internal/repository"
)

// application holds the process-wide engines and the wired processor.
type application struct {
	cfg    *common.Config
	logger *slog.Logger
	ocr    *ocr.Engine
	ner    *ner.Engine
	db     *repository.DB
	proc   *processor.Processor
}

func newApp(ctx context.Context, v *viper.Viper, cfgFile string) (*application, error) {
	cfg, err := common.LoadConfig(v, cfgFile)
	if err != nil {
		return nil, err
	}
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	a := &application{cfg: cfg, logger: logger}
	a.ocr = ocr.NewEngine(ocr.ConfigFrom(cfg.OCR), logger)
	if err := a.ocr.Init(ctx); err != nil {
		logger.Error("failed to initialise ocr engine", "error", err)
		return nil, err
	}

	var rec ner.Recognizer
	if cfg.NER.Enabled {
		a.ner = ner.NewEngine(logger)
		if err := a.ner.Init(ctx); err != nil {
			a.Close()
			logger.Error("failed to initialise ner engine", "error", err)
			return nil, err
		}
		rec = a.ner
	}

	ld := loader.New(logger, loader.WithOCR(a.ocr), loader.WithTextLayer(a.ocr))
	pl := pipeline.New(logger, ld, pipeline.NewAggregator(rec, cfg.NER.MaxCandidates, logger))

	opts := []processor.Option{
		processor.WithPhoneRegion(cfg.Output.PhoneRegion),
		processor.WithOutputDir(cfg.Output.Dir),
	}
	if cfg.Cache.Enabled {
		a.db, err = repository.Open(ctx, repository.Config{Driver: cfg.Cache.Driver, DSN: cfg.Cache.DSN}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := a.db.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, processor.WithTextCache(repository.NewTextCacheRepository(a.db, cfg.Cache.TTL, logger)))
	}
	a.proc = processor.NewProcessor(logger, pl, opts...)
	return a, nil
}

// newPool sizes a worker pool from config. Jobs are cancelled with ctx.
func (a *application) newPool(ctx context.Context, extra ...async.Option) *async.Pool {
	opts := []async.Option{
		async.WithBaseContext(ctx),
		async.WithWorkers(a.cfg.Pool.Workers),
		async.WithQueueSize(a.cfg.Pool.QueueSize),
		async.WithProcessTimeout(a.cfg.Pool.JobTimeout),
		async.WithBlockOnFull(a.cfg.Pool.BlockOnFull),
	}
	return async.NewPool(a.logger, append(opts, extra...)...)
}

func (a *application) Close() {
	if a.ner != nil {
		a.ner.Shutdown()
	}
	if a.ocr != nil {
		a.ocr.Shutdown()
	}
	if a.db != nil {
		a.db.Close(a.logger)
	}
}

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/cv-extractor/internal/ingest"
)

func newWatchCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and extract documents as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, v, *cfgFile, args[0])
		},
	}
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "coalesce bursts of file events")
	cmd.Flags().Bool("initial-scan", true, "process documents already in the directory")
	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper, cfgFile, dir string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, v, cfgFile)
	if err != nil {
		return err
	}
	defer a.Close()

	pool := a.newPool(ctx)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Pool.JobTimeout)
		defer cancel()
		pool.Shutdown(sctx)
	}()

	debounce, _ := cmd.Flags().GetDuration("debounce")
	initial, _ := cmd.Flags().GetBool("initial-scan")
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: initial,
		SkipHidden:  true,
		Debounce:    debounce,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	ing := ingest.NewIngestor(a.logger, true)
	submit := func(ctx context.Context, path string) error {
		_, err := pool.Submit(ctx, path, func(jctx context.Context) error {
			_, err := a.proc.ProcessFile(jctx, path)
			return err
		})
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := ing.IngestPath(ctx, path, submit); err != nil {
				a.logger.Warn("document not queued", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/cv-extractor/internal/async"
	"github.com/joseph-ayodele/cv-extractor/internal/export"
	"github.com/joseph-ayodele/cv-extractor/internal/ingest"
	"github.com/joseph-ayodele/cv-extractor/internal/processor"
)

func newBatchCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract every supported document under a directory and write an XLSX summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, v, *cfgFile, args[0])
		},
	}
	cmd.Flags().String("xlsx", "", "summary workbook path (default: profiles.xlsx in the output dir or <dir>)")
	cmd.Flags().Bool("include-hidden", false, "also walk hidden files and directories")
	return cmd
}

func runBatch(cmd *cobra.Command, v *viper.Viper, cfgFile, dir string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, v, cfgFile)
	if err != nil {
		return err
	}
	defer a.Close()

	// batch never drops work, it waits for queue space
	pool := a.newPool(ctx, async.WithBlockOnFull(true))
	defer pool.Shutdown(context.Background())

	includeHidden, _ := cmd.Flags().GetBool("include-hidden")
	ing := ingest.NewIngestor(a.logger, !includeHidden)

	var (
		mu   sync.Mutex
		rows []export.Row
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Workers() + a.cfg.Pool.QueueSize)

	_, stats, err := ing.IngestDirectory(gctx, dir, func(_ context.Context, path string) error {
		g.Go(func() error {
			oc, err := async.DoValue(gctx, pool, path, func(jctx context.Context) (*processor.Outcome, error) {
				return a.proc.ProcessFile(jctx, path)
			})
			if errors.Is(err, context.Canceled) {
				return err
			}
			row := export.Row{Path: path, Err: err}
			if oc != nil {
				row.Result, row.Artifact = oc.Result, oc.Artifact
			}
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
		return nil
	})
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	xlsx, _ := cmd.Flags().GetString("xlsx")
	if xlsx == "" {
		base := a.cfg.Output.Dir
		if base == "" {
			base = dir
		}
		xlsx = filepath.Join(base, "profiles.xlsx")
	}
	if err := export.NewService(a.logger).WriteProfilesXLSX(xlsx, rows); err != nil {
		a.logger.Error("failed to write summary", "path", xlsx, "error", err)
		return err
	}

	failed := 0
	for _, r := range rows {
		if r.Err != nil {
			failed++
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "processed %d, failed %d, duplicates %d, summary %s\n",
		len(rows)-failed, failed, stats.Deduplicated, xlsx)
	return err
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/cv-extractor/internal/loader"
)

// newTextCmd prints the normalized text the loader produces, for checking
// OCR and PDF extraction without running the field extractors.
func newTextCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "text <path>",
		Short: "Print the normalized text of a document and how it was obtained",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, v, *cfgFile)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := loader.ReadFile(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := a.proc.Pipeline().Loader.Load(ctx, doc)
			if err != nil {
				a.logger.Error("text extraction failed", "path", args[0], "error", err)
				return err
			}
			a.logger.Info("text extraction OK",
				"path", args[0],
				"method", out.Method,
				"pages", out.Pages,
				"confidence", out.Diagnostics.Confidence,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return err
		},
	}
}
